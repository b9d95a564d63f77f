// ABOUTME: Shared resty client for registry lookups and archive downloads
// ABOUTME: Bounded transport timeouts so a stalled server cannot hang a command forever

package http

import (
	"net"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
)

// UserAgent is sent with every request.
const UserAgent = "kjspkg-go"

// NewClient returns a resty client over a transport with bounded dial,
// TLS and header timeouts. timeout caps each whole request; zero leaves
// it bounded only by the request context, which suits large downloads.
func NewClient(timeout time.Duration) *resty.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   15 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		MaxIdleConns:          10,
		MaxIdleConnsPerHost:   4,
	}
	client := resty.NewWithClient(&http.Client{Transport: transport}).
		SetHeader("User-Agent", UserAgent)
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return client
}
