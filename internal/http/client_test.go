// ABOUTME: Tests for the shared resty client factory
// ABOUTME: Checks the user agent header and the per-request timeout

package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewClient_UserAgent(t *testing.T) {
	t.Parallel()
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	resp, err := NewClient(0).R().Get(srv.URL)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if resp.StatusCode() != http.StatusOK {
		t.Errorf("status = %d", resp.StatusCode())
	}
	if got != UserAgent {
		t.Errorf("User-Agent = %q; want %q", got, UserAgent)
	}
}

func TestNewClient_Timeout(t *testing.T) {
	t.Parallel()
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	if _, err := NewClient(50 * time.Millisecond).R().Get(srv.URL); err == nil {
		t.Error("expected timeout error")
	}
}
