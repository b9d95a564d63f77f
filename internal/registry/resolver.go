// ABOUTME: Descriptor resolvers: HTTP registry via resty, local directory mirror, and an LRU cache
// ABOUTME: NotFound is reported as pkgerr.ErrPackageNotFound, distinct from transport failures

package registry

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/mailru/easyjson"

	"github.com/mauromedda/kjspkg-go/internal/config"
	kjshttp "github.com/mauromedda/kjspkg-go/internal/http"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
)

// Resolver looks up a package descriptor by (lowercase) name.
type Resolver interface {
	Resolve(ctx context.Context, name string) (*Descriptor, error)
}

// New builds the resolver described by settings. A registry given as a
// file:// URL or a plain path is served from disk.
func New(s *config.Settings) (Resolver, error) {
	var r Resolver
	if dir, ok := localDir(s.RegistryURL); ok {
		r = NewDirResolver(dir)
	} else {
		r = NewHTTPResolver(s.RegistryURL, s.Timeout)
	}
	if s.CacheSize <= 0 {
		return r, nil
	}
	return NewCachedResolver(r, s.CacheSize)
}

func localDir(raw string) (string, bool) {
	if strings.HasPrefix(raw, "file://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false
		}
		return filepath.FromSlash(u.Path), true
	}
	if !strings.Contains(raw, "://") {
		return raw, true
	}
	return "", false
}

// ---------------------------------------------------------------------------
// HTTP
// ---------------------------------------------------------------------------

// HTTPResolver fetches <baseURL>/<name>.json.
type HTTPResolver struct {
	client *resty.Client
}

// NewHTTPResolver creates a resolver against baseURL. A zero timeout leaves
// the request unbounded except by ctx.
func NewHTTPResolver(baseURL string, timeout time.Duration) *HTTPResolver {
	client := kjshttp.NewClient(timeout).
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetHeader("Accept", "application/json")
	return &HTTPResolver{client: client}
}

// Resolve implements Resolver.
func (r *HTTPResolver) Resolve(ctx context.Context, name string) (*Descriptor, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	log.Debug("resolving %s from %s", name, r.client.BaseURL)
	resp, err := r.client.R().
		SetContext(ctx).
		SetPathParam("name", name).
		Get("/{name}.json")
	if err != nil {
		return nil, fmt.Errorf("%w: fetching descriptor for %s: %v", pkgerr.ErrTransport, name, err)
	}

	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return nil, pkgerr.ErrPackageNotFound
	case resp.IsError():
		return nil, fmt.Errorf("%w: registry returned status %d for %s", pkgerr.ErrTransport, resp.StatusCode(), name)
	}

	return decode(name, resp.Body())
}

// ---------------------------------------------------------------------------
// Directory
// ---------------------------------------------------------------------------

// DirResolver reads <dir>/<name>.json, for offline mirrors and tests.
type DirResolver struct {
	dir string
}

// NewDirResolver creates a resolver over dir.
func NewDirResolver(dir string) *DirResolver {
	return &DirResolver{dir: dir}
}

// Resolve implements Resolver.
func (r *DirResolver) Resolve(_ context.Context, name string) (*Descriptor, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	path := filepath.Join(r.dir, name+".json")
	log.Debug("resolving %s from %s", name, path)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerr.ErrPackageNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading descriptor %s: %v", pkgerr.ErrTransport, path, err)
	}
	return decode(name, data)
}

func decode(name string, data []byte) (*Descriptor, error) {
	var d Descriptor
	if err := easyjson.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("%w: decoding descriptor for %s: %v", pkgerr.ErrTransport, name, err)
	}
	d.Name = name
	if err := d.validate(); err != nil {
		return nil, fmt.Errorf("%w: descriptor for %s: %v", pkgerr.ErrTransport, name, err)
	}
	return &d, nil
}

// ---------------------------------------------------------------------------
// Cache
// ---------------------------------------------------------------------------

// CachedResolver memoizes successful lookups for the life of the process,
// so shared dependencies in one command are resolved once.
type CachedResolver struct {
	next  Resolver
	cache *lru.Cache[string, *Descriptor]
}

// NewCachedResolver wraps next with an LRU of the given size.
func NewCachedResolver(next Resolver, size int) (*CachedResolver, error) {
	cache, err := lru.New[string, *Descriptor](size)
	if err != nil {
		return nil, fmt.Errorf("creating descriptor cache: %w", err)
	}
	return &CachedResolver{next: next, cache: cache}, nil
}

// Resolve implements Resolver. Failures are never cached.
func (c *CachedResolver) Resolve(ctx context.Context, name string) (*Descriptor, error) {
	if d, ok := c.cache.Get(name); ok {
		log.Debug("descriptor cache hit: %s", name)
		return d, nil
	}
	d, err := c.next.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	c.cache.Add(name, d)
	return d, nil
}
