// ABOUTME: Archive fetcher downloads <host>/<repo>/archive/<rev>.tar.gz and unpacks it into staging
// ABOUTME: The single top-level directory of the tarball is stripped; escaping entries are rejected

package fetch

import (
	"archive/tar"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/klauspost/compress/gzip"

	"github.com/mauromedda/kjspkg-go/internal/fsutil"
	kjshttp "github.com/mauromedda/kjspkg-go/internal/http"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
)

// ArchiveFetcher implements Fetcher by downloading a gzipped tarball.
// Useful where git is not installed.
type ArchiveFetcher struct {
	Host    string
	Staging Staging
	client  *resty.Client
}

// NewArchiveFetcher creates an archive fetcher. A zero timeout leaves the
// download bounded only by ctx.
func NewArchiveFetcher(host string, staging Staging, timeout time.Duration) *ArchiveFetcher {
	return &ArchiveFetcher{Host: host, Staging: staging, client: kjshttp.NewClient(timeout)}
}

// Fetch downloads and unpacks repoRef into staging/<name>.
func (a *ArchiveFetcher) Fetch(ctx context.Context, name, repoRef string) (string, error) {
	ref, err := ParseRef(repoRef)
	if err != nil {
		return "", err
	}
	target, err := a.Staging.Prepare(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err)
	}

	url := ref.ArchiveURL(a.Host)
	start := time.Now()
	log.Debug("downloading %s", url)

	resp, err := a.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("%w: downloading %s: %v", pkgerr.ErrTransport, url, err)
	}
	body := resp.RawBody()
	defer body.Close()

	if resp.IsError() {
		return "", fmt.Errorf("%w: downloading %s: status %d", pkgerr.ErrTransport, url, resp.StatusCode())
	}

	if err := extractTarGz(body, target); err != nil {
		os.RemoveAll(target)
		return "", fmt.Errorf("%w: unpacking %s: %v", pkgerr.ErrTransport, url, err)
	}

	log.Debug("unpacked %s into %s in %s", ref, target, elapsed(start))
	return target, nil
}

// extractTarGz unpacks r into dest, dropping the first path component of
// every entry (GitHub archives wrap the tree in <repo>-<rev>/).
func extractTarGz(r io.Reader, dest string) error {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("gzip: %w", err)
	}
	defer gz.Close()

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return err
	}

	tr := tar.NewReader(gz)
	for {
		header, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("tar: %w", err)
		}

		rel := stripFirst(header.Name)
		if rel == "" {
			continue
		}
		target, err := fsutil.Within(dest, rel)
		if err != nil {
			return fmt.Errorf("entry %s: %w", header.Name, err)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}
		default:
			// links, devices, pax globals: not part of a package tree
		}
	}
}

func stripFirst(name string) string {
	name = strings.TrimPrefix(path.Clean("/"+name), "/")
	_, rest, ok := strings.Cut(name, "/")
	if !ok {
		return ""
	}
	return rest
}

func writeEntry(r io.Reader, target string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if perm == 0 {
		perm = 0o644
	}
	f, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
