// ABOUTME: Local fetcher copies a package tree from a directory of checked-out repos
// ABOUTME: Used for offline mirrors and package development; the revision suffix is ignored

package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mauromedda/kjspkg-go/internal/fsutil"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
)

// LocalFetcher implements Fetcher by copying <Dir>/<repo>.
type LocalFetcher struct {
	Dir     string
	Staging Staging
}

// Fetch copies the repository directory into staging/<name>.
func (l *LocalFetcher) Fetch(_ context.Context, name, repoRef string) (string, error) {
	ref, err := ParseRef(repoRef)
	if err != nil {
		return "", err
	}
	if ref.IsURL() {
		return "", fmt.Errorf("local fetcher cannot clone %s", ref.Repo)
	}

	src, err := filepath.Abs(filepath.Join(l.Dir, filepath.FromSlash(ref.Repo)))
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", ref.Repo, err)
	}
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("%w: source %s: %v", pkgerr.ErrTransport, src, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: source %s is not a directory", pkgerr.ErrTransport, src)
	}

	target, err := l.Staging.Prepare(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err)
	}
	if err := fsutil.CopyDir(src, target); err != nil {
		os.RemoveAll(target)
		return "", fmt.Errorf("%w: copying %s: %v", pkgerr.ErrFilesystem, src, err)
	}
	if err := dropGitDir(target); err != nil {
		return "", err
	}

	log.Debug("copied %s into %s", src, target)
	return target, nil
}
