// ABOUTME: Tree fetcher contract and the package-scoped staging area it fills
// ABOUTME: Every fetch replaces staging/<name>/ wholesale; failures leave no partial tree behind

package fetch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
)

// Fetcher materializes a package's source tree under the staging area and
// returns the staged root.
type Fetcher interface {
	Fetch(ctx context.Context, name, repoRef string) (string, error)
}

// Staging is the process-wide staging root; packages get disjoint
// subdirectories keyed by name.
type Staging struct {
	Root string
}

// Dir returns the staging directory for name.
func (s Staging) Dir(name string) string {
	return filepath.Join(s.Root, name)
}

// Prepare empties the staging directory for name and returns its path.
// The directory itself is not created; fetchers create it.
func (s Staging) Prepare(name string) (string, error) {
	dir := s.Dir(name)
	if err := os.RemoveAll(dir); err != nil {
		return "", fmt.Errorf("clearing staging dir %s: %w", dir, err)
	}
	if err := os.MkdirAll(s.Root, 0o755); err != nil {
		return "", fmt.Errorf("creating staging root %s: %w", s.Root, err)
	}
	return dir, nil
}

// Discard removes the staging directory for name.
func (s Staging) Discard(name string) error {
	if err := os.RemoveAll(s.Dir(name)); err != nil {
		return fmt.Errorf("discarding staging dir for %s: %w", name, err)
	}
	return nil
}

// Clear removes the whole staging root. Called once per process.
func (s Staging) Clear() error {
	log.Debug("clearing staging root %s", s.Root)
	if err := os.RemoveAll(s.Root); err != nil {
		return fmt.Errorf("clearing staging root %s: %w", s.Root, err)
	}
	return nil
}

// New builds the fetcher selected by settings.
func New(s *config.Settings, staging Staging) (Fetcher, error) {
	switch s.FetchMode {
	case config.FetchGit, "":
		return &GitFetcher{Host: s.RepoHost, Staging: staging}, nil
	case config.FetchArchive:
		return NewArchiveFetcher(s.RepoHost, staging, s.Timeout), nil
	case config.FetchLocal:
		return &LocalFetcher{Dir: s.RepoHost, Staging: staging}, nil
	default:
		return nil, fmt.Errorf("unknown fetch mode %q", s.FetchMode)
	}
}

// dropGitDir strips repository metadata from a staged tree.
func dropGitDir(target string) error {
	if err := os.RemoveAll(filepath.Join(target, ".git")); err != nil {
		return fmt.Errorf("%w: removing .git from %s: %v", pkgerr.ErrFilesystem, target, err)
	}
	return nil
}

func elapsed(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
