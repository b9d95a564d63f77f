// ABOUTME: Git fetcher shallow-clones a package repository into its staging directory
// ABOUTME: Honors a #branch/tag suffix; the .git directory is dropped after cloning

package fetch

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
)

// GitFetcher implements Fetcher using git clone.
type GitFetcher struct {
	Host    string // clone base, e.g. https://github.com, or a local directory
	Staging Staging
}

// Fetch clones repoRef into staging/<name>.
func (g *GitFetcher) Fetch(ctx context.Context, name, repoRef string) (string, error) {
	ref, err := ParseRef(repoRef)
	if err != nil {
		return "", err
	}
	target, err := g.Staging.Prepare(name)
	if err != nil {
		return "", fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err)
	}

	url := ref.CloneURL(g.Host)
	args := []string{"clone", "--depth", "1", "--quiet"}
	if ref.Rev != "" {
		args = append(args, "--branch", ref.Rev)
	}
	args = append(args, "--", url, target)

	start := time.Now()
	log.Debug("git %s", strings.Join(args, " "))

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stderr = &stderr
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	if err := cmd.Run(); err != nil {
		os.RemoveAll(target)
		msg := strings.TrimSpace(stderr.String())
		return "", fmt.Errorf("%w: git clone %s: %v: %s", pkgerr.ErrTransport, url, err, msg)
	}

	if err := dropGitDir(target); err != nil {
		return "", err
	}

	log.Debug("cloned %s into %s in %s", ref, target, elapsed(start))
	return target, nil
}
