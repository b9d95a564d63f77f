// ABOUTME: Repo reference parsing: "owner/repo", "owner/repo#ref", or a full git URL
// ABOUTME: Rejects values that git could read as options before anything is executed

package fetch

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Ref is a parsed repository reference.
type Ref struct {
	Repo string // owner/repo or an absolute git URL
	Rev  string // branch or tag; empty means the default branch
}

// ParseRef splits raw on '#' into repo and revision and validates both.
func ParseRef(raw string) (Ref, error) {
	raw = strings.TrimSpace(raw)
	repo, rev, _ := strings.Cut(raw, "#")
	repo = strings.TrimSuffix(strings.TrimRight(repo, "/"), ".git")

	if repo == "" {
		return Ref{}, fmt.Errorf("empty repo reference %q", raw)
	}
	if err := checkArg("repo", repo); err != nil {
		return Ref{}, err
	}
	if rev != "" {
		if err := checkArg("revision", rev); err != nil {
			return Ref{}, err
		}
	}
	return Ref{Repo: repo, Rev: rev}, nil
}

// checkArg refuses option-looking or whitespace-bearing values.
func checkArg(what, s string) error {
	if strings.HasPrefix(s, "-") {
		return fmt.Errorf("%s %q must not start with '-'", what, s)
	}
	for _, r := range s {
		if r <= ' ' || r == 0x7f {
			return fmt.Errorf("%s %q contains whitespace or control characters", what, s)
		}
	}
	if strings.Contains(s, "..") {
		return fmt.Errorf("%s %q must not contain '..'", what, s)
	}
	return nil
}

// IsURL reports whether the repo is already an absolute git location.
func (r Ref) IsURL() bool {
	return strings.Contains(r.Repo, "://") || strings.HasPrefix(r.Repo, "git@")
}

// CloneURL returns the location git should clone from. host is either a
// URL base like https://github.com or a local directory.
func (r Ref) CloneURL(host string) string {
	if r.IsURL() {
		return r.Repo
	}
	if !strings.Contains(host, "://") {
		return filepath.Join(host, filepath.FromSlash(r.Repo))
	}
	return strings.TrimRight(host, "/") + "/" + r.Repo + ".git"
}

// ArchiveURL returns the tarball location for hosts that serve
// <repo>/archive/<rev>.tar.gz.
func (r Ref) ArchiveURL(host string) string {
	rev := r.Rev
	if rev == "" {
		rev = "HEAD"
	}
	base := r.Repo
	if !r.IsURL() {
		base = strings.TrimRight(host, "/") + "/" + r.Repo
	}
	return base + "/archive/" + rev + ".tar.gz"
}

func (r Ref) String() string {
	if r.Rev == "" {
		return r.Repo
	}
	return r.Repo + "#" + r.Rev
}
