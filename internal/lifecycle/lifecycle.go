// ABOUTME: Lifecycle engine: dependency-aware install, update (remove then install), and exact removal
// ABOUTME: Operates on an explicit manifest value; the caller loads it once and saves it once per command

package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/fetch"
	"github.com/mauromedda/kjspkg-go/internal/fsutil"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/manifest"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
	"github.com/mauromedda/kjspkg-go/internal/placement"
	"github.com/mauromedda/kjspkg-go/internal/registry"
)

// Engine wires the resolver, fetcher, and placement engine together.
type Engine struct {
	Resolver registry.Resolver
	Fetcher  fetch.Fetcher
	Placer   *placement.Engine
	Staging  fetch.Staging
}

// InstallOptions controls a single Install call.
type InstallOptions struct {
	// Update removes an installed copy first instead of skipping it.
	Update bool
	// SkipMissing turns PackageNotFound into a silent no-op for the named
	// package. Dependencies are always installed strictly.
	SkipMissing bool
}

// Install installs name and, first, its declared dependencies.
// An already-installed package is left untouched unless opts.Update is set.
// No rollback happens on failure: work committed to m before the failing
// step (including dependencies) stays recorded.
func (e *Engine) Install(ctx context.Context, m *manifest.Manifest, name string, opts InstallOptions) error {
	run := &installRun{engine: e, manifest: m}
	return run.install(ctx, manifest.Normalize(name), opts.Update, opts.SkipMissing)
}

// Update reinstalls name from the registry.
func (e *Engine) Update(ctx context.Context, m *manifest.Manifest, name string, skipMissing bool) error {
	return e.Install(ctx, m, name, InstallOptions{Update: true, SkipMissing: skipMissing})
}

// Remove deletes every script subtree and recorded asset file of name and
// erases its ledger entry. Files already gone are tolerated. Asset paths
// also recorded by another installed package are left in place.
func (e *Engine) Remove(m *manifest.Manifest, name string, skipMissing bool) error {
	name = manifest.Normalize(name)
	files, ok := m.Files(name)
	if !ok {
		if skipMissing {
			log.Debug("%s: not installed, skipping", name)
			return nil
		}
		return pkgerr.Wrap("remove", name, pkgerr.ErrPackageNotInstalled)
	}

	// Resolve every path before deleting anything so a bad entry cannot
	// leave the package half removed.
	if err := registry.ValidateName(name); err != nil {
		return pkgerr.Wrap("remove", name, fmt.Errorf("%w: ledger key: %v", pkgerr.ErrFilesystem, err))
	}
	dirs := e.Placer.ScriptDirs(name)
	for _, dir := range dirs {
		if err := within(e.Placer.Root, dir); err != nil {
			return pkgerr.Wrap("remove", name, fmt.Errorf("%w: script dir: %v", pkgerr.ErrFilesystem, err))
		}
	}
	targets := make([]string, len(files))
	for i, rel := range files {
		full, err := fsutil.Within(e.Placer.Root, rel)
		if err != nil {
			return pkgerr.Wrap("remove", name, fmt.Errorf("%w: recorded asset: %v", pkgerr.ErrFilesystem, err))
		}
		targets[i] = full
	}

	for _, dir := range dirs {
		log.Debug("%s: removing %s", name, dir)
		if err := os.RemoveAll(dir); err != nil {
			return pkgerr.Wrap("remove", name, fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err))
		}
	}

	claimed := m.ClaimedByOthers(name)
	for i, full := range targets {
		if owner, shared := claimed[files[i]]; shared {
			log.Debug("%s: keeping %s, also recorded by %s", name, files[i], owner)
			continue
		}
		if err := fsutil.RemoveFile(full); err != nil {
			return pkgerr.Wrap("remove", name, fmt.Errorf("%w: %v", pkgerr.ErrFilesystem, err))
		}
	}

	m.Forget(name)
	log.Debug("%s: removed (%d asset files)", name, len(files))
	return nil
}

// within reports an error unless path lies strictly below root.
func within(root, path string) error {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	rel, err := filepath.Rel(absRoot, absPath)
	if err != nil {
		return err
	}
	_, err = fsutil.Within(absRoot, rel)
	return err
}

// installRun tracks the packages still resolving within one top-level
// Install call so a dependency cycle fails instead of recursing forever.
type installRun struct {
	engine   *Engine
	manifest *manifest.Manifest
	stack    []string
}

func (r *installRun) install(ctx context.Context, name string, update, skipMissing bool) error {
	if err := registry.ValidateName(name); err != nil {
		return pkgerr.Wrap("install", name, err)
	}
	m := r.manifest

	if m.Has(name) && !update {
		log.Debug("%s: already installed", name)
		return nil
	}
	if r.resolving(name) {
		chain := strings.Join(append(r.stack, name), " -> ")
		return pkgerr.Wrap("install", name, fmt.Errorf("%w: %s", pkgerr.ErrDependencyCycle, chain))
	}
	if err := ctx.Err(); err != nil {
		return pkgerr.Wrap("install", name, err)
	}

	if update {
		if err := r.engine.Remove(m, name, true); err != nil {
			return err
		}
	}

	log.Debug("%s: resolving", name)
	desc, err := r.engine.Resolver.Resolve(ctx, name)
	if errors.Is(err, pkgerr.ErrPackageNotFound) {
		if skipMissing {
			log.Debug("%s: not found, skipping", name)
			return nil
		}
		return pkgerr.Wrap("install", name, pkgerr.ErrPackageNotFound)
	}
	if err != nil {
		return pkgerr.Wrap("resolve", name, err)
	}

	if err := checkCompatible(m, desc); err != nil {
		return pkgerr.Wrap("install", name, err)
	}

	r.stack = append(r.stack, name)
	defer func() { r.stack = r.stack[:len(r.stack)-1] }()

	for _, dep := range desc.Dependencies {
		log.Debug("%s: installing dependency %s", name, dep)
		if err := r.install(ctx, dep, false, false); err != nil {
			return pkgerr.Wrap("install", name, fmt.Errorf("dependency %s: %w", dep, err))
		}
	}

	log.Debug("%s: fetching %s", name, desc.Repo)
	staged, err := r.engine.Fetcher.Fetch(ctx, name, desc.Repo)
	if err != nil {
		return pkgerr.Wrap("fetch", name, err)
	}

	log.Debug("%s: placing %s", name, staged)
	assets, err := r.engine.Placer.Place(ctx, staged, name)
	if err != nil {
		return pkgerr.Wrap("place", name, err)
	}

	m.Record(name, assets)
	log.Debug("%s: recorded %d asset files", name, len(assets))

	if err := r.engine.Staging.Discard(name); err != nil {
		log.Warn("%v", err)
	}
	return nil
}

func (r *installRun) resolving(name string) bool {
	for _, n := range r.stack {
		if n == name {
			return true
		}
	}
	return false
}

func checkCompatible(m *manifest.Manifest, d *registry.Descriptor) error {
	if !d.SupportsVersion(m.Version) {
		return fmt.Errorf("%w %s for package %q", pkgerr.ErrIncompatibleVersion, config.VersionName(m.Version), d.Name)
	}
	if !d.SupportsLoader(m.Loader) {
		return fmt.Errorf("%w %q for package %q", pkgerr.ErrIncompatibleLoader, m.Loader, d.Name)
	}
	return nil
}
