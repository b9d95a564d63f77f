// ABOUTME: Handlers for each kjspkg command; every handler parses its own flags
// ABOUTME: Multi-package commands stop at the first failure, keeping earlier packages committed

package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/fetch"
	"github.com/mauromedda/kjspkg-go/internal/lifecycle"
	"github.com/mauromedda/kjspkg-go/internal/manifest"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
	"github.com/mauromedda/kjspkg-go/internal/project"
	"github.com/mauromedda/kjspkg-go/internal/registry"
	"github.com/mauromedda/kjspkg-go/internal/ui"
)

const emptyList = "*nothing here, noone around to help*"

func runInstall(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet("install", s.global)
	quiet := fs.Bool("quiet", false, "no success messages")
	skip := fs.Bool("skipmissing", false, "skip packages that do not exist")
	update := fs.Bool("update", false, "reinstall packages that are already installed")
	names, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	s.applyGlobal()
	if len(names) == 0 {
		return errors.New("install requires at least one package name")
	}

	opts := lifecycle.InstallOptions{Update: *update, SkipMissing: *skip}
	for _, raw := range names {
		name := manifest.Normalize(raw)
		if err := s.app.Engine.Install(ctx, s.manifest, name, opts); err != nil {
			return err
		}
		if s.manifest.Has(name) {
			s.printf(*quiet, "Package %q installed successfully!", name)
		}
	}
	return nil
}

func runUpdate(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet("update", s.global)
	quiet := fs.Bool("quiet", false, "no success messages")
	skip := fs.Bool("skipmissing", false, "skip packages that do not exist")
	names, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	s.applyGlobal()
	if len(names) == 0 {
		return errors.New("update requires at least one package name")
	}

	for _, raw := range names {
		name := manifest.Normalize(raw)
		if err := s.app.Engine.Update(ctx, s.manifest, name, *skip); err != nil {
			return err
		}
		if s.manifest.Has(name) {
			s.printf(*quiet, "Package %q installed successfully!", name)
		}
	}
	return nil
}

func runRemove(_ context.Context, s *session, args []string) error {
	fs := newFlagSet("remove", s.global)
	quiet := fs.Bool("quiet", false, "no success messages")
	skip := fs.Bool("skipmissing", false, "skip packages that are not installed")
	names, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	s.applyGlobal()
	if len(names) == 0 {
		return errors.New("remove requires at least one package name")
	}

	for _, raw := range names {
		name := manifest.Normalize(raw)
		was := s.manifest.Has(name)
		if err := s.app.Engine.Remove(s.manifest, name, *skip); err != nil {
			return notInstalledHint(err, name, s.manifest)
		}
		if was {
			s.printf(*quiet, "Package %q removed successfully!", name)
		}
	}
	return nil
}

func runList(_ context.Context, s *session, args []string) error {
	fs := newFlagSet("list", s.global)
	count := fs.Bool("count", false, "print the number of installed packages")
	patterns, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	s.applyGlobal()

	for _, p := range patterns {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("invalid pattern %q", p)
		}
	}
	var names []string
	for _, name := range s.manifest.Names() {
		if matchesAny(name, patterns) {
			names = append(names, name)
		}
	}

	out := s.app.Stdout
	if *count {
		fmt.Fprintln(out, strconv.Itoa(len(names)))
		return nil
	}
	if len(names) == 0 {
		fmt.Fprintln(out, ui.Bold(emptyList))
		return nil
	}
	fmt.Fprintln(out, strings.Join(names, "\n"))
	return nil
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		if ok, _ := doublestar.Match(strings.ToLower(p), name); ok {
			return true
		}
	}
	return false
}

// runPkg resolves every named descriptor concurrently and prints the info
// pages in argument order.
func runPkg(ctx context.Context, s *session, args []string) error {
	fs := newFlagSet("pkg", s.global)
	names, err := parseInterspersed(fs, args)
	if err != nil {
		return err
	}
	s.applyGlobal()
	if len(names) == 0 {
		return errors.New("pkg requires at least one package name")
	}

	descs := make([]*registry.Descriptor, len(names))
	g, gctx := errgroup.WithContext(ctx)
	for i, name := range names {
		g.Go(func() error {
			d, err := s.app.Engine.Resolver.Resolve(gctx, strings.ToLower(name))
			if errors.Is(err, pkgerr.ErrPackageNotFound) {
				return pkgerr.Wrap("pkg", name, pkgerr.ErrPackageNotFound)
			}
			if err != nil {
				return err
			}
			descs[i] = d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for _, d := range descs {
		link := repoLink(s.app.Settings.RepoHost, d.Repo)
		fmt.Fprintln(s.app.Stdout, ui.RenderInfo(d, link, s.app.Width, s.app.Styled))
	}
	return nil
}

// repoLink returns a browsable URL for a descriptor's repository field.
func repoLink(host, repo string) string {
	ref, err := fetch.ParseRef(repo)
	if err != nil {
		return repo
	}
	if ref.IsURL() {
		return ref.Repo
	}
	return strings.TrimRight(host, "/") + "/" + ref.Repo
}

func runInit(_ context.Context, s *session, args []string) error {
	fs := newFlagSet("init", s.global)
	override := fs.Bool("override", false, "replace an existing project without asking")
	quiet := fs.Bool("quiet", false, "no messages; decline replacing an existing project")
	version := fs.String("version", "", "game version ("+strings.Join(config.MajorVersions, "/")+")")
	loader := fs.String("modloader", "", "modloader (forge/fabric/quilt)")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	s.applyGlobal()

	var confirm project.Confirmer = s.app.Confirm
	switch {
	case *override:
		confirm = project.Always
	case *quiet:
		confirm = project.Never
	}
	if project.IsPresent(s.app.Root) && !confirm.Confirm(project.OverridePrompt) {
		return pkgerr.ErrProjectExists
	}

	code, err := s.chooseVersion(*version)
	if err != nil {
		return err
	}
	l, err := s.chooseLoader(*loader)
	if err != nil {
		return err
	}

	b := &project.Bootstrap{Root: s.app.Root, Engine: s.app.Engine, Confirm: project.Always}
	m, err := b.Init(code, l)
	if err != nil {
		return err
	}
	s.manifest = m
	s.printf(*quiet, "Project created!")
	return nil
}

func (s *session) chooseVersion(v string) (int, error) {
	if v == "" {
		var err error
		v, err = s.app.Chooser.Choose("Input your minecraft version", config.MajorVersions)
		if err != nil {
			return 0, err
		}
	}
	code, ok := config.VersionCode(v)
	if !ok {
		return 0, fmt.Errorf("Unknown or unsupported version: %s", v)
	}
	return code, nil
}

func (s *session) chooseLoader(l string) (config.Loader, error) {
	if l == "" {
		var err error
		l, err = s.app.Chooser.Choose("Input your modloader", config.LoaderChoices)
		if err != nil {
			return "", err
		}
	}
	loader, err := config.ParseLoader(l)
	if err != nil {
		return "", fmt.Errorf("Unknown or unsupported modloader: %s", ui.TitleCase(l))
	}
	return loader, nil
}

func runUninit(_ context.Context, s *session, args []string) error {
	fs := newFlagSet("uninit", s.global)
	yes := fs.Bool("confirm", false, "do not ask for confirmation")
	if _, err := parseInterspersed(fs, args); err != nil {
		return err
	}
	s.applyGlobal()

	confirm := s.app.Confirm
	if *yes {
		confirm = project.Always
	}
	b := &project.Bootstrap{Root: s.app.Root, Engine: s.app.Engine, Confirm: confirm}
	err := b.Teardown(s.manifest)
	if errors.Is(err, project.ErrDeclined) {
		return nil
	}
	if err != nil {
		return err
	}
	s.manifest = nil
	return nil
}

func runHelp(_ context.Context, s *session, _ []string) error {
	fmt.Fprint(s.app.Stdout, helpText())
	return nil
}
