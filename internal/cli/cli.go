// ABOUTME: Command dispatch for kjspkg: install, remove, update, list, pkg, init, uninit, help
// ABOUTME: Loads the manifest once per command, threads it through the engine, and saves it at exit

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/lifecycle"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/manifest"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
	"github.com/mauromedda/kjspkg-go/internal/project"
	"github.com/mauromedda/kjspkg-go/internal/suggest"
	"github.com/mauromedda/kjspkg-go/internal/ui"
)

// App holds everything a command needs. cmd/kjspkg builds it from the
// environment; tests build it from fakes.
type App struct {
	Root     string
	Settings *config.Settings
	Engine   *lifecycle.Engine

	Stdout  io.Writer
	Chooser ui.Chooser
	Confirm project.Confirmer

	// Styled enables terminal colors in the info page.
	Styled bool
	Width  int
}

type command struct {
	name string
	// anyDir commands run outside a KubeJS project.
	anyDir bool
	run    func(ctx context.Context, s *session, args []string) error
}

// session is the state of one command invocation.
type session struct {
	app      *App
	global   *globalFlags
	manifest *manifest.Manifest
}

func (a *App) commands() map[string]command {
	install := command{name: "install", run: runInstall}
	remove := command{name: "remove", run: runRemove}
	help := command{name: "help", anyDir: true, run: runHelp}
	return map[string]command{
		"install":   install,
		"download":  install,
		"remove":    remove,
		"uninstall": remove,
		"update":    {name: "update", run: runUpdate},
		"list":      {name: "list", run: runList},
		"pkg":       {name: "pkg", anyDir: true, run: runPkg},
		"init":      {name: "init", anyDir: true, run: runInit},
		"uninit":    {name: "uninit", run: runUninit},
		"help":      help,
		"info":      help,
	}
}

// Run executes the command named by the first positional argument.
// The manifest is saved at exit even when the command failed, so packages
// committed earlier in the same command stay recorded.
func (a *App) Run(ctx context.Context, args []string) (err error) {
	name, rest := splitCommand(args)
	cmds := a.commands()
	cmd, ok := cmds[name]
	if !ok {
		return unknownCommand(name, cmds)
	}

	s := &session{app: a, global: &globalFlags{}}
	if hasFlag(rest, "help") {
		cmd = cmds["help"]
	}
	if hasFlag(rest, "verbose") {
		s.global.verbose = true
		s.applyGlobal()
	}

	if !cmd.anyDir {
		if err := s.openProject(ctx); err != nil {
			return err
		}
		defer func() {
			if saveErr := s.save(); saveErr != nil {
				err = errors.Join(err, saveErr)
			}
		}()
	}

	log.Debug("running %s %v", cmd.name, rest)
	return cmd.run(ctx, s, rest)
}

// openProject checks the directory, creates a project interactively when
// none exists, and loads the manifest.
func (s *session) openProject(ctx context.Context) error {
	root := s.app.Root
	if !project.IsKubeJSDir(root) {
		return errors.New("Hmm... This directory doesn't look like a kubejs directory")
	}
	if err := s.app.Engine.Staging.Clear(); err != nil {
		log.Warn("%v", err)
	}
	if !project.IsPresent(root) {
		fmt.Fprintln(s.app.Stdout, ui.Bold("Project not found, a new one will be created.")+"\n")
		return runInit(ctx, s, nil)
	}
	m, err := manifest.Load(root)
	if err != nil {
		return err
	}
	s.manifest = m
	return nil
}

// save persists the manifest unless the command removed the project.
func (s *session) save() error {
	if s.manifest == nil || !project.IsPresent(s.app.Root) {
		return nil
	}
	return manifest.Save(s.app.Root, s.manifest)
}

func (s *session) applyGlobal() {
	if s.global.verbose {
		log.SetLevel(log.LevelDebug)
	}
}

func (s *session) printf(quiet bool, format string, args ...any) {
	if quiet {
		return
	}
	fmt.Fprintln(s.app.Stdout, ui.Bold(fmt.Sprintf(format, args...)))
}

func unknownCommand(name string, cmds map[string]command) error {
	err := fmt.Errorf("Command %q is not found. Run \"kjspkg help\" to see all of the available commands", name)
	if match, ok := suggest.Closest(name, slices.Sorted(maps.Keys(cmds))); ok {
		err = fmt.Errorf("%w. Did you mean %q?", err, match)
	}
	return err
}

// notInstalledHint appends a suggestion among installed names to a
// PackageNotInstalled error.
func notInstalledHint(err error, name string, m *manifest.Manifest) error {
	if !errors.Is(err, pkgerr.ErrPackageNotInstalled) {
		return err
	}
	if match, ok := suggest.Closest(name, m.Names()); ok {
		return fmt.Errorf("%w. Did you mean %q?", err, match)
	}
	return err
}
