// ABOUTME: Builds the cli.App from settings: resolver backend, fetch mode, staging, prompts
// ABOUTME: Terminal detection decides between the picker and line prompts and sets the page width

package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/mauromedda/kjspkg-go/internal/cli"
	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/fetch"
	"github.com/mauromedda/kjspkg-go/internal/lifecycle"
	"github.com/mauromedda/kjspkg-go/internal/placement"
	"github.com/mauromedda/kjspkg-go/internal/registry"
	"github.com/mauromedda/kjspkg-go/internal/ui"
)

const defaultWidth = 80

func newApp(root string, settings *config.Settings, stdin io.Reader, stdout io.Writer) (*cli.App, error) {
	resolver, err := registry.New(settings)
	if err != nil {
		return nil, fmt.Errorf("creating resolver: %w", err)
	}

	staging := fetch.Staging{Root: config.StagingDir(root, settings)}
	fetcher, err := fetch.New(settings, staging)
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	lines := ui.NewLinePrompt(stdin, stdout)
	styled, width := outputMode(stdout)

	return &cli.App{
		Root:     root,
		Settings: settings,
		Engine: &lifecycle.Engine{
			Resolver: resolver,
			Fetcher:  fetcher,
			Placer:   placement.New(root),
			Staging:  staging,
		},
		Stdout:  stdout,
		Chooser: ui.NewChooser(stdin, stdout, lines),
		Confirm: lines,
		Styled:  styled,
		Width:   width,
	}, nil
}

// outputMode reports whether stdout is a terminal and how wide pages
// should wrap.
func outputMode(w io.Writer) (bool, int) {
	f, ok := w.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return false, defaultWidth
	}
	width, _, err := term.GetSize(int(f.Fd()))
	if err != nil || width <= 0 {
		return true, defaultWidth
	}
	return true, min(width, 120)
}
