// ABOUTME: CLI entry point for kjspkg, the KubeJS package manager
// ABOUTME: Loads settings, wires resolver, fetcher and engine, and maps errors to exit codes

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	// Must be imported before anything that pulls in bubbletea.
	_ "github.com/mauromedda/kjspkg-go/internal/termfix"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
	"github.com/mauromedda/kjspkg-go/internal/ui"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout io.Writer) int {
	root, err := os.Getwd()
	if err != nil {
		return fail(stdout, fmt.Errorf("getting working directory: %w", err))
	}

	settings, err := config.Load(root)
	if err != nil {
		return fail(stdout, err)
	}
	if lvl, ok := log.ParseLevel(settings.LogLevel); ok {
		log.SetLevel(lvl)
	}

	app, err := newApp(root, settings, os.Stdin, stdout)
	if err != nil {
		return fail(stdout, err)
	}
	return exitCode(stdout, app.Run(ctx, args))
}

// exitCode maps a command error to the process status. Declining a
// prompt or interrupting one is not a failure.
func exitCode(w io.Writer, err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, pkgerr.ErrProjectExists),
		errors.Is(err, ui.ErrCancelled),
		errors.Is(err, context.Canceled):
		log.Debug("exiting quietly: %v", err)
		return 0
	default:
		return fail(w, err)
	}
}

func fail(w io.Writer, err error) int {
	fmt.Fprintln(w, ui.Error(err.Error()))
	return 1
}
