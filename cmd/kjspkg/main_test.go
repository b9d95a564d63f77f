// ABOUTME: Tests for exit-code mapping and app wiring in the kjspkg entry point
// ABOUTME: Wiring is checked against a directory registry and the local fetch mode

package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/fetch"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
	"github.com/mauromedda/kjspkg-go/internal/registry"
	"github.com/mauromedda/kjspkg-go/internal/ui"
)

func TestExitCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		want    int
		printed bool
	}{
		{"success", nil, 0, false},
		{"declined init", pkgerr.ErrProjectExists, 0, false},
		{"cancelled prompt", fmt.Errorf("choosing: %w", ui.ErrCancelled), 0, false},
		{"interrupted", context.Canceled, 0, false},
		{"failure", &pkgerr.PackageError{Op: "install", Package: "x", Err: pkgerr.ErrPackageNotFound}, 1, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			if got := exitCode(&buf, tt.err); got != tt.want {
				t.Errorf("exitCode = %d; want %d", got, tt.want)
			}
			if printed := buf.Len() > 0; printed != tt.printed {
				t.Errorf("printed = %v (%q); want %v", printed, buf.String(), tt.printed)
			}
		})
	}
}

func TestFail_PrintsMessage(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	fail(&buf, errors.New("boom"))
	if !strings.Contains(buf.String(), "boom") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestNewApp_Wiring(t *testing.T) {
	t.Parallel()
	root := filepath.Join(t.TempDir(), "kubejs")
	s := config.Default()
	s.RegistryURL = t.TempDir()
	s.RepoHost = t.TempDir()
	s.FetchMode = config.FetchLocal
	s.CacheSize = 0

	app, err := newApp(root, s, strings.NewReader(""), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	if _, ok := app.Engine.Resolver.(*registry.DirResolver); !ok {
		t.Errorf("resolver = %T; want *registry.DirResolver", app.Engine.Resolver)
	}
	if _, ok := app.Engine.Fetcher.(*fetch.LocalFetcher); !ok {
		t.Errorf("fetcher = %T; want *fetch.LocalFetcher", app.Engine.Fetcher)
	}
	if want := filepath.Join(root, "tmp"); app.Engine.Staging.Root != want {
		t.Errorf("staging = %q; want %q", app.Engine.Staging.Root, want)
	}
	if app.Styled || app.Width != defaultWidth {
		t.Errorf("styled = %v, width = %d for a buffer", app.Styled, app.Width)
	}
}
