// ABOUTME: End-to-end command tests over a directory registry and a local repo mirror
// ABOUTME: Each test builds a throwaway kubejs directory and drives App.Run with real arguments

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/fetch"
	"github.com/mauromedda/kjspkg-go/internal/lifecycle"
	"github.com/mauromedda/kjspkg-go/internal/manifest"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
	"github.com/mauromedda/kjspkg-go/internal/placement"
	"github.com/mauromedda/kjspkg-go/internal/project"
	"github.com/mauromedda/kjspkg-go/internal/registry"
)

type scriptedChooser struct {
	answers []string
}

func (c *scriptedChooser) Choose(string, []string) (string, error) {
	if len(c.answers) == 0 {
		return "", errors.New("unexpected prompt")
	}
	a := c.answers[0]
	c.answers = c.answers[1:]
	return a, nil
}

type testEnv struct {
	app      *App
	out      *bytes.Buffer
	root     string
	registry string
	repos    string
	chooser  *scriptedChooser
	confirms []string
}

func newEnv(t *testing.T) *testEnv {
	t.Helper()
	base := t.TempDir()
	e := &testEnv{
		out:      &bytes.Buffer{},
		root:     filepath.Join(base, "kubejs"),
		registry: filepath.Join(base, "registry"),
		repos:    filepath.Join(base, "repos"),
		chooser:  &scriptedChooser{},
	}
	for _, dir := range []string{filepath.Join(e.root, "server_scripts"), e.registry, e.repos} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}

	staging := fetch.Staging{Root: filepath.Join(e.root, "tmp")}
	e.app = &App{
		Root:     e.root,
		Settings: config.Default(),
		Engine: &lifecycle.Engine{
			Resolver: registry.NewDirResolver(e.registry),
			Fetcher:  &fetch.LocalFetcher{Dir: e.repos, Staging: staging},
			Placer:   placement.New(e.root),
			Staging:  staging,
		},
		Stdout:  e.out,
		Chooser: e.chooser,
		Confirm: project.ConfirmFunc(func(p string) bool {
			e.confirms = append(e.confirms, p)
			return false
		}),
		Width: 80,
	}
	return e
}

func (e *testEnv) publish(t *testing.T, name string, files map[string]string, deps ...string) {
	t.Helper()
	depJSON := "[]"
	if len(deps) > 0 {
		depJSON = `["` + strings.Join(deps, `","`) + `"]`
	}
	desc := fmt.Sprintf(`{"author":"tester","description":"%s package","repo":"owner/%s","versions":[8,9],"modloaders":["forge","fabric"],"dependencies":%s}`, name, name, depJSON)
	if err := os.WriteFile(filepath.Join(e.registry, name+".json"), []byte(desc), 0o644); err != nil {
		t.Fatal(err)
	}
	repo := filepath.Join(e.repos, "owner", name)
	if err := os.MkdirAll(repo, 0o755); err != nil {
		t.Fatal(err)
	}
	for rel, body := range files {
		p := filepath.Join(repo, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func (e *testEnv) run(args ...string) error {
	return e.app.Run(context.Background(), args)
}

func (e *testEnv) mustRun(t *testing.T, args ...string) {
	t.Helper()
	if err := e.run(args...); err != nil {
		t.Fatalf("Run(%v): %v", args, err)
	}
}

func (e *testEnv) initProject(t *testing.T) {
	t.Helper()
	e.mustRun(t, "init", "--version", "1.19", "--modloader", "forge", "--quiet")
}

func (e *testEnv) load(t *testing.T) *manifest.Manifest {
	t.Helper()
	m, err := manifest.Load(e.root)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return m
}

func TestInstallListRemove(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", map[string]string{
		"server_scripts/ores.js": "//",
		"assets/ores/ore.png":    "png",
	})
	e.initProject(t)

	e.mustRun(t, "install", "ores")
	if !strings.Contains(e.out.String(), `Package "ores" installed successfully!`) {
		t.Errorf("output = %q", e.out.String())
	}
	if files, ok := e.load(t).Files("ores"); !ok || len(files) != 1 || files[0] != "assets/ores/ore.png" {
		t.Errorf("persisted files = %v, %v", files, ok)
	}

	e.out.Reset()
	e.mustRun(t, "list")
	if got := strings.TrimSpace(e.out.String()); got != "ores" {
		t.Errorf("list = %q; want %q", got, "ores")
	}

	e.out.Reset()
	e.mustRun(t, "uninstall", "ores")
	if !strings.Contains(e.out.String(), `Package "ores" removed successfully!`) {
		t.Errorf("output = %q", e.out.String())
	}
	if e.load(t).Has("ores") {
		t.Error("ores still persisted")
	}
	if _, err := os.Stat(filepath.Join(e.root, "assets", "ores", "ore.png")); !os.IsNotExist(err) {
		t.Errorf("asset survived remove: %v", err)
	}
}

func TestMessagesUseCanonicalName(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", map[string]string{"assets/ores/ore.png": "png"})
	e.initProject(t)

	steps := []struct {
		args []string
		want string
	}{
		{[]string{"install", "ORES"}, `Package "ores" installed successfully!`},
		{[]string{"update", "Ores"}, `Package "ores" installed successfully!`},
		{[]string{"remove", "oReS"}, `Package "ores" removed successfully!`},
	}
	for _, step := range steps {
		e.out.Reset()
		e.mustRun(t, step.args...)
		if got := e.out.String(); !strings.Contains(got, step.want) {
			t.Errorf("%v output = %q; want it to contain %q", step.args, got, step.want)
		}
	}
}

func TestInstall_DependencyAndQuiet(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "base", map[string]string{"data/base/a.json": "{}"})
	e.publish(t, "ores", map[string]string{"data/ores/b.json": "{}"}, "base")
	e.initProject(t)

	e.mustRun(t, "download", "--quiet", "ores")
	if e.out.Len() != 0 {
		t.Errorf("quiet install printed %q", e.out.String())
	}
	m := e.load(t)
	if !m.Has("base") || !m.Has("ores") {
		t.Errorf("installed = %v", m.Names())
	}
}

func TestInstall_SavesEarlierPackagesOnFailure(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", map[string]string{"assets/o.png": "x"})
	e.initProject(t)

	err := e.run("install", "ores", "ghost", "trees")
	if !errors.Is(err, pkgerr.ErrPackageNotFound) {
		t.Fatalf("err = %v; want ErrPackageNotFound", err)
	}
	m := e.load(t)
	if !m.Has("ores") {
		t.Error("ores installed before the failure was not saved")
	}
	if m.Has("trees") {
		t.Error("command continued past the failing package")
	}
}

func TestInstall_SkipMissing(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", nil)
	e.initProject(t)

	e.mustRun(t, "install", "ghost", "ores", "--skipmissing")
	if strings.Contains(e.out.String(), "ghost") {
		t.Errorf("skipped package reported: %q", e.out.String())
	}
	if got := e.load(t).Names(); len(got) != 1 || got[0] != "ores" {
		t.Errorf("installed = %v", got)
	}
}

func TestUpdate(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", map[string]string{"assets/ores/old.png": "1"})
	e.initProject(t)
	e.mustRun(t, "install", "ores")

	if err := os.RemoveAll(filepath.Join(e.repos, "owner", "ores")); err != nil {
		t.Fatal(err)
	}
	e.publish(t, "ores", map[string]string{"assets/ores/new.png": "2"})
	e.mustRun(t, "update", "ores")

	files, _ := e.load(t).Files("ores")
	if len(files) != 1 || files[0] != "assets/ores/new.png" {
		t.Errorf("files after update = %v", files)
	}
	if _, err := os.Stat(filepath.Join(e.root, "assets", "ores", "old.png")); !os.IsNotExist(err) {
		t.Errorf("old asset survived update: %v", err)
	}
}

func TestRemove_NotInstalledSuggests(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", nil)
	e.initProject(t)
	e.mustRun(t, "install", "ores")

	err := e.run("remove", "ore")
	if !errors.Is(err, pkgerr.ErrPackageNotInstalled) {
		t.Fatalf("err = %v; want ErrPackageNotInstalled", err)
	}
	if !strings.Contains(err.Error(), `Did you mean "ores"?`) {
		t.Errorf("err = %q; want a suggestion", err)
	}

	if err := e.run("remove", "ore", "--skipmissing"); err != nil {
		t.Errorf("skip-missing remove: %v", err)
	}
}

func TestList(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	for _, name := range []string{"ores", "oak-trees", "ore-processing"} {
		e.publish(t, name, nil)
	}
	e.initProject(t)

	e.mustRun(t, "list")
	if !strings.Contains(e.out.String(), emptyList) {
		t.Errorf("empty list = %q", e.out.String())
	}

	e.out.Reset()
	e.mustRun(t, "list", "--count")
	if got := strings.TrimSpace(e.out.String()); got != "0" {
		t.Errorf("count = %q; want 0", got)
	}

	e.mustRun(t, "install", "ores", "oak-trees", "ore-processing")

	e.out.Reset()
	e.mustRun(t, "list")
	if got := strings.TrimSpace(e.out.String()); got != "oak-trees\nore-processing\nores" {
		t.Errorf("list = %q", got)
	}

	e.out.Reset()
	e.mustRun(t, "list", "ore*")
	if got := strings.TrimSpace(e.out.String()); got != "ore-processing\nores" {
		t.Errorf("filtered list = %q", got)
	}

	e.out.Reset()
	e.mustRun(t, "list", "--count", "o*")
	if got := strings.TrimSpace(e.out.String()); got != "3" {
		t.Errorf("filtered count = %q; want 3", got)
	}

	if err := e.run("list", "[oops"); err == nil {
		t.Error("expected error for invalid pattern")
	}
}

func TestAutoInit(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.chooser.answers = []string{"1.18.2", "quilt"}

	e.mustRun(t, "list")
	out := e.out.String()
	if !strings.Contains(out, "Project not found, a new one will be created.") {
		t.Errorf("output = %q", out)
	}
	if !strings.Contains(out, "Project created!") || !strings.Contains(out, emptyList) {
		t.Errorf("output = %q", out)
	}
	m := e.load(t)
	if m.Version != 8 || m.Loader != config.LoaderFabric {
		t.Errorf("manifest = %+v; want version 8, fabric", m)
	}
}

func TestInit_Validation(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	err := e.run("init", "--version", "1.7", "--modloader", "forge")
	if err == nil || !strings.Contains(err.Error(), "Unknown or unsupported version: 1.7") {
		t.Errorf("err = %v", err)
	}
	err = e.run("init", "--version", "1.19", "--modloader", "RIFT")
	if err == nil || !strings.Contains(err.Error(), "Unknown or unsupported modloader: Rift") {
		t.Errorf("err = %v", err)
	}
	if project.IsPresent(e.root) {
		t.Error("manifest written for invalid init")
	}
}

func TestInit_ExistingProject(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.initProject(t)

	err := e.run("init", "--version", "1.16", "--modloader", "forge")
	if !errors.Is(err, pkgerr.ErrProjectExists) {
		t.Fatalf("err = %v; want ErrProjectExists", err)
	}
	if len(e.confirms) != 1 || e.confirms[0] != project.OverridePrompt {
		t.Errorf("confirms = %q", e.confirms)
	}

	err = e.run("init", "--quiet", "--version", "1.16", "--modloader", "forge")
	if !errors.Is(err, pkgerr.ErrProjectExists) {
		t.Fatalf("quiet init err = %v; want ErrProjectExists", err)
	}
	if len(e.confirms) != 1 {
		t.Error("quiet init prompted")
	}
	if e.load(t).Version != 9 {
		t.Error("declined init replaced the project")
	}

	e.mustRun(t, "init", "--override", "--version", "1.16", "--modloader", "forge")
	if e.load(t).Version != 6 {
		t.Error("override did not replace the project")
	}
}

func TestUninit(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", map[string]string{"server_scripts/ores.js": "//"})
	e.initProject(t)
	e.mustRun(t, "install", "ores")

	e.mustRun(t, "uninit")
	if !project.IsPresent(e.root) {
		t.Fatal("declined uninit removed the project")
	}

	e.mustRun(t, "uninit", "--confirm")
	if project.IsPresent(e.root) {
		t.Error("manifest survived uninit")
	}
	if _, err := os.Stat(config.OwnedDir(e.root, "server_scripts")); !os.IsNotExist(err) {
		t.Errorf("owned dir survived uninit: %v", err)
	}
}

func TestNotKubeJSDir(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.app.Root = e.registry

	err := e.run("list")
	if err == nil || !strings.Contains(err.Error(), "doesn't look like a kubejs directory") {
		t.Errorf("err = %v", err)
	}

	if err := e.run("install", "--help"); err != nil {
		t.Errorf("--help outside a project: %v", err)
	}
	if !strings.Contains(e.out.String(), "Commands:") {
		t.Errorf("help output = %q", e.out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	e := newEnv(t)

	err := e.run("instal", "ores")
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{`Command "instal" is not found`, `Did you mean "install"?`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("err = %q; missing %q", err, want)
		}
	}
}

func TestHelpDefault(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.mustRun(t)
	if !strings.Contains(e.out.String(), "kjspkg uninit [--confirm]") {
		t.Errorf("help = %q", e.out.String())
	}
}

func TestPkg(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	e.publish(t, "ores", nil, "base")
	e.publish(t, "base", nil)
	e.app.Root = e.registry

	e.mustRun(t, "pkg", "ores", "base")
	out := e.out.String()
	for _, want := range []string{"Ores", "ores package", "Base", "https://github.com/owner/ores", "1.18, 1.19", "Forge, Fabric"} {
		if !strings.Contains(out, want) {
			t.Errorf("pkg output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "ores package") > strings.Index(out, "base package") {
		t.Error("info pages not printed in argument order")
	}

	if err := e.run("pkg", "ghost"); !errors.Is(err, pkgerr.ErrPackageNotFound) {
		t.Errorf("err = %v; want ErrPackageNotFound", err)
	}
}

func TestRepoLink(t *testing.T) {
	t.Parallel()

	tests := []struct {
		repo string
		want string
	}{
		{"owner/pkg", "https://github.com/owner/pkg"},
		{"owner/pkg#v2", "https://github.com/owner/pkg"},
		{"https://example.com/x/pkg.git", "https://example.com/x/pkg"},
	}
	for _, tt := range tests {
		if got := repoLink("https://github.com/", tt.repo); got != tt.want {
			t.Errorf("repoLink(%q) = %q; want %q", tt.repo, got, tt.want)
		}
	}
}
