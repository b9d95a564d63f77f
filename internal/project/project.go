// ABOUTME: Project bootstrap: creates and tears down the owned folders and manifest of a KubeJS project
// ABOUTME: Destructive steps ask an injected Confirmer; a declined override reports ErrProjectExists

package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/lifecycle"
	"github.com/mauromedda/kjspkg-go/internal/log"
	"github.com/mauromedda/kjspkg-go/internal/manifest"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
)

// Confirmation prompts shown before destructive operations.
const (
	OverridePrompt = "A PROJECT ALREADY EXISTS IN THIS REPOSITORY, CREATING A NEW ONE OVERRIDES THE PREVIOUS ONE, ARE YOU SURE YOU WANT TO PROCEED?"
	UninitPrompt   = "DOING THIS WILL REMOVE ALL PACKAGES AND UNINSTALL KJSPKG COMPLETELY, ARE YOU SURE YOU WANT TO PROCEED?"
)

// ErrDeclined is returned when the user refuses a teardown.
var ErrDeclined = errors.New("operation declined")

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

var (
	// Always accepts; used by --override and --confirm.
	Always Confirmer = ConfirmFunc(func(string) bool { return true })
	// Never declines every prompt; used by init --quiet.
	Never Confirmer = ConfirmFunc(func(string) bool { return false })
)

// Bootstrap owns the project-level lifecycle of a single root.
type Bootstrap struct {
	Root    string
	Engine  *lifecycle.Engine
	Confirm Confirmer
}

// IsPresent reports whether root holds a project manifest.
func IsPresent(root string) bool {
	return manifest.Exists(root)
}

// IsKubeJSDir reports whether root looks like a KubeJS directory: it is
// named kubejs and holds at least one script category folder.
func IsKubeJSDir(root string) bool {
	abs, err := filepath.Abs(root)
	if err != nil || filepath.Base(abs) != config.ProjectDirName {
		return false
	}
	for _, dir := range config.ScriptDirs {
		if info, err := os.Stat(filepath.Join(abs, dir)); err == nil && info.IsDir() {
			return true
		}
	}
	return false
}

// Init creates a fresh project targeting versionCode and loader.
// An existing project is torn down first, but only after confirmation;
// a declined confirmation returns ErrProjectExists and changes nothing.
func (b *Bootstrap) Init(versionCode int, loader config.Loader) (*manifest.Manifest, error) {
	if !config.KnownVersionCode(versionCode) {
		return nil, fmt.Errorf("unknown or unsupported version code %d", versionCode)
	}
	if !loader.Valid() {
		return nil, fmt.Errorf("unknown or unsupported modloader %q", loader)
	}

	if IsPresent(b.Root) {
		if !b.confirm(OverridePrompt) {
			return nil, pkgerr.ErrProjectExists
		}
		if err := b.replace(); err != nil {
			return nil, err
		}
	}

	for _, dir := range b.Engine.Placer.OwnedRoots() {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: creating %s: %v", pkgerr.ErrFilesystem, dir, err)
		}
	}

	m := manifest.New(versionCode, loader)
	if err := manifest.Save(b.Root, m); err != nil {
		return nil, err
	}
	log.Debug("project created at %s (version %s, %s)", b.Root, config.VersionName(versionCode), loader)
	return m, nil
}

// Teardown removes every installed package, the owned folders, and the
// manifest file, after confirmation. A declined confirmation returns
// ErrDeclined and changes nothing.
func (b *Bootstrap) Teardown(m *manifest.Manifest) error {
	if !b.confirm(UninitPrompt) {
		return ErrDeclined
	}
	return b.teardown(m)
}

// replace tears down the existing project without asking again. A
// manifest too damaged to load still gets its owned folders removed.
func (b *Bootstrap) replace() error {
	old, err := manifest.Load(b.Root)
	if errors.Is(err, pkgerr.ErrManifestCorrupt) {
		log.Warn("discarding unreadable manifest: %v", err)
		old = manifest.New(0, "")
	} else if err != nil {
		return err
	}
	return b.teardown(old)
}

func (b *Bootstrap) teardown(m *manifest.Manifest) error {
	for _, name := range m.Names() {
		if err := b.Engine.Remove(m, name, true); err != nil {
			return err
		}
	}
	for _, dir := range b.Engine.Placer.OwnedRoots() {
		if err := os.RemoveAll(dir); err != nil {
			return fmt.Errorf("%w: removing %s: %v", pkgerr.ErrFilesystem, dir, err)
		}
	}
	if err := manifest.Delete(b.Root); err != nil {
		return err
	}
	log.Debug("project removed from %s", b.Root)
	return nil
}

func (b *Bootstrap) confirm(prompt string) bool {
	if b.Confirm == nil {
		return false
	}
	return b.Confirm.Confirm(prompt)
}
