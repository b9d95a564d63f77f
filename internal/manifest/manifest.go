// ABOUTME: Project manifest: target version code, loader, and the installed package -> asset file ledger
// ABOUTME: JSON file at the project root with atomic writes; the asset lists drive exact removal

package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"sort"
	"strings"

	"github.com/mauromedda/kjspkg-go/internal/config"
	"github.com/mauromedda/kjspkg-go/internal/pkgerr"
	"github.com/mauromedda/kjspkg-go/internal/registry"
)

// Manifest is the installed-state ledger of a project.
// Installed maps a lowercase package name to the project-relative paths
// (slash separated) of every asset file the package placed.
type Manifest struct {
	Version   int                 `json:"version"`
	Loader    config.Loader       `json:"modloader"`
	Installed map[string][]string `json:"installed"`
}

// New returns an empty manifest for the given target.
func New(versionCode int, loader config.Loader) *Manifest {
	return &Manifest{
		Version:   versionCode,
		Loader:    loader,
		Installed: make(map[string][]string),
	}
}

// Exists reports whether a manifest file is present at root.
func Exists(root string) bool {
	info, err := os.Stat(config.ManifestFile(root))
	return err == nil && info.Mode().IsRegular()
}

// Load reads the manifest at root. A missing file yields
// ErrProjectNotInitialized; undecodable or invalid content yields
// ErrManifestCorrupt.
func Load(root string) (*Manifest, error) {
	path := config.ManifestFile(root)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, pkgerr.ErrProjectNotInitialized
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", pkgerr.ErrManifestCorrupt, path, err)
	}
	if err := m.normalize(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", pkgerr.ErrManifestCorrupt, path, err)
	}
	return &m, nil
}

// Save writes the manifest to root atomically.
func Save(root string, m *Manifest) error {
	if err := m.normalize(); err != nil {
		return fmt.Errorf("refusing to save manifest: %w", err)
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}

	path := config.ManifestFile(root)
	tmpPath := path + ".tmp"

	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("writing temp manifest: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp manifest: %w", err)
	}

	return nil
}

// Delete removes the manifest file. A missing file is not an error.
func Delete(root string) error {
	if err := os.Remove(config.ManifestFile(root)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing manifest: %w", err)
	}
	return nil
}

// normalize checks the target fields, rejects keys that are not plain
// package names, and lowercases keys. Nil asset lists
// become empty lists so they encode as [] rather than null.
func (m *Manifest) normalize() error {
	if !config.KnownVersionCode(m.Version) {
		return fmt.Errorf("unknown version code %d", m.Version)
	}
	if !m.Loader.Valid() {
		return fmt.Errorf("unknown modloader %q", m.Loader)
	}
	if m.Installed == nil {
		m.Installed = make(map[string][]string)
	}
	for name, files := range m.Installed {
		if files == nil {
			files = []string{}
			m.Installed[name] = files
		}
		lower := Normalize(name)
		if err := registry.ValidateName(lower); err != nil {
			return fmt.Errorf("ledger key: %w", err)
		}
		if lower == name {
			continue
		}
		if _, dup := m.Installed[lower]; dup {
			return fmt.Errorf("package %q recorded twice with different case", lower)
		}
		delete(m.Installed, name)
		m.Installed[lower] = files
	}
	return nil
}

// Normalize returns the canonical key for a package name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Has reports whether name is installed.
func (m *Manifest) Has(name string) bool {
	_, ok := m.Installed[Normalize(name)]
	return ok
}

// Files returns the recorded asset paths for name.
func (m *Manifest) Files(name string) ([]string, bool) {
	files, ok := m.Installed[Normalize(name)]
	return files, ok
}

// Record stores the asset list for name, replacing any previous entry.
func (m *Manifest) Record(name string, files []string) {
	if m.Installed == nil {
		m.Installed = make(map[string][]string)
	}
	if files == nil {
		files = []string{}
	}
	m.Installed[Normalize(name)] = slices.Clone(files)
}

// Forget removes the entry for name. Returns true if it was present.
func (m *Manifest) Forget(name string) bool {
	key := Normalize(name)
	if _, ok := m.Installed[key]; !ok {
		return false
	}
	delete(m.Installed, key)
	return true
}

// Names returns the installed package names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Installed))
	for name := range m.Installed {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ClaimedByOthers returns the set of asset paths recorded by installed
// packages other than name.
func (m *Manifest) ClaimedByOthers(name string) map[string]string {
	key := Normalize(name)
	claimed := make(map[string]string)
	for _, other := range m.Names() {
		if other == key {
			continue
		}
		for _, path := range m.Installed[other] {
			if _, seen := claimed[path]; !seen {
				claimed[path] = other
			}
		}
	}
	return claimed
}
