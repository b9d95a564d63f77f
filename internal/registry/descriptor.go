// ABOUTME: Remote package descriptor: author, repo reference, compatible versions and loaders, dependencies
// ABOUTME: Decoded with easyjson codegen; Name is filled from the lookup key, not the document

//go:generate easyjson -all descriptor.go

package registry

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/mauromedda/kjspkg-go/internal/config"
)

// DefaultLicense is shown when a descriptor carries no license.
const DefaultLicense = "All Rights Reserved"

// Descriptor describes a package as published in the registry.
type Descriptor struct {
	Name         string          `json:"-"`
	Author       string          `json:"author"`
	Description  string          `json:"description"`
	Repo         string          `json:"repo"`
	Versions     []int           `json:"versions"`
	Loaders      []config.Loader `json:"modloaders"`
	Dependencies []string        `json:"dependencies,omitempty"`
	License      string          `json:"license,omitempty"`
}

// SupportsVersion reports whether the package is published for code.
func (d *Descriptor) SupportsVersion(code int) bool {
	return slices.Contains(d.Versions, code)
}

// SupportsLoader reports whether the package runs on loader.
func (d *Descriptor) SupportsLoader(loader config.Loader) bool {
	return slices.Contains(d.Loaders, loader)
}

// LicenseName returns the license or DefaultLicense.
func (d *Descriptor) LicenseName() string {
	if d.License == "" {
		return DefaultLicense
	}
	return d.License
}

// validate normalizes loader and dependency names and checks required fields.
func (d *Descriptor) validate() error {
	if strings.TrimSpace(d.Repo) == "" {
		return errors.New("descriptor has no repo")
	}
	for i, l := range d.Loaders {
		d.Loaders[i] = config.Loader(strings.ToLower(string(l)))
	}
	for i, dep := range d.Dependencies {
		dep = strings.ToLower(strings.TrimSpace(dep))
		if err := ValidateName(dep); err != nil {
			return fmt.Errorf("dependency %d: %w", i, err)
		}
		d.Dependencies[i] = dep
	}
	return nil
}

// ValidateName rejects names that cannot safely key a registry document
// or namespace a staging directory.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("empty package name")
	case name == "." || name == "..":
		return fmt.Errorf("invalid package name %q", name)
	case strings.HasPrefix(name, "-"):
		return fmt.Errorf("package name %q must not start with '-'", name)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("package name %q must not contain path separators", name)
	}
	for _, r := range name {
		if r <= ' ' || r == 0x7f {
			return fmt.Errorf("package name %q contains whitespace or control characters", name)
		}
	}
	return nil
}
