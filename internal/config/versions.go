// ABOUTME: Supported game versions, their compatibility codes, and modloader identifiers
// ABOUTME: Version strings map to integer codes; quilt is accepted as an alias for fabric

package config

import (
	"fmt"
	"slices"
	"strings"
)

// versionCodes maps accepted version strings to compatibility generations.
var versionCodes = map[string]int{
	"1.12.2": 2,
	"1.12":   2,

	"1.16.5": 6,
	"1.16":   6,

	"1.18.2": 8,
	"1.18":   8,

	"1.19.2": 9,
	"1.19.3": 9,
	"1.19.4": 9,
	"1.19":   9,
}

// MajorVersions lists the version strings offered when prompting.
var MajorVersions = []string{"1.12", "1.16", "1.18", "1.19"}

// VersionCode returns the compatibility code for a version string.
func VersionCode(version string) (int, bool) {
	code, ok := versionCodes[strings.TrimSpace(version)]
	return code, ok
}

// VersionName renders a version code the way users know it (code 9 -> "1.19").
func VersionName(code int) string {
	return fmt.Sprintf("1.%d", 10+code)
}

// KnownVersionCode reports whether code belongs to a supported version.
func KnownVersionCode(code int) bool {
	for _, c := range versionCodes {
		if c == code {
			return true
		}
	}
	return false
}

// Loader identifies the mod-loading runtime a project targets.
type Loader string

const (
	LoaderForge  Loader = "forge"
	LoaderFabric Loader = "fabric"
)

// LoaderChoices lists the identifiers accepted from users, aliases included.
var LoaderChoices = []string{"forge", "fabric", "quilt"}

// ParseLoader normalizes user input into a Loader. Quilt runs fabric mods,
// so it is stored as fabric.
func ParseLoader(s string) (Loader, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forge":
		return LoaderForge, nil
	case "fabric", "quilt":
		return LoaderFabric, nil
	default:
		return "", fmt.Errorf("unknown or unsupported modloader: %s", s)
	}
}

// Valid reports whether l is one of the stored loader identifiers.
func (l Loader) Valid() bool {
	return slices.Contains([]Loader{LoaderForge, LoaderFabric}, l)
}

func (l Loader) String() string { return string(l) }
