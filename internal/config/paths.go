// ABOUTME: Project layout: manifest file, script category roots, asset roots, staging dir
// ABOUTME: Also resolves the user-global config directory used for settings

package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

const (
	// ManifestFileName is the ledger file at the project root.
	ManifestFileName = ".kjspkg"
	// OwnedDirName is the package-owned folder inside every script category.
	OwnedDirName = ".kjspkg"
	// ProjectDirName is the directory name a KubeJS project lives in.
	ProjectDirName = "kubejs"

	globalDirName      = "kjspkg"
	settingsFileName   = "config.yaml"
	projectSettingFile = "kjspkg.yaml"
	envFileName        = ".env"
)

// ScriptDirs are the loader script categories. Each one receives a
// per-package subtree under its owned folder.
var ScriptDirs = []string{"server_scripts", "client_scripts", "startup_scripts"}

// AssetDirs are the shared asset categories. Their files are merged into
// the project tree and recorded one by one.
var AssetDirs = []string{"data", "assets"}

// ManifestFile returns the ledger path for a project root.
func ManifestFile(root string) string {
	return filepath.Join(root, ManifestFileName)
}

// OwnedDir returns <root>/<category>/.kjspkg.
func OwnedDir(root, category string) string {
	return filepath.Join(root, category, OwnedDirName)
}

// DefaultStagingDir is the staging root below the project.
const DefaultStagingDir = "tmp"

// StagingDir returns the staging root for a project, always below root.
// Settings that fail CheckStagingDir fall back to the default.
func StagingDir(root string, s *Settings) string {
	dir := DefaultStagingDir
	if s != nil && s.StagingDir != "" && CheckStagingDir(s.StagingDir) == nil {
		dir = s.StagingDir
	}
	return filepath.Join(root, filepath.FromSlash(dir))
}

// CheckStagingDir rejects staging roots the process-start wipe could turn
// against the project: absolute paths, the root itself or anything above
// it, and any path inside a category folder or a project file.
func CheckStagingDir(dir string) error {
	slashed := filepath.ToSlash(dir)
	if filepath.IsAbs(dir) || filepath.VolumeName(dir) != "" || strings.HasPrefix(slashed, "/") {
		return fmt.Errorf("staging dir %q must be relative to the project", dir)
	}
	clean := path.Clean(slashed)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("staging dir %q must be a subdirectory of the project", dir)
	}
	first, _, _ := strings.Cut(clean, "/")
	for _, reserved := range reservedNames() {
		if strings.EqualFold(first, reserved) {
			return fmt.Errorf("staging dir %q overlaps project path %s", dir, reserved)
		}
	}
	return nil
}

func reservedNames() []string {
	names := []string{ManifestFileName, projectSettingFile, envFileName}
	names = append(names, ScriptDirs...)
	return append(names, AssetDirs...)
}

// GlobalDir returns the user-global config directory.
func GlobalDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".", globalDirName)
	}
	return filepath.Join(dir, globalDirName)
}

// GlobalSettingsFile returns the path to the user-global settings file.
func GlobalSettingsFile() string {
	return filepath.Join(GlobalDir(), settingsFileName)
}

// ProjectSettingsFile returns the path to the project settings file.
func ProjectSettingsFile(root string) string {
	return filepath.Join(root, projectSettingFile)
}

// EnvFile returns the path of the optional dotenv file at the project root.
func EnvFile(root string) string {
	return filepath.Join(root, envFileName)
}
