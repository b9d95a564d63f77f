// ABOUTME: Settings loading: defaults, global + project YAML files, then KJSPKG_* env vars
// ABOUTME: A project .env file is loaded first without overriding the real environment

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Fetch modes understood by the tree fetcher.
const (
	FetchGit     = "git"
	FetchArchive = "archive"
	FetchLocal   = "local"
)

const envPrefix = "KJSPKG"

// Settings holds the merged configuration.
type Settings struct {
	RegistryURL string        `yaml:"registry_url,omitempty"`
	RepoHost    string        `yaml:"repo_host,omitempty"`
	FetchMode   string        `yaml:"fetch_mode,omitempty"`
	StagingDir  string        `yaml:"staging_dir,omitempty"`
	CacheSize   int           `yaml:"cache_size,omitempty"`
	Timeout     time.Duration `yaml:"timeout,omitempty"`
	LogLevel    string        `yaml:"log_level,omitempty"`
}

// envSettings mirrors Settings for envconfig. No defaults here: unset
// variables must stay zero so they do not clobber file values.
type envSettings struct {
	RegistryURL string        `envconfig:"REGISTRY_URL"`
	RepoHost    string        `envconfig:"REPO_HOST"`
	FetchMode   string        `envconfig:"FETCH_MODE"`
	StagingDir  string        `envconfig:"STAGING_DIR"`
	CacheSize   int           `envconfig:"CACHE_SIZE"`
	Timeout     time.Duration `envconfig:"TIMEOUT"`
	LogLevel    string        `envconfig:"LOG_LEVEL"`
}

// Default returns the built-in settings.
func Default() *Settings {
	return &Settings{
		RegistryURL: "https://github.com/Modern-Modpacks/kjspkg/raw/main/pkgs",
		RepoHost:    "https://github.com",
		FetchMode:   FetchGit,
		StagingDir:  DefaultStagingDir,
		CacheSize:   128,
		LogLevel:    "info",
	}
}

// Load reads and merges settings for the project at root.
// Precedence: defaults < global file < project file < environment.
func Load(root string) (*Settings, error) {
	if err := godotenv.Load(EnvFile(root)); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading %s: %w", EnvFile(root), err)
	}

	global, err := loadFile(GlobalSettingsFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global settings: %w", err)
	}

	project, err := loadFile(ProjectSettingsFile(root))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project settings: %w", err)
	}

	env, err := loadEnv()
	if err != nil {
		return nil, err
	}

	merged := merge(merge(merge(Default(), global), project), env)
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// Validate checks values that would otherwise fail late.
func (s *Settings) Validate() error {
	switch s.FetchMode {
	case FetchGit, FetchArchive, FetchLocal:
	default:
		return fmt.Errorf("unknown fetch mode %q: expected git, archive, or local", s.FetchMode)
	}
	if s.CacheSize < 0 {
		return fmt.Errorf("cache size must not be negative, got %d", s.CacheSize)
	}
	if s.StagingDir != "" {
		if err := CheckStagingDir(s.StagingDir); err != nil {
			return err
		}
	}
	return nil
}

// loadFile reads Settings from a YAML file. Returns zero Settings if the
// file does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

func loadEnv() (*Settings, error) {
	var e envSettings
	if err := envconfig.Process(envPrefix, &e); err != nil {
		return nil, fmt.Errorf("reading %s_* environment: %w", envPrefix, err)
	}
	s := Settings(e)
	return &s, nil
}

// merge overlays non-zero values of over onto base.
func merge(base, over *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if over == nil {
		return base
	}

	result := *base

	if over.RegistryURL != "" {
		result.RegistryURL = strings.TrimRight(over.RegistryURL, "/")
	}
	if over.RepoHost != "" {
		result.RepoHost = strings.TrimRight(over.RepoHost, "/")
	}
	if over.FetchMode != "" {
		result.FetchMode = strings.ToLower(over.FetchMode)
	}
	if over.StagingDir != "" {
		result.StagingDir = over.StagingDir
	}
	if over.CacheSize != 0 {
		result.CacheSize = over.CacheSize
	}
	if over.Timeout != 0 {
		result.Timeout = over.Timeout
	}
	if over.LogLevel != "" {
		result.LogLevel = over.LogLevel
	}

	return &result
}
