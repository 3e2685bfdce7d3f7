package model

import (
	"time"
)

// StoreDriver selects the profile store backend
type StoreDriver string

const (
	StoreBolt   StoreDriver = "bolt"
	StoreSQLite StoreDriver = "sqlite"
)

// Config holds the application configuration
type Config struct {
	Mirror    MirrorConfig    `mapstructure:"mirror" yaml:"mirror"`
	Discovery DiscoveryConfig `mapstructure:"discovery" yaml:"discovery"`
	Providers ProvidersConfig `mapstructure:"providers" yaml:"providers"`
	HTTP      HTTPConfig      `mapstructure:"http" yaml:"http"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Store     StoreConfig     `mapstructure:"store" yaml:"store"`
}

// MirrorConfig controls where and how repositories are synced
type MirrorConfig struct {
	// BaseDir is the local directory holding one folder per account
	BaseDir string `mapstructure:"base_dir" yaml:"base_dir"`

	// GitPath is the git executable
	GitPath string `mapstructure:"git_path" yaml:"git_path"`

	// UpToDateMarkers are matched case-insensitively against pull output
	UpToDateMarkers []string `mapstructure:"up_to_date_markers" yaml:"up_to_date_markers"`
}

// DiscoveryConfig controls repository listing
type DiscoveryConfig struct {
	// Concurrency bounds independent listings (organisations, groups). 1 is sequential.
	Concurrency int `mapstructure:"concurrency" yaml:"concurrency"`
}

// ProvidersConfig holds per-provider API settings
type ProvidersConfig struct {
	GitHub GitHubConfig `mapstructure:"github" yaml:"github"`
	GitLab GitLabConfig `mapstructure:"gitlab" yaml:"gitlab"`
}

// GitHubConfig holds GitHub API settings
type GitHubConfig struct {
	// APIURL is used for github.com profiles
	APIURL string `mapstructure:"api_url" yaml:"api_url"`
}

// GitLabConfig holds GitLab API settings
type GitLabConfig struct {
	// RetryMax is passed to the client's retrying transport
	RetryMax int `mapstructure:"retry_max" yaml:"retry_max"`
}

// HTTPConfig holds transport settings shared by both providers
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// LogConfig selects the logger level and encoding
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// StoreConfig selects the profile store
type StoreConfig struct {
	Driver StoreDriver `mapstructure:"driver" yaml:"driver"`

	// Path is the store file; empty means the application directory
	Path string `mapstructure:"path" yaml:"path"`
}

// DefaultUpToDateMarkers are the phrases git prints when a pull changes nothing.
func DefaultUpToDateMarkers() []string {
	return []string{"Already up to date", "Already up-to-date"}
}

// DefaultConfig returns a Config with sensible defaults. Mirror.BaseDir and
// Store.Path are left empty and resolved against the user's directories.
func DefaultConfig() Config {
	return Config{
		Mirror: MirrorConfig{
			GitPath:         "git",
			UpToDateMarkers: DefaultUpToDateMarkers(),
		},
		Discovery: DiscoveryConfig{
			Concurrency: 1,
		},
		Providers: ProvidersConfig{
			GitHub: GitHubConfig{
				APIURL: "https://api.github.com/",
			},
		},
		HTTP: HTTPConfig{
			Timeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Store: StoreConfig{
			Driver: StoreBolt,
		},
	}
}
