// Package config loads repomirror.yaml merged with REPOMIRROR_* environment
// variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"github.com/inovacc/repomirror/internal/application"
	"github.com/inovacc/repomirror/internal/model"
)

// FileName is the config file name searched for, without extension
const FileName = application.AppName

// Loader wraps viper with the repomirror search paths and env prefix
type Loader struct {
	searchPaths []string
	envPrefix   string
}

// Loaded is a decoded config and the file it came from, if any
type Loaded struct {
	Config   model.Config
	FileUsed string
}

// NewLoader searches the given directories in order.
func NewLoader(searchPaths ...string) *Loader {
	return &Loader{
		searchPaths: append([]string(nil), searchPaths...),
		envPrefix:   application.EnvPrefix,
	}
}

// DefaultSearchPaths returns the working directory and the application
// directory.
func DefaultSearchPaths() []string {
	paths := []string{"."}

	if dir, err := application.GetApplicationDirectory(); err == nil {
		paths = append(paths, dir)
	}

	return paths
}

// Load decodes defaults, the config file and the environment. A non-empty
// file must exist; a missing searched file is not an error.
func (l *Loader) Load(file string) (Loaded, error) {
	v := viper.New()
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")

	for _, p := range l.searchPaths {
		v.AddConfigPath(p)
	}

	v.SetEnvPrefix(l.envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	if file != "" {
		v.SetConfigFile(file)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return Loaded{}, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	var cfg model.Config

	if err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))); err != nil {
		return Loaded{}, fmt.Errorf("failed to parse configuration: %w", err)
	}

	return Loaded{Config: cfg, FileUsed: v.ConfigFileUsed()}, nil
}

// Defaults returns every key with its default value. Each key is registered
// so that environment overrides apply even without a config file.
func Defaults() map[string]any {
	d := model.DefaultConfig()

	return map[string]any{
		"mirror.base_dir":            d.Mirror.BaseDir,
		"mirror.git_path":            d.Mirror.GitPath,
		"mirror.up_to_date_markers":  d.Mirror.UpToDateMarkers,
		"discovery.concurrency":      d.Discovery.Concurrency,
		"providers.github.api_url":   d.Providers.GitHub.APIURL,
		"providers.gitlab.retry_max": d.Providers.GitLab.RetryMax,
		"http.timeout":               d.HTTP.Timeout.String(),
		"log.level":                  d.Log.Level,
		"log.format":                 d.Log.Format,
		"store.driver":               string(d.Store.Driver),
		"store.path":                 d.Store.Path,
	}
}
