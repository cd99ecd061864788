// Package config resolves process settings from environment variables and
// an optional config file through viper. All keys live under the DBSYNCR
// prefix, so DBSYNCR_ADDR overrides addr and so on.
package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Settings holds the resolved process configuration.
type Settings struct {
	// Addr is the HTTP listen address for serve.
	Addr string

	// TTL bounds how long uploaded datasets are kept.
	TTL time.Duration

	// MappingsPath points at the YAML mapping document loaded at startup.
	// Empty means the mapping arrives later through the API.
	MappingsPath string

	// EvictionInterval is how often the background sweep runs.
	EvictionInterval time.Duration

	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string

	// LogFormat selects console or json output.
	LogFormat string
}

const (
	defaultAddr             = "localhost:8080"
	defaultTTL              = time.Hour
	defaultEvictionInterval = time.Minute
	defaultLogLevel         = "info"
	defaultLogFormat        = "console"
)

// Load builds Settings from the environment and, when path is non-empty,
// a YAML config file. Environment variables win over file values.
func Load(path string) (Settings, error) {
	v := viper.New()

	v.SetDefault("addr", defaultAddr)
	v.SetDefault("ttl", defaultTTL)
	v.SetDefault("mappings", "")
	v.SetDefault("eviction_interval", defaultEvictionInterval)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)

	v.SetEnvPrefix("DBSYNCR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Settings{}, err
		}
	}

	return Settings{
		Addr:             v.GetString("addr"),
		TTL:              v.GetDuration("ttl"),
		MappingsPath:     v.GetString("mappings"),
		EvictionInterval: v.GetDuration("eviction_interval"),
		LogLevel:         v.GetString("log.level"),
		LogFormat:        v.GetString("log.format"),
	}, nil
}
