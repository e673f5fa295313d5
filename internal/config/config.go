package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	envPrefix                     = "WORKOUTS"
	defaultHTTPAddress            = "0.0.0.0:8080"
	defaultDatabasePath           = "workouts.db"
	defaultLogLevel               = "info"
	defaultMetricsEnabled         = true
	defaultShutdownTimeoutSeconds = 10
)

// AppConfig captures runtime configuration for the API server.
type AppConfig struct {
	HTTPAddress        string
	DatabasePath       string
	LogLevel           string
	CORSAllowedOrigins []string
	StaticFilesDir     string
	MetricsEnabled     bool
	ShutdownTimeout    time.Duration
}

// NewViper returns a viper instance with defaults and env bindings configured.
func NewViper() *viper.Viper {
	configViper := viper.New()
	ApplyDefaults(configViper)
	return configViper
}

// ApplyDefaults configures defaults and env bindings on the provided viper instance.
func ApplyDefaults(configViper *viper.Viper) {
	configViper.SetEnvPrefix(envPrefix)
	configViper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	configViper.AutomaticEnv()

	configViper.SetDefault("http.address", defaultHTTPAddress)
	configViper.SetDefault("database.path", defaultDatabasePath)
	configViper.SetDefault("log.level", defaultLogLevel)
	configViper.SetDefault("cors.allowed_origins", []string{"*"})
	configViper.SetDefault("static.dir", "")
	configViper.SetDefault("metrics.enabled", defaultMetricsEnabled)
	configViper.SetDefault("shutdown.timeout_seconds", defaultShutdownTimeoutSeconds)
}

// Load parses runtime configuration from viper.
func Load(configViper *viper.Viper) (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddress:        strings.TrimSpace(configViper.GetString("http.address")),
		DatabasePath:       strings.TrimSpace(configViper.GetString("database.path")),
		LogLevel:           configViper.GetString("log.level"),
		CORSAllowedOrigins: normalizeOrigins(configViper.GetStringSlice("cors.allowed_origins")),
		StaticFilesDir:     strings.TrimSpace(configViper.GetString("static.dir")),
		MetricsEnabled:     configViper.GetBool("metrics.enabled"),
		ShutdownTimeout:    time.Duration(configViper.GetInt("shutdown.timeout_seconds")) * time.Second,
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}

	return cfg, nil
}

func (c AppConfig) validate() error {
	if c.HTTPAddress == "" {
		return fmt.Errorf("http.address is required")
	}
	if c.DatabasePath == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown.timeout_seconds must be positive")
	}
	return nil
}

// Env values arrive as a single comma separated string.
func normalizeOrigins(raw []string) []string {
	origins := make([]string, 0, len(raw))
	for _, entry := range raw {
		for _, origin := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(origin); trimmed != "" {
				origins = append(origins, trimmed)
			}
		}
	}
	return origins
}
