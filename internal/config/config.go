// Package config resolves CLI configuration with the precedence
// flag > environment > config file > default. The resolved value is
// constructed once per process and threaded into every component, so
// tests can run against isolated temp directories.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Environment variables. SORTD_CONFIG_DIR exists primarily for test
// isolation.
const (
	EnvHost      = "SORTD_HOST"
	EnvOrgID     = "SORTD_ORG_ID"
	EnvConfigDir = "SORTD_CONFIG_DIR"
	EnvEmail     = "SORTD_EMAIL"
	EnvPassword  = "SORTD_PASSWORD"
)

// DefaultHost is used when neither flag, env, nor config file names one.
const DefaultHost = "https://app.sortd.dev"

const configFileName = "config.yaml"

// Config is the resolved per-invocation configuration.
type Config struct {
	Host      string
	OrgID     string
	ConfigDir string

	// Email/Password seed non-interactive login and the re-auth hook.
	// Environment-only; never stored in the config file.
	Email    string
	Password string
}

// Flags are the raw global flag values; empty strings mean unset.
type Flags struct {
	Host   string
	OrgID  string
	Config string
}

// Load resolves the configuration. The optional config.yaml in the
// config directory may set host and org_id; flags and env win over it.
func Load(flags Flags) (*Config, error) {
	dir, err := resolveConfigDir(flags.Config)
	if err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("host", DefaultHost)

	// A missing config file is fine; a malformed one is not.
	path := filepath.Join(dir, configFileName)
	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	}

	cfg := &Config{
		ConfigDir: dir,
		Host:      firstNonEmpty(flags.Host, os.Getenv(EnvHost), v.GetString("host")),
		OrgID:     firstNonEmpty(flags.OrgID, os.Getenv(EnvOrgID), v.GetString("org_id")),
		Email:     os.Getenv(EnvEmail),
		Password:  os.Getenv(EnvPassword),
	}
	return cfg, nil
}

func resolveConfigDir(flagDir string) (string, error) {
	if flagDir != "" {
		return flagDir, nil
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return env, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("locate user config dir: %w", err)
	}
	return filepath.Join(base, "sortd"), nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
