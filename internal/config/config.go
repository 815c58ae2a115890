package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Theme names accepted by the theme setting.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// Config holds all runtime settings for the client and the reference server.
type Config struct {
	APIURL          string        `mapstructure:"api_url"`
	Timeout         time.Duration `mapstructure:"timeout"`
	DBPath          string        `mapstructure:"db_path"`
	ListenAddr      string        `mapstructure:"listen_addr"`
	Theme           string        `mapstructure:"theme"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	LogCalls        bool          `mapstructure:"log_calls"`
	LogFile         string        `mapstructure:"log_file"`
}

// Dir returns ~/.taskflow, or a relative .taskflow when no home is known.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".taskflow"
	}
	return filepath.Join(home, ".taskflow")
}

// DefaultPath is the config file read when no --config flag is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

func DefaultConfig() Config {
	return Config{
		APIURL:          "http://localhost:5000",
		Timeout:         10 * time.Second,
		DBPath:          filepath.Join(Dir(), "taskflow.db"),
		ListenAddr:      "127.0.0.1:5000",
		Theme:           ThemeAuto,
		RefreshInterval: time.Minute,
		LogCalls:        false,
		LogFile:         "",
	}
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"api-url":   "api_url",
	"timeout":   "timeout",
	"db":        "db_path",
	"addr":      "listen_addr",
	"theme":     "theme",
	"log-calls": "log_calls",
	"log-file":  "log_file",
}

// Load layers defaults, the YAML file at path, TASKFLOW_* environment
// variables and any changed flags in fs, in that order. A missing file is
// not an error.
func Load(path string, fs *pflag.FlagSet) (Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("api_url", defaults.APIURL)
	v.SetDefault("timeout", defaults.Timeout)
	v.SetDefault("db_path", defaults.DBPath)
	v.SetDefault("listen_addr", defaults.ListenAddr)
	v.SetDefault("theme", defaults.Theme)
	v.SetDefault("refresh_interval", defaults.RefreshInterval)
	v.SetDefault("log_calls", defaults.LogCalls)
	v.SetDefault("log_file", defaults.LogFile)

	v.SetEnvPrefix("TASKFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("checking config %s: %w", path, err)
		}
	}

	if fs != nil {
		for name, key := range flagKeys {
			if f := fs.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag %s: %w", name, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.Theme {
	case ThemeAuto, ThemeDark, ThemeLight:
	default:
		return fmt.Errorf("invalid theme %q: want auto, dark or light", c.Theme)
	}
	if c.APIURL == "" {
		return errors.New("api_url must not be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.RefreshInterval < time.Second {
		return fmt.Errorf("refresh_interval must be at least 1s, got %s", c.RefreshInterval)
	}
	return nil
}

// fileConfig is the on-disk YAML shape; durations are written as strings.
type fileConfig struct {
	APIURL          string `yaml:"api_url"`
	Timeout         string `yaml:"timeout"`
	DBPath          string `yaml:"db_path"`
	ListenAddr      string `yaml:"listen_addr"`
	Theme           string `yaml:"theme"`
	RefreshInterval string `yaml:"refresh_interval"`
	LogCalls        bool   `yaml:"log_calls"`
	LogFile         string `yaml:"log_file,omitempty"`
}

// Save writes cfg to path as YAML, creating the parent directory.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(fileConfig{
		APIURL:          cfg.APIURL,
		Timeout:         cfg.Timeout.String(),
		DBPath:          cfg.DBPath,
		ListenAddr:      cfg.ListenAddr,
		Theme:           cfg.Theme,
		RefreshInterval: cfg.RefreshInterval.String(),
		LogCalls:        cfg.LogCalls,
		LogFile:         cfg.LogFile,
	})
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
