package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultBaseURL = "https://nebibs-backend.onrender.com"
	DefaultTimeout = 30 * time.Second

	EnvBaseURL  = "NEBIBS_API_URL"
	EnvDataDir  = "NEBIBS_DATA_DIR"
	EnvLogLevel = "NEBIBS_LOG_LEVEL"
)

type Config struct {
	API      APIConfig      `yaml:"api"`
	DataDir  string         `yaml:"data_dir"`
	Snapshot SnapshotConfig `yaml:"snapshot"`
	Week     WeekConfig     `yaml:"week"`
	Log      LogConfig      `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type SnapshotConfig struct {
	// Backend is one of sqlite, file or memory.
	Backend string `yaml:"backend"`
}

type WeekConfig struct {
	// Start is sunday or monday.
	Start string `yaml:"start"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Overrides carries values set explicitly on the command line. Empty fields
// are ignored.
type Overrides struct {
	BaseURL  string
	DataDir  string
	LogLevel string
}

func Default() Config {
	return Config{
		API:      APIConfig{BaseURL: DefaultBaseURL, Timeout: DefaultTimeout},
		DataDir:  defaultDataDir(),
		Snapshot: SnapshotConfig{Backend: "sqlite"},
		Week:     WeekConfig{Start: "sunday"},
		Log:      LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads the optional yaml file at path, then applies environment and
// command line overrides, in that order.
func Load(path string, overrides Overrides) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if overrides.BaseURL != "" {
		cfg.API.BaseURL = overrides.BaseURL
	}
	if overrides.DataDir != "" {
		cfg.DataDir = overrides.DataDir
	}
	if overrides.LogLevel != "" {
		cfg.Log.Level = overrides.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.API.BaseURL) == "" {
		errs = append(errs, errors.New("api.base_url is required"))
	}
	if c.API.Timeout < 0 {
		errs = append(errs, errors.New("api.timeout must not be negative"))
	}
	switch c.Snapshot.Backend {
	case "sqlite", "file", "memory":
	default:
		errs = append(errs, fmt.Errorf("unsupported snapshot.backend %q", c.Snapshot.Backend))
	}
	switch strings.ToLower(c.Week.Start) {
	case "sunday", "monday":
	default:
		errs = append(errs, fmt.Errorf("unsupported week.start %q", c.Week.Start))
	}
	if c.Snapshot.Backend != "memory" && strings.TrimSpace(c.DataDir) == "" {
		errs = append(errs, errors.New("data_dir is required"))
	}
	return errors.Join(errs...)
}

func (c Config) SnapshotDBPath() string {
	return filepath.Join(c.DataDir, "nebibs.db")
}

func (c Config) SnapshotDir() string {
	return filepath.Join(c.DataDir, "snapshots")
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvBaseURL); v != "" {
		cfg.API.BaseURL = v
	}
	if v := os.Getenv(EnvDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

func defaultDataDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "nebibs")
	}
	return ".nebibs"
}
