package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rpggio/manweek/internal/domain/tracker"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config defines application configuration.
type Config struct {
	DB      DBConfig         `yaml:"db"`
	Log     LogConfig        `yaml:"log"`
	Tracker tracker.Settings `yaml:"tracker"`
	Driver  DriverConfig     `yaml:"driver"`

	// Path is the file the config was read from, if any.
	Path string `yaml:"-"`
}

type DBConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Path  string `yaml:"path"`
}

type DriverConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
	// IdleCommand prints the OS idle time in milliseconds, e.g. "xprintidle".
	IdleCommand string `yaml:"idle_command"`
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		DB: DBConfig{
			Path: defaultDBPath(),
		},
		Log: LogConfig{
			Level: "info",
		},
		Tracker: tracker.DefaultSettings(),
		Driver: DriverConfig{
			PollInterval: time.Second,
		},
	}
}

// Load reads configuration from an optional YAML file named by
// MANWEEK_CONFIG_PATH and then applies environment variables.
func Load() (Config, error) {
	return LoadFile(os.Getenv("MANWEEK_CONFIG_PATH"))
}

// LoadFile reads configuration from path, which may be empty, and then
// applies environment variables.
func LoadFile(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
		cfg.Path = path
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the tracker or driver cannot run with.
func (c Config) Validate() error {
	if c.DB.Path == "" {
		return fmt.Errorf("%w: db.path is required", ErrInvalidConfig)
	}
	if c.Driver.PollInterval <= 0 {
		return fmt.Errorf("%w: driver.poll_interval must be positive", ErrInvalidConfig)
	}
	if err := c.Tracker.Validate(); err != nil {
		return fmt.Errorf("%w: tracker: %v", ErrInvalidConfig, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if dbPath := os.Getenv("MANWEEK_DB_PATH"); dbPath != "" {
		cfg.DB.Path = dbPath
	}
	if level := os.Getenv("MANWEEK_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if logPath := os.Getenv("MANWEEK_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if timeoutStr := os.Getenv("MANWEEK_IDLE_TIMEOUT_SECONDS"); timeoutStr != "" {
		timeout, err := strconv.ParseInt(timeoutStr, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid MANWEEK_IDLE_TIMEOUT_SECONDS: %w", err)
		}
		cfg.Tracker.IdleTimeoutSeconds = timeout
	}
	if discardStr := os.Getenv("MANWEEK_DISCARD_SHORT_ENTRIES"); discardStr != "" {
		discard, err := strconv.ParseBool(discardStr)
		if err != nil {
			return fmt.Errorf("invalid MANWEEK_DISCARD_SHORT_ENTRIES: %w", err)
		}
		cfg.Tracker.DiscardShortEntries = discard
	}
	if cmd := os.Getenv("MANWEEK_IDLE_COMMAND"); cmd != "" {
		cfg.Driver.IdleCommand = cmd
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func defaultDBPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "manweek.db"
	}
	return filepath.Join(dir, "manweek", "manweek.db")
}
