package meta

import (
	"fmt"
	"os"
	"strconv"

	"gemduel/errkind"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Config holds the arena settings read from gemduel.yaml.
type Config struct {
	BookPath      string `yaml:"book_path"`
	BookURL       string `yaml:"book_url"`
	ArchiveRoot   string `yaml:"archive_root"`
	ArchiveConfig string `yaml:"archive_config"`
	Workers       int    `yaml:"workers"` // 0 means one per available CPU
	MaxTurns      int    `yaml:"max_turns"`
	StorePath     string `yaml:"store_path"`
	LogLevel      string `yaml:"log_level"`
}

func DefaultConfig() Config {
	return Config{
		BookPath:      "data/opening_book.json",
		ArchiveRoot:   "archive",
		ArchiveConfig: "baselines.yaml",
		MaxTurns:      MAX_TURNS,
		StorePath:     "arena.db",
		LogLevel:      "info",
	}
}

// LoadConfig reads a YAML config file over the defaults, then applies
// environment overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("%w: failed to read the config file: %w", errkind.Configuration, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: failed to parse the config file: %w", errkind.Configuration, err)
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// ApplyEnv overrides fields from the environment. lookup is os.LookupEnv outside tests.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvBookURL); ok {
		c.BookURL = v
	}
	if v, ok := lookup(EnvBookPath); ok {
		c.BookPath = v
	}
	if v, ok := lookup(EnvLogLevel); ok {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvWorkers); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: invalid %s %q: %w", errkind.Configuration, EnvWorkers, v, err)
		}
		c.Workers = n
	}
	return nil
}

func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", errkind.Configuration, c.Workers)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("%w: max_turns must be positive, got %d", errkind.Configuration, c.MaxTurns)
	}
	if c.BookPath == "" && c.BookURL == "" {
		return fmt.Errorf("%w: one of book_path or book_url is required", errkind.Configuration)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: invalid log_level %q: %w", errkind.Configuration, c.LogLevel, err)
	}
	return nil
}

// ConfigureLogging sets the global zerolog level.
func ConfigureLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return err
	}
	zerolog.SetGlobalLevel(lvl)
	return nil
}
