package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rustyeddy/gbce/analytics"
	"github.com/rustyeddy/gbce/journal"
	"github.com/rustyeddy/gbce/market"
	"gopkg.in/yaml.v3"
)

// Config represents the complete exchange configuration
type Config struct {
	Instruments []market.Instrument `json:"instruments" yaml:"instruments"`
	Window      string              `json:"window" yaml:"window"` // e.g. "15m"
	Journal     JournalConfig       `json:"journal" yaml:"journal"`
	Log         LogConfig           `json:"log" yaml:"log"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level      string `json:"level" yaml:"level"`                                   // "debug", "info", "warn", "error"
	Format     string `json:"format" yaml:"format"`                                 // "json" or "console"
	OutputFile string `json:"output_file,omitempty" yaml:"output_file,omitempty"` // optional rotating log file
}

// WindowDuration parses Window. An empty window means the default.
func (c *Config) WindowDuration() (time.Duration, error) {
	if c.Window == "" {
		return analytics.DefaultWindow, nil
	}
	return time.ParseDuration(c.Window)
}

// Catalog builds the instrument catalog described by the config.
func (c *Config) Catalog() (*market.Catalog, error) {
	return market.NewCatalog(c.Instruments...)
}

// OpenJournal opens the configured trade journal.
func (c *Config) OpenJournal() (journal.Journal, error) {
	return journal.Open(c.Journal.Type, c.Journal.TradesFile, c.Journal.DBPath)
}

// LoadFromFile loads configuration from a file (YAML, falling back to JSON)
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// JSON is valid YAML, the fallback only matters for JSON yaml.v3 rejects
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = &Config{}
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if len(c.Instruments) == 0 {
		return fmt.Errorf("instruments: at least one instrument is required")
	}
	if _, err := c.Catalog(); err != nil {
		return fmt.Errorf("instruments: %w", err)
	}
	d, err := c.WindowDuration()
	if err != nil {
		return fmt.Errorf("window: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("window must be positive")
	}
	switch c.Journal.Type {
	case "", journal.TypeNone:
	case journal.TypeCSV:
		if c.Journal.TradesFile == "" {
			return fmt.Errorf("journal trades_file required for CSV type")
		}
	case journal.TypeSQLite:
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console'")
	}
	return nil
}

// Default returns a configuration with the exchange's seed instruments
func Default() *Config {
	return &Config{
		Instruments: market.DefaultInstruments(),
		Window:      "15m",
		Journal: JournalConfig{
			Type: journal.TypeNone,
		},
		Log: LogConfig{
			Level:  "error",
			Format: "console",
		},
	}
}
