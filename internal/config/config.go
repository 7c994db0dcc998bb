// Package config loads modulechoices settings from an optional YAML file
// and MODULECHOICES_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CBirkbeck/modulechoices/internal/calendar"
	"gopkg.in/yaml.v3"
)

// LimitsConfig holds the credit caps.
type LimitsConfig struct {
	SemesterMax         int `yaml:"semester_max"`
	AnnualMax           int `yaml:"annual_max"`
	SemesterCapFromYear int `yaml:"semester_cap_from_year"`
}

// CrossRangeConfig names the anchor module that excludes one range's
// modules at one level. An empty AnchorCode turns the policy off.
type CrossRangeConfig struct {
	AnchorCode string `yaml:"anchor_code"`
	Range      string `yaml:"range"`
	Level      int    `yaml:"level"`
}

type PolicyConfig struct {
	CrossRange CrossRangeConfig `yaml:"cross_range"`
}

type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Watch bool   `yaml:"watch"` // rebuild when the catalogue file changes
}

type CleanConfig struct {
	// PersonalPatterns are extra regular expressions for names or
	// usernames that must be stripped from scraped text.
	PersonalPatterns []string `yaml:"personal_patterns"`
}

// Config holds all modulechoices settings.
type Config struct {
	CataloguePath string       `yaml:"catalogue_path"`
	DBPath        string       `yaml:"db_path"`
	DatabaseURL   string       `yaml:"database_url"`
	EntryYear     string       `yaml:"entry_year"`
	Limits        LimitsConfig `yaml:"limits"`
	Policy        PolicyConfig `yaml:"policy"`
	Log           LogConfig    `yaml:"log"`
	Server        ServerConfig `yaml:"server"`
	Clean         CleanConfig  `yaml:"clean"`
}

// DefaultConfig returns a Config with sensible defaults. The plan store
// lives under ~/.modulechoices when the home directory is known.
func DefaultConfig() Config {
	dbPath := "modulechoices.db"
	if home, err := os.UserHomeDir(); err == nil {
		dbPath = filepath.Join(home, ".modulechoices", "modulechoices.db")
	}
	return Config{
		CataloguePath: "modules.json",
		DBPath:        dbPath,
		Limits: LimitsConfig{
			SemesterMax:         70,
			AnnualMax:           120,
			SemesterCapFromYear: 2,
		},
		Policy: PolicyConfig{
			CrossRange: CrossRangeConfig{
				AnchorCode: "MTHA6003Y",
				Range:      "Range C",
				Level:      5,
			},
		},
		Log:    LogConfig{Level: "info"},
		Server: ServerConfig{Addr: ":8080"},
	}
}

// DefaultPath returns the config file location: $MODULECHOICES_CONFIG, else
// ~/.modulechoices/config.yaml.
func DefaultPath() string {
	if v := os.Getenv("MODULECHOICES_CONFIG"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".modulechoices", "config.yaml")
}

// LoadConfig reads DefaultPath (if present), then applies environment
// overrides.
func LoadConfig() (Config, error) {
	return Load(DefaultPath())
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			data = []byte(os.ExpandEnv(string(data)))
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	applyEnvOverrides(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("MODULECHOICES_CATALOGUE"); v != "" {
		cfg.CataloguePath = v
	}
	if v := os.Getenv("MODULECHOICES_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("MODULECHOICES_DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("MODULECHOICES_ENTRY_YEAR"); v != "" {
		cfg.EntryYear = v
	}
	applyIntEnv(&cfg.Limits.SemesterMax, "MODULECHOICES_SEMESTER_MAX")
	applyIntEnv(&cfg.Limits.AnnualMax, "MODULECHOICES_ANNUAL_MAX")
	applyIntEnv(&cfg.Limits.SemesterCapFromYear, "MODULECHOICES_SEMESTER_CAP_FROM_YEAR")
	if v, ok := os.LookupEnv("MODULECHOICES_CROSS_RANGE_ANCHOR"); ok {
		cfg.Policy.CrossRange.AnchorCode = strings.ToUpper(strings.TrimSpace(v))
	}
	if v := os.Getenv("MODULECHOICES_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("MODULECHOICES_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("MODULECHOICES_WATCH"); v != "" {
		cfg.Server.Watch, _ = strconv.ParseBool(v)
	}
}

func applyIntEnv(dst *int, envName string) {
	v := os.Getenv(envName)
	if v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return
	}
	*dst = n
}

// Validate rejects settings the planner cannot work with.
func (c Config) Validate() error {
	if c.Limits.SemesterMax <= 0 || c.Limits.AnnualMax <= 0 {
		return fmt.Errorf("limits must be positive")
	}
	if c.Limits.SemesterCapFromYear < 1 {
		return fmt.Errorf("limits.semester_cap_from_year must be at least 1")
	}
	if c.EntryYear != "" {
		if _, err := calendar.ParseAcademicYear(c.EntryYear); err != nil {
			return fmt.Errorf("entry_year: %w", err)
		}
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return lvl, nil
}
