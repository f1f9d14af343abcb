// Package config provides configuration for the horizon host.
// Configuration is loaded from (highest to lowest priority):
// 1. Command-line flags
// 2. Environment variables (HORIZON_*)
// 3. The file named by --config (or HORIZON_CONFIG)
// 4. Project config (horizon.yaml in cwd)
// 5. Defaults
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colesegura/HorizonFrame2-sub000/internal/calendar"
	"github.com/colesegura/HorizonFrame2-sub000/internal/engine"
	"github.com/colesegura/HorizonFrame2-sub000/internal/level"
	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
)

// ProjectFile is the config file looked up in the working directory.
const ProjectFile = "horizon.yaml"

// Config holds all horizon configuration.
type Config struct {
	// Database is the SQLite file path.
	Database string `yaml:"database" json:"database"`

	// Timezone is the IANA zone used to bucket events into days.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Catalog is a CUE milestone catalog. Empty uses the built-in catalog.
	Catalog string `yaml:"catalog" json:"catalog"`

	// ConsistencyCap bounds the consistency window in days.
	// Default: 30
	ConsistencyCap int `yaml:"consistency_cap" json:"consistency_cap"`

	// HeatmapWeeks is how many weeks the heat map covers.
	// Default: 12
	HeatmapWeeks int `yaml:"heatmap_weeks" json:"heatmap_weeks"`

	// ClockPolicy is "reject" (default) or "clamp".
	ClockPolicy string `yaml:"clock_policy" json:"clock_policy"`

	// Level settings
	Level LevelConfig `yaml:"level" json:"level"`

	// Server settings
	Server ServerConfig `yaml:"server" json:"server"`
}

// LevelConfig configures level advancement. With no bars, interests never
// advance.
type LevelConfig struct {
	// MinSamples is the number of scores required before advancing.
	MinSamples int `yaml:"min_samples" json:"min_samples"`

	// Bars maps a level to the mean score that must be exceeded to leave it.
	Bars map[int]float64 `yaml:"bars" json:"bars"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Addr is the listen address.
	// Default: 127.0.0.1:8080
	Addr string `yaml:"addr" json:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Database:       "horizon.db",
		Timezone:       "UTC",
		ConsistencyCap: 30,
		HeatmapWeeks:   engine.DefaultHeatmapWeeks,
		ClockPolicy:    engine.ClockReject.String(),
		Server: ServerConfig{
			Addr: "127.0.0.1:8080",
		},
	}
}

// Load loads configuration with proper precedence.
// Priority: flags > env > explicit file > project file > defaults
//
// A missing project file is ignored; a missing explicit file is an error.
func Load(path string, flagOverrides *Config) (*Config, error) {
	cfg := Default()

	projectConfig, err := loadFromPath(projectConfigPath())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if projectConfig != nil {
		cfg = merge(cfg, projectConfig)
	}

	if path == "" {
		path = strings.TrimSpace(os.Getenv("HORIZON_CONFIG"))
	}
	if path != "" {
		fileConfig, err := loadFromPath(path)
		if err != nil {
			return nil, err
		}
		cfg = merge(cfg, fileConfig)
	}

	cfg = applyEnv(cfg)

	if flagOverrides != nil {
		cfg = merge(cfg, flagOverrides)
	}

	return cfg, nil
}

// projectConfigPath returns the project config path.
func projectConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return filepath.Join(cwd, ProjectFile)
}

// loadFromPath loads config from a YAML file. Unknown keys are rejected so
// that a typo does not silently fall back to a default.
func loadFromPath(path string) (*Config, error) {
	if path == "" {
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	return &cfg, nil
}

// applyEnv applies environment variable overrides.
func applyEnv(cfg *Config) *Config {
	if v := os.Getenv("HORIZON_DB"); v != "" {
		cfg.Database = v
	}
	if v := os.Getenv("HORIZON_TZ"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("HORIZON_CATALOG"); v != "" {
		cfg.Catalog = v
	}
	if v := os.Getenv("HORIZON_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("HORIZON_CLOCK_POLICY"); v != "" {
		cfg.ClockPolicy = v
	}
	return cfg
}

// mergeStr overwrites dst with src when src is non-empty.
func mergeStr(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

// mergeInt overwrites dst with src when src is non-zero.
func mergeInt(dst *int, src int) {
	if src != 0 {
		*dst = src
	}
}

// merge merges src into dst, with src values taking precedence.
func merge(dst, src *Config) *Config {
	mergeStr(&dst.Database, src.Database)
	mergeStr(&dst.Timezone, src.Timezone)
	mergeStr(&dst.Catalog, src.Catalog)
	mergeInt(&dst.ConsistencyCap, src.ConsistencyCap)
	mergeInt(&dst.HeatmapWeeks, src.HeatmapWeeks)
	mergeStr(&dst.ClockPolicy, src.ClockPolicy)

	mergeInt(&dst.Level.MinSamples, src.Level.MinSamples)
	if len(src.Level.Bars) > 0 {
		dst.Level.Bars = src.Level.Bars
	}

	mergeStr(&dst.Server.Addr, src.Server.Addr)
	return dst
}

// Validate checks every field and reports all problems at once. A bad
// timezone keeps its INVALID_TIMEZONE code inside the joined error.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Database) == "" {
		errs = append(errs, errors.New("database: path is required"))
	}
	if _, err := calendar.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("timezone: %w", engine.NewInvalidTimezoneError(c.Timezone, err)))
	}
	if c.ConsistencyCap < 1 {
		errs = append(errs, fmt.Errorf("consistency_cap: must be at least 1, got %d", c.ConsistencyCap))
	}
	if c.HeatmapWeeks < 1 || c.HeatmapWeeks > 53 {
		errs = append(errs, fmt.Errorf("heatmap_weeks: must be between 1 and 53, got %d", c.HeatmapWeeks))
	}
	if _, err := engine.ParseClockPolicy(c.ClockPolicy); err != nil {
		errs = append(errs, fmt.Errorf("clock_policy: %w", err))
	}
	if c.Level.MinSamples < 0 || c.Level.MinSamples > level.WindowSize {
		errs = append(errs, fmt.Errorf("level.min_samples: must be between 0 and %d, got %d", level.WindowSize, c.Level.MinSamples))
	}
	for lvl := range c.Level.Bars {
		if lvl < level.MinLevel || lvl >= level.MaxLevel {
			errs = append(errs, fmt.Errorf("level.bars: level %d is outside %d..%d", lvl, level.MinLevel, level.MaxLevel-1))
		}
	}
	return errors.Join(errs...)
}

// Location resolves the configured timezone.
func (c *Config) Location() (*time.Location, error) {
	return calendar.LoadLocation(c.Timezone)
}

// LevelPolicy returns the configured advancement policy.
func (c *Config) LevelPolicy() level.Policy {
	if len(c.Level.Bars) == 0 {
		return level.Never
	}
	return level.ThresholdPolicy{MinSamples: c.Level.MinSamples, Bars: c.Level.Bars}
}

// EngineOptions converts the configuration to engine options, loading the
// catalog file when one is set.
func (c *Config) EngineOptions() ([]engine.EngineOption, error) {
	policy, err := engine.ParseClockPolicy(c.ClockPolicy)
	if err != nil {
		return nil, err
	}
	opts := []engine.EngineOption{
		engine.WithConsistencyCap(c.ConsistencyCap),
		engine.WithHeatmapWeeks(c.HeatmapWeeks),
		engine.WithClockPolicy(policy),
		engine.WithLevelPolicy(c.LevelPolicy()),
	}
	if c.Catalog != "" {
		rules, err := milestone.LoadCatalogFile(c.Catalog)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		opts = append(opts, engine.WithCatalog(rules))
	}
	return opts, nil
}

// NewEngine validates the configuration and builds an engine from it.
func (c *Config) NewEngine() (*engine.Engine, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.EngineOptions()
	if err != nil {
		return nil, err
	}
	return engine.NewForZone(c.Timezone, opts...)
}
