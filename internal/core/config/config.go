package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	coreagg "github.com/salesboard/salesboard/internal/core/aggregation"
)

const releaseBase = "https://github.com/ssanchezguillan/practica_final_streamlit/releases/download/v1.0/"

// Config represents the top-level application config plus resolved panel definitions.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Sources   []SourceConfig  `koanf:"sources"`
	Loader    LoaderConfig    `koanf:"loader"`
	Dashboard DashboardConfig `koanf:"dashboard"`

	// PanelLoading is populated by Load after parsing panel files.
	PanelLoading PanelLoadingConfig `koanf:"-"`
}

type ServerConfig struct {
	Port int    `koanf:"port"`
	Host string `koanf:"host"`
	Mode string `koanf:"mode"` // debug | release
}

// SourceConfig describes one input table. Location is a URL for http, a path
// for file, and a DSN for the SQL kinds.
type SourceConfig struct {
	Name     string `koanf:"name"`
	Kind     string `koanf:"kind"` // http | file | postgres | sqlite | mysql
	Location string `koanf:"location"`
	Table    string `koanf:"table"`
}

type LoaderConfig struct {
	RequestTimeout string `koanf:"request_timeout"` // parsed and validated on startup
	MaxRetries     int    `koanf:"max_retries"`     // total attempts per HTTP source
	MaxBodySizeMB  int    `koanf:"max_body_size_mb"`
}

type DashboardConfig struct {
	TopN          int      `koanf:"top_n"`
	HistogramBins int      `koanf:"histogram_bins"`
	WeekdayOrder  []string `koanf:"weekday_order"`
	Currency      string   `koanf:"currency"`
	PanelsDir     string   `koanf:"panels_dir"`
	RequirePanels bool     `koanf:"require_panels"`
}

type PanelLoadingConfig struct {
	Dir    string
	Panels []coreagg.Panel
}

// Timeout returns the parsed per-request timeout. Call after Validate.
func (c LoaderConfig) Timeout() time.Duration {
	d, _ := time.ParseDuration(c.RequestTimeout)
	return d
}

// MaxBodyBytes returns the response size limit; 0 means unlimited.
func (c LoaderConfig) MaxBodyBytes() int64 {
	return int64(c.MaxBodySizeMB) << 20
}

var sourceKinds = map[string]bool{
	"http":     true,
	"file":     true,
	"postgres": true,
	"sqlite":   true,
	"mysql":    true,
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server.port %d (must be 1-65535)", c.Server.Port)
	}
	if strings.TrimSpace(c.Server.Host) == "" {
		return fmt.Errorf("server.host is required")
	}
	if c.Server.Mode != "debug" && c.Server.Mode != "release" {
		return fmt.Errorf("invalid server.mode %q (must be debug or release)", c.Server.Mode)
	}

	if len(c.Sources) == 0 {
		return fmt.Errorf("at least one entry in sources is required")
	}
	seen := make(map[string]bool, len(c.Sources))
	for i, s := range c.Sources {
		if strings.TrimSpace(s.Name) == "" {
			return fmt.Errorf("sources[%d].name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("duplicate source name %q", s.Name)
		}
		seen[s.Name] = true
		if !sourceKinds[s.Kind] {
			return fmt.Errorf("unsupported sources[%d].kind %q", i, s.Kind)
		}
		if strings.TrimSpace(s.Location) == "" {
			return fmt.Errorf("sources[%d].location is required", i)
		}
		switch s.Kind {
		case "postgres", "sqlite", "mysql":
			if strings.TrimSpace(s.Table) == "" {
				return fmt.Errorf("sources[%d].table is required for kind %q", i, s.Kind)
			}
		}
	}

	timeout, err := time.ParseDuration(c.Loader.RequestTimeout)
	if err != nil {
		return fmt.Errorf("invalid loader.request_timeout %q: %w", c.Loader.RequestTimeout, err)
	}
	if timeout <= 0 {
		return fmt.Errorf("loader.request_timeout must be > 0")
	}
	if c.Loader.MaxRetries <= 0 {
		return fmt.Errorf("loader.max_retries must be > 0")
	}
	if c.Loader.MaxBodySizeMB < 0 {
		return fmt.Errorf("loader.max_body_size_mb must be >= 0")
	}

	if c.Dashboard.TopN <= 0 {
		return fmt.Errorf("dashboard.top_n must be > 0")
	}
	if c.Dashboard.HistogramBins <= 0 {
		return fmt.Errorf("dashboard.histogram_bins must be > 0")
	}
	if len(c.Dashboard.WeekdayOrder) != 7 {
		return fmt.Errorf("dashboard.weekday_order must list 7 days, got %d", len(c.Dashboard.WeekdayOrder))
	}
	days := make(map[string]bool, 7)
	for _, d := range c.Dashboard.WeekdayOrder {
		if d == "" || days[d] {
			return fmt.Errorf("dashboard.weekday_order has an empty or repeated day %q", d)
		}
		days[d] = true
	}
	if strings.TrimSpace(c.Dashboard.Currency) == "" {
		return fmt.Errorf("dashboard.currency is required")
	}
	if strings.TrimSpace(c.Dashboard.PanelsDir) == "" {
		return fmt.Errorf("dashboard.panels_dir is required")
	}

	return nil
}

// Load parses config from file + env, validates it, then loads and validates panel definitions.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"server.port": 8080,
		"server.host": "0.0.0.0",
		"server.mode": "release",
		"sources": []interface{}{
			map[string]interface{}{"name": "parte_1", "kind": "http", "location": releaseBase + "parte_1.csv"},
			map[string]interface{}{"name": "parte_2", "kind": "http", "location": releaseBase + "parte_2.csv"},
		},
		"loader.request_timeout":   "60s",
		"loader.max_retries":       3,
		"loader.max_body_size_mb":  512,
		"dashboard.top_n":          10,
		"dashboard.histogram_bins": 30,
		"dashboard.weekday_order":  []interface{}{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
		"dashboard.currency":       "USD",
		"dashboard.panels_dir":     "./config/panels",
		"dashboard.require_panels": false,
	}
	for key, value := range defaults {
		k.Set(key, value)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	if err := k.Load(env.Provider("SALESBOARD_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "SALESBOARD_")), "__", ".", -1)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	repo, err := coreagg.NewFileSystemPanelRepository(cfg.Dashboard.PanelsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load panel definitions: %w", err)
	}
	panels, err := repo.List(context.Background())
	if err != nil {
		return nil, fmt.Errorf("failed to list panel definitions: %w", err)
	}
	if cfg.Dashboard.RequirePanels && len(panels) == 0 {
		return nil, fmt.Errorf("no panel definitions found in %q", cfg.Dashboard.PanelsDir)
	}

	cfg.PanelLoading = PanelLoadingConfig{
		Dir:    cfg.Dashboard.PanelsDir,
		Panels: panels,
	}

	return &cfg, nil
}
