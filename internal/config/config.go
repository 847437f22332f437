// Package config loads the TOML application configuration. Every section is
// optional; missing values fall back to built-in defaults so the binary runs
// with no config file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/Igorofyeshu4/keepgoing/internal/model"
	"github.com/Igorofyeshu4/keepgoing/internal/parser"
)

// AppConfig is the whole application configuration.
type AppConfig struct {
	Server     ServerConfig        `toml:"server"`
	Data       DataConfig          `toml:"data"`
	Processing ProcessingConfig    `toml:"processing"`
	Teams      []TeamConfig        `toml:"teams"`
	Columns    map[string][]string `toml:"columns"`
	Status     map[string][]string `toml:"status"`
	Channel    ChannelConfig       `toml:"channel"`
}

// ChannelConfig overrides the active/inbound keyword tables.
type ChannelConfig struct {
	Inbound []string `toml:"inbound"`
	Active  []string `toml:"active"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configures persistence and startup inputs.
type DataConfig struct {
	DataDir    string   `toml:"data_dir"`
	InputFiles []string `toml:"input_files"`
}

// ProcessingConfig configures the load pipeline.
type ProcessingConfig struct {
	BatchSize int `toml:"batch_size"`
}

// TeamConfig is one roster entry. Order matters: the first roster containing
// a responsible wins.
type TeamConfig struct {
	Name    string   `toml:"name"`
	Members []string `toml:"members"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    8899,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Processing: ProcessingConfig{
			BatchSize: 1000,
		},
	}
}

// Rosters converts the configured teams to classifier rosters, falling back
// to the built-in rosters when none are configured.
func (c *AppConfig) Rosters() []parser.TeamRoster {
	if len(c.Teams) == 0 {
		return parser.DefaultRosters()
	}
	out := make([]parser.TeamRoster, 0, len(c.Teams))
	for _, t := range c.Teams {
		out = append(out, parser.TeamRoster{Team: model.TeamID(parser.NormalizeText(t.Name)), Members: t.Members})
	}
	return out
}

// Candidates converts the configured column tables to resolver candidates.
// Fields keep their built-in order; a field absent from the config keeps its
// default candidate list, so partial overrides are possible.
func (c *AppConfig) Candidates() []parser.FieldCandidates {
	defaults := parser.DefaultFieldCandidates()
	if len(c.Columns) == 0 {
		return defaults
	}
	out := make([]parser.FieldCandidates, 0, len(defaults))
	for _, fc := range defaults {
		if override, ok := c.Columns[string(fc.Field)]; ok {
			fc.Candidates = override
		}
		out = append(out, fc)
	}
	return out
}

// StatusPatterns converts the configured status keyword tables, falling back
// per category to the defaults.
func (c *AppConfig) StatusPatterns() []parser.StatusPatterns {
	defaults := parser.DefaultStatusPatterns()
	if len(c.Status) == 0 {
		return defaults
	}
	out := make([]parser.StatusPatterns, 0, len(defaults))
	for _, p := range defaults {
		if override, ok := c.Status[string(p.Category)]; ok {
			p.Keywords = override
		}
		out = append(out, p)
	}
	return out
}

// ChannelPatterns converts the configured channel keywords, falling back to
// the defaults when a table is empty.
func (c *AppConfig) ChannelPatterns() parser.ChannelPatterns {
	patterns := parser.DefaultChannelPatterns()
	if len(c.Channel.Inbound) > 0 {
		patterns.Inbound = c.Channel.Inbound
	}
	if len(c.Channel.Active) > 0 {
		patterns.Active = c.Channel.Active
	}
	return patterns
}

// DatabasePath returns the SQLite file location under the data dir.
func (c *AppConfig) DatabasePath() string {
	return filepath.Join(c.Data.DataDir, "demandas.db")
}

// GetExeDir returns the directory of the running binary.
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig reads config.toml next to the binary. A missing file yields
// the defaults.
func LoadConfig() (*AppConfig, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}
	return LoadConfigFromFile(filepath.Join(exeDir, "config.toml"))
}

// LoadConfigFromFile reads one specific TOML file over the defaults.
func LoadConfigFromFile(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.Processing.BatchSize <= 0 {
		cfg.Processing.BatchSize = 1000
	}
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8899
	}
	applyEnv(cfg)
	return cfg, nil
}

// applyEnv lets deployments override the file without editing it.
func applyEnv(cfg *AppConfig) {
	if v := os.Getenv("DEMANDAS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil && port > 0 {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DEMANDAS_DATA_DIR"); v != "" {
		cfg.Data.DataDir = v
	}
}
