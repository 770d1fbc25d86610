// Package config provides configuration management for the supawatch CLI.
//
// Configuration is layered: defaults, then supawatch.yaml, then SUPAWATCH_*
// environment variables, then explicitly-set command flags.
package config

import (
	"github.com/SaxonF/supawatch/internal/adapter"
)

// ServerConfig holds settings for the browsing server.
type ServerConfig struct {
	Port          int    `koanf:"port"`
	SessionSecret string `koanf:"session_secret"`
	Watch         bool   `koanf:"watch"`
}

// Config holds all CLI configuration options.
type Config struct {
	ProjectID string          `koanf:"project"`
	StatePath string          `koanf:"state_path"`
	SpecsDir  string          `koanf:"specs_dir"`
	Verbose   bool            `koanf:"verbose"`
	Output    string          `koanf:"output"`
	Server    *ServerConfig   `koanf:"server"`
	Target    *adapter.Config `koanf:"target"`
}

// Default configuration values.
const (
	DefaultProjectID = "default"
	DefaultStateFile = ".supawatch/state.db"
	DefaultSpecsDir  = "specs"
	DefaultPort      = 8765
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// GetServer returns the server config with defaults applied for unset values.
func (c *Config) GetServer() *ServerConfig {
	if c.Server == nil {
		return &ServerConfig{Port: DefaultPort, Watch: true}
	}
	s := c.Server
	if s.Port == 0 {
		s.Port = DefaultPort
	}
	return s
}

// GetTarget returns the data-source target, defaulting to an in-memory
// SQLite database so the server always has something to query.
func (c *Config) GetTarget() *adapter.Config {
	if c.Target == nil {
		return &adapter.Config{Type: adapter.TypeSQLite, Database: ":memory:"}
	}
	t := c.Target
	if t.Type == adapter.TypePostgres && t.Port == 0 {
		t.Port = 5432
	}
	return t
}
