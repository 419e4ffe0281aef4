// Package config handles loading fieldwork configuration.
//
// Configuration lives in fieldwork.yaml at the workspace root. Secrets
// (Notion token, API role tokens) come from the environment, with an
// optional .env file loaded at startup. The loaded Config is passed
// explicitly into every command and handler; nothing mutates it after
// initialization.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the workspace configuration filename.
const DefaultConfigFile = "fieldwork.yaml"

// Environment variable names for secrets.
const (
	EnvNotionToken = "NOTION_TOKEN"
	EnvAdminToken  = "FW_ADMIN_TOKEN"
	EnvViewerToken = "FW_VIEWER_TOKEN"
)

// ServerConfig holds the REST API server settings.
type ServerConfig struct {
	Port      int    `yaml:"port,omitempty"`       // default 4820
	StaticDir string `yaml:"static_dir,omitempty"` // built dashboard assets; empty disables SPA serving
	Auth      bool   `yaml:"auth,omitempty"`       // when false every caller is admin
}

// NotionConfig holds the Notion integration settings. The API token itself
// always comes from the environment, never from the YAML file.
type NotionConfig struct {
	InsightsDatabase string `yaml:"insights_database,omitempty"`
	ActionsDatabase  string `yaml:"actions_database,omitempty"`
}

// AgentConfig controls how the external AI agent is invoked.
type AgentConfig struct {
	// Binary is the agent executable name (default "agent").
	Binary string `yaml:"binary,omitempty"`
	// Args are prepended before the prompt path (default ["run"]).
	Args []string `yaml:"args,omitempty"`
}

// Config is the top-level fieldwork configuration.
type Config struct {
	// Organization scopes quarterly-metric lookups for ROI tracking.
	Organization string       `yaml:"organization,omitempty"`
	Server       ServerConfig `yaml:"server,omitempty"`
	Notion       NotionConfig `yaml:"notion,omitempty"`
	Agent        AgentConfig  `yaml:"agent,omitempty"`

	// Resolved secrets, populated from the environment during Load.
	NotionToken string `yaml:"-"`
	AdminToken  string `yaml:"-"`
	ViewerToken string `yaml:"-"`
}

// DefaultConfig returns a Config with defaults applied.
func DefaultConfig() Config {
	cfg := Config{}
	cfg.applyDefaults()
	return cfg
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 4820
	}
	if c.Agent.Binary == "" {
		c.Agent.Binary = "agent"
	}
	if len(c.Agent.Args) == 0 {
		c.Agent.Args = []string{"run"}
	}
}

// Load reads fieldwork.yaml from the workspace root and resolves secrets
// from the environment. A missing config file yields defaults, not an error.
// A .env file at the workspace root is loaded first when present.
func Load(workspace string) (Config, error) {
	// Best-effort: absence of .env is the normal case.
	_ = godotenv.Load(filepath.Join(workspace, ".env"))

	cfg := Config{}
	path := filepath.Join(workspace, DefaultConfigFile)
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return cfg, fmt.Errorf("reading config: %w", err)
	}
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", DefaultConfigFile, err)
		}
	}

	cfg.applyDefaults()
	cfg.NotionToken = os.Getenv(EnvNotionToken)
	cfg.AdminToken = os.Getenv(EnvAdminToken)
	cfg.ViewerToken = os.Getenv(EnvViewerToken)
	return cfg, nil
}

// Save writes the config YAML to the workspace root. Secrets are never
// persisted.
func Save(cfg Config, workspace string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	path := filepath.Join(workspace, DefaultConfigFile)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}
