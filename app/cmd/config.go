package cmd

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// BuilderConfig selects the model backing design, selection and repair.
type BuilderConfig struct {
	// Provider is "ollama" or "gemini".
	Provider    string  `yaml:"provider"`
	Model       string  `yaml:"model"`
	Endpoint    string  `yaml:"endpoint"`
	Temperature float64 `yaml:"temperature"`
}

// Config is the application configuration loaded from config.yaml.
type Config struct {
	Builder     BuilderConfig `yaml:"builder"`
	TemplateDir string        `yaml:"template_dir"`
	CatalogPath string        `yaml:"catalog_path"`
	StoreDir    string        `yaml:"store_dir"`
	Debug       bool          `yaml:"debug"`
}

// DefaultConfigPath returns the expected config location inside a workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, "config.yaml")
}

// DefaultConfig returns a usable configuration for a workspace with no
// config file.
func DefaultConfig(workspace string) *Config {
	return &Config{
		Builder: BuilderConfig{
			Provider:    "ollama",
			Model:       "qwen2.5-coder",
			Temperature: 0.2,
		},
		TemplateDir: filepath.Join(workspace, "config", "patterns"),
		CatalogPath: filepath.Join(workspace, "config", "tools_index.json"),
		StoreDir:    filepath.Join(workspace, ".agentforge"),
	}
}

// LoadConfig reads the YAML config at path, layering it over the defaults.
// A missing file returns the defaults along with os.ErrNotExist so callers
// can decide whether that matters.
func LoadConfig(path, workspace string) (*Config, error) {
	cfg := DefaultConfig(workspace)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, os.ErrNotExist
		}
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
