package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type ProviderConfig struct {
	APIKey string `yaml:"api_key"`
}

type AdvisorConfig struct {
	Mode  string `yaml:"mode"`  // "rules" or "llm"
	Model string `yaml:"model"` // Gemini model for llm mode
}

type Config struct {
	// Scanners toggles individual scanner adapters. Absent entries default
	// to enabled.
	Scanners       map[string]bool           `yaml:"scanners"`
	TimeoutSeconds int                       `yaml:"timeout_seconds"`
	Advisor        AdvisorConfig             `yaml:"advisor"`
	Providers      map[string]ProviderConfig `yaml:"providers"`
}

func DefaultConfig() *Config {
	return &Config{
		Scanners: map[string]bool{
			"checkov":   true,
			"tfsec":     true,
			"terrascan": true,
		},
		TimeoutSeconds: 300,
		Advisor: AdvisorConfig{
			Mode:  "rules",
			Model: "gemini-1.5-flash",
		},
		Providers: make(map[string]ProviderConfig),
	}
}

func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".terrasight")
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.yaml"), nil
}

func LoadConfig() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if cfg.Providers == nil {
		cfg.Providers = make(map[string]ProviderConfig)
	}
	if cfg.Scanners == nil {
		cfg.Scanners = DefaultConfig().Scanners
	}
	return cfg, nil
}

func SaveConfig(cfg *Config) error {
	path, err := GetConfigPath()
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// 0600 permissions for security (api keys)
	return os.WriteFile(path, data, 0600)
}

func (c *Config) SetAPIKey(provider, key string) {
	p := c.Providers[provider]
	p.APIKey = key
	c.Providers[provider] = p
}

func (c *Config) GetAPIKey(provider string) string {
	return c.Providers[provider].APIKey
}

// ScannerEnabled reports whether a scanner should run; unknown scanners are
// enabled by default.
func (c *Config) ScannerEnabled(name string) bool {
	enabled, ok := c.Scanners[name]
	if !ok {
		return true
	}
	return enabled
}

func (c *Config) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 300 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}
