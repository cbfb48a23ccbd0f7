package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds CLI configuration
type Config struct {
	ServerURL string `mapstructure:"server"`
	Token     string `mapstructure:"token"`
	TokenFile string `mapstructure:"token_file"`
	Output    string `mapstructure:"output"`
}

// DefaultConfig returns a Config with built-in defaults only
func DefaultConfig() *Config {
	return &Config{
		ServerURL: "http://localhost:8080",
		TokenFile: filepath.Join(crystalDir(), "token"),
		Output:    "text",
	}
}

// LoadConfig reads the optional CLI config file and CRYSTAL_* environment
// variables on top of the defaults. An empty path uses ~/.crystal/config.yaml,
// or CRYSTAL_CONFIG when set.
func LoadConfig(path string) (*Config, error) {
	defaults := DefaultConfig()

	v := viper.New()
	v.SetDefault("server", defaults.ServerURL)
	v.SetDefault("token", "")
	v.SetDefault("token_file", defaults.TokenFile)
	v.SetDefault("output", defaults.Output)

	v.SetEnvPrefix("CRYSTAL")
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = os.Getenv("CRYSTAL_CONFIG")
		explicit = path != ""
	}
	if !explicit {
		path = filepath.Join(crystalDir(), "config.yaml")
	}
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read cli config: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode cli config: %w", err)
	}
	return cfg, nil
}

// LoadToken loads the token from file if not already set
func (c *Config) LoadToken() error {
	if c.Token != "" {
		return nil
	}

	data, err := os.ReadFile(c.TokenFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // No token file is fine
		}
		return err
	}

	c.Token = strings.TrimSpace(string(data))
	return nil
}

// SaveToken saves the token to the token file
func (c *Config) SaveToken(token string) error {
	c.Token = token

	if err := os.MkdirAll(filepath.Dir(c.TokenFile), 0700); err != nil {
		return err
	}
	return os.WriteFile(c.TokenFile, []byte(token), 0600)
}

func crystalDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".crystal"
	}
	return filepath.Join(home, ".crystal")
}
