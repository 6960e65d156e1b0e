package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	APIKey         string `mapstructure:"api_key"`
	BaseURL        string `mapstructure:"base_url"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	ModelsFile     string `mapstructure:"models_file"`     // Optional YAML model catalog
	MaxUploadMB    int    `mapstructure:"max_upload_mb"`   // Upload size cap for images
	RequestTimeout int    `mapstructure:"request_timeout"` // Seconds allowed for the upstream call
	Debug          bool   `mapstructure:"debug"`
	Verbose        bool   `mapstructure:"verbose"` // Print listen address and base URL at startup
}

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		APIKey:         "",
		BaseURL:        "https://api.groq.com/openai/v1",
		Host:           "127.0.0.1",
		Port:           8501,
		MaxUploadMB:    10,
		RequestTimeout: 120,
	}
}

// MaxUploadBytes returns the upload cap in bytes
func (c *Config) MaxUploadBytes() int64 {
	if c.MaxUploadMB <= 0 {
		return int64(DefaultConfig().MaxUploadMB) << 20
	}
	return int64(c.MaxUploadMB) << 20
}

// Timeout returns the upstream request timeout
func (c *Config) Timeout() time.Duration {
	if c.RequestTimeout <= 0 {
		return time.Duration(DefaultConfig().RequestTimeout) * time.Second
	}
	return time.Duration(c.RequestTimeout) * time.Second
}

// LoadDotEnv loads secrets from .env files into the process environment.
// Variables already set are not overridden and missing files are ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// Load loads configuration with precedence: ENV vars > config file > defaults
func Load() (*Config, error) {
	v := viper.New()

	defaultCfg := DefaultConfig()
	v.SetDefault("api_key", defaultCfg.APIKey)
	v.SetDefault("base_url", defaultCfg.BaseURL)
	v.SetDefault("host", defaultCfg.Host)
	v.SetDefault("port", defaultCfg.Port)
	v.SetDefault("models_file", defaultCfg.ModelsFile)
	v.SetDefault("max_upload_mb", defaultCfg.MaxUploadMB)
	v.SetDefault("request_timeout", defaultCfg.RequestTimeout)
	v.SetDefault("debug", defaultCfg.Debug)

	v.SetConfigName("config")
	v.SetConfigType("json")

	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	v.AddConfigPath(configDir)

	v.SetEnvPrefix("CROPID")
	v.AutomaticEnv()

	_ = v.BindEnv("api_key", "GROQ_API_KEY")
	_ = v.BindEnv("base_url", "GROQ_BASE_URL")
	_ = v.BindEnv("host", "CROPID_HOST")
	_ = v.BindEnv("port", "CROPID_PORT")
	_ = v.BindEnv("models_file", "CROPID_MODELS_FILE")
	_ = v.BindEnv("max_upload_mb", "CROPID_MAX_UPLOAD_MB")
	_ = v.BindEnv("request_timeout", "CROPID_REQUEST_TIMEOUT")
	_ = v.BindEnv("debug", "CROPID_DEBUG")

	// Missing config file is fine - defaults/env vars apply
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if apiKey := getAPIKeyFromEnv(); apiKey != "" {
		cfg.APIKey = apiKey
	}

	return &cfg, nil
}

// Save saves the configuration to file
func Save(cfg *Config) error {
	configDir, err := getConfigDir()
	if err != nil {
		return fmt.Errorf("failed to get config directory: %w", err)
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(configDir)

	v.Set("api_key", cfg.APIKey)
	v.Set("base_url", cfg.BaseURL)
	v.Set("host", cfg.Host)
	v.Set("port", cfg.Port)
	v.Set("models_file", cfg.ModelsFile)
	v.Set("max_upload_mb", cfg.MaxUploadMB)
	v.Set("request_timeout", cfg.RequestTimeout)
	v.Set("debug", cfg.Debug)

	configPath := filepath.Join(configDir, "config.json")
	if err := v.WriteConfigAs(configPath); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// getConfigDir returns the configuration directory path (XDG-compliant)
func getConfigDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, "crop-identifier"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config", "crop-identifier"), nil
}

// getAPIKeyFromEnv checks multiple environment variable names for API key
func getAPIKeyFromEnv() string {
	envVars := []string{
		"GROQ_API_KEY",
		"CROPID_API_KEY",
	}

	for _, envVar := range envVars {
		if value := os.Getenv(envVar); value != "" {
			return value
		}
	}

	return ""
}
