package cmd

import (
	"testing"

	"github.com/chew-z/crop-identifier/internal/config"
	"github.com/chew-z/crop-identifier/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetConfigValue(t *testing.T) {
	cfg := config.DefaultConfig()

	require.NoError(t, setConfigValue(&cfg, "api_key", "gsk_secret"))
	require.NoError(t, setConfigValue(&cfg, "base_url", "http://localhost:8080/v1"))
	require.NoError(t, setConfigValue(&cfg, "host", "0.0.0.0"))
	require.NoError(t, setConfigValue(&cfg, "port", "9000"))
	require.NoError(t, setConfigValue(&cfg, "models_file", "models.yaml"))

	assert.Equal(t, "gsk_secret", cfg.APIKey)
	assert.Equal(t, "http://localhost:8080/v1", cfg.BaseURL)
	assert.Equal(t, "0.0.0.0", cfg.Host)
	assert.Equal(t, 9000, cfg.Port)
	assert.Equal(t, "models.yaml", cfg.ModelsFile)
}

func TestSetConfigValue_Invalid(t *testing.T) {
	cfg := config.DefaultConfig()

	tests := []struct {
		name  string
		key   string
		value string
		want  string
	}{
		{"Unknown Key", "model", "x", "Invalid key: model"},
		{"Port Not A Number", "port", "abc", "Invalid port value: abc"},
		{"Port Out Of Range", "port", "70000", "Invalid port value: 70000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setConfigValue(&cfg, tt.key, tt.value)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestGetConfigValue(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.APIKey = "gsk_secret"

	value, err := getConfigValue(&cfg, "api_key")
	require.NoError(t, err)
	assert.Equal(t, "********", value)

	value, err = getConfigValue(&cfg, "port")
	require.NoError(t, err)
	assert.Equal(t, "8501", value)

	cfg.Port = 0
	value, err = getConfigValue(&cfg, "port")
	require.NoError(t, err)
	assert.Empty(t, value)

	_, err = getConfigValue(&cfg, "nope")
	assert.Error(t, err)
}

func TestMaskIfAPIKey(t *testing.T) {
	assert.Equal(t, "********", maskIfAPIKey("api_key", "gsk_secret"))
	assert.Equal(t, "", maskIfAPIKey("api_key", ""))
	assert.Equal(t, "127.0.0.1", maskIfAPIKey("host", "127.0.0.1"))
}

func TestLoadCatalog_DefaultWhenUnset(t *testing.T) {
	catalog, err := loadCatalog(&config.Config{})
	require.NoError(t, err)
	assert.Equal(t, models.DefaultModels, catalog.Models())

	_, err = loadCatalog(&config.Config{ModelsFile: "/nonexistent/models.yaml"})
	assert.Error(t, err)
}
