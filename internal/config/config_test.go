package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name      string
		yaml      string
		envVars   map[string]string
		wantErr   string
		checkFunc func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid minimal config",
			yaml: `
api:
  base_url: https://market.example.com
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://market.example.com", cfg.API.BaseURL)
			},
		},
		{
			name: "defaults applied for optional fields",
			yaml: `
api:
  base_url: https://market.example.com
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 30*time.Second, cfg.API.Timeout)
				assert.InDelta(t, 5.0, cfg.API.RateLimit.PerSecond, 0.001)
				assert.Equal(t, 10, cfg.API.RateLimit.Burst)
				assert.Equal(t, int64(5000), cfg.API.RateLimit.DailyLimit)
				assert.Equal(t, 20, cfg.Search.PageSize)
				assert.Equal(t, 500*time.Millisecond, cfg.Search.Debounce)
				assert.Equal(t, 30*time.Second, cfg.Dashboard.PollInterval)
				assert.Equal(t, "info", cfg.Logging.Level)
				assert.Equal(t, "text", cfg.Logging.Format)
			},
		},
		{
			name: "env var substitution",
			yaml: `
api:
  base_url: ${ADSCOUT_TEST_URL}
  auth_token: ${ADSCOUT_TEST_TOKEN}
`,
			envVars: map[string]string{
				"ADSCOUT_TEST_URL":   "https://env.example.com",
				"ADSCOUT_TEST_TOKEN": "secret-token",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
				assert.Equal(t, "secret-token", cfg.API.AuthToken)
			},
		},
		{
			name: "explicit values override defaults",
			yaml: `
api:
  base_url: https://market.example.com
  timeout: 10s
search:
  page_size: 50
  debounce: 250ms
dashboard:
  poll_interval: 1m
logging:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				t.Helper()
				assert.Equal(t, 10*time.Second, cfg.API.Timeout)
				assert.Equal(t, 50, cfg.Search.PageSize)
				assert.Equal(t, 250*time.Millisecond, cfg.Search.Debounce)
				assert.Equal(t, time.Minute, cfg.Dashboard.PollInterval)
				assert.Equal(t, "debug", cfg.Logging.Level)
				assert.Equal(t, "json", cfg.Logging.Format)
			},
		},
		{
			name:    "missing base_url fails validation",
			yaml:    `search: {page_size: 20}`,
			wantErr: "api.base_url is required",
		},
		{
			name: "sub-second poll interval fails validation",
			yaml: `
api:
  base_url: https://market.example.com
dashboard:
  poll_interval: 100ms
`,
			wantErr: "dashboard.poll_interval must be at least 1s",
		},
		{
			name:    "invalid YAML",
			yaml:    `api: [not a map`,
			wantErr: "parsing config YAML",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			path := filepath.Join(t.TempDir(), "config.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o600))

			cfg, err := Load(path)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			tt.checkFunc(t, cfg)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config file")
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	assert.Equal(t, 20, cfg.Search.PageSize)
	assert.Equal(t, 500*time.Millisecond, cfg.Search.Debounce)
	assert.Equal(t, 30*time.Second, cfg.Dashboard.PollInterval)
}
