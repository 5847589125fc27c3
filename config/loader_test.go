// 配置加载器与默认配置测试。
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- 默认配置测试 ---

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	// 验证服务器默认值
	assert.Equal(t, 8188, cfg.Server.HTTPPort)
	assert.Equal(t, 9091, cfg.Server.MetricsPort)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)

	// 验证 API 默认值
	assert.Equal(t, "https://api.openai.com/v1", cfg.API.BaseURL)
	assert.Equal(t, 120*time.Second, cfg.API.Timeout)
	assert.Equal(t, 3, cfg.API.MaxRetries)
	assert.Equal(t, 2*time.Second, cfg.API.RetryDelay)

	// 验证 Cache 默认值
	assert.Equal(t, "file", cfg.Cache.Backend)
	assert.Equal(t, time.Hour, cfg.Cache.TTL)

	// 验证 Redis 默认值
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)

	// 验证 Log 默认值
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestDefaultConfig_Validates(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

// --- Loader 测试 ---

func TestLoader_LoadDefaults(t *testing.T) {
	// 不指定配置文件，应该返回默认值
	cfg, err := NewLoader().Load()
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, 8188, cfg.Server.HTTPPort)
	assert.Equal(t, 3, cfg.API.MaxRetries)
}

func TestLoader_LoadFromYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
server:
  http_port: 8888
api:
  base_url: "http://localhost:11434/v1"
  api_key: "sk-test"
  max_retries: 5
cache:
  ttl: 30m
profiles:
  venice:
    base_url: "https://api.venice.ai/api/v1"
    api_key: "vk-test"
    timeout: 60s
`
	require.NoError(t, os.WriteFile(configPath, []byte(yamlContent), 0644))

	cfg, err := NewLoader().WithConfigPath(configPath).Load()
	require.NoError(t, err)

	assert.Equal(t, 8888, cfg.Server.HTTPPort)
	assert.Equal(t, "http://localhost:11434/v1", cfg.API.BaseURL)
	assert.Equal(t, 5, cfg.API.MaxRetries)
	assert.Equal(t, 30*time.Minute, cfg.Cache.TTL)

	// 未覆盖的字段保留默认值
	assert.Equal(t, 2*time.Second, cfg.API.RetryDelay)

	require.Contains(t, cfg.Profiles, "venice")
	assert.Equal(t, "https://api.venice.ai/api/v1", cfg.Profiles["venice"].BaseURL)
}

func TestLoader_EnvOverride(t *testing.T) {
	t.Setenv("NODEFLOW_API_BASE_URL", "https://openrouter.ai/api/v1")
	t.Setenv("NODEFLOW_API_MAX_RETRIES", "7")
	t.Setenv("NODEFLOW_CACHE_TTL", "5m")
	t.Setenv("NODEFLOW_LOG_LEVEL", "debug")

	cfg, err := NewLoader().Load()
	require.NoError(t, err)

	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.API.BaseURL)
	assert.Equal(t, 7, cfg.API.MaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoader_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := NewLoader().WithConfigPath("/nonexistent/config.yaml").Load()
	require.NoError(t, err)
	assert.Equal(t, 8188, cfg.Server.HTTPPort)
}

// --- Endpoint 解析测试 ---

func TestConfig_Endpoint(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.APIKey = "sk-default"
	cfg.Profiles = map[string]EndpointConfig{
		"local": {BaseURL: "http://localhost:11434/v1"},
	}

	// 未知 profile 回退到默认端点
	ep := cfg.Endpoint("missing")
	assert.Equal(t, cfg.API.BaseURL, ep.BaseURL)

	// 命名 profile 继承默认值中的零字段
	ep = cfg.Endpoint("local")
	assert.Equal(t, "http://localhost:11434/v1", ep.BaseURL)
	assert.Equal(t, cfg.API.Timeout, ep.Timeout)
	assert.Equal(t, cfg.API.MaxRetries, ep.MaxRetries)
}

// --- 验证测试 ---

func TestConfig_ValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad http port", func(c *Config) { c.Server.HTTPPort = 0 }},
		{"zero timeout", func(c *Config) { c.API.Timeout = 0 }},
		{"zero retries", func(c *Config) { c.API.MaxRetries = 0 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcache" }},
		{"zero ttl", func(c *Config) { c.Cache.TTL = 0 }},
		{"profile without base_url", func(c *Config) {
			c.Profiles = map[string]EndpointConfig{"p": {}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
