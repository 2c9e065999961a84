package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Config.Load() Tests ====================

func TestConfig_Load_DefaultValues(t *testing.T) {
	clearEnv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis://localhost:6379", cfg.Cache.URL)
	assert.Equal(t, "", cfg.Cache.Password)
	assert.Equal(t, 0, cfg.Cache.DB)
	assert.Equal(t, 10, cfg.Cache.PoolSize)
}

func TestConfig_Load_CustomValues(t *testing.T) {
	clearEnv()

	os.Setenv("TORC_LOG_LEVEL", "debug")
	os.Setenv("TORC_LOG_FORMAT", "text")
	os.Setenv("TORC_CACHE_REDIS_ENABLED", "true")
	os.Setenv("TORC_CACHE_REDIS_URL", "redis://localhost:6380")
	os.Setenv("TORC_CACHE_REDIS_PASSWORD", "secret")
	os.Setenv("TORC_CACHE_REDIS_DB", "1")
	os.Setenv("TORC_CACHE_REDIS_POOL_SIZE", "20")
	defer clearEnv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)

	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, "redis://localhost:6380", cfg.Cache.URL)
	assert.Equal(t, "secret", cfg.Cache.Password)
	assert.Equal(t, 1, cfg.Cache.DB)
	assert.Equal(t, 20, cfg.Cache.PoolSize)
}

func TestConfig_Load_InvalidValuesUsesDefaults(t *testing.T) {
	clearEnv()

	os.Setenv("TORC_CACHE_REDIS_DB", "not_a_number")
	os.Setenv("TORC_CACHE_REDIS_ENABLED", "not_a_bool")
	defer clearEnv()

	cfg, err := Load()
	require.NoError(t, err)
	assert.NotNil(t, cfg)

	assert.Equal(t, 0, cfg.Cache.DB)
	assert.False(t, cfg.Cache.Enabled)
}

// ==================== Config.Validate() Tests ====================

func TestConfig_Validate_Success(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Cache:   CacheConfig{Enabled: false},
	}

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestConfig_Validate_InvalidLogLevel(t *testing.T) {
	tests := []string{"trace", "verbose", "critical", "invalid", ""}

	for _, level := range tests {
		t.Run("Level "+level, func(t *testing.T) {
			cfg := &Config{Logging: LoggingConfig{Level: level, Format: "json"}}

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid log level")
		})
	}
}

func TestConfig_Validate_ValidLogLevels(t *testing.T) {
	tests := []string{"debug", "info", "warn", "error"}

	for _, level := range tests {
		t.Run("Level "+level, func(t *testing.T) {
			cfg := &Config{Logging: LoggingConfig{Level: level, Format: "json"}}

			err := cfg.Validate()
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Validate_InvalidLogFormat(t *testing.T) {
	tests := []string{"xml", "yaml", "csv", "invalid", ""}

	for _, format := range tests {
		t.Run("Format "+format, func(t *testing.T) {
			cfg := &Config{Logging: LoggingConfig{Level: "info", Format: format}}

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "invalid log format")
		})
	}
}

func TestConfig_Validate_ValidLogFormats(t *testing.T) {
	tests := []string{"json", "text"}

	for _, format := range tests {
		t.Run("Format "+format, func(t *testing.T) {
			cfg := &Config{Logging: LoggingConfig{Level: "info", Format: format}}

			err := cfg.Validate()
			assert.NoError(t, err)
		})
	}
}

func TestConfig_Validate_CacheEnabledRequiresURL(t *testing.T) {
	cfg := &Config{
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Cache:   CacheConfig{Enabled: true, URL: ""},
	}

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "cache redis URL is required")
}

// ==================== Helper Functions Tests ====================

func TestGetEnv_WithValue(t *testing.T) {
	os.Setenv("TEST_KEY", "test_value")
	defer os.Unsetenv("TEST_KEY")

	result := getEnv("TEST_KEY", "default")
	assert.Equal(t, "test_value", result)
}

func TestGetEnv_WithoutValue(t *testing.T) {
	os.Unsetenv("TEST_KEY")

	result := getEnv("TEST_KEY", "default")
	assert.Equal(t, "default", result)
}

func TestGetEnvAsInt_ValidInteger(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	defer os.Unsetenv("TEST_INT")

	result := getEnvAsInt("TEST_INT", 10)
	assert.Equal(t, 42, result)
}

func TestGetEnvAsInt_InvalidInteger(t *testing.T) {
	os.Setenv("TEST_INT", "not_a_number")
	defer os.Unsetenv("TEST_INT")

	result := getEnvAsInt("TEST_INT", 10)
	assert.Equal(t, 10, result)
}

func TestGetEnvAsInt_EmptyString(t *testing.T) {
	os.Unsetenv("TEST_INT")

	result := getEnvAsInt("TEST_INT", 10)
	assert.Equal(t, 10, result)
}

func TestGetEnvAsBool_True(t *testing.T) {
	tests := []string{"true", "True", "TRUE", "1", "t", "T"}

	for _, value := range tests {
		t.Run("Value "+value, func(t *testing.T) {
			os.Setenv("TEST_BOOL", value)
			defer os.Unsetenv("TEST_BOOL")

			result := getEnvAsBool("TEST_BOOL", false)
			assert.True(t, result)
		})
	}
}

func TestGetEnvAsBool_False(t *testing.T) {
	tests := []string{"false", "False", "FALSE", "0", "f", "F"}

	for _, value := range tests {
		t.Run("Value "+value, func(t *testing.T) {
			os.Setenv("TEST_BOOL", value)
			defer os.Unsetenv("TEST_BOOL")

			result := getEnvAsBool("TEST_BOOL", true)
			assert.False(t, result)
		})
	}
}

func TestGetEnvAsBool_Invalid(t *testing.T) {
	os.Setenv("TEST_BOOL", "invalid")
	defer os.Unsetenv("TEST_BOOL")

	result := getEnvAsBool("TEST_BOOL", true)
	assert.True(t, result)
}

func TestGetEnvAsBool_Empty(t *testing.T) {
	os.Unsetenv("TEST_BOOL")

	result := getEnvAsBool("TEST_BOOL", true)
	assert.True(t, result)
}

// ==================== Helper Functions ====================

func clearEnv() {
	envVars := []string{
		"TORC_LOG_LEVEL", "TORC_LOG_FORMAT",
		"TORC_CACHE_REDIS_ENABLED", "TORC_CACHE_REDIS_URL", "TORC_CACHE_REDIS_PASSWORD",
		"TORC_CACHE_REDIS_DB", "TORC_CACHE_REDIS_POOL_SIZE",
	}

	for _, key := range envVars {
		os.Unsetenv(key)
	}
}
