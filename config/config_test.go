package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func run(t *testing.T, args ...string) (*Config, error) {
	t.Helper()
	cfg := &Config{}
	app := &cli.App{
		Name:  "socialnet",
		Flags: Flags(cfg),
		Action: func(c *cli.Context) error {
			return cfg.Complete(c)
		},
	}
	err := app.Run(append([]string{"socialnet"}, args...))
	return cfg, err
}

// clearEnv unsets the variables for the duration of the test.
func clearEnv(t *testing.T) {
	for _, k := range []string{
		"MONGODB_URI", "MONGODB_DATABASE", "ENSURE_INDEXES", "PORT", "GIN_MODE", "REQUEST_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT", "JWT_SECRET", "RATE_LIMIT_PER_MINUTE", "CORS_ALLOWED_ORIGINS",
	} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := run(t)
	require.NoError(t, err)

	assert.Equal(t, "mongodb://127.0.0.1:27017", cfg.MongoURI)
	assert.Equal(t, "social_network", cfg.MongoDatabase)
	assert.Equal(t, "8000", cfg.Port)
	assert.True(t, cfg.EnsureIndexes)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 60, cfg.RateLimitPerMinute)
	assert.Equal(t, defaultCORSOrigins, cfg.CORSOrigins)
	assert.Empty(t, cfg.JWTSecret)
}

func TestEnvironmentAndFlags(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("PORT", "9000")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := run(t, "--port", "9100", "--log-format", "json")
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.MongoURI)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			MongoURI:       "mongodb://localhost",
			MongoDatabase:  "social_network",
			RequestTimeout: time.Second,
			LogLevel:       "info",
			LogFormat:      "text",
		}
	}
	base := valid()
	require.NoError(t, base.Validate())

	broken := []func(*Config){
		func(c *Config) { c.MongoURI = "" },
		func(c *Config) { c.MongoDatabase = "" },
		func(c *Config) { c.RequestTimeout = 0 },
		func(c *Config) { c.RateLimitPerMinute = -1 },
		func(c *Config) { c.LogFormat = "xml" },
		func(c *Config) { c.LogLevel = "loud" },
	}
	for i, mutate := range broken {
		c := valid()
		mutate(&c)
		assert.Error(t, c.Validate(), "case %d", i)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := Config{LogLevel: "debug", LogFormat: "json"}
	logger, err := cfg.NewLogger()
	require.NoError(t, err)
	assert.Equal(t, "debug", logger.GetLevel().String())
}
