package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

type Config struct {
	MongoURI       string
	MongoDatabase  string
	EnsureIndexes  bool
	Port           string
	GinMode        string
	RequestTimeout time.Duration

	LogLevel  string
	LogFormat string

	JWTSecret          string
	RateLimitPerMinute int
	CORSOrigins        []string
}

var defaultCORSOrigins = []string{"http://localhost:3000", "http://localhost:8080", "http://127.0.0.1:8080"}

// LoadDotEnv reads .env into the environment if the file exists. Variables
// already set win.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// Flags binds every setting to a flag with an environment fallback.
func Flags(cfg *Config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "mongo-uri",
			Usage:       "MongoDB connection string",
			EnvVars:     []string{"MONGODB_URI"},
			Value:       "mongodb://127.0.0.1:27017",
			Destination: &cfg.MongoURI,
		},
		&cli.StringFlag{
			Name:        "mongo-database",
			Usage:       "database holding the social network collections",
			EnvVars:     []string{"MONGODB_DATABASE"},
			Value:       "social_network",
			Destination: &cfg.MongoDatabase,
		},
		&cli.BoolFlag{
			Name:        "ensure-indexes",
			Usage:       "create unique, lookup and TTL indexes at startup",
			EnvVars:     []string{"ENSURE_INDEXES"},
			Value:       true,
			Destination: &cfg.EnsureIndexes,
		},
		&cli.StringFlag{
			Name:        "port",
			EnvVars:     []string{"PORT"},
			Value:       "8000",
			Destination: &cfg.Port,
		},
		&cli.StringFlag{
			Name:        "gin-mode",
			Usage:       "debug, release or test",
			EnvVars:     []string{"GIN_MODE"},
			Value:       "debug",
			Destination: &cfg.GinMode,
		},
		&cli.DurationFlag{
			Name:        "request-timeout",
			Usage:       "deadline for store calls made by one request",
			EnvVars:     []string{"REQUEST_TIMEOUT"},
			Value:       10 * time.Second,
			Destination: &cfg.RequestTimeout,
		},
		&cli.StringFlag{
			Name:        "log-level",
			EnvVars:     []string{"LOG_LEVEL"},
			Value:       "info",
			Destination: &cfg.LogLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "text or json",
			EnvVars:     []string{"LOG_FORMAT"},
			Value:       "text",
			Destination: &cfg.LogFormat,
		},
		&cli.StringFlag{
			Name:        "jwt-secret",
			Usage:       "HMAC secret; when set, write routes require a bearer token",
			EnvVars:     []string{"JWT_SECRET"},
			Destination: &cfg.JWTSecret,
		},
		&cli.IntFlag{
			Name:        "rate-limit",
			Usage:       "requests per minute per client IP, 0 disables",
			EnvVars:     []string{"RATE_LIMIT_PER_MINUTE"},
			Value:       60,
			Destination: &cfg.RateLimitPerMinute,
		},
		&cli.StringSliceFlag{
			Name:    "cors-origin",
			EnvVars: []string{"CORS_ALLOWED_ORIGINS"},
			Value:   cli.NewStringSlice(defaultCORSOrigins...),
		},
	}
}

// Complete copies values that cli cannot bind through Destination and checks
// the result.
func (c *Config) Complete(ctx *cli.Context) error {
	c.CORSOrigins = ctx.StringSlice("cors-origin")
	return c.Validate()
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("mongo-uri must be set")
	}
	if c.MongoDatabase == "" {
		return errors.New("mongo-database must be set")
	}
	if c.RequestTimeout <= 0 {
		return errors.Errorf("request-timeout must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimitPerMinute < 0 {
		return errors.Errorf("rate-limit must not be negative, got %d", c.RateLimitPerMinute)
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errors.Errorf("log-format must be text or json, got %q", c.LogFormat)
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log-level")
	}
	return nil
}

// NewLogger builds the process logger from the log settings.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrap(err, "log-level")
	}
	logger := logrus.New()
	logger.SetLevel(level)
	if c.LogFormat == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}
