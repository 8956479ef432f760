package server

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/matzehuels/seqsee/pkg/cache"
)

// Environment variables read by [LoadEnv].
const (
	EnvAddr         = "SEQSEE_ADDR"
	EnvRedisURL     = "SEQSEE_REDIS_URL"
	EnvMongoURI     = "SEQSEE_MONGO_URI"
	EnvMaxBodyBytes = "SEQSEE_MAX_BODY_BYTES"
	EnvWorkers      = "SEQSEE_WORKERS"
)

// Defaults for [Config].
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 4 << 20
	DefaultTimeout      = 30 * time.Second
)

// Config holds the server settings. Zero values are replaced by defaults in
// [Config.SetDefaults].
type Config struct {
	Addr         string        `toml:"addr" validate:"required,hostname_port"`
	RedisURL     string        `toml:"redis_url" validate:"omitempty,url"`
	MongoURI     string        `toml:"mongo_uri" validate:"omitempty,url"`
	MaxBodyBytes int64         `toml:"max_body_bytes" validate:"gte=0"`
	Workers      int           `toml:"workers" validate:"gte=0"`
	Timeout      time.Duration `toml:"timeout" validate:"gte=0"`
}

var validate = validator.New()

// SetDefaults fills unset fields.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
}

// Validate checks the field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// CacheConfig selects the shared cache backend. Redis is preferred over
// MongoDB; without either the server does not cache.
func (c *Config) CacheConfig() cache.Config {
	return cache.Config{RedisURL: c.RedisURL, MongoURI: c.MongoURI}
}

// LoadEnv loads the given dotenv files (".env" when none are named) into the
// process environment and then overrides cfg from SEQSEE_* variables. Missing
// dotenv files are ignored; variables already set in the environment win
// over dotenv values.
func LoadEnv(cfg *Config, files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}

	if v := os.Getenv(EnvAddr); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv(EnvRedisURL); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv(EnvMongoURI); v != "" {
		cfg.MongoURI = v
	}
	if v := os.Getenv(EnvMaxBodyBytes); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return errors.New(EnvMaxBodyBytes + " must be an integer")
		}
		cfg.MaxBodyBytes = n
	}
	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return errors.New(EnvWorkers + " must be an integer")
		}
		cfg.Workers = n
	}
	return nil
}
