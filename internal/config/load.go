package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable except SECRET_KEY.
const EnvPrefix = "ACCOUNTS"

// SecretKeyEnv is the environment variable holding the token signing secret.
const SecretKeyEnv = "SECRET_KEY"

// Load reads configuration from the working directory and the environment.
// Environment variables take precedence over values from config files.
func Load() (*Config, error) {
	return LoadFrom(".")
}

// LoadFrom reads an optional config.yaml and .env from dir, then the
// environment, and validates the result.
func LoadFrom(dir string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(dir, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.AddConfigPath("$HOME/.accounts-api")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("auth.secret_key", SecretKeyEnv, EnvPrefix+"_AUTH_SECRET_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind %s: %w", SecretKeyEnv, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks struct tags and cross-field rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	if c.Auth.Revocation == "redis" && c.Redis.Addr == "" {
		return fmt.Errorf("config validation failed: redis.addr is required when auth.revocation is redis")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.request_timeout_seconds", 30)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_conns", 10)
	v.SetDefault("database.connect_attempts", 5)

	v.SetDefault("auth.secret_key", "")
	v.SetDefault("auth.token_ttl_seconds", 3600)
	v.SetDefault("auth.bcrypt_cost", 10)
	v.SetDefault("auth.hash_concurrency", 0)
	v.SetDefault("auth.revocation", "none")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
}
