package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                  int    `mapstructure:"port"                    validate:"required,gt=0,lt=65536"`
	LogLevel              string `mapstructure:"log_level"               validate:"required,oneof=debug info warn error"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig selects and configures the credential store.
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"           validate:"required,oneof=postgres memory"`
	URL             string `mapstructure:"url"              validate:"required_if=Driver postgres"`
	MaxConns        int32  `mapstructure:"max_conns"        validate:"gte=0"`
	ConnectAttempts uint64 `mapstructure:"connect_attempts" validate:"gte=1"`
}

// AuthConfig contains the session signing and password hashing settings.
type AuthConfig struct {
	// SecretKey signs session tokens. Bound to the unprefixed SECRET_KEY env var.
	SecretKey       string `mapstructure:"secret_key"        validate:"required,min=32"`
	TokenTTLSeconds int    `mapstructure:"token_ttl_seconds" validate:"required,gt=0"`
	BcryptCost      int    `mapstructure:"bcrypt_cost"       validate:"gte=4,lte=31"`
	HashConcurrency int    `mapstructure:"hash_concurrency"  validate:"gte=0"`
	// Revocation closes the stateless logout gap when set to memory or redis.
	Revocation string `mapstructure:"revocation" validate:"oneof=none memory redis"`
}

// RedisConfig configures the redis-backed token revocation list.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db" validate:"gte=0"`
}
