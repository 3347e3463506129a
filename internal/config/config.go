package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"     validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"   validate:"required"`
	Auth      AuthConfig      `mapstructure:"auth"       validate:"required"`
	Mail      MailConfig      `mapstructure:"mail"       validate:"required"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" validate:"required"`
	Avatar    AvatarConfig    `mapstructure:"avatar"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                   int      `mapstructure:"port"                     validate:"required,gt=0,lt=65536"`
	LogLevel               string   `mapstructure:"log_level"                validate:"required,oneof=debug info warn error"`
	ShutdownTimeoutSeconds int      `mapstructure:"shutdown_timeout_seconds" validate:"gte=1"`
	CORSAllowedOrigins     []string `mapstructure:"cors_allowed_origins"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL                    string `mapstructure:"url"                       validate:"required,url"`
	MaxOpenConns           int    `mapstructure:"max_open_conns"            validate:"gte=1"`
	MaxIdleConns           int    `mapstructure:"max_idle_conns"            validate:"gte=0"`
	ConnMaxLifetimeMinutes int    `mapstructure:"conn_max_lifetime_minutes" validate:"gte=1"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"  validate:"required,min=32"`
	// BcryptCost is the work factor used when hashing passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// MailConfig selects and configures the outbound e-mail provider.
type MailConfig struct {
	// Provider is "log" (write messages to the application log) or "sendgrid".
	Provider       string `mapstructure:"provider"         validate:"required,oneof=log sendgrid"`
	SendGridAPIKey string `mapstructure:"sendgrid_api_key" validate:"required_if=Provider sendgrid"`
	FromAddress    string `mapstructure:"from_address"     validate:"required,email"`
	FromName       string `mapstructure:"from_name"`
	QueueSize      int    `mapstructure:"queue_size"       validate:"gte=1"`
	WorkerCount    int    `mapstructure:"worker_count"     validate:"gte=1"`
}

// RateLimitConfig bounds unauthenticated credential endpoints per client IP.
type RateLimitConfig struct {
	RequestsPerMinute int `mapstructure:"requests_per_minute" validate:"gte=1"`
	Burst             int `mapstructure:"burst"               validate:"gte=1"`
}

// AvatarConfig controls avatar upload limits and normalisation.
type AvatarConfig struct {
	MaxBytes int64 `mapstructure:"max_bytes" validate:"gte=1024"`
	Size     int   `mapstructure:"size"      validate:"gte=16,lte=1024"`
}
