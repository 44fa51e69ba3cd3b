package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port      int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel  string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat string `mapstructure:"log_format" validate:"omitempty,oneof=json text"`
	// Timeouts in seconds for reading a request and writing its response.
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// DatabaseConfig contains all database-related configuration settings.
// An empty URL starts the server without a store; every case request then
// fails with server_not_configured.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"omitempty,url"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gte=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains the settings used to validate bearer tokens.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// ScoringConfig controls server-side checks on submitted attempts.
type ScoringConfig struct {
	// Audit recomputes submitted deltas against the case's options and
	// logs any discrepancy. Stored values are never changed.
	Audit bool `mapstructure:"audit"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"omitempty,startswith=/"`
}
