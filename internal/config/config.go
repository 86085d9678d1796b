package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
	BCryptCost                  int    `mapstructure:"bcrypt_cost"                    validate:"omitempty,gte=4,lte=31"`
}

// SimulationConfig contains tunables for the concentration simulation engine.
type SimulationConfig struct {
	// SampleIntervalMinutes is the spacing of curve samples.
	SampleIntervalMinutes int `mapstructure:"sample_interval_minutes" validate:"required,gt=0"`

	// ScheduleMarginDays is the number of extra days of doses expanded past
	// the simulation window so the tail of the curve stays accurate.
	ScheduleMarginDays int `mapstructure:"schedule_margin_days" validate:"gte=0"`

	// DefaultWindowHours is the simulated window used when a graph request
	// does not specify one.
	DefaultWindowHours float64 `mapstructure:"default_window_hours" validate:"required,gt=0"`
}
