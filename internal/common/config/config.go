// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App          AppConfig          `mapstructure:"app"`
	Server       ServerConfig       `mapstructure:"server"`
	Database     DatabaseConfig     `mapstructure:"database"`
	Queue        QueueConfig        `mapstructure:"queue"`
	Integrations IntegrationConfig  `mapstructure:"integrations"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig holds the REST API listener settings.
type ServerConfig struct {
	Address      string `mapstructure:"address"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // milliseconds
	WriteTimeout int    `mapstructure:"write_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// QueueConfig holds background queue settings. When Enabled is false the
// dispatch pipeline runs synchronously inside the event-handling call.
type QueueConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	Key          string `mapstructure:"key"`
	PollInterval int    `mapstructure:"poll_interval"` // milliseconds
}

// IntegrationConfig holds site-wide settings for the delivery backends.
type IntegrationConfig struct {
	Email struct {
		Enabled   bool   `mapstructure:"enabled"`
		FromEmail string `mapstructure:"from_email"`
		FromName  string `mapstructure:"from_name"`
		AWSRegion string `mapstructure:"aws_region"`
	} `mapstructure:"email"`

	Webhook struct {
		Timeout int `mapstructure:"timeout"` // milliseconds
	} `mapstructure:"webhook"`

	WebPush struct {
		// VAPID keys may also live in the settings store; config values
		// act as the bootstrap fallback.
		VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
		VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
		Subscriber      string `mapstructure:"subscriber"` // mailto: contact for VAPID
		TTL             int    `mapstructure:"ttl"`        // seconds
	} `mapstructure:"webpush"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
