// Package config loads and validates service configuration from defaults, an
// optional YAML file, and CLIMBE_-prefixed environment variables.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the root configuration object. Loaded once at process start and
// passed by reference; nothing reloads it at runtime.
type Config struct {
	Server  ServerConfig      `mapstructure:"server"`
	Logging LoggingConfig     `mapstructure:"logging"`
	Drive   DriveConfig       `mapstructure:"drive"`
	Mail    MailConfig        `mapstructure:"mail"`
	CORS    CORSConfig        `mapstructure:"cors"`
	Folders map[string]string `mapstructure:"folders"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// DriveConfig configures the upstream listing client.
type DriveConfig struct {
	// CredentialsFile is the path to the service-account JSON key.
	CredentialsFile string `mapstructure:"credentials_file"`

	// CallTimeout bounds each upstream round-trip.
	CallTimeout time.Duration `mapstructure:"call_timeout"`

	// RateLimit caps upstream requests per second. Zero means unlimited.
	RateLimit float64 `mapstructure:"rate_limit"`
}

// MailConfig configures the SMTP relay.
type MailConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`

	// FromName is the display name on outgoing mail.
	FromName string `mapstructure:"from_name"`

	// To is the internal address that receives contact and newsletter
	// notifications.
	To string `mapstructure:"to"`
}

// CORSConfig lists the browser origins allowed to call the GET endpoints.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Validate checks invariants that must hold before the service starts.
// It fails fast so a misconfigured process never serves requests.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.Drive.CredentialsFile == "" {
		errs = append(errs, errors.New("drive.credentials_file is required"))
	}
	if c.Mail.Host == "" {
		errs = append(errs, errors.New("mail.host is required"))
	}
	if c.Mail.Username == "" {
		errs = append(errs, errors.New("mail.username is required"))
	}
	if c.Mail.To == "" {
		errs = append(errs, errors.New("mail.to is required"))
	}

	return errors.Join(errs...)
}
