package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Log       LogConfig       `mapstructure:"log"`
	Security  SecurityConfig  `mapstructure:"security"`
	Mail      MailConfig      `mapstructure:"mail"`
	Accidents AccidentsConfig `mapstructure:"accidents"`
	Directory DirectoryConfig `mapstructure:"directory"`
	Session   SessionConfig   `mapstructure:"session"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// DSN returns the PostgreSQL connection string
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	// Enabled turns on the Redis notice channel and rate limits. Without it
	// notices stay in process memory.
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SecurityConfig holds security-related configuration
type SecurityConfig struct {
	JWT          JWTConfig          `mapstructure:"jwt"`
	RateLimiting RateLimitingConfig `mapstructure:"rate_limiting"`
}

// JWTConfig describes the access tokens issued by the external auth service.
type JWTConfig struct {
	// Secret is the shared HMAC secret used by the auth service to sign tokens.
	Secret string `mapstructure:"secret"`
	// CookieName is the cookie the front end stores the access token in.
	CookieName string `mapstructure:"cookie_name"`
	// Disabled turns off operator authentication (local development only).
	Disabled bool `mapstructure:"disabled"`
}

// RateLimitingConfig holds rate limiting configuration
type RateLimitingConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	SubmitLimit  int           `mapstructure:"submit_limit"`
	SubmitWindow time.Duration `mapstructure:"submit_window"`
}

// MailConfig holds mail transport configuration
type MailConfig struct {
	// Provider is the transport to use: "smtp" or "gmail".
	Provider string `mapstructure:"provider"`
	// SenderAddress is the "From" email address
	SenderAddress string `mapstructure:"sender_address"`
	// SenderName is the display name for the sender
	SenderName string          `mapstructure:"sender_name"`
	SMTP       SMTPMailConfig  `mapstructure:"smtp"`
	Gmail      GmailMailConfig `mapstructure:"gmail"`
}

// SMTPMailConfig holds SMTP transport settings
type SMTPMailConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port"`
	Username           string `mapstructure:"username"`
	Password           string `mapstructure:"password"`
	SSL                bool   `mapstructure:"ssl"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

// GmailMailConfig holds Gmail API configuration
type GmailMailConfig struct {
	// CredentialsJSON is the service account credentials JSON content
	CredentialsJSON string `mapstructure:"credentials_json"`
	// ClientID for OAuth2 token-based auth (alternative to service account)
	ClientID string `mapstructure:"client_id"`
	// ClientSecret for OAuth2 token-based auth
	ClientSecret string `mapstructure:"client_secret"`
	// RefreshToken for OAuth2 token-based auth
	RefreshToken string `mapstructure:"refresh_token"`
}

// AccidentsConfig configures where accident records are read from
type AccidentsConfig struct {
	// Source is "http" (accident API) or "database" (local Postgres).
	Source   string        `mapstructure:"source"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// DirectoryConfig configures the rescue-team directory
type DirectoryConfig struct {
	// Source is "config" or "database".
	Source   string          `mapstructure:"source"`
	Contacts []ContactConfig `mapstructure:"contacts"`
}

// ContactConfig is a single rescue-team entry in the config file
type ContactConfig struct {
	ID       string `mapstructure:"id"`
	Name     string `mapstructure:"name"`
	Email    string `mapstructure:"email"`
	Selected bool   `mapstructure:"selected"`
}

// SessionConfig holds alert session lifetimes
type SessionConfig struct {
	IdleTTL   time.Duration `mapstructure:"idle_ttl"`
	NoticeTTL time.Duration `mapstructure:"notice_ttl"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/roadwatch")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK, we'll use defaults and env vars
	}

	v.SetEnvPrefix("ROADWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Gmail SMTP sends as the authenticated user
	if cfg.Mail.SenderAddress == "" {
		cfg.Mail.SenderAddress = cfg.Mail.SMTP.Username
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the enumerated settings
func (c *Config) Validate() error {
	switch c.Mail.Provider {
	case "smtp", "gmail":
	default:
		return fmt.Errorf("unsupported mail provider %q", c.Mail.Provider)
	}
	switch c.Accidents.Source {
	case "http", "database":
	default:
		return fmt.Errorf("unsupported accidents source %q", c.Accidents.Source)
	}
	switch c.Directory.Source {
	case "config", "database":
	default:
		return fmt.Errorf("unsupported directory source %q", c.Directory.Source)
	}
	return nil
}

// NeedsDatabase reports whether any component reads from Postgres
func (c *Config) NeedsDatabase() bool {
	return c.Accidents.Source == "database" || c.Directory.Source == "database"
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8081)
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "roadwatch")
	v.SetDefault("database.user", "roadwatch")
	v.SetDefault("database.password", "")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)

	// Redis defaults
	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Security defaults
	v.SetDefault("security.jwt.secret", "")
	v.SetDefault("security.jwt.cookie_name", "token")
	v.SetDefault("security.jwt.disabled", false)
	v.SetDefault("security.rate_limiting.enabled", true)
	v.SetDefault("security.rate_limiting.submit_limit", 10)
	v.SetDefault("security.rate_limiting.submit_window", "1m")

	// Mail defaults (Gmail over implicit TLS)
	v.SetDefault("mail.provider", "smtp")
	v.SetDefault("mail.sender_address", "")
	v.SetDefault("mail.sender_name", "Accident Notifier")
	v.SetDefault("mail.smtp.host", "smtp.gmail.com")
	v.SetDefault("mail.smtp.port", 465)
	v.SetDefault("mail.smtp.ssl", true)
	v.SetDefault("mail.smtp.insecure_skip_verify", false)

	// Accident provider defaults
	v.SetDefault("accidents.source", "http")
	v.SetDefault("accidents.base_url", "http://127.0.0.1:8080")
	v.SetDefault("accidents.timeout", "10s")
	v.SetDefault("accidents.cache_ttl", "30s")

	// Directory defaults
	v.SetDefault("directory.source", "config")

	// Session defaults
	v.SetDefault("session.idle_ttl", "30m")
	v.SetDefault("session.notice_ttl", "5m")
}
