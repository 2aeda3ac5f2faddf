package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Identity token verification modes.
const (
	AuthModeHMAC = "hmac"
	AuthModeJWKS = "jwks"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	S3     S3Config
	Auth   AuthConfig
	Log    LogConfig
	CORS   CORSConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection URL with credentials escaped.
func (d *DBConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, strconv.Itoa(d.Port)),
		Path:     "/" + d.Name,
		RawQuery: url.Values{"sslmode": {d.SSLMode}}.Encode(),
	}
	return u.String()
}

// S3Config holds the bucket and credentials used to presign uploads.
// AccessKey and SecretKey are optional; without them the default AWS
// credential chain is used.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// PresignTTL returns the validity window for presigned upload URLs.
func (s *S3Config) PresignTTL() time.Duration {
	return time.Duration(s.PresignExpiry) * time.Second
}

// AuthConfig holds settings for verifying identity tokens issued by the
// external auth service.
type AuthConfig struct {
	Mode                string        `mapstructure:"mode"`
	Secret              string        `mapstructure:"secret"`
	JWKSURL             string        `mapstructure:"jwks_url"`
	JWKSRefreshInterval time.Duration `mapstructure:"jwks_refresh_interval"`
	JWKSClientTimeout   time.Duration `mapstructure:"jwks_client_timeout"`
	Issuer              string        `mapstructure:"issuer"`
	Audience            string        `mapstructure:"audience"`
	Leeway              time.Duration `mapstructure:"leeway"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the FILEDROP_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FILEDROP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "filedrop")
	v.SetDefault("db.password", "filedrop_secret")
	v.SetDefault("db.name", "filedrop_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "filedrop-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 300)

	// Auth defaults
	v.SetDefault("auth.mode", AuthModeHMAC)
	// Shared with the token issuer; must be set explicitly.
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.jwks_url", "")
	v.SetDefault("auth.jwks_refresh_interval", "15m")
	v.SetDefault("auth.jwks_client_timeout", "10s")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("auth.leeway", "30s")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "FILEDROP_SERVER_PORT",
		"server.read_timeout":        "FILEDROP_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "FILEDROP_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout":    "FILEDROP_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":         "FILEDROP_SERVER_ENVIRONMENT",
		"db.host":                    "FILEDROP_DB_HOST",
		"db.port":                    "FILEDROP_DB_PORT",
		"db.user":                    "FILEDROP_DB_USER",
		"db.password":                "FILEDROP_DB_PASSWORD",
		"db.name":                    "FILEDROP_DB_NAME",
		"db.sslmode":                 "FILEDROP_DB_SSLMODE",
		"db.max_open":                "FILEDROP_DB_MAX_OPEN",
		"db.max_idle":                "FILEDROP_DB_MAX_IDLE",
		"s3.region":                  "FILEDROP_S3_REGION",
		"s3.bucket":                  "FILEDROP_S3_BUCKET",
		"s3.endpoint":                "FILEDROP_S3_ENDPOINT",
		"s3.access_key":              "FILEDROP_S3_ACCESS_KEY",
		"s3.secret_key":              "FILEDROP_S3_SECRET_KEY",
		"s3.presign_expiry":          "FILEDROP_S3_PRESIGN_EXPIRY",
		"auth.mode":                  "FILEDROP_AUTH_MODE",
		"auth.secret":                "FILEDROP_AUTH_SECRET",
		"auth.jwks_url":              "FILEDROP_AUTH_JWKS_URL",
		"auth.jwks_refresh_interval": "FILEDROP_AUTH_JWKS_REFRESH_INTERVAL",
		"auth.jwks_client_timeout":   "FILEDROP_AUTH_JWKS_CLIENT_TIMEOUT",
		"auth.issuer":                "FILEDROP_AUTH_ISSUER",
		"auth.audience":              "FILEDROP_AUTH_AUDIENCE",
		"auth.leeway":                "FILEDROP_AUTH_LEEWAY",
		"log.level":                  "FILEDROP_LOG_LEVEL",
		"log.format":                 "FILEDROP_LOG_FORMAT",
		"cors.allowed_origins":       "FILEDROP_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if FILEDROP_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FILEDROP_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Auth = AuthConfig{
		Mode:                strings.ToLower(v.GetString("auth.mode")),
		Secret:              v.GetString("auth.secret"),
		JWKSURL:             v.GetString("auth.jwks_url"),
		JWKSRefreshInterval: v.GetDuration("auth.jwks_refresh_interval"),
		JWKSClientTimeout:   v.GetDuration("auth.jwks_client_timeout"),
		Issuer:              v.GetString("auth.issuer"),
		Audience:            v.GetString("auth.audience"),
		Leeway:              v.GetDuration("auth.leeway"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.S3.Bucket == "" {
		return fmt.Errorf("config: s3.bucket is required")
	}
	if c.S3.PresignExpiry <= 0 {
		return fmt.Errorf("config: s3.presign_expiry must be positive, got %d", c.S3.PresignExpiry)
	}
	switch c.Auth.Mode {
	case AuthModeHMAC:
		if c.Auth.Secret == "" {
			return fmt.Errorf("config: auth.secret is required in %s mode", AuthModeHMAC)
		}
	case AuthModeJWKS:
		if c.Auth.JWKSURL == "" {
			return fmt.Errorf("config: auth.jwks_url is required in %s mode", AuthModeJWKS)
		}
	default:
		return fmt.Errorf("config: unknown auth.mode %q (allowed: %s, %s)", c.Auth.Mode, AuthModeHMAC, AuthModeJWKS)
	}
	for _, origin := range c.CORS.AllowedOrigins {
		if err := validateOrigin(origin); err != nil {
			return fmt.Errorf("config: cors.allowed_origins: %w", err)
		}
	}
	return nil
}

// validateOrigin accepts scheme://host[:port] with an http or https scheme.
func validateOrigin(origin string) error {
	u, err := url.Parse(origin)
	if err != nil {
		return fmt.Errorf("invalid origin %q: %w", origin, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("origin %q must be http(s)://host[:port]", origin)
	}
	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return fmt.Errorf("origin %q must not carry a path, query or credentials", origin)
	}
	return nil
}
