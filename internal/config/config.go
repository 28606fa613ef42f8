package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Auth     AuthConfig     `yaml:"auth"`
	CORS     CORSConfig     `yaml:"cors"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Tx       TxConfig       `yaml:"tx"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"readTimeout"`
	WriteTimeout    time.Duration `yaml:"writeTimeout"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
}

type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	Name            string        `yaml:"name"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	// Format is "json" (default) or "console".
	Format string `yaml:"format"`
}

// AuthConfig carries the token signing secret. Secret has no default and
// must be provided through the config file or JWT_SECRET.
type AuthConfig struct {
	Secret     string        `yaml:"secret"`
	Issuer     string        `yaml:"issuer"`
	AccessTTL  time.Duration `yaml:"accessTTL"`
	RefreshTTL time.Duration `yaml:"refreshTTL"`
	// CookieSecure marks the refresh cookie Secure. Disable only for local http.
	CookieSecure bool `yaml:"cookieSecure"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowedOrigins"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type TxConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	MaxRetryAttempts int           `yaml:"maxRetryAttempts"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            3306,
			User:            "backoffice",
			Password:        "secret",
			Name:            "backoffice",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Auth: AuthConfig{
			Issuer:       "backoffice",
			AccessTTL:    15 * time.Minute,
			RefreshTTL:   7 * 24 * time.Hour,
			CookieSecure: true,
		},
		CORS:  CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
		Kafka: KafkaConfig{Topic: "stock-movements"},
		Tx: TxConfig{
			Timeout:          5 * time.Second,
			MaxRetryAttempts: 3,
		},
	}
}

// ApplyEnv overrides cfg with any of the known environment variables that are set.
func ApplyEnv(cfg *Config) error {
	v := viper.New()
	v.AutomaticEnv()

	if v.IsSet("SERVER_PORT") {
		cfg.Server.Port = v.GetInt("SERVER_PORT")
	}
	if v.IsSet("SERVER_SHUTDOWN_TIMEOUT") {
		d, err := time.ParseDuration(v.GetString("SERVER_SHUTDOWN_TIMEOUT"))
		if err != nil {
			return fmt.Errorf("parsing SERVER_SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.Server.ShutdownTimeout = d
	}
	if v.IsSet("DB_HOST") {
		cfg.Database.Host = v.GetString("DB_HOST")
	}
	if v.IsSet("DB_PORT") {
		cfg.Database.Port = v.GetInt("DB_PORT")
	}
	if v.IsSet("DB_USER") {
		cfg.Database.User = v.GetString("DB_USER")
	}
	if v.IsSet("DB_PASSWORD") {
		cfg.Database.Password = v.GetString("DB_PASSWORD")
	}
	if v.IsSet("DB_NAME") {
		cfg.Database.Name = v.GetString("DB_NAME")
	}
	if v.IsSet("DB_MAX_OPEN_CONNS") {
		cfg.Database.MaxOpenConns = v.GetInt("DB_MAX_OPEN_CONNS")
	}
	if v.IsSet("DB_MAX_IDLE_CONNS") {
		cfg.Database.MaxIdleConns = v.GetInt("DB_MAX_IDLE_CONNS")
	}
	if v.IsSet("DB_CONN_MAX_LIFETIME") {
		d, err := time.ParseDuration(v.GetString("DB_CONN_MAX_LIFETIME"))
		if err != nil {
			return fmt.Errorf("parsing DB_CONN_MAX_LIFETIME: %w", err)
		}
		cfg.Database.ConnMaxLifetime = d
	}
	if v.IsSet("LOG_LEVEL") {
		cfg.Log.Level = v.GetString("LOG_LEVEL")
	}
	if v.IsSet("LOG_FORMAT") {
		cfg.Log.Format = v.GetString("LOG_FORMAT")
	}
	if v.IsSet("JWT_SECRET") {
		cfg.Auth.Secret = v.GetString("JWT_SECRET")
	}
	if v.IsSet("JWT_ISSUER") {
		cfg.Auth.Issuer = v.GetString("JWT_ISSUER")
	}
	if v.IsSet("JWT_ACCESS_TTL") {
		d, err := time.ParseDuration(v.GetString("JWT_ACCESS_TTL"))
		if err != nil {
			return fmt.Errorf("parsing JWT_ACCESS_TTL: %w", err)
		}
		cfg.Auth.AccessTTL = d
	}
	if v.IsSet("JWT_REFRESH_TTL") {
		d, err := time.ParseDuration(v.GetString("JWT_REFRESH_TTL"))
		if err != nil {
			return fmt.Errorf("parsing JWT_REFRESH_TTL: %w", err)
		}
		cfg.Auth.RefreshTTL = d
	}
	if v.IsSet("COOKIE_SECURE") {
		cfg.Auth.CookieSecure = v.GetBool("COOKIE_SECURE")
	}
	if v.IsSet("CORS_ALLOWED_ORIGINS") {
		cfg.CORS.AllowedOrigins = splitList(v.GetString("CORS_ALLOWED_ORIGINS"))
	}
	if v.IsSet("KAFKA_BROKERS") {
		cfg.Kafka.Brokers = splitList(v.GetString("KAFKA_BROKERS"))
	}
	if v.IsSet("KAFKA_TOPIC") {
		cfg.Kafka.Topic = v.GetString("KAFKA_TOPIC")
	}
	if v.IsSet("TX_TIMEOUT") {
		d, err := time.ParseDuration(v.GetString("TX_TIMEOUT"))
		if err != nil {
			return fmt.Errorf("parsing TX_TIMEOUT: %w", err)
		}
		cfg.Tx.Timeout = d
	}
	if v.IsSet("TX_MAX_RETRY_ATTEMPTS") {
		cfg.Tx.MaxRetryAttempts = v.GetInt("TX_MAX_RETRY_ATTEMPTS")
	}

	return nil
}

func (c *Config) Validate() error {
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required (set JWT_SECRET)")
	}
	if c.Auth.AccessTTL <= 0 || c.Auth.RefreshTTL <= 0 {
		return fmt.Errorf("token ttls must be positive")
	}
	if c.Tx.MaxRetryAttempts < 1 {
		return fmt.Errorf("tx max retry attempts must be at least 1")
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
