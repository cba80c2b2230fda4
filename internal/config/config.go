package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Email   EmailConfig
	Session SessionConfig
	Import  ImportConfig
}

// EmailConfig holds import summary delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	User        string        `mapstructure:"user"`
	Password    string        `mapstructure:"password"`
	Name        string        `mapstructure:"name"`
	SSLMode     string        `mapstructure:"sslmode"`
	MaxOpen     int           `mapstructure:"max_open"`
	MaxIdle     int           `mapstructure:"max_idle"`
	MaxLifetime time.Duration `mapstructure:"max_lifetime"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds settings for the bucket that archives uploaded rosters.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SessionConfig selects where in-flight import sessions live.
type SessionConfig struct {
	Store    string        `mapstructure:"store"`
	RedisURL string        `mapstructure:"redis_url"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// ImportConfig holds pipeline tuning knobs.
type ImportConfig struct {
	LookupBatchSize int `mapstructure:"lookup_batch_size"`
	PreviewRows     int `mapstructure:"preview_rows"`
}

// Load reads configuration from environment variables with the PADRON_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("PADRON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "padron")
	v.SetDefault("db.password", "padron_secret")
	v.SetDefault("db.name", "padron_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.max_lifetime", "30m")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "padron-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "sa-east-1")
	v.SetDefault("email.from_address", "noreply@padron.local")
	v.SetDefault("email.from_name", "Padron")

	// Session defaults
	v.SetDefault("session.store", "memory")
	v.SetDefault("session.redis_url", "redis://localhost:6379/0")
	v.SetDefault("session.ttl", "12h")

	// Import defaults
	v.SetDefault("import.lookup_batch_size", 100)
	v.SetDefault("import.preview_rows", 5)

	envBindings := map[string]string{
		"server.port":              "PADRON_SERVER_PORT",
		"server.read_timeout":      "PADRON_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "PADRON_SERVER_WRITE_TIMEOUT",
		"server.environment":       "PADRON_SERVER_ENVIRONMENT",
		"db.host":                  "PADRON_DB_HOST",
		"db.port":                  "PADRON_DB_PORT",
		"db.user":                  "PADRON_DB_USER",
		"db.password":              "PADRON_DB_PASSWORD",
		"db.name":                  "PADRON_DB_NAME",
		"db.sslmode":               "PADRON_DB_SSLMODE",
		"db.max_open":              "PADRON_DB_MAX_OPEN",
		"db.max_idle":              "PADRON_DB_MAX_IDLE",
		"db.max_lifetime":          "PADRON_DB_MAX_LIFETIME",
		"s3.region":                "PADRON_S3_REGION",
		"s3.bucket":                "PADRON_S3_BUCKET",
		"s3.endpoint":              "PADRON_S3_ENDPOINT",
		"s3.access_key":            "PADRON_S3_ACCESS_KEY",
		"s3.secret_key":            "PADRON_S3_SECRET_KEY",
		"s3.max_file_size_mb":      "PADRON_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":        "PADRON_S3_PRESIGN_EXPIRY",
		"log.level":                "PADRON_LOG_LEVEL",
		"log.format":               "PADRON_LOG_FORMAT",
		"cors.allowed_origins":     "PADRON_CORS_ALLOWED_ORIGINS",
		"email.provider":           "PADRON_EMAIL_PROVIDER",
		"email.region":             "PADRON_EMAIL_REGION",
		"email.from_address":       "PADRON_EMAIL_FROM_ADDRESS",
		"email.from_name":          "PADRON_EMAIL_FROM_NAME",
		"session.store":            "PADRON_SESSION_STORE",
		"session.redis_url":        "PADRON_SESSION_REDIS_URL",
		"session.ttl":              "PADRON_SESSION_TTL",
		"import.lookup_batch_size": "PADRON_IMPORT_LOOKUP_BATCH_SIZE",
		"import.preview_rows":      "PADRON_IMPORT_PREVIEW_ROWS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT; honour it unless PADRON_SERVER_PORT is explicit.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("PADRON_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:        v.GetString("db.host"),
		Port:        v.GetInt("db.port"),
		User:        v.GetString("db.user"),
		Password:    v.GetString("db.password"),
		Name:        v.GetString("db.name"),
		SSLMode:     v.GetString("db.sslmode"),
		MaxOpen:     v.GetInt("db.max_open"),
		MaxIdle:     v.GetInt("db.max_idle"),
		MaxLifetime: v.GetDuration("db.max_lifetime"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
	}
	cfg.Session = SessionConfig{
		Store:    v.GetString("session.store"),
		RedisURL: v.GetString("session.redis_url"),
		TTL:      v.GetDuration("session.ttl"),
	}
	cfg.Import = ImportConfig{
		LookupBatchSize: v.GetInt("import.lookup_batch_size"),
		PreviewRows:     v.GetInt("import.preview_rows"),
	}

	if cfg.Session.Store != "memory" && cfg.Session.Store != "redis" {
		return nil, fmt.Errorf("session store must be 'memory' or 'redis', got %q", cfg.Session.Store)
	}
	if cfg.Import.LookupBatchSize <= 0 {
		return nil, fmt.Errorf("import lookup batch size must be positive, got %d", cfg.Import.LookupBatchSize)
	}

	return cfg, nil
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
