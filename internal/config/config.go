package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config structure represents the application configuration.
// Values come from the YAML file when present; environment variables always win.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	JWT      JWTConfig      `yaml:"jwt"`
	Logging  LoggingConfig  `yaml:"logging"`
	Import   ImportConfig   `yaml:"import"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        string `yaml:"port" env:"SERVER_PORT" env-default:"8080"`
	Mode        string `yaml:"mode" env:"SERVER_MODE" env-default:"development"`
	StoragePath string `yaml:"storage_path" env:"SERVER_STORAGE_PATH" env-default:"./uploads"`
	BaseURL     string `yaml:"base_url" env:"SERVER_BASE_URL" env-default:""`
	// WriteTimeout must cover a whole import, the upload is answered after the last row
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"60s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"5m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"30s"`
}

// DatabaseConfig holds PostgreSQL settings
type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port            string `yaml:"port" env:"DB_PORT" env-default:"5432"`
	User            string `yaml:"user" env:"DB_USER" env-default:"postgres"`
	Password        string `yaml:"-" env:"DB_PASSWORD" env-default:"postgres"`
	DBName          string `yaml:"dbname" env:"DB_NAME" env-default:"egresados"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE" env-default:"disable"`
	MaxIdleConns    int32  `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS" env-default:"2"`
	MaxOpenConns    int32  `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS" env-default:"10"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME" env-default:"1h"`
	MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR" env-default:""` // empty applies the embedded migrations
}

// JWTConfig holds the settings needed to verify bearer tokens
type JWTConfig struct {
	Secret string `yaml:"-" env:"JWT_SECRET"`
	Issuer string `yaml:"issuer" env:"JWT_ISSUER" env-default:"egresados.app"`
}

// LoggingConfig holds logger settings
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL" env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// ImportConfig holds spreadsheet import settings
type ImportConfig struct {
	// MaxRows caps the data rows read from a sheet, 0 reads everything
	MaxRows int `yaml:"max_rows" env:"IMPORT_MAX_ROWS" env-default:"0"`
	// Sheet selects a sheet by name, empty means the first one
	Sheet string `yaml:"sheet" env:"IMPORT_SHEET" env-default:""`
	// EmptyAnswersAsOther stores blank categorical answers as Otro / No informado
	EmptyAnswersAsOther bool  `yaml:"empty_answers_as_other" env:"IMPORT_EMPTY_ANSWERS_AS_OTHER" env-default:"false"`
	MaxUploadBytes      int64 `yaml:"max_upload_bytes" env:"IMPORT_MAX_UPLOAD_BYTES" env-default:"20971520"`
}

// LoadConfig loads configuration from configPath (optional) and the environment
func LoadConfig(configPath string) (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(configPath); err == nil {
		if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to load from environment: %w", err)
		}
	}

	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// validateConfig ensures that the configuration is valid
func validateConfig(cfg *Config) error {
	if cfg.Database.Host == "" {
		return errors.New("database host is required")
	}

	if cfg.JWT.Secret == "" {
		return errors.New("JWT secret is required")
	}

	if _, err := time.ParseDuration(cfg.Database.ConnMaxLifetime); err != nil {
		return fmt.Errorf("invalid connection max lifetime: %w", err)
	}

	if cfg.Server.ReadTimeout <= 0 || cfg.Server.WriteTimeout <= 0 || cfg.Server.ShutdownTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}

	if cfg.Import.MaxRows < 0 {
		return errors.New("import max rows cannot be negative")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in release mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// PublicBaseURL returns the URL the stored files are served from
func (c *Config) PublicBaseURL() string {
	if c.Server.BaseURL != "" {
		return strings.TrimRight(c.Server.BaseURL, "/")
	}
	return "http://localhost:" + c.Server.Port
}
