package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"carrental-backend/internal/domain"
)

// Config represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	JWT          JWTConfig          `yaml:"jwt"`
	Log          LogConfig          `yaml:"log"`
	Notification NotificationConfig `yaml:"notification"`
	Lock         LockConfig         `yaml:"lock"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	Settings     SettingsConfig     `yaml:"settings"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host                string   `yaml:"host"`
	Port                int      `yaml:"port"`
	ReadTimeoutSeconds  int      `yaml:"read_timeout_seconds"`
	WriteTimeoutSeconds int      `yaml:"write_timeout_seconds"`
	CORSAllowedOrigins  []string `yaml:"cors_allowed_origins"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host         string `yaml:"host"`
	Port         int    `yaml:"port"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Database     string `yaml:"database"`
	SSLMode      string `yaml:"ssl_mode"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret            string `yaml:"secret"`
	AccessTokenExpiry int    `yaml:"access_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// NotificationConfig selects how booking notifications are delivered
type NotificationConfig struct {
	Provider       string `yaml:"provider"` // "noop" or "sendgrid"
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	FromEmail      string `yaml:"from_email"`
	FromName       string `yaml:"from_name"`
	OpsEmail       string `yaml:"ops_email"`
}

// LockConfig selects the per-vehicle booking lock implementation
type LockConfig struct {
	Type          string `yaml:"type"` // "memory" or "redis"
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	TTLSeconds    int    `yaml:"ttl_seconds"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireContracts        string `yaml:"expire_contracts"`
	ReconcileVehicleStatus string `yaml:"reconcile_vehicle_status"`
}

// SettingsConfig seeds the system settings record when none exists yet
type SettingsConfig struct {
	MinOwnerRentalDays         int32  `yaml:"min_owner_rental_days"`
	MinRenterRentalHours       int32  `yaml:"min_renter_rental_hours"`
	LateFeePercent             string `yaml:"late_fee_percent"`
	DefaultOwnerSharePercent   string `yaml:"default_owner_share_percent"`
	DefaultCompanySharePercent string `yaml:"default_company_share_percent"`
}

// Load reads configuration from a YAML file. A .env file next to it, when
// present, is loaded into the environment first so it can feed the overrides.
// Variables already set in the environment win over the .env file.
func Load(configPath string) (*Config, error) {
	envFile := filepath.Join(filepath.Dir(configPath), ".env")
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies environment overrides and validates it
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Notifications
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notification.SendGridAPIKey = val
	}

	// Lock
	if val := os.Getenv("REDIS_ADDR"); val != "" {
		c.Lock.RedisAddr = val
	}
	if val := os.Getenv("REDIS_PASSWORD"); val != "" {
		c.Lock.RedisPassword = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid and fills in defaults
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Server.ReadTimeoutSeconds == 0 {
		c.Server.ReadTimeoutSeconds = 15
	}
	if c.Server.WriteTimeoutSeconds == 0 {
		c.Server.WriteTimeoutSeconds = 15
	}
	if len(c.Server.CORSAllowedOrigins) == 0 {
		c.Server.CORSAllowedOrigins = []string{"*"}
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}

	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry == 0 {
		c.JWT.AccessTokenExpiry = 60
	}

	switch c.Notification.Provider {
	case "", "noop":
		c.Notification.Provider = "noop"
	case "sendgrid":
		if c.Notification.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid api key is required for sendgrid notifications")
		}
		if c.Notification.FromEmail == "" {
			return fmt.Errorf("notification from_email is required for sendgrid notifications")
		}
	default:
		return fmt.Errorf("unsupported notification provider: %s", c.Notification.Provider)
	}

	switch c.Lock.Type {
	case "", "memory":
		c.Lock.Type = "memory"
	case "redis":
		if c.Lock.RedisAddr == "" {
			return fmt.Errorf("redis address is required for redis lock")
		}
	default:
		return fmt.Errorf("unsupported lock type: %s", c.Lock.Type)
	}
	if c.Lock.TTLSeconds == 0 {
		c.Lock.TTLSeconds = 10
	}

	if c.Scheduler.ExpireContracts == "" {
		c.Scheduler.ExpireContracts = "0 5 0 * * *" // 00:05 UTC daily
	}
	if c.Scheduler.ReconcileVehicleStatus == "" {
		c.Scheduler.ReconcileVehicleStatus = "0 */15 * * * *" // every 15 minutes
	}

	if _, err := c.DefaultSettings(); err != nil {
		return err
	}

	return nil
}

// DefaultSettings converts the settings section into the record used when the
// database has none. Unset fields keep the built-in defaults.
func (c *Config) DefaultSettings() (domain.SystemSettings, error) {
	s := domain.DefaultSystemSettings()
	if c.Settings.MinOwnerRentalDays > 0 {
		s.MinOwnerRentalDays = c.Settings.MinOwnerRentalDays
	}
	if c.Settings.MinRenterRentalHours > 0 {
		s.MinRenterRentalHours = c.Settings.MinRenterRentalHours
	}

	parse := func(name, raw string, dst *decimal.Decimal) error {
		if raw == "" {
			return nil
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return fmt.Errorf("invalid settings.%s: %w", name, err)
		}
		*dst = d
		return nil
	}
	if err := parse("late_fee_percent", c.Settings.LateFeePercent, &s.LateFeePercent); err != nil {
		return s, err
	}
	if err := parse("default_owner_share_percent", c.Settings.DefaultOwnerSharePercent, &s.DefaultOwnerSharePercent); err != nil {
		return s, err
	}
	if err := parse("default_company_share_percent", c.Settings.DefaultCompanySharePercent, &s.DefaultCompanySharePercent); err != nil {
		return s, err
	}
	if !s.DefaultOwnerSharePercent.Add(s.DefaultCompanySharePercent).Equal(decimal.NewFromInt(100)) {
		return s, fmt.Errorf("default share percents must sum to 100")
	}
	return s, nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

func (c *Config) LockTTL() time.Duration {
	return time.Duration(c.Lock.TTLSeconds) * time.Second
}

func (c *Config) AccessTokenTTL() time.Duration {
	return time.Duration(c.JWT.AccessTokenExpiry) * time.Minute
}
