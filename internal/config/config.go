// Package config handles application configuration loading and validation using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Supported storage drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMongo    = "mongo"
)

// Config represents the application configuration.
type Config struct {
	Server       ServerConfig        `mapstructure:"server"`
	Database     DatabaseConfig      `mapstructure:"database"`
	Cache        CacheConfig         `mapstructure:"cache"`
	Library      LibraryConfig       `mapstructure:"library"`
	Audit        AuditConfig         `mapstructure:"audit"`
	Mattermost   MattermostConfig    `mapstructure:"mattermost"`
	Metrics      MetricsConfig       `mapstructure:"metrics"`
	Logging      LoggingConfig       `mapstructure:"logging"`
	Achievements []AchievementConfig `mapstructure:"achievements"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port         int    `mapstructure:"port"`
	Environment  string `mapstructure:"environment"`
	ReadTimeout  int    `mapstructure:"read_timeout"`  // seconds
	WriteTimeout int    `mapstructure:"write_timeout"` // seconds
}

// DatabaseConfig selects the storage driver and holds the settings of each backend.
type DatabaseConfig struct {
	Driver   string         `mapstructure:"driver"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	SQLite   SQLiteConfig   `mapstructure:"sqlite"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Redis    RedisConfig    `mapstructure:"redis"`
}

// PostgresConfig contains PostgreSQL database connection and pool settings.
type PostgresConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Database        string `mapstructure:"database"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"ssl_mode"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`
	RunMigrations   bool   `mapstructure:"run_migrations"`
}

// DSN builds the PostgreSQL connection string.
func (c *PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// SQLiteConfig contains the SQLite database file location.
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// MongoConfig contains MongoDB connection settings.
type MongoConfig struct {
	URI            string `mapstructure:"uri"`
	Database       string `mapstructure:"database"`
	ConnectTimeout int    `mapstructure:"connect_timeout"` // seconds
}

// RedisConfig contains Redis cache connection and pool settings.
type RedisConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

// Addr returns the host:port address of the Redis server.
func (c *RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// CacheConfig controls the statistics cache.
type CacheConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TTLSeconds int  `mapstructure:"ttl_seconds"`
}

// TTL returns the cache entry lifetime.
func (c *CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// LibraryConfig contains catalog rules.
type LibraryConfig struct {
	PlaceholderCover     string `mapstructure:"placeholder_cover"`
	MaxReleaseYearOffset int    `mapstructure:"max_release_year_offset"`
	CascadeReviewDelete  bool   `mapstructure:"cascade_review_delete"`
	SeedFile             string `mapstructure:"seed_file"`
	DefaultTopRatedLimit int    `mapstructure:"default_top_rated_limit"`
}

// MaxReleaseYear returns the latest release year accepted at the given instant.
func (c *LibraryConfig) MaxReleaseYear(now time.Time) int {
	return now.Year() + c.MaxReleaseYearOffset
}

// AuditConfig contains the data-quality audit job settings.
type AuditConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule"` // cron expression
	Timezone string `mapstructure:"timezone"`
}

// GetLocation returns the timezone location.
func (c *AuditConfig) GetLocation() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// MattermostConfig contains Mattermost webhook notification settings.
type MattermostConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
	Channel    string `mapstructure:"channel"`
	Enabled    bool   `mapstructure:"enabled"`
}

// MetricsConfig contains metrics exposition settings.
type MetricsConfig struct {
	Prometheus PrometheusConfig `mapstructure:"prometheus"`
}

// PrometheusConfig contains Prometheus metrics exporter settings.
type PrometheusConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig contains application logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// AchievementConfig represents a library achievement with its unlock criteria.
type AchievementConfig struct {
	Name        string         `mapstructure:"name"`
	Description string         `mapstructure:"description"`
	Icon        string         `mapstructure:"icon"`
	Criteria    CriteriaConfig `mapstructure:"criteria"`
}

// CriteriaConfig is a single metric comparison.
type CriteriaConfig struct {
	Metric   string  `mapstructure:"metric"`
	Operator string  `mapstructure:"operator"`
	Value    float64 `mapstructure:"value"`
}

// DefaultAchievements is used when the configuration does not list any.
func DefaultAchievements() []AchievementConfig {
	return []AchievementConfig{
		{Name: "first_steps", Description: "Add your first game", Icon: "🎮",
			Criteria: CriteriaConfig{Metric: "total_games", Operator: ">=", Value: 1}},
		{Name: "completionist", Description: "Complete 80% of your library", Icon: "🏆",
			Criteria: CriteriaConfig{Metric: "completion_percent", Operator: ">=", Value: 80}},
		{Name: "marathoner", Description: "Play 500 hours in total", Icon: "⏳",
			Criteria: CriteriaConfig{Metric: "total_hours", Operator: ">=", Value: 500}},
		{Name: "critic", Description: "Write 10 reviews", Icon: "✍️",
			Criteria: CriteriaConfig{Metric: "review_count", Operator: ">=", Value: 10}},
		{Name: "connoisseur", Description: "Keep an average rating of 4 stars or more", Icon: "⭐",
			Criteria: CriteriaConfig{Metric: "average_rating", Operator: ">=", Value: 4}},
	}
}

// setDefaults registers defaults for every optional setting.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", 15)
	v.SetDefault("server.write_timeout", 15)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.postgres.port", 5432)
	v.SetDefault("database.postgres.ssl_mode", "disable")
	v.SetDefault("database.postgres.max_open_conns", 10)
	v.SetDefault("database.postgres.max_idle_conns", 5)
	v.SetDefault("database.postgres.conn_max_lifetime", 300)
	v.SetDefault("database.postgres.run_migrations", true)
	v.SetDefault("database.sqlite.path", "gametracker.db")
	v.SetDefault("database.mongo.database", "gametracker")
	v.SetDefault("database.mongo.connect_timeout", 10)
	v.SetDefault("database.redis.port", 6379)
	v.SetDefault("database.redis.pool_size", 10)

	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.ttl_seconds", 300)

	v.SetDefault("library.max_release_year_offset", 5)
	v.SetDefault("library.cascade_review_delete", true)
	v.SetDefault("library.default_top_rated_limit", 10)

	v.SetDefault("audit.enabled", false)
	v.SetDefault("audit.schedule", "0 3 * * *")
	v.SetDefault("audit.timezone", "UTC")

	v.SetDefault("metrics.prometheus.enabled", true)
	v.SetDefault("metrics.prometheus.path", "/metrics")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// Load reads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/gametracker/")
	}

	// Server configuration
	_ = v.BindEnv("server.port", "SERVER_PORT", "PORT")
	_ = v.BindEnv("server.environment", "SERVER_ENVIRONMENT")

	// Storage configuration
	_ = v.BindEnv("database.driver", "DATABASE_DRIVER")
	_ = v.BindEnv("database.postgres.host", "POSTGRES_HOST")
	_ = v.BindEnv("database.postgres.port", "POSTGRES_PORT")
	_ = v.BindEnv("database.postgres.database", "POSTGRES_DB")
	_ = v.BindEnv("database.postgres.user", "POSTGRES_USER")
	_ = v.BindEnv("database.postgres.password", "POSTGRES_PASSWORD")
	_ = v.BindEnv("database.postgres.ssl_mode", "POSTGRES_SSL_MODE")
	_ = v.BindEnv("database.postgres.run_migrations", "POSTGRES_RUN_MIGRATIONS")
	_ = v.BindEnv("database.sqlite.path", "SQLITE_PATH")
	_ = v.BindEnv("database.mongo.uri", "MONGO_URI", "MONGODB_URI")
	_ = v.BindEnv("database.mongo.database", "MONGO_DB")

	// Redis configuration
	_ = v.BindEnv("database.redis.host", "REDIS_HOST")
	_ = v.BindEnv("database.redis.port", "REDIS_PORT")
	_ = v.BindEnv("database.redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("database.redis.db", "REDIS_DB")
	_ = v.BindEnv("cache.enabled", "CACHE_ENABLED")
	_ = v.BindEnv("cache.ttl_seconds", "CACHE_TTL_SECONDS")

	// Library configuration
	_ = v.BindEnv("library.seed_file", "LIBRARY_SEED_FILE")
	_ = v.BindEnv("library.cascade_review_delete", "LIBRARY_CASCADE_REVIEW_DELETE")

	// Audit and notifications
	_ = v.BindEnv("audit.enabled", "AUDIT_ENABLED")
	_ = v.BindEnv("audit.schedule", "AUDIT_SCHEDULE")
	_ = v.BindEnv("audit.timezone", "AUDIT_TIMEZONE")
	_ = v.BindEnv("mattermost.webhook_url", "MATTERMOST_WEBHOOK_URL")
	_ = v.BindEnv("mattermost.channel", "MATTERMOST_CHANNEL")
	_ = v.BindEnv("mattermost.enabled", "MATTERMOST_ENABLED")

	// Logging configuration
	_ = v.BindEnv("logging.level", "LOG_LEVEL")
	_ = v.BindEnv("logging.format", "LOG_FORMAT")
	_ = v.BindEnv("logging.output", "LOG_OUTPUT")

	// Read config file; a missing default file is fine since every setting has an env binding.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if len(config.Achievements) == 0 {
		config.Achievements = DefaultAchievements()
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Postgres.Host == "" {
			return fmt.Errorf("database.postgres.host is required")
		}
		if c.Database.Postgres.Database == "" {
			return fmt.Errorf("database.postgres.database is required")
		}
		if c.Database.Postgres.User == "" {
			return fmt.Errorf("database.postgres.user is required")
		}
	case DriverSQLite:
		if c.Database.SQLite.Path == "" {
			return fmt.Errorf("database.sqlite.path is required")
		}
	case DriverMongo:
		if c.Database.Mongo.URI == "" {
			return fmt.Errorf("database.mongo.uri is required")
		}
		if c.Database.Mongo.Database == "" {
			return fmt.Errorf("database.mongo.database is required")
		}
	default:
		return fmt.Errorf("unsupported database.driver %q (valid: postgres, sqlite, mongo)", c.Database.Driver)
	}

	if c.Cache.Enabled && c.Database.Redis.Host == "" {
		return fmt.Errorf("database.redis.host is required when cache is enabled")
	}
	if c.Library.MaxReleaseYearOffset < 0 {
		return fmt.Errorf("library.max_release_year_offset must not be negative")
	}
	if c.Audit.Enabled && c.Audit.Schedule == "" {
		return fmt.Errorf("audit.schedule is required when audit is enabled")
	}
	if c.Mattermost.Enabled && c.Mattermost.WebhookURL == "" {
		return fmt.Errorf("mattermost.webhook_url is required when mattermost is enabled")
	}

	for i, a := range c.Achievements {
		if a.Name == "" {
			return fmt.Errorf("achievements[%d].name is required", i)
		}
		if a.Criteria.Metric == "" {
			return fmt.Errorf("achievements[%d].criteria.metric is required", i)
		}
		switch a.Criteria.Operator {
		case "<", "<=", ">", ">=", "==":
		default:
			return fmt.Errorf("achievements[%d].criteria.operator %q is not supported", i, a.Criteria.Operator)
		}
	}

	return nil
}
