package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Weekly read sources.
const (
	ReadSourceRepository = "repository"
	ReadSourceRemote     = "remote"
)

// DefaultTimeSlots is the hourly 07:00-15:00 grid used when SCHEDULER_TIME_SLOTS is unset.
const DefaultTimeSlots = "07:00-08:00,08:00-09:00,09:00-10:00,10:00-11:00,11:00-12:00,12:00-13:00,13:00-14:00,14:00-15:00"

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
	Scheduler SchedulerConfig
	Generator GeneratorConfig
	Grid      GridConfig
	Exports   ExportsConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	AutoMigrate  bool
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
	PoolSize int
	Timeout  time.Duration
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience []string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// SchedulerConfig governs draft workspaces and the weekly read path.
type SchedulerConfig struct {
	Enabled            bool
	DraftTTL           time.Duration
	TimeSlots          string
	ConfirmRelocations bool
	ReadSource         string
	WeeklyCacheTTL     time.Duration
	InvalidateWorkers  int
	InvalidateRetries  int
}

// GeneratorConfig points at the external schedule generation service.
type GeneratorConfig struct {
	BaseURL string
	Timeout time.Duration
}

// GridConfig holds time-grid geometry for calendar projections.
type GridConfig struct {
	StartHour float64
	PxPerHour float64
	MinHeight float64
}

// ExportsConfig controls published export files and their signed links.
type ExportsConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
	CleanupInterval time.Duration
	Timezone        string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		AutoMigrate:  v.GetBool("DB_AUTO_MIGRATE"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		PoolSize: v.GetInt("REDIS_POOL_SIZE"),
		Timeout:  parseDuration(v.GetString("REDIS_TIMEOUT"), 2*time.Second),
	}

	cfg.JWT = JWTConfig{
		Secret:   v.GetString("JWT_SECRET"),
		Issuer:   v.GetString("JWT_ISSUER"),
		Audience: splitAndTrim(v.GetString("JWT_AUDIENCE")),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	readSource := strings.ToLower(strings.TrimSpace(v.GetString("SCHEDULER_READ_SOURCE")))
	if readSource != ReadSourceRemote {
		readSource = ReadSourceRepository
	}
	cfg.Scheduler = SchedulerConfig{
		Enabled:            v.GetBool("ENABLE_SCHEDULER"),
		DraftTTL:           parseDuration(v.GetString("SCHEDULER_DRAFT_TTL"), 2*time.Hour),
		TimeSlots:          v.GetString("SCHEDULER_TIME_SLOTS"),
		ConfirmRelocations: v.GetBool("SCHEDULER_CONFIRM_RELOCATIONS"),
		ReadSource:         readSource,
		WeeklyCacheTTL:     parseDuration(v.GetString("SCHEDULER_WEEKLY_CACHE_TTL"), 5*time.Minute),
		InvalidateWorkers:  v.GetInt("SCHEDULER_INVALIDATE_WORKERS"),
		InvalidateRetries:  v.GetInt("SCHEDULER_INVALIDATE_RETRIES"),
	}

	cfg.Generator = GeneratorConfig{
		BaseURL: strings.TrimRight(v.GetString("GENERATOR_BASE_URL"), "/"),
		Timeout: parseDuration(v.GetString("GENERATOR_TIMEOUT"), 30*time.Second),
	}

	cfg.Grid = GridConfig{
		StartHour: v.GetFloat64("GRID_START_HOUR"),
		PxPerHour: v.GetFloat64("GRID_PX_PER_HOUR"),
		MinHeight: v.GetFloat64("GRID_MIN_HEIGHT"),
	}

	cfg.Exports = ExportsConfig{
		StorageDir:      v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret: v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), time.Hour),
		CleanupInterval: parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		Timezone:        v.GetString("EXPORTS_TIMEZONE"),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "edu_console")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_POOL_SIZE", 10)
	v.SetDefault("REDIS_TIMEOUT", "2s")

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "")
	v.SetDefault("JWT_AUDIENCE", "")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_SCHEDULER", true)
	v.SetDefault("SCHEDULER_DRAFT_TTL", "2h")
	v.SetDefault("SCHEDULER_TIME_SLOTS", DefaultTimeSlots)
	v.SetDefault("SCHEDULER_CONFIRM_RELOCATIONS", false)
	v.SetDefault("SCHEDULER_READ_SOURCE", ReadSourceRepository)
	v.SetDefault("SCHEDULER_WEEKLY_CACHE_TTL", "5m")
	v.SetDefault("SCHEDULER_INVALIDATE_WORKERS", 1)
	v.SetDefault("SCHEDULER_INVALIDATE_RETRIES", 3)

	v.SetDefault("GENERATOR_BASE_URL", "http://localhost:5000")
	v.SetDefault("GENERATOR_TIMEOUT", "30s")

	v.SetDefault("GRID_START_HOUR", 7)
	v.SetDefault("GRID_PX_PER_HOUR", 60)
	v.SetDefault("GRID_MIN_HEIGHT", 24)

	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "1h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_TIMEZONE", "UTC")
}

// isMissingFile covers SetConfigFile, which reports a plain path error instead of
// viper.ConfigFileNotFoundError when .env is absent.
func isMissingFile(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
