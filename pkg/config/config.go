package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Reference data sources.
const (
	ReferenceStatic   = "static"
	ReferenceFile     = "file"
	ReferenceDatabase = "database"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database  DatabaseConfig
	Redis     RedisConfig
	CORS      CORSConfig
	Log       LogConfig
	Reference ReferenceConfig
	Planner   PlannerConfig
	Content   ContentConfig
	Sessions  SessionsConfig
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
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

// LogConfig selects level and encoding. File enables a rotating log file in
// addition to stderr.
type LogConfig struct {
	Level      string
	Format     string
	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// ReferenceConfig selects where exceptions, categories and JP standards come from.
type ReferenceConfig struct {
	Source string
	File   string
}

// PlannerConfig bounds the academic year and tunes allocation.
type PlannerConfig struct {
	YearStart             string
	YearEnd               string
	SemesterBreakCategory string
	SemesterBreakFallback string
	FallbackTargetHours   int
	MaxHoursPerDay        int
}

// ContentConfig configures the generative text collaborator.
type ContentConfig struct {
	Enabled         bool
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	MaxOutputTokens int
	MaxConcurrency  int
}

// SessionsConfig configures the per-session history store.
type SessionsConfig struct {
	RedisEnabled bool
	TTL          time.Duration
	MaxEntries   int
}

// ExportsConfig configures asynchronous document generation.
type ExportsConfig struct {
	Enabled           bool
	StorageDir        string
	SignedURLSecret   string
	SignedURLTTL      time.Duration
	CleanupInterval   time.Duration
	WorkerConcurrency int
	WorkerRetries     int
	DefaultPaperSize  string
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
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:      v.GetString("LOG_LEVEL"),
		Format:     v.GetString("LOG_FORMAT"),
		File:       v.GetString("LOG_FILE"),
		MaxSizeMB:  v.GetInt("LOG_MAX_SIZE_MB"),
		MaxBackups: v.GetInt("LOG_MAX_BACKUPS"),
		MaxAgeDays: v.GetInt("LOG_MAX_AGE_DAYS"),
	}

	cfg.Reference = ReferenceConfig{
		Source: strings.ToLower(v.GetString("REFERENCE_SOURCE")),
		File:   v.GetString("REFERENCE_FILE"),
	}

	cfg.Planner = PlannerConfig{
		YearStart:             v.GetString("ACADEMIC_YEAR_START"),
		YearEnd:               v.GetString("ACADEMIC_YEAR_END"),
		SemesterBreakCategory: v.GetString("SEMESTER_BREAK_CATEGORY"),
		SemesterBreakFallback: v.GetString("SEMESTER_BREAK_FALLBACK"),
		FallbackTargetHours:   v.GetInt("PLANNER_FALLBACK_TARGET_HOURS"),
		MaxHoursPerDay:        v.GetInt("PLANNER_MAX_HOURS_PER_DAY"),
	}

	cfg.Content = ContentConfig{
		Enabled:         v.GetBool("ENABLE_CONTENT_GENERATION"),
		APIKey:          v.GetString("GENAI_API_KEY"),
		BaseURL:         v.GetString("GENAI_BASE_URL"),
		Model:           v.GetString("GENAI_MODEL"),
		Timeout:         parseDuration(v.GetString("GENAI_TIMEOUT"), 60*time.Second),
		MaxOutputTokens: v.GetInt("GENAI_MAX_OUTPUT_TOKENS"),
		MaxConcurrency:  v.GetInt("GENAI_MAX_CONCURRENCY"),
	}

	cfg.Sessions = SessionsConfig{
		RedisEnabled: v.GetBool("ENABLE_SESSION_REDIS"),
		TTL:          parseDuration(v.GetString("SESSION_TTL"), 24*time.Hour),
		MaxEntries:   v.GetInt("HISTORY_MAX_ENTRIES"),
	}

	cfg.Exports = ExportsConfig{
		Enabled:           v.GetBool("ENABLE_EXPORTS"),
		StorageDir:        v.GetString("EXPORTS_STORAGE_DIR"),
		SignedURLSecret:   v.GetString("EXPORTS_SIGNED_URL_SECRET"),
		SignedURLTTL:      parseDuration(v.GetString("EXPORTS_SIGNED_URL_TTL"), 24*time.Hour),
		CleanupInterval:   parseDuration(v.GetString("EXPORTS_CLEANUP_INTERVAL"), time.Hour),
		WorkerConcurrency: v.GetInt("EXPORTS_WORKER_CONCURRENCY"),
		WorkerRetries:     v.GetInt("EXPORTS_WORKER_RETRIES"),
		DefaultPaperSize:  v.GetString("EXPORTS_DEFAULT_PAPER_SIZE"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "atp_planner")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("LOG_MAX_SIZE_MB", 100)
	v.SetDefault("LOG_MAX_BACKUPS", 3)
	v.SetDefault("LOG_MAX_AGE_DAYS", 28)

	v.SetDefault("REFERENCE_SOURCE", ReferenceStatic)
	v.SetDefault("REFERENCE_FILE", "./reference.yaml")

	v.SetDefault("ACADEMIC_YEAR_START", "2025-07-14")
	v.SetDefault("ACADEMIC_YEAR_END", "2026-06-20")
	v.SetDefault("SEMESTER_BREAK_CATEGORY", "libur_smt1")
	v.SetDefault("SEMESTER_BREAK_FALLBACK", "2025-12-31")
	v.SetDefault("PLANNER_FALLBACK_TARGET_HOURS", 216)
	v.SetDefault("PLANNER_MAX_HOURS_PER_DAY", 3)

	v.SetDefault("ENABLE_CONTENT_GENERATION", false)
	v.SetDefault("GENAI_API_KEY", "")
	v.SetDefault("GENAI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GENAI_MODEL", "gemini-3-flash-preview")
	v.SetDefault("GENAI_TIMEOUT", "60s")
	v.SetDefault("GENAI_MAX_OUTPUT_TOKENS", 8192)
	v.SetDefault("GENAI_MAX_CONCURRENCY", 2)

	v.SetDefault("ENABLE_SESSION_REDIS", false)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("HISTORY_MAX_ENTRIES", 50)

	v.SetDefault("ENABLE_EXPORTS", true)
	v.SetDefault("EXPORTS_STORAGE_DIR", "./exports")
	v.SetDefault("EXPORTS_SIGNED_URL_SECRET", "dev_exports_secret")
	v.SetDefault("EXPORTS_SIGNED_URL_TTL", "24h")
	v.SetDefault("EXPORTS_CLEANUP_INTERVAL", "1h")
	v.SetDefault("EXPORTS_WORKER_CONCURRENCY", 1)
	v.SetDefault("EXPORTS_WORKER_RETRIES", 3)
	v.SetDefault("EXPORTS_DEFAULT_PAPER_SIZE", "A4")
}

// isMissingFile covers viper returning a plain fs error when the explicit
// .env path does not exist.
func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
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
