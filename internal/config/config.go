package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config holds every tunable the engine reads at startup: server/CLI
// defaults, the solver's own defaults, the optional audit store, the
// optional result cache, and logging.
type Config struct {
	Server  ServerConfig
	Timeline TimelineConfig
	Solver  SolverConfig
	CORS    CORSConfig
	Redis   RedisConfig
	Audit   AuditConfig
	RateLimit RateLimitConfig
	Logging LoggingConfig
	Cron    CronConfig
}

type ServerConfig struct {
	Port string
	Host string
}

// TimelineConfig holds Config defaults (§3.1) for a workbook. It is loaded
// but not read by the evaluation path, which takes these values from the
// workbook itself.
type TimelineConfig struct {
	DefaultFYStartMonth int
}

// SolverConfig holds debt sizer defaults (§4.7). It is loaded but not read
// by the evaluation path: a ModuleInstance that omits these inputs gets the
// debt sizer template's own defaults.
type SolverConfig struct {
	DefaultTolerance    float64
	DefaultMaxIterations int
}

type CORSConfig struct {
	Origins []string
}

// RedisConfig configures the result cache (internal/cache). URL, when set and
// parseable, takes precedence and the client is built from it alone;
// Host/Port/Password/DB are the fallback and are not filled in from URL.
type RedisConfig struct {
	URL      string
	Host     string
	Port     int
	Password string
	DB       int
	TTLSeconds int
}

// AuditConfig configures the optional gorm-backed run ledger
// (internal/audit). Driver is "sqlite" or "postgres"; an empty DSN disables
// persistence and the recorder becomes a no-op.
type AuditConfig struct {
	Driver string
	DSN    string
}

type RateLimitConfig struct {
	Requests int
	Window   string
}

type LoggingConfig struct {
	Level  string
	Format string
}

// CronConfig governs the background janitor (robfig/cron) that deletes all
// cached evaluations and vacuums old audit rows in server mode.
type CronConfig struct {
	CacheEvictSchedule string
	AuditVacuumSchedule string
	AuditRetentionDays  int
}

// Load initializes and loads configuration using Viper.
func Load() *Config {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./server")
	viper.AddConfigPath("../")

	viper.AutomaticEnv()
	viper.SetEnvPrefix("")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Printf("Warning: .env file not found, using environment variables and defaults")
		} else {
			log.Printf("Error reading config file: %v", err)
		}
	} else {
		log.Printf("Using config file: %s", viper.ConfigFileUsed())
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: viper.GetString("PORT"),
			Host: viper.GetString("HOST"),
		},
		Timeline: TimelineConfig{
			DefaultFYStartMonth: viper.GetInt("TIMELINE_DEFAULT_FY_START_MONTH"),
		},
		Solver: SolverConfig{
			DefaultTolerance:     viper.GetFloat64("SOLVER_DEFAULT_TOLERANCE"),
			DefaultMaxIterations: viper.GetInt("SOLVER_DEFAULT_MAX_ITERATIONS"),
		},
		CORS: CORSConfig{
			Origins: viper.GetStringSlice("CORS_ORIGINS"),
		},
		Redis: RedisConfig{
			URL:        viper.GetString("REDIS_URL"),
			Host:       viper.GetString("REDIS_HOST"),
			Port:       viper.GetInt("REDIS_PORT"),
			Password:   viper.GetString("REDIS_PASSWORD"),
			DB:         viper.GetInt("REDIS_DB"),
			TTLSeconds: viper.GetInt("REDIS_TTL_SECONDS"),
		},
		Audit: AuditConfig{
			Driver: viper.GetString("AUDIT_DB_DRIVER"),
			DSN:    viper.GetString("AUDIT_DB_DSN"),
		},
		RateLimit: RateLimitConfig{
			Requests: viper.GetInt("RATE_LIMIT_REQUESTS"),
			Window:   viper.GetString("RATE_LIMIT_WINDOW"),
		},
		Logging: LoggingConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		Cron: CronConfig{
			CacheEvictSchedule:  viper.GetString("CRON_CACHE_EVICT_SCHEDULE"),
			AuditVacuumSchedule: viper.GetString("CRON_AUDIT_VACUUM_SCHEDULE"),
			AuditRetentionDays:  viper.GetInt("AUDIT_RETENTION_DAYS"),
		},
	}

	return cfg
}

func setDefaults() {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("GIN_MODE", "debug")

	viper.SetDefault("TIMELINE_DEFAULT_FY_START_MONTH", 1)

	viper.SetDefault("SOLVER_DEFAULT_TOLERANCE", 0.01)
	viper.SetDefault("SOLVER_DEFAULT_MAX_ITERATIONS", 60)

	viper.SetDefault("CORS_ORIGINS", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", 6379)
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("REDIS_TTL_SECONDS", 3600)

	viper.SetDefault("AUDIT_DB_DRIVER", "sqlite")
	viper.SetDefault("AUDIT_DB_DSN", "engine_audit.db")

	viper.SetDefault("RATE_LIMIT_REQUESTS", 100)
	viper.SetDefault("RATE_LIMIT_WINDOW", "1m")

	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "json")

	viper.SetDefault("CRON_CACHE_EVICT_SCHEDULE", "@every 10m")
	viper.SetDefault("CRON_AUDIT_VACUUM_SCHEDULE", "@daily")
	viper.SetDefault("AUDIT_RETENTION_DAYS", 30)
}
