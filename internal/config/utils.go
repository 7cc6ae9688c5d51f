package config

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// GetConfigValue returns a configuration value by key with optional default
func GetConfigValue(key string, defaultValue ...interface{}) interface{} {
	if viper.IsSet(key) {
		return viper.Get(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return nil
}

// GetStringConfig returns a string configuration value
func GetStringConfig(key string, defaultValue ...string) string {
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// GetIntConfig returns an integer configuration value
func GetIntConfig(key string, defaultValue ...int) int {
	if viper.IsSet(key) {
		return viper.GetInt(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return 0
}

// GetBoolConfig returns a boolean configuration value
func GetBoolConfig(key string, defaultValue ...bool) bool {
	if viper.IsSet(key) {
		return viper.GetBool(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return false
}

// GetStringSliceConfig returns a string slice configuration value
func GetStringSliceConfig(key string, defaultValue ...[]string) []string {
	if viper.IsSet(key) {
		return viper.GetStringSlice(key)
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return []string{}
}

// ValidateConfig validates required configuration values. The engine has no
// required secrets - server mode works with every default - so this only
// rejects a solver tolerance that would make the debt sizer's binary search
// meaningless.
func ValidateConfig() error {
	if viper.IsSet("SOLVER_DEFAULT_TOLERANCE") && viper.GetFloat64("SOLVER_DEFAULT_TOLERANCE") <= 0 {
		return fmt.Errorf("SOLVER_DEFAULT_TOLERANCE must be positive")
	}
	return nil
}

// PrintConfig prints current configuration (excluding sensitive data).
func PrintConfig() {
	log.Println("=== Configuration ===")

	log.Printf("Server: %s:%s", GetStringConfig("HOST"), GetStringConfig("PORT"))
	log.Printf("Gin Mode: %s", GetStringConfig("GIN_MODE"))

	log.Printf("Solver defaults: tolerance=%v max_iterations=%v",
		GetConfigValue("SOLVER_DEFAULT_TOLERANCE"), GetIntConfig("SOLVER_DEFAULT_MAX_ITERATIONS"))

	corsOrigins := GetStringSliceConfig("CORS_ORIGINS")
	log.Printf("CORS Origins: %v", corsOrigins)

	log.Printf("Redis: url=%q host=%s:%d", GetStringConfig("REDIS_URL"), GetStringConfig("REDIS_HOST"), GetIntConfig("REDIS_PORT"))
	log.Printf("Audit DB: driver=%s dsn=%s", GetStringConfig("AUDIT_DB_DRIVER"), GetStringConfig("AUDIT_DB_DSN"))

	log.Printf("Log Level: %s", GetStringConfig("LOG_LEVEL"))
	log.Printf("Log Format: %s", GetStringConfig("LOG_FORMAT"))

	log.Println("=====================")
}

// IsDevelopment returns true if running in development mode.
func IsDevelopment() bool {
	return GetStringConfig("GIN_MODE") == "debug"
}

// IsProduction returns true if running in production mode.
func IsProduction() bool {
	return GetStringConfig("GIN_MODE") == "release"
}
