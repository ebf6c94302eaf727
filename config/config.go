package config

import (
	"log"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	Env               string `mapstructure:"ENV"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Redis configuration.
	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int    `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int    `mapstructure:"REDIS_QUEUE_DB"`

	// Canonical slot grid. Defaults cover 09:00-20:00 in 30-minute steps.
	GridStartMinute int `mapstructure:"GRID_START_MINUTE"`
	GridEndMinute   int `mapstructure:"GRID_END_MINUTE"`
	GridStepMinutes int `mapstructure:"GRID_STEP_MINUTES"`

	// Consistency sweep schedule and how far ahead it looks.
	ReconcileIntervalMinutes int `mapstructure:"RECONCILE_INTERVAL_MINUTES"`
	ReconcileHorizonDays     int `mapstructure:"RECONCILE_HORIZON_DAYS"`

	// Staged import plans expire after this many minutes.
	ImportPlanTTLMinutes int `mapstructure:"IMPORT_PLAN_TTL_MINUTES"`

	// Availability views are cached this long; the change-stream watcher
	// invalidates them eagerly, the TTL is only a fallback.
	AvailabilityCacheTTLSeconds int `mapstructure:"AVAILABILITY_CACHE_TTL_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("GRID_START_MINUTE", 540)
	viper.SetDefault("GRID_END_MINUTE", 1200)
	viper.SetDefault("GRID_STEP_MINUTES", 30)
	viper.SetDefault("RECONCILE_INTERVAL_MINUTES", 30)
	viper.SetDefault("RECONCILE_HORIZON_DAYS", 60)
	viper.SetDefault("IMPORT_PLAN_TTL_MINUTES", 15)
	viper.SetDefault("AVAILABILITY_CACHE_TTL_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

// GetEnv returns the application environment.
func GetEnv() string {
	return AppConfig.Env
}

// IsProduction checks if the environment is production.
func IsProduction() bool {
	return GetEnv() == "production"
}
