package config

import (
	"fmt"
	"strings"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/spf13/viper"
)

const (
	DatabaseTypePostgres = "postgres"
	DatabaseTypeSQLite   = "sqlite"
)

type Config struct {
	GeneralVersion       string `mapstructure:"GENERAL_VERSION"`
	Environment          string `mapstructure:"ENVIRONMENT"`
	ServerPort           int    `mapstructure:"SERVER_PORT"`
	DatabaseType         string `mapstructure:"DB_TYPE"`
	DatabaseHost         string `mapstructure:"DB_HOST"`
	DatabasePort         int    `mapstructure:"DB_PORT"`
	DatabaseName         string `mapstructure:"DB_NAME"`
	DatabaseUser         string `mapstructure:"DB_USER"`
	DatabasePassword     string `mapstructure:"DB_PASSWORD"`
	DatabasePath         string `mapstructure:"DB_PATH"`
	DatabaseCacheAddress string `mapstructure:"DB_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DB_CACHE_PORT"`
	DatabaseCacheReset   int    `mapstructure:"DB_CACHE_RESET"`
	CorsAllowOrigins     string `mapstructure:"CORS_ALLOW_ORIGINS"`
	SchedulerEnabled     bool   `mapstructure:"SCHEDULER_ENABLED"`
	SyncIntervalMinutes  int    `mapstructure:"SYNC_INTERVAL_MINUTES"`
	AutoAssignEnabled    bool   `mapstructure:"AUTO_ASSIGN_ENABLED"`
	KafkaBrokers         string `mapstructure:"KAFKA_BROKERS"`
	KafkaAlertTopic      string `mapstructure:"KAFKA_ALERT_TOPIC"`
	LockTTLSeconds       int    `mapstructure:"LOCK_TTL_SECONDS"`

	Cleaning CleaningDefaults `mapstructure:",squash"`
}

// CleaningDefaults collects every default used when tasks and shifts are
// created without explicit values.
type CleaningDefaults struct {
	CheckoutTime           string `mapstructure:"CLEANING_CHECKOUT_TIME"`
	SyncStartTime          string `mapstructure:"CLEANING_SYNC_START"`
	SyncEndTime            string `mapstructure:"CLEANING_SYNC_END"`
	SyncDurationMinutes    int    `mapstructure:"CLEANING_SYNC_DURATION"`
	CreateStartTime        string `mapstructure:"CLEANING_CREATE_START"`
	CreateEndTime          string `mapstructure:"CLEANING_CREATE_END"`
	DefaultDurationMinutes int    `mapstructure:"CLEANING_DEFAULT_DURATION"`
	DefaultPriority        int    `mapstructure:"CLEANING_DEFAULT_PRIORITY"`
	GroupStartTime         string `mapstructure:"CLEANING_GROUP_START"`
	GroupEndTime           string `mapstructure:"CLEANING_GROUP_END"`
	LargeFacilityGuests    int    `mapstructure:"CLEANING_LARGE_FACILITY_GUESTS"`
	ValidateOverlap        bool   `mapstructure:"CLEANING_VALIDATE_OVERLAP"`
	DefaultFacilityName    string `mapstructure:"CLEANING_DEFAULT_FACILITY"`
}

var ConfigInstance Config

var envVars = []string{
	"GENERAL_VERSION", "ENVIRONMENT", "SERVER_PORT",
	"DB_TYPE", "DB_HOST", "DB_PORT", "DB_NAME", "DB_USER", "DB_PASSWORD", "DB_PATH",
	"DB_CACHE_ADDRESS", "DB_CACHE_PORT", "DB_CACHE_RESET",
	"CORS_ALLOW_ORIGINS",
	"SCHEDULER_ENABLED", "SYNC_INTERVAL_MINUTES", "AUTO_ASSIGN_ENABLED",
	"KAFKA_BROKERS", "KAFKA_ALERT_TOPIC", "LOCK_TTL_SECONDS",
	"CLEANING_CHECKOUT_TIME", "CLEANING_SYNC_START", "CLEANING_SYNC_END", "CLEANING_SYNC_DURATION",
	"CLEANING_CREATE_START", "CLEANING_CREATE_END", "CLEANING_DEFAULT_DURATION",
	"CLEANING_DEFAULT_PRIORITY", "CLEANING_GROUP_START", "CLEANING_GROUP_END",
	"CLEANING_LARGE_FACILITY_GUESTS", "CLEANING_VALIDATE_OVERLAP", "CLEANING_DEFAULT_FACILITY",
}

// DefaultCleaning returns the cleaning defaults the service runs with when
// nothing is configured.
func DefaultCleaning() CleaningDefaults {
	return CleaningDefaults{
		CheckoutTime:           "10:00",
		SyncStartTime:          "11:00",
		SyncEndTime:            "16:00",
		SyncDurationMinutes:    300,
		CreateStartTime:        "11:00",
		CreateEndTime:          "13:00",
		DefaultDurationMinutes: 120,
		DefaultPriority:        3,
		GroupStartTime:         "11:00",
		GroupEndTime:           "16:00",
		LargeFacilityGuests:    6,
		ValidateOverlap:        false,
		DefaultFacilityName:    "Default Facility",
	}
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultCleaning()

	v.SetDefault("ENVIRONMENT", "production")
	v.SetDefault("DB_TYPE", DatabaseTypePostgres)
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_PATH", "cleanops.db")
	v.SetDefault("DB_CACHE_RESET", -1)
	v.SetDefault("SYNC_INTERVAL_MINUTES", 60)
	v.SetDefault("KAFKA_ALERT_TOPIC", "cleaning-alerts")
	v.SetDefault("LOCK_TTL_SECONDS", 120)

	v.SetDefault("CLEANING_CHECKOUT_TIME", defaults.CheckoutTime)
	v.SetDefault("CLEANING_SYNC_START", defaults.SyncStartTime)
	v.SetDefault("CLEANING_SYNC_END", defaults.SyncEndTime)
	v.SetDefault("CLEANING_SYNC_DURATION", defaults.SyncDurationMinutes)
	v.SetDefault("CLEANING_CREATE_START", defaults.CreateStartTime)
	v.SetDefault("CLEANING_CREATE_END", defaults.CreateEndTime)
	v.SetDefault("CLEANING_DEFAULT_DURATION", defaults.DefaultDurationMinutes)
	v.SetDefault("CLEANING_DEFAULT_PRIORITY", defaults.DefaultPriority)
	v.SetDefault("CLEANING_GROUP_START", defaults.GroupStartTime)
	v.SetDefault("CLEANING_GROUP_END", defaults.GroupEndTime)
	v.SetDefault("CLEANING_LARGE_FACILITY_GUESTS", defaults.LargeFacilityGuests)
	v.SetDefault("CLEANING_VALIDATE_OVERLAP", defaults.ValidateOverlap)
	v.SetDefault("CLEANING_DEFAULT_FACILITY", defaults.DefaultFacilityName)
}

func New() (Config, error) {
	log := logger.New("config").Function("New")
	log.Info("Initializing config")

	v := viper.New()
	setDefaults(v)

	v.AutomaticEnv()
	for _, env := range envVars {
		if err := v.BindEnv(env); err != nil {
			log.Warn("Failed to bind environment variable", "env", env, "error", err)
		}
	}

	envVarsSet := v.IsSet("SERVER_PORT") && (v.IsSet("DB_HOST") || v.GetString("DB_TYPE") == DatabaseTypeSQLite)
	if envVarsSet {
		log.Info("Environment variables detected, skipping file loading")
	} else {
		log.Info("Environment variables not found, attempting to load from files")

		v.SetConfigFile(".env")
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			log.Warn("Could not find .env file", "error", err)
		} else {
			log.Info("Loaded .env file")
		}

		v.SetConfigFile(".env.local")
		if err := v.MergeInConfig(); err != nil {
			log.Debug("No .env.local file found", "error", err)
		} else {
			log.Info("Loaded .env.local overrides")
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, log.Err("Fatal error: could not unmarshal config", err)
	}

	if err := validateConfig(config, log); err != nil {
		return Config{}, err
	}

	log.Info(
		"Successfully initialized config",
		"environment", config.Environment,
		"dbType", config.DatabaseType,
		"schedulerEnabled", config.SchedulerEnabled,
	)
	return ConfigInstance, nil
}

func GetConfig() Config {
	return ConfigInstance
}

// KafkaBrokerList splits KAFKA_BROKERS on commas.
func (c Config) KafkaBrokerList() []string {
	if strings.TrimSpace(c.KafkaBrokers) == "" {
		return nil
	}

	var brokers []string
	for _, broker := range strings.Split(c.KafkaBrokers, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	return brokers
}

func (c Config) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

func (c Config) CacheEnabled() bool {
	return c.DatabaseCacheAddress != "" && c.DatabaseCachePort > 0
}

func validateConfig(config Config, log logger.Logger) error {
	if config.ServerPort <= 0 {
		return log.Error(
			"Fatal error: invalid server port",
			"port", config.ServerPort,
		)
	}

	switch config.DatabaseType {
	case DatabaseTypePostgres, DatabaseTypeSQLite:
	default:
		return log.Error("Fatal error: unsupported DB_TYPE", "dbType", config.DatabaseType)
	}

	if config.SyncIntervalMinutes <= 0 {
		return log.Error("Fatal error: SYNC_INTERVAL_MINUTES must be positive", "minutes", config.SyncIntervalMinutes)
	}

	if err := config.Cleaning.Validate(); err != nil {
		return log.Err("Fatal error: invalid cleaning defaults", err)
	}

	ConfigInstance = config
	return nil
}

// Validate checks clock formats, windows and numeric ranges.
func (d CleaningDefaults) Validate() error {
	clocks := map[string]string{
		"CLEANING_CHECKOUT_TIME": d.CheckoutTime,
		"CLEANING_SYNC_START":    d.SyncStartTime,
		"CLEANING_SYNC_END":      d.SyncEndTime,
		"CLEANING_CREATE_START":  d.CreateStartTime,
		"CLEANING_CREATE_END":    d.CreateEndTime,
		"CLEANING_GROUP_START":   d.GroupStartTime,
		"CLEANING_GROUP_END":     d.GroupEndTime,
	}
	for key, value := range clocks {
		if _, err := time.Parse("15:04", value); err != nil {
			return fmt.Errorf("%s must be HH:MM, got %q", key, value)
		}
	}

	windows := [][2]string{
		{d.SyncStartTime, d.SyncEndTime},
		{d.CreateStartTime, d.CreateEndTime},
		{d.GroupStartTime, d.GroupEndTime},
	}
	for _, window := range windows {
		// HH:MM strings compare lexically
		if window[0] >= window[1] {
			return fmt.Errorf("window %s-%s must start before it ends", window[0], window[1])
		}
	}

	if d.DefaultPriority < 1 || d.DefaultPriority > 5 {
		return fmt.Errorf("CLEANING_DEFAULT_PRIORITY must be between 1 and 5, got %d", d.DefaultPriority)
	}
	if d.DefaultDurationMinutes <= 0 || d.SyncDurationMinutes <= 0 {
		return fmt.Errorf("cleaning durations must be positive")
	}
	if d.LargeFacilityGuests <= 0 {
		return fmt.Errorf("CLEANING_LARGE_FACILITY_GUESTS must be positive")
	}
	if strings.TrimSpace(d.DefaultFacilityName) == "" {
		return fmt.Errorf("CLEANING_DEFAULT_FACILITY is required")
	}

	return nil
}
