package config

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type Config struct {
	App struct {
		Env         string `mapstructure:"env"`
		Port        string `mapstructure:"port"`
		FrontendURL string `mapstructure:"frontend_url"`
		LogLevel    string `mapstructure:"log_level"`
	} `mapstructure:"app"`
	DB struct {
		Host     string `mapstructure:"host"`
		Port     string `mapstructure:"port"`
		User     string `mapstructure:"user"`
		Password string `mapstructure:"password"`
		Name     string `mapstructure:"name"`
		SSLMode  string `mapstructure:"sslmode"`
	} `mapstructure:"db"`
	JWT struct {
		AccessTokenSecret        string `mapstructure:"access_token_secret"`
		AccessTokenExpiryMinutes int    `mapstructure:"access_token_expiry_minutes"`
		RefreshTokenSecret       string `mapstructure:"refresh_token_secret"`
		RefreshTokenExpiryDays   int    `mapstructure:"refresh_token_expiry_days"`
	} `mapstructure:"jwt"`
	Redis struct {
		Enabled bool   `mapstructure:"enabled"`
		URL     string `mapstructure:"url"`
	} `mapstructure:"redis"`
	Scoring struct {
		DefaultOvers int           `mapstructure:"default_overs"`
		MaxWickets   int           `mapstructure:"max_wickets"`
		LockTimeout  time.Duration `mapstructure:"lock_timeout"`
		SummaryTTL   time.Duration `mapstructure:"summary_ttl"`
	} `mapstructure:"scoring"`
}

// IsDevelopment reports whether the app runs with development defaults.
func (c *Config) IsDevelopment() bool {
	return c.App.Env == "development"
}

// DSN returns the postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=UTC",
		c.DB.Host,
		c.DB.User,
		c.DB.Password,
		c.DB.Name,
		c.DB.Port,
		c.DB.SSLMode,
	)
}

// Global DB instance, accessible after ConnectDB() is called via Initialize.
var DB *gorm.DB

// Global AppConfig instance, accessible after LoadConfig() is called via Initialize.
var appConfig *Config
var once sync.Once // Used for singleton pattern to load config only once

// LoadConfig reads .env, an optional config.yaml and the environment, in increasing
// order of precedence. Nested keys map to env vars with underscores, e.g. DB_HOST or
// SCORING_DEFAULT_OVERS.
func LoadConfig() (*Config, error) {
	// It's okay if .env doesn't exist, especially in production where env vars are set directly.
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file found, relying on system environment variables")
	}

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names kept from the original .env layout.
	_ = v.BindEnv("app.port", "PORT", "APP_PORT")
	_ = v.BindEnv("app.frontend_url", "FRONTEND_URL", "APP_FRONTEND_URL")
	_ = v.BindEnv("redis.url", "REDIS_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Basic validation for critical secrets
	if cfg.JWT.AccessTokenSecret == defaultAccessSecret || cfg.JWT.RefreshTokenSecret == defaultRefreshSecret {
		log.Warn().Msg("using default JWT secrets, set JWT_ACCESS_TOKEN_SECRET and JWT_REFRESH_TOKEN_SECRET for production")
	}
	if cfg.DB.Password == "password" && cfg.App.Env == "production" {
		log.Warn().Msg("using default DB password in production, set DB_PASSWORD")
	}

	appConfig = cfg // Set the global instance
	return cfg, nil
}

const (
	defaultAccessSecret  = "your-very-strong-access-secret"
	defaultRefreshSecret = "your-very-strong-refresh-secret"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8088")
	v.SetDefault("app.frontend_url", "http://localhost:3000")
	v.SetDefault("app.log_level", "debug")

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", "5432")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "password")
	v.SetDefault("db.name", "scorebook")
	v.SetDefault("db.sslmode", "disable")

	v.SetDefault("jwt.access_token_secret", defaultAccessSecret)
	v.SetDefault("jwt.access_token_expiry_minutes", 15)
	v.SetDefault("jwt.refresh_token_secret", defaultRefreshSecret)
	v.SetDefault("jwt.refresh_token_expiry_days", 7)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.url", "redis://localhost:6379/0")

	v.SetDefault("scoring.default_overs", 20)
	v.SetDefault("scoring.max_wickets", 10)
	v.SetDefault("scoring.lock_timeout", "5s")
	v.SetDefault("scoring.summary_ttl", "2h")
}

func (c *Config) validate() error {
	if c.JWT.AccessTokenExpiryMinutes <= 0 {
		return fmt.Errorf("invalid JWT_ACCESS_TOKEN_EXPIRY_MINUTES: %d", c.JWT.AccessTokenExpiryMinutes)
	}
	if c.JWT.RefreshTokenExpiryDays <= 0 {
		return fmt.Errorf("invalid JWT_REFRESH_TOKEN_EXPIRY_DAYS: %d", c.JWT.RefreshTokenExpiryDays)
	}
	if c.Scoring.DefaultOvers <= 0 {
		return fmt.Errorf("invalid SCORING_DEFAULT_OVERS: %d", c.Scoring.DefaultOvers)
	}
	if c.Scoring.MaxWickets <= 0 || c.Scoring.MaxWickets > 10 {
		return fmt.Errorf("invalid SCORING_MAX_WICKETS: %d", c.Scoring.MaxWickets)
	}
	if c.Scoring.LockTimeout <= 0 {
		return fmt.Errorf("invalid SCORING_LOCK_TIMEOUT: %s", c.Scoring.LockTimeout)
	}
	return nil
}

// ConnectDB establishes a connection to the database using the provided configuration.
// It sets the global DB variable.
func ConnectDB(cfg Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.IsDevelopment() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info) // Log SQL queries in development
	} else {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	gormDB, err := gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	DB = gormDB // Set the global DB instance
	log.Info().Str("host", cfg.DB.Host).Str("db", cfg.DB.Name).Msg("connected to database")
	return gormDB, nil
}

// Initialize loads all configurations and connects to the database.
// This should be called once at the start of the application.
func Initialize() error {
	var loadErr error
	once.Do(func() {
		loadedCfg, err := LoadConfig()
		if err != nil {
			loadErr = fmt.Errorf("failed to load configuration: %w", err)
			return
		}

		_, err = ConnectDB(*loadedCfg)
		if err != nil {
			loadErr = fmt.Errorf("failed to connect to database during initialization: %w", err)
			return
		}
	})
	return loadErr
}

// GetConfig returns the loaded application configuration.
// It exits if the configuration has not been loaded yet.
func GetConfig() *Config {
	if appConfig == nil {
		log.Fatal().Msg("configuration not loaded, call config.Initialize() first")
	}
	return appConfig
}
