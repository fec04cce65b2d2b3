package config

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type ServerConfig struct {
	Port     int
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
}

type GoogleAPIConfig struct {
	ClientID     string
	ClientSecret string
	// TokenURL overrides the Google OAuth token endpoint. Empty means the
	// standard endpoint; tests point it at a local server.
	TokenURL string
	// CalendarBaseURL overrides the Calendar REST base. Empty means
	// https://www.googleapis.com/calendar/v3.
	CalendarBaseURL string
}

type CalendarConfig struct {
	// WebhookURL is this service's inbound change-notification address,
	// registered with every watch channel.
	WebhookURL string
	Timezone   string
}

type CryptoConfig struct {
	// TokenKey is the 32-byte hex key used to encrypt stored refresh
	// credentials at rest.
	TokenKey string
}

// Config is built once at startup and passed explicitly into every
// component. There is no package-global accessor.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	GoogleAPI GoogleAPIConfig
	Calendar  CalendarConfig
	Crypto    CryptoConfig
}

// Load reads configuration from the environment (and an optional .env file
// for local development) into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SERVER_PORT", 7070)
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "studyhub")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CALENDAR_TIMEZONE", "UTC")

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetInt("SERVER_PORT"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("DB_HOST"),
			Port:     v.GetInt("DB_PORT"),
			User:     v.GetString("DB_USER"),
			Password: v.GetString("DB_PASSWORD"),
			DBName:   v.GetString("DB_NAME"),
			SSLMode:  v.GetString("DB_SSL_MODE"),
		},
		Redis: RedisConfig{
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
		},
		GoogleAPI: GoogleAPIConfig{
			ClientID:        v.GetString("GOOGLE_CLIENT_ID"),
			ClientSecret:    v.GetString("GOOGLE_CLIENT_SECRET"),
			TokenURL:        v.GetString("GOOGLE_TOKEN_URL"),
			CalendarBaseURL: v.GetString("GOOGLE_CALENDAR_BASE_URL"),
		},
		Calendar: CalendarConfig{
			WebhookURL: v.GetString("CALENDAR_WEBHOOK_URL"),
			Timezone:   v.GetString("CALENDAR_TIMEZONE"),
		},
		Crypto: CryptoConfig{
			TokenKey: v.GetString("TOKEN_ENCRYPTION_KEY"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.Crypto.TokenKey == "" {
		return nil, fmt.Errorf("TOKEN_ENCRYPTION_KEY is required")
	}

	return cfg, nil
}
