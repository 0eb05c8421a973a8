// Env loader
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv       string
	Port         string
	DBHost       string
	DBPort       string
	DBName       string
	DBUser       string
	DBPassword   string
	DBSchema     string
	JWTSecret    string
	SmtpFrom     string
	SmtpPassword string
	SmtpHost     string
	SmtpPort     string

	// Device store (the app's durable local record).
	DeviceDBPath string

	// Verse content endpoint.
	ContentAPIURL   string
	ContentAPIKey   string
	ContentModel    string
	ContentFallback string
	ContentTimeout  time.Duration

	// Sync push debounce window.
	PushDebounce time.Duration
}

// LoadConfig loads environment variables from the .env file
func LoadConfig() *Config {

	appEnv := os.Getenv("APP_ENV")

	switch appEnv {
	case "production":
		if err := godotenv.Load(".env.production"); err == nil {
			fmt.Println("Loaded .env.production")
		}
	default:
		if err := godotenv.Load(".env.development"); err == nil {
			fmt.Println("Loaded .env.development")
		}
	}

	cfg := &Config{
		AppEnv:       getEnv("APP_ENV", "development"),
		Port:         getEnv("PORT", "8080"),
		DBHost:       getEnv("PROFILE_DB_HOST", "localhost"),
		DBPort:       getEnv("PROFILE_DB_PORT", "5432"),
		DBName:       getEnv("PROFILE_DB_DATABASE", "memoriza"),
		DBUser:       getEnv("PROFILE_DB_USERNAME", "postgres"),
		DBPassword:   getEnv("PROFILE_DB_PASSWORD", ""),
		DBSchema:     getEnv("PROFILE_DB_SCHEMA", "public"),
		JWTSecret:    getEnv("JWT_SECRET", ""),
		SmtpFrom:     getEnv("SMTP_FROM", ""),
		SmtpPassword: getEnv("SMTP_PASSWORD", ""),
		SmtpHost:     getEnv("SMTP_HOST", "smtp.gmail.com"),
		SmtpPort:     getEnv("SMTP_PORT", "587"),

		DeviceDBPath: getEnv("DEVICE_DB_PATH", "memoriza.db"),

		ContentAPIURL:   getEnv("CONTENT_API_URL", ""),
		ContentAPIKey:   getEnv("CONTENT_API_KEY", ""),
		ContentModel:    getEnv("CONTENT_MODEL", "gemini-2.5-flash-lite"),
		ContentFallback: getEnv("CONTENT_FALLBACK_MODEL", "gemini-2.5-flash"),
		ContentTimeout:  getDurationEnv("CONTENT_TIMEOUT", 12*time.Second),

		PushDebounce: getDurationEnv("PUSH_DEBOUNCE", time.Second),
	}

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}

func GetAppEnv() string {
	if value, exists := os.LookupEnv("APP_ENV"); exists {
		return value
	}
	return "development"
}
