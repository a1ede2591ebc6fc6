package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for our application
type Config struct {
	Port                      string
	Origin                    string
	Environment               string
	JWTSecret                 string
	JWTRefreshSecret          string
	CookieSecret              string
	Database                  DatabaseConfig
	Chat                      ChatConfig
	RedisAddr                 string
	JWTExpirationMinutes      int
	JWTRefreshExpirationHours int
	AppURL                    string
	SiteName                  string
}

// DatabaseConfig holds database connection details
type DatabaseConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Name     string
	DSN      string
}

// ChatConfig holds the tunables of the chat subsystem.
type ChatConfig struct {
	// InactivityDays is how long a conversation may sit without a new
	// message before the daily sweep closes it.
	InactivityDays int
	// PresenceWindowMinutes is how recently a user must have been seen
	// for email notifications to be suppressed.
	PresenceWindowMinutes int
	// PreviewLength is the number of characters of the message body
	// included in a notification email.
	PreviewLength int
	// EmailLogSize is the number of dispatch records retained for the
	// admin email log.
	EmailLogSize int
	// SweepAt is the time of day ("HH:MM") the auto-close sweep runs.
	SweepAt string
}

// InactivityWindow returns the sweep threshold as a duration.
func (c ChatConfig) InactivityWindow() time.Duration {
	return time.Duration(c.InactivityDays) * 24 * time.Hour
}

// PresenceWindow returns the notification suppression window as a duration.
func (c ChatConfig) PresenceWindow() time.Duration {
	return time.Duration(c.PresenceWindowMinutes) * time.Minute
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// Load database configuration
	dbConfig := DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "3306"),
		Username: getEnv("DB_USERNAME", "root"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "listing_chat"),
	}

	// Build DSN (Data Source Name) for MySQL connection
	dbConfig.DSN = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		dbConfig.Username, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name)

	jwtExpMinutes, err := strconv.Atoi(getEnv("JWT_EXPIRATION_MINUTES", "15"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_EXPIRATION_MINUTES: %w", err)
	}

	jwtRefreshExpHours, err := strconv.Atoi(getEnv("JWT_REFRESH_EXPIRATION_HOURS", "168")) // 7 days
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_REFRESH_EXPIRATION_HOURS: %w", err)
	}

	inactivityDays, err := strconv.Atoi(getEnv("CHAT_INACTIVITY_DAYS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_INACTIVITY_DAYS: %w", err)
	}

	presenceWindow, err := strconv.Atoi(getEnv("CHAT_PRESENCE_WINDOW_MINUTES", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_PRESENCE_WINDOW_MINUTES: %w", err)
	}

	previewLength, err := strconv.Atoi(getEnv("CHAT_PREVIEW_LENGTH", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_PREVIEW_LENGTH: %w", err)
	}

	emailLogSize, err := strconv.Atoi(getEnv("CHAT_EMAIL_LOG_SIZE", "10"))
	if err != nil {
		return nil, fmt.Errorf("invalid CHAT_EMAIL_LOG_SIZE: %w", err)
	}

	// Return complete configuration
	return &Config{
		Port:             getEnv("PORT", "3001"),
		Origin:           getEnv("ORIGIN", "http://localhost:4200"),
		Environment:      getEnv("APP_ENV", "development"),
		JWTSecret:        getEnv("JWT_SECRET", "default_jwt_secret"),
		JWTRefreshSecret: getEnv("JWT_REFRESH_SECRET", "default_refresh_secret"),
		CookieSecret:     getEnv("COOKIE_SECRET", "default_cookie_secret"),
		Database:         dbConfig,
		Chat: ChatConfig{
			InactivityDays:        inactivityDays,
			PresenceWindowMinutes: presenceWindow,
			PreviewLength:         previewLength,
			EmailLogSize:          emailLogSize,
			SweepAt:               getEnv("CHAT_SWEEP_AT", "03:00"),
		},
		RedisAddr:                 getEnv("REDIS_ADDR", ""),
		JWTExpirationMinutes:      jwtExpMinutes,
		JWTRefreshExpirationHours: jwtRefreshExpHours,
		AppURL:                    getEnv("APP_URL", "http://localhost:3001"),
		SiteName:                  getEnv("SITE_NAME", "Listing Chat"),
	}, nil
}

// Helper function to get environment variable with a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
