package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// AppConfig holds the settings needed to run the service.
type AppConfig struct {
	ListenAddr     string
	Port           string
	DatabasePath   string
	SessionSecret  string
	GinMode        string
	PolicyPath     string
	BackupDir      string
	BackupSchedule string
	LogMode        string
	Location       *time.Location
}

// Load reads the configuration from environment variables and fills in safe
// defaults for anything missing.
func Load() AppConfig {
	port := env("PORT", "8080")

	listenAddr := env("LISTEN_ADDR", fmt.Sprintf(":%s", port))

	location := time.Local
	if name := env("TIMEZONE", ""); name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			location = loc
		}
	}

	return AppConfig{
		ListenAddr:     listenAddr,
		Port:           port,
		DatabasePath:   env("DATABASE_PATH", "utopia.db"),
		SessionSecret:  env("SESSION_SECRET", "utopia-dev-secret"),
		GinMode:        env("GIN_MODE", "release"),
		PolicyPath:     env("POLICY_PATH", "policy.yaml"),
		BackupDir:      env("BACKUP_DIR", "backups"),
		BackupSchedule: env("BACKUP_SCHEDULE", "5 0 * * *"),
		LogMode:        env("LOG_MODE", "development"),
		Location:       location,
	}
}

// Today returns the current calendar date in the configured location.
func (c AppConfig) Today() time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	return time.Now().In(loc)
}

func env(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}
