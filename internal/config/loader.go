package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the bus alarm service.
type Config struct {
	HTTPPort       int
	SQLiteDSN      string
	LeadTime       time.Duration
	ScanDays       int
	AdminTokenHash string
	LogLevel       string
}

// Load parses configuration values from the current process environment.
//
// The loader applies sensible defaults for optional fields while validating
// required values and reporting localized error messages for missing entries.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:  8080,
		SQLiteDSN: "file:busalarm.db?_foreign_keys=on",
		LeadTime:  5 * time.Minute,
		ScanDays:  14,
		LogLevel:  "info",
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BUSALARM_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "BUSALARM_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("BUSALARM_SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if leadValue := strings.TrimSpace(os.Getenv("BUSALARM_LEAD_TIME")); leadValue != "" {
		lead, err := time.ParseDuration(leadValue)
		if err != nil || lead <= 0 {
			invalid = append(invalid, "BUSALARM_LEAD_TIME")
		} else {
			cfg.LeadTime = lead
		}
	}

	if scanValue := strings.TrimSpace(os.Getenv("BUSALARM_SCAN_DAYS")); scanValue != "" {
		scan, err := strconv.Atoi(scanValue)
		if err != nil || scan <= 0 {
			invalid = append(invalid, "BUSALARM_SCAN_DAYS")
		} else {
			cfg.ScanDays = scan
		}
	}

	if hash := strings.TrimSpace(os.Getenv("BUSALARM_ADMIN_TOKEN_HASH")); hash == "" {
		missing = append(missing, "BUSALARM_ADMIN_TOKEN_HASH")
	} else {
		cfg.AdminTokenHash = hash
	}

	if level := strings.TrimSpace(os.Getenv("BUSALARM_LOG_LEVEL")); level != "" {
		cfg.LogLevel = level
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("не заданы обязательные переменные окружения: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("недопустимые значения переменных окружения: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}
