package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"dare-mcp/internal/roi"
	"dare-mcp/internal/storage"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath  string
	LogDir    string
	ReportDir string

	StorageBackend storage.Backend
	StoragePath    string
	StorageKey     string

	// TargetROI is the default ROI multiple used for pricing suggestions
	// when a tool call does not supply one.
	TargetROI float64
	// TierDailyPenalties overrides the built-in regulatory penalty table.
	TierDailyPenalties roi.TierTable

	EnableMermaidCharts bool
	AutoOpenReports     bool
}

// Load loads the configuration from .env files and environment variables.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory (highest priority for MCP servers)
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	logDir := filepath.Join(dataPath, "logs")
	reportDir := filepath.Join(dataPath, "reports")

	// Ensure directories exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", logDir).Msg("Failed to create log directory")
	}
	if err := os.MkdirAll(reportDir, 0755); err != nil {
		log.Warn().Err(err).Str("path", reportDir).Msg("Failed to create report directory")
	}

	// 4. Resolve storage settings
	backend := storage.Backend(getEnv("STORAGE_BACKEND", string(storage.BackendFile)))
	storagePath := os.Getenv("STORAGE_PATH")
	if storagePath == "" {
		switch backend {
		case storage.BackendSQLite:
			storagePath = filepath.Join(dataPath, "scenarios.db")
		case storage.BackendFile:
			storagePath = filepath.Join(dataPath, "storage")
		}
	}

	tiers := roi.DefaultTierTable()
	if raw := os.Getenv("TIER_DAILY_PENALTIES"); raw != "" {
		parsed, err := parseTierTable(raw)
		if err != nil {
			log.Warn().Err(err).Str("value", raw).Msg("Ignoring invalid TIER_DAILY_PENALTIES override")
		} else {
			tiers = parsed
		}
	}

	cfg := &AppConfig{
		DataPath:  dataPath,
		LogDir:    logDir,
		ReportDir: reportDir,

		StorageBackend: backend,
		StoragePath:    storagePath,
		StorageKey:     getEnv("STORAGE_KEY", "scenarios"),

		TargetROI:          getEnvFloat("TARGET_ROI", 3),
		TierDailyPenalties: tiers,

		EnableMermaidCharts: getEnvBool("ENABLE_MERMAID_CHARTS", false),
		AutoOpenReports:     getEnvBool("AUTO_OPEN_REPORTS", false),
	}

	return cfg, nil
}

// parseTierTable parses a comma-separated list of exactly three daily
// penalty amounts, e.g. "7217,36083,1443275".
func parseTierTable(raw string) (roi.TierTable, error) {
	var table roi.TierTable

	parts := strings.Split(raw, ",")
	if len(parts) != len(table) {
		return table, fmt.Errorf("expected %d comma-separated amounts, got %d", len(table), len(parts))
	}
	for i, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return table, fmt.Errorf("invalid amount %q: %w", part, err)
		}
		table[i] = v
	}
	return table, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value, ok := os.LookupEnv(key); ok {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return fallback
}
