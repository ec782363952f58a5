package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aman-zulfiqar/raydium-token-price/internal/constants"
)

type Config struct {
	// RPC settings
	RPCUrl     string
	Commitment string
	RPCTimeout time.Duration

	// Pool directory
	DirectoryURL      string
	DirectoryFile     string
	IncludeUnofficial bool
	HTTPTimeout       time.Duration

	// Pool account layout version
	LayoutVersion int

	// Redis settings
	RedisAddr string

	// ClickHouse settings
	ClickHouseAddr     string
	ClickHouseDatabase string
	ClickHouseUsername string
	ClickHousePassword string

	// API settings
	APIAddr string
	APIKey  string
	DevMode bool

	LogLevel string
}

func Load() *Config {
	return &Config{
		// RPC
		RPCUrl:     getEnv("SOLANA_RPC_URL", constants.DefaultRPCURL),
		Commitment: getEnv("SOLANA_COMMITMENT", "confirmed"),
		RPCTimeout: getDurationEnv("RPC_TIMEOUT", 30*time.Second),

		// Directory
		DirectoryURL:      getEnv("POOL_DIRECTORY_URL", constants.DefaultDirectoryURL),
		DirectoryFile:     getEnv("POOL_DIRECTORY_FILE", ""),
		IncludeUnofficial: getBoolEnv("POOL_DIRECTORY_UNOFFICIAL", false),
		HTTPTimeout:       getDurationEnv("HTTP_TIMEOUT", 60*time.Second),

		LayoutVersion: getIntEnv("POOL_LAYOUT_VERSION", constants.DefaultLayoutVersion),

		// Redis
		RedisAddr: getEnv("REDIS_ADDR", ""),

		// ClickHouse
		ClickHouseAddr:     getEnv("CLICKHOUSE_ADDR", ""),
		ClickHouseDatabase: getEnv("CLICKHOUSE_DATABASE", "solana"),
		ClickHouseUsername: getEnv("CLICKHOUSE_USERNAME", "default"),
		ClickHousePassword: getEnv("CLICKHOUSE_PASSWORD", ""),

		// API
		APIAddr: getEnv("API_ADDR", ":8090"),
		APIKey:  getEnv("API_KEY", ""),
		DevMode: getBoolEnv("DEV_MODE", false),

		LogLevel: getEnv("LOG_LEVEL", "info"),
	}
}

// Validate rejects configurations that cannot produce a price query.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPCUrl) == "" {
		return fmt.Errorf("SOLANA_RPC_URL is required")
	}
	if strings.TrimSpace(c.DirectoryURL) == "" && strings.TrimSpace(c.DirectoryFile) == "" {
		return fmt.Errorf("one of POOL_DIRECTORY_URL or POOL_DIRECTORY_FILE is required")
	}
	if c.LayoutVersion <= 0 {
		return fmt.Errorf("POOL_LAYOUT_VERSION must be > 0, got %d", c.LayoutVersion)
	}
	switch c.Commitment {
	case "processed", "confirmed", "finalized":
	default:
		return fmt.Errorf("SOLANA_COMMITMENT must be processed|confirmed|finalized, got %q", c.Commitment)
	}
	if c.RPCTimeout <= 0 {
		return fmt.Errorf("RPC_TIMEOUT must be > 0")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getIntEnv(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getBoolEnv(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getDurationEnv(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}
