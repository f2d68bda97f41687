package config

import (
	"fmt"
	"os"
	"strings"
)

type Config struct {
	Port string

	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret   []byte
	CORSOrigins []string

	// InsightsMode selects the insight client: "api", "cli", "mock" or
	// "static" for canned messages only.
	InsightsMode   string
	AnthropicModel string
	AnthropicKey   string
	ClaudeCLIPath  string
}

// Load reads configuration from the environment, falling back to local
// development defaults.
func Load() Config {
	return Config{
		Port:           getEnv("PORT", "8080"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "wellness_user"),
		DBPassword:     getEnv("DB_PASSWORD", "wellness_password"),
		DBName:         getEnv("DB_NAME", "campus_wellness"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		JWTSecret:      []byte(getEnv("JWT_SECRET", "campuswell-dev-signing-key")),
		CORSOrigins:    splitList(getEnv("CORS_ORIGINS", "*")),
		InsightsMode:   getEnv("INSIGHTS_MODE", "static"),
		AnthropicModel: getEnv("ANTHROPIC_MODEL", "claude-sonnet-4-5"),
		AnthropicKey:   getEnv("ANTHROPIC_API_KEY", ""),
		ClaudeCLIPath:  getEnv("CLAUDE_CLI_PATH", "claude"),
	}
}

// DSN returns the lib/pq keyword connection string.
func (c Config) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// MigrateURL returns the postgres:// URL form used by golang-migrate.
func (c Config) MigrateURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
