package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Get returns the environment value for key, or fallback when it is unset
// or blank.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// GetInt is Get for integer settings. Unparsable values fall back.
func GetInt(key string, fallback int) int {
	v := Get(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("config: %s=%q is not an integer, using %d", key, v, fallback)
		return fallback
	}
	return n
}

type Config struct {
	Port        string
	ProjectsDir string

	ORSAPIKey  string
	ORSBaseURL string
	ORSProfile string

	DatabaseURL string
	DBPath      string
	RedisURL    string
	AMQPURL     string

	CacheTTLHours int

	SnapshotIntervalSeconds int
	DefaultServiceMinutes   int
}

// Load reads .env when present and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	return Config{
		Port:        Get("PORT", "8080"),
		ProjectsDir: Get("PROJECTS_DIR", "projects"),

		ORSAPIKey:  Get("ORS_API_KEY", ""),
		ORSBaseURL: Get("ORS_BASE_URL", ""),
		ORSProfile: Get("ORS_PROFILE", ""),

		DatabaseURL: Get("DATABASE_URL", ""),
		DBPath:      Get("DB_PATH", "data/cache.db"),
		RedisURL:    Get("REDIS_URL", ""),
		AMQPURL:     Get("AMQP_URL", ""),

		CacheTTLHours: GetInt("CACHE_TTL_HOURS", 24),

		SnapshotIntervalSeconds: GetInt("SNAPSHOT_INTERVAL_SECONDS", 60),
		DefaultServiceMinutes:   GetInt("DEFAULT_SERVICE_MINUTES", 10),
	}
}
