package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	ServerPort string

	JWTSecret    string
	JWTExpiry    time.Duration
	CookieSecure bool

	// RedisURL enables the snapshot cache and idempotency keys when set.
	RedisURL       string
	CacheTTL       time.Duration
	IdempotencyTTL time.Duration

	LogLevel  string
	LogFormat string

	AutoMigrate bool
}

func Load() *Config {
	err := godotenv.Load()
	if err != nil {
		log.Info("No .env file found, using system environment variables")
	}

	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "trellix"),
		DBPassword:     getEnv("DB_PASSWORD", "trellix"),
		DBName:         getEnv("DB_NAME", "trellix"),
		ServerPort:     getEnv("SERVER_PORT", "8080"),
		JWTSecret:      getEnv("JWT_SECRET", "supersecretkey"),
		JWTExpiry:      time.Duration(getEnvInt("JWT_EXPIRY_HOURS", 24*30)) * time.Hour,
		CookieSecure:   getEnvBool("COOKIE_SECURE", false),
		RedisURL:       getEnv("REDIS_URL", ""),
		CacheTTL:       getEnvDuration("CACHE_TTL", 5*time.Minute),
		IdempotencyTTL: getEnvDuration("IDEMPOTENCY_TTL", 24*time.Hour),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "text"),
		AutoMigrate:    getEnvBool("AUTO_MIGRATE", false),
	}
}

// DSN is the libpq-style connection string gorm's postgres driver takes.
func (c *Config) DSN() string {
	return "host=" + c.DBHost + " port=" + c.DBPort + " user=" + c.DBUser +
		" password=" + c.DBPassword + " dbname=" + c.DBName + " sslmode=disable"
}

// MigrateURL is the same database addressed for golang-migrate's pgx/v5 driver.
func (c *Config) MigrateURL() string {
	return "pgx5://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=disable"
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Warnf("invalid %s=%q, using %d", key, raw, defaultVal)
		return defaultVal
	}
	return n
}

func getEnvBool(key string, defaultVal bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		log.Warnf("invalid %s=%q, using %t", key, raw, defaultVal)
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		log.Warnf("invalid %s=%q, using %s", key, raw, defaultVal)
		return defaultVal
	}
	return d
}
