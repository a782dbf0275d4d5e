package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

// Config holds runtime configuration values for the catalog server.
type Config struct {
	StoreDriver   string
	DBPath        string
	MongoURI      string
	MongoDatabase string
	ServerPort    int
	PublicDir     string
	LogLevel      string
	SentryDSN     string
	Environment   string
	ShutdownGrace time.Duration
	RateLimit     RateLimitConfig
}

// RateLimitConfig controls the per-client request budget.
type RateLimitConfig struct {
	RequestsPerSecond float64
	Burst             int
	ClientTTL         time.Duration
}

const (
	defaultStoreDriver    = DriverSQLite
	defaultDBPath         = "./data/catalog.db"
	defaultMongoURI       = "mongodb://localhost:27017"
	defaultMongoDatabase  = "catalog"
	defaultServerPort     = 8080
	defaultPublicDir      = "./public"
	defaultLogLevel       = "info"
	defaultEnvironment    = "development"
	defaultShutdownGrace  = 10 * time.Second
	defaultRateLimitRPS   = 20.0
	defaultRateLimitBurst = 40
	defaultRateLimitTTL   = 5 * time.Minute
)

// Load reads configuration values from environment variables, applying defaults where necessary.
func Load() (*Config, error) {
	cfg := &Config{
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", defaultStoreDriver)),
		DBPath:        getEnv("DB_PATH", defaultDBPath),
		MongoURI:      getEnv("MONGO_URI", defaultMongoURI),
		MongoDatabase: getEnv("MONGO_DATABASE", defaultMongoDatabase),
		PublicDir:     getEnv("PUBLIC_DIR", defaultPublicDir),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:     os.Getenv("SENTRY_DSN"),
		Environment:   getEnv("ENV", defaultEnvironment),
		ShutdownGrace: defaultShutdownGrace,
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverMongo:
	default:
		return nil, eris.Errorf("invalid STORE_DRIVER value: %s", cfg.StoreDriver)
	}

	portValue := getEnv("SERVER_PORT", strconv.Itoa(defaultServerPort))
	port, err := strconv.Atoi(portValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid SERVER_PORT value: %s", portValue)
	}
	cfg.ServerPort = port

	rpsValue := getEnv("RATE_LIMIT_RPS", strconv.FormatFloat(defaultRateLimitRPS, 'f', -1, 64))
	rps, err := strconv.ParseFloat(rpsValue, 64)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_RPS value: %s", rpsValue)
	}
	cfg.RateLimit.RequestsPerSecond = rps

	burstValue := getEnv("RATE_LIMIT_BURST", strconv.Itoa(defaultRateLimitBurst))
	burst, err := strconv.Atoi(burstValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_BURST value: %s", burstValue)
	}
	cfg.RateLimit.Burst = burst

	ttlValue := getEnv("RATE_LIMIT_CLIENT_TTL", defaultRateLimitTTL.String())
	ttl, err := time.ParseDuration(ttlValue)
	if err != nil {
		return nil, eris.Wrapf(err, "invalid RATE_LIMIT_CLIENT_TTL value: %s", ttlValue)
	}
	cfg.RateLimit.ClientTTL = ttl

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
