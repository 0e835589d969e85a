// Package config reads runtime settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Logger  LoggerConfig
	Catalog CatalogConfig
	Engine  EngineConfig
	Redis   RedisConfig
	Rabbit  RabbitConfig
	Storage StorageConfig
}

type ServerConfig struct {
	ListenAddress string
	AppEnv        string
	SessionTTL    time.Duration
	Profiling     bool
	Timeouts      TimeoutConfig
}

// TimeoutConfig holds the http server timeouts and the shutdown budget.
type TimeoutConfig struct {
	ReadHeader time.Duration
	Read       time.Duration
	Write      time.Duration
	Idle       time.Duration
	Shutdown   time.Duration
	Hook       time.Duration
}

type LoggerConfig struct {
	Level    string
	Encoding string
}

type CatalogConfig struct {
	BaseUrl       string
	BranchPrefix  string
	LookupWorkers int
	Timeout       time.Duration
}

type EngineConfig struct {
	Workers   int
	QueueSize int
	PageSize  int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TTL      time.Duration
}

type RabbitConfig struct {
	Url     string
	Country string
}

type StorageConfig struct {
	RootFolder string
}

func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development"
}

// Load reads .env (when present) and the environment.
func Load() *Config {
	_ = godotenv.Load()
	return &Config{
		Server: ServerConfig{
			ListenAddress: getEnv("LISTEN_ADDRESS", ":8080"),
			AppEnv:        getEnv("APP_ENV", "production"),
			SessionTTL:    getEnvDuration("SESSION_TTL", 30*time.Minute),
			Profiling:     getEnvBool("PROFILING", false),
			Timeouts: TimeoutConfig{
				ReadHeader: getEnvDuration("READ_HEADER_TIMEOUT", 5*time.Second),
				Read:       getEnvDuration("READ_TIMEOUT", 15*time.Second),
				Write:      getEnvDuration("WRITE_TIMEOUT", 2*time.Minute),
				Idle:       getEnvDuration("IDLE_TIMEOUT", time.Minute),
				Shutdown:   getEnvDuration("SHUTDOWN_TIMEOUT", 15*time.Second),
				Hook:       getEnvDuration("HOOK_TIMEOUT", 5*time.Second),
			},
		},
		Logger: LoggerConfig{
			Level:    getEnv("LOGGER_LEVEL", "info"),
			Encoding: getEnv("LOGGER_ENCODING", "json"),
		},
		Catalog: CatalogConfig{
			BaseUrl:       getEnv("CATALOG_URL", "http://localhost:8090"),
			BranchPrefix:  getEnv("CATALOG_BRANCH_PREFIX", "s"),
			LookupWorkers: getEnvInt("CATALOG_LOOKUP_WORKERS", 8),
			Timeout:       getEnvDuration("CATALOG_TIMEOUT", 10*time.Second),
		},
		Engine: EngineConfig{
			Workers:   getEnvInt("ENGINE_WORKERS", 2),
			QueueSize: getEnvInt("ENGINE_QUEUE_SIZE", 64),
			PageSize:  getEnvInt("PAGE_SIZE", 50),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_URL", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TTL:      getEnvDuration("REDIS_TTL", time.Hour),
		},
		Rabbit: RabbitConfig{
			Url:     getEnv("RABBIT_URL", ""),
			Country: getEnv("COUNTRY", "se"),
		},
		Storage: StorageConfig{
			RootFolder: getEnv("STORAGE_FOLDER", "data"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

// getEnvDuration accepts Go durations ("90s") or a plain number of seconds.
func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if n, err := strconv.Atoi(value); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	return fallback
}
