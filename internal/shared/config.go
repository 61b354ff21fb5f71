package shared

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const defaultBackend = "https://api.plazasales.com.np/api/v1"

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	LogFile     string

	BackendBaseURL string
	BackendRPS     int
	BackendTimeout time.Duration

	RedisAddr string
	RedisPass string
	RedisDB   int
	// MySQLDSN empty disables the activity log.
	MySQLDSN string

	CORSOrigins      []string
	CacheTTL         time.Duration
	SelectionTTL     time.Duration
	AnalyticsWorkers int

	// warmer
	WarmResources []string
	WarmWorkers   int
	WarmToken     string
}

// Load reads the environment, after a .env file in the working directory if
// there is one.
func Load() Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Warn().Err(err).Msg(".env could not be loaded")
	}

	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		LogFile:     env("LOG_FILE", ""),

		BackendBaseURL: env("BACKEND_BASE_URL", defaultBackend),
		BackendRPS:     atoi("BACKEND_RPS", 20),
		BackendTimeout: time.Duration(atoi("BACKEND_TIMEOUT_SECONDS", 20)) * time.Second,

		RedisAddr: env("REDIS_ADDR", "localhost:6379"),
		RedisPass: env("REDIS_PASSWORD", ""),
		RedisDB:   atoi("REDIS_DB", 0),
		MySQLDSN:  env("MYSQL_DSN", ""),

		CORSOrigins:      list("CORS_ORIGINS", "http://localhost:5173"),
		CacheTTL:         time.Duration(atoi("CACHE_TTL_SECONDS", 60)) * time.Second,
		SelectionTTL:     time.Duration(atoi("SELECTION_TTL_SECONDS", 3600)) * time.Second,
		AnalyticsWorkers: atoi("ANALYTICS_WORKERS", 4),

		WarmResources: list("WARM_RESOURCES", "blog,brand,faq,technology,video,team"),
		WarmWorkers:   atoi("WARM_WORKERS", 4),
		WarmToken:     env("WARM_ACCESS_TOKEN", ""),
	}
	if c.BackendBaseURL == defaultBackend {
		log.Warn().Str("base", c.BackendBaseURL).Msg("BACKEND_BASE_URL not set, using default")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func atoi(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
		log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
	}
	return def
}

// list splits a comma separated value, dropping blanks.
func list(k, def string) []string {
	var out []string
	for _, p := range strings.Split(env(k, def), ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
