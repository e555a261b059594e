package shared

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	LogLevel    string
	HTTPAddr    string
	MetricsAddr string

	StorageDriver string // mysql|memory
	MySQLDSN      string

	SessionBackend string // redis|memory
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration

	SupplierBase string
	SupplierKey  string
	SupplierRPS  int
	SupplierIDs  []int64
	Workers      int

	SearchDefaultsPath string
	Search             SearchDefaults
}

// Load reads .env (if present) and then the process environment.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using process environment")
	}

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ""),

		StorageDriver: env("STORAGE_DRIVER", "mysql"),
		MySQLDSN:      env("MYSQL_DSN", "root:root@tcp(localhost:3306)/umrah?parseTime=true&charset=utf8mb4&loc=UTC"),

		SessionBackend: env("SESSION_BACKEND", "redis"),
		RedisAddr:      env("REDIS_ADDR", "localhost:6379"),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,

		SupplierBase: env("SUPPLIER_BASE_URL", "https://content-api.example.travel/v3.0"),
		SupplierKey:  env("SUPPLIER_API_KEY", ""),
		SupplierRPS:  atoi("SUPPLIER_RPS", 5),
		SupplierIDs:  parseIDs(os.Getenv("INGEST_SUPPLIER_IDS")),
		Workers:      atoi("INGEST_WORKERS", 8),

		SearchDefaultsPath: env("SEARCH_DEFAULTS_PATH", ""),
		Search:             DefaultSearchDefaults(),
	}

	if c.SearchDefaultsPath != "" {
		sd, err := LoadSearchDefaults(c.SearchDefaultsPath)
		if err != nil {
			log.Warn().Err(err).Str("path", c.SearchDefaultsPath).Msg("search defaults not loaded, using built-ins")
		} else {
			c.Search = sd
		}
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// parseIDs reads a comma separated id list, skipping anything non-numeric.
func parseIDs(s string) []int64 {
	var out []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			log.Warn().Str("value", part).Msg("skipping non-numeric supplier id")
			continue
		}
		out = append(out, n)
	}
	return out
}
