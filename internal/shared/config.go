package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv        string
	HTTPAddr      string
	MetricsAddr   string
	BackendBase   string
	BackendRPS    int
	RedisAddr     string
	RedisDB       int
	RedisPass     string
	SessionTTL    time.Duration
	ProbeEmail    string
	ProbePassword string
	ProbeWorkers  int
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	c := Config{
		AppEnv:        env("APP_ENV", "prod"),
		HTTPAddr:      env("HTTP_ADDR", ":8080"),
		MetricsAddr:   env("METRICS_ADDR", ":9100"),
		BackendBase:   env("BACKEND_BASE_URL", "https://hotelstockback-production.up.railway.app"),
		BackendRPS:    atoi("BACKEND_RPS", 10),
		RedisAddr:     env("REDIS_ADDR", "localhost:6379"),
		RedisPass:     env("REDIS_PASSWORD", ""),
		RedisDB:       atoi("REDIS_DB", 0),
		SessionTTL:    time.Duration(atoi("SESSION_TTL_SECONDS", 86400)) * time.Second,
		ProbeEmail:    env("PROBE_EMAIL", ""),
		ProbePassword: env("PROBE_PASSWORD", ""),
		ProbeWorkers:  atoi("PROBE_WORKERS", 4),
	}
	if c.BackendBase == "" {
		log.Warn().Msg("BACKEND_BASE_URL is empty")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
