package config

import "time"

type App struct {
	Port        string        `env:"APP_PORT" default:"8080"`
	DatabaseURL string        `env:"DATABASE_URL,required"`
	RedisAddr   string        `env:"REDIS_ADDR"`
	AmqpURL     string        `env:"AMQP_URL"`
	CacheTTL    time.Duration `env:"SEARCH_CACHE_TTL" default:"30s"`
	Env         string        `env:"APP_ENV" default:"dev"`
}
