package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	HTTP struct {
		Addr string `mapstructure:"addr"`
	} `mapstructure:"http"`
	Queue struct {
		Capacity int `mapstructure:"capacity"`
	} `mapstructure:"queue"`
	Postgres struct {
		DSN string `mapstructure:"dsn"`
	} `mapstructure:"postgres"`
	Redis struct {
		Addr     string        `mapstructure:"addr"`
		Password string        `mapstructure:"password"`
		DB       int           `mapstructure:"db"`
		TTL      time.Duration `mapstructure:"ttl"`
	} `mapstructure:"redis"`
	RateLimit struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"ratelimit"`
}

// Load reads config/matchd.yaml if present; every key can be overridden
// via MATCHD_* environment variables (MATCHD_HTTP_ADDR, MATCHD_QUEUE_CAPACITY, ...).
// A missing file is not an error, the defaults stand.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("matchd")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")

	v.SetEnvPrefix("MATCHD")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("queue.capacity", 100)
	v.SetDefault("ratelimit.interval", 100*time.Millisecond)
	v.SetDefault("redis.ttl", 5*time.Minute)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
