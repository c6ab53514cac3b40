package config

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	DatabaseName    string
	JWTSecret       string
	TokenTTL        time.Duration
	Env             string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func Load() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("PORT", "5000"),
		MongoURI:        getEnv("MONGO_URI", ""),
		DatabaseName:    getEnv("DB_NAME", "jobProviderDB"),
		JWTSecret:       getEnv("ACCESS_TOKEN_SECRET", ""),
		TokenTTL:        getDuration("ACCESS_TOKEN_TTL", 365*24*time.Hour),
		Env:             getEnv("NODE_ENV", "development"),
		RequestTimeout:  getDuration("REQUEST_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.MongoURI == "" {
		user := getEnv("DB_USER", "")
		pass := getEnv("DB_PASS", "")
		if user == "" || pass == "" {
			log.Fatal("MONGO_URI or DB_USER/DB_PASS is required")
		}
		cfg.MongoURI = fmt.Sprintf("mongodb+srv://%s:%s@cluster0.ssblxww.mongodb.net/?retryWrites=true&w=majority&appName=Cluster0", user, pass)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("ACCESS_TOKEN_SECRET is required")
	}

	return cfg
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
