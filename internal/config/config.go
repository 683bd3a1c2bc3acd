package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App struct {
		ENV string
	}

	Log struct {
		Level     string
		Format    string
		Component string
		Source    bool
	}

	Mongo struct {
		URI      string
		Database string
	}

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	HTTP struct {
		Host string
		Port string
	}

	OAuth struct {
		ClientID     string
		ClientSecret string
		RedirectURL  string
	}

	Pictures struct {
		Dir string
	}
}

func New() *Config {
	// .env is optional; deployments usually set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{}

	cfg.App.ENV = getEnvDefault("APP_ENV", "production")

	// Logger
	cfg.Log.Level = getEnvDefault("LOG_LEVEL", "info")
	cfg.Log.Format = getEnvDefault("LOG_FORMAT", "text")
	cfg.Log.Component = getEnvDefault("LOG_COMPONENT", "http_server")
	cfg.Log.Source = isTruthy(os.Getenv("LOG_SOURCE"))

	// Mongo
	cfg.Mongo.URI = getEnvDefault("MONGO_URI", "mongodb://localhost:27017")
	cfg.Mongo.Database = getEnvDefault("MONGO_DB", "codespark")

	// Redis
	cfg.Redis.Addr = getEnvDefault("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getEnvDefault("REDIS_PASSWORD", "")
	if dbStr := getEnvDefault("REDIS_DB", "0"); dbStr != "" {
		if dbInt, err := strconv.Atoi(dbStr); err == nil {
			cfg.Redis.DB = dbInt
		}
	}

	// HTTP
	cfg.HTTP.Host = getEnvDefault("HTTP_HOST", "0.0.0.0")
	cfg.HTTP.Port = getEnvDefault("HTTP_PORT", "8000")

	// GitHub OAuth
	cfg.OAuth.ClientID = os.Getenv("GITHUB_CLIENT_ID")
	cfg.OAuth.ClientSecret = os.Getenv("GITHUB_CLIENT_SECRET")
	cfg.OAuth.RedirectURL = getEnvDefault(
		"OAUTH_REDIRECT_URL",
		"http://localhost:8000/api/oauth/github/redirect",
	)

	// Profile pictures
	cfg.Pictures.Dir = getEnvDefault("PICTURES_DIR", "./data/pictures")

	return cfg
}

func getEnvDefault(k, def string) string {
	if v := strings.TrimSpace(os.Getenv(k)); v != "" {
		return v
	}
	return def
}

func isTruthy(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "y", "on":
		return true
	}
	return false
}
