package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	JWTSecret string

	// Timezone is the reporting timezone for daily read counts and streak
	// day boundaries. Single knob, loaded once.
	Timezone string
	Location *time.Location

	Redis struct {
		Addr     string
		Password string
		DB       int
	}

	Log struct {
		Level  string
		Format string
	}

	News struct {
		BaseURL string
		APIKey  string
	}

	LLM struct {
		BaseURL    string
		APIKey     string
		Model      string
		EmbedModel string
	}

	FeedPerTopic int
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          mustGetenv("DATABASE_URL"),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		Timezone:             getenv("TIMEZONE", "America/Chicago"),
		FeedPerTopic:         getenvInt("FEED_PER_TOPIC", 2),
	}

	origins := strings.Split(getenv("CORS_ALLOWED_ORIGINS", ""), ",")
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	cfg.JWTSecret = mustGetenv("JWT_SECRET")

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return Config{}, err
	}
	cfg.Location = loc

	cfg.Redis.Addr = getenv("REDIS_ADDR", "localhost:6379")
	cfg.Redis.Password = getenv("REDIS_PASSWORD", "")
	cfg.Redis.DB = getenvInt("REDIS_DB", 0)

	cfg.Log.Level = getenv("LOG_LEVEL", "info")
	cfg.Log.Format = getenv("LOG_FORMAT", "text")

	cfg.News.BaseURL = getenv("GNEWS_BASE_URL", "https://gnews.io/api/v4")
	cfg.News.APIKey = getenv("GNEWS_API_KEY", "")

	cfg.LLM.BaseURL = getenv("LLM_BASE_URL", "http://localhost:11434")
	cfg.LLM.APIKey = getenv("LLM_API_KEY", "")
	cfg.LLM.Model = getenv("LLM_MODEL", "gemini-1.5-pro-latest")
	cfg.LLM.EmbedModel = getenv("LLM_EMBED_MODEL", "text-embedding-004")

	return cfg, nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func getenvInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func mustGetenv(key string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		panic("missing env: " + key)
	}
	return v
}
