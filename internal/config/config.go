package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var DefaultLeagues = []string{
	"English Premier League",
	"Italian Serie A",
	"Portugal Primeira League",
}

type Config struct {
	App                   string        `validate:"omitempty,oneof=dev prod"`
	Addr                  string        `validate:"required"`
	UpstreamURL           string        `validate:"required,url"`
	FetchTimeout          time.Duration `validate:"gt=0"`
	Leagues               []string      `validate:"min=1,dive,required"`
	LogLevel              string        `validate:"omitempty,oneof=trace debug info warn error"`
	DBPath                string
	DBMigrationsDir       string
	PostgresDSN           string
	PostgresMigrationsDir string
	Lambda                bool
}

func (c Config) IsProd() bool {
	return c.App == "prod"
}

// Load reads the configuration from the environment. Outside Lambda the .env
// and .env.local files are loaded first when present.
func Load() (Config, error) {
	lambda := os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
	if !lambda {
		_ = godotenv.Load(".env", ".env.local")
	}
	return FromLookup(os.LookupEnv, lambda)
}

func FromLookup(lookup func(string) (string, bool), lambda bool) (Config, error) {
	get := func(key, fallback string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return fallback
	}

	cfg := Config{
		App:                   strings.ToLower(get("APP", "dev")),
		Addr:                  get("ADDR", ":8080"),
		UpstreamURL:           get("UPSTREAM_URL", "http://127.0.0.1:5000"),
		LogLevel:              strings.ToLower(get("LOG_LEVEL", "info")),
		DBPath:                get("DB_PATH", ""),
		DBMigrationsDir:       get("DB_MIGRATIONS_DIR", "migrations"),
		PostgresDSN:           get("POSTGRES_DSN", ""),
		PostgresMigrationsDir: get("POSTGRES_MIGRATIONS_DIR", "migrations/postgres"),
		Lambda:                lambda,
	}

	timeout, err := time.ParseDuration(get("FETCH_TIMEOUT", "30s"))
	if err != nil {
		return Config{}, fmt.Errorf("FETCH_TIMEOUT: %w", err)
	}
	cfg.FetchTimeout = timeout

	cfg.Leagues = DefaultLeagues
	if raw := get("LEAGUES", ""); raw != "" {
		cfg.Leagues = nil
		for _, league := range strings.Split(raw, ",") {
			if league = strings.TrimSpace(league); league != "" {
				cfg.Leagues = append(cfg.Leagues, league)
			}
		}
	}

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
