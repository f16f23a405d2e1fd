package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Store drivers.
const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Env          string
	Port         int
	Store        string
	DatabaseURL  string
	RedisAddr    string
	AMQPURL      string
	HistoryPath  string
	JWTSecret    string
	TokenTTL     time.Duration
	DirectoryTTL time.Duration
	LogJSON      bool
	LogLevel     string
}

func Default() Config {
	return Config{
		Env:          "dev",
		Port:         8080,
		Store:        StoreMemory,
		HistoryPath:  "./data/history.db",
		TokenTTL:     24 * time.Hour,
		DirectoryTTL: 30 * time.Second,
		LogJSON:      true,
		LogLevel:     "info",
	}
}

// Load reads the optional dotenv files and overlays the environment on the
// defaults. Variables already present in the environment win over the files.
func Load(files ...string) (Config, error) {
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			if err := godotenv.Load(f); err != nil {
				return Config{}, err
			}
		}
	}
	c, err := fromEnv(Default())
	if err != nil {
		return Config{}, err
	}
	return c, c.Validate()
}

// fromEnv overlays the environment on c. A variable that is set but cannot
// be parsed is an error rather than a silent fallback to the default.
func fromEnv(c Config) (Config, error) {
	var errs []error
	if v := os.Getenv("FUELNOW_ENV"); v != "" {
		c.Env = v
	}
	if v := os.Getenv("FUELNOW_PORT"); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil || p < 1 || p > 65535 {
			errs = append(errs, fmt.Errorf("config: FUELNOW_PORT %q is not a valid port", v))
		} else {
			c.Port = p
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.DatabaseURL = v
		c.Store = StorePostgres
	}
	if v := os.Getenv("FUELNOW_STORE"); v != "" {
		c.Store = v
	}
	if v := os.Getenv("FUELNOW_REDIS_ADDR"); v != "" {
		c.RedisAddr = v
	}
	if v := os.Getenv("FUELNOW_AMQP_URL"); v != "" {
		c.AMQPURL = v
	}
	if v, ok := os.LookupEnv("FUELNOW_HISTORY_PATH"); ok {
		c.HistoryPath = v
	}
	if v := os.Getenv("FUELNOW_JWT_SECRET"); v != "" {
		c.JWTSecret = v
	}
	if v := os.Getenv("FUELNOW_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: FUELNOW_TOKEN_TTL %q: %w", v, err))
		} else {
			c.TokenTTL = d
		}
	}
	if v := os.Getenv("FUELNOW_DIRECTORY_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("config: FUELNOW_DIRECTORY_TTL %q: %w", v, err))
		} else {
			c.DirectoryTTL = d
		}
	}
	if v := os.Getenv("FUELNOW_LOG_JSON"); v != "" {
		switch v {
		case "1", "true", "TRUE":
			c.LogJSON = true
		case "0", "false", "FALSE":
			c.LogJSON = false
		default:
			errs = append(errs, fmt.Errorf("config: FUELNOW_LOG_JSON %q is not a boolean", v))
		}
	}
	if v := os.Getenv("FUELNOW_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c, errors.Join(errs...)
}

func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory:
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("config: DATABASE_URL is required for the postgres store")
		}
	default:
		return errors.New("config: FUELNOW_STORE must be postgres or memory")
	}
	if c.JWTSecret == "" && c.Env != "dev" {
		return errors.New("config: FUELNOW_JWT_SECRET is required outside dev")
	}
	if c.TokenTTL <= 0 {
		return errors.New("config: FUELNOW_TOKEN_TTL must be positive")
	}
	return nil
}

// Secret returns the signing key, falling back to a fixed dev key.
func (c Config) Secret() []byte {
	if c.JWTSecret == "" {
		return []byte("fuelnow-dev-secret")
	}
	return []byte(c.JWTSecret)
}
