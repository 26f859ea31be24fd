package config

import (
	"errors"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// EnvFileVar overrides the default env file path.
const EnvFileVar = "HABITGRID_ENV_FILE"

const defaultEnvFile = "./configs/.env"

var (
	once     sync.Once
	instance *Config
)

type Config struct {
}

func New() *Config {
	once.Do(func() {
		path := os.Getenv(EnvFileVar)
		if path == "" {
			path = defaultEnvFile
		}
		cfg, err := Load(path)
		if err != nil {
			log.Fatal("loading envs error: ", err)
		}
		instance = cfg
	})
	return instance
}

// Load reads path into the process environment without overriding variables
// that are already set. A missing file leaves the environment as it is.
func Load(path string) (*Config, error) {
	err := godotenv.Load(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		slog.Warn("env file not found, using process environment", slog.String("path", path))
	}
	return &Config{}, nil
}

func (c *Config) GetString(key string) string {
	return os.Getenv(key)
}

func (c *Config) GetStringOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// GetDuration parses key with time.ParseDuration; def is used when key is unset.
func (c *Config) GetDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, errors.New(key + ": " + err.Error())
	}
	return d, nil
}

// GetLocation loads the IANA zone named by key, time.Local when unset.
func (c *Config) GetLocation(key string) (*time.Location, error) {
	v := os.Getenv(key)
	if v == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		return nil, errors.New(key + ": " + err.Error())
	}
	return loc, nil
}
