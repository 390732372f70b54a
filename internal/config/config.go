package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"survey-service/internal/domain"
)

type Config struct {
	Server struct {
		Port      string `yaml:"port"`
		StaticDir string `yaml:"static_dir"`
	} `yaml:"server"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Catalog struct {
		TTL string `yaml:"ttl"`
	} `yaml:"catalog"`
	Survey struct {
		SupportsCustomMode     *bool `yaml:"supports_custom_mode"`
		SupportsTypedQuestions *bool `yaml:"supports_typed_questions"`
	} `yaml:"survey"`
	Log struct {
		Level string `yaml:"level"`
		File  string `yaml:"file"`
	} `yaml:"log"`
}

// Load reads YAML config from path and applies environment overrides.
// A missing file is not an error; defaults and environment still apply.
func Load(path string) (Config, error) {
	cfg := Config{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("PORT"); v != "" {
		if _, err := strconv.Atoi(v); err != nil {
			return errors.New("invalid PORT env variable")
		}
		c.Server.Port = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.URL = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	return nil
}

// Profile returns the survey deployment profile. Unset flags default to enabled.
func (c Config) Profile() domain.Profile {
	p := domain.DefaultProfile()
	if c.Survey.SupportsCustomMode != nil {
		p.SupportsCustomMode = *c.Survey.SupportsCustomMode
	}
	if c.Survey.SupportsTypedQuestions != nil {
		p.SupportsTypedQuestions = *c.Survey.SupportsTypedQuestions
	}
	return p
}

// TTLDuration parses a duration string or returns the fallback if empty.
func TTLDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
