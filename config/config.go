package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const (
	MinSearchDepth = 1
	MaxSearchDepth = 6
)

type Config struct {
	ServerPort  string `mapstructure:"SERVER_PORT"`
	SearchDepth int    `mapstructure:"SEARCH_DEPTH"`
	RandomSeed  int64  `mapstructure:"RANDOM_SEED"`
	IsLocalCors bool   `mapstructure:"LOCAL_CORS"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
}

var keys = []string{"SERVER_PORT", "SEARCH_DEPTH", "RANDOM_SEED", "LOCAL_CORS", "LOG_LEVEL"}

// Setup reads cfgPath (an env-style file) when it exists and lets environment
// variables override it. Missing keys fall back to defaults.
func Setup(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetDefault("SERVER_PORT", "8000")
	v.SetDefault("SEARCH_DEPTH", 4)
	v.SetDefault("RANDOM_SEED", 0)
	v.SetDefault("LOCAL_CORS", true)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, errors.Wrapf(err, "config: bind %s", key)
		}
	}

	if cfgPath != "" {
		if _, err := os.Stat(cfgPath); err == nil {
			v.SetConfigFile(cfgPath)
			v.SetConfigType("env")
			if err := v.ReadInConfig(); err != nil {
				return nil, errors.Wrapf(err, "config: read %s", cfgPath)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "config: unmarshal")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.SearchDepth < MinSearchDepth || c.SearchDepth > MaxSearchDepth {
		return errors.Errorf("config: SEARCH_DEPTH must be between %d and %d, got %d",
			MinSearchDepth, MaxSearchDepth, c.SearchDepth)
	}
	if strings.TrimSpace(c.ServerPort) == "" {
		return errors.New("config: SERVER_PORT is empty")
	}
	return nil
}

// Addr is the listen address for the server port.
func (c *Config) Addr() string {
	if strings.HasPrefix(c.ServerPort, ":") {
		return c.ServerPort
	}
	return ":" + c.ServerPort
}
