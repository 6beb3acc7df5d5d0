package config

import (
	"github.com/caarlos0/env/v10"
)

// Config carries process-level settings resolved from the environment.
// The serve command layers CLI flags on top of these values.
type Config struct {
	Host           string `env:"MOCKLLM_HOST" envDefault:"0.0.0.0"`
	Port           int    `env:"MOCKLLM_PORT" envDefault:"8000"`
	Profile        string `env:"MOCKLLM_PROFILE" envDefault:"default"`
	ConfigFile     string `env:"MOCKLLM_CONFIG_FILE"`
	ResponseModule string `env:"MOCKLLM_RESPONSE_MODULE"`
	Reload         bool   `env:"MOCKLLM_RELOAD" envDefault:"true"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
