package config

import (
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Port           string   `yaml:"PORT"            env:"PORT"            env-default:"8080"`
	LogLevel       string   `yaml:"LOG_LEVEL"       env:"LOG_LEVEL"       env-default:"info"`
	DatabaseDSN    string   `yaml:"DATABASE_DSN"    env:"DATABASE_DSN"`
	AllowedOrigins []string `yaml:"ALLOWED_ORIGINS" env:"ALLOWED_ORIGINS"`
}

func New() (*Config, error) {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	var config Config
	if err := cleanenv.ReadEnv(&config); err != nil {
		return nil, err
	}
	return &config, nil
}
