package config

import (
	"log"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	HTTPAddr        string `envconfig:"CHARGERCONTROL_HTTP_ADDR" default:":8080"`
	DatabaseDSN     string `envconfig:"CHARGERCONTROL_DB_DSN" default:"file:chargercontrol.db?cache=shared&mode=rwc"`
	JWTSecret       string `envconfig:"CHARGERCONTROL_JWT_SECRET" default:"dev-secret-change"`
	MaxRequestBytes int64  `envconfig:"CHARGERCONTROL_MAX_REQUEST_BYTES" default:"1048576"`
}

func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, err
	}
	if cfg.JWTSecret == "dev-secret-change" {
		log.Println("WARNING: using development JWT secret; set CHARGERCONTROL_JWT_SECRET")
	}
	return cfg, nil
}
