package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Bolso"`
	}

	Storage struct {
		// Path of the local database file holding the persisted entries.
		Path string `envconfig:"BOLSO_DB_PATH" default:"data/bolso.db"`
	}

	Export struct {
		Dir string `envconfig:"BOLSO_EXPORT_DIR" default:"./exports"`
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
