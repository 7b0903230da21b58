package main

import (
	"fmt"

	"github.com/vkarpov/plantmind/internal/config"
	"github.com/vkarpov/plantmind/internal/db"
	"gorm.io/gorm"
)

// connectFromConfig loads the config file and opens the configured database.
func connectFromConfig(configPath string) (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	var gormDB *gorm.DB
	switch cfg.Database.Driver {
	case "sqlite":
		gormDB, err = db.ConnectSQLite(cfg.Database.Path)
	default:
		gormDB, err = db.Connect(cfg.Database.User, cfg.Database.Password,
			cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	}
	if err != nil {
		return nil, nil, err
	}
	return cfg, gormDB, nil
}
