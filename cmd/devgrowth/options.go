package main

import (
	"log/slog"

	"github.com/spf13/pflag"
	"gorm.io/gorm"

	"github.com/arnold/devgrowth-api/internal/config"
	"github.com/arnold/devgrowth-api/internal/database"
	"github.com/arnold/devgrowth-api/internal/logging"
)

type Options struct {
	ConfigPath string
}

func (o *Options) AddFlags(flagSet *pflag.FlagSet) {
	flagSet.StringVarP(&o.ConfigPath, "config", "c", "", "TOML config file; environment variables override it")
}

func (o *Options) Config() (*config.Config, error) {
	if o.ConfigPath == "" {
		return config.Load(), nil
	}
	return config.LoadFile(o.ConfigPath)
}

// open sets up logging, connects, migrates and seeds the goal catalog when
// enabled.
func open(cfg *config.Config) (*gorm.DB, *slog.Logger, error) {
	logger := logging.Setup(cfg.LogLevel, cfg.LogPath)

	db, err := database.Connect(cfg.DatabaseURL, logging.GormLevel(cfg.LogLevel))
	if err != nil {
		return nil, nil, err
	}
	if err := database.Migrate(db); err != nil {
		closeDB(db)
		return nil, nil, err
	}
	if cfg.SeedGoals {
		if err := database.SeedGoals(db, database.SampleWeeklyGoals); err != nil {
			closeDB(db)
			return nil, nil, err
		}
	}
	return db, logger, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
