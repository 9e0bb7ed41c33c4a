package main

import (
	"errors"
	"fmt"

	"algotutor-go/internal/config"
	"algotutor-go/internal/repository"
	"algotutor-go/pkg/database"
	"algotutor-go/pkg/log"

	"github.com/spf13/cobra"
)

func newMigrateCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			log.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.OutputPath)
			defer log.Sync()
			return runMigrate(cfg.Database)
		},
	}
}

// runMigrate 对持久化驱动执行 AutoMigrate。迁移不需要大模型配置，因此不做完整校验。
func runMigrate(cfg config.DatabaseConfig) error {
	if cfg.Driver == config.DriverMemory {
		return errors.New("the memory driver has no schema to migrate")
	}
	db, err := database.OpenGorm(cfg)
	if err != nil {
		return err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Infof("%s schema migrated", cfg.Driver)
	return nil
}
