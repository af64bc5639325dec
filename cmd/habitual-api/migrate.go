package main

import (
	"github.com/JonnyWalker81/habitual/internal/logger"
	"github.com/JonnyWalker81/habitual/internal/repository"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and exit",
	RunE:  runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, log, db, err := bootstrap()
	if err != nil {
		return err
	}
	defer closeDB(db, log)

	if err := repository.Migrate(db); err != nil {
		return err
	}
	log.Info("schema migrated", logger.String("dsn", cfg.Database.DSN))
	return nil
}
