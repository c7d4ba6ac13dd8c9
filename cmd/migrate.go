package cmd

import (
	"fmt"

	"course-studio/core/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// migrateCmd creates or updates the database tables.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Long:  `Runs GORM auto-migration for the course, progress and certificate tables.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, l, err := loadRuntime()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}

		l.Info("Migrating schema", zap.String("driver", cfg.Database.Driver))
		if err := db.WithContext(cmd.Context()).AutoMigrate(schemaModels()...); err != nil {
			return fmt.Errorf("failed to migrate schema: %w", err)
		}
		l.Info("Schema is up to date")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(migrateCmd)
}
