package cmd

import (
	"context"
	"fmt"
	"os"

	"course-studio/core/database"
	"course-studio/core/storage"
	"course-studio/feature/integrity"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var fixFlag bool

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity",
	Short: "Perform integrity checks on the database and archive storage",
	Long:  `Checks that the database schema matches the models and that the archive bucket exists.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			cmd.Help()
			return
		}
		runIntegrityChecks(cmd.Context(), true, true)
	},
}

// schemaCmd represents the integrity schema command
var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Check the database schema",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), true, false)
	},
}

// storageCmd represents the integrity storage command
var storageCmd = &cobra.Command{
	Use:   "storage",
	Short: "Check and fix the archive bucket",
	Run: func(cmd *cobra.Command, args []string) {
		runIntegrityChecks(cmd.Context(), false, true)
	},
}

func init() {
	RootCmd.AddCommand(integrityCmd)
	integrityCmd.AddCommand(schemaCmd, storageCmd)

	storageCmd.Flags().BoolVar(&fixFlag, "fix", false, "Create the bucket when missing")
}

func runIntegrityChecks(ctx context.Context, runSchema, runStorage bool) {
	cfg, logg, err := loadRuntime()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}

	store, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Fatal("Failed to create storage client", zap.Error(err))
	}

	// Connect to Database (Optional)
	var db *gorm.DB
	if conn, err := database.Connect(cfg.Database); err != nil {
		logg.Warn("Optional database connection failed", zap.Error(err))
	} else {
		db = conn
	}

	svc := integrity.NewService(store, cfg.Storage.Bucket, cfg.Storage.Region, logg, db, schemaModels()...)

	if runSchema {
		logg.Info("Checking database schema...", zap.String("driver", cfg.Database.Driver))
		report, err := svc.CheckSchema()
		if err != nil {
			logg.Error("Schema check failed", zap.Error(err))
		} else if report.Matched {
			logg.Info("Schema matches the models.")
		} else {
			logg.Warn("Schema mismatches found", zap.String("driver", report.Driver))
			for table, tbl := range report.Tables {
				if tbl.Status == "ok" {
					continue
				}
				if tbl.Status == "missing" {
					logg.Warn("Missing table", zap.String("table", table))
				}
				if len(tbl.MissingColumns) > 0 {
					logg.Warn("Missing Columns", zap.String("table", table), zap.Strings("columns", tbl.MissingColumns))
				}
				if len(tbl.TypeMismatches) > 0 {
					logg.Warn("Type Mismatches", zap.String("table", table), zap.Strings("mismatches", tbl.TypeMismatches))
				}
			}
			for _, e := range report.Errors {
				logg.Error("Inspection Error", zap.String("error", e))
			}
			logg.Info("Run `migrate` to create missing tables and columns.")
		}
	}

	if runStorage {
		logg.Info("Checking archive storage...", zap.String("bucket", cfg.Storage.Bucket))
		report, err := svc.CheckStorage(ctx)
		if err != nil {
			logg.Fatal("Storage check failed", zap.Error(err))
		}

		switch {
		case report.BucketExists:
			logg.Info("Archive bucket is present.", zap.Int("archives", report.Archives))
		case fixFlag:
			logg.Info("Creating archive bucket...")
			if err := svc.FixStorage(ctx); err != nil {
				logg.Fatal("Failed to create bucket", zap.Error(err))
			}
		default:
			logg.Warn("Archive bucket is missing. Run with --fix to create it.")
		}
	}
}
