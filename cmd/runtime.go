package cmd

import (
	"fmt"
	"time"

	"course-studio/core/config"
	"course-studio/core/database"
	"course-studio/core/logger"
	"course-studio/core/reconcile"
	"course-studio/feature/courses"
	coursemodels "course-studio/feature/courses/models"
	dashboardmodels "course-studio/feature/dashboard/models"

	"go.uber.org/zap"
)

// schemaModels returns every GORM model in migration order.
func schemaModels() []any {
	return append(coursemodels.All(), dashboardmodels.All()...)
}

// loadRuntime loads the configuration and builds the logger.
func loadRuntime() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, l, nil
}

func applyOptions(cfg *config.Config) reconcile.ApplyOptions {
	return reconcile.ApplyOptions{Transactional: cfg.Reconcile.Transactional}
}

func draftTTL(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Drafts.TTLMinutes) * time.Minute
}

// courseService connects to the database and builds the course service used by
// the CLI commands.
func courseService(cfg *config.Config, l *zap.Logger) (*courses.Service, error) {
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	svc := courses.NewService(courses.NewRepository(db), courses.NewDrafts(draftTTL(cfg)), l, applyOptions(cfg))
	return svc, nil
}
