package integrity

import (
	"context"

	"course-studio/core/storage"
	"course-studio/feature/archive"
	"course-studio/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Service handles integrity checks.
type Service struct {
	client storage.Client
	bucket string
	region string
	logger *zap.Logger
	db     *gorm.DB
	models []any
}

// NewService creates a new integrity service. models are the GORM models the
// database schema is checked against.
func NewService(client storage.Client, bucket, region string, logger *zap.Logger, db *gorm.DB, models ...any) *Service {
	return &Service{
		client: client,
		bucket: bucket,
		region: region,
		logger: logger,
		db:     db,
		models: models,
	}
}

// CheckSchema compares the database schema with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, s.models...)
}

// CheckStorage reports the state of the archive bucket.
func (s *Service) CheckStorage(ctx context.Context) (*checks.StorageReport, error) {
	return checks.CheckStorage(ctx, s.client, s.bucket, archive.Prefix)
}

// FixStorage creates the archive bucket.
func (s *Service) FixStorage(ctx context.Context) error {
	return checks.FixStorage(ctx, s.client, s.bucket, s.region, s.logger)
}
