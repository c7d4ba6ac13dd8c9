package integrity

import (
	"course-studio/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
}

// NewFeature creates the integrity feature. A nil db makes the schema check
// report an error instead of disabling the feature.
func NewFeature(client storage.Client, bucket, region string, logger *zap.Logger, db *gorm.DB, models ...any) *Feature {
	return &Feature{handler: NewHandler(NewService(client, bucket, region, logger, db, models...))}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
