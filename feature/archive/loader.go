package archive

import (
	"course-studio/core/storage"
	"course-studio/feature/courses"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	handler *Handler
	enabled bool
}

// NewFeature creates the archive feature. It needs both object storage and the
// courses service.
func NewFeature(client storage.Client, bucket string, courseService *courses.Service, logger *zap.Logger) *Feature {
	if client == nil || courseService == nil {
		return &Feature{}
	}
	return &Feature{handler: NewHandler(NewService(client, bucket, courseService, logger)), enabled: true}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "archive"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return f.enabled
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
