package courses

import (
	"time"

	"course-studio/core/reconcile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
	enabled bool
}

// NewFeature creates the courses feature. It is disabled without a database.
func NewFeature(db *gorm.DB, logger *zap.Logger, opts reconcile.ApplyOptions, draftTTL time.Duration) *Feature {
	if db == nil {
		return &Feature{}
	}
	svc := NewService(NewRepository(db), NewDrafts(draftTTL), logger, opts)
	return &Feature{service: svc, handler: NewHandler(svc), enabled: true}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "courses"
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

// Service exposes the feature's service to the CLI.
func (f *Feature) Service() *Service {
	return f.service
}
