package dashboard

import (
	"errors"

	"course-studio/core/course"
	"course-studio/core/logger"
	"course-studio/core/middleware/auth"
	"course-studio/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for learner progress.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the learner routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	learner := auth.RequireRole(session.RoleLearner)

	app.Post("/courses/:id/enroll", learner, h.HandleEnroll)
	app.Post("/videos/:id/watched", learner, h.HandleMarkWatched)
	app.Get("/me/dashboard", learner, h.HandleDashboard)
}

// HandleEnroll enrolls the caller in a course.
// @Summary Enroll
// @Description Enrolls the caller in a course. Enrolling twice is a no-op.
// @Tags dashboard
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} CourseProgress "Enrollment"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /courses/{id}/enroll [post]
func (h *Handler) HandleEnroll(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	p, err := h.service.Enroll(c.Context(), sess, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// HandleMarkWatched records a watched video.
// @Summary Mark Video Watched
// @Description Records a watched video and returns the course progress. Completing a course issues a certificate.
// @Tags dashboard
// @Produce json
// @Param id path string true "Video ID"
// @Success 200 {object} CourseProgress "Progress"
// @Failure 403 {object} map[string]string "Not Enrolled"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /videos/{id}/watched [post]
func (h *Handler) HandleMarkWatched(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	p, err := h.service.MarkWatched(c.Context(), sess, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(p)
}

// HandleDashboard returns the caller's dashboard.
// @Summary Learner Dashboard
// @Tags dashboard
// @Produce json
// @Success 200 {object} Dashboard "Dashboard"
// @Router /me/dashboard [get]
func (h *Handler) HandleDashboard(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	d, err := h.service.Dashboard(c.Context(), sess)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(d)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, course.ErrNotFound), errors.Is(err, ErrVideoNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrNotEnrolled):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": err.Error()})
	}
	logger.WithRayID(h.service.logger, c).Error("Dashboard request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
