package archive

import (
	"errors"

	"course-studio/core/course"
	"course-studio/core/logger"
	"course-studio/core/middleware/auth"
	"course-studio/core/session"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for course archives.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the archive routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/archive", auth.RequireRole(session.RoleAdmin))
	group.Get("/courses", h.HandleList)
	group.Post("/courses/:id", h.HandleExport)
	group.Get("/courses/:id", h.HandleFetch)
	group.Delete("/courses/:id", h.HandleDelete)
	group.Post("/courses/:id/restore", h.HandleRestore)
}

// HandleList lists stored archives.
// @Summary List Archives
// @Tags archive
// @Produce json
// @Success 200 {array} Info "Archives"
// @Router /archive/courses [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	if list == nil {
		list = []Info{}
	}
	return c.JSON(list)
}

// HandleExport archives a course.
// @Summary Archive Course
// @Description Writes the course tree as JSON to object storage.
// @Tags archive
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} Info "Archived"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /archive/courses/{id} [post]
func (h *Handler) HandleExport(c *fiber.Ctx) error {
	info, err := h.service.Export(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(info)
}

// HandleFetch returns an archived course tree.
// @Summary Get Archived Course
// @Tags archive
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} course.Course "Archived tree"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /archive/courses/{id} [get]
func (h *Handler) HandleFetch(c *fiber.Ctx) error {
	tree, err := h.service.Fetch(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(tree)
}

// HandleDelete removes an archive.
// @Summary Delete Archive
// @Tags archive
// @Param id path string true "Course ID"
// @Success 204 "Deleted"
// @Router /archive/courses/{id} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleRestore re-imports an archived course.
// @Summary Restore Archived Course
// @Description Saves the archived tree over the course. Pass dry_run=true to only plan.
// @Tags archive
// @Produce json
// @Param id path string true "Course ID"
// @Param dry_run query bool false "Plan only"
// @Success 200 {object} RestoreReport "Restore report"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /archive/courses/{id}/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	report, err := h.service.Restore(c.Context(), c.Params("id"), c.QueryBool("dry_run"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(report)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	var verr *course.ValidationError
	switch {
	case errors.Is(err, course.ErrNotFound), errors.Is(err, ErrArchiveNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  verr.Error(),
			"fields": map[string]string{verr.Field: verr.Reason},
		})
	}
	logger.WithRayID(h.service.logger, c).Error("Archive request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
