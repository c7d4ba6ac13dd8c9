package courses

import (
	"errors"

	"course-studio/core/course"
	"course-studio/core/logger"
	"course-studio/core/middleware/auth"
	"course-studio/core/reconcile"
	"course-studio/core/session"
	"course-studio/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for courses and drafts.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the course and draft routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	admin := auth.RequireRole(session.RoleAdmin)

	group := app.Group("/courses")
	group.Get("/", h.HandleListCourses)
	group.Get("/:id", h.HandleGetCourse)
	group.Post("/", admin, h.HandleCreateCourse)
	group.Delete("/:id", admin, h.HandleDeleteCourse)
	group.Post("/:id/drafts", admin, h.HandleOpenDraft)

	drafts := app.Group("/drafts", admin)
	drafts.Get("/:draft", h.HandleGetDraft)
	drafts.Patch("/:draft", h.HandleUpdateCourse)
	drafts.Delete("/:draft", h.HandleDiscardDraft)
	drafts.Get("/:draft/plan", h.HandlePlan)
	drafts.Post("/:draft/save", h.HandleSave)
	drafts.Post("/:draft/modules", h.HandleAddModule)
	drafts.Patch("/:draft/modules/:module", h.HandleUpdateModule)
	drafts.Delete("/:draft/modules/:module", h.HandleRemoveModule)
	drafts.Post("/:draft/modules/:module/videos", h.HandleAddVideo)
	drafts.Patch("/:draft/modules/:module/videos/:video", h.HandleUpdateVideo)
	drafts.Delete("/:draft/modules/:module/videos/:video", h.HandleRemoveVideo)
}

// HandleListCourses returns the course catalogue.
// @Summary List Courses
// @Description Lists all courses, newest first, with module and video counts.
// @Tags courses
// @Produce json
// @Success 200 {array} course.Summary "Courses"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /courses [get]
func (h *Handler) HandleListCourses(c *fiber.Ctx) error {
	list, err := h.service.List(c.Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(list)
}

// HandleGetCourse returns one course tree.
// @Summary Get Course
// @Description Returns a course with its ordered modules and videos, including embed URLs.
// @Tags courses
// @Produce json
// @Param id path string true "Course ID"
// @Success 200 {object} CourseView "Course"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /courses/{id} [get]
func (h *Handler) HandleGetCourse(c *fiber.Ctx) error {
	view, err := h.service.Get(c.Context(), c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleCreateCourse creates a course from a full tree.
// @Summary Create Course
// @Description Creates a course. Modules without a title and videos without a title or URL are skipped.
// @Tags courses
// @Accept json
// @Produce json
// @Param course body CreateCourseRequest true "Course"
// @Success 201 {object} CourseView "Created"
// @Failure 400 {object} map[string]interface{} "Validation Error"
// @Router /courses [post]
func (h *Handler) HandleCreateCourse(c *fiber.Ctx) error {
	var req CreateCourseRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}

	sess, _ := session.From(c)
	view, err := h.service.Create(c.Context(), sess, req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleDeleteCourse deletes a course and its content.
// @Summary Delete Course
// @Tags courses
// @Param id path string true "Course ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /courses/{id} [delete]
func (h *Handler) HandleDeleteCourse(c *fiber.Ctx) error {
	if err := h.service.Delete(c.Context(), c.Params("id")); err != nil {
		return h.fail(c, err)
	}
	logger.WithRayID(h.service.logger, c).Info("Course deleted", zap.String("course", c.Params("id")))
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleOpenDraft starts an editing session for a course.
// @Summary Open Draft
// @Description Loads a course into a new draft owned by the caller.
// @Tags drafts
// @Produce json
// @Param id path string true "Course ID"
// @Success 201 {object} DraftView "Draft"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /courses/{id}/drafts [post]
func (h *Handler) HandleOpenDraft(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	view, err := h.service.OpenDraft(c.Context(), sess, c.Params("id"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(view)
}

// HandleGetDraft returns a draft.
// @Summary Get Draft
// @Tags drafts
// @Produce json
// @Param draft path string true "Draft ID"
// @Success 200 {object} DraftView "Draft"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /drafts/{draft} [get]
func (h *Handler) HandleGetDraft(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	view, err := h.service.Draft(sess, c.Params("draft"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleUpdateCourse patches the draft's course fields.
// @Summary Update Draft Course
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft path string true "Draft ID"
// @Param fields body UpdateCourseRequest true "Fields"
// @Success 200 {object} DraftView "Draft"
// @Router /drafts/{draft} [patch]
func (h *Handler) HandleUpdateCourse(c *fiber.Ctx) error {
	var req UpdateCourseRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	sess, _ := session.From(c)
	view, err := h.service.UpdateCourse(sess, c.Params("draft"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleDiscardDraft drops a draft without saving.
// @Summary Discard Draft
// @Tags drafts
// @Param draft path string true "Draft ID"
// @Success 204 "Discarded"
// @Router /drafts/{draft} [delete]
func (h *Handler) HandleDiscardDraft(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	if err := h.service.Discard(sess, c.Params("draft")); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandlePlan previews a save.
// @Summary Plan Draft Save
// @Description Returns the ordered operations a save would run, without running them.
// @Tags drafts
// @Produce json
// @Param draft path string true "Draft ID"
// @Success 200 {object} reconcile.Plan "Plan"
// @Router /drafts/{draft}/plan [get]
func (h *Handler) HandlePlan(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	plan, err := h.service.Plan(sess, c.Params("draft"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(plan)
}

// HandleSave persists a draft.
// @Summary Save Draft
// @Tags drafts
// @Produce json
// @Param draft path string true "Draft ID"
// @Success 200 {object} SaveResponse "Saved"
// @Failure 400 {object} map[string]interface{} "Validation Error"
// @Failure 409 {object} map[string]string "Save In Progress"
// @Router /drafts/{draft}/save [post]
func (h *Handler) HandleSave(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	resp, err := h.service.Save(c.Context(), sess, c.Params("draft"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(resp)
}

// HandleAddModule appends a module to the draft.
// @Summary Add Module
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft path string true "Draft ID"
// @Param fields body UpdateModuleRequest false "Initial fields"
// @Success 201 {object} map[string]interface{} "Draft and module id"
// @Router /drafts/{draft}/modules [post]
func (h *Handler) HandleAddModule(c *fiber.Ctx) error {
	var req UpdateModuleRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	sess, _ := session.From(c)
	view, moduleID, err := h.service.AddModule(sess, c.Params("draft"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"module_id": moduleID, "draft": view})
}

// HandleUpdateModule patches a module.
// @Summary Update Module
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft path string true "Draft ID"
// @Param module path string true "Module ID"
// @Param fields body UpdateModuleRequest true "Fields"
// @Success 200 {object} DraftView "Draft"
// @Router /drafts/{draft}/modules/{module} [patch]
func (h *Handler) HandleUpdateModule(c *fiber.Ctx) error {
	var req UpdateModuleRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	sess, _ := session.From(c)
	view, err := h.service.UpdateModule(sess, c.Params("draft"), c.Params("module"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleRemoveModule removes a module from the draft.
// @Summary Remove Module
// @Tags drafts
// @Produce json
// @Param draft path string true "Draft ID"
// @Param module path string true "Module ID"
// @Success 200 {object} DraftView "Draft"
// @Router /drafts/{draft}/modules/{module} [delete]
func (h *Handler) HandleRemoveModule(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	view, err := h.service.RemoveModule(sess, c.Params("draft"), c.Params("module"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleAddVideo appends a video to a module.
// @Summary Add Video
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft path string true "Draft ID"
// @Param module path string true "Module ID"
// @Param fields body UpdateVideoRequest false "Initial fields"
// @Success 201 {object} map[string]interface{} "Draft and video id"
// @Failure 404 {object} map[string]string "Module Not Found"
// @Router /drafts/{draft}/modules/{module}/videos [post]
func (h *Handler) HandleAddVideo(c *fiber.Ctx) error {
	var req UpdateVideoRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	sess, _ := session.From(c)
	view, videoID, err := h.service.AddVideo(sess, c.Params("draft"), c.Params("module"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"video_id": videoID, "draft": view})
}

// HandleUpdateVideo patches a video.
// @Summary Update Video
// @Tags drafts
// @Accept json
// @Produce json
// @Param draft path string true "Draft ID"
// @Param module path string true "Module ID"
// @Param video path string true "Video ID"
// @Param fields body UpdateVideoRequest true "Fields"
// @Success 200 {object} DraftView "Draft"
// @Router /drafts/{draft}/modules/{module}/videos/{video} [patch]
func (h *Handler) HandleUpdateVideo(c *fiber.Ctx) error {
	var req UpdateVideoRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	sess, _ := session.From(c)
	view, err := h.service.UpdateVideo(sess, c.Params("draft"), c.Params("module"), c.Params("video"), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// HandleRemoveVideo removes a video from a module.
// @Summary Remove Video
// @Tags drafts
// @Produce json
// @Param draft path string true "Draft ID"
// @Param module path string true "Module ID"
// @Param video path string true "Video ID"
// @Success 200 {object} DraftView "Draft"
// @Router /drafts/{draft}/modules/{module}/videos/{video} [delete]
func (h *Handler) HandleRemoveVideo(c *fiber.Ctx) error {
	sess, _ := session.From(c)
	view, err := h.service.RemoveVideo(sess, c.Params("draft"), c.Params("module"), c.Params("video"))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(view)
}

// bind parses an optional JSON body and validates it.
func (h *Handler) bind(c *fiber.Ctx, out any) error {
	if len(c.Body()) > 0 {
		if err := c.BodyParser(out); err != nil {
			return &course.ValidationError{Field: "body", Reason: "malformed JSON"}
		}
	}
	return utils.Validate(out)
}

// fail maps domain errors to HTTP responses.
func (h *Handler) fail(c *fiber.Ctx, err error) error {
	l := logger.WithRayID(h.service.logger, c)

	var fields utils.FieldErrors
	var verr *course.ValidationError
	switch {
	case errors.As(err, &fields):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "validation failed", "fields": fields})
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  verr.Error(),
			"fields": map[string]string{verr.Field: verr.Reason},
		})
	case errors.Is(err, course.ErrNotFound), errors.Is(err, ErrDraftNotFound), errors.Is(err, ErrModuleNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, ErrDraftBusy):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	var applyErr *reconcile.ApplyError
	if errors.As(err, &applyErr) {
		l.Error("Course save failed",
			zap.Int("index", applyErr.Index),
			zap.String("operation", string(applyErr.Operation.Type)),
			zap.Int("executed", applyErr.Executed),
			zap.Error(applyErr.Err))
	} else {
		l.Error("Course request failed", zap.Error(err))
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal error"})
}
