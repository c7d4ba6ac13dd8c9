package courses

import (
	"context"
	"errors"

	"course-studio/core/course"
	"course-studio/core/reconcile"
	"course-studio/core/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles course catalogue and authoring operations.
type Service struct {
	repo   *Repository
	drafts *Drafts
	logger *zap.Logger
	opts   reconcile.ApplyOptions
}

// NewService creates a new course service.
func NewService(repo *Repository, drafts *Drafts, logger *zap.Logger, opts reconcile.ApplyOptions) *Service {
	return &Service{
		repo:   repo,
		drafts: drafts,
		logger: logger,
		opts:   opts,
	}
}

// List returns the course catalogue.
func (s *Service) List(ctx context.Context) ([]course.Summary, error) {
	return s.repo.ListCourses(ctx)
}

// Get returns a normalized course with playable embed URLs.
func (s *Service) Get(ctx context.Context, id string) (*CourseView, error) {
	c, err := s.Tree(ctx, id)
	if err != nil {
		return nil, err
	}
	return NewCourseView(c), nil
}

// Tree returns the normalized course tree as stored.
func (s *Service) Tree(ctx context.Context, id string) (course.Course, error) {
	return reconcile.LoadCourse(ctx, s.repo, id)
}

// Create saves a new course tree. Modules and videos failing the skip rule are
// left out, like in the draft flow.
func (s *Service) Create(ctx context.Context, sess session.Session, req CreateCourseRequest) (*CourseView, error) {
	c, err := course.NewCourse(req.Title, req.Description, req.Category)
	if err != nil {
		return nil, err
	}
	for _, m := range req.Modules {
		mod := course.Module{ID: uuid.NewString(), IsNew: true, Title: m.Title, Description: m.Description, Videos: []course.Video{}}
		for _, v := range m.Videos {
			mod.Videos = append(mod.Videos, course.Video{ID: uuid.NewString(), IsNew: true, Title: v.Title, SourceURL: v.SourceURL})
		}
		c.Modules = append(c.Modules, mod)
	}

	editor := reconcile.NewEditor(s.repo, sess, s.logger, s.opts)
	editor.NewDraft(c)
	result, err := editor.Save(ctx)
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, result.CourseID)
}

// Delete removes a course with its modules and videos.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteCourse(ctx, id)
}

// OpenDraft loads a course into a new editing session owned by sess.
func (s *Service) OpenDraft(ctx context.Context, sess session.Session, courseID string) (*DraftView, error) {
	editor := reconcile.NewEditor(s.repo, sess, s.logger, s.opts)
	c, err := editor.LoadDraft(ctx, courseID)
	if err != nil {
		return nil, err
	}
	id := s.drafts.Open(sess, editor)
	s.logger.Info("Draft opened", zap.String("draft", id), zap.String("course", courseID), zap.String("actor", sess.UserID))
	return &DraftView{ID: id, Course: c}, nil
}

// Draft returns the current state of a draft.
func (s *Service) Draft(sess session.Session, id string) (*DraftView, error) {
	return s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		return e.Draft()
	})
}

// Discard drops a draft.
func (s *Service) Discard(sess session.Session, id string) error {
	return s.drafts.Discard(sess, id)
}

// UpdateCourse applies the set fields of req to the draft's course.
func (s *Service) UpdateCourse(sess session.Session, id string, req UpdateCourseRequest) (*DraftView, error) {
	var category course.Category
	if req.Category != nil {
		parsed, err := course.ParseCategory(*req.Category)
		if err != nil {
			return nil, err
		}
		category = parsed
	}
	return s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		if req.Title != nil {
			if _, err := e.UpdateCourse(course.CourseTitle, *req.Title); err != nil {
				return course.Course{}, err
			}
		}
		if req.Description != nil {
			if _, err := e.UpdateCourse(course.CourseDescription, *req.Description); err != nil {
				return course.Course{}, err
			}
		}
		if req.Category != nil {
			if _, err := e.UpdateCourse(course.CourseCategory, string(category)); err != nil {
				return course.Course{}, err
			}
		}
		return e.Draft()
	})
}

// AddModule appends a module, optionally pre-filled, and returns its local id.
func (s *Service) AddModule(sess session.Session, id string, req UpdateModuleRequest) (*DraftView, string, error) {
	var moduleID string
	view, err := s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		var err error
		if moduleID, err = e.AddModule(); err != nil {
			return course.Course{}, err
		}
		return applyModule(e, moduleID, req)
	})
	return view, moduleID, err
}

// UpdateModule applies the set fields of req to a module.
func (s *Service) UpdateModule(sess session.Session, id, moduleID string, req UpdateModuleRequest) (*DraftView, error) {
	return s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		return applyModule(e, moduleID, req)
	})
}

// RemoveModule drops a module from the draft.
func (s *Service) RemoveModule(sess session.Session, id, moduleID string) (*DraftView, error) {
	return s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		return e.RemoveModule(moduleID)
	})
}

// AddVideo appends a video to a module and returns its local id.
func (s *Service) AddVideo(sess session.Session, id, moduleID string, req UpdateVideoRequest) (*DraftView, string, error) {
	var videoID string
	view, err := s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		var err error
		if videoID, err = e.AddVideo(moduleID); err != nil {
			return course.Course{}, err
		}
		if videoID == "" {
			return course.Course{}, ErrModuleNotFound
		}
		return applyVideo(e, moduleID, videoID, req)
	})
	return view, videoID, err
}

// UpdateVideo applies the set fields of req to a video.
func (s *Service) UpdateVideo(sess session.Session, id, moduleID, videoID string, req UpdateVideoRequest) (*DraftView, error) {
	return s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		return applyVideo(e, moduleID, videoID, req)
	})
}

// RemoveVideo drops a video from a module.
func (s *Service) RemoveVideo(sess session.Session, id, moduleID, videoID string) (*DraftView, error) {
	return s.edit(sess, id, func(e *reconcile.Editor) (course.Course, error) {
		return e.RemoveVideo(moduleID, videoID)
	})
}

// Plan previews the operations a save would run.
func (s *Service) Plan(sess session.Session, id string) (*reconcile.Plan, error) {
	var plan *reconcile.Plan
	err := s.drafts.With(sess, id, func(e *reconcile.Editor) error {
		var err error
		plan, err = e.Plan()
		return err
	})
	return plan, err
}

// Save persists a draft. The draft stays open with the assigned ids.
func (s *Service) Save(ctx context.Context, sess session.Session, id string) (*SaveResponse, error) {
	var resp *SaveResponse
	err := s.drafts.Save(sess, id, func(e *reconcile.Editor) error {
		result, err := e.Save(ctx)
		if err != nil {
			return err
		}
		c, err := e.Draft()
		if err != nil {
			return err
		}
		resp = &SaveResponse{Draft: DraftView{ID: id, Course: c}, Result: result}
		return nil
	})
	return resp, err
}

// ErrModuleNotFound is returned when a video is added to an unknown module.
var ErrModuleNotFound = errors.New("module not found in draft")

func (s *Service) edit(sess session.Session, id string, fn func(*reconcile.Editor) (course.Course, error)) (*DraftView, error) {
	var view *DraftView
	err := s.drafts.With(sess, id, func(e *reconcile.Editor) error {
		c, err := fn(e)
		if err != nil {
			return err
		}
		view = &DraftView{ID: id, Course: c}
		return nil
	})
	return view, err
}

func applyModule(e *reconcile.Editor, moduleID string, req UpdateModuleRequest) (course.Course, error) {
	if req.Title != nil {
		if _, err := e.UpdateModule(moduleID, course.ModuleTitle, *req.Title); err != nil {
			return course.Course{}, err
		}
	}
	if req.Description != nil {
		if _, err := e.UpdateModule(moduleID, course.ModuleDescription, *req.Description); err != nil {
			return course.Course{}, err
		}
	}
	return e.Draft()
}

func applyVideo(e *reconcile.Editor, moduleID, videoID string, req UpdateVideoRequest) (course.Course, error) {
	if req.Title != nil {
		if _, err := e.UpdateVideo(moduleID, videoID, course.VideoTitle, *req.Title); err != nil {
			return course.Course{}, err
		}
	}
	if req.SourceURL != nil {
		if _, err := e.UpdateVideo(moduleID, videoID, course.VideoSourceURL, *req.SourceURL); err != nil {
			return course.Course{}, err
		}
	}
	return e.Draft()
}
