package reconcile

import (
	"context"
	"errors"

	"course-studio/core/course"
	"course-studio/core/session"

	"go.uber.org/zap"
)

// ErrNoDraft is returned by Editor methods called before a draft was loaded or created.
var ErrNoDraft = errors.New("no draft loaded")

// Editor is one course authoring session: it owns the draft, the last-known
// persisted snapshot, and saves the draft through the store.
type Editor struct {
	store    Persistence
	session  session.Session
	logger   *zap.Logger
	opts     ApplyOptions
	draft    *course.Draft
	snapshot *course.Course
}

// NewEditor creates an editor acting on behalf of s.
func NewEditor(store Persistence, s session.Session, logger *zap.Logger, opts ApplyOptions) *Editor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Editor{
		store:   store,
		session: s,
		logger:  logger.With(zap.String("actor", s.UserID)),
		opts:    opts,
	}
}

// LoadDraft loads a persisted course as the working draft. On failure the editor
// is left without a draft.
func (e *Editor) LoadDraft(ctx context.Context, courseID string) (course.Course, error) {
	e.draft, e.snapshot = nil, nil

	loaded, err := LoadCourse(ctx, e.store, courseID)
	if err != nil {
		return course.Course{}, err
	}

	snap := loaded.Clone()
	e.snapshot = &snap
	e.draft = course.NewDraft(loaded)
	return e.draft.Course(), nil
}

// NewDraft starts a create session from an unsaved course.
func (e *Editor) NewDraft(c course.Course) course.Course {
	c.ID = ""
	e.snapshot = nil
	e.draft = course.NewDraft(c)
	return e.draft.Course()
}

// Draft returns the current draft.
func (e *Editor) Draft() (course.Course, error) {
	if e.draft == nil {
		return course.Course{}, ErrNoDraft
	}
	return e.draft.Course(), nil
}

// UpdateCourse sets a course level field.
func (e *Editor) UpdateCourse(field course.CourseField, value string) (course.Course, error) {
	if e.draft == nil {
		return course.Course{}, ErrNoDraft
	}
	return e.draft.UpdateCourse(field, value), nil
}

// AddModule appends a new module and returns its local id.
func (e *Editor) AddModule() (string, error) {
	if e.draft == nil {
		return "", ErrNoDraft
	}
	return e.draft.AddModule(), nil
}

// UpdateModule replaces one module field.
func (e *Editor) UpdateModule(moduleID string, field course.ModuleField, value string) (course.Course, error) {
	if e.draft == nil {
		return course.Course{}, ErrNoDraft
	}
	return e.draft.UpdateModule(moduleID, field, value), nil
}

// RemoveModule removes a module from the draft.
func (e *Editor) RemoveModule(moduleID string) (course.Course, error) {
	if e.draft == nil {
		return course.Course{}, ErrNoDraft
	}
	return e.draft.RemoveModule(moduleID), nil
}

// AddVideo appends a new video to a module and returns its local id.
func (e *Editor) AddVideo(moduleID string) (string, error) {
	if e.draft == nil {
		return "", ErrNoDraft
	}
	return e.draft.AddVideo(moduleID), nil
}

// UpdateVideo replaces one video field.
func (e *Editor) UpdateVideo(moduleID, videoID string, field course.VideoField, value string) (course.Course, error) {
	if e.draft == nil {
		return course.Course{}, ErrNoDraft
	}
	return e.draft.UpdateVideo(moduleID, videoID, field, value), nil
}

// RemoveVideo removes a video from a module.
func (e *Editor) RemoveVideo(moduleID, videoID string) (course.Course, error) {
	if e.draft == nil {
		return course.Course{}, ErrNoDraft
	}
	return e.draft.RemoveVideo(moduleID, videoID), nil
}

// Plan returns the operations Save would run, without running them.
func (e *Editor) Plan() (*Plan, error) {
	if e.draft == nil {
		return nil, ErrNoDraft
	}
	return BuildPlan(e.draft.Course(), e.snapshot), nil
}

// Save validates the draft, plans and applies it. On success the draft carries the
// assigned ids, every saved entity is marked existing and the snapshot is refreshed.
// Validation failures return before any store call.
func (e *Editor) Save(ctx context.Context) (*Result, error) {
	if e.draft == nil {
		return nil, ErrNoDraft
	}

	current := e.draft.Course()
	if err := current.Validate(); err != nil {
		return nil, err
	}

	plan := BuildPlan(current, e.snapshot)
	e.logger.Info("Saving course",
		zap.String("course", plan.CourseKey),
		zap.Int("inserts", plan.Summary.Inserts),
		zap.Int("updates", plan.Summary.Updates),
		zap.Int("prunes", plan.Summary.Prunes),
		zap.Int("skipped", plan.Summary.Skipped),
	)

	result, err := ApplyPlan(ctx, e.store, plan, e.opts)
	if result != nil && len(result.Inserted) > 0 {
		// Keep ids of rows that exist now, so a retry updates instead of inserting twice.
		e.draft.Replace(assignIDs(current, result))
	}
	if err != nil {
		e.logger.Error("Course save failed", zap.String("course", plan.CourseKey), zap.Error(err))
		return result, err
	}

	saved := persistedView(assignIDs(current, result))
	e.draft.Replace(withPositions(assignIDs(current, result)))
	e.snapshot = &saved

	e.logger.Info("Course saved",
		zap.String("course_id", result.CourseID),
		zap.Int("executed", result.Executed),
	)
	return result, nil
}

// assignIDs swaps local tokens for database ids and clears IsNew on inserted nodes.
func assignIDs(c course.Course, result *Result) course.Course {
	out := c.Clone()
	if result.CourseID != "" {
		out.ID = result.CourseID
	}
	for i := range out.Modules {
		m := &out.Modules[i]
		if id, ok := result.Inserted[m.ID]; ok && m.IsNew {
			m.ID, m.IsNew = id, false
		}
		for j := range m.Videos {
			v := &m.Videos[j]
			if id, ok := result.Inserted[v.ID]; ok && v.IsNew {
				v.ID, v.IsNew = id, false
			}
		}
	}
	return out
}

// withPositions rewrites OrderIndex from array position.
func withPositions(c course.Course) course.Course {
	out := c.Clone()
	for i := range out.Modules {
		out.Modules[i].OrderIndex = i
		for j := range out.Modules[i].Videos {
			out.Modules[i].Videos[j].OrderIndex = j
		}
	}
	return out
}

// persistedView drops nodes that still have no row, i.e. the skipped new ones.
func persistedView(c course.Course) course.Course {
	out := withPositions(c)
	modules := make([]course.Module, 0, len(out.Modules))
	for _, m := range out.Modules {
		if m.IsNew {
			continue
		}
		videos := make([]course.Video, 0, len(m.Videos))
		for _, v := range m.Videos {
			if !v.IsNew {
				videos = append(videos, v)
			}
		}
		m.Videos = videos
		modules = append(modules, m)
	}
	out.Modules = modules
	return out
}

// LoadCourse fetches a course and normalizes it.
func LoadCourse(ctx context.Context, store Persistence, courseID string) (course.Course, error) {
	loaded, err := store.GetCourse(ctx, courseID)
	if err != nil {
		return course.Course{}, err
	}
	if loaded == nil {
		return course.Course{}, course.ErrNotFound
	}
	return course.Normalize(*loaded), nil
}
