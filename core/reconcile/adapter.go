package reconcile

import (
	"context"

	"course-studio/core/course"
)

// CourseFields are the persisted columns of a course.
type CourseFields struct {
	Title       string
	Description string
	Category    course.Category
}

// ModuleFields are the persisted columns of a module.
type ModuleFields struct {
	Title       string
	Description string
	OrderIndex  int
}

// VideoFields are the persisted columns of a video.
type VideoFields struct {
	Title      string
	SourceURL  string
	OrderIndex int
}

// Persistence is the backing store the executor converges to the draft.
// Every failure must be reported as a *course.PersistenceError, except GetCourse
// on a missing row, which returns course.ErrNotFound.
type Persistence interface {
	// GetCourse loads a course with all of its modules and videos. No ordering is
	// guaranteed; callers normalize the result.
	GetCourse(ctx context.Context, id string) (*course.Course, error)

	// ListCourses returns catalogue rows, newest first.
	ListCourses(ctx context.Context) ([]course.Summary, error)

	InsertCourse(ctx context.Context, fields CourseFields) (string, error)
	UpdateCourse(ctx context.Context, id string, fields CourseFields) error
	DeleteCourse(ctx context.Context, id string) error

	InsertModule(ctx context.Context, courseID string, fields ModuleFields) (string, error)
	UpdateModule(ctx context.Context, id string, fields ModuleFields) error

	// DeleteModulesExcept removes every module of the course whose id is not in
	// keepIDs, together with their videos.
	DeleteModulesExcept(ctx context.Context, courseID string, keepIDs []string) error

	InsertVideo(ctx context.Context, moduleID string, fields VideoFields) (string, error)
	UpdateVideo(ctx context.Context, id string, fields VideoFields) error

	// DeleteVideosExcept removes every video of the module whose id is not in keepIDs.
	DeleteVideosExcept(ctx context.Context, moduleID string, keepIDs []string) error
}

// Transactor is implemented by stores that can run a sequence of calls atomically.
// The Persistence passed to fn is bound to the transaction.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(Persistence) error) error
}
