package reconcile

import (
	"errors"
	"fmt"

	"course-studio/core/course"
)

// NewCourseKey is the draft key of a course that has not been inserted yet.
const NewCourseKey = "new-course"

// OpType is the kind of a planned operation.
type OpType string

const (
	// OpInsertCourse creates the course row.
	OpInsertCourse OpType = "insert_course"
	// OpUpdateCourse rewrites title, description and category.
	OpUpdateCourse OpType = "update_course"
	// OpDeleteModulesExcept prunes persisted modules missing from the draft.
	OpDeleteModulesExcept OpType = "delete_modules_except"
	// OpInsertModule creates a module under Parent.
	OpInsertModule OpType = "insert_module"
	// OpUpdateModule rewrites an existing module.
	OpUpdateModule OpType = "update_module"
	// OpDeleteVideosExcept prunes persisted videos missing from the module.
	OpDeleteVideosExcept OpType = "delete_videos_except"
	// OpInsertVideo creates a video under Parent.
	OpInsertVideo OpType = "insert_video"
	// OpUpdateVideo rewrites an existing video.
	OpUpdateVideo OpType = "update_video"
)

// IsInsert reports whether the operation creates a row.
func (t OpType) IsInsert() bool {
	return t == OpInsertCourse || t == OpInsertModule || t == OpInsertVideo
}

// Operation is one planned store call.
type Operation struct {
	// Type specifies the call to make.
	Type OpType `json:"type"`

	// Key is the draft key of the entity written by the operation. For existing
	// entities it is the database id; for new ones the local token.
	Key string `json:"key"`

	// Parent is the draft key of the owning course or module. It is resolved to a
	// database id when the operation runs.
	Parent string `json:"parent,omitempty"`

	Title       string          `json:"title,omitempty"`
	Description string          `json:"description,omitempty"`
	Category    course.Category `json:"category,omitempty"`
	SourceURL   string          `json:"source_url,omitempty"`
	OrderIndex  int             `json:"order_index"`

	// KeepIDs lists the ids a delete-except operation must not remove.
	KeepIDs []string `json:"keep_ids,omitempty"`
}

// Plan is the ordered list of operations that converges the store to a draft.
type Plan struct {
	// CourseKey is the draft key of the course being saved.
	CourseKey string `json:"course_key"`

	// Create is true when the course itself is inserted.
	Create bool `json:"create"`

	Operations []Operation `json:"operations"`

	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate counts for a plan.
type PlanSummary struct {
	Inserts int `json:"inserts"`
	Updates int `json:"updates"`

	// Prunes counts delete-except operations.
	Prunes int `json:"prunes"`

	// Skipped counts modules and videos left out by the empty-field rule.
	Skipped int `json:"skipped"`

	// Deletions counts the persisted modules and videos the prunes will remove.
	// It is only known when the plan was built against a snapshot.
	Deletions int `json:"deletions"`
}

// ApplyOptions controls how a plan is executed.
type ApplyOptions struct {
	// DryRun prevents execution of any operation.
	DryRun bool

	// Transactional runs the plan inside one transaction when the store
	// implements Transactor.
	Transactional bool
}

// Result reports what an apply run did.
type Result struct {
	// CourseID is the database id of the saved course.
	CourseID string `json:"course_id"`

	// Executed is the number of operations that took effect.
	Executed int `json:"executed"`

	// Inserted maps draft keys of inserted entities to their new database ids.
	Inserted map[string]string `json:"inserted"`
}

// ErrUnresolvedParent is returned when an insert refers to a parent that has not
// been inserted yet.
var ErrUnresolvedParent = errors.New("parent has no persisted id")

// ApplyError is returned when an operation fails. Operations before Index stay
// applied unless the run was transactional.
type ApplyError struct {
	Index     int
	Operation Operation
	Executed  int
	Err       error
}

func (e *ApplyError) Error() string {
	return fmt.Sprintf("operation %d (%s %s) failed after %d applied: %v",
		e.Index, e.Operation.Type, e.Operation.Key, e.Executed, e.Err)
}

func (e *ApplyError) Unwrap() error {
	return e.Err
}
