package courses

import (
	"context"
	"errors"

	"course-studio/core/course"
	"course-studio/core/reconcile"

	"github.com/google/uuid"
)

// Import is a planned upsert of a whole course tree, e.g. from a JSON file.
type Import struct {
	Draft    course.Course
	Snapshot *course.Course
	Plan     *reconcile.Plan
}

// PrepareImport plans saving tree. A tree whose id names an existing course is an
// edit of that course: modules and videos whose ids exist under the same parent are
// updated, the rest are inserted and persisted children missing from tree are
// deleted. A tree without id, or with an unknown id, creates a new course.
func (s *Service) PrepareImport(ctx context.Context, tree course.Course) (*Import, error) {
	var snapshot *course.Course
	if tree.ID != "" {
		loaded, err := reconcile.LoadCourse(ctx, s.repo, tree.ID)
		switch {
		case err == nil:
			snapshot = &loaded
		case errors.Is(err, course.ErrNotFound):
			tree.ID = ""
		default:
			return nil, err
		}
	}

	if cat, err := course.ParseCategory(string(tree.Category)); err == nil {
		tree.Category = cat
	}
	draft := markNew(tree, snapshot)
	if err := draft.Validate(); err != nil {
		return nil, err
	}

	return &Import{
		Draft:    draft,
		Snapshot: snapshot,
		Plan:     reconcile.BuildPlan(draft, snapshot),
	}, nil
}

// ApplyImport runs a prepared import.
func (s *Service) ApplyImport(ctx context.Context, imp *Import, dryRun bool) (*reconcile.Result, error) {
	opts := s.opts
	opts.DryRun = dryRun
	return reconcile.ApplyPlan(ctx, s.repo, imp.Plan, opts)
}

// markNew flags every node of tree that has no row under the same parent in
// snapshot, giving it a fresh local token. An id repeated among siblings only
// refers to the row once; later repeats are imported as new entities.
func markNew(tree course.Course, snapshot *course.Course) course.Course {
	out := tree.Clone()

	persisted := map[string]map[string]struct{}{}
	if snapshot != nil {
		for _, m := range snapshot.Modules {
			videos := map[string]struct{}{}
			for _, v := range m.Videos {
				videos[v.ID] = struct{}{}
			}
			persisted[m.ID] = videos
		}
	}

	seenModules := map[string]struct{}{}
	for i := range out.Modules {
		m := &out.Modules[i]
		videos, exists := persisted[m.ID]
		if _, dup := seenModules[m.ID]; dup {
			exists = false
		}
		m.IsNew = !exists
		if m.IsNew {
			m.ID = uuid.NewString()
		}
		seenModules[m.ID] = struct{}{}

		seenVideos := map[string]struct{}{}
		for j := range m.Videos {
			v := &m.Videos[j]
			_, vExists := videos[v.ID]
			if _, dup := seenVideos[v.ID]; dup {
				vExists = false
			}
			v.IsNew = m.IsNew || !vExists
			if v.IsNew {
				v.ID = uuid.NewString()
			}
			seenVideos[v.ID] = struct{}{}
		}
	}
	return out
}
