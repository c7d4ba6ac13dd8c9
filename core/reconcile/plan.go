package reconcile

import (
	"course-studio/core/course"
)

// BuildPlan computes the operations that converge the store to draft.
//
// A draft without an id is a create: the course is inserted and nothing is pruned.
// Otherwise the course is updated, persisted modules missing from the draft are
// pruned with one delete-except call, and every module and video is inserted or
// updated in draft order, with OrderIndex taken from its position. Modules without a
// title and videos without a title or source URL are skipped.
//
// snapshot is the last-known persisted tree. It is optional and only used to fill
// Summary.Deletions.
func BuildPlan(draft course.Course, snapshot *course.Course) *Plan {
	plan := &Plan{
		CourseKey:  draft.ID,
		Create:     !draft.IsPersisted(),
		Operations: []Operation{},
	}
	if plan.Create {
		plan.CourseKey = NewCourseKey
	}

	courseOp := Operation{
		Type:        OpUpdateCourse,
		Key:         plan.CourseKey,
		Title:       draft.Title,
		Description: draft.Description,
		Category:    draft.Category,
	}
	if plan.Create {
		courseOp.Type = OpInsertCourse
	}
	plan.add(courseOp)

	if !plan.Create {
		plan.add(Operation{
			Type:    OpDeleteModulesExcept,
			Key:     plan.CourseKey,
			KeepIDs: existingModuleIDs(draft.Modules),
		})
	}

	for index, m := range draft.Modules {
		if !m.Savable() {
			plan.Summary.Skipped += 1 + len(m.Videos)
			continue
		}

		op := Operation{
			Type:        OpUpdateModule,
			Key:         m.ID,
			Parent:      plan.CourseKey,
			Title:       m.Title,
			Description: m.Description,
			OrderIndex:  index,
		}
		if m.IsNew {
			op.Type = OpInsertModule
		}
		plan.add(op)

		planVideos(plan, m)
	}

	if snapshot != nil {
		plan.Summary.Deletions = countDeletions(draft, *snapshot)
	}

	return plan
}

// planVideos repeats the prune/walk logic one level down.
func planVideos(plan *Plan, m course.Module) {
	if !m.IsNew {
		plan.add(Operation{
			Type:    OpDeleteVideosExcept,
			Key:     m.ID,
			KeepIDs: existingVideoIDs(m.Videos),
		})
	}

	for index, v := range m.Videos {
		if !v.Savable() {
			plan.Summary.Skipped++
			continue
		}
		op := Operation{
			Type:       OpUpdateVideo,
			Key:        v.ID,
			Parent:     m.ID,
			Title:      v.Title,
			SourceURL:  v.SourceURL,
			OrderIndex: index,
		}
		if v.IsNew {
			op.Type = OpInsertVideo
		}
		plan.add(op)
	}
}

func (p *Plan) add(op Operation) {
	p.Operations = append(p.Operations, op)
	switch {
	case op.Type.IsInsert():
		p.Summary.Inserts++
	case op.Type == OpDeleteModulesExcept || op.Type == OpDeleteVideosExcept:
		p.Summary.Prunes++
	default:
		p.Summary.Updates++
	}
}

// Count returns the number of operations of type t.
func (p *Plan) Count(t OpType) int {
	n := 0
	for _, op := range p.Operations {
		if op.Type == t {
			n++
		}
	}
	return n
}

func existingModuleIDs(modules []course.Module) []string {
	ids := []string{}
	for _, m := range modules {
		if !m.IsNew {
			ids = append(ids, m.ID)
		}
	}
	return ids
}

func existingVideoIDs(videos []course.Video) []string {
	ids := []string{}
	for _, v := range videos {
		if !v.IsNew {
			ids = append(ids, v.ID)
		}
	}
	return ids
}

// countDeletions counts snapshot rows the plan's prunes will remove. Videos of a
// removed module go with it; videos of a skipped module are left alone.
func countDeletions(draft, snapshot course.Course) int {
	draftModules := make(map[string]course.Module, len(draft.Modules))
	for _, m := range draft.Modules {
		if !m.IsNew {
			draftModules[m.ID] = m
		}
	}

	deletions := 0
	for _, old := range snapshot.Modules {
		cur, kept := draftModules[old.ID]
		if !kept {
			deletions += 1 + len(old.Videos)
			continue
		}
		if !cur.Savable() {
			continue
		}
		keep := make(map[string]struct{}, len(cur.Videos))
		for _, v := range cur.Videos {
			if !v.IsNew {
				keep[v.ID] = struct{}{}
			}
		}
		for _, v := range old.Videos {
			if _, ok := keep[v.ID]; !ok {
				deletions++
			}
		}
	}
	return deletions
}
