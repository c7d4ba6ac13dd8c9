package reconcile

import (
	"context"
	"errors"
	"fmt"

	"course-studio/core/course"
)

// ApplyPlan executes the plan's operations in order against store.
//
// Each call is awaited before the next one starts. Inserts record the returned id so
// that children planned under a new parent can be resolved. The first failure aborts
// the run and is returned as an *ApplyError. Without a transaction, operations that
// already ran stay applied and their inserted ids are still reported in the result.
func ApplyPlan(ctx context.Context, store Persistence, plan *Plan, opts ApplyOptions) (*Result, error) {
	result := &Result{Inserted: map[string]string{}}
	if !plan.Create {
		result.CourseID = plan.CourseKey
	}

	if opts.DryRun {
		return result, nil
	}

	if tx, ok := store.(Transactor); ok && opts.Transactional {
		var inner *Result
		err := tx.WithinTx(ctx, func(p Persistence) error {
			var runErr error
			inner, runErr = run(ctx, p, plan)
			return runErr
		})
		if err != nil {
			// Rolled back: nothing took effect.
			var applyErr *ApplyError
			if errors.As(err, &applyErr) {
				applyErr.Executed = 0
				return result, applyErr
			}
			return result, course.Wrap("transaction", err)
		}
		return inner, nil
	}

	return run(ctx, store, plan)
}

func run(ctx context.Context, store Persistence, plan *Plan) (*Result, error) {
	result := &Result{Inserted: map[string]string{}}
	if !plan.Create {
		result.CourseID = plan.CourseKey
	}

	pending := make(map[string]struct{})
	for _, op := range plan.Operations {
		if op.Type.IsInsert() {
			pending[op.Key] = struct{}{}
		}
	}

	resolve := func(key string) (string, error) {
		if id, ok := result.Inserted[key]; ok {
			return id, nil
		}
		if _, isNew := pending[key]; isNew {
			return "", fmt.Errorf("%w: %s", ErrUnresolvedParent, key)
		}
		return key, nil
	}

	for i, op := range plan.Operations {
		if err := ctx.Err(); err != nil {
			return result, &ApplyError{Index: i, Operation: op, Executed: result.Executed, Err: err}
		}

		id, err := execute(ctx, store, op, resolve)
		if err != nil {
			return result, &ApplyError{Index: i, Operation: op, Executed: result.Executed, Err: err}
		}

		if op.Type.IsInsert() {
			result.Inserted[op.Key] = id
			if op.Type == OpInsertCourse {
				result.CourseID = id
			}
		}
		result.Executed++
	}

	return result, nil
}

// execute performs one operation and returns the id of an inserted row.
func execute(ctx context.Context, store Persistence, op Operation, resolve func(string) (string, error)) (string, error) {
	switch op.Type {
	case OpInsertCourse:
		return store.InsertCourse(ctx, courseFields(op))

	case OpUpdateCourse:
		return "", store.UpdateCourse(ctx, op.Key, courseFields(op))

	case OpDeleteModulesExcept:
		courseID, err := resolve(op.Key)
		if err != nil {
			return "", err
		}
		return "", store.DeleteModulesExcept(ctx, courseID, op.KeepIDs)

	case OpInsertModule:
		courseID, err := resolve(op.Parent)
		if err != nil {
			return "", err
		}
		return store.InsertModule(ctx, courseID, moduleFields(op))

	case OpUpdateModule:
		return "", store.UpdateModule(ctx, op.Key, moduleFields(op))

	case OpDeleteVideosExcept:
		moduleID, err := resolve(op.Key)
		if err != nil {
			return "", err
		}
		return "", store.DeleteVideosExcept(ctx, moduleID, op.KeepIDs)

	case OpInsertVideo:
		moduleID, err := resolve(op.Parent)
		if err != nil {
			return "", err
		}
		return store.InsertVideo(ctx, moduleID, videoFields(op))

	case OpUpdateVideo:
		return "", store.UpdateVideo(ctx, op.Key, videoFields(op))

	default:
		return "", fmt.Errorf("unknown operation type %q", op.Type)
	}
}

func courseFields(op Operation) CourseFields {
	return CourseFields{Title: op.Title, Description: op.Description, Category: op.Category}
}

func moduleFields(op Operation) ModuleFields {
	return ModuleFields{Title: op.Title, Description: op.Description, OrderIndex: op.OrderIndex}
}

func videoFields(op Operation) VideoFields {
	return VideoFields{Title: op.Title, SourceURL: op.SourceURL, OrderIndex: op.OrderIndex}
}
