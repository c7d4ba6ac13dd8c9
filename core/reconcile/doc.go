// Package reconcile turns an edited course tree into the store calls that make the
// database match it.
//
// # Architecture
//
// The package consists of three components:
//
// 1. Planner: BuildPlan walks the draft and emits an ordered operation list. The
// course is updated (or inserted), persisted children missing from the draft are
// pruned with one delete-except call per parent, and every remaining child is
// inserted or updated with OrderIndex taken from its position. There is no per-field
// diffing: every surviving entity is re-sent.
//
// 2. Executor: ApplyPlan runs the operations one at a time against a Persistence,
// resolving draft keys of freshly inserted parents to their new ids before their
// children are written. The first failure aborts the run. When the store implements
// Transactor and ApplyOptions.Transactional is set, the run is atomic.
//
// 3. Editor: the session object exposed to the HTTP layer. It owns the draft and the
// last-known snapshot and wires load → edit → plan → apply together.
//
// # Ordering
//
//	update_course | insert_course
//	delete_modules_except(course, keep)        (edits only)
//	for each module:
//	    insert_module | update_module
//	    delete_videos_except(module, keep)     (existing modules only)
//	    for each video: insert_video | update_video
//
// # Usage Example
//
//	editor := reconcile.NewEditor(repo, sess, logger, reconcile.ApplyOptions{Transactional: true})
//	if _, err := editor.LoadDraft(ctx, courseID); err != nil {
//	    return err
//	}
//	mod, _ := editor.AddModule()
//	editor.UpdateModule(mod, course.ModuleTitle, "Week 1")
//	result, err := editor.Save(ctx)
package reconcile
