package reconcile

import (
	"context"
	"errors"
	"testing"

	"course-studio/core/course"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseDraft() course.Course {
	return course.Course{
		Title: "Go", Description: "Learn Go", Category: course.CategoryBeginner,
		Modules: []course.Module{
			{ID: "tm1", Title: "Basics", IsNew: true, Videos: []course.Video{
				{ID: "tv1", Title: "Hello", SourceURL: "https://youtu.be/a", IsNew: true},
				{ID: "tv2", Title: "Types", SourceURL: "https://youtu.be/b", IsNew: true},
			}},
			{ID: "tm2", Title: "Concurrency", IsNew: true},
		},
	}
}

func TestApplyPlan_ResolvesNewParents(t *testing.T) {
	store := newMemStore()
	plan := BuildPlan(newCourseDraft(), nil)

	result, err := ApplyPlan(context.Background(), store, plan, ApplyOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"insert_course", "insert_module", "insert_video", "insert_video", "insert_module"}, store.ops())
	assert.Equal(t, len(plan.Operations), result.Executed)

	courseID := result.CourseID
	moduleID := result.Inserted["tm1"]
	require.NotEmpty(t, courseID)
	require.NotEmpty(t, moduleID)
	assert.Equal(t, courseID, store.calls[1].Parent)
	assert.Equal(t, moduleID, store.calls[2].Parent)
	assert.Equal(t, moduleID, store.calls[3].Parent)
	assert.Equal(t, courseID, store.calls[4].Parent)
	assert.Equal(t, 1, store.calls[4].Order)
	assert.Len(t, result.Inserted, 5)
}

func TestApplyPlan_AbortsOnFirstFailure(t *testing.T) {
	store := newMemStore()
	store.failOn = "insert_video"
	plan := BuildPlan(newCourseDraft(), nil)

	result, err := ApplyPlan(context.Background(), store, plan, ApplyOptions{})
	require.Error(t, err)

	var applyErr *ApplyError
	require.True(t, errors.As(err, &applyErr))
	assert.Equal(t, 2, applyErr.Index)
	assert.Equal(t, OpInsertVideo, applyErr.Operation.Type)
	assert.Equal(t, 2, applyErr.Executed)

	var persistErr *course.PersistenceError
	assert.True(t, errors.As(err, &persistErr))

	// No operation after the failing one was issued.
	assert.Equal(t, []string{"insert_course", "insert_module", "insert_video"}, store.ops())
	assert.Len(t, store.courses, 1)
	assert.Len(t, store.modules, 1)
	assert.Empty(t, store.videos)

	assert.Equal(t, 2, result.Executed)
	assert.Contains(t, result.Inserted, "tm1")
}

func TestApplyPlan_TransactionalRollsBack(t *testing.T) {
	store := &txStore{memStore: newMemStore()}
	store.failOn = "insert_module"
	plan := BuildPlan(newCourseDraft(), nil)

	result, err := ApplyPlan(context.Background(), store, plan, ApplyOptions{Transactional: true})
	require.Error(t, err)

	var applyErr *ApplyError
	require.True(t, errors.As(err, &applyErr))
	assert.Equal(t, 0, applyErr.Executed)
	assert.Empty(t, store.courses)
	assert.Empty(t, result.Inserted)
	assert.Empty(t, result.CourseID)
}

func TestApplyPlan_TransactionalCommits(t *testing.T) {
	store := &txStore{memStore: newMemStore()}
	plan := BuildPlan(newCourseDraft(), nil)

	result, err := ApplyPlan(context.Background(), store, plan, ApplyOptions{Transactional: true})
	require.NoError(t, err)
	assert.Len(t, store.courses, 1)
	assert.Len(t, store.modules, 2)
	assert.Len(t, store.videos, 2)
	assert.Equal(t, 5, result.Executed)
}

func TestApplyPlan_NonTransactionalIgnoresTransactor(t *testing.T) {
	store := &txStore{memStore: newMemStore()}
	store.failOn = "insert_module"
	plan := BuildPlan(newCourseDraft(), nil)

	_, err := ApplyPlan(context.Background(), store, plan, ApplyOptions{})
	require.Error(t, err)
	assert.Len(t, store.courses, 1)
}

func TestApplyPlan_DryRun(t *testing.T) {
	store := newMemStore()
	courseID := seedCourse(store, "A")
	loaded, err := LoadCourse(context.Background(), store, courseID)
	require.NoError(t, err)

	result, err := ApplyPlan(context.Background(), store, BuildPlan(loaded, &loaded), ApplyOptions{DryRun: true})
	require.NoError(t, err)
	assert.Empty(t, store.calls)
	assert.Equal(t, courseID, result.CourseID)
	assert.Equal(t, 0, result.Executed)
}

func TestApplyPlan_UnresolvedParent(t *testing.T) {
	plan := &Plan{
		CourseKey: "c1",
		Operations: []Operation{
			{Type: OpInsertVideo, Key: "tv", Parent: "tm", Title: "v", SourceURL: "u"},
			{Type: OpInsertModule, Key: "tm", Parent: "c1", Title: "m"},
		},
	}

	_, err := ApplyPlan(context.Background(), newMemStore(), plan, ApplyOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnresolvedParent)
}

func TestApplyPlan_CanceledContext(t *testing.T) {
	store := newMemStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ApplyPlan(ctx, store, BuildPlan(newCourseDraft(), nil), ApplyOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, store.calls)
}

func TestApplyPlan_EditSequence(t *testing.T) {
	store := newMemStore()
	courseID := seedCourse(store, "A", "B")
	loaded, err := LoadCourse(context.Background(), store, courseID)
	require.NoError(t, err)

	d := course.NewDraft(loaded)
	first := loaded.Modules[0]
	d.RemoveModule(loaded.Modules[1].ID)
	d.RemoveVideo(first.ID, first.Videos[0].ID)
	vid := d.AddVideo(first.ID)
	d.UpdateVideo(first.ID, vid, course.VideoTitle, "new")
	d.UpdateVideo(first.ID, vid, course.VideoSourceURL, "https://youtu.be/new")

	_, err = ApplyPlan(context.Background(), store, BuildPlan(d.Course(), &loaded), ApplyOptions{})
	require.NoError(t, err)

	assert.Equal(t, []string{"update_course", "delete_modules_except", "update_module", "delete_videos_except", "insert_video"}, store.ops())
	assert.Equal(t, []string{first.ID}, store.calls[1].Keep)
	assert.Empty(t, store.calls[3].Keep)
	assert.Equal(t, first.ID, store.calls[4].Parent)

	reloaded, err := LoadCourse(context.Background(), store, courseID)
	require.NoError(t, err)
	require.Len(t, reloaded.Modules, 1)
	require.Len(t, reloaded.Modules[0].Videos, 1)
	assert.Equal(t, "new", reloaded.Modules[0].Videos[0].Title)
}
