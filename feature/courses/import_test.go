package courses

import (
	"context"
	"testing"
	"time"

	"course-studio/core/course"
	"course-studio/core/reconcile"
	"course-studio/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupService(t *testing.T) *Service {
	t.Helper()
	return NewService(NewRepository(setupTestDB(t)), NewDrafts(time.Hour), zap.NewNop(), reconcile.ApplyOptions{Transactional: true})
}

func TestImport_CreatesCourse(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	tree := course.Course{
		ID:          "unknown-id",
		Title:       "Go",
		Description: "Learn Go",
		Category:    "Beginner",
		Modules: []course.Module{
			{ID: "m-file", Title: "Basics", Videos: []course.Video{{ID: "v-file", Title: "Intro", SourceURL: "https://youtu.be/x"}}},
		},
	}
	imp, err := svc.PrepareImport(ctx, tree)
	require.NoError(t, err)
	assert.True(t, imp.Plan.Create)
	assert.Equal(t, 3, imp.Plan.Summary.Inserts)
	assert.Equal(t, course.CategoryBeginner, imp.Draft.Category)

	dry, err := svc.ApplyImport(ctx, imp, true)
	require.NoError(t, err)
	assert.Empty(t, dry.CourseID)
	list, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	result, err := svc.ApplyImport(ctx, imp, false)
	require.NoError(t, err)
	assert.NotEqual(t, "unknown-id", result.CourseID)

	saved, err := svc.Tree(ctx, result.CourseID)
	require.NoError(t, err)
	require.Len(t, saved.Modules, 1)
	assert.NotEqual(t, "m-file", saved.Modules[0].ID)
	assert.Equal(t, "Intro", saved.Modules[0].Videos[0].Title)
}

func TestImport_UpdatesExistingCourse(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, session.System(), CreateCourseRequest{
		Title:       "Go",
		Description: "Learn Go",
		Category:    "beginner",
		Modules: []ModuleInput{
			{Title: "A", Videos: []VideoInput{{Title: "a1", SourceURL: "https://youtu.be/a1"}}},
			{Title: "B"},
		},
	})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx, view.ID)
	require.NoError(t, err)
	// Keep A renamed, drop B, add C.
	tree.Title = "Go 2"
	tree.Modules = []course.Module{
		tree.Modules[0],
		{Title: "C"},
	}
	tree.Modules[0].Title = "A2"

	imp, err := svc.PrepareImport(ctx, tree)
	require.NoError(t, err)
	assert.False(t, imp.Plan.Create)
	assert.Equal(t, 1, imp.Plan.Summary.Inserts)
	assert.Equal(t, 1, imp.Plan.Summary.Deletions)

	_, err = svc.ApplyImport(ctx, imp, false)
	require.NoError(t, err)

	saved, err := svc.Tree(ctx, view.ID)
	require.NoError(t, err)
	assert.Equal(t, "Go 2", saved.Title)
	require.Len(t, saved.Modules, 2)
	assert.Equal(t, tree.Modules[0].ID, saved.Modules[0].ID)
	assert.Equal(t, "A2", saved.Modules[0].Title)
	assert.Len(t, saved.Modules[0].Videos, 1)
	assert.Equal(t, "C", saved.Modules[1].Title)
}

func TestImport_Validation(t *testing.T) {
	svc := setupService(t)

	_, err := svc.PrepareImport(context.Background(), course.Course{Title: "", Description: "x", Category: course.CategoryBeginner})
	assert.True(t, course.IsValidation(err))
}

func TestImport_RepeatedIDsAreImportedAsNew(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	view, err := svc.Create(ctx, session.System(), CreateCourseRequest{
		Title:       "Go",
		Description: "Learn Go",
		Category:    "beginner",
		Modules: []ModuleInput{
			{Title: "A", Videos: []VideoInput{{Title: "a1", SourceURL: "https://youtu.be/a1"}}},
		},
	})
	require.NoError(t, err)

	tree, err := svc.Tree(ctx, view.ID)
	require.NoError(t, err)
	moduleID := tree.Modules[0].ID
	videoID := tree.Modules[0].Videos[0].ID

	tree.Modules = []course.Module{
		{ID: moduleID, Title: "A", Videos: []course.Video{
			{ID: videoID, Title: "a1", SourceURL: "https://youtu.be/a1"},
			{ID: videoID, Title: "a1-copy", SourceURL: "https://youtu.be/a2"},
		}},
		{ID: moduleID, Title: "A-copy", Videos: []course.Video{
			{ID: videoID, Title: "b1", SourceURL: "https://youtu.be/b1"},
		}},
	}

	imp, err := svc.PrepareImport(ctx, tree)
	require.NoError(t, err)
	assert.Equal(t, 1, imp.Plan.Count(reconcile.OpUpdateModule))
	assert.Equal(t, 1, imp.Plan.Count(reconcile.OpInsertModule))
	assert.Equal(t, 1, imp.Plan.Count(reconcile.OpUpdateVideo))
	assert.Equal(t, 2, imp.Plan.Count(reconcile.OpInsertVideo))
	for _, op := range imp.Plan.Operations {
		if op.Type == reconcile.OpDeleteModulesExcept {
			assert.Equal(t, []string{moduleID}, op.KeepIDs)
		}
	}

	_, err = svc.ApplyImport(ctx, imp, false)
	require.NoError(t, err)

	saved, err := svc.Tree(ctx, view.ID)
	require.NoError(t, err)
	require.Len(t, saved.Modules, 2)
	assert.Equal(t, moduleID, saved.Modules[0].ID)
	assert.Equal(t, "A", saved.Modules[0].Title)
	assert.Equal(t, 0, saved.Modules[0].OrderIndex)
	assert.Equal(t, "A-copy", saved.Modules[1].Title)
	assert.Equal(t, 1, saved.Modules[1].OrderIndex)

	require.Len(t, saved.Modules[0].Videos, 2)
	assert.Equal(t, videoID, saved.Modules[0].Videos[0].ID)
	assert.Equal(t, "a1-copy", saved.Modules[0].Videos[1].Title)
	assert.Equal(t, 1, saved.Modules[0].Videos[1].OrderIndex)
	require.Len(t, saved.Modules[1].Videos, 1)
	assert.NotEqual(t, videoID, saved.Modules[1].Videos[0].ID)
}
