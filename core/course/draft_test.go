package course

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func existingTree() Course {
	return Course{
		ID:          "c1",
		Title:       "Go",
		Description: "Learn Go",
		Category:    CategoryBeginner,
		Modules: []Module{
			{ID: "m1", Title: "Basics", Videos: []Video{{ID: "v1", Title: "Intro", SourceURL: "https://youtu.be/a"}}},
		},
	}
}

func TestDraft_AddModule(t *testing.T) {
	d := NewDraft(existingTree())

	id := d.AddModule()
	require.NotEmpty(t, id)

	c := d.Course()
	require.Len(t, c.Modules, 2)
	added := c.Modules[1]
	assert.Equal(t, id, added.ID)
	assert.True(t, added.IsNew)
	assert.Empty(t, added.Title)
	assert.Empty(t, added.Videos)

	assert.NotEqual(t, id, d.AddModule())
}

func TestDraft_UpdateReturnsNewValue(t *testing.T) {
	d := NewDraft(existingTree())
	before := d.Course()

	after := d.UpdateModule("m1", ModuleTitle, "Fundamentals")

	assert.Equal(t, "Fundamentals", after.Modules[0].Title)
	assert.Equal(t, "Basics", before.Modules[0].Title)
	assert.Equal(t, "Fundamentals", d.Course().Modules[0].Title)
}

func TestDraft_UpdateVideo(t *testing.T) {
	d := NewDraft(existingTree())

	c := d.UpdateVideo("m1", "v1", VideoSourceURL, "https://youtu.be/b")
	assert.Equal(t, "https://youtu.be/b", c.Modules[0].Videos[0].SourceURL)

	c = d.UpdateVideo("m1", "v1", VideoTitle, "Welcome")
	assert.Equal(t, "Welcome", c.Modules[0].Videos[0].Title)
}

func TestDraft_UpdateCourse(t *testing.T) {
	d := NewDraft(existingTree())

	c := d.UpdateCourse(CourseCategory, "advanced")
	assert.Equal(t, CategoryAdvanced, c.Category)

	c = d.UpdateCourse(CourseCategory, " Beginner ")
	assert.Equal(t, CategoryBeginner, c.Category)
	assert.NoError(t, c.Validate())

	c = d.UpdateCourse(CourseCategory, "expert")
	assert.Equal(t, Category("expert"), c.Category)
	assert.Error(t, c.Validate())

	c = d.UpdateCourse(CourseField("unknown"), "x")
	assert.Equal(t, "Go", c.Title)
}

func TestDraft_RemoveIsStructuralOnly(t *testing.T) {
	d := NewDraft(existingTree())
	vid := d.AddVideo("m1")

	c := d.RemoveVideo("m1", vid)
	require.Len(t, c.Modules[0].Videos, 1)
	assert.Equal(t, "v1", c.Modules[0].Videos[0].ID)

	c = d.RemoveModule("m1")
	assert.Empty(t, c.Modules)
}

func TestDraft_OperationsAreTotal(t *testing.T) {
	d := NewDraft(Course{})

	assert.Empty(t, d.AddVideo("missing"))
	assert.NotPanics(t, func() {
		d.UpdateModule("missing", ModuleTitle, "x")
		d.UpdateVideo("missing", "missing", VideoTitle, "x")
		d.RemoveModule("missing")
		d.RemoveVideo("missing", "missing")
		d.UpdateModule("missing", ModuleField("bogus"), "x")
	})
	assert.Empty(t, d.Course().Modules)
}

func TestDraft_CopiesInput(t *testing.T) {
	tree := existingTree()
	d := NewDraft(tree)

	tree.Modules[0].Title = "mutated"
	assert.Equal(t, "Basics", d.Course().Modules[0].Title)

	out := d.Course()
	out.Modules[0].Videos[0].Title = "mutated"
	assert.Equal(t, "Intro", d.Course().Modules[0].Videos[0].Title)
}
