package course

import "github.com/google/uuid"

// CourseField names an editable course field.
type CourseField string

// ModuleField names an editable module field.
type ModuleField string

// VideoField names an editable video field.
type VideoField string

const (
	CourseTitle       CourseField = "title"
	CourseDescription CourseField = "description"
	CourseCategory    CourseField = "category"

	ModuleTitle       ModuleField = "title"
	ModuleDescription ModuleField = "description"

	VideoTitle     VideoField = "title"
	VideoSourceURL VideoField = "source_url"
)

// Draft is the mutable working copy of one course tree. It is not safe for
// concurrent use; an editing session owns exactly one Draft.
type Draft struct {
	root  Course
	newID func() string
}

// NewDraft starts a draft from c. The draft keeps its own copy.
func NewDraft(c Course) *Draft {
	if c.Modules == nil {
		c.Modules = []Module{}
	}
	return &Draft{
		root:  c.Clone(),
		newID: func() string { return uuid.NewString() },
	}
}

// Course returns a copy of the current tree.
func (d *Draft) Course() Course {
	return d.root.Clone()
}

// Replace swaps the whole tree, e.g. after a save assigned database ids.
func (d *Draft) Replace(c Course) Course {
	d.root = c.Clone()
	return d.Course()
}

// UpdateCourse sets a course level field. Unknown fields are ignored.
func (d *Draft) UpdateCourse(field CourseField, value string) Course {
	next := d.root.Clone()
	switch field {
	case CourseTitle:
		next.Title = value
	case CourseDescription:
		next.Description = value
	case CourseCategory:
		// Unknown values are kept so Validate can report them at save.
		if c, err := ParseCategory(value); err == nil {
			next.Category = c
		} else {
			next.Category = Category(value)
		}
	default:
		return d.Course()
	}
	d.root = next
	return d.Course()
}

// AddModule appends an empty, unsaved module and returns its local id.
func (d *Draft) AddModule() string {
	id := d.newID()
	next := d.root.Clone()
	next.Modules = append(next.Modules, Module{
		ID:         id,
		IsNew:      true,
		OrderIndex: len(next.Modules),
		Videos:     []Video{},
	})
	d.root = next
	return id
}

// UpdateModule replaces one field of the module with moduleID.
func (d *Draft) UpdateModule(moduleID string, field ModuleField, value string) Course {
	next := d.root.Clone()
	for i := range next.Modules {
		if next.Modules[i].ID != moduleID {
			continue
		}
		switch field {
		case ModuleTitle:
			next.Modules[i].Title = value
		case ModuleDescription:
			next.Modules[i].Description = value
		}
	}
	d.root = next
	return d.Course()
}

// RemoveModule drops the module from the tree. Backend rows are only touched on save.
func (d *Draft) RemoveModule(moduleID string) Course {
	next := d.root.Clone()
	kept := next.Modules[:0]
	for _, m := range next.Modules {
		if m.ID != moduleID {
			kept = append(kept, m)
		}
	}
	next.Modules = kept
	d.root = next
	return d.Course()
}

// AddVideo appends an empty, unsaved video to the module and returns its local id.
// It returns "" when the module does not exist.
func (d *Draft) AddVideo(moduleID string) string {
	next := d.root.Clone()
	for i := range next.Modules {
		m := &next.Modules[i]
		if m.ID != moduleID {
			continue
		}
		id := d.newID()
		m.Videos = append(m.Videos, Video{ID: id, IsNew: true, OrderIndex: len(m.Videos)})
		d.root = next
		return id
	}
	return ""
}

// UpdateVideo replaces one field of a video.
func (d *Draft) UpdateVideo(moduleID, videoID string, field VideoField, value string) Course {
	next := d.root.Clone()
	for i := range next.Modules {
		m := &next.Modules[i]
		if m.ID != moduleID {
			continue
		}
		for j := range m.Videos {
			if m.Videos[j].ID != videoID {
				continue
			}
			switch field {
			case VideoTitle:
				m.Videos[j].Title = value
			case VideoSourceURL:
				m.Videos[j].SourceURL = value
			}
		}
	}
	d.root = next
	return d.Course()
}

// RemoveVideo drops a video from its module.
func (d *Draft) RemoveVideo(moduleID, videoID string) Course {
	next := d.root.Clone()
	for i := range next.Modules {
		m := &next.Modules[i]
		if m.ID != moduleID {
			continue
		}
		kept := m.Videos[:0]
		for _, v := range m.Videos {
			if v.ID != videoID {
				kept = append(kept, v)
			}
		}
		m.Videos = kept
	}
	d.root = next
	return d.Course()
}
