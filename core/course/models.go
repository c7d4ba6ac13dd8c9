package course

import (
	"fmt"
	"strings"
)

// Category is the difficulty level of a course.
type Category string

const (
	CategoryBeginner Category = "beginner"
	CategoryAverage  Category = "average"
	CategoryAdvanced Category = "advanced"
)

// ParseCategory validates a raw category value.
func ParseCategory(raw string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(raw)))
	if !c.IsValid() {
		return "", &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", raw)}
	}
	return c, nil
}

// IsValid reports whether c is one of the supported categories.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBeginner, CategoryAverage, CategoryAdvanced:
		return true
	default:
		return false
	}
}

// Label returns the display label of the category.
func (c Category) Label() string {
	switch c {
	case CategoryBeginner:
		return "Beginner"
	case CategoryAverage:
		return "Average"
	case CategoryAdvanced:
		return "Advanced"
	default:
		return string(c)
	}
}

// Course is the root of an editable tree.
type Course struct {
	// ID is empty until the course has been persisted.
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	Modules     []Module `json:"modules"`
}

// Module is a section of a course.
type Module struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	OrderIndex  int     `json:"order_index"`
	IsNew       bool    `json:"is_new,omitempty"`
	Videos      []Video `json:"videos"`
}

// Video is a playable item inside a module.
type Video struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SourceURL  string `json:"source_url"`
	OrderIndex int    `json:"order_index"`
	IsNew      bool   `json:"is_new,omitempty"`
}

// Summary is a catalogue row for a course.
type Summary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    Category `json:"category"`
	ModuleCount int      `json:"module_count"`
	VideoCount  int      `json:"video_count"`
}

// NewCourse builds an unsaved course. Only the category is validated here;
// title and description are checked when the course is saved.
func NewCourse(title, description, category string) (Course, error) {
	c, err := ParseCategory(category)
	if err != nil {
		return Course{}, err
	}
	return Course{
		Title:       title,
		Description: description,
		Category:    c,
		Modules:     []Module{},
	}, nil
}

// IsPersisted reports whether the course already has a database row.
func (c Course) IsPersisted() bool {
	return c.ID != ""
}

// Validate checks the fields required before any backend call is made.
func (c Course) Validate() error {
	if strings.TrimSpace(c.Title) == "" {
		return &ValidationError{Field: "title", Reason: "title is required"}
	}
	if strings.TrimSpace(c.Description) == "" {
		return &ValidationError{Field: "description", Reason: "description is required"}
	}
	if !c.Category.IsValid() {
		return &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown category %q", c.Category)}
	}
	return nil
}

// VideoCount returns the number of videos across all modules.
func (c Course) VideoCount() int {
	total := 0
	for _, m := range c.Modules {
		total += len(m.Videos)
	}
	return total
}

// Clone returns a deep copy of the tree.
func (c Course) Clone() Course {
	out := c
	out.Modules = make([]Module, len(c.Modules))
	for i, m := range c.Modules {
		out.Modules[i] = m.clone()
	}
	return out
}

func (m Module) clone() Module {
	out := m
	out.Videos = make([]Video, len(m.Videos))
	copy(out.Videos, m.Videos)
	return out
}

// Same reports whether m and other denote the same entity: existing modules are
// compared by database id, new ones by their local token.
func (m Module) Same(other Module) bool {
	return m.IsNew == other.IsNew && m.ID == other.ID
}

// Same reports whether v and other denote the same entity.
func (v Video) Same(other Video) bool {
	return v.IsNew == other.IsNew && v.ID == other.ID
}

// Savable reports whether the module passes the save-time skip rule.
func (m Module) Savable() bool {
	return strings.TrimSpace(m.Title) != ""
}

// Savable reports whether the video passes the save-time skip rule.
func (v Video) Savable() bool {
	return strings.TrimSpace(v.Title) != "" && strings.TrimSpace(v.SourceURL) != ""
}
