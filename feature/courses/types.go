package courses

import (
	"course-studio/core/course"
	"course-studio/core/reconcile"
)

// CreateCourseRequest is the body of POST /courses.
type CreateCourseRequest struct {
	Title       string        `json:"title" validate:"notblank"`
	Description string        `json:"description" validate:"notblank"`
	Category    string        `json:"category" validate:"required"`
	Modules     []ModuleInput `json:"modules"`
}

// ModuleInput is a module of a create request.
type ModuleInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Videos      []VideoInput `json:"videos"`
}

// VideoInput is a video of a create request.
type VideoInput struct {
	Title     string `json:"title"`
	SourceURL string `json:"source_url"`
}

// UpdateCourseRequest patches the draft's course. Nil fields are left alone.
type UpdateCourseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

// UpdateModuleRequest patches a module.
type UpdateModuleRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// UpdateVideoRequest patches a video.
type UpdateVideoRequest struct {
	Title     *string `json:"title"`
	SourceURL *string `json:"source_url" validate:"omitempty,max=1024"`
}

// DraftView is an editing session as returned to clients.
type DraftView struct {
	ID     string        `json:"draft_id"`
	Course course.Course `json:"course"`
}

// SaveResponse is returned by POST /drafts/:draft/save.
type SaveResponse struct {
	Draft  DraftView         `json:"draft"`
	Result *reconcile.Result `json:"result"`
}

// CourseView is a course prepared for playback.
type CourseView struct {
	course.Course
	Modules []ModuleView `json:"modules"`
}

// ModuleView is a module with playable videos.
type ModuleView struct {
	course.Module
	Videos []VideoView `json:"videos"`
}

// VideoView adds the embeddable player URL to a video.
type VideoView struct {
	course.Video
	EmbedURL string `json:"embed_url"`
}

// NewCourseView builds the playback view of c.
func NewCourseView(c course.Course) *CourseView {
	view := &CourseView{Course: c, Modules: make([]ModuleView, 0, len(c.Modules))}
	for _, m := range c.Modules {
		mv := ModuleView{Module: m, Videos: make([]VideoView, 0, len(m.Videos))}
		for _, v := range m.Videos {
			mv.Videos = append(mv.Videos, VideoView{Video: v, EmbedURL: course.EmbedURL(v.SourceURL)})
		}
		view.Modules = append(view.Modules, mv)
	}
	return view
}
