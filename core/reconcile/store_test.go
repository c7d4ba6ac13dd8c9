package reconcile

import (
	"context"
	"fmt"
	"sort"

	"course-studio/core/course"
)

// call records one store invocation.
type call struct {
	Op     string
	ID     string
	Parent string
	Keep   []string
	Title  string
	Order  int
}

type moduleRow struct {
	courseID string
	fields   ModuleFields
	seq      int
}

type videoRow struct {
	moduleID string
	fields   VideoFields
	seq      int
}

// memStore is an in-memory Persistence that records every call.
type memStore struct {
	courses map[string]CourseFields
	modules map[string]moduleRow
	videos  map[string]videoRow
	calls   []call
	nextID  int

	// failOn makes the first call of that op fail.
	failOn string
}

func newMemStore() *memStore {
	return &memStore{
		courses: map[string]CourseFields{},
		modules: map[string]moduleRow{},
		videos:  map[string]videoRow{},
	}
}

func (s *memStore) record(c call) error {
	s.calls = append(s.calls, c)
	if s.failOn == c.Op {
		s.failOn = ""
		return &course.PersistenceError{Op: c.Op, Err: fmt.Errorf("boom")}
	}
	return nil
}

func (s *memStore) id(prefix string) string {
	s.nextID++
	return fmt.Sprintf("%s-%d", prefix, s.nextID)
}

func (s *memStore) ops() []string {
	out := make([]string, 0, len(s.calls))
	for _, c := range s.calls {
		out = append(out, c.Op)
	}
	return out
}

func (s *memStore) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	f, ok := s.courses[id]
	if !ok {
		return nil, course.ErrNotFound
	}
	c := &course.Course{ID: id, Title: f.Title, Description: f.Description, Category: f.Category, Modules: []course.Module{}}

	// Insertion order, not order_index, to exercise normalization.
	moduleIDs := make([]string, 0)
	for mid, row := range s.modules {
		if row.courseID == id {
			moduleIDs = append(moduleIDs, mid)
		}
	}
	sort.Slice(moduleIDs, func(i, j int) bool { return s.modules[moduleIDs[i]].seq < s.modules[moduleIDs[j]].seq })

	for _, mid := range moduleIDs {
		row := s.modules[mid]
		m := course.Module{ID: mid, Title: row.fields.Title, Description: row.fields.Description, OrderIndex: row.fields.OrderIndex, Videos: []course.Video{}}
		videoIDs := make([]string, 0)
		for vid, v := range s.videos {
			if v.moduleID == mid {
				videoIDs = append(videoIDs, vid)
			}
		}
		sort.Slice(videoIDs, func(i, j int) bool { return s.videos[videoIDs[i]].seq < s.videos[videoIDs[j]].seq })
		for _, vid := range videoIDs {
			v := s.videos[vid]
			m.Videos = append(m.Videos, course.Video{ID: vid, Title: v.fields.Title, SourceURL: v.fields.SourceURL, OrderIndex: v.fields.OrderIndex})
		}
		c.Modules = append(c.Modules, m)
	}
	return c, nil
}

func (s *memStore) ListCourses(ctx context.Context) ([]course.Summary, error) {
	out := []course.Summary{}
	for id, f := range s.courses {
		out = append(out, course.Summary{ID: id, Title: f.Title, Description: f.Description, Category: f.Category})
	}
	return out, nil
}

func (s *memStore) InsertCourse(ctx context.Context, fields CourseFields) (string, error) {
	if err := s.record(call{Op: "insert_course", Title: fields.Title}); err != nil {
		return "", err
	}
	id := s.id("course")
	s.courses[id] = fields
	return id, nil
}

func (s *memStore) UpdateCourse(ctx context.Context, id string, fields CourseFields) error {
	if err := s.record(call{Op: "update_course", ID: id, Title: fields.Title}); err != nil {
		return err
	}
	s.courses[id] = fields
	return nil
}

func (s *memStore) DeleteCourse(ctx context.Context, id string) error {
	if err := s.record(call{Op: "delete_course", ID: id}); err != nil {
		return err
	}
	_ = s.deleteModules(id, nil)
	delete(s.courses, id)
	return nil
}

func (s *memStore) InsertModule(ctx context.Context, courseID string, fields ModuleFields) (string, error) {
	if err := s.record(call{Op: "insert_module", Parent: courseID, Title: fields.Title, Order: fields.OrderIndex}); err != nil {
		return "", err
	}
	id := s.id("module")
	s.modules[id] = moduleRow{courseID: courseID, fields: fields, seq: s.nextID}
	return id, nil
}

func (s *memStore) UpdateModule(ctx context.Context, id string, fields ModuleFields) error {
	if err := s.record(call{Op: "update_module", ID: id, Title: fields.Title, Order: fields.OrderIndex}); err != nil {
		return err
	}
	row := s.modules[id]
	row.fields = fields
	s.modules[id] = row
	return nil
}

func (s *memStore) DeleteModulesExcept(ctx context.Context, courseID string, keepIDs []string) error {
	if err := s.record(call{Op: "delete_modules_except", ID: courseID, Keep: keepIDs}); err != nil {
		return err
	}
	return s.deleteModules(courseID, keepIDs)
}

func (s *memStore) deleteModules(courseID string, keepIDs []string) error {
	keep := toSet(keepIDs)
	for mid, row := range s.modules {
		if row.courseID != courseID {
			continue
		}
		if _, ok := keep[mid]; ok {
			continue
		}
		for vid, v := range s.videos {
			if v.moduleID == mid {
				delete(s.videos, vid)
			}
		}
		delete(s.modules, mid)
	}
	return nil
}

func (s *memStore) InsertVideo(ctx context.Context, moduleID string, fields VideoFields) (string, error) {
	if err := s.record(call{Op: "insert_video", Parent: moduleID, Title: fields.Title, Order: fields.OrderIndex}); err != nil {
		return "", err
	}
	id := s.id("video")
	s.videos[id] = videoRow{moduleID: moduleID, fields: fields, seq: s.nextID}
	return id, nil
}

func (s *memStore) UpdateVideo(ctx context.Context, id string, fields VideoFields) error {
	if err := s.record(call{Op: "update_video", ID: id, Title: fields.Title, Order: fields.OrderIndex}); err != nil {
		return err
	}
	row := s.videos[id]
	row.fields = fields
	s.videos[id] = row
	return nil
}

func (s *memStore) DeleteVideosExcept(ctx context.Context, moduleID string, keepIDs []string) error {
	if err := s.record(call{Op: "delete_videos_except", ID: moduleID, Keep: keepIDs}); err != nil {
		return err
	}
	keep := toSet(keepIDs)
	for vid, v := range s.videos {
		if v.moduleID != moduleID {
			continue
		}
		if _, ok := keep[vid]; !ok {
			delete(s.videos, vid)
		}
	}
	return nil
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// txStore adds all-or-nothing transactions on top of memStore.
type txStore struct {
	*memStore
}

func (s *txStore) WithinTx(ctx context.Context, fn func(Persistence) error) error {
	courses := make(map[string]CourseFields, len(s.courses))
	for k, v := range s.courses {
		courses[k] = v
	}
	modules := make(map[string]moduleRow, len(s.modules))
	for k, v := range s.modules {
		modules[k] = v
	}
	videos := make(map[string]videoRow, len(s.videos))
	for k, v := range s.videos {
		videos[k] = v
	}

	if err := fn(s.memStore); err != nil {
		s.courses, s.modules, s.videos = courses, modules, videos
		return err
	}
	return nil
}

// seedCourse stores a course with the given module titles, each with one video.
func seedCourse(s *memStore, moduleTitles ...string) string {
	ctx := context.Background()
	courseID, _ := s.InsertCourse(ctx, CourseFields{Title: "Go", Description: "Learn Go", Category: course.CategoryBeginner})
	for i, title := range moduleTitles {
		mid, _ := s.InsertModule(ctx, courseID, ModuleFields{Title: title, OrderIndex: i})
		_, _ = s.InsertVideo(ctx, mid, VideoFields{Title: title + " intro", SourceURL: "https://youtu.be/" + title, OrderIndex: 0})
	}
	s.calls = nil
	return courseID
}
