package courses

import (
	"context"
	"errors"

	"course-studio/core/course"
	"course-studio/core/reconcile"
	"course-studio/feature/courses/models"

	"gorm.io/gorm"
)

var (
	_ reconcile.Persistence = (*Repository)(nil)
	_ reconcile.Transactor  = (*Repository)(nil)
)

// Repository is the GORM backed store of course trees.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithinTx runs fn against a repository bound to one transaction. fn's error rolls
// the transaction back.
func (r *Repository) WithinTx(ctx context.Context, fn func(reconcile.Persistence) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

// GetCourse loads a course with its modules and videos, ordered by order_index.
func (r *Repository) GetCourse(ctx context.Context, id string) (*course.Course, error) {
	var row models.Course
	err := r.db.WithContext(ctx).
		Preload("Modules", func(db *gorm.DB) *gorm.DB { return db.Order("order_index, created_at") }).
		Preload("Modules.Videos", func(db *gorm.DB) *gorm.DB { return db.Order("order_index, created_at") }).
		Where("id = ?", id).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, course.ErrNotFound
	}
	if err != nil {
		return nil, course.Wrap("get_course", err)
	}

	out := toCourse(row)
	return &out, nil
}

type summaryRow struct {
	ID          string
	Title       string
	Description string
	Category    string
	ModuleCount int
	VideoCount  int
}

// ListCourses returns catalogue rows, newest first.
func (r *Repository) ListCourses(ctx context.Context) ([]course.Summary, error) {
	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Select(`courses.id, courses.title, courses.description, courses.category,
			(SELECT COUNT(*) FROM modules WHERE modules.course_id = courses.id) AS module_count,
			(SELECT COUNT(*) FROM videos JOIN modules ON modules.id = videos.module_id WHERE modules.course_id = courses.id) AS video_count`).
		Order("courses.created_at DESC, courses.id").
		Scan(&rows).Error
	if err != nil {
		return nil, course.Wrap("list_courses", err)
	}

	out := make([]course.Summary, 0, len(rows))
	for _, row := range rows {
		out = append(out, course.Summary{
			ID:          row.ID,
			Title:       row.Title,
			Description: row.Description,
			Category:    course.Category(row.Category),
			ModuleCount: row.ModuleCount,
			VideoCount:  row.VideoCount,
		})
	}
	return out, nil
}

func (r *Repository) InsertCourse(ctx context.Context, fields reconcile.CourseFields) (string, error) {
	row := models.Course{
		Title:       fields.Title,
		Description: fields.Description,
		Category:    string(fields.Category),
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", course.Wrap("insert_course", err)
	}
	return row.ID, nil
}

func (r *Repository) UpdateCourse(ctx context.Context, id string, fields reconcile.CourseFields) error {
	res := r.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", id).Updates(map[string]any{
		"title":       fields.Title,
		"description": fields.Description,
		"category":    string(fields.Category),
	})
	if res.Error != nil {
		return course.Wrap("update_course", res.Error)
	}
	if res.RowsAffected == 0 {
		return course.ErrNotFound
	}
	return nil
}

// DeleteCourse removes a course and everything under it.
func (r *Repository) DeleteCourse(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := deleteModules(tx, id, nil); err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&models.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return course.ErrNotFound
		}
		return nil
	})
	return course.Wrap("delete_course", err)
}

func (r *Repository) InsertModule(ctx context.Context, courseID string, fields reconcile.ModuleFields) (string, error) {
	row := models.Module{
		CourseID:    courseID,
		Title:       fields.Title,
		Description: fields.Description,
		OrderIndex:  fields.OrderIndex,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", course.Wrap("insert_module", err)
	}
	return row.ID, nil
}

func (r *Repository) UpdateModule(ctx context.Context, id string, fields reconcile.ModuleFields) error {
	err := r.db.WithContext(ctx).Model(&models.Module{}).Where("id = ?", id).Updates(map[string]any{
		"title":       fields.Title,
		"description": fields.Description,
		"order_index": fields.OrderIndex,
	}).Error
	return course.Wrap("update_module", err)
}

// DeleteModulesExcept deletes the course's modules not in keepIDs, and their videos.
func (r *Repository) DeleteModulesExcept(ctx context.Context, courseID string, keepIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteModules(tx, courseID, keepIDs)
	})
	return course.Wrap("delete_modules_except", err)
}

// deleteModules removes videos before modules so the cascade also holds where the
// driver does not enforce foreign keys.
func deleteModules(tx *gorm.DB, courseID string, keepIDs []string) error {
	doomed := tx.Model(&models.Module{}).Select("id").Where("course_id = ?", courseID)
	if len(keepIDs) > 0 {
		doomed = doomed.Where("id NOT IN ?", keepIDs)
	}
	if err := tx.Where("module_id IN (?)", doomed).Delete(&models.Video{}).Error; err != nil {
		return err
	}

	q := tx.Where("course_id = ?", courseID)
	if len(keepIDs) > 0 {
		q = q.Where("id NOT IN ?", keepIDs)
	}
	return q.Delete(&models.Module{}).Error
}

func (r *Repository) InsertVideo(ctx context.Context, moduleID string, fields reconcile.VideoFields) (string, error) {
	row := models.Video{
		ModuleID:   moduleID,
		Title:      fields.Title,
		YoutubeURL: fields.SourceURL,
		OrderIndex: fields.OrderIndex,
	}
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", course.Wrap("insert_video", err)
	}
	return row.ID, nil
}

func (r *Repository) UpdateVideo(ctx context.Context, id string, fields reconcile.VideoFields) error {
	err := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", id).Updates(map[string]any{
		"title":       fields.Title,
		"youtube_url": fields.SourceURL,
		"order_index": fields.OrderIndex,
	}).Error
	return course.Wrap("update_video", err)
}

func (r *Repository) DeleteVideosExcept(ctx context.Context, moduleID string, keepIDs []string) error {
	q := r.db.WithContext(ctx).Where("module_id = ?", moduleID)
	if len(keepIDs) > 0 {
		q = q.Where("id NOT IN ?", keepIDs)
	}
	return course.Wrap("delete_videos_except", q.Delete(&models.Video{}).Error)
}

func toCourse(row models.Course) course.Course {
	out := course.Course{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		Category:    course.Category(row.Category),
		Modules:     make([]course.Module, 0, len(row.Modules)),
	}
	for _, m := range row.Modules {
		mod := course.Module{
			ID:          m.ID,
			Title:       m.Title,
			Description: m.Description,
			OrderIndex:  m.OrderIndex,
			Videos:      make([]course.Video, 0, len(m.Videos)),
		}
		for _, v := range m.Videos {
			mod.Videos = append(mod.Videos, course.Video{
				ID:         v.ID,
				Title:      v.Title,
				SourceURL:  v.YoutubeURL,
				OrderIndex: v.OrderIndex,
			})
		}
		out.Modules = append(out.Modules, mod)
	}
	return out
}
