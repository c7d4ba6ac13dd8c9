package dashboard

import (
	"context"
	"errors"
	"time"

	"course-studio/core/course"
	"course-studio/core/session"
	coursemodels "course-studio/feature/courses/models"
	"course-studio/feature/dashboard/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	// ErrVideoNotFound is returned when a watched video id does not exist.
	ErrVideoNotFound = errors.New("video not found")
	// ErrNotEnrolled is returned when progress is recorded for a course the learner
	// is not enrolled in.
	ErrNotEnrolled = errors.New("not enrolled in course")
)

// CourseProgress is an enrollment with its watch progress.
type CourseProgress struct {
	EnrollmentID  string          `json:"enrollment_id"`
	CourseID      string          `json:"course_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Category      course.Category `json:"category"`
	EnrolledAt    time.Time       `json:"enrolled_at"`
	CompletedAt   *time.Time      `json:"completed_at"`
	TotalVideos   int             `json:"total_videos"`
	WatchedVideos int             `json:"watched_videos"`
	Progress      float64         `json:"progress"`
}

// CertificateView is an issued certificate.
type CertificateView struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"course_id"`
	CourseTitle string    `json:"course_title"`
	IssuedAt    time.Time `json:"issued_at"`
}

// Stats are the dashboard counters.
type Stats struct {
	Enrolled     int `json:"enrolled"`
	InProgress   int `json:"in_progress"`
	Completed    int `json:"completed"`
	Certificates int `json:"certificates"`
}

// Dashboard is the learner's overview.
type Dashboard struct {
	Stats        Stats             `json:"stats"`
	Courses      []CourseProgress  `json:"courses"`
	Certificates []CertificateView `json:"certificates"`
}

// Percent returns watched as a percentage of total, 0 when the course has no videos.
func Percent(watched, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(watched) / float64(total) * 100
}

// Service records learner progress.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new dashboard service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger,
	}
}

// Enroll enrolls the session's user in a course. Enrolling twice returns the
// existing enrollment.
func (s *Service) Enroll(ctx context.Context, sess session.Session, courseID string) (*CourseProgress, error) {
	db := s.db.WithContext(ctx)

	var count int64
	if err := db.Model(&coursemodels.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
		return nil, course.Wrap("enroll", err)
	}
	if count == 0 {
		return nil, course.ErrNotFound
	}

	row := models.Enrollment{}
	if err := db.Where(models.Enrollment{UserID: sess.UserID, CourseID: courseID}).FirstOrCreate(&row).Error; err != nil {
		return nil, course.Wrap("enroll", err)
	}
	return s.progress(db, row.ID)
}

// MarkWatched records a watched video. Watching the last unwatched video of a
// course completes the enrollment and issues the certificate.
func (s *Service) MarkWatched(ctx context.Context, sess session.Session, videoID string) (*CourseProgress, error) {
	var out *CourseProgress
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var courseIDs []string
		err := tx.Model(&coursemodels.Video{}).
			Joins("JOIN modules ON modules.id = videos.module_id").
			Where("videos.id = ?", videoID).
			Pluck("modules.course_id", &courseIDs).Error
		if err != nil {
			return err
		}
		if len(courseIDs) == 0 {
			return ErrVideoNotFound
		}

		var enrollment models.Enrollment
		err = tx.Where("user_id = ? AND course_id = ?", sess.UserID, courseIDs[0]).First(&enrollment).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotEnrolled
		}
		if err != nil {
			return err
		}

		watched := models.VideoProgress{}
		if err := tx.Where(models.VideoProgress{UserID: sess.UserID, VideoID: videoID}).FirstOrCreate(&watched).Error; err != nil {
			return err
		}

		p, err := s.progress(tx, enrollment.ID)
		if err != nil {
			return err
		}
		if p.CompletedAt == nil && p.TotalVideos > 0 && p.WatchedVideos >= p.TotalVideos {
			if err := s.complete(tx, &enrollment); err != nil {
				return err
			}
			p.CompletedAt = enrollment.CompletedAt
		}
		out = p
		return nil
	})
	if errors.Is(err, ErrVideoNotFound) || errors.Is(err, ErrNotEnrolled) {
		return nil, err
	}
	if err != nil {
		return nil, course.Wrap("mark_watched", err)
	}
	return out, nil
}

// complete marks the enrollment completed and issues its certificate.
func (s *Service) complete(tx *gorm.DB, enrollment *models.Enrollment) error {
	now := time.Now()
	if err := tx.Model(enrollment).Update("completed_at", now).Error; err != nil {
		return err
	}
	enrollment.CompletedAt = &now

	cert := models.Certificate{}
	if err := tx.Where(models.Certificate{UserID: enrollment.UserID, CourseID: enrollment.CourseID}).FirstOrCreate(&cert).Error; err != nil {
		return err
	}
	s.logger.Info("Course completed",
		zap.String("user", enrollment.UserID),
		zap.String("course", enrollment.CourseID),
		zap.String("certificate", cert.ID))
	return nil
}

// Dashboard returns the session user's enrollments, progress and certificates.
func (s *Service) Dashboard(ctx context.Context, sess session.Session) (*Dashboard, error) {
	db := s.db.WithContext(ctx)

	var enrollments []models.Enrollment
	if err := db.Where("user_id = ?", sess.UserID).Order("enrolled_at DESC").Find(&enrollments).Error; err != nil {
		return nil, course.Wrap("dashboard", err)
	}

	out := &Dashboard{Courses: []CourseProgress{}, Certificates: []CertificateView{}}
	for _, e := range enrollments {
		p, err := s.progress(db, e.ID)
		if err != nil {
			return nil, err
		}
		out.Courses = append(out.Courses, *p)
		switch {
		case p.CompletedAt != nil:
			out.Stats.Completed++
		case p.Progress > 0:
			out.Stats.InProgress++
		}
	}
	out.Stats.Enrolled = len(out.Courses)

	var certs []models.Certificate
	if err := db.Preload("Course").Where("user_id = ?", sess.UserID).Order("issued_at DESC").Find(&certs).Error; err != nil {
		return nil, course.Wrap("dashboard", err)
	}
	for _, c := range certs {
		view := CertificateView{ID: c.ID, CourseID: c.CourseID, IssuedAt: c.IssuedAt}
		if c.Course != nil {
			view.CourseTitle = c.Course.Title
		}
		out.Certificates = append(out.Certificates, view)
	}
	out.Stats.Certificates = len(out.Certificates)
	return out, nil
}

// progress loads an enrollment with its course and counts its videos.
func (s *Service) progress(db *gorm.DB, enrollmentID string) (*CourseProgress, error) {
	var e models.Enrollment
	if err := db.Preload("Course").Where("id = ?", enrollmentID).First(&e).Error; err != nil {
		return nil, course.Wrap("progress", err)
	}

	var total, watched int64
	err := db.Model(&coursemodels.Video{}).
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("modules.course_id = ?", e.CourseID).
		Count(&total).Error
	if err != nil {
		return nil, course.Wrap("progress", err)
	}
	err = db.Model(&models.VideoProgress{}).
		Joins("JOIN videos ON videos.id = video_progress.video_id").
		Joins("JOIN modules ON modules.id = videos.module_id").
		Where("video_progress.user_id = ? AND modules.course_id = ?", e.UserID, e.CourseID).
		Count(&watched).Error
	if err != nil {
		return nil, course.Wrap("progress", err)
	}

	p := &CourseProgress{
		EnrollmentID:  e.ID,
		CourseID:      e.CourseID,
		EnrolledAt:    e.EnrolledAt,
		CompletedAt:   e.CompletedAt,
		TotalVideos:   int(total),
		WatchedVideos: int(watched),
		Progress:      Percent(int(watched), int(total)),
	}
	if e.Course != nil {
		p.Title = e.Course.Title
		p.Description = e.Course.Description
		p.Category = course.Category(e.Course.Category)
	}
	return p, nil
}
