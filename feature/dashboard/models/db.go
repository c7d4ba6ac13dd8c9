package models

import (
	"time"

	coursemodels "course-studio/feature/courses/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Enrollment links a learner to a course. CompletedAt is set once every video of
// the course has been watched.
type Enrollment struct {
	ID          string               `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID      string               `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_enrollment_user_course"`
	CourseID    string               `gorm:"column:course_id;type:varchar(36);not null;uniqueIndex:idx_enrollment_user_course"`
	EnrolledAt  time.Time            `gorm:"column:enrolled_at;autoCreateTime"`
	CompletedAt *time.Time           `gorm:"column:completed_at"`
	Course      *coursemodels.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

func (e *Enrollment) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

// VideoProgress records that a learner watched a video.
type VideoProgress struct {
	ID        string              `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID    string              `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_progress_user_video"`
	VideoID   string              `gorm:"column:video_id;type:varchar(36);not null;uniqueIndex:idx_progress_user_video"`
	WatchedAt time.Time           `gorm:"column:watched_at;autoCreateTime"`
	Video     *coursemodels.Video `gorm:"foreignKey:VideoID;constraint:OnDelete:CASCADE"`
}

func (VideoProgress) TableName() string {
	return "video_progress"
}

func (p *VideoProgress) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// Certificate is issued once per learner and completed course.
type Certificate struct {
	ID       string               `gorm:"primaryKey;column:id;type:varchar(36)"`
	UserID   string               `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex:idx_certificate_user_course"`
	CourseID string               `gorm:"column:course_id;type:varchar(36);not null;uniqueIndex:idx_certificate_user_course"`
	IssuedAt time.Time            `gorm:"column:issued_at;autoCreateTime"`
	Course   *coursemodels.Course `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Certificate) TableName() string {
	return "certificates"
}

func (c *Certificate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// All returns the models in migration order. The course tables must be migrated first.
func All() []any {
	return []any{&Enrollment{}, &VideoProgress{}, &Certificate{}}
}
