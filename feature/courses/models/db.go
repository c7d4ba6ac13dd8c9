package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Course is a row of the courses table.
type Course struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	Title       string    `gorm:"column:title;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text;not null"`
	Category    string    `gorm:"column:category;type:varchar(20);not null;index"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
	Modules     []Module  `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE"`
}

func (Course) TableName() string {
	return "courses"
}

// BeforeCreate assigns the uuid primary key.
func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Module is a row of the modules table.
type Module struct {
	ID          string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	CourseID    string    `gorm:"column:course_id;type:varchar(36);not null;index"`
	Title       string    `gorm:"column:title;type:varchar(255);not null"`
	Description string    `gorm:"column:description;type:text"`
	OrderIndex  int       `gorm:"column:order_index;not null;default:0"`
	CreatedAt   time.Time `gorm:"column:created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
	Videos      []Video   `gorm:"foreignKey:ModuleID;constraint:OnDelete:CASCADE"`
}

func (Module) TableName() string {
	return "modules"
}

func (m *Module) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// Video is a row of the videos table. The source URL column keeps its historical
// youtube_url name.
type Video struct {
	ID         string    `gorm:"primaryKey;column:id;type:varchar(36)"`
	ModuleID   string    `gorm:"column:module_id;type:varchar(36);not null;index"`
	Title      string    `gorm:"column:title;type:varchar(255);not null"`
	YoutubeURL string    `gorm:"column:youtube_url;type:varchar(1024);not null"`
	OrderIndex int       `gorm:"column:order_index;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Video) TableName() string {
	return "videos"
}

func (v *Video) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// All returns the models in migration order.
func All() []any {
	return []any{&Course{}, &Module{}, &Video{}}
}
