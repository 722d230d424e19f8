package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project is a portfolio entry shown on the public site.
type Project struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	Slug        string    `gorm:"size:128;not null;uniqueIndex" json:"slug"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	ImageURL    string    `gorm:"size:1024" json:"image_url"`
	ProjectURL  string    `gorm:"size:1024" json:"project_url"`
	SortOrder   int       `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Project) TableName() string { return "projects" }

// BeforeCreate assigns a UUID primary key when absent.
func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}
