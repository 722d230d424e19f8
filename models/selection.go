package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Selection marks an image code as a client favorite within a gallery.
// It references photos by code only; a selection may outlive the photo it
// points at and simply becomes orphaned.
type Selection struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	GalleryID  string    `gorm:"type:uuid;not null;index" json:"gallery_id"`
	ImageCode  string    `gorm:"size:255;not null" json:"image_code"`
	SelectedAt time.Time `json:"selected_at"`
}

func (Selection) TableName() string { return "photo_selections" }

// BeforeCreate assigns a UUID primary key when absent.
func (s *Selection) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.SelectedAt.IsZero() {
		s.SelectedAt = time.Now()
	}
	return nil
}
