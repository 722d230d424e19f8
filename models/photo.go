package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Photo is a single uploaded image inside a gallery. The image code is the
// human readable identifier derived from the uploaded filename; re-uploading
// the same code overwrites the existing row and binary.
type Photo struct {
	ID          string    `gorm:"type:uuid;primaryKey" json:"id"`
	GalleryID   string    `gorm:"type:uuid;not null;index;uniqueIndex:idx_gallery_image_code" json:"gallery_id"`
	ImageCode   string    `gorm:"size:255;not null;uniqueIndex:idx_gallery_image_code" json:"image_code"`
	StoragePath string    `gorm:"size:1024;not null" json:"storage_path"`
	Width       *int      `json:"width"`
	Height      *int      `json:"height"`
	CreatedAt   time.Time `json:"created_at"`

	// PublicURL is resolved from the storage backend, never persisted.
	PublicURL string `gorm:"-" json:"public_url,omitempty"`
}

func (Photo) TableName() string { return "gallery_photos" }

// BeforeCreate assigns a UUID primary key when absent.
func (p *Photo) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	return nil
}
