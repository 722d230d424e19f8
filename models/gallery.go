package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Gallery is a PIN-protected collection of client photos.
// Only the keyed hash of the PIN is persisted; the plaintext PIN is
// returned exactly once at creation time.
type Gallery struct {
	ID          string      `gorm:"type:uuid;primaryKey" json:"id"`
	Title       *string     `gorm:"size:255" json:"title"`
	Description *string     `gorm:"type:text" json:"description"`
	EventDate   *string     `gorm:"size:64" json:"event_date"`
	PinHash     string      `gorm:"size:64;not null;uniqueIndex" json:"-"`
	CreatedAt   time.Time   `json:"created_at"`
	Photos      []Photo     `gorm:"foreignKey:GalleryID" json:"-"`
	Selections  []Selection `gorm:"foreignKey:GalleryID" json:"-"`
}

// TableName keeps the table name aligned with the hosted schema.
func (Gallery) TableName() string { return "galleries" }

// BeforeCreate assigns a UUID primary key when absent.
func (g *Gallery) BeforeCreate(tx *gorm.DB) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	return nil
}
