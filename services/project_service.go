package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/rixeldev/studio-api/models"
)

// ProjectService serves the public portfolio entries.
type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

// List returns all portfolio projects in display order.
func (s *ProjectService) List(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).
		Order("sort_order asc, created_at asc").
		Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}
