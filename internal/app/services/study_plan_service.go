package services

import (
	"context"
	"fmt"

	"github.com/yigit/egresados/internal/app/models"
)

// StudyPlanRepository is the storage used by StudyPlanService
type StudyPlanRepository interface {
	GetAll(ctx context.Context) ([]models.StudyPlan, error)
}

// StudyPlanService exposes the study plan catalog
type StudyPlanService struct {
	repo StudyPlanRepository
}

// NewStudyPlanService creates a new study plan service instance
func NewStudyPlanService(repo StudyPlanRepository) *StudyPlanService {
	return &StudyPlanService{repo: repo}
}

// GetCatalog loads the full catalog
func (s *StudyPlanService) GetCatalog(ctx context.Context) ([]models.StudyPlan, error) {
	plans, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving study plans: %w", err)
	}
	return plans, nil
}
