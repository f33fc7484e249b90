package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/logger"
	"github.com/yigit/egresados/internal/pkg/validation"
)

// StudentRepository is the storage used by StudentService
type StudentRepository interface {
	GetAll(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
}

// StudentService handles student directory operations
type StudentService struct {
	repo     StudentRepository
	validate *validator.Validate
}

// NewStudentService creates a new student service instance
func NewStudentService(repo StudentRepository) *StudentService {
	return &StudentService{
		repo:     repo,
		validate: validator.New(),
	}
}

// ListAll returns every student
func (s *StudentService) ListAll(ctx context.Context) ([]models.Student, error) {
	students, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving students: %w", err)
	}
	return students, nil
}

// GetByID retrieves a student with its plan
func (s *StudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	if id <= 0 {
		return nil, validationError("invalid student ID")
	}
	return s.repo.GetByID(ctx, id)
}

// Create validates req and stores a new student. The RUT is free text: an
// unusual shape or a RUT shared with another student is logged, not rejected.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	req.RUT = strings.TrimSpace(req.RUT)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if err := s.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "invalid student data").
				WithStatusCode(http.StatusBadRequest).
				WithDetails(fieldErrorDetails(fieldErrs))
		}
		return nil, fmt.Errorf("error validating student: %w", err)
	}
	if !req.Temporary && !validation.IsRUT(req.RUT) {
		logger.Warn().Str("rut", req.RUT).Msg("Creating student with an unusual RUT")
	}

	student := &models.Student{
		RUT:           req.RUT,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		SocialName:    strings.TrimSpace(req.SocialName),
		AdmissionYear: req.AdmissionYear,
		PlanID:        req.PlanID,
		IsTemporary:   req.Temporary,
	}
	if err := s.repo.Create(ctx, student); err != nil {
		if errors.Is(err, apperrors.ErrStudyPlanNotFound) {
			return nil, apperrors.NewCustomError(err, "study plan not found").
				WithStatusCode(http.StatusNotFound)
		}
		logger.Error().Err(err).Str("rut", req.RUT).Msg("Error creating student")
		return nil, fmt.Errorf("error creating student: %w", err)
	}
	return student, nil
}

func validationError(message string) *apperrors.CustomError {
	return apperrors.NewCustomError(apperrors.ErrValidationFailed, message).
		WithStatusCode(http.StatusBadRequest)
}

func fieldErrorDetails(errs validator.ValidationErrors) map[string]interface{} {
	details := make(map[string]interface{}, len(errs))
	for _, fe := range errs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
