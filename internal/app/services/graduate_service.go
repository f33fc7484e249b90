package services

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/filestorage"
	"github.com/yigit/egresados/internal/pkg/logger"
)

// GraduateRepository is the storage used by GraduateService
type GraduateRepository interface {
	GetAll(ctx context.Context) ([]models.GraduateRecord, error)
	GetByStudentID(ctx context.Context, studentID int64) (*models.GraduateRecord, error)
	UpdateByStudentID(ctx context.Context, studentID int64, columns map[string]interface{}) error
	Create(ctx context.Context, studentID int64, columns map[string]interface{}, docs []models.GraduateDocument) (int64, error)
}

// GraduateService handles graduate follow-up records
type GraduateService struct {
	repo    GraduateRepository
	storage filestorage.FileStorage
}

// NewGraduateService creates a new graduate service instance
func NewGraduateService(repo GraduateRepository, storage filestorage.FileStorage) *GraduateService {
	return &GraduateService{repo: repo, storage: storage}
}

// ListAll returns every graduate record
func (s *GraduateService) ListAll(ctx context.Context) ([]models.GraduateRecord, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error retrieving graduates: %w", err)
	}
	return records, nil
}

// GetByStudent returns the record of a student, with document URLs filled in
func (s *GraduateService) GetByStudent(ctx context.Context, studentID int64) (*models.GraduateRecord, error) {
	record, err := s.repo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	for i := range record.Documents {
		record.Documents[i].FileURL = s.storage.URL(record.Documents[i].FilePath)
	}
	return record, nil
}

// UpdateByStudent applies a partial update. It fails with ErrGraduateNotFound
// when the student has no record yet.
func (s *GraduateService) UpdateByStudent(ctx context.Context, studentID int64, payload importer.Payload) (*models.GraduateRecord, error) {
	columns, err := toColumns(importer.Sanitize(payload))
	if err != nil {
		return nil, err
	}
	clearStaleOther(columns)

	if err := s.repo.UpdateByStudentID(ctx, studentID, columns); err != nil {
		if errors.Is(err, apperrors.ErrGraduateNotFound) {
			return nil, apperrors.NewCustomError(err, "graduate record not found").
				WithStatusCode(http.StatusNotFound)
		}
		return nil, fmt.Errorf("error updating graduate: %w", err)
	}
	return s.GetByStudent(ctx, studentID)
}

// CreateWithAttachments creates the student's record and stores its documents.
// Stored files are removed again when the record cannot be created.
func (s *GraduateService) CreateWithAttachments(ctx context.Context, studentID int64, payload importer.Payload, files []*multipart.FileHeader) (*models.GraduateRecord, error) {
	if studentID <= 0 {
		return nil, validationError("invalid student ID")
	}
	columns, err := toColumns(importer.Sanitize(payload))
	if err != nil {
		return nil, err
	}

	docs := make([]models.GraduateDocument, 0, len(files))
	for _, fh := range files {
		key, err := s.storage.SaveFileWithPath(fh, fmt.Sprintf("graduates/%d", studentID))
		if err != nil {
			s.discard(docs)
			return nil, fmt.Errorf("error storing attachment %s: %w", fh.Filename, err)
		}
		docs = append(docs, models.GraduateDocument{
			FileName: fh.Filename,
			FilePath: key,
			FileSize: fh.Size,
			MimeType: fh.Header.Get("Content-Type"),
		})
	}

	if _, err := s.repo.Create(ctx, studentID, columns, docs); err != nil {
		s.discard(docs)
		switch {
		case errors.Is(err, apperrors.ErrGraduateAlreadyExists):
			return nil, apperrors.NewCustomError(err, "student already has a graduate record").
				WithStatusCode(http.StatusConflict)
		case errors.Is(err, apperrors.ErrStudentNotFound):
			return nil, apperrors.NewCustomError(err, "student not found").
				WithStatusCode(http.StatusNotFound)
		}
		return nil, fmt.Errorf("error creating graduate: %w", err)
	}
	return s.GetByStudent(ctx, studentID)
}

func (s *GraduateService) discard(docs []models.GraduateDocument) {
	for _, d := range docs {
		if err := s.storage.DeleteFile(d.FilePath); err != nil {
			logger.Warn().Err(err).Str("key", d.FilePath).Msg("Failed to remove orphaned attachment")
		}
	}
}

// toColumns maps a sanitized payload onto graduates columns, rejecting
// unknown fields and categorical values outside their allowed set.
func toColumns(payload importer.Payload) (map[string]interface{}, error) {
	columns := make(map[string]interface{}, len(payload))
	var unknown []string
	for field, value := range payload {
		column, ok := models.GraduateColumns[field]
		if !ok {
			unknown = append(unknown, field)
			continue
		}

		if field == models.GraduateFieldGraduationYear {
			year, ok := importer.ParseInt(fmt.Sprint(value))
			if !ok {
				return nil, validationError("graduationYear must be a number")
			}
			columns[column] = year
			continue
		}

		text := strings.TrimSpace(fmt.Sprint(value))
		if allowed, isEnum := importer.EnumSets[field]; isEnum && !contains(allowed, text) {
			return nil, validationError(fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
		}
		columns[column] = text
	}

	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, apperrors.NewCustomError(apperrors.ErrValidationFailed, "unknown graduate fields").
			WithStatusCode(http.StatusBadRequest).
			WithDetails(map[string]interface{}{"fields": unknown})
	}
	return columns, nil
}

// clearStaleOther nulls the Other column of every categorical field that is
// being set to a value other than Otro.
func clearStaleOther(columns map[string]interface{}) {
	for _, field := range models.GraduateEnumFields {
		value, ok := columns[models.GraduateColumns[field]]
		if !ok || value == importer.OtherValue {
			continue
		}
		columns[models.GraduateColumns[field+models.OtherSuffix]] = nil
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
