package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/filestorage"
	"github.com/yigit/egresados/internal/pkg/logger"
	"github.com/yigit/egresados/internal/pkg/spreadsheet"
)

// ImportRunRepository is the storage used by ImportService
type ImportRunRepository interface {
	Create(ctx context.Context, run *models.ImportRun) error
	Finish(ctx context.Context, run *models.ImportRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ImportRun, error)
}

// PlanCatalogSource loads the study plan catalog
type PlanCatalogSource interface {
	GetCatalog(ctx context.Context) ([]models.StudyPlan, error)
}

// ReportsDir is the storage sub path of unresolved rows reports
const ReportsDir = "reports"

// ImportService runs spreadsheet imports and keeps their bookkeeping
type ImportService struct {
	runs    ImportRunRepository
	plans   PlanCatalogSource
	engine  *importer.Engine
	storage filestorage.FileStorage
	read    spreadsheet.ReadOptions
	now     func() time.Time
}

// NewImportService creates a new import service instance
func NewImportService(runs ImportRunRepository, plans PlanCatalogSource, engine *importer.Engine,
	storage filestorage.FileStorage, read spreadsheet.ReadOptions) *ImportService {
	return &ImportService{
		runs:    runs,
		plans:   plans,
		engine:  engine,
		storage: storage,
		read:    read,
		now:     time.Now,
	}
}

// Import reads a workbook, reconciles its rows and stores the unresolved
// rows report. File-level failures are returned before any row is processed
// and leave the run in the failed state.
func (s *ImportService) Import(ctx context.Context, fileName string, r io.Reader) (*models.ImportRun, importer.Summary, error) {
	run := &models.ImportRun{
		ID:        uuid.New(),
		FileName:  fileName,
		Status:    models.ImportRunStatusRunning,
		StartedAt: s.now(),
	}
	if err := s.runs.Create(ctx, run); err != nil {
		return nil, importer.Summary{}, fmt.Errorf("error recording import run: %w", err)
	}
	log := logger.Component("import").With().Str("runID", run.ID.String()).Str("file", fileName).Logger()

	rows, err := spreadsheet.ReadRows(r, s.read)
	if err != nil {
		s.fail(ctx, run, err)
		return run, importer.Summary{}, fileError(err)
	}

	plans, err := s.plans.GetCatalog(ctx)
	if err != nil {
		s.fail(ctx, run, err)
		return run, importer.Summary{}, err
	}

	summary, runErr := s.engine.Run(ctx, rows, plans)
	applySummary(run, summary)

	if len(summary.Unresolved) > 0 {
		key, err := s.storeReport(summary.Unresolved)
		if err != nil {
			log.Error().Err(err).Msg("Failed to store unresolved rows report")
		} else {
			run.ReportPath = key
		}
	}

	if runErr != nil {
		s.fail(ctx, run, runErr)
		return run, summary, runErr
	}

	finished := s.now()
	run.Status = models.ImportRunStatusFinished
	run.FinishedAt = &finished
	if err := s.runs.Finish(ctx, run); err != nil {
		log.Error().Err(err).Msg("Failed to record import run result")
	}

	log.Info().
		Int("totalRows", summary.TotalRows).
		Int("unresolved", len(summary.Unresolved)).
		Bool("report", run.HasReport()).
		Msg("Import run finished")
	return run, summary, nil
}

// GetRun retrieves a run
func (s *ImportService) GetRun(ctx context.Context, id uuid.UUID) (*models.ImportRun, error) {
	return s.runs.GetByID(ctx, id)
}

// OpenReport opens the unresolved rows report of a run
func (s *ImportService) OpenReport(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.ImportRun, error) {
	run, err := s.runs.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if !run.HasReport() {
		return nil, run, apperrors.ErrReportNotAvailable
	}
	rc, err := s.storage.Open(run.ReportPath)
	if err != nil {
		return nil, run, fmt.Errorf("error opening report: %w", err)
	}
	return rc, run, nil
}

// ReportURL returns the public address of a run's report, if any
func (s *ImportService) ReportURL(run *models.ImportRun) string {
	if !run.HasReport() {
		return ""
	}
	return s.storage.URL(run.ReportPath)
}

func (s *ImportService) storeReport(rows []importer.UnresolvedRow) (string, error) {
	var buf bytes.Buffer
	if err := spreadsheet.WriteUnresolvedReport(&buf, rows); err != nil {
		return "", err
	}
	return s.storage.Save(&buf, ReportsDir, ".xlsx")
}

// fail records the run as failed. It runs detached from ctx so a cancelled
// request still leaves a final status behind.
func (s *ImportService) fail(ctx context.Context, run *models.ImportRun, cause error) {
	finished := s.now()
	run.Status = models.ImportRunStatusFailed
	run.ErrorMessage = cause.Error()
	run.FinishedAt = &finished
	if err := s.runs.Finish(context.WithoutCancel(ctx), run); err != nil {
		logger.Error().Err(err).Str("runID", run.ID.String()).Msg("Failed to record failed import run")
	}
}

func applySummary(run *models.ImportRun, summary importer.Summary) {
	run.TotalRows = summary.TotalRows
	run.Created = summary.Created
	run.Updated = summary.Updated
	run.Failed = summary.Failed
	run.StudentsCreated = summary.StudentsCreated
	run.NotFound = summary.NotFound
	run.Duplicated = summary.Duplicated
}

func fileError(err error) error {
	switch {
	case errors.Is(err, apperrors.ErrUnsupportedFileFormat):
		return apperrors.NewCustomError(err, "the file is not a readable xlsx workbook").
			WithStatusCode(http.StatusBadRequest)
	case errors.Is(err, apperrors.ErrEmptySpreadsheet):
		return apperrors.NewCustomError(err, "the spreadsheet has no data rows").
			WithStatusCode(http.StatusBadRequest)
	}
	return err
}
