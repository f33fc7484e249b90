package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/logger"
)

// ImportRunRepository stores import run bookkeeping
type ImportRunRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewImportRunRepository creates a new ImportRunRepository
func NewImportRunRepository(db *pgxpool.Pool) *ImportRunRepository {
	return &ImportRunRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create inserts a run in the running state
func (r *ImportRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	sql, args, err := r.sb.Insert("import_runs").
		Columns("id", "file_name", "status", "started_at").
		Values(run.ID, run.FileName, run.Status, run.StartedAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create import run query: %w", err)
	}

	if _, err := r.db.Exec(ctx, sql, args...); err != nil {
		logger.Error().Err(err).Str("runID", run.ID.String()).Msg("Error creating import run")
		return fmt.Errorf("error creating import run: %w", err)
	}
	return nil
}

// Finish stores the final status, counts and report path of a run
func (r *ImportRunRepository) Finish(ctx context.Context, run *models.ImportRun) error {
	sql, args, err := r.sb.Update("import_runs").
		SetMap(map[string]interface{}{
			"status":           run.Status,
			"total_rows":       run.TotalRows,
			"created":          run.Created,
			"updated":          run.Updated,
			"failed":           run.Failed,
			"students_created": run.StudentsCreated,
			"not_found":        run.NotFound,
			"duplicated":       run.Duplicated,
			"report_path":      nullable(run.ReportPath),
			"error_message":    nullable(run.ErrorMessage),
			"finished_at":      run.FinishedAt,
		}).
		Where(squirrel.Eq{"id": run.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build finish import run query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Str("runID", run.ID.String()).Msg("Error finishing import run")
		return fmt.Errorf("error finishing import run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrImportRunNotFound
	}
	return nil
}

// GetByID retrieves a run
func (r *ImportRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ImportRun, error) {
	sql, args, err := r.sb.Select("id", "file_name", "status", "total_rows", "created", "updated", "failed",
		"students_created", "not_found", "duplicated", "COALESCE(report_path, '')", "COALESCE(error_message, '')",
		"started_at", "finished_at").
		From("import_runs").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get import run query: %w", err)
	}

	var run models.ImportRun
	err = r.db.QueryRow(ctx, sql, args...).Scan(&run.ID, &run.FileName, &run.Status, &run.TotalRows,
		&run.Created, &run.Updated, &run.Failed, &run.StudentsCreated, &run.NotFound, &run.Duplicated,
		&run.ReportPath, &run.ErrorMessage, &run.StartedAt, &run.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrImportRunNotFound
		}
		return nil, fmt.Errorf("error retrieving import run: %w", err)
	}
	return &run, nil
}

func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
