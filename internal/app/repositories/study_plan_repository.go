package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/dberrors"
	"github.com/yigit/egresados/internal/pkg/logger"
)

// StudyPlanRepository handles study plan catalog operations
type StudyPlanRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudyPlanRepository creates a new StudyPlanRepository
func NewStudyPlanRepository(db *pgxpool.Pool) *StudyPlanRepository {
	return &StudyPlanRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// GetAll returns the whole catalog ordered by id
func (r *StudyPlanRepository) GetAll(ctx context.Context) ([]models.StudyPlan, error) {
	sql, args, err := r.sb.Select("id", "title", "year", "code").
		From("study_plans").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all study plans query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying study plans")
		return nil, fmt.Errorf("error querying study plans: %w", err)
	}
	defer rows.Close()

	plans := []models.StudyPlan{}
	for rows.Next() {
		var p models.StudyPlan
		if err := rows.Scan(&p.ID, &p.Title, &p.Year, &p.Code); err != nil {
			return nil, fmt.Errorf("error scanning study plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// GetByID retrieves one plan
func (r *StudyPlanRepository) GetByID(ctx context.Context, id int64) (*models.StudyPlan, error) {
	sql, args, err := r.sb.Select("id", "title", "year", "code").
		From("study_plans").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get study plan query: %w", err)
	}

	var p models.StudyPlan
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&p.ID, &p.Title, &p.Year, &p.Code); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudyPlanNotFound
		}
		return nil, fmt.Errorf("error retrieving study plan: %w", err)
	}
	return &p, nil
}

// Create inserts a plan and fills its ID
func (r *StudyPlanRepository) Create(ctx context.Context, plan *models.StudyPlan) error {
	sql, args, err := r.sb.Insert("study_plans").
		Columns("title", "year", "code").
		Values(plan.Title, plan.Year, plan.Code).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build create study plan query: %w", err)
	}

	if err := r.db.QueryRow(ctx, sql, args...).Scan(&plan.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "study_plans_code_key") {
			return apperrors.ErrStudyPlanAlreadyExists
		}
		logger.Error().Err(err).Str("code", plan.Code).Msg("Error creating study plan")
		return fmt.Errorf("error creating study plan: %w", err)
	}
	return nil
}
