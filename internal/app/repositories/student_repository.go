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

var studentColumns = []string{
	"s.id", "s.rut", "s.first_name", "s.last_name", "COALESCE(s.social_name, '')",
	"s.admission_year", "s.plan_id", "s.is_temporary", "s.created_at",
}

// StudentRepository handles student database operations
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new StudentRepository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanStudent(row pgx.Row, s *models.Student) error {
	return row.Scan(&s.ID, &s.RUT, &s.FirstName, &s.LastName, &s.SocialName,
		&s.AdmissionYear, &s.PlanID, &s.IsTemporary, &s.CreatedAt)
}

// GetAll returns every student ordered by id
func (r *StudentRepository) GetAll(ctx context.Context) ([]models.Student, error) {
	sql, args, err := r.sb.Select(studentColumns...).
		From("students s").
		OrderBy("s.id").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get all students SQL")
		return nil, fmt.Errorf("failed to build get all students query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying students")
		return nil, fmt.Errorf("error querying students: %w", err)
	}
	defer rows.Close()

	students := []models.Student{}
	for rows.Next() {
		var s models.Student
		if err := scanStudent(rows, &s); err != nil {
			logger.Error().Err(err).Msg("Error scanning student row")
			return nil, fmt.Errorf("error scanning student: %w", err)
		}
		students = append(students, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating students: %w", err)
	}

	return students, nil
}

// GetByID retrieves a student together with its study plan
func (r *StudentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	columns := append(append([]string{}, studentColumns...), "p.id", "p.title", "p.year", "p.code")
	sql, args, err := r.sb.Select(columns...).
		From("students s").
		Join("study_plans p ON p.id = s.plan_id").
		Where(squirrel.Eq{"s.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get student by ID SQL")
		return nil, fmt.Errorf("failed to build get student query: %w", err)
	}

	var s models.Student
	var plan models.StudyPlan
	err = r.db.QueryRow(ctx, sql, args...).Scan(&s.ID, &s.RUT, &s.FirstName, &s.LastName, &s.SocialName,
		&s.AdmissionYear, &s.PlanID, &s.IsTemporary, &s.CreatedAt,
		&plan.ID, &plan.Title, &plan.Year, &plan.Code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("studentID", id).Msg("Student not found")
			return nil, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", id).Msg("Error scanning student row")
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}

	s.Plan = &plan
	return &s, nil
}

// Create inserts a student and fills its ID and CreatedAt
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	var socialName interface{}
	if student.SocialName != "" {
		socialName = student.SocialName
	}

	sql, args, err := r.sb.Insert("students").
		Columns("rut", "first_name", "last_name", "social_name", "admission_year", "plan_id", "is_temporary").
		Values(student.RUT, student.FirstName, student.LastName, socialName,
			student.AdmissionYear, student.PlanID, student.IsTemporary).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create student SQL")
		return fmt.Errorf("failed to build create student query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&student.ID, &student.CreatedAt)
	if err != nil {
		if dberrors.IsForeignKeyViolation(err) {
			logger.Warn().Int64("planID", student.PlanID).Msg("Attempted to create student with unknown plan")
			return apperrors.ErrStudyPlanNotFound
		}
		logger.Error().Err(err).Str("rut", student.RUT).Msg("Error executing create student query")
		return fmt.Errorf("error creating student: %w", err)
	}

	logger.Info().
		Int64("studentID", student.ID).
		Str("rut", student.RUT).
		Bool("temporary", student.IsTemporary).
		Msg("Student created successfully")
	return nil
}
