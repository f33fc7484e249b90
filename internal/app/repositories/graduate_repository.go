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

var graduateColumns = []string{
	"g.id", "g.student_id", "TRIM(s.first_name || ' ' || s.last_name)",
	"COALESCE(g.email, '')", "COALESCE(g.phone, '')",
	"COALESCE(g.admission_channel, '')", "COALESCE(g.admission_channel_other, '')",
	"COALESCE(g.employment_status, '')", "COALESCE(g.employer, '')",
	"COALESCE(g.job_title, '')", "COALESCE(g.salary_range, '')",
	"COALESCE(g.employment_sector, '')", "COALESCE(g.employment_sector_other, '')",
	"COALESCE(g.establishment_type, '')", "COALESCE(g.establishment_type_other, '')",
	"COALESCE(g.graduation_year, 0)", "COALESCE(g.linkedin, '')", "COALESCE(g.comments, '')",
	"g.created_at", "g.updated_at",
}

// GraduateRepository handles graduate record operations
type GraduateRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewGraduateRepository creates a new GraduateRepository
func NewGraduateRepository(db *pgxpool.Pool) *GraduateRepository {
	return &GraduateRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanGraduate(row pgx.Row, g *models.GraduateRecord) error {
	return row.Scan(&g.ID, &g.StudentID, &g.StudentName, &g.Email, &g.Phone,
		&g.AdmissionChannel, &g.AdmissionChannelOther,
		&g.EmploymentStatus, &g.Employer, &g.JobTitle, &g.SalaryRange,
		&g.EmploymentSector, &g.EmploymentSectorOther,
		&g.EstablishmentType, &g.EstablishmentTypeOther,
		&g.GraduationYear, &g.Linkedin, &g.Comments,
		&g.CreatedAt, &g.UpdatedAt)
}

func (r *GraduateRepository) selectGraduates() squirrel.SelectBuilder {
	return r.sb.Select(graduateColumns...).
		From("graduates g").
		Join("students s ON s.id = g.student_id")
}

// GetAll returns every graduate record with its student name
func (r *GraduateRepository) GetAll(ctx context.Context) ([]models.GraduateRecord, error) {
	sql, args, err := r.selectGraduates().OrderBy("g.id").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get all graduates query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error querying graduates")
		return nil, fmt.Errorf("error querying graduates: %w", err)
	}
	defer rows.Close()

	records := []models.GraduateRecord{}
	for rows.Next() {
		var g models.GraduateRecord
		if err := scanGraduate(rows, &g); err != nil {
			logger.Error().Err(err).Msg("Error scanning graduate row")
			return nil, fmt.Errorf("error scanning graduate: %w", err)
		}
		records = append(records, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating graduates: %w", err)
	}
	return records, nil
}

// GetByStudentID retrieves the record of a student with its documents
func (r *GraduateRepository) GetByStudentID(ctx context.Context, studentID int64) (*models.GraduateRecord, error) {
	sql, args, err := r.selectGraduates().
		Where(squirrel.Eq{"g.student_id": studentID}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get graduate query: %w", err)
	}

	var g models.GraduateRecord
	if err := scanGraduate(r.db.QueryRow(ctx, sql, args...), &g); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrGraduateNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error scanning graduate row")
		return nil, fmt.Errorf("error retrieving graduate: %w", err)
	}

	docs, err := r.getDocuments(ctx, g.ID)
	if err != nil {
		return nil, err
	}
	g.Documents = docs
	return &g, nil
}

func (r *GraduateRepository) getDocuments(ctx context.Context, graduateID int64) ([]models.GraduateDocument, error) {
	sql, args, err := r.sb.Select("id", "graduate_id", "file_name", "file_path", "file_size", "mime_type", "created_at").
		From("graduate_documents").
		Where(squirrel.Eq{"graduate_id": graduateID}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get documents query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying graduate documents: %w", err)
	}
	defer rows.Close()

	var docs []models.GraduateDocument
	for rows.Next() {
		var d models.GraduateDocument
		if err := rows.Scan(&d.ID, &d.GraduateID, &d.FileName, &d.FilePath, &d.FileSize, &d.MimeType, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("error scanning graduate document: %w", err)
		}
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// UpdateByStudentID sets the given columns on the student's record.
// It fails with ErrGraduateNotFound when the student has no record.
func (r *GraduateRepository) UpdateByStudentID(ctx context.Context, studentID int64, columns map[string]interface{}) error {
	sql, args, err := r.sb.Update("graduates").
		SetMap(columns).
		Set("updated_at", squirrel.Expr("CURRENT_TIMESTAMP")).
		Where(squirrel.Eq{"student_id": studentID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build update graduate query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error updating graduate")
		return fmt.Errorf("error updating graduate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrGraduateNotFound
	}
	return nil
}

// Create inserts a record and its documents in one transaction
func (r *GraduateRepository) Create(ctx context.Context, studentID int64, columns map[string]interface{}, docs []models.GraduateDocument) (int64, error) {
	insert := r.sb.Insert("graduates").
		SetMap(withStudent(columns, studentID)).
		Suffix("RETURNING id")
	sql, args, err := insert.ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create graduate query: %w", err)
	}

	var id int64
	err = pgx.BeginFunc(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, sql, args...).Scan(&id); err != nil {
			return err
		}
		for _, d := range docs {
			docSQL, docArgs, err := r.sb.Insert("graduate_documents").
				Columns("graduate_id", "file_name", "file_path", "file_size", "mime_type").
				Values(id, d.FileName, d.FilePath, d.FileSize, d.MimeType).
				ToSql()
			if err != nil {
				return fmt.Errorf("failed to build create document query: %w", err)
			}
			if _, err := tx.Exec(ctx, docSQL, docArgs...); err != nil {
				return fmt.Errorf("error creating graduate document: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		switch {
		case dberrors.IsDuplicateConstraintError(err, "graduates_student_id_key"):
			return 0, apperrors.ErrGraduateAlreadyExists
		case dberrors.IsForeignKeyViolation(err):
			return 0, apperrors.ErrStudentNotFound
		}
		logger.Error().Err(err).Int64("studentID", studentID).Msg("Error creating graduate")
		return 0, fmt.Errorf("error creating graduate: %w", err)
	}

	logger.Info().Int64("graduateID", id).Int64("studentID", studentID).Int("documents", len(docs)).Msg("Graduate record created")
	return id, nil
}

func withStudent(columns map[string]interface{}, studentID int64) map[string]interface{} {
	out := make(map[string]interface{}, len(columns)+1)
	for k, v := range columns {
		out[k] = v
	}
	out["student_id"] = studentID
	return out
}
