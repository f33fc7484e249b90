package seed

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/db"
)

// DefaultStudyPlans is the catalog a fresh database starts with
var DefaultStudyPlans = []appModels.StudyPlan{
	{Title: "Pedagogía en Historia Regular", Year: "2019", Code: "PH-R19"},
	{Title: "Pedagogía en Historia Regular", Year: "2023", Code: "PH-R23"},
	{Title: "Pedagogía en Historia Prosecución Profesional", Year: "2016", Code: "PH-P16"},
	{Title: "Magíster en Educación", Year: "2021", Code: "MED-21"},
}

// CreateDefaultData inserts the default study plans that are not there yet.
// Plans are matched by code, existing rows are left untouched.
func CreateDefaultData(ctx context.Context, database *db.PostgresDB, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (Study plans)...")

	insert := squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar).
		Insert("study_plans").
		Columns("title", "year", "code")
	for _, plan := range DefaultStudyPlans {
		insert = insert.Values(plan.Title, plan.Year, plan.Code)
	}
	sql, args, err := insert.Suffix("ON CONFLICT (code) DO NOTHING").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build seed query: %w", err)
	}

	var inserted int64
	err = database.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error seeding study plans: %w", err)
		}
		inserted = tag.RowsAffected()
		return nil
	})
	if err != nil {
		lgr.Error().Err(err).Msg("Error creating default study plans")
		return err
	}

	lgr.Info().Int64("inserted", inserted).Msg("Default data check/creation finished.")
	return nil
}
