package services

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/repositories"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/spreadsheet"
	"github.com/yigit/egresados/internal/testhelpers"
)

func TestImport_AgainstPostgres(t *testing.T) {
	tdb := testhelpers.GetTestDB(t)
	tdb.Reset(t)
	ctx := context.Background()

	repos := repositories.NewRepositories(tdb.DB.Pool)
	svc := NewServices(repos, newTestStorage(t), importer.Config{}, spreadsheet.ReadOptions{}, zerolog.Nop())

	plans, err := svc.StudyPlanService.GetCatalog(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, plans)
	require.NoError(t, repos.StudentRepository.Create(ctx, &models.Student{
		RUT: "12.345.678-5", FirstName: "Ana", LastName: "Pérez", AdmissionYear: 2019, PlanID: plans[0].ID,
	}))

	sheet := [][]interface{}{
		{"RUT", "Nombre completo", "Año de ingreso", "Plan", "Correo", "Cargo"},
		{"12345678-5", "Ana Pérez", 2019, "", "ana@correo.cl", "Docente"},
		{"", "Bruno Díaz", 2019, "Plan Regular", "", "Jefe de UTP"},
		{"", "Carla Rojas", "", "", "", ""},
	}

	run, summary, err := svc.ImportService.Import(ctx, "encuesta.xlsx", surveyWorkbook(t, sheet))
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.StudentsCreated)
	assert.Equal(t, 1, summary.NotFound)
	assert.True(t, run.HasReport())

	stored, err := svc.ImportService.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ImportRunStatusFinished, stored.Status)
	assert.Equal(t, 2, stored.Created)

	students, err := svc.StudentService.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.True(t, students[1].IsTemporary)
	assert.Equal(t, "Bruno", students[1].FirstName)

	// a second pass finds every record created by the first one
	_, summary, err = svc.ImportService.Import(ctx, "encuesta.xlsx", surveyWorkbook(t, sheet))
	require.NoError(t, err)
	assert.Equal(t, 0, summary.Created)
	assert.Equal(t, 2, summary.Updated)
	assert.Equal(t, 0, summary.StudentsCreated)

	record, err := svc.GraduateService.GetByStudent(ctx, students[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@correo.cl", record.Email)
	assert.Equal(t, "Docente", record.JobTitle)
}
