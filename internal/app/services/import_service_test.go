package services

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/spreadsheet"
)

type fakeRunRepo struct {
	runs map[uuid.UUID]models.ImportRun
}

func (f *fakeRunRepo) Create(ctx context.Context, run *models.ImportRun) error {
	f.runs[run.ID] = *run
	return nil
}

func (f *fakeRunRepo) Finish(ctx context.Context, run *models.ImportRun) error {
	f.runs[run.ID] = *run
	return nil
}

func (f *fakeRunRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ImportRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return nil, apperrors.ErrImportRunNotFound
	}
	return &run, nil
}

type fakePlans []models.StudyPlan

func (f fakePlans) GetCatalog(ctx context.Context) ([]models.StudyPlan, error) {
	return f, nil
}

func surveyWorkbook(t *testing.T, rows [][]interface{}) io.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return bytes.NewReader(buf.Bytes())
}

func newTestImportService(t *testing.T) (*ImportService, *fakeRunRepo, *fakeStudentRepo) {
	t.Helper()
	students := &fakeStudentRepo{students: []models.Student{
		{ID: 1, RUT: "12.345.678-5", FirstName: "Ana", LastName: "Pérez"},
	}}
	storage := newTestStorage(t)
	graduates := NewGraduateService(newFakeGraduateRepo(), storage)
	engine := importer.NewEngine(NewStudentService(students), graduates, importer.Config{
		Now: func() time.Time { return time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC) },
	}, zerolog.Nop())

	runs := &fakeRunRepo{runs: map[uuid.UUID]models.ImportRun{}}
	plans := fakePlans{{ID: 1, Title: "Plan Regular", Year: "2019", Code: "PR19"}}
	return NewImportService(runs, plans, engine, storage, spreadsheet.ReadOptions{}), runs, students
}

func TestImportService_Import(t *testing.T) {
	svc, runs, students := newTestImportService(t)

	run, summary, err := svc.Import(context.Background(), "encuesta.xlsx", surveyWorkbook(t, [][]interface{}{
		{"RUT", "Nombre completo", "Año de ingreso", "Plan", "Correo"},
		{"12345678-5", "Ana Pérez", 2019, "", "ana@correo.cl"},
		{"", "Bruno Díaz", 2019, "Plan Regular", ""},
		{"", "Carla Rojas", "", "", ""},
	}))
	require.NoError(t, err)

	assert.Equal(t, 3, summary.TotalRows)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.StudentsCreated)
	assert.Equal(t, 1, summary.NotFound)
	require.Len(t, students.students, 2)
	assert.True(t, students.students[1].IsTemporary)

	stored := runs.runs[run.ID]
	assert.Equal(t, models.ImportRunStatusFinished, stored.Status)
	assert.Equal(t, 2, stored.Created)
	assert.NotNil(t, stored.FinishedAt)
	require.True(t, stored.HasReport())
	assert.True(t, strings.HasPrefix(stored.ReportPath, ReportsDir+"/"))
	assert.Contains(t, svc.ReportURL(&stored), stored.ReportPath)

	rc, _, err := svc.OpenReport(context.Background(), run.ID)
	require.NoError(t, err)
	defer rc.Close()
	f, err := excelize.OpenReader(rc)
	require.NoError(t, err)
	rows, err := f.GetRows(spreadsheet.ReportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Carla Rojas", rows[1][1])
}

func TestImportService_UnreadableFile(t *testing.T) {
	svc, runs, _ := newTestImportService(t)

	run, _, err := svc.Import(context.Background(), "encuesta.csv", strings.NewReader("rut,nombre"))
	require.ErrorIs(t, err, apperrors.ErrUnsupportedFileFormat)
	custom, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, 400, custom.StatusCode)

	stored := runs.runs[run.ID]
	assert.Equal(t, models.ImportRunStatusFailed, stored.Status)
	assert.NotEmpty(t, stored.ErrorMessage)
	assert.Zero(t, stored.TotalRows)
}

func TestImportService_ReportNotAvailable(t *testing.T) {
	svc, _, _ := newTestImportService(t)

	run, _, err := svc.Import(context.Background(), "encuesta.xlsx", surveyWorkbook(t, [][]interface{}{
		{"RUT"},
		{"12.345.678-5"},
	}))
	require.NoError(t, err)
	assert.Empty(t, svc.ReportURL(run))

	_, _, err = svc.OpenReport(context.Background(), run.ID)
	assert.ErrorIs(t, err, apperrors.ErrReportNotAvailable)

	_, _, err = svc.OpenReport(context.Background(), uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrImportRunNotFound)
}
