package controllers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/apperrors"
)

type fakeImportService struct {
	runs     map[uuid.UUID]*models.ImportRun
	reports  map[uuid.UUID][]byte
	uploaded []string
	summary  importer.Summary
	err      error
}

func newFakeImportService() *fakeImportService {
	return &fakeImportService{
		runs:    map[uuid.UUID]*models.ImportRun{},
		reports: map[uuid.UUID][]byte{},
	}
}

func (f *fakeImportService) Import(ctx context.Context, fileName string, r io.Reader) (*models.ImportRun, importer.Summary, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, importer.Summary{}, err
	}
	f.uploaded = append(f.uploaded, fileName+":"+string(content))
	run := &models.ImportRun{
		ID:        uuid.New(),
		FileName:  fileName,
		Status:    models.ImportRunStatusFinished,
		TotalRows: f.summary.TotalRows,
		Created:   f.summary.Created,
		StartedAt: time.Now(),
	}
	if f.err != nil {
		run.Status = models.ImportRunStatusFailed
		return run, importer.Summary{}, f.err
	}
	if len(f.summary.Unresolved) > 0 {
		run.ReportPath = "reports/" + run.ID.String() + ".xlsx"
	}
	f.runs[run.ID] = run
	return run, f.summary, nil
}

func (f *fakeImportService) GetRun(ctx context.Context, id uuid.UUID) (*models.ImportRun, error) {
	run, ok := f.runs[id]
	if !ok {
		return nil, apperrors.ErrImportRunNotFound
	}
	return run, nil
}

func (f *fakeImportService) OpenReport(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.ImportRun, error) {
	run, err := f.GetRun(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	report, ok := f.reports[id]
	if !ok {
		return nil, run, apperrors.ErrReportNotAvailable
	}
	return io.NopCloser(bytes.NewReader(report)), run, nil
}

func (f *fakeImportService) ReportURL(run *models.ImportRun) string {
	if !run.HasReport() {
		return ""
	}
	return "/uploads/" + run.ReportPath
}

func importRouter(svc ImportService, maxBytes int64) *gin.Engine {
	c := NewImportController(svc, maxBytes)
	r := gin.New()
	r.POST("/imports", c.Upload)
	r.GET("/imports/:id", c.GetRun)
	r.GET("/imports/:id/report", c.DownloadReport)
	return r
}

func uploadRequest(t *testing.T, field, name, content string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/imports", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestImportController_Upload(t *testing.T) {
	svc := newFakeImportService()
	svc.summary = importer.Summary{
		TotalRows: 3,
		Created:   2,
		Failed:    1,
		NotFound:  1,
		Unresolved: []importer.UnresolvedRow{
			{Row: 4, Name: "Pedro Rojas", Reason: importer.ReasonNotFound},
		},
	}

	rec := serve(importRouter(svc, 0), uploadRequest(t, "file", "encuesta.xlsx", "xlsx"))

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var got ImportResult
	decode(t, rec, &got)
	assert.Equal(t, "encuesta.xlsx", got.Run.FileName)
	assert.Equal(t, 3, got.Run.TotalRows)
	assert.Contains(t, got.Run.ReportURL, "/uploads/reports/")
	require.Len(t, got.Unresolved, 1)
	assert.Equal(t, 4, got.Unresolved[0].Row)
	assert.Equal(t, []string{"encuesta.xlsx:xlsx"}, svc.uploaded)
}

func TestImportController_Upload_NoUnresolved(t *testing.T) {
	svc := newFakeImportService()
	svc.summary = importer.Summary{TotalRows: 1, Created: 1}

	rec := serve(importRouter(svc, 0), uploadRequest(t, "file", "encuesta.xlsx", "xlsx"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"unresolved":[]`)
	assert.NotContains(t, rec.Body.String(), "reportUrl")
}

func TestImportController_Upload_MissingFile(t *testing.T) {
	svc := newFakeImportService()

	rec := serve(importRouter(svc, 0), uploadRequest(t, "other", "encuesta.xlsx", "xlsx"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "file", env.Error.Field)
	assert.Empty(t, svc.uploaded)
}

func TestImportController_Upload_TooLarge(t *testing.T) {
	svc := newFakeImportService()

	rec := serve(importRouter(svc, 64), uploadRequest(t, "file", "encuesta.xlsx", strings.Repeat("x", 4096)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Empty(t, svc.uploaded)
}

func TestImportController_Upload_FileErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code dto.ErrorCode
	}{
		{"unsupported format", apperrors.ErrUnsupportedFileFormat, dto.ErrorCodeUnsupportedFile},
		{"empty spreadsheet", apperrors.ErrEmptySpreadsheet, dto.ErrorCodeEmptySpreadsheet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newFakeImportService()
			svc.err = tt.err

			rec := serve(importRouter(svc, 0), uploadRequest(t, "file", "encuesta.csv", "a,b"))

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			env := decode(t, rec, nil)
			assert.Equal(t, string(tt.code), env.Error.Code)
		})
	}
}

func TestImportController_GetRun(t *testing.T) {
	svc := newFakeImportService()
	run := &models.ImportRun{ID: uuid.New(), FileName: "encuesta.xlsx", Status: models.ImportRunStatusFinished, Updated: 4}
	svc.runs[run.ID] = run
	router := importRouter(svc, 0)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/imports/"+run.ID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.ImportRunResponse
	decode(t, rec, &got)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, 4, got.Updated)
	assert.Empty(t, got.ReportURL)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/imports/"+uuid.NewString(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/imports/42", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportController_DownloadReport(t *testing.T) {
	svc := newFakeImportService()
	withReport := &models.ImportRun{ID: uuid.New(), ReportPath: "reports/a.xlsx"}
	withoutReport := &models.ImportRun{ID: uuid.New()}
	svc.runs[withReport.ID] = withReport
	svc.runs[withoutReport.ID] = withoutReport
	svc.reports[withReport.ID] = []byte("PK-report")
	router := importRouter(svc, 0)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/imports/"+withReport.ID.String()+"/report", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), withReport.ID.String())
	assert.Equal(t, "PK-report", rec.Body.String())

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/imports/"+withoutReport.ID.String()+"/report", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
