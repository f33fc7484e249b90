package controllers

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/apperrors"
)

type fakeGraduateService struct {
	records   map[int64]*models.GraduateRecord
	payloads  []importer.Payload
	fileNames []string
}

func (f *fakeGraduateService) ListAll(ctx context.Context) ([]models.GraduateRecord, error) {
	out := []models.GraduateRecord{}
	for _, rec := range f.records {
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeGraduateService) GetByStudent(ctx context.Context, studentID int64) (*models.GraduateRecord, error) {
	rec, ok := f.records[studentID]
	if !ok {
		return nil, apperrors.ErrGraduateNotFound
	}
	return rec, nil
}

func (f *fakeGraduateService) UpdateByStudent(ctx context.Context, studentID int64, payload importer.Payload) (*models.GraduateRecord, error) {
	rec, ok := f.records[studentID]
	if !ok {
		return nil, apperrors.ErrGraduateNotFound
	}
	f.payloads = append(f.payloads, payload)
	return rec, nil
}

func (f *fakeGraduateService) CreateWithAttachments(ctx context.Context, studentID int64, payload importer.Payload, files []*multipart.FileHeader) (*models.GraduateRecord, error) {
	if _, ok := f.records[studentID]; ok {
		return nil, apperrors.ErrGraduateAlreadyExists
	}
	f.payloads = append(f.payloads, payload)
	for _, fh := range files {
		f.fileNames = append(f.fileNames, fh.Filename)
	}
	rec := &models.GraduateRecord{ID: 1, StudentID: studentID}
	f.records[studentID] = rec
	return rec, nil
}

func graduateRouter(svc GraduateService) *gin.Engine {
	c := NewGraduateController(svc)
	r := gin.New()
	r.GET("/graduates", c.GetAll)
	r.GET("/graduates/student/:studentId", c.GetByStudent)
	r.PATCH("/graduates/student/:studentId", c.UpdateByStudent)
	r.POST("/graduates", c.Create)
	return r
}

func TestGraduateController_GetByStudent(t *testing.T) {
	svc := &fakeGraduateService{records: map[int64]*models.GraduateRecord{3: {ID: 9, StudentID: 3, Email: "ana@correo.cl"}}}
	router := graduateRouter(svc)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/graduates/student/3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.GraduateRecord
	decode(t, rec, &got)
	assert.Equal(t, "ana@correo.cl", got.Email)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/graduates/student/4", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGraduateController_GetAll(t *testing.T) {
	svc := &fakeGraduateService{records: map[int64]*models.GraduateRecord{3: {ID: 9, StudentID: 3}}}

	rec := serve(graduateRouter(svc), httptest.NewRequest(http.MethodGet, "/graduates", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.PagedResponse[models.GraduateRecord]
	decode(t, rec, &got)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(3), got.Items[0].StudentID)
}

func TestGraduateController_UpdateByStudent(t *testing.T) {
	svc := &fakeGraduateService{records: map[int64]*models.GraduateRecord{3: {ID: 9, StudentID: 3}}}

	req := httptest.NewRequest(http.MethodPatch, "/graduates/student/3",
		strings.NewReader(`{"fields":{"employer":"Liceo A-12","graduationYear":2022}}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(graduateRouter(svc), req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Len(t, svc.payloads, 1)
	assert.Equal(t, "Liceo A-12", svc.payloads[0][models.GraduateFieldEmployer])
}

func TestGraduateController_UpdateByStudent_MissingFields(t *testing.T) {
	svc := &fakeGraduateService{records: map[int64]*models.GraduateRecord{3: {ID: 9, StudentID: 3}}}

	req := httptest.NewRequest(http.MethodPatch, "/graduates/student/3", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(graduateRouter(svc), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.payloads)
}

func multipartGraduate(t *testing.T, studentID string, fields map[string]string, files ...string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.WriteField("studentId", studentID))
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for _, name := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte("contenido"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/graduates", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestGraduateController_Create(t *testing.T) {
	svc := &fakeGraduateService{records: map[int64]*models.GraduateRecord{}}
	req := multipartGraduate(t, "5", map[string]string{
		models.GraduateFieldEmail: "ana@correo.cl",
		models.GraduateFieldPhone: "+56 9 1234 5678",
	}, "titulo.pdf")

	rec := serve(graduateRouter(svc), req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.payloads, 1)
	assert.Equal(t, importer.Payload{
		models.GraduateFieldEmail: "ana@correo.cl",
		models.GraduateFieldPhone: "+56 9 1234 5678",
	}, svc.payloads[0])
	assert.Equal(t, []string{"titulo.pdf"}, svc.fileNames)
}

func TestGraduateController_Create_Errors(t *testing.T) {
	svc := &fakeGraduateService{records: map[int64]*models.GraduateRecord{5: {ID: 1, StudentID: 5}}}
	router := graduateRouter(svc)

	rec := serve(router, multipartGraduate(t, "5", nil))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(router, multipartGraduate(t, "x", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "studentId", env.Error.Field)

	req := httptest.NewRequest(http.MethodPost, "/graduates", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec = serve(router, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
