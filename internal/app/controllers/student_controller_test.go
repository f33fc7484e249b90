package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/middleware"
	"github.com/yigit/egresados/internal/pkg/apperrors"
)

type fakeStudentService struct {
	students []models.Student
	created  []dto.CreateStudentRequest
	err      error
}

func (f *fakeStudentService) ListAll(ctx context.Context) ([]models.Student, error) {
	return f.students, f.err
}

func (f *fakeStudentService) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	for i := range f.students {
		if f.students[i].ID == id {
			return &f.students[i], nil
		}
	}
	return nil, apperrors.ErrStudentNotFound
}

func (f *fakeStudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = append(f.created, req)
	return &models.Student{ID: 10, RUT: req.RUT, FirstName: req.FirstName, LastName: req.LastName, IsTemporary: req.Temporary}, nil
}

func studentRouter(svc StudentService) *gin.Engine {
	c := NewStudentController(svc)
	r := gin.New()
	r.GET("/students", c.GetAllStudents)
	r.GET("/students/:id", c.GetStudentByID)
	r.POST("/students", middleware.ValidateJSON[dto.CreateStudentRequest](), c.CreateStudent)
	return r
}

func TestStudentController_GetAll(t *testing.T) {
	svc := &fakeStudentService{students: []models.Student{{ID: 1, RUT: "11.111.111-1"}, {ID: 2, RUT: "22.222.222-2"}}}

	rec := serve(studentRouter(svc), httptest.NewRequest(http.MethodGet, "/students?page=2&size=1", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got dto.PagedResponse[models.Student]
	env := decode(t, rec, &got)
	assert.True(t, env.Success)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(2), got.Items[0].ID)
	assert.Equal(t, int64(2), got.Pagination.TotalItems)
}

func TestStudentController_GetByID(t *testing.T) {
	svc := &fakeStudentService{students: []models.Student{{ID: 7, FirstName: "Ana"}}}
	router := studentRouter(svc)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/students/7", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Student
	decode(t, rec, &got)
	assert.Equal(t, "Ana", got.FirstName)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/students/8", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/students/abc", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, "id", env.Error.Field)
}

func TestStudentController_Create(t *testing.T) {
	svc := &fakeStudentService{}
	body := `{"rut":"12.345.678-5","firstName":"Ana","lastName":"Pérez","admissionYear":2019,"planId":1}`

	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(studentRouter(svc), req)

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, svc.created, 1)
	assert.False(t, svc.created[0].Temporary)
	assert.Equal(t, int64(1), svc.created[0].PlanID)
}

func TestStudentController_Create_InvalidBody(t *testing.T) {
	svc := &fakeStudentService{}

	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(`{"rut":"1-9"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(studentRouter(svc), req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, svc.created)
}

func TestStudentController_Create_UnknownPlan(t *testing.T) {
	svc := &fakeStudentService{err: apperrors.ErrStudyPlanNotFound}
	body := `{"rut":"12.345.678-5","firstName":"Ana","lastName":"Pérez","admissionYear":2019,"planId":1}`

	req := httptest.NewRequest(http.MethodPost, "/students", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(studentRouter(svc), req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	env := decode(t, rec, nil)
	assert.Equal(t, string(dto.ErrorCodeResourceNotFound), env.Error.Code)
}
