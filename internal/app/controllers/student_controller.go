package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/middleware"
	"github.com/yigit/egresados/internal/pkg/helpers"
)

// StudentService is what StudentController needs from the student directory
type StudentService interface {
	ListAll(ctx context.Context) ([]models.Student, error)
	GetByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
}

// StudentController handles student directory endpoints
type StudentController struct {
	studentService StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// GetAllStudents lists students one page at a time
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse[models.Student]} "Students retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized - Invalid or missing token"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /students [get]
func (c *StudentController) GetAllStudents(ctx *gin.Context) {
	students, err := c.studentService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(helpers.Paginate(students, page, size)))
}

// GetStudentByID retrieves a student with its plan
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param id path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid student ID"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{id} [get]
func (c *StudentController) GetStudentByID(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		return
	}

	student, err := c.studentService.GetByID(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(student))
}

// CreateStudent handles student creation. The body is bound by middleware.ValidateJSON.
// @Summary Create a student
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateStudentRequest true "Student information"
// @Success 201 {object} dto.APIResponse{data=models.Student} "Student created successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 409 {object} dto.ErrorResponse "RUT already exists"
// @Router /students [post]
func (c *StudentController) CreateStudent(ctx *gin.Context) {
	req, ok := middleware.ValidatedBody[dto.CreateStudentRequest](ctx)
	if !ok {
		var body dto.CreateStudentRequest
		if err := ctx.ShouldBindJSON(&body); err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student data").
				WithDetails(err.Error())
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		req = &body
	}
	req.Temporary = false

	student, err := c.studentService.Create(ctx.Request.Context(), *req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(student))
}

// pathID parses a positive numeric path parameter, writing a 400 when it is not one
func pathID(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid ID").
			WithField(name).
			WithDetails("ID must be a positive number")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}
