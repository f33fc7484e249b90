package controllers

import (
	"context"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/middleware"
	"github.com/yigit/egresados/internal/pkg/helpers"
)

// GraduateService is what GraduateController needs from graduate records
type GraduateService interface {
	ListAll(ctx context.Context) ([]models.GraduateRecord, error)
	GetByStudent(ctx context.Context, studentID int64) (*models.GraduateRecord, error)
	UpdateByStudent(ctx context.Context, studentID int64, payload importer.Payload) (*models.GraduateRecord, error)
	CreateWithAttachments(ctx context.Context, studentID int64, payload importer.Payload, files []*multipart.FileHeader) (*models.GraduateRecord, error)
}

// GraduateController handles graduate follow-up endpoints
type GraduateController struct {
	graduateService GraduateService
}

// NewGraduateController creates a new GraduateController
func NewGraduateController(graduateService GraduateService) *GraduateController {
	return &GraduateController{graduateService: graduateService}
}

// GetAll lists graduate records one page at a time
// @Summary List graduate records
// @Tags graduates
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse[models.GraduateRecord]}
// @Router /graduates [get]
func (c *GraduateController) GetAll(ctx *gin.Context) {
	records, err := c.graduateService.ListAll(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	page, size := helpers.ParsePaginationParams(ctx)
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(helpers.Paginate(records, page, size)))
}

// GetByStudent returns a student's graduate record
// @Summary Get graduate record of a student
// @Tags graduates
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.GraduateRecord}
// @Failure 404 {object} dto.ErrorResponse "Graduate record not found"
// @Router /graduates/student/{studentId} [get]
func (c *GraduateController) GetByStudent(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}

	record, err := c.graduateService.GetByStudent(ctx.Request.Context(), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// UpdateByStudent partially updates a student's graduate record
// @Summary Update graduate record of a student
// @Tags graduates
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param request body dto.UpdateGraduateRequest true "Fields to update"
// @Success 200 {object} dto.APIResponse{data=models.GraduateRecord}
// @Failure 400 {object} dto.ErrorResponse "Invalid fields"
// @Failure 404 {object} dto.ErrorResponse "Graduate record not found"
// @Router /graduates/student/{studentId} [patch]
func (c *GraduateController) UpdateByStudent(ctx *gin.Context) {
	studentID, ok := pathID(ctx, "studentId")
	if !ok {
		return
	}

	var req dto.UpdateGraduateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid graduate data").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	record, err := c.graduateService.UpdateByStudent(ctx.Request.Context(), studentID, importer.Payload(req.Fields))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// Create creates a graduate record from a multipart form.
// Every form value other than studentId is a record field; files go under "files".
// @Summary Create graduate record
// @Tags graduates
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param studentId formData int true "Student ID"
// @Param files formData file false "Attachments"
// @Success 201 {object} dto.APIResponse{data=models.GraduateRecord}
// @Failure 409 {object} dto.ErrorResponse "Student already has a graduate record"
// @Router /graduates [post]
func (c *GraduateController) Create(ctx *gin.Context) {
	form, err := ctx.MultipartForm()
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid multipart form").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	studentID, err := strconv.ParseInt(ctx.PostForm("studentId"), 10, 64)
	if err != nil || studentID <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid student ID").
			WithField("studentId")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	payload := importer.Payload{}
	for key, values := range form.Value {
		if key == "studentId" || len(values) == 0 {
			continue
		}
		payload[key] = values[0]
	}

	record, err := c.graduateService.CreateWithAttachments(ctx.Request.Context(), studentID, payload, form.File["files"])
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(record))
}
