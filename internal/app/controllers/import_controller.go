package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/middleware"
	"github.com/yigit/egresados/internal/pkg/logger"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ImportService runs spreadsheet imports
type ImportService interface {
	Import(ctx context.Context, fileName string, r io.Reader) (*models.ImportRun, importer.Summary, error)
	GetRun(ctx context.Context, id uuid.UUID) (*models.ImportRun, error)
	OpenReport(ctx context.Context, id uuid.UUID) (io.ReadCloser, *models.ImportRun, error)
	ReportURL(run *models.ImportRun) string
}

// ImportResult is returned after an upload is processed
type ImportResult struct {
	Run        dto.ImportRunResponse    `json:"run"`
	Unresolved []importer.UnresolvedRow `json:"unresolved"`
}

// ImportController handles spreadsheet uploads and their reports
type ImportController struct {
	importService  ImportService
	maxUploadBytes int64
}

// NewImportController creates a new ImportController.
// maxUploadBytes <= 0 disables the size limit.
func NewImportController(importService ImportService, maxUploadBytes int64) *ImportController {
	return &ImportController{importService: importService, maxUploadBytes: maxUploadBytes}
}

// Upload imports a graduate survey workbook
// @Summary Import graduate survey spreadsheet
// @Description Reconciles every row against students and graduate records, creating or updating records
// @Tags imports
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "Survey workbook (.xlsx)"
// @Success 200 {object} dto.APIResponse{data=ImportResult}
// @Failure 400 {object} dto.ErrorResponse "Missing, unreadable or empty spreadsheet"
// @Failure 403 {object} dto.ErrorResponse "Forbidden - User does not have permission"
// @Failure 413 {object} dto.ErrorResponse "File too large"
// @Router /imports [post]
func (c *ImportController) Upload(ctx *gin.Context) {
	if c.maxUploadBytes > 0 {
		if ctx.Request.ContentLength > c.maxUploadBytes {
			c.tooLarge(ctx)
			return
		}
		ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, c.maxUploadBytes)
	}

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.tooLarge(ctx)
			return
		}
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "A spreadsheet must be uploaded in the 'file' field").
			WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer file.Close()

	run, summary, err := c.importService.Import(ctx.Request.Context(), fileHeader.Filename, file)
	if err != nil {
		if run != nil {
			logger.Warn().Err(err).Str("runID", run.ID.String()).Msg("Import run failed")
		}
		middleware.HandleAPIError(ctx, err)
		return
	}

	unresolved := summary.Unresolved
	if unresolved == nil {
		unresolved = []importer.UnresolvedRow{}
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(ImportResult{
		Run:        c.toResponse(run),
		Unresolved: unresolved,
	}))
}

// GetRun returns the bookkeeping of an import run
// @Summary Get import run
// @Tags imports
// @Produce json
// @Security BearerAuth
// @Param id path string true "Import run ID"
// @Success 200 {object} dto.APIResponse{data=dto.ImportRunResponse}
// @Failure 404 {object} dto.ErrorResponse "Import run not found"
// @Router /imports/{id} [get]
func (c *ImportController) GetRun(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	run, err := c.importService.GetRun(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(c.toResponse(run)))
}

// DownloadReport streams the unresolved rows workbook of a run
// @Summary Download unresolved rows report
// @Tags imports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param id path string true "Import run ID"
// @Success 200 {file} file
// @Failure 404 {object} dto.ErrorResponse "Run or report not found"
// @Router /imports/{id}/report [get]
func (c *ImportController) DownloadReport(ctx *gin.Context) {
	id, ok := runID(ctx)
	if !ok {
		return
	}

	rc, _, err := c.importService.OpenReport(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer rc.Close()

	ctx.DataFromReader(http.StatusOK, -1, xlsxContentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="no-resueltos-%s.xlsx"`, id),
	})
}

func (c *ImportController) toResponse(run *models.ImportRun) dto.ImportRunResponse {
	return dto.ImportRunResponse{
		ID:              run.ID,
		FileName:        run.FileName,
		Status:          run.Status,
		TotalRows:       run.TotalRows,
		Created:         run.Created,
		Updated:         run.Updated,
		Failed:          run.Failed,
		StudentsCreated: run.StudentsCreated,
		NotFound:        run.NotFound,
		Duplicated:      run.Duplicated,
		ReportURL:       c.importService.ReportURL(run),
		ErrorMessage:    run.ErrorMessage,
		StartedAt:       run.StartedAt,
		FinishedAt:      run.FinishedAt,
	}
}

func (c *ImportController) tooLarge(ctx *gin.Context) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, fmt.Sprintf("Spreadsheet exceeds %d bytes", c.maxUploadBytes)).
		WithField("file")
	ctx.JSON(http.StatusRequestEntityTooLarge, dto.NewErrorResponse(errorDetail))
}

func runID(ctx *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Invalid import run ID").
			WithField("id").
			WithDetails(err.Error())
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return uuid.Nil, false
	}
	return id, true
}
