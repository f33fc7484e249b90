package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/pkg/apperrors"
	"github.com/yigit/egresados/internal/pkg/logger"
)

type errorMapping struct {
	target  error
	status  int
	code    dto.ErrorCode
	message string
}

// errorMappings is checked in order; the first match wins
var errorMappings = []errorMapping{
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
	{apperrors.ErrGraduateNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Graduate record not found"},
	{apperrors.ErrStudyPlanNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Study plan not found"},
	{apperrors.ErrImportRunNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Import run not found"},
	{apperrors.ErrReportNotAvailable, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Import run has no report"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},
	{apperrors.ErrGraduateAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student already has a graduate record"},
	{apperrors.ErrStudyPlanAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Study plan already exists"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Conflict"},
	{apperrors.ErrUnsupportedFileFormat, http.StatusBadRequest, dto.ErrorCodeUnsupportedFile, "Unsupported spreadsheet format"},
	{apperrors.ErrEmptySpreadsheet, http.StatusBadRequest, dto.ErrorCodeEmptySpreadsheet, "Spreadsheet has no data rows"},
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
}

// HandleAPIError writes the error envelope matching err.
// A CustomError contributes its message and details.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !errors.Is(err, m.target) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, m.message)
		if custom, ok := apperrors.As(err); ok {
			if custom.Message != "" {
				detail.Message = custom.Message
			}
			if custom.Details != nil {
				detail = detail.WithDetails(custom.Details)
			}
		}
		c.JSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.Error().Err(err).Str("path", c.FullPath()).Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}
