package apperrors

import "errors"

// Common errors
var (
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// Student errors
var (
	ErrStudentNotFound = errors.New("student not found")
)

// Graduate record errors
var (
	ErrGraduateNotFound      = errors.New("graduate record not found")
	ErrGraduateAlreadyExists = errors.New("graduate record already exists for student")
)

// Study plan errors
var (
	ErrStudyPlanNotFound      = errors.New("study plan not found")
	ErrStudyPlanAlreadyExists = errors.New("study plan with this code already exists")
)

// Import errors
var (
	ErrImportRunNotFound     = errors.New("import run not found")
	ErrUnsupportedFileFormat = errors.New("unsupported spreadsheet format")
	ErrEmptySpreadsheet      = errors.New("spreadsheet has no data rows")
	ErrReportNotAvailable    = errors.New("import run has no unresolved rows report")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err        error
	Message    string
	StatusCode int
	Code       string
	Details    map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with underlying error
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// WithStatusCode records the HTTP-equivalent status of the failure
func (e *CustomError) WithStatusCode(status int) *CustomError {
	e.StatusCode = status
	return e
}

// As extracts a *CustomError from the chain, if any
func As(err error) (*CustomError, bool) {
	var ce *CustomError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
