package dto

// CreateStudentRequest represents student creation data.
// The importer fills it for temporary students. RUT is free text.
type CreateStudentRequest struct {
	RUT           string `json:"rut" binding:"required" validate:"required"`
	FirstName     string `json:"firstName" binding:"required" validate:"required"`
	LastName      string `json:"lastName" binding:"required" validate:"required"`
	SocialName    string `json:"socialName"`
	AdmissionYear int    `json:"admissionYear" binding:"required,min=1950,max=2100" validate:"required,min=1950,max=2100"`
	PlanID        int64  `json:"planId" binding:"required,gt=0" validate:"required,gt=0"`
	Temporary     bool   `json:"-"`
}
