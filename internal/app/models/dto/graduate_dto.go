package dto

// GraduatePayload is the set of survey fields sent to create or patch a graduate record.
// Keys are the canonical field names in models.GraduateColumns.
type GraduatePayload map[string]interface{}

// UpdateGraduateRequest is the body of a partial update
type UpdateGraduateRequest struct {
	Fields GraduatePayload `json:"fields" binding:"required"`
}
