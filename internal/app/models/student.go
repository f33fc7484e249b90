package models

import (
	"strings"
	"time"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID            int64     `json:"id" db:"id" example:"1"`
	RUT           string    `json:"rut" db:"rut" example:"12.345.678-5"` // National ID, not strictly validated
	FirstName     string    `json:"firstName" db:"first_name" example:"Ana"`
	LastName      string    `json:"lastName" db:"last_name" example:"Pérez Soto"`
	SocialName    string    `json:"socialName,omitempty" db:"social_name"`
	AdmissionYear int       `json:"admissionYear" db:"admission_year" example:"2019"`
	PlanID        int64     `json:"planId" db:"plan_id" example:"3"`
	IsTemporary   bool      `json:"isTemporary" db:"is_temporary"` // Placeholder created by a spreadsheet import
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	// Relations (populated when needed)
	Plan *StudyPlan `json:"plan,omitempty"`
}

// FullName joins first and last name
func (s Student) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
}
