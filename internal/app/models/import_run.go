package models

import (
	"time"

	"github.com/google/uuid"
)

// Import run statuses
const (
	ImportRunStatusRunning  = "running"
	ImportRunStatusFinished = "finished"
	ImportRunStatusFailed   = "failed"
)

// ImportRun records the outcome of one spreadsheet import
type ImportRun struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	FileName        string     `json:"fileName" db:"file_name"`
	Status          string     `json:"status" db:"status"`
	TotalRows       int        `json:"totalRows" db:"total_rows"`
	Created         int        `json:"created" db:"created"`
	Updated         int        `json:"updated" db:"updated"`
	Failed          int        `json:"failed" db:"failed"`
	StudentsCreated int        `json:"studentsCreated" db:"students_created"`
	NotFound        int        `json:"notFound" db:"not_found"`
	Duplicated      int        `json:"duplicated" db:"duplicated"`
	ReportPath      string     `json:"-" db:"report_path"`
	ErrorMessage    string     `json:"errorMessage,omitempty" db:"error_message"`
	StartedAt       time.Time  `json:"startedAt" db:"started_at"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty" db:"finished_at"`
}

// HasReport reports whether an unresolved-rows report was stored
func (r ImportRun) HasReport() bool {
	return r.ReportPath != ""
}
