package dto

import (
	"time"

	"github.com/google/uuid"
)

// ImportRunResponse summarizes an import run
type ImportRunResponse struct {
	ID              uuid.UUID  `json:"id"`
	FileName        string     `json:"fileName"`
	Status          string     `json:"status"`
	TotalRows       int        `json:"totalRows"`
	Created         int        `json:"created"`
	Updated         int        `json:"updated"`
	Failed          int        `json:"failed"`
	StudentsCreated int        `json:"studentsCreated"`
	NotFound        int        `json:"notFound"`
	Duplicated      int        `json:"duplicated"`
	ReportURL       string     `json:"reportUrl,omitempty"`
	ErrorMessage    string     `json:"errorMessage,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}
