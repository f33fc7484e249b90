package models

// StudyPlan is a catalog entry of the study-program a student is enrolled under
type StudyPlan struct {
	ID    int64  `json:"idPlan" db:"id" example:"3"`
	Title string `json:"titulo" db:"title" example:"Plan Regular"`
	Year  string `json:"agnio" db:"year" example:"2019"` // Free text, not every legacy plan carries a year
	Code  string `json:"codigo" db:"code" example:"PR-2019"`
}
