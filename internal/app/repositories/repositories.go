package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all the repository instances
type Repositories struct {
	StudentRepository   *StudentRepository
	GraduateRepository  *GraduateRepository
	StudyPlanRepository *StudyPlanRepository
	ImportRunRepository *ImportRunRepository
}

// NewRepositories initializes all repositories
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		StudentRepository:   NewStudentRepository(db),
		GraduateRepository:  NewGraduateRepository(db),
		StudyPlanRepository: NewStudyPlanRepository(db),
		ImportRunRepository: NewImportRunRepository(db),
	}
}
