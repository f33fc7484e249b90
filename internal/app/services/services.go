package services

import (
	"github.com/rs/zerolog"

	"github.com/yigit/egresados/internal/app/repositories"
	"github.com/yigit/egresados/internal/importer"
	"github.com/yigit/egresados/internal/pkg/filestorage"
	"github.com/yigit/egresados/internal/pkg/spreadsheet"
)

// Services defined in this package:
// - StudentService: student directory, also used by the importer to create temporary students
// - GraduateService: graduate follow-up records and their attachments
// - StudyPlanService: study plan catalog
// - ImportService: spreadsheet imports and their run history

// Services holds all the service instances
type Services struct {
	StudentService   *StudentService
	GraduateService  *GraduateService
	StudyPlanService *StudyPlanService
	ImportService    *ImportService
}

// NewServices wires the services over repos. The import engine reconciles
// against StudentService and GraduateService.
func NewServices(repos *repositories.Repositories, storage filestorage.FileStorage,
	engineCfg importer.Config, read spreadsheet.ReadOptions, lgr zerolog.Logger) *Services {
	students := NewStudentService(repos.StudentRepository)
	graduates := NewGraduateService(repos.GraduateRepository, storage)
	plans := NewStudyPlanService(repos.StudyPlanRepository)
	engine := importer.NewEngine(students, graduates, engineCfg, lgr.With().Str("component", "importer").Logger())

	return &Services{
		StudentService:   students,
		GraduateService:  graduates,
		StudyPlanService: plans,
		ImportService:    NewImportService(repos.ImportRunRepository, plans, engine, storage, read),
	}
}
