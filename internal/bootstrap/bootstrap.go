package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/egresados/internal/app/controllers"
	appMigrations "github.com/yigit/egresados/internal/app/migrations"
	appRepos "github.com/yigit/egresados/internal/app/repositories"
	appRoutes "github.com/yigit/egresados/internal/app/routes"
	appServices "github.com/yigit/egresados/internal/app/services"
	"github.com/yigit/egresados/internal/config"
	"github.com/yigit/egresados/internal/db"
	"github.com/yigit/egresados/internal/importer"
	appMiddleware "github.com/yigit/egresados/internal/middleware"
	pkgAuth "github.com/yigit/egresados/internal/pkg/auth"
	"github.com/yigit/egresados/internal/pkg/filestorage"
	"github.com/yigit/egresados/internal/pkg/logger"
	"github.com/yigit/egresados/internal/pkg/spreadsheet"
	"github.com/yigit/egresados/internal/seed"
)

// DefaultConfigPath is read when present; the environment overrides it
var DefaultConfigPath = filepath.Join("configs", "config.yaml")

// UploadsURLPath is where the file storage is served
const UploadsURLPath = "/uploads"

// Dependencies holds all the application dependencies
type Dependencies struct {
	Repos          *appRepos.Repositories
	Services       *appServices.Services
	Controllers    appRoutes.Controllers
	AuthMiddleware *appMiddleware.AuthMiddleware
	JWTService     *pkgAuth.JWTService
	FileStorage    *filestorage.LocalStorage
	Logger         zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := logger.Configure(logger.Config{
		Level:  logger.LogLevel(cfg.Logging.Level),
		Pretty: strings.EqualFold(cfg.Logging.Format, "text"),
	})
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// SetupDatabase establishes the database connection, runs migrations and seeds the plan catalog.
func SetupDatabase(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (*db.PostgresDB, error) {
	lgr.Info().Msg("Establishing database connection...")
	database, err := db.NewPostgresDB(ctx, cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to connect to database")
		return nil, err
	}
	lgr.Info().Msg("Database connection successfully established.")

	lgr.Info().Msg("Running database migrations...")
	migrator := appMigrations.NewMigrator(database.Pool)
	if dir := cfg.Database.MigrationsDir; dir != "" {
		err = migrator.MigrateFromDirectory(ctx, dir)
	} else {
		err = migrator.Migrate(ctx, appMigrations.Embedded())
	}
	if err != nil {
		lgr.Error().Err(err).Msg("Database migration error")
		database.Close()
		return nil, fmt.Errorf("database migrations failed: %w", err)
	}
	lgr.Info().Msg("Database migrations successfully applied.")

	if err := seed.CreateDefaultData(ctx, database, lgr); err != nil {
		// Log the error but don't fail the startup
		lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
	}

	return database, nil
}

// EngineConfig maps the import settings onto the reconciliation engine
func EngineConfig(cfg *config.Config, lgr zerolog.Logger) importer.Config {
	policy := importer.EmptyBlank
	if cfg.Import.EmptyAnswersAsOther {
		policy = importer.EmptyAsOther
	}
	return importer.Config{
		EmptyPolicy: policy,
		OnProgress: func(done, total int) {
			if done == total || done%100 == 0 {
				lgr.Debug().Int("done", done).Int("total", total).Msg("Import progress")
			}
		},
	}
}

// ReadOptions maps the import settings onto the spreadsheet reader
func ReadOptions(cfg *config.Config) spreadsheet.ReadOptions {
	return spreadsheet.ReadOptions{Sheet: cfg.Import.Sheet, MaxRows: cfg.Import.MaxRows}
}

// NewFileStorage opens the local storage served under UploadsURLPath
func NewFileStorage(cfg *config.Config) (*filestorage.LocalStorage, error) {
	return filestorage.NewLocalStorage(cfg.Server.StoragePath, cfg.PublicBaseURL()+UploadsURLPath)
}

// BuildDependencies initializes application repositories, services, and controllers.
func BuildDependencies(cfg *config.Config, database *db.PostgresDB, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	var err error
	deps.FileStorage, err = NewFileStorage(cfg)
	if err != nil {
		lgr.Error().Err(err).Msg("Failed to initialize file storage")
		return nil, fmt.Errorf("failed to initialize file storage: %w", err)
	}

	deps.Repos = appRepos.NewRepositories(database.Pool)
	deps.Services = appServices.NewServices(deps.Repos, deps.FileStorage, EngineConfig(cfg, lgr), ReadOptions(cfg), lgr)

	deps.JWTService = pkgAuth.NewJWTService(pkgAuth.JWTConfig{
		SecretKey:   cfg.JWT.Secret,
		TokenIssuer: cfg.JWT.Issuer,
	})
	deps.AuthMiddleware = appMiddleware.NewAuthMiddleware(deps.JWTService)

	deps.Controllers = appRoutes.Controllers{
		Student:   appControllers.NewStudentController(deps.Services.StudentService),
		Graduate:  appControllers.NewGraduateController(deps.Services.GraduateService),
		StudyPlan: appControllers.NewStudyPlanController(deps.Services.StudyPlanService),
		Import:    appControllers.NewImportController(deps.Services.ImportService, cfg.Import.MaxUploadBytes),
	}

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(gin.Recovery(), appMiddleware.RequestLogger())
	if cfg.Import.MaxUploadBytes > 0 {
		router.MaxMultipartMemory = cfg.Import.MaxUploadBytes
	}

	appRoutes.SetupRouter(router, deps.Controllers, deps.AuthMiddleware)

	return router
}
