package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/egresados/internal/app/controllers"
	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Student   *controllers.StudentController
	Graduate  *controllers.GraduateController
	StudyPlan *controllers.StudyPlanController
	Import    *controllers.ImportController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, c Controllers, authMiddleware *middleware.AuthMiddleware) {
	router.GET("/ping", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, gin.H{"message": "pong", "status": "success"})
	})

	// API version group
	v1 := router.Group("/api/v1")
	v1.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}))
	})

	// --- Authenticated Routes Group ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	adminOnly := authMiddleware.RoleRequired(string(models.RoleAdmin))

	students := authenticated.Group("/students")
	{
		students.GET("", c.Student.GetAllStudents)
		students.GET("/:id", c.Student.GetStudentByID)
		students.POST("", adminOnly, middleware.ValidateJSON[dto.CreateStudentRequest](), c.Student.CreateStudent)
	}

	graduates := authenticated.Group("/graduates")
	{
		graduates.GET("", c.Graduate.GetAll)
		graduates.GET("/student/:studentId", c.Graduate.GetByStudent)
		graduates.PATCH("/student/:studentId", adminOnly, c.Graduate.UpdateByStudent)
		graduates.POST("", adminOnly, c.Graduate.Create)
	}

	authenticated.GET("/plans", c.StudyPlan.GetAll)

	// Imports write students and graduate records, so every route is admin only
	imports := authenticated.Group("/imports")
	imports.Use(adminOnly)
	{
		imports.POST("", c.Import.Upload)
		imports.GET("/:id", c.Import.GetRun)
		imports.GET("/:id/report", c.Import.DownloadReport)
	}
}
