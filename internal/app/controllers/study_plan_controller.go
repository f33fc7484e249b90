package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/egresados/internal/app/models"
	"github.com/yigit/egresados/internal/app/models/dto"
	"github.com/yigit/egresados/internal/middleware"
)

// StudyPlanService loads the plan catalog
type StudyPlanService interface {
	GetCatalog(ctx context.Context) ([]models.StudyPlan, error)
}

// StudyPlanController serves the plan catalog
type StudyPlanController struct {
	planService StudyPlanService
}

// NewStudyPlanController creates a new StudyPlanController
func NewStudyPlanController(planService StudyPlanService) *StudyPlanController {
	return &StudyPlanController{planService: planService}
}

// GetAll lists the catalog
// @Summary List study plans
// @Tags plans
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.StudyPlan}
// @Router /plans [get]
func (c *StudyPlanController) GetAll(ctx *gin.Context) {
	plans, err := c.planService.GetCatalog(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(plans))
}
