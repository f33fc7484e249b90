package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/egresados/internal/app/models"
)

func testPlans() []models.StudyPlan {
	return []models.StudyPlan{
		{ID: 1, Title: "Pedagogía en Historia Regular", Year: "2019", Code: "PH-R19"},
		{ID: 2, Title: "Pedagogía en Historia Regular", Year: "2023", Code: "PH-R23"},
		{ID: 3, Title: "Pedagogía en Historia Prosecución Profesional", Year: "2016", Code: "PH-P16"},
		{ID: 4, Title: "Magíster en Educación", Year: "2021", Code: "MED-21"},
	}
}

func TestResolve_ByID(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	plan := c.Resolve(PlanQuery{ID: "4", Text: "Plan Regular"})
	require.NotNil(t, plan)
	assert.Equal(t, int64(4), plan.ID)
}

func TestResolve_FamilyPrefersExactYear(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	plan := c.Resolve(PlanQuery{Text: "Plan Regular", Year: 2019, HasYear: true})
	require.NotNil(t, plan)
	assert.Equal(t, int64(1), plan.ID)
}

func TestResolve_FamilyFallsBackToHighestYear(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	plan := c.Resolve(PlanQuery{Text: "plan REGULAR", Year: 2010, HasYear: true})
	require.NotNil(t, plan)
	assert.Equal(t, int64(2), plan.ID)

	plan = c.Resolve(PlanQuery{Text: "Plan regular"})
	require.NotNil(t, plan)
	assert.Equal(t, int64(2), plan.ID)
}

func TestResolve_ProfessionalFamily(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	for _, text := range []string{"Plan Profesional", "regular professional track"} {
		plan := c.Resolve(PlanQuery{Text: text})
		require.NotNil(t, plan, text)
		assert.Equal(t, int64(3), plan.ID, text)
	}
}

func TestResolve_ExactLabel(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	plan := c.Resolve(PlanQuery{Text: "magister en educacion (2021)"})
	require.NotNil(t, plan)
	assert.Equal(t, int64(4), plan.ID)
}

func TestResolve_TitleContainment(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	plan := c.Resolve(PlanQuery{Text: "Magíster"})
	require.NotNil(t, plan)
	assert.Equal(t, int64(4), plan.ID)
}

func TestResolve_Unmatched(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	assert.Nil(t, c.Resolve(PlanQuery{Text: "Ingeniería Comercial"}))
	assert.Nil(t, c.Resolve(PlanQuery{ID: "99"}))
}

func TestResolve_NoPlanDataUsesDefault(t *testing.T) {
	c := NewPlanCatalog(testPlans())

	plan := c.Resolve(PlanQuery{})
	require.NotNil(t, plan)
	assert.Equal(t, int64(2), plan.ID)
}

func TestDefault(t *testing.T) {
	assert.Nil(t, NewPlanCatalog(nil).Default())

	c := NewPlanCatalog([]models.StudyPlan{
		{ID: 7, Title: "A", Year: "s/i"},
		{ID: 8, Title: "B", Year: ""},
	})
	plan := c.Default()
	require.NotNil(t, plan)
	assert.Equal(t, int64(7), plan.ID)
}
