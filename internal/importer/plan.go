package importer

import (
	"fmt"
	"strings"

	"github.com/yigit/egresados/internal/app/models"
)

// Keyword families recognized in free-text plan descriptions
var (
	regularKeywords      = []string{"regular"}
	professionalKeywords = []string{"profesional", "professional"}
)

// PlanCatalog resolves free-text plan descriptions to catalog entries
type PlanCatalog struct {
	plans []models.StudyPlan
}

// NewPlanCatalog wraps the catalog loaded for one run
func NewPlanCatalog(plans []models.StudyPlan) *PlanCatalog {
	return &PlanCatalog{plans: plans}
}

// Len returns the catalog size
func (c *PlanCatalog) Len() int {
	return len(c.plans)
}

// PlanQuery is what a row tells about its plan
type PlanQuery struct {
	ID      string // numeric plan id cell, if any
	Text    string // free-text description
	Year    int    // admission-year hint
	HasYear bool
}

// Resolve maps q to a plan, or nil.
//
// Order: explicit id, keyword family (regular / profesional), exact
// "<title> (<year>)" label, title containment. Rows that carry neither an id
// nor text get the default plan; anything given that matches nothing stays
// unresolved.
func (c *PlanCatalog) Resolve(q PlanQuery) *models.StudyPlan {
	if id, ok := ParseInt(q.ID); ok {
		for i := range c.plans {
			if c.plans[i].ID == int64(id) {
				return &c.plans[i]
			}
		}
	}

	text := normalizeText(q.Text)
	if text == "" {
		if strings.TrimSpace(q.ID) != "" {
			return nil
		}
		return c.Default()
	}

	if family := c.family(text); len(family) > 0 {
		return pickByYear(family, q)
	}

	for i := range c.plans {
		if normalizeText(planLabel(c.plans[i])) == text {
			return &c.plans[i]
		}
	}

	var contained []*models.StudyPlan
	for i := range c.plans {
		title := normalizeText(c.plans[i].Title)
		if title == "" {
			continue
		}
		if strings.Contains(text, title) || strings.Contains(title, text) {
			contained = append(contained, &c.plans[i])
		}
	}
	if len(contained) > 0 {
		return pickByYear(contained, q)
	}

	return nil
}

// Default returns the plan with the highest year, the first plan when no
// year parses, or nil for an empty catalog.
func (c *PlanCatalog) Default() *models.StudyPlan {
	if len(c.plans) == 0 {
		return nil
	}
	all := make([]*models.StudyPlan, len(c.plans))
	for i := range c.plans {
		all[i] = &c.plans[i]
	}
	return highestYear(all)
}

func (c *PlanCatalog) family(text string) []*models.StudyPlan {
	var keywords []string
	switch {
	case containsAny(text, professionalKeywords):
		keywords = professionalKeywords
	case containsAny(text, regularKeywords):
		keywords = regularKeywords
	default:
		return nil
	}

	var out []*models.StudyPlan
	for i := range c.plans {
		if containsAny(normalizeText(c.plans[i].Title), keywords) {
			out = append(out, &c.plans[i])
		}
	}
	return out
}

func pickByYear(candidates []*models.StudyPlan, q PlanQuery) *models.StudyPlan {
	if q.HasYear {
		for _, p := range candidates {
			if year, ok := ParseInt(p.Year); ok && year == q.Year {
				return p
			}
		}
	}
	return highestYear(candidates)
}

func highestYear(candidates []*models.StudyPlan) *models.StudyPlan {
	var best *models.StudyPlan
	bestYear := 0
	for _, p := range candidates {
		year, ok := ParseInt(p.Year)
		if !ok {
			continue
		}
		if best == nil || year > bestYear {
			best, bestYear = p, year
		}
	}
	if best == nil && len(candidates) > 0 {
		return candidates[0]
	}
	return best
}

func planLabel(p models.StudyPlan) string {
	return fmt.Sprintf("%s (%s)", p.Title, p.Year)
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
