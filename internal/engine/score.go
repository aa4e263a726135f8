package engine

import (
	"strings"

	"github.com/talentgrid/assessment-recommender/internal/catalogue"
)

// dimension is one row of the weighted scoring table. A dimension
// contributes to the score and to the maximum only when active for the
// given criteria, which makes the final score self-normalizing: specifying
// fewer criteria narrows which dimensions are judged instead of penalizing
// candidates.
type dimension struct {
	name   string
	weight float64
	active func(c *Criteria) bool
	// credit returns the earned fraction of the weight, in [0, 1].
	credit func(a *catalogue.Assessment, c *Criteria) float64
}

var dimensions = []dimension{
	{
		name:   "target_role",
		weight: 30,
		active: func(c *Criteria) bool { return c.TargetRole != nil },
		credit: roleCredit,
	},
	{
		name:   "competencies",
		weight: 25,
		active: func(c *Criteria) bool { return len(c.Competencies) > 0 },
		credit: competencyCredit,
	},
	{
		name:   "use_case",
		weight: 20,
		active: func(c *Criteria) bool { return c.UseCase != nil },
		credit: func(a *catalogue.Assessment, c *Criteria) float64 {
			if containsFold(a.UseCases, *c.UseCase) {
				return 1
			}
			return 0
		},
	},
	{
		name:   "assessment_type",
		weight: 10,
		active: func(c *Criteria) bool { return c.AssessmentType != nil },
		credit: func(a *catalogue.Assessment, c *Criteria) float64 {
			if strings.EqualFold(a.Type, *c.AssessmentType) {
				return 1
			}
			return 0
		},
	},
	{
		name:   "duration",
		weight: 5,
		active: func(c *Criteria) bool { return c.MaxDurationMinutes != nil },
		credit: durationCredit,
	},
	{
		name:   "difficulty",
		weight: 5,
		active: func(c *Criteria) bool { return c.DifficultyLevel != nil },
		credit: func(a *catalogue.Assessment, c *Criteria) float64 {
			if strings.EqualFold(a.DifficultyLevel, *c.DifficultyLevel) {
				return 1
			}
			return 0
		},
	},
	{
		name:   "language",
		weight: 5,
		active: func(c *Criteria) bool { return c.Language != nil },
		credit: func(a *catalogue.Assessment, c *Criteria) float64 {
			if containsFold(a.Languages, *c.Language) {
				return 1
			}
			return 0
		},
	},
}

// matchScore computes the weighted match score in [0, 100] between one
// assessment and one criteria object. With no criteria field set the
// maximum stays zero and every assessment scores 0, not 100.
func matchScore(a *catalogue.Assessment, c *Criteria) float64 {
	var score, maxScore float64
	for _, d := range dimensions {
		if !d.active(c) {
			continue
		}
		maxScore += d.weight
		score += d.weight * d.credit(a, c)
	}
	if maxScore == 0 {
		return 0
	}
	return score / maxScore * 100
}

// roleCredit gives full credit when the record targets all roles or names
// the requested role exactly, and half credit when either role string is a
// substring of the other.
func roleCredit(a *catalogue.Assessment, c *Criteria) float64 {
	role := strings.ToLower(*c.TargetRole)

	for _, r := range a.TargetRoles {
		if r == "all" || strings.ToLower(r) == role {
			return 1
		}
	}

	for _, r := range a.TargetRoles {
		lower := strings.ToLower(r)
		if strings.Contains(lower, role) || strings.Contains(role, lower) {
			return 0.5
		}
	}

	return 0
}

// competencyCredit is the overlap between the record's competencies and the
// requested set, both lower-cased, as a share of the requested set.
func competencyCredit(a *catalogue.Assessment, c *Criteria) float64 {
	required := make(map[string]struct{}, len(c.Competencies))
	for _, comp := range c.Competencies {
		required[strings.ToLower(comp)] = struct{}{}
	}
	if len(required) == 0 {
		return 0
	}

	have := make(map[string]struct{}, len(a.Competencies))
	for _, comp := range a.Competencies {
		have[strings.ToLower(comp)] = struct{}{}
	}

	overlap := 0
	for comp := range required {
		if _, ok := have[comp]; ok {
			overlap++
		}
	}
	return float64(overlap) / float64(len(required))
}

// durationCredit gives full credit within the requested maximum and half
// credit up to 1.5x over it. Records without a duration count as zero
// minutes and always fit.
func durationCredit(a *catalogue.Assessment, c *Criteria) float64 {
	duration := float64(a.DurationMinutes)
	limit := float64(*c.MaxDurationMinutes)

	switch {
	case duration <= limit:
		return 1
	case duration <= limit*1.5:
		return 0.5
	default:
		return 0
	}
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}
