package enrichment

import (
	"strings"

	"github.com/jonathan/cv-enricher/internal/types"
)

// Section weights for the overall CV quality score. They sum to 100.
const (
	weightPersonalInfo   = 10
	weightSummary        = 10
	weightExperience     = 20
	weightEducation      = 10
	weightSkills         = 15
	weightProjects       = 15
	weightCertifications = 10
	weightAchievements   = 5
	weightInterests      = 5
)

// CVQualityScore rates a CV 0-100 against the fixed section weight table.
// List sections earn full weight at a small target count so that a handful
// of solid entries scores as well as a long one.
func CVQualityScore(cv *types.CV) int {
	if cv == nil {
		return 0
	}
	score := 0

	info := cv.PersonalInfo
	infoFields := 0
	for _, v := range []string{info.Name, info.Email, info.Location, info.Website, info.GitHub, info.LinkedIn} {
		if strings.TrimSpace(v) != "" {
			infoFields++
		}
	}
	score += scaled(infoFields, 4, weightPersonalInfo)

	if strings.TrimSpace(cv.Summary) != "" {
		score += weightSummary
	}
	score += scaled(len(cv.Experience), 3, weightExperience)
	score += scaled(len(cv.Education), 1, weightEducation)
	score += scaled(len(cv.Skills), 8, weightSkills)
	score += scaled(len(cv.Projects), 3, weightProjects)
	score += scaled(len(cv.Certifications), 2, weightCertifications)
	score += scaled(len(cv.Achievements), 2, weightAchievements)
	score += scaled(len(cv.Interests), 3, weightInterests)

	if score > 100 {
		score = 100
	}
	return score
}

// scaled awards weight proportionally up to the target count.
func scaled(count, target, weight int) int {
	if count >= target {
		return weight
	}
	return count * weight / target
}
