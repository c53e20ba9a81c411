package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonathan/cv-enricher/internal/types"
)

func fullCV() *types.CV {
	return &types.CV{
		PersonalInfo: types.PersonalInfo{
			Name: "Jane Doe", Email: "j@example.com", Location: "Berlin",
			Website: "https://jane.dev", GitHub: "jane", LinkedIn: "https://linkedin.com/in/jane",
		},
		Summary: "Engineer with a decade of distributed-systems work.",
		Experience: []types.Experience{
			{Company: "Acme", Title: "Staff Engineer"},
			{Company: "Initech", Title: "Senior Engineer"},
			{Company: "Globex", Title: "Engineer"},
		},
		Education: []types.Education{{Institution: "TU Berlin"}},
		Skills:    []string{"Go", "Kubernetes", "Postgres", "Kafka", "Terraform", "Python", "Linux", "gRPC"},
		Projects: []types.Project{
			{Name: "raft-kv"}, {Name: "blogctl"}, {Name: "homelab"},
		},
		Certifications: []types.Certification{{Name: "CKA"}, {Name: "AWS SAA"}},
		Achievements:   []types.Achievement{{Title: "Speaker"}, {Title: "Award"}},
		Interests:      []string{"Chess", "Hiking", "Open Source"},
	}
}

func TestCVQualityScoreFullCV(t *testing.T) {
	assert.Equal(t, 100, CVQualityScore(fullCV()))
}

func TestCVQualityScoreEmptyAndNil(t *testing.T) {
	assert.Zero(t, CVQualityScore(nil))
	assert.Zero(t, CVQualityScore(&types.CV{}))
}

func TestCVQualityScorePartialCredit(t *testing.T) {
	cv := &types.CV{
		PersonalInfo: types.PersonalInfo{Name: "Jane Doe", Email: "j@example.com"},
		Experience:   []types.Experience{{Company: "Acme", Title: "Engineer"}},
		Skills:       []string{"Go", "Kubernetes"},
	}

	score := CVQualityScore(cv)
	assert.Greater(t, score, 0)
	assert.Less(t, score, 50)

	// Adding sections strictly improves the score.
	cv.Summary = "summary"
	assert.Greater(t, CVQualityScore(cv), score)
}
