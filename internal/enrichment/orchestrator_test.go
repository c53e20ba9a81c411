package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-enricher/internal/types"
)

func testCV() *types.CV {
	return &types.CV{
		ID: "cv1",
		PersonalInfo: types.PersonalInfo{
			Name: "Jane Doe", GitHub: "jane",
		},
		Summary: "Engineer.",
		Experience: []types.Experience{
			{Company: "Acme", Title: "Engineer"},
		},
		Skills: []string{"Go"},
	}
}

func TestEnrichCVNilCV(t *testing.T) {
	svc := NewService(Config{})
	_, err := svc.EnrichCV(nil, nil)
	assert.ErrorIs(t, err, ErrNilCV)
}

func TestEnrichCVDoesNotMutateInput(t *testing.T) {
	svc := NewService(Config{})
	cv := testCV()

	ext := &types.EnrichedData{
		LinkedIn: &types.LinkedInData{Skills: []string{"Kubernetes"}},
	}

	result, err := svc.EnrichCV(cv, ext)
	require.NoError(t, err)

	assert.Equal(t, []string{"Go"}, cv.Skills)
	assert.NotSame(t, cv, result.EnrichedCV)
	assert.Len(t, result.EnrichedCV.Skills, 2)
}

func TestEnrichCVWithoutExternalData(t *testing.T) {
	svc := NewService(Config{})
	cv := testCV()

	result, err := svc.EnrichCV(cv, nil)
	require.NoError(t, err)

	assert.NotNil(t, result.DataAttribution)
	assert.Empty(t, result.DataAttribution)
	assert.Empty(t, result.ConflictsResolved)
	assert.Equal(t, result.QualityImprovement.Before, result.QualityImprovement.After)
}

func TestEnrichCVAddsExperienceWithinThreshold(t *testing.T) {
	svc := NewService(Config{})
	cv := testCV()

	ext := &types.EnrichedData{
		LinkedIn: &types.LinkedInData{Positions: []types.LinkedInPosition{
			{Company: "Acme", Title: "Engineer"},
			{Company: "Initech", Title: "Senior Engineer", Summary: "Led the platform team."},
		}},
	}

	result, err := svc.EnrichCV(cv, ext)
	require.NoError(t, err)

	require.Len(t, result.EnrichedCV.Experience, 2)
	assert.Equal(t, "Initech", result.EnrichedCV.Experience[1].Company)
	assert.Empty(t, result.ConflictsResolved)

	hasExperienceAttribution := false
	for _, attr := range result.DataAttribution {
		if attr.Field == "experience" && attr.Source == "linkedin" && attr.Action == "added" {
			hasExperienceAttribution = true
		}
	}
	assert.True(t, hasExperienceAttribution)
}

func TestEnrichCVConflictGuardRestoresExperience(t *testing.T) {
	svc := NewService(Config{})
	cv := testCV()

	// Three new entries on a one-entry CV exceeds the default threshold of 2.
	ext := &types.EnrichedData{
		LinkedIn: &types.LinkedInData{Positions: []types.LinkedInPosition{
			{Company: "A", Title: "x"},
			{Company: "B", Title: "y"},
			{Company: "C", Title: "z"},
		}},
	}

	result, err := svc.EnrichCV(cv, ext)
	require.NoError(t, err)

	assert.Equal(t, cv.Experience, result.EnrichedCV.Experience)
	require.Len(t, result.ConflictsResolved, 1)
	conflict := result.ConflictsResolved[0]
	assert.Equal(t, "experience", conflict.Field)
	assert.Contains(t, conflict.Reason, "significant discrepancy detected")
}

func TestEnrichCVConflictThresholdConfigurable(t *testing.T) {
	svc := NewService(Config{ExperienceConflictThreshold: 5})
	cv := testCV()

	ext := &types.EnrichedData{
		LinkedIn: &types.LinkedInData{Positions: []types.LinkedInPosition{
			{Company: "A", Title: "x"},
			{Company: "B", Title: "y"},
			{Company: "C", Title: "z"},
		}},
	}

	result, err := svc.EnrichCV(cv, ext)
	require.NoError(t, err)

	assert.Len(t, result.EnrichedCV.Experience, 4)
	assert.Empty(t, result.ConflictsResolved)
}

func TestEnrichCVQualityImprovement(t *testing.T) {
	svc := NewService(Config{})
	cv := testCV()

	ext := &types.EnrichedData{
		GitHub: &types.GitHubData{
			Languages: map[string]int{"Go": 5000, "Python": 3000, "Rust": 2000},
			Repositories: []types.GitHubRepo{
				{Name: "raft-kv", URL: "https://github.com/jane/raft-kv", Language: "Go", Stars: 120,
					Topics: []string{"distributed-systems"}},
			},
		},
		LinkedIn: &types.LinkedInData{
			Skills: []string{"Kubernetes", "Terraform"},
			Certifications: []types.LinkedInCertification{
				{Name: "CKA", Issuer: "CNCF"},
			},
		},
	}

	result, err := svc.EnrichCV(cv, ext)
	require.NoError(t, err)

	qi := result.QualityImprovement
	assert.Greater(t, qi.After, qi.Before)
	assert.Equal(t, qi.After-qi.Before, qi.Improvement)

	assert.NotEmpty(t, result.DataAttribution)
	assert.NotEmpty(t, result.Report)
	assert.Contains(t, result.Report, "Quality score")

	summary := result.EnrichmentSummary
	require.NotNil(t, summary.Skills)
	require.NotNil(t, summary.Portfolio)
	require.NotNil(t, summary.Certifications)
	require.NotNil(t, summary.Interests)
	assert.Greater(t, summary.Skills.NewSkillsAdded, 0)
	assert.Equal(t, 1, summary.Certifications.NewCerts)
}

func TestBuildReportListsConflicts(t *testing.T) {
	report := BuildReport(&types.EnrichmentResult{
		QualityImprovement: types.QualityImprovement{Before: 50, After: 70, Improvement: 20},
		ConflictsResolved: []types.ConflictResolution{
			{Field: "experience", Resolution: "restored original entries", Reason: "significant discrepancy detected"},
		},
	})

	assert.Contains(t, report, "50 -> 70")
	assert.Contains(t, report, "experience")
	assert.Contains(t, report, "significant discrepancy detected")
}
