package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-enricher/internal/types"
)

func TestSkillsMergeTakesMaxConfidenceAndUnionSources(t *testing.T) {
	svc := NewSkillsService()

	cv := &types.CV{Skills: []string{"Go"}}
	ext := &types.EnrichedData{
		GitHub: &types.GitHubData{Languages: map[string]int{"Go": 1000}},
	}

	result := svc.Enrich(cv, ext)
	require.Len(t, result.Skills, 1)

	skill := result.Skills[0]
	assert.Equal(t, "Go", skill.Name)
	// cv carries 0.9, github 0.8; the merge keeps the max.
	assert.InDelta(t, 0.9, skill.Confidence, 0.001)
	assert.ElementsMatch(t, []string{"cv", "github"}, skill.Sources)
	assert.True(t, skill.Validated)
}

func TestSkillsExternalOnlyAdded(t *testing.T) {
	svc := NewSkillsService()

	cv := &types.CV{Skills: []string{"Python"}}
	ext := &types.EnrichedData{
		GitHub: &types.GitHubData{Languages: map[string]int{"Python": 8000, "Go": 2000}},
	}

	result := svc.Enrich(cv, ext)

	require.Len(t, result.Skills, 2)
	assert.Equal(t, 1, result.NewSkillsAdded)
	assert.Equal(t, 1, result.SkillsValidated)

	byName := make(map[string]types.SkillWithMetadata)
	for _, s := range result.Skills {
		byName[s.Name] = s
	}
	// Go is 20% of the bytes: advanced.
	assert.Equal(t, types.ProficiencyAdvanced, byName["Go"].Proficiency)
	// Python is 80%: expert, and the CV entry is upgraded.
	assert.Equal(t, types.ProficiencyExpert, byName["Python"].Proficiency)
}

func TestSkillsNormalizedIdentity(t *testing.T) {
	svc := NewSkillsService()

	cv := &types.CV{Skills: []string{"Node.js"}}
	ext := &types.EnrichedData{
		LinkedIn: &types.LinkedInData{Skills: []string{"NodeJS"}},
	}

	result := svc.Enrich(cv, ext)

	require.Len(t, result.Skills, 1)
	assert.ElementsMatch(t, []string{"cv", "linkedin"}, result.Skills[0].Sources)
}

func TestSkillsSortedByConfidence(t *testing.T) {
	svc := NewSkillsService()

	cv := &types.CV{Skills: []string{"Chess Openings"}}
	ext := &types.EnrichedData{
		LinkedIn: &types.LinkedInData{Skills: []string{"Kubernetes"}},
		PersonalWebsite: &types.PersonalWebsite{
			Projects: []types.WebsiteProject{{Name: "p", Technologies: []string{"Terraform"}}},
		},
	}

	result := svc.Enrich(cv, ext)
	require.Len(t, result.Skills, 3)

	for i := 1; i < len(result.Skills); i++ {
		assert.GreaterOrEqual(t, result.Skills[i-1].Confidence, result.Skills[i].Confidence)
	}
}

func TestClassifySkill(t *testing.T) {
	tests := []struct {
		name string
		want types.SkillCategory
	}{
		{"Go", types.CategoryLanguages},
		{"TypeScript", types.CategoryLanguages},
		{"React", types.CategoryFrameworks},
		{"Kubernetes", types.CategoryTools},
		{"Leadership", types.CategorySoft},
		{"Stream Processing", types.CategoryTechnical},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifySkill(tt.name))
		})
	}
}

func TestCategoryLanguagesFor(t *testing.T) {
	// GitHub-reported languages default to the languages bucket even when
	// the keyword list does not know them.
	assert.Equal(t, types.CategoryLanguages, CategoryLanguagesFor("Zig"))
	assert.Equal(t, types.CategoryLanguages, CategoryLanguagesFor("Go"))
}

func TestProficiencyFromShare(t *testing.T) {
	assert.Equal(t, types.ProficiencyExpert, ProficiencyFromShare(0.5))
	assert.Equal(t, types.ProficiencyAdvanced, ProficiencyFromShare(0.25))
	assert.Equal(t, types.ProficiencyIntermediate, ProficiencyFromShare(0.1))
	assert.Equal(t, types.ProficiencyBeginner, ProficiencyFromShare(0.01))
}

func TestSkillsWeakExternalEvidenceDropped(t *testing.T) {
	svc := NewSkillsService()

	cv := &types.CV{}
	ext := &types.EnrichedData{
		PersonalWebsite: &types.PersonalWebsite{
			Projects: []types.WebsiteProject{{Name: "p", Technologies: []string{"CoolTech"}}},
		},
	}

	// Website confidence is 0.7, above the 0.4 floor: kept.
	result := svc.Enrich(cv, ext)
	require.Len(t, result.Skills, 1)
	assert.Equal(t, 1, result.NewSkillsAdded)
}
