package enrichment

import (
	"sort"
	"strings"

	"github.com/jonathan/cv-enricher/internal/types"
)

// minSkillConfidence drops external-only skills with weak evidence.
const minSkillConfidence = 0.4

// languageShare thresholds map a language's share of the candidate's GitHub
// bytes to a proficiency level.
const (
	shareExpert       = 0.4
	shareAdvanced     = 0.2
	shareIntermediate = 0.05
)

// Category keyword lists. Membership is checked on the normalized skill
// name; anything unmatched lands in the technical bucket.
var (
	languageKeywords = []string{
		"go", "golang", "python", "java", "javascript", "typescript", "ruby",
		"rust", "c", "cpp", "csharp", "php", "swift", "kotlin", "scala",
		"elixir", "haskell", "sql", "html", "css", "shell", "bash",
	}
	frameworkKeywords = []string{
		"react", "angular", "vue", "svelte", "django", "flask", "rails",
		"spring", "express", "nextjs", "nestjs", "laravel", "gin", "echo",
		"fastapi", "dotnet", "flutter",
	}
	toolKeywords = []string{
		"docker", "kubernetes", "terraform", "ansible", "git", "jenkins",
		"aws", "gcp", "azure", "postgresql", "postgres", "mysql", "redis",
		"kafka", "rabbitmq", "elasticsearch", "grafana", "prometheus",
		"linux", "nginx",
	}
	softKeywords = []string{
		"leadership", "communication", "teamwork", "mentoring", "management",
		"collaboration", "presentation", "negotiation", "problemsolving",
	}
)

// SkillsService merges CV skills with external evidence into categorized,
// confidence-scored skill records.
type SkillsService struct{}

// NewSkillsService creates a skills enrichment service.
func NewSkillsService() *SkillsService {
	return &SkillsService{}
}

// Enrich builds the merged skill list. CV skills are kept and validated
// against external evidence; external-only skills are added when their
// confidence clears the threshold.
func (s *SkillsService) Enrich(cv *types.CV, ext *types.EnrichedData) *types.SkillsEnrichmentResult {
	merged := make(map[string]*types.SkillWithMetadata)

	cvKeys := make(map[string]bool, len(cv.Skills))
	for _, name := range cv.Skills {
		if strings.TrimSpace(name) == "" {
			continue
		}
		key := normalizeKey(name)
		cvKeys[key] = true
		addSkill(merged, &types.SkillWithMetadata{
			Name:        name,
			Category:    ClassifySkill(name),
			Proficiency: types.ProficiencyIntermediate,
			Sources:     []string{sourceCV},
			Confidence:  confidenceCV,
		})
	}

	if ext != nil {
		s.addGitHubSkills(merged, ext.GitHub)
		s.addLinkedInSkills(merged, ext.LinkedIn)
		s.addWebsiteSkills(merged, ext.PersonalWebsite)
	}

	result := &types.SkillsEnrichmentResult{
		ByCategory: make(map[types.SkillCategory][]types.SkillWithMetadata),
	}
	for key, skill := range merged {
		// External-only skills need enough evidence to be worth adding.
		if !cvKeys[key] && skill.Confidence < minSkillConfidence {
			continue
		}
		// A skill seen by more than one source, or by any non-CV source,
		// counts as validated.
		skill.Validated = len(skill.Sources) > 1 || (len(skill.Sources) == 1 && skill.Sources[0] != sourceCV)
		result.Skills = append(result.Skills, *skill)
		if !cvKeys[key] {
			result.NewSkillsAdded++
		} else if skill.Validated {
			result.SkillsValidated++
		}
	}

	sort.Slice(result.Skills, func(i, j int) bool {
		if result.Skills[i].Confidence != result.Skills[j].Confidence {
			return result.Skills[i].Confidence > result.Skills[j].Confidence
		}
		return result.Skills[i].Name < result.Skills[j].Name
	})

	for _, skill := range result.Skills {
		result.ByCategory[skill.Category] = append(result.ByCategory[skill.Category], skill)
	}

	result.QualityScore = s.score(result.Skills)
	return result
}

// addGitHubSkills derives language skills from aggregate language bytes,
// with proficiency proportional to each language's share.
func (s *SkillsService) addGitHubSkills(merged map[string]*types.SkillWithMetadata, gh *types.GitHubData) {
	if gh == nil || len(gh.Languages) == 0 {
		return
	}
	total := 0
	for _, bytes := range gh.Languages {
		total += bytes
	}
	if total == 0 {
		return
	}
	for language, bytes := range gh.Languages {
		share := float64(bytes) / float64(total)
		addSkill(merged, &types.SkillWithMetadata{
			Name:        language,
			Category:    CategoryLanguagesFor(language),
			Proficiency: ProficiencyFromShare(share),
			Sources:     []string{sourceGitHub},
			Confidence:  confidenceGitHub,
		})
	}
}

// addLinkedInSkills adds declared skills, with endorsement-free default
// proficiency.
func (s *SkillsService) addLinkedInSkills(merged map[string]*types.SkillWithMetadata, li *types.LinkedInData) {
	if li == nil {
		return
	}
	for _, name := range li.Skills {
		if strings.TrimSpace(name) == "" {
			continue
		}
		addSkill(merged, &types.SkillWithMetadata{
			Name:        name,
			Category:    ClassifySkill(name),
			Proficiency: types.ProficiencyIntermediate,
			Sources:     []string{sourceLinkedIn},
			Confidence:  confidenceLinkedIn,
		})
	}
}

// addWebsiteSkills treats technologies listed on portfolio projects as
// skill evidence.
func (s *SkillsService) addWebsiteSkills(merged map[string]*types.SkillWithMetadata, site *types.PersonalWebsite) {
	if site == nil {
		return
	}
	for _, project := range site.Projects {
		for _, tech := range project.Technologies {
			if strings.TrimSpace(tech) == "" {
				continue
			}
			addSkill(merged, &types.SkillWithMetadata{
				Name:        tech,
				Category:    ClassifySkill(tech),
				Proficiency: types.ProficiencyBeginner,
				Sources:     []string{sourceWebsite},
				Confidence:  confidenceWebsite,
			})
		}
	}
}

// addSkill inserts or merges a skill record: union of sources, max of
// confidence and endorsements, the higher proficiency.
func addSkill(merged map[string]*types.SkillWithMetadata, skill *types.SkillWithMetadata) {
	key := normalizeKey(skill.Name)
	if key == "" {
		return
	}
	existing, ok := merged[key]
	if !ok {
		merged[key] = skill
		return
	}
	existing.Sources = unionSources(existing.Sources, skill.Sources)
	if skill.Confidence > existing.Confidence {
		existing.Confidence = skill.Confidence
	}
	if skill.Endorsements > existing.Endorsements {
		existing.Endorsements = skill.Endorsements
	}
	if skill.Proficiency.Rank() > existing.Proficiency.Rank() {
		existing.Proficiency = skill.Proficiency
	}
}

// score rates the skill list 0-100: breadth up to 50 points (capped at 20
// skills), validation share up to 30, category coverage up to 20.
func (s *SkillsService) score(skills []types.SkillWithMetadata) int {
	if len(skills) == 0 {
		return 0
	}

	breadth := len(skills)
	if breadth > 20 {
		breadth = 20
	}
	score := breadth * 50 / 20

	validated := 0
	categories := make(map[types.SkillCategory]bool)
	for _, skill := range skills {
		if skill.Validated {
			validated++
		}
		categories[skill.Category] = true
	}
	score += validated * 30 / len(skills)
	score += len(categories) * 20 / 5

	if score > 100 {
		score = 100
	}
	return score
}

// ClassifySkill assigns one of the five fixed categories by keyword
// membership.
func ClassifySkill(name string) types.SkillCategory {
	key := normalizeKey(name)
	for _, kw := range languageKeywords {
		if key == kw {
			return types.CategoryLanguages
		}
	}
	for _, kw := range frameworkKeywords {
		if key == kw {
			return types.CategoryFrameworks
		}
	}
	for _, kw := range toolKeywords {
		if key == kw {
			return types.CategoryTools
		}
	}
	for _, kw := range softKeywords {
		if key == kw {
			return types.CategorySoft
		}
	}
	return types.CategoryTechnical
}

// CategoryLanguagesFor classifies a GitHub language name, falling back to
// the generic classifier for markup and config languages.
func CategoryLanguagesFor(language string) types.SkillCategory {
	// GitHub reports it as a language; trust that over keyword lists.
	if ClassifySkill(language) == types.CategoryTechnical {
		return types.CategoryLanguages
	}
	return ClassifySkill(language)
}

// ProficiencyFromShare maps a language's share of total bytes to a
// proficiency level.
func ProficiencyFromShare(share float64) types.Proficiency {
	switch {
	case share >= shareExpert:
		return types.ProficiencyExpert
	case share >= shareAdvanced:
		return types.ProficiencyAdvanced
	case share >= shareIntermediate:
		return types.ProficiencyIntermediate
	default:
		return types.ProficiencyBeginner
	}
}
