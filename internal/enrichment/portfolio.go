package enrichment

import (
	"math"
	"sort"

	"github.com/jonathan/cv-enricher/internal/types"
)

// minProjectConfidence drops weakly-evidenced external projects.
const minProjectConfidence = 0.5

// Per-entry quality points. Averaged across entries for the module score.
const (
	pointsDescription  = 30
	pointsURL          = 25
	pointsTechnologies = 25
	pointsMetrics      = 20
)

// PortfolioService merges CV projects with GitHub repositories and
// personal-website portfolio entries.
type PortfolioService struct{}

// NewPortfolioService creates a portfolio enrichment service.
func NewPortfolioService() *PortfolioService {
	return &PortfolioService{}
}

// Enrich builds the merged project list. Identity is the normalized project
// name plus its primary technology. GitHub repositories with zero stars are
// skipped for portfolio purposes.
func (s *PortfolioService) Enrich(cv *types.CV, ext *types.EnrichedData) *types.PortfolioEnrichmentResult {
	merged := make(map[string]*types.PortfolioProject)
	order := make([]string, 0)

	cvKeys := make(map[string]bool, len(cv.Projects))
	for _, p := range cv.Projects {
		project := &types.PortfolioProject{
			Name:         p.Name,
			Description:  p.Description,
			URL:          p.URL,
			Technologies: append([]string(nil), p.Technologies...),
			Source:       sourceCV,
			Confidence:   confidenceCV,
		}
		key := projectKey(project)
		cvKeys[key] = true
		if _, ok := merged[key]; !ok {
			order = append(order, key)
		}
		mergeProject(merged, key, project)
	}

	if ext != nil {
		if ext.GitHub != nil {
			for _, repo := range ext.GitHub.Repositories {
				if repo.Stars == 0 {
					continue
				}
				project := &types.PortfolioProject{
					Name:        repo.Name,
					Description: repo.Description,
					URL:         repo.URL,
					Stars:       repo.Stars,
					Forks:       repo.Forks,
					Source:      sourceGitHub,
					Confidence:  confidenceGitHub,
				}
				if repo.Language != "" {
					project.Technologies = []string{repo.Language}
				}
				key := projectKey(project)
				if _, ok := merged[key]; !ok {
					order = append(order, key)
				}
				mergeProject(merged, key, project)
			}
		}
		if ext.PersonalWebsite != nil {
			for _, wp := range ext.PersonalWebsite.Projects {
				project := &types.PortfolioProject{
					Name:         wp.Name,
					Description:  wp.Description,
					URL:          wp.URL,
					Technologies: append([]string(nil), wp.Technologies...),
					Source:       sourceWebsite,
					Confidence:   confidenceWebsite,
				}
				key := projectKey(project)
				if _, ok := merged[key]; !ok {
					order = append(order, key)
				}
				mergeProject(merged, key, project)
			}
		}
	}

	result := &types.PortfolioEnrichmentResult{}
	for _, key := range order {
		project := merged[key]
		if !cvKeys[key] && project.Confidence < minProjectConfidence {
			continue
		}
		result.Projects = append(result.Projects, *project)
		if cvKeys[key] {
			if project.Source != sourceCV {
				result.EnhancedProjects++
			}
		} else {
			result.NewProjects++
		}
	}

	// Composite score: confidence plus log-scaled popularity, so a starred
	// repository outranks an equally-confident unstarred one without stars
	// dominating entirely.
	sort.SliceStable(result.Projects, func(i, j int) bool {
		return ProjectScore(&result.Projects[i]) > ProjectScore(&result.Projects[j])
	})

	result.QualityScore = s.score(result.Projects)
	return result
}

// ProjectScore combines confidence with log-scaled popularity metrics.
func ProjectScore(p *types.PortfolioProject) float64 {
	score := p.Confidence
	if p.Stars > 0 {
		score += 0.1 * math.Log1p(float64(p.Stars))
	}
	if p.Forks > 0 {
		score += 0.05 * math.Log1p(float64(p.Forks))
	}
	return score
}

// projectKey builds the dedup identity: normalized name plus primary
// technology as discriminator.
func projectKey(p *types.PortfolioProject) string {
	tech := ""
	if len(p.Technologies) > 0 {
		tech = p.Technologies[0]
	}
	return compositeKey(p.Name, tech)
}

// mergeProject inserts or merges a project: keep the richer description and
// URL, union technologies, max confidence and metrics. The source tag of
// the later contribution wins so enhanced CV entries are attributable.
func mergeProject(merged map[string]*types.PortfolioProject, key string, project *types.PortfolioProject) {
	existing, ok := merged[key]
	if !ok {
		merged[key] = project
		return
	}
	if len(project.Description) > len(existing.Description) {
		existing.Description = project.Description
	}
	if existing.URL == "" {
		existing.URL = project.URL
	}
	existing.Technologies = unionSources(existing.Technologies, project.Technologies)
	if project.Confidence > existing.Confidence {
		existing.Confidence = project.Confidence
	}
	if project.Stars > existing.Stars {
		existing.Stars = project.Stars
	}
	if project.Forks > existing.Forks {
		existing.Forks = project.Forks
	}
	if project.Source != sourceCV {
		existing.Source = project.Source
	}
}

// score averages per-entry quality points across all entries.
func (s *PortfolioService) score(projects []types.PortfolioProject) int {
	if len(projects) == 0 {
		return 0
	}
	total := 0
	for _, p := range projects {
		if p.Description != "" {
			total += pointsDescription
		}
		if p.URL != "" {
			total += pointsURL
		}
		if len(p.Technologies) > 0 {
			total += pointsTechnologies
		}
		if p.Stars > 0 || p.Forks > 0 {
			total += pointsMetrics
		}
	}
	return total / len(projects)
}
