package orchestration

import (
	"fmt"

	"github.com/jonathan/cv-enricher/internal/types"
)

// maxGitHubPortfolioRepos bounds how many repositories one merge may append
// to the aggregated projects slice.
const maxGitHubPortfolioRepos = 5

// mergePayload folds one source's typed payload into the aggregate. Each
// source owns a disjoint field of the aggregate; only the accumulation
// slices (skills, projects) receive appends from more than one source, so
// settle-order merging affects slice order only. The switch is exhaustive
// over the registered sources; an unhandled source is a programming error
// and propagates as a fatal one.
func mergePayload(data *types.EnrichedData, id types.SourceID, payload *types.SourcePayload) error {
	if payload == nil {
		return fmt.Errorf("source %s returned a nil payload", id)
	}

	switch id {
	case types.SourceGitHub:
		if payload.GitHub == nil {
			return fmt.Errorf("source %s payload missing github data", id)
		}
		data.GitHub = payload.GitHub
		for i, repo := range payload.GitHub.Repositories {
			if i >= maxGitHubPortfolioRepos {
				break
			}
			project := types.AggregatedProject{
				Name:        repo.Name,
				Description: repo.Description,
				URL:         repo.URL,
				Stars:       repo.Stars,
				Source:      types.SourceGitHub,
			}
			if repo.Language != "" {
				project.Technologies = []string{repo.Language}
			}
			data.AggregatedProjects = append(data.AggregatedProjects, project)
		}

	case types.SourceLinkedIn:
		if payload.LinkedIn == nil {
			return fmt.Errorf("source %s payload missing linkedin data", id)
		}
		data.LinkedIn = payload.LinkedIn
		data.AggregatedSkills = append(data.AggregatedSkills, payload.LinkedIn.Skills...)

	case types.SourceWeb:
		if payload.Web == nil {
			return fmt.Errorf("source %s payload missing web data", id)
		}
		data.WebPresence = payload.Web

	case types.SourceWebsite:
		if payload.Website == nil {
			return fmt.Errorf("source %s payload missing website data", id)
		}
		data.PersonalWebsite = payload.Website
		for _, p := range payload.Website.Projects {
			data.AggregatedProjects = append(data.AggregatedProjects, types.AggregatedProject{
				Name:         p.Name,
				Description:  p.Description,
				URL:          p.URL,
				Technologies: p.Technologies,
				Source:       types.SourceWebsite,
			})
		}

	default:
		return fmt.Errorf("unknown source %s in merge", id)
	}

	return nil
}
