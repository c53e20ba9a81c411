package enrichment

import (
	"strings"

	"github.com/jonathan/cv-enricher/internal/types"
)

// minInterestConfidence drops weakly-evidenced external interests.
const minInterestConfidence = 0.5

// interestKeywords are scanned against the website about text. Each hit
// becomes a candidate interest with the matched sentence as context.
var interestKeywords = []string{
	"open source", "photography", "music", "hiking", "climbing", "running",
	"cycling", "chess", "reading", "writing", "gaming", "travel", "cooking",
	"volunteering", "mentoring", "teaching", "blogging", "speaking",
}

// InterestsService merges declared CV interests with interests inferred from
// GitHub repository topics and the personal-website about text.
type InterestsService struct{}

// NewInterestsService creates an interests enrichment service.
func NewInterestsService() *InterestsService {
	return &InterestsService{}
}

// Enrich builds the merged interest list. Declared CV interests are always
// kept; inferred ones need enough confidence.
func (s *InterestsService) Enrich(cv *types.CV, ext *types.EnrichedData) *types.InterestsEnrichmentResult {
	merged := make(map[string]*types.InterestRecord)
	order := make([]string, 0, len(cv.Interests))

	cvKeys := make(map[string]bool, len(cv.Interests))
	for _, name := range cv.Interests {
		if strings.TrimSpace(name) == "" {
			continue
		}
		key := normalizeKey(name)
		cvKeys[key] = true
		if _, ok := merged[key]; ok {
			continue
		}
		merged[key] = &types.InterestRecord{
			Name:       name,
			Source:     sourceCV,
			Confidence: confidenceCV,
		}
		order = append(order, key)
	}

	if ext != nil {
		if ext.GitHub != nil {
			for _, repo := range ext.GitHub.Repositories {
				for _, topic := range repo.Topics {
					key := normalizeKey(topic)
					if key == "" {
						continue
					}
					if existing, ok := merged[key]; ok {
						if existing.Context == "" {
							existing.Context = "repository topic on " + repo.Name
						}
						continue
					}
					merged[key] = &types.InterestRecord{
						Name:       topic,
						Context:    "repository topic on " + repo.Name,
						Source:     sourceGitHub,
						Confidence: confidenceGitHub,
					}
					order = append(order, key)
				}
			}
		}
		if ext.PersonalWebsite != nil && ext.PersonalWebsite.About != "" {
			about := strings.ToLower(ext.PersonalWebsite.About)
			for _, keyword := range interestKeywords {
				if !strings.Contains(about, keyword) {
					continue
				}
				key := normalizeKey(keyword)
				if _, ok := merged[key]; ok {
					continue
				}
				merged[key] = &types.InterestRecord{
					Name:       keyword,
					Context:    "mentioned on personal website",
					Source:     sourceWebsite,
					Confidence: confidenceWebsite,
				}
				order = append(order, key)
			}
		}
	}

	result := &types.InterestsEnrichmentResult{}
	for _, key := range order {
		record := merged[key]
		if !cvKeys[key] && record.Confidence < minInterestConfidence {
			continue
		}
		result.Interests = append(result.Interests, *record)
		if !cvKeys[key] {
			result.NewInterests++
		}
	}

	result.QualityScore = s.score(result.Interests)
	return result
}

// score rates the interest list: breadth up to 60 (capped at 6 entries) plus
// up to 40 for the share with supporting context.
func (s *InterestsService) score(interests []types.InterestRecord) int {
	if len(interests) == 0 {
		return 0
	}
	breadth := len(interests)
	if breadth > 6 {
		breadth = 6
	}
	score := breadth * 60 / 6

	withContext := 0
	for _, interest := range interests {
		if interest.Context != "" {
			withContext++
		}
	}
	score += withContext * 40 / len(interests)
	if score > 100 {
		score = 100
	}
	return score
}
