// Package validation sanitizes and scores the external-data aggregate before
// it is cached or applied to a CV. Validate always returns a usable value;
// problems are recorded as issues, never raised as errors.
package validation

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/types"
)

const (
	// MaxPortfolioProjects flags a personal-website scrape gone wrong.
	MaxPortfolioProjects = 50
	// MaxAggregatedProjects truncates the cross-source accumulation slice.
	MaxAggregatedProjects = 20

	penaltyError   = 10
	penaltyWarning = 5
	penaltyInfo    = 1
	presenceBonus  = 5
)

// Service validates external-data aggregates.
type Service struct {
	log *zap.Logger
}

// NewService creates a validation service. log may be nil.
func NewService(log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{log: log}
}

// Validate returns a sanitized deep copy of the aggregate with its
// ValidationStatus populated. The input is never mutated. Validate never
// returns an error: if sanitization itself fails, the original data is
// copied unredacted and the failure is recorded as an issue.
func (s *Service) Validate(data *types.EnrichedData) *types.EnrichedData {
	if data == nil {
		return nil
	}

	status := &types.ValidationStatus{}
	sanitized, piiLabels, sensitive, sanitizeErr := s.sanitize(data)
	status.HasPersonalInfo = len(piiLabels) > 0
	status.HasSensitiveData = sensitive

	var issues []types.ValidationIssue
	if sanitizeErr != nil {
		issues = append(issues, types.ValidationIssue{
			Field:    "aggregate",
			Issue:    "sanitization failed, data passed through unredacted: " + sanitizeErr.Error(),
			Severity: types.SeverityWarning,
		})
	}
	for _, label := range piiLabels {
		issues = append(issues, types.ValidationIssue{
			Field:    "aggregate",
			Issue:    "detected and redacted " + label + " pattern",
			Severity: types.SeverityInfo,
		})
	}
	if sensitive {
		issues = append(issues, types.ValidationIssue{
			Field:    "aggregate",
			Issue:    "sensitive keyword present in payload",
			Severity: types.SeverityWarning,
		})
	}

	issues = append(issues, s.checkStructure(sanitized)...)

	if serialized, err := json.Marshal(sanitized); err == nil {
		issues = append(issues, checkSchema(string(serialized))...)
	}

	status.Issues = issues
	status.IsValid = true
	for _, issue := range issues {
		if issue.Severity == types.SeverityError {
			status.IsValid = false
			break
		}
	}
	status.QualityScore = s.scoreQuality(sanitized, issues)

	sanitized.ValidationStatus = status
	return sanitized
}

// sanitize deep-copies the aggregate through a JSON round trip, redacting
// PII in the serialized form. On any failure it falls back to an unredacted
// copy so the pipeline never loses data.
func (s *Service) sanitize(data *types.EnrichedData) (*types.EnrichedData, []string, bool, error) {
	serialized, err := json.Marshal(data)
	if err != nil {
		return copyUnredacted(data), nil, false, fmt.Errorf("marshal: %w", err)
	}

	text := string(serialized)
	piiLabels := DetectPII(text)
	sensitive := DetectSensitiveKeywords(text)

	redacted := text
	if len(piiLabels) > 0 {
		redacted = RedactPII(text)
	}

	var sanitized types.EnrichedData
	if err := json.Unmarshal([]byte(redacted), &sanitized); err != nil {
		s.log.Warn("validation: redacted payload failed to parse, passing through", zap.Error(err))
		return copyUnredacted(data), piiLabels, sensitive, fmt.Errorf("unmarshal redacted: %w", err)
	}
	return &sanitized, piiLabels, sensitive, nil
}

// checkStructure applies the per-section caps and dedup rules, mutating the
// sanitized copy in place.
func (s *Service) checkStructure(data *types.EnrichedData) []types.ValidationIssue {
	var issues []types.ValidationIssue

	if data.UserID == "" {
		issues = append(issues, types.ValidationIssue{
			Field:    "user_id",
			Issue:    "missing user id",
			Severity: types.SeverityError,
		})
	}

	if data.PersonalWebsite != nil && len(data.PersonalWebsite.Projects) > MaxPortfolioProjects {
		issues = append(issues, types.ValidationIssue{
			Field:    "personal_website.projects",
			Issue:    fmt.Sprintf("%d projects exceeds cap of %d", len(data.PersonalWebsite.Projects), MaxPortfolioProjects),
			Severity: types.SeverityError,
		})
	}

	// Set-semantics dedup for the skill accumulation slice.
	if len(data.AggregatedSkills) > 0 {
		seen := make(map[string]bool, len(data.AggregatedSkills))
		deduped := make([]string, 0, len(data.AggregatedSkills))
		for _, skill := range data.AggregatedSkills {
			if skill == "" || seen[skill] {
				continue
			}
			seen[skill] = true
			deduped = append(deduped, skill)
		}
		if len(deduped) < len(data.AggregatedSkills) {
			issues = append(issues, types.ValidationIssue{
				Field:    "aggregated_skills",
				Issue:    fmt.Sprintf("removed %d duplicate skills", len(data.AggregatedSkills)-len(deduped)),
				Severity: types.SeverityInfo,
			})
		}
		data.AggregatedSkills = deduped
	}

	// Projects are truncated, not deduplicated.
	if len(data.AggregatedProjects) > MaxAggregatedProjects {
		issues = append(issues, types.ValidationIssue{
			Field:    "aggregated_projects",
			Issue:    fmt.Sprintf("truncated %d projects to cap of %d", len(data.AggregatedProjects), MaxAggregatedProjects),
			Severity: types.SeverityWarning,
		})
		data.AggregatedProjects = data.AggregatedProjects[:MaxAggregatedProjects]
	}

	return issues
}

// scoreQuality starts at 100, subtracts per-issue penalties, and adds a
// presence bonus for each populated section, clamped to [0, 100].
func (s *Service) scoreQuality(data *types.EnrichedData, issues []types.ValidationIssue) int {
	score := 100
	for _, issue := range issues {
		switch issue.Severity {
		case types.SeverityError:
			score -= penaltyError
		case types.SeverityWarning:
			score -= penaltyWarning
		case types.SeverityInfo:
			score -= penaltyInfo
		}
	}

	if data.GitHub != nil {
		score += presenceBonus
	}
	if data.LinkedIn != nil {
		score += presenceBonus
	}
	if data.WebPresence != nil && len(data.WebPresence.Hits) > 0 {
		score += presenceBonus
	}
	if data.PersonalWebsite != nil && len(data.PersonalWebsite.Projects) > 0 {
		score += presenceBonus
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

// copyUnredacted returns a structural copy of the aggregate without touching
// its contents. Used only as a fallback when sanitization fails.
func copyUnredacted(data *types.EnrichedData) *types.EnrichedData {
	out := *data
	out.Sources = append([]types.DataSourceResult(nil), data.Sources...)
	out.AggregatedSkills = append([]string(nil), data.AggregatedSkills...)
	out.AggregatedProjects = append([]types.AggregatedProject(nil), data.AggregatedProjects...)
	return &out
}
