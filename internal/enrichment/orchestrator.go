package enrichment

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/jonathan/cv-enricher/internal/types"
)

// DefaultExperienceConflictThreshold is the maximum change in experience-entry
// count before the guard rejects the enrichment for that field.
const DefaultExperienceConflictThreshold = 2

// Fixed attribution confidences: additions carry less certainty than
// enhancements of entries the CV already had.
const (
	attributionAddConfidence     = 0.8
	attributionEnhanceConfidence = 0.9
)

// ErrNilCV is returned when EnrichCV is called without a CV.
var ErrNilCV = errors.New("enrichment: nil CV")

// Config tunes the enrichment orchestrator.
type Config struct {
	// ExperienceConflictThreshold rejects experience enrichment when the
	// entry count changes by more than this. Zero means the default.
	ExperienceConflictThreshold int
	Logger                      *zap.Logger
}

// Service sequences the four enrichment services over a cloned CV and
// reports quality delta, attribution, and resolved conflicts.
type Service struct {
	skills         *SkillsService
	portfolio      *PortfolioService
	certifications *CertificationsService
	interests      *InterestsService
	threshold      int
	log            *zap.Logger
	now            func() time.Time
}

// NewService creates the enrichment orchestrator.
func NewService(cfg Config) *Service {
	threshold := cfg.ExperienceConflictThreshold
	if threshold <= 0 {
		threshold = DefaultExperienceConflictThreshold
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		skills:         NewSkillsService(),
		portfolio:      NewPortfolioService(),
		certifications: NewCertificationsService(),
		interests:      NewInterestsService(),
		threshold:      threshold,
		log:            log,
		now:            time.Now,
	}
}

// EnrichCV runs all four enrichment modules against a clone of the CV and
// applies their outputs. The caller's CV is never mutated. A nil external
// aggregate is allowed; enrichment then only normalizes what the CV already
// has.
func (s *Service) EnrichCV(cv *types.CV, ext *types.EnrichedData) (*types.EnrichmentResult, error) {
	if cv == nil {
		return nil, ErrNilCV
	}

	enriched := cv.Clone()
	before := CVQualityScore(cv)

	result := &types.EnrichmentResult{
		EnrichedCV:        enriched,
		DataAttribution:   []types.DataAttribution{},
		ConflictsResolved: []types.ConflictResolution{},
		Timestamp:         s.now(),
	}

	skills := s.skills.Enrich(cv, ext)
	result.EnrichmentSummary.Skills = skills
	s.applySkills(enriched, skills, result)

	portfolio := s.portfolio.Enrich(cv, ext)
	result.EnrichmentSummary.Portfolio = portfolio
	s.applyPortfolio(enriched, portfolio, result)

	certs := s.certifications.Enrich(cv, ext)
	result.EnrichmentSummary.Certifications = certs
	s.applyCertifications(enriched, certs, result)

	interests := s.interests.Enrich(cv, ext)
	result.EnrichmentSummary.Interests = interests
	s.applyInterests(enriched, interests, result)

	s.applyExperience(cv, enriched, ext, result)

	after := CVQualityScore(enriched)
	result.QualityImprovement = types.QualityImprovement{
		Before:      before,
		After:       after,
		Improvement: after - before,
	}
	result.Report = BuildReport(result)

	s.log.Info("cv enrichment complete",
		zap.Int("quality_before", before),
		zap.Int("quality_after", after),
		zap.Int("attributions", len(result.DataAttribution)),
		zap.Int("conflicts", len(result.ConflictsResolved)))

	return result, nil
}

func (s *Service) applySkills(enriched *types.CV, skills *types.SkillsEnrichmentResult, result *types.EnrichmentResult) {
	if len(skills.Skills) == 0 {
		return
	}
	names := make([]string, 0, len(skills.Skills))
	for _, skill := range skills.Skills {
		names = append(names, skill.Name)
	}
	enriched.Skills = names
	s.attribute(result, "skills", externalSkillSources(skills.Skills), skills.NewSkillsAdded > 0, skills.SkillsValidated > 0)
}

func (s *Service) applyPortfolio(enriched *types.CV, portfolio *types.PortfolioEnrichmentResult, result *types.EnrichmentResult) {
	if len(portfolio.Projects) == 0 {
		return
	}
	projects := make([]types.Project, 0, len(portfolio.Projects))
	sources := make([]string, 0, 2)
	for _, p := range portfolio.Projects {
		projects = append(projects, types.Project{
			Name:         p.Name,
			Description:  p.Description,
			URL:          p.URL,
			Technologies: p.Technologies,
		})
		if p.Source != sourceCV && !hasSource(sources, p.Source) {
			sources = append(sources, p.Source)
		}
	}
	enriched.Projects = projects
	s.attribute(result, "projects", sources, portfolio.NewProjects > 0, portfolio.EnhancedProjects > 0)
}

func (s *Service) applyCertifications(enriched *types.CV, certs *types.CertificationEnrichmentResult, result *types.EnrichmentResult) {
	if len(certs.Certifications) == 0 {
		return
	}
	records := make([]types.Certification, 0, len(certs.Certifications))
	sources := make([]string, 0, 1)
	for _, c := range certs.Certifications {
		records = append(records, types.Certification{
			Name:         c.Name,
			Issuer:       c.Issuer,
			IssueDate:    c.IssueDate,
			ExpiryDate:   c.ExpiryDate,
			CredentialID: c.CredentialID,
			URL:          c.URL,
		})
		if c.Source != sourceCV && !hasSource(sources, c.Source) {
			sources = append(sources, c.Source)
		}
	}
	enriched.Certifications = records
	s.attribute(result, "certifications", sources, certs.NewCerts > 0, certs.VerifiedCerts > 0)
}

func (s *Service) applyInterests(enriched *types.CV, interests *types.InterestsEnrichmentResult, result *types.EnrichmentResult) {
	if len(interests.Interests) == 0 {
		return
	}
	names := make([]string, 0, len(interests.Interests))
	sources := make([]string, 0, 2)
	for _, interest := range interests.Interests {
		names = append(names, interest.Name)
		if interest.Source != sourceCV && !hasSource(sources, interest.Source) {
			sources = append(sources, interest.Source)
		}
	}
	enriched.Interests = names
	s.attribute(result, "interests", sources, interests.NewInterests > 0, false)
}

// applyExperience appends LinkedIn positions missing from the CV, then runs
// the conflict guard: a change in entry count beyond the threshold restores
// the original entries and records a conflict instead.
func (s *Service) applyExperience(original, enriched *types.CV, ext *types.EnrichedData, result *types.EnrichmentResult) {
	if ext == nil || ext.LinkedIn == nil || len(ext.LinkedIn.Positions) == 0 {
		return
	}

	existing := make(map[string]bool, len(enriched.Experience))
	for _, e := range enriched.Experience {
		existing[compositeKey(e.Company, e.Title)] = true
	}

	added := 0
	for _, pos := range ext.LinkedIn.Positions {
		key := compositeKey(pos.Company, pos.Title)
		if existing[key] {
			continue
		}
		existing[key] = true
		enriched.Experience = append(enriched.Experience, types.Experience{
			Company:     pos.Company,
			Title:       pos.Title,
			Description: pos.Summary,
		})
		added++
	}
	if added == 0 {
		return
	}

	delta := len(enriched.Experience) - len(original.Experience)
	if delta < 0 {
		delta = -delta
	}
	if delta > s.threshold {
		enriched.Experience = original.Clone().Experience
		result.ConflictsResolved = append(result.ConflictsResolved, types.ConflictResolution{
			Field:      "experience",
			Resolution: "restored original entries",
			Reason:     "significant discrepancy detected",
		})
		s.log.Warn("experience enrichment rejected",
			zap.Int("delta", delta), zap.Int("threshold", s.threshold))
		return
	}

	result.DataAttribution = append(result.DataAttribution, types.DataAttribution{
		Field:      "experience",
		Source:     sourceLinkedIn,
		Action:     "added",
		Confidence: attributionAddConfidence,
	})
}

// attribute appends one attribution record per contributing external source.
func (s *Service) attribute(result *types.EnrichmentResult, field string, sources []string, added, enhanced bool) {
	if len(sources) == 0 || (!added && !enhanced) {
		return
	}
	action := "enhanced"
	confidence := attributionEnhanceConfidence
	if added {
		action = "added"
		confidence = attributionAddConfidence
	}
	for _, source := range sources {
		result.DataAttribution = append(result.DataAttribution, types.DataAttribution{
			Field:      field,
			Source:     source,
			Action:     action,
			Confidence: confidence,
		})
	}
}

// externalSkillSources collects the non-CV sources seen across a skill list.
func externalSkillSources(skills []types.SkillWithMetadata) []string {
	out := make([]string, 0, 3)
	for _, skill := range skills {
		for _, source := range skill.Sources {
			if source == sourceCV || hasSource(out, source) {
				continue
			}
			out = append(out, source)
		}
	}
	return out
}
