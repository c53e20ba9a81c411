package types

import "time"

// Proficiency is an ordinal skill level.
type Proficiency string

const (
	ProficiencyBeginner     Proficiency = "beginner"
	ProficiencyIntermediate Proficiency = "intermediate"
	ProficiencyAdvanced     Proficiency = "advanced"
	ProficiencyExpert       Proficiency = "expert"
)

// proficiencyRank orders proficiency levels for merging.
var proficiencyRank = map[Proficiency]int{
	ProficiencyBeginner:     1,
	ProficiencyIntermediate: 2,
	ProficiencyAdvanced:     3,
	ProficiencyExpert:       4,
}

// Rank returns the ordinal position of the proficiency (0 for unknown).
func (p Proficiency) Rank() int {
	return proficiencyRank[p]
}

// SkillCategory is one of the five fixed skill buckets.
type SkillCategory string

const (
	CategoryLanguages  SkillCategory = "languages"
	CategoryFrameworks SkillCategory = "frameworks"
	CategoryTools      SkillCategory = "tools"
	CategorySoft       SkillCategory = "soft"
	CategoryTechnical  SkillCategory = "technical"
)

// SkillWithMetadata is an enriched skill record. Identity is the normalized
// lowercase alphanumeric form of Name.
type SkillWithMetadata struct {
	Name         string        `json:"name"`
	Category     SkillCategory `json:"category"`
	Proficiency  Proficiency   `json:"proficiency"`
	Validated    bool          `json:"validated"`
	Endorsements int           `json:"endorsements,omitempty"`
	Sources      []string      `json:"sources"`
	Confidence   float64       `json:"confidence"`
}

// PortfolioProject is an enriched project record gathered across sources.
type PortfolioProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Stars        int      `json:"stars,omitempty"`
	Forks        int      `json:"forks,omitempty"`
	Source       string   `json:"source"`
	Confidence   float64  `json:"confidence"`
}

// CertificationRecord is an enriched certification gathered across sources.
type CertificationRecord struct {
	Name         string  `json:"name"`
	Issuer       string  `json:"issuer,omitempty"`
	IssueDate    string  `json:"issue_date,omitempty"`
	ExpiryDate   string  `json:"expiry_date,omitempty"`
	CredentialID string  `json:"credential_id,omitempty"`
	URL          string  `json:"url,omitempty"`
	Verified     bool    `json:"verified"`
	Source       string  `json:"source"`
	Confidence   float64 `json:"confidence"`
}

// ValidityStatus describes whether a certification is still current.
type ValidityStatus string

const (
	ValidityValid        ValidityStatus = "valid"
	ValidityExpired      ValidityStatus = "expired"
	ValidityExpiringSoon ValidityStatus = "expiring_soon"
	ValidityUnknown      ValidityStatus = "unknown"
)

// InterestRecord is an enriched hobby or interest.
type InterestRecord struct {
	Name       string  `json:"name"`
	Context    string  `json:"context,omitempty"`
	Source     string  `json:"source"`
	Confidence float64 `json:"confidence"`
}

// SkillsEnrichmentResult is the output of the skills enrichment service.
type SkillsEnrichmentResult struct {
	Skills          []SkillWithMetadata                   `json:"skills"`
	ByCategory      map[SkillCategory][]SkillWithMetadata `json:"by_category,omitempty"`
	NewSkillsAdded  int                                   `json:"new_skills_added"`
	SkillsValidated int                                   `json:"skills_validated"`
	QualityScore    int                                   `json:"quality_score"`
}

// PortfolioEnrichmentResult is the output of the portfolio enrichment service.
type PortfolioEnrichmentResult struct {
	Projects         []PortfolioProject `json:"projects"`
	NewProjects      int                `json:"new_projects"`
	EnhancedProjects int                `json:"enhanced_projects"`
	QualityScore     int                `json:"quality_score"`
}

// CertificationEnrichmentResult is the output of the certification service.
type CertificationEnrichmentResult struct {
	Certifications []CertificationRecord `json:"certifications"`
	NewCerts       int                   `json:"new_certs"`
	VerifiedCerts  int                   `json:"verified_certs"`
	QualityScore   int                   `json:"quality_score"`
}

// InterestsEnrichmentResult is the output of the hobbies/interests service.
type InterestsEnrichmentResult struct {
	Interests    []InterestRecord `json:"interests"`
	NewInterests int              `json:"new_interests"`
	QualityScore int              `json:"quality_score"`
}

// EnrichmentSummary collects the per-module results.
type EnrichmentSummary struct {
	Skills         *SkillsEnrichmentResult        `json:"skills,omitempty"`
	Portfolio      *PortfolioEnrichmentResult     `json:"portfolio,omitempty"`
	Certifications *CertificationEnrichmentResult `json:"certifications,omitempty"`
	Interests      *InterestsEnrichmentResult     `json:"interests,omitempty"`
}

// DataAttribution records which source touched which CV field, for
// user-facing transparency. Never discarded, even when empty.
type DataAttribution struct {
	Field      string  `json:"field"`
	Source     string  `json:"source"`
	Action     string  `json:"action"` // added | enhanced
	Confidence float64 `json:"confidence"`
}

// ConflictResolution records a rejected enrichment and why.
type ConflictResolution struct {
	Field      string `json:"field"`
	Resolution string `json:"resolution"`
	Reason     string `json:"reason"`
}

// QualityImprovement holds the before/after CV quality scores.
type QualityImprovement struct {
	Before      int `json:"before"`
	After       int `json:"after"`
	Improvement int `json:"improvement"`
}

// EnrichmentResult is the final output of the enrichment orchestrator.
type EnrichmentResult struct {
	EnrichedCV         *CV                  `json:"enriched_cv"`
	EnrichmentSummary  EnrichmentSummary    `json:"enrichment_summary"`
	DataAttribution    []DataAttribution    `json:"data_attribution"`
	QualityImprovement QualityImprovement   `json:"quality_improvement"`
	ConflictsResolved  []ConflictResolution `json:"conflicts_resolved"`
	Report             string               `json:"report,omitempty"`
	Timestamp          time.Time            `json:"timestamp"`
}
