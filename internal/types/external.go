package types

import "time"

// SourceID identifies one external data source.
type SourceID string

const (
	// SourceGitHub is the GitHub REST API source.
	SourceGitHub SourceID = "github"
	// SourceLinkedIn is the LinkedIn public-profile source.
	SourceLinkedIn SourceID = "linkedin"
	// SourceWeb is the web-search source.
	SourceWeb SourceID = "web"
	// SourceWebsite is the personal-website scraper source.
	SourceWebsite SourceID = "website"
)

// Priority expresses how urgent an orchestration request is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ExternalDataSource describes one registered source. Lower Priority values
// are fetched first. The registry is static and never persisted.
type ExternalDataSource struct {
	ID        SourceID
	Name      string
	Priority  int
	Enabled   bool
	RateLimit int // requests per minute, 0 = unlimited
}

// OrchestrationOptions are per-request overrides.
type OrchestrationOptions struct {
	ForceRefresh bool          `json:"force_refresh,omitempty"`
	Timeout      time.Duration `json:"timeout,omitempty"`
}

// OrchestrationRequest asks the orchestrator to gather external data for one
// CV. It is immutable once issued; the orchestrator never writes to it.
type OrchestrationRequest struct {
	UserID    string               `json:"user_id" validate:"required"`
	CV        *CV                  `json:"cv" validate:"required"`
	CVID      string               `json:"cv_id,omitempty"`
	DataTypes []SourceID           `json:"data_types" validate:"min=1"`
	Priority  Priority             `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	Options   OrchestrationOptions `json:"options,omitempty"`
}

// OrchestrationStatus is the overall outcome of one orchestration.
type OrchestrationStatus string

const (
	StatusSuccess OrchestrationStatus = "success"
	StatusPartial OrchestrationStatus = "partial"
	StatusFailed  OrchestrationStatus = "failed"
)

// DataSourceResult records the outcome of querying one source.
type DataSourceResult struct {
	Source     SourceID  `json:"source"`
	Success    bool      `json:"success"`
	FetchedAt  time.Time `json:"fetched_at"`
	DataPoints int       `json:"data_points"`
}

// GitHubRepo is one public repository.
type GitHubRepo struct {
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	URL         string    `json:"url"`
	Language    string    `json:"language,omitempty"`
	Topics      []string  `json:"topics,omitempty"`
	Stars       int       `json:"stars"`
	Forks       int       `json:"forks"`
	UpdatedAt   time.Time `json:"updated_at,omitempty"`
}

// GitHubData is the typed payload of the GitHub source.
type GitHubData struct {
	Username     string         `json:"username"`
	Name         string         `json:"name,omitempty"`
	Bio          string         `json:"bio,omitempty"`
	ProfileURL   string         `json:"profile_url,omitempty"`
	Followers    int            `json:"followers"`
	PublicRepos  int            `json:"public_repos"`
	Repositories []GitHubRepo   `json:"repositories,omitempty"`
	Languages    map[string]int `json:"languages,omitempty"` // language -> bytes
}

// LinkedInPosition is one experience entry scraped from LinkedIn.
type LinkedInPosition struct {
	Company   string `json:"company"`
	Title     string `json:"title"`
	DateRange string `json:"date_range,omitempty"`
	Summary   string `json:"summary,omitempty"`
}

// LinkedInCertification is one certification scraped from LinkedIn.
type LinkedInCertification struct {
	Name      string `json:"name"`
	Issuer    string `json:"issuer,omitempty"`
	IssueDate string `json:"issue_date,omitempty"`
}

// LinkedInData is the typed payload of the LinkedIn source.
type LinkedInData struct {
	ProfileURL     string                  `json:"profile_url,omitempty"`
	Headline       string                  `json:"headline,omitempty"`
	Summary        string                  `json:"summary,omitempty"`
	Positions      []LinkedInPosition      `json:"positions,omitempty"`
	Skills         []string                `json:"skills,omitempty"`
	Certifications []LinkedInCertification `json:"certifications,omitempty"`
}

// SearchHit is one deduplicated web-search result.
type SearchHit struct {
	Title     string  `json:"title"`
	URL       string  `json:"url"`
	Snippet   string  `json:"snippet,omitempty"`
	Relevance float64 `json:"relevance"`
}

// Publication is a search hit classified as an article, talk, or similar.
type Publication struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Type  string `json:"type"` // article | talk | award | profile | other
}

// WebPresence is the typed payload of the web-search source.
type WebPresence struct {
	Hits         []SearchHit   `json:"hits,omitempty"`
	Publications []Publication `json:"publications,omitempty"`
}

// WebsiteProject is a project scraped from a personal site.
type WebsiteProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
}

// WebsitePost is a blog post scraped from a personal site.
type WebsitePost struct {
	Title string `json:"title"`
	URL   string `json:"url,omitempty"`
	Date  string `json:"date,omitempty"`
}

// WebsiteTestimonial is a testimonial scraped from a personal site.
type WebsiteTestimonial struct {
	Author string `json:"author,omitempty"`
	Quote  string `json:"quote"`
}

// PersonalWebsite is the typed payload of the website source.
type PersonalWebsite struct {
	URL          string               `json:"url"`
	Title        string               `json:"title,omitempty"`
	About        string               `json:"about,omitempty"`
	Projects     []WebsiteProject     `json:"projects,omitempty"`
	Posts        []WebsitePost        `json:"posts,omitempty"`
	Testimonials []WebsiteTestimonial `json:"testimonials,omitempty"`
}

// SourcePayload is the tagged union of per-source payloads. Exactly one field
// is non-nil, matching the adapter's SourceID, so the orchestrator's merge
// switch is exhaustive and statically typed.
type SourcePayload struct {
	GitHub   *GitHubData      `json:"github,omitempty"`
	LinkedIn *LinkedInData    `json:"linkedin,omitempty"`
	Web      *WebPresence     `json:"web,omitempty"`
	Website  *PersonalWebsite `json:"website,omitempty"`
}

// DataPoints counts the individual facts carried by the payload. Used for
// DataSourceResult reporting.
func (p *SourcePayload) DataPoints() int {
	if p == nil {
		return 0
	}
	n := 0
	if p.GitHub != nil {
		n += len(p.GitHub.Repositories) + len(p.GitHub.Languages)
		if p.GitHub.Username != "" {
			n++
		}
	}
	if p.LinkedIn != nil {
		n += len(p.LinkedIn.Positions) + len(p.LinkedIn.Skills) + len(p.LinkedIn.Certifications)
	}
	if p.Web != nil {
		n += len(p.Web.Hits) + len(p.Web.Publications)
	}
	if p.Website != nil {
		n += len(p.Website.Projects) + len(p.Website.Posts) + len(p.Website.Testimonials)
	}
	return n
}

// Severity grades a validation issue.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ValidationIssue flags one problem found while validating aggregated data.
type ValidationIssue struct {
	Field    string   `json:"field"`
	Issue    string   `json:"issue"`
	Severity Severity `json:"severity"`
}

// ValidationStatus summarizes the validation pass over an aggregate.
type ValidationStatus struct {
	IsValid          bool              `json:"is_valid"`
	HasPersonalInfo  bool              `json:"has_personal_info"`
	HasSensitiveData bool              `json:"has_sensitive_data"`
	QualityScore     int               `json:"quality_score"`
	Issues           []ValidationIssue `json:"issues,omitempty"`
}

// AggregatedProject is a cross-source project row accumulated during merge.
type AggregatedProject struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Stars        int      `json:"stars,omitempty"`
	Source       SourceID `json:"source"`
}

// EnrichedData is the aggregate built by the orchestrator from all source
// payloads. Per-source fields are disjoint; only the aggregated accumulation
// slices receive appends from more than one source.
type EnrichedData struct {
	OriginalCVID       string              `json:"original_cv_id,omitempty"`
	UserID             string              `json:"user_id"`
	FetchedAt          time.Time           `json:"fetched_at"`
	Sources            []DataSourceResult  `json:"sources"`
	GitHub             *GitHubData         `json:"github,omitempty"`
	LinkedIn           *LinkedInData       `json:"linkedin,omitempty"`
	WebPresence        *WebPresence        `json:"web_presence,omitempty"`
	PersonalWebsite    *PersonalWebsite    `json:"personal_website,omitempty"`
	AggregatedSkills   []string            `json:"aggregated_skills,omitempty"`
	AggregatedProjects []AggregatedProject `json:"aggregated_projects,omitempty"`
	ValidationStatus   *ValidationStatus   `json:"validation_status,omitempty"`
}

// OrchestrationResult is returned by Orchestrator.Orchestrate.
type OrchestrationResult struct {
	RequestID         string              `json:"request_id"`
	Status            OrchestrationStatus `json:"status"`
	EnrichedData      *EnrichedData       `json:"enriched_data,omitempty"`
	FetchDuration     time.Duration       `json:"fetch_duration"`
	SourcesQueried    int                 `json:"sources_queried"`
	SourcesSuccessful int                 `json:"sources_successful"`
	CacheHits         int                 `json:"cache_hits"`
	Errors            []string            `json:"errors,omitempty"`
}
