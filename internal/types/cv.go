// Package types defines the shared data structures exchanged between the
// external-data orchestrator, the enrichment services, and persistence.
package types

import "time"

// PersonalInfo holds the contact block of a CV.
type PersonalInfo struct {
	Name     string `json:"name"`
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
}

// Experience is a single work-history entry.
type Experience struct {
	Company     string   `json:"company"`
	Title       string   `json:"title"`
	StartDate   string   `json:"start_date,omitempty"`
	EndDate     string   `json:"end_date,omitempty"`
	Description string   `json:"description,omitempty"`
	Highlights  []string `json:"highlights,omitempty"`
}

// Education is a single education entry.
type Education struct {
	Institution string `json:"institution"`
	Degree      string `json:"degree,omitempty"`
	Field       string `json:"field,omitempty"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
}

// Project is a project listed on the CV itself.
type Project struct {
	Name         string   `json:"name"`
	Description  string   `json:"description,omitempty"`
	URL          string   `json:"url,omitempty"`
	Technologies []string `json:"technologies,omitempty"`
	Highlights   []string `json:"highlights,omitempty"`
}

// Certification is a certification listed on the CV itself.
type Certification struct {
	Name         string `json:"name"`
	Issuer       string `json:"issuer,omitempty"`
	IssueDate    string `json:"issue_date,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	CredentialID string `json:"credential_id,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Achievement is an award or other recognition.
type Achievement struct {
	Title       string `json:"title"`
	Date        string `json:"date,omitempty"`
	Description string `json:"description,omitempty"`
}

// CV is the candidate's résumé as submitted. The enrichment pipeline never
// mutates a caller-supplied CV; it works on a Clone.
type CV struct {
	ID             string          `json:"id,omitempty"`
	PersonalInfo   PersonalInfo    `json:"personal_info"`
	Summary        string          `json:"summary,omitempty"`
	Experience     []Experience    `json:"experience,omitempty"`
	Education      []Education     `json:"education,omitempty"`
	Skills         []string        `json:"skills,omitempty"`
	Projects       []Project       `json:"projects,omitempty"`
	Certifications []Certification `json:"certifications,omitempty"`
	Achievements   []Achievement   `json:"achievements,omitempty"`
	Interests      []string        `json:"interests,omitempty"`
	UpdatedAt      time.Time       `json:"updated_at,omitempty"`
}

// Clone returns a deep copy of the CV. The enrichment orchestrator owns the
// copy and may mutate it freely without aliasing the original.
func (cv *CV) Clone() *CV {
	if cv == nil {
		return nil
	}
	out := *cv

	out.Experience = make([]Experience, len(cv.Experience))
	for i, e := range cv.Experience {
		e.Highlights = append([]string(nil), e.Highlights...)
		out.Experience[i] = e
	}
	out.Education = append([]Education(nil), cv.Education...)
	out.Skills = append([]string(nil), cv.Skills...)
	out.Projects = make([]Project, len(cv.Projects))
	for i, p := range cv.Projects {
		p.Technologies = append([]string(nil), p.Technologies...)
		p.Highlights = append([]string(nil), p.Highlights...)
		out.Projects[i] = p
	}
	out.Certifications = append([]Certification(nil), cv.Certifications...)
	out.Achievements = append([]Achievement(nil), cv.Achievements...)
	out.Interests = append([]string(nil), cv.Interests...)

	return &out
}
