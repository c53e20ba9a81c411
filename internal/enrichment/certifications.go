package enrichment

import (
	"time"

	"github.com/jonathan/cv-enricher/internal/types"
)

// expiryWindow is how far ahead a certification counts as expiring soon.
const expiryWindow = 3 * 30 * 24 * time.Hour

// certDateLayouts are tried in order when parsing free-form dates.
var certDateLayouts = []string{
	"2006-01-02",
	"2006-01",
	"Jan 2006",
	"January 2006",
	"2006",
}

// CertificationsService merges CV certifications with the ones scraped from
// LinkedIn.
type CertificationsService struct {
	now func() time.Time
}

// NewCertificationsService creates a certifications enrichment service.
func NewCertificationsService() *CertificationsService {
	return &CertificationsService{now: time.Now}
}

// Enrich merges certifications. Identity is the normalized name plus issuer;
// an entry present on both the CV and LinkedIn is marked verified.
func (s *CertificationsService) Enrich(cv *types.CV, ext *types.EnrichedData) *types.CertificationEnrichmentResult {
	merged := make(map[string]*types.CertificationRecord)
	order := make([]string, 0, len(cv.Certifications))

	cvKeys := make(map[string]bool, len(cv.Certifications))
	for _, c := range cv.Certifications {
		record := &types.CertificationRecord{
			Name:         c.Name,
			Issuer:       c.Issuer,
			IssueDate:    c.IssueDate,
			ExpiryDate:   c.ExpiryDate,
			CredentialID: c.CredentialID,
			URL:          c.URL,
			Source:       sourceCV,
			Confidence:   confidenceCV,
		}
		key := compositeKey(c.Name, c.Issuer)
		cvKeys[key] = true
		if _, ok := merged[key]; !ok {
			order = append(order, key)
		}
		merged[key] = record
	}

	if ext != nil && ext.LinkedIn != nil {
		for _, c := range ext.LinkedIn.Certifications {
			key := compositeKey(c.Name, c.Issuer)
			if existing, ok := merged[key]; ok {
				existing.Verified = true
				if existing.IssueDate == "" {
					existing.IssueDate = c.IssueDate
				}
				continue
			}
			merged[key] = &types.CertificationRecord{
				Name:       c.Name,
				Issuer:     c.Issuer,
				IssueDate:  c.IssueDate,
				Source:     sourceLinkedIn,
				Confidence: confidenceLinkedIn,
			}
			order = append(order, key)
		}
	}

	result := &types.CertificationEnrichmentResult{}
	for _, key := range order {
		record := merged[key]
		result.Certifications = append(result.Certifications, *record)
		if !cvKeys[key] {
			result.NewCerts++
		}
		if record.Verified {
			result.VerifiedCerts++
		}
	}

	result.QualityScore = s.score(result.Certifications)
	return result
}

// IsExpired reports whether an expiry date lies in the past. Unparseable or
// empty dates are never expired.
func (s *CertificationsService) IsExpired(expiryDate string) bool {
	expiry, ok := parseCertDate(expiryDate)
	if !ok {
		return false
	}
	return expiry.Before(s.now())
}

// GetValidityStatus classifies a certification as valid, expired, expiring
// soon (within three months), or unknown when no expiry date is available.
func (s *CertificationsService) GetValidityStatus(record *types.CertificationRecord) types.ValidityStatus {
	expiry, ok := parseCertDate(record.ExpiryDate)
	if !ok {
		return types.ValidityUnknown
	}
	now := s.now()
	switch {
	case expiry.Before(now):
		return types.ValidityExpired
	case expiry.Before(now.Add(expiryWindow)):
		return types.ValidityExpiringSoon
	default:
		return types.ValidityValid
	}
}

// score rates the certification list: base points per entry plus bonuses for
// verification and currency.
func (s *CertificationsService) score(records []types.CertificationRecord) int {
	if len(records) == 0 {
		return 0
	}
	total := 0
	for i := range records {
		record := &records[i]
		points := 40
		if record.Verified {
			points += 25
		}
		if record.Issuer != "" {
			points += 15
		}
		switch s.GetValidityStatus(record) {
		case types.ValidityValid:
			points += 20
		case types.ValidityExpiringSoon:
			points += 10
		case types.ValidityUnknown:
			points += 5
		}
		total += points
	}
	return total / len(records)
}

func parseCertDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range certDateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
