package enrichment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-enricher/internal/types"
)

func fixedCertService(now time.Time) *CertificationsService {
	svc := NewCertificationsService()
	svc.now = func() time.Time { return now }
	return svc
}

func TestCertificationsMergeMarksVerified(t *testing.T) {
	svc := NewCertificationsService()

	cv := &types.CV{Certifications: []types.Certification{
		{Name: "CKA", Issuer: "CNCF", ExpiryDate: "2027-01-01"},
		{Name: "AWS SAA", Issuer: "Amazon"},
	}}
	ext := &types.EnrichedData{LinkedIn: &types.LinkedInData{
		Certifications: []types.LinkedInCertification{
			{Name: "CKA", Issuer: "CNCF", IssueDate: "2024-01-01"},
			{Name: "GCP Architect", Issuer: "Google"},
		},
	}}

	result := svc.Enrich(cv, ext)

	require.Len(t, result.Certifications, 3)
	assert.Equal(t, 1, result.NewCerts)
	assert.Equal(t, 1, result.VerifiedCerts)

	byName := make(map[string]types.CertificationRecord)
	for _, c := range result.Certifications {
		byName[c.Name] = c
	}
	assert.True(t, byName["CKA"].Verified)
	// The LinkedIn issue date fills the gap on the CV entry.
	assert.Equal(t, "2024-01-01", byName["CKA"].IssueDate)
	assert.False(t, byName["AWS SAA"].Verified)
	assert.Equal(t, "linkedin", byName["GCP Architect"].Source)
}

func TestCertificationsDedupByNameAndIssuer(t *testing.T) {
	svc := NewCertificationsService()

	// Same name, different issuer: two distinct certifications.
	cv := &types.CV{Certifications: []types.Certification{
		{Name: "Security+", Issuer: "CompTIA"},
	}}
	ext := &types.EnrichedData{LinkedIn: &types.LinkedInData{
		Certifications: []types.LinkedInCertification{
			{Name: "Security+", Issuer: "Other Org"},
		},
	}}

	result := svc.Enrich(cv, ext)
	assert.Len(t, result.Certifications, 2)
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := fixedCertService(now)

	assert.True(t, svc.IsExpired("2025-01-01"))
	assert.False(t, svc.IsExpired("2027-01-01"))
	assert.False(t, svc.IsExpired(""))
	assert.False(t, svc.IsExpired("someday"))
}

func TestGetValidityStatus(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := fixedCertService(now)

	tests := []struct {
		expiry string
		want   types.ValidityStatus
	}{
		{"2025-12-31", types.ValidityExpired},
		{"2026-07-15", types.ValidityExpiringSoon},
		{"2028-01-01", types.ValidityValid},
		{"", types.ValidityUnknown},
		{"not a date", types.ValidityUnknown},
		{"Jan 2027", types.ValidityValid},
	}

	for _, tt := range tests {
		t.Run(tt.expiry, func(t *testing.T) {
			got := svc.GetValidityStatus(&types.CertificationRecord{ExpiryDate: tt.expiry})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCertificationsQualityScore(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	svc := fixedCertService(now)

	verified := svc.Enrich(&types.CV{Certifications: []types.Certification{
		{Name: "CKA", Issuer: "CNCF", ExpiryDate: "2028-01-01"},
	}}, &types.EnrichedData{LinkedIn: &types.LinkedInData{
		Certifications: []types.LinkedInCertification{{Name: "CKA", Issuer: "CNCF"}},
	}})

	bare := svc.Enrich(&types.CV{Certifications: []types.Certification{
		{Name: "Mystery Cert"},
	}}, nil)

	assert.Greater(t, verified.QualityScore, bare.QualityScore)
	assert.Zero(t, svc.Enrich(&types.CV{}, nil).QualityScore)
}
