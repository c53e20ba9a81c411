package enrichment

import (
	"fmt"
	"strings"

	"github.com/jonathan/cv-enricher/internal/types"
)

// BuildReport renders a human-readable summary of an enrichment run.
func BuildReport(result *types.EnrichmentResult) string {
	var b strings.Builder

	b.WriteString("CV Enrichment Report\n")
	b.WriteString("====================\n\n")

	qi := result.QualityImprovement
	fmt.Fprintf(&b, "Quality score: %d -> %d (%+d)\n\n", qi.Before, qi.After, qi.Improvement)

	summary := result.EnrichmentSummary
	if summary.Skills != nil {
		fmt.Fprintf(&b, "Skills: %d total, %d new, %d validated (score %d)\n",
			len(summary.Skills.Skills), summary.Skills.NewSkillsAdded,
			summary.Skills.SkillsValidated, summary.Skills.QualityScore)
	}
	if summary.Portfolio != nil {
		fmt.Fprintf(&b, "Projects: %d total, %d new, %d enhanced (score %d)\n",
			len(summary.Portfolio.Projects), summary.Portfolio.NewProjects,
			summary.Portfolio.EnhancedProjects, summary.Portfolio.QualityScore)
	}
	if summary.Certifications != nil {
		fmt.Fprintf(&b, "Certifications: %d total, %d new, %d verified (score %d)\n",
			len(summary.Certifications.Certifications), summary.Certifications.NewCerts,
			summary.Certifications.VerifiedCerts, summary.Certifications.QualityScore)
	}
	if summary.Interests != nil {
		fmt.Fprintf(&b, "Interests: %d total, %d new (score %d)\n",
			len(summary.Interests.Interests), summary.Interests.NewInterests,
			summary.Interests.QualityScore)
	}

	if len(result.DataAttribution) > 0 {
		b.WriteString("\nData sources:\n")
		for _, attr := range result.DataAttribution {
			fmt.Fprintf(&b, "  - %s: %s by %s (confidence %.1f)\n",
				attr.Field, attr.Action, attr.Source, attr.Confidence)
		}
	}

	if len(result.ConflictsResolved) > 0 {
		b.WriteString("\nConflicts:\n")
		for _, conflict := range result.ConflictsResolved {
			fmt.Fprintf(&b, "  - %s: %s (%s)\n",
				conflict.Field, conflict.Resolution, conflict.Reason)
		}
	}

	return b.String()
}
