// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/jonathan/cv-enricher/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// PrintStep announces pipeline progress as "Step k/n".
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintStep(step, total int, label string) {
	fmt.Fprintf(p.out, "[Step %d/%d] %s\n", step, total, label)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintOrchestrationResult outputs a human-readable summary of an external
// data fetch.
func (p *Printer) PrintOrchestrationResult(result *types.OrchestrationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Status:    %s\n", result.Status))
	sb.WriteString(fmt.Sprintf("Queried:   %d sources, %d successful\n",
		result.SourcesQueried, result.SourcesSuccessful))
	sb.WriteString(fmt.Sprintf("Duration:  %s\n", result.FetchDuration.Round(1e6)))
	if result.CacheHits > 0 {
		sb.WriteString(fmt.Sprintf("Cache:     %d hit(s)\n", result.CacheHits))
	}

	if result.EnrichedData != nil && len(result.EnrichedData.Sources) > 0 {
		sb.WriteString("\nSources:\n")
		for _, src := range result.EnrichedData.Sources {
			mark := "✗"
			if src.Success {
				mark = "✓"
			}
			sb.WriteString(fmt.Sprintf("  %s %s (%d data points)\n", mark, src.Source, src.DataPoints))
		}
	}

	if len(result.Errors) > 0 {
		sb.WriteString("\nErrors:\n")
		count := min(len(result.Errors), maxItemsToShow)
		for i := 0; i < count; i++ {
			msg := result.Errors[i]
			if len(msg) > 50 {
				msg = msg[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", msg))
		}
		if len(result.Errors) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Errors)-maxItemsToShow))
		}
	}

	p.printBox("EXTERNAL DATA FETCH", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintValidationStatus outputs the validation outcome for an aggregate.
func (p *Printer) PrintValidationStatus(status *types.ValidationStatus) {
	if status == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Valid:          %t\n", status.IsValid))
	sb.WriteString(fmt.Sprintf("Quality score:  %d/100\n", status.QualityScore))
	sb.WriteString(fmt.Sprintf("PII detected:   %t\n", status.HasPersonalInfo))
	sb.WriteString(fmt.Sprintf("Sensitive:      %t\n", status.HasSensitiveData))

	if len(status.Issues) > 0 {
		sb.WriteString("\nIssues:\n")
		count := min(len(status.Issues), maxItemsToShow)
		for i := 0; i < count; i++ {
			issue := status.Issues[i]
			text := issue.Issue
			if len(text) > 40 {
				text = text[:37] + "..."
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s: %s\n", issue.Severity, issue.Field, text))
		}
		if len(status.Issues) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(status.Issues)-maxItemsToShow))
		}
	}

	p.printBox("VALIDATION", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEnrichmentResult outputs the per-module enrichment summary with the
// quality delta.
func (p *Printer) PrintEnrichmentResult(result *types.EnrichmentResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	qi := result.QualityImprovement
	sb.WriteString(fmt.Sprintf("Quality:  %d -> %d (%+d)\n\n", qi.Before, qi.After, qi.Improvement))

	summary := result.EnrichmentSummary
	if summary.Skills != nil {
		sb.WriteString(fmt.Sprintf("Skills:          %d (+%d new, %d validated)\n",
			len(summary.Skills.Skills), summary.Skills.NewSkillsAdded, summary.Skills.SkillsValidated))
	}
	if summary.Portfolio != nil {
		sb.WriteString(fmt.Sprintf("Projects:        %d (+%d new, %d enhanced)\n",
			len(summary.Portfolio.Projects), summary.Portfolio.NewProjects, summary.Portfolio.EnhancedProjects))
	}
	if summary.Certifications != nil {
		sb.WriteString(fmt.Sprintf("Certifications:  %d (+%d new, %d verified)\n",
			len(summary.Certifications.Certifications), summary.Certifications.NewCerts, summary.Certifications.VerifiedCerts))
	}
	if summary.Interests != nil {
		sb.WriteString(fmt.Sprintf("Interests:       %d (+%d new)\n",
			len(summary.Interests.Interests), summary.Interests.NewInterests))
	}

	if len(result.ConflictsResolved) > 0 {
		sb.WriteString("\nConflicts:\n")
		for _, conflict := range result.ConflictsResolved {
			sb.WriteString(fmt.Sprintf("  ⚠ %s: %s\n", conflict.Field, conflict.Resolution))
		}
	}

	p.printBox("ENRICHMENT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintCacheStats outputs cache counters.
func (p *Printer) PrintCacheStats(memoryEntries int, memoryHits, persistentHits, misses, evictions, rejected int64) {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Memory entries:   %d\n", memoryEntries))
	sb.WriteString(fmt.Sprintf("Memory hits:      %d\n", memoryHits))
	sb.WriteString(fmt.Sprintf("Persistent hits:  %d\n", persistentHits))
	sb.WriteString(fmt.Sprintf("Misses:           %d\n", misses))
	sb.WriteString(fmt.Sprintf("Evictions:        %d\n", evictions))
	sb.WriteString(fmt.Sprintf("Rejected:         %d", rejected))
	p.printBox("CACHE STATS", sb.String())
}
