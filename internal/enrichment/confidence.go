// Package enrichment merges external data into individual CV sections and
// reports what was added, enhanced, or rejected.
package enrichment

// Per-source confidence defaults. LinkedIn is the highest-trust source;
// web-search heuristics are the lowest.
const (
	confidenceCV       = 0.9
	confidenceLinkedIn = 0.9
	confidenceGitHub   = 0.8
	confidenceWebsite  = 0.7
	confidenceWeb      = 0.6
)

// Source tags used on enriched records.
const (
	sourceCV       = "cv"
	sourceGitHub   = "github"
	sourceLinkedIn = "linkedin"
	sourceWebsite  = "website"
	sourceWeb      = "web"
)
