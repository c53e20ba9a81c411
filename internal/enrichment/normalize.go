package enrichment

import "strings"

// normalizeKey reduces a name to its lowercase alphanumeric form so that
// "Node.js", "NodeJS", and "node js" collapse to one identity.
func normalizeKey(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// compositeKey joins a normalized name with a secondary discriminator, used
// where a name alone is ambiguous (certification issuer, project
// technology).
func compositeKey(name, discriminator string) string {
	return normalizeKey(name) + "|" + normalizeKey(discriminator)
}

// unionSources merges two source lists without duplicates, preserving order.
func unionSources(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, s := range append(append([]string(nil), a...), b...) {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

// hasSource reports whether a source list names the given source.
func hasSource(sources []string, source string) bool {
	for _, s := range sources {
		if s == source {
			return true
		}
	}
	return false
}
