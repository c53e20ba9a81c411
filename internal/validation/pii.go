package validation

import (
	"regexp"
	"strings"
)

// RedactionToken replaces matched PII substrings in sanitized output.
const RedactionToken = "[REDACTED]"

// piiPattern pairs a label with its detection regex. Patterns require
// separators or letters so a match can never sit inside a bare JSON number,
// keeping the serialized payload valid after substitution.
type piiPattern struct {
	label string
	re    *regexp.Regexp
}

var piiPatterns = []piiPattern{
	{"ssn", regexp.MustCompile(`\b\d{3}-\d{2}-\d{4}\b`)},
	{"credit_card", regexp.MustCompile(`\b\d{4}[- ]\d{4}[- ]\d{4}[- ]\d{4}\b`)},
	{"email", regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)},
	{"phone", regexp.MustCompile(`(\+\d{1,2}[-.\s]?)?\(?\d{3}\)?[-.\s]\d{3}[-.\s]\d{4}\b`)},
	{"ip_address", regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)},
	{"iban", regexp.MustCompile(`\b[A-Z]{2}\d{2}[A-Z0-9]{10,30}\b`)},
}

// sensitiveKeywords flag possible secrets. Matches are reported but never
// redacted.
var sensitiveKeywords = []string{
	"password",
	"passwd",
	"secret",
	"token",
	"api_key",
	"apikey",
	"private_key",
	"credential",
}

// DetectPII reports which PII pattern labels match the serialized payload.
func DetectPII(serialized string) []string {
	var found []string
	for _, p := range piiPatterns {
		if p.re.MatchString(serialized) {
			found = append(found, p.label)
		}
	}
	return found
}

// RedactPII replaces every PII match in the serialized payload with the
// redaction token.
func RedactPII(serialized string) string {
	for _, p := range piiPatterns {
		serialized = p.re.ReplaceAllString(serialized, RedactionToken)
	}
	return serialized
}

// DetectSensitiveKeywords reports whether any sensitive keyword appears in
// the serialized payload (case-insensitive).
func DetectSensitiveKeywords(serialized string) bool {
	lower := strings.ToLower(serialized)
	for _, kw := range sensitiveKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
