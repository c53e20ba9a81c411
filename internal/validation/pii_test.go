package validation

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectPII(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"ssn", `"bio":"ssn 123-45-6789"`, []string{"ssn"}},
		{"credit card", `"note":"card 1234-5678-9012-3456"`, []string{"credit_card"}},
		{"email", `"contact":"jane@example.com"`, []string{"email"}},
		{"phone", `"phone":"(555) 123-4567"`, []string{"phone"}},
		{"ip address", `"host":"192.168.1.100"`, []string{"ip_address"}},
		{"clean", `"bio":"writes Go services"`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPII(tt.text))
		})
	}
}

func TestRedactPII(t *testing.T) {
	redacted := RedactPII(`"contact":"reach jane@example.com or 555-123-4567"`)

	assert.NotContains(t, redacted, "jane@example.com")
	assert.NotContains(t, redacted, "555-123-4567")
	assert.Contains(t, redacted, RedactionToken)
}

// Redaction happens on serialized JSON, so the result must stay parseable.
func TestRedactPIIKeepsJSONValid(t *testing.T) {
	payload := map[string]any{
		"bio":   "email me at jane@example.com, ssn 123-45-6789",
		"stars": 12345,
		"ip":    "10.0.0.1",
	}
	serialized, err := json.Marshal(payload)
	require.NoError(t, err)

	redacted := RedactPII(string(serialized))

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(redacted), &parsed))
	assert.Equal(t, float64(12345), parsed["stars"])
	assert.NotContains(t, parsed["bio"], "jane@example.com")
}

func TestDetectPIIIgnoresBareNumbers(t *testing.T) {
	// Star counts, byte sizes, and timestamps must never look like PII.
	assert.Empty(t, DetectPII(`{"stars":123456789,"bytes":98765432101}`))
}

func TestDetectSensitiveKeywords(t *testing.T) {
	assert.True(t, DetectSensitiveKeywords(`"note":"my API_KEY is here"`))
	assert.True(t, DetectSensitiveKeywords(`"env":"DB_PASSWORD=hunter2"`))
	assert.False(t, DetectSensitiveKeywords(`"bio":"builds data pipelines"`))
}
