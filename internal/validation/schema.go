package validation

import (
	"github.com/xeipuuv/gojsonschema"

	"github.com/jonathan/cv-enricher/internal/types"
)

// aggregateSchema is the structural contract for the external-data aggregate.
// Violations are reported as warnings; they never abort the pipeline.
const aggregateSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["user_id", "fetched_at", "sources"],
  "properties": {
    "user_id": {"type": "string", "minLength": 1},
    "sources": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["source", "success"],
        "properties": {
          "source": {"type": "string", "enum": ["github", "linkedin", "web", "website"]},
          "success": {"type": "boolean"}
        }
      }
    },
    "aggregated_skills": {
      "type": "array",
      "items": {"type": "string"}
    },
    "aggregated_projects": {
      "type": "array",
      "items": {"type": "object"}
    }
  }
}`

var aggregateSchemaLoader = gojsonschema.NewStringLoader(aggregateSchema)

// checkSchema validates the serialized aggregate against the embedded JSON
// schema and converts failures into validation issues.
func checkSchema(serialized string) []types.ValidationIssue {
	result, err := gojsonschema.Validate(aggregateSchemaLoader, gojsonschema.NewStringLoader(serialized))
	if err != nil {
		return []types.ValidationIssue{{
			Field:    "aggregate",
			Issue:    "schema validation could not run: " + err.Error(),
			Severity: types.SeverityWarning,
		}}
	}

	var issues []types.ValidationIssue
	for _, desc := range result.Errors() {
		issues = append(issues, types.ValidationIssue{
			Field:    desc.Field(),
			Issue:    desc.Description(),
			Severity: types.SeverityWarning,
		})
	}
	return issues
}
