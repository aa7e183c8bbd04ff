package oracle

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Response schemas for the three oracle call shapes. Every response is
// validated against its schema before use; a violation is a
// malformed-response fault, never a crash.

const extractionSchemaJSON = `{
	"type": "object",
	"required": ["fields", "confidence"],
	"properties": {
		"fields": {"type": "object"},
		"confidence": {"type": "number", "minimum": 0, "maximum": 1},
		"suggested_missing": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

const completenessSchemaJSON = `{
	"type": "object",
	"required": ["missing_fields", "is_complete"],
	"properties": {
		"missing_fields": {
			"type": "array",
			"items": {"type": "string"}
		},
		"is_complete": {"type": "boolean"},
		"next_question": {"type": "string"}
	}
}`

const guidanceSchemaJSON = `{
	"type": "object",
	"required": ["question"],
	"properties": {
		"question": {"type": "string", "minLength": 1},
		"expected_response": {"type": "string"}
	}
}`

var (
	extractionSchema   = mustCompile("extraction.json", extractionSchemaJSON)
	completenessSchema = mustCompile("completeness.json", completenessSchemaJSON)
	guidanceSchema     = mustCompile("guidance.json", guidanceSchemaJSON)
)

func mustCompile(name, raw string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(raw)); err != nil {
		panic(err)
	}
	return compiler.MustCompile(name)
}
