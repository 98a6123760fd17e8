package extract

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Payload schemas. The model output is validated against these before any
// field is consumed; a schema failure counts as a malformed completion and is
// retried like one.

var contactSchema = map[string]any{
	"type":     "object",
	"required": []any{"name"},
	"properties": map[string]any{
		"name":      map[string]any{"type": "string"},
		"title":     map[string]any{"type": "string"},
		"email":     map[string]any{"type": "string"},
		"phone":     map[string]any{"type": "string"},
		"location":  map[string]any{"type": "string"},
		"languages": map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

var experienceSchema = map[string]any{
	"type":     "object",
	"required": []any{"job_title", "tasks"},
	"properties": map[string]any{
		"job_title":  map[string]any{"type": "string"},
		"company":    map[string]any{"type": "string"},
		"location":   map[string]any{"type": "string"},
		"dates_raw":  map[string]any{"type": "string"},
		"date_start": map[string]any{"type": "string", "pattern": `^$|^(19|20)\d{2}(-(0[1-9]|1[0-2]))?$`},
		"date_end":   map[string]any{"type": "string", "pattern": `^$|^(19|20)\d{2}(-(0[1-9]|1[0-2]))?$`},
		"is_current": map[string]any{"type": "boolean"},
		"summary":    map[string]any{"type": "string"},
		"tasks":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		"skills":     map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
	},
}

var educationSchema = map[string]any{
	"type":     "object",
	"required": []any{"education"},
	"properties": map[string]any{
		"education": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"degree"},
				"properties": map[string]any{
					"degree":    map[string]any{"type": "string"},
					"school":    map[string]any{"type": "string"},
					"year":      map[string]any{"type": "string"},
					"full_text": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var segmentationSchema = map[string]any{
	"type":     "object",
	"required": []any{"blocks"},
	"properties": map[string]any{
		"blocks": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type":     "object",
				"required": []any{"type", "text"},
				"properties": map[string]any{
					"type": map[string]any{"type": "string"},
					"text": map[string]any{"type": "string"},
				},
			},
		},
	},
}

// validateSchema checks data against schemaMap.
func validateSchema(schemaMap map[string]any, data []byte) error {
	b, err := json.Marshal(schemaMap)
	if err != nil {
		return fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", bytes.NewReader(b)); err != nil {
		return fmt.Errorf("add schema: %w", err)
	}
	schema, err := compiler.Compile("schema.json")
	if err != nil {
		return fmt.Errorf("compile schema: %w", err)
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("payload does not match schema: %w", err)
	}
	return nil
}
