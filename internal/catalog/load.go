package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// catalogSchema is the JSON Schema a custom catalog file must satisfy.
var catalogSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"patterns": map[string]any{
			"type": "array",
			"items": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"id":   map[string]any{"type": "string", "minLength": 1},
					"name": map[string]any{"type": "string"},
					"signature": map[string]any{
						"type":    "string",
						"pattern": "^[0-9]+/[0-9]+$",
					},
					"tier": map[string]any{
						"type": "string",
						"enum": []any{"easy", "medium", "complex"},
					},
					"syncopated": map[string]any{"type": "boolean"},
					"events": map[string]any{
						"type":     "array",
						"minItems": 1,
						"items": map[string]any{
							"type": "string",
							"enum": []any{"quarter", "eighth", "sixteenth"},
						},
					},
				},
				"required":             []any{"id", "signature", "tier", "events"},
				"additionalProperties": false,
			},
		},
	},
	"required":             []any{"patterns"},
	"additionalProperties": false,
}

var (
	compiledSchema    *jsonschema.Schema
	compiledSchemaErr error
	compileSchemaOnce sync.Once
)

func compiledCatalogSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		// The jsonschema library expects a parsed JSON value (any), not raw
		// bytes. Marshal then unmarshal to get a clean any representation.
		raw, err := json.Marshal(catalogSchema)
		if err != nil {
			compiledSchemaErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var parsed any
		if err := json.Unmarshal(raw, &parsed); err != nil {
			compiledSchemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		const schemaURL = "schema://catalog.json"
		if err := c.AddResource(schemaURL, parsed); err != nil {
			compiledSchemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, compiledSchemaErr = c.Compile(schemaURL)
	})
	return compiledSchema, compiledSchemaErr
}

type patternFile struct {
	Patterns []struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Signature  string   `json:"signature"`
		Tier       string   `json:"tier"`
		Syncopated bool     `json:"syncopated"`
		Events     []string `json:"events"`
	} `json:"patterns"`
}

// LoadFile reads a custom pattern catalog from a JSON file, validating it
// against the catalog schema before decoding.
func LoadFile(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog file: %w", err)
	}
	return Load(raw)
}

// Load parses and validates raw catalog JSON.
func Load(raw []byte) (*Catalog, error) {
	var parsed any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("invalid catalog JSON: %w", err)
	}

	schema, err := compiledCatalogSchema()
	if err != nil {
		return nil, err
	}
	if err := schema.Validate(parsed); err != nil {
		return nil, fmt.Errorf("catalog validation: %w", err)
	}

	var pf patternFile
	if err := json.Unmarshal(raw, &pf); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	patterns := make([]Pattern, 0, len(pf.Patterns))
	for _, entry := range pf.Patterns {
		sig, err := ParseSignature(entry.Signature)
		if err != nil {
			return nil, fmt.Errorf("pattern %q: %w", entry.ID, err)
		}
		evs := make([]BeatEvent, len(entry.Events))
		for i, e := range entry.Events {
			evs[i] = BeatEvent{Duration: DurationKind(e)}
		}
		name := entry.Name
		if name == "" {
			name = entry.ID
		}
		patterns = append(patterns, Pattern{
			ID:         entry.ID,
			Name:       name,
			Events:     evs,
			Signature:  sig,
			Tier:       Tier(entry.Tier),
			Syncopated: entry.Syncopated,
		})
	}
	return New(patterns)
}
