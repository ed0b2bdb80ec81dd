package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/ndolage/macroquery/internal/query"
)

// requestSchema validates request descriptor files before the
// descriptor ever reaches the core. Structural rules only; semantic
// rules (year ordering, fiscal/month exclusivity) stay in
// query.Validate, which runs either way.
const requestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "title": "macroquery request descriptor",
  "type": "object",
  "required": ["dataGroup", "startYear", "endYear", "location", "aggregation"],
  "additionalProperties": false,
  "properties": {
    "dataGroup":      {"type": "string", "enum": ["CPI", "BOP"]},
    "startYear":      {"type": "integer"},
    "endYear":        {"type": "integer"},
    "startMonth":     {"type": "integer", "minimum": 1, "maximum": 12},
    "endMonth":       {"type": "integer", "minimum": 1, "maximum": 12},
    "location":       {"type": "string", "minLength": 1},
    "indicatorNames": {"type": "array", "items": {"type": "string"}},
    "unitNames":      {"type": "array", "items": {"type": "string"}},
    "aggregation":    {"type": "string", "enum": ["monthly", "quarterly", "annual", "fiscal_year"]},
    "wideFormat":     {"type": "boolean"}
  }
}`

// LoadRequest reads a request descriptor from a YAML or JSON file,
// validates it against the descriptor schema, and decodes it. Schema
// violations list every failing property, not just the first.
func LoadRequest(path string) (query.Request, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return query.Request{}, fmt.Errorf("read request file: %w", err)
	}

	// Normalize YAML to JSON so one schema covers both formats.
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return query.Request{}, fmt.Errorf("parse %s: %w", path, err)
		}
		if data, err = json.Marshal(doc); err != nil {
			return query.Request{}, fmt.Errorf("normalize %s: %w", path, err)
		}
	case ".json":
	default:
		return query.Request{}, fmt.Errorf("request file %s: unsupported extension %q", path, ext)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(requestSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return query.Request{}, fmt.Errorf("validate request file: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			msgs = append(msgs, desc.String())
		}
		return query.Request{}, fmt.Errorf("request file %s: %s", path, strings.Join(msgs, "; "))
	}

	var r query.Request
	if err := json.Unmarshal(data, &r); err != nil {
		return query.Request{}, fmt.Errorf("decode request file: %w", err)
	}
	return r, nil
}
