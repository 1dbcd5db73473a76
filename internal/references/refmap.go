// Package references resolves lesson plan citation keys to source PDF files
// and reconciles them against the bibliography.
package references

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// mapSchema describes a reference map document: citation key to a non-empty
// filename or partial filename.
const mapSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "minProperties": 1,
  "additionalProperties": {"type": "string", "minLength": 1}
}`

var compiledMapSchema = mustCompile(mapSchema)

func mustCompile(src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("refmap.json", strings.NewReader(src)); err != nil {
		panic(fmt.Sprintf("failed to load reference map schema: %v", err))
	}
	return compiler.MustCompile("refmap.json")
}

// Map is the reference map: citation key to target specifier. A target is
// either a literal filename or a filename prefix ending in PartialMarker.
// A Map is immutable once built.
type Map struct {
	targets map[string]string
	keys    []string
}

// NewMap builds a Map from key/target pairs.
func NewMap(targets map[string]string) Map {
	m := Map{
		targets: make(map[string]string, len(targets)),
		keys:    make([]string, 0, len(targets)),
	}
	for k, v := range targets {
		m.targets[k] = v
		m.keys = append(m.keys, k)
	}
	sort.Strings(m.keys)
	return m
}

// LoadMap reads a reference map from a YAML file.
func LoadMap(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("failed to read reference map: %w", err)
	}
	m, err := ParseMap(data)
	if err != nil {
		return Map{}, fmt.Errorf("invalid reference map %s: %w", path, err)
	}
	return m, nil
}

// ParseMap decodes and validates a YAML reference map document.
func ParseMap(data []byte) (Map, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Map{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if raw == nil {
		return Map{}, fmt.Errorf("reference map is empty")
	}

	// Round-trip through JSON so the validator sees plain JSON types.
	doc, err := toJSONValue(raw)
	if err != nil {
		return Map{}, err
	}
	if err := compiledMapSchema.Validate(doc); err != nil {
		return Map{}, fmt.Errorf("reference map does not match schema: %w", err)
	}

	obj, ok := doc.(map[string]any)
	if !ok {
		return Map{}, fmt.Errorf("reference map must be a mapping of key to filename")
	}
	targets := make(map[string]string, len(obj))
	for k, v := range obj {
		targets[k] = strings.TrimSpace(v.(string))
	}
	return NewMap(targets), nil
}

func toJSONValue(v any) (any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to convert reference map: %w", err)
	}
	var out any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("failed to convert reference map: %w", err)
	}
	return out, nil
}

// Keys returns the citation keys in sorted order.
func (m Map) Keys() []string {
	return append([]string(nil), m.keys...)
}

// Target returns the target specifier for key.
func (m Map) Target(key string) (string, bool) {
	t, ok := m.targets[key]
	return t, ok
}

// Has reports whether key is in the map.
func (m Map) Has(key string) bool {
	_, ok := m.targets[key]
	return ok
}

// Len returns the number of keys.
func (m Map) Len() int {
	return len(m.keys)
}
