// Package config loads and validates the batch-mode configuration consumed
// by cmd/deobf's "batch" subcommand: a JSON document naming the input files
// to process and the shared output options to apply to all of them.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// schemaDoc is the JSON Schema every batch config document must satisfy.
const schemaDoc = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["inputs"],
  "properties": {
    "inputs": {
      "type": "array",
      "minItems": 1,
      "items": {"type": "string", "minLength": 1}
    },
    "cacheDir": {"type": "string"},
    "dotFile": {"type": "string"},
    "json": {"type": "boolean"}
  },
  "additionalProperties": false
}`

var schema = compileSchema()

func compileSchema() *jsonschema.Schema {
	c := jsonschema.NewCompiler()
	if err := c.AddResource("batch.json", bytes.NewReader([]byte(schemaDoc))); err != nil {
		panic(fmt.Sprintf("config: invalid embedded schema: %v", err))
	}
	s, err := c.Compile("batch.json")
	if err != nil {
		panic(fmt.Sprintf("config: compiling embedded schema: %v", err))
	}
	return s
}

// Config is one batch run's settings: which files to read, and which
// output options (cache directory, .dot target, JSON summaries) apply to
// every one of them.
type Config struct {
	Inputs   []string `json:"inputs"`
	CacheDir string   `json:"cacheDir,omitempty"`
	DotFile  string   `json:"dotFile,omitempty"`
	JSON     bool     `json:"json,omitempty"`
}

// Load reads path, validates it against schemaDoc, and decodes it into a
// Config. Validation failures name the offending field, per jsonschema/v5's
// ValidationError.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("config: %s is not valid JSON: %w", path, err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, fmt.Errorf("config: %s failed schema validation: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return &cfg, nil
}
