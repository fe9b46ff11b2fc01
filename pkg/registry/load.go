package registry

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gnana997/uigen/catalogs"
	"github.com/gnana997/uigen/pkg/util"
)

//go:embed schema.json
var schemaJSON []byte

const schemaID = "https://uigen.dev/schema/components.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func registrySchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = util.CompileSchema(schemaID, schemaJSON)
	})
	return compiledSchema, schemaErr
}

// Default builds the registry bundled with the binary.
func Default() (*Registry, error) {
	return LoadFromBytes(catalogs.ComponentsJSON, util.DocumentJSON)
}

// LoadFromFile loads a registry from a JSON, JSONC or YAML file, validates
// it, and builds the index.
func LoadFromFile(path string) (*Registry, error) {
	data, err := util.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read registry file: %w", err)
	}
	r, err := LoadFromBytes(data, util.DetectDocumentFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// LoadFromBytes parses a registry document, checks it against the embedded
// schema and for internal consistency, and builds the index.
func LoadFromBytes(data []byte, format util.DocumentFormat) (*Registry, error) {
	jsonData, err := util.ToJSON(data, format)
	if err != nil {
		return nil, err
	}

	schema, err := registrySchema()
	if err != nil {
		return nil, err
	}
	if err := util.ValidateDocument(schema, jsonData); err != nil {
		return nil, fmt.Errorf("registry %w", err)
	}

	var r Registry
	if err := json.Unmarshal(jsonData, &r); err != nil {
		return nil, fmt.Errorf("failed to parse registry JSON: %w", err)
	}
	if errs := r.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("registry validation failed: %w", errors.Join(errs...))
	}

	r.buildIndex()
	return &r, nil
}
