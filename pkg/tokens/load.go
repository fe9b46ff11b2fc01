package tokens

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

const schemaID = "https://uigen.dev/schema/tokens.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func tokenSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = util.CompileSchema(schemaID, schemaJSON)
	})
	return compiledSchema, schemaErr
}

// Default builds the token registry bundled with the binary.
func Default() (*Registry, error) {
	return LoadFromBytes(catalogs.TokensJSON, util.DocumentJSON)
}

// LoadFromFile loads a token registry from a JSON, JSONC or YAML file.
func LoadFromFile(path string) (*Registry, error) {
	data, err := util.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read token file: %w", err)
	}
	r, err := LoadFromBytes(data, util.DetectDocumentFormat(path))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// LoadFromBytes parses, schema-checks, validates and indexes a token
// registry document.
func LoadFromBytes(data []byte, format util.DocumentFormat) (*Registry, error) {
	jsonData, err := util.ToJSON(data, format)
	if err != nil {
		return nil, err
	}

	schema, err := tokenSchema()
	if err != nil {
		return nil, err
	}
	if err := util.ValidateDocument(schema, jsonData); err != nil {
		return nil, fmt.Errorf("token registry %w", err)
	}

	var r Registry
	if err := json.Unmarshal(jsonData, &r); err != nil {
		return nil, fmt.Errorf("failed to parse token registry JSON: %w", err)
	}
	if errs := r.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("token registry validation failed: %w", errors.Join(errs...))
	}

	r.buildIndex()
	return &r, nil
}
