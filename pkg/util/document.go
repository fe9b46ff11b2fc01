package util

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DocumentFormat is the encoding of a registry or spec document.
type DocumentFormat string

const (
	DocumentJSON DocumentFormat = "json" // JSON, comments and trailing commas allowed
	DocumentYAML DocumentFormat = "yaml"
)

// DetectDocumentFormat picks a format from a file extension.
func DetectDocumentFormat(path string) DocumentFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DocumentYAML
	default:
		return DocumentJSON
	}
}

// ToJSON converts a document to plain JSON. JSONC comments and trailing
// commas are stripped; YAML is decoded and re-encoded.
func ToJSON(data []byte, format DocumentFormat) ([]byte, error) {
	switch format {
	case DocumentYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
		var buf bytes.Buffer
		if err := writeNodeJSON(&buf, &doc); err != nil {
			return nil, fmt.Errorf("failed to convert YAML to JSON: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return jsonc.ToJSON(data), nil
	}
}

// writeNodeJSON encodes a YAML node as JSON, keeping mapping keys in
// document order.
func writeNodeJSON(buf *bytes.Buffer, n *yaml.Node) error {
	switch n.Kind {
	case 0:
		buf.WriteString("null")
		return nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			buf.WriteString("null")
			return nil
		}
		return writeNodeJSON(buf, n.Content[0])
	case yaml.AliasNode:
		return writeNodeJSON(buf, n.Alias)
	case yaml.SequenceNode:
		buf.WriteByte('[')
		for i, c := range n.Content {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeNodeJSON(buf, c); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
		return nil
	case yaml.MappingNode:
		buf.WriteByte('{')
		for i := 0; i+1 < len(n.Content); i += 2 {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(n.Content[i].Value)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeNodeJSON(buf, n.Content[i+1]); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
		return nil
	default:
		var v any
		if err := n.Decode(&v); err != nil {
			return err
		}
		out, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}
		buf.Write(out)
		return nil
	}
}

// CompileSchema compiles an embedded JSON Schema (draft 2020-12).
func CompileSchema(id string, schema []byte) (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(id, bytes.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("failed to add schema %s: %w", id, err)
	}
	compiled, err := compiler.Compile(id)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema %s: %w", id, err)
	}
	return compiled, nil
}

// ValidateDocument checks JSON data against a compiled schema.
func ValidateDocument(schema *jsonschema.Schema, data []byte) error {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
