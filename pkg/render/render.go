// Package render encodes generation results, verification reports and
// catalog listings for the CLI and the MCP tools.
//
// JSON is the canonical form. YAML and CBOR are derived from it so that
// every format carries the same field names; YAML keeps the JSON key
// order, CBOR uses Core Deterministic Encoding.
package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"
)

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCBOR Format = "cbor"
	FormatText Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatCBOR, FormatText}

// ParseFormat parses a format name. The empty string selects JSON.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "cbor":
		return FormatCBOR, nil
	case "text", "txt":
		return FormatText, nil
	}
	return "", fmt.Errorf("unknown output format %q (expected json, yaml, cbor or text)", s)
}

// Binary reports whether the format is unsuitable for a terminal.
func (f Format) Binary() bool {
	return f == FormatCBOR
}

var encMode cbor.EncMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

// Marshal encodes v in the given format. FormatText is handled by Write.
func Marshal(v any, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		return JSON(v)
	case FormatYAML:
		return YAML(v)
	case FormatCBOR:
		return CBOR(v)
	}
	return nil, fmt.Errorf("format %q cannot be marshaled", f)
}

// Write encodes v to w. Text output is available for results, reports and
// catalog listings; other values fall back to YAML.
func Write(w io.Writer, v any, f Format) error {
	var data []byte
	var err error
	if f == FormatText {
		data, err = text(v)
	} else {
		data, err = Marshal(v, f)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// JSON encodes v as indented JSON. HTML characters are not escaped; code
// snippets stay readable.
func JSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode json: %w", err)
	}
	return buf.Bytes(), nil
}

// YAML encodes v as block-style YAML with JSON's key order.
func YAML(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}

	// JSON is valid YAML; decoding it into a node keeps key order.
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	blockStyle(&doc)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// blockStyle clears the flow and quoting styles the JSON input implied.
// Multi-line strings use the literal block style.
func blockStyle(n *yaml.Node) {
	n.Style = 0
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		blockStyle(c)
	}
}

// CBOR encodes v with Core Deterministic Encoding.
func CBOR(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cbor: %w", err)
	}
	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return nil, fmt.Errorf("failed to encode cbor: %w", err)
	}
	out, err := encMode.Marshal(generic)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cbor: %w", err)
	}
	return out, nil
}
