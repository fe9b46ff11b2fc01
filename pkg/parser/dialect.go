package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Dialect is the source flavour generated code is checked against.
type Dialect int

const (
	// DialectTSX is TypeScript with JSX, parsed with the tsx grammar.
	DialectTSX Dialect = iota
	// DialectJSX is JavaScript with JSX, parsed with the javascript grammar.
	DialectJSX
)

// String returns the dialect name used in configuration.
func (d Dialect) String() string {
	switch d {
	case DialectTSX:
		return "tsx"
	case DialectJSX:
		return "jsx"
	default:
		return fmt.Sprintf("Dialect(%d)", int(d))
	}
}

// Extension returns the file extension for generated files.
func (d Dialect) Extension() string {
	return "." + d.String()
}

// ParseDialect converts a configuration string to a Dialect.
func ParseDialect(s string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tsx", "typescript", "ts":
		return DialectTSX, nil
	case "jsx", "javascript", "js":
		return DialectJSX, nil
	}
	return 0, fmt.Errorf("unknown dialect %q (must be tsx or jsx)", s)
}

// DialectForPath picks a dialect from a file extension, defaulting to tsx.
func DialectForPath(path string) Dialect {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsx", ".js", ".mjs", ".cjs":
		return DialectJSX
	default:
		return DialectTSX
	}
}
