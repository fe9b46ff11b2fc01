// Package verify re-parses generated component code with tree-sitter and
// checks that it is well formed: no syntax errors, the expected root
// element, and an import for every component it renders.
package verify

import (
	"fmt"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/parser"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
)

// maxSyntaxIssues caps the syntax errors reported for one snippet.
const maxSyntaxIssues = 10

// Report is the outcome of verifying one snippet.
type Report struct {
	Valid   bool         `json:"valid"`
	Dialect string       `json:"dialect"`
	Issues  []spec.Issue `json:"issues"`
	Summary Summary      `json:"summary"`
}

// Verifier checks generated code against its dialect's grammar.
//
// Thread Safety:
// - Verify is safe for concurrent use; parsing goes through the shared
//   parser.Manager pools
type Verifier struct {
	parser   *parser.Manager
	dialect  parser.Dialect
	registry *registry.Registry
}

// New creates a verifier. The manager is borrowed, not owned. reg may be
// nil, in which case VerifyResult does not check the root element.
func New(pm *parser.Manager, dialect parser.Dialect, reg *registry.Registry) *Verifier {
	return &Verifier{parser: pm, dialect: dialect, registry: reg}
}

// Dialect returns the dialect code is parsed as.
func (v *Verifier) Dialect() parser.Dialect {
	return v.dialect
}

// Verify parses code and reports problems. expectedRoot, when not empty,
// is the element name the snippet must render at top level. The returned
// error is reserved for parser failures; findings are Issues.
func (v *Verifier) Verify(code, expectedRoot string) (*Report, error) {
	source := []byte(code)
	tree, err := v.parser.Parse(source, v.dialect)
	if err != nil {
		return nil, fmt.Errorf("failed to parse generated code: %w", err)
	}
	defer tree.Close()

	var c spec.Collector
	root := tree.RootNode()
	if root.HasError() {
		syntaxIssues(root, source, &c)
	}

	ext := Extract(tree, source)
	checkRoot(ext, expectedRoot, &c)
	checkImports(ext, &c)

	result := c.Result()
	return &Report{
		Valid:   result.Valid,
		Dialect: v.dialect.String(),
		Issues:  result.Issues,
		Summary: summarize(code, ext),
	}, nil
}

// VerifyResult verifies the code of a successful generation result. The
// expected root element is the component's export name. A failed result
// has no code and yields a nil report.
func (v *Verifier) VerifyResult(r *generator.Result) (*Report, error) {
	if r == nil || !r.Success {
		return nil, nil
	}
	root := ""
	if v.registry != nil && r.Specification != nil {
		if comp, ok := v.registry.Lookup(r.Specification.Component.ID); ok {
			root = comp.ExportName
		}
	}
	return v.Verify(r.Code, root)
}

func syntaxIssues(root *ts.Node, source []byte, c *spec.Collector) {
	count := 0
	var visit func(n *ts.Node)
	visit = func(n *ts.Node) {
		if count >= maxSyntaxIssues {
			return
		}
		if n.IsError() || n.IsMissing() {
			count++
			pos := n.StartPosition()
			loc := fmt.Sprintf("line %d, column %d", pos.Row+1, pos.Column+1)
			if n.IsMissing() {
				c.Error("code", fmt.Sprintf("Syntax error at %s: missing '%s'", loc, n.Kind()), "")
			} else {
				c.Error("code", fmt.Sprintf("Syntax error at %s near %q", loc, snippet(n.Utf8Text(source))), "")
			}
			return
		}
		if !n.HasError() {
			return
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			visit(n.Child(i))
		}
	}
	visit(root)

	// HasError can be set without a visible ERROR node.
	if count == 0 {
		c.Error("code", "Generated code does not parse", "")
	}
}

func snippet(text string) string {
	const max = 24
	if len(text) > max {
		return text[:max] + "..."
	}
	return text
}

func checkRoot(ext *Extraction, expected string, c *spec.Collector) {
	top := ext.TopLevel()
	if len(top) == 0 {
		if expected != "" {
			c.Error("code", fmt.Sprintf("Generated code does not render '%s'", expected), "")
		}
		return
	}
	if expected != "" && top[0].Name != expected {
		c.Error("code",
			fmt.Sprintf("Root element is '%s', expected '%s'", top[0].Name, expected), "")
	}
	if len(top) > 1 {
		c.Warn("code", fmt.Sprintf("Generated code has %d top-level elements", len(top)),
			"Wrap the elements in a single parent")
	}
}

func checkImports(ext *Extraction, c *spec.Collector) {
	seen := make(map[string]bool)
	for _, u := range ext.Usages {
		// Member expressions such as Card.Header resolve through Card.
		name := rootIdentifier(u.Name)
		if seen[name] {
			continue
		}
		seen[name] = true
		if !ext.Imported(name) {
			c.Error("code", fmt.Sprintf("Component '%s' is used but not imported", name), "")
		}
	}

	for _, imp := range ext.Imports {
		for _, name := range imp.Names {
			if !seen[name] {
				c.Warn("code", fmt.Sprintf("Import '%s' from '%s' is unused", name, imp.Source), "")
			}
		}
	}
}

func rootIdentifier(name string) string {
	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			return name[:i]
		}
	}
	return name
}
