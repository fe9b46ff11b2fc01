package verify

import (
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Attribute is one JSX attribute in source order.
type Attribute struct {
	Name       string `json:"name"`
	Value      string `json:"value"`      // string contents, or expression text without braces
	Expression bool   `json:"expression"` // value was written as {expr}
}

// Usage is one component element found in the code.
type Usage struct {
	Name        string      `json:"name"`
	Attributes  []Attribute `json:"attributes"`
	HasChildren bool        `json:"has_children"`
	Parent      string      `json:"parent,omitempty"` // nearest enclosing component
	Line        int         `json:"line"`             // 1-based
	Column      int         `json:"column"`           // 1-based

	parent int // index into Extraction.Usages, -1 at top level
}

// Attribute returns the named attribute.
func (u Usage) Attribute(name string) (Attribute, bool) {
	for _, a := range u.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Import is one import statement.
type Import struct {
	Source string   `json:"source"`
	Names  []string `json:"names,omitempty"`
	Line   int      `json:"line"`
}

// SideEffect reports whether the import binds no names.
func (i Import) SideEffect() bool {
	return len(i.Names) == 0
}

// Extraction holds the component usages and imports of a source file.
type Extraction struct {
	Usages  []Usage
	Imports []Import
}

// Imported reports whether name is bound by any import.
func (e *Extraction) Imported(name string) bool {
	for _, imp := range e.Imports {
		for _, n := range imp.Names {
			if n == name {
				return true
			}
		}
	}
	return false
}

// Extract walks a parsed tree and collects imports and component usages
// in document order.
func Extract(tree *ts.Tree, source []byte) *Extraction {
	ext := &Extraction{}
	root := tree.RootNode()
	collectImports(root, source, ext)

	var parents []int
	walk(root, source, &parents, ext)
	return ext
}

func collectImports(root *ts.Node, source []byte, ext *Extraction) {
	for i := uint(0); i < root.ChildCount(); i++ {
		stmt := root.Child(i)
		if stmt.Kind() != "import_statement" {
			continue
		}
		imp := Import{Line: int(stmt.StartPosition().Row) + 1}
		for j := uint(0); j < stmt.ChildCount(); j++ {
			part := stmt.Child(j)
			switch part.Kind() {
			case "string":
				imp.Source = stringContent(part, source)
			case "import_clause":
				imp.Names = append(imp.Names, clauseNames(part, source)...)
			}
		}
		if imp.Source != "" {
			ext.Imports = append(ext.Imports, imp)
		}
	}
}

// clauseNames returns the local names bound by an import clause: the
// default import and each named import.
func clauseNames(clause *ts.Node, source []byte) []string {
	var names []string
	for i := uint(0); i < clause.ChildCount(); i++ {
		child := clause.Child(i)
		switch child.Kind() {
		case "identifier":
			names = append(names, child.Utf8Text(source))
		case "named_imports":
			for j := uint(0); j < child.ChildCount(); j++ {
				spec := child.Child(j)
				if spec.Kind() != "import_specifier" {
					continue
				}
				// { A as B } binds B.
				if alias := spec.ChildByFieldName("alias"); alias != nil {
					names = append(names, alias.Utf8Text(source))
				} else if name := spec.ChildByFieldName("name"); name != nil {
					names = append(names, name.Utf8Text(source))
				}
			}
		}
	}
	return names
}

func stringContent(node *ts.Node, source []byte) string {
	var sb strings.Builder
	found := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "string_fragment" {
			sb.WriteString(child.Utf8Text(source))
			found = true
		}
	}
	if found {
		return sb.String()
	}
	text := node.Utf8Text(source)
	if len(text) >= 2 {
		return text[1 : len(text)-1]
	}
	return text
}

func walk(node *ts.Node, source []byte, parents *[]int, ext *Extraction) {
	switch node.Kind() {
	case "jsx_element":
		element(node, source, parents, ext)
		return
	case "jsx_self_closing_element":
		name, attrs := tagParts(node, source)
		if isComponentName(name) {
			ext.Usages = append(ext.Usages, newUsage(node, name, attrs, false, *parents, ext))
		}
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		walk(node.Child(i), source, parents, ext)
	}
}

func element(node *ts.Node, source []byte, parents *[]int, ext *Extraction) {
	var name string
	var attrs []Attribute
	if open := node.ChildByFieldName("open_tag"); open != nil {
		name, attrs = tagParts(open, source)
	}

	isComponent := isComponentName(name)
	if isComponent {
		ext.Usages = append(ext.Usages, newUsage(node, name, attrs, hasChildren(node, source), *parents, ext))
		*parents = append(*parents, len(ext.Usages)-1)
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if k := child.Kind(); k != "jsx_opening_element" && k != "jsx_closing_element" {
			walk(child, source, parents, ext)
		}
	}

	if isComponent {
		*parents = (*parents)[:len(*parents)-1]
	}
}

func newUsage(node *ts.Node, name string, attrs []Attribute, children bool, parents []int, ext *Extraction) Usage {
	u := Usage{
		Name:        name,
		Attributes:  attrs,
		HasChildren: children,
		Line:        int(node.StartPosition().Row) + 1,
		Column:      int(node.StartPosition().Column) + 1,
		parent:      -1,
	}
	if len(parents) > 0 {
		u.parent = parents[len(parents)-1]
		u.Parent = ext.Usages[u.parent].Name
	}
	return u
}

// TopLevel returns the usages not nested in another component.
func (e *Extraction) TopLevel() []Usage {
	var out []Usage
	for _, u := range e.Usages {
		if u.parent < 0 {
			out = append(out, u)
		}
	}
	return out
}

// childCounts returns the number of direct component children per usage.
func (e *Extraction) childCounts() []int {
	counts := make([]int, len(e.Usages))
	for _, u := range e.Usages {
		if u.parent >= 0 {
			counts[u.parent]++
		}
	}
	return counts
}

func tagParts(node *ts.Node, source []byte) (string, []Attribute) {
	var name string
	var attrs []Attribute
	if n := node.ChildByFieldName("name"); n != nil {
		name = n.Utf8Text(source)
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child.Kind() == "jsx_attribute" {
			attrs = append(attrs, attribute(child, source))
		}
	}
	return name, attrs
}

func attribute(node *ts.Node, source []byte) Attribute {
	var a Attribute
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_identifier", "jsx_namespace_name":
			a.Name = child.Utf8Text(source)
		case "string":
			a.Value = stringContent(child, source)
		case "jsx_expression":
			text := child.Utf8Text(source)
			a.Value = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(text, "{"), "}"))
			a.Expression = true
		}
	}
	if a.Value == "" && !a.Expression && node.ChildCount() == 1 {
		// Boolean shorthand: <Input isRequired />
		a.Value, a.Expression = "true", true
	}
	return a
}

func hasChildren(node *ts.Node, source []byte) bool {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "jsx_element", "jsx_self_closing_element", "jsx_expression":
			return true
		case "jsx_text":
			if strings.IndexFunc(child.Utf8Text(source), func(r rune) bool { return !unicode.IsSpace(r) }) >= 0 {
				return true
			}
		}
	}
	return false
}

func isComponentName(name string) bool {
	return name != "" && unicode.IsUpper(rune(name[0]))
}
