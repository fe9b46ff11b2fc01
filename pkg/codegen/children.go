package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
)

const indent = "  "

// Assembled is the complete element text and any imports needed by nested
// components.
type Assembled struct {
	Code    string
	Imports []NamedImport
}

// ChildrenEngine assembles an element with its body.
type ChildrenEngine struct {
	registry *registry.Registry
}

// NewChildrenEngine creates a children engine. The registry resolves
// nested component ids.
func NewChildrenEngine(reg *registry.Registry) *ChildrenEngine {
	return &ChildrenEngine{registry: reg}
}

// body is rendered children content. Inline bodies sit between the tags
// on one line; block bodies are placed one per line, indented.
type body struct {
	inline  string
	lines   []string
	block   bool
	imports []NamedImport
}

// Assemble renders el around children. Nil children yields the
// self-closing form; otherwise the opening and closing tags always bracket
// the content.
func (e *ChildrenEngine) Assemble(el Element, children *spec.Children) (Assembled, error) {
	if children == nil {
		return Assembled{Code: el.SelfClosingTag()}, nil
	}

	b, err := e.render(children.Type, children.Content, "children.content")
	if err != nil {
		return Assembled{}, err
	}

	var sb strings.Builder
	sb.WriteString(el.OpenTag())
	switch {
	case !b.block:
		sb.WriteString(b.inline)
	case len(b.lines) > 0:
		for _, line := range b.lines {
			sb.WriteString("\n" + indent + line)
		}
		sb.WriteString("\n")
	}
	sb.WriteString(el.CloseTag())

	return Assembled{Code: sb.String(), Imports: b.imports}, nil
}

func (e *ChildrenEngine) render(typ spec.ChildrenType, content any, path string) (body, error) {
	switch typ {
	case spec.ChildrenText:
		text, err := textContent(content, path)
		return body{inline: text}, err
	case spec.ChildrenSlot:
		slot, err := slotContent(content, path)
		return body{inline: slot}, err
	case spec.ChildrenComponent:
		return e.componentContent(content, path)
	case spec.ChildrenComplex:
		return e.complexContent(content, path)
	}
	return body{}, fmt.Errorf("%w: %s has unknown children type '%s'", ErrUnrepresentable, path, typ)
}

func textContent(content any, path string) (string, error) {
	switch v := content.(type) {
	case nil:
		return "", nil
	case string:
		return textNode(v), nil
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64), nil
	}
	return "", fmt.Errorf("%w: %s must be text, got %s", ErrUnrepresentable, path, spec.KindOf(content))
}

// textNode writes text as JSX text, or as a string expression when it
// holds characters JSX text cannot contain. '&' would start an entity.
func textNode(s string) string {
	if strings.ContainsAny(s, "{}<>&\n\r") {
		expr, _ := jsonExpression(s)
		return "{" + expr + "}"
	}
	return s
}

func slotContent(content any, path string) (string, error) {
	name := "children"
	switch v := content.(type) {
	case nil:
	case string:
		name = v
	default:
		fields, ok := spec.Fields(content)
		if !ok {
			return "", fmt.Errorf("%w: %s must be a slot name, got %s", ErrUnrepresentable, path, spec.KindOf(content))
		}
		raw, _ := spec.Lookup(fields, "name")
		s, ok := raw.(string)
		if !ok {
			return "", fmt.Errorf("%w: %s.name must be a string", ErrUnrepresentable, path)
		}
		name = s
	}
	if !identPathPattern.MatchString(name) {
		return "", fmt.Errorf("%w: slot name %q is not an identifier", ErrUnrepresentable, name)
	}
	return "{" + name + "}", nil
}

func (e *ChildrenEngine) componentContent(content any, path string) (body, error) {
	items, isList := content.([]any)
	if !isList {
		items = []any{content}
	}

	out := body{block: true}
	for i, item := range items {
		itemPath := path
		if isList {
			itemPath = fmt.Sprintf("%s[%d]", path, i)
		}
		line, imp, err := e.childComponent(item, itemPath)
		if err != nil {
			return body{}, err
		}
		out.lines = append(out.lines, line)
		out.imports = append(out.imports, imp)
	}
	return out, nil
}

// childComponent renders one {id, props?, text?} payload on a single line.
func (e *ChildrenEngine) childComponent(item any, path string) (string, NamedImport, error) {
	fields, ok := spec.Fields(item)
	if !ok {
		return "", NamedImport{}, fmt.Errorf("%w: %s must be an object with an 'id', got %s", ErrUnrepresentable, path, spec.KindOf(item))
	}
	rawID, _ := spec.Lookup(fields, "id")
	id, ok := rawID.(string)
	if !ok || id == "" {
		return "", NamedImport{}, fmt.Errorf("%w: %s.id must be a non-empty string", ErrUnrepresentable, path)
	}
	comp, ok := e.registry.Lookup(id)
	if !ok {
		return "", NamedImport{}, fmt.Errorf("%w: nested component '%s' is not in the registry", ErrUnrepresentable, id)
	}
	if !tagNamePattern.MatchString(comp.ExportName) {
		return "", NamedImport{}, fmt.Errorf("%w: export name '%s' is not a valid tag name", ErrUnrepresentable, comp.ExportName)
	}

	el := Element{Name: comp.ExportName}
	var props []spec.Field
	if rawProps, ok := spec.Lookup(fields, "props"); ok && rawProps != nil {
		props, ok = spec.Fields(rawProps)
		if !ok {
			return "", NamedImport{}, fmt.Errorf("%w: %s.props must be an object", ErrUnrepresentable, path)
		}
	}
	if err := checkNestedProps(comp, props, path); err != nil {
		return "", NamedImport{}, err
	}
	for _, p := range props {
		meta, _ := comp.Prop(p.Key)
		attr, err := literalAttribute(p.Key, p.Value, meta.Type.Kind == registry.KindFunction)
		if err != nil {
			return "", NamedImport{}, err
		}
		el.Attributes = append(el.Attributes, attr)
	}

	imp := NamedImport{Name: comp.ExportName, Path: e.registry.ImportPath(comp)}
	rawText, hasText := spec.Lookup(fields, "text")
	if !hasText {
		return el.SelfClosingTag(), imp, nil
	}
	if comp.Children.AllowedTypes == registry.ChildrenNone {
		return "", NamedImport{}, fmt.Errorf("%w: %s.text: nested component '%s' does not accept children", ErrUnrepresentable, path, id)
	}
	text, err := textContent(rawText, path+".text")
	if err != nil {
		return "", NamedImport{}, err
	}
	return el.OpenTag() + text + el.CloseTag(), imp, nil
}

// checkNestedProps holds nested literal props to the same registry
// contract as top-level ones: accepted names, fitting values and every
// required prop present.
func checkNestedProps(comp *registry.ComponentAPI, props []spec.Field, path string) error {
	given := make(map[string]bool, len(props))
	for _, p := range props {
		meta, ok := comp.Prop(p.Key)
		if !ok {
			return fmt.Errorf("%w: %s.props: unknown prop %q for component '%s'", ErrUnrepresentable, path, p.Key, comp.ID)
		}
		if !meta.Type.Accepts(p.Value) {
			return fmt.Errorf("%w: %s.props.%s: expected %s, got %s", ErrUnrepresentable, path, p.Key, meta.Type, describeValue(p.Value))
		}
		given[p.Key] = true
	}
	for _, name := range comp.RequiredProps() {
		if !given[name] {
			return fmt.Errorf("%w: %s: missing required prop '%s' for component '%s'", ErrUnrepresentable, path, name, comp.ID)
		}
	}
	return nil
}

// complexContent renders an ordered list of {type, content} entries.
func (e *ChildrenEngine) complexContent(content any, path string) (body, error) {
	if content == nil {
		return body{block: true}, nil
	}
	items, ok := content.([]any)
	if !ok {
		return body{}, fmt.Errorf("%w: %s must be a list of {type, content} entries, got %s", ErrUnrepresentable, path, spec.KindOf(content))
	}

	out := body{block: true}
	for i, item := range items {
		itemPath := fmt.Sprintf("%s[%d]", path, i)
		fields, ok := spec.Fields(item)
		if !ok {
			return body{}, fmt.Errorf("%w: %s must be an object, got %s", ErrUnrepresentable, itemPath, spec.KindOf(item))
		}
		rawType, _ := spec.Lookup(fields, "type")
		typ, _ := rawType.(string)
		if !spec.ChildrenType(typ).Valid() {
			return body{}, fmt.Errorf("%w: %s.type '%v' is not a children type", ErrUnrepresentable, itemPath, rawType)
		}
		inner, _ := spec.Lookup(fields, "content")

		b, err := e.render(spec.ChildrenType(typ), inner, itemPath+".content")
		if err != nil {
			return body{}, err
		}
		if b.block {
			out.lines = append(out.lines, b.lines...)
		} else if b.inline != "" {
			out.lines = append(out.lines, b.inline)
		}
		out.imports = append(out.imports, b.imports...)
	}
	return out, nil
}
