package codegen

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/tokens"
)

// identPathPattern matches a bare identifier or a dotted member path such
// as "form.values.email".
var identPathPattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*(\.[A-Za-z_$][A-Za-z0-9_$]*)*$`)

// RenderedProps is the output of the props engine.
type RenderedProps struct {
	Attributes  []string
	Stylesheets []string // stylesheets defining design-token variables used by props
}

// PropsEngine renders supplied props as attribute text.
type PropsEngine struct {
	tokens *tokens.Registry
}

// NewPropsEngine creates a props engine resolving design tokens in reg.
func NewPropsEngine(reg *tokens.Registry) *PropsEngine {
	return &PropsEngine{tokens: reg}
}

// Render serializes s.Props in the order supplied. A component.variant is
// emitted first as a variant attribute when comp declares a variant prop
// and the props do not set one.
func (e *PropsEngine) Render(s *spec.Spec, comp *registry.ComponentAPI) (RenderedProps, error) {
	var out RenderedProps

	if s.Component.Variant != "" {
		if _, declared := comp.Prop("variant"); declared {
			if _, overridden := s.Props.Get("variant"); !overridden {
				out.Attributes = append(out.Attributes, stringAttribute("variant", s.Component.Variant))
			}
		}
	}

	for _, p := range s.Props {
		meta, _ := comp.Prop(p.Name)
		isFunction := meta != nil && meta.Type.Kind == registry.KindFunction

		attr, stylesheet, err := e.renderProp(p, isFunction)
		if err != nil {
			return RenderedProps{}, err
		}
		out.Attributes = append(out.Attributes, attr)
		if stylesheet != "" {
			out.Stylesheets = append(out.Stylesheets, stylesheet)
		}
	}
	return out, nil
}

func (e *PropsEngine) renderProp(p spec.Prop, isFunction bool) (string, string, error) {
	switch p.Source {
	case spec.SourceLiteral:
		attr, err := literalAttribute(p.Name, p.Value, isFunction)
		return attr, "", err

	case spec.SourceVariable:
		ident, ok := p.Value.(string)
		if !ok || !identPathPattern.MatchString(ident) {
			return "", "", fmt.Errorf("%w: variable prop '%s' must name an identifier, got %s",
				ErrUnrepresentable, p.Name, describeValue(p.Value))
		}
		return p.Name + "={" + ident + "}", "", nil

	case spec.SourceDesignToken:
		res, err := e.tokens.ResolveValue(p.Value)
		if err != nil {
			return "", "", fmt.Errorf("%w: design-token prop '%s': %v", ErrUnrepresentable, p.Name, err)
		}
		return stringAttribute(p.Name, res.Var()), res.Stylesheet, nil
	}
	return "", "", fmt.Errorf("%w: prop '%s' has unknown source '%s'", ErrUnrepresentable, p.Name, p.Source)
}

// literalAttribute renders a literal. Function-typed props carry source
// text that is emitted verbatim as an expression.
func literalAttribute(name string, value any, isFunction bool) (string, error) {
	if s, ok := value.(string); ok {
		if isFunction {
			return name + "={" + strings.TrimSpace(s) + "}", nil
		}
		return stringAttribute(name, s), nil
	}
	expr, err := jsonExpression(value)
	if err != nil {
		return "", fmt.Errorf("%w: prop '%s': %v", ErrUnrepresentable, name, err)
	}
	return name + "={" + expr + "}", nil
}

// stringAttribute renders name="value", falling back to an expression
// container when the value cannot sit inside a JSX string attribute.
func stringAttribute(name, value string) string {
	if needsExpression(value) {
		expr, _ := jsonExpression(value)
		return name + "={" + expr + "}"
	}
	return name + `="` + value + `"`
}

// needsExpression reports whether s cannot sit verbatim in a JSX string
// attribute. JSX decodes entities there, so '&' counts.
func needsExpression(s string) bool {
	return strings.ContainsAny(s, "\"\\&\n\r\t")
}

// jsonExpression encodes v as a JavaScript expression. JSON is a subset of
// JavaScript expression syntax, and *spec.Object keeps key order.
func jsonExpression(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func describeValue(v any) string {
	if s, ok := v.(string); ok {
		return fmt.Sprintf("%q", s)
	}
	return spec.KindOf(v)
}
