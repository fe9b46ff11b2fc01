package codegen

import (
	"fmt"
	"strings"

	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/tokens"
)

// Binding is one CSS custom property set on the element.
type Binding struct {
	Property string // "--color-bg"
	Value    string // "var(--accent-500)"
}

// Styling is the output of the styling engine.
type Styling struct {
	Bindings []Binding
	Imports  []string // deduplicated, non-empty import lines
}

// Attribute renders the bindings as a style attribute, or "" when there
// are none.
func (s Styling) Attribute() string {
	if len(s.Bindings) == 0 {
		return ""
	}
	parts := make([]string, len(s.Bindings))
	for i, b := range s.Bindings {
		key, _ := jsonExpression(b.Property)
		val, _ := jsonExpression(b.Value)
		parts[i] = key + ": " + val
	}
	return "style={{ " + strings.Join(parts, ", ") + " }}"
}

// StylingEngine turns design references into CSS variable bindings.
type StylingEngine struct {
	tokens *tokens.Registry
}

// NewStylingEngine creates a styling engine over reg.
func NewStylingEngine(reg *tokens.Registry) *StylingEngine {
	return &StylingEngine{tokens: reg}
}

// Build resolves every design.colors and design.spacing entry, in the
// order supplied, and collects the stylesheet imports they need.
func (e *StylingEngine) Build(s *spec.Spec) (Styling, error) {
	var out Styling
	if s.Design == nil {
		out.Imports = []string{}
		return out, nil
	}

	var stylesheets []string
	add := func(prefix string, bindings spec.TokenBindings, category tokens.Category) error {
		for _, b := range bindings {
			ref, err := tokens.ParseReference(b.Ref)
			if err != nil {
				return fmt.Errorf("%w: design %s '%s': %v", ErrUnrepresentable, category, b.Key, err)
			}
			res, err := e.tokens.ResolveIn(ref, category)
			if err != nil {
				return fmt.Errorf("%w: design %s '%s': %v", ErrUnrepresentable, category, b.Key, err)
			}
			out.Bindings = append(out.Bindings, Binding{Property: prefix + b.Key, Value: res.Var()})
			stylesheets = append(stylesheets, SideEffectImport(res.Stylesheet))
		}
		return nil
	}
	if err := add("--color-", s.Design.Colors, tokens.CategoryColor); err != nil {
		return Styling{}, err
	}
	if err := add("--spacing-", s.Design.Spacing, tokens.CategorySpacing); err != nil {
		return Styling{}, err
	}

	if len(out.Bindings) > 0 {
		if _, ok := s.Props.Get("style"); ok {
			return Styling{}, fmt.Errorf("%w: a 'style' prop cannot be combined with design tokens", ErrUnrepresentable)
		}
	}

	out.Imports = MergeImports(stylesheets)
	return out, nil
}
