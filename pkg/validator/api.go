// Package validator checks a structurally valid spec against the component
// capability registry and the design token registry.
package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
)

// APIReport is the outcome of component API validation. Findings are split
// across the component, props and children stages of the pipeline report.
type APIReport struct {
	Component spec.StageResult `json:"component"`
	Props     spec.StageResult `json:"props"`
	Children  spec.StageResult `json:"children"`
}

// Valid reports whether all three stages passed.
func (r APIReport) Valid() bool {
	return r.Component.Valid && r.Props.Valid && r.Children.Valid
}

// APIValidator checks specs against a component registry.
type APIValidator struct {
	registry *registry.Registry
}

// NewAPIValidator creates a validator over reg. The registry is only read.
func NewAPIValidator(reg *registry.Registry) *APIValidator {
	return &APIValidator{registry: reg}
}

// Validate checks component existence, required and accepted props, prop
// value types and the children policy. Issues appear in evaluation order.
// A component that is not in the registry ends validation immediately.
func (v *APIValidator) Validate(s *spec.Spec) APIReport {
	report := APIReport{Component: spec.Passed(), Props: spec.Passed(), Children: spec.Passed()}

	comp, ok := v.registry.Lookup(s.Component.ID)
	if !ok {
		var c spec.Collector
		c.Error("component.id", fmt.Sprintf("Component not found: '%s'", s.Component.ID), v.notFoundSuggestion(s.Component.ID))
		report.Component = c.Result()
		return report
	}

	report.Component = v.checkComponent(s, comp)
	report.Props = v.checkProps(s, comp)
	report.Children = checkChildren(s, comp)
	return report
}

func (v *APIValidator) notFoundSuggestion(id string) string {
	ids := v.registry.IDs()
	for _, known := range ids {
		if strings.EqualFold(known, id) {
			return fmt.Sprintf("Component ids are case-sensitive; did you mean '%s'?", known)
		}
	}
	return "Available components: " + strings.Join(ids, ", ")
}

func (v *APIValidator) checkComponent(s *spec.Spec, comp *registry.ComponentAPI) spec.StageResult {
	var c spec.Collector

	for _, name := range comp.RequiredProps() {
		if _, ok := s.Props.Get(name); ok {
			continue
		}
		meta, _ := comp.Prop(name)
		c.Error("props."+name,
			fmt.Sprintf("Missing required prop '%s' for component '%s'", name, comp.ID),
			requiredSuggestion(meta))
	}

	if s.Component.Variant != "" {
		checkVariant(&c, s, comp)
	}

	return c.Result()
}

func checkVariant(c *spec.Collector, s *spec.Spec, comp *registry.ComponentAPI) {
	variant := s.Component.Variant
	meta, ok := comp.Prop("variant")
	if !ok {
		c.Error("component.variant", fmt.Sprintf("Component '%s' does not support variants", comp.ID),
			"Remove component.variant")
		return
	}
	if !meta.Type.Accepts(variant) {
		c.Error("component.variant",
			fmt.Sprintf("Invalid variant '%s' for component '%s'", variant, comp.ID),
			allowedSuggestion(meta.Type))
		return
	}
	if _, ok := s.Props.Get("variant"); ok {
		c.Warn("props.variant", "Prop 'variant' overrides component.variant",
			"Set the variant in one place only")
	}
}

func (v *APIValidator) checkProps(s *spec.Spec, comp *registry.ComponentAPI) spec.StageResult {
	var c spec.Collector

	for _, prop := range s.Props {
		path := "props." + prop.Name
		meta, ok := comp.Prop(prop.Name)
		if !ok {
			c.Error(path,
				fmt.Sprintf("Unknown prop '%s' for component '%s'", prop.Name, comp.ID),
				"Accepted props: "+strings.Join(comp.AcceptedProps(), ", "))
			continue
		}

		// The token validator resolves design-token references; here they
		// only need a prop that takes a string. Variable values name an
		// identifier and are not type-checked.
		switch prop.Source {
		case spec.SourceDesignToken:
			if !meta.Type.AcceptsString() {
				c.Error(path,
					fmt.Sprintf("Prop '%s' expects %s and cannot take a design-token value", prop.Name, meta.Type),
					designTokenSuggestion(meta.Type))
			}
			continue
		case spec.SourceVariable:
			continue
		}

		if !meta.Type.Accepts(prop.Value) {
			if meta.Type.Kind == registry.KindEnum {
				c.Error(path,
					fmt.Sprintf("Invalid value %s for prop '%s'", describe(prop.Value), prop.Name),
					allowedSuggestion(meta.Type))
			} else {
				c.Error(path,
					fmt.Sprintf("Prop '%s' expects %s, got %s", prop.Name, meta.Type, spec.KindOf(prop.Value)),
					"")
			}
			continue
		}

		if isDefault(meta, prop.Value) {
			c.Warn(path,
				fmt.Sprintf("Prop '%s' is set to its default value %s", prop.Name, describe(prop.Value)),
				"Omit the prop to use the default")
		}
	}

	return c.Result()
}

func checkChildren(s *spec.Spec, comp *registry.ComponentAPI) spec.StageResult {
	var c spec.Collector

	switch comp.Children.AllowedTypes {
	case registry.ChildrenNone:
		if s.Children != nil {
			c.Error("children", fmt.Sprintf("Component '%s' does not accept children", comp.ID), "Remove the children field")
		}
	case registry.ChildrenText:
		if s.Children != nil && s.Children.Type != spec.ChildrenText {
			c.Error("children.type",
				fmt.Sprintf("Component '%s' only accepts text children, got '%s'", comp.ID, s.Children.Type),
				`Use "children": {"type": "text", "content": "..."}`)
		}
	}

	return c.Result()
}

// isDefault compares scalar literals with the registry default.
func isDefault(meta *registry.PropMetadata, value any) bool {
	switch meta.Default.(type) {
	case string, float64, bool:
		return meta.Default == value
	}
	return false
}

func requiredSuggestion(meta *registry.PropMetadata) string {
	if meta == nil {
		return ""
	}
	if meta.Type.Kind == registry.KindEnum {
		return fmt.Sprintf(`Add "%s": {"value": "%s", "source": "literal"}. %s`,
			meta.Name, meta.Type.Values[0], allowedSuggestion(meta.Type))
	}
	return fmt.Sprintf(`Add "%s": {"value": <%s>, "source": "literal"}`, meta.Name, meta.Type)
}

func designTokenSuggestion(t registry.PropType) string {
	if t.Kind == registry.KindEnum {
		return `Use "source": "literal". ` + allowedSuggestion(t)
	}
	return `Use "source": "literal" or "variable"`
}

func allowedSuggestion(t registry.PropType) string {
	if t.Kind != registry.KindEnum {
		return fmt.Sprintf("Expected %s", t)
	}
	return "Allowed values: " + strings.Join(t.Values, ", ")
}

func describe(v any) string {
	switch x := v.(type) {
	case string:
		return "'" + x + "'"
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return spec.KindOf(v)
}
