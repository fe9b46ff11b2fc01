package spec

import (
	"fmt"
	"strings"
)

// knownFields are the top-level members of a generation spec.
var knownFields = map[string]bool{
	"component": true,
	"props":     true,
	"children":  true,
	"design":    true,
	"metadata":  true,
}

// Parse structurally validates input against the generation-spec shape
// without consulting any registry. It returns a typed Spec only when the
// stage is valid. Parse never panics: malformed input of any shape
// degrades to issues.
func Parse(input any) (*Spec, StageResult) {
	var c Collector

	root, ok := Fields(input)
	if !ok {
		c.Error("", fmt.Sprintf("Specification must be an object, got %s", KindOf(input)),
			`Provide an object such as {"component": {"id": "button"}}`)
		return nil, c.Result()
	}

	for _, f := range root {
		if !knownFields[f.Key] {
			c.Warn(f.Key, fmt.Sprintf("Unknown field %q will be ignored", f.Key), "")
		}
	}

	s := &Spec{}
	parseComponent(&c, root, s)
	parseProps(&c, root, s)
	parseChildren(&c, root, s)
	parseDesign(&c, root, s)
	parseMetadata(&c, root, s)

	if c.HasErrors() {
		return nil, c.Result()
	}
	return s, c.Result()
}

func parseComponent(c *Collector, root []Field, s *Spec) {
	raw, ok := Lookup(root, "component")
	if !ok {
		c.Error("component", "Missing required field: component", `Add "component": {"id": "<component id>"}`)
		return
	}
	fields, ok := Fields(raw)
	if !ok {
		c.Error("component", fmt.Sprintf("Field 'component' must be an object, got %s", KindOf(raw)), "")
		return
	}

	id, ok := Lookup(fields, "id")
	switch {
	case !ok:
		c.Error("component.id", "Missing required field: component.id", "")
	default:
		str, isString := id.(string)
		switch {
		case !isString:
			c.Error("component.id", fmt.Sprintf("Field 'component.id' must be a string, got %s", KindOf(id)), "")
		case str == "":
			c.Error("component.id", "Field 'component.id' must not be empty", "")
		default:
			s.Component.ID = str
		}
	}

	if variant, ok := Lookup(fields, "variant"); ok {
		str, isString := variant.(string)
		if !isString {
			c.Error("component.variant", fmt.Sprintf("Field 'component.variant' must be a string, got %s", KindOf(variant)), "")
		} else {
			s.Component.Variant = str
		}
	}
}

func parseProps(c *Collector, root []Field, s *Spec) {
	raw, ok := Lookup(root, "props")
	if !ok {
		return
	}
	entries, ok := Fields(raw)
	if !ok {
		c.Error("props", fmt.Sprintf("Field 'props' must be an object, got %s", KindOf(raw)), "")
		return
	}

	for _, entry := range entries {
		path := "props." + entry.Key
		fields, ok := Fields(entry.Value)
		if !ok {
			c.Error(path, fmt.Sprintf("Prop '%s' must be an object with 'value' and 'source', got %s", entry.Key, KindOf(entry.Value)),
				`Use {"value": ..., "source": "literal"}`)
			continue
		}

		prop := Prop{Name: entry.Key}
		valid := true

		value, hasValue := Lookup(fields, "value")
		if !hasValue {
			c.Error(path+".value", fmt.Sprintf("Prop '%s' is missing required field: value", entry.Key), "")
			valid = false
		} else {
			cloned, err := CloneValue(value)
			if err != nil {
				c.Error(path+".value", fmt.Sprintf("Prop '%s' has an unusable value: %v", entry.Key, err), "")
				valid = false
			}
			prop.Value = cloned
		}

		source, hasSource := Lookup(fields, "source")
		switch {
		case !hasSource:
			c.Error(path+".source", fmt.Sprintf("Prop '%s' is missing required field: source", entry.Key), sourceSuggestion())
			valid = false
		default:
			str, isString := source.(string)
			switch {
			case !isString:
				c.Error(path+".source", fmt.Sprintf("Prop '%s' field 'source' must be a string, got %s", entry.Key, KindOf(source)), sourceSuggestion())
				valid = false
			case !Source(str).Valid():
				c.Error(path+".source", fmt.Sprintf("Prop '%s' has invalid source '%s'", entry.Key, str), sourceSuggestion())
				valid = false
			default:
				prop.Source = Source(str)
			}
		}

		if valid {
			s.Props = append(s.Props, prop)
		}
	}
}

func parseChildren(c *Collector, root []Field, s *Spec) {
	raw, ok := Lookup(root, "children")
	if !ok {
		return
	}
	fields, ok := Fields(raw)
	if !ok {
		c.Error("children", fmt.Sprintf("Field 'children' must be an object, got %s", KindOf(raw)), "")
		return
	}

	typ, ok := Lookup(fields, "type")
	if !ok {
		c.Error("children.type", "Missing required field: children.type", childrenSuggestion())
		return
	}
	str, isString := typ.(string)
	if !isString {
		c.Error("children.type", fmt.Sprintf("Field 'children.type' must be a string, got %s", KindOf(typ)), childrenSuggestion())
		return
	}
	if !ChildrenType(str).Valid() {
		c.Error("children.type", fmt.Sprintf("Invalid children type '%s'", str), childrenSuggestion())
		return
	}

	children := &Children{Type: ChildrenType(str)}
	if content, ok := Lookup(fields, "content"); ok {
		cloned, err := CloneValue(content)
		if err != nil {
			c.Error("children.content", fmt.Sprintf("Field 'children.content' is unusable: %v", err), "")
			return
		}
		children.Content = cloned
	}
	s.Children = children
}

func parseDesign(c *Collector, root []Field, s *Spec) {
	raw, ok := Lookup(root, "design")
	if !ok {
		return
	}
	fields, ok := Fields(raw)
	if !ok {
		c.Error("design", fmt.Sprintf("Field 'design' must be an object, got %s", KindOf(raw)), "")
		return
	}

	design := &Design{}
	design.Colors = parseBindings(c, fields, "colors")
	design.Spacing = parseBindings(c, fields, "spacing")
	s.Design = design
}

// parseBindings only checks the object shape; token validity belongs to the
// token validator.
func parseBindings(c *Collector, design []Field, key string) TokenBindings {
	raw, ok := Lookup(design, key)
	if !ok {
		return nil
	}
	path := "design." + key
	entries, ok := Fields(raw)
	if !ok {
		c.Error(path, fmt.Sprintf("Field '%s' must be an object, got %s", path, KindOf(raw)), "")
		return nil
	}

	bindings := make(TokenBindings, 0, len(entries))
	for _, entry := range entries {
		ref, err := CloneValue(entry.Value)
		if err != nil {
			c.Error(path+"."+entry.Key, fmt.Sprintf("Token reference '%s' is unusable: %v", entry.Key, err), "")
			continue
		}
		bindings = append(bindings, TokenBinding{Key: entry.Key, Ref: ref})
	}
	return bindings
}

func parseMetadata(c *Collector, root []Field, s *Spec) {
	raw, ok := Lookup(root, "metadata")
	if !ok {
		return
	}
	if _, ok := Fields(raw); !ok {
		c.Error("metadata", fmt.Sprintf("Field 'metadata' must be an object, got %s", KindOf(raw)), "")
		return
	}
	cloned, err := CloneValue(raw)
	if err != nil {
		c.Error("metadata", fmt.Sprintf("Field 'metadata' is unusable: %v", err), "")
		return
	}
	s.Metadata = cloned
}

func sourceSuggestion() string {
	names := make([]string, len(Sources))
	for i, src := range Sources {
		names[i] = string(src)
	}
	return "Use one of: " + strings.Join(names, ", ")
}

func childrenSuggestion() string {
	names := make([]string, len(ChildrenTypes))
	for i, t := range ChildrenTypes {
		names[i] = string(t)
	}
	return "Use one of: " + strings.Join(names, ", ")
}
