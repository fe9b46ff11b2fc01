package registry

import (
	"encoding/json"
	"fmt"

	"github.com/gnana997/uigen/pkg/spec"
)

// ChildrenAllowance is a component's children-acceptance policy.
type ChildrenAllowance string

const (
	ChildrenNone ChildrenAllowance = "none"
	ChildrenText ChildrenAllowance = "text"
	ChildrenAny  ChildrenAllowance = "any"
)

// Valid reports whether a is a known policy.
func (a ChildrenAllowance) Valid() bool {
	switch a {
	case ChildrenNone, ChildrenText, ChildrenAny:
		return true
	}
	return false
}

// ChildrenPolicy says which children a component takes.
type ChildrenPolicy struct {
	AllowedTypes ChildrenAllowance `json:"allowed_types"`
	Description  string            `json:"description,omitempty"`
}

// PropMetadata describes one accepted prop.
type PropMetadata struct {
	Name        string
	Type        PropType
	Required    bool
	Default     any // nil when the prop has no default
	Description string
}

// propJSON is the on-disk form of PropMetadata.
type propJSON struct {
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	Values      []string `json:"values,omitempty"`
	Required    bool     `json:"required"`
	Default     any      `json:"default,omitempty"`
	Description string   `json:"description,omitempty"`
}

// UnmarshalJSON decodes a prop and parses its type tag.
func (p *PropMetadata) UnmarshalJSON(data []byte) error {
	var raw propJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	typ, err := ParsePropType(raw.Type, raw.Values)
	if err != nil {
		return fmt.Errorf("prop %q: %w", raw.Name, err)
	}
	def, err := spec.CloneValue(raw.Default)
	if err != nil {
		return fmt.Errorf("prop %q default: %w", raw.Name, err)
	}
	*p = PropMetadata{
		Name:        raw.Name,
		Type:        typ,
		Required:    raw.Required,
		Default:     def,
		Description: raw.Description,
	}
	return nil
}

// MarshalJSON encodes a prop in its on-disk form.
func (p PropMetadata) MarshalJSON() ([]byte, error) {
	raw := propJSON{
		Name:        p.Name,
		Type:        p.Type.String(),
		Values:      p.Type.Values,
		Required:    p.Required,
		Default:     p.Default,
		Description: p.Description,
	}
	return json.Marshal(raw)
}

// ComponentAPI is one capability registry entry. Entries are read-only
// once the registry has been built.
type ComponentAPI struct {
	ID          string         `json:"id"`
	ExportName  string         `json:"export_name"`
	ImportPath  string         `json:"import_path,omitempty"` // overrides Registry.Package
	Description string         `json:"description,omitempty"`
	Props       []PropMetadata `json:"props"`
	Children    ChildrenPolicy `json:"children"`

	propsByName map[string]*PropMetadata
}

// Prop returns the metadata for an accepted prop.
func (c *ComponentAPI) Prop(name string) (*PropMetadata, bool) {
	p, ok := c.propsByName[name]
	return p, ok
}

// AcceptedProps returns accepted prop names in declaration order.
func (c *ComponentAPI) AcceptedProps() []string {
	names := make([]string, len(c.Props))
	for i, p := range c.Props {
		names[i] = p.Name
	}
	return names
}

// RequiredProps returns required prop names in declaration order.
// It is always a subset of AcceptedProps.
func (c *ComponentAPI) RequiredProps() []string {
	var names []string
	for _, p := range c.Props {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

func isObject(v any) bool {
	_, ok := v.(*spec.Object)
	return ok
}
