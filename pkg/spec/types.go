// Package spec defines the component generation specification, the issue
// model shared by every pipeline stage, and the structural validator that
// turns untyped input into a typed Spec.
package spec

import (
	"bytes"
	"encoding/json"
)

// Source says how a prop value is to be interpreted.
type Source string

const (
	SourceLiteral     Source = "literal"
	SourceDesignToken Source = "design-token"
	SourceVariable    Source = "variable"
)

// Sources lists the valid prop sources in display order.
var Sources = []Source{SourceLiteral, SourceDesignToken, SourceVariable}

// Valid reports whether s is one of the known sources.
func (s Source) Valid() bool {
	switch s {
	case SourceLiteral, SourceDesignToken, SourceVariable:
		return true
	}
	return false
}

// ChildrenType is the closed set of children kinds.
type ChildrenType string

const (
	ChildrenText      ChildrenType = "text"
	ChildrenComponent ChildrenType = "component"
	ChildrenSlot      ChildrenType = "slot"
	ChildrenComplex   ChildrenType = "complex"
)

// ChildrenTypes lists the valid children types in display order.
var ChildrenTypes = []ChildrenType{ChildrenText, ChildrenComponent, ChildrenSlot, ChildrenComplex}

// Valid reports whether t is one of the known children types.
func (t ChildrenType) Valid() bool {
	switch t {
	case ChildrenText, ChildrenComponent, ChildrenSlot, ChildrenComplex:
		return true
	}
	return false
}

// ComponentRef identifies the registry entry governing a spec.
type ComponentRef struct {
	ID      string `json:"id"`
	Variant string `json:"variant,omitempty"`
}

// Prop is one supplied prop.
type Prop struct {
	Name   string
	Value  any
	Source Source
}

// Props keeps props in the order they were supplied.
type Props []Prop

// Get returns the prop with the given name.
func (p Props) Get(name string) (Prop, bool) {
	for _, prop := range p {
		if prop.Name == name {
			return prop, true
		}
	}
	return Prop{}, false
}

// MarshalJSON encodes props as an object, preserving order.
func (p Props) MarshalJSON() ([]byte, error) {
	fields := make([]Field, 0, len(p))
	for _, prop := range p {
		fields = append(fields, Field{Key: prop.Name, Value: propJSON{Value: prop.Value, Source: prop.Source}})
	}
	return marshalFields(fields)
}

type propJSON struct {
	Value  any    `json:"value"`
	Source Source `json:"source"`
}

// Children describes the content placed between the element's tags.
type Children struct {
	Type    ChildrenType `json:"type"`
	Content any          `json:"content,omitempty"`
}

// TokenBinding is one design entry: a local key and its token reference.
// Ref is left unresolved; the token validator interprets it.
type TokenBinding struct {
	Key string
	Ref any
}

// TokenBindings keeps design entries in the order they were supplied.
type TokenBindings []TokenBinding

// MarshalJSON encodes the bindings as an object, preserving order.
func (b TokenBindings) MarshalJSON() ([]byte, error) {
	fields := make([]Field, 0, len(b))
	for _, binding := range b {
		fields = append(fields, Field{Key: binding.Key, Value: binding.Ref})
	}
	return marshalFields(fields)
}

// Design holds design-token references for colors and spacing.
type Design struct {
	Colors  TokenBindings `json:"colors,omitempty"`
	Spacing TokenBindings `json:"spacing,omitempty"`
}

// Spec is a structurally valid ComponentGenerationSpec. It is only produced
// by Parse, so downstream stages may assume its invariants: Component.ID is
// non-empty, every prop carries a valid Source, and Children.Type is valid.
type Spec struct {
	Component ComponentRef `json:"component"`
	Props     Props        `json:"props,omitempty"`
	Children  *Children    `json:"children,omitempty"`
	Design    *Design      `json:"design,omitempty"`
	Metadata  any          `json:"metadata,omitempty"`
}

func marshalFields(fields []Field) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(f.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
