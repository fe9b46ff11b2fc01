package registry

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPropType is returned for type tags that do not name a PropKind.
var ErrInvalidPropType = errors.New("invalid prop type")

// PropKind is the closed set of prop type tags.
type PropKind int

const (
	KindString PropKind = iota
	KindNumber
	KindBoolean
	KindFunction
	KindNode
	KindObject
	KindEnum
	KindUnion
)

var kindNames = map[PropKind]string{
	KindString:   "string",
	KindNumber:   "number",
	KindBoolean:  "boolean",
	KindFunction: "function",
	KindNode:     "node",
	KindObject:   "object",
	KindEnum:     "enum",
	KindUnion:    "union",
}

// String returns the tag for k.
func (k PropKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("PropKind(%d)", int(k))
}

// primitiveKinds are the kinds allowed as union members.
var primitiveKinds = map[string]PropKind{
	"string":   KindString,
	"number":   KindNumber,
	"boolean":  KindBoolean,
	"function": KindFunction,
	"node":     KindNode,
	"object":   KindObject,
}

// PropType is a tagged union describing the values a prop accepts.
// Values is set only for KindEnum and Members only for KindUnion.
type PropType struct {
	Kind    PropKind
	Values  []string
	Members []PropType
}

// ParsePropType builds a PropType from a registry type tag such as
// "boolean", "string|number" or "enum". A non-empty values list always
// yields an enumeration, whatever the tag.
func ParsePropType(tag string, values []string) (PropType, error) {
	tag = strings.TrimSpace(tag)
	if len(values) > 0 {
		if tag != "enum" && tag != "string" {
			return PropType{}, fmt.Errorf("%w: %q cannot declare values", ErrInvalidPropType, tag)
		}
		return PropType{Kind: KindEnum, Values: append([]string(nil), values...)}, nil
	}
	if tag == "enum" {
		return PropType{}, fmt.Errorf("%w: enum requires values", ErrInvalidPropType)
	}

	if strings.Contains(tag, "|") {
		parts := strings.Split(tag, "|")
		members := make([]PropType, 0, len(parts))
		for _, part := range parts {
			kind, ok := primitiveKinds[strings.TrimSpace(part)]
			if !ok {
				return PropType{}, fmt.Errorf("%w: unknown union member %q in %q", ErrInvalidPropType, strings.TrimSpace(part), tag)
			}
			members = append(members, PropType{Kind: kind})
		}
		return PropType{Kind: KindUnion, Members: members}, nil
	}

	kind, ok := primitiveKinds[tag]
	if !ok {
		return PropType{}, fmt.Errorf("%w: %q", ErrInvalidPropType, tag)
	}
	return PropType{Kind: kind}, nil
}

// String returns the registry tag for t.
func (t PropType) String() string {
	switch t.Kind {
	case KindUnion:
		names := make([]string, len(t.Members))
		for i, m := range t.Members {
			names[i] = m.String()
		}
		return strings.Join(names, "|")
	default:
		return t.Kind.String()
	}
}

// Accepts reports whether value, drawn from the canonical value domain
// (nil, bool, string, float64, []any, *spec.Object), fits the type.
// Function props cannot be executed, so any string of source text is
// accepted structurally.
func (t PropType) Accepts(value any) bool {
	switch t.Kind {
	case KindString:
		_, ok := value.(string)
		return ok
	case KindNumber:
		_, ok := value.(float64)
		return ok
	case KindBoolean:
		_, ok := value.(bool)
		return ok
	case KindFunction:
		s, ok := value.(string)
		return ok && strings.TrimSpace(s) != ""
	case KindNode:
		switch value.(type) {
		case string, float64:
			return true
		}
		return false
	case KindObject:
		return isObject(value)
	case KindEnum:
		s, ok := value.(string)
		if !ok {
			return false
		}
		for _, allowed := range t.Values {
			if s == allowed {
				return true
			}
		}
		return false
	case KindUnion:
		for _, m := range t.Members {
			if m.Accepts(value) {
				return true
			}
		}
		return false
	}
	return false
}

// AcceptsString reports whether every string fits t. A design-token prop
// renders as a CSS variable string, so only these types can take one.
func (t PropType) AcceptsString() bool {
	switch t.Kind {
	case KindString, KindNode:
		return true
	case KindUnion:
		for _, m := range t.Members {
			if m.AcceptsString() {
				return true
			}
		}
	}
	return false
}
