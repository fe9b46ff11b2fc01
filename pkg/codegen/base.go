// Package codegen holds the four stateless emitters that lower a validated
// spec to source text: the base engine names the element, the props engine
// renders attributes, the children engine assembles the element body, and
// the styling engine binds design tokens to CSS custom properties.
//
// The engines never validate. They assume the spec already passed every
// validator and return an error wrapping ErrUnrepresentable only for
// shapes that cannot be written as source at all.
package codegen

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
)

// ErrUnrepresentable is returned when a spec cannot be emitted as source.
var ErrUnrepresentable = errors.New("unrepresentable specification")

var tagNamePattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_$]*$`)

// Element is the tag skeleton for one component usage.
type Element struct {
	Name       string
	Attributes []string // rendered attributes, in emission order
}

// OpenTag returns "<Name attrs>".
func (e Element) OpenTag() string {
	return "<" + e.head() + ">"
}

// CloseTag returns "</Name>".
func (e Element) CloseTag() string {
	return "</" + e.Name + ">"
}

// SelfClosingTag returns "<Name attrs />".
func (e Element) SelfClosingTag() string {
	return "<" + e.head() + " />"
}

func (e Element) head() string {
	if len(e.Attributes) == 0 {
		return e.Name
	}
	return e.Name + " " + strings.Join(e.Attributes, " ")
}

// Base is the output of the base engine.
type Base struct {
	Component *registry.ComponentAPI
	Element   Element
	Import    NamedImport
}

// BaseEngine derives the element name and component import.
type BaseEngine struct {
	registry *registry.Registry
}

// NewBaseEngine creates a base engine over reg.
func NewBaseEngine(reg *registry.Registry) *BaseEngine {
	return &BaseEngine{registry: reg}
}

// Build resolves the spec's component to its canonical export name.
func (e *BaseEngine) Build(s *spec.Spec) (Base, error) {
	comp, name, err := e.resolve(s.Component.ID)
	if err != nil {
		return Base{}, err
	}
	return Base{
		Component: comp,
		Element:   Element{Name: name},
		Import:    NamedImport{Name: name, Path: e.registry.ImportPath(comp)},
	}, nil
}

func (e *BaseEngine) resolve(id string) (*registry.ComponentAPI, string, error) {
	comp, ok := e.registry.Lookup(id)
	if !ok {
		return nil, "", fmt.Errorf("%w: component '%s' is not in the registry", ErrUnrepresentable, id)
	}
	if !tagNamePattern.MatchString(comp.ExportName) {
		return nil, "", fmt.Errorf("%w: export name '%s' of component '%s' is not a valid tag name", ErrUnrepresentable, comp.ExportName, id)
	}
	if e.registry.ImportPath(comp) == "" {
		return nil, "", fmt.Errorf("%w: component '%s' has no import path", ErrUnrepresentable, id)
	}
	return comp, comp.ExportName, nil
}
