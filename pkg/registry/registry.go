// Package registry holds the component capability registry: a read-only
// table mapping a component id to the props it accepts and its children
// policy.
package registry

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// Registry is the full capability table. It is built once, at process
// start, and never modified afterwards; all methods are safe for
// concurrent use.
type Registry struct {
	Name       string         `json:"name"`
	Version    string         `json:"version"`
	Package    string         `json:"package"` // default import path for components
	Components []ComponentAPI `json:"components"`

	byID map[string]*ComponentAPI
}

// identifierPattern matches a JavaScript identifier usable as a JSX tag.
var identifierPattern = regexp.MustCompile(`^[A-Z][A-Za-z0-9_$]*$`)

// propNamePattern matches JSX attribute names, including aria-* and data-*.
var propNamePattern = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$-]*$`)

// New validates and indexes a registry assembled in code.
func New(name, version, pkg string, components ...ComponentAPI) (*Registry, error) {
	r := &Registry{Name: name, Version: version, Package: pkg, Components: components}
	if errs := r.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("registry validation failed: %w", errors.Join(errs...))
	}
	r.buildIndex()
	return r, nil
}

// Validate checks the registry for internal consistency.
// Returns a slice of validation errors (empty slice if valid).
func (r *Registry) Validate() []error {
	var errs []error

	if r.Name == "" {
		errs = append(errs, fmt.Errorf("registry name is required"))
	}
	if r.Version == "" {
		errs = append(errs, fmt.Errorf("registry version is required"))
	}
	if r.Package == "" {
		errs = append(errs, fmt.Errorf("registry package is required"))
	}

	ids := make(map[string]bool, len(r.Components))
	for i, comp := range r.Components {
		if comp.ID == "" {
			errs = append(errs, fmt.Errorf("components[%d]: id is required", i))
			continue
		}
		if ids[comp.ID] {
			errs = append(errs, fmt.Errorf("component %q: duplicate id", comp.ID))
			continue
		}
		ids[comp.ID] = true

		if !identifierPattern.MatchString(comp.ExportName) {
			errs = append(errs, fmt.Errorf("component %q: export_name %q is not a valid component identifier", comp.ID, comp.ExportName))
		}
		if !comp.Children.AllowedTypes.Valid() {
			errs = append(errs, fmt.Errorf("component %q: invalid children policy %q (must be none/text/any)", comp.ID, comp.Children.AllowedTypes))
		}

		propNames := make(map[string]bool, len(comp.Props))
		for j, prop := range comp.Props {
			if !propNamePattern.MatchString(prop.Name) {
				errs = append(errs, fmt.Errorf("component %q props[%d]: invalid prop name %q", comp.ID, j, prop.Name))
				continue
			}
			if propNames[prop.Name] {
				errs = append(errs, fmt.Errorf("component %q: duplicate prop %q", comp.ID, prop.Name))
				continue
			}
			propNames[prop.Name] = true

			if prop.Type.Kind == KindEnum && len(prop.Type.Values) == 0 {
				errs = append(errs, fmt.Errorf("component %q prop %q: enum requires values", comp.ID, prop.Name))
			}
			if prop.Type.Kind == KindUnion && len(prop.Type.Members) < 2 {
				errs = append(errs, fmt.Errorf("component %q prop %q: union requires at least two members", comp.ID, prop.Name))
			}
			if prop.Default != nil && !prop.Type.Accepts(prop.Default) {
				errs = append(errs, fmt.Errorf("component %q prop %q: default value does not match type %s", comp.ID, prop.Name, prop.Type))
			}
		}
	}

	return errs
}

// buildIndex creates lookup maps. Should be called after Validate() passes.
func (r *Registry) buildIndex() {
	r.byID = make(map[string]*ComponentAPI, len(r.Components))
	for i := range r.Components {
		comp := &r.Components[i]
		comp.propsByName = make(map[string]*PropMetadata, len(comp.Props))
		for j := range comp.Props {
			comp.propsByName[comp.Props[j].Name] = &comp.Props[j]
		}
		r.byID[comp.ID] = comp
	}
}

// Lookup finds a component by id. Matching is exact and case-sensitive.
func (r *Registry) Lookup(id string) (*ComponentAPI, bool) {
	comp, ok := r.byID[id]
	return comp, ok
}

// IDs returns every component id, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ImportPath returns the module a component is imported from.
func (r *Registry) ImportPath(comp *ComponentAPI) string {
	if comp.ImportPath != "" {
		return comp.ImportPath
	}
	return r.Package
}
