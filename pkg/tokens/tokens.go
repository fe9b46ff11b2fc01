// Package tokens holds the design token registry: named color and spacing
// families, each with an enumerated set of valid shades, and the rules for
// resolving a token reference to a CSS custom property.
package tokens

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ErrUnknownFamily    = errors.New("unknown token family")
	ErrShadeOutOfRange  = errors.New("shade out of range")
	ErrInvalidReference = errors.New("invalid token reference")
	ErrCategoryMismatch = errors.New("token family category mismatch")
)

// Category groups families by what they style.
type Category string

const (
	CategoryColor   Category = "color"
	CategorySpacing Category = "spacing"
)

// Family is one token family and its valid shades.
type Family struct {
	Name       string   `json:"name"`
	Category   Category `json:"category"`
	Shades     []int    `json:"shades"`
	Stylesheet string   `json:"stylesheet,omitempty"` // overrides Registry.Stylesheet
}

// HasShade reports whether shade is one of the family's shades.
func (f *Family) HasShade(shade int) bool {
	for _, s := range f.Shades {
		if s == shade {
			return true
		}
	}
	return false
}

// ShadeList renders the valid shades as "50, 100, 200".
func (f *Family) ShadeList() string {
	parts := make([]string, len(f.Shades))
	for i, s := range f.Shades {
		parts[i] = strconv.Itoa(s)
	}
	return strings.Join(parts, ", ")
}

// Registry is the token table. Like the component registry it is built
// once and only read afterwards.
type Registry struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Stylesheet string   `json:"stylesheet,omitempty"` // import that defines the CSS variables
	Families   []Family `json:"families"`

	byName map[string]*Family
}

// familyPattern rejects names ending in "-<digits>", which would be
// ambiguous in the "family-shade" string form.
var familyPattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z][a-z0-9]*)*$`)

// New validates and indexes a token registry assembled in code.
func New(name, version, stylesheet string, families ...Family) (*Registry, error) {
	r := &Registry{Name: name, Version: version, Stylesheet: stylesheet, Families: families}
	if errs := r.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("token registry validation failed: %w", errors.Join(errs...))
	}
	r.buildIndex()
	return r, nil
}

// Validate checks the registry for internal consistency.
func (r *Registry) Validate() []error {
	var errs []error
	if r.Name == "" {
		errs = append(errs, fmt.Errorf("token registry name is required"))
	}
	if r.Version == "" {
		errs = append(errs, fmt.Errorf("token registry version is required"))
	}

	seen := make(map[string]bool, len(r.Families))
	for i, f := range r.Families {
		if !familyPattern.MatchString(f.Name) {
			errs = append(errs, fmt.Errorf("families[%d]: invalid family name %q", i, f.Name))
			continue
		}
		if seen[f.Name] {
			errs = append(errs, fmt.Errorf("family %q: duplicate name", f.Name))
			continue
		}
		seen[f.Name] = true

		if f.Category != CategoryColor && f.Category != CategorySpacing {
			errs = append(errs, fmt.Errorf("family %q: invalid category %q (must be color/spacing)", f.Name, f.Category))
		}
		shades := make(map[int]bool, len(f.Shades))
		for _, s := range f.Shades {
			if s < 0 {
				errs = append(errs, fmt.Errorf("family %q: negative shade %d", f.Name, s))
			}
			if shades[s] {
				errs = append(errs, fmt.Errorf("family %q: duplicate shade %d", f.Name, s))
			}
			shades[s] = true
		}
	}
	return errs
}

func (r *Registry) buildIndex() {
	r.byName = make(map[string]*Family, len(r.Families))
	for i := range r.Families {
		r.byName[r.Families[i].Name] = &r.Families[i]
	}
}

// Lookup finds a family by exact name.
func (r *Registry) Lookup(name string) (*Family, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Names returns family names in declaration order, optionally restricted
// to one category. An empty category matches all families.
func (r *Registry) Names(category Category) []string {
	var names []string
	for _, f := range r.Families {
		if category == "" || f.Category == category {
			names = append(names, f.Name)
		}
	}
	return names
}

// StylesheetFor returns the import that defines a family's variables.
func (r *Registry) StylesheetFor(f *Family) string {
	if f.Stylesheet != "" {
		return f.Stylesheet
	}
	return r.Stylesheet
}

// Stylesheets returns every distinct non-empty stylesheet, sorted.
func (r *Registry) Stylesheets() []string {
	set := make(map[string]bool)
	for i := range r.Families {
		if s := r.StylesheetFor(&r.Families[i]); s != "" {
			set[s] = true
		}
	}
	out := make([]string, 0, len(set))
	for s := range set {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
