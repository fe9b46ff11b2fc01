package tokens

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/gnana997/uigen/pkg/spec"
)

// Reference names a family and, optionally, one of its shades.
type Reference struct {
	Family   string `json:"family"`
	Shade    int    `json:"shade,omitempty"`
	HasShade bool   `json:"-"`
}

// String returns the "family-shade" or "family" form.
func (r Reference) String() string {
	if r.HasShade {
		return r.Family + "-" + strconv.Itoa(r.Shade)
	}
	return r.Family
}

// CSSVariable returns the custom property name, e.g. "--accent-500".
func (r Reference) CSSVariable() string {
	return "--" + r.String()
}

// ParseReference interprets a design reference. Accepted forms are an
// object {"family": "accent", "shade": 500}, with shade optional, or a
// string "accent-500" / "accent".
func ParseReference(v any) (Reference, error) {
	if s, ok := v.(string); ok {
		return parseReferenceString(s)
	}

	fields, ok := spec.Fields(v)
	if !ok {
		return Reference{}, fmt.Errorf("%w: expected an object or string, got %s", ErrInvalidReference, spec.KindOf(v))
	}

	rawFamily, ok := spec.Lookup(fields, "family")
	if !ok {
		return Reference{}, fmt.Errorf("%w: missing field 'family'", ErrInvalidReference)
	}
	family, ok := rawFamily.(string)
	if !ok || strings.TrimSpace(family) == "" {
		return Reference{}, fmt.Errorf("%w: field 'family' must be a non-empty string", ErrInvalidReference)
	}
	ref := Reference{Family: family}

	rawShade, ok := spec.Lookup(fields, "shade")
	if !ok || rawShade == nil {
		return ref, nil
	}
	shade, err := shadeValue(rawShade)
	if err != nil {
		return Reference{}, err
	}
	ref.Shade, ref.HasShade = shade, true
	return ref, nil
}

func parseReferenceString(s string) (Reference, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Reference{}, fmt.Errorf("%w: empty reference", ErrInvalidReference)
	}
	if i := strings.LastIndexByte(s, '-'); i > 0 && i < len(s)-1 {
		if shade, err := strconv.Atoi(s[i+1:]); err == nil {
			return Reference{Family: s[:i], Shade: shade, HasShade: true}, nil
		}
	}
	return Reference{Family: s}, nil
}

func shadeValue(v any) (int, error) {
	switch x := v.(type) {
	case float64:
		if x != math.Trunc(x) || x < 0 || x > math.MaxInt32 {
			return 0, fmt.Errorf("%w: shade must be a non-negative integer, got %v", ErrInvalidReference, x)
		}
		return int(x), nil
	case string:
		n, err := strconv.Atoi(x)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: shade must be a non-negative integer, got %q", ErrInvalidReference, x)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: shade must be a number, got %s", ErrInvalidReference, spec.KindOf(v))
}

// Resolved is a reference checked against the registry.
type Resolved struct {
	Reference
	Category   Category
	Variable   string // "--accent-500"
	Stylesheet string // "" when the registry declares none
}

// Var returns the CSS expression that reads the variable.
func (r Resolved) Var() string {
	return "var(" + r.Variable + ")"
}

// Resolve checks ref against the registry.
func (r *Registry) Resolve(ref Reference) (Resolved, error) {
	f, ok := r.Lookup(ref.Family)
	if !ok {
		return Resolved{}, fmt.Errorf("%w: %q", ErrUnknownFamily, ref.Family)
	}
	if ref.HasShade && !f.HasShade(ref.Shade) {
		return Resolved{}, fmt.Errorf("%w: %d is not a valid %s shade", ErrShadeOutOfRange, ref.Shade, f.Name)
	}
	return Resolved{
		Reference:  ref,
		Category:   f.Category,
		Variable:   ref.CSSVariable(),
		Stylesheet: r.StylesheetFor(f),
	}, nil
}

// ResolveIn resolves ref and additionally requires its family to belong
// to category.
func (r *Registry) ResolveIn(ref Reference, category Category) (Resolved, error) {
	res, err := r.Resolve(ref)
	if err != nil {
		return Resolved{}, err
	}
	if res.Category != category {
		return Resolved{}, fmt.Errorf("%w: %q is a %s family, expected %s", ErrCategoryMismatch, ref.Family, res.Category, category)
	}
	return res, nil
}

// ResolveValue parses and resolves a raw reference in one step.
func (r *Registry) ResolveValue(v any) (Resolved, error) {
	ref, err := ParseReference(v)
	if err != nil {
		return Resolved{}, err
	}
	return r.Resolve(ref)
}
