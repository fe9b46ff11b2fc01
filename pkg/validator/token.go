package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/tokens"
)

// TokenValidator resolves design references against a token registry.
type TokenValidator struct {
	tokens *tokens.Registry
}

// NewTokenValidator creates a validator over reg. The registry is only read.
func NewTokenValidator(reg *tokens.Registry) *TokenValidator {
	return &TokenValidator{tokens: reg}
}

// Validate checks every design.colors and design.spacing reference and
// every prop sourced from a design token. A spec without design entries
// is valid.
func (v *TokenValidator) Validate(s *spec.Spec) spec.StageResult {
	var c spec.Collector

	if s.Design != nil {
		for _, b := range s.Design.Colors {
			v.check(&c, "design.colors."+b.Key, b.Key, b.Ref, tokens.CategoryColor)
		}
		for _, b := range s.Design.Spacing {
			v.check(&c, "design.spacing."+b.Key, b.Key, b.Ref, tokens.CategorySpacing)
		}
	}

	for _, p := range s.Props {
		if p.Source == spec.SourceDesignToken {
			v.check(&c, "props."+p.Name+".value", p.Name, p.Value, "")
		}
	}

	return c.Result()
}

// check records at most one issue for a reference. An empty category
// accepts any family.
func (v *TokenValidator) check(c *spec.Collector, path, key string, raw any, category tokens.Category) {
	ref, err := tokens.ParseReference(raw)
	if err != nil {
		example := "accent"
		if names := v.tokens.Names(category); len(names) > 0 {
			example = names[0]
		}
		c.Error(path,
			fmt.Sprintf("Invalid token reference for '%s': %v", key, err),
			fmt.Sprintf(`Use {"family": "%s", "shade": <shade>} or "%s-<shade>"`, example, example))
		return
	}

	if category == "" {
		_, err = v.tokens.Resolve(ref)
	} else {
		_, err = v.tokens.ResolveIn(ref, category)
	}

	switch {
	case err == nil:
	case errors.Is(err, tokens.ErrUnknownFamily):
		c.Error(path,
			fmt.Sprintf("Unknown %stoken family '%s' for '%s'", categoryLabel(category), ref.Family, key),
			fmt.Sprintf("Valid %sfamilies: %s", categoryLabel(category), strings.Join(v.tokens.Names(category), ", ")))
	case errors.Is(err, tokens.ErrShadeOutOfRange):
		family, _ := v.tokens.Lookup(ref.Family)
		c.Error(path,
			fmt.Sprintf("Invalid shade %d for token family '%s'", ref.Shade, ref.Family),
			fmt.Sprintf("Valid shades for %s: %s", family.Name, family.ShadeList()))
	case errors.Is(err, tokens.ErrCategoryMismatch):
		c.Error(path,
			fmt.Sprintf("Token family '%s' cannot be used in %s", ref.Family, strings.TrimSuffix(path, "."+key)),
			fmt.Sprintf("Valid %sfamilies: %s", categoryLabel(category), strings.Join(v.tokens.Names(category), ", ")))
	default:
		c.Error(path, fmt.Sprintf("Token reference for '%s' cannot be resolved: %v", key, err), "")
	}
}

func categoryLabel(category tokens.Category) string {
	if category == "" {
		return ""
	}
	return string(category) + " "
}
