package generator

import "github.com/gnana997/uigen/pkg/spec"

// Score is the weighted size of a spec: one point per prop, one for
// children (three for complex children), and one per design color or
// spacing entry.
func Score(s *spec.Spec) int {
	score := len(s.Props)
	if s.Children != nil {
		score++
		if s.Children.Type == spec.ChildrenComplex {
			score += 2
		}
	}
	if s.Design != nil {
		score += len(s.Design.Colors) + len(s.Design.Spacing)
	}
	return score
}

// EstimateComplexity maps Score to a tier.
func EstimateComplexity(s *spec.Spec) Complexity {
	switch score := Score(s); {
	case score >= 8:
		return ComplexityComplex
	case score >= 4:
		return ComplexityModerate
	default:
		return ComplexitySimple
	}
}
