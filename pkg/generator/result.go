package generator

import (
	"time"

	"github.com/gnana997/uigen/pkg/spec"
)

// Validation holds one StageResult per pipeline stage. Stages after the
// first failing one keep their untouched default.
type Validation struct {
	Spec      spec.StageResult `json:"spec"`
	Component spec.StageResult `json:"component"`
	Props     spec.StageResult `json:"props"`
	Tokens    spec.StageResult `json:"tokens"`
	Children  spec.StageResult `json:"children"`
	Overall   spec.StageResult `json:"overall"`
}

func newValidation() Validation {
	return Validation{
		Spec:      spec.Passed(),
		Component: spec.Passed(),
		Props:     spec.Passed(),
		Tokens:    spec.Passed(),
		Children:  spec.Passed(),
		Overall:   spec.Passed(),
	}
}

// Stages returns the stages in pipeline order with their names.
func (v Validation) Stages() []NamedStage {
	return []NamedStage{
		{Name: StageSpec, Result: v.Spec},
		{Name: StageComponent, Result: v.Component},
		{Name: StageProps, Result: v.Props},
		{Name: StageTokens, Result: v.Tokens},
		{Name: StageChildren, Result: v.Children},
		{Name: StageOverall, Result: v.Overall},
	}
}

// NamedStage pairs a stage name with its result.
type NamedStage struct {
	Name   string
	Result spec.StageResult
}

// Stage names as they appear in the validation report.
const (
	StageSpec      = "spec"
	StageComponent = "component"
	StageProps     = "props"
	StageTokens    = "tokens"
	StageChildren  = "children"
	StageOverall   = "overall"
)

// Complexity is the heuristic size tier of a generated component.
type Complexity string

const (
	ComplexitySimple   Complexity = "simple"
	ComplexityModerate Complexity = "moderate"
	ComplexityComplex  Complexity = "complex"
)

// Metadata describes how and when a result was produced.
type Metadata struct {
	GeneratedAt         time.Time  `json:"generatedAt"`
	Engine              string     `json:"engine"`
	EstimatedComplexity Complexity `json:"estimatedComplexity"`
	Fingerprint         string     `json:"fingerprint,omitempty"`
}

// Result is the outcome of one generation request. When Success is false,
// Code is empty, Imports is empty and Validation explains why.
type Result struct {
	Success       bool       `json:"success"`
	Code          string     `json:"code"`
	Imports       []string   `json:"imports"`
	Specification *spec.Spec `json:"specification"`
	Validation    Validation `json:"validation"`
	Metadata      Metadata   `json:"metadata"`
}

// Issues returns every issue across all stages, in pipeline order.
func (r *Result) Issues() []spec.Issue {
	var out []spec.Issue
	for _, st := range r.Validation.Stages() {
		out = append(out, st.Result.Issues...)
	}
	return out
}

// FailedStage returns the name of the first invalid stage, or "".
func (r *Result) FailedStage() string {
	for _, st := range r.Validation.Stages() {
		if !st.Result.Valid {
			return st.Name
		}
	}
	return ""
}

// Clone returns a copy that shares no slices with r. The specification
// is read-only and stays shared.
func (r *Result) Clone() *Result {
	c := *r
	c.Imports = append([]string{}, r.Imports...)
	c.Validation = Validation{
		Spec:      cloneStage(r.Validation.Spec),
		Component: cloneStage(r.Validation.Component),
		Props:     cloneStage(r.Validation.Props),
		Tokens:    cloneStage(r.Validation.Tokens),
		Children:  cloneStage(r.Validation.Children),
		Overall:   cloneStage(r.Validation.Overall),
	}
	return &c
}

func cloneStage(s spec.StageResult) spec.StageResult {
	return spec.StageResult{Valid: s.Valid, Issues: append([]spec.Issue{}, s.Issues...)}
}
