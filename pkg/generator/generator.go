// Package generator is the pipeline orchestrator. It runs the structural
// parser, the component API validator, the design token validator and the
// code generation engines in that order, stopping at the first stage that
// reports an error, and always returns a Result.
package generator

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/gnana997/uigen/pkg/codegen"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/tokens"
	"github.com/gnana997/uigen/pkg/util"
	"github.com/gnana997/uigen/pkg/validator"
)

// APIChecker validates a parsed spec against the component registry.
type APIChecker interface {
	Validate(s *spec.Spec) validator.APIReport
}

// TokenChecker validates a parsed spec's design token references.
type TokenChecker interface {
	Validate(s *spec.Spec) spec.StageResult
}

// Generator runs the generation pipeline. It holds no per-call state and
// is safe for concurrent use.
type Generator struct {
	engine string
	api    APIChecker
	tokens TokenChecker

	base     *codegen.BaseEngine
	props    *codegen.PropsEngine
	children *codegen.ChildrenEngine
	styling  *codegen.StylingEngine

	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Generator.
type Option func(*Generator)

// WithClock sets the clock used for Metadata.GeneratedAt.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger for stage transitions.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) { g.logger = logger }
}

// WithAPIChecker replaces the component API validator.
func WithAPIChecker(c APIChecker) Option {
	return func(g *Generator) { g.api = c }
}

// WithTokenChecker replaces the design token validator.
func WithTokenChecker(c TokenChecker) Option {
	return func(g *Generator) { g.tokens = c }
}

// New creates a generator over the given registries, which must not be
// modified afterwards.
func New(reg *registry.Registry, tok *tokens.Registry, opts ...Option) *Generator {
	g := &Generator{
		engine:   EngineID(reg, tok),
		api:      validator.NewAPIValidator(reg),
		tokens:   validator.NewTokenValidator(tok),
		base:     codegen.NewBaseEngine(reg),
		props:    codegen.NewPropsEngine(tok),
		children: codegen.NewChildrenEngine(reg),
		styling:  codegen.NewStylingEngine(tok),
		now:      time.Now,
		logger:   util.NopLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// EngineID identifies the generator and the registries it was built with.
func EngineID(reg *registry.Registry, tok *tokens.Registry) string {
	return fmt.Sprintf("uigen/%s@%s+tokens/%s@%s", reg.Name, reg.Version, tok.Name, tok.Version)
}

// Engine returns the identifier reported in Metadata.Engine.
func (g *Generator) Engine() string {
	return g.engine
}

// Now reads the generator's clock.
func (g *Generator) Now() time.Time {
	return g.now()
}

// Fingerprint hashes input together with the engine identifier.
func (g *Generator) Fingerprint(input any) (string, error) {
	return Fingerprint(g.engine, input)
}

// GenerateJSON decodes data, keeping object key order, and generates.
// Malformed JSON is reported as a spec-stage error.
func (g *Generator) GenerateJSON(data []byte) *Result {
	input, err := spec.Decode(data)
	if err != nil {
		res := g.newResult(g.now())
		res.Validation.Spec = spec.NewStageResult([]spec.Issue{{
			Level:      spec.LevelError,
			Message:    fmt.Sprintf("Specification is not valid JSON: %v", err),
			Suggestion: `Provide a JSON object such as {"component": {"id": "button"}}`,
		}})
		return res
	}
	return g.Generate(input)
}

// Generate runs the pipeline on an untyped input value. It never panics:
// every failure is reported in Result.Validation.
func (g *Generator) Generate(input any) *Result {
	res := g.newResult(g.now())
	if fp, err := g.Fingerprint(input); err == nil {
		res.Metadata.Fingerprint = fp
	}

	// ParseSpec
	s, stage := spec.Parse(input)
	res.Validation.Spec = stage
	g.logStage(StageSpec, "", stage.Valid)
	if !stage.Valid {
		return res
	}
	res.Specification = s
	id := s.Component.ID

	// ValidateAPI
	report := g.api.Validate(s)
	res.Validation.Component = report.Component
	res.Validation.Props = report.Props
	res.Validation.Children = report.Children
	g.logStage(StageComponent, id, report.Valid())
	if !report.Valid() {
		return res
	}

	// ValidateTokens
	res.Validation.Tokens = g.tokens.Validate(s)
	g.logStage(StageTokens, id, res.Validation.Tokens.Valid)
	if !res.Validation.Tokens.Valid {
		return res
	}

	// Generate
	code, imports, err := g.generate(s)
	if err != nil {
		g.logger.Warn("code generation failed", "component", id, "error", err)
		res.Validation.Overall = spec.NewStageResult([]spec.Issue{{
			Level:   spec.LevelError,
			Message: err.Error(),
		}})
		return res
	}
	g.logStage(StageOverall, id, true)

	res.Success = true
	res.Code = code
	res.Imports = imports
	res.Metadata.EstimatedComplexity = EstimateComplexity(s)
	return res
}

func (g *Generator) newResult(at time.Time) *Result {
	return &Result{
		Imports:    []string{},
		Validation: newValidation(),
		Metadata: Metadata{
			GeneratedAt:         at,
			Engine:              g.engine,
			EstimatedComplexity: ComplexitySimple,
		},
	}
}

// generate runs the four engines inside one failure boundary: returned
// errors and panics both come back as err.
func (g *Generator) generate(s *spec.Spec) (code string, imports []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			code, imports = "", nil
			err = fmt.Errorf("code generation failed: %v", r)
		}
	}()

	base, err := g.base.Build(s)
	if err != nil {
		return "", nil, err
	}
	props, err := g.props.Render(s, base.Component)
	if err != nil {
		return "", nil, err
	}
	styling, err := g.styling.Build(s)
	if err != nil {
		return "", nil, err
	}

	el := base.Element
	el.Attributes = append(el.Attributes, props.Attributes...)
	if attr := styling.Attribute(); attr != "" {
		el.Attributes = append(el.Attributes, attr)
	}

	assembled, err := g.children.Assemble(el, s.Children)
	if err != nil {
		return "", nil, err
	}

	propStylesheets := make([]string, len(props.Stylesheets))
	for i, path := range props.Stylesheets {
		propStylesheets[i] = codegen.SideEffectImport(path)
	}
	imports = codegen.MergeImports(
		codegen.ImportLines(append([]codegen.NamedImport{base.Import}, assembled.Imports...)),
		propStylesheets,
		styling.Imports,
	)

	return strings.Join(imports, "\n") + "\n\n" + assembled.Code, imports, nil
}

func (g *Generator) logStage(stage, component string, valid bool) {
	g.logger.Debug("stage complete", "stage", stage, "component", component, "valid", valid)
}
