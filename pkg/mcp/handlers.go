package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/gnana997/uigen/pkg/codegen"
	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/render"
	"github.com/gnana997/uigen/pkg/tokens"
	"github.com/gnana997/uigen/pkg/verify"
)

// generateResponse is the generate_component payload.
type generateResponse struct {
	*generator.Result
	Verification *verify.Report `json:"verification,omitempty"`
}

// validateResponse is the validate_spec payload.
type validateResponse struct {
	Valid       bool                 `json:"valid"`
	FailedStage string               `json:"failed_stage,omitempty"`
	Validation  generator.Validation `json:"validation"`
}

// componentSummary is one list_components entry.
type componentSummary struct {
	ID            string   `json:"id"`
	ExportName    string   `json:"export_name"`
	ImportPath    string   `json:"import_path"`
	Description   string   `json:"description,omitempty"`
	RequiredProps []string `json:"required_props"`
	Children      string   `json:"children"`
}

// componentDetail is the get_component_api payload.
type componentDetail struct {
	*registry.ComponentAPI
	Import string `json:"import"`
}

// tokenFamily is one get_tokens entry.
type tokenFamily struct {
	Name       string `json:"name"`
	Category   string `json:"category"`
	Shades     []int  `json:"shades"`
	Stylesheet string `json:"stylesheet,omitempty"`
	Example    string `json:"example"` // a valid reference string
}

func (s *Server) handleGenerateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, errResult := s.runSpec(req)
	if errResult != nil {
		return errResult, nil
	}

	resp := generateResponse{Result: result}
	if req.GetBool("verify", false) && s.verifier != nil && result.Success {
		report, err := s.verifier.VerifyResult(result)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("verification failed: %v", err)), nil
		}
		resp.Verification = report
	}
	return jsonResult(resp)
}

func (s *Server) handleValidateSpec(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	result, errResult := s.runSpec(req)
	if errResult != nil {
		return errResult, nil
	}
	return jsonResult(validateResponse{
		Valid:       result.Success,
		FailedStage: result.FailedStage(),
		Validation:  result.Validation,
	})
}

// runSpec generates from the spec argument. A JSON string keeps its key
// order; an object argument arrives as a Go map and its keys are sorted.
func (s *Server) runSpec(req mcp.CallToolRequest) (*generator.Result, *mcp.CallToolResult) {
	raw, ok := req.GetArguments()["spec"]
	if !ok || raw == nil {
		return nil, mcp.NewToolResultError("spec is required")
	}
	switch v := raw.(type) {
	case string:
		if strings.TrimSpace(v) == "" {
			return nil, mcp.NewToolResultError("spec is required")
		}
		return s.gen.GenerateJSON([]byte(v)), nil
	default:
		return s.gen.Generate(v), nil
	}
}

func (s *Server) handleListComponents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids := s.registry.IDs()
	out := make([]componentSummary, 0, len(ids))
	for _, id := range ids {
		comp, _ := s.registry.Lookup(id)
		required := comp.RequiredProps()
		if required == nil {
			required = []string{}
		}
		out = append(out, componentSummary{
			ID:            comp.ID,
			ExportName:    comp.ExportName,
			ImportPath:    s.registry.ImportPath(comp),
			Description:   comp.Description,
			RequiredProps: required,
			Children:      string(comp.Children.AllowedTypes),
		})
	}
	return jsonResult(out)
}

func (s *Server) handleGetComponentAPI(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	comp, ok := s.registry.Lookup(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("component not found: %q (available: %s)",
			id, strings.Join(s.registry.IDs(), ", "))), nil
	}

	lines := codegen.ImportLines([]codegen.NamedImport{{Name: comp.ExportName, Path: s.registry.ImportPath(comp)}})
	return jsonResult(componentDetail{ComponentAPI: comp, Import: lines[0]})
}

func (s *Server) handleGetTokens(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if name := req.GetString("family", ""); name != "" {
		fam, ok := s.tokens.Lookup(name)
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("token family not found: %q (available: %s)",
				name, strings.Join(s.tokens.Names(""), ", "))), nil
		}
		return jsonResult(s.family(fam))
	}

	category := tokens.Category(req.GetString("category", ""))
	if category != "" && category != tokens.CategoryColor && category != tokens.CategorySpacing {
		return mcp.NewToolResultError(fmt.Sprintf("unknown token category %q", category)), nil
	}

	names := s.tokens.Names(category)
	out := make([]tokenFamily, 0, len(names))
	for _, name := range names {
		fam, _ := s.tokens.Lookup(name)
		out = append(out, s.family(fam))
	}
	return jsonResult(out)
}

func (s *Server) family(f *tokens.Family) tokenFamily {
	example := tokens.Reference{Family: f.Name}
	if len(f.Shades) > 0 {
		example.Shade, example.HasShade = f.Shades[len(f.Shades)/2], true
	}
	return tokenFamily{
		Name:       f.Name,
		Category:   string(f.Category),
		Shades:     f.Shades,
		Stylesheet: s.tokens.StylesheetFor(f),
		Example:    example.String(),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := render.JSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
