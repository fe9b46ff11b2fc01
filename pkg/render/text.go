package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/spec"
	"github.com/gnana997/uigen/pkg/tokens"
	"github.com/gnana997/uigen/pkg/verify"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	failStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	codeStyle    = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderLeft(true).PaddingLeft(1)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Italic(true)
	requiredMark = warnStyle.Render("*")
)

func text(v any) ([]byte, error) {
	var out string
	switch v := v.(type) {
	case *generator.Result:
		out = Result(v)
	case *verify.Report:
		out = Report(v)
	case *registry.Registry:
		out = Components(v)
	case *registry.ComponentAPI:
		out = Component(v)
	case *tokens.Registry:
		out = Families(v, v.Families)
	default:
		return YAML(v)
	}
	return []byte(out + "\n"), nil
}

// Result renders a generation result for a terminal.
func Result(r *generator.Result) string {
	var b strings.Builder
	name := "component"
	if r.Specification != nil {
		name = r.Specification.Component.ID
	}

	if r.Success {
		b.WriteString(okStyle.Render("✓ Generated " + name))
	} else {
		b.WriteString(failStyle.Render(fmt.Sprintf("✗ Generation failed at %s stage", r.FailedStage())))
	}
	b.WriteString("\n")
	b.WriteString(labelStyle.Render(fmt.Sprintf("engine %s · complexity %s",
		r.Metadata.Engine, r.Metadata.EstimatedComplexity)))
	b.WriteString("\n")

	if r.Code != "" {
		b.WriteString("\n")
		b.WriteString(codeStyle.Render(r.Code))
		b.WriteString("\n")
	}

	for _, st := range r.Validation.Stages() {
		if len(st.Result.Issues) == 0 {
			continue
		}
		b.WriteString("\n")
		b.WriteString(headerStyle.Render(st.Name))
		b.WriteString("\n")
		writeIssues(&b, st.Result.Issues)
	}
	return strings.TrimRight(b.String(), "\n")
}

// Report renders a verification report.
func Report(r *verify.Report) string {
	var b strings.Builder
	if r.Valid {
		b.WriteString(okStyle.Render("✓ Code verified as " + r.Dialect))
	} else {
		b.WriteString(failStyle.Render("✗ Code failed verification as " + r.Dialect))
	}
	b.WriteString("\n")
	for _, c := range r.Summary.Components {
		fmt.Fprintf(&b, "  %s %s", labelStyle.Render(fmt.Sprintf("%3d", c.Line)), c.Name)
		if len(c.Props) > 0 {
			fmt.Fprintf(&b, " %s", labelStyle.Render(strings.Join(c.Props, " ")))
		}
		b.WriteString("\n")
	}
	writeIssues(&b, r.Issues)
	return strings.TrimRight(b.String(), "\n")
}

func writeIssues(b *strings.Builder, issues []spec.Issue) {
	for _, is := range issues {
		marker := failStyle.Render("error")
		if is.Level == spec.LevelWarning {
			marker = warnStyle.Render("warning")
		}
		fmt.Fprintf(b, "  %s %s", marker, is.Message)
		if is.Path != "" {
			fmt.Fprintf(b, " %s", labelStyle.Render("("+is.Path+")"))
		}
		b.WriteString("\n")
		if is.Suggestion != "" {
			fmt.Fprintf(b, "    %s\n", hintStyle.Render(is.Suggestion))
		}
	}
}

// Components renders the registry's component ids with a description.
func Components(reg *registry.Registry) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s (%s)", reg.Name, reg.Version, reg.Package)))
	b.WriteString("\n")
	for _, id := range reg.IDs() {
		comp, _ := reg.Lookup(id)
		fmt.Fprintf(&b, "  %-12s %s\n", id, labelStyle.Render(comp.Description))
	}
	return strings.TrimRight(b.String(), "\n")
}

// Component renders one component's props and children policy.
func Component(c *registry.ComponentAPI) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(c.ExportName))
	if c.Description != "" {
		b.WriteString(" " + labelStyle.Render(c.Description))
	}
	b.WriteString("\n")
	for _, p := range c.Props {
		mark := " "
		if p.Required {
			mark = requiredMark
		}
		fmt.Fprintf(&b, "  %s %-14s %s", mark, p.Name, p.Type.String())
		if p.Default != nil {
			def, err := json.Marshal(p.Default)
			if err == nil {
				fmt.Fprintf(&b, " %s", labelStyle.Render("= "+string(def)))
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "  children: %s\n", c.Children.AllowedTypes)
	return strings.TrimRight(b.String(), "\n")
}

// Families renders token families with their shades.
func Families(reg *tokens.Registry, families []tokens.Family) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("%s %s", reg.Name, reg.Version)))
	b.WriteString("\n")
	for i := range families {
		f := &families[i]
		fmt.Fprintf(&b, "  %-12s %-8s %s\n", f.Name, f.Category, labelStyle.Render(f.ShadeList()))
	}
	return strings.TrimRight(b.String(), "\n")
}
