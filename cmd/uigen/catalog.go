package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gnana997/uigen/pkg/codegen"
	"github.com/gnana997/uigen/pkg/registry"
	"github.com/gnana997/uigen/pkg/render"
	"github.com/gnana997/uigen/pkg/tokens"
)

// componentDetail is the structured output of inspect.
type componentDetail struct {
	*registry.ComponentAPI
	Import string `json:"import"`
}

func newComponentsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the components in the registry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()
			return render.Write(cmd.OutOrStdout(), a.registry, a.settings.Format)
		},
	}
}

func newInspectCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <id>",
		Short: "Show a component's props and children policy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			comp, ok := a.registry.Lookup(args[0])
			if !ok {
				return fmt.Errorf("component not found: %q (available: %s)",
					args[0], strings.Join(a.registry.IDs(), ", "))
			}
			lines := codegen.ImportLines([]codegen.NamedImport{{Name: comp.ExportName, Path: a.registry.ImportPath(comp)}})

			out := cmd.OutOrStdout()
			if a.settings.Format != render.FormatText {
				return render.Write(out, componentDetail{ComponentAPI: comp, Import: lines[0]}, a.settings.Format)
			}
			if err := render.Write(out, comp, a.settings.Format); err != nil {
				return err
			}
			_, err = fmt.Fprintf(out, "  %s\n", lines[0])
			return err
		},
	}
}

func newTokensCmd(flags *globalFlags) *cobra.Command {
	var family, category string
	cmd := &cobra.Command{
		Use:   "tokens",
		Short: "List design token families",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			families, err := selectFamilies(a.tokens, family, tokens.Category(category))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.settings.Format == render.FormatText {
				_, err := fmt.Fprintln(out, render.Families(a.tokens, families))
				return err
			}
			return render.Write(out, families, a.settings.Format)
		},
	}
	cmd.Flags().StringVar(&family, "family", "", "show a single family")
	cmd.Flags().StringVar(&category, "category", "", "filter by category: color or spacing")
	return cmd
}

// selectFamilies applies the --family and --category filters.
func selectFamilies(reg *tokens.Registry, family string, category tokens.Category) ([]tokens.Family, error) {
	if family != "" {
		f, ok := reg.Lookup(family)
		if !ok {
			return nil, fmt.Errorf("token family not found: %q (available: %s)",
				family, strings.Join(reg.Names(""), ", "))
		}
		return []tokens.Family{*f}, nil
	}
	if category != "" && category != tokens.CategoryColor && category != tokens.CategorySpacing {
		return nil, fmt.Errorf("unknown token category %q (must be color or spacing)", category)
	}

	out := []tokens.Family{}
	for _, name := range reg.Names(category) {
		f, _ := reg.Lookup(name)
		out = append(out, *f)
	}
	return out, nil
}
