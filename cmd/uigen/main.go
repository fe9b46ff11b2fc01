package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/gnana997/uigen/pkg/render"
)

var version = "0.1.0-dev"

var (
	errGenerationFailed   = errors.New("generation failed")
	errVerificationFailed = errors.New("generated code failed verification")
)

func main() {
	if err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Each call returns an independent
// tree, so tests can execute commands in-process.
func newRootCmd(in io.Reader, out, errOut io.Writer) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "uigen",
		Short: "Validate component specs and generate HeroUI code",
		Long: `uigen turns declarative component specs into HeroUI JSX/TSX.

Every spec goes through the same pipeline: structural validation, the
component API check against the capability registry, the design token
check, and code generation. Findings are reported per stage.

Examples:
  # Generate one component
  uigen generate button.uigen.json

  # Read the spec from standard input and print YAML
  echo '{"component":{"id":"button"}}' | uigen generate - --format yaml

  # Generate every spec under src/ into generated/
  uigen batch src --out generated

  # Serve the pipeline to AI agents over MCP stdio
  uigen serve
`,
		SilenceUsage: true,
	}
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "project config file (default .uigen/config.yaml)")
	pf.StringVar(&flags.registry, "registry", "", "component registry file (default: bundled HeroUI registry)")
	pf.StringVar(&flags.tokens, "tokens", "", "design token file (default: bundled HeroUI tokens)")
	pf.StringVarP(&flags.format, "format", "f", "", fmt.Sprintf("output format %v (default json)", render.Formats))
	pf.StringVar(&flags.dialect, "dialect", "", "generated code dialect: tsx or jsx (default tsx)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newGenerateCmd(flags),
		newValidateCmd(flags),
		newBatchCmd(flags),
		newWatchCmd(flags),
		newServeCmd(flags),
		newComponentsCmd(flags),
		newInspectCmd(flags),
		newTokensCmd(flags),
		newSetupCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "uigen %s\n", version)
		},
	}
}
