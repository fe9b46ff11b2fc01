package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/render"
	"github.com/gnana997/uigen/pkg/verify"
)

// generateOutput is the structured output of the generate command.
type generateOutput struct {
	*generator.Result
	Verification *verify.Report `json:"verification,omitempty"`
	Output       string         `json:"output,omitempty"`
}

// validateOutput is the structured output of the validate command.
type validateOutput struct {
	Valid       bool                 `json:"valid"`
	FailedStage string               `json:"failed_stage,omitempty"`
	Validation  generator.Validation `json:"validation"`
}

func newGenerateCmd(flags *globalFlags) *cobra.Command {
	var (
		verifyCode bool
		out        string
	)
	cmd := &cobra.Command{
		Use:   "generate [file|-]",
		Short: "Generate component code from a spec",
		Long: `Run the generation pipeline on one spec document.

The spec may be JSON, JSONC or YAML. With no argument or "-" it is read
from standard input. The command exits non-zero when any stage fails or
when --verify finds a problem in the generated code.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := readSpec(cmd.InOrStdin(), firstArg(args))
			if err != nil {
				return err
			}

			res := generateOutput{Result: a.gen.GenerateJSON(doc)}
			if verifyCode && res.Success {
				if res.Verification, err = a.verifier().VerifyResult(res.Result); err != nil {
					return err
				}
			}
			verified := res.Verification == nil || res.Verification.Valid
			if out != "" && res.Success && verified {
				if err := writeCode(out, res.Code); err != nil {
					return err
				}
				res.Output = out
				a.logger.Info("wrote generated code", "path", out)
			}

			if err := writeGenerateOutput(cmd.OutOrStdout(), res, a.settings.Format); err != nil {
				return err
			}
			switch {
			case !res.Success:
				return fmt.Errorf("%w at %s stage", errGenerationFailed, res.FailedStage())
			case !verified:
				return errVerificationFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&verifyCode, "verify", false, "parse the generated code and check its root element and imports")
	cmd.Flags().StringVarP(&out, "out", "o", "", "also write the generated code to this file")
	return cmd
}

func writeGenerateOutput(w io.Writer, res generateOutput, f render.Format) error {
	if f != render.FormatText {
		return render.Write(w, res, f)
	}
	if err := render.Write(w, res.Result, f); err != nil {
		return err
	}
	if res.Verification != nil {
		return render.Write(w, res.Verification, f)
	}
	return nil
}

func newValidateCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file|-]",
		Short: "Validate a spec without printing code",
		Long: `Run the validation stages on one spec document and report the
findings of every stage. The command exits non-zero when the spec is
invalid.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			doc, err := readSpec(cmd.InOrStdin(), firstArg(args))
			if err != nil {
				return err
			}

			result := a.gen.GenerateJSON(doc)
			out := validateOutput{
				Valid:       result.Success,
				FailedStage: result.FailedStage(),
				Validation:  result.Validation,
			}
			if err := render.Write(cmd.OutOrStdout(), out, a.settings.Format); err != nil {
				return err
			}
			if !out.Valid {
				return fmt.Errorf("spec is invalid: %s stage failed", out.FailedStage)
			}
			return nil
		},
	}
}

func writeCode(path, code string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return os.WriteFile(path, []byte(code+"\n"), 0644)
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
