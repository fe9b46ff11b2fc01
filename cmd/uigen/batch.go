package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gnana997/uigen/pkg/batch"
	"github.com/gnana997/uigen/pkg/render"
	"github.com/gnana997/uigen/pkg/verify"
	"github.com/gnana997/uigen/pkg/watch"
)

// batchFlags are shared by batch and watch.
type batchFlags struct {
	include    []string
	exclude    []string
	out        string
	workers    int
	verifyCode bool
}

func (f *batchFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringSliceVar(&f.include, "include", nil, "doublestar patterns selecting spec files (default **/*.uigen.{json,jsonc,yaml,yml})")
	cmd.Flags().StringSliceVar(&f.exclude, "exclude", nil, "doublestar patterns to skip, added to the defaults")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "directory receiving generated files (default: output_dir from config)")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "worker count (0 = auto-detect)")
	cmd.Flags().BoolVar(&f.verifyCode, "verify", false, "verify generated code before writing it")
}

func (f *batchFlags) options(s settings) batch.Options {
	opts := batch.DefaultOptions()
	if len(f.include) > 0 {
		opts.Include = f.include
	}
	opts.Exclude = append(opts.Exclude, f.exclude...)
	opts.OutDir = firstNonEmpty(f.out, s.OutputDir)
	opts.Workers = f.workers
	opts.Dialect = s.Dialect
	return opts
}

func (f *batchFlags) runner(a *app) *batch.Runner {
	var v *verify.Verifier
	if f.verifyCode {
		v = a.verifier()
	}
	return batch.NewRunner(a.gen, v, a.logger)
}

func newBatchCmd(flags *globalFlags) *cobra.Command {
	bf := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "batch [dir]",
		Short: "Generate every spec file under a directory",
		Long: `Discover spec files under dir (default: current directory) and run
the pipeline on each with a worker pool. With --out, generated code is
written to a tree mirroring the input, one .tsx or .jsx file per spec.

Examples:
  uigen batch src --out generated --verify
  uigen batch . --include 'forms/**/*.yaml' --exclude '**/drafts/**'
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			root := firstNonEmpty(firstArg(args), ".")
			stats, err := bf.runner(a).Run(cmd.Context(), root, bf.options(a.settings), nil)
			if err != nil {
				return err
			}

			if err := writeBatchOutput(cmd.OutOrStdout(), stats, a.settings.Format); err != nil {
				return err
			}
			if !stats.OK() {
				return fmt.Errorf("%d of %d spec files did not generate cleanly",
					stats.Failed+stats.Unverified+len(stats.Errors), stats.FilesDiscovered)
			}
			return nil
		},
	}
	bf.register(cmd)
	return cmd
}

func writeBatchOutput(w io.Writer, stats *batch.Stats, f render.Format) error {
	if f != render.FormatText {
		return render.Write(w, stats, f)
	}
	for _, o := range stats.Outcomes {
		writeOutcomeLine(w, o)
	}
	for _, e := range stats.Errors {
		fmt.Fprintf(w, "! %s: %s\n", e.FilePath, e.Message)
	}
	fmt.Fprintf(w, "%d files, %d generated, %d failed, %d unverified, %d written (%d workers, %dms)\n",
		stats.FilesDiscovered, stats.Generated, stats.Failed, stats.Unverified,
		stats.Written, stats.WorkerCount, stats.TotalTimeMs)
	return nil
}

func writeOutcomeLine(w io.Writer, o batch.Outcome) {
	switch {
	case !o.Result.Success:
		fmt.Fprintf(w, "✗ %s: %s stage failed\n", o.Path, o.Result.FailedStage())
	case o.Report != nil && !o.Report.Valid:
		fmt.Fprintf(w, "✗ %s: verification failed\n", o.Path)
	case o.Output != "":
		fmt.Fprintf(w, "✓ %s -> %s\n", o.Path, o.Output)
	default:
		fmt.Fprintf(w, "✓ %s\n", o.Path)
	}
}

func newWatchCmd(flags *globalFlags) *cobra.Command {
	bf := &batchFlags{}
	cmd := &cobra.Command{
		Use:   "watch [dir]",
		Short: "Regenerate spec files as they change",
		Long: `Generate every spec under dir once, then watch the tree and
regenerate each spec file when it is written. Removing a spec removes
its generated file. Stop with Ctrl-C.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			root := firstNonEmpty(firstArg(args), ".")
			opts := bf.options(a.settings)
			runner := bf.runner(a)

			stats, err := runner.Run(ctx, root, opts, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, o := range stats.Outcomes {
				writeOutcomeLine(out, o)
			}

			var mu sync.Mutex
			w, err := watch.New(runner, root, watch.Options{Batch: opts}, func(ev watch.Event) {
				mu.Lock()
				defer mu.Unlock()
				switch {
				case ev.Err != nil:
					fmt.Fprintf(out, "! %s: %v\n", ev.Path, ev.Err)
				case ev.Removed:
					fmt.Fprintf(out, "- %s\n", ev.Path)
				case ev.Outcome != nil:
					writeOutcomeLine(out, *ev.Outcome)
				}
			}, a.logger)
			if err != nil {
				return err
			}
			if err := w.Start(); err != nil {
				return err
			}
			a.logger.Info("watching for spec changes", "root", root, "out_dir", opts.OutDir)

			<-ctx.Done()
			return w.Stop()
		},
	}
	bf.register(cmd)
	return cmd
}
