// Package batch generates components for every spec file under a
// directory tree, in parallel, optionally verifying the emitted code and
// writing it next to a mirrored output tree.
package batch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/parser"
	"github.com/gnana997/uigen/pkg/util"
	"github.com/gnana997/uigen/pkg/verify"
)

// Generator produces a result from raw JSON. Both *generator.Generator and
// *cache.Generator satisfy it.
type Generator interface {
	GenerateJSON(data []byte) *generator.Result
}

// Runner discovers spec files and generates them with a worker pool.
//
// **Three-Phase Pipeline:**
//  1. Discovery - walk the root and match include/exclude patterns
//  2. Generation - read, convert and generate each file on the pool
//  3. Output - verify the code and write it under Options.OutDir
type Runner struct {
	gen      Generator
	verifier *verify.Verifier
	logger   *slog.Logger
}

// NewRunner creates a runner. verifier may be nil to skip verification.
func NewRunner(gen Generator, verifier *verify.Verifier, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = util.NopLogger()
	}
	return &Runner{gen: gen, verifier: verifier, logger: logger}
}

// Run processes every matching file under root. The returned error covers
// discovery failures and cancellation; per-file problems land in Stats.
func (r *Runner) Run(ctx context.Context, root string, opts Options, progress ProgressCallback) (*Stats, error) {
	start := time.Now()
	stats := &Stats{
		StartTime: start,
		Outcomes:  []Outcome{},
		Errors:    []FileError{},
	}

	r.logger.Info("starting batch generation", "root", root, "out_dir", opts.OutDir)

	exclude := append([]string(nil), opts.Exclude...)
	if pattern, ok := outDirPattern(root, opts.OutDir); ok {
		exclude = append(exclude, pattern)
	}

	jobs, err := Discover(root, opts.Include, exclude, r.logger)
	if err != nil {
		return nil, fmt.Errorf("file discovery failed: %w", err)
	}
	stats.FilesDiscovered = len(jobs)
	stats.DiscoveryTimeMs = time.Since(start).Milliseconds()

	if len(jobs) == 0 {
		r.logger.Warn("no spec files found", "root", root)
		stats.EndTime = time.Now()
		stats.TotalTimeMs = time.Since(start).Milliseconds()
		return stats, nil
	}

	err = r.processParallel(ctx, jobs, opts, stats, progress)

	sort.Slice(stats.Outcomes, func(i, j int) bool { return stats.Outcomes[i].Path < stats.Outcomes[j].Path })
	sort.Slice(stats.Errors, func(i, j int) bool { return stats.Errors[i].FilePath < stats.Errors[j].FilePath })
	stats.EndTime = time.Now()
	stats.TotalTimeMs = time.Since(start).Milliseconds()
	if err != nil {
		return stats, err
	}

	r.logger.Info("batch generation complete",
		"files", stats.FilesDiscovered,
		"generated", stats.Generated,
		"failed", stats.Failed,
		"unverified", stats.Unverified,
		"errors", len(stats.Errors),
		"duration_ms", stats.TotalTimeMs)
	return stats, nil
}

func (r *Runner) processParallel(ctx context.Context, jobs []FileJob, opts Options, stats *Stats, progress ProgressCallback) error {
	total := len(jobs)

	pool := NewWorkerPool(ctx, opts.Workers, func(job FileJob) (Outcome, error) {
		return r.ProcessFile(job, opts)
	}, r.logger)
	stats.WorkerCount = pool.numWorkers
	pool.Start()
	defer pool.Stop()

	// The collector must run before submission or a full queue deadlocks.
	done := make(chan struct{})
	go func() {
		defer close(done)
		finished := 0
		for finished < total {
			select {
			case <-ctx.Done():
				return

			case outcome, ok := <-pool.Results():
				if !ok {
					return
				}
				stats.Outcomes = append(stats.Outcomes, outcome)
				switch {
				case !outcome.Result.Success:
					stats.Failed++
				case outcome.Report != nil && !outcome.Report.Valid:
					stats.Generated++
					stats.Unverified++
				default:
					stats.Generated++
				}
				if outcome.Output != "" {
					stats.Written++
				}
				finished++
				if progress != nil {
					progress(finished, total, outcome.Path)
				}

			case fileErr, ok := <-pool.Errors():
				if !ok {
					return
				}
				r.logger.Warn("spec file failed", "file", fileErr.FilePath, "error", fileErr.Error)
				stats.Errors = append(stats.Errors, fileErr)
				finished++
				if progress != nil {
					progress(finished, total, fileErr.FilePath)
				}
			}
		}
	}()

	for _, job := range jobs {
		if err := pool.Submit(job); err != nil {
			break
		}
	}
	pool.FinishSubmitting()
	<-done

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("batch generation cancelled: %w", err)
	}
	return nil
}

// ProcessFile reads, generates, verifies and writes one spec file. It is
// safe for concurrent use.
func (r *Runner) ProcessFile(job FileJob, opts Options) (Outcome, error) {
	data, err := util.ReadFile(job.Path)
	if err != nil {
		return Outcome{}, err
	}
	doc, err := util.ToJSON(data, util.DetectDocumentFormat(job.Path))
	if err != nil {
		return Outcome{}, fmt.Errorf("%s: %w", job.Rel, err)
	}

	outcome := Outcome{Path: job.Rel, Result: r.gen.GenerateJSON(doc)}
	if !outcome.Result.Success {
		return outcome, nil
	}

	if r.verifier != nil {
		report, err := r.verifier.VerifyResult(outcome.Result)
		if err != nil {
			return Outcome{}, fmt.Errorf("%s: %w", job.Rel, err)
		}
		outcome.Report = report
		if report != nil && !report.Valid {
			return outcome, nil
		}
	}

	if opts.OutDir != "" {
		out := filepath.Join(opts.OutDir, filepath.FromSlash(OutputPath(job.Rel, opts.Dialect)))
		if err := writeOutput(out, outcome.Result.Code); err != nil {
			return Outcome{}, err
		}
		outcome.Output = out
	}
	return outcome, nil
}

// OutputPath maps a spec path to its generated file path: the document
// extension and an optional ".uigen" suffix are replaced by the dialect's
// extension.
func OutputPath(rel string, dialect parser.Dialect) string {
	base := strings.TrimSuffix(rel, path.Ext(rel))
	base = strings.TrimSuffix(base, ".uigen")
	return base + dialect.Extension()
}

func writeOutput(out, code string) error {
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(out, []byte(code+"\n"), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", out, err)
	}
	return nil
}

// outDirPattern returns an exclude pattern for outDir when it lies inside
// root.
func outDirPattern(root, outDir string) (string, bool) {
	if outDir == "" {
		return "", false
	}
	rootAbs, err := filepath.Abs(root)
	if err != nil {
		return "", false
	}
	outAbs, err := filepath.Abs(outDir)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(rootAbs, outAbs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel) + "/**", true
}
