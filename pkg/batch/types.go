package batch

import (
	"time"

	"github.com/gnana997/uigen/pkg/generator"
	"github.com/gnana997/uigen/pkg/parser"
	"github.com/gnana997/uigen/pkg/verify"
)

// Options configures a batch run.
type Options struct {
	// Include are doublestar patterns, relative to the root, selecting spec
	// files. Empty means DefaultInclude.
	Include []string

	// Exclude are doublestar patterns for files and directories to skip.
	Exclude []string

	// OutDir receives one generated file per successful spec, mirroring the
	// input tree. Empty disables writing.
	OutDir string

	// Workers is the worker count (0 = auto-detect).
	Workers int

	// Dialect selects the output extension and verification grammar.
	Dialect parser.Dialect
}

// DefaultInclude matches spec documents in any supported encoding.
var DefaultInclude = []string{
	"**/*.uigen.json",
	"**/*.uigen.jsonc",
	"**/*.uigen.yaml",
	"**/*.uigen.yml",
}

// DefaultExclude skips dependency and VCS directories.
var DefaultExclude = []string{
	"**/node_modules/**",
	"**/.git/**",
}

// DefaultOptions returns options with the default patterns.
func DefaultOptions() Options {
	return Options{
		Include: append([]string(nil), DefaultInclude...),
		Exclude: append([]string(nil), DefaultExclude...),
		Dialect: parser.DialectTSX,
	}
}

// FileJob is one spec file queued for generation.
type FileJob struct {
	Path  string // absolute or root-joined path
	Rel   string // slash-separated path relative to the root
	JobID int
}

// Outcome is the result of one spec file.
type Outcome struct {
	Path   string            `json:"path"`
	Output string            `json:"output,omitempty"` // written file, "" when nothing was written
	Result *generator.Result `json:"result"`
	Report *verify.Report    `json:"verification,omitempty"`
	JobID  int               `json:"-"`
}

// FileError records a file that could not be processed at all.
type FileError struct {
	FilePath string `json:"path"`
	Error    error  `json:"-"`
	Message  string `json:"error"`
}

// ProgressCallback is called after each file with the number of files done.
type ProgressCallback func(done, total int, path string)

// Stats summarizes a batch run.
type Stats struct {
	FilesDiscovered int         `json:"files_discovered"`
	Generated       int         `json:"generated"`
	Failed          int         `json:"failed"`     // generation unsuccessful
	Unverified      int         `json:"unverified"` // generated but failed verification
	Written         int         `json:"written"`
	WorkerCount     int         `json:"worker_count"`
	Outcomes        []Outcome   `json:"outcomes"`
	Errors          []FileError `json:"errors"`

	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	DiscoveryTimeMs int64     `json:"discovery_time_ms"`
	TotalTimeMs     int64     `json:"total_time_ms"`
}

// OK reports whether every file generated, verified and was written.
func (s *Stats) OK() bool {
	return s.Failed == 0 && s.Unverified == 0 && len(s.Errors) == 0
}
