package spec

// Level is the severity of an Issue. Only "error" and "warning" exist.
type Level string

const (
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

// Issue is a single structured validation finding.
type Issue struct {
	Level      Level  `json:"level"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Path       string `json:"path,omitempty"` // dotted location in the input, "" for the root
}

// StageResult is the outcome of one pipeline stage.
// Valid is true if and only if Issues contains no error-level issue.
type StageResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues"`
}

// Passed returns the untouched default for a stage: valid, no issues.
func Passed() StageResult {
	return StageResult{Valid: true, Issues: []Issue{}}
}

// NewStageResult derives validity from the given issues.
func NewStageResult(issues []Issue) StageResult {
	if issues == nil {
		issues = []Issue{}
	}
	return StageResult{Valid: !HasErrors(issues), Issues: issues}
}

// Errors returns only the error-level issues.
func (r StageResult) Errors() []Issue {
	var out []Issue
	for _, is := range r.Issues {
		if is.Level == LevelError {
			out = append(out, is)
		}
	}
	return out
}

// HasErrors reports whether any issue is error-level.
func HasErrors(issues []Issue) bool {
	for _, is := range issues {
		if is.Level == LevelError {
			return true
		}
	}
	return false
}

// Collector accumulates issues in evaluation order.
// The zero value is ready to use.
type Collector struct {
	issues []Issue
}

// Error records an error-level issue.
func (c *Collector) Error(path, message, suggestion string) {
	c.issues = append(c.issues, Issue{Level: LevelError, Message: message, Suggestion: suggestion, Path: path})
}

// Warn records a warning-level issue.
func (c *Collector) Warn(path, message, suggestion string) {
	c.issues = append(c.issues, Issue{Level: LevelWarning, Message: message, Suggestion: suggestion, Path: path})
}

// HasErrors reports whether an error-level issue has been recorded.
func (c *Collector) HasErrors() bool {
	return HasErrors(c.issues)
}

// Result returns the collected issues as a StageResult.
func (c *Collector) Result() StageResult {
	return NewStageResult(c.issues)
}
