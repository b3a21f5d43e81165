package query

import (
	"fmt"
	"strings"
	"time"
)

// Status classifies the outcome of a single query.
type Status string

const (
	// StatusOK means the query completed and produced output.
	StatusOK Status = "ok"
	// StatusFailed means the query errored (non-zero exit, API error, or
	// missing capability). The captured diagnostic output is preserved.
	StatusFailed Status = "failed"
	// StatusTimeout means the query exceeded its deadline.
	StatusTimeout Status = "timeout"
)

// Result is the outcome of one read-only cluster query. Failure is a value
// carried to the caller, never a raised error: every query result is captured
// and classified locally so partial collection can continue.
type Result struct {
	// Command is the human-readable form of what was executed.
	Command string
	// Output is the captured combined output (stdout and stderr for exec
	// queries, rendered bytes for API queries). Populated on failure too,
	// with whatever diagnostic output the query produced.
	Output []byte
	// Err is the failure cause, nil on success.
	Err error
	// TimedOut marks results that failed due to the per-query deadline.
	TimedOut bool
	// Duration is the wall time the query took.
	Duration time.Duration
}

// OK reports whether the query succeeded. An empty output with no error is
// still a success: "no data" and "query failed" are distinct outcomes.
func (r Result) OK() bool {
	return r.Err == nil
}

// Status returns the classification of this result.
func (r Result) Status() Status {
	switch {
	case r.TimedOut:
		return StatusTimeout
	case r.Err != nil:
		return StatusFailed
	default:
		return StatusOK
	}
}

// Body returns the bytes to persist for this result. Failed queries yield
// their captured output when present, otherwise a diagnostic block, so the
// destination file always documents what happened.
func (r Result) Body() []byte {
	if r.OK() || len(r.Output) > 0 {
		return r.Output
	}
	var b strings.Builder
	fmt.Fprintf(&b, "query failed: %s\n", r.Command)
	fmt.Fprintf(&b, "status: %s\n", r.Status())
	fmt.Fprintf(&b, "error: %v\n", r.Err)
	return []byte(b.String())
}

// Failed builds a failed Result for queries that never executed, such as API
// calls rejected client-side.
func Failed(command string, err error) Result {
	return Result{Command: command, Err: err}
}

// Captured builds a Result from rendered bytes and an optional error, used by
// client-go backed queries where there is no process exit status.
func Captured(command string, output []byte, err error) Result {
	return Result{Command: command, Output: output, Err: err}
}
