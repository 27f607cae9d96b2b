package decompiler

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// ErrNoSuchFunction means no function symbol matched the requested name.
var ErrNoSuchFunction = errors.New("function not found")

// AmbiguousNameError means the requested name matched more than one function
// symbol. Candidates are listed in symbol-table order; the user must retry
// with a fuller name.
type AmbiguousNameError struct {
	Query      string
	Candidates []string
}

func (e *AmbiguousNameError) Error() string {
	return fmt.Sprintf("ambiguous function name %q matches: %s", e.Query, strings.Join(e.Candidates, ", "))
}

// FailedError means the external decompiler exited non-zero or produced no
// usable output. Output carries the tool's combined diagnostics verbatim.
type FailedError struct {
	Tool   string
	Output string
	Err    error
}

func (e *FailedError) Error() string {
	if len(e.Output) > 0 {
		return fmt.Sprintf("%s failed: %v: %s", e.Tool, e.Err, strings.TrimSpace(e.Output))
	}
	return fmt.Sprintf("%s failed: %v", e.Tool, e.Err)
}

func (e *FailedError) Unwrap() error {
	return e.Err
}
