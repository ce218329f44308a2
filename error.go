package autopage

import (
	"errors"
	"fmt"
	"strings"

	"lesiw.io/autopage/internal/sh"
)

// PagerError represents a pager process failure.
//
// A PagerError with a non-nil Err and a zero Code means the pager never
// ran: it could not be resolved or failed to start. Use [NotFound] to
// test for that case.
type PagerError struct {
	// Args is the pager command line, if it was resolved.
	Args []string

	// Err is the underlying error.
	Err error

	// Code is the exit code. A value of 0 does not indicate success.
	Code int
}

func (e *PagerError) Error() string {
	var sb strings.Builder
	sb.WriteString("pager")
	if len(e.Args) > 0 {
		sb.WriteString(" " + sh.Join(e.Args))
	}
	sb.WriteString(": ")
	if e.Err != nil {
		sb.WriteString(e.Err.Error())
	} else {
		sb.WriteString(fmt.Sprintf("exit status %d", e.Code))
	}
	return sb.String()
}

func (e *PagerError) Unwrap() error { return e.Err }

// NotFound returns true if err represents a pager that failed to start,
// typically because no pager command could be found.
//
// NotFound uses errors.As to probe the error chain for a PagerError.
// If no PagerError exists in the chain, NotFound returns false.
func NotFound(err error) bool {
	var pe *PagerError
	if !errors.As(err, &pe) {
		return false
	}
	return pe.Err != nil && pe.Code == 0
}

// pagerError wraps a launch or wait error into a PagerError.
// Exit codes are taken from any error in the chain that reports one.
func pagerError(args []string, err error) error {
	if err == nil {
		return nil
	}
	pe := &PagerError{Args: args, Err: err}
	var ec interface{ ExitCode() int }
	if errors.As(err, &ec) {
		pe.Code = ec.ExitCode()
	}
	return pe
}

// ExitError requests termination of the process with a specific code.
//
// Returning an ExitError from a paged scope is the equivalent of calling
// os.Exit(Code) after the pager has been closed: the AutoPager reports
// Code from ExitCode and hands the ExitError back to the caller.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns the requested exit code.
func (e *ExitError) ExitCode() int { return e.Code }

// ConfigError reports an invalid AutoPager configuration.
type ConfigError struct {
	// Option names the offending setting.
	Option string

	// Value is the rejected value.
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("autopage: invalid %s %q", e.Option, e.Value)
}

// EncodingError is returned by writes under the [Strict] error strategy
// when the written bytes are not valid UTF-8.
type EncodingError struct {
	// Offset is the position of the first invalid byte in the write.
	Offset int

	// Byte is the first invalid byte.
	Byte byte
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf(
		"autopage: invalid UTF-8 byte %#x at offset %d", e.Byte, e.Offset,
	)
}
