package autopage

import (
	"errors"
	"io"
	"os"

	"lesiw.io/prefix"
)

var (
	// Trace receives the command line of every pager launched.
	Trace = io.Discard

	// ShTrace is a ready-made Trace destination that prints pager
	// command lines to standard error, shell style.
	ShTrace = prefix.NewWriter("+ ", stderr)

	// Stdout is the process-wide text stream over standard output.
	//
	// An AutoPager constructed without an explicit output stream uses the
	// value of Stdout at construction time. Reconfiguring that AutoPager
	// reconfigures Stdout itself, which affects every other writer of the
	// same stream.
	Stdout = NewStream(os.Stdout)

	stderr io.Writer = os.Stderr
)

var (
	// ErrClosed is returned when writing to or flushing a closed stream.
	ErrClosed = errors.New("autopage: write to closed stream")

	// ErrInterrupted is returned by writes to a pager stream after the
	// process received an interrupt (SIGINT).
	ErrInterrupted = errors.New("autopage: interrupted")

	// ErrReentered is returned by Enter on an AutoPager that has already
	// been entered.
	ErrReentered = errors.New("autopage: pager already entered")

	// ErrNotOpen is returned by Exit on an AutoPager that is not open.
	ErrNotOpen = errors.New("autopage: pager not open")

	errNoOutcome = errors.New("autopage: unspecified failure")
)
