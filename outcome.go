package autopage

import (
	"errors"
	"fmt"
)

type outcomeKind uint8

const (
	okOutcome outcomeKind = iota
	interruptedOutcome
	brokenPipeOutcome
	exitOutcome
	failedOutcome
)

// An Outcome describes how a paged scope ended.
// It is passed to [AutoPager.Exit] by whoever closes the scope.
//
// The zero Outcome is [Ok].
type Outcome struct {
	kind outcomeKind
	code int
	err  error
}

// Ok reports that the scope finished without error.
func Ok() Outcome { return Outcome{} }

// Interrupted reports that the scope was cut short by an interrupt.
// err is returned from Exit unchanged; if nil, [ErrInterrupted] is used.
func Interrupted(err error) Outcome {
	if err == nil {
		err = ErrInterrupted
	}
	return Outcome{kind: interruptedOutcome, code: 130, err: err}
}

// BrokenPipe reports that the scope ended because its reader went away.
// The error is swallowed by Exit.
func BrokenPipe(err error) Outcome {
	return Outcome{kind: brokenPipeOutcome, code: 141, err: err}
}

// ExplicitExit reports that the scope asked for the process to exit
// with code. Exit returns an [*ExitError] carrying code.
func ExplicitExit(code int) Outcome {
	return Outcome{kind: exitOutcome, code: code, err: &ExitError{code}}
}

// Failed reports that the scope ended with err.
// A nil err is replaced by a generic failure.
func Failed(err error) Outcome {
	if err == nil {
		err = errNoOutcome
	}
	return Outcome{kind: failedOutcome, code: 1, err: err}
}

// OutcomeOf classifies err.
//
// A nil error is [Ok]. An error wrapping [ErrInterrupted] is
// [Interrupted]; one wrapping a broken pipe is [BrokenPipe]; one wrapping
// an [*ExitError] is [ExplicitExit], keeping err itself as the error
// to propagate. Anything else is [Failed].
func OutcomeOf(err error) Outcome {
	if err == nil {
		return Ok()
	}
	if errors.Is(err, ErrInterrupted) {
		return Interrupted(err)
	}
	if isBrokenPipe(err) {
		return BrokenPipe(err)
	}
	var ee *ExitError
	if errors.As(err, &ee) {
		return Outcome{kind: exitOutcome, code: ee.Code, err: err}
	}
	return Failed(err)
}

// Err returns the error carried by the outcome, if any.
func (o Outcome) Err() error { return o.err }

func (o Outcome) String() string {
	switch o.kind {
	case interruptedOutcome:
		return "interrupted"
	case brokenPipeOutcome:
		return "broken pipe"
	case exitOutcome:
		return fmt.Sprintf("exit %d", o.code)
	case failedOutcome:
		return fmt.Sprintf("failed: %v", o.err)
	}
	return "ok"
}
