// Package autopage sends program output through a pager when, and only
// when, it is written to a terminal.
//
// An [AutoPager] brackets one scope of output. [AutoPager.Enter] decides
// how the output is delivered and returns the [Stream] to write to;
// [AutoPager.Exit] closes the scope and settles the exit code.
//
//	ap, err := autopage.New()
//	if err != nil {
//	    return err
//	}
//	out, err := ap.Enter(ctx)
//	if err != nil {
//	    return err
//	}
//	err = ap.Exit(autopage.OutcomeOf(render(out)))
//	os.Exit(ap.ExitCode())
//
// [Page] does the same in a single call.
//
// # Modes
//
// If the output is a terminal, Enter starts a pager, by default the one
// named by $PAGER or less, and returns a new stream feeding its input.
// The pager writes straight to the terminal. Exit closes that stream and
// waits for the user to quit the pager.
//
// Otherwise, or if no pager can be started, Enter returns the output
// stream itself after applying the configured line buffering and
// [ErrorStrategy]. Exit flushes it but leaves it open: the AutoPager only
// closes streams it opened, except when flushing finds the reader gone.
//
// # Exit codes
//
// Exit is handed an [Outcome] describing how the scope ended, normally
// OutcomeOf the error the scope produced. The exit code is decided from
// it, in this order:
//
//   - 130 if the scope was interrupted (SIGINT);
//   - 141 if the reader went away (a broken pipe, as with SIGPIPE);
//   - N for an explicit exit with code N ([ExitError]);
//   - 1 for any other error;
//   - the pager's exit code, if it exited unsuccessfully;
//   - 0 otherwise.
//
// Exit returns the outcome's error so that it keeps propagating, except
// for a broken pipe, which is expected when the user quits the pager
// early and is swallowed.
//
// While a scope is open, interrupts are caught. The first one makes
// writes to the scope's stream fail with [ErrInterrupted], so a writing
// loop unwinds. A scope that would otherwise succeed ends as
// interrupted even if the caller dropped those errors. Output buffered
// before the interrupt is still flushed. When writing directly, a
// second interrupt terminates the process; a pager keeps catching them
// until it exits.
//
// # Streams
//
// A [Stream] is a buffered UTF-8 text stream. Its line buffering and
// error strategy can be changed in place with [Stream.Reconfigure]; its
// identity never changes. [Stdout] is the process-wide stream over
// standard output and the default output of every AutoPager:
// reconfiguring it through an AutoPager affects all of its users.
//
// # Testing
//
// [Launch] replaces how pagers are started; lesiw.io/autopage/mock
// provides a recording Launcher.
//
// # Tracing
//
// [Trace] receives the command line of every pager launched.
// Set it to [ShTrace] to print them to standard error.
package autopage
