package autopage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"

	"lesiw.io/autopage/internal/sh"
	"lesiw.io/autopage/pager"
)

type state uint8

const (
	unopened state = iota
	direct
	paged
	closed
)

func (s state) String() string {
	switch s {
	case direct:
		return "direct"
	case paged:
		return "paged"
	case closed:
		return "closed"
	}
	return "unopened"
}

// An AutoPager sends output through a pager when it goes to a terminal.
//
// An AutoPager brackets a single scope of output. Enter opens the scope
// and returns the stream to write to: a pager's input if the output is a
// terminal and a pager could be started, or the configured output
// stream otherwise. Exit closes the scope, waits for any pager to quit
// and settles the exit code the process should report.
//
// An AutoPager is meant for use by a single goroutine.
type AutoPager struct {
	cfg   config
	log   *slog.Logger
	tty   bool
	state state

	stream *Stream
	proc   Process
	args   []string
	stop   func()
	unpipe func()
	code   int
}

// New returns an AutoPager configured by opts.
//
// Whether the output is a terminal is decided here, once.
// New returns a [*ConfigError] for invalid options.
func New(opts ...Option) (*AutoPager, error) {
	cfg := config{
		out:      Stdout,
		color:    true,
		launcher: Exec,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}
	cfg.stdout = cfg.out == Stdout
	return &AutoPager{
		cfg: cfg,
		log: cfg.logger,
		tty: ToTerminal(cfg.out),
	}, nil
}

// ToTerminal reports whether the output stream was a terminal when the
// AutoPager was created.
func (a *AutoPager) ToTerminal() bool { return a.tty }

// ExitCode returns the exit code the process should report.
//
// It is 0 until Exit has run. After that it is 130 if the scope was
// interrupted, 141 if its reader went away, the requested code for an
// explicit exit, 1 for any other failure, the pager's own exit code if
// that was not zero, and 0 otherwise.
func (a *AutoPager) ExitCode() int { return a.code }

// Enter opens the scope and returns the stream to write to.
//
// If the output is a terminal, Enter starts a pager and returns a new
// stream feeding it. If that fails, or the output is not a terminal,
// Enter applies the configured buffering and error strategy to the
// output stream and returns it. If the output's reader is already gone,
// the AutoPager is closed with exit code 141 and the error is returned.
//
// The returned stream stays the same for the whole scope. Enter returns
// [ErrReentered] if the AutoPager has been entered before.
func (a *AutoPager) Enter(ctx context.Context) (*Stream, error) {
	if a.state != unopened {
		return nil, ErrReentered
	}
	if a.tty {
		s, err := a.launch(ctx)
		if err == nil {
			a.state = paged
			return s, nil
		}
		a.log.Debug("pager unavailable, writing directly", "err", err)
	}
	if err := a.reconfigure(); err != nil {
		a.state = closed
		a.code = OutcomeOf(err).code
		if isBrokenPipe(err) {
			_ = a.cfg.out.Close() // Fails the same way.
		}
		return nil, err
	}
	a.state = direct
	a.unpipe = catchBrokenPipe()
	a.stop = watchInterrupts(a.cfg.out.interrupt, true)
	a.log.Debug("writing directly", "terminal", a.tty)
	return a.cfg.out, nil
}

// Exit closes the scope opened by Enter.
//
// o describes how the scope ended, usually OutcomeOf the error the
// caller is about to return. Exit returns the error that should keep
// propagating: the outcome's error, unchanged, except for a broken pipe,
// which is the normal sign that the reader quit early and is swallowed.
//
// If an interrupt was caught while the scope was open, an Ok outcome
// counts as Interrupted: the caller may have dropped the write errors
// it caused. Interrupts while the pager is waited for are left to the pager.
//
// A pager's input is closed and the pager waited for. A stream that was
// not opened by the AutoPager is flushed but left open, unless flushing
// finds its reader gone.
//
// Exit returns [ErrNotOpen] if the AutoPager is not open.
func (a *AutoPager) Exit(o Outcome) error {
	var pagerErr, flushErr error
	a.log.Debug("closing", "mode", a.state, "outcome", o)
	switch a.state {
	case paged:
		// Interrupts from here on are left to the pager.
		if a.stream.halted.Load() && o.kind == okOutcome {
			o = Interrupted(nil)
		}
		pagerErr = a.closePager()
	case direct:
		a.stop()
		if a.cfg.out.resume() && o.kind == okOutcome {
			o = Interrupted(nil)
		}
		flushErr = a.flush()
		a.unpipe()
	default:
		return ErrNotOpen
	}
	a.state = closed

	if o.kind == okOutcome && flushErr != nil {
		o = OutcomeOf(flushErr)
	} else if flushErr != nil {
		a.log.Debug("flush failed", "err", flushErr)
	}

	switch o.kind {
	case okOutcome:
		var pe *PagerError
		if errors.As(pagerErr, &pe) && pe.Code != 0 {
			a.code = pe.Code
		}
		return nil
	case brokenPipeOutcome:
		a.code = o.code
		return nil
	}
	a.code = o.code
	return o.err
}

func (a *AutoPager) launch(ctx context.Context) (*Stream, error) {
	cmd := a.cfg.pager
	if cmd == nil {
		var err error
		cmd, err = pager.FromEnv(func(key string) string {
			return Env(ctx, key)
		})
		if err != nil {
			return nil, pagerError(nil, err)
		}
	}
	out := a.cfg.out
	line, errs := out.LineBuffering(), out.Errors()
	if a.cfg.line != nil {
		line = *a.cfg.line
	}
	if a.cfg.errors != "" {
		errs = a.cfg.errors
	}
	penv := cmd.Env(pager.Config{
		Color:         a.cfg.color,
		LineBuffering: line,
		Reset:         a.cfg.reset,
		LookupEnv: func(key string) (string, bool) {
			return LookupEnv(ctx, key)
		},
	})
	env := maps.Clone(Envs(ctx))
	if env == nil {
		env = make(map[string]string, len(penv))
	}
	maps.Copy(env, penv)

	c := &Cmd{Args: cmd.Args(), Env: env}
	if !a.cfg.stdout && out.Fd() != ^uintptr(0) {
		c.Stdout = out.w
	}
	if err := out.Flush(); err != nil {
		a.log.Debug("flush before paging failed", "err", err)
	}
	_, _ = fmt.Fprintf(Trace, "%s\n", sh.String(penv, c.Args...))
	p, err := a.cfg.launcher.Launch(ctx, c)
	if err != nil {
		return nil, pagerError(c.Args, err)
	}
	a.log.Debug("pager started", "args", c.Args, "line_buffering", line)

	a.proc, a.args = p, c.Args
	a.stream = newOwnedStream(p.Stdin(), line, errs)
	a.stop = watchInterrupts(a.stream.interrupt, false)
	return a.stream, nil
}

// closePager closes the pager's input and waits for it to exit.
// Interrupts stay caught until then: the pager handles them itself.
func (a *AutoPager) closePager() error {
	defer a.stop()
	if err := a.stream.Close(); err != nil && !isBrokenPipe(err) &&
		!errors.Is(err, ErrInterrupted) {
		a.log.Debug("closing pager input failed", "err", err)
	}
	err := pagerError(a.args, a.proc.Wait())
	if err != nil {
		a.log.Debug("pager failed", "err", err)
	} else {
		a.log.Debug("pager exited")
	}
	return err
}

func (a *AutoPager) reconfigure() error {
	var opts []StreamOption
	if a.cfg.line != nil {
		opts = append(opts, WithLineBuffering(*a.cfg.line))
	}
	if a.cfg.errors != "" {
		opts = append(opts, WithErrors(a.cfg.errors))
	}
	if len(opts) == 0 {
		return nil
	}
	return a.cfg.out.Reconfigure(opts...)
}

// flush flushes a stream the AutoPager does not own.
// A stream whose reader has gone away is closed.
func (a *AutoPager) flush() error {
	out := a.cfg.out
	if out.Closed() {
		return nil
	}
	err := out.Flush()
	if isBrokenPipe(err) {
		_ = out.Close() // Fails the same way.
	}
	return err
}

// Page runs fn with the output stream of a new AutoPager configured by
// opts and returns the exit code the process should report.
//
// The error returned by fn is handled as by Exit(OutcomeOf(err)).
// If fn panics, the scope is closed as failed and the panic continues.
//
//	code, err := autopage.Page(ctx, func(out *autopage.Stream) error {
//	    _, err := io.Copy(out, r)
//	    return err
//	})
func Page(
	ctx context.Context, fn func(*Stream) error, opts ...Option,
) (int, error) {
	a, err := New(opts...)
	if err != nil {
		return 1, err
	}
	out, err := a.Enter(ctx)
	if isBrokenPipe(err) {
		return a.ExitCode(), nil
	} else if err != nil {
		return a.ExitCode(), err
	}
	defer func() {
		if r := recover(); r != nil {
			_ = a.Exit(Failed(fmt.Errorf("autopage: panic: %v", r)))
			panic(r)
		}
	}()
	err = a.Exit(OutcomeOf(fn(out)))
	return a.ExitCode(), err
}
