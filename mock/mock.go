// Package mock provides a Launcher for testing that records the pagers
// it is asked to start and lets tests script how they behave.
//
// Every launch is recorded in the Calls slice, including the command
// line, the environment and all input written to the pager. Tests can
// inspect Calls using cmp.Diff or direct comparison.
//
// Pager behavior is queued with Return and Fail. When the queue is
// exhausted, the last response repeats indefinitely.
//
//	l := new(mock.Launcher)
//	l.Return(mock.Pager{Quit: 10})       // User quits after 10 lines.
//	l.Fail(exec.ErrNotFound)             // Then no pager can be found.
//	ap, err := autopage.New(autopage.Launch(l))
package mock

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"sync"
	"syscall"

	"lesiw.io/autopage"
)

// Call represents a single pager launch captured by the Launcher.
type Call struct {
	Args   []string
	Env    map[string]string
	Stdout io.Writer
	Got    []byte
}

// Pager scripts the behavior of a launched pager.
type Pager struct {
	// Code is the exit code Wait reports.
	Code int

	// Quit, if positive, is the number of lines the pager reads before
	// its user quits. Later writes fail with a broken pipe.
	Quit int

	// Err, if not nil, makes the launch itself fail with Err.
	Err error
}

// Launcher is a mock autopage.Launcher.
// The zero value launches pagers that read everything and exit cleanly.
type Launcher struct {
	mu    sync.Mutex
	Calls []Call
	queue []Pager
}

// Return queues the behavior of the next launched pager.
func (l *Launcher) Return(p Pager) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.queue = append(l.queue, p)
}

// Fail queues a launch failure.
func (l *Launcher) Fail(err error) { l.Return(Pager{Err: err}) }

// Launch implements autopage.Launcher.
func (l *Launcher) Launch(
	_ context.Context, cmd *autopage.Cmd,
) (autopage.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	var p Pager
	if len(l.queue) > 0 {
		p = l.queue[0]
	}
	if len(l.queue) > 1 {
		l.queue = l.queue[1:]
	}
	l.Calls = append(l.Calls, Call{
		Args:   slices.Clone(cmd.Args),
		Env:    maps.Clone(cmd.Env),
		Stdout: cmd.Stdout,
	})
	if p.Err != nil {
		return nil, p.Err
	}
	return &process{l: l, index: len(l.Calls) - 1, pager: p}, nil
}

type process struct {
	l     *Launcher
	index int
	pager Pager

	mu     sync.Mutex
	lines  int
	closed bool
}

func (p *process) Stdin() io.WriteCloser { return (*stdin)(p) }

func (p *process) Wait() error {
	if p.pager.Code != 0 {
		return &ExitError{Code: p.pager.Code}
	}
	return nil
}

type stdin process

func (s *stdin) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, os.ErrClosed
	}
	n := len(b)
	if quit := s.pager.Quit; quit > 0 {
		if s.lines >= quit {
			return 0, brokenPipe()
		}
		for i, c := range b {
			if c != '\n' {
				continue
			}
			if s.lines++; s.lines == quit {
				n = i + 1
				break
			}
		}
	}
	s.l.mu.Lock()
	call := &s.l.Calls[s.index]
	call.Got = append(call.Got, b[:n]...)
	s.l.mu.Unlock()
	if n < len(b) {
		return n, brokenPipe()
	}
	return n, nil
}

func (s *stdin) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func brokenPipe() error {
	return &os.PathError{Op: "write", Path: "|1", Err: syscall.EPIPE}
}

// ExitError is returned by Wait for pagers scripted with a non-zero Code.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit status %d", e.Code)
}

// ExitCode returns e.Code.
func (e *ExitError) ExitCode() int { return e.Code }
