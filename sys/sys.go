// Package sys starts pager processes on the local system using os/exec.
package sys

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"syscall"
)

var (
	// Stdout is the output inherited by processes started without an
	// explicit output. It is normally the terminal.
	Stdout io.Writer = os.Stdout

	// Stderr is the diagnostic output of started processes.
	Stderr io.Writer = os.Stderr
)

// ErrNoCommand is returned by Start when given no arguments.
var ErrNoCommand = errors.New("sys: no command given")

// ExitError reports a process that exited unsuccessfully.
type ExitError struct {
	// Code is the exit status, or 128 plus the signal number for
	// processes killed by a signal.
	Code int

	// Err is the underlying os/exec error.
	Err error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// ExitCode returns e.Code.
func (e *ExitError) ExitCode() int { return e.Code }

// Process is a started process reading its standard input from a pipe.
type Process struct {
	cmd   *exec.Cmd
	stdin *os.File
	wait  func() error
}

// Start starts args[0] with the remaining arguments.
//
// The process environment is the current environment plus env. Its
// standard input is a pipe available through Stdin; its standard output
// is stdout, or Stdout if stdout is nil; its standard error is Stderr.
//
// The returned process is not tied to a context. A pager runs until its
// user quits it.
func Start(
	args []string, env map[string]string, stdout io.Writer,
) (*Process, error) {
	if len(args) == 0 {
		return nil, ErrNoCommand
	}
	c := exec.Command(args[0], args[1:]...)
	c.Env = os.Environ()
	for k, v := range env {
		c.Env = append(c.Env, k+"="+v)
	}

	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("failed to pipe stdin: %w", err)
	}
	c.Stdin = r
	c.Stdout = stdout
	if c.Stdout == nil {
		c.Stdout = Stdout
	}
	c.Stderr = Stderr

	if err := c.Start(); err != nil {
		_ = r.Close() // Best effort.
		_ = w.Close() // Best effort.
		return nil, err
	}
	// The child holds its own copy of the read end.
	_ = r.Close()

	p := &Process{cmd: c, stdin: w}
	p.wait = sync.OnceValue(p.waitFunc)
	return p, nil
}

// Stdin returns the write end of the process's standard input.
// Closing it signals end of input to the process.
//
// The returned value is an *os.File, so writes blocked on a full pipe
// can be released with SetWriteDeadline.
func (p *Process) Stdin() io.WriteCloser { return p.stdin }

// Wait waits for the process to exit.
// It returns an *ExitError if the process exited unsuccessfully.
// Wait may be called more than once.
func (p *Process) Wait() error { return p.wait() }

func (p *Process) waitFunc() error {
	err := p.cmd.Wait()
	if err == nil {
		return nil
	}
	if ee := new(exec.ExitError); errors.As(err, &ee) {
		return &ExitError{Code: exitCode(ee), Err: err}
	}
	return err
}

func exitCode(ee *exec.ExitError) int {
	if ws, ok := ee.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return ee.ExitCode()
}

// String returns the process's command line.
func (p *Process) String() string { return p.cmd.String() }
