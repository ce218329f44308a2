package autopage

import (
	"context"
	"io"

	"lesiw.io/autopage/sys"
)

// Cmd describes a pager to launch.
type Cmd struct {
	// Args is the command line, starting with the program name.
	Args []string

	// Env holds variables to set on top of the process environment.
	Env map[string]string

	// Stdout is where the pager writes.
	// If nil, the pager inherits the process's standard output.
	Stdout io.Writer
}

// A Process is a running pager.
type Process interface {
	// Stdin returns the pager's standard input.
	// Closing it tells the pager the input is complete.
	Stdin() io.WriteCloser

	// Wait waits for the pager to exit. It returns an error reporting an
	// ExitCode method if the pager exited unsuccessfully.
	Wait() error
}

// A Launcher starts pagers.
type Launcher interface {
	Launch(ctx context.Context, cmd *Cmd) (Process, error)
}

// LauncherFunc adapts a function into a Launcher.
type LauncherFunc func(ctx context.Context, cmd *Cmd) (Process, error)

// Launch calls f(ctx, cmd).
func (f LauncherFunc) Launch(ctx context.Context, cmd *Cmd) (Process, error) {
	return f(ctx, cmd)
}

// Exec launches pagers as processes on the local system.
// The pager is not stopped when ctx is done: it runs until its user quits.
var Exec Launcher = LauncherFunc(execLaunch)

func execLaunch(_ context.Context, cmd *Cmd) (Process, error) {
	p, err := sys.Start(cmd.Args, cmd.Env, cmd.Stdout)
	if err != nil {
		return nil, err
	}
	return p, nil
}
