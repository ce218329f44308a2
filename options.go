package autopage

import (
	"io"
	"log/slog"

	"lesiw.io/autopage/pager"
)

type config struct {
	out      *Stream
	stdout   bool
	line     *bool
	errors   ErrorStrategy
	reset    bool
	color    bool
	pager    pager.Command
	launcher Launcher
	logger   *slog.Logger
}

// An Option configures an AutoPager.
type Option func(*config) error

// Output sets the stream the AutoPager writes to.
// The default is the value of [Stdout] when New is called.
func Output(s *Stream) Option {
	return func(c *config) error {
		if s != nil {
			c.out = s
		}
		return nil
	}
}

// LineBuffering sets whether output is line buffered.
// By default the output stream keeps its own setting.
func LineBuffering(on bool) Option {
	return func(c *config) error {
		c.line = &on
		return nil
	}
}

// LineBufferingFromInput enables line buffering if r may deliver input
// slowly, as reported by [LineBufferFromInput].
func LineBufferingFromInput(r io.Reader) Option {
	return LineBuffering(LineBufferFromInput(r))
}

// Errors sets the strategy for invalid UTF-8 in the output.
// By default the output stream keeps its own strategy.
//
// New fails with a [ConfigError] if e is not a known strategy.
func Errors(e ErrorStrategy) Option {
	return func(c *config) error {
		if !e.valid() {
			return &ConfigError{Option: "error strategy", Value: string(e)}
		}
		c.errors = e
		return nil
	}
}

// ResetOnExit sets whether the pager restores the terminal on exit,
// clearing the paged output from the screen.
func ResetOnExit(on bool) Option {
	return func(c *config) error {
		c.reset = on
		return nil
	}
}

// AllowColor sets whether the pager passes ANSI color sequences through.
// The default is true.
func AllowColor(on bool) Option {
	return func(c *config) error {
		c.color = on
		return nil
	}
}

// Pager sets the pager to run.
// The default is taken from $PAGER when the AutoPager is entered.
func Pager(cmd pager.Command) Option {
	return func(c *config) error {
		c.pager = cmd
		return nil
	}
}

// Launch sets how pagers are started. The default is [Exec].
func Launch(l Launcher) Option {
	return func(c *config) error {
		if l != nil {
			c.launcher = l
		}
		return nil
	}
}

// Logger sets the destination of debug records.
// By default nothing is logged.
func Logger(l *slog.Logger) Option {
	return func(c *config) error {
		if l != nil {
			c.logger = l
		}
		return nil
	}
}
