// Package command implements the autopage command line.
package command

import (
	"errors"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"lesiw.io/fs"

	"lesiw.io/autopage"
	"lesiw.io/autopage/pagedhelp"
	"lesiw.io/autopage/pager"
)

// Root returns the autopage command. It reads named files from fsys and
// standard input from stdin. opts are applied before the options the
// command line selects.
//
// When paging ends with a non-zero exit code and no other error, the
// command fails with an [*autopage.ExitError] carrying the code.
func Root(
	fsys fs.FS, stdin io.Reader, opts ...autopage.Option,
) *cobra.Command {
	r := &rootCmd{fsys: fsys, stdin: stdin, opts: opts}
	cmd := &cobra.Command{
		Use:   "autopage [flags] [FILE...]",
		Short: "Page output when it goes to a terminal",
		Long: `Autopage copies each FILE, or standard input, to standard output.

When standard output is a terminal, the output goes through a pager:
the one named by --pager or $PAGER, or less. Otherwise it is written
directly. A FILE of - means standard input.`,
		Example: `  # Page a log file
  autopage app.log
  # Page slow input as it arrives
  tail -f app.log | autopage --line-buffering=on`,
		RunE:          r.Run,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().String("config", "", "config file")
	cmd.Flags().String("line-buffering", "auto",
		"line buffer output: auto, on or off (auto: on for slow input)")
	cmd.Flags().String("errors", "",
		"strategy for invalid UTF-8: strict, ignore, replace, "+
			"backslashreplace, xmlcharrefreplace or namereplace")
	cmd.Flags().Bool("reset", false, "reset the terminal when the pager exits")
	cmd.Flags().Bool("color", true, "let the pager show ANSI colors")
	cmd.Flags().String("pager", "", "pager to run instead of $PAGER")
	cmd.Flags().Bool("debug", false, "log debug records to stderr")
	cmd.Flags().String("log-file", "", "also log JSON records to this file")

	pagedhelp.Install(cmd)
	return cmd
}

type rootCmd struct {
	fsys  fs.FS
	stdin io.Reader
	opts  []autopage.Option
}

func (r *rootCmd) Run(c *cobra.Command, args []string) error {
	var o options
	if err := unmarshalFlags(c, &o); err != nil {
		return err
	}
	ctx := c.Context()
	logger, done := newLogger(ctx, r.fsys, c.ErrOrStderr(), o.Debug, o.LogFile)
	defer func() {
		if err := done(); err != nil {
			c.PrintErrln("autopage: closing log:", err)
		}
	}()

	names := args
	if len(names) == 0 {
		names = []string{"-"}
	}
	opts, err := r.options(o, names, logger)
	if err != nil {
		return err
	}

	code, err := autopage.Page(ctx, func(out *autopage.Stream) error {
		for _, name := range names {
			if err := r.copy(c, out, name); err != nil {
				return err
			}
		}
		return nil
	}, opts...)
	logger.Debug("done", "code", code, "err", err)
	switch {
	case errors.Is(err, autopage.ErrInterrupted):
		return &autopage.ExitError{Code: code}
	case err != nil:
		return err
	case code != 0:
		return &autopage.ExitError{Code: code}
	}
	return nil
}

func (r *rootCmd) options(
	o options, names []string, logger *slog.Logger,
) ([]autopage.Option, error) {
	opts := append([]autopage.Option{}, r.opts...)
	opts = append(opts,
		autopage.ResetOnExit(o.Reset),
		autopage.AllowColor(o.Color),
		autopage.Logger(logger),
	)

	switch o.LineBuffering {
	case "", "auto":
		if stdinOnly(names) {
			opts = append(opts, autopage.LineBufferingFromInput(r.stdin))
		}
	case "on":
		opts = append(opts, autopage.LineBuffering(true))
	case "off":
		opts = append(opts, autopage.LineBuffering(false))
	default:
		return nil, &autopage.ConfigError{
			Option: "line buffering",
			Value:  o.LineBuffering,
		}
	}

	if o.Errors != "" {
		e, err := autopage.ParseErrorStrategy(o.Errors)
		if err != nil {
			return nil, err
		}
		opts = append(opts, autopage.Errors(e))
	}

	if o.Pager != "" {
		cmd, err := pager.Lookup(o.Pager)
		if err != nil {
			return nil, &autopage.ConfigError{Option: "pager", Value: o.Pager}
		}
		opts = append(opts, autopage.Pager(cmd))
	}
	return opts, nil
}

func stdinOnly(names []string) bool {
	for _, name := range names {
		if name != "-" {
			return false
		}
	}
	return true
}

func (r *rootCmd) copy(c *cobra.Command, w io.Writer, name string) error {
	if name == "-" {
		_, err := io.Copy(w, r.stdin)
		return err
	}
	f := fs.OpenBuffer(c.Context(), r.fsys, name)
	defer func() { _ = f.Close() }()
	_, err := io.Copy(w, f)
	return err
}
