// Package pagedhelp sends the help output of cobra commands through a
// pager when it goes to a terminal.
//
//	root := &cobra.Command{Use: "app"}
//	pagedhelp.Install(root)
package pagedhelp

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"lesiw.io/defers"

	"lesiw.io/autopage"
)

var exit = defers.Exit

// Install makes cmd and its subcommands page their help.
// opts configure the AutoPager used for each help request; by default
// the terminal is not reset when the pager exits, so the help stays on
// screen.
func Install(cmd *cobra.Command, opts ...autopage.Option) {
	cmd.SetHelpFunc(Func(opts...))
}

// Func returns a cobra help function that pages help.
//
// If paging ends with a non-zero exit code, such as 141 when the user
// quits the pager before the help was written, the process exits with
// that code.
func Func(opts ...autopage.Option) func(*cobra.Command, []string) {
	opts = append([]autopage.Option{autopage.ResetOnExit(false)}, opts...)
	return func(c *cobra.Command, _ []string) {
		ctx := c.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		code, err := autopage.Page(ctx, func(out *autopage.Stream) error {
			return render(out, c)
		}, opts...)
		if err != nil {
			c.PrintErrln(err)
		}
		if code != 0 {
			exit(code)
		}
	}
}

// render writes help the way cobra's default help template does.
func render(w io.Writer, c *cobra.Command) error {
	if s := cmp.Or(c.Long, c.Short); s != "" {
		s = strings.TrimRight(s, " \t\r\n")
		if _, err := fmt.Fprintf(w, "%s\n\n", s); err != nil {
			return err
		}
	}
	if c.Runnable() || c.HasSubCommands() {
		if _, err := io.WriteString(w, c.UsageString()); err != nil {
			return err
		}
	}
	return nil
}
