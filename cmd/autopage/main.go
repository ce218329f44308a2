// Autopage copies files, or standard input, to standard output through
// a pager when standard output is a terminal.
package main

import (
	"context"
	"errors"
	"os"

	"github.com/fatih/color"
	"lesiw.io/defers"
	"lesiw.io/fs/osfs"

	"lesiw.io/autopage"
	"lesiw.io/autopage/cmd/autopage/command"
)

func main() {
	defer defers.Run()
	cmd := command.Root(osfs.New(), os.Stdin)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		var ee *autopage.ExitError
		if errors.As(err, &ee) {
			defers.Exit(ee.Code)
		}
		_, _ = color.New(color.FgRed).Fprintf(os.Stderr, "autopage: %v\n", err)
		defers.Exit(1)
	}
}
