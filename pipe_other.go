//go:build !unix && !windows

package autopage

import (
	"errors"
	"io"
)

func isBrokenPipe(err error) bool { return errors.Is(err, io.ErrClosedPipe) }

func catchBrokenPipe() (stop func()) { return func() {} }
