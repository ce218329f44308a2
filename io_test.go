package autopage_test

import (
	"io"
	"log/slog"
	"os"
	"syscall"
)

// closeTracker records whether Close has been called.
type closeTracker struct {
	io.Writer
	closed bool
}

func (c *closeTracker) Close() error {
	c.closed = true
	return nil
}

// brokenWriter fails every write as a pipe whose reader has gone away.
type brokenWriter struct{ writes int }

func (w *brokenWriter) Write([]byte) (int, error) {
	w.writes++
	return 0, &os.PathError{Op: "write", Path: "|1", Err: syscall.EPIPE}
}

// errWriter fails every write with err.
type errWriter struct{ err error }

func (w errWriter) Write([]byte) (int, error) { return 0, w.err }

func newTestLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}
