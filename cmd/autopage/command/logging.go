package command

import (
	"context"
	"io"
	"log/slog"

	slogmulti "github.com/samber/slog-multi"
	"lesiw.io/fs"
)

// newLogger returns a logger writing text records to stderr at the
// level selected by debug, and JSON records of every level to the file
// at path if path is not empty. done flushes and closes that file.
func newLogger(
	ctx context.Context, fsys fs.FS, stderr io.Writer, debug bool, path string,
) (logger *slog.Logger, done func() error) {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	handlers := []slog.Handler{
		slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}),
	}
	done = func() error { return nil }
	if path != "" {
		f := fs.CreateBuffer(ctx, fsys, path)
		handlers = append(handlers, slog.NewJSONHandler(f,
			&slog.HandlerOptions{Level: slog.LevelDebug},
		))
		done = f.Close
	}
	return slog.New(slogmulti.Fanout(handlers...)), done
}
