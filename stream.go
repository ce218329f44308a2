package autopage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const defaultBufferSize = 4096

// Stream is a UTF-8 text output stream.
//
// A Stream buffers writes to an underlying [io.Writer] and applies an
// [ErrorStrategy] to bytes that are not valid UTF-8. Its buffering and
// error handling can be changed in place with Reconfigure; the Stream
// value itself never changes, so holders of a *Stream never need to
// fetch it again.
//
// A Stream is safe for concurrent use.
type Stream struct {
	mu      sync.Mutex
	w       io.Writer
	own     bool
	size    int
	line    bool
	errors  ErrorStrategy
	buf     []byte
	pending []byte
	closed  bool

	halted atomic.Bool
}

// NewStream returns a Stream writing to w.
//
// The stream is line buffered if w is a terminal and block buffered
// otherwise. Invalid UTF-8 is handled with the [Strict] strategy.
// Closing the stream does not close w.
func NewStream(w io.Writer) *Stream {
	return &Stream{
		w:      w,
		size:   defaultBufferSize,
		line:   ToTerminal(w),
		errors: Strict,
	}
}

// A StreamOption changes a setting of a Stream.
type StreamOption func(*Stream) error

// WithLineBuffering sets whether the stream flushes after every write
// that contains a newline.
func WithLineBuffering(on bool) StreamOption {
	return func(s *Stream) error {
		s.line = on
		return nil
	}
}

// WithErrors sets the stream's error strategy.
func WithErrors(e ErrorStrategy) StreamOption {
	return func(s *Stream) error {
		if !e.valid() {
			return &ConfigError{Option: "error strategy", Value: string(e)}
		}
		s.errors = e
		return nil
	}
}

// Reconfigure flushes any buffered output, then applies opts in place.
// Settings not named by opts keep their current values.
// If any option is invalid, the stream is left unchanged.
func (s *Stream) Reconfigure(opts ...StreamOption) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	next := Stream{line: s.line, errors: s.errors}
	for _, opt := range opts {
		if err := opt(&next); err != nil {
			return err
		}
	}
	if err := s.flush(); err != nil {
		return err
	}
	s.line, s.errors = next.line, next.errors
	return nil
}

// LineBuffering reports whether the stream is line buffered.
func (s *Stream) LineBuffering() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.line
}

// Errors returns the stream's error strategy.
func (s *Stream) Errors() ErrorStrategy {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.errors
}

// Encoding returns the name of the stream's character encoding.
func (s *Stream) Encoding() string { return "utf-8" }

// Fd returns the file descriptor of the underlying writer,
// or ^uintptr(0) if it has none.
func (s *Stream) Fd() uintptr {
	if f, ok := s.w.(interface{ Fd() uintptr }); ok {
		return f.Fd()
	}
	return ^uintptr(0)
}

// Closed reports whether the stream has been closed.
func (s *Stream) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *Stream) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, ErrClosed
	}
	if s.halted.Load() {
		return 0, ErrInterrupted
	}
	data := p
	if len(s.pending) > 0 {
		data = append(slices.Clone(s.pending), p...)
	}
	tail := incompleteTail(data)
	out, err := s.errors.encode(data[:len(data)-tail])
	if err != nil {
		return 0, err
	}
	s.buf = append(s.buf, out...)
	s.pending = append(s.pending[:0], data[len(data)-tail:]...)
	if s.size == 0 || len(s.buf) >= s.size ||
		(s.line && bytes.IndexByte(p, '\n') >= 0) {
		// p is buffered; a failed flush leaves it there for the next one.
		if err := s.flush(); err != nil {
			return len(p), err
		}
	}
	return len(p), nil
}

// WriteString is like Write, but writes the contents of str.
func (s *Stream) WriteString(str string) (int, error) {
	return s.Write([]byte(str))
}

// Flush writes any buffered output to the underlying writer.
// An unfinished UTF-8 sequence at the end of the output is held back
// until it is completed or the stream is closed.
func (s *Stream) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.flush()
}

// Close flushes the stream and marks it closed.
// The underlying writer is closed only if the stream owns it.
// Closing a closed stream is a no-op.
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	var err error
	if len(s.pending) > 0 {
		var out []byte
		out, err = s.errors.encode(s.pending)
		if err == nil {
			s.buf = append(s.buf, out...)
		}
		s.pending = nil
	}
	err = errors.Join(err, s.flush())
	s.buf = nil
	if c, ok := s.w.(io.Closer); ok && s.own {
		if cerr := c.Close(); cerr != nil && !errors.Is(cerr, os.ErrClosed) {
			err = errors.Join(err, cerr)
		}
	}
	return err
}

func (s *Stream) flush() error {
	for len(s.buf) > 0 {
		n, err := s.w.Write(s.buf)
		s.buf = s.buf[:copy(s.buf, s.buf[n:])]
		if err != nil {
			return s.writeError(err)
		}
		if n == 0 {
			return io.ErrShortWrite
		}
	}
	if f, ok := s.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			return s.writeError(err)
		}
	}
	return nil
}

func (s *Stream) writeError(err error) error {
	if s.halted.Load() {
		return fmt.Errorf("%w: %w", ErrInterrupted, err)
	}
	return err
}

// interrupt makes all further writes fail with ErrInterrupted.
// A write blocked on a full pipe is released through its deadline.
// interrupt must not take s.mu, which a blocked write holds.
func (s *Stream) interrupt() {
	s.halted.Store(true)
	if d, ok := s.w.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = d.SetWriteDeadline(time.Now()) // Best effort.
	}
}

// resume undoes interrupt and reports whether the stream was halted.
// It must not be called while interrupt may still run.
func (s *Stream) resume() bool {
	if !s.halted.Swap(false) {
		return false
	}
	if d, ok := s.w.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = d.SetWriteDeadline(time.Time{})
	}
	return true
}

// newOwnedStream returns a stream that closes w when it is closed.
// Line-buffered streams buffer; other owned streams write through.
func newOwnedStream(
	w io.WriteCloser, line bool, errs ErrorStrategy,
) *Stream {
	s := &Stream{w: w, own: true, line: line, errors: errs}
	if line {
		s.size = defaultBufferSize
	}
	return s
}

// OwnStream is like NewStream, but closing the stream also closes w.
func OwnStream(w io.WriteCloser) *Stream {
	s := NewStream(w)
	s.own = true
	return s
}
