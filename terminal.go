package autopage

import (
	"io"
	"os"

	"golang.org/x/term"
)

// ToTerminal reports whether w writes to an interactive terminal.
// Writers without a file descriptor, such as in-memory buffers,
// are never terminals.
func ToTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	fd := f.Fd()
	if fd == ^uintptr(0) {
		return false
	}
	return term.IsTerminal(int(fd))
}

// LineBufferFromInput reports whether output derived from r should be
// line buffered.
//
// When a program reads input, processes it and writes the result to a
// paged stream, line buffering makes each line visible as soon as it is
// written instead of when the buffer fills. That is only worthwhile when
// r may deliver data slowly: LineBufferFromInput returns false for
// regular files and other seekable readers, and true otherwise.
//
// If r is nil, os.Stdin is used.
//
//	ap, err := autopage.New(
//	    autopage.LineBuffering(autopage.LineBufferFromInput(nil)),
//	)
func LineBufferFromInput(r io.Reader) bool {
	if r == nil {
		r = os.Stdin
	}
	if f, ok := r.(*os.File); ok {
		info, err := f.Stat()
		if err != nil {
			return true
		}
		return !info.Mode().IsRegular()
	}
	if s, ok := r.(io.Seeker); ok {
		_, err := s.Seek(0, io.SeekCurrent)
		return err != nil
	}
	return true
}
