package autopage

import (
	"fmt"
	"strconv"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// ErrorStrategy selects how a stream treats bytes that are not valid
// UTF-8. The names follow the usual codec error handler names.
//
// The zero value leaves the decision to the stream being configured.
type ErrorStrategy string

const (
	// Strict fails the write with an [EncodingError].
	Strict ErrorStrategy = "strict"

	// Ignore drops invalid bytes.
	Ignore ErrorStrategy = "ignore"

	// Replace substitutes U+FFFD for each invalid byte.
	Replace ErrorStrategy = "replace"

	// BackslashReplace writes each invalid byte as a \xNN escape.
	BackslashReplace ErrorStrategy = "backslashreplace"

	// XMLCharRefReplace writes each invalid byte as a &#NNN; reference.
	XMLCharRefReplace ErrorStrategy = "xmlcharrefreplace"

	// NameReplace writes each invalid byte as a \xNN escape.
	// Raw bytes have no character names to substitute.
	NameReplace ErrorStrategy = "namereplace"
)

// ParseErrorStrategy returns the strategy named by s.
// It returns a [ConfigError] if s names no known strategy.
func ParseErrorStrategy(s string) (ErrorStrategy, error) {
	e := ErrorStrategy(s)
	if !e.valid() {
		return "", &ConfigError{Option: "error strategy", Value: s}
	}
	return e, nil
}

func (e ErrorStrategy) String() string { return string(e) }

func (e ErrorStrategy) valid() bool {
	switch e {
	case Strict, Ignore, Replace, BackslashReplace, XMLCharRefReplace,
		NameReplace:
		return true
	}
	return false
}

// transformer returns the transformation applied to written bytes.
// Strict streams are validated rather than transformed.
func (e ErrorStrategy) transformer() transform.Transformer {
	switch e {
	case Replace:
		return runes.ReplaceIllFormed()
	case Ignore, BackslashReplace, NameReplace, XMLCharRefReplace:
		return &escaper{escape: e.escape}
	}
	return nil
}

func (e ErrorStrategy) escape(dst []byte, b byte) []byte {
	switch e {
	case Ignore:
		return dst
	case XMLCharRefReplace:
		dst = append(dst, "&#"...)
		dst = strconv.AppendInt(dst, int64(b), 10)
		return append(dst, ';')
	}
	return fmt.Appendf(dst, `\x%02x`, b)
}

// encode applies e to p, which must not end in an incomplete sequence.
func (e ErrorStrategy) encode(p []byte) ([]byte, error) {
	if e == Strict || e == "" {
		if i := invalidOffset(p); i >= 0 {
			return nil, &EncodingError{Offset: i, Byte: p[i]}
		}
		return p, nil
	}
	out, _, err := transform.Bytes(e.transformer(), p)
	return out, err
}

// escaper copies valid UTF-8 through and rewrites each invalid byte.
type escaper struct {
	transform.NopResetter
	escape func(dst []byte, b byte) []byte
	tmp    []byte
}

func (t *escaper) Transform(
	dst, src []byte, atEOF bool,
) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		if r != utf8.RuneError || size > 1 {
			if nDst+size > len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			nDst += copy(dst[nDst:], src[nSrc:nSrc+size])
			nSrc += size
			continue
		}
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		t.tmp = t.escape(t.tmp[:0], c)
		if nDst+len(t.tmp) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], t.tmp)
		nSrc++
	}
	return nDst, nSrc, nil
}

// invalidOffset returns the offset of the first invalid byte in p,
// or -1 if p is valid UTF-8.
func invalidOffset(p []byte) int {
	for i := 0; i < len(p); {
		if p[i] < utf8.RuneSelf {
			i++
			continue
		}
		r, size := utf8.DecodeRune(p[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}

// incompleteTail returns the length of a trailing, possibly valid,
// but unfinished UTF-8 sequence at the end of p.
func incompleteTail(p []byte) int {
	for i := 1; i < utf8.UTFMax && i <= len(p); i++ {
		c := p[len(p)-i]
		if c < utf8.RuneSelf {
			return 0
		}
		if utf8.RuneStart(c) {
			if utf8.FullRune(p[len(p)-i:]) {
				return 0
			}
			return i
		}
	}
	return 0
}
