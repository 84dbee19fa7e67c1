// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/creachadair/jarena"
	"github.com/tailscale/hujson"
)

// ParseJWCC parses a single value from src in JSON With Commas and Comments
// (JWCC) syntax, as ParseReader. Comments and trailing commas are removed
// before parsing, so the resulting tree is the same as for the equivalent
// standard JSON input. Line and column positions in errors refer to src.
//
// As with ParseReader, an invalid input is reported as a *jarena.SyntaxError.
func ParseJWCC(src []byte, capacity int, opts *Options) (Value, *Arena, error) {
	std, err := hujson.Standardize(bytes.Clone(src))
	if err == nil {
		return ParseReader(bytes.NewReader(std), capacity, opts)
	}

	// The JWCC parser reports errors only as text. Parse the input again with
	// its comments and trailing commas blanked out, so the strict parser can
	// report the kind and location of the problem.
	if _, _, serr := ParseReader(bytes.NewReader(blankJWCC(src)), capacity, opts); serr != nil {
		return Null, nil, serr
	}
	return Null, nil, jarena.NewSyntaxError(jarena.InvalidCharacter, jarena.LineCol{Line: 1}, err,
		"invalid JWCC input: %v", err)
}

// blankJWCC returns a copy of src in which comments and trailing commas are
// replaced by spaces. Newlines are kept, so offsets and line numbers in the
// result match src. A comment that is unterminated or is not valid UTF-8 is
// left in place.
func blankJWCC(src []byte) []byte {
	out := bytes.Clone(src)
	var prev byte // the last significant byte outside comments
	comma := -1   // offset of a comma that may be trailing
	for i := 0; i < len(out); i++ {
		switch out[i] {
		case ' ', '\t', '\r', '\n':
			continue
		case '/':
			if n := commentLen(out[i:]); n > 0 {
				blank(out[i : i+n])
				i += n - 1
				continue
			}
			comma = -1
		case '"':
			i = stringEnd(out, i)
			comma = -1
		case ',':
			if prev != 0 && strings.IndexByte("[{,:", prev) < 0 {
				comma = i
			} else {
				comma = -1
			}
		case ']', '}':
			if comma >= 0 {
				out[comma] = ' '
			}
			comma = -1
		default:
			comma = -1
		}
		prev = out[i]
	}
	return out
}

// commentLen reports the length of the comment at the start of b, or 0 if b
// does not begin with a well-formed comment. A line comment must end with a
// newline, which is not included in its length.
func commentLen(b []byte) int {
	var n int
	switch {
	case bytes.HasPrefix(b, []byte("//")):
		n = bytes.IndexByte(b, '\n')
	case bytes.HasPrefix(b, []byte("/*")):
		if n = bytes.Index(b[2:], []byte("*/")); n >= 0 {
			n += 4
		}
	}
	if n <= 0 || !utf8.Valid(b[:n]) {
		return 0
	}
	return n
}

// stringEnd returns the offset of the quote closing the string that begins
// at b[i], or the offset of the last byte of b if the string is unterminated.
func stringEnd(b []byte, i int) int {
	for j := i + 1; j < len(b); j++ {
		switch b[j] {
		case '\\':
			j++
		case '"':
			return j
		}
	}
	return len(b) - 1
}

func blank(b []byte) {
	for i, c := range b {
		if c != '\n' && c != '\r' {
			b[i] = ' '
		}
	}
}
