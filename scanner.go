// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package jarena

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"

	"go4.org/mem"
)

// Token is the type of a lexical token in the JSON grammar.
type Token byte

// Constants defining the valid Token values.
const (
	Invalid Token = iota // invalid token
	EOF                  // end of input
	LBrace               // left brace "{"
	RBrace               // right brace "}"
	LSquare              // left square bracket "["
	RSquare              // right square bracket "]"
	Comma                // comma ","
	Colon                // colon ":"
	Number               // number
	String               // quoted string
	True                 // constant: true
	False                // constant: false
	Null                 // constant: null
	Ident                // unrecognized identifier
)

var tokenStr = [...]string{
	Invalid: "invalid token",
	EOF:     "end of input",
	LBrace:  `"{"`,
	RBrace:  `"}"`,
	LSquare: `"["`,
	RSquare: `"]"`,
	Comma:   `","`,
	Colon:   `":"`,
	Number:  "number",
	String:  "string",
	True:    "true",
	False:   "false",
	Null:    "null",
	Ident:   "identifier",
}

func (t Token) String() string {
	v := int(t)
	if v >= len(tokenStr) {
		return tokenStr[Invalid]
	}
	return tokenStr[v]
}

// A Scanner reads lexical tokens from an input stream.  Each call to Next
// advances the scanner to the next token, or reports an error.
//
// String tokens are decoded as they are scanned, and number tokens are
// converted to float64. Use Str and Float64 to obtain the decoded values, and
// Text to obtain the undecoded source text.
type Scanner struct {
	r   *bufio.Reader
	buf bytes.Buffer // raw text of the current token
	str []byte       // decoded text of a string token
	num float64      // value of a number token
	tok Token
	err error

	pos, end int // start and end offsets of current token
	last     int // size in bytes of last-read input rune

	// Apparent line and column offsets (0-based)
	pline, pcol int
	eline, ecol int
}

// NewScanner constructs a new lexical scanner that consumes input from r.
func NewScanner(r io.Reader) *Scanner {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}
	return &Scanner{r: br}
}

// Next advances s to the next token of the input, or reports an error.
//
// At the end of the input, Next returns io.EOF and the current token is EOF.
// Once the end of input has been reached, subsequent calls to Next continue
// to report io.EOF. A lexical error has concrete type *SyntaxError.
func (s *Scanner) Next() error {
	if s.tok == EOF {
		return s.err
	}
	s.buf.Reset()
	s.str = s.str[:0]
	s.num = 0
	s.err = nil
	s.tok = Invalid
	s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol

	for {
		ch, err := s.rune()
		if err == io.EOF {
			s.tok = EOF
			return s.setErr(err)
		} else if err != nil {
			return s.readError(err)
		}

		// Discard whitespace.
		if isSpace(ch) {
			s.pos, s.pline, s.pcol = s.end, s.eline, s.ecol
			if ch == '\n' {
				s.eline++
				s.ecol = 0
				s.pline, s.pcol = s.eline, s.ecol
			}
			continue
		}

		// Handle punctuation.
		if t, ok := selfDelim(ch); ok {
			s.buf.WriteRune(ch)
			s.tok = t
			return nil
		}

		// Handle numbers.
		if isNumStart(ch) {
			return s.scanNumber(ch)
		}

		// Handle string values.
		if ch == '"' {
			return s.scanString(ch)
		}

		// Handle constants (true, false, null) and other names.
		if isNameRune(ch) {
			return s.scanName(ch)
		}

		s.buf.WriteRune(ch)
		return s.failf(InvalidCharacter, nil, "unexpected %q", ch)
	}
}

// Token returns the type of the current token.
func (s *Scanner) Token() Token { return s.tok }

// Err returns the last error reported by Next.
func (s *Scanner) Err() error { return s.err }

// Text returns the undecoded text of the current token.  The return value is
// only valid until the next call of Next. The caller must copy the contents of
// the returned slice if it is needed beyond that.
func (s *Scanner) Text() []byte { return s.buf.Bytes() }

// Str returns the decoded contents of the current token, if it is a String.
// For other tokens Str returns "".
func (s *Scanner) Str() string {
	if s.tok != String {
		return ""
	}
	return string(s.str)
}

// Float64 returns the value of the current token, if it is a Number.
// For other tokens Float64 returns 0.
func (s *Scanner) Float64() float64 { return s.num }

// Span returns the location span of the current token.
func (s *Scanner) Span() Span { return Span{Pos: s.pos, End: s.end} }

// Location returns the complete location of the current token.
func (s *Scanner) Location() Location {
	return Location{
		Span:  s.Span(),
		First: LineCol{Line: s.pline + 1, Column: s.pcol},
		Last:  LineCol{Line: s.eline + 1, Column: s.ecol},
	}
}

func (s *Scanner) scanString(open rune) error {
	s.buf.WriteRune(open)
	for {
		ch, err := s.rune()
		if err == io.EOF {
			return s.failf(UnterminatedString, nil, "unterminated string")
		} else if err != nil {
			return s.readError(err)
		}
		switch {
		case ch == open:
			s.buf.WriteRune(ch)
			s.tok = String
			return nil
		case ch == '\\':
			s.buf.WriteRune(ch)
			if err := s.scanEscape(); err != nil {
				return err
			}
		case ch == '\n' || ch == '\r':
			s.unrune()
			return s.failf(UnterminatedString, nil, "unterminated string at end of line")
		case ch < ' ':
			return s.failf(InvalidCharacter, nil, "unescaped control %q in string", ch)
		default:
			s.buf.WriteRune(ch)
			s.str = utf8.AppendRune(s.str, ch)
		}
	}
}

// scanEscape consumes and decodes the remainder of a \-escape.
// Precondition: The backslash has been consumed.
func (s *Scanner) scanEscape() error {
	ch, err := s.rune()
	if err == io.EOF {
		return s.failf(UnterminatedString, nil, "unterminated string")
	} else if err != nil {
		return s.readError(err)
	}
	s.buf.WriteRune(ch)
	switch ch {
	case '"', '\\', '/':
		s.str = append(s.str, byte(ch))
	case 'b':
		s.str = append(s.str, '\b')
	case 'f':
		s.str = append(s.str, '\f')
	case 'n':
		s.str = append(s.str, '\n')
	case 'r':
		s.str = append(s.str, '\r')
	case 't':
		s.str = append(s.str, '\t')
	case 'u':
		r, err := s.readHex4()
		if err != nil {
			return err
		}
		if utf16.IsSurrogate(r) {
			r = s.readLowSurrogate(r)
		}
		s.str = utf8.AppendRune(s.str, r) // lone surrogates become U+FFFD
	default:
		return s.failf(InvalidEscape, nil, "invalid %q after escape", ch)
	}
	return nil
}

// readLowSurrogate attempts to complete a UTF-16 surrogate pair whose first
// half is hi. If the input does not continue with a valid second half, it is
// left unconsumed and hi is returned unchanged.
func (s *Scanner) readLowSurrogate(hi rune) rune {
	next, err := s.r.Peek(6)
	if err != nil || next[0] != '\\' || next[1] != 'u' {
		return hi
	}
	lo, err := parseHex(mem.B(next[2:]))
	if err != nil {
		return hi
	}
	r := utf16.DecodeRune(hi, rune(lo))
	if r == utf8.RuneError {
		return hi
	}
	for range 6 {
		c, _ := s.rune()
		s.buf.WriteRune(c)
	}
	return r
}

func (s *Scanner) scanNumber(start rune) error {
	s.buf.WriteRune(start)

	if start == '-' {
		// If there is a leading sign, we need at least one digit.
		// Otherwise, we already have one in start.
		ch, err := s.require(isDigit, "digit")
		if err != nil {
			return err
		}
		s.buf.WriteRune(ch)
	}

	// Consume the remainder of an integer.
	_, ch, err := s.readWhile(isDigit)

	// Check for extra leading zeroes, which the JSON grammar does not allow.
	// That is: 0.12 is OK, 01.2 is not.
	if hasExtraLeadingZeroes(s.buf.Bytes()) {
		return s.failf(MalformedNumber, nil, "extra leading zeroes in %q", s.buf.String())
	} else if err != nil {
		return s.endNumber(ch, err)
	}

	// If a decimal point follows, consume a fractional part.
	if ch == '.' {
		s.buf.WriteRune(ch)
		var nr int
		nr, ch, err = s.readWhile(isDigit)
		if nr == 0 {
			return s.failf(MalformedNumber, nil, "no digits after decimal point")
		} else if err != nil {
			return s.endNumber(ch, err)
		}
	}

	// If an exponent follows, consume it.
	if ch != 'E' && ch != 'e' {
		return s.endNumber(ch, nil)
	}
	s.buf.WriteRune(ch)
	sign, err := s.require(isExpStart, "sign or digit")
	if err != nil {
		return err
	}
	s.buf.WriteRune(sign)
	nr, ch, err := s.readWhile(isDigit)
	if nr == 0 && (sign == '-' || sign == '+') {
		// It's OK to have no digits if the previous rune was not a sign,
		// otherwise we have to have at least one.
		return s.failf(MalformedNumber, nil, "missing exponent digits")
	}
	return s.endNumber(ch, err)
}

// endNumber completes a number token given the rune that followed it and the
// error (if any) from reading that rune.
func (s *Scanner) endNumber(next rune, err error) error {
	if err == nil {
		s.unrune()
		if next == '.' || isNameRune(next) || isDigit(next) {
			return s.failf(MalformedNumber, nil, "unexpected %q after number", next)
		}
	} else if err != io.EOF {
		return s.readError(err)
	}
	v, err := mem.ParseFloat(mem.B(s.buf.Bytes()), 64)
	if err != nil {
		return s.failf(MalformedNumber, err, "invalid number %q", s.buf.String())
	}
	s.num = v
	s.tok = Number
	return nil
}

func (s *Scanner) scanName(first rune) error {
	s.buf.WriteRune(first)
	_, _, err := s.readWhile(isNameRune)
	if err == nil {
		s.unrune()
	} else if err != io.EOF {
		return s.readError(err)
	}
	switch got := mem.B(s.buf.Bytes()); {
	case got.EqualString("true"):
		s.tok = True
	case got.EqualString("false"):
		s.tok = False
	case got.EqualString("null"):
		s.tok = Null
	default:
		s.tok = Ident
	}
	return nil
}

func (s *Scanner) rune() (rune, error) {
	ch, nb, err := s.r.ReadRune()
	s.last = nb
	s.end += nb
	s.ecol += nb
	return ch, err
}

func (s *Scanner) unrune() {
	s.end -= s.last
	s.ecol -= s.last
	s.last = 0
	s.r.UnreadRune()
}

// require reads a single rune matching f from the input, or returns a
// malformed number error mentioning the desired label.
func (s *Scanner) require(f func(rune) bool, label string) (rune, error) {
	ch, err := s.rune()
	if err == io.EOF {
		return 0, s.failf(MalformedNumber, nil, "want %s, got end of input", label)
	} else if err != nil {
		return 0, s.readError(err)
	} else if !f(ch) {
		s.unrune()
		return 0, s.failf(MalformedNumber, nil, "got %q, want %s", ch, label)
	}
	return ch, nil
}

// readWhile consumes runes matching f from the input until EOF or until a rune
// not matching f is found. The first non-matching rune (if any) is returned.
// It is the caller's responsibility to unread this rune, if desired.
// The int reports the number of runes consumed.
func (s *Scanner) readWhile(f func(rune) bool) (int, rune, error) {
	var nr int
	for {
		ch, err := s.rune()
		if err != nil {
			return nr, 0, err
		} else if !f(ch) {
			return nr, ch, nil
		}
		s.buf.WriteRune(ch)
		nr++
	}
}

// readHex4 reads exactly 4 hexadecimal digits from the input and returns
// their value.
func (s *Scanner) readHex4() (rune, error) {
	var v rune
	for range 4 {
		ch, err := s.rune()
		if err == io.EOF {
			return 0, s.failf(UnterminatedString, nil, "unterminated string")
		} else if err != nil {
			return 0, s.readError(err)
		} else if !isHexDigit(ch) {
			return 0, s.failf(InvalidEscape, nil, "invalid Unicode escape: not a hex digit: %q", ch)
		}
		s.buf.WriteRune(ch)
		v = v<<4 | rune(hexValue(ch))
	}
	return v, nil
}

func (s *Scanner) setErr(err error) error {
	s.err = err
	return err
}

// failf records and returns a lexical error of the given kind, located at the
// start of the current token.
func (s *Scanner) failf(kind ErrorKind, cause error, msg string, args ...any) error {
	loc := LineCol{Line: s.pline + 1, Column: s.pcol}
	serr := NewSyntaxError(kind, loc, cause, msg, args...)
	serr.Text = s.buf.String()
	return s.setErr(serr)
}

// readError records and returns an error from the underlying reader.
func (s *Scanner) readError(err error) error {
	return s.setErr(fmt.Errorf("read input (offset %d): %w", s.end, err))
}

func isSpace(ch rune) bool {
	return ch == ' ' || ch == '\r' || ch == '\n' || ch == '\t'
}

func isNumStart(ch rune) bool { return ch == '-' || isDigit(ch) }
func isExpStart(ch rune) bool { return ch == '-' || ch == '+' || isDigit(ch) }
func isDigit(ch rune) bool    { return '0' <= ch && ch <= '9' }

// isNameRune reports whether ch may appear in an identifier. Identifiers
// never begin with a digit, since those are scanned as numbers.
func isNameRune(ch rune) bool {
	return ch != utf8.RuneError && (unicode.IsLetter(ch) || unicode.IsDigit(ch))
}

func isHexDigit(ch rune) bool {
	return (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch rune) int {
	switch {
	case ch >= 'a':
		return int(ch-'a') + 10
	case ch >= 'A':
		return int(ch-'A') + 10
	default:
		return int(ch - '0')
	}
}

func parseHex(data mem.RO) (int64, error) {
	var v int64
	for i := 0; i < data.Len(); i++ {
		b := rune(data.At(i))
		if !isHexDigit(b) {
			return 0, fmt.Errorf("invalid hex digit %q", b)
		}
		v = v<<4 | int64(hexValue(b))
	}
	return v, nil
}

// hasExtraLeadingZeroes reports whether the representation of an integer in
// buf has redundant leading zeroes, which JSON does not permit.
//
// OK: 0, 0.1, -1.0, -0.1 are all OK.
// Bad: -01, 01.2, -01.0, 00.1.
func hasExtraLeadingZeroes(buf []byte) bool {
	if buf[0] == '-' {
		buf = buf[1:] // skip leading sign
	}
	if buf[0] == '0' {
		// A leading zero is OK if it's the only digit.
		return len(buf) > 1
	}
	return false
}

var self = [...]Token{LBrace, RBrace, LSquare, RSquare, Comma, Colon}

func selfDelim(ch rune) (Token, bool) {
	i := strings.IndexRune("{}[],:", ch)
	if i >= 0 {
		return self[i], true
	}
	return Invalid, false
}
