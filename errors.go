// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package jarena

import "fmt"

// ErrorKind classifies the errors reported by the scanner and parser.
// An ErrorKind is itself an error, so that callers can use errors.Is to
// check the kind of a *SyntaxError:
//
//	if errors.Is(err, jarena.CapacityExceeded) { ... }
type ErrorKind byte

// Constants defining the valid ErrorKind values.
const (
	UnexpectedToken    ErrorKind = iota + 1 // a token not permitted by the grammar
	ExpectedColon                           // an object key not followed by ":"
	ExpectedKeyString                       // an object key that is not a string
	UnexpectedEOF                           // end of input inside a value
	IllegalIdentifier                       // a name other than true, false, null
	MalformedNumber                         // an invalid numeric literal
	UnterminatedString                      // a string missing its closing quote
	InvalidEscape                           // an invalid \-escape in a string
	InvalidCharacter                        // a character that cannot begin a token
	CapacityExceeded                        // the arena is full
	DepthExceeded                           // nesting exceeds the configured limit
)

var kindStr = [...]string{
	UnexpectedToken:    "unexpected token",
	ExpectedColon:      "expected colon",
	ExpectedKeyString:  "expected key string",
	UnexpectedEOF:      "unexpected end of input",
	IllegalIdentifier:  "illegal identifier",
	MalformedNumber:    "malformed number",
	UnterminatedString: "unterminated string",
	InvalidEscape:      "invalid escape",
	InvalidCharacter:   "invalid character",
	CapacityExceeded:   "capacity exceeded",
	DepthExceeded:      "nesting depth exceeded",
}

func (k ErrorKind) String() string {
	if int(k) >= len(kindStr) || kindStr[k] == "" {
		return fmt.Sprintf("error kind %d", k)
	}
	return kindStr[k]
}

// Error satisfies the error interface.
func (k ErrorKind) Error() string { return k.String() }

// SyntaxError is the concrete type of errors reported by the scanner and the
// parser for invalid input.
type SyntaxError struct {
	Kind     ErrorKind
	Location LineCol
	Message  string

	// For UnexpectedToken and IllegalIdentifier errors, the token found and
	// its source text. For lexical errors, Text holds the text scanned so far.
	Found Token
	Text  string

	err error
}

// NewSyntaxError constructs a *SyntaxError of the given kind at loc, with a
// message formatted from msg and args. If cause != nil, it is reported by
// the Unwrap method.
func NewSyntaxError(kind ErrorKind, loc LineCol, cause error, msg string, args ...any) *SyntaxError {
	return &SyntaxError{
		Kind:     kind,
		Location: loc,
		Message:  fmt.Sprintf(msg, args...),
		err:      cause,
	}
}

// Error satisfies the error interface.
func (s *SyntaxError) Error() string {
	return fmt.Sprintf("at %s: %s: %s", s.Location, s.Kind, s.Message)
}

// Unwrap supports error wrapping.
func (s *SyntaxError) Unwrap() error { return s.err }

// Is reports whether target is the ErrorKind of s.
func (s *SyntaxError) Is(target error) bool {
	k, ok := target.(ErrorKind)
	return ok && k == s.Kind
}
