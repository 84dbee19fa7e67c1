// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package jarena implements a JSON scanner whose tokens feed an arena-backed
// tree parser (see package ast).
//
// # Scanning
//
// The Scanner type implements a lexical scanner for JSON.  Construct a scanner
// from an io.Reader and call its Next method to iterate over the stream. Next
// advances to the next input token and returns nil, or reports an error:
//
//	s := jarena.NewScanner(input)
//	for s.Next() == nil {
//	   log.Printf("Next token: %v", s.Token())
//	}
//
// Next returns io.EOF when the input has been fully consumed, and the current
// token is then EOF. Any other error indicates an I/O or lexical error in the
// input.
//
//	if s.Err() != io.EOF {
//	   log.Fatalf("Scanning failed: %v", err)
//	}
//
// String tokens are decoded while scanning: Str returns the text with escape
// sequences replaced, and Text returns the source text including quotes.
// Number tokens are converted to float64 and reported by Float64.
//
// Identifiers other than true, false, and null are not lexical errors; they
// are reported as Ident tokens so that the parser can reject them in context.
//
// # Errors
//
// Lexical and syntax errors have concrete type *SyntaxError. Each carries an
// ErrorKind, which is itself an error value, so that callers can check for a
// particular kind of failure with errors.Is:
//
//	if errors.Is(err, jarena.MalformedNumber) {
//	   log.Print("Bad number")
//	}
package jarena
