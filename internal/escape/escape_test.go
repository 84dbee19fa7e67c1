// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package escape_test

import (
	"testing"

	"github.com/creachadair/jarena/internal/escape"
	"go4.org/mem"
)

func TestQuote(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{"", ""},
		{"plain", "plain"},
		{"\x00\x01\x02", `\u0000\u0001\u0002`},
		{`a "b" \c`, `a \"b\" \\c`},
		{"tab\there\n", `tab\there\n`},
		{"\u2028 \u2029 \ufffd", `\u2028 \u2029 \ufffd`},
		{"bad \xff byte", `bad \ufffd byte`},
		{"日本", "日本"},
	}
	for _, tc := range tests {
		if got := string(escape.Quote(mem.S(tc.input))); got != tc.want {
			t.Errorf("Quote(%q): got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		input, want string
		fail        bool
	}{
		{``, ``, false},
		{`ok go`, "ok go", false},
		{`\b\f\n\r\t\/`, "\b\f\n\r\t/", false},
		{`a \u0026 b`, "a & b", false},
		{`\ud83d\ude00`, "\U0001F600", false}, // surrogate pair
		{`\ud83d x`, "\ufffd x", false},       // unpaired high surrogate
		{`\ude00`, "\ufffd", false},           // unpaired low surrogate
		{`\ud83dA`, "\ufffdA", false},         // high surrogate, then a non-surrogate
		{`\u00x9`, "\ufffd", false},
		{`\q`, "\ufffd", false},
		{`\u00`, ``, true},
		{`abc\`, ``, true},
	}
	for _, tc := range tests {
		got, err := escape.Unquote(mem.S(tc.input))
		if err != nil {
			if !tc.fail {
				t.Errorf("Unquote(%#q): unexpected error: %v", tc.input, err)
			}
			continue
		} else if tc.fail {
			t.Errorf("Unquote(%#q): got %q, want error", tc.input, got)
			continue
		}
		if string(got) != tc.want {
			t.Errorf("Unquote(%#q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}
