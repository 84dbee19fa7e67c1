// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/creachadair/jarena/internal/escape"
	"github.com/creachadair/mds/stack"
	"go4.org/mem"
)

// JSON renders v as canonical JSON text, resolving handles in a.
//
// The output has no insignificant whitespace, object members are sorted by
// key, and numbers use the shortest representation that parses back to the
// same float64. Parsing the output yields a tree Equal to v.
func JSON(v Value, a *Arena) string { return string(AppendJSON(nil, v, a)) }

// Format writes the canonical JSON text of v to w, as JSON.
func Format(w io.Writer, v Value, a *Arena) error {
	_, err := w.Write(AppendJSON(nil, v, a))
	return err
}

// AppendJSON appends the canonical JSON text of v to buf and returns the
// updated slice. AppendJSON panics if a handle in v does not belong to a.
func AppendJSON(buf []byte, v Value, a *Arena) []byte {
	// Each step either writes literal punctuation or renders a value. Steps
	// are pushed in reverse so they pop in output order.
	type step struct {
		lit   string
		val   Value
		isVal bool
	}
	work := stack.New[step]()
	work.Push(step{val: v, isVal: true})
	for !work.IsEmpty() {
		s, _ := work.Pop()
		if !s.isVal {
			buf = append(buf, s.lit...)
			continue
		}
		switch t := s.val; t.kind {
		case NullKind:
			buf = append(buf, "null"...)
		case StringKind:
			buf = appendQuoted(buf, t.str)
		case NumberKind:
			buf = appendNumber(buf, t.num)
		case BoolKind:
			buf = strconv.AppendBool(buf, t.flag)
		case ListKind:
			buf = append(buf, '[')
			work.Push(step{lit: "]"})
			for i := len(t.list) - 1; i >= 0; i-- {
				work.Push(step{val: a.Fetch(t.list[i]), isVal: true})
				if i > 0 {
					work.Push(step{lit: ","})
				}
			}
		case ObjectKind:
			buf = append(buf, '{')
			work.Push(step{lit: "}"})
			keys := t.Keys()
			for i := len(keys) - 1; i >= 0; i-- {
				h, _ := t.Get(keys[i])
				work.Push(step{val: a.Fetch(h), isVal: true})

				key := string(appendQuoted(nil, keys[i])) + ":"
				if i > 0 {
					key = "," + key
				}
				work.Push(step{lit: key})
			}
		default:
			panic(fmt.Sprintf("ast: invalid value kind %v", t.kind))
		}
	}
	return buf
}

// appendNumber appends the shortest decimal form of f that parses back to
// the same value. Exponents are used only for very large and very small
// magnitudes, as in encoding/json.
func appendNumber(buf []byte, f float64) []byte {
	format := byte('f')
	if abs := math.Abs(f); abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		format = 'e'
	}
	buf = strconv.AppendFloat(buf, f, format, -1, 64)
	if format == 'e' {
		// Trim a leading zero from a two-digit negative exponent: e-07 to e-7.
		if n := len(buf); n >= 4 && buf[n-4] == 'e' && buf[n-3] == '-' && buf[n-2] == '0' {
			buf[n-2] = buf[n-1]
			buf = buf[:n-1]
		}
	}
	return buf
}

func appendQuoted(buf []byte, s string) []byte {
	buf = append(buf, '"')
	buf = escape.AppendQuote(buf, mem.S(s))
	return append(buf, '"')
}

// Equal reports whether v1 (with handles resolved in a1) and v2 (with handles
// resolved in a2) are structurally equal: they have the same kind, equal
// scalar values, lists with equal elements in the same order, and objects
// with the same keys mapped to equal values.
func Equal(v1 Value, a1 *Arena, v2 Value, a2 *Arena) bool {
	type pair struct{ x, y Value }
	work := stack.New[pair]()
	work.Push(pair{v1, v2})
	for !work.IsEmpty() {
		p, _ := work.Pop()
		if p.x.kind != p.y.kind || p.x.Len() != p.y.Len() {
			return false
		}
		switch p.x.kind {
		case StringKind:
			if p.x.str != p.y.str {
				return false
			}
		case NumberKind:
			if p.x.num != p.y.num {
				return false
			}
		case BoolKind:
			if p.x.flag != p.y.flag {
				return false
			}
		case ListKind:
			for i, h := range p.x.list {
				work.Push(pair{a1.Fetch(h), a2.Fetch(p.y.list[i])})
			}
		case ObjectKind:
			for key, h := range p.x.Members() {
				h2, ok := p.y.Get(key)
				if !ok {
					return false
				}
				work.Push(pair{a1.Fetch(h), a2.Fetch(h2)})
			}
		}
	}
	return true
}

// Count reports the number of values reachable from v, not counting v
// itself. This is the arena capacity needed to parse the JSON text of v.
func Count(v Value, a *Arena) int {
	var n int
	work := stack.New[Value]()
	work.Push(v)
	for !work.IsEmpty() {
		cur, _ := work.Pop()
		for _, h := range cur.Handles() {
			n++
			work.Push(a.Fetch(h))
		}
	}
	return n
}

// Dump writes a debug listing of a to w, one line per stored value in
// allocation order, followed by a line for the root value v.
func Dump(w io.Writer, v Value, a *Arena) error {
	var sb strings.Builder
	for h, elt := range a.All() {
		fmt.Fprintf(&sb, "%v\t%v\n", h, elt)
	}
	fmt.Fprintf(&sb, "root\t%v\n", v)
	_, err := io.WriteString(w, sb.String())
	return err
}
