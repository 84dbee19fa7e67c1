// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

// Package ast defines a tree of JSON values stored in an arena, and a parser
// that constructs such trees from JSON source.
//
// Parsing produces a root Value together with the Arena that holds every
// other value of the tree. Arrays and objects refer to their elements by
// Handle, and a handle is resolved by fetching it from the arena:
//
//	root, mem, err := ast.Parse(`{"a": [1, 2]}`, 16)
//	...
//	h, _ := root.Get("a")
//	list := mem.Fetch(h)
//
// The root value itself is not stored in the arena.
package ast

import (
	"fmt"
	"iter"
	"slices"
	"strconv"
	"strings"

	"github.com/creachadair/jarena/arena"
	"github.com/creachadair/mds/omap"
)

// An Arena holds the non-root values of a parsed tree.
type Arena = arena.Arena[Value]

// A Handle refers to a Value stored in an Arena.
type Handle = arena.Handle[Value]

// Kind identifies the type of a Value.
type Kind byte

// Constants defining the valid Kind values.
const (
	NullKind   Kind = iota // null
	StringKind             // a string
	NumberKind             // a number
	BoolKind               // true or false
	ObjectKind             // a collection of key-value members
	ListKind               // an ordered sequence of values
)

var kindStr = [...]string{
	NullKind:   "null",
	StringKind: "string",
	NumberKind: "number",
	BoolKind:   "bool",
	ObjectKind: "object",
	ListKind:   "list",
}

func (k Kind) String() string {
	if int(k) >= len(kindStr) {
		return "invalid"
	}
	return kindStr[k]
}

// A Value is a JSON value. The zero Value is null.
//
// The elements of list and object values are handles, meaningful only for
// the Arena into which they were allocated.
type Value struct {
	kind Kind
	str  string
	num  float64
	flag bool
	list []Handle
	obj  omap.Map[string, Handle] // zero for an empty object
}

// Null is the null value.
var Null Value

// String returns a string value with the given text.
func String(s string) Value { return Value{kind: StringKind, str: s} }

// Float returns a number value.
func Float(f float64) Value { return Value{kind: NumberKind, num: f} }

// Bool returns a Boolean value.
func Bool(b bool) Value { return Value{kind: BoolKind, flag: b} }

// Kind reports the type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == NullKind }

// Str returns the text of a string value, or "" for other kinds.
func (v Value) Str() string { return v.str }

// Float64 returns the value of a number, or 0 for other kinds.
func (v Value) Float64() float64 { return v.num }

// Bool returns the value of a Boolean, or false for other kinds.
func (v Value) Bool() bool { return v.flag }

// Len reports the number of elements of a list or members of an object.
// It returns 0 for other kinds.
func (v Value) Len() int {
	switch v.kind {
	case ListKind:
		return len(v.list)
	case ObjectKind:
		return v.obj.Len()
	}
	return 0
}

// Index returns the handle of the ith element of a list.
// Index panics if v is not a list or i is out of range.
func (v Value) Index(i int) Handle {
	if v.kind != ListKind {
		panic(fmt.Sprintf("ast: Index of %v value", v.kind))
	}
	return v.list[i]
}

// Handles returns the handles of the elements of a list, or the handles of
// the member values of an object in key order. It returns nil for other kinds.
func (v Value) Handles() []Handle {
	switch v.kind {
	case ListKind:
		return slices.Clone(v.list)
	case ObjectKind:
		var hs []Handle
		for _, h := range v.Members() {
			hs = append(hs, h)
		}
		return hs
	}
	return nil
}

// Keys returns the keys of an object in sorted order.
// It returns nil for other kinds.
func (v Value) Keys() []string {
	if v.kind != ObjectKind {
		return nil
	}
	return v.obj.Keys()
}

// Get returns the handle of the value of the member of an object with the
// given key, and reports whether it was found.
func (v Value) Get(key string) (Handle, bool) {
	if v.kind != ObjectKind {
		return Handle{}, false
	}
	return v.obj.GetOK(key)
}

// Members is a range function over the keys and value handles of an object,
// in key order. It yields nothing for other kinds.
func (v Value) Members() iter.Seq2[string, Handle] {
	return func(yield func(string, Handle) bool) {
		if v.kind != ObjectKind {
			return
		}
		for it := v.obj.First(); it.IsValid(); it.Next() {
			if !yield(it.Key(), it.Value()) {
				return
			}
		}
	}
}

// String returns a debug representation of v. Handles are rendered as
// "#n" where n is the allocation index.
func (v Value) String() string {
	switch v.kind {
	case StringKind:
		return "String(" + strconv.Quote(v.str) + ")"
	case NumberKind:
		return "Number(" + string(appendNumber(nil, v.num)) + ")"
	case BoolKind:
		return "Bool(" + strconv.FormatBool(v.flag) + ")"
	case ListKind:
		ss := make([]string, len(v.list))
		for i, h := range v.list {
			ss[i] = h.String()
		}
		return "List[" + strings.Join(ss, " ") + "]"
	case ObjectKind:
		var ss []string
		for key, h := range v.Members() {
			ss = append(ss, strconv.Quote(key)+": "+h.String())
		}
		return "Object{" + strings.Join(ss, ", ") + "}"
	}
	return "Null"
}
