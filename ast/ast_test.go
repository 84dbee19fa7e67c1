// Copyright (C) 2023 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"strings"
	"testing"

	"github.com/creachadair/jarena/ast"
	"github.com/creachadair/mds/mtest"
	"github.com/google/go-cmp/cmp"
)

const testJSON = `{
  "list": [
    {
      "x": 1
    },
    {
      "x": 2
    }
  ],
  "y": {
    "hello": "there"
  },
  "o": [
    "hi",
    "yourself"
  ],
  "xyz": {
    "p": true,
    "d": true,
    "q": false
  }
}`

// testJSONSize is the number of non-root values in testJSON.
const testJSONSize = 14

func TestValueAccessors(t *testing.T) {
	root, mem := mustParse(t, testJSON, testJSONSize)

	if diff := cmp.Diff([]string{"list", "o", "xyz", "y"}, root.Keys()); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
	if root.Len() != 4 {
		t.Errorf("Len: got %d, want 4", root.Len())
	}
	if _, ok := root.Get("nonesuch"); ok {
		t.Error("Get(nonesuch) unexpectedly succeeded")
	}

	h, ok := root.Get("list")
	if !ok {
		t.Fatal("Get(list) failed")
	}
	list := mem.Fetch(h)
	if list.Kind() != ast.ListKind || list.Len() != 2 {
		t.Fatalf("list: got %v, want a list of length 2", list)
	}
	for i, want := range []float64{1, 2} {
		elt := mem.Fetch(list.Index(i))
		xh, ok := elt.Get("x")
		if !ok {
			t.Fatalf("Element %d: missing key x in %v", i, elt)
		}
		if got := mem.Fetch(xh).Float64(); got != want {
			t.Errorf("Element %d: got x=%v, want %v", i, got, want)
		}
	}

	h, _ = root.Get("y")
	hh, _ := mem.Fetch(h).Get("hello")
	if got := mem.Fetch(hh); got.Kind() != ast.StringKind || got.Str() != "there" {
		t.Errorf("y.hello: got %v, want String(\"there\")", got)
	}

	h, _ = root.Get("xyz")
	var keys []string
	var flags []bool
	for key, h := range mem.Fetch(h).Members() {
		keys = append(keys, key)
		flags = append(flags, mem.Fetch(h).Bool())
	}
	if diff := cmp.Diff([]string{"d", "p", "q"}, keys); diff != "" {
		t.Errorf("Member keys (-want, +got):\n%s", diff)
	}
	if diff := cmp.Diff([]bool{true, true, false}, flags); diff != "" {
		t.Errorf("Member values (-want, +got):\n%s", diff)
	}
}

func TestScalarAccessors(t *testing.T) {
	tests := []struct {
		v    ast.Value
		kind ast.Kind
		str  string
		num  float64
		flag bool
	}{
		{ast.Null, ast.NullKind, "", 0, false},
		{ast.String("foo"), ast.StringKind, "foo", 0, false},
		{ast.Float(-2.5), ast.NumberKind, "", -2.5, false},
		{ast.Bool(true), ast.BoolKind, "", 0, true},
	}
	for _, tc := range tests {
		if got := tc.v.Kind(); got != tc.kind {
			t.Errorf("%v Kind: got %v, want %v", tc.v, got, tc.kind)
		}
		if got := tc.v.IsNull(); got != (tc.kind == ast.NullKind) {
			t.Errorf("%v IsNull: got %v", tc.v, got)
		}
		if got := tc.v.Str(); got != tc.str {
			t.Errorf("%v Str: got %q, want %q", tc.v, got, tc.str)
		}
		if got := tc.v.Float64(); got != tc.num {
			t.Errorf("%v Float64: got %v, want %v", tc.v, got, tc.num)
		}
		if got := tc.v.Bool(); got != tc.flag {
			t.Errorf("%v Bool: got %v, want %v", tc.v, got, tc.flag)
		}
		if n := tc.v.Len(); n != 0 {
			t.Errorf("%v Len: got %d, want 0", tc.v, n)
		}
		if hs := tc.v.Handles(); hs != nil {
			t.Errorf("%v Handles: got %v, want nil", tc.v, hs)
		}
		if keys := tc.v.Keys(); keys != nil {
			t.Errorf("%v Keys: got %q, want nil", tc.v, keys)
		}
	}

	mtest.MustPanic(t, func() { ast.String("x").Index(0) })
}

func TestKindString(t *testing.T) {
	for kind, want := range map[ast.Kind]string{
		ast.NullKind:   "null",
		ast.StringKind: "string",
		ast.NumberKind: "number",
		ast.BoolKind:   "bool",
		ast.ObjectKind: "object",
		ast.ListKind:   "list",
		ast.Kind(25):   "invalid",
	} {
		if got := kind.String(); got != want {
			t.Errorf("Kind %d: got %q, want %q", kind, got, want)
		}
	}
}

func TestValueString(t *testing.T) {
	list, _ := mustParse(t, `[1, []]`, 2)
	obj, _ := mustParse(t, `{"b": 1, "a": 2}`, 2)
	tests := []struct {
		v    ast.Value
		want string
	}{
		{ast.Null, "Null"},
		{ast.String(`a "b"`), `String("a \"b\"")`},
		{ast.Float(1.5), "Number(1.5)"},
		{ast.Float(1e21), "Number(1e+21)"},
		{ast.Bool(false), "Bool(false)"},
		{list, "List[#0 #1]"},
		{obj, `Object{"a": #1, "b": #0}`},
	}
	for _, tc := range tests {
		if got := tc.v.String(); got != tc.want {
			t.Errorf("String: got %q, want %q", got, tc.want)
		}
	}
}

func TestMembersStop(t *testing.T) {
	root, _ := mustParse(t, `{"a": 1, "b": 2, "c": 3}`, 3)
	var keys []string
	for key := range root.Members() {
		keys = append(keys, key)
		if key == "b" {
			break
		}
	}
	if diff := cmp.Diff([]string{"a", "b"}, keys); diff != "" {
		t.Errorf("Keys (-want, +got):\n%s", diff)
	}
}

func TestHandlesOrder(t *testing.T) {
	// Object member handles are reported in key order, not allocation order.
	root, _ := mustParse(t, `{"z": 1, "m": 2, "a": 3}`, 3)
	if diff := cmp.Diff([]int{2, 1, 0}, indices(root.Handles())); diff != "" {
		t.Errorf("Handles (-want, +got):\n%s", diff)
	}
}

func TestCount(t *testing.T) {
	root, mem := mustParse(t, testJSON, testJSONSize)
	if got := ast.Count(root, mem); got != testJSONSize {
		t.Errorf("Count: got %d, want %d", got, testJSONSize)
	}
	if got := ast.Count(ast.Float(3), mem); got != 0 {
		t.Errorf("Count scalar: got %d, want 0", got)
	}

	// Values shadowed by a duplicate key are stored but not reachable.
	root, mem = mustParse(t, `{"a": [1, 2], "a": 3}`, 4)
	if got := ast.Count(root, mem); got != 1 {
		t.Errorf("Count with duplicates: got %d, want 1", got)
	}
	if got := mem.Len(); got != 4 {
		t.Errorf("Arena length: got %d, want 4", got)
	}
}

func TestDump(t *testing.T) {
	root, mem := mustParse(t, `{"a": [true, null]}`, 3)
	var sb strings.Builder
	if err := ast.Dump(&sb, root, mem); err != nil {
		t.Fatalf("Dump failed: %v", err)
	}
	const want = "#0\tBool(true)\n" +
		"#1\tNull\n" +
		"#2\tList[#0 #1]\n" +
		"root\tObject{\"a\": #2}\n"
	if got := sb.String(); got != want {
		t.Errorf("Dump: got\n%s\nwant\n%s", got, want)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		input, want string
	}{
		{`null`, `null`},
		{` "a\tb" `, `"a\tb"`},
		{`-0.25e1`, `-2.5`},
		{`[1, 2.5e3, "x\n", [], {}]`, `[1,2500,"x\n",[],{}]`},
		{`{ "b" : [true], "a": null }`, `{"a":null,"b":[true]}`},
		{`{"k": {"k": {"k": false}}}`, `{"k":{"k":{"k":false}}}`},
	}
	for _, tc := range tests {
		root, mem := mustParse(t, tc.input, 16)
		var sb strings.Builder
		if err := ast.Format(&sb, root, mem); err != nil {
			t.Errorf("Format %#q: %v", tc.input, err)
			continue
		}
		if got := sb.String(); got != tc.want {
			t.Errorf("Format %#q: got %#q, want %#q", tc.input, got, tc.want)
		}
		if got := ast.JSON(root, mem); got != tc.want {
			t.Errorf("JSON %#q: got %#q, want %#q", tc.input, got, tc.want)
		}
	}
}
