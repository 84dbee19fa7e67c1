// Package jpath parses a minimal subset of JSONPath into navigation paths
// for the cursor package.
package jpath

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

/*
Grammar:

  expr = root steps
  root = "$"
 steps = step [steps]
  step = "." name
  step = "[" INDEX "]"
  step = "[" "'" QTEXT "'" "]"
  name = WORD

  WORD = RE `\w+`
 QTEXT = RE `([^'\\]|\\'|\\\\)*`
 INDEX = RE `-?\d+`

Each step selects a single value, so the operators of full JSONPath that
select several values (wildcards, recursive descent, slices, unions, filters
and scripts) are reported as errors.

Source:
  https://www.ietf.org/archive/id/draft-goessner-dispatch-jsonpath-00.html
*/

// An Expr is a parsed path expression. Each element is either a string,
// selecting an object member by key, or an int, selecting a list element by
// offset. The elements are suitable as arguments to cursor.Down.
type Expr []any

// Parse parses s as a path expression.
func Parse(s string) (Expr, error) {
	t, ok := strings.CutPrefix(s, "$")
	if !ok {
		return nil, errors.New("missing root marker")
	}
	var out Expr
	for t != "" {
		step, rest, err := parseStep(t)
		if err != nil {
			return nil, fmt.Errorf("offset %d: %w", len(s)-len(t), err)
		}
		out = append(out, step)
		t = rest
	}
	return out, nil
}

func (e Expr) String() string {
	var buf strings.Builder
	buf.WriteString("$")
	for _, step := range e {
		switch t := step.(type) {
		case string:
			if t != "" && wordRE.FindString(t) == t {
				buf.WriteString("." + t)
			} else {
				fmt.Fprintf(&buf, "['%s']", quoteEsc.Replace(t))
			}
		case int:
			fmt.Fprintf(&buf, "[%d]", t)
		default:
			fmt.Fprintf(&buf, "[?%T]", step)
		}
	}
	return buf.String()
}

func parseStep(s string) (_ any, rest string, _ error) {
	if strings.HasPrefix(s, "..") {
		return nil, s, errors.New("recursive descent (..) is not supported")
	}
	if t, ok := strings.CutPrefix(s, "."); ok {
		if strings.HasPrefix(t, "*") {
			return nil, s, errors.New("wildcard (*) is not supported")
		}
		m := wordRE.FindString(t)
		if m == "" {
			return nil, s, errors.New("invalid .name")
		}
		return m, t[len(m):], nil
	}
	if t, ok := strings.CutPrefix(s, "["); ok {
		val, u, err := parseValue(t)
		if err != nil {
			return nil, s, err
		}
		u, ok := strings.CutPrefix(u, "]")
		if !ok {
			return nil, s, errors.New("missing close bracket")
		}
		return val, u, nil
	}
	return nil, s, errors.New("invalid path step")
}

func parseValue(s string) (_ any, rest string, _ error) {
	switch {
	case strings.HasPrefix(s, "?("):
		return nil, s, errors.New("filter ?(...) is not supported")
	case strings.HasPrefix(s, "("):
		return nil, s, errors.New("script (...) is not supported")
	case strings.HasPrefix(s, "*"):
		return nil, s, errors.New("wildcard (*) is not supported")
	case strings.HasPrefix(s, "'"):
		return parseQuoted(s[1:])
	}
	m := indexRE.FindString(s)
	if m == "" {
		return nil, s, fmt.Errorf("invalid value: %q", s)
	}
	rest = s[len(m):]
	if strings.HasPrefix(rest, ":") {
		return nil, s, errors.New("slice [:] is not supported")
	} else if strings.HasPrefix(rest, ",") {
		return nil, s, errors.New("union [,] is not supported")
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return nil, s, fmt.Errorf("invalid index: %w", err)
	}
	return v, rest, nil
}

// parseQuoted parses the remainder of a quoted name, whose opening quote has
// already been consumed.
func parseQuoted(s string) (_ any, rest string, _ error) {
	var name strings.Builder
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			return name.String(), s[i+1:], nil
		case '\\':
			if i+1 < len(s) && (s[i+1] == '\'' || s[i+1] == '\\') {
				i++
			}
		}
		name.WriteByte(s[i])
	}
	return nil, s, errors.New("unterminated quoted name")
}

var (
	wordRE  = regexp.MustCompile(`^\w+`)
	indexRE = regexp.MustCompile(`^-?\d+`)

	quoteEsc = strings.NewReplacer(`\`, `\\`, `'`, `\'`)
)
