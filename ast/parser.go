// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast

import (
	"fmt"
	"io"
	"strings"

	"github.com/creachadair/jarena"
	"github.com/creachadair/jarena/arena"
	"github.com/creachadair/mds/omap"
	"github.com/creachadair/mds/stack"
)

// Options control the behavior of the parser. A nil *Options provides
// default settings.
type Options struct {
	// If positive, the maximum nesting depth of lists and objects. Input
	// nested more deeply is rejected with a jarena.DepthExceeded error.
	// If zero, nesting is limited only by available memory.
	MaxDepth int
}

func (o *Options) maxDepth() int {
	if o == nil {
		return 0
	}
	return o.MaxDepth
}

// Parse parses a single JSON value from src, storing every value except the
// root in a new arena with room for capacity values. On success, it returns
// the root value and the arena. In case of error, no value or arena is
// returned; syntax errors have concrete type *jarena.SyntaxError.
//
// A tree needs one arena slot for each list element and each object member,
// at every level of nesting. If the arena is too small, Parse reports an
// error of kind jarena.CapacityExceeded. If an object has duplicate keys, the
// last one wins; the values of the others occupy arena slots but are not
// reachable from the tree.
func Parse(src string, capacity int) (Value, *Arena, error) {
	return ParseReader(strings.NewReader(src), capacity, nil)
}

// ParseReader parses a single JSON value from r, as Parse. Once a value has
// been parsed, the remainder of r must contain only whitespace.
func ParseReader(r io.Reader, capacity int, opts *Options) (Value, *Arena, error) {
	if capacity <= 0 {
		return Null, nil, fmt.Errorf("invalid arena capacity %d", capacity)
	}
	p := &parser{
		s:        jarena.NewScanner(r),
		mem:      arena.New[Value](capacity),
		stk:      stack.New[*frame](),
		maxDepth: opts.maxDepth(),
	}
	v, err := p.parse()
	if err != nil {
		return Null, nil, err
	}
	return v, p.mem, nil
}

// frameKind records what an open container is waiting for after each of its
// elements: another list element or "]", or another object key or "}".
type frameKind byte

const (
	listFrame   frameKind = iota // waiting for a list element or end
	objectFrame                  // waiting for an object key or end
)

// closer returns the token that ends a container of kind k.
func (k frameKind) closer() jarena.Token {
	if k == listFrame {
		return jarena.RSquare
	}
	return jarena.RBrace
}

// A frame is an open list or object on the parser stack.
type frame struct {
	kind frameKind
	list []Handle
	obj  omap.Map[string, Handle]
	key  string // key of the member whose value is being parsed
}

// add records h as the next element of f.
func (f *frame) add(h Handle) {
	if f.kind == listFrame {
		f.list = append(f.list, h)
	} else {
		f.obj.Set(f.key, h) // last write wins
	}
}

// value returns the completed container value of f.
func (f *frame) value() Value {
	if f.kind == listFrame {
		return Value{kind: ListKind, list: f.list}
	}
	return Value{kind: ObjectKind, obj: f.obj}
}

type parser struct {
	s        *jarena.Scanner
	mem      *Arena
	stk      *stack.Stack[*frame]
	maxDepth int
}

// parse consumes a single value followed by the end of input.
func (p *parser) parse() (Value, error) {
	if err := p.advance(); err != nil { // prime the lookahead
		return Null, err
	}
	v, err := p.parseValue()
	if err != nil {
		return Null, err
	}
	if p.s.Token() != jarena.EOF {
		return Null, p.unexpected("expected end of input")
	}
	return v, nil
}

// parseValue consumes one complete value starting at the current token.
//
// Rather than recurring for nested values, the parser keeps a stack of the
// open containers. When a value is complete it is allocated into the arena
// and its handle is added to the container on top of the stack. A value
// completed with an empty stack is the root.
func (p *parser) parseValue() (Value, error) {
	for {
		v, done, err := p.beginValue()
		if err != nil {
			return Null, err
		} else if !done {
			continue // a container was opened; parse its first element
		}

		for {
			f, ok := p.stk.Peek(0)
			if !ok {
				return v, nil // v is the root
			}
			h, err := p.alloc(v)
			if err != nil {
				return Null, err
			}
			f.add(h)

			more, err := p.endElement(f)
			if err != nil {
				return Null, err
			} else if more {
				break // parse the next element of f
			}
			p.stk.Pop()
			v = f.value()
		}
	}
}

// beginValue begins a value at the current token. If the value is complete,
// beginValue returns it with done == true. Otherwise, a non-empty container
// was opened and pushed onto the stack.
func (p *parser) beginValue() (_ Value, done bool, _ error) {
	var v Value
	switch tok := p.s.Token(); tok {
	case jarena.True, jarena.False:
		v = Bool(tok == jarena.True)
	case jarena.Null:
		v = Null
	case jarena.String:
		v = String(p.s.Str())
	case jarena.Number:
		v = Float(p.s.Float64())
	case jarena.LSquare:
		return p.beginContainer(listFrame)
	case jarena.LBrace:
		return p.beginContainer(objectFrame)
	case jarena.Ident:
		return Null, false, p.errorf(jarena.IllegalIdentifier, "%q", p.s.Text())
	case jarena.EOF:
		return Null, false, p.errorf(jarena.UnexpectedEOF, "expected a value")
	default:
		return Null, false, p.unexpected("expected a value")
	}
	return v, true, p.advance()
}

// beginContainer consumes the opening bracket or brace of a list or object.
// If the container is empty it is complete, otherwise its frame is pushed.
// For an object, the key and colon of the first member are also consumed.
func (p *parser) beginContainer(kind frameKind) (Value, bool, error) {
	if p.maxDepth > 0 && p.stk.Len() >= p.maxDepth {
		return Null, false, p.errorf(jarena.DepthExceeded, "nesting exceeds %d levels", p.maxDepth)
	}
	if err := p.advance(); err != nil {
		return Null, false, err
	}
	f := &frame{kind: kind}
	if p.s.Token() == kind.closer() {
		return f.value(), true, p.advance()
	}
	if kind == objectFrame {
		f.obj = omap.New[string, Handle]()
		if err := p.parseKey(f); err != nil {
			return Null, false, err
		}
	}
	p.stk.Push(f)
	return Null, false, nil
}

// parseKey consumes an object key and the colon following it.
func (p *parser) parseKey(f *frame) error {
	switch tok := p.s.Token(); tok {
	case jarena.String:
		f.key = p.s.Str()
	case jarena.EOF:
		return p.errorf(jarena.UnexpectedEOF, "expected object key")
	case jarena.Comma, jarena.RBrace:
		return p.unexpected("expected object key")
	default:
		return p.errorf(jarena.ExpectedKeyString, "got %v", tok)
	}
	if err := p.advance(); err != nil {
		return err
	}
	switch tok := p.s.Token(); tok {
	case jarena.Colon:
		return p.advance()
	case jarena.EOF:
		return p.errorf(jarena.UnexpectedEOF, "expected %v after object key", jarena.Colon)
	default:
		return p.errorf(jarena.ExpectedColon, "got %v after object key", tok)
	}
}

// endElement consumes the token following an element of f. It reports true
// if a comma was found and another element follows, or false if f was closed.
func (p *parser) endElement(f *frame) (bool, error) {
	end := f.kind.closer()
	switch tok := p.s.Token(); tok {
	case end:
		return false, p.advance()
	case jarena.Comma:
		if err := p.advance(); err != nil {
			return false, err
		}
		if f.kind == objectFrame {
			return true, p.parseKey(f)
		}
		return true, nil
	case jarena.EOF:
		return false, p.errorf(jarena.UnexpectedEOF, "expected %v or %v", jarena.Comma, end)
	default:
		return false, p.unexpected(fmt.Sprintf("expected %v or %v", jarena.Comma, end))
	}
}

// alloc stores v in the arena and returns its handle.
func (p *parser) alloc(v Value) (Handle, error) {
	h, err := p.mem.Alloc(v)
	if err != nil {
		serr := jarena.NewSyntaxError(jarena.CapacityExceeded, p.s.Location().First, err,
			"no room for %v value (capacity %d)", v.Kind(), p.mem.Cap())
		return h, serr
	}
	return h, nil
}

// advance reads the next token into the lookahead. Reaching the end of the
// input is not an error here; the EOF token is handled by the grammar.
func (p *parser) advance() error {
	if err := p.s.Next(); err != nil && err != io.EOF {
		return err
	}
	return nil
}

func (p *parser) errorf(kind jarena.ErrorKind, msg string, args ...any) error {
	serr := jarena.NewSyntaxError(kind, p.s.Location().First, nil, msg, args...)
	serr.Found = p.s.Token()
	serr.Text = string(p.s.Text())
	return serr
}

func (p *parser) unexpected(context string) error {
	return p.errorf(jarena.UnexpectedToken, "%s, got %v", context, p.s.Token())
}
