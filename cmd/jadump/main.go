// Copyright (C) 2026 Michael J. Fromberger. All Rights Reserved.

// Program jadump parses a JSON document into a fixed-capacity arena and
// prints the resulting tree.
//
// Usage:
//
//	jadump [flags] [file]
//
// With no file, or with "-", the input is read from stdin. The default output
// is a listing of the arena in allocation order, one value per line, followed
// by the root value. Use --format=json or --format=yaml to print the tree
// itself instead, and --path to select a value within it.
package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/alecthomas/kong"
	"github.com/creachadair/jarena/ast"
	"github.com/creachadair/jarena/ast/cursor"
	"github.com/creachadair/mds/stack"
	"github.com/goccy/go-yaml"
)

func main() {
	s := &streams{in: os.Stdin, out: os.Stdout, err: os.Stderr}
	if err := run(context.Background(), os.Exit, s, os.Args[1:]...); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("run failed", slog.Any("error", err))
		os.Exit(1)
	}
}

// streams are the input and output channels of a single invocation.
type streams struct {
	in       io.Reader
	out, err io.Writer
}

// yamlMaxDepth is the deepest nesting accepted for YAML output.
const yamlMaxDepth = 10000

type cli struct {
	Capacity int    `default:"65536" help:"Arena capacity, in values."`
	MaxDepth int    `default:"512" help:"Maximum nesting depth (0 for no limit; at most 10000 for YAML)."`
	JWCC     bool   `name:"jwcc" help:"Accept comments and trailing commas."`
	Path     string `placeholder:"EXPR" help:"Print only the value at this path, e.g. $.items[0]."`
	Format   string `default:"dump" enum:"dump,json,yaml" help:"Output format (${enum})."`
	LogLevel string `default:"warn" enum:"debug,info,warn,error" help:"Set log level."`

	Input string `arg:"" optional:"" default:"-" help:"Input file (- for stdin)."`
}

func run(ctx context.Context, exit func(int), s *streams, args ...string) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("jadump"),
		kong.Description("Parse a JSON document into a fixed-capacity arena and print it."),
		kong.UsageOnError(),
		kong.Exit(exit),
		kong.Writers(s.out, s.err),
		kong.BindSingletonProvider(func() context.Context { return ctx }),
	)
	if err != nil {
		return err
	}
	ktx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return ktx.Run(s)
}

// Run parses the selected input and writes the result in the chosen format.
func (c *cli) Run(ctx context.Context, s *streams) error {
	log := c.logger(s.err)

	src, err := c.readInput(s.in)
	if err != nil {
		return err
	}
	log.DebugContext(ctx, "read input", slog.String("file", c.Input), slog.Int("bytes", len(src)))

	opts := &ast.Options{MaxDepth: c.MaxDepth}
	if c.Format == "yaml" && (opts.MaxDepth <= 0 || opts.MaxDepth > yamlMaxDepth) {
		// The YAML encoder recurs on nested values.
		opts.MaxDepth = yamlMaxDepth
		log.DebugContext(ctx, "limit nesting for YAML output", slog.Int("max-depth", yamlMaxDepth))
	}
	var root ast.Value
	var mem *ast.Arena
	if c.JWCC {
		root, mem, err = ast.ParseJWCC(src, c.Capacity, opts)
	} else {
		root, mem, err = ast.ParseReader(bytes.NewReader(src), c.Capacity, opts)
	}
	if err != nil {
		return fmt.Errorf("parse %s: %w", c.Input, err)
	}
	log.DebugContext(ctx, "parsed input",
		slog.String("root", root.Kind().String()),
		slog.Int("values", mem.Len()),
		slog.Int("capacity", mem.Cap()),
	)

	if c.Path != "" {
		root, err = cursor.FindPath(root, mem, c.Path)
		if err != nil {
			return err
		}
		log.DebugContext(ctx, "selected path", slog.String("path", c.Path), slog.String("kind", root.Kind().String()))
	}

	switch c.Format {
	case "json":
		_, err := s.out.Write(append(ast.AppendJSON(nil, root, mem), '\n'))
		return err
	case "yaml":
		out, err := yaml.Marshal(toYAML(root, mem))
		if err != nil {
			return fmt.Errorf("encode YAML: %w", err)
		}
		_, err = s.out.Write(out)
		return err
	default:
		return ast.Dump(s.out, root, mem)
	}
}

func (c *cli) readInput(stdin io.Reader) ([]byte, error) {
	if c.Input == "" || c.Input == "-" {
		c.Input = "stdin"
		return io.ReadAll(stdin)
	}
	return os.ReadFile(c.Input)
}

func (c *cli) logger(w io.Writer) *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		level = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// toYAML converts v into a value that encodes as the equivalent YAML.
// Objects become ordered map slices so that keys are printed in order, and
// integral numbers are printed without a fractional part.
func toYAML(v ast.Value, a *ast.Arena) any {
	// Each pending value is converted and stored by its setter into the slot
	// reserved for it in its parent.
	type pending struct {
		val ast.Value
		set func(any)
	}
	var out any
	work := stack.New[pending]()
	work.Push(pending{val: v, set: func(x any) { out = x }})
	for !work.IsEmpty() {
		p, _ := work.Pop()
		switch t := p.val; t.Kind() {
		case ast.StringKind:
			p.set(t.Str())
		case ast.NumberKind:
			f := t.Float64()
			if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
				p.set(int64(f))
			} else {
				p.set(f)
			}
		case ast.BoolKind:
			p.set(t.Bool())
		case ast.ListKind:
			elts := make([]any, t.Len())
			p.set(elts)
			for i, h := range t.Handles() {
				work.Push(pending{val: a.Fetch(h), set: func(x any) { elts[i] = x }})
			}
		case ast.ObjectKind:
			items := make(yaml.MapSlice, 0, t.Len())
			for key := range t.Members() {
				items = append(items, yaml.MapItem{Key: key})
			}
			p.set(items)
			for i, h := range t.Handles() {
				work.Push(pending{val: a.Fetch(h), set: func(x any) { items[i].Value = x }})
			}
		default:
			p.set(nil)
		}
	}
	return out
}
