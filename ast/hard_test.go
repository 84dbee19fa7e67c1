// Copyright (C) 2021 Michael J. Fromberger. All Rights Reserved.

package ast_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"path"
	"strings"
	"testing"

	"github.com/creachadair/jarena"
	"github.com/creachadair/jarena/ast"
)

// The compliance cases are those of the JSONTestSuite described in "Parsing
// JSON is a Minefield", https://seriot.ch/projects/parsing_json.html. Files
// named y_* must parse and files named n_* must not. The implementation-
// defined i_* files are not checked.
var (
	runCompliance = flag.Bool("compliance-test", false, "Run the JSONTestSuite compliance cases")
	suiteURL      = flag.String("compliance-test-repo", "https://github.com/nst/JSONTestSuite",
		"Repository URL for the compliance cases")
	suiteArchive = flag.String("compliance-test-zip", "hard-test-suite.zip",
		"Local copy of the compliance archive, fetched if missing")
)

// complianceCapacity is the arena capacity used for each case. The largest
// positive case in the suite needs far fewer slots than this.
const complianceCapacity = 1 << 16

// loadSuite returns the contents of the compliance archive, downloading and
// saving it first if there is no local copy.
func loadSuite(t *testing.T) *zip.Reader {
	t.Helper()
	data, err := os.ReadFile(*suiteArchive)
	if errors.Is(err, os.ErrNotExist) {
		url := *suiteURL + "/archive/refs/heads/master.zip"
		t.Logf("Fetching %q", url)
		data, err = fetch(url)
		if err == nil {
			err = os.WriteFile(*suiteArchive, data, 0644)
		}
	}
	if err != nil {
		t.Fatalf("Load compliance archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Open compliance archive: %v", err)
	}
	return zr
}

func fetch(url string) ([]byte, error) {
	rsp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	defer rsp.Body.Close()
	if ctype := rsp.Header.Get("content-type"); ctype != "application/zip" {
		return nil, errors.New("unexpected content-type " + ctype)
	}
	return io.ReadAll(rsp.Body)
}

// complianceCase is a single input file from the archive. The name is the
// base name without extension, for example "y_array_empty".
type complianceCase struct {
	name  string
	input []byte
}

func loadCases(t *testing.T, prefix string) []complianceCase {
	t.Helper()
	var out []complianceCase
	for _, f := range loadSuite(t).File {
		dir, base := path.Split(f.Name)
		if !strings.HasSuffix(dir, "/test_parsing/") || path.Ext(base) != ".json" ||
			!strings.HasPrefix(base, prefix) {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Open %q: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Read %q: %v", f.Name, err)
		}
		out = append(out, complianceCase{name: strings.TrimSuffix(base, ".json"), input: data})
	}
	if len(out) == 0 {
		t.Fatalf("No %q cases found in the archive", prefix)
	}
	return out
}

func TestCompliance(t *testing.T) {
	if !*runCompliance {
		t.Skip("Skipping compliance test because --compliance-test is false")
	}

	t.Run("Accept", func(t *testing.T) {
		for _, tc := range loadCases(t, "y_") {
			v, mem, err := ast.ParseReader(bytes.NewReader(tc.input), complianceCapacity, nil)
			if err != nil {
				t.Errorf("%s: unexpected error: %v", tc.name, err)
				continue
			}

			// Valid JSON is valid JWCC, and must produce the same tree.
			jv, jmem, err := ast.ParseJWCC(tc.input, complianceCapacity, nil)
			if err != nil {
				t.Errorf("%s: ParseJWCC: unexpected error: %v", tc.name, err)
			} else if !ast.Equal(v, mem, jv, jmem) {
				t.Errorf("%s: ParseJWCC: got %s, want %s", tc.name, ast.JSON(jv, jmem), ast.JSON(v, mem))
			}
		}
	})

	t.Run("Reject", func(t *testing.T) {
		for _, tc := range loadCases(t, "n_") {
			v, mem, err := ast.ParseReader(bytes.NewReader(tc.input), complianceCapacity, nil)
			var serr *jarena.SyntaxError
			switch {
			case err == nil:
				t.Errorf("%s: got %s, want error", tc.name, ast.JSON(v, mem))
			case !errors.As(err, &serr):
				t.Errorf("%s: got %T (%v), want *SyntaxError", tc.name, err, err)
			default:
				t.Logf("%s: %v", tc.name, err)
			}
		}
	})
}
