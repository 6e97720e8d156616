// core/tsv/reader.go
package tsv

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
)

const maxLine = 64 * 1024 * 1024

// ParseError locates malformed input.
type ParseError struct {
	Path  string
	Line  int
	Field string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s:%d: field %s: %v", e.Path, e.Line, e.Field, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLine)
	return sc
}

// ScanLines calls fn for every line of path (1-based line numbers). It
// checks ctx between lines.
func ScanLines(ctx context.Context, path string, fn func(n int, line string) error) error {
	rc, err := Open(path)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	sc := newScanner(rc)
	n := 0
	for sc.Scan() {
		n++
		if n%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if err := fn(n, sc.Text()); err != nil {
			return err
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// ReadTable reads a header-bearing file. header is called once with the
// parsed schema (empty for an empty file) and row once per body line with
// its split fields. Blank body lines are skipped.
func ReadTable(ctx context.Context, path, delim string, header func(Schema) error, row func(n int, fields []string) error) error {
	seen := false
	err := ScanLines(ctx, path, func(n int, line string) error {
		if !seen {
			seen = true
			return header(ParseHeader(line, delim))
		}
		if line == "" {
			return nil
		}
		return row(n, Split(line, delim))
	})
	if err != nil {
		return err
	}
	if !seen {
		return header(Schema{Delim: delim, index: map[string]int{}})
	}
	return nil
}

// Float parses a numeric field, reporting where it failed.
func Float(path string, line int, field, s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParseError{Path: path, Line: line, Field: field, Err: err}
	}
	return v, nil
}
