// internal/report/format.go
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"syscall"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// Format selects how a view is rendered.
type Format string

const (
	Table    Format = "table"
	Markdown Format = "markdown"
	YAML     Format = "yaml"
	JSON     Format = "json"
)

// encoders serialise a view as a document; table formats are built per view.
var encoders = map[Format]func(w io.Writer, v any) error{
	YAML: func(w io.Writer, v any) error {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	},
	JSON: func(w io.Writer, v any) error {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	},
}

// Formats lists the accepted --format values.
func Formats() []string {
	out := []string{string(Table), string(Markdown)}
	for f := range encoders {
		out = append(out, string(f))
	}
	sort.Strings(out[2:])
	return out
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	switch f {
	case "":
		return Table, nil
	case Table, Markdown:
		return f, nil
	}
	if _, ok := encoders[f]; ok {
		return f, nil
	}
	return "", fmt.Errorf("report: unknown format %q (want %s)", s, strings.Join(Formats(), ", "))
}

// IsBrokenPipe reports whether err is a closed downstream pipe, as when
// output is piped into head.
func IsBrokenPipe(err error) bool {
	return err != nil && (errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe))
}

// grid is a table under construction.
type grid struct {
	w      table.Writer
	format Format
}

func newGrid(f Format, header ...any) *grid {
	w := table.NewWriter()
	if f == Table {
		w.SetStyle(table.StyleLight)
	}
	// Footers carry counts with lowercase outcome names.
	w.Style().Format.Footer = text.FormatDefault
	w.AppendHeader(table.Row(header))
	return &grid{w: w, format: f}
}

func (g *grid) row(vals ...any) { g.w.AppendRow(table.Row(vals)) }

func (g *grid) footer(vals ...any) { g.w.AppendFooter(table.Row(vals)) }

// alignRight right-aligns the given 1-based columns.
func (g *grid) alignRight(cols ...int) {
	cfgs := make([]table.ColumnConfig, len(cols))
	for i, c := range cols {
		cfgs[i] = table.ColumnConfig{Number: c, Align: text.AlignRight}
	}
	g.w.SetColumnConfigs(cfgs)
}

func (g *grid) write(w io.Writer) error {
	var s string
	if g.format == Markdown {
		s = g.w.RenderMarkdown()
	} else {
		s = g.w.Render()
	}
	_, err := io.WriteString(w, s+"\n")
	return err
}

// emit renders v with an encoder, or builds its table.
func emit(w io.Writer, f Format, v any, build func() *grid) error {
	if enc, ok := encoders[f]; ok {
		return enc(w, v)
	}
	return build().write(w)
}
