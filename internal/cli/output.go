package cli

import (
	"bytes"
	"fmt"
	"io"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/goccy/go-json"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/studiowebux/adminctl/internal/query"
)

// Output formats
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Printer writes command results in the selected format
type Printer struct {
	w      io.Writer
	format string
	color  bool
	query  *query.Expression
}

// NewPrinter creates a Printer. color enables JSON highlighting.
func NewPrinter(w io.Writer, format string, color bool) *Printer {
	if format == "" {
		format = FormatTable
	}
	return &Printer{w: w, format: format, color: color}
}

// WithQuery narrows every printed value with q. A query result has no
// table layout, so the table format prints it as JSON.
func (p *Printer) WithQuery(q *query.Expression) *Printer {
	p.query = q
	if q != nil && p.format == FormatTable {
		p.format = FormatJSON
	}
	return p
}

// Print writes v as JSON or YAML, or calls render for the table format
func (p *Printer) Print(v any, render func(t table.Writer)) error {
	if p.query != nil {
		out, err := p.query.Apply(v)
		if err != nil {
			return err
		}
		v = out
	}

	switch p.format {
	case FormatJSON:
		return p.printJSON(v)
	case FormatYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		_, err = p.w.Write(data)
		return err
	default:
		t := table.NewWriter()
		t.SetOutputMirror(p.w)
		t.SetStyle(table.StyleLight)
		render(t)
		t.Render()
		return nil
	}
}

func (p *Printer) printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode json: %w", err)
	}
	data = append(data, '\n')

	if p.color {
		var buf bytes.Buffer
		if err := quick.Highlight(&buf, string(data), "json", "terminal256", "monokai"); err == nil {
			_, err = p.w.Write(buf.Bytes())
			return err
		}
	}
	_, err = p.w.Write(data)
	return err
}

// Line prints a plain line in table format only
func (p *Printer) Line(format string, args ...any) {
	if p.format == FormatTable {
		fmt.Fprintf(p.w, format+"\n", args...)
	}
}
