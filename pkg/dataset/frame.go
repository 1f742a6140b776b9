package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Frame is an in-memory, column-named materialization of relation rows.
// It is the plain-Go stand-in for a dataframe: good enough to inspect,
// render, or feed into further processing.
type Frame struct {
	Columns []string
	Rows    []Row
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Rows)
}

// Records returns the rows as column-keyed maps. Byte slices are
// converted to strings for readability.
func (f *Frame) Records() []map[string]any {
	records := make([]map[string]any, len(f.Rows))
	for i, row := range f.Rows {
		record := make(map[string]any, len(f.Columns))
		for j, col := range f.Columns {
			val := row[j]
			if b, ok := val.([]byte); ok {
				val = string(b)
			}
			record[col] = val
		}
		records[i] = record
	}
	return records
}

// String renders the frame as a text table.
func (f *Frame) String() string {
	var b strings.Builder
	_ = f.renderTable(&b)
	return b.String()
}

// Render writes the frame in the given format: "table" (default),
// "json", "csv" or "md".
func (f *Frame) Render(w io.Writer, format string) error {
	switch format {
	case "json":
		return f.renderJSON(w)
	case "csv":
		return f.renderCSV(w)
	case "md", "markdown":
		return f.renderMarkdown(w)
	default:
		return f.renderTable(w)
	}
}

func (f *Frame) renderTable(w io.Writer) error {
	if len(f.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := make(table.Row, len(f.Columns))
	for i, col := range f.Columns {
		headerRow[i] = col
	}
	t.AppendHeader(headerRow)

	for _, row := range f.Rows {
		out := make(table.Row, len(f.Columns))
		for i := range f.Columns {
			out[i] = formatValue(row[i])
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", len(f.Rows))
	return nil
}

func (f *Frame) renderJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(f.Records())
}

func (f *Frame) renderCSV(w io.Writer) error {
	_, _ = fmt.Fprintln(w, strings.Join(f.Columns, ","))
	for _, row := range f.Rows {
		values := make([]string, len(f.Columns))
		for i := range f.Columns {
			values[i] = escapeCSV(formatValue(row[i]))
		}
		_, _ = fmt.Fprintln(w, strings.Join(values, ","))
	}
	return nil
}

func (f *Frame) renderMarkdown(w io.Writer) error {
	if len(f.Rows) == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(f.Columns, " | "))
	seps := make([]string, len(f.Columns))
	for i := range seps {
		seps[i] = "---"
	}
	_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(seps, " | "))

	for _, row := range f.Rows {
		values := make([]string, len(f.Columns))
		for i := range f.Columns {
			values[i] = formatValue(row[i])
		}
		_, _ = fmt.Fprintf(w, "| %s |\n", strings.Join(values, " | "))
	}
	return nil
}

func formatValue(v any) string {
	if v == nil {
		return "NULL"
	}
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return fmt.Sprintf("%v", v)
}

func escapeCSV(s string) string {
	if strings.ContainsAny(s, ",\"\n") {
		return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
	}
	return s
}
