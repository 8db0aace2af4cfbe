package tablepick

import (
	"fmt"
	"strings"
	"unicode/utf16"
)

// Format is an output serialization format.
type Format string

// Supported output formats.
const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Ext returns the file extension for the format, without the dot.
func (f Format) Ext() string {
	return string(f)
}

// JSONOptions controls JSON serialization.
type JSONOptions struct {
	// Indent is the number of spaces per nesting level.
	// Zero or negative produces compact output.
	Indent int

	// EnsureASCII escapes all non-ASCII characters as \uXXXX sequences.
	EnsureASCII bool
}

// Serialize converts a table to text in the given format. It is a pure
// function: the same table and options always produce identical output.
func Serialize(t *Table, format Format, opts JSONOptions) (string, error) {
	switch format {
	case FormatCSV:
		return ToCSV(t), nil
	case FormatJSON:
		return ToJSON(t, opts), nil
	default:
		return "", Errorf(EINTERNAL, "unsupported output format %q (expected csv or json)", format)
	}
}

// ToCSV serializes the table as CSV: header row first, one line per data
// row, fields quoted when they contain the delimiter, a quote, or a line
// break. Lines are joined with \n and there is no trailing newline; writers
// append one.
func ToCSV(t *Table) string {
	lines := make([]string, 0, len(t.Rows)+1)
	lines = append(lines, csvLine(t.Header))
	for _, row := range t.Rows {
		lines = append(lines, csvLine(row))
	}
	return strings.Join(lines, "\n")
}

func csvLine(fields []string) string {
	escaped := make([]string, len(fields))
	for i, field := range fields {
		escaped[i] = csvField(field)
	}
	return strings.Join(escaped, ",")
}

func csvField(value string) string {
	if !strings.ContainsAny(value, ",\"\n\r") {
		return value
	}
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

// ToJSON serializes the table as a JSON array of row objects. Object keys
// are the header names in header order; duplicate headers follow the
// Records policy (first-occurrence position, last-occurrence value).
func ToJSON(t *Table, opts JSONOptions) string {
	records := t.Records()

	var b strings.Builder
	if len(records) == 0 {
		return "[]"
	}

	indent := opts.Indent
	if indent < 0 {
		indent = 0
	}

	nl, pad, pad2 := "", "", ""
	if indent > 0 {
		nl = "\n"
		pad = strings.Repeat(" ", indent)
		pad2 = pad + pad
	}

	b.WriteString("[")
	for i, record := range records {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(nl)
		b.WriteString(pad)
		b.WriteString("{")
		for j, field := range record {
			if j > 0 {
				b.WriteString(",")
			}
			b.WriteString(nl)
			b.WriteString(pad2)
			b.WriteString(encodeJSONString(field.Key, opts.EnsureASCII))
			b.WriteString(":")
			if indent > 0 {
				b.WriteString(" ")
			}
			b.WriteString(encodeJSONString(field.Value, opts.EnsureASCII))
		}
		if len(record) > 0 {
			b.WriteString(nl)
			b.WriteString(pad)
		}
		b.WriteString("}")
	}
	b.WriteString(nl)
	b.WriteString("]")
	return b.String()
}

// encodeJSONString quotes and escapes s as a JSON string literal.
// With ensureASCII, every rune outside the ASCII range is written as a
// \uXXXX escape (surrogate pairs for runes above the BMP).
func encodeJSONString(s string, ensureASCII bool) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			switch {
			case r < 0x20:
				fmt.Fprintf(&b, `\u%04x`, r)
			case r < 0x80 || !ensureASCII:
				b.WriteRune(r)
			case r > 0xFFFF:
				hi, lo := utf16.EncodeRune(r)
				fmt.Fprintf(&b, `\u%04x\u%04x`, hi, lo)
			default:
				fmt.Fprintf(&b, `\u%04x`, r)
			}
		}
	}
	b.WriteByte('"')
	return b.String()
}
