package tablepick

import (
	"fmt"
	"regexp"
	"strings"
)

// TableWriter writes one serialized table payload to durable storage.
type TableWriter interface {
	// WriteTable writes the payload for the table at the given 1-based
	// document-order index and returns the path it was written to.
	WriteTable(index int, payload string, format Format) (path string, err error)
}

// TableFilename returns the output filename for a table: the sanitized base
// name, a zero-padded 1-based index, and the format's extension.
// Example: TableFilename("wiki", 3, FormatCSV) == "wiki_table03.csv".
func TableFilename(base string, index int, format Format) string {
	return fmt.Sprintf("%s_table%02d.%s", SanitizeFilenameBase(base), index, format.Ext())
}

var (
	unsafeFilenameChars = regexp.MustCompile(`[<>:"/\\|?*]+`)
	filenameWhitespace  = regexp.MustCompile(`\s+`)
	repeatedUnderscores = regexp.MustCompile(`_+`)
)

// SanitizeFilenameBase makes s safe to use as a filename stem across
// operating systems. Unsafe characters and whitespace collapse to single
// underscores; leading/trailing dots and spaces are stripped; an empty
// result falls back to "tablepick".
func SanitizeFilenameBase(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "tablepick"
	}
	s = unsafeFilenameChars.ReplaceAllString(s, "_")
	s = filenameWhitespace.ReplaceAllString(s, "_")
	s = strings.Trim(s, " .")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	if s == "" {
		return "tablepick"
	}
	return s
}
