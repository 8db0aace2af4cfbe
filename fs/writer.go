// Package fs provides file-based output for serialized tables.
package fs

import (
	"os"
	"path/filepath"

	"github.com/koume-z/tablepick"
)

// Ensure Writer implements tablepick.TableWriter at compile time.
var _ tablepick.TableWriter = (*Writer)(nil)

// Writer writes one file per table into a directory. Files are written to
// a temporary name first and renamed into place, so a failed write leaves
// no partial file behind. An existing file at the target path is
// overwritten.
type Writer struct {
	dir  string
	base string
}

// NewWriter creates a Writer that writes {base}_table{NN}.{ext} files
// into dir. The directory is created on the first write if absent.
func NewWriter(dir, base string) *Writer {
	return &Writer{dir: dir, base: base}
}

// WriteTable writes the payload for the table at the given 1-based index
// and returns the path written. Output is UTF-8 with \n line endings and
// a trailing newline.
func (w *Writer) WriteTable(index int, payload string, format tablepick.Format) (string, error) {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return "", tablepick.WrapErrorf(err, tablepick.EWRITEFAILED, "failed to create output directory %s", w.dir)
	}

	name := tablepick.TableFilename(w.base, index, format)
	path := filepath.Join(w.dir, name)

	if payload == "" || payload[len(payload)-1] != '\n' {
		payload += "\n"
	}

	tmp, err := os.CreateTemp(w.dir, name+".tmp*")
	if err != nil {
		return "", tablepick.WrapErrorf(err, tablepick.EWRITEFAILED, "failed to create temporary file in %s", w.dir)
	}
	tmpName := tmp.Name()

	if _, err := tmp.WriteString(payload); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", tablepick.WrapErrorf(err, tablepick.EWRITEFAILED, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", tablepick.WrapErrorf(err, tablepick.EWRITEFAILED, "failed to write %s", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return "", tablepick.WrapErrorf(err, tablepick.EWRITEFAILED, "failed to move %s into place", path)
	}

	return path, nil
}
