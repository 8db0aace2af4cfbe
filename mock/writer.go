package mock

import "github.com/koume-z/tablepick"

var _ tablepick.TableWriter = (*Writer)(nil)

// Writer is a mock implementation of tablepick.TableWriter.
type Writer struct {
	WriteTableFn func(index int, payload string, format tablepick.Format) (string, error)
}

func (w *Writer) WriteTable(index int, payload string, format tablepick.Format) (string, error) {
	return w.WriteTableFn(index, payload, format)
}
