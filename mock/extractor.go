package mock

import "github.com/koume-z/tablepick"

var _ tablepick.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of tablepick.Extractor.
type Extractor struct {
	ExtractFn func(html string) ([]*tablepick.Table, error)
}

func (e *Extractor) Extract(html string) ([]*tablepick.Table, error) {
	return e.ExtractFn(html)
}
