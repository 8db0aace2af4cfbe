package mock

import (
	"context"

	"github.com/koume-z/tablepick"
)

var _ tablepick.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of tablepick.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (*tablepick.Page, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (*tablepick.Page, error) {
	return f.FetchFn(ctx, url)
}
