package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/koume-z/tablepick"
	"github.com/koume-z/tablepick/mock"
	tpslog "github.com/koume-z/tablepick/slog"
)

// Compile-time verification that Fetcher implements tablepick.Fetcher.
var _ tablepick.Fetcher = (*tpslog.Fetcher)(nil)

func newLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("delegates and logs the fetch", func(t *testing.T) {
		t.Parallel()

		page := &tablepick.Page{
			URL:         "https://example.com",
			FinalURL:    "https://example.com/",
			HTML:        "<html><table></table></html>",
			ContentType: "text/html",
		}
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*tablepick.Page, error) {
				return page, nil
			},
		}

		var buf bytes.Buffer
		fetcher := tpslog.NewFetcher(next, newLogger(&buf))

		got, err := fetcher.Fetch(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.Same(t, page, got)
		assert.Contains(t, buf.String(), "fetch")
		assert.Contains(t, buf.String(), "example.com")
	})

	t.Run("passes errors through and logs them", func(t *testing.T) {
		t.Parallel()

		wantErr := tablepick.Errorf(tablepick.EFETCHFAILED, "boom")
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*tablepick.Page, error) {
				return nil, wantErr
			},
		}

		var buf bytes.Buffer
		fetcher := tpslog.NewFetcher(next, newLogger(&buf))

		_, err := fetcher.Fetch(context.Background(), "https://example.com")
		require.Error(t, err)
		assert.True(t, errors.Is(err, wantErr))
		assert.Contains(t, buf.String(), "fetch failed")
	})

	t.Run("warns on non-HTML content type", func(t *testing.T) {
		t.Parallel()

		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*tablepick.Page, error) {
				return &tablepick.Page{
					FinalURL:    url,
					HTML:        `{"not": "html"}`,
					ContentType: "application/json",
				}, nil
			},
		}

		var buf bytes.Buffer
		fetcher := tpslog.NewFetcher(next, newLogger(&buf))

		_, err := fetcher.Fetch(context.Background(), "https://example.com/data")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "not text/html")
	})

	t.Run("warns when the page requires JavaScript", func(t *testing.T) {
		t.Parallel()

		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*tablepick.Page, error) {
				return &tablepick.Page{
					FinalURL:    url,
					HTML:        "<html><body>Please enable JavaScript to continue</body></html>",
					ContentType: "text/html",
				}, nil
			},
		}

		var buf bytes.Buffer
		fetcher := tpslog.NewFetcher(next, newLogger(&buf))

		_, err := fetcher.Fetch(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "JavaScript")
	})

	t.Run("warns on script-heavy short pages", func(t *testing.T) {
		t.Parallel()

		html := "<html><body>" + strings.Repeat("<script></script>", 10) + "</body></html>"
		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*tablepick.Page, error) {
				return &tablepick.Page{FinalURL: url, HTML: html, ContentType: "text/html"}, nil
			},
		}

		var buf bytes.Buffer
		fetcher := tpslog.NewFetcher(next, newLogger(&buf))

		_, err := fetcher.Fetch(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "rely heavily on JavaScript")
	})

	t.Run("no warning for an ordinary HTML page", func(t *testing.T) {
		t.Parallel()

		next := &mock.Fetcher{
			FetchFn: func(ctx context.Context, url string) (*tablepick.Page, error) {
				return &tablepick.Page{
					FinalURL:    url,
					HTML:        "<html><body><table><tr><td>x</td></tr></table></body></html>",
					ContentType: "text/html; charset=utf-8",
				}, nil
			},
		}

		var buf bytes.Buffer
		fetcher := tpslog.NewFetcher(next, newLogger(&buf))

		_, err := fetcher.Fetch(context.Background(), "https://example.com")
		require.NoError(t, err)
		assert.NotContains(t, buf.String(), "WARN")
	})
}
