// Package slog provides logging decorators for tablepick interfaces.
package slog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/koume-z/tablepick"
)

// Ensure Fetcher implements tablepick.Fetcher at compile time.
var _ tablepick.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a tablepick.Fetcher with debug logging and page quality
// warnings (non-HTML responses, pages that appear to need JavaScript).
type Fetcher struct {
	next   tablepick.Fetcher
	logger *slog.Logger
}

// NewFetcher creates a new logging Fetcher.
func NewFetcher(next tablepick.Fetcher, logger *slog.Logger) *Fetcher {
	return &Fetcher{next: next, logger: logger}
}

// Fetch delegates to the wrapped fetcher, logging the outcome.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*tablepick.Page, error) {
	begin := time.Now()
	page, err := f.next.Fetch(ctx, url)
	if err != nil {
		f.logger.Error("fetch failed",
			"url", url,
			"duration", time.Since(begin),
			"error", err,
		)
		return nil, err
	}

	f.logger.Debug("fetch",
		"url", url,
		"finalURL", page.FinalURL,
		"bytes", len(page.HTML),
		"duration", time.Since(begin),
	)

	f.warnIfNotRenderable(page)

	return page, nil
}

// jsRequiredMessages are phrases pages show when they refuse to render
// without JavaScript.
var jsRequiredMessages = []string{
	"enable javascript",
	"requires javascript",
	"please enable javascript",
	"javascript is disabled",
}

// warnIfNotRenderable flags responses that are unlikely to contain usable
// static tables: non-HTML content types and pages that appear to build
// their content with JavaScript.
func (f *Fetcher) warnIfNotRenderable(page *tablepick.Page) {
	if page.ContentType != "" && !strings.Contains(strings.ToLower(page.ContentType), "text/html") {
		f.logger.Warn("response is not text/html",
			"url", page.FinalURL,
			"contentType", page.ContentType,
		)
		return
	}

	lower := strings.ToLower(page.HTML)
	for _, msg := range jsRequiredMessages {
		if strings.Contains(lower, msg) {
			f.logger.Warn("page appears to require JavaScript to render content",
				"url", page.FinalURL,
			)
			return
		}
	}

	// Script-heavy page with a short body: content is probably rendered
	// client-side.
	if strings.Count(lower, "<script") >= 10 && len(page.HTML) < 30_000 {
		f.logger.Warn("page may rely heavily on JavaScript for rendering",
			"url", page.FinalURL,
		)
	}
}
