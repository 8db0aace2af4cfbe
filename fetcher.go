package tablepick

import (
	"context"
	"net/url"
)

// Page represents a fetched web page.
type Page struct {
	// URL is the URL the fetch was requested for.
	URL string

	// FinalURL is the URL that produced the body, after redirects.
	FinalURL string

	// HTML is the page body decoded to UTF-8.
	HTML string

	// ContentType is the Content-Type header of the final response.
	ContentType string
}

// Fetcher retrieves a single web page over HTTP.
type Fetcher interface {
	// Fetch performs a GET for the URL and returns the page.
	// The context controls cancellation across retries and redirects.
	Fetch(ctx context.Context, url string) (*Page, error)
}

// ValidateURL checks that raw is an absolute http or https URL with a host.
// It returns an EINVALIDURL error otherwise. Called before any network I/O.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return WrapErrorf(err, EINVALIDURL, "invalid URL %q", raw)
	}
	if u.Scheme == "" {
		return Errorf(EINVALIDURL, "URL scheme is missing, specify a full URL including scheme (e.g., https://example.com)")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Errorf(EINVALIDURL, "unsupported URL scheme %q, only http and https are allowed", u.Scheme)
	}
	if u.Host == "" {
		return Errorf(EINVALIDURL, "invalid URL %q: host is missing", raw)
	}
	return nil
}
