// Package http provides an HTTP-based implementation of tablepick.Fetcher
// with bounded retries, manual redirect following, and charset decoding.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/koume-z/tablepick"
)

// Defaults for the fetch policy.
const (
	DefaultTimeout       = 10 * time.Second
	DefaultRetries       = 0
	DefaultRetryInterval = 10 * time.Second
	DefaultMaxRedirects  = 3
)

// DefaultUserAgent identifies the tool to servers.
var DefaultUserAgent = "tablepick/" + tablepick.Version

// Ensure Fetcher implements tablepick.Fetcher at compile time.
var _ tablepick.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves pages using HTTP GET requests. Redirects are followed
// manually so the hop limit and loop detection are under our control rather
// than the client's. Each attempt is subject to the configured timeout; a
// request that fails on the transport or returns a 5xx is retried up to the
// configured count with a fixed interval between attempts. 4xx responses
// are never retried.
type Fetcher struct {
	client        *http.Client
	timeout       time.Duration
	retries       int
	retryInterval time.Duration
	maxRedirects  int
	userAgent     string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the per-attempt timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithRetries sets the number of additional attempts after a retryable
// failure. Defaults to DefaultRetries.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithRetryInterval sets the fixed delay between attempts.
// Defaults to DefaultRetryInterval.
func WithRetryInterval(d time.Duration) Option {
	return func(f *Fetcher) {
		f.retryInterval = d
	}
}

// WithMaxRedirects sets the maximum number of redirect hops to follow.
// Defaults to DefaultMaxRedirects.
func WithMaxRedirects(n int) Option {
	return func(f *Fetcher) {
		f.maxRedirects = n
	}
}

// WithUserAgent sets the User-Agent header sent with each request.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:       DefaultTimeout,
		retries:       DefaultRetries,
		retryInterval: DefaultRetryInterval,
		maxRedirects:  DefaultMaxRedirects,
		userAgent:     DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// Redirects are followed manually in Fetch.
			return http.ErrUseLastResponse
		},
	}

	return f
}

// Fetch retrieves the page at rawURL, following redirects up to the
// configured limit and retrying transient failures.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*tablepick.Page, error) {
	if err := tablepick.ValidateURL(rawURL); err != nil {
		return nil, err
	}

	current := rawURL
	visited := map[string]bool{rawURL: true}

	for redirects := 0; ; {
		resp, err := f.do(ctx, current)
		if err != nil {
			return nil, err
		}

		if location := redirectLocation(resp); location != "" {
			drain(resp)

			if redirects >= f.maxRedirects {
				return nil, tablepick.Errorf(tablepick.ETOOMANYREDIRECTS,
					"too many redirects (>%d), last URL attempted: %s", f.maxRedirects, current)
			}

			next, err := resolveLocation(current, location)
			if err != nil {
				return nil, tablepick.WrapErrorf(err, tablepick.EFETCHFAILED,
					"invalid redirect Location %q from %s", location, current)
			}
			if visited[next] {
				return nil, tablepick.Errorf(tablepick.ETOOMANYREDIRECTS,
					"redirect loop detected at %s", next)
			}
			visited[next] = true
			current = next
			redirects++
			continue
		}

		if resp.StatusCode >= 400 {
			drain(resp)
			return nil, tablepick.Errorf(tablepick.EFETCHFAILED,
				"HTTP %d for %s", resp.StatusCode, current)
		}

		contentType := resp.Header.Get("Content-Type")
		body, err := decodeBody(resp)
		if err != nil {
			return nil, tablepick.WrapErrorf(err, tablepick.EFETCHFAILED,
				"failed reading response body from %s", current)
		}

		return &tablepick.Page{
			URL:         rawURL,
			FinalURL:    current,
			HTML:        body,
			ContentType: contentType,
		}, nil
	}
}

// do performs a single GET with the retry policy: transport errors and 5xx
// responses are retried with a fixed interval, up to retries additional
// attempts. The returned response body is open.
func (f *Fetcher) do(ctx context.Context, url string) (*http.Response, error) {
	maxAttempts := f.retries + 1

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, tablepick.WrapErrorf(ctx.Err(), tablepick.EFETCHFAILED, "fetch canceled: %s", url)
			case <-time.After(f.retryInterval):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, tablepick.WrapErrorf(err, tablepick.EFETCHFAILED, "failed to build request for %s", url)
		}
		req.Header.Set("User-Agent", f.userAgent)

		resp, err := f.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			drain(resp)
			continue
		}

		return resp, nil
	}

	return nil, tablepick.WrapErrorf(lastErr, tablepick.EFETCHFAILED,
		"fetch failed after %d attempt(s): %s", maxAttempts, url)
}

// redirectLocation returns the Location header for 3xx responses, or the
// empty string when the response is not a followable redirect. A 3xx
// without Location is treated as a final response, matching common client
// behavior.
func redirectLocation(resp *http.Response) string {
	if resp.StatusCode < 300 || resp.StatusCode >= 400 {
		return ""
	}
	return resp.Header.Get("Location")
}

// resolveLocation resolves a possibly relative Location against the
// current request URL.
func resolveLocation(current, location string) (string, error) {
	base, err := url.Parse(current)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(ref).String(), nil
}

// decodeBody reads the response body and converts it to UTF-8 based on the
// Content-Type header and in-document charset declarations.
func decodeBody(resp *http.Response) (string, error) {
	defer resp.Body.Close()

	reader, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// drain discards and closes a response body so the connection can be reused.
func drain(resp *http.Response) {
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
