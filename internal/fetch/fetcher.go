package fetch

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single page request end to end.
	DefaultTimeout = 30 * time.Second
	// DefaultInterval is the minimum spacing between request start slots.
	DefaultInterval = time.Second

	userAgent = "ContentRadar/1.0"
)

// Fetcher retrieves listing pages through one shared HTTP client while
// respecting a minimum inter-request interval across all callers.
//
// The limiter (burst 1) is the slot-reservation bookkeeping: concurrent
// callers each reserve a distinct start slot in O(1) under the limiter's
// internal lock, then sleep out their delay and perform the network call
// in parallel. N calls therefore take about (N-1)*interval plus one
// request latency, not N serialized requests.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
}

// New builds a fetcher with the given request timeout and minimum
// inter-request interval; non-positive values fall back to the defaults.
func New(timeout, interval time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Fetch reserves the next request slot, waits it out, and GETs the page.
// A 200 response is parsed into a document tree; any other status or
// transport error returns a nil document. No retry happens here.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (*goquery.Document, error) {
	reservation := f.limiter.ReserveN(time.Now(), 1)
	if !reservation.OK() {
		return nil, fmt.Errorf("reserve request slot for %s", pageURL)
	}

	// Sleep outside any lock so other callers can reserve their slots.
	if delay := reservation.Delay(); delay > 0 {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			reservation.Cancel()
			return nil, ctx.Err()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

// Close releases the client's pooled connections at run end.
func (f *Fetcher) Close() {
	f.client.CloseIdleConnections()
}
