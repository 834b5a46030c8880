package extract

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ContentRadar/internal/domain"
	"ContentRadar/internal/ports"
)

const snippetLimit = 300

// WithTelemetry wraps an extractor so that a single malformed fragment
// produces a structured, loggable failure instead of crashing the batch.
// Errors and panics from the inner extractor are logged with a bounded
// fragment snippet, reported best-effort to the telemetry sink, and then
// propagated so the collector can decide to skip the fragment.
func WithTelemetry(ctx context.Context, fn Func, siteName string, sink ports.TelemetrySink, logger *slog.Logger) Func {
	return func(fragment *goquery.Selection) (result domain.Extraction, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("extractor panic: %v", r)
				reportExtractionFailure(ctx, siteName, fragment, err, string(debug.Stack()), sink, logger)
			}
		}()

		result, err = fn(fragment)
		if err != nil {
			reportExtractionFailure(ctx, siteName, fragment, err, "", sink, logger)
		}
		return result, err
	}
}

func reportExtractionFailure(ctx context.Context, siteName string, fragment *goquery.Selection, cause error, stack string, sink ports.TelemetrySink, logger *slog.Logger) {
	snippet := fragmentSnippet(fragment)
	link := fragmentLink(fragment)

	if logger != nil {
		logger.Error("extract article",
			"site", siteName,
			"error", cause,
			"link", link,
			"snippet", snippet,
			"stack", stack)
	}

	if sink == nil {
		return
	}

	event := domain.NewFailureEvent(strings.ToLower(siteName), domain.ErrorExtractionFailed, cause.Error(), link)
	event.Metadata = map[string]string{"article_snippet": snippet}
	event.Stack = stack
	// A telemetry failure must never mask the original extraction error.
	if reportErr := sink.ReportFailure(ctx, event); reportErr != nil && logger != nil {
		logger.Warn("report extraction failure", "site", siteName, "error", reportErr)
	}
}

// fragmentSnippet renders a bounded, newline-collapsed view of the
// offending fragment for log and ticket context.
func fragmentSnippet(fragment *goquery.Selection) string {
	raw, err := goquery.OuterHtml(fragment)
	if err != nil {
		return "<unavailable>"
	}
	raw = strings.ReplaceAll(raw, "\n", " ")
	if len(raw) > snippetLimit {
		raw = raw[:snippetLimit]
	}
	return raw
}

// fragmentLink digs the fragment's own link out for context: an anchor
// href for HTML fragments, the <link> text (or its trailing text node)
// for feed items.
func fragmentLink(fragment *goquery.Selection) string {
	if href, ok := fragment.Find("a").First().Attr("href"); ok && href != "" {
		return href
	}
	if linkEl := fragment.Find("link").First(); linkEl.Length() > 0 {
		if text := strings.TrimSpace(linkEl.Text()); text != "" {
			return text
		}
		if sibling := linkEl.Get(0).NextSibling; sibling != nil && sibling.Type == html.TextNode {
			if text := strings.TrimSpace(sibling.Data); text != "" {
				return text
			}
		}
	}
	return "unknown"
}
