package extract

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

const dateLayout = "2006-01-02"

// rssLayouts covers the RFC-822 family used by feed pubDate fields,
// with and without weekday and numeric zone.
var rssLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	time.RFC822Z,
	time.RFC822,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
	"2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 MST",
}

// NormalizeDate converts a heterogeneous date string into YYYY-MM-DD.
// It tries, in order: a digit-prefixed ISO date (first 10 characters),
// the RFC-822 feed formats, a fuzzy natural-language parse, and finally
// a legacy ctime-like substring. Every parse failure means "try the next
// form"; total failure returns the empty string. It never returns an error.
func NormalizeDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	if raw[0] >= '0' && raw[0] <= '9' && len(raw) >= len(dateLayout) {
		if t, err := time.Parse(dateLayout, raw[:len(dateLayout)]); err == nil {
			return t.Format(dateLayout)
		}
	}

	for _, layout := range rssLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(dateLayout)
		}
	}

	if t, err := dateparse.ParseAny(raw); err == nil {
		return t.Format(dateLayout)
	}

	// Legacy ctime-like strings ("Sun Jan 05 2025 ...") carry the date in
	// a fixed offset window.
	if len(raw) >= 16 {
		if t, err := time.Parse("Jan 2 2006", strings.TrimSpace(raw[4:16])); err == nil {
			return t.Format(dateLayout)
		}
	}

	return ""
}
