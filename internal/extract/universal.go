package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ContentRadar/internal/domain"
)

// untitledMarker is emitted when a fragment contains no anchor at all.
const untitledMarker = "<untitled>"

// Config narrows the universal extractor to provider-supplied selectors.
// Absent fields fall back to the heuristics.
type Config struct {
	Container     string `json:"container"`
	TitleSelector string `json:"title_selector"`
	DateSelector  string `json:"date_selector"`
}

// Func turns one article-like fragment into a raw extraction result.
type Func func(fragment *goquery.Selection) (domain.Extraction, error)

var (
	titleClassExpr    = regexp.MustCompile(`(?i)title|headline|link|entry`)
	categoryHrefExpr  = regexp.MustCompile(`(?i)category|tag|topic`)
	taxonomyHrefExpr  = regexp.MustCompile(`(?i)category|tag|topic|author`)
	headerTags        = []string{"h1", "h2", "h3", "h4"}
	dateAttrs         = []string{"pubdate", "data-date", "data-published", "content"}
	dateClassExprs    = []*regexp.Regexp{
		regexp.MustCompile(`(?i)date`),
		regexp.MustCompile(`(?i)time`),
		regexp.MustCompile(`(?i)meta`),
		regexp.MustCompile(`(?i)published`),
		regexp.MustCompile(`(?i)post-date`),
	}
	isoDateExpr      = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	monthFirstExpr   = regexp.MustCompile(`\b(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`)
	dayFirstExpr     = regexp.MustCompile(`\b\d{1,2}\s+(?i:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+\d{4}\b`)
	genericLinkTexts = map[string]struct{}{"read more": {}, "continue reading": {}}
)

// Universal builds the configuration-driven heuristic extractor for an
// HTML provider: link-first title discovery plus 5-tier date discovery.
// Relative hrefs are resolved against providerURL.
func Universal(cfg Config, providerURL string) Func {
	return func(fragment *goquery.Selection) (domain.Extraction, error) {
		title, link := extractTitleLink(fragment, cfg, providerURL)
		date, tier := extractDate(fragment, cfg)
		return domain.Extraction{Date: date, Title: title, Link: link, Tier: tier}, nil
	}
}

// extractTitleLink evaluates the link-first heuristic in strict priority
// order; the first rule that matches wins.
func extractTitleLink(fragment *goquery.Selection, cfg Config, providerURL string) (string, string) {
	// 1. Explicit title selector from provider config.
	if cfg.TitleSelector != "" {
		if el := fragment.Find(cfg.TitleSelector).First(); el.Length() > 0 {
			anchor := el
			if !el.Is("a") {
				anchor = el.Find("a").First()
			}
			if anchor.Length() > 0 {
				href, _ := anchor.Attr("href")
				return strings.TrimSpace(el.Text()), normalizeHref(href, providerURL)
			}
			return strings.TrimSpace(el.Text()), ""
		}
	}

	// 2. Headers h1..h4 that contain a substantial anchor.
	for _, tag := range headerTags {
		var title, link string
		fragment.Find(tag).EachWithBreak(func(_ int, header *goquery.Selection) bool {
			anchor := header.Find("a").First()
			text := strings.TrimSpace(anchor.Text())
			if anchor.Length() > 0 && len(text) > 5 {
				href, _ := anchor.Attr("href")
				title, link = text, normalizeHref(href, providerURL)
				return false
			}
			return true
		})
		if title != "" {
			return title, link
		}
	}

	// 3. Anchors whose class names suggest a title or entry link;
	// category links and short noise are filtered out.
	var title, link string
	fragment.Find("a").EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		class, _ := anchor.Attr("class")
		if !titleClassExpr.MatchString(class) {
			return true
		}
		text := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		if len(text) > 10 && !strings.Contains(text, "&") && !categoryHrefExpr.MatchString(href) {
			title, link = text, normalizeHref(href, providerURL)
			return false
		}
		return true
	})
	if title != "" {
		return title, link
	}

	// 4. First anchor with substantial text, skipping generic phrases,
	// taxonomy links, and breadcrumbs.
	anchors := fragment.Find("a")
	anchors.EachWithBreak(func(_ int, anchor *goquery.Selection) bool {
		text := strings.TrimSpace(anchor.Text())
		href, _ := anchor.Attr("href")
		if _, generic := genericLinkTexts[strings.ToLower(text)]; generic {
			return true
		}
		if len(text) > 15 && !taxonomyHrefExpr.MatchString(href) && !strings.Contains(text, "&") {
			title, link = text, normalizeHref(href, providerURL)
			return false
		}
		return true
	})
	if title != "" {
		return title, link
	}

	// 5. Absolute fallback: the first anchor, regardless of text quality.
	if first := anchors.First(); first.Length() > 0 {
		href, _ := first.Attr("href")
		return strings.TrimSpace(first.Text()), normalizeHref(href, providerURL)
	}

	return untitledMarker, ""
}

// normalizeHref resolves relative links against the provider URL;
// absolute links pass through unchanged.
func normalizeHref(href, providerURL string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if providerURL == "" {
		return href
	}
	base, err := url.Parse(providerURL)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}

// extractDate runs the 5-tier date discovery; the first tier whose raw
// candidate normalizes successfully wins.
func extractDate(fragment *goquery.Selection, cfg Config) (string, domain.Tier) {
	// Tier 1: explicit selector from provider config.
	if cfg.DateSelector != "" {
		if el := fragment.Find(cfg.DateSelector).First(); el.Length() > 0 {
			if date := NormalizeDate(attrOrText(el, "datetime")); date != "" {
				return date, domain.TierConfigSelector
			}
		}
	}

	// Tier 2: semantic <time> element.
	if el := fragment.Find("time").First(); el.Length() > 0 {
		if date := NormalizeDate(attrOrText(el, "datetime")); date != "" {
			return date, domain.TierTimeElement
		}
	}

	// Tier 3: common date-bearing attributes. Only the first element
	// carrying each attribute is considered.
	for _, attr := range dateAttrs {
		if el := fragment.Find("[" + attr + "]").First(); el.Length() > 0 {
			value, _ := el.Attr(attr)
			if date := NormalizeDate(value); date != "" {
				return date, domain.TierAttribute
			}
		}
	}

	// Tier 4: date-ish class names.
	for _, expr := range dateClassExprs {
		el := firstByClass(fragment, expr)
		if el != nil {
			if date := NormalizeDate(el.Text()); date != "" {
				return date, domain.TierClassName
			}
		}
	}

	// Tier 5: scan the full fragment text for a date-like pattern.
	if date := scanForDate(fragment.Text()); date != "" {
		return date, domain.TierTextScan
	}

	return "", domain.TierNone
}

// attrOrText prefers the named attribute and falls back to the element text.
func attrOrText(el *goquery.Selection, attr string) string {
	if value, ok := el.Attr(attr); ok && value != "" {
		return value
	}
	return el.Text()
}

// firstByClass returns the first descendant whose class attribute matches
// the expression, or nil when none does.
func firstByClass(fragment *goquery.Selection, expr *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	fragment.Find("[class]").EachWithBreak(func(_ int, el *goquery.Selection) bool {
		class, _ := el.Attr("class")
		if expr.MatchString(class) {
			found = el
			return false
		}
		return true
	})
	return found
}

// scanForDate pulls the first date-like substring out of free text and
// normalizes it.
func scanForDate(text string) string {
	for _, expr := range []*regexp.Regexp{isoDateExpr, monthFirstExpr, dayFirstExpr} {
		if match := expr.FindString(text); match != "" {
			if date := NormalizeDate(match); date != "" {
				return date
			}
		}
	}
	return ""
}
