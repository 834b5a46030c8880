package strategy

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ContentRadar/internal/config"
)

func docFrom(t *testing.T, html string) *goquery.Document {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

func TestResolveDefaultsToHTML(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	handler, err := resolver.Resolve(context.Background(), config.ProviderConfig{
		Name:    "Example",
		URL:     "https://example.com/blog",
		Element: "article",
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	doc := docFrom(t, `
	<article><h2><a href="/p/1">A Reasonably Long Title</a></h2></article>
	<article><h2><a href="/p/2">Another Reasonably Long Title</a></h2></article>`)

	fragments, err := handler.Criteria.Select(doc)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if fragments.Length() != 2 {
		t.Fatalf("expected 2 fragments, got %d", fragments.Length())
	}

	result, err := handler.Extract(fragments.First())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if result.Title != "A Reasonably Long Title" {
		t.Fatalf("unexpected title: %q", result.Title)
	}
	if result.Link != "https://example.com/p/1" {
		t.Fatalf("unexpected link: %q", result.Link)
	}
}

func TestResolveParsesJSONDescriptor(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	handler, err := resolver.Resolve(context.Background(), config.ProviderConfig{
		Name:     "Example",
		Strategy: "html",
		Element:  `{"container": ".post", "date_selector": ".when"}`,
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	doc := docFrom(t, `
	<div class="post">
	  <h2><a href="https://example.com/p">A Reasonably Long Title</a></h2>
	  <span class="when">2025-05-20</span>
	  <time datetime="2024-01-01">older</time>
	</div>
	<aside>ignored</aside>`)

	fragments, err := handler.Criteria.Select(doc)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if fragments.Length() != 1 {
		t.Fatalf("expected 1 fragment, got %d", fragments.Length())
	}

	result, err := handler.Extract(fragments.First())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if result.Date != "2025-05-20" {
		t.Fatalf("explicit date selector not honored: %q", result.Date)
	}
}

func TestResolveRSSCriteriaIncludesItemTag(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	handler, err := resolver.Resolve(context.Background(), config.ProviderConfig{
		Name:     "Feed",
		Strategy: "rss",
		Element:  "entry",
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	doc := docFrom(t, `
	<entry><title>From The Entry Tag</title></entry>
	<item><title>From The Item Tag</title><link>https://example.com/i</link></item>`)

	fragments, err := handler.Criteria.Select(doc)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if fragments.Length() != 2 {
		t.Fatalf("expected both entry and item fragments, got %d", fragments.Length())
	}
}

func TestResolveSubstackClassPattern(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	handler, err := resolver.Resolve(context.Background(), config.ProviderConfig{
		Name:     "Letters",
		Strategy: "substack",
		Element:  "portable-archive-post",
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	doc := docFrom(t, `
	<div class="portable-archive-post first"><a data-testid="post-preview-title" href="/p/a">A</a><time datetime="2025-01-01">x</time></div>
	<div class="Portable-Archive-Post"><a data-testid="post-preview-title" href="/p/b">B</a><time datetime="2025-01-02">x</time></div>
	<div class="unrelated">c</div>`)

	fragments, err := handler.Criteria.Select(doc)
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	// The class pattern match is case-sensitive.
	if fragments.Length() != 1 {
		t.Fatalf("expected 1 fragment, got %d", fragments.Length())
	}
}

func TestResolveUnknownStrategy(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	_, err := resolver.Resolve(context.Background(), config.ProviderConfig{
		Name:     "Example",
		Strategy: "atom",
	})
	if !errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("expected ErrUnknownStrategy, got %v", err)
	}
}

func TestResolveBadClassPatternFailsProvider(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	_, err := resolver.Resolve(context.Background(), config.ProviderConfig{
		Name:     "Letters",
		Strategy: "substack",
		Element:  "(",
	})
	if err == nil {
		t.Fatalf("expected error for malformed class pattern")
	}
	if errors.Is(err, ErrUnknownStrategy) {
		t.Fatalf("malformed pattern must not look like an unknown strategy")
	}
}

func TestCriteriaSelectRejectsMalformedSelector(t *testing.T) {
	t.Parallel()

	resolver := NewResolver(nil, nil)
	handler, err := resolver.Resolve(context.Background(), config.ProviderConfig{
		Name:    "Example",
		Element: "[[broken",
	})
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if _, err := handler.Criteria.Select(docFrom(t, `<article></article>`)); err == nil {
		t.Fatalf("expected error for malformed selector")
	}
}
