package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"ContentRadar/internal/domain"
)

func fragmentFrom(t *testing.T, html string) *goquery.Selection {
	t.Helper()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	fragment := doc.Find("body").Children().First()
	if fragment.Length() == 0 {
		t.Fatalf("fixture has no fragment element")
	}
	return fragment
}

func TestUniversalPrefersClassMatchedAnchor(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<div class="post">
	  <a href="/short">Short</a>
	  <a class="main-link" href="/target-article">How to Build a Production-Grade Chatroom in Go</a>
	</div>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Title != "How to Build a Production-Grade Chatroom in Go" {
		t.Fatalf("unexpected title: %q", result.Title)
	}
	if result.Link != "/target-article" {
		t.Fatalf("unexpected link: %q", result.Link)
	}
}

func TestUniversalHeaderAnchorWins(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <a class="category-link" href="/category/go">Go</a>
	  <h2><a href="https://example.com/p/1">Interesting Post Title</a></h2>
	</article>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Title != "Interesting Post Title" {
		t.Fatalf("unexpected title: %q", result.Title)
	}
	if result.Link != "https://example.com/p/1" {
		t.Fatalf("unexpected link: %q", result.Link)
	}
}

func TestUniversalTitleSelectorOverridesHeuristics(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <h2><a href="/wrong">Some Other Heading Text</a></h2>
	  <div class="hdr"><a href="/right">Configured</a></div>
	</article>`)

	result, err := Universal(Config{TitleSelector: ".hdr"}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Title != "Configured" {
		t.Fatalf("unexpected title: %q", result.Title)
	}
	if result.Link != "/right" {
		t.Fatalf("unexpected link: %q", result.Link)
	}
}

func TestUniversalRelativeLinkResolution(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <h2><a href="blog/post-1">A Sufficiently Long Title</a></h2>
	</article>`)

	result, err := Universal(Config{}, "https://github.blog/")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Link != "https://github.blog/blog/post-1" {
		t.Fatalf("unexpected link: %q", result.Link)
	}
}

func TestUniversalNoAnchorsYieldsUntitled(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `<div><span>no links here</span></div>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Title != untitledMarker {
		t.Fatalf("unexpected title: %q", result.Title)
	}
	if result.Link != "" {
		t.Fatalf("unexpected link: %q", result.Link)
	}
}

func TestUniversalDateConfigSelectorIsTierOne(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <span class="custom-date">2025-05-20</span>
	  <time datetime="2024-01-01">Jan 1, 2024</time>
	</article>`)

	result, err := Universal(Config{DateSelector: ".custom-date"}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Date != "2025-05-20" {
		t.Fatalf("unexpected date: %q", result.Date)
	}
	if result.Tier != domain.TierConfigSelector {
		t.Fatalf("unexpected tier: %d", result.Tier)
	}
}

func TestUniversalDateTimeElementIsTierTwo(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <time datetime="2025-02-03T00:00:00Z">Feb 3</time>
	</article>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Date != "2025-02-03" {
		t.Fatalf("unexpected date: %q", result.Date)
	}
	if result.Tier != domain.TierTimeElement {
		t.Fatalf("unexpected tier: %d", result.Tier)
	}
}

func TestUniversalAttributeBeatsClassName(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <span data-date="2025-03-01">badge</span>
	  <span class="date">2025-04-01</span>
	</article>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Date != "2025-03-01" {
		t.Fatalf("unexpected date: %q", result.Date)
	}
	if result.Tier != domain.TierAttribute {
		t.Fatalf("unexpected tier: %d", result.Tier)
	}
}

func TestUniversalClassNameIsTierFour(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <span class="post-date">2025-04-01</span>
	</article>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Date != "2025-04-01" {
		t.Fatalf("unexpected date: %q", result.Date)
	}
	if result.Tier != domain.TierClassName {
		t.Fatalf("unexpected tier: %d", result.Tier)
	}
}

func TestUniversalFreeTextScanIsTierFive(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <p>Published on September 17, 2012 by the platform team.</p>
	</article>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Date != "2012-09-17" {
		t.Fatalf("unexpected date: %q", result.Date)
	}
	if result.Tier != domain.TierTextScan {
		t.Fatalf("unexpected tier: %d", result.Tier)
	}
}

func TestUniversalNoDateIsTierZero(t *testing.T) {
	t.Parallel()

	fragment := fragmentFrom(t, `
	<article>
	  <h2><a href="/p">A Title Without Any Dates</a></h2>
	</article>`)

	result, err := Universal(Config{}, "")(fragment)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	if result.Date != "" {
		t.Fatalf("unexpected date: %q", result.Date)
	}
	if result.Tier != domain.TierNone {
		t.Fatalf("unexpected tier: %d", result.Tier)
	}
}
