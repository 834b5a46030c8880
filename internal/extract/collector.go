package extract

import (
	"iter"

	"github.com/PuerkitoBio/goquery"

	"ContentRadar/internal/domain"
)

// Collect drives extraction across a document's matched fragments and
// yields normalized records lazily, in input order. A fragment whose
// extractor fails is skipped; its siblings are still processed. Titles
// already present in the existing set are suppressed. The sequence is
// finite and single-pass.
func Collect(fragments *goquery.Selection, fn Func, existing domain.TitleSet, sourceName string) iter.Seq[domain.Article] {
	return func(yield func(domain.Article) bool) {
		fragments.EachWithBreak(func(_ int, fragment *goquery.Selection) bool {
			record, ok := collectOne(fragment, fn, existing, sourceName)
			if !ok {
				return true
			}
			return yield(record)
		})
	}
}

// collectOne runs one fragment through the extractor and reports whether
// it produced a new record. Extraction failures and known titles both
// mean "skip", never "abort".
func collectOne(fragment *goquery.Selection, fn Func, existing domain.TitleSet, sourceName string) (domain.Article, bool) {
	extraction, err := fn(fragment)
	if err != nil {
		return domain.Article{}, false
	}
	if existing.Contains(extraction.Title) {
		return domain.Article{}, false
	}
	return domain.Article{
		Date:   extraction.Date,
		Title:  extraction.Title,
		Link:   extraction.Link,
		Source: sourceName,
		Tier:   extraction.Tier,
	}, true
}
