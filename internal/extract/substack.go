package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"ContentRadar/internal/domain"
)

// Substack extracts a post from the Substack archive layout. The platform
// markup is stable enough to address directly instead of heuristically.
func Substack(fragment *goquery.Selection) (domain.Extraction, error) {
	titleEl := fragment.Find(`[data-testid="post-preview-title"]`).First()
	if titleEl.Length() == 0 {
		return domain.Extraction{}, fmt.Errorf("substack fragment has no post-preview-title element")
	}
	title := strings.TrimSpace(titleEl.Text())
	link, _ := titleEl.Attr("href")

	datetime, ok := fragment.Find("time").First().Attr("datetime")
	if !ok {
		return domain.Extraction{}, fmt.Errorf("substack fragment has no time datetime attribute")
	}
	date := datetime
	if i := strings.IndexByte(datetime, 'T'); i >= 0 {
		date = datetime[:i]
	}

	return domain.Extraction{Date: date, Title: title, Link: link, Tier: domain.TierNone}, nil
}
