package extract

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"ContentRadar/internal/domain"
)

// RSSItem extracts a generic RSS 2.0 <item> fragment: <title>, <link>
// and <pubDate>. The document is parsed with an HTML parser, which
// lowercases tag names and treats <link> as a void element, so the link
// URL frequently ends up as a text node following the empty element.
func RSSItem(fragment *goquery.Selection) (domain.Extraction, error) {
	titleEl := fragment.Find("title").First()
	if titleEl.Length() == 0 {
		return domain.Extraction{}, fmt.Errorf("rss item has no title element")
	}
	title := cleanFeedText(titleEl.Text())

	link := ""
	if linkEl := fragment.Find("link").First(); linkEl.Length() > 0 {
		link = cleanFeedText(linkEl.Text())
		if link == "" {
			if sibling := linkEl.Get(0).NextSibling; sibling != nil && sibling.Type == html.TextNode {
				link = cleanFeedText(sibling.Data)
			}
		}
	}
	link = strings.TrimSpace(link)

	date := ""
	if dateEl := fragment.Find("pubdate").First(); dateEl.Length() > 0 {
		date = NormalizeDate(dateEl.Text())
	}

	return domain.Extraction{Date: date, Title: title, Link: link, Tier: domain.TierNone}, nil
}

// cleanFeedText strips CDATA wrappers and stray brackets the HTML parser
// can leave behind in feed markup.
func cleanFeedText(text string) string {
	if text == "" {
		return ""
	}
	text = strings.ReplaceAll(text, "<![CDATA[", "")
	text = strings.ReplaceAll(text, "]]>", "")
	text = strings.ReplaceAll(text, "]]", "")
	return strings.Trim(strings.TrimSpace(text), " >[]")
}
