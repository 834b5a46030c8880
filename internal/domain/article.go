package domain

import "strings"

// Article is a normalized discovery record produced by the extraction
// pipeline and handed to persistence collaborators.
type Article struct {
	Date   string // calendar date in YYYY-MM-DD form, empty when unknown
	Title  string
	Link   string
	Source string
	Tier   Tier
}

// Extraction is a single fragment's raw result before the canonical
// source name is attached.
type Extraction struct {
	Date  string
	Title string
	Link  string
	Tier  Tier
}

// Tier records which date-discovery rule produced the publish date.
// It is diagnostic metadata only and never gates whether a record is emitted.
type Tier int

const (
	TierNone           Tier = iota // no rule fired, or a strategy without tiers
	TierConfigSelector             // explicit date selector from provider config
	TierTimeElement                // semantic <time> element
	TierAttribute                  // date-bearing attribute scan
	TierClassName                  // date-ish class name scan
	TierTextScan                   // free-text pattern scan
)

// TitleSet answers membership questions about already-persisted titles.
// Comparison is case- and whitespace-insensitive. The set is read-only
// for the duration of a run.
type TitleSet struct {
	titles map[string]struct{}
}

// NewTitleSet normalizes the given titles into a membership set.
func NewTitleSet(titles []string) TitleSet {
	set := make(map[string]struct{}, len(titles))
	for _, title := range titles {
		set[normalizeTitle(title)] = struct{}{}
	}
	return TitleSet{titles: set}
}

// Contains reports whether an equivalent title is already known.
func (s TitleSet) Contains(title string) bool {
	_, ok := s.titles[normalizeTitle(title)]
	return ok
}

// Len returns the number of distinct known titles.
func (s TitleSet) Len() int {
	return len(s.titles)
}

func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
