package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"ContentRadar/internal/config"
	"ContentRadar/internal/extract"
	"ContentRadar/internal/ports"
)

// ErrUnknownStrategy marks a provider whose strategy tag cannot be
// resolved to any extractor. The provider is skipped, not failed.
var ErrUnknownStrategy = errors.New("unknown extraction strategy")

// Strategy is the closed set of provider extraction modes.
type Strategy int

const (
	StrategyHTML Strategy = iota
	StrategyRSS
	StrategySubstack
)

// parseStrategy maps the provider's declared tag to a Strategy. An empty
// tag defaults to html.
func parseStrategy(raw string) (Strategy, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "html":
		return StrategyHTML, true
	case "rss":
		return StrategyRSS, true
	case "substack":
		return StrategySubstack, true
	default:
		return 0, false
	}
}

// Criteria is an eagerly-built description of which document fragments a
// handler operates on: either a union of selectors or a class-pattern match.
type Criteria struct {
	selectors    []string
	classPattern *regexp.Regexp
}

// SelectorCriteria matches the union of the given CSS selectors.
func SelectorCriteria(selectors ...string) Criteria {
	return Criteria{selectors: selectors}
}

// ClassPatternCriteria matches elements whose class attribute matches the
// expression. The match is case-sensitive.
func ClassPatternCriteria(pattern *regexp.Regexp) Criteria {
	return Criteria{classPattern: pattern}
}

// Select applies the criteria to a document. Malformed selectors surface
// as an error so a bad provider configuration fails that provider only.
func (c Criteria) Select(doc *goquery.Document) (*goquery.Selection, error) {
	if c.classPattern != nil {
		matched := doc.Find("[class]").FilterFunction(func(_ int, el *goquery.Selection) bool {
			class, _ := el.Attr("class")
			return c.classPattern.MatchString(class)
		})
		return matched, nil
	}

	var result *goquery.Selection
	for _, selector := range c.selectors {
		matcher, err := cascadia.Compile(selector)
		if err != nil {
			return nil, fmt.Errorf("compile selector %q: %w", selector, err)
		}
		found := doc.FindMatcher(matcher)
		if result == nil {
			result = found
		} else {
			result = result.AddSelection(found)
		}
	}
	if result == nil {
		return nil, fmt.Errorf("criteria has no selectors")
	}
	return result, nil
}

// Handler pairs the fragment search criteria with the extractor to run on
// each matched fragment.
type Handler struct {
	Criteria Criteria
	Extract  extract.Func
}

// Resolver maps provider records to handlers. Every extractor it hands
// out is wrapped with failure telemetry for the provider's name.
type Resolver struct {
	sink   ports.TelemetrySink
	logger *slog.Logger
}

// NewResolver wires the telemetry sink used by wrapped extractors.
func NewResolver(sink ports.TelemetrySink, logger *slog.Logger) *Resolver {
	return &Resolver{sink: sink, logger: logger}
}

// Resolve builds the handler for one provider. It returns
// ErrUnknownStrategy when the strategy tag is unrecognized; any other
// error (such as a malformed substack class pattern) is a provider-level
// failure.
func (r *Resolver) Resolve(ctx context.Context, provider config.ProviderConfig) (Handler, error) {
	strat, ok := parseStrategy(provider.Strategy)
	if !ok {
		return Handler{}, fmt.Errorf("provider %s strategy %q: %w", provider.Name, provider.Strategy, ErrUnknownStrategy)
	}

	descriptor := strings.TrimSpace(provider.Element)

	// The element descriptor doubles as a JSON extraction config for the
	// html strategy; anything that fails to parse stays a plain selector.
	var cfg extract.Config
	container := descriptor
	if descriptor != "" && (strings.HasPrefix(descriptor, "{") || strat == StrategyHTML) {
		var parsed extract.Config
		if err := json.Unmarshal([]byte(descriptor), &parsed); err == nil {
			cfg = parsed
			if parsed.Container != "" {
				container = parsed.Container
			}
		}
	}

	var fn extract.Func
	var criteria Criteria

	switch strat {
	case StrategyHTML:
		fn = extract.Universal(cfg, provider.URL)
		criteria = SelectorCriteria(container)
	case StrategyRSS:
		fn = extract.RSSItem
		// A feed page can mix vendor HTML with RSS markup, so the literal
		// item tag rides along with any configured selector.
		if descriptor != "" {
			criteria = SelectorCriteria(descriptor, "item")
		} else {
			criteria = SelectorCriteria("item")
		}
	case StrategySubstack:
		fn = extract.Substack
		pattern, err := regexp.Compile(descriptor)
		if err != nil {
			return Handler{}, fmt.Errorf("provider %s class pattern %q: %w", provider.Name, descriptor, err)
		}
		criteria = ClassPatternCriteria(pattern)
	}

	fn = extract.WithTelemetry(ctx, fn, provider.Name, r.sink, r.logger)
	return Handler{Criteria: criteria, Extract: fn}, nil
}
