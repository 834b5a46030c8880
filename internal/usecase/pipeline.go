package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"ContentRadar/internal/config"
	"ContentRadar/internal/domain"
	"ContentRadar/internal/extract"
	"ContentRadar/internal/ports"
	"ContentRadar/internal/strategy"
)

// PipelineDeps wires all driven adapters into the discovery pipeline.
type PipelineDeps struct {
	Providers   []config.ProviderConfig
	Fetcher     ports.PageFetcher
	Resolver    *strategy.Resolver
	Repository  ports.ArticleRepository
	Telemetry   ports.TelemetrySink
	Issues      ports.IssueReporter
	Notifier    ports.Notifier
	Concurrency int
	Logger      *slog.Logger
}

// Pipeline implements one content-discovery cycle across all providers.
type Pipeline struct {
	providers   []config.ProviderConfig
	fetcher     ports.PageFetcher
	resolver    *strategy.Resolver
	repository  ports.ArticleRepository
	telemetry   ports.TelemetrySink
	issues      ports.IssueReporter
	notifier    ports.Notifier
	concurrency int
	logger      *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	concurrency := deps.Concurrency
	if concurrency <= 0 {
		concurrency = 3
	}
	return &Pipeline{
		providers:   deps.Providers,
		fetcher:     deps.Fetcher,
		resolver:    deps.Resolver,
		repository:  deps.Repository,
		telemetry:   deps.Telemetry,
		issues:      deps.Issues,
		notifier:    deps.Notifier,
		concurrency: concurrency,
		logger:      deps.Logger,
	}
}

// Run executes one discovery cycle: load known titles, process every
// provider under the admission gate, persist what was found, and publish
// a digest. A provider failure never prevents the others from running.
func (p *Pipeline) Run(ctx context.Context) error {
	if p.fetcher == nil || p.resolver == nil {
		return fmt.Errorf("pipeline is not fully wired")
	}

	existing := domain.TitleSet{}
	if p.repository != nil {
		titles, err := p.repository.KnownTitles(ctx)
		if err != nil {
			return fmt.Errorf("load known titles: %w", err)
		}
		existing = domain.NewTitleSet(titles)
	}

	p.debug("discovery run", "providers", len(p.providers), "known_titles", existing.Len())

	results := make(chan []domain.Article, len(p.providers))

	var g errgroup.Group
	g.SetLimit(p.concurrency)
	for _, provider := range p.providers {
		g.Go(func() error {
			// Best-effort per provider: never cancel siblings.
			if found := p.processProvider(ctx, provider, existing); len(found) > 0 {
				results <- found
			}
			return nil
		})
	}
	_ = g.Wait()
	close(results)

	var collected []domain.Article
	for found := range results {
		collected = append(collected, found...)
	}

	if len(collected) > 0 && p.repository != nil {
		if err := p.repository.SaveArticles(ctx, collected); err != nil {
			return fmt.Errorf("persist %d articles: %w", len(collected), err)
		}
	}

	if p.notifier != nil {
		digest := buildDigest(collected, len(p.providers))
		if err := p.notifier.PublishDigest(ctx, digest); err != nil {
			p.warn("publish digest", "error", err)
		}
	}

	p.info("discovery complete", "articles", len(collected))
	return nil
}

// processProvider runs one provider end to end and returns its newly
// discovered records. All failure modes are recorded and yield nil.
func (p *Pipeline) processProvider(ctx context.Context, provider config.ProviderConfig, existing domain.TitleSet) []domain.Article {
	handler, err := p.resolver.Resolve(ctx, provider)
	if err != nil {
		if errors.Is(err, strategy.ErrUnknownStrategy) {
			p.info("skip provider", "provider", provider.Name, "reason", err)
			return nil
		}
		p.recordFailure(ctx, provider, domain.ErrorProviderFailed, err)
		return nil
	}

	doc, err := p.fetcher.Fetch(ctx, provider.URL)
	if err != nil {
		p.recordFailure(ctx, provider, domain.ErrorFetchFailed, err)
		return nil
	}

	fragments, err := handler.Criteria.Select(doc)
	if err != nil {
		p.recordFailure(ctx, provider, domain.ErrorProviderFailed, err)
		return nil
	}

	var found []domain.Article
	for article := range extract.Collect(fragments, handler.Extract, existing, provider.Name) {
		found = append(found, article)
	}

	p.info("provider processed", "provider", provider.Name, "fragments", fragments.Length(), "new_articles", len(found))
	return found
}

// recordFailure logs, reports telemetry, and files a tracking issue for a
// provider-level failure, each best-effort.
func (p *Pipeline) recordFailure(ctx context.Context, provider config.ProviderConfig, errType domain.ErrorType, cause error) {
	p.warn("provider failed", "provider", provider.Name, "type", string(errType), "error", cause)

	event := domain.NewFailureEvent(provider.Name, errType, cause.Error(), provider.URL)

	if p.telemetry != nil {
		if err := p.telemetry.ReportFailure(ctx, event); err != nil {
			p.warn("report provider failure", "provider", provider.Name, "error", err)
		}
	}

	if p.issues != nil {
		if err := p.issues.FileIssue(ctx, event); err != nil {
			p.warn("file provider issue", "provider", provider.Name, "error", err)
		}
	}
}

func buildDigest(articles []domain.Article, providers int) string {
	if len(articles) == 0 {
		return fmt.Sprintf("No new articles found across %d providers.", providers)
	}

	perSource := map[string]int{}
	for _, article := range articles {
		perSource[article.Source]++
	}

	digest := fmt.Sprintf("%d new articles across %d providers.\n", len(articles), providers)
	for source, count := range perSource {
		digest += fmt.Sprintf("- %s: %d\n", source, count)
	}
	return digest
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}

func (p *Pipeline) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}
