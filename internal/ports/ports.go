package ports

import (
	"context"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ContentRadar/internal/domain"
)

// ArticleRepository supplies already-known titles and persists new records.
type ArticleRepository interface {
	KnownTitles(ctx context.Context) ([]string, error)
	SaveArticles(ctx context.Context, articles []domain.Article) error
}

// TelemetrySink receives structured failure events. Reporting is
// best-effort: a sink error is logged and never replaces the original failure.
type TelemetrySink interface {
	ReportFailure(ctx context.Context, event domain.FailureEvent) error
}

// IssueReporter files a tracking ticket for a provider-level failure.
type IssueReporter interface {
	FileIssue(ctx context.Context, event domain.FailureEvent) error
}

// Notifier publishes run summaries to Telegram or other channels.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// PageFetcher retrieves a listing page as a parsed document.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*goquery.Document, error)
	Close()
}

// Scheduler controls when discovery runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
