package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"ContentRadar/internal/domain"
	"ContentRadar/internal/ports"
)

// PostgresRepository persists discovered articles and failure events.
// It supplies the existing-title set consumed by the extraction pipeline.
type PostgresRepository struct {
	db *sql.DB
	sb sq.StatementBuilderType
}

var (
	_ ports.ArticleRepository = (*PostgresRepository)(nil)
	_ ports.TelemetrySink     = (*PostgresRepository)(nil)
)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db: db,
		sb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// KnownTitles loads every persisted article title for deduplication.
func (r *PostgresRepository) KnownTitles(ctx context.Context) ([]string, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := r.sb.Select("title").From("articles").ToSql()
	if err != nil {
		return nil, fmt.Errorf("build titles query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query titles: %w", err)
	}
	defer rows.Close()

	var titles []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf("scan title: %w", err)
		}
		titles = append(titles, title)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return titles, nil
}

// SaveArticles batch-inserts the run's discoveries. Records colliding
// with an already-stored title or link are left untouched.
func (r *PostgresRepository) SaveArticles(ctx context.Context, articles []domain.Article) error {
	if r.db == nil || len(articles) == 0 {
		return nil
	}

	builder := r.sb.Insert("articles").
		Columns("published_date", "title", "link", "source", "tier").
		Suffix("ON CONFLICT DO NOTHING")

	for _, article := range articles {
		builder = builder.Values(
			nullable(article.Date),
			article.Title,
			article.Link,
			article.Source,
			int(article.Tier),
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert articles: %w", err)
	}

	return nil
}

// ReportFailure stores a structured failure event for observability.
func (r *PostgresRepository) ReportFailure(ctx context.Context, event domain.FailureEvent) error {
	if r.db == nil {
		return nil
	}

	metadata, err := json.Marshal(event.Metadata)
	if err != nil {
		return fmt.Errorf("encode metadata: %w", err)
	}

	query, args, err := r.sb.Insert("failure_events").
		Columns("id", "source", "error_type", "message", "url", "domain", "metadata", "traceback", "occurred_at").
		Values(
			event.ID,
			event.Source,
			string(event.Type),
			event.Message,
			event.URL,
			event.Domain,
			metadata,
			nullable(event.Stack),
			event.OccurredAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("build event insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert failure event: %w", err)
	}

	return nil
}

func nullable(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
