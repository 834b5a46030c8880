package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"ContentRadar/internal/domain"
	"ContentRadar/internal/ports"
)

// IssueReporter files a GitHub issue for each provider-level failure so
// broken providers get a durable, human-visible ticket.
type IssueReporter struct {
	token  string
	repo   string // owner/name
	client *http.Client
}

var _ ports.IssueReporter = (*IssueReporter)(nil)

// NewIssueReporter registers the API token and target repository.
func NewIssueReporter(token, repo string) *IssueReporter {
	return &IssueReporter{
		token:  token,
		repo:   repo,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// FileIssue posts a labeled issue describing the failure event.
func (r *IssueReporter) FileIssue(ctx context.Context, event domain.FailureEvent) error {
	if r.token == "" || r.repo == "" || r.client == nil {
		return fmt.Errorf("github issue reporter misconfigured")
	}

	payload := map[string]any{
		"title":  fmt.Sprintf("Extraction failed for %s", event.Source),
		"body":   buildIssueBody(event),
		"labels": []string{"extraction-error", strings.ToLower(event.Source)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode issue: %w", err)
	}

	endpoint := fmt.Sprintf("https://api.github.com/repos/%s/issues", r.repo)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "token "+r.token)
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("github error: %s", resp.Status)
	}

	return nil
}

func buildIssueBody(event domain.FailureEvent) string {
	snippet := event.Metadata["article_snippet"]
	if snippet == "" {
		snippet = "N/A"
	}

	return fmt.Sprintf(
		"**Source**: %s\n\n**Type**: %s\n\n**Error**:\n```\n%s\n```\n\n**URL**: %s\n\n**Snippet**:\n```\n%s\n```\n\n**Time**: %s\n",
		event.Source,
		event.Type,
		event.Message,
		event.URL,
		snippet,
		event.OccurredAt.Format(time.RFC3339),
	)
}
