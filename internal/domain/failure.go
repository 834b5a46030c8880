package domain

import (
	"net/url"
	"time"

	"github.com/google/uuid"
)

// ErrorType classifies where in the pipeline a failure occurred.
type ErrorType string

const (
	// ErrorFetchFailed covers non-200 responses and transport errors;
	// the provider proceeds with zero articles for the cycle.
	ErrorFetchFailed ErrorType = "fetch_failed"
	// ErrorExtractionFailed covers a single fragment's extractor failure;
	// only that fragment is skipped.
	ErrorExtractionFailed ErrorType = "extraction_failed"
	// ErrorProviderFailed covers failures outside the per-fragment
	// boundary, such as malformed search criteria.
	ErrorProviderFailed ErrorType = "provider_failed"
)

// FailureEvent is a structured record of a non-fatal pipeline failure,
// shipped best-effort to the telemetry sink.
type FailureEvent struct {
	ID         string
	Source     string
	Type       ErrorType
	Message    string
	URL        string
	Domain     string
	Metadata   map[string]string
	Stack      string
	OccurredAt time.Time
}

// NewFailureEvent assembles an event with a fresh identifier and the
// host extracted from the offending link when one is available.
func NewFailureEvent(source string, errType ErrorType, message, link string) FailureEvent {
	host := "unknown"
	if u, err := url.Parse(link); err == nil && u.Host != "" {
		host = u.Host
	}
	return FailureEvent{
		ID:         uuid.NewString(),
		Source:     source,
		Type:       errType,
		Message:    message,
		URL:        link,
		Domain:     host,
		OccurredAt: time.Now().UTC(),
	}
}
