// Package notify publishes sync events to NATS after each aggregation.
package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"policyscope/internal/aggregator"
	"policyscope/internal/config"
)

// ErrNotConnected is returned when publishing without a connection.
var ErrNotConnected = errors.New("nats not connected")

// EventType is the kind of sync event.
type EventType string

// Event types.
const (
	EventSynced EventType = "synced"
	EventFailed EventType = "failed"
)

// SyncEvent is the message published after a refresh.
type SyncEvent struct {
	ID            string                     `json:"id"`
	Status        EventType                  `json:"status"`
	FetchedAt     string                     `json:"fetched_at"`
	Policies      int                        `json:"policies"`
	FailedSources []string                   `json:"failed_sources,omitempty"`
	Outcomes      []aggregator.SourceOutcome `json:"outcomes,omitempty"`
	ErrorMessage  *string                    `json:"error_message,omitempty"`
}

// Publisher is satisfied by *nats.Conn.
type Publisher interface {
	Publish(subj string, data []byte) error
}

// Notifier emits sync events on a subject. A nil *Notifier is a no-op.
type Notifier struct {
	pub     Publisher
	nc      *nats.Conn
	subject string
	now     func() time.Time
}

// Connect dials cfg.NatsURL. It returns nil, nil when notifications are
// disabled.
func Connect(cfg config.NotifyConfig) (*Notifier, error) {
	if cfg.NatsURL == "" {
		return nil, nil
	}

	nc, err := nats.Connect(cfg.NatsURL, nats.Name("policyscope"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats: %w", err)
	}

	n := NewNotifier(nc, cfg.Subject)
	n.nc = nc

	return n, nil
}

// NewNotifier wraps an existing publisher.
func NewNotifier(pub Publisher, subject string) *Notifier {
	return &Notifier{pub: pub, subject: subject, now: time.Now}
}

// Synced publishes the outcome of a completed aggregation.
func (n *Notifier) Synced(result *aggregator.Result) error {
	if n == nil {
		return nil
	}

	return n.emit(SyncEvent{
		ID:            uuid.NewString(),
		Status:        EventSynced,
		FetchedAt:     result.FetchedAt.UTC().Format(time.RFC3339),
		Policies:      len(result.Policies),
		FailedSources: result.Failed(),
		Outcomes:      result.Outcomes,
	})
}

// Failed publishes an aggregation that produced nothing.
func (n *Notifier) Failed(cause error) error {
	if n == nil {
		return nil
	}

	msg := cause.Error()

	event := SyncEvent{
		ID:           uuid.NewString(),
		Status:       EventFailed,
		FetchedAt:    n.now().UTC().Format(time.RFC3339),
		ErrorMessage: &msg,
	}

	var aggErr *aggregator.AggregateError
	if errors.As(cause, &aggErr) {
		event.FailedSources = aggErr.Failed
	}

	return n.emit(event)
}

func (n *Notifier) emit(event SyncEvent) error {
	if n.pub == nil {
		return ErrNotConnected
	}

	b, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := n.pub.Publish(n.subject, b); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", n.subject, err)
	}

	return nil
}

// Close drains the connection if Connect opened one.
func (n *Notifier) Close() error {
	if n == nil || n.nc == nil {
		return nil
	}

	return n.nc.Drain()
}
