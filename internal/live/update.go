package live

import (
	"context"
	"errors"
	"time"
)

// UpdateType tags what changed in a match.
type UpdateType string

const (
	UpdateBall             UpdateType = "ball"
	UpdateToss             UpdateType = "toss"
	UpdateInningsCompleted UpdateType = "innings_completed"
	UpdateInningsStarted   UpdateType = "innings_started"
	UpdateMatchCompleted   UpdateType = "match_completed"
)

// Update is one change pushed to live scoreboards.
type Update struct {
	Type      UpdateType `json:"type"`
	MatchID   uint       `json:"match_id"`
	InningsID uint       `json:"innings_id,omitempty"`
	Payload   any        `json:"payload"`
	Timestamp time.Time  `json:"timestamp"`
}

// Publisher delivers updates to one destination.
type Publisher interface {
	Publish(ctx context.Context, update Update) error
}

// Fanout publishes to every publisher and joins their errors.
type Fanout []Publisher

func (f Fanout) Publish(ctx context.Context, update Update) error {
	if update.Timestamp.IsZero() {
		update.Timestamp = time.Now().UTC()
	}
	var errs []error
	for _, p := range f {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, update); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Nop discards updates.
type Nop struct{}

func (Nop) Publish(context.Context, Update) error { return nil }
