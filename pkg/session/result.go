package session

import (
	"context"
	"time"
)

// Result summarizes a finished workout.
type Result struct {
	SessionID string
	Exercise  string

	// SetsCompleted counts full sets plus a trailing partial set.
	SetsCompleted int

	// TotalReps counts every rep across all sets.
	TotalReps int

	Warnings  int
	StartedAt time.Time
	Duration  time.Duration
}

// ResultSink records finished workouts. Implementations must tolerate being
// called once per session at most.
type ResultSink interface {
	Record(ctx context.Context, res Result) error
}

// DiscardResults is a ResultSink that drops everything, for sessions with
// no persistence configured.
type DiscardResults struct{}

func (DiscardResults) Record(context.Context, Result) error { return nil }

var _ ResultSink = DiscardResults{}
