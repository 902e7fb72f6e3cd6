// Package repository defines the scorecard store interface and errors.
// The engine never writes here itself; only the application layer does,
// keeping the "latest scorecard" pointer an explicit external dependency
// rather than engine state.
package repository

import (
	"context"

	"github.com/primehealth/scorecard/internal/domain/scorecard"
)

// Record is one persisted scorecard with its storage identity.
type Record struct {
	ID        string
	SubjectID string
	Card      scorecard.Scorecard
}

// Store provides per-subject scorecard history with a latest pointer.
// History is append-only: a stored scorecard is never mutated or replaced.
type Store interface {
	// GetLatest returns the most recent record for a subject.
	// Returns ErrNotFound when the subject has no scorecards yet.
	GetLatest(ctx context.Context, subjectID string) (Record, error)

	// Append stores a freshly computed scorecard as the subject's new
	// latest and returns the stored record with its assigned ID.
	Append(ctx context.Context, subjectID string, card scorecard.Scorecard) (Record, error)

	// History returns all records for a subject, oldest first.
	History(ctx context.Context, subjectID string) ([]Record, error)

	// Count returns the number of subjects tracked.
	Count(ctx context.Context) int
}
