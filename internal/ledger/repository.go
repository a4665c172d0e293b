// Package ledger remembers remote submissions that succeeded so a run that
// died before updating frontmatter can repair the post instead of submitting
// it twice.
package ledger

import (
	"context"
	"errors"
	"time"
)

// ErrEntryNotFound is returned when no submission is recorded for a post.
var ErrEntryNotFound = errors.New("ledger: entry not found")

// Entry records one confirmed remote submission.
type Entry struct {
	Target      string
	PostPath    string
	RemoteID    string
	RemoteSlug  string
	SubmittedAt time.Time
}

// Repository persists ledger entries keyed by target and post path.
type Repository interface {
	Get(ctx context.Context, target, postPath string) (Entry, error)
	Record(ctx context.Context, entry Entry) (Entry, error)
	List(ctx context.Context, target string) ([]Entry, error)
}

func normalizeEntry(entry Entry) Entry {
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now()
	}
	entry.SubmittedAt = entry.SubmittedAt.UTC()
	return entry
}
