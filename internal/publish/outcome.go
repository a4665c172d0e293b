package publish

import (
	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// State is where a post ended up in one run.
type State string

const (
	StateSkipped   State = "skipped"
	StateFailed    State = "failed"
	StateConfirmed State = "confirmed"
)

// Skip reasons.
const (
	ReasonNotAPost   = "not a post"
	ReasonIneligible = "ineligible"
	ReasonDryRun     = "dry run"
)

// Outcome is the result of processing one post.
type Outcome struct {
	Post  discovery.Post
	Title string
	State State
	// Reason explains a skip.
	Reason string
	// RemoteID is the identifier recorded for the post, when any.
	RemoteID string
	// Recovered is set when the post was confirmed from the ledger without a
	// new remote submission.
	Recovered bool
	// Payload holds the assembled submission on dry runs.
	Payload *interfaces.PublishPostInput
	Err     error
}

// Report collects the outcomes of one run.
type Report struct {
	Target   string
	RunID    string
	Outcomes []Outcome
	// Batch is set by the mirror publisher once the batch is selected.
	Batch *Batch
}

func (r *Report) add(outcome Outcome) {
	r.Outcomes = append(r.Outcomes, outcome)
}

// Count returns the number of outcomes in state.
func (r *Report) Count(state State) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, outcome := range r.Outcomes {
		if outcome.State == state {
			n++
		}
	}
	return n
}

// Filter returns the outcomes in state, in processing order.
func (r *Report) Filter(state State) []Outcome {
	if r == nil {
		return nil
	}
	var out []Outcome
	for _, outcome := range r.Outcomes {
		if outcome.State == state {
			out = append(out, outcome)
		}
	}
	return out
}

// Batch is the set of posts selected for one mirror run.
type Batch struct {
	Posts  []discovery.Post
	Titles []string
	// Files are the source and mirror files to stage.
	Files []string
	// Missing are mirror files that should exist but do not.
	Missing []string
}

// Count returns the number of posts in the batch.
func (b *Batch) Count() int {
	if b == nil {
		return 0
	}
	return len(b.Posts)
}

// CommitMessages returns the commit message paragraphs for the batch.
func (b *Batch) CommitMessages() []string {
	if b == nil {
		return nil
	}
	return CommitMessages(b.Titles)
}
