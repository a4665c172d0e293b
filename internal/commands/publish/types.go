package publishcmd

import (
	"context"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/publish"
)

const (
	publishPagesMessageType    = "blogpub.publish.pages"
	publishHashnodeMessageType = "blogpub.publish.hashnode"
	syncPreviewMessageType     = "blogpub.sync.preview"
)

// ResultCallback receives the run report. It is optional and invoked
// synchronously whenever a run produced a report, including failed runs.
type ResultCallback func(*publish.Report)

// RunOptions narrows one run.
type RunOptions struct {
	DryRun bool
	// Posts limits the run to these YYYY/MM/slug paths.
	Posts []string
	// Resubmit ignores recorded remote submissions.
	Resubmit bool
}

// Runner executes one publish run.
type Runner interface {
	Run(ctx context.Context) (*publish.Report, error)
}

// RunnerFactory builds the runner for a single command.
type RunnerFactory func(opts RunOptions) (Runner, error)

// PublishPagesCommand publishes pending posts to the static site mirror.
type PublishPagesCommand struct {
	Posts          []string       `json:"posts,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (PublishPagesCommand) Type() string { return publishPagesMessageType }

// Validate checks the optional post filter.
func (m PublishPagesCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Posts, validation.Each(validation.By(postPathRule(publishPagesMessageType)))),
	)
}

// PublishHashnodeCommand submits pending posts to the remote host.
type PublishHashnodeCommand struct {
	Posts          []string       `json:"posts,omitempty"`
	DryRun         bool           `json:"dry_run,omitempty"`
	Resubmit       bool           `json:"resubmit,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (PublishHashnodeCommand) Type() string { return publishHashnodeMessageType }

// Validate checks the optional post filter.
func (m PublishHashnodeCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Posts, validation.Each(validation.By(postPathRule(publishHashnodeMessageType)))),
	)
}

// SyncPreviewCommand copies pending posts into the mirror for local preview.
type SyncPreviewCommand struct {
	Posts          []string       `json:"posts,omitempty"`
	ResultCallback ResultCallback `json:"-"`
}

// Type implements command.Message.
func (SyncPreviewCommand) Type() string { return syncPreviewMessageType }

// Validate checks the optional post filter.
func (m SyncPreviewCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Posts, validation.Each(validation.By(postPathRule(syncPreviewMessageType)))),
	)
}

func postPathRule(messageType string) validation.RuleFunc {
	return func(value any) error {
		rel, _ := value.(string)
		if _, _, _, ok := discovery.ParseRelPath(rel); !ok {
			return validation.NewError(messageType+".post_invalid", "posts must be YYYY/MM/slug paths")
		}
		return nil
	}
}
