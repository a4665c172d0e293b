package publish

import (
	"context"
	"errors"
	"strings"

	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/hashnode"
	"github.com/goliatone/go-blogpub/internal/ledger"
	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/internal/rewrite"
	"github.com/goliatone/go-blogpub/internal/targets"
	"github.com/goliatone/go-blogpub/internal/validation"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
)

var defaultRemoteRequired = []string{frontmatter.KeyTitle, frontmatter.KeyDate}

// RemoteConfig wires a RemotePublisher.
type RemoteConfig struct {
	Target    targets.Target
	Host      string
	Posts     PostSource
	Documents DocumentReader
	Rewriter  BodyRewriter
	URLs      CanonicalURLs
	API       interfaces.RemotePublishAPI
	Status    StatusMarker
	// Ledger is optional. Without one a crash between submit and status
	// write leaves the post eligible for a second submission.
	Ledger ledger.Repository
	// Required lists the frontmatter keys a post must carry before submit.
	Required []string
	DryRun   bool
	// Resubmit ignores ledger entries and submits eligible posts again. The
	// new submission replaces the recorded one.
	Resubmit bool
	Logger   interfaces.Logger
}

// RemotePublisher submits eligible posts to a remote publishing API one at a
// time. A failure on one post never stops the others.
type RemotePublisher struct {
	cfg    RemoteConfig
	logger interfaces.Logger
}

// NewRemotePublisher builds a RemotePublisher.
func NewRemotePublisher(cfg RemoteConfig) *RemotePublisher {
	if len(cfg.Required) == 0 {
		cfg.Required = defaultRemoteRequired
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &RemotePublisher{cfg: cfg, logger: logger}
}

// Run processes every post in the source tree. The returned error is set
// only when discovery fails or ctx is cancelled; per post failures are
// reported as Failed outcomes.
func (p *RemotePublisher) Run(ctx context.Context) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	report := &Report{Target: p.cfg.Target.Name, RunID: uuid.NewString()}
	runLogger := logging.WithPostContext(p.logger, "", p.cfg.Target.Name, report.RunID)
	runLogger.Info("publish.remote.start", "dry_run", p.cfg.DryRun)

	for post, err := range p.cfg.Posts.Walk(ctx) {
		if err != nil {
			return report, err
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		logger := logging.WithPostContext(p.logger, post.RelPath, p.cfg.Target.Name, report.RunID)
		outcome := p.publishPost(ctx, post, logger)
		p.logOutcome(logger, outcome)
		report.add(outcome)
	}

	runLogger.Info("publish.remote.done",
		"confirmed", report.Count(StateConfirmed),
		"skipped", report.Count(StateSkipped),
		"failed", report.Count(StateFailed),
	)
	return report, nil
}

func (p *RemotePublisher) publishPost(ctx context.Context, post discovery.Post, logger interfaces.Logger) Outcome {
	outcome := Outcome{Post: post, Title: post.Slug}
	target := p.cfg.Target

	doc, ok, err := p.cfg.Documents.Read(post.IndexPath)
	if err != nil {
		return outcome.failed(err)
	}
	if !ok {
		return outcome.skipped(ReasonNotAPost)
	}
	fm := doc.Frontmatter
	outcome.Title = postTitle(post, fm)

	if !target.Eligible(fm) {
		return outcome.skipped(ReasonIneligible)
	}

	if recorded, found, err := p.recorded(ctx, post); err != nil {
		return outcome.failed(err)
	} else if found {
		if p.interruptedWrite(fm) {
			return p.repairFromLedger(ctx, post, recorded, outcome)
		}
		logger.Info("publish.remote.ledger.superseded",
			"recorded_slug", recorded.RemoteSlug,
			"frontmatter_slug", fm.String(target.IDField),
		)
	}

	if err := validation.ValidateFrontmatter(fm, p.cfg.Required...); err != nil {
		return outcome.failed(err)
	}

	tags, irregular := hashnode.NormalizeTags(fm.Strings(frontmatter.KeyTags))
	if len(irregular) > 0 {
		logger.Warn("publish.remote.tags.irregular", "tags", irregular)
	}

	ids, err := p.cfg.API.PublishIDs(ctx, p.cfg.Host, tags)
	if err != nil {
		return outcome.failed(err)
	}
	if ids == nil {
		ids = &interfaces.PublishIDs{}
	}
	for _, tag := range tags {
		if _, resolved := ids.TagIDs[tag]; !resolved {
			logger.Warn("publish.remote.tag.unresolved", "tag", tag)
		}
	}

	canonical, err := p.cfg.URLs.Canonical(post)
	if err != nil {
		return outcome.failed(err)
	}

	if missing := rewrite.MissingImages(post, doc.Body); len(missing) > 0 {
		logger.Warn("publish.remote.images.missing", "images", missing)
	}

	body, err := p.cfg.Rewriter.RewriteForRemote(ctx, post, doc.Body, canonical)
	if err != nil {
		return outcome.failed(err)
	}
	input := BuildPublishInput(fm, ids, canonical, body, tags)

	if p.cfg.DryRun {
		outcome.Payload = &input
		logger.Info("publish.remote.dry_run",
			"title", input.Title,
			"canonical", input.OriginalArticleURL,
			"tags", len(input.Tags),
		)
		return outcome.skipped(ReasonDryRun)
	}

	published, err := p.cfg.API.PublishPost(ctx, input)
	if err != nil {
		return outcome.failed(err)
	}
	outcome.RemoteID = published.Slug

	if p.cfg.Ledger != nil {
		_, err := p.cfg.Ledger.Record(ctx, ledger.Entry{
			Target:     target.Name,
			PostPath:   post.RelPath,
			RemoteID:   published.ID,
			RemoteSlug: published.Slug,
		})
		if err != nil {
			logger.Warn("publish.remote.ledger.record_failed", "error", err)
		}
	}

	if err := p.cfg.Status.MarkPublished(ctx, post, target, published.Slug); err != nil {
		return outcome.failed(err)
	}
	outcome.State = StateConfirmed
	return outcome
}

func (p *RemotePublisher) recorded(ctx context.Context, post discovery.Post) (ledger.Entry, bool, error) {
	if p.cfg.Ledger == nil || p.cfg.Resubmit {
		return ledger.Entry{}, false, nil
	}
	entry, err := p.cfg.Ledger.Get(ctx, p.cfg.Target.Name, post.RelPath)
	switch {
	case errors.Is(err, ledger.ErrEntryNotFound):
		return ledger.Entry{}, false, nil
	case err != nil:
		return ledger.Entry{}, false, err
	}
	return entry, true, nil
}

// interruptedWrite reports whether a ledger hit for an eligible post looks
// like a run that stopped between submit and the status write. The status and
// identifier are written together, so a post still carrying an identifier was
// reset by hand to be published again.
func (p *RemotePublisher) interruptedWrite(fm frontmatter.Frontmatter) bool {
	field := p.cfg.Target.IDField
	return field == "" || strings.TrimSpace(fm.String(field)) == ""
}

// repairFromLedger repairs the frontmatter of a post the ledger says was already
// submitted.
func (p *RemotePublisher) repairFromLedger(ctx context.Context, post discovery.Post, entry ledger.Entry, outcome Outcome) Outcome {
	outcome.RemoteID = entry.RemoteSlug
	outcome.Recovered = true
	if p.cfg.DryRun {
		return outcome.skipped(ReasonDryRun)
	}
	if err := p.cfg.Status.MarkPublished(ctx, post, p.cfg.Target, entry.RemoteSlug); err != nil {
		return outcome.failed(err)
	}
	outcome.State = StateConfirmed
	return outcome
}

func (p *RemotePublisher) logOutcome(logger interfaces.Logger, outcome Outcome) {
	switch outcome.State {
	case StateConfirmed:
		logger.Info("publish.remote.post.confirmed",
			"title", outcome.Title,
			"remote_id", outcome.RemoteID,
			"recovered", outcome.Recovered,
		)
	case StateFailed:
		args := []any{"title", outcome.Title, "error", outcome.Err}
		if messages := hashnode.RemoteMessages(outcome.Err); len(messages) > 0 {
			args = append(args, "remote_errors", strings.Join(messages, "; "))
		}
		if issues := validationIssues(outcome.Err); len(issues) > 0 {
			args = append(args, "issues", issues)
		}
		logger.Error("publish.remote.post.failed", args...)
	default:
		logger.Debug("publish.remote.post.skipped", "title", outcome.Title, "reason", outcome.Reason)
	}
}

func validationIssues(err error) []string {
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.Metadata == nil {
		return nil
	}
	issues, _ := typed.Metadata["issues"].([]string)
	return issues
}

func (o Outcome) skipped(reason string) Outcome {
	o.State = StateSkipped
	o.Reason = reason
	return o
}

func (o Outcome) failed(err error) Outcome {
	o.State = StateFailed
	o.Err = err
	return o
}
