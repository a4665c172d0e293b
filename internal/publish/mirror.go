package publish

import (
	"context"
	"fmt"
	"slices"

	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/internal/targets"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultBranch is the branch the mirror must be published from.
const DefaultBranch = "main"

// MirrorConfig wires a MirrorPublisher.
type MirrorConfig struct {
	Target     targets.Target
	Posts      PostSource
	Documents  DocumentReader
	MirrorRoot string
	VCS        interfaces.VersionControl
	Builder    interfaces.SiteBuilder
	Status     StatusMarker
	Branch     string
	// DryRun stops after the batch passes the preflight gates.
	DryRun bool
	Logger interfaces.Logger
}

// MirrorPublisher publishes posts to the static site mirror as one batch. The
// batch either goes out whole or nothing is touched.
type MirrorPublisher struct {
	cfg    MirrorConfig
	logger interfaces.Logger
}

// NewMirrorPublisher builds a MirrorPublisher.
func NewMirrorPublisher(cfg MirrorConfig) *MirrorPublisher {
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &MirrorPublisher{cfg: cfg, logger: logger}
}

// Run checks the preflight gates, commits and pushes the batch together with
// the rebuilt site and then marks every post published. Preflight and
// collaborator failures are returned as errors before any post is marked.
func (p *MirrorPublisher) Run(ctx context.Context) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	report := &Report{Target: p.cfg.Target.Name, RunID: uuid.NewString()}
	logger := logging.WithPostContext(p.logger, "", p.cfg.Target.Name, report.RunID)

	branch, err := p.cfg.VCS.CurrentBranch(ctx)
	if err != nil {
		return report, err
	}
	if branch != p.cfg.Branch {
		return report, preflightError(
			TextCodePreflightBranch,
			fmt.Sprintf("publish: must run on branch %q, currently on %q", p.cfg.Branch, branch),
			[]string{branch},
		)
	}

	batch, err := p.selectBatch(ctx)
	if err != nil {
		return report, err
	}
	report.Batch = batch

	if len(batch.Missing) > 0 {
		return report, preflightError(
			TextCodePreflightMissingMirror,
			fmt.Sprintf("publish: %d mirror file(s) missing, sync the mirror first", len(batch.Missing)),
			batch.Missing,
		)
	}

	if batch.Count() == 0 {
		logger.Info("No blog posts to publish")
		return report, nil
	}

	messages := batch.CommitMessages()
	if p.cfg.DryRun {
		logger.Info("publish.mirror.dry_run", "posts", batch.Count(), "files", len(batch.Files), "commit", messages[0])
		for i, post := range batch.Posts {
			report.add(Outcome{Post: post, Title: batch.Titles[i], State: StateSkipped, Reason: ReasonDryRun})
		}
		return report, nil
	}

	if err := p.cfg.VCS.Stage(ctx, batch.Files...); err != nil {
		return report, err
	}
	outputDir, err := p.cfg.Builder.Build(ctx)
	if err != nil {
		return report, err
	}
	if err := p.cfg.VCS.Stage(ctx, outputDir); err != nil {
		return report, err
	}
	if err := p.cfg.VCS.Commit(ctx, messages); err != nil {
		return report, err
	}
	if err := p.cfg.VCS.Push(ctx); err != nil {
		return report, err
	}
	logger.Info("publish.mirror.pushed", "posts", batch.Count(), "commit", messages[0])

	for i, post := range batch.Posts {
		outcome := Outcome{Post: post, Title: batch.Titles[i]}
		postLogger := logging.WithPostContext(p.logger, post.RelPath, p.cfg.Target.Name, report.RunID)
		if err := p.cfg.Status.MarkPublished(ctx, post, p.cfg.Target, ""); err != nil {
			postLogger.Error("publish.mirror.post.mark_failed", "title", outcome.Title, "error", err)
			report.add(outcome.failed(err))
			continue
		}
		postLogger.Info("publish.mirror.post.confirmed", "title", outcome.Title)
		outcome.State = StateConfirmed
		report.add(outcome)
	}
	return report, nil
}

// selectBatch collects every eligible post and its associated files. Missing
// mirror files are gathered across the whole batch so one failure reports
// them all.
func (p *MirrorPublisher) selectBatch(ctx context.Context) (*Batch, error) {
	batch := &Batch{}
	for post, err := range p.cfg.Posts.Walk(ctx) {
		if err != nil {
			return nil, err
		}
		doc, ok, err := p.cfg.Documents.Read(post.IndexPath)
		if err != nil {
			return nil, err
		}
		if !ok || !p.cfg.Target.Eligible(doc.Frontmatter) {
			continue
		}

		files, err := discovery.CollectAssociatedFiles(post, p.cfg.MirrorRoot)
		if err != nil {
			return nil, err
		}
		batch.Posts = append(batch.Posts, post)
		batch.Titles = append(batch.Titles, postTitle(post, doc.Frontmatter))
		batch.Files = append(batch.Files, files.Present...)
		batch.Missing = append(batch.Missing, files.Missing...)
	}
	slices.Sort(batch.Missing)
	return batch, nil
}
