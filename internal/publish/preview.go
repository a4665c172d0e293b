package publish

import (
	"context"

	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/internal/targets"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
	"github.com/google/uuid"
)

// PreviewConfig wires a PreviewSyncer.
type PreviewConfig struct {
	Target     targets.Target
	Posts      PostSource
	Documents  DocumentReader
	Syncer     interfaces.FolderSyncer
	MirrorRoot string
	Logger     interfaces.Logger
}

// PreviewSyncer copies unpublished posts into the mirror so the static site
// can be previewed locally before publishing.
type PreviewSyncer struct {
	cfg    PreviewConfig
	logger interfaces.Logger
}

// NewPreviewSyncer builds a PreviewSyncer.
func NewPreviewSyncer(cfg PreviewConfig) *PreviewSyncer {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &PreviewSyncer{cfg: cfg, logger: logger}
}

// Run replaces the mirror folder of every eligible post with a copy of its
// source folder. Copy failures fail that post only.
func (s *PreviewSyncer) Run(ctx context.Context) (*Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	report := &Report{Target: s.cfg.Target.Name, RunID: uuid.NewString()}

	for post, err := range s.cfg.Posts.Walk(ctx) {
		if err != nil {
			return report, err
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		logger := logging.WithPostContext(s.logger, post.RelPath, s.cfg.Target.Name, report.RunID)
		outcome := Outcome{Post: post, Title: post.Slug}

		doc, ok, err := s.cfg.Documents.Read(post.IndexPath)
		switch {
		case err != nil:
			outcome = outcome.failed(err)
		case !ok:
			outcome = outcome.skipped(ReasonNotAPost)
		case !s.cfg.Target.Eligible(doc.Frontmatter):
			outcome.Title = postTitle(post, doc.Frontmatter)
			outcome = outcome.skipped(ReasonIneligible)
		default:
			outcome.Title = postTitle(post, doc.Frontmatter)
			if err := s.cfg.Syncer.SyncFolder(ctx, post.Dir, post.MirrorDir(s.cfg.MirrorRoot)); err != nil {
				outcome = outcome.failed(err)
			} else {
				outcome.State = StateConfirmed
			}
		}

		switch outcome.State {
		case StateConfirmed:
			logger.Info("publish.preview.synced", "title", outcome.Title)
		case StateFailed:
			logger.Error("publish.preview.failed", "title", outcome.Title, "error", outcome.Err)
		default:
			logger.Debug("publish.preview.skipped", "reason", outcome.Reason)
		}
		report.add(outcome)
	}
	return report, nil
}
