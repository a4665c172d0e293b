package publishcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-blogpub/internal/commands"
	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/internal/publish"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

const (
	pagesOperation    = "publish.pages"
	hashnodeOperation = "publish.hashnode"
	previewOperation  = "sync.preview"
)

// ErrRunnerUnavailable is returned when a handler has no runner factory.
var ErrRunnerUnavailable = errors.New("publish command: runner not configured")

var (
	_ command.Commander[PublishPagesCommand]    = (*PublishPagesHandler)(nil)
	_ command.Commander[PublishHashnodeCommand] = (*PublishHashnodeHandler)(nil)
	_ command.Commander[SyncPreviewCommand]     = (*SyncPreviewHandler)(nil)
)

// PublishPagesHandler runs the mirror publisher.
type PublishPagesHandler struct {
	inner *commands.Handler[PublishPagesCommand]
}

// NewPublishPagesHandler creates a handler bound to factory.
func NewPublishPagesHandler(factory RunnerFactory, logger interfaces.Logger, opts ...commands.HandlerOption[PublishPagesCommand]) *PublishPagesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg PublishPagesCommand) error {
		return runAndReport(ctx, factory, RunOptions{DryRun: msg.DryRun, Posts: msg.Posts}, msg.ResultCallback, baseLogger, "publish.command.pages.completed")
	}

	handlerOpts := []commands.HandlerOption[PublishPagesCommand]{
		commands.WithLogger[PublishPagesCommand](baseLogger),
		commands.WithOperation[PublishPagesCommand](pagesOperation),
		commands.WithTimeout[PublishPagesCommand](0),
		commands.WithMessageFields(func(msg PublishPagesCommand) map[string]any {
			return runFields(msg.DryRun, msg.Posts)
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishPagesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishPagesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PublishPagesCommand].
func (h *PublishPagesHandler) Execute(ctx context.Context, msg PublishPagesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// PublishHashnodeHandler runs the remote publisher.
type PublishHashnodeHandler struct {
	inner *commands.Handler[PublishHashnodeCommand]
}

// NewPublishHashnodeHandler creates a handler bound to factory.
func NewPublishHashnodeHandler(factory RunnerFactory, logger interfaces.Logger, opts ...commands.HandlerOption[PublishHashnodeCommand]) *PublishHashnodeHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg PublishHashnodeCommand) error {
		opts := RunOptions{DryRun: msg.DryRun, Posts: msg.Posts, Resubmit: msg.Resubmit}
		return runAndReport(ctx, factory, opts, msg.ResultCallback, baseLogger, "publish.command.hashnode.completed")
	}

	handlerOpts := []commands.HandlerOption[PublishHashnodeCommand]{
		commands.WithLogger[PublishHashnodeCommand](baseLogger),
		commands.WithOperation[PublishHashnodeCommand](hashnodeOperation),
		commands.WithTimeout[PublishHashnodeCommand](0),
		commands.WithMessageFields(func(msg PublishHashnodeCommand) map[string]any {
			fields := runFields(msg.DryRun, msg.Posts)
			if msg.Resubmit {
				fields["resubmit"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[PublishHashnodeCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishHashnodeHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[PublishHashnodeCommand].
func (h *PublishHashnodeHandler) Execute(ctx context.Context, msg PublishHashnodeCommand) error {
	return h.inner.Execute(ctx, msg)
}

// SyncPreviewHandler runs the preview syncer.
type SyncPreviewHandler struct {
	inner *commands.Handler[SyncPreviewCommand]
}

// NewSyncPreviewHandler creates a handler bound to factory.
func NewSyncPreviewHandler(factory RunnerFactory, logger interfaces.Logger, opts ...commands.HandlerOption[SyncPreviewCommand]) *SyncPreviewHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg SyncPreviewCommand) error {
		return runAndReport(ctx, factory, RunOptions{Posts: msg.Posts}, msg.ResultCallback, baseLogger, "publish.command.preview.completed")
	}

	handlerOpts := []commands.HandlerOption[SyncPreviewCommand]{
		commands.WithLogger[SyncPreviewCommand](baseLogger),
		commands.WithOperation[SyncPreviewCommand](previewOperation),
		commands.WithTimeout[SyncPreviewCommand](0),
		commands.WithMessageFields(func(msg SyncPreviewCommand) map[string]any {
			return runFields(false, msg.Posts)
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[SyncPreviewCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &SyncPreviewHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[SyncPreviewCommand].
func (h *SyncPreviewHandler) Execute(ctx context.Context, msg SyncPreviewCommand) error {
	return h.inner.Execute(ctx, msg)
}

func runAndReport(ctx context.Context, factory RunnerFactory, opts RunOptions, callback ResultCallback, logger interfaces.Logger, event string) error {
	if factory == nil {
		return ErrRunnerUnavailable
	}
	runner, err := factory(opts)
	if err != nil {
		return err
	}

	report, err := runner.Run(ctx)
	if report != nil {
		if callback != nil {
			callback(report)
		}
		logging.WithFields(logger, map[string]any{
			"run_id":          report.RunID,
			"target":          report.Target,
			"confirmed_count": report.Count(publish.StateConfirmed),
			"skipped_count":   report.Count(publish.StateSkipped),
			"failed_count":    report.Count(publish.StateFailed),
			"dry_run":         opts.DryRun,
		}).Info(event)
	}
	return err
}

func runFields(dryRun bool, posts []string) map[string]any {
	fields := map[string]any{}
	if dryRun {
		fields["dry_run"] = true
	}
	if len(posts) > 0 {
		fields["posts"] = append([]string(nil), posts...)
	}
	return fields
}
