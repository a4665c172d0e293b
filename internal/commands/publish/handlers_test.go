package publishcmd

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/goliatone/go-blogpub/internal/publish"
	goerrors "github.com/goliatone/go-errors"
)

type stubRunner struct {
	report *publish.Report
	err    error
	runs   int
}

func (s *stubRunner) Run(context.Context) (*publish.Report, error) {
	s.runs++
	return s.report, s.err
}

type recordingFactory struct {
	runner *stubRunner
	seen   []RunOptions
	err    error
}

func (f *recordingFactory) build(opts RunOptions) (Runner, error) {
	f.seen = append(f.seen, opts)
	if f.err != nil {
		return nil, f.err
	}
	return f.runner, nil
}

func sampleReport(target string) *publish.Report {
	return &publish.Report{
		Target: target,
		RunID:  "run-1",
		Outcomes: []publish.Outcome{
			{State: publish.StateConfirmed},
			{State: publish.StateSkipped, Reason: publish.ReasonIneligible},
		},
	}
}

func TestPublishHashnodeHandlerPassesOptionsAndReport(t *testing.T) {
	factory := &recordingFactory{runner: &stubRunner{report: sampleReport("hashnode")}}
	handler := NewPublishHashnodeHandler(factory.build, nil)

	var received *publish.Report
	err := handler.Execute(context.Background(), PublishHashnodeCommand{
		DryRun:         true,
		Resubmit:       true,
		Posts:          []string{"2024/03/hello"},
		ResultCallback: func(r *publish.Report) { received = r },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(factory.seen) != 1 || !factory.seen[0].DryRun || !factory.seen[0].Resubmit || !slices.Equal(factory.seen[0].Posts, []string{"2024/03/hello"}) {
		t.Fatalf("unexpected run options %+v", factory.seen)
	}
	if received == nil || received.Count(publish.StateConfirmed) != 1 {
		t.Fatalf("expected callback with report, got %+v", received)
	}
}

func TestPublishPagesHandlerKeepsPreflightCategory(t *testing.T) {
	preflight := goerrors.New("wrong branch", goerrors.CategoryValidation).WithTextCode(publish.TextCodePreflightBranch)
	factory := &recordingFactory{runner: &stubRunner{report: &publish.Report{Target: "pages"}, err: preflight}}
	handler := NewPublishPagesHandler(factory.build, nil)

	called := false
	err := handler.Execute(context.Background(), PublishPagesCommand{
		ResultCallback: func(*publish.Report) { called = true },
	})
	if !publish.IsPreflight(err) {
		t.Fatalf("expected preflight error, got %v", err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if !called {
		t.Fatal("expected callback even when the run fails")
	}
}

func TestSyncPreviewHandlerFactoryError(t *testing.T) {
	factory := &recordingFactory{err: errors.New("no source dir")}
	handler := NewSyncPreviewHandler(factory.build, nil)

	err := handler.Execute(context.Background(), SyncPreviewCommand{})
	if !goerrors.IsCategory(err, goerrors.CategoryCommand) {
		t.Fatalf("expected command category, got %v", err)
	}
}

func TestHandlersRejectMalformedPostFilter(t *testing.T) {
	factory := &recordingFactory{runner: &stubRunner{report: sampleReport("pages")}}
	handler := NewPublishPagesHandler(factory.build, nil)

	err := handler.Execute(context.Background(), PublishPagesCommand{Posts: []string{"2024/hello"}})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if factory.runner.runs != 0 {
		t.Fatal("expected runner not to start")
	}
}

func TestHandlerWithoutFactory(t *testing.T) {
	handler := NewPublishHashnodeHandler(nil, nil)
	if err := handler.Execute(context.Background(), PublishHashnodeCommand{}); !errors.Is(err, ErrRunnerUnavailable) {
		t.Fatalf("expected ErrRunnerUnavailable, got %v", err)
	}
}

func TestCommandValidation(t *testing.T) {
	if err := (SyncPreviewCommand{Posts: []string{"2024/01/ok"}}).Validate(); err != nil {
		t.Fatalf("expected valid command, got %v", err)
	}
	if err := (PublishHashnodeCommand{Posts: []string{"../etc"}}).Validate(); err == nil {
		t.Fatal("expected invalid post path to fail")
	}
	if (PublishPagesCommand{}).Type() != "blogpub.publish.pages" {
		t.Fatal("unexpected message type")
	}
}
