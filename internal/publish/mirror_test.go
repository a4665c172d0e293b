package publish

import (
	"context"
	"path/filepath"
	"slices"
	"testing"

	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/status"
	"github.com/goliatone/go-blogpub/internal/targets"
	goerrors "github.com/goliatone/go-errors"
)

func mirrorDoc(title, githubStatus string) string {
	doc := "+++\ntitle = \"" + title + "\"\ndate = 2024-03-01\n"
	if githubStatus != "" {
		doc += "github-status = \"" + githubStatus + "\"\n"
	}
	return doc + "+++\n\n" + title + " body.\n"
}

type mirrorFixture struct {
	source    string
	mirror    string
	vcs       *stubVCS
	builder   *stubBuilder
	publisher *MirrorPublisher
}

func newMirrorFixture(t *testing.T) *mirrorFixture {
	t.Helper()
	repo := t.TempDir()
	f := &mirrorFixture{
		source:  filepath.Join(repo, "posts"),
		mirror:  filepath.Join(repo, "content"),
		vcs:     &stubVCS{branch: DefaultBranch},
		builder: &stubBuilder{output: filepath.Join(repo, "docs")},
	}
	store := frontmatter.NewFileStore()
	f.publisher = NewMirrorPublisher(MirrorConfig{
		Target:     targets.Pages(),
		Posts:      newWalker(f.source),
		Documents:  store,
		MirrorRoot: f.mirror,
		VCS:        f.vcs,
		Builder:    f.builder,
		Status:     status.NewUpdater(store, nil),
	})
	return f
}

// addPost writes a source post and, when mirrored, the same files below the
// mirror root.
func (f *mirrorFixture) addPost(t *testing.T, rel, content string, mirrored bool, assets ...string) {
	t.Helper()
	dir := filepath.FromSlash(rel)
	writeFile(t, filepath.Join(f.source, dir, "index.md"), content)
	if mirrored {
		writeFile(t, filepath.Join(f.mirror, dir, "index.md"), content)
	}
	for _, asset := range assets {
		writeFile(t, filepath.Join(f.source, dir, asset), "asset")
		if mirrored {
			writeFile(t, filepath.Join(f.mirror, dir, asset), "asset")
		}
	}
}

func (f *mirrorFixture) index(rel string) string {
	return filepath.Join(f.source, filepath.FromSlash(rel), "index.md")
}

func TestMirrorPublisherPublishesBatch(t *testing.T) {
	f := newMirrorFixture(t)
	f.addPost(t, "2024/01/alpha", mirrorDoc("Alpha", ""), true, "photo.png")
	f.addPost(t, "2024/02/beta", mirrorDoc("Beta", "editing"), true)
	f.addPost(t, "2023/12/old", mirrorDoc("Old", "published"), false)

	report, err := f.publisher.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Batch.Count() != 2 {
		t.Fatalf("expected 2 posts in batch, got %d", report.Batch.Count())
	}
	if report.Count(StateConfirmed) != 2 {
		t.Fatalf("expected 2 confirmed, got %+v", report.Outcomes)
	}

	wantCalls := []string{"branch", "stage", "stage", "commit", "push"}
	if !slices.Equal(f.vcs.calls, wantCalls) {
		t.Fatalf("expected calls %v, got %v", wantCalls, f.vcs.calls)
	}
	if len(f.vcs.staged[0]) != 6 {
		t.Fatalf("expected source and mirror files staged, got %v", f.vcs.staged[0])
	}
	if !slices.Contains(f.vcs.staged[0], filepath.Join(f.mirror, "2024", "01", "alpha", "photo.png")) {
		t.Fatalf("expected mirrored asset staged, got %v", f.vcs.staged[0])
	}
	if !slices.Equal(f.vcs.staged[1], []string{f.builder.output}) {
		t.Fatalf("expected build output staged, got %v", f.vcs.staged[1])
	}
	wantMessages := []string{"Publish 2 blog posts", "Post: Alpha", "Post: Beta"}
	if !slices.Equal(f.vcs.committed[0], wantMessages) {
		t.Fatalf("expected commit messages %v, got %v", wantMessages, f.vcs.committed[0])
	}

	for _, rel := range []string{"2024/01/alpha", "2024/02/beta"} {
		fm := readFrontmatter(t, f.index(rel))
		if fm.String(frontmatter.KeyGithubStatus) != targets.StatusPublished {
			t.Fatalf("%s: expected github-status published, got %v", rel, fm[frontmatter.KeyGithubStatus])
		}
	}
}

func TestMirrorPublisherGateListsEveryMissingFileAndChangesNothing(t *testing.T) {
	f := newMirrorFixture(t)
	f.addPost(t, "2024/01/alpha", mirrorDoc("Alpha", ""), true)
	f.addPost(t, "2024/02/beta", mirrorDoc("Beta", ""), true)
	f.addPost(t, "2024/03/gamma", mirrorDoc("Gamma", ""), true)
	writeFile(t, filepath.Join(f.source, "2024", "02", "beta", "chart.svg"), "<svg/>")

	before := map[string]string{}
	for _, rel := range []string{"2024/01/alpha", "2024/02/beta", "2024/03/gamma"} {
		before[rel] = readFile(t, f.index(rel))
	}

	report, err := f.publisher.Run(context.Background())
	if err == nil {
		t.Fatal("expected preflight error")
	}
	if !IsPreflight(err) || !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation preflight error, got %v", err)
	}
	want := []string{filepath.Join(f.mirror, "2024", "02", "beta", "chart.svg")}
	if items := PreflightItems(err); !slices.Equal(items, want) {
		t.Fatalf("expected missing items %v, got %v", want, items)
	}

	if len(f.vcs.committed) != 0 || len(f.vcs.staged) != 0 || f.builder.builds != 0 {
		t.Fatalf("expected no side effects, got staged=%v committed=%v builds=%d", f.vcs.staged, f.vcs.committed, f.builder.builds)
	}
	for rel, content := range before {
		if readFile(t, f.index(rel)) != content {
			t.Fatalf("%s: expected file unchanged", rel)
		}
	}
	if len(report.Outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %+v", report.Outcomes)
	}
}

func TestMirrorPublisherRejectsWrongBranch(t *testing.T) {
	f := newMirrorFixture(t)
	f.vcs.branch = "drafts"
	f.addPost(t, "2024/01/alpha", mirrorDoc("Alpha", ""), true)

	_, err := f.publisher.Run(context.Background())
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.TextCode != TextCodePreflightBranch {
		t.Fatalf("expected branch preflight error, got %v", err)
	}
	if items := PreflightItems(err); !slices.Equal(items, []string{"drafts"}) {
		t.Fatalf("expected branch listed, got %v", items)
	}
	if !slices.Equal(f.vcs.calls, []string{"branch"}) {
		t.Fatalf("expected only the branch check, got %v", f.vcs.calls)
	}
}

func TestMirrorPublisherEmptyBatchIsClean(t *testing.T) {
	f := newMirrorFixture(t)
	f.addPost(t, "2024/01/alpha", mirrorDoc("Alpha", "Published"), true)

	report, err := f.publisher.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Batch.Count() != 0 || len(f.vcs.committed) != 0 {
		t.Fatalf("expected nothing to publish, got batch=%d commits=%d", report.Batch.Count(), len(f.vcs.committed))
	}
}

func TestMirrorPublisherCollaboratorFailureMarksNothing(t *testing.T) {
	f := newMirrorFixture(t)
	f.vcs.failOn = "push"
	f.addPost(t, "2024/01/alpha", mirrorDoc("Alpha", ""), true)
	before := readFile(t, f.index("2024/01/alpha"))

	if _, err := f.publisher.Run(context.Background()); err == nil {
		t.Fatal("expected push failure")
	}
	if readFile(t, f.index("2024/01/alpha")) != before {
		t.Fatal("expected post left unmarked")
	}
}

func TestMirrorPublisherDryRunStopsAfterGates(t *testing.T) {
	f := newMirrorFixture(t)
	f.publisher.cfg.DryRun = true
	f.addPost(t, "2024/01/alpha", mirrorDoc("Alpha", ""), true)

	report, err := f.publisher.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Count(StateSkipped) != 1 || len(f.vcs.staged) != 0 || f.builder.builds != 0 {
		t.Fatalf("expected dry run without side effects, got %+v", report.Outcomes)
	}
}
