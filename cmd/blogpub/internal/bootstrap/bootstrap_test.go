package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	publishcmd "github.com/goliatone/go-blogpub/internal/commands/publish"
	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/internal/publish"
	"github.com/goliatone/go-blogpub/internal/runtimeconfig"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

type noopProvider struct{}

func (noopProvider) GetLogger(string) interfaces.Logger { return logging.NoOp() }

type scriptedRunner struct {
	calls []string
}

func (r *scriptedRunner) Run(_ context.Context, _ string, name string, args ...string) ([]byte, []byte, int, error) {
	r.calls = append(r.calls, name+" "+strings.Join(args, " "))
	if name == "git" && len(args) > 0 && args[0] == "rev-parse" {
		return []byte("main\n"), nil, 0, nil
	}
	return nil, nil, 0, nil
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}

func writeConfig(t *testing.T, repo, extra string) string {
	t.Helper()
	path := filepath.Join(repo, "blogpub.toml")
	content := "[paths]\nrepo_root = " + quote(repo) + "\n\n[pages]\nhost = \"writer.github.io\"\nblog_slug = \"blog\"\n" + extra
	writeFile(t, path, content)
	return path
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(filepath.ToSlash(value), `"`, `\"`) + `"`
}

func noEnv(string) (string, bool) { return "", false }

const readyPost = "+++\ntitle = \"Hello World\"\ndate = 2024-03-01\n+++\n\nHello.\n"

func TestBuildResolvesPathsAgainstRepoRoot(t *testing.T) {
	repo := t.TempDir()
	module, err := Build(Options{
		ConfigPath:     writeConfig(t, repo, ""),
		Lookup:         noEnv,
		LoggerProvider: noopProvider{},
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer module.Close()

	if module.Paths.Source != filepath.Join(repo, "blog-posts") {
		t.Fatalf("unexpected source %q", module.Paths.Source)
	}
	if module.Paths.Content != filepath.Join(repo, "content", "posts") {
		t.Fatalf("unexpected content %q", module.Paths.Content)
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	repo := t.TempDir()
	path := writeConfig(t, repo, "\n[logging]\nformat = \"xml\"\n")

	_, err := Build(Options{ConfigPath: path, Lookup: noEnv, LoggerProvider: noopProvider{}})
	if !errors.Is(err, runtimeconfig.ErrLoggingFormatInvalid) {
		t.Fatalf("expected ErrLoggingFormatInvalid, got %v", err)
	}
}

func TestHashnodeFactoryRequiresToken(t *testing.T) {
	repo := t.TempDir()
	module, err := Build(Options{ConfigPath: writeConfig(t, repo, ""), Lookup: noEnv, LoggerProvider: noopProvider{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer module.Close()

	if _, err := module.HashnodeFactory(context.Background()); !errors.Is(err, runtimeconfig.ErrHashnodeTokenRequired) {
		t.Fatalf("expected ErrHashnodeTokenRequired, got %v", err)
	}
}

func TestPagesFactoryPublishesThroughGitAndHugo(t *testing.T) {
	repo := t.TempDir()
	writeFile(t, filepath.Join(repo, "blog-posts", "2024", "03", "hello", "index.md"), readyPost)
	writeFile(t, filepath.Join(repo, "content", "posts", "2024", "03", "hello", "index.md"), readyPost)

	runner := &scriptedRunner{}
	module, err := Build(Options{
		ConfigPath:     writeConfig(t, repo, ""),
		Lookup:         noEnv,
		LoggerProvider: noopProvider{},
		Runner:         runner,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer module.Close()

	var report *publish.Report
	handler := publishcmd.NewPublishPagesHandler(module.PagesFactory(), nil)
	err = handler.Execute(context.Background(), publishcmd.PublishPagesCommand{
		ResultCallback: func(r *publish.Report) { report = r },
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if report.Count(publish.StateConfirmed) != 1 {
		t.Fatalf("expected one confirmed post, got %+v", report.Outcomes)
	}

	joined := strings.Join(runner.calls, "\n")
	for _, want := range []string{"git rev-parse --abbrev-ref HEAD", "hugo --minify -d", "git commit -m Publish Post: Hello World", "git push origin main"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("expected call %q in:\n%s", want, joined)
		}
	}

	doc, _, err := frontmatter.NewFileStore().Read(filepath.Join(repo, "blog-posts", "2024", "03", "hello", "index.md"))
	if err != nil || doc.Frontmatter.String(frontmatter.KeyGithubStatus) != "published" {
		t.Fatalf("expected github-status published, got %v err=%v", doc, err)
	}
}

func TestHashnodeFactoryPublishesAndRecordsLedger(t *testing.T) {
	repo := t.TempDir()
	post := "+++\ntitle = \"Hello World\"\ndate = 2024-03-01\ngithub-status = \"published\"\n+++\n\n![chart](chart.png)\n"
	writeFile(t, filepath.Join(repo, "blog-posts", "2024", "03", "hello", "index.md"), post)

	var submitted []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		if r.Header.Get("Authorization") != "secret" {
			t.Errorf("expected token header, got %q", r.Header.Get("Authorization"))
		}
		w.Header().Set("Content-Type", "application/json")
		if bytes.Contains(body, []byte("publication(host")) {
			_, _ = w.Write([]byte(`{"data":{"publication":{"id":"pub-1"}}}`))
			return
		}
		submitted = append(submitted, string(body))
		_, _ = w.Write([]byte(`{"data":{"publishPost":{"post":{"id":"p1","slug":"hello-world-abc"}}}}`))
	}))
	defer server.Close()

	env := map[string]string{
		runtimeconfig.EnvHashnodeToken: "secret",
		runtimeconfig.EnvHashnodeHost:  "blog.example.dev",
	}
	module, err := Build(Options{
		ConfigPath:     writeConfig(t, repo, "\n[hashnode]\nendpoint = \""+server.URL+"\"\n"),
		Lookup:         func(key string) (string, bool) { v, ok := env[key]; return v, ok },
		LoggerProvider: noopProvider{},
		HTTPClient:     server.Client(),
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer module.Close()

	factory, err := module.HashnodeFactory(context.Background())
	if err != nil {
		t.Fatalf("HashnodeFactory: %v", err)
	}
	runner, err := factory(publishcmd.RunOptions{})
	if err != nil {
		t.Fatalf("factory: %v", err)
	}
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if report.Count(publish.StateConfirmed) != 1 {
		t.Fatalf("expected confirmed post, got %+v", report.Outcomes)
	}
	if len(submitted) != 1 || !strings.Contains(submitted[0], "https://writer.github.io/blog/posts/2024/03/hello/chart.png") {
		t.Fatalf("expected absolutised image in submission, got %v", submitted)
	}
	if _, err := os.Stat(filepath.Join(repo, ".blogpub", "ledger.db")); err != nil {
		t.Fatalf("expected ledger database, got %v", err)
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	PrintReport(&buf, &publish.Report{
		Target: "hashnode",
		Outcomes: []publish.Outcome{
			{Title: "One", State: publish.StateConfirmed, RemoteID: "one", Recovered: true},
			{Title: "Two", State: publish.StateFailed, Err: errors.New("boom")},
			{Title: "Three", State: publish.StateSkipped, Reason: publish.ReasonIneligible},
		},
	})
	out := buf.String()
	for _, want := range []string{"[recovered]", "failed", "boom", "hashnode: 1 published, 1 skipped, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Three") {
		t.Fatalf("expected skipped post to be counted only:\n%s", out)
	}
}

func TestSplitList(t *testing.T) {
	got := SplitList(" 2024/01/a , ,2024/02/b")
	if len(got) != 2 || got[0] != "2024/01/a" || got[1] != "2024/02/b" {
		t.Fatalf("unexpected split %v", got)
	}
	if SplitList("  ") != nil {
		t.Fatal("expected nil for blank input")
	}
}
