package publish

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func readFrontmatter(t *testing.T, path string) frontmatter.Frontmatter {
	t.Helper()
	doc, ok, err := frontmatter.NewFileStore().Read(path)
	if err != nil || !ok {
		t.Fatalf("read frontmatter %s: ok=%v err=%v", path, ok, err)
	}
	return doc.Frontmatter
}

func newWalker(root string) *discovery.Walker {
	return discovery.NewWalker(discovery.WalkerConfig{Root: root})
}

type stubCanonical struct{}

func (stubCanonical) Canonical(post discovery.Post) (string, error) {
	return "https://writer.github.io/blog/posts/" + post.RelPath + "/", nil
}

type stubAPI struct {
	tagIDs    map[string]string
	failTitle map[string]error
	queryErr  error
	queries   [][]string
	submitted []interfaces.PublishPostInput
}

func (s *stubAPI) PublishIDs(_ context.Context, host string, tags []string) (*interfaces.PublishIDs, error) {
	s.queries = append(s.queries, append([]string{host}, tags...))
	if s.queryErr != nil {
		return nil, s.queryErr
	}
	ids := &interfaces.PublishIDs{PublicationID: "pub-1", TagIDs: map[string]string{}}
	for _, tag := range tags {
		if id, ok := s.tagIDs[tag]; ok {
			ids.TagIDs[tag] = id
		}
	}
	return ids, nil
}

func (s *stubAPI) PublishPost(_ context.Context, input interfaces.PublishPostInput) (*interfaces.PublishedPost, error) {
	if err := s.failTitle[input.Title]; err != nil {
		return nil, err
	}
	s.submitted = append(s.submitted, input)
	return &interfaces.PublishedPost{
		ID:   "id-" + input.Title,
		Slug: slugOf(input.Title),
	}, nil
}

func slugOf(title string) string {
	out := make([]rune, 0, len(title))
	for _, r := range title {
		switch {
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ':
			out = append(out, '-')
		default:
			out = append(out, r)
		}
	}
	return string(out)
}

type stubVCS struct {
	branch    string
	failOn    string
	calls     []string
	staged    [][]string
	committed [][]string
}

func (s *stubVCS) fail(step string) error {
	s.calls = append(s.calls, step)
	if s.failOn == step {
		return errors.New(step + " failed")
	}
	return nil
}

func (s *stubVCS) CurrentBranch(context.Context) (string, error) {
	return s.branch, s.fail("branch")
}

func (s *stubVCS) Stage(_ context.Context, paths ...string) error {
	s.staged = append(s.staged, paths)
	return s.fail("stage")
}

func (s *stubVCS) Commit(_ context.Context, messages []string) error {
	s.committed = append(s.committed, messages)
	return s.fail("commit")
}

func (s *stubVCS) Push(context.Context) error {
	return s.fail("push")
}

type stubBuilder struct {
	output string
	err    error
	builds int
}

func (s *stubBuilder) Build(context.Context) (string, error) {
	s.builds++
	return s.output, s.err
}
