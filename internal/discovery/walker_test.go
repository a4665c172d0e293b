package discovery

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"slices"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func relPaths(posts []Post) []string {
	out := make([]string, 0, len(posts))
	for _, post := range posts {
		out = append(out, post.RelPath)
	}
	return out
}

func TestWalkYieldsOnlyPostShapedFolders(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2024", "01", "a", "index.md"), "+++\n+++\n")
	writeFile(t, filepath.Join(root, "2024", "1", "b", "index.md"), "+++\n+++\n")
	writeFile(t, filepath.Join(root, "notes", "x", "index.md"), "+++\n+++\n")
	writeFile(t, filepath.Join(root, "2024", "01", "no-index", "cover.png"), "png")
	writeFile(t, filepath.Join(root, "2024", "01", "a", "nested", "index.md"), "+++\n+++\n")
	writeFile(t, filepath.Join(root, "2023", "12", "z", "index.md"), "+++\n+++\n")

	walker := NewWalker(WalkerConfig{Root: root})
	posts, err := walker.Posts(context.Background())
	if err != nil {
		t.Fatalf("Posts: %v", err)
	}

	want := []string{"2023/12/z", "2024/01/a"}
	if got := relPaths(posts); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	post := posts[1]
	if post.Year != "2024" || post.Month != "01" || post.Slug != "a" {
		t.Fatalf("unexpected post fields %#v", post)
	}
	if post.IndexPath != filepath.Join(root, "2024", "01", "a", "index.md") {
		t.Fatalf("unexpected index path %s", post.IndexPath)
	}
}

func TestWalkIsRestartable(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2024", "02", "one", "index.md"), "")
	writeFile(t, filepath.Join(root, "2024", "02", "two", "index.md"), "")

	walker := NewWalker(WalkerConfig{Root: root})
	first, err := walker.Posts(context.Background())
	if err != nil {
		t.Fatalf("first walk: %v", err)
	}
	second, err := walker.Posts(context.Background())
	if err != nil {
		t.Fatalf("second walk: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("walks differ: %v vs %v", first, second)
	}
}

func TestWalkStopsWhenConsumerBreaks(t *testing.T) {
	root := t.TempDir()
	for _, slug := range []string{"a", "b", "c"} {
		writeFile(t, filepath.Join(root, "2024", "03", slug, "index.md"), "")
	}

	walker := NewWalker(WalkerConfig{Root: root})
	var seen []string
	for post, err := range walker.Walk(context.Background()) {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		seen = append(seen, post.Slug)
		if len(seen) == 2 {
			break
		}
	}
	if !slices.Equal(seen, []string{"a", "b"}) {
		t.Fatalf("unexpected posts %v", seen)
	}
}

func TestWalkMissingRootYieldsError(t *testing.T) {
	walker := NewWalker(WalkerConfig{Root: filepath.Join(t.TempDir(), "missing")})
	if _, err := walker.Posts(context.Background()); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestWalkHonoursCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2024", "03", "a", "index.md"), "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewWalker(WalkerConfig{Root: root}).Posts(ctx); err == nil {
		t.Fatal("expected cancellation error")
	}
}

func TestLookup(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "2024", "05", "hello", "index.md"), "")
	walker := NewWalker(WalkerConfig{Root: root})

	post, ok := walker.Lookup("2024/05/hello")
	if !ok {
		t.Fatal("expected lookup to resolve")
	}
	if post.Dir != filepath.Join(root, "2024", "05", "hello") {
		t.Fatalf("unexpected dir %s", post.Dir)
	}

	for _, rel := range []string{"2024/05/missing", "2024/5/hello", "2024/05/..", "../2024/05/hello"} {
		if _, ok := walker.Lookup(rel); ok {
			t.Fatalf("expected %q not to resolve", rel)
		}
	}
}

func TestParseRelPath(t *testing.T) {
	year, month, slug, ok := ParseRelPath("2021/11/my-post/")
	if !ok || year != "2021" || month != "11" || slug != "my-post" {
		t.Fatalf("unexpected parse %s %s %s %v", year, month, slug, ok)
	}
	for _, rel := range []string{"", "2021/11", "2021/11/a/b", "21/11/a", "2021/11/./a"} {
		if _, _, _, ok := ParseRelPath(rel); ok {
			t.Fatalf("expected %q to be rejected", rel)
		}
	}
}
