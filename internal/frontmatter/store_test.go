package frontmatter

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	goerrors "github.com/goliatone/go-errors"
)

func TestFileStoreWriteKeepsBodyAndMode(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.md")
	original := readFixture(t, "post.md")
	if err := os.WriteFile(path, original, 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	store := NewFileStore()
	doc, ok, err := store.Read(path)
	if err != nil || !ok {
		t.Fatalf("Read: ok=%v err=%v", ok, err)
	}
	doc.Frontmatter.Set(KeyHashnodeStatus, "published")

	if err := store.Write(path, doc); err != nil {
		t.Fatalf("Write: %v", err)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.HasSuffix(written, doc.Body) {
		t.Fatal("body not preserved")
	}

	reread, ok, err := store.Read(path)
	if err != nil || !ok {
		t.Fatalf("reread: ok=%v err=%v", ok, err)
	}
	if reread.Frontmatter.String(KeyHashnodeStatus) != "published" {
		t.Fatalf("expected mutation to persist, got %v", reread.Frontmatter)
	}
	if reread.Frontmatter.String(KeyGithubStatus) != "published" {
		t.Fatal("expected untouched keys to persist")
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Fatalf("expected mode 0600, got %v", info.Mode().Perm())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected temp file to be renamed away, got %d entries", len(entries))
	}
}

func TestFileStoreReadMissingFile(t *testing.T) {
	_, ok, err := NewFileStore().Read(filepath.Join(t.TempDir(), "index.md"))
	if err == nil || ok {
		t.Fatalf("expected error for missing file, got ok=%v err=%v", ok, err)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
		t.Fatalf("expected not found category, got %v", err)
	}
}
