package frontmatter

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"
)

// FileStore reads and writes post documents on the local filesystem.
type FileStore struct{}

// NewFileStore returns a filesystem backed store.
func NewFileStore() *FileStore {
	return &FileStore{}
}

// Read loads the document at path. See Parse for the meaning of ok.
func (s *FileStore) Read(path string) (*Document, bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		category := goerrors.CategoryInternal
		if errors.Is(err, fs.ErrNotExist) {
			category = goerrors.CategoryNotFound
		}
		return nil, false, goerrors.Wrap(err, category, "frontmatter: read document").
			WithMetadata(map[string]any{"path": path})
	}
	doc, ok, err := Parse(data)
	if err != nil {
		return nil, false, goerrors.Wrap(err, goerrors.CategoryBadInput, "frontmatter: parse document").
			WithMetadata(map[string]any{"path": path})
	}
	return doc, ok, nil
}

// Write replaces the document at path. The new content is written to a
// temporary file in the same directory and renamed over the original.
func (s *FileStore) Write(path string, doc *Document) error {
	data, err := Encode(doc)
	if err != nil {
		return err
	}

	mode := os.FileMode(0o644)
	if info, statErr := os.Stat(path); statErr == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".index-*.md")
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "frontmatter: create temp file").
			WithMetadata(map[string]any{"path": path})
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return goerrors.Wrap(err, goerrors.CategoryInternal, "frontmatter: write temp file").
			WithMetadata(map[string]any{"path": path})
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return goerrors.Wrap(err, goerrors.CategoryInternal, "frontmatter: close temp file").
			WithMetadata(map[string]any{"path": path})
	}
	if err := os.Chmod(tmpName, mode); err != nil {
		cleanup()
		return goerrors.Wrap(err, goerrors.CategoryInternal, "frontmatter: chmod temp file").
			WithMetadata(map[string]any{"path": path})
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return goerrors.Wrap(err, goerrors.CategoryInternal, "frontmatter: replace document").
			WithMetadata(map[string]any{"path": path})
	}
	return nil
}
