package sitegen

import (
	"context"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// FolderSync mirrors one folder into another on the local filesystem.
type FolderSync struct{}

var _ interfaces.FolderSyncer = FolderSync{}

// SyncFolder empties dst, creating it when missing, and copies the tree
// under src into it.
func (FolderSync) SyncFolder(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := clearFolder(dst); err != nil {
		return syncError(err, "sitegen: clear destination", src, dst)
	}
	if err := os.CopyFS(dst, os.DirFS(src)); err != nil {
		return syncError(err, "sitegen: copy folder", src, dst)
	}
	return nil
}

func clearFolder(dir string) error {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return os.MkdirAll(dir, 0o755)
	}
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if err := os.RemoveAll(filepath.Join(dir, entry.Name())); err != nil {
			return err
		}
	}
	return nil
}

func syncError(err error, message, src, dst string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, message).
		WithTextCode(TextCodeTransportFailed).
		WithMetadata(map[string]any{"src": src, "dst": dst})
}
