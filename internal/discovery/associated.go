package discovery

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	goerrors "github.com/goliatone/go-errors"
)

// AssociatedFiles lists the files that travel with a post to the mirror.
type AssociatedFiles struct {
	// Present holds every source file plus each mirror counterpart that
	// exists.
	Present []string
	// Missing holds mirror paths with no file on disk.
	Missing []string
}

// CollectAssociatedFiles enumerates every file below post.Dir and checks the
// matching path below mirrorRoot. Paths are built by joining onto post.Dir and
// mirrorRoot, so relative roots give relative results.
func CollectAssociatedFiles(post Post, mirrorRoot string) (AssociatedFiles, error) {
	var files AssociatedFiles
	mirrorDir := post.MirrorDir(mirrorRoot)

	err := filepath.WalkDir(post.Dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(post.Dir, path)
		if err != nil {
			return err
		}
		files.Present = append(files.Present, path)

		mirrored := filepath.Join(mirrorDir, rel)
		info, err := os.Stat(mirrored)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			files.Missing = append(files.Missing, mirrored)
		case err != nil:
			return err
		case info.Mode().IsRegular():
			files.Present = append(files.Present, mirrored)
		default:
			files.Missing = append(files.Missing, mirrored)
		}
		return nil
	})
	if err != nil {
		return AssociatedFiles{}, goerrors.Wrap(err, goerrors.CategoryInternal, "discovery: collect post files").
			WithMetadata(map[string]any{"post": post.RelPath})
	}
	return files, nil
}
