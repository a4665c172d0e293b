package discovery

import (
	"context"
	"errors"
	"io/fs"
	"iter"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

var (
	yearSegment  = regexp.MustCompile(`^\d{4}$`)
	monthSegment = regexp.MustCompile(`^\d{2}$`)
)

// WalkerConfig configures a Walker.
type WalkerConfig struct {
	// Root is the source tree holding YYYY/MM/slug folders.
	Root string
	// IndexName defaults to index.md.
	IndexName string
	// WarnMissingIndex logs post shaped folders without an index at warn
	// level instead of debug.
	WarnMissingIndex bool
	Logger           interfaces.Logger
}

// Walker discovers post folders below a source root.
type Walker struct {
	root             string
	indexName        string
	warnMissingIndex bool
	logger           interfaces.Logger
}

// NewWalker builds a Walker from cfg.
func NewWalker(cfg WalkerConfig) *Walker {
	indexName := strings.TrimSpace(cfg.IndexName)
	if indexName == "" {
		indexName = DefaultIndexName
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Walker{
		root:             filepath.Clean(cfg.Root),
		indexName:        indexName,
		warnMissingIndex: cfg.WarnMissingIndex,
		logger:           logger,
	}
}

// Root returns the source root.
func (w *Walker) Root() string {
	return w.root
}

// Walk yields every post folder in lexical order. Folders with any other
// shape, and post shaped folders without an index document, are skipped.
// Each call starts a fresh walk. A walk error is yielded once and ends the
// sequence.
func (w *Walker) Walk(ctx context.Context) iter.Seq2[Post, error] {
	return func(yield func(Post, error) bool) {
		stopped := false
		err := fs.WalkDir(os.DirFS(w.root), ".", func(rel string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.IsDir() || rel == "." {
				return nil
			}

			segments := strings.Split(rel, "/")
			switch len(segments) {
			case 1:
				if !yearSegment.MatchString(segments[0]) {
					return fs.SkipDir
				}
				return nil
			case 2:
				if !monthSegment.MatchString(segments[1]) {
					return fs.SkipDir
				}
				return nil
			}

			post, ok, err := w.lookup(rel)
			if err != nil {
				return err
			}
			if ok {
				if !yield(post, nil) {
					stopped = true
					return fs.SkipAll
				}
			}
			return fs.SkipDir
		})
		if err != nil && !stopped {
			yield(Post{}, goerrors.Wrap(err, goerrors.CategoryInternal, "discovery: walk source tree").
				WithMetadata(map[string]any{"root": w.root}))
		}
	}
}

// Posts collects Walk into a slice.
func (w *Walker) Posts(ctx context.Context) ([]Post, error) {
	var posts []Post
	for post, err := range w.Walk(ctx) {
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, nil
}

// Lookup resolves the post at rel, a YYYY/MM/slug path below the root.
func (w *Walker) Lookup(rel string) (Post, bool) {
	post, ok, err := w.lookup(rel)
	if err != nil {
		w.logger.Warn("discovery.lookup.failed", "post", rel, "error", err)
		return Post{}, false
	}
	return post, ok
}

func (w *Walker) lookup(rel string) (Post, bool, error) {
	rel = path.Clean(filepath.ToSlash(rel))
	year, month, slug, ok := ParseRelPath(rel)
	if !ok {
		w.logger.Debug("discovery.folder.skipped", "path", rel, "reason", "shape")
		return Post{}, false, nil
	}

	dir := filepath.Join(w.root, filepath.FromSlash(rel))
	index := filepath.Join(dir, w.indexName)
	info, err := os.Stat(index)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		if w.warnMissingIndex {
			w.logger.Warn("discovery.folder.missing_index", "path", dir, "index", w.indexName)
		} else {
			w.logger.Debug("discovery.folder.skipped", "path", rel, "reason", "missing_index")
		}
		return Post{}, false, nil
	case err != nil:
		return Post{}, false, err
	case info.IsDir():
		return Post{}, false, nil
	}

	return Post{
		Dir:       dir,
		RelPath:   rel,
		Year:      year,
		Month:     month,
		Slug:      slug,
		IndexPath: index,
	}, true, nil
}
