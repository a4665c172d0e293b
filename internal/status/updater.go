package status

import (
	"context"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/internal/targets"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// DocumentStore reads and writes post documents.
type DocumentStore interface {
	Read(path string) (*frontmatter.Document, bool, error)
	Write(path string, doc *frontmatter.Document) error
}

// Updater records confirmed publishes in post frontmatter.
type Updater struct {
	store  DocumentStore
	logger interfaces.Logger
}

// NewUpdater returns an Updater writing through store.
func NewUpdater(store DocumentStore, logger interfaces.Logger) *Updater {
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Updater{store: store, logger: logger}
}

// MarkPublished reloads the post index, applies the target mutation and
// writes the document back. The reload picks up edits made while the remote
// call was in flight.
func (u *Updater) MarkPublished(ctx context.Context, post discovery.Post, target targets.Target, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, ok, err := u.store.Read(post.IndexPath)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "status: reload post").
			WithMetadata(map[string]any{"post": post.RelPath, "target": target.Name})
	}
	if !ok {
		return goerrors.New("status: post index no longer has a metadata block", goerrors.CategoryConflict).
			WithMetadata(map[string]any{"post": post.RelPath, "target": target.Name})
	}

	target.MarkPublished(doc.Frontmatter, id)

	if err := u.store.Write(post.IndexPath, doc); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryOperation, "status: write post").
			WithMetadata(map[string]any{"post": post.RelPath, "target": target.Name})
	}

	u.logger.Info("status.marked_published",
		"post", post.RelPath,
		"target", target.Name,
		"field", target.StatusField,
		"id", id,
	)
	return nil
}
