// Package publish drives posts through a publish target: selecting eligible
// posts, handing them to the target's collaborators and recording confirmed
// results in frontmatter.
package publish

import (
	"context"
	"iter"

	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/targets"
)

// PostSource yields the posts of the source tree.
type PostSource interface {
	Walk(ctx context.Context) iter.Seq2[discovery.Post, error]
}

// DocumentReader loads a post's index document.
type DocumentReader interface {
	Read(path string) (*frontmatter.Document, bool, error)
}

// StatusMarker records a confirmed publication in a post's frontmatter.
type StatusMarker interface {
	MarkPublished(ctx context.Context, post discovery.Post, target targets.Target, id string) error
}

// BodyRewriter prepares a post body for the remote host.
type BodyRewriter interface {
	RewriteForRemote(ctx context.Context, post discovery.Post, body []byte, canonicalBase string) ([]byte, error)
}

// CanonicalURLs builds the public mirror URL of a post.
type CanonicalURLs interface {
	Canonical(post discovery.Post) (string, error)
}

func postTitle(post discovery.Post, fm frontmatter.Frontmatter) string {
	if title := fm.String(frontmatter.KeyTitle); title != "" {
		return title
	}
	return post.Slug
}
