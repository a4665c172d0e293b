package publish

import (
	"context"
	"iter"
	"path"
	"strings"

	"github.com/goliatone/go-blogpub/internal/discovery"
)

// OnlyPosts restricts source to the posts whose YYYY/MM/slug path is listed.
// An empty list keeps every post.
func OnlyPosts(source PostSource, rels []string) PostSource {
	if len(rels) == 0 {
		return source
	}
	keep := make(map[string]struct{}, len(rels))
	for _, rel := range rels {
		keep[path.Clean(strings.Trim(strings.TrimSpace(rel), "/"))] = struct{}{}
	}
	return filteredSource{source: source, keep: keep}
}

type filteredSource struct {
	source PostSource
	keep   map[string]struct{}
}

func (f filteredSource) Walk(ctx context.Context) iter.Seq2[discovery.Post, error] {
	return func(yield func(discovery.Post, error) bool) {
		for post, err := range f.source.Walk(ctx) {
			if err == nil {
				if _, ok := f.keep[post.RelPath]; !ok {
					continue
				}
			}
			if !yield(post, err) {
				return
			}
		}
	}
}
