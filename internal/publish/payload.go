package publish

import (
	"time"

	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/rewrite"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

// BuildPublishInput assembles the remote submission for a post. Relative image
// fields are resolved against canonical. Tags are included in order when the
// remote host resolved them.
func BuildPublishInput(fm frontmatter.Frontmatter, ids *interfaces.PublishIDs, canonical string, body []byte, tags []string) interfaces.PublishPostInput {
	title := fm.String(frontmatter.KeyTitle)
	input := interfaces.PublishPostInput{
		Title:              title,
		PublishedAt:        publishedAt(fm),
		OriginalArticleURL: canonical,
		ContentMarkdown:    string(body),
		MetaTags:           &interfaces.MetaTags{Title: title},
	}
	if ids != nil {
		input.PublicationID = ids.PublicationID
	}

	input.MetaTags.Description = fm.String(frontmatter.KeyDescription)
	if images := fm.Strings(frontmatter.KeyImages); len(images) > 0 && images[0] != "" {
		input.MetaTags.Image = resolveRef(canonical, images[0])
	}
	if cover := fm.String(frontmatter.KeyHashnodeCoverImage); cover != "" {
		input.CoverImageOptions = &interfaces.CoverImageOptions{
			CoverImageURL: resolveRef(canonical, cover),
		}
	}

	if ids != nil {
		for _, tag := range tags {
			if id, ok := ids.TagIDs[tag]; ok && id != "" {
				input.Tags = append(input.Tags, interfaces.TagRef{ID: id})
			}
		}
	}
	return input
}

// publishedAt renders TOML dates as RFC 3339 timestamps. String dates are
// sent as written.
func publishedAt(fm frontmatter.Frontmatter) string {
	if value, ok := fm[frontmatter.KeyDate].(time.Time); ok {
		return value.Format(time.RFC3339)
	}
	return fm.Date(frontmatter.KeyDate)
}

func resolveRef(canonical, ref string) string {
	if rewrite.IsAbsoluteRef(ref) {
		return ref
	}
	return canonical + ref
}
