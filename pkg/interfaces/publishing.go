package interfaces

import "context"

// VersionControl is the slice of git the pages publisher needs. Every call is
// an opaque run-and-check-exit-status operation.
type VersionControl interface {
	CurrentBranch(ctx context.Context) (string, error)
	Stage(ctx context.Context, paths ...string) error
	Commit(ctx context.Context, messages []string) error
	Push(ctx context.Context) error
}

// SiteBuilder rebuilds the static site and reports the directory holding the
// generated output so it can be staged.
type SiteBuilder interface {
	Build(ctx context.Context) (outputDir string, err error)
}

// FolderSyncer replaces dst with an exact copy of src.
type FolderSyncer interface {
	SyncFolder(ctx context.Context, src, dst string) error
}

// RemotePublishAPI is the remote hosting API consumed by the hashnode
// publisher: one read call resolving identifiers and one write call
// submitting a post.
type RemotePublishAPI interface {
	PublishIDs(ctx context.Context, host string, tags []string) (*PublishIDs, error)
	PublishPost(ctx context.Context, input PublishPostInput) (*PublishedPost, error)
}

// PublishIDs carries the publication identifier plus one identifier per tag
// slug that resolved. Slugs that did not resolve are absent from TagIDs.
type PublishIDs struct {
	PublicationID string
	TagIDs        map[string]string
}

// PublishPostInput is the payload submitted to the remote API. Optional
// fields are omitted from the wire format when empty.
type PublishPostInput struct {
	PublicationID      string             `json:"publicationId"`
	Title              string             `json:"title"`
	PublishedAt        string             `json:"publishedAt,omitempty"`
	OriginalArticleURL string             `json:"originalArticleURL"`
	MetaTags           *MetaTags          `json:"metaTags,omitempty"`
	ContentMarkdown    string             `json:"contentMarkdown"`
	CoverImageOptions  *CoverImageOptions `json:"coverImageOptions,omitempty"`
	Tags               []TagRef           `json:"tags,omitempty"`
}

// MetaTags holds the SEO metadata sent with a post.
type MetaTags struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// CoverImageOptions selects the cover image shown by the remote host.
type CoverImageOptions struct {
	CoverImageURL string `json:"coverImageURL"`
}

// TagRef references a remote tag by identifier.
type TagRef struct {
	ID string `json:"id"`
}

// PublishedPost is the identity the remote host assigned to a submitted post.
type PublishedPost struct {
	ID   string
	Slug string
}
