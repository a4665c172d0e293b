// Package targets defines the publish targets and is the single place that
// decides which posts each target acts on.
package targets

import (
	"strings"

	"github.com/goliatone/go-blogpub/internal/frontmatter"
)

// Target names.
const (
	NamePages    = "pages"
	NameHashnode = "hashnode"
)

// Status values shared by both targets.
const (
	StatusPublished   = "published"
	StatusEditing     = "editing"
	StatusUnpublished = "unpublished"
)

// Target describes how one destination records its state in frontmatter.
type Target struct {
	Name           string
	StatusField    string
	PublishedValue string
	DefaultStatus  string
	// IDField stores the identifier the destination assigned. Empty when the
	// destination assigns none.
	IDField string

	eligible func(Target, frontmatter.Frontmatter) bool
}

// Status returns the recorded status, or DefaultStatus when the field is
// absent or empty.
func (t Target) Status(fm frontmatter.Frontmatter) string {
	if status := fm.String(t.StatusField); status != "" {
		return status
	}
	return t.DefaultStatus
}

// IsPublished reports whether fm records this target as published.
func (t Target) IsPublished(fm frontmatter.Frontmatter) bool {
	return strings.EqualFold(t.Status(fm), t.PublishedValue)
}

// Eligible reports whether the target should act on a post with fm. A nil
// frontmatter, meaning the index is not a post document, is never eligible,
// and neither is an empty metadata block.
func (t Target) Eligible(fm frontmatter.Frontmatter) bool {
	if len(fm) == 0 {
		return false
	}
	if t.eligible != nil {
		return t.eligible(t, fm)
	}
	return !t.IsPublished(fm)
}

// MarkPublished sets the status field to the published value and stores id
// in IDField when both are present.
func (t Target) MarkPublished(fm frontmatter.Frontmatter, id string) {
	fm.Set(t.StatusField, t.PublishedValue)
	if t.IDField != "" && strings.TrimSpace(id) != "" {
		fm.Set(t.IDField, id)
	}
}

// Pages is the static site mirror. A post is eligible until its
// github-status reads published.
func Pages() Target {
	return Target{
		Name:           NamePages,
		StatusField:    frontmatter.KeyGithubStatus,
		PublishedValue: StatusPublished,
		DefaultStatus:  StatusEditing,
	}
}

// HashnodeOptions tunes the remote target predicate.
type HashnodeOptions struct {
	// RequireMirrorPublished holds posts back until the mirror has them,
	// since canonical URLs and images point at the mirror.
	RequireMirrorPublished bool
}

// DefaultHashnodeOptions returns the options used when none are configured.
func DefaultHashnodeOptions() HashnodeOptions {
	return HashnodeOptions{RequireMirrorPublished: true}
}

// Hashnode is the remote publishing API. A post is eligible while its
// hashnode-status reads unpublished and it is not a draft.
func Hashnode(opts HashnodeOptions) Target {
	mirror := Pages()
	return Target{
		Name:           NameHashnode,
		StatusField:    frontmatter.KeyHashnodeStatus,
		PublishedValue: StatusPublished,
		DefaultStatus:  StatusUnpublished,
		IDField:        frontmatter.KeyHashnodeSlug,
		eligible: func(t Target, fm frontmatter.Frontmatter) bool {
			if !strings.EqualFold(t.Status(fm), StatusUnpublished) {
				return false
			}
			if fm.Bool(frontmatter.KeyDraft) {
				return false
			}
			if opts.RequireMirrorPublished && !mirror.IsPublished(fm) {
				return false
			}
			return true
		},
	}
}
