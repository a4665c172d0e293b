package rewrite

import (
	"bytes"
	"context"
	"regexp"
	"strings"

	"github.com/goliatone/go-blogpub/internal/discovery"
	"github.com/goliatone/go-blogpub/internal/frontmatter"
	"github.com/goliatone/go-blogpub/internal/logging"
	"github.com/goliatone/go-blogpub/pkg/interfaces"
)

var (
	imagePattern = regexp.MustCompile(`!\[(.*?)\]\((.*?)\)`)
	// Link text may itself hold images, as in [![alt](src)](target).
	linkPattern  = regexp.MustCompile(`\[((?:[^\[\]]*?!\[.*?\]\(.*?\))*.*?)\]\((.*?)\)`)
	schemePrefix = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9+.\-]*:`)

	sameMonthLink = regexp.MustCompile(`^\.\./([^/#]+)/?(?:index\.md)?(#.*)?$`)
	sameYearLink  = regexp.MustCompile(`^\.\./\.\./(\d{2})/([^/#]+)/?(?:index\.md)?(#.*)?$`)
	otherYearLink = regexp.MustCompile(`^\.\./\.\./\.\./(\d{4})/(\d{2})/([^/#]+)/?(?:index\.md)?(#.*)?$`)
)

// PostLookup resolves sibling posts by YYYY/MM/slug path.
type PostLookup interface {
	Lookup(rel string) (discovery.Post, bool)
}

// DocumentReader loads a post document.
type DocumentReader interface {
	Read(path string) (*frontmatter.Document, bool, error)
}

// RemoteURLFunc turns a remote identifier into the URL of the post on the
// remote host.
type RemoteURLFunc func(id string) (string, error)

// Config wires a Rewriter.
type Config struct {
	Posts     PostLookup
	Documents DocumentReader
	// IDField is the frontmatter key holding the remote identifier.
	IDField   string
	RemoteURL RemoteURLFunc
	Logger    interfaces.Logger
}

// Rewriter prepares post bodies for a remote host.
type Rewriter struct {
	posts     PostLookup
	documents DocumentReader
	idField   string
	remoteURL RemoteURLFunc
	logger    interfaces.Logger
}

// New returns a Rewriter.
func New(cfg Config) *Rewriter {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NoOp()
	}
	return &Rewriter{
		posts:     cfg.Posts,
		documents: cfg.Documents,
		idField:   cfg.IDField,
		remoteURL: cfg.RemoteURL,
		logger:    logger,
	}
}

// RewriteForRemote absolutises relative image references against
// canonicalBase and points sibling post links at the remote copy of that
// sibling when it has one. Everything else in body is kept byte for byte.
func (r *Rewriter) RewriteForRemote(ctx context.Context, post discovery.Post, body []byte, canonicalBase string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := AbsolutiseImages(body, canonicalBase)
	return r.resolveSiblingLinks(post, out), nil
}

// AbsolutiseImages prefixes every relative image reference with base.
func AbsolutiseImages(body []byte, base string) []byte {
	return imagePattern.ReplaceAllFunc(body, func(match []byte) []byte {
		groups := imagePattern.FindSubmatch(match)
		ref := string(groups[2])
		if IsAbsoluteRef(ref) {
			return match
		}
		var buf bytes.Buffer
		buf.Grow(len(match) + len(base))
		buf.WriteString("![")
		buf.Write(groups[1])
		buf.WriteString("](")
		buf.WriteString(base)
		buf.WriteString(ref)
		buf.WriteString(")")
		return buf.Bytes()
	})
}

// IsAbsoluteRef reports whether ref names a scheme or is protocol relative.
func IsAbsoluteRef(ref string) bool {
	ref = strings.TrimSpace(ref)
	return schemePrefix.MatchString(ref) || strings.HasPrefix(ref, "//")
}

func (r *Rewriter) resolveSiblingLinks(post discovery.Post, body []byte) []byte {
	if r.posts == nil || r.documents == nil || r.remoteURL == nil || r.idField == "" {
		return body
	}

	matches := linkPattern.FindAllSubmatchIndex(body, -1)
	if len(matches) == 0 {
		return body
	}

	var buf bytes.Buffer
	buf.Grow(len(body))
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if start > 0 && body[start-1] == '!' {
			continue
		}
		ref := string(body[m[4]:m[5]])
		target, fragment, ok := siblingPath(post, ref)
		if !ok {
			continue
		}
		url, ok := r.remoteLink(post, target)
		if !ok {
			continue
		}
		buf.Write(body[last:m[4]])
		buf.WriteString(url)
		buf.WriteString(fragment)
		buf.Write(body[m[5]:end])
		last = end
	}
	buf.Write(body[last:])
	return buf.Bytes()
}

func (r *Rewriter) remoteLink(post discovery.Post, rel string) (string, bool) {
	sibling, ok := r.posts.Lookup(rel)
	if !ok {
		r.logger.Debug("rewrite.link.unresolved", "post", post.RelPath, "target", rel)
		return "", false
	}
	doc, ok, err := r.documents.Read(sibling.IndexPath)
	if err != nil {
		r.logger.Warn("rewrite.link.read_failed", "post", post.RelPath, "target", rel, "error", err)
		return "", false
	}
	if !ok {
		return "", false
	}
	id := doc.Frontmatter.String(r.idField)
	if id == "" {
		r.logger.Debug("rewrite.link.not_published", "post", post.RelPath, "target", rel)
		return "", false
	}
	url, err := r.remoteURL(id)
	if err != nil {
		r.logger.Warn("rewrite.link.url_failed", "post", post.RelPath, "target", rel, "error", err)
		return "", false
	}
	return url, true
}

// siblingPath maps a relative link to the YYYY/MM/slug path it points at.
func siblingPath(post discovery.Post, ref string) (rel, fragment string, ok bool) {
	if !strings.HasPrefix(ref, "../") {
		return "", "", false
	}
	var year, month, slug string
	switch {
	case otherYearLink.MatchString(ref):
		m := otherYearLink.FindStringSubmatch(ref)
		year, month, slug, fragment = m[1], m[2], m[3], m[4]
	case sameYearLink.MatchString(ref):
		m := sameYearLink.FindStringSubmatch(ref)
		year, month, slug, fragment = post.Year, m[1], m[2], m[3]
	case sameMonthLink.MatchString(ref):
		m := sameMonthLink.FindStringSubmatch(ref)
		year, month, slug, fragment = post.Year, post.Month, m[1], m[2]
	default:
		return "", "", false
	}
	if slug == "." || slug == ".." || year == "" || month == "" {
		return "", "", false
	}
	return year + "/" + month + "/" + slug, fragment, true
}
