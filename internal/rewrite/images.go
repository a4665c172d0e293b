package rewrite

import (
	"errors"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-blogpub/internal/discovery"
)

// ReferencedImages returns the destination of every image node in body, in
// document order.
func ReferencedImages(body []byte) []string {
	doc := goldmark.New().Parser().Parse(text.NewReader(body))

	var out []string
	_ = ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if image, ok := node.(*ast.Image); ok {
			out = append(out, string(image.Destination))
		}
		return ast.WalkContinue, nil
	})
	return out
}

// MissingImages lists relative image references in body that have no file in
// the post folder.
func MissingImages(post discovery.Post, body []byte) []string {
	var missing []string
	for _, ref := range ReferencedImages(body) {
		if ref == "" || IsAbsoluteRef(ref) || strings.HasPrefix(ref, "/") {
			continue
		}
		local := ref
		if i := strings.IndexAny(local, "?#"); i >= 0 {
			local = local[:i]
		}
		if unescaped, err := url.PathUnescape(local); err == nil {
			local = unescaped
		}
		_, err := os.Stat(filepath.Join(post.Dir, filepath.FromSlash(local)))
		if errors.Is(err, fs.ErrNotExist) {
			missing = append(missing, ref)
		}
	}
	return missing
}
