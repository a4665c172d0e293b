package discovery

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultIndexName is the index document every post folder carries.
const DefaultIndexName = "index.md"

var postPathPattern = regexp.MustCompile(`^(\d{4})/(\d{2})/([^/]+)$`)

// Post is a folder holding one blog post.
type Post struct {
	// Dir is the folder on disk.
	Dir string
	// RelPath is the slash separated YYYY/MM/slug path below the source root.
	RelPath   string
	Year      string
	Month     string
	Slug      string
	IndexPath string
}

// MirrorDir returns the folder mirroring the post below mirrorRoot.
func (p Post) MirrorDir(mirrorRoot string) string {
	return filepath.Join(mirrorRoot, filepath.FromSlash(p.RelPath))
}

// ParseRelPath splits a YYYY/MM/slug path. ok is false for any other shape.
func ParseRelPath(rel string) (year, month, slug string, ok bool) {
	rel = strings.Trim(filepath.ToSlash(rel), "/")
	if rel == "" || path.Clean(rel) != rel {
		return "", "", "", false
	}
	matches := postPathPattern.FindStringSubmatch(rel)
	if matches == nil {
		return "", "", "", false
	}
	if matches[3] == "." || matches[3] == ".." {
		return "", "", "", false
	}
	return matches[1], matches[2], matches[3], true
}
