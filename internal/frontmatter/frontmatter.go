package frontmatter

import (
	"fmt"
	"maps"
	"strings"
	"time"
)

// Recognised frontmatter keys.
const (
	KeyTitle              = "title"
	KeyDate               = "date"
	KeyDescription        = "description"
	KeyImages             = "images"
	KeyTags               = "tags"
	KeyDraft              = "draft"
	KeyGithubStatus       = "github-status"
	KeyHashnodeStatus     = "hashnode-status"
	KeyHashnodeSlug       = "hashnode-slug"
	KeyHashnodeCoverImage = "hashnode-cover-image"
)

// Frontmatter is the decoded metadata block. Values keep the types produced by
// the TOML decoder so an unmodified map encodes back to an equivalent block.
type Frontmatter map[string]any

// Has reports whether key is present.
func (f Frontmatter) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the value for key as a trimmed string. Non string scalars are
// formatted, dates go through Date.
func (f Frontmatter) String(key string) string {
	value, ok := f[key]
	if !ok || value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case time.Time:
		return formatTime(v)
	case []any, map[string]any:
		return ""
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}

// Bool returns the value for key when it is a TOML boolean. The strings "true"
// and "false" are accepted as well.
func (f Frontmatter) Bool(key string) bool {
	switch v := f[key].(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(strings.TrimSpace(v), "true")
	default:
		return false
	}
}

// Strings returns the string elements of an array value. A single string is
// treated as a one element array. Non string elements are skipped.
func (f Frontmatter) Strings(key string) []string {
	switch v := f[key].(type) {
	case string:
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			return []string{trimmed}
		}
	case []string:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if trimmed := strings.TrimSpace(item); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		return out
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				if trimmed := strings.TrimSpace(s); trimmed != "" {
					out = append(out, trimmed)
				}
			}
		}
		return out
	}
	return nil
}

// Date returns the date value as text. TOML local dates render as
// 2006-01-02, local date-times without an offset and offset date-times as
// RFC 3339. String values are returned as written.
func (f Frontmatter) Date(key string) string {
	return f.String(key)
}

// Set assigns value to key.
func (f Frontmatter) Set(key string, value any) {
	f[key] = value
}

// Clone returns a shallow copy with cloned arrays.
func (f Frontmatter) Clone() Frontmatter {
	if f == nil {
		return Frontmatter{}
	}
	out := make(Frontmatter, len(f))
	maps.Copy(out, f)
	for key, value := range out {
		if items, ok := value.([]any); ok {
			out[key] = append([]any(nil), items...)
		}
	}
	return out
}

// The TOML decoder tags local values through the time.Location name.
func formatTime(t time.Time) string {
	switch t.Location().String() {
	case "date-local":
		return t.Format(time.DateOnly)
	case "datetime-local":
		return t.Format("2006-01-02T15:04:05")
	case "time-local":
		return t.Format(time.TimeOnly)
	default:
		return t.Format(time.RFC3339)
	}
}
