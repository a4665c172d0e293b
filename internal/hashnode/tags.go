package hashnode

import (
	"strings"

	"github.com/goliatone/go-slug"
)

// NormalizeTags trims the tag slugs and drops blanks and duplicates, keeping
// order. Slugs are sent as written since the remote resolves them verbatim.
// Tags that do not follow the usual slug rules are returned in irregular so
// callers can warn; they are still part of tags.
func NormalizeTags(tags []string) (valid []string, irregular []string) {
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		trimmed := strings.TrimSpace(tag)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		valid = append(valid, trimmed)
		if !slug.IsValid(trimmed) {
			irregular = append(irregular, trimmed)
		}
	}
	return valid, irregular
}
