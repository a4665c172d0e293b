package publish

import (
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// Preflight text codes.
const (
	TextCodePreflightBranch        = "PREFLIGHT_BRANCH"
	TextCodePreflightMissingMirror = "PREFLIGHT_MISSING_MIRROR"
)

// MetadataItems is the error metadata key listing every offending item.
const MetadataItems = "items"

func preflightError(code, message string, items []string) *goerrors.Error {
	return goerrors.New(message, goerrors.CategoryValidation).
		WithTextCode(code).
		WithMetadata(map[string]any{MetadataItems: append([]string(nil), items...)})
}

// IsPreflight reports whether err is a batch level gate failure.
func IsPreflight(err error) bool {
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		return false
	}
	return strings.HasPrefix(typed.TextCode, "PREFLIGHT_")
}

// PreflightItems returns the offending items listed by a preflight error.
func PreflightItems(err error) []string {
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) || typed.Metadata == nil {
		return nil
	}
	items, _ := typed.Metadata[MetadataItems].([]string)
	return items
}
