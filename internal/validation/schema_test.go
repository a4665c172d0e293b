package validation

import (
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

func TestValidateFrontmatterAcceptsRecognisedKeys(t *testing.T) {
	fm := map[string]any{
		"title":           "Hello",
		"date":            time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"description":     "A post",
		"tags":            []any{"go", "cli"},
		"images":          []any{"cover.png"},
		"draft":           false,
		"hashnode-status": "unpublished",
		"weight":          int64(10),
		"extra":           map[string]any{"series": "tools"},
	}
	if err := ValidateFrontmatter(fm, "title", "date"); err != nil {
		t.Fatalf("expected frontmatter to validate, got %v", err)
	}
}

func TestValidateFrontmatterReportsEveryIssue(t *testing.T) {
	fm := map[string]any{
		"tags":  []any{"go", int64(3)},
		"draft": "yes",
	}
	err := ValidateFrontmatter(fm, "title")
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}

	issues := Issues(err)
	if len(issues) < 3 {
		t.Fatalf("expected issues for tags, draft and title, got %#v", issues)
	}
	joined := err.Error()
	for _, fragment := range []string{"/tags/1", "/draft", "title"} {
		found := strings.Contains(joined, fragment)
		for _, issue := range issues {
			if strings.Contains(issue.Location, fragment) || strings.Contains(issue.Message, fragment) {
				found = true
			}
		}
		if !found {
			t.Fatalf("expected an issue mentioning %q, got %#v", fragment, issues)
		}
	}

	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		t.Fatalf("expected go-errors error, got %T", err)
	}
	if typed.TextCode != TextCodeFrontmatterInvalid {
		t.Fatalf("expected text code %s, got %s", TextCodeFrontmatterInvalid, typed.TextCode)
	}
	if _, ok := typed.Metadata["issues"].([]string); !ok {
		t.Fatalf("expected issues metadata, got %#v", typed.Metadata)
	}
}

func TestValidateFrontmatterWithoutRequiredKeys(t *testing.T) {
	if err := ValidateFrontmatter(map[string]any{}); err != nil {
		t.Fatalf("expected empty frontmatter to pass without required keys, got %v", err)
	}
	if err := ValidateFrontmatter(nil, "title"); err == nil {
		t.Fatal("expected missing title to fail")
	}
}

func TestValidateFrontmatterRejectsEmptyTitle(t *testing.T) {
	err := ValidateFrontmatter(map[string]any{"title": "", "date": "2024-01-01"}, "date", "title")
	if err == nil {
		t.Fatal("expected empty title to fail")
	}
}
