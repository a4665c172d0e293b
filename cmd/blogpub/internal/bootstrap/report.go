package bootstrap

import (
	"fmt"
	"io"
	"strings"

	"github.com/goliatone/go-blogpub/internal/hashnode"
	"github.com/goliatone/go-blogpub/internal/publish"
)

// SplitList parses a comma separated flag value into trimmed entries.
func SplitList(value string) []string {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// PrintReport writes one line per confirmed or failed post plus a summary.
// Skipped posts are only counted.
func PrintReport(w io.Writer, report *publish.Report) {
	if report == nil {
		return
	}
	for _, outcome := range report.Outcomes {
		switch outcome.State {
		case publish.StateConfirmed:
			line := fmt.Sprintf("published  %s  %s", outcome.Post.RelPath, outcome.Title)
			if outcome.RemoteID != "" {
				line += "  (" + outcome.RemoteID + ")"
			}
			if outcome.Recovered {
				line += "  [recovered]"
			}
			fmt.Fprintln(w, line)
		case publish.StateFailed:
			fmt.Fprintf(w, "failed     %s  %s: %v\n", outcome.Post.RelPath, outcome.Title, outcome.Err)
			for _, message := range hashnode.RemoteMessages(outcome.Err) {
				fmt.Fprintf(w, "           remote: %s\n", message)
			}
		case publish.StateSkipped:
			if outcome.Reason == publish.ReasonDryRun {
				fmt.Fprintf(w, "dry run    %s  %s\n", outcome.Post.RelPath, outcome.Title)
			}
		}
	}
	fmt.Fprintf(w, "%s: %d published, %d skipped, %d failed\n",
		report.Target,
		report.Count(publish.StateConfirmed),
		report.Count(publish.StateSkipped),
		report.Count(publish.StateFailed),
	)
}

// PrintPreflight lists every item named by a preflight error.
func PrintPreflight(w io.Writer, err error) {
	if !publish.IsPreflight(err) {
		return
	}
	for _, item := range publish.PreflightItems(err) {
		fmt.Fprintf(w, "  %s\n", item)
	}
}
