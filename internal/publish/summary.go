package publish

import (
	"fmt"
	"strings"
	"unicode"
)

// MaxCommitLineLength bounds each title line of a commit message.
const MaxCommitLineLength = 80

const summarisedTitles = 3

// CommitMessages builds the -m paragraphs for a commit publishing titles.
// One post gives a single line. More posts give a count line, one line for
// each of the first three titles and a trailer counting the rest.
func CommitMessages(titles []string) []string {
	switch len(titles) {
	case 0:
		return nil
	case 1:
		return []string{"Publish Post: " + ShortenWithEllipsis(titles[0], MaxCommitLineLength)}
	}

	messages := []string{fmt.Sprintf("Publish %d blog posts", len(titles))}
	for _, title := range titles[:min(summarisedTitles, len(titles))] {
		messages = append(messages, "Post: "+ShortenWithEllipsis(title, MaxCommitLineLength))
	}
	if extra := len(titles) - summarisedTitles; extra > 0 {
		messages = append(messages, fmt.Sprintf("... and %d more post(s)", extra))
	}
	return messages
}

// ShortenWithEllipsis limits text to max characters followed by "...". It
// cuts at the last space when that space lies in the second half of the
// limit. Text without spaces is cut at max-1.
func ShortenWithEllipsis(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	if !strings.Contains(text, " ") {
		return string(runes[:max-1]) + "..."
	}

	truncated := []rune(strings.TrimRightFunc(string(runes[:max]), unicode.IsSpace))
	lastSpace := -1
	for i := len(truncated) - 1; i >= 0; i-- {
		if truncated[i] == ' ' {
			lastSpace = i
			break
		}
	}
	if lastSpace == -1 || lastSpace < max/2 {
		return string(truncated) + "..."
	}
	return string(truncated[:lastSpace]) + "..."
}
