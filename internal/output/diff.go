package output

import (
	"fmt"
	"strings"

	difflib "github.com/ianbruene/go-difflib/difflib"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
)

// Snapshot records the commit listing of every branch stream
func Snapshot(streams engine.StreamReader) map[string][]string {
	snapshot := make(map[string][]string)
	for _, branch := range streams.Branches() {
		snapshot[branch] = StreamListing(streams.Commits(branch))
	}
	return snapshot
}

// StreamListing returns one line per commit, in stream order
func StreamListing(commits []*cvs.Commit) []string {
	lines := make([]string, len(commits))
	for i, c := range commits {
		lines[i] = FormatCommit(c) + "\n"
	}
	return lines
}

// StreamDiff returns a unified diff between two listings of a branch stream.
// The result is empty when the listings match.
func StreamDiff(branch string, before, after []string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        before,
		B:        after,
		FromFile: branch + " (before)",
		ToFile:   branch + " (after)",
		Context:  2,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("failed to diff branch %s: %w", branch, err)
	}
	return text, nil
}

// SnapshotDiff diffs every branch of a snapshot against the streams' current
// contents and concatenates the non-empty results in branch order.
func SnapshotDiff(before map[string][]string, streams engine.StreamReader) (string, error) {
	var sb strings.Builder
	for _, branch := range streams.Branches() {
		text, err := StreamDiff(branch, before[branch], StreamListing(streams.Commits(branch)))
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}
	return sb.String(), nil
}
