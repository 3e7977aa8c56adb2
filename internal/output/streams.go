package output

import (
	"fmt"
	"sort"
	"strings"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
)

// StreamRenderOptions configures RenderStreams
type StreamRenderOptions struct {
	// Commits lists every commit under its branch, not just the summary line
	Commits bool
}

// RenderBranchTree draws the branch hierarchy, children indented under the
// branch they were cut from.
func RenderBranchTree(streams engine.StreamReader) []string {
	children := make(map[string][]string)
	var roots []string
	for _, branch := range streams.Branches() {
		parent := streams.Parent(branch)
		if parent == "" {
			roots = append(roots, branch)
			continue
		}
		children[parent] = append(children[parent], branch)
	}

	var lines []string
	var walk func(branch string, depth int)
	walk = func(branch string, depth int) {
		summary := fmt.Sprintf("%d commits", streams.Len(branch))
		if bp := streams.Branchpoint(branch); bp != nil {
			summary += fmt.Sprintf(", cut from %s", bp.CommitID())
		}
		line := strings.Repeat("│ ", depth) + ColorBranch("◯ "+branch, depth) + " " + ColorDim(summary)
		lines = append(lines, line)
		for _, child := range children[branch] {
			walk(child, depth+1)
		}
	}
	for _, root := range roots {
		walk(root, 0)
	}
	return lines
}

// RenderStreams renders every branch stream in branch order
func RenderStreams(streams engine.StreamReader, opts StreamRenderOptions) []string {
	if !opts.Commits {
		return RenderBranchTree(streams)
	}

	var lines []string
	for _, branch := range streams.Branches() {
		lines = append(lines, ColorBranch(branch, len(streams.Ancestors(branch))))
		for _, c := range streams.Commits(branch) {
			line := fmt.Sprintf("  %4d  %s", streams.Index(c), FormatCommit(c))
			if merge := c.MergeFrom(); merge != nil {
				line += " " + ColorMagenta(fmt.Sprintf("<- %s@%s", merge.CommitID(), merge.Branch()))
			}
			if branches := streams.BranchpointsOn(c); len(branches) > 0 {
				line += " " + ColorDim("["+strings.Join(branches, ", ")+"]")
			}
			lines = append(lines, line)
		}
	}
	return lines
}

// FormatCommit returns a one-line description of a commit's revisions
func FormatCommit(c *cvs.Commit) string {
	var sb strings.Builder
	sb.WriteString(c.CommitID())
	for _, f := range c.Files() {
		sb.WriteString(" ")
		sb.WriteString(f.File.Name)
		sb.WriteString("@")
		sb.WriteString(f.Revision.String())
		if f.IsDead {
			sb.WriteString("(dead)")
		}
	}
	return sb.String()
}

// RenderTagTable lists resolved tags with the commit each resolved to, followed
// by the unresolved tags
func RenderTagTable(resolved map[string]*cvs.Commit, unresolved []string) []string {
	names := make([]string, 0, len(resolved))
	for name := range resolved {
		names = append(names, name)
	}
	sort.Strings(names)

	width := 0
	for _, name := range append(append([]string{}, names...), unresolved...) {
		width = max(width, len(name))
	}

	var lines []string
	for _, name := range names {
		c := resolved[name]
		lines = append(lines, fmt.Sprintf("%s  %s", ColorSuccess(fmt.Sprintf("%-*s", width, name)),
			ColorDim(fmt.Sprintf("%s on %s", c.CommitID(), c.Branch()))))
	}
	for _, name := range unresolved {
		lines = append(lines, fmt.Sprintf("%s  %s", ColorWarning(fmt.Sprintf("%-*s", width, name)), "unresolved"))
	}
	return lines
}
