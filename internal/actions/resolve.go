package actions

import (
	"fmt"
	"strings"

	"cvsgit.dev/cvsgit/internal/history"
	"cvsgit.dev/cvsgit/internal/output"
	"cvsgit.dev/cvsgit/internal/runtime"
)

// ResolveOptions specifies options for the resolve command
type ResolveOptions struct {
	HistoryPath string
	Fix         bool
	Commits     bool // list every commit, not just the branch tree
	Diff        bool // show what the repairs changed
}

// ResolveAction reconciles a history document and prints the resulting
// branch streams and tags
func ResolveAction(ctx *runtime.Context, opts ResolveOptions) error {
	splog := ctx.Splog

	h, err := history.LoadFile(opts.HistoryPath)
	if err != nil {
		return err
	}
	splog.Debug("Loaded %d files and %d commits from %s", len(h.Files), len(h.Commits), opts.HistoryPath)

	result, err := ResolveHistory(splog, ImportOptions{
		History:       h,
		TagMatcher:    ctx.TagMatcher,
		BranchMatcher: ctx.BranchMatcher,
		Fix:           opts.Fix,
	})
	if err != nil {
		return err
	}

	lines := output.RenderStreams(result.Streams, output.StreamRenderOptions{Commits: opts.Commits})
	splog.Page(strings.Join(lines, "\n") + "\n")

	if len(result.ResolvedTags) > 0 || len(result.UnresolvedTags) > 0 {
		splog.Newline()
		splog.Page(strings.Join(output.RenderTagTable(result.ResolvedTags, result.UnresolvedTags), "\n") + "\n")
	}

	if opts.Diff {
		diff, err := output.SnapshotDiff(result.Before, result.Streams)
		if err != nil {
			return err
		}
		splog.Newline()
		if diff == "" {
			splog.Info("No commits were moved or split.")
		} else {
			splog.Page(diff)
		}
	}

	if len(result.UnresolvedTags) > 0 {
		splog.Warn("Unresolved tags: %s", strings.Join(result.UnresolvedTags, ", "))
	}
	return nil
}

// CheckAction reports the tags of a history document that are not a
// consistent cut, without repairing anything
func CheckAction(ctx *runtime.Context, historyPath string) error {
	h, err := history.LoadFile(historyPath)
	if err != nil {
		return err
	}

	result, err := ResolveHistory(ctx.Splog, ImportOptions{
		History:       h,
		TagMatcher:    ctx.TagMatcher,
		BranchMatcher: ctx.BranchMatcher,
	})
	if err != nil {
		return err
	}

	if len(result.UnresolvedTags) > 0 {
		for _, tag := range result.UnresolvedTags {
			ctx.Splog.Info("%s", tag)
		}
		return fmt.Errorf("%d of %d tags are inconsistent", len(result.UnresolvedTags),
			len(result.UnresolvedTags)+len(result.ResolvedTags))
	}

	ctx.Splog.Info("All %d tags are consistent.", len(result.ResolvedTags))
	return nil
}
