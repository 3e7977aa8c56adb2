package actions

import (
	"fmt"
	"sort"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
	"cvsgit.dev/cvsgit/internal/history"
	"cvsgit.dev/cvsgit/internal/output"
	"cvsgit.dev/cvsgit/internal/resolve"
)

// ImportOptions specifies the input and behaviour of ResolveHistory
type ImportOptions struct {
	History       *history.History
	TagMatcher    resolve.Matcher
	BranchMatcher resolve.Matcher

	// Fix repairs inconsistent tags; otherwise tags are only checked
	Fix bool
}

// ImportResult is the reconciled history
type ImportResult struct {
	Streams          *engine.BranchStreamCollection
	ResolvedTags     map[string]*cvs.Commit
	UnresolvedTags   []string
	ExcludedBranches []string

	// Before holds each stream's commit listing ahead of any repair
	Before map[string][]string
}

// ResolveHistory runs the reconciliation pipeline: split multi-branch commits,
// build the branch streams, resolve tags, replay every stream to prove it
// consistent, then resolve merges.
func ResolveHistory(log *output.Splog, opts ImportOptions) (*ImportResult, error) {
	h := opts.History
	branchMatcher := opts.BranchMatcher
	if branchMatcher == nil {
		branchMatcher = matchAll{}
	}

	commits, err := cvs.SplitMultiBranchCommits(h.Commits)
	if err != nil {
		return nil, fmt.Errorf("failed to split commits: %w", err)
	}
	cvs.AddCommitsToFiles(commits)
	log.Debug("%d commits after splitting multi-branch commits", len(commits))

	branchpoints := engine.FindBranchpoints(commits, h.Files)
	for branch := range h.Branchpoints {
		if c := h.Branchpoint(branch, commits); c != nil {
			branchpoints[branch] = c
		}
	}

	commits, excluded := filterBranches(commits, branchpoints, branchMatcher)
	for _, branch := range excluded {
		log.Debug("Excluding branch %s", branch)
	}

	streams, err := engine.NewBranchStreamCollection(commits, branchpoints)
	if err != nil {
		return nil, fmt.Errorf("failed to build branch streams: %w", err)
	}
	before := output.Snapshot(streams)

	tags := resolve.NewTagResolver(log, streams, h.Files, opts.TagMatcher)
	var tagsOK bool
	if opts.Fix {
		tagsOK = tags.ResolveAndFix()
	} else {
		tagsOK = tags.Resolve()
	}
	if !tagsOK {
		log.Warn("%d tags could not be resolved and will be left out", len(tags.UnresolvedTags()))
	}

	if _, err := engine.Replay(streams); err != nil {
		return nil, fmt.Errorf("branch replay failed: %w", err)
	}

	if err := resolve.NewMergeResolver(log, streams).Resolve(); err != nil {
		return nil, err
	}

	return &ImportResult{
		Streams:          streams,
		ResolvedTags:     tags.ResolvedTags(),
		UnresolvedTags:   tags.UnresolvedTags(),
		ExcludedBranches: excluded,
		Before:           before,
	}, nil
}

type matchAll struct{}

func (matchAll) Match(string) bool { return true }

// filterBranches drops the commits of excluded branches. MAIN is always kept
// and a branch cut from an excluded branch is excluded with it.
func filterBranches(commits []*cvs.Commit, branchpoints map[string]*cvs.Commit, matcher resolve.Matcher) ([]*cvs.Commit, []string) {
	included := make(map[string]bool)
	var isIncluded func(branch string, depth int) bool
	isIncluded = func(branch string, depth int) bool {
		if branch == cvs.MainBranch {
			return true
		}
		if result, ok := included[branch]; ok {
			return result
		}
		result := matcher.Match(branch)
		if bp, ok := branchpoints[branch]; result && ok && depth < len(branchpoints) {
			result = isIncluded(bp.Branch(), depth+1)
		}
		included[branch] = result
		return result
	}

	kept := make([]*cvs.Commit, 0, len(commits))
	for _, c := range commits {
		if isIncluded(c.Branch(), 0) {
			kept = append(kept, c)
		}
	}

	var excluded []string
	for branch, ok := range included {
		if !ok {
			excluded = append(excluded, branch)
		}
	}
	sort.Strings(excluded)
	return kept, excluded
}
