package cvs

import (
	"fmt"
)

// SplitMultiBranchCommits returns the commits with every commit that spans
// several branches broken into one commit per branch. The parts keep the commit
// id and appear in order of each branch's first revision.
func SplitMultiBranchCommits(commits []*Commit) ([]*Commit, error) {
	result := make([]*Commit, 0, len(commits))

	for _, commit := range commits {
		var order []string
		parts := make(map[string]*Commit)

		for _, f := range commit.files {
			branch, err := f.File.GetBranch(f.Revision)
			if err != nil {
				return nil, fmt.Errorf("commit %s: %w", commit.id, err)
			}

			part, ok := parts[branch]
			if !ok {
				part = &Commit{id: commit.id, branch: branch}
				parts[branch] = part
				order = append(order, branch)
			}
			part.files = append(part.files, f)
		}

		if len(order) == 1 {
			commit.branch = order[0]
			result = append(result, commit)
			continue
		}

		for _, branch := range order {
			result = append(result, parts[branch])
		}
	}

	return result, nil
}

// AddCommitsToFiles registers each commit on the files it touches so that
// FileInfo.GetCommit can find the commit for any revision.
func AddCommitsToFiles(commits []*Commit) {
	for _, commit := range commits {
		for _, f := range commit.files {
			f.File.AddCommit(commit, f.Revision)
		}
	}
}
