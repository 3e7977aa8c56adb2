package engine

import (
	"sort"

	"cvsgit.dev/cvsgit/internal/cvs"
)

// FindBranchpoints works out where each branch was cut. For every branch named
// on any file, the candidates are the commits that produced the file stems the
// branch sprouts from; the branchpoint is the latest of them in commit order.
// Branches whose stems match no commit are left out.
func FindBranchpoints(commits []*cvs.Commit, files map[string]*cvs.FileInfo) map[string]*cvs.Commit {
	position := make(map[*cvs.Commit]int, len(commits))
	for i, c := range commits {
		position[c] = i
	}

	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	branchpoints := make(map[string]*cvs.Commit)
	for _, name := range names {
		file := files[name]

		branches := make([]string, 0, len(file.Branches))
		for _, branch := range file.Branches {
			branches = append(branches, branch)
		}
		sort.Strings(branches)

		for _, branch := range branches {
			for _, stem := range file.BranchStems(branch) {
				c := file.GetCommit(stem)
				if c == nil {
					continue
				}
				if _, known := position[c]; !known {
					continue
				}
				if current, ok := branchpoints[branch]; !ok || position[c] > position[current] {
					branchpoints[branch] = c
				}
			}
		}
	}

	return branchpoints
}
