// Package testhelpers provides shared test utilities: a builder for file and
// commit histories, stream assertions and a logger that writes to the test log.
package testhelpers

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
)

// History builds FileInfos and Commits from short revision refs.
//
// A ref is "file@revision", optionally followed by "<mergepoint" for a CVSNT
// merge and "!" for a dead revision, e.g. "a.c@1.3<1.1.2.2" or "b.c@1.4!".
type History struct {
	t       *testing.T
	Files   map[string]*cvs.FileInfo
	Commits []*cvs.Commit
	clock   time.Time
}

// NewHistory creates an empty history
func NewHistory(t *testing.T) *History {
	return &History{
		t:     t,
		Files: make(map[string]*cvs.FileInfo),
		clock: time.Date(2004, time.March, 1, 9, 0, 0, 0, time.UTC),
	}
}

// File returns the named file, creating it on first use
func (h *History) File(name string) *cvs.FileInfo {
	file, ok := h.Files[name]
	if !ok {
		file = cvs.NewFileInfo(name)
		h.Files[name] = file
	}
	return file
}

// Tag adds a symbolic name to each "file@revision". Magic branch revisions
// such as "a.c@1.1.0.2" declare a branch.
func (h *History) Tag(name string, refs ...string) *History {
	h.t.Helper()
	for _, ref := range refs {
		file, revision, _, _ := h.parse(ref)
		file.AddTag(name, revision)
	}
	return h
}

// Commit creates a commit from revision refs and appends it to the history.
// Branch tags must be declared first so the commit can find its branch.
func (h *History) Commit(id string, refs ...string) *cvs.Commit {
	h.t.Helper()
	h.clock = h.clock.Add(time.Minute)

	commit := cvs.NewCommit(id)
	for _, ref := range refs {
		file, revision, mergepoint, dead := h.parse(ref)
		f := cvs.NewFileRevision(file, revision, mergepoint, h.clock, "fred", id)
		f.Message = "commit " + id
		f.IsDead = dead
		commit.Add(f)
	}
	h.Commits = append(h.Commits, commit)
	return commit
}

// Streams prepares the commits and builds the branch streams, deriving any
// branchpoint not given
func (h *History) Streams(branchpoints map[string]*cvs.Commit) *engine.BranchStreamCollection {
	h.t.Helper()

	commits, err := cvs.SplitMultiBranchCommits(h.Commits)
	require.NoError(h.t, err)
	cvs.AddCommitsToFiles(commits)

	all := engine.FindBranchpoints(commits, h.Files)
	for branch, c := range branchpoints {
		all[branch] = c
	}

	streams, err := engine.NewBranchStreamCollection(commits, all)
	require.NoError(h.t, err)
	return streams
}

func (h *History) parse(ref string) (*cvs.FileInfo, cvs.Revision, cvs.Revision, bool) {
	h.t.Helper()

	dead := strings.HasSuffix(ref, "!")
	ref = strings.TrimSuffix(ref, "!")

	name, rest, ok := strings.Cut(ref, "@")
	require.True(h.t, ok, "revision reference %q has no @", ref)

	text, merge, _ := strings.Cut(rest, "<")
	revision, err := cvs.ParseRevision(text)
	require.NoError(h.t, err)
	mergepoint, err := cvs.ParseRevision(merge)
	require.NoError(h.t, err)

	return h.File(name), revision, mergepoint, dead
}
