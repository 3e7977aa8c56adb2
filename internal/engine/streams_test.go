package engine_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
	cvsgiterrors "cvsgit.dev/cvsgit/internal/errors"
	"cvsgit.dev/cvsgit/testhelpers"
)

// newMainHistory returns MAIN: A{a,b} B{a} C{b} D{c}
func newMainHistory(t *testing.T) (*testhelpers.History, *engine.BranchStreamCollection) {
	h := testhelpers.NewHistory(t)
	h.Commit("A", "a@1.1", "b@1.1")
	h.Commit("B", "a@1.2")
	h.Commit("C", "b@1.2")
	h.Commit("D", "c@1.1")
	return h, h.Streams(nil)
}

// newBranchedHistory returns MAIN: A B C and DEV cut at B: D1 D2
func newBranchedHistory(t *testing.T) (*testhelpers.History, *engine.BranchStreamCollection) {
	h := testhelpers.NewHistory(t)
	h.Tag("DEV", "a@1.2.0.2")
	h.Commit("A", "a@1.1", "b@1.1")
	h.Commit("B", "a@1.2")
	h.Commit("D1", "a@1.2.2.1")
	h.Commit("C", "b@1.2")
	h.Commit("D2", "a@1.2.2.2")
	return h, h.Streams(nil)
}

func TestNewBranchStreamCollection(t *testing.T) {
	t.Run("splits commits into branch streams in order", func(t *testing.T) {
		h, streams := newBranchedHistory(t)

		require.Equal(t, []string{cvs.MainBranch, "DEV"}, streams.Branches())
		testhelpers.ExpectStream(t, streams, cvs.MainBranch, "A", "B", "C")
		testhelpers.ExpectStream(t, streams, "DEV", "D1", "D2")

		b := h.Files["a"].GetCommit("1.2")
		require.Same(t, b, streams.Branchpoint("DEV"))
		require.Nil(t, streams.Branchpoint(cvs.MainBranch))
		require.Equal(t, cvs.MainBranch, streams.Parent("DEV"))
		require.Equal(t, "", streams.Parent(cvs.MainBranch))
		require.Equal(t, []string{cvs.MainBranch}, streams.Ancestors("DEV"))
		require.True(t, streams.IsBranchpoint(b))
		require.Equal(t, []string{"DEV"}, streams.BranchpointsOn(b))
		require.Equal(t, []string{"A", "B", "C", "D1", "D2"}, testhelpers.CommitIDs(streams.All()))
	})

	t.Run("nested branches are listed after their parents", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Tag("DEV", "a@1.1.0.2")
		h.Tag("FIX", "a@1.1.2.1.0.2")
		h.Commit("A", "a@1.1")
		h.Commit("D1", "a@1.1.2.1")
		h.Commit("F1", "a@1.1.2.1.2.1")

		streams := h.Streams(nil)
		require.Equal(t, []string{cvs.MainBranch, "DEV", "FIX"}, streams.Branches())
		require.Equal(t, []string{"DEV", cvs.MainBranch}, streams.Ancestors("FIX"))
	})

	t.Run("missing branchpoint is an error", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Tag("DEV", "a@1.1.0.2")
		h.Commit("D1", "a@1.1.2.1")
		commits, err := cvs.SplitMultiBranchCommits(h.Commits)
		require.NoError(t, err)

		_, err = engine.NewBranchStreamCollection(commits, nil)
		require.ErrorContains(t, err, "no branchpoint for branch DEV")
	})

	t.Run("commit without a branch is an error", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		c := h.Commit("X", "a@1.1.2.1")

		_, err := engine.NewBranchStreamCollection([]*cvs.Commit{c}, nil)
		require.ErrorContains(t, err, "has no branch")
	})

	t.Run("duplicate commit is an error", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		c := h.Commit("A", "a@1.1")

		_, err := engine.NewBranchStreamCollection([]*cvs.Commit{c, c}, nil)
		require.ErrorContains(t, err, "appears twice")
	})
}

func TestMoveCommit(t *testing.T) {
	t.Run("moves a commit forward", func(t *testing.T) {
		h, streams := newMainHistory(t)
		b := h.Files["a"].GetCommit("1.2")
		c := h.Files["b"].GetCommit("1.2")

		require.NoError(t, streams.MoveCommit(b, c))
		testhelpers.ExpectStream(t, streams, cvs.MainBranch, "A", "C", "B", "D")
	})

	t.Run("moves a commit backward", func(t *testing.T) {
		h, streams := newMainHistory(t)
		a := h.Files["a"].GetCommit("1.1")
		d := h.Files["c"].GetCommit("1.1")

		require.NoError(t, streams.MoveCommit(d, a))
		testhelpers.ExpectStream(t, streams, cvs.MainBranch, "A", "D", "B", "C")
	})

	t.Run("moves to the tail", func(t *testing.T) {
		h, streams := newMainHistory(t)
		c := h.Files["b"].GetCommit("1.2")
		d := h.Files["c"].GetCommit("1.1")

		require.NoError(t, streams.MoveCommit(c, d))
		testhelpers.ExpectStream(t, streams, cvs.MainBranch, "A", "B", "D", "C")
		require.Same(t, c, streams.Tail(cvs.MainBranch))
	})

	t.Run("moving after the predecessor changes nothing", func(t *testing.T) {
		h, streams := newMainHistory(t)
		a := h.Files["a"].GetCommit("1.1")
		b := h.Files["a"].GetCommit("1.2")

		require.NoError(t, streams.MoveCommit(b, a))
		testhelpers.ExpectStream(t, streams, cvs.MainBranch, "A", "B", "C", "D")
	})

	tests := []struct {
		name        string
		build       func(t *testing.T) (*engine.BranchStreamCollection, *cvs.Commit, *cvs.Commit)
		reason      string
		consistency bool
	}{
		{
			name: "after itself",
			build: func(t *testing.T) (*engine.BranchStreamCollection, *cvs.Commit, *cvs.Commit) {
				h, streams := newMainHistory(t)
				b := h.Files["a"].GetCommit("1.2")
				return streams, b, b
			},
			reason: "after itself",
		},
		{
			name: "across a commit touching the same file",
			build: func(t *testing.T) (*engine.BranchStreamCollection, *cvs.Commit, *cvs.Commit) {
				h, streams := newMainHistory(t)
				return streams, h.Files["a"].GetCommit("1.1"), h.Files["a"].GetCommit("1.2")
			},
			reason: "changes the same files",
		},
		{
			name: "into another stream",
			build: func(t *testing.T) (*engine.BranchStreamCollection, *cvs.Commit, *cvs.Commit) {
				h, streams := newBranchedHistory(t)
				return streams, h.Files["b"].GetCommit("1.2"), h.Files["a"].GetCommit("1.2.2.1")
			},
			reason:      "destination is on DEV",
			consistency: true,
		},
		{
			name: "a branchpoint",
			build: func(t *testing.T) (*engine.BranchStreamCollection, *cvs.Commit, *cvs.Commit) {
				h, streams := newBranchedHistory(t)
				return streams, h.Files["a"].GetCommit("1.2"), h.Files["b"].GetCommit("1.2")
			},
			reason: "branchpoint of [DEV]",
		},
		{
			name: "across a branchpoint",
			build: func(t *testing.T) (*engine.BranchStreamCollection, *cvs.Commit, *cvs.Commit) {
				h, streams := newBranchedHistory(t)
				return streams, h.Files["b"].GetCommit("1.2"), h.Files["a"].GetCommit("1.1")
			},
			reason: "crosses B, the branchpoint",
		},
	}

	for _, tt := range tests {
		t.Run("refuses moving "+tt.name, func(t *testing.T) {
			streams, c, after := tt.build(t)
			before := testhelpers.CommitIDs(streams.Commits(c.Branch()))

			err := streams.MoveCommit(c, after)
			require.Error(t, err)
			require.True(t, errors.Is(err, cvsgiterrors.ErrInvalidMove))
			require.Equal(t, tt.consistency, errors.Is(err, cvsgiterrors.ErrRepositoryConsistency))
			require.Contains(t, err.Error(), tt.reason)

			testhelpers.ExpectStream(t, streams, c.Branch(), before...)
		})
	}
}

func TestSplitCommit(t *testing.T) {
	t.Run("splits in place and updates file lookups", func(t *testing.T) {
		h, streams := newMainHistory(t)
		a := h.Files["a"].GetCommit("1.1")
		b11 := a.Files()[1]

		first, second, err := streams.SplitCommit(a, []*cvs.FileRevision{b11})
		require.NoError(t, err)

		testhelpers.ExpectStream(t, streams, cvs.MainBranch, "A", "A", "B", "C", "D")
		testhelpers.ExpectFiles(t, first, "b@1.1")
		testhelpers.ExpectFiles(t, second, "a@1.1")
		require.Same(t, first, streams.Head(cvs.MainBranch))
		require.Same(t, second, streams.Successor(first))
		require.False(t, streams.Contains(a))

		require.Same(t, first, h.Files["b"].GetCommit("1.1"))
		require.Same(t, second, h.Files["a"].GetCommit("1.1"))
	})

	t.Run("both parts must hold revisions", func(t *testing.T) {
		h, streams := newMainHistory(t)
		a := h.Files["a"].GetCommit("1.1")

		_, _, err := streams.SplitCommit(a, a.Files())
		require.ErrorContains(t, err, "both parts must be non-empty")
		testhelpers.ExpectStream(t, streams, cvs.MainBranch, "A", "B", "C", "D")
	})

	t.Run("branchpoints cannot be split", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Tag("DEV", "a@1.1.0.2")
		a := h.Commit("A", "a@1.1", "b@1.1")
		h.Commit("D1", "a@1.1.2.1")
		streams := h.Streams(nil)

		_, _, err := streams.SplitCommit(a, a.Files()[:1])
		require.ErrorContains(t, err, "branchpoint")
	})
}

func TestFindBranchpoints(t *testing.T) {
	t.Run("picks the latest stem commit", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Tag("DEV", "a@1.1.0.2", "b@1.2.0.2")
		h.Commit("A", "a@1.1", "b@1.1")
		b := h.Commit("B", "b@1.2")
		h.Commit("D1", "a@1.1.2.1")
		cvs.AddCommitsToFiles(h.Commits)

		branchpoints := engine.FindBranchpoints(h.Commits, h.Files)
		require.Same(t, b, branchpoints["DEV"])
	})

	t.Run("sibling branches cut from one revision stay distinct", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Tag("DEV", "a@1.1.0.2")
		h.Tag("REL", "a@1.1.0.4")
		a := h.Commit("A", "a@1.1")
		h.Commit("D1", "a@1.1.2.1")
		h.Commit("R1", "a@1.1.4.1")

		streams := h.Streams(nil)
		require.Same(t, a, streams.Branchpoint("DEV"))
		require.Same(t, a, streams.Branchpoint("REL"))
		require.ElementsMatch(t, []string{"DEV", "REL"}, streams.BranchpointsOn(a))
		testhelpers.ExpectStream(t, streams, "DEV", "D1")
		testhelpers.ExpectStream(t, streams, "REL", "R1")
	})

	t.Run("branches without a known stem commit are left out", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Tag("DEV", "a@1.5.0.2")
		h.Commit("A", "a@1.1")
		cvs.AddCommitsToFiles(h.Commits)

		require.Empty(t, engine.FindBranchpoints(h.Commits, h.Files))
	})
}
