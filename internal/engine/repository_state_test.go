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

func TestRepositoryBranchState(t *testing.T) {
	t.Run("accepts contiguous revisions", func(t *testing.T) {
		state := engine.NewRepositoryBranchState(cvs.MainBranch)

		require.NoError(t, state.Set("a", "1.1"))
		require.NoError(t, state.Set("a", "1.2"))
		require.Equal(t, cvs.Revision("1.2"), state.Get("a"))
		require.Equal(t, cvs.Empty, state.Get("b"))
	})

	tests := []struct {
		name     string
		previous []cvs.Revision
		next     cvs.Revision
	}{
		{name: "gap", previous: []cvs.Revision{"1.1"}, next: "1.3"},
		{name: "regression", previous: []cvs.Revision{"1.1", "1.2"}, next: "1.1"},
		{name: "repeat", previous: []cvs.Revision{"1.1"}, next: "1.1"},
		{name: "first revision not 1", previous: nil, next: "1.2"},
	}
	for _, tt := range tests {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			state := engine.NewRepositoryBranchState("DEV")
			for _, r := range tt.previous {
				require.NoError(t, state.Set("a", r))
			}

			err := state.Set("a", tt.next)
			require.Error(t, err)
			require.True(t, errors.Is(err, cvsgiterrors.ErrRepositoryConsistency))

			var consistency *cvsgiterrors.ConsistencyError
			require.True(t, errors.As(err, &consistency))
			require.Equal(t, "DEV", consistency.Branch)
			require.Equal(t, "a", consistency.File)
			require.Equal(t, tt.next.String(), consistency.Revision)
		})
	}

	t.Run("dead revisions remove the file", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		add := h.Commit("A", "a@1.1", "b@1.1")
		del := h.Commit("B", "a@1.2!")
		back := h.Commit("C", "a@1.3")
		state := engine.NewRepositoryBranchState(cvs.MainBranch)

		require.NoError(t, state.Apply(add))
		require.Equal(t, []string{"a", "b"}, state.LiveFiles())

		require.NoError(t, state.Apply(del))
		require.Equal(t, []string{"b"}, state.LiveFiles())
		require.Equal(t, cvs.Empty, state.Get("a"))

		require.NoError(t, state.Apply(back))
		require.Equal(t, cvs.Revision("1.3"), state.Get("a"))
	})

	t.Run("resurrection must follow the dead revision", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		add := h.Commit("A", "a@1.1")
		del := h.Commit("B", "a@1.2!")
		back := h.Commit("C", "a@1.4")
		state := engine.NewRepositoryBranchState(cvs.MainBranch)

		require.NoError(t, state.Apply(add))
		require.NoError(t, state.Apply(del))
		require.ErrorIs(t, state.Apply(back), cvsgiterrors.ErrRepositoryConsistency)
	})
}

func TestRepositoryState(t *testing.T) {
	t.Run("creates branch state on first use", func(t *testing.T) {
		state := engine.NewRepositoryState()

		dev := state.Branch("DEV")
		require.Equal(t, "DEV", dev.Branch())
		require.Same(t, dev, state.Branch("DEV"))
	})

	t.Run("routes commits to their branch", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Tag("DEV", "a@1.1.0.2")
		trunk := h.Commit("A", "a@1.1")
		dev := h.Commit("D1", "a@1.1.2.1")
		state := engine.NewRepositoryState()

		require.NoError(t, state.Apply(trunk))
		require.NoError(t, state.Apply(dev))
		require.Equal(t, cvs.Revision("1.1"), state.Branch(cvs.MainBranch).Get("a"))
		require.Equal(t, cvs.Revision("1.1.2.1"), state.Branch("DEV").Get("a"))
	})

	t.Run("errors name the commit", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		bad := h.Commit("X", "a@1.2")

		err := engine.NewRepositoryState().Apply(bad)
		require.ErrorIs(t, err, cvsgiterrors.ErrRepositoryConsistency)
		require.ErrorContains(t, err, "commit X")
	})
}

func TestReplay(t *testing.T) {
	t.Run("replays every stream", func(t *testing.T) {
		_, streams := newBranchedHistory(t)

		state, err := engine.Replay(streams)
		require.NoError(t, err)
		require.Equal(t, cvs.Revision("1.2"), state.Branch(cvs.MainBranch).Get("a"))
		require.Equal(t, cvs.Revision("1.2"), state.Branch(cvs.MainBranch).Get("b"))
		require.Equal(t, cvs.Revision("1.2.2.2"), state.Branch("DEV").Get("a"))
	})

	t.Run("reports out of order revisions", func(t *testing.T) {
		h := testhelpers.NewHistory(t)
		h.Commit("B", "a@1.2")
		h.Commit("A", "a@1.1")

		_, err := engine.Replay(h.Streams(nil))
		require.ErrorIs(t, err, cvsgiterrors.ErrRepositoryConsistency)
	})

	t.Run("moves keep replay valid", func(t *testing.T) {
		h, streams := newMainHistory(t)
		require.NoError(t, streams.MoveCommit(h.Files["a"].GetCommit("1.2"), h.Files["c"].GetCommit("1.1")))

		_, err := engine.Replay(streams)
		require.NoError(t, err)
	})
}
