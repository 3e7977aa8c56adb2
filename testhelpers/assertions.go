package testhelpers

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
	"cvsgit.dev/cvsgit/internal/output"
)

// Must is a generic helper function that panics if err is not nil,
// otherwise returns the value.
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}

// CommitIDs returns the ids of the commits, in order
func CommitIDs(commits []*cvs.Commit) []string {
	ids := make([]string, len(commits))
	for i, c := range commits {
		ids[i] = c.CommitID()
	}
	return ids
}

// ExpectStream asserts the commit ids of a branch stream, in stream order, and
// that the stream's links and indices agree with each other.
func ExpectStream(t *testing.T, streams engine.StreamReader, branch string, ids ...string) {
	t.Helper()

	commits := streams.Commits(branch)
	require.Equal(t, ids, CommitIDs(commits), "stream %s", branch)
	require.Equal(t, len(ids), streams.Len(branch))
	ExpectLinked(t, streams, branch)
}

// ExpectLinked asserts that successor and predecessor links of a branch are
// mirror images and that indices count up from zero along the stream.
func ExpectLinked(t *testing.T, streams engine.StreamReader, branch string) {
	t.Helper()

	var prev *cvs.Commit
	i := 0
	for c := streams.Head(branch); c != nil; c = streams.Successor(c) {
		require.Equal(t, i, streams.Index(c), "index of %s", c.CommitID())
		require.Equal(t, branch, c.Branch())
		require.Same(t, prev, streams.Predecessor(c))
		prev = c
		i++
	}
	require.Same(t, prev, streams.Tail(branch))
}

// ExpectFiles asserts the "file@revision" list of a commit
func ExpectFiles(t *testing.T, c *cvs.Commit, refs ...string) {
	t.Helper()

	var got []string
	for _, f := range c.Files() {
		got = append(got, f.File.Name+"@"+f.Revision.String())
	}
	require.Equal(t, refs, got, "files of %s", c.CommitID())
}

// ExpectOrderedMerges asserts that, along a branch stream, the merge sources
// from each other branch never go backwards in their own stream
func ExpectOrderedMerges(t *testing.T, streams engine.StreamReader, branch string) {
	t.Helper()

	previous := make(map[string]*cvs.Commit)
	for c := streams.Head(branch); c != nil; c = streams.Successor(c) {
		source := c.MergeFrom()
		if source == nil {
			continue
		}
		if p := previous[source.Branch()]; p != nil {
			require.GreaterOrEqual(t, streams.Index(source), streams.Index(p),
				"%s merges %s, which precedes %s merged earlier", c.CommitID(), source.CommitID(), p.CommitID())
		}
		previous[source.Branch()] = source
	}
}

type testWriter struct {
	t *testing.T
}

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// NewTestLog returns a debug-level logger that writes to the test log
func NewTestLog(t *testing.T) *output.Splog {
	return output.NewSplogWithWriter(testWriter{t: t}, true)
}

// NewCaptureLog returns a debug-level logger writing to w
func NewCaptureLog(w io.Writer) *output.Splog {
	return output.NewSplogWithWriter(w, true)
}
