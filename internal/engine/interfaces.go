package engine

import (
	"cvsgit.dev/cvsgit/internal/cvs"
)

// StreamReader provides read-only access to branch streams
type StreamReader interface {
	// Branch queries
	Branches() []string                    // Parents before children
	Parent(branch string) string           // Returns empty string for the root branch
	Ancestors(branch string) []string      // Nearest parent first
	Branchpoint(branch string) *cvs.Commit // Returns nil for the root branch
	BranchpointsOn(c *cvs.Commit) []string // Branches cut at c
	IsBranchpoint(c *cvs.Commit) bool

	// Stream queries
	Head(branch string) *cvs.Commit
	Tail(branch string) *cvs.Commit
	Commits(branch string) []*cvs.Commit
	All() []*cvs.Commit
	Len(branch string) int

	// Position queries
	Contains(c *cvs.Commit) bool
	Index(c *cvs.Commit) int // Returns -1 if the commit is not in any stream
	Successor(c *cvs.Commit) *cvs.Commit
	Predecessor(c *cvs.Commit) *cvs.Commit
}

// StreamWriter provides the stream mutations used by the repairs
type StreamWriter interface {
	MoveCommit(c *cvs.Commit, after *cvs.Commit) error
	SplitCommit(c *cvs.Commit, first []*cvs.FileRevision) (*cvs.Commit, *cvs.Commit, error)
}

// Streams composes StreamReader and StreamWriter.
// Not safe for concurrent use: the import runs as a single sequential pass.
type Streams interface {
	StreamReader
	StreamWriter
}
