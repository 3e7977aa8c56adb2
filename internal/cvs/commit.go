package cvs

import (
	"strings"
	"time"
)

// Commit is an ordered set of file revisions sharing one commit id. Its position
// within a branch (index, successor, predecessor) belongs to the stream
// collection in the engine package, not to the commit.
type Commit struct {
	id        string
	branch    string
	files     []*FileRevision
	mergeFrom *Commit
}

// NewCommit creates an empty commit
func NewCommit(id string) *Commit {
	return &Commit{id: id}
}

// Add appends a file revision. The first revision whose branch can be resolved
// sets the commit's branch.
func (c *Commit) Add(f *FileRevision) {
	c.files = append(c.files, f)
	if c.branch == "" {
		if branch, err := f.File.GetBranch(f.Revision); err == nil {
			c.branch = branch
		}
	}
}

// CommitID returns the CVS commit id shared by the commit's revisions
func (c *Commit) CommitID() string {
	return c.id
}

// Branch returns the branch the commit belongs to
func (c *Commit) Branch() string {
	return c.branch
}

// Files returns the commit's file revisions in commit order
func (c *Commit) Files() []*FileRevision {
	return c.files
}

// Len returns the number of file revisions in the commit
func (c *Commit) Len() int {
	return len(c.files)
}

// Revision returns the revision the commit sets for a file, if any
func (c *Commit) Revision(file *FileInfo) (Revision, bool) {
	for _, f := range c.files {
		if f.File == file {
			return f.Revision, true
		}
	}
	return Empty, false
}

// Touches returns true if the commit and other share at least one file
func (c *Commit) Touches(other *Commit) bool {
	for _, f := range c.files {
		if _, ok := other.Revision(f.File); ok {
			return true
		}
	}
	return false
}

// MergedFiles returns the revisions that carry a mergepoint
func (c *Commit) MergedFiles() []*FileRevision {
	var merged []*FileRevision
	for _, f := range c.files {
		if !f.Mergepoint.IsEmpty() {
			merged = append(merged, f)
		}
	}
	return merged
}

// MergeFrom returns the source-branch commit this commit merges, or nil
func (c *Commit) MergeFrom() *Commit {
	return c.mergeFrom
}

// SetMergeFrom records the resolved merge source. Only merge resolution calls this.
func (c *Commit) SetMergeFrom(source *Commit) {
	c.mergeFrom = source
}

// Author returns the author of the first file revision
func (c *Commit) Author() string {
	if len(c.files) == 0 {
		return ""
	}
	return c.files[0].Author
}

// Time returns the latest time of any file revision in the commit
func (c *Commit) Time() time.Time {
	var latest time.Time
	for _, f := range c.files {
		if f.Time.After(latest) {
			latest = f.Time
		}
	}
	return latest
}

// Message returns the commit message of the first file revision that has one
func (c *Commit) Message() string {
	for _, f := range c.files {
		if f.Message != "" {
			return f.Message
		}
	}
	return ""
}

// Split partitions the commit into two commits with the same id. The first
// holds the revisions for which keep returns true, the second the rest; both
// preserve the original order.
func (c *Commit) Split(keep func(*FileRevision) bool) (*Commit, *Commit) {
	first := &Commit{id: c.id, branch: c.branch, mergeFrom: c.mergeFrom}
	second := &Commit{id: c.id, branch: c.branch}
	for _, f := range c.files {
		if keep(f) {
			first.files = append(first.files, f)
		} else {
			second.files = append(second.files, f)
		}
	}
	return first, second
}

// Describe returns the commit id followed by its file revisions
func (c *Commit) Describe() string {
	var sb strings.Builder
	sb.WriteString(c.id)
	sb.WriteString(" (")
	for i, f := range c.files {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(f.String())
	}
	sb.WriteString(")")
	return sb.String()
}

func (c *Commit) String() string {
	return c.id
}
