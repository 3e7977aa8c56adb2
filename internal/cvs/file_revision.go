package cvs

import (
	"fmt"
	"time"
)

// FileRevision is one version of one file. It is not modified once created.
type FileRevision struct {
	File     *FileInfo
	Revision Revision

	// Mergepoint is the source-branch revision a CVSNT merge claims to have
	// merged from; Empty when the revision is not a merge
	Mergepoint Revision

	Time     time.Time
	Author   string
	CommitID string
	Message  string

	// IsDead marks a deletion of the file
	IsDead bool
}

// NewFileRevision creates a live file revision
func NewFileRevision(file *FileInfo, revision, mergepoint Revision, when time.Time, author, commitID string) *FileRevision {
	return &FileRevision{
		File:       file,
		Revision:   revision,
		Mergepoint: mergepoint,
		Time:       when,
		Author:     author,
		CommitID:   commitID,
	}
}

func (f *FileRevision) String() string {
	return fmt.Sprintf("%s r%s", f.File.Name, f.Revision)
}
