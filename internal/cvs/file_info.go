package cvs

import (
	"sort"

	cvsgiterrors "cvsgit.dev/cvsgit/internal/errors"
)

// MainBranch is the name given to the CVS trunk
const MainBranch = "MAIN"

// FileInfo holds the tag and branch tables of one file, populated once from the
// CVS log. Every FileRevision and Commit touching the file shares the same
// FileInfo.
type FileInfo struct {
	Name string

	// Tags maps a tag name to the revision it labels
	Tags map[string]Revision

	// Branches maps a branch number (see Revision.BranchNumber) to the branch name
	Branches map[Revision]string

	commits map[Revision]*Commit
}

// NewFileInfo creates an empty FileInfo
func NewFileInfo(name string) *FileInfo {
	return &FileInfo{
		Name:     name,
		Tags:     make(map[string]Revision),
		Branches: make(map[Revision]string),
		commits:  make(map[Revision]*Commit),
	}
}

// AddTag records a symbolic name. Magic branch numbers become branch tags,
// anything else is a normal tag.
func (f *FileInfo) AddTag(name string, revision Revision) {
	if revision.IsBranch() {
		f.Branches[revision.BranchNumber()] = name
	} else {
		f.Tags[name] = revision
	}
}

// GetBranch returns the name of the branch a revision lives on.
func (f *FileInfo) GetBranch(revision Revision) (string, error) {
	if len(revision.Parts()) == 2 {
		return MainBranch, nil
	}

	number := revision.BranchNumber()
	name, ok := f.Branches[number]
	if !ok {
		return "", cvsgiterrors.NewUnknownBranchError(f.Name, number.String(), revision.String())
	}
	return name, nil
}

// BranchStems returns the revisions of this file that the named branch was cut
// from, in revision order. Usually there is exactly one.
func (f *FileInfo) BranchStems(branch string) []Revision {
	var stems []Revision
	for number, name := range f.Branches {
		if name != branch {
			continue
		}
		parts := number.Parts()
		stems = append(stems, fromParts(parts[:len(parts)-1]))
	}
	sort.Slice(stems, func(i, j int) bool { return stems[i] < stems[j] })
	return stems
}

// AddCommit records the commit that produced a revision of this file
func (f *FileInfo) AddCommit(commit *Commit, revision Revision) {
	f.commits[revision] = commit
}

// GetCommit returns the commit that produced a revision of this file, or nil if
// the revision is unknown
func (f *FileInfo) GetCommit(revision Revision) *Commit {
	return f.commits[revision]
}

func (f *FileInfo) String() string {
	return f.Name
}
