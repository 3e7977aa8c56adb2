package engine

import (
	"fmt"
	"sort"

	"cvsgit.dev/cvsgit/internal/cvs"
	cvsgiterrors "cvsgit.dev/cvsgit/internal/errors"
)

// RepositoryBranchState tracks the current revision of every file on one branch
// and checks that each new revision directly follows the previous one.
type RepositoryBranchState struct {
	branch string

	// live holds files that currently exist; last also remembers deleted files
	// so that a resurrection must still follow the dead revision
	live map[string]cvs.Revision
	last map[string]cvs.Revision
}

// NewRepositoryBranchState creates an empty state for a branch
func NewRepositoryBranchState(branch string) *RepositoryBranchState {
	return &RepositoryBranchState{
		branch: branch,
		live:   make(map[string]cvs.Revision),
		last:   make(map[string]cvs.Revision),
	}
}

// Branch returns the branch this state tracks
func (s *RepositoryBranchState) Branch() string {
	return s.branch
}

// Get returns the current revision of a live file, or cvs.Empty
func (s *RepositoryBranchState) Get(filename string) cvs.Revision {
	return s.live[filename]
}

// Set records a new revision for a file. The revision must directly follow the
// file's previous revision on this branch.
func (s *RepositoryBranchState) Set(filename string, revision cvs.Revision) error {
	if err := s.check(filename, revision); err != nil {
		return err
	}
	s.live[filename] = revision
	s.last[filename] = revision
	return nil
}

func (s *RepositoryBranchState) check(filename string, revision cvs.Revision) error {
	previous := s.last[filename]
	if !previous.DirectlyPrecedes(revision) {
		return cvsgiterrors.NewConsistencyError(s.branch, filename, previous.String(), revision.String())
	}
	return nil
}

// Apply replays a commit: deletions remove the file from the live set, every
// other revision becomes the file's current revision.
func (s *RepositoryBranchState) Apply(commit *cvs.Commit) error {
	for _, f := range commit.Files() {
		name := f.File.Name
		if f.IsDead {
			if err := s.check(name, f.Revision); err != nil {
				return err
			}
			delete(s.live, name)
			s.last[name] = f.Revision
			continue
		}
		if err := s.Set(name, f.Revision); err != nil {
			return err
		}
	}
	return nil
}

// LiveFiles returns the names of all currently live files, sorted
func (s *RepositoryBranchState) LiveFiles() []string {
	files := make([]string, 0, len(s.live))
	for name := range s.live {
		files = append(files, name)
	}
	sort.Strings(files)
	return files
}

// RepositoryState tracks the state of every branch so that commits can be replayed
type RepositoryState struct {
	branches map[string]*RepositoryBranchState
}

// NewRepositoryState creates an empty repository state
func NewRepositoryState() *RepositoryState {
	return &RepositoryState{
		branches: make(map[string]*RepositoryBranchState),
	}
}

// Branch returns the state for a branch, creating it on first reference
func (s *RepositoryState) Branch(branch string) *RepositoryBranchState {
	state, ok := s.branches[branch]
	if !ok {
		state = NewRepositoryBranchState(branch)
		s.branches[branch] = state
	}
	return state
}

// Apply replays a commit on its own branch
func (s *RepositoryState) Apply(commit *cvs.Commit) error {
	if err := s.Branch(commit.Branch()).Apply(commit); err != nil {
		return fmt.Errorf("commit %s: %w", commit.CommitID(), err)
	}
	return nil
}

// Replay applies every stream end to end and returns the final state
func Replay(streams StreamReader) (*RepositoryState, error) {
	state := NewRepositoryState()
	for _, branch := range streams.Branches() {
		for _, commit := range streams.Commits(branch) {
			if err := state.Apply(commit); err != nil {
				return nil, err
			}
		}
	}
	return state, nil
}
