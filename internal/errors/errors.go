// Package errors provides sentinel errors and custom error types for the cvsgit importer.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrRepositoryConsistency indicates that a branch replay found a revision that does
	// not directly follow the previous revision of the same file
	ErrRepositoryConsistency = errors.New("repository consistency error")

	// ErrUnknownBranch indicates that a file revision lives on a branch with no branch tag
	ErrUnknownBranch = errors.New("unknown branch")

	// ErrImportFailed indicates that a resolution phase accumulated failures
	ErrImportFailed = errors.New("import failed")

	// ErrInvalidMove indicates that a commit could not be relocated within its stream
	ErrInvalidMove = errors.New("invalid commit move")

	// ErrInvalidRevision indicates a malformed CVS revision number
	ErrInvalidRevision = errors.New("invalid revision")
)

// ConsistencyError represents a file revision that does not directly follow the
// file's previous revision on a branch
type ConsistencyError struct {
	Branch   string
	File     string
	Previous string
	Revision string
}

func (e *ConsistencyError) Error() string {
	previous := e.Previous
	if previous == "" {
		previous = "<none>"
	}
	return fmt.Sprintf("branch %s: revision r%s of %s does not directly follow r%s", e.Branch, e.Revision, e.File, previous)
}

// Is returns true if the target error is ErrRepositoryConsistency
func (e *ConsistencyError) Is(target error) bool {
	return target == ErrRepositoryConsistency
}

// NewConsistencyError creates a new ConsistencyError
func NewConsistencyError(branch, file, previous, revision string) *ConsistencyError {
	return &ConsistencyError{
		Branch:   branch,
		File:     file,
		Previous: previous,
		Revision: revision,
	}
}

// UnknownBranchError represents a revision whose branch number has no registered branch tag
type UnknownBranchError struct {
	File     string
	Stem     string
	Revision string
}

func (e *UnknownBranchError) Error() string {
	return fmt.Sprintf("branch with stem %s not found on file %s when looking for r%s", e.Stem, e.File, e.Revision)
}

// Is returns true if the target error is ErrUnknownBranch
func (e *UnknownBranchError) Is(target error) bool {
	return target == ErrUnknownBranch
}

// NewUnknownBranchError creates a new UnknownBranchError
func NewUnknownBranchError(file, stem, revision string) *UnknownBranchError {
	return &UnknownBranchError{
		File:     file,
		Stem:     stem,
		Revision: revision,
	}
}

// ImportFailedError represents a resolution phase that finished with failures
type ImportFailedError struct {
	Phase    string
	Failures int
}

func (e *ImportFailedError) Error() string {
	return fmt.Sprintf("failed to resolve all %s (%d failures)", e.Phase, e.Failures)
}

// Is returns true if the target error is ErrImportFailed
func (e *ImportFailedError) Is(target error) bool {
	return target == ErrImportFailed
}

// NewImportFailedError creates a new ImportFailedError
func NewImportFailedError(phase string, failures int) *ImportFailedError {
	return &ImportFailedError{
		Phase:    phase,
		Failures: failures,
	}
}

// MoveError represents a rejected relocation of a commit within a branch stream
type MoveError struct {
	Commit string
	After  string
	Reason string

	// CrossStream is set when the destination lies in another branch stream,
	// which is also a repository consistency error
	CrossStream bool
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("cannot move commit %s after %s: %s", e.Commit, e.After, e.Reason)
}

// Is returns true if the target error is ErrInvalidMove, or
// ErrRepositoryConsistency for a cross-stream move
func (e *MoveError) Is(target error) bool {
	return target == ErrInvalidMove || (e.CrossStream && target == ErrRepositoryConsistency)
}

// NewMoveError creates a new MoveError
func NewMoveError(commit, after, reason string) *MoveError {
	return &MoveError{
		Commit: commit,
		After:  after,
		Reason: reason,
	}
}

// NewCrossStreamMoveError creates a MoveError for a destination in another stream
func NewCrossStreamMoveError(commit, after, reason string) *MoveError {
	e := NewMoveError(commit, after, reason)
	e.CrossStream = true
	return e
}

// RevisionError represents a revision string that could not be parsed
type RevisionError struct {
	Text   string
	Reason string
}

func (e *RevisionError) Error() string {
	return fmt.Sprintf("invalid revision %q: %s", e.Text, e.Reason)
}

// Is returns true if the target error is ErrInvalidRevision
func (e *RevisionError) Is(target error) bool {
	return target == ErrInvalidRevision
}

// NewRevisionError creates a new RevisionError
func NewRevisionError(text, reason string) *RevisionError {
	return &RevisionError{Text: text, Reason: reason}
}
