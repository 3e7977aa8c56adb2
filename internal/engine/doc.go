// Package engine manages the per-branch commit streams of an import.
//
// It is the substrate the history repairs operate on, responsible for:
//   - Building one linear, index-ordered stream of commits per branch
//   - Tracking where each branch was cut from its parent (branchpoints)
//   - Relocating and splitting commits without breaking per-file contiguity
//   - Replaying streams to prove every file's revisions follow one another
//
// The stream collection owns all successor/predecessor links and indices; commits
// never reorder themselves.
package engine
