package engine

import (
	"fmt"
	"slices"

	"github.com/emirpasic/gods/sets/linkedhashset"

	"cvsgit.dev/cvsgit/internal/cvs"
	cvsgiterrors "cvsgit.dev/cvsgit/internal/errors"
)

const noSlot = -1

// BranchStreamCollection holds one linear stream of commits per branch.
//
// Commits live in an arena addressed by stable slot numbers. Successor and
// predecessor links and the per-stream index are stored against slots, so
// relinking a commit never touches the commit itself.
type BranchStreamCollection struct {
	commits []*cvs.Commit
	slots   map[*cvs.Commit]int
	next    []int
	prev    []int
	index   []int

	heads map[string]int
	tails map[string]int

	// branches keeps parents ahead of their children
	branches      *linkedhashset.Set
	branchpoints  map[string]*cvs.Commit
	branchpointOf map[*cvs.Commit][]string
}

var _ Streams = (*BranchStreamCollection)(nil)

// NewBranchStreamCollection splits an ordered commit sequence into per-branch
// streams, keeping the original relative order within each branch.
// branchpoints maps every branch other than MAIN to the commit on its parent
// branch it was cut from.
func NewBranchStreamCollection(commits []*cvs.Commit, branchpoints map[string]*cvs.Commit) (*BranchStreamCollection, error) {
	s := &BranchStreamCollection{
		slots:         make(map[*cvs.Commit]int, len(commits)),
		heads:         make(map[string]int),
		tails:         make(map[string]int),
		branches:      linkedhashset.New(),
		branchpoints:  make(map[string]*cvs.Commit),
		branchpointOf: make(map[*cvs.Commit][]string),
	}

	var seen []string
	for _, c := range commits {
		branch := c.Branch()
		if branch == "" {
			return nil, fmt.Errorf("commit %s has no branch", c.CommitID())
		}
		if _, dup := s.slots[c]; dup {
			return nil, fmt.Errorf("commit %s appears twice in the commit sequence", c.CommitID())
		}

		slot := s.allocate(c)
		if tail, ok := s.tails[branch]; ok {
			s.next[tail] = slot
			s.prev[slot] = tail
		} else {
			s.heads[branch] = slot
			seen = append(seen, branch)
		}
		s.tails[branch] = slot
	}

	for _, branch := range seen {
		if err := s.addBranch(branch, branchpoints, nil); err != nil {
			return nil, err
		}
	}

	for _, branch := range seen {
		s.renumber(branch)
	}

	return s, nil
}

// addBranch registers a branch after its ancestors
func (s *BranchStreamCollection) addBranch(branch string, branchpoints map[string]*cvs.Commit, visiting []string) error {
	if s.branches.Contains(branch) {
		return nil
	}
	if slices.Contains(visiting, branch) {
		return fmt.Errorf("branch %s is its own ancestor", branch)
	}

	if branch != cvs.MainBranch {
		bp, ok := branchpoints[branch]
		if !ok || bp == nil {
			return fmt.Errorf("no branchpoint for branch %s", branch)
		}
		if _, ok := s.slots[bp]; !ok {
			return fmt.Errorf("branchpoint %s of branch %s is not in any stream", bp.CommitID(), branch)
		}
		if bp.Branch() == branch {
			return fmt.Errorf("branch %s is cut from its own commit %s", branch, bp.CommitID())
		}
		if err := s.addBranch(bp.Branch(), branchpoints, append(visiting, branch)); err != nil {
			return err
		}
		s.branchpoints[branch] = bp
		s.branchpointOf[bp] = append(s.branchpointOf[bp], branch)
	}

	s.branches.Add(branch)
	return nil
}

func (s *BranchStreamCollection) allocate(c *cvs.Commit) int {
	slot := len(s.commits)
	s.commits = append(s.commits, c)
	s.next = append(s.next, noSlot)
	s.prev = append(s.prev, noSlot)
	s.index = append(s.index, 0)
	s.slots[c] = slot
	return slot
}

// renumber reassigns indices along a branch stream
func (s *BranchStreamCollection) renumber(branch string) {
	slot, ok := s.heads[branch]
	if !ok {
		return
	}
	for i := 0; slot != noSlot; i++ {
		s.index[slot] = i
		slot = s.next[slot]
	}
}

// Branches returns the branch names, parents before children
func (s *BranchStreamCollection) Branches() []string {
	values := s.branches.Values()
	names := make([]string, len(values))
	for i, v := range values {
		names[i] = v.(string)
	}
	return names
}

// Parent returns the branch a branch was cut from
func (s *BranchStreamCollection) Parent(branch string) string {
	if bp, ok := s.branchpoints[branch]; ok {
		return bp.Branch()
	}
	return ""
}

// Ancestors returns the chain of parent branches, nearest first
func (s *BranchStreamCollection) Ancestors(branch string) []string {
	var ancestors []string
	for parent := s.Parent(branch); parent != ""; parent = s.Parent(parent) {
		ancestors = append(ancestors, parent)
	}
	return ancestors
}

// Branchpoint returns the commit a branch was cut from
func (s *BranchStreamCollection) Branchpoint(branch string) *cvs.Commit {
	return s.branchpoints[branch]
}

// BranchpointsOn returns the branches cut from a commit
func (s *BranchStreamCollection) BranchpointsOn(c *cvs.Commit) []string {
	return s.branchpointOf[c]
}

// IsBranchpoint returns true if any branch was cut from c
func (s *BranchStreamCollection) IsBranchpoint(c *cvs.Commit) bool {
	return len(s.branchpointOf[c]) > 0
}

// Head returns the first commit of a branch
func (s *BranchStreamCollection) Head(branch string) *cvs.Commit {
	if slot, ok := s.heads[branch]; ok {
		return s.commits[slot]
	}
	return nil
}

// Tail returns the last commit of a branch
func (s *BranchStreamCollection) Tail(branch string) *cvs.Commit {
	if slot, ok := s.tails[branch]; ok {
		return s.commits[slot]
	}
	return nil
}

// Commits returns a branch's commits in stream order
func (s *BranchStreamCollection) Commits(branch string) []*cvs.Commit {
	var result []*cvs.Commit
	slot, ok := s.heads[branch]
	if !ok {
		return nil
	}
	for ; slot != noSlot; slot = s.next[slot] {
		result = append(result, s.commits[slot])
	}
	return result
}

// All returns every commit, branch by branch in Branches order
func (s *BranchStreamCollection) All() []*cvs.Commit {
	var result []*cvs.Commit
	for _, branch := range s.Branches() {
		result = append(result, s.Commits(branch)...)
	}
	return result
}

// Len returns the number of commits on a branch
func (s *BranchStreamCollection) Len(branch string) int {
	n := 0
	slot, ok := s.heads[branch]
	if !ok {
		return 0
	}
	for ; slot != noSlot; slot = s.next[slot] {
		n++
	}
	return n
}

// Contains returns true if the commit is in a stream
func (s *BranchStreamCollection) Contains(c *cvs.Commit) bool {
	_, ok := s.slots[c]
	return ok
}

// Index returns the commit's position within its branch stream
func (s *BranchStreamCollection) Index(c *cvs.Commit) int {
	slot, ok := s.slots[c]
	if !ok {
		return -1
	}
	return s.index[slot]
}

// Successor returns the next commit on the same branch, or nil
func (s *BranchStreamCollection) Successor(c *cvs.Commit) *cvs.Commit {
	slot, ok := s.slots[c]
	if !ok || s.next[slot] == noSlot {
		return nil
	}
	return s.commits[s.next[slot]]
}

// Predecessor returns the previous commit on the same branch, or nil
func (s *BranchStreamCollection) Predecessor(c *cvs.Commit) *cvs.Commit {
	slot, ok := s.slots[c]
	if !ok || s.prev[slot] == noSlot {
		return nil
	}
	return s.commits[s.prev[slot]]
}

// MoveCommit relinks c immediately after the commit after, within c's own
// stream. The move is refused if it would cross streams, move a branchpoint,
// carry c past another branch's branchpoint, or carry c past a commit that
// touches one of the same files.
func (s *BranchStreamCollection) MoveCommit(c *cvs.Commit, after *cvs.Commit) error {
	slot, ok := s.slots[c]
	if !ok {
		return cvsgiterrors.NewMoveError(c.CommitID(), after.CommitID(), "commit is not in any stream")
	}
	afterSlot, ok := s.slots[after]
	if !ok {
		return cvsgiterrors.NewMoveError(c.CommitID(), after.CommitID(), "destination is not in any stream")
	}
	if c.Branch() != after.Branch() {
		return cvsgiterrors.NewCrossStreamMoveError(c.CommitID(), after.CommitID(),
			fmt.Sprintf("commit is on %s but destination is on %s", c.Branch(), after.Branch()))
	}
	if slot == afterSlot {
		return cvsgiterrors.NewMoveError(c.CommitID(), after.CommitID(), "cannot move a commit after itself")
	}
	if s.prev[slot] == afterSlot {
		return nil
	}
	if branches := s.branchpointOf[c]; len(branches) > 0 {
		return cvsgiterrors.NewMoveError(c.CommitID(), after.CommitID(),
			fmt.Sprintf("commit is the branchpoint of %v", branches))
	}

	for _, crossed := range s.crossedBy(slot, afterSlot) {
		x := s.commits[crossed]
		if branches := s.branchpointOf[x]; len(branches) > 0 {
			return cvsgiterrors.NewMoveError(c.CommitID(), after.CommitID(),
				fmt.Sprintf("move crosses %s, the branchpoint of %v", x.CommitID(), branches))
		}
		if x.Touches(c) {
			return cvsgiterrors.NewMoveError(c.CommitID(), after.CommitID(),
				fmt.Sprintf("move crosses %s, which changes the same files", x.CommitID()))
		}
	}

	s.unlink(slot)
	s.linkAfter(slot, afterSlot)
	s.renumber(c.Branch())
	return nil
}

// crossedBy returns the slots a commit passes over when moved after afterSlot
func (s *BranchStreamCollection) crossedBy(slot, afterSlot int) []int {
	var crossed []int
	if s.index[slot] < s.index[afterSlot] {
		for x := s.next[slot]; x != noSlot; x = s.next[x] {
			crossed = append(crossed, x)
			if x == afterSlot {
				break
			}
		}
		return crossed
	}

	for x := s.next[afterSlot]; x != noSlot && x != slot; x = s.next[x] {
		crossed = append(crossed, x)
	}
	return crossed
}

// SplitCommit replaces c with two consecutive commits carrying the same commit
// id: the first holds the given revisions, the second the remainder, both in
// their original order. The file revision lookups are updated to the new commits.
func (s *BranchStreamCollection) SplitCommit(c *cvs.Commit, first []*cvs.FileRevision) (*cvs.Commit, *cvs.Commit, error) {
	slot, ok := s.slots[c]
	if !ok {
		return nil, nil, fmt.Errorf("cannot split commit %s: not in any stream", c.CommitID())
	}
	if branches := s.branchpointOf[c]; len(branches) > 0 {
		return nil, nil, fmt.Errorf("cannot split commit %s: it is the branchpoint of %v", c.CommitID(), branches)
	}

	head, tail := c.Split(func(f *cvs.FileRevision) bool {
		return slices.Contains(first, f)
	})
	if head.Len() == 0 || tail.Len() == 0 {
		return nil, nil, fmt.Errorf("cannot split commit %s: both parts must be non-empty", c.CommitID())
	}

	delete(s.slots, c)
	s.commits[slot] = head
	s.slots[head] = slot

	tailSlot := s.allocate(tail)
	s.linkAfter(tailSlot, slot)
	s.renumber(c.Branch())

	cvs.AddCommitsToFiles([]*cvs.Commit{head, tail})

	return head, tail, nil
}

func (s *BranchStreamCollection) unlink(slot int) {
	branch := s.commits[slot].Branch()
	prev, next := s.prev[slot], s.next[slot]

	if prev == noSlot {
		s.heads[branch] = next
	} else {
		s.next[prev] = next
	}
	if next == noSlot {
		s.tails[branch] = prev
	} else {
		s.prev[next] = prev
	}
	s.prev[slot], s.next[slot] = noSlot, noSlot
}

func (s *BranchStreamCollection) linkAfter(slot, afterSlot int) {
	branch := s.commits[slot].Branch()
	next := s.next[afterSlot]

	s.prev[slot] = afterSlot
	s.next[slot] = next
	s.next[afterSlot] = slot
	if next == noSlot {
		s.tails[branch] = slot
	} else {
		s.prev[next] = slot
	}
}
