package resolve

import (
	"fmt"
	"slices"
	"sort"

	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
)

// TagResolver checks that each tag names a consistent cut through the branch
// streams and repairs the streams where it does not.
//
// A tag is consistent when some commit on one branch (the tag's final commit)
// leaves every tagged file at exactly its tagged revision once the branch and
// its ancestry are replayed up to that commit.
type TagResolver struct {
	log      Logger
	streams  engine.Streams
	allFiles map[string]*cvs.FileInfo
	matcher  Matcher

	resolved   map[string]*cvs.Commit
	unresolved map[string]bool
}

// NewTagResolver creates a resolver over the given streams. A nil matcher
// includes every tag; a nil logger discards the narration.
func NewTagResolver(log Logger, streams engine.Streams, allFiles map[string]*cvs.FileInfo, matcher Matcher) *TagResolver {
	if log == nil {
		log = discardLogger{}
	}
	if matcher == nil {
		matcher = matchAll{}
	}
	return &TagResolver{
		log:        log,
		streams:    streams,
		allFiles:   allFiles,
		matcher:    matcher,
		resolved:   make(map[string]*cvs.Commit),
		unresolved: make(map[string]bool),
	}
}

// Tags returns the included tag names found on any file, sorted
func (r *TagResolver) Tags() []string {
	seen := make(map[string]bool)
	for _, file := range r.allFiles {
		for tag := range file.Tags {
			if !seen[tag] && r.matcher.Match(tag) {
				seen[tag] = true
			}
		}
	}

	tags := make([]string, 0, len(seen))
	for tag := range seen {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Commits returns every commit in the streams, branch by branch
func (r *TagResolver) Commits() []*cvs.Commit {
	return r.streams.All()
}

// ResolvedTags returns the final commit of every consistent tag
func (r *TagResolver) ResolvedTags() map[string]*cvs.Commit {
	return r.resolved
}

// UnresolvedTags returns the tags that could not be made consistent, sorted
func (r *TagResolver) UnresolvedTags() []string {
	tags := make([]string, 0, len(r.unresolved))
	for tag := range r.unresolved {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Resolve checks every tag without changing the streams. It returns true if
// all tags are consistent.
func (r *TagResolver) Resolve() bool {
	r.reset()
	r.log.DoubleRuleOff()
	r.log.WriteLine("Resolving tags...")
	defer r.log.Indent()()

	for _, tag := range r.Tags() {
		r.ResolveTag(tag)
	}
	return len(r.unresolved) == 0
}

// ResolveAndFix checks every tag and repairs the streams for those that are
// inconsistent. It returns true if all tags end up consistent.
func (r *TagResolver) ResolveAndFix() bool {
	r.reset()
	r.log.DoubleRuleOff()
	r.log.WriteLine("Resolving and fixing tags...")
	defer r.log.Indent()()

	tags := r.Tags()
	for _, tag := range tags {
		r.FixTag(tag)
	}

	// a repair for one tag can move commits another tag depends on
	for _, tag := range tags {
		if _, ok := r.resolved[tag]; !ok {
			continue
		}
		cut, reason := r.locate(tag)
		if reason == "" && !r.isConsistent(cut) {
			reason = "disturbed by a later repair"
		}
		if reason != "" {
			r.log.WriteLine("Tag %s no longer resolves: %s", tag, reason)
			delete(r.resolved, tag)
			r.unresolved[tag] = true
		}
	}

	return len(r.unresolved) == 0
}

// ResolveTag checks a single tag without changing the streams
func (r *TagResolver) ResolveTag(tag string) bool {
	cut, reason := r.locate(tag)
	if reason == "" && !r.isConsistent(cut) {
		reason = "tagged revisions are not a consistent cut"
	}
	if reason != "" {
		r.log.WriteLine("Tag %s: %s", tag, reason)
		r.fail(tag)
		return false
	}
	r.succeed(tag, cut.final)
	return true
}

// FixTag checks a single tag and repairs the tag's branch when the tag is
// inconsistent. The streams are left untouched when no repair is possible.
func (r *TagResolver) FixTag(tag string) bool {
	cut, reason := r.locate(tag)
	if reason != "" {
		r.log.WriteLine("Tag %s: %s", tag, reason)
		r.fail(tag)
		return false
	}
	if r.isConsistent(cut) {
		r.succeed(tag, cut.final)
		return true
	}

	r.log.WriteLine("Tag %s on %s needs fixing (final commit %s)", tag, cut.branch, cut.final.CommitID())
	restore := r.log.Indent()
	err := r.fix(cut)
	restore()
	if err != nil {
		r.log.WriteLine("Tag %s cannot be fixed: %v", tag, err)
		r.fail(tag)
		return false
	}

	cut, reason = r.locate(tag)
	if reason == "" && !r.isConsistent(cut) {
		reason = "still inconsistent after repair"
	}
	if reason != "" {
		r.log.WriteLine("Tag %s: %s", tag, reason)
		r.fail(tag)
		return false
	}
	r.succeed(tag, cut.final)
	return true
}

func (r *TagResolver) reset() {
	r.resolved = make(map[string]*cvs.Commit)
	r.unresolved = make(map[string]bool)
}

func (r *TagResolver) succeed(tag string, final *cvs.Commit) {
	r.resolved[tag] = final
	delete(r.unresolved, tag)
}

func (r *TagResolver) fail(tag string) {
	delete(r.resolved, tag)
	r.unresolved[tag] = true
}

// tagCut is where a tag's anchors sit in the streams
type tagCut struct {
	tag     string
	branch  string
	files   []*cvs.FileInfo
	anchors map[*cvs.FileInfo]*cvs.Commit
	final   *cvs.Commit
}

// locate finds the anchor commit of every tagged file, the branch the tag
// belongs to and the tag's final commit. A non-empty reason means the tag
// cannot be placed at all.
func (r *TagResolver) locate(tag string) (*tagCut, string) {
	cut := &tagCut{
		tag:     tag,
		anchors: make(map[*cvs.FileInfo]*cvs.Commit),
	}

	names := make([]string, 0, len(r.allFiles))
	for name, file := range r.allFiles {
		if _, ok := file.Tags[tag]; ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if len(names) == 0 {
		return nil, "no files carry the tag"
	}

	var branches []string
	for _, name := range names {
		file := r.allFiles[name]
		revision := file.Tags[tag]
		anchor := file.GetCommit(revision)
		if anchor == nil {
			return nil, fmt.Sprintf("no commit found for %s r%s", name, revision)
		}
		if !r.streams.Contains(anchor) {
			return nil, fmt.Sprintf("commit %s for %s r%s is on excluded branch %s", anchor.CommitID(), name, revision, anchor.Branch())
		}
		cut.files = append(cut.files, file)
		cut.anchors[file] = anchor
		if !slices.Contains(branches, anchor.Branch()) {
			branches = append(branches, anchor.Branch())
		}
	}

	for _, candidate := range branches {
		lineage := append([]string{candidate}, r.streams.Ancestors(candidate)...)
		covers := true
		for _, branch := range branches {
			if !slices.Contains(lineage, branch) {
				covers = false
				break
			}
		}
		if covers {
			cut.branch = candidate
			break
		}
	}
	if cut.branch == "" {
		return nil, fmt.Sprintf("tagged revisions span unrelated branches %v", branches)
	}

	for _, file := range cut.files {
		anchor := cut.anchors[file]
		if anchor.Branch() != cut.branch {
			continue
		}
		if cut.final == nil || r.streams.Index(anchor) > r.streams.Index(cut.final) {
			cut.final = anchor
		}
	}

	return cut, ""
}

// isConsistent replays the tag branch's ancestry up to the branchpoints, then
// the tag branch itself up to the final commit, and compares every tagged
// file's resulting revision with its tagged revision.
func (r *TagResolver) isConsistent(cut *tagCut) bool {
	state := make(map[*cvs.FileInfo]cvs.Revision)
	apply := func(c *cvs.Commit) {
		for _, f := range c.Files() {
			state[f.File] = f.Revision
		}
	}

	ancestors := r.streams.Ancestors(cut.branch)
	lineage := append([]string{cut.branch}, ancestors...)
	for i := len(lineage) - 1; i > 0; i-- {
		stop := r.streams.Branchpoint(lineage[i-1])
		for c := r.streams.Head(lineage[i]); c != nil; c = r.streams.Successor(c) {
			apply(c)
			if c == stop {
				break
			}
		}
	}
	for c := r.streams.Head(cut.branch); c != nil; c = r.streams.Successor(c) {
		apply(c)
		if c == cut.final {
			break
		}
	}

	consistent := true
	for _, file := range cut.files {
		if state[file] != file.Tags[cut.tag] {
			r.log.WriteLine("%s is at r%s but the tag wants r%s", file.Name, state[file], file.Tags[cut.tag])
			consistent = false
		}
	}
	return consistent
}

// repair is the plan for one commit ahead of the final commit: late revisions
// must end up after the final commit, the rest stay where they are
type repair struct {
	commit *cvs.Commit
	keep   []*cvs.FileRevision
	late   []*cvs.FileRevision
}

// fix moves every revision that is later than the tag wants to after the
// tag's final commit, splitting commits that mix needed and late revisions.
// The plan is checked in full before the streams are changed.
func (r *TagResolver) fix(cut *tagCut) error {
	var plan []repair
	deferred := make(map[*cvs.FileInfo]bool)
	var start *cvs.Commit

	for c := r.streams.Head(cut.branch); c != nil; c = r.streams.Successor(c) {
		var rp repair
		rp.commit = c
		for _, f := range c.Files() {
			tagged, ok := f.File.Tags[cut.tag]
			if deferred[f.File] || (ok && !f.Revision.Precedes(tagged)) {
				rp.late = append(rp.late, f)
			} else {
				rp.keep = append(rp.keep, f)
			}
		}
		for _, f := range rp.late {
			deferred[f.File] = true
		}
		if len(rp.late) > 0 {
			plan = append(plan, rp)
			if start == nil {
				start = c
			}
		}
		if c == cut.final {
			break
		}
	}

	if len(plan) == 0 {
		return fmt.Errorf("no late revisions found before %s", cut.final.CommitID())
	}
	if last := plan[len(plan)-1]; last.commit == cut.final && len(last.keep) == 0 {
		return fmt.Errorf("final commit %s holds only late revisions", cut.final.CommitID())
	}

	planned := make(map[*cvs.Commit]bool, len(plan))
	for _, rp := range plan {
		planned[rp.commit] = true
	}
	for c := start; c != nil; c = r.streams.Successor(c) {
		if r.streams.IsBranchpoint(c) {
			if planned[c] {
				return fmt.Errorf("commit %s is the branchpoint of %v and cannot be moved or split",
					c.CommitID(), r.streams.BranchpointsOn(c))
			}
			return fmt.Errorf("commit %s is the branchpoint of %v and cannot be crossed",
				c.CommitID(), r.streams.BranchpointsOn(c))
		}
		if c == cut.final {
			break
		}
	}

	final := cut.final
	var moves []*cvs.Commit
	for _, rp := range plan {
		if len(rp.keep) == 0 {
			moves = append(moves, rp.commit)
			continue
		}
		r.log.WriteLine("Split %s", rp.commit.Describe())
		first, second, err := r.streams.SplitCommit(rp.commit, rp.keep)
		if err != nil {
			return err
		}
		if rp.commit == final {
			final = first
		}
		moves = append(moves, second)
	}

	for i := len(moves) - 1; i >= 0; i-- {
		r.log.WriteLine("Move %s after %s", moves[i].Describe(), final.CommitID())
		if err := r.streams.MoveCommit(moves[i], final); err != nil {
			return err
		}
	}
	return nil
}
