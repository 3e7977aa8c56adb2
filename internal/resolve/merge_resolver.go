package resolve

import (
	"cvsgit.dev/cvsgit/internal/cvs"
	"cvsgit.dev/cvsgit/internal/engine"
	cvsgiterrors "cvsgit.dev/cvsgit/internal/errors"
)

// MergeResolver resolves CVSNT mergepoints back to individual commits on the
// source branch and records them as each merge commit's MergeFrom.
type MergeResolver struct {
	log     Logger
	streams engine.Streams

	// claimed maps each commit already used as a merge source to the branch
	// it was merged into
	claimed map[*cvs.Commit]string
}

// NewMergeResolver creates a merge resolver. A nil logger discards the narration.
func NewMergeResolver(log Logger, streams engine.Streams) *MergeResolver {
	if log == nil {
		log = discardLogger{}
	}
	return &MergeResolver{log: log, streams: streams}
}

// Resolve processes every branch. Merges from one branch into another must
// be monotonic in the source stream; a source commit that would go backwards
// is moved to just after the previous merge's source. Any failure on any
// branch fails the whole resolution.
func (r *MergeResolver) Resolve() error {
	r.log.DoubleRuleOff()
	r.log.WriteLine("Resolving merges...")
	defer r.log.Indent()()

	r.claimed = make(map[*cvs.Commit]string)
	failures := 0
	for _, branch := range r.streams.Branches() {
		failures += r.processBranch(branch)
	}

	if failures > 0 {
		return cvsgiterrors.NewImportFailedError("merges", failures)
	}
	return nil
}

// processBranch resolves the merges into one branch and returns the number of
// failures.
//
// lastMerges holds, per source branch, the latest merge point. latest holds
// the highest source in stream order, which only differs from the last merge
// point once a crossed source has been relocated after it. Comparing against
// latest keeps the sources of one branch's merges in stream order.
func (r *MergeResolver) processBranch(branch string) int {
	failures := 0
	lastMerges := make(map[string]*cvs.Commit)
	latest := make(map[string]*cvs.Commit)

	for dest := r.streams.Head(branch); dest != nil; dest = r.streams.Successor(dest) {
		merged := dest.MergedFiles()
		if len(merged) == 0 {
			continue
		}

		source, ok := r.findSource(dest, merged)
		if !ok {
			failures++
			continue
		}
		if source == nil {
			continue
		}

		high := latest[source.Branch()]
		if high != nil && r.streams.Index(source) < r.streams.Index(high) {
			last := lastMerges[source.Branch()]
			r.log.WriteLine("Merges from %s to %s are crossed (%s->%s, last merge %s)",
				source.Branch(), dest.Branch(), source.CommitID(), dest.CommitID(), last.CommitID())

			if into, ok := r.claimed[source]; ok {
				restore := r.log.Indent()
				if into == dest.Branch() {
					// everything up to high is already merged
					r.log.WriteLine("%s was already merged into %s, nothing new to merge", source.CommitID(), into)
					restore()
					continue
				}
				r.log.WriteLine("Cannot move %s: it is the merge source of a commit on %s", source.CommitID(), into)
				restore()
				failures++
				continue
			}

			restore := r.log.Indent()
			err := r.streams.MoveCommit(source, high)
			if err == nil {
				r.log.WriteLine("Moved %s after %s", source.CommitID(), high.CommitID())
			} else {
				r.log.WriteLine("%v", err)
			}
			restore()
			if err != nil {
				failures++
				continue
			}
			// the last merge has not changed
			latest[source.Branch()] = source
		} else {
			lastMerges[source.Branch()] = source
			latest[source.Branch()] = source
		}

		dest.SetMergeFrom(source)
		r.claimed[source] = dest.Branch()
	}

	return failures
}

// findSource returns the latest source commit among a merge commit's
// mergepoints. It returns nil, true when every mergepoint lies on a branch that
// is not being imported, and false when the merge cannot be resolved.
func (r *MergeResolver) findSource(dest *cvs.Commit, merged []*cvs.FileRevision) (*cvs.Commit, bool) {
	var source *cvs.Commit
	for _, f := range merged {
		candidate := f.File.GetCommit(f.Mergepoint)
		if candidate == nil {
			r.log.WriteLine("Commit %s: no commit found for mergepoint %s r%s", dest.CommitID(), f.File.Name, f.Mergepoint)
			return nil, false
		}
		if !r.streams.Contains(candidate) {
			r.log.WriteLine("Commit %s: ignoring merge from excluded branch %s", dest.CommitID(), candidate.Branch())
			continue
		}
		if source != nil && candidate.Branch() != source.Branch() {
			r.log.WriteLine("Commit %s merges from more than one branch (%s and %s)",
				dest.CommitID(), source.Branch(), candidate.Branch())
			return nil, false
		}
		if source == nil || r.streams.Index(candidate) > r.streams.Index(source) {
			source = candidate
		}
	}

	if source != nil && source.Branch() == dest.Branch() {
		r.log.WriteLine("Commit %s merges from its own branch %s", dest.CommitID(), dest.Branch())
		return nil, false
	}
	return source, true
}
