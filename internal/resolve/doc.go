// Package resolve repairs the per-branch commit streams so that they can be
// written out as a causally valid history.
//
// TagResolver makes every tag correspond to a single commit on one branch,
// reordering or splitting commits where CVS grouped them inconsistently.
// MergeResolver links each merge commit to the source-branch commit it merged
// from, relocating source commits when CVS recorded merges out of order.
package resolve
