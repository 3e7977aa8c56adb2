// Package cvs models CVS revision history as the importer sees it.
//
// It provides:
//   - Revision: dotted CVS revision numbers and their lineage arithmetic
//   - FileInfo: per-file tag and branch tables, plus the revision to commit lookup
//   - FileRevision: one version of one file as reported by the CVS log
//   - Commit: a group of file revisions that share one commit identity
//
// Branch streams, replay state and the repair algorithms live in the engine and
// resolve packages, which build on these types.
package cvs
