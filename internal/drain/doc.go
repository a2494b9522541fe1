// Package drain implements online log-template mining with a
// fixed-depth parse tree.
//
// Incoming lines are masked, tokenized, and routed through a tree that
// branches first on token count and then on the first few literal
// tokens, bounding the candidate set a line is scored against
// regardless of how many clusters exist. A line that scores at or
// above the similarity threshold against a candidate merges into it,
// wildcarding every disagreeing template position; otherwise it founds
// a new cluster with its own tokens as the template.
//
// Generalization is monotonic: a template position moves from literal
// to wildcard at most once and never back. Clusters are partitioned by
// token count, so a line can only ever join a cluster whose template
// has the same length.
//
// The Engine is safe for concurrent use: mutation is serialized behind
// a write lock while read-only matching runs under a shared read lock.
package drain
