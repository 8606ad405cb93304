// Package domdiff computes a near-minimal edit script between two parsed
// HTML documents and translates it into position-addressed patches for a
// live-reload applier.
//
// Three stages run in sequence over a pair of DiffTree views:
//
//	Matcher        — GumTree-style two-phase node correspondence (top-down
//	                 by structural hash, bottom-up by Dice similarity).
//	ScriptGenerator — Chawathe-style four-phase conversion of a Matching
//	                 into an ordered, node-identity-based EditOp list.
//	Translator      — a shadow-tree simulator that turns EditOps into
//	                 position-path Patch values, accounting for sibling
//	                 displacement via an integer-indexed slot mechanism.
//
// None of the three stages are safe for concurrent use by multiple
// goroutines over the same DiffTree; callers diffing many document pairs
// concurrently should give each diff its own DiffTree views (they hold no
// package-level state).
package domdiff
