// Package arena implements the flat node-slot storage that backs a parsed
// HTML document.
//
// Nodes are allocated once into a single growable slice and never moved;
// a NodeID is a stable, identity-comparable handle into that slice for the
// lifetime of the Document. Deletion (performed only by a patch applier,
// never by the diff engine itself) detaches a node from its parent's
// child list but does not reclaim its slot.
package arena
