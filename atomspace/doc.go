// Package atomspace implements the in-memory knowledge graph at the core of
// the cognitive runtime.
//
// The graph is made of atoms: typed, named units of knowledge carrying a
// truth value and confidence in [0,1], an attention score, and directed
// links to other atoms. A Space owns every atom it contains and is the only
// authority for creating and removing them; links reference atoms by id and
// may dangle after a removal, which lookups and traversals tolerate.
//
// Names are unique within a Space and creation is get-or-create: the first
// writer of a name wins and later creations under the same name return the
// original atom unchanged.
//
// A Space supports many concurrent readers (lookups, queries, statistics)
// while structural writes are mutually exclusive. The periodic attention
// maintenance pass (UpdateAttention) decays every atom's attention and
// spreads a share of it across outgoing links, biasing which atoms agents
// perceive next.
//
// Query predicates can be written as plain Go functions or compiled from
// CEL expressions with CompileQuery:
//
//	pred, err := atomspace.CompileQuery(`attention > 0.7`)
//	if err != nil {
//	    return err
//	}
//	hot := space.Query(pred)
package atomspace
