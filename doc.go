// Package lexnet builds, composes and inspects weighted labeled networks
// for speech decoding: pronunciation lexicons (phones → word), word-sequence
// models (word → word) and their composition into phone-level decoders.
//
// What is in the box?
//
//	• Labels: dynamic and closed phone inventories (TIMIT-61, TIMIT-39, CMU-39)
//	• Networks: arena-backed nodes and edges with multi-context transitions
//	• Insertion: counted prefix-sharing of parallel input/output sequences
//	• Probability: log conversion, uniform normalisation, dictionary finalisation
//	• Composition: word network ∘ lexicon with weight pushing (sum or max)
//	• Persistence: versioned binary format with vocabulary sidecars
//	• Walks: BFS, DFS (cycles, topological order), Viterbi best paths
//
// Packages:
//
//	label/    token ↔ code tables and closed inventories
//	semiring/ linear and log weight domains, push modes
//	core/     Network, Node, Edge, Context, insertion, Accept, Equivalent
//	bfs/      breadth-first walks (the persistence order)
//	dfs/      depth-first walks, FindCycle, TopologicalSort
//	dijkstra/ best-path costs and best emission per output
//	prob/     weight-domain passes
//	persist/  Save/Load, SaveFile/LoadFile
//	merge/    Merge and Verify
//	lexicon/  pronunciation dictionary reader
//	ngram/    ARPA and sentence-corpus word networks
//
// The lexnet command (cmd/lexnet) wraps these as lexicon, lm, merge, accept,
// equal, info and words subcommands.
//
// Quick start:
//
//	go install github.com/katalvlaran/lexnet/cmd/lexnet@latest
package lexnet
