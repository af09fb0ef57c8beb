// Package merge composes a word network W with a pronunciation lexicon L
// into a single decoding network M that reads phones and emits words.
//
// For each W node (in FIFO order, one M node per W node):
//
//  1. The backoff edge, if any, is copied to M unchanged and its
//     destination's M node is scheduled.
//  2. Every literal W edge becomes a word candidate scored e⊗c.
//  3. Potentials are propagated up L's parent chain from every
//     pronunciation end of a candidate word, combined with the push law
//     (PushSum: log-add, PushMax: max). Subtrees without potential are
//     pruned.
//  4. The live part of L is copied under the M node with an explicit
//     stack. Every weight is expressed relative to the potential of the
//     subtree it leaves, so a partial path already carries the mass
//     reachable below it. An edge with several contexts carries the
//     push-combined total and per-context residuals.
//  5. Word ends point at the M node of the W destination, registered on
//     first reference; internal destinations are pending nodes registered
//     when the stack reaches them.
//
// Verify checks the result numerically against both inputs; Merge runs it
// by default. Composition counters are reported through an OpenTelemetry
// MeterProvider (the global one unless WithMeterProvider is given).
package merge
