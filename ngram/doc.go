// Package ngram builds word networks: from ARPA back-off language models and
// from plain sentence corpora.
//
// In an ARPA network every n-gram history of order below N is a node. An
// n-gram (h, w) is an edge from h's node reading and emitting w, weighted
// with its natural-log probability, that lands on the node of the longest
// suffix of h·w that is itself a history. Each history node also has a
// backoff edge, weighted with its back-off coefficient, to the node of its
// longest proper suffix history. The empty history holds the unigrams.
package ngram
