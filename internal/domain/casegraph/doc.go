// Package casegraph holds the micro-case branching engine: the in-memory
// graph of a case, the rules for moving from one node to the next, scoring
// of submitted step sequences, and the authoring validation pass.
//
// Everything here is pure. The client drives traversal while playing; the
// server only scores the discrete steps it is sent, so a graph with cycles
// never causes unbounded work.
package casegraph
