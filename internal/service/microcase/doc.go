// Package microcase implements the use cases of the clinical micro-case
// engine: listing and opening cases, validating a case graph for its author,
// and recording a learner's attempt.
//
// Key components:
//
//   - Policy: CanViewCase, CanSubmitAttempt and ListVisibility decide what a
//     caller may see or write. They are pure and read no store.
//   - Loader: reads a case, its nodes and their options and assembles a
//     casegraph.Graph. A missing case stops the load before any node query.
//   - Recorder: writes the attempt header and then its steps. A failed step
//     batch leaves the header in place and is reported as a warning.
//   - Service: the boundary used by the HTTP layer, tying the three together
//     and emitting events for recorded attempts and viewed cases.
//
// A server started without a database uses NewUnconfiguredService, whose
// operations all fail with ErrNotConfigured.
package microcase
