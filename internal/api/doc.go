// Package api exposes the micro-case operations over HTTP.
//
// MicroCaseHandler serves the REST routes under /api/micro-cases, and
// LegacyHandler serves the action-dispatched /api/micro_cases endpoint
// used by older players. Both translate service errors into the
// {ok, error, detail?, trace_id?} envelope through HandleAPIError.
package api
