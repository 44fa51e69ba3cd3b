// Package domain contains the core entities of the micro-case engine:
// cases, their nodes and options, and the attempts learners record
// while playing them. It is independent of storage and transport.
package domain
