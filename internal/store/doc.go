// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the micro-case engine, which only depends on the contracts declared here.
package store
