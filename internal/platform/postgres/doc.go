// Package postgres provides PostgreSQL implementations of the case and
// attempt stores defined in the internal/store package, together with the
// embedded goose migrations that create their schema.
//
// Stores accept a store.DBTX so the same code runs against a *sql.DB or a
// *sql.Tx. Connections use the pgx driver through database/sql.
package postgres
