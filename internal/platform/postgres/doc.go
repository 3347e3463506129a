// Package postgres provides PostgreSQL implementations of the store
// interfaces, the embedded goose schema migrations, and the mapping from
// driver errors to store errors. Connections go through pgx's database/sql
// driver and are owned by the caller.
package postgres
