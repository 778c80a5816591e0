// Package pgsql wires a Postgres *sql.DB for the pgsql backend of
// dispatch.Composite, grounded on the teacher's dbops.go/deployable.go use
// of jackc/pgx/v5/stdlib.Driver for its driver-type-switch idiom.
package pgsql

import (
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Open builds a *sql.DB for a "postgres://" dsn, through the pgx "pgx"
// database/sql driver stdlib registers on import.
func Open(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}
