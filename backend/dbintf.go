// Package backend collects the per-dialect command factories consumed by a
// dispatch.Context, generalizing the teacher's driver-type-switch idiom
// (dbops.go) across mssql/pgsql/mysql instead of just mssql/postgres.
package backend

import (
	"context"
	"database/sql"
	"database/sql/driver"
)

// DB is the subset of *sql.DB a command factory needs, narrowed the way
// the teacher narrows it in dbintf.go so tests can substitute a fake.
type DB interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	Conn(ctx context.Context) (*sql.Conn, error)
	BeginTx(ctx context.Context, txOptions *sql.TxOptions) (*sql.Tx, error)
	Driver() driver.Driver
}

var _ DB = (*sql.DB)(nil)
