package backend

import (
	"context"
	"database/sql"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/stdlib"
	mssql "github.com/microsoft/go-mssqldb"

	mssqlbackend "github.com/vippsas/sqldirective/backend/mssql"
	mysqlbackend "github.com/vippsas/sqldirective/backend/mysql"
	pgsqlbackend "github.com/vippsas/sqldirective/backend/pgsql"
)

// Dialect identifies which driver a *sql.DB was opened with, the same
// type-switch-over-Driver() idiom the teacher uses in dbops.go.
type Dialect int

const (
	DialectUnknown Dialect = iota
	DialectMSSQL
	DialectPostgres
	DialectMySQL
)

func DialectOf(db DB) Dialect {
	switch db.Driver().(type) {
	case *mssql.Driver:
		return DialectMSSQL
	case *stdlib.Driver:
		return DialectPostgres
	case *mysqldriver.MySQLDriver:
		return DialectMySQL
	default:
		return DialectUnknown
	}
}

// CommandFactory runs text as a generic non-query command, the function
// dispatch.Context.CommandFactory is set to for a dispatch.Composite backed
// by a real database. It dispatches on dialect only to translate the
// driver's native error into a readable message, mirroring dbops.go's
// per-dialect branching pattern for the case that actually differs today.
func CommandFactory(ctx context.Context, db *sql.DB, text string) (sql.Result, error) {
	dialect := DialectOf(db)
	switch dialect {
	case DialectMSSQL, DialectPostgres, DialectMySQL:
		result, err := db.ExecContext(ctx, text)
		if err == nil {
			return result, nil
		}
		switch dialect {
		case DialectMSSQL:
			return nil, fmt.Errorf("%s", mssqlbackend.DescribeError(err))
		case DialectPostgres:
			return nil, fmt.Errorf("%s", pgsqlbackend.DescribeError(err))
		default:
			return nil, fmt.Errorf("%s", mysqlbackend.DescribeError(err))
		}
	default:
		return nil, fmt.Errorf("backend: unrecognized driver %T", db.Driver())
	}
}
