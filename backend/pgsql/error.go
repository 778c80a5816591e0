package pgsql

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// DescribeError renders a *pgconn.PgError the same way backend/mssql
// describes a *mssql.Error, so both backends hand script.Runner a
// StatementExecutionError.Cause with a comparable level of detail.
func DescribeError(err error) string {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err.Error()
	}
	return fmt.Sprintf("%s (%s): %s", pgErr.Code, pgErr.Severity, pgErr.Message)
}
