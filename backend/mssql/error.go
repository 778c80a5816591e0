package mssql

import (
	"errors"
	"fmt"
	"strings"

	mssqldriver "github.com/microsoft/go-mssqldb"
)

// DescribeError renders a *mssql.Error's full chain of SQL Server messages,
// generalizing the teacher's MSSQLUserError.Error (error.go) beyond a single
// batch/file context -- the line numbers SQL Server reports are already
// relative to the executed statement text, so no source-mapping is needed
// here the way the teacher's batch offset required.
func DescribeError(err error) string {
	var sqlErr mssqldriver.Error
	if !errors.As(err, &sqlErr) {
		return err.Error()
	}
	var b strings.Builder
	for _, item := range sqlErr.All {
		fmt.Fprintf(&b, "%d (proc %s, line %d): %s\n", item.Number, item.ProcName, item.LineNo, item.Message)
	}
	return strings.TrimRight(b.String(), "\n")
}
