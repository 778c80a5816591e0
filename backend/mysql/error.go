package mysql

import (
	"errors"
	"fmt"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// DescribeError renders a *mysql.MySQLError the same way backend/mssql and
// backend/pgsql describe their own driver errors.
func DescribeError(err error) string {
	var myErr *mysqldriver.MySQLError
	if !errors.As(err, &myErr) {
		return err.Error()
	}
	return fmt.Sprintf("%d: %s", myErr.Number, myErr.Message)
}
