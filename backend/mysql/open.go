// Package mysql wires a MySQL *sql.DB for the mysql backend of
// dispatch.Composite, completing the dialect set backend.DialectOf switches
// on alongside backend/mssql and backend/pgsql.
package mysql

import (
	"database/sql"

	mysqldriver "github.com/go-sql-driver/mysql"
)

// Open builds a *sql.DB for dsn, a go-sql-driver/mysql DSN
// ("user:pass@tcp(host:port)/dbname?...").
func Open(dsn string) (*sql.DB, error) {
	cfg, err := mysqldriver.ParseDSN(dsn)
	if err != nil {
		return nil, err
	}
	cfg.ParseTime = true
	connector, err := mysqldriver.NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return sql.OpenDB(connector), nil
}
