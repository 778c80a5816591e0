// Package mssql wires a SQL Server *sql.DB for the mssql backend of
// dispatch.Composite, grounded on the teacher's cli/cmd/config.go
// OpenSocks5Sql, generalized from microsoft/go-mssqldb's predecessor to the
// current module.
package mssql

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"

	mssqldriver "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/azuread"
	"golang.org/x/net/proxy"
)

// Open builds a *sql.DB for dsn. A "sqlserver://" dsn uses SQL
// authentication; an "azuresql://" dsn authenticates through Azure AD via
// microsoft/go-mssqldb/azuread. When the SQL_SOCKS environment variable is
// set, connections are tunneled through a SOCKS5 proxy at that address.
func Open(dsn string) (*sql.DB, error) {
	var connector *mssqldriver.Connector
	var err error

	switch {
	case strings.HasPrefix(dsn, "azuresql://"):
		connector, err = azuread.NewConnector(dsn)
	case strings.HasPrefix(dsn, "sqlserver://"):
		connector, err = mssqldriver.NewConnector(dsn)
	default:
		return nil, errors.New("mssql: expected a sqlserver:// dsn for SQL auth or azuresql:// for Azure AD auth")
	}
	if err != nil {
		return nil, err
	}

	if proxyAddr := os.Getenv("SQL_SOCKS"); proxyAddr != "" {
		dialer, err := proxy.SOCKS5("tcp", proxyAddr, nil, nil)
		if err != nil {
			return nil, fmt.Errorf("mssql: could not connect with SOCKS5 to %s: %w", proxyAddr, err)
		}
		connector.Dialer = dialer.(proxy.ContextDialer)
	}

	return sql.OpenDB(connector), nil
}
