// Package sqltest provides an end-to-end test fixture for script.Runner:
// an in-process SQLite database by default, or a live database when
// SQLDIRECTIVE_DSN is set, following the teacher's fixture.go env-driven
// NewFixture but generalized across three dialects instead of two.
package sqltest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofrs/uuid"
	_ "modernc.org/sqlite"

	"github.com/vippsas/sqldirective/backend/mssql"
	"github.com/vippsas/sqldirective/backend/mysql"
	"github.com/vippsas/sqldirective/backend/pgsql"
)

// Fixture is a throwaway database a test can run a script.Runner against.
type Fixture struct {
	DB     *sql.DB
	Driver driver.Driver
	name   string
}

// NewFixture opens SQLDIRECTIVE_DSN if set, otherwise an in-memory SQLite
// database uniquely named per fixture so parallel tests don't collide.
func NewFixture() *Fixture {
	dsn := os.Getenv("SQLDIRECTIVE_DSN")
	if dsn == "" {
		name := strings.ReplaceAll(uuid.Must(uuid.NewV4()).String(), "-", "")
		db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
		if err != nil {
			panic(err)
		}
		return &Fixture{DB: db, Driver: db.Driver(), name: name}
	}

	var db *sql.DB
	var err error
	switch {
	case strings.HasPrefix(dsn, "sqlserver://"), strings.HasPrefix(dsn, "azuresql://"):
		db, err = mssql.Open(dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		db, err = pgsql.Open(dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		db, err = mysql.Open(strings.TrimPrefix(dsn, "mysql://"))
	default:
		panic(fmt.Sprintf("sqltest: unrecognized SQLDIRECTIVE_DSN scheme in %q", dsn))
	}
	if err != nil {
		panic(err)
	}
	return &Fixture{DB: db, Driver: db.Driver()}
}

// Teardown closes the fixture's connection.
func (f *Fixture) Teardown() {
	if f.DB == nil {
		return
	}
	_ = f.DB.Close()
	f.DB = nil
}

// Exec runs sql against the fixture, panicking on error -- for test setup
// where a failure should abort the test immediately, not be asserted on.
func (f *Fixture) Exec(sqlText string, args ...any) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()
	if _, err := f.DB.ExecContext(ctx, sqlText, args...); err != nil {
		panic(err)
	}
}
