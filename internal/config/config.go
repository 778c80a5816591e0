// Package config loads sqldirective.yaml, the per-service database
// configuration the CLI reads, modeled on the teacher's cli/cmd/config.go
// DatabaseConfig/Config/LoadConfig.
package config

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/vippsas/sqldirective/backend/mssql"
	"github.com/vippsas/sqldirective/backend/mysql"
	"github.com/vippsas/sqldirective/backend/pgsql"
)

// DatabaseConfig is one entry under "databases" in sqldirective.yaml.
type DatabaseConfig struct {
	Connection string `yaml:"connection"`
}

// Open dials Connection, choosing a backend by its URI scheme the same way
// the teacher's OpenSocks5Sql switches on "sqlserver://"/"azuresql://".
func (dbcfg DatabaseConfig) Open(ctx context.Context, logger logrus.FieldLogger) (*sql.DB, error) {
	dsn := dbcfg.Connection
	switch {
	case strings.HasPrefix(dsn, "sqlserver://"), strings.HasPrefix(dsn, "azuresql://"):
		return mssql.Open(dsn)
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"):
		return pgsql.Open(dsn)
	case strings.HasPrefix(dsn, "mysql://"):
		return mysql.Open(strings.TrimPrefix(dsn, "mysql://"))
	default:
		return nil, fmt.Errorf("config: unrecognized connection scheme in %q", dsn)
	}
}

// Config is the top-level shape of sqldirective.yaml.
type Config struct {
	Databases   map[string]DatabaseConfig `yaml:"databases"`
	ServiceName string                    `yaml:"servicename"`
}

// Load reads sqldirective.yaml from dir, the same single-file convention
// the teacher's LoadConfig uses for sqlcode.yaml.
func Load(dir string) (Config, error) {
	var result Config

	filename := path.Join(dir, "sqldirective.yaml")
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Config{}, fmt.Errorf("no sqldirective.yaml found in %s", dir)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}
	if err := yaml.Unmarshal(data, &result); err != nil {
		return Config{}, err
	}
	return result, nil
}
