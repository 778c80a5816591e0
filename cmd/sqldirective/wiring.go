package main

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/backend"
	"github.com/vippsas/sqldirective/dispatch"
	"github.com/vippsas/sqldirective/handlers"
	"github.com/vippsas/sqldirective/internal/config"
	"github.com/vippsas/sqldirective/resolver"
	"github.com/vippsas/sqldirective/script"
)

// newRunner builds a Runner that resolves scripts from the --directory
// folder through resolver.FileSystemResolver, with no global config. The
// handler set is wired by newComposite, not here.
func newRunner(logger logrus.FieldLogger) *script.Runner {
	return script.NewRunner(
		resolver.FileSystemResolver{Root: os.DirFS(directory)},
		nil,
		logger,
	)
}

// newComposite builds the dispatch.Composite processor (If, LoadTable,
// Callback and Terminator handlers) that run/run-all/compile/hash drive a
// script through, optionally wiring a live database connection for the
// "default" role when dbname is non-empty.
func newComposite(ctx context.Context, logger logrus.FieldLogger, dbname string) (*dispatch.Composite, error) {
	composite := dispatch.NewComposite(
		&handlers.IfHandler{},
		&handlers.LoadTableHandler{},
		&handlers.CallbackHandler{},
		&handlers.TerminatorHandler{},
	)
	composite.Context.Logger = logger

	if dbname == "" {
		return composite, nil
	}

	cfg, err := config.Load(directory)
	if err != nil {
		return nil, errors.WithMessage(err, "loading sqldirective.yaml")
	}
	dbcfg, ok := cfg.Databases[dbname]
	if !ok {
		return nil, fmt.Errorf("database %q not present in sqldirective.yaml", dbname)
	}
	db, err := dbcfg.Open(ctx, logger)
	if err != nil {
		return nil, errors.WithMessagef(err, "opening database %q", dbname)
	}
	composite.Context.DB["default"] = db
	composite.Context.CommandFactory = backend.CommandFactory

	return composite, nil
}
