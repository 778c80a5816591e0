package handlers

import (
	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/dispatch"
)

// TerminatorHandler recognizes `-- #Terminator: value` so a script
// documents its own terminator override inline. By the time the parser
// reaches any directive the statement terminator is already fixed (the
// lexer needs it to tokenize), so this handler cannot change parsing
// retroactively; it only accepts and discards the directive so a script
// carrying the annotation doesn't trip UnrecognizedDirective. The resolver
// package's DetectTerminator performs the actual pre-parse detection this
// directive documents.
type TerminatorHandler struct{}

func (h *TerminatorHandler) Identity() string { return "Terminator" }

func (h *TerminatorHandler) InitProcessor(ctx *dispatch.Context, config any, logger logrus.FieldLogger) error {
	return nil
}

func (h *TerminatorHandler) InitDirective(ctx *dispatch.Context, d directive.Directive) (*directive.Initialization, error) {
	if d.Name != "Terminator" {
		return nil, nil
	}
	return &directive.Initialization{Action: directive.NoStore}, nil
}

func (h *TerminatorHandler) SetupDirective(ctx *dispatch.Context, d directive.Directive, state any) (*directive.Initialization, error) {
	return nil, dispatch.ErrUnrecognized
}

func (h *TerminatorHandler) TryExecute(ctx *dispatch.Context, text string, d directive.Directive, state any) (bool, error) {
	return false, nil
}
