package script

import (
	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/directive"
)

// DirectiveState pairs a stored directive with its current carried state,
// the shape a Processor's ExecuteStatement receives for each surviving
// directive in source order.
type DirectiveState struct {
	Directive directive.Directive
	State     any
}

// Processor is the external collaborator that interprets directives and
// executes statements. A Processor may additionally implement ScriptResolver
// to act as its own script source.
type Processor interface {
	InitProcessor(config any, logger logrus.FieldLogger) error
	InitDirective(d directive.Directive) (*directive.Initialization, error)
	SetupDirective(d directive.Directive, state any) (*directive.Initialization, error)
	ExecuteStatement(text string, directives []DirectiveState) error
}
