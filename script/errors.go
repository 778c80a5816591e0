package script

import (
	"fmt"

	"github.com/vippsas/sqldirective/directive"
)

// ScriptNotFound is returned when a resolver cannot locate name.
type ScriptNotFound struct {
	Name string
}

func (e ScriptNotFound) Error() string {
	return fmt.Sprintf("script not found: %s", e.Name)
}

// UnrecognizedDirective is returned when no handler claims a directive at
// init time.
type UnrecognizedDirective struct {
	Directive directive.Directive
}

func (e UnrecognizedDirective) Error() string {
	return fmt.Sprintf("unrecognized directive %q at %s:%d", e.Directive.Name, e.Directive.Origin.File, e.Directive.Origin.Line)
}

// InvalidDirective is returned when no handler claims a directive at setup
// time, or a handler's response is otherwise unusable.
type InvalidDirective struct {
	Message   string
	Directive directive.Directive
}

func (e InvalidDirective) Error() string {
	return fmt.Sprintf("invalid directive %q at %s:%d: %s", e.Directive.Name, e.Directive.Origin.File, e.Directive.Origin.Line, e.Message)
}

// StatementExecutionError wraps any error raised by a processor's
// ExecuteStatement, carrying the final resolved text and statement origin.
type StatementExecutionError struct {
	Text  string
	File  string
	Line  int
	Cause error
}

func (e StatementExecutionError) Error() string {
	return fmt.Sprintf("%s:%d: statement execution failed: %v", e.File, e.Line, e.Cause)
}

func (e StatementExecutionError) Unwrap() error {
	return e.Cause
}
