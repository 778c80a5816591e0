// Package script owns the compiled-script cache and drives the
// init -> setup -> execute directive lifecycle over a Processor.
package script

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/lexer"
	"github.com/vippsas/sqldirective/parser"
	"github.com/vippsas/sqldirective/placeholder"
)

type cacheKey struct {
	scriptName        string
	processorIdentity string
}

// Runner is the compiler/executor described by the core: it resolves and
// parses scripts, drives each directive through a Processor exactly once
// per (script, processor-identity) pair, and caches the result for the
// remainder of the process.
//
// A cache entry is keyed only by (script name, processor identity) and is
// never invalidated or re-initialized when GlobalConfig or Logger change
// between calls: those are captured once, at compile time, for whichever
// processor identity compiles the entry first.
//
// Runner is not safe for concurrent use: ExecuteScript reads and writes the
// cache without locking, so calls on one Runner must be serialized, whether
// or not they name the same script. Distinct Runners share no state.
type Runner struct {
	Resolver     ScriptResolver
	GlobalConfig map[string]any // keyed by processor identity
	Logger       logrus.FieldLogger

	cache map[cacheKey][]directive.InitializedStatement
}

// NewRunner constructs a Runner. resolver and globalConfig may be nil;
// logger may be nil (handlers should tolerate a nil FieldLogger the way the
// teacher's dbops layer does).
func NewRunner(resolver ScriptResolver, globalConfig map[string]any, logger logrus.FieldLogger) *Runner {
	return &Runner{
		Resolver:     resolver,
		GlobalConfig: globalConfig,
		Logger:       logger,
		cache:        make(map[cacheKey][]directive.InitializedStatement),
	}
}

// ExecuteScript compiles name against processor's identity on first use
// (caching the result) and then executes every compiled statement in
// source order.
func (r *Runner) ExecuteScript(name string, processor Processor) error {
	identity := directive.IdentityOf(processor)
	key := cacheKey{scriptName: name, processorIdentity: identity}

	compiled, ok := r.cache[key]
	if !ok {
		var err error
		compiled, err = r.compile(name, processor)
		if err != nil {
			return err
		}
		r.cache[key] = compiled
	}

	for i := range compiled {
		if err := r.executeStatement(&compiled[i], processor); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) compile(name string, processor Processor) ([]directive.InitializedStatement, error) {
	identity := directive.IdentityOf(processor)

	var cfg any
	if r.GlobalConfig != nil {
		cfg = r.GlobalConfig[identity]
	}
	if err := processor.InitProcessor(cfg, r.Logger); err != nil {
		return nil, err
	}

	resolver := r.selectResolver(processor)
	src, err := resolver.Resolve(name)
	if err != nil {
		return nil, err
	}
	if src == nil {
		return nil, ScriptNotFound{Name: name}
	}

	terminator := src.Terminator
	if terminator == "" {
		terminator = lexer.DefaultTerminator
	}

	statements, err := parser.Parse(src.DisplayName, src.Source, terminator)
	if err != nil {
		return nil, err
	}

	compiled := make([]directive.InitializedStatement, 0, len(statements))
	for _, stmt := range statements {
		is, err := compileStatement(stmt, processor)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, *is)
	}
	return compiled, nil
}

func (r *Runner) selectResolver(processor Processor) ScriptResolver {
	if res, ok := processor.(ScriptResolver); ok {
		return res
	}
	if r.Resolver != nil {
		return r.Resolver
	}
	return fileResolver{}
}

// compileStatement drives InitDirective over stmt's placeholders in source
// order (the order placeholder.Substitute encounters them in stmt.Text,
// which is the order the parser wrote them), applying the action flags
// described in the core's compiler/executor design.
func compileStatement(stmt directive.Statement, processor Processor) (*directive.InitializedStatement, error) {
	var stored []directive.InitializedDirective
	deferred := map[string]directive.DeferredEntry{}
	var firstErr error

	text := placeholder.Substitute(stmt.Text, func(id string, out *strings.Builder) {
		if firstErr != nil {
			return
		}
		d, ok := stmt.Directives[id]
		if !ok {
			firstErr = InvalidDirective{Message: "placeholder has no recorded directive", Directive: directive.Directive{Name: id}}
			return
		}

		init, err := processor.InitDirective(d)
		if err != nil {
			firstErr = err
			return
		}
		if init == nil {
			firstErr = UnrecognizedDirective{Directive: d}
			return
		}
		if err := init.Validate(); err != nil {
			firstErr = err
			return
		}

		entry := directive.InitializedDirective{Directive: d, ID: id, State: init.State}

		switch {
		case init.Action.Has(directive.DeferSetup):
			// NoStore+DeferSetup was already rejected by Validate.
			out.WriteString("{" + id + "}")
			idx := len(stored)
			stored = append(stored, entry)
			deferred[id] = directive.DeferredEntry{Directive: entry, Index: idx}
		case init.Action.Has(directive.ReplaceText):
			out.WriteString(init.ReplacementText)
			if !init.Action.Has(directive.NoStore) {
				stored = append(stored, entry)
			}
		default:
			if !init.Action.Has(directive.NoStore) {
				stored = append(stored, entry)
			}
		}
	})
	if firstErr != nil {
		return nil, firstErr
	}

	return &directive.InitializedStatement{
		Text:       text,
		Directives: stored,
		Deferred:   deferred,
		Origin:     stmt.Origin,
	}, nil
}

// executeStatement obtains the final text and directive list for stmt --
// running the deferred-setup pass first when stmt has deferred directives
// -- and hands both to processor.ExecuteStatement.
func (r *Runner) executeStatement(stmt *directive.InitializedStatement, processor Processor) error {
	text := stmt.Text
	directives := stmt.Directives

	if len(stmt.Deferred) > 0 {
		var err error
		text, directives, err = runSetupPass(stmt, processor)
		if err != nil {
			return err
		}
	}

	states := make([]DirectiveState, len(directives))
	for i, d := range directives {
		states[i] = DirectiveState{Directive: d.Directive, State: d.State}
	}

	if err := processor.ExecuteStatement(text, states); err != nil {
		return StatementExecutionError{Text: text, File: stmt.Origin.File, Line: stmt.Origin.Line, Cause: err}
	}
	return nil
}

// runSetupPass re-walks stmt.Text (which still carries a `{id}` marker for
// every deferred directive), calling SetupDirective once per marker in
// source order. A directive's carried state in stmt.Directives is mutated
// in place for the next execution unless this round's result says NoStore,
// in which case the directive is simply excluded from this execution's
// directive list -- the stored slice itself, and the recorded Deferred
// indices, are left untouched.
func runSetupPass(stmt *directive.InitializedStatement, processor Processor) (string, []directive.InitializedDirective, error) {
	excluded := make(map[int]bool)
	var firstErr error

	text := placeholder.Substitute(stmt.Text, func(id string, out *strings.Builder) {
		if firstErr != nil {
			return
		}
		entry, ok := stmt.Deferred[id]
		if !ok {
			firstErr = InvalidDirective{Message: "deferred placeholder has no recorded entry", Directive: directive.Directive{Name: id}}
			return
		}
		current := &stmt.Directives[entry.Index]

		init, err := processor.SetupDirective(current.Directive, current.State)
		if err != nil {
			firstErr = err
			return
		}
		if init == nil {
			firstErr = InvalidDirective{Message: "SetupDirective returned no result", Directive: current.Directive}
			return
		}
		if err := init.Validate(); err != nil {
			firstErr = err
			return
		}

		if init.Action.Has(directive.ReplaceText) {
			out.WriteString(init.ReplacementText)
		}
		if init.Action.Has(directive.NoStore) {
			excluded[entry.Index] = true
		} else {
			current.State = init.State
		}
	})
	if firstErr != nil {
		return "", nil, firstErr
	}

	final := make([]directive.InitializedDirective, 0, len(stmt.Directives))
	for i, d := range stmt.Directives {
		if excluded[i] {
			continue
		}
		final = append(final, d)
	}
	return text, final, nil
}
