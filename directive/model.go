// Package directive holds the value types shared by package parser (which
// produces them) and package script (which drives their init/setup/execute
// lifecycle).
package directive

import (
	"reflect"

	"github.com/vippsas/sqldirective/lexer"
)

// Origin locates a Directive or Statement in its source file.
type Origin struct {
	File string
	Line int
}

// Directive is a named annotation with an ordered argument list, extracted
// from a line or block comment. Immutable once parsed.
type Directive struct {
	Name      string
	Arguments []string
	Origin    Origin
}

// Statement is a parsed SQL statement whose text contains `{opaque-id}`
// placeholders wherever a directive occurred. Immutable once parsed.
type Statement struct {
	Text       string
	Origin     Origin
	Directives map[string]Directive // placeholder id -> Directive
}

// Action is a bitset describing what a processor wants done with a
// directive's initialization result.
type Action int

const (
	// Default stores the directive and carries its state forward with no
	// text substitution.
	Default Action = 0
	// NoStore discards the directive: it is not added to the statement's
	// stored directive list and its state is not carried forward.
	NoStore Action = 1 << iota
	// ReplaceText substitutes ReplacementText for the directive's
	// placeholder marker in the rewritten statement text.
	ReplaceText
	// DeferSetup re-emits the placeholder marker into the rewritten text
	// and arranges for SetupDirective to be invoked on every execution.
	DeferSetup
)

// Has reports whether flag is set in a.
func (a Action) Has(flag Action) bool {
	return a&flag != 0
}

// Initialization is the value a processor's InitDirective/SetupDirective
// returns to drive the compiler.
//
// NoStore and DeferSetup together are illegal; see Validate.
type Initialization struct {
	Action          Action
	ReplacementText string // used iff Action.Has(ReplaceText)
	State           any    // carried state, passed back on setup/execute
}

// Validate rejects the illegal NoStore+DeferSetup combination.
func (i Initialization) Validate() error {
	if i.Action.Has(NoStore) && i.Action.Has(DeferSetup) {
		return InvalidOperation{Message: "NoStore and DeferSetup cannot both be set"}
	}
	return nil
}

// InvalidOperation reports misuse of the Action flags.
type InvalidOperation struct {
	Message string
}

func (e InvalidOperation) Error() string {
	return "invalid operation: " + e.Message
}

// InitializedDirective pairs the original Directive with its opaque
// placeholder id and the carried state chosen by the processor at init time.
type InitializedDirective struct {
	Directive Directive
	ID        string
	State     any
}

// DeferredEntry locates a deferred directive within an InitializedStatement's
// stored directive list, for the setup pass.
type DeferredEntry struct {
	Directive InitializedDirective
	Index     int
}

// InitializedStatement is the cached, compiled form of a Statement: text
// after static ReplaceText substitutions (deferred directives' placeholders
// remain), the ordered list of stored directives (NoStore directives
// absent), and a map from placeholder id to the stored entry for any
// directive that requested DeferSetup.
type InitializedStatement struct {
	Text       string
	Directives []InitializedDirective
	Deferred   map[string]DeferredEntry
	Origin     Origin
}

// FromPos converts a lexer.Pos into an Origin.
func FromPos(p lexer.Pos) Origin {
	return Origin{File: p.File, Line: p.Line}
}

// Identity is the external identity-tag marker: a processor or handler that
// carries a stable identity implements this so it can be used as a cache or
// config-map key instead of falling back to its concrete type name.
type Identity interface {
	Identity() string
}

// IdentityOf returns v's explicit Identity if it has one, otherwise a stable
// token derived from its concrete type.
func IdentityOf(v any) string {
	if id, ok := v.(Identity); ok {
		return id.Identity()
	}
	return reflect.TypeOf(v).String()
}
