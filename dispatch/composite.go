// Package dispatch implements the composite processor: a script.Processor
// that fans each operation out over an ordered sequence of Handlers,
// stopping at the first one that claims the directive.
package dispatch

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/script"
)

// ErrUnrecognized is the "skip, not mine" signal a Handler's InitDirective
// or SetupDirective returns (alongside a nil *directive.Initialization) to
// mean "not implemented for this directive", as distinct from a genuine
// error. The Composite treats both a nil result and ErrUnrecognized as
// "try the next handler".
var ErrUnrecognized = errors.New("directive not recognized by this handler")

// Context is the shared state every Handler sees: database handles
// keyed by an arbitrary role name (e.g. "default", "audit"), a factory for
// building ad-hoc non-query commands, a logger, and a default timeout
// applied to the generic non-query command Composite runs when no handler
// claims a statement (handlers' own commands do not use it).
type Context struct {
	DB             map[string]*sql.DB
	CommandFactory func(ctx context.Context, db *sql.DB, text string) (sql.Result, error)
	Logger         logrus.FieldLogger
	DefaultTimeout time.Duration
}

// Handler recognizes a subset of directive names. Each of its four
// operations additionally receives the shared Context. InitDirective and
// SetupDirective signal "not mine" via (nil, nil) or (nil, ErrUnrecognized).
type Handler interface {
	InitProcessor(ctx *Context, config any, logger logrus.FieldLogger) error
	InitDirective(ctx *Context, d directive.Directive) (*directive.Initialization, error)
	SetupDirective(ctx *Context, d directive.Directive, state any) (*directive.Initialization, error)
	TryExecute(ctx *Context, text string, d directive.Directive, state any) (bool, error)
}

// Composite is a script.Processor that dispatches to an ordered list of
// Handlers, and falls back to running the statement as a generic
// non-query command when no handler claims any of its directives.
type Composite struct {
	Handlers []Handler
	Context  *Context

	// HandlerConfig is keyed by each handler's identity (directive.IdentityOf).
	HandlerConfig map[string]any
}

// NewComposite builds a Composite with an empty, ready-to-use Context.
func NewComposite(handlers ...Handler) *Composite {
	return &Composite{
		Handlers: handlers,
		Context:  &Context{DB: map[string]*sql.DB{}},
	}
}

// compositeConfig is the shape Composite itself expects from the Runner's
// GlobalConfig map: per-handler config plus context-level overrides.
type compositeConfig struct {
	HandlerConfig  map[string]any
	DefaultTimeout time.Duration
}

func (c *Composite) InitProcessor(config any, logger logrus.FieldLogger) error {
	if c.Context == nil {
		c.Context = &Context{DB: map[string]*sql.DB{}}
	}
	if c.Context.Logger == nil {
		c.Context.Logger = logger
	}

	var handlerConfig map[string]any
	if cfg, ok := config.(compositeConfig); ok {
		handlerConfig = cfg.HandlerConfig
		if cfg.DefaultTimeout > 0 {
			c.Context.DefaultTimeout = cfg.DefaultTimeout
		}
	}
	if handlerConfig == nil {
		handlerConfig = c.HandlerConfig
	}

	for _, h := range c.Handlers {
		var hc any
		if handlerConfig != nil {
			hc = handlerConfig[directive.IdentityOf(h)]
		}
		if err := h.InitProcessor(c.Context, hc, logger); err != nil {
			return err
		}
	}
	return nil
}

// InitDirective iterates the handlers in order, returning the first
// non-null result. A handler returning (nil, nil) or (nil, ErrUnrecognized)
// is treated as "skip"; any other error aborts the iteration.
func (c *Composite) InitDirective(d directive.Directive) (*directive.Initialization, error) {
	for _, h := range c.Handlers {
		init, err := h.InitDirective(c.Context, d)
		if err != nil && !errors.Is(err, ErrUnrecognized) {
			return nil, err
		}
		if init != nil {
			return init, nil
		}
	}
	return nil, script.UnrecognizedDirective{Directive: d}
}

// SetupDirective mirrors InitDirective, also treating ErrUnrecognized (or a
// nil result) from a handler as "skip". Exhausting the handlers without a
// claim is an InvalidDirective, not UnrecognizedDirective: by the time
// setup runs, some handler already claimed this directive at init time.
func (c *Composite) SetupDirective(d directive.Directive, state any) (*directive.Initialization, error) {
	for _, h := range c.Handlers {
		init, err := h.SetupDirective(c.Context, d, state)
		if err != nil && !errors.Is(err, ErrUnrecognized) {
			return nil, err
		}
		if init != nil {
			return init, nil
		}
	}
	return nil, script.InvalidDirective{Message: "no setup handler", Directive: d}
}

// ExecuteStatement offers text to every handler for every surviving
// directive; if nothing claims responsibility, it runs text as a generic
// non-query command through the shared Context's CommandFactory.
func (c *Composite) ExecuteStatement(text string, directives []script.DirectiveState) error {
	claimed := false
	for _, ds := range directives {
		for _, h := range c.Handlers {
			ok, err := h.TryExecute(c.Context, text, ds.Directive, ds.State)
			if err != nil {
				return err
			}
			if ok {
				claimed = true
				break
			}
		}
	}
	if claimed {
		return nil
	}
	return c.runGeneric(text)
}

func (c *Composite) runGeneric(text string) error {
	if c.Context == nil || c.Context.CommandFactory == nil || c.Context.DB == nil {
		return nil
	}
	db := c.Context.DB["default"]
	if db == nil {
		return nil
	}
	ctx := context.Background()
	if c.Context.DefaultTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Context.DefaultTimeout)
		defer cancel()
	}
	_, err := c.Context.CommandFactory(ctx, db, text)
	return err
}
