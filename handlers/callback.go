package handlers

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/dispatch"
)

// Callback is a registered Go function a script invokes by name through
// `/* ** #Callback: name, """ multiline body """ */` (Scenario F's
// multiline-argument form). body is the directive's second argument,
// verbatim (empty when absent); any further arguments are ignored.
type Callback func(ctx *dispatch.Context, body string) error

// CallbackHandlerConfig registers the named callbacks available to scripts.
type CallbackHandlerConfig struct {
	Callbacks map[string]Callback
}

type callbackState struct {
	name string
	body string
}

// CallbackHandler implements the `Callback` directive: it looks up a
// registered Go function by name at init time and invokes it with the
// directive's carried body at execute time.
type CallbackHandler struct {
	Callbacks map[string]Callback
}

func (h *CallbackHandler) Identity() string { return "Callback" }

func (h *CallbackHandler) InitProcessor(ctx *dispatch.Context, config any, logger logrus.FieldLogger) error {
	if cfg, ok := config.(CallbackHandlerConfig); ok && cfg.Callbacks != nil {
		h.Callbacks = cfg.Callbacks
	}
	return nil
}

func (h *CallbackHandler) InitDirective(ctx *dispatch.Context, d directive.Directive) (*directive.Initialization, error) {
	if d.Name != "Callback" {
		return nil, nil
	}
	if len(d.Arguments) < 1 {
		return nil, fmt.Errorf("Callback directive at %s:%d requires a callback name", d.Origin.File, d.Origin.Line)
	}
	name := d.Arguments[0]
	if _, ok := h.Callbacks[name]; !ok {
		return nil, fmt.Errorf("Callback directive at %s:%d: no callback registered as %q", d.Origin.File, d.Origin.Line, name)
	}
	var body string
	if len(d.Arguments) > 1 {
		body = d.Arguments[1]
	}
	return &directive.Initialization{Action: directive.Default, State: callbackState{name: name, body: body}}, nil
}

func (h *CallbackHandler) SetupDirective(ctx *dispatch.Context, d directive.Directive, state any) (*directive.Initialization, error) {
	return nil, dispatch.ErrUnrecognized
}

func (h *CallbackHandler) TryExecute(ctx *dispatch.Context, text string, d directive.Directive, state any) (bool, error) {
	if d.Name != "Callback" {
		return false, nil
	}
	cs, ok := state.(callbackState)
	if !ok {
		return true, fmt.Errorf("Callback directive carried unexpected state type %T", state)
	}
	fn := h.Callbacks[cs.name]
	if fn == nil {
		return true, fmt.Errorf("callback %q was deregistered after init", cs.name)
	}
	return true, fn(ctx, cs.body)
}
