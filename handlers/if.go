// Package handlers holds the individual dispatch.Handler bodies: the glue
// that interprets specific directive names and is consumed by
// dispatch.Composite.
package handlers

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/dispatch"
)

// PropertiesAccessor resolves a named property to a string, the way an
// IfHandler decides whether its branch is active.
type PropertiesAccessor interface {
	GetProperty(name string) (string, bool)
}

// EnvProperties is a PropertiesAccessor backed by the process environment.
type EnvProperties struct{}

func (EnvProperties) GetProperty(name string) (string, bool) {
	return os.LookupEnv(name)
}

// IfHandlerConfig is the per-handler config shape IfHandler expects from
// dispatch.Composite's HandlerConfig map.
type IfHandlerConfig struct {
	Properties   PropertiesAccessor
	DeferRuntime bool
}

// IfHandler implements `-- #If: property, replacementText` conditional
// inclusion: when property evaluates to "true" the placeholder is replaced
// by replacementText, otherwise it is dropped. With DeferRuntime set, the
// decision is re-made on every execution instead of once at compile time.
type IfHandler struct {
	Properties   PropertiesAccessor
	DeferRuntime bool
}

func (h *IfHandler) Identity() string { return "If" }

func (h *IfHandler) InitProcessor(ctx *dispatch.Context, config any, logger logrus.FieldLogger) error {
	if cfg, ok := config.(IfHandlerConfig); ok {
		h.DeferRuntime = cfg.DeferRuntime
		if cfg.Properties != nil {
			h.Properties = cfg.Properties
		}
	}
	if h.Properties == nil {
		h.Properties = EnvProperties{}
	}
	return nil
}

func (h *IfHandler) InitDirective(ctx *dispatch.Context, d directive.Directive) (*directive.Initialization, error) {
	if d.Name != "If" {
		return nil, nil
	}
	if h.DeferRuntime {
		return &directive.Initialization{Action: directive.DeferSetup}, nil
	}
	return h.resolve(d)
}

func (h *IfHandler) SetupDirective(ctx *dispatch.Context, d directive.Directive, state any) (*directive.Initialization, error) {
	if d.Name != "If" {
		return nil, dispatch.ErrUnrecognized
	}
	return h.resolve(d)
}

func (h *IfHandler) resolve(d directive.Directive) (*directive.Initialization, error) {
	if len(d.Arguments) != 2 {
		return nil, fmt.Errorf("If directive at %s:%d requires exactly 2 arguments (property, replacement)", d.Origin.File, d.Origin.Line)
	}
	property, replacement := d.Arguments[0], d.Arguments[1]
	value, _ := h.Properties.GetProperty(property)
	if value == "true" {
		return &directive.Initialization{Action: directive.ReplaceText | directive.NoStore, ReplacementText: replacement}, nil
	}
	return &directive.Initialization{Action: directive.NoStore}, nil
}

// TryExecute never claims anything: If always resolves with NoStore, so its
// directive never survives into the stored list ExecuteStatement sees.
func (h *IfHandler) TryExecute(ctx *dispatch.Context, text string, d directive.Directive, state any) (bool, error) {
	return false, nil
}
