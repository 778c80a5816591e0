package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/dispatch"
)

// ColumnSpec describes one column of a LoadTable directive's target table,
// parsed from a "name, Type[, Size]" argument string (Scenario C).
type ColumnSpec struct {
	Name string
	Type string
	Size int // 0 means unspecified
}

func parseColumnSpec(raw string) (ColumnSpec, error) {
	parts := strings.Split(raw, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) < 2 {
		return ColumnSpec{}, fmt.Errorf("column spec %q must be \"name, Type[, Size]\"", raw)
	}
	spec := ColumnSpec{Name: parts[0], Type: parts[1]}
	if len(parts) >= 3 {
		size, err := strconv.Atoi(parts[2])
		if err != nil {
			return ColumnSpec{}, fmt.Errorf("column spec %q has a non-numeric size: %w", raw, err)
		}
		spec.Size = size
	}
	return spec, nil
}

// LoadTableState is the carried state a LoadTableHandler stores for its
// directive: the parsed table name, whether to truncate first, and the
// column layout.
type LoadTableState struct {
	TableName     string
	TruncateFirst bool
	Columns       []ColumnSpec
}

func parseLoadTableArgs(d directive.Directive) (LoadTableState, error) {
	if len(d.Arguments) < 2 {
		return LoadTableState{}, fmt.Errorf("LoadTable directive at %s:%d requires at least a table name and truncateFirst flag", d.Origin.File, d.Origin.Line)
	}
	truncate, err := strconv.ParseBool(d.Arguments[1])
	if err != nil {
		return LoadTableState{}, fmt.Errorf("LoadTable directive at %s:%d: truncateFirst must be a bool: %w", d.Origin.File, d.Origin.Line, err)
	}
	state := LoadTableState{TableName: d.Arguments[0], TruncateFirst: truncate}
	for _, raw := range d.Arguments[2:] {
		col, err := parseColumnSpec(raw)
		if err != nil {
			return LoadTableState{}, fmt.Errorf("LoadTable directive at %s:%d: %w", d.Origin.File, d.Origin.Line, err)
		}
		state.Columns = append(state.Columns, col)
	}
	return state, nil
}

// LoadTableHandlerConfig supplies the sqlx handle LoadTableHandler batches
// inserts through.
type LoadTableHandlerConfig struct {
	DB *sqlx.DB
}

// LoadTableHandler implements `/* ** #LoadTable: name, truncateFirst,
// "col, Type[, Size]", ... */`: it optionally truncates the target table,
// then executes the statement's own text once through sqlx NamedExec with
// an empty argument map. No row data is bound: text containing named
// parameters fails to bind, so the statement must carry its own values.
// The column specs are parsed into LoadTableState but not used when
// executing.
type LoadTableHandler struct {
	DB *sqlx.DB
}

func (h *LoadTableHandler) Identity() string { return "LoadTable" }

func (h *LoadTableHandler) InitProcessor(ctx *dispatch.Context, config any, logger logrus.FieldLogger) error {
	if cfg, ok := config.(LoadTableHandlerConfig); ok && cfg.DB != nil {
		h.DB = cfg.DB
	}
	return nil
}

func (h *LoadTableHandler) InitDirective(ctx *dispatch.Context, d directive.Directive) (*directive.Initialization, error) {
	if d.Name != "LoadTable" {
		return nil, nil
	}
	state, err := parseLoadTableArgs(d)
	if err != nil {
		return nil, err
	}
	return &directive.Initialization{Action: directive.Default, State: state}, nil
}

func (h *LoadTableHandler) SetupDirective(ctx *dispatch.Context, d directive.Directive, state any) (*directive.Initialization, error) {
	return nil, dispatch.ErrUnrecognized
}

func (h *LoadTableHandler) TryExecute(ctx *dispatch.Context, text string, d directive.Directive, state any) (bool, error) {
	if d.Name != "LoadTable" {
		return false, nil
	}
	lts, ok := state.(LoadTableState)
	if !ok {
		return true, fmt.Errorf("LoadTable directive carried unexpected state type %T", state)
	}
	if h.DB == nil {
		return true, fmt.Errorf("LoadTableHandler has no database handle for table %q", lts.TableName)
	}
	if lts.TruncateFirst {
		if _, err := h.DB.Exec("TRUNCATE TABLE " + lts.TableName); err != nil {
			return true, fmt.Errorf("truncating %q: %w", lts.TableName, err)
		}
	}
	if _, err := h.DB.NamedExec(text, map[string]any{}); err != nil {
		return true, fmt.Errorf("loading %q: %w", lts.TableName, err)
	}
	return true, nil
}
