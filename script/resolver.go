package script

import (
	"os"

	"github.com/vippsas/sqldirective/lexer"
)

// ScriptSource is what a ScriptResolver returns for a recognized name.
type ScriptSource struct {
	Source      string
	DisplayName string
	Terminator  string // empty means lexer.DefaultTerminator
}

// ScriptResolver maps a script name to its source text. A nil, nil return
// means "not found" and becomes ScriptNotFound at the Runner boundary.
type ScriptResolver interface {
	Resolve(name string) (*ScriptSource, error)
}

// fileResolver reads name directly off the filesystem; it is used when the
// processor does not implement ScriptResolver and no Resolver is configured.
// It is not consulted when one of those returns "not found".
type fileResolver struct{}

func (fileResolver) Resolve(name string) (*ScriptSource, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return &ScriptSource{Source: string(data), DisplayName: name, Terminator: lexer.DefaultTerminator}, nil
}
