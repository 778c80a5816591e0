// Package resolver implements script.ScriptResolver over an io/fs.FS, the
// generalization of the teacher's go/mapfs.MapFS virtual-filesystem pattern
// and cli/cmd/find.go's directory walk.
package resolver

import (
	"errors"
	"io/fs"
	"regexp"
	"strings"

	"github.com/vippsas/sqldirective/lexer"
	"github.com/vippsas/sqldirective/script"
)

// FileSystemResolver resolves a script name to the contents of a file with
// that name under Root. Root is typically an os.DirFS rooted at a scripts
// directory, or an in-memory fstest.MapFS in tests.
type FileSystemResolver struct {
	Root fs.FS
}

func (r FileSystemResolver) Resolve(name string) (*script.ScriptSource, error) {
	data, err := fs.ReadFile(r.Root, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	source := string(data)
	return &script.ScriptSource{
		Source:      source,
		DisplayName: name,
		Terminator:  DetectTerminator(source),
	}, nil
}

// FindScripts walks root and returns every path with a .sql extension,
// generalizing cli/cmd/find.go's directory walk beyond its single
// hardcoded "[code]" marker.
func FindScripts(root fs.FS) ([]string, error) {
	var out []string
	err := fs.WalkDir(root, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".sql") {
			out = append(out, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// terminatorDirective matches a leading `-- #Terminator: value` line
// without running the full lexer/parser, which themselves require the
// terminator to already be known.
var terminatorDirective = regexp.MustCompile(`(?m)^--\s*#Terminator\s*:\s*([^\r\n]+)$`)

// DetectTerminator scans source for a `-- #Terminator: value` override
// line and returns the quoted or bare value found, or "" (meaning
// lexer.DefaultTerminator) if none is present. value is trimmed of
// surrounding whitespace and a single layer of matching quotes.
func DetectTerminator(source string) string {
	m := terminatorDirective.FindStringSubmatch(source)
	if m == nil {
		return ""
	}
	value := strings.TrimSpace(m[1])
	value = strings.TrimSuffix(value, ",")
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		if (value[0] == '\'' && value[len(value)-1] == '\'') || (value[0] == '"' && value[len(value)-1] == '"') {
			value = value[1 : len(value)-1]
		}
	}
	if value == "" {
		return lexer.DefaultTerminator
	}
	return value
}
