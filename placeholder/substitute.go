// Package placeholder implements the single-pass `{opaque-id}` text
// substitution mechanism shared by the compile and execute phases of
// package script.
package placeholder

import (
	"regexp"
	"strings"
)

// Pattern matches exactly the opaque-id shape produced by package parser
// (see idgen.New): a brace-delimited, dash-free, hex/alnum token.
var Pattern = regexp.MustCompile(`\{[0-9a-zA-Z_]+\}`)

// Callback is invoked once per placeholder match, in left-to-right order.
// id is the matched text with the surrounding braces stripped. The callback
// appends whatever replacement content it wants (possibly nothing) to out.
type Callback func(id string, out *strings.Builder)

// Substitute walks text once, invoking cb for every `{opaque-id}` match and
// appends pre-match text verbatim. There is no nested substitution: a
// callback's own writes to out are never rescanned for further matches.
func Substitute(text string, cb Callback) string {
	var out strings.Builder
	last := 0
	for _, loc := range Pattern.FindAllStringIndex(text, -1) {
		start, end := loc[0], loc[1]
		out.WriteString(text[last:start])
		id := text[start+1 : end-1]
		cb(id, &out)
		last = end
	}
	out.WriteString(text[last:])
	return out.String()
}
