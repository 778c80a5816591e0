// Package idgen generates opaque placeholder ids for package parser.
//
// The id scheme must be (a) collision-free within a script, (b) match a
// single unambiguous regex (placeholder.Pattern), and (c) be unable to
// occur naturally in SQL source. We use a dashed UUIDv4 with the dashes
// stripped, the same library and technique the teacher uses to generate
// unique per-run database names in sqltest/fixture.go.
package idgen

import "github.com/gofrs/uuid"

// New returns a fresh, collision-free opaque id (without surrounding
// braces). Panics only if the platform's CSPRNG is unavailable, mirroring
// the teacher's own use of uuid.Must.
func New() string {
	id := uuid.Must(uuid.NewV4())
	hex := id.String()
	out := make([]byte, 0, len(hex))
	for _, c := range hex {
		if c == '-' {
			continue
		}
		out = append(out, byte(c))
	}
	return string(out)
}
