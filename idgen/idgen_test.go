package idgen_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vippsas/sqldirective/idgen"
	"github.com/vippsas/sqldirective/placeholder"
)

func TestNew_MatchesPlaceholderPattern(t *testing.T) {
	id := idgen.New()
	assert.Regexp(t, placeholder.Pattern, "{"+id+"}")
	assert.NotContains(t, id, "-")
}

func TestNew_IsCollisionFreeAcrossCalls(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := idgen.New()
		assert.False(t, seen[id], "duplicate id generated: %s", id)
		seen[id] = true
	}
}
