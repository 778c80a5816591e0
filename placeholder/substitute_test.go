package placeholder_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vippsas/sqldirective/placeholder"
)

func TestSubstitute_ReplacesEachPlaceholderOnce(t *testing.T) {
	text := "SELECT {abc123} FROM t WHERE x = {def456};"
	out := placeholder.Substitute(text, func(id string, out *strings.Builder) {
		out.WriteString("<" + id + ">")
	})
	assert.Equal(t, "SELECT <abc123> FROM t WHERE x = <def456>;", out)
}

func TestSubstitute_NoPlaceholdersIsIdentity(t *testing.T) {
	text := "SELECT 1;"
	out := placeholder.Substitute(text, func(id string, out *strings.Builder) {
		t.Fatal("callback should not be invoked")
	})
	assert.Equal(t, text, out)
}

func TestSubstitute_CallbackOutputIsNotRescanned(t *testing.T) {
	text := "{a}"
	out := placeholder.Substitute(text, func(id string, out *strings.Builder) {
		out.WriteString("{a}")
	})
	assert.Equal(t, "{a}", out)
}

func TestSubstitute_CallbackCanOmitReplacement(t *testing.T) {
	text := "x{a}y"
	out := placeholder.Substitute(text, func(id string, out *strings.Builder) {})
	assert.Equal(t, "xy", out)
}
