package parser_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/lexer"
	"github.com/vippsas/sqldirective/parser"
)

func onlyDirective(t *testing.T, stmt directive.Statement) directive.Directive {
	t.Helper()
	require.Len(t, stmt.Directives, 1)
	for _, d := range stmt.Directives {
		return d
	}
	panic("unreachable")
}

func TestParse_PlainStatementNoDirectives(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT 1;", stmts[0].Text)
	assert.Empty(t, stmts[0].Directives)
	assert.Equal(t, 1, stmts[0].Origin.Line)
}

func TestParse_MultipleStatementsSplitOnTerminator(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1; SELECT 2;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
	assert.Equal(t, "SELECT 1;", stmts[0].Text)
	assert.Equal(t, "SELECT 2;", stmts[1].Text)
}

func TestParse_EmptyStatementsAreSkipped(t *testing.T) {
	stmts, err := parser.Parse("test.sql", ";;SELECT 1;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT 1;", stmts[0].Text)
}

func TestParse_TrailingStatementWithoutTerminatorIsEmitted(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT 1", stmts[0].Text)
}

func TestParse_WhitespaceRunsCollapseToSingleSpace(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT   1,\n\t2;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, "SELECT 1, 2;", stmts[0].Text)
}

func TestParse_LineDirectiveNoArgs(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1 -- #Skip\n;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	d := onlyDirective(t, stmts[0])
	assert.Equal(t, "Skip", d.Name)
	assert.Empty(t, d.Arguments)
	assert.Contains(t, stmts[0].Text, "SELECT 1 {")
}

func TestParse_LineDirectiveWithArgs(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1 -- #If: flag, 'literal value'\n;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	d := onlyDirective(t, stmts[0])
	assert.Equal(t, "If", d.Name)
	assert.Equal(t, []string{"flag", "literal value"}, d.Arguments)
}

func TestParse_OrdinaryLineCommentIsDiscardedNotEmittedAsDirective(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1 -- just a comment\n;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Empty(t, stmts[0].Directives)
	assert.Equal(t, "SELECT 1 ;", stmts[0].Text)
}

func TestParse_BlockDirectiveWithArgs(t *testing.T) {
	stmts, err := parser.Parse("test.sql", `CREATE TABLE t (x int) /* ** #LoadTable: t, true, "x int" */;`, ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	d := onlyDirective(t, stmts[0])
	assert.Equal(t, "LoadTable", d.Name)
	assert.Equal(t, []string{"t", "true", "x int"}, d.Arguments)
}

func TestParse_OrdinaryBlockCommentIsDiscarded(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1 /* not a directive */;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Empty(t, stmts[0].Directives)
	assert.Equal(t, "SELECT 1 ;", stmts[0].Text)
}

func TestParse_BlockDirectiveAllowsLeadingEOLs(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1 /*\n\n** #Skip\n*/;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	d := onlyDirective(t, stmts[0])
	assert.Equal(t, "Skip", d.Name)
}

func TestParse_BlockDirectiveMultilineArgument(t *testing.T) {
	src := "CALL x /* ** #Callback: onRow, \"\"\"\nrow.A = 1\nrow.B = 2\n\"\"\" */;"
	stmts, err := parser.Parse("test.sql", src, ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	d := onlyDirective(t, stmts[0])
	assert.Equal(t, "Callback", d.Name)
	require.Len(t, d.Arguments, 2)
	assert.Equal(t, "onRow", d.Arguments[0])
	assert.Equal(t, "\nrow.A = 1\nrow.B = 2\n", d.Arguments[1])
}

func TestParse_BlockDirectiveHashPrefixedArgument(t *testing.T) {
	stmts, err := parser.Parse("test.sql", `SELECT 1 /* ** #Tag: #special */;`, ";")
	require.NoError(t, err)
	d := onlyDirective(t, stmts[0])
	assert.Equal(t, []string{"#special"}, d.Arguments)
}

func TestParse_LineDirectiveRejectsMultilineArgument(t *testing.T) {
	src := "SELECT 1 -- #Callback: \"\"\"\nbody\n\"\"\"\n;"
	_, err := parser.Parse("test.sql", src, ";")
	require.Error(t, err)
	_, ok := err.(lexer.SyntaxError)
	assert.True(t, ok)
}

func TestParse_UnterminatedBlockDirectiveIsSyntaxError(t *testing.T) {
	_, err := parser.Parse("test.sql", "SELECT 1 /* ** #Skip", ";")
	require.Error(t, err)
}

func TestParse_HashWithoutNameFallsBackToOrdinaryComment(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1 -- #\n;", ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Empty(t, stmts[0].Directives)
}

func TestParse_ColonWithoutArgumentIsSyntaxError(t *testing.T) {
	_, err := parser.Parse("test.sql", "SELECT 1 -- #Tag:\n;", ";")
	require.Error(t, err)
	_, ok := err.(lexer.SyntaxError)
	assert.True(t, ok)
}

func TestParse_OriginLineIsFirstOrdinaryTokenNotDirectiveLine(t *testing.T) {
	src := "-- #Skip\nSELECT 1;"
	stmts, err := parser.Parse("test.sql", src, ";")
	require.NoError(t, err)
	require.Len(t, stmts, 1)
	assert.Equal(t, 2, stmts[0].Origin.Line)
}

func TestParse_MultiCharTerminator(t *testing.T) {
	stmts, err := parser.Parse("test.sql", "SELECT 1\nGO\nSELECT 2\nGO", "GO")
	require.NoError(t, err)
	require.Len(t, stmts, 2)
}

// TestParse_SnapshotsStatementShape pins the rewritten text and extracted
// directive name/arguments for a multi-statement, multi-directive script,
// so a change to the compiler's text-rebuilding or directive-extraction
// logic shows up as a snapshot diff instead of silently changing output
// shape. Directive placeholder ids are opaque and regenerated every parse,
// so they are deliberately excluded from the snapshotted value.
func TestParse_SnapshotsStatementShape(t *testing.T) {
	src := "SELECT 1 -- #Tag: a, b\n;\n/* ** #Other: x */\nSELECT 2;"
	stmts, err := parser.Parse("snapshot.sql", src, ";")
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	for i, stmt := range stmts {
		require.Len(t, stmt.Directives, 1)
		var id string
		var d directive.Directive
		for k, v := range stmt.Directives {
			id, d = k, v
		}
		normalizedText := strings.Replace(stmt.Text, "{"+id+"}", "{ID}", 1)
		snaps.MatchSnapshot(t, fmt.Sprintf("statement_%d", i), normalizedText, d.Name, d.Arguments)
	}
}
