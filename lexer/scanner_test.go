package lexer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vippsas/sqldirective/lexer"
)

func scanAll(t *testing.T, input, terminator string) []lexer.Token {
	t.Helper()
	s, err := lexer.NewScanner("test.sql", input, terminator)
	require.NoError(t, err)
	var out []lexer.Token
	for {
		tok, err := s.NextToken()
		require.NoError(t, err)
		out = append(out, tok)
		if tok.Kind == lexer.EndOfFile {
			return out
		}
	}
}

func kinds(toks []lexer.Token) []lexer.TokenType {
	result := make([]lexer.TokenType, len(toks))
	for i, t := range toks {
		result[i] = t.Kind
	}
	return result
}

func TestScanner_SimpleStatement(t *testing.T) {
	toks := scanAll(t, "SELECT 1;", ";")
	assert.Equal(t, []lexer.TokenType{
		lexer.Word, lexer.Whitespace, lexer.Word, lexer.StatementTerminator, lexer.EndOfFile,
	}, kinds(toks))
}

func TestScanner_LineCommentAndBlockComment(t *testing.T) {
	toks := scanAll(t, "-- hi\n/* ** */", ";")
	wantKinds := []lexer.TokenType{
		lexer.LineCommentStart, lexer.Whitespace, lexer.Word, lexer.EndOfLine,
		lexer.BlockStart, lexer.Whitespace, lexer.DoubleStar, lexer.Whitespace, lexer.BlockStop,
		lexer.EndOfFile,
	}
	assert.Equal(t, wantKinds, kinds(toks))
}

func TestScanner_MultiCharTerminatorPartialMatch(t *testing.T) {
	// terminator "GO" (no significant chars); input has partial "G" followed
	// by a letter that breaks the match, so it must fall back to a Word.
	toks := scanAll(t, "Gx GO", "GO")
	require.Len(t, toks, 5)
	assert.Equal(t, lexer.Word, toks[0].Kind)
	assert.Equal(t, "G", toks[0].Raw)
	assert.Equal(t, lexer.Word, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Raw)
	assert.Equal(t, lexer.Whitespace, toks[2].Kind)
	assert.Equal(t, lexer.StatementTerminator, toks[3].Kind)
}

func TestScanner_SingleQuotedStringWithBackslashEscape(t *testing.T) {
	toks := scanAll(t, `'it\'s'`, ";")
	require.Len(t, toks, 2)
	require.Equal(t, lexer.SingleQuoted, toks[0].Kind)
	assert.Equal(t, "it's", toks[0].Value)
}

func TestScanner_UnterminatedString(t *testing.T) {
	s, err := lexer.NewScanner("test.sql", "SELECT 'abc", ";")
	require.NoError(t, err)

	_, err = s.NextToken() // Word "SELECT"
	require.NoError(t, err)
	_, err = s.NextToken() // Whitespace
	require.NoError(t, err)
	_, err = s.NextToken() // the unterminated quote
	require.Error(t, err)

	synErr, ok := err.(lexer.SyntaxError)
	require.True(t, ok)
	assert.Equal(t, 1, synErr.Line)
	assert.Equal(t, 8, synErr.Col)
}

func TestScanner_UnterminatedStringBareNewline(t *testing.T) {
	s, err := lexer.NewScanner("test.sql", "'abc\ndef'", ";")
	require.NoError(t, err)
	_, err = s.NextToken()
	require.Error(t, err)
}

func TestScanner_TripleQuotedMultiline(t *testing.T) {
	toks := scanAll(t, "\"\"\"line1\nline2\"\"\"", ";")
	require.Len(t, toks, 2)
	require.Equal(t, lexer.MultilineQuoted, toks[0].Kind)
	assert.Equal(t, "line1\nline2", toks[0].Value)
}

func TestScanner_TripleQuotedDoubledQuoteEscape(t *testing.T) {
	toks := scanAll(t, `'''it''s'''`, ";")
	require.Len(t, toks, 2)
	require.Equal(t, lexer.MultilineQuoted, toks[0].Kind)
	assert.Equal(t, "it's", toks[0].Value)
}

func TestScanner_FilterWhitespace(t *testing.T) {
	s, err := lexer.NewScanner("test.sql", "a  b", ";")
	require.NoError(t, err)
	s.SetFilterWhitespace(true)

	tok1, err := s.NextToken()
	require.NoError(t, err)
	assert.Equal(t, lexer.Word, tok1.Kind)
	assert.Equal(t, "a", tok1.Raw)

	tok2, err := s.NextToken()
	require.NoError(t, err)
	assert.Equal(t, lexer.Word, tok2.Kind)
	assert.Equal(t, "b", tok2.Raw)
}

func TestScanner_RejectsTerminatorWithSignificantChar(t *testing.T) {
	_, err := lexer.NewScanner("test.sql", "", "#")
	require.Error(t, err)
}

func TestScanner_IsIdentifierRune(t *testing.T) {
	assert.True(t, lexer.IsIdentifierRune('a'))
	assert.True(t, lexer.IsIdentifierRune('_'))
	assert.False(t, lexer.IsIdentifierRune(' '))
}
