// Package parser converts a lexer token stream into an ordered list of
// directive.Statement values, extracting embedded directives from comments
// and replacing them with opaque placeholder markers in the statement text.
package parser

import (
	"strings"

	"github.com/vippsas/sqldirective/directive"
	"github.com/vippsas/sqldirective/idgen"
	"github.com/vippsas/sqldirective/lexer"
)

// Parse tokenizes source (from file, using terminator as the statement
// terminator) and returns the ordered statements it contains.
func Parse(file, source, terminator string) ([]directive.Statement, error) {
	sc, err := lexer.NewScanner(file, source, terminator)
	if err != nil {
		return nil, err
	}
	p := &parser{scanner: sc, file: file}

	var statements []directive.Statement
	for {
		stmt, atEOF, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if stmt != nil {
			statements = append(statements, *stmt)
		}
		if atEOF {
			return statements, nil
		}
	}
}

type parser struct {
	scanner *lexer.Scanner
	file    string
	peeked  *lexer.Token
}

func (p *parser) next() (lexer.Token, error) {
	if p.peeked != nil {
		t := *p.peeked
		p.peeked = nil
		return t, nil
	}
	return p.scanner.NextToken()
}

func (p *parser) peek() (lexer.Token, error) {
	if p.peeked == nil {
		t, err := p.scanner.NextToken()
		if err != nil {
			return lexer.Token{}, err
		}
		p.peeked = &t
	}
	return *p.peeked, nil
}

// parseStatement accumulates tokens until a StatementTerminator or EOF.
// It returns (nil, false, nil) for an empty statement that was terminated
// (e.g. a stray ";" or a comment-only line), so the caller keeps parsing.
func (p *parser) parseStatement() (*directive.Statement, bool, error) {
	var text strings.Builder
	placeholders := map[string]directive.Directive{}

	started := false
	pendingSpace := false
	firstOrdinaryLine := 0
	firstDirectiveLine := 0

	emitDirective := func(d directive.Directive) {
		if pendingSpace && started {
			text.WriteByte(' ')
		}
		pendingSpace = false
		if !started {
			started = true
		}
		if firstDirectiveLine == 0 {
			firstDirectiveLine = d.Origin.Line
		}
		id := idgen.New()
		placeholders[id] = d
		text.WriteString("{" + id + "} ")
	}

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, false, err
		}

		switch tok.Kind {
		case lexer.EndOfFile:
			if _, err := p.next(); err != nil {
				return nil, false, err
			}
			if !started {
				return nil, true, nil
			}
			return finishStatement(p.file, text.String(), placeholders, firstOrdinaryLine, firstDirectiveLine), true, nil

		case lexer.StatementTerminator:
			if _, err := p.next(); err != nil {
				return nil, false, err
			}
			if !started {
				return nil, false, nil
			}
			if pendingSpace {
				text.WriteByte(' ')
				pendingSpace = false
			}
			text.WriteString(tok.Raw)
			return finishStatement(p.file, text.String(), placeholders, firstOrdinaryLine, firstDirectiveLine), false, nil

		case lexer.Whitespace, lexer.EndOfLine:
			if _, err := p.next(); err != nil {
				return nil, false, err
			}
			if started {
				pendingSpace = true
			}

		case lexer.LineCommentStart:
			if _, err := p.next(); err != nil {
				return nil, false, err
			}
			d, isDirective, err := p.tryParseLineDirective()
			if err != nil {
				return nil, false, err
			}
			if isDirective {
				emitDirective(d)
			} else if started {
				pendingSpace = true
			}

		case lexer.BlockStart:
			if _, err := p.next(); err != nil {
				return nil, false, err
			}
			d, isDirective, err := p.tryParseBlockDirective()
			if err != nil {
				return nil, false, err
			}
			if isDirective {
				emitDirective(d)
			} else if started {
				pendingSpace = true
			}

		default:
			if _, err := p.next(); err != nil {
				return nil, false, err
			}
			if !started {
				started = true
			}
			if firstOrdinaryLine == 0 {
				firstOrdinaryLine = tok.Start.Line
			}
			if pendingSpace {
				text.WriteByte(' ')
				pendingSpace = false
			}
			text.WriteString(tok.Raw)
		}
	}
}

func finishStatement(file, text string, placeholders map[string]directive.Directive, firstOrdinaryLine, firstDirectiveLine int) *directive.Statement {
	line := firstOrdinaryLine
	if line == 0 {
		line = firstDirectiveLine
	}
	return &directive.Statement{
		Text:       text,
		Origin:     directive.Origin{File: file, Line: line},
		Directives: placeholders,
	}
}

// tryParseLineDirective is called immediately after consuming the
// triggering LineCommentStart token. It recognizes:
//
//	LineCommentStart, Hash, Word (name), [Colon, arg (, arg)*]?, EndOfLine
//
// If the shape doesn't match (no Hash, or Hash not immediately followed by
// a Word), the whole line is treated as an ordinary comment: remaining
// tokens are consumed through EndOfLine/EOF and (false, nil) is returned.
// Once the Hash+Word(name) shape is matched, any further grammar violation
// is a hard SyntaxError.
func (p *parser) tryParseLineDirective() (directive.Directive, bool, error) {
	p.scanner.SetFilterWhitespace(true)
	defer p.scanner.SetFilterWhitespace(false)

	tok1, err := p.peek()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok1.Kind != lexer.Hash {
		if err := p.consumeThroughEOL(); err != nil {
			return directive.Directive{}, false, err
		}
		return directive.Directive{}, false, nil
	}
	if _, err := p.next(); err != nil { // consume Hash
		return directive.Directive{}, false, err
	}

	tok2, err := p.peek()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok2.Kind != lexer.Word {
		if err := p.consumeThroughEOL(); err != nil {
			return directive.Directive{}, false, err
		}
		return directive.Directive{}, false, nil
	}
	if _, err := p.next(); err != nil { // consume name
		return directive.Directive{}, false, err
	}

	name := tok2.Raw
	origin := directive.FromPos(tok2.Start)

	var args []string
	tok3, err := p.peek()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok3.Kind == lexer.Colon {
		if _, err := p.next(); err != nil {
			return directive.Directive{}, false, err
		}
		args, err = p.parseArgList(false)
		if err != nil {
			return directive.Directive{}, false, err
		}
	}

	tok4, err := p.next()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok4.Kind != lexer.EndOfLine && tok4.Kind != lexer.EndOfFile {
		return directive.Directive{}, false, lexer.SyntaxError{
			File: tok4.Start.File, Line: tok4.Start.Line, Col: tok4.Start.Col,
			Message: "expected end of line after directive",
		}
	}

	return directive.Directive{Name: name, Arguments: args, Origin: origin}, true, nil
}

// tryParseBlockDirective is called immediately after consuming the
// triggering BlockStart token. It recognizes:
//
//	BlockStart, (EOL*), DoubleStar, (EOL*), Hash, Word (name),
//	[Colon, arg (, arg)*]?, BlockStop
//
// Non-matching block comments are consumed through BlockStop/EOF (EOF
// inside a block comment is a SyntaxError); once DoubleStar+Hash have been
// matched, any further violation is a hard SyntaxError.
func (p *parser) tryParseBlockDirective() (directive.Directive, bool, error) {
	p.scanner.SetFilterWhitespace(true)
	defer p.scanner.SetFilterWhitespace(false)

	if err := p.skipEOLs(); err != nil {
		return directive.Directive{}, false, err
	}
	tok1, err := p.peek()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok1.Kind != lexer.DoubleStar {
		if err := p.consumeBlockCommentRemainder(); err != nil {
			return directive.Directive{}, false, err
		}
		return directive.Directive{}, false, nil
	}
	if _, err := p.next(); err != nil {
		return directive.Directive{}, false, err
	}

	if err := p.skipEOLs(); err != nil {
		return directive.Directive{}, false, err
	}
	tok2, err := p.peek()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok2.Kind != lexer.Hash {
		if err := p.consumeBlockCommentRemainder(); err != nil {
			return directive.Directive{}, false, err
		}
		return directive.Directive{}, false, nil
	}
	if _, err := p.next(); err != nil {
		return directive.Directive{}, false, err
	}

	tok3, err := p.next()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok3.Kind != lexer.Word {
		return directive.Directive{}, false, lexer.SyntaxError{
			File: tok3.Start.File, Line: tok3.Start.Line, Col: tok3.Start.Col,
			Message: "expected directive name",
		}
	}
	name := tok3.Raw
	origin := directive.FromPos(tok3.Start)

	var args []string
	tok4, err := p.peek()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok4.Kind == lexer.Colon {
		if _, err := p.next(); err != nil {
			return directive.Directive{}, false, err
		}
		args, err = p.parseArgList(true)
		if err != nil {
			return directive.Directive{}, false, err
		}
	}

	if err := p.skipEOLs(); err != nil {
		return directive.Directive{}, false, err
	}
	tok5, err := p.next()
	if err != nil {
		return directive.Directive{}, false, err
	}
	if tok5.Kind != lexer.BlockStop {
		return directive.Directive{}, false, lexer.SyntaxError{
			File: tok5.Start.File, Line: tok5.Start.Line, Col: tok5.Start.Col,
			Message: "expected */ to close directive",
		}
	}

	return directive.Directive{Name: name, Arguments: args, Origin: origin}, true, nil
}

type argState int

const (
	expectArg argState = iota
	expectCommaOrEnd
)

// parseArgList parses a comma-separated argument list (the parser is
// positioned right after the leading Colon). It does not consume the
// terminating token (EndOfLine or BlockStop): callers peek it afterwards.
// allowExtended enables MultilineQuoted values and the Hash-prefix form,
// both block-directive-only per spec.
func (p *parser) parseArgList(allowExtended bool) ([]string, error) {
	var args []string
	state := expectArg

	for {
		tok, err := p.peek()
		if err != nil {
			return nil, err
		}

		switch state {
		case expectArg:
			switch tok.Kind {
			case lexer.Word:
				p.next()
				args = append(args, tok.Raw)
				state = expectCommaOrEnd
			case lexer.SingleQuoted, lexer.DoubleQuoted:
				p.next()
				args = append(args, tok.Value)
				state = expectCommaOrEnd
			case lexer.MultilineQuoted:
				if !allowExtended {
					return nil, lexer.SyntaxError{File: tok.Start.File, Line: tok.Start.Line, Col: tok.Start.Col, Message: "multiline argument not allowed here"}
				}
				p.next()
				args = append(args, tok.Value)
				state = expectCommaOrEnd
			case lexer.Hash:
				if !allowExtended {
					return nil, lexer.SyntaxError{File: tok.Start.File, Line: tok.Start.Line, Col: tok.Start.Col, Message: "unexpected '#' in argument list"}
				}
				p.next()
				tok2, err := p.next()
				if err != nil {
					return nil, err
				}
				switch tok2.Kind {
				case lexer.Word:
					args = append(args, "#"+tok2.Raw)
				case lexer.SingleQuoted, lexer.DoubleQuoted, lexer.MultilineQuoted:
					args = append(args, "#"+tok2.Value)
				default:
					return nil, lexer.SyntaxError{File: tok2.Start.File, Line: tok2.Start.Line, Col: tok2.Start.Col, Message: "expected value after '#'"}
				}
				state = expectCommaOrEnd
			default:
				return nil, lexer.SyntaxError{File: tok.Start.File, Line: tok.Start.Line, Col: tok.Start.Col, Message: "expected argument"}
			}

		case expectCommaOrEnd:
			if tok.Kind == lexer.Comma {
				p.next()
				state = expectArg
				continue
			}
			return args, nil
		}
	}
}

func (p *parser) skipEOLs() error {
	for {
		tok, err := p.peek()
		if err != nil {
			return err
		}
		if tok.Kind != lexer.EndOfLine {
			return nil
		}
		if _, err := p.next(); err != nil {
			return err
		}
	}
}

func (p *parser) consumeThroughEOL() error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.EndOfLine || tok.Kind == lexer.EndOfFile {
			return nil
		}
	}
}

func (p *parser) consumeBlockCommentRemainder() error {
	for {
		tok, err := p.next()
		if err != nil {
			return err
		}
		if tok.Kind == lexer.BlockStop {
			return nil
		}
		if tok.Kind == lexer.EndOfFile {
			return lexer.SyntaxError{File: tok.Start.File, Line: tok.Start.Line, Col: tok.Start.Col, Message: "unterminated block comment"}
		}
	}
}
