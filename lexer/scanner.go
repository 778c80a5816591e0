package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/smasher164/xid"
)

// Scanner is a character-stream tokenizer over a single source file.
//
// It honors a caller-configured, non-empty, significant-character-free
// statement terminator (default ";"), and supports a transparent
// whitespace-filtering mode used by the parser while it is scanning a
// directive header (see SetFilterWhitespace).
type Scanner struct {
	input      string
	file       string
	terminator string

	pos       int // byte offset of the next unconsumed rune
	line, col int // 1-indexed position of the next unconsumed rune

	filterWhitespace bool
}

// DefaultTerminator is used when NewScanner is given an empty terminator.
const DefaultTerminator = ";"

// significantChars are reserved by the lexer; they always end a Word
// token and are scanned on their own. '/', '*' and '-' come back as
// single-character Word tokens when they do not begin a two-character token.
const significantChars = ",#/*'\"-:"

// NewScanner creates a Scanner positioned at the start of input. terminator
// is the caller-chosen statement terminator; an empty string selects
// DefaultTerminator.
func NewScanner(file, input, terminator string) (*Scanner, error) {
	if terminator == "" {
		terminator = DefaultTerminator
	}
	for _, r := range terminator {
		if strings.ContainsRune(significantChars, r) || unicode.IsSpace(r) {
			return nil, SyntaxError{
				File:    file,
				Line:    1,
				Col:     1,
				Message: "statement terminator must not contain significant or whitespace characters",
			}
		}
	}
	return &Scanner{
		input:      input,
		file:       file,
		terminator: terminator,
		line:       1,
		col:        1,
	}, nil
}

// SetFilterWhitespace toggles transparent whitespace skipping in NextToken.
// The parser sets this while scanning a directive header.
func (s *Scanner) SetFilterWhitespace(filter bool) {
	s.filterWhitespace = filter
}

func (s *Scanner) here() Pos {
	return Pos{File: s.file, Line: s.line, Col: s.col}
}

// advance consumes one rune of width w starting at s.pos and updates line/col.
func (s *Scanner) advance(r rune, w int) {
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	s.pos += w
}

// NextToken scans and returns the next token. In filter-whitespace mode,
// Whitespace tokens are skipped transparently and never returned.
func (s *Scanner) NextToken() (Token, error) {
	for {
		tok, err := s.nextTokenRaw()
		if err != nil {
			return Token{}, err
		}
		if s.filterWhitespace && tok.Kind == Whitespace {
			continue
		}
		return tok, nil
	}
}

func (s *Scanner) isTerminatorStart(r rune) bool {
	tr, _ := utf8.DecodeRuneInString(s.terminator)
	return r == tr
}

func (s *Scanner) nextTokenRaw() (Token, error) {
	start := s.here()
	startByte := s.pos

	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	if w == 0 {
		return Token{Kind: EndOfFile, Start: start, Stop: start}, nil
	}

	switch {
	case r == '\r' || r == '\n':
		return s.scanNewline(start)
	case unicode.IsSpace(r):
		return s.scanWhitespace(start)
	case r == '\'':
		s.advance(r, w)
		return s.scanQuoted(start, startByte, '\'', SingleQuoted)
	case r == '"':
		s.advance(r, w)
		return s.scanQuoted(start, startByte, '"', DoubleQuoted)
	case r == ',':
		s.advance(r, w)
		return Token{Kind: Comma, Raw: ",", Start: start, Stop: s.here()}, nil
	case r == ':':
		s.advance(r, w)
		return Token{Kind: Colon, Raw: ":", Start: start, Stop: s.here()}, nil
	case r == '#':
		s.advance(r, w)
		return Token{Kind: Hash, Raw: "#", Start: start, Stop: s.here()}, nil
	case r == '/':
		r2, w2 := utf8.DecodeRuneInString(s.input[s.pos+w:])
		if r2 == '*' {
			s.advance(r, w)
			s.advance(r2, w2)
			return Token{Kind: BlockStart, Raw: "/*", Start: start, Stop: s.here()}, nil
		}
		s.advance(r, w)
		return Token{Kind: Word, Raw: "/", Start: start, Stop: s.here()}, nil
	case r == '*':
		r2, w2 := utf8.DecodeRuneInString(s.input[s.pos+w:])
		switch r2 {
		case '/':
			s.advance(r, w)
			s.advance(r2, w2)
			return Token{Kind: BlockStop, Raw: "*/", Start: start, Stop: s.here()}, nil
		case '*':
			s.advance(r, w)
			s.advance(r2, w2)
			return Token{Kind: DoubleStar, Raw: "**", Start: start, Stop: s.here()}, nil
		default:
			s.advance(r, w)
			return Token{Kind: Word, Raw: "*", Start: start, Stop: s.here()}, nil
		}
	case r == '-':
		r2, w2 := utf8.DecodeRuneInString(s.input[s.pos+w:])
		if r2 == '-' {
			s.advance(r, w)
			s.advance(r2, w2)
			return Token{Kind: LineCommentStart, Raw: "--", Start: start, Stop: s.here()}, nil
		}
		s.advance(r, w)
		return Token{Kind: Word, Raw: "-", Start: start, Stop: s.here()}, nil
	case s.isTerminatorStart(r):
		return s.scanTerminator(start)
	default:
		return s.scanWord(start)
	}
}

func (s *Scanner) scanNewline(start Pos) (Token, error) {
	r, w := utf8.DecodeRuneInString(s.input[s.pos:])
	if r == '\r' {
		r2, w2 := utf8.DecodeRuneInString(s.input[s.pos+w:])
		if r2 == '\n' {
			s.advance(r, w)
			s.advance(r2, w2)
			return Token{Kind: EndOfLine, Raw: "\r\n", Start: start, Stop: s.here()}, nil
		}
	}
	raw := string(r)
	s.advance(r, w)
	if r == '\r' {
		s.line++
		s.col = 1
	}
	return Token{Kind: EndOfLine, Raw: raw, Start: start, Stop: s.here()}, nil
}

func (s *Scanner) scanWhitespace(start Pos) (Token, error) {
	var buf strings.Builder
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if w == 0 || r == '\n' || r == '\r' || !unicode.IsSpace(r) {
			break
		}
		buf.WriteRune(r)
		s.advance(r, w)
	}
	return Token{Kind: Whitespace, Raw: buf.String(), Start: start, Stop: s.here()}, nil
}

// scanWord accretes a run of characters that are not whitespace, not
// newlines, not one of the fixed significant characters, and do not begin
// the statement terminator.
func (s *Scanner) scanWord(start Pos) (Token, error) {
	var buf strings.Builder
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if w == 0 {
			break
		}
		if unicode.IsSpace(r) || strings.ContainsRune(significantChars, r) || s.isTerminatorStart(r) {
			break
		}
		buf.WriteRune(r)
		s.advance(r, w)
	}
	if buf.Len() == 0 {
		// Defensive: always make progress even on an unexpected rune.
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		buf.WriteRune(r)
		s.advance(r, w)
	}
	return Token{Kind: Word, Raw: buf.String(), Start: start, Stop: s.here()}, nil
}

// scanTerminator matches the configured statement terminator at the current
// position. A full match emits StatementTerminator; a partial match
// followed by a non-matching character emits a Word of the matched prefix,
// leaving the scanner positioned at the mismatching character.
func (s *Scanner) scanTerminator(start Pos) (Token, error) {
	matched := 0
	for matched < len(s.terminator) {
		want, wlen := utf8.DecodeRuneInString(s.terminator[matched:])
		got, glen := utf8.DecodeRuneInString(s.input[s.pos:])
		if glen == 0 || got != want {
			break
		}
		s.advance(got, glen)
		matched += wlen
	}
	if matched == len(s.terminator) {
		return Token{Kind: StatementTerminator, Raw: s.terminator, Start: start, Stop: s.here()}, nil
	}
	return Token{Kind: Word, Raw: s.terminator[:matched], Start: start, Stop: s.here()}, nil
}

// scanQuoted scans a single- or double-quoted string literal, assuming the
// opening quote rune has already been consumed. It detects the triple-quote
// form (opening quote immediately followed by another identical quote) and
// switches to multiline scanning.
func (s *Scanner) scanQuoted(start Pos, startByte int, quote rune, kind TokenType) (Token, error) {
	r2, w2 := utf8.DecodeRuneInString(s.input[s.pos:])
	if r2 == quote {
		s.advance(r2, w2)
		if r3, w3 := utf8.DecodeRuneInString(s.input[s.pos:]); r3 == quote {
			s.advance(r3, w3)
		}
		return s.scanTripleQuoted(start, startByte, quote)
	}
	return s.scanSingleLineQuoted(start, startByte, quote, kind)
}

func (s *Scanner) scanSingleLineQuoted(start Pos, startByte int, quote rune, kind TokenType) (Token, error) {
	var value strings.Builder
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if w == 0 {
			return Token{}, SyntaxError{start.File, start.Line, start.Col, "unterminated string"}
		}
		if r == '\\' {
			s.advance(r, w)
			esc, ew := utf8.DecodeRuneInString(s.input[s.pos:])
			if ew == 0 {
				return Token{}, SyntaxError{start.File, start.Line, start.Col, "unterminated string"}
			}
			value.WriteRune(esc)
			s.advance(esc, ew)
			continue
		}
		if r == '\n' || r == '\r' {
			return Token{}, SyntaxError{start.File, start.Line, start.Col, "unterminated string"}
		}
		if r == quote {
			s.advance(r, w)
			return Token{Kind: kind, Raw: s.input[startByte:s.pos], Value: value.String(), Start: start, Stop: s.here()}, nil
		}
		value.WriteRune(r)
		s.advance(r, w)
	}
}

func (s *Scanner) scanTripleQuoted(start Pos, startByte int, quote rune) (Token, error) {
	var value strings.Builder
	for {
		r, w := utf8.DecodeRuneInString(s.input[s.pos:])
		if w == 0 {
			return Token{}, SyntaxError{start.File, start.Line, start.Col, "unterminated string"}
		}
		if r == quote {
			run := s.quoteRunLength(quote)
			switch {
			case run >= 3:
				for i := 0; i < 3; i++ {
					rr, ww := utf8.DecodeRuneInString(s.input[s.pos:])
					s.advance(rr, ww)
				}
				return Token{Kind: MultilineQuoted, Raw: s.input[startByte:s.pos], Value: value.String(), Start: start, Stop: s.here()}, nil
			case run == 2:
				value.WriteRune(quote)
				for i := 0; i < 2; i++ {
					rr, ww := utf8.DecodeRuneInString(s.input[s.pos:])
					s.advance(rr, ww)
				}
			default:
				value.WriteRune(quote)
				s.advance(r, w)
			}
			continue
		}
		if r == '\\' {
			s.advance(r, w)
			esc, ew := utf8.DecodeRuneInString(s.input[s.pos:])
			if ew == 0 {
				return Token{}, SyntaxError{start.File, start.Line, start.Col, "unterminated string"}
			}
			value.WriteRune(esc)
			s.advance(esc, ew)
			continue
		}
		value.WriteRune(r)
		s.advance(r, w)
	}
}

// quoteRunLength counts how many consecutive occurrences of quote start at
// the scanner's current position (not consuming anything).
func (s *Scanner) quoteRunLength(quote rune) int {
	n := 0
	off := s.pos
	for {
		r, w := utf8.DecodeRuneInString(s.input[off:])
		if w == 0 || r != quote {
			break
		}
		n++
		off += w
	}
	return n
}

// IsIdentifierRune reports whether r may continue a SQL identifier, using
// Unicode identifier classification (xid.Continue, plus '_' and '$'). The
// scanner itself does not call it: Word tokens are delimited by whitespace,
// significant characters and the terminator, not by identifier rules.
func IsIdentifierRune(r rune) bool {
	return xid.Continue(r) || r == '_' || r == '$'
}
