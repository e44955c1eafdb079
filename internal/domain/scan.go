package domain

import (
	"strconv"
	"strings"
)

// scanner is a byte-offset cursor over the raw page text. All read methods
// advance the cursor on success and leave it untouched on failure, except
// where noted. Errors are always *ParseError anchored at the position where
// the failing token started.
type scanner struct {
	input string
	pos   int
}

func newScanner(input string) *scanner {
	return &scanner{input: input}
}

// literal consumes the exact text tok at the cursor.
func (s *scanner) literal(tok string) error {
	if !strings.HasPrefix(s.input[s.pos:], tok) {
		return &ParseError{Kind: ErrUnexpectedToken, Pos: s.pos, Expected: tok}
	}
	s.pos += len(tok)
	return nil
}

// skipWhitespace consumes a possibly empty run of whitespace. Never fails.
func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) && isSpace(s.input[s.pos]) {
		s.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

// quotedString consumes a single-quoted run of non-quote characters and
// returns the inner text. The portal literal has no escape sequences.
func (s *scanner) quotedString() (string, error) {
	start := s.pos
	if err := s.literal("'"); err != nil {
		return "", err
	}
	end := strings.IndexByte(s.input[s.pos:], '\'')
	if end < 0 {
		s.pos = start
		return "", &ParseError{Kind: ErrUnterminatedString, Pos: start}
	}
	inner := s.input[s.pos : s.pos+end]
	s.pos += end + 1
	return inner, nil
}

// integer consumes an optional leading '-' and one or more decimal digits.
func (s *scanner) integer() (int, error) {
	start := s.pos
	end := start
	if end < len(s.input) && s.input[end] == '-' {
		end++
	}
	digits := end
	for end < len(s.input) && s.input[end] >= '0' && s.input[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, &ParseError{Kind: ErrExpectedInteger, Pos: start}
	}
	n, err := strconv.Atoi(s.input[start:end])
	if err != nil {
		return 0, &ParseError{Kind: ErrExpectedInteger, Pos: start}
	}
	s.pos = end
	return n, nil
}

// skipUntil advances the cursor to just before the first occurrence of
// substr in the remaining input.
func (s *scanner) skipUntil(substr string) error {
	i := strings.Index(s.input[s.pos:], substr)
	if i < 0 {
		return &ParseError{Kind: ErrAnchorNotFound, Pos: s.pos, Expected: substr}
	}
	s.pos += i
	return nil
}

// peek reports whether the next byte is c without consuming it.
func (s *scanner) peek(c byte) bool {
	return s.pos < len(s.input) && s.input[s.pos] == c
}
