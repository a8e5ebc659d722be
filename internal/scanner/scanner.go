// Package scanner provides a streaming Unicode-aware lexer for Rocket source.
package scanner

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
	"unicode"

	"nickandperla.net/rocket/internal/token"
)

var numberPattern = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// ErrUnterminatedString is recorded on the scanner when input ends inside
// a quoted string. The accompanying EOF item carries the opening quote's
// position.
var ErrUnterminatedString = errors.New("unterminated string")

// Scanner tokenizes Rocket input rune-by-rune.
type Scanner struct {
	reader *bufio.Reader
	file   string
	buf    strings.Builder
	peeked *token.Item
	line   int
	col    int

	err error
}

// New creates a new Scanner reading from r. The file name is attached to
// every token position and may be empty.
func New(r io.Reader, file string) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		file:   file,
		line:   1,
		col:    1,
	}
}

// NewFromString creates a new Scanner over a string.
func NewFromString(s, file string) *Scanner {
	return New(strings.NewReader(s), file)
}

func (s *Scanner) pos() token.Pos {
	return token.Pos{File: s.file, Line: s.line, Column: s.col}
}

func (s *Scanner) read() (rune, bool) {
	r, _, err := s.reader.ReadRune()
	if err == io.EOF {
		return 0, false
	}
	if err != nil {
		s.err = err
		return 0, false
	}
	if r == '\n' {
		s.line++
		s.col = 1
	} else {
		s.col++
	}
	return r, true
}

func (s *Scanner) unread(r rune) {
	s.reader.UnreadRune()
	if r == '\n' {
		s.line--
	} else {
		s.col--
	}
}

// Err returns the first I/O error encountered, if any.
func (s *Scanner) Err() error { return s.err }

// Peek returns the next item without consuming it.
func (s *Scanner) Peek() token.Item {
	if s.peeked == nil {
		item := s.Next()
		s.peeked = &item
	}
	return *s.peeked
}

// Next returns the next token from the input.
func (s *Scanner) Next() token.Item {
	if s.peeked != nil {
		item := *s.peeked
		s.peeked = nil
		return item
	}

	// Skip whitespace between tokens.
	for {
		r, ok := s.read()
		if !ok {
			return token.Item{Kind: token.EOF, Pos: s.pos()}
		}
		if unicode.IsSpace(r) {
			continue
		}

		start := s.pos()
		start.Column-- // position of the rune just consumed

		switch r {
		case '(':
			return token.Item{Kind: token.LPAREN, Text: "(", Pos: start}
		case ')':
			return token.Item{Kind: token.RPAREN, Text: ")", Pos: start}
		case '"':
			return s.scanString(start)
		default:
			return s.scanSymbol(r, start)
		}
	}
}

// scanString consumes a quoted string. The opening quote has been read.
// Escapes: \" \\ \n.
func (s *Scanner) scanString(start token.Pos) token.Item {
	s.buf.Reset()
	for {
		r, ok := s.read()
		if !ok {
			if s.err == nil {
				s.err = ErrUnterminatedString
			}
			return token.Item{Kind: token.EOF, Text: s.buf.String(), Pos: start}
		}
		switch r {
		case '"':
			return token.Item{Kind: token.STRING, Text: s.buf.String(), Pos: start}
		case '\\':
			esc, ok := s.read()
			if !ok {
				if s.err == nil {
					s.err = ErrUnterminatedString
				}
				return token.Item{Kind: token.EOF, Text: s.buf.String(), Pos: start}
			}
			switch esc {
			case '"':
				s.buf.WriteRune('"')
			case '\\':
				s.buf.WriteRune('\\')
			case 'n':
				s.buf.WriteRune('\n')
			default:
				// Unknown escape: keep it verbatim.
				s.buf.WriteRune('\\')
				s.buf.WriteRune(esc)
			}
		default:
			s.buf.WriteRune(r)
		}
	}
}

// scanSymbol consumes a run of symbol runes starting with first. Runs that
// look like numeric literals are classified as NUMBER.
func (s *Scanner) scanSymbol(first rune, start token.Pos) token.Item {
	s.buf.Reset()
	s.buf.WriteRune(first)
	for {
		r, ok := s.read()
		if !ok {
			break
		}
		if unicode.IsSpace(r) || token.IsDelimiter(r) {
			s.unread(r)
			break
		}
		s.buf.WriteRune(r)
	}

	text := s.buf.String()
	kind := token.SYMBOL
	if numberPattern.MatchString(text) {
		kind = token.NUMBER
	}
	return token.Item{Kind: kind, Text: text, Pos: start}
}
