package lexer

import (
	"github.com/rtsoliday/SDDS-sub003/internal/token"
)

// Lexer splits RPN source text into whitespace-delimited tokens.
// Double-quoted strings are the only multi-word tokens; everything else,
// including numbers and the conditional markers, comes out as a Word.
type Lexer struct {
	input   string
	pos     int  // current position in bytes
	readPos int  // next read position
	ch      byte // current char
	column  int
}

// New creates a lexer for the provided source text.
func New(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()
	return l
}

// NextToken returns the next token from the input.
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	if l.ch == 0 {
		return l.makeToken(token.EOF, "")
	}

	if l.ch == '"' {
		return l.readString()
	}

	return l.readWord()
}

func (l *Lexer) readWord() token.Token {
	start := l.pos
	col := l.column
	for l.ch != 0 && !isSpace(l.ch) {
		l.readChar()
	}
	return token.Token{
		Type:    token.Word,
		Literal: l.input[start:l.pos],
		Pos:     token.Position{Offset: start, Column: col},
	}
}

func (l *Lexer) readString() token.Token {
	start := l.pos
	col := l.column
	l.readChar() // opening quote
	for l.ch != '"' {
		if l.ch == 0 {
			return token.Token{
				Type:    token.Illegal,
				Literal: l.input[start:l.pos],
				Pos:     token.Position{Offset: start, Column: col},
			}
		}
		l.readChar()
	}
	lit := l.input[start+1 : l.pos]
	l.readChar() // closing quote
	return token.Token{
		Type:    token.String,
		Literal: lit,
		Pos:     token.Position{Offset: start, Column: col},
	}
}

func (l *Lexer) makeToken(t token.Type, lit string) token.Token {
	return token.Token{
		Type:    t,
		Literal: lit,
		Pos:     token.Position{Offset: l.pos, Column: l.column},
	}
}

func (l *Lexer) skipWhitespace() {
	for isSpace(l.ch) {
		l.readChar()
	}
}

func (l *Lexer) readChar() {
	if l.readPos >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPos]
	}
	l.pos = l.readPos
	l.readPos++
	l.column++
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
