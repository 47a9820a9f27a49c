package token

// Type identifies the category of a token.
type Type string

// Token carries the lexical item along with its source position.
type Token struct {
	Type    Type
	Literal string
	Pos     Position
}

// Position describes a byte offset and 1-based column within one input line.
type Position struct {
	Offset int
	Column int
}

const (
	Illegal Type = "ILLEGAL"
	EOF     Type = "EOF"

	// Word is any whitespace-delimited token that is not a quoted string.
	// Classification (builtin, variable, UDF, number, conditional marker)
	// happens in the compiler, not here.
	Word Type = "WORD"

	// String is a double-quoted literal with the quotes stripped.
	String Type = "STRING"
)
