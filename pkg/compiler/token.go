package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	// Literals
	IDENT  // variable name
	NUMBER // decimal cell value, 0..255

	// Keywords
	IF         // "if"
	ELSE       // "else"
	WHILE      // "while"
	INPUT      // "input"
	OUTPUT     // "output"
	MOVE_RIGHT // "move_right"
	MOVE_LEFT  // "move_left"
	NEXT_CELL  // reserved legacy spelling of move_right
	PREV_CELL  // reserved legacy spelling of move_left

	// Paired delimiters
	LBRACE // {
	RBRACE // }
	LPAREN // (
	RPAREN // )

	// Operators
	ASSIGN // =
	EQ     // ==
	NE     // !=
	AND    // &&
)

// tokenNames is indexed by TokenType.
var tokenNames = [...]string{
	EOF:        "EOF",
	IDENT:      "IDENT",
	NUMBER:     "NUMBER",
	IF:         "IF",
	ELSE:       "ELSE",
	WHILE:      "WHILE",
	INPUT:      "INPUT",
	OUTPUT:     "OUTPUT",
	MOVE_RIGHT: "MOVE_RIGHT",
	MOVE_LEFT:  "MOVE_LEFT",
	NEXT_CELL:  "NEXT_CELL",
	PREV_CELL:  "PREV_CELL",
	LBRACE:     "LBRACE",
	RBRACE:     "RBRACE",
	LPAREN:     "LPAREN",
	RPAREN:     "RPAREN",
	ASSIGN:     "ASSIGN",
	EQ:         "EQ",
	NE:         "NE",
	AND:        "AND",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string // the exact source text that was matched
	Line   int    // 1-based source line
}

func (t Token) String() string {
	return fmt.Sprintf("%-10s %-14q  line %d", t.Type, t.Lexeme, t.Line)
}
