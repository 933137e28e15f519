package compiler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnexpectedEOF marks a parse error caused by the input ending inside an
// unfinished construct. The console checks for it to keep reading lines.
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// Parser consumes the flat token slice produced by the Lexer and builds an AST.
//
// Grammar:
//
//	program    = statement* EOF
//	statement  = if | while | assignment | move | input | output
//	if         = "if" cond block ( "else" block )?
//	while      = "while" cond block
//	block      = "{" statement* "}"
//	cond       = compare ( "&&" compare )*
//	compare    = IDENT ( "==" | "!=" ) NUMBER
//	assignment = IDENT "=" NUMBER
//	move       = "move_right" | "move_left"
//	input      = "input" "(" IDENT ")"
//	output     = "output" "(" IDENT ")"
type Parser struct {
	tokens      []Token
	pos         int
	sourceLines []string
}

func NewParser(tokens []Token, rawSource string) *Parser {
	return &Parser{tokens: tokens, sourceLines: strings.Split(rawSource, "\n")}
}

// fmtError wraps an error message with the source line where the token appears.
func (p *Parser) fmtError(tok Token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	lineIdx := tok.Line - 1 // Lines are 1-based

	snippet := "<source unavailable>"
	if lineIdx >= 0 && lineIdx < len(p.sourceLines) {
		snippet = strings.TrimSpace(p.sourceLines[lineIdx])
	}

	return fmt.Errorf("line %d: %s\n  |> %s", tok.Line, msg, snippet)
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// expect consumes the current token if it matches tt, otherwise returns an error.
func (p *Parser) expect(tt TokenType) (Token, error) {
	tok := p.advance()
	if tok.Type != tt {
		if tok.Type == EOF {
			return tok, fmt.Errorf("%w: expected %s on line %d", ErrUnexpectedEOF, tt, tok.Line)
		}
		return tok, p.fmtError(tok, "expected %s, got %s (%q)", tt, tok.Type, tok.Lexeme)
	}
	return tok, nil
}

// parseNumber consumes a NUMBER token and checks that it fits in a cell.
func (p *Parser) parseNumber() (byte, error) {
	tok, err := p.expect(NUMBER)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok.Lexeme)
	if err != nil || v > 255 {
		return 0, p.fmtError(tok, "number %s is out of range 0..255", tok.Lexeme)
	}
	return byte(v), nil
}

// parseCompare parses  IDENT ("==" | "!=") NUMBER
func (p *Parser) parseCompare() (Compare, error) {
	varTok, err := p.expect(IDENT)
	if err != nil {
		return Compare{}, err
	}

	var op CompareOp
	opTok := p.advance()
	switch opTok.Type {
	case EQ:
		op = CompareEq
	case NE:
		op = CompareNe
	case EOF:
		return Compare{}, fmt.Errorf("%w: expected == or != on line %d", ErrUnexpectedEOF, opTok.Line)
	default:
		return Compare{}, p.fmtError(opTok, "expected == or !=, got %s (%q)", opTok.Type, opTok.Lexeme)
	}

	value, err := p.parseNumber()
	if err != nil {
		return Compare{}, err
	}
	return Compare{Var: varTok.Lexeme, Op: op, Value: value, Line: varTok.Line}, nil
}

// parseCond parses one or more comparisons joined by &&.
func (p *Parser) parseCond() (Cond, error) {
	cmp, err := p.parseCompare()
	if err != nil {
		return Cond{}, err
	}
	compares := []Compare{cmp}
	for p.peek().Type == AND {
		p.advance()
		cmp, err := p.parseCompare()
		if err != nil {
			return Cond{}, err
		}
		compares = append(compares, cmp)
	}
	return Cond{Compares: compares}, nil
}

// parseBlock parses  "{" statement* "}"  and returns the inner statements.
func (p *Parser) parseBlock() ([]Stmt, error) {
	if _, err := p.expect(LBRACE); err != nil {
		return nil, err
	}
	stmts := []Stmt{}
	for p.peek().Type != RBRACE && p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.expect(RBRACE); err != nil {
		return nil, err
	}
	return stmts, nil
}

// parseIf parses  if cond { then } [ else { else } ]
// The leading IF token has already been consumed by parseStatement.
func (p *Parser) parseIf(line int) (Stmt, error) {
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}

	var elseStmts []Stmt
	if p.peek().Type == ELSE {
		p.advance()
		elseStmts, err = p.parseBlock()
		if err != nil {
			return nil, err
		}
	}

	return &IfStmt{Cond: cond, Then: then, Else: elseStmts, Line: line}, nil
}

// parseWhile parses  while cond { body }
// The leading WHILE token has already been consumed by parseStatement.
func (p *Parser) parseWhile(line int) (Stmt, error) {
	cond, err := p.parseCond()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Cond: cond, Body: body, Line: line}, nil
}

// parseIO parses the shared shape of input and output:  "(" IDENT ")"
// The leading keyword has already been consumed by parseStatement.
func (p *Parser) parseIO() (string, error) {
	if _, err := p.expect(LPAREN); err != nil {
		return "", err
	}
	nameTok, err := p.expect(IDENT)
	if err != nil {
		return "", err
	}
	if _, err := p.expect(RPAREN); err != nil {
		return "", err
	}
	return nameTok.Lexeme, nil
}

func (p *Parser) parseStatement() (Stmt, error) {
	tok := p.advance()
	switch tok.Type {
	case IF:
		return p.parseIf(tok.Line)

	case WHILE:
		return p.parseWhile(tok.Line)

	case INPUT:
		name, err := p.parseIO()
		if err != nil {
			return nil, err
		}
		return &InputStmt{Name: name, Line: tok.Line}, nil

	case OUTPUT:
		name, err := p.parseIO()
		if err != nil {
			return nil, err
		}
		return &OutputStmt{Name: name, Line: tok.Line}, nil

	case MOVE_RIGHT, MOVE_LEFT:
		return &MoveStmt{Op: tok.Type, Line: tok.Line}, nil

	case NEXT_CELL:
		return nil, p.fmtError(tok, "next_cell is reserved; write move_right")

	case PREV_CELL:
		return nil, p.fmtError(tok, "prev_cell is reserved; write move_left")

	case IDENT:
		if _, err := p.expect(ASSIGN); err != nil {
			return nil, err
		}
		value, err := p.parseNumber()
		if err != nil {
			return nil, err
		}
		return &AssignStmt{Name: tok.Lexeme, Value: value, Line: tok.Line}, nil

	default:
		return nil, p.fmtError(tok, "unexpected %s (%q) at start of statement", tok.Type, tok.Lexeme)
	}
}

// Parse builds the statement list for a whole program.
func Parse(tokens []Token, rawSource string) ([]Stmt, error) {
	p := NewParser(tokens, rawSource)
	var stmts []Stmt
	for p.peek().Type != EOF {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}
