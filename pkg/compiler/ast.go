package compiler

import (
	"fmt"
	"strings"
)

//  Condition nodes

// CompareOp is the operator of a single comparison.
type CompareOp int

const (
	CompareEq CompareOp = iota // ==
	CompareNe                  // !=
)

func (op CompareOp) String() string {
	if op == CompareNe {
		return "!="
	}
	return "=="
}

// Compare is one variable-against-constant test.
//
//	if x == 3 { ... }
//	   ^^^^^^  Compare{Var: "x", Op: CompareEq, Value: 3}
type Compare struct {
	Var   string
	Op    CompareOp
	Value byte
	Line  int
}

func (c Compare) String() string {
	return fmt.Sprintf("%s %s %d", c.Var, c.Op, c.Value)
}

// Cond is a conjunction of comparisons. Every comparison is always
// evaluated; there is no short-circuiting.
type Cond struct {
	Compares []Compare
}

func (c Cond) String() string {
	parts := make([]string, len(c.Compares))
	for i, cmp := range c.Compares {
		parts[i] = cmp.String()
	}
	return strings.Join(parts, " && ")
}

//  Statement nodes

// Stmt is implemented by every statement node.
type Stmt interface {
	stmtNode()
	String() string
}

// AssignStmt represents  name = value
//
//	x = 3
//	^   ^  AssignStmt{Name: "x", Value: 3}
type AssignStmt struct {
	Name  string
	Value byte
	Line  int
}

func (*AssignStmt) stmtNode() {}
func (a *AssignStmt) String() string {
	return fmt.Sprintf("AssignStmt(%s = %d)", a.Name, a.Value)
}

// MoveStmt shifts the data cursor one cell; Op is MOVE_RIGHT or MOVE_LEFT.
type MoveStmt struct {
	Op   TokenType
	Line int
}

func (*MoveStmt) stmtNode() {}
func (m *MoveStmt) String() string {
	if m.Op == MOVE_LEFT {
		return "MoveStmt(move_left)"
	}
	return "MoveStmt(move_right)"
}

// InputStmt represents  input ( name )
type InputStmt struct {
	Name string
	Line int
}

func (*InputStmt) stmtNode() {}
func (i *InputStmt) String() string {
	return fmt.Sprintf("InputStmt(%s)", i.Name)
}

// OutputStmt represents  output ( name )
type OutputStmt struct {
	Name string
	Line int
}

func (*OutputStmt) stmtNode() {}
func (o *OutputStmt) String() string {
	return fmt.Sprintf("OutputStmt(%s)", o.Name)
}

// IfStmt represents  if cond { then } [ else { else } ]
// Else is nil when the source had no else block.
type IfStmt struct {
	Cond Cond
	Then []Stmt
	Else []Stmt
	Line int
}

func (*IfStmt) stmtNode() {}
func (i *IfStmt) String() string {
	if i.Else != nil {
		return fmt.Sprintf("IfStmt(if %s then len=%d else len=%d)", i.Cond, len(i.Then), len(i.Else))
	}
	return fmt.Sprintf("IfStmt(if %s then len=%d)", i.Cond, len(i.Then))
}

// WhileStmt represents  while cond { body }
type WhileStmt struct {
	Cond Cond
	Body []Stmt
	Line int
}

func (*WhileStmt) stmtNode() {}
func (w *WhileStmt) String() string {
	return fmt.Sprintf("WhileStmt(while %s do len=%d)", w.Cond, len(w.Body))
}
