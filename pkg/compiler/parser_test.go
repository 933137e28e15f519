package compiler

import (
	"errors"
	"reflect"
	"testing"
)

// TestParse verifies that Parse produces the correct AST for valid inputs.
func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []Stmt
	}{
		{
			name:  "Assignment",
			input: "x = 3",
			expected: []Stmt{
				&AssignStmt{Name: "x", Value: 3, Line: 1},
			},
		},
		{
			name:  "Boundary Values",
			input: "x = 0 y = 255",
			expected: []Stmt{
				&AssignStmt{Name: "x", Value: 0, Line: 1},
				&AssignStmt{Name: "y", Value: 255, Line: 1},
			},
		},
		{
			name:  "Move Statements",
			input: "move_right move_left",
			expected: []Stmt{
				&MoveStmt{Op: MOVE_RIGHT, Line: 1},
				&MoveStmt{Op: MOVE_LEFT, Line: 1},
			},
		},
		{
			name:  "Input and Output",
			input: "input(ch) output(ch)",
			expected: []Stmt{
				&InputStmt{Name: "ch", Line: 1},
				&OutputStmt{Name: "ch", Line: 1},
			},
		},
		{
			name:  "If Statement",
			input: "if x == 1 { x = 2 }",
			expected: []Stmt{
				&IfStmt{
					Cond: Cond{Compares: []Compare{
						{Var: "x", Op: CompareEq, Value: 1, Line: 1},
					}},
					Then: []Stmt{
						&AssignStmt{Name: "x", Value: 2, Line: 1},
					},
					Line: 1,
				},
			},
		},
		{
			name:  "If-Else Statement",
			input: "if x == 1 { x = 2 } else { x = 3 }",
			expected: []Stmt{
				&IfStmt{
					Cond: Cond{Compares: []Compare{
						{Var: "x", Op: CompareEq, Value: 1, Line: 1},
					}},
					Then: []Stmt{
						&AssignStmt{Name: "x", Value: 2, Line: 1},
					},
					Else: []Stmt{
						&AssignStmt{Name: "x", Value: 3, Line: 1},
					},
					Line: 1,
				},
			},
		},
		{
			name:  "Empty Blocks",
			input: "if x != 0 { } else { }",
			expected: []Stmt{
				&IfStmt{
					Cond: Cond{Compares: []Compare{
						{Var: "x", Op: CompareNe, Value: 0, Line: 1},
					}},
					Then: []Stmt{},
					Else: []Stmt{},
					Line: 1,
				},
			},
		},
		{
			name:  "While Loop",
			input: "while x != 0 { input(x) }",
			expected: []Stmt{
				&WhileStmt{
					Cond: Cond{Compares: []Compare{
						{Var: "x", Op: CompareNe, Value: 0, Line: 1},
					}},
					Body: []Stmt{
						&InputStmt{Name: "x", Line: 1},
					},
					Line: 1,
				},
			},
		},
		{
			name:  "Chained Condition",
			input: "if a == 1 && b != 2 && c == 3 { }",
			expected: []Stmt{
				&IfStmt{
					Cond: Cond{Compares: []Compare{
						{Var: "a", Op: CompareEq, Value: 1, Line: 1},
						{Var: "b", Op: CompareNe, Value: 2, Line: 1},
						{Var: "c", Op: CompareEq, Value: 3, Line: 1},
					}},
					Then: []Stmt{},
					Line: 1,
				},
			},
		},
		{
			name:  "Nested If in While",
			input: "while x != 0 { if x == 2 { x = 1 } output(x) }",
			expected: []Stmt{
				&WhileStmt{
					Cond: Cond{Compares: []Compare{
						{Var: "x", Op: CompareNe, Value: 0, Line: 1},
					}},
					Body: []Stmt{
						&IfStmt{
							Cond: Cond{Compares: []Compare{
								{Var: "x", Op: CompareEq, Value: 2, Line: 1},
							}},
							Then: []Stmt{
								&AssignStmt{Name: "x", Value: 1, Line: 1},
							},
							Line: 1,
						},
						&OutputStmt{Name: "x", Line: 1},
					},
					Line: 1,
				},
			},
		},
		{
			name:  "Line Numbers",
			input: "x = 1\nif x == 1 {\n  output(x)\n}",
			expected: []Stmt{
				&AssignStmt{Name: "x", Value: 1, Line: 1},
				&IfStmt{
					Cond: Cond{Compares: []Compare{
						{Var: "x", Op: CompareEq, Value: 1, Line: 2},
					}},
					Then: []Stmt{
						&OutputStmt{Name: "x", Line: 3},
					},
					Line: 2,
				},
			},
		},
		{
			name:  "Semicolons and Comments",
			input: "x = 1; // set up\noutput(x);",
			expected: []Stmt{
				&AssignStmt{Name: "x", Value: 1, Line: 1},
				&OutputStmt{Name: "x", Line: 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex failed: %v", err)
			}

			stmts, err := Parse(tokens, tt.input)
			if err != nil {
				t.Fatalf("Parse failed: %v", err)
			}

			if !reflect.DeepEqual(stmts, tt.expected) {
				t.Errorf("Parse mismatch:\nGot:      %v\nExpected: %v", stmts, tt.expected)
			}
		})
	}
}

// TestParseErrors verifies rejection of malformed programs, and that errors
// caused by the input ending mid-construct are marked with ErrUnexpectedEOF
// so the console knows to keep reading lines.
func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantEOF bool
	}{
		{
			name:    "Unclosed Block",
			input:   "if x == 1 {",
			wantEOF: true,
		},
		{
			name:    "Missing Block",
			input:   "if x == 1",
			wantEOF: true,
		},
		{
			name:    "Assignment Without Value",
			input:   "x =",
			wantEOF: true,
		},
		{
			name:    "Condition Without Operator",
			input:   "if x",
			wantEOF: true,
		},
		{
			name:    "While Body Cut Short",
			input:   "while x != 0 { output(x)",
			wantEOF: true,
		},
		{
			name:    "Dangling AND",
			input:   "if x == 1 &&",
			wantEOF: true,
		},
		{
			name:  "Number Out of Range",
			input: "x = 300",
		},
		{
			name:  "Reserved next_cell",
			input: "next_cell",
		},
		{
			name:  "Reserved prev_cell",
			input: "prev_cell",
		},
		{
			name:  "Comparison as Statement",
			input: "x == 3",
		},
		{
			name:  "Assignment in Condition",
			input: "if x = 1 { }",
		},
		{
			name:  "Condition Against Variable",
			input: "if x == y { }",
		},
		{
			name:  "Output Without Parens",
			input: "output x",
		},
		{
			name:  "Statement Starting with Operator",
			input: "= 5",
		},
		{
			name:  "Stray Else",
			input: "else { }",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens, err := Lex(tt.input)
			if err != nil {
				t.Fatalf("Lex failed: %v", err)
			}

			_, err = Parse(tokens, tt.input)
			if err == nil {
				t.Fatalf("Parse succeeded, expected an error")
			}
			if got := errors.Is(err, ErrUnexpectedEOF); got != tt.wantEOF {
				t.Errorf("errors.Is(err, ErrUnexpectedEOF) = %v, want %v (err: %v)", got, tt.wantEOF, err)
			}
		})
	}
}
