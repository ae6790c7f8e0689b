package vars

import "testing"

func TestParseOperand(t *testing.T) {
	tests := []struct {
		input    string
		expected Operand
		wantErr  bool
	}{
		{"$aa", Operand{Var: "aa"}, false},
		{"  $zz  ", Operand{Var: "zz"}, false},
		{"42", Operand{Lit: 42}, false},
		{"-3", Operand{Lit: -3}, false},
		{"$a", Operand{}, true},
		{"$aaa", Operand{}, true},
		{"$AA", Operand{}, true},
		{"aa", Operand{}, true}, // bare names are not operands
		{"1.5", Operand{}, true},
		{"", Operand{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			op, err := ParseOperand(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseOperand(%q) expected error, got %v", tt.input, op)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOperand(%q) failed: %v", tt.input, err)
			}
			if op != tt.expected {
				t.Errorf("ParseOperand(%q) = %v, expected %v", tt.input, op, tt.expected)
			}
		})
	}
}

func TestParseExpr(t *testing.T) {
	tests := []struct {
		input    string
		expected Expr
		wantErr  bool
	}{
		{"5", Expr{LHS: Operand{Lit: 5}}, false},
		{"$aa", Expr{LHS: Operand{Var: "aa"}}, false},
		{"$aa + 1", Expr{LHS: Operand{Var: "aa"}, Op: "+", RHS: Operand{Lit: 1}}, false},
		{"$aa * $bb", Expr{LHS: Operand{Var: "aa"}, Op: "*", RHS: Operand{Var: "bb"}}, false},
		{"$aa % 2", Expr{}, true},
		{"$aa +", Expr{}, true},
		{"$aa + 1 + 2", Expr{}, true},
		{"", Expr{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			e, err := ParseExpr(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseExpr(%q) expected error, got %v", tt.input, e)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseExpr(%q) failed: %v", tt.input, err)
			}
			if e != tt.expected {
				t.Errorf("ParseExpr(%q) = %v, expected %v", tt.input, e, tt.expected)
			}
		})
	}
}

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("$aa >= 10")
	if err != nil {
		t.Fatalf("ParseCondition failed: %v", err)
	}
	if c.LHS.Var != "aa" || c.Op != OpGe || c.RHS.Lit != 10 {
		t.Errorf("Unexpected condition %v", c)
	}

	for _, input := range []string{"$aa", "$aa ==", "$aa => 10", "$aa == 1 extra", "= = ="} {
		if _, err := ParseCondition(input); err == nil {
			t.Errorf("ParseCondition(%q) expected error", input)
		}
	}
}

func TestExprString(t *testing.T) {
	e, _ := ParseExpr("$aa + 1")
	if e.String() != "$aa + 1" {
		t.Errorf("Expected round-trip string, got %q", e.String())
	}
	c, _ := ParseCondition("$bb != $cc")
	if c.String() != "$bb != $cc" {
		t.Errorf("Expected round-trip string, got %q", c.String())
	}
}
