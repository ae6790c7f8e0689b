package vars

import (
	"fmt"
	"strconv"
	"strings"
)

// Operand is one side of an expression or comparison: either a variable
// reference ($xy) or an integer literal. Var is empty for literals.
type Operand struct {
	Var string `json:"var,omitempty"`
	Lit int64  `json:"lit,omitempty"`
}

func (o Operand) String() string {
	if o.Var != "" {
		return "$" + o.Var
	}
	return strconv.FormatInt(o.Lit, 10)
}

// ParseOperand parses "$xy" or a signed integer literal.
func ParseOperand(s string) (Operand, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "$") {
		name := s[1:]
		if !ValidName(name) {
			return Operand{}, &UnknownVariableError{Name: name}
		}
		return Operand{Var: name}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return Operand{}, fmt.Errorf("operand %q is neither a variable nor an integer", s)
	}
	return Operand{Lit: n}, nil
}

// Expr is a literal, a variable reference, or a single binary arithmetic
// operation. Op is empty for the single-operand forms.
type Expr struct {
	LHS Operand `json:"lhs"`
	Op  string  `json:"op,omitempty"`
	RHS Operand `json:"rhs,omitempty"`
}

func (e Expr) String() string {
	if e.Op == "" {
		return e.LHS.String()
	}
	return fmt.Sprintf("%s %s %s", e.LHS, e.Op, e.RHS)
}

// ParseExpr parses "<operand>" or "<operand> <op> <operand>" with
// op one of + - * /.
func ParseExpr(s string) (Expr, error) {
	fields := strings.Fields(s)
	switch len(fields) {
	case 1:
		lhs, err := ParseOperand(fields[0])
		if err != nil {
			return Expr{}, err
		}
		return Expr{LHS: lhs}, nil
	case 3:
		lhs, err := ParseOperand(fields[0])
		if err != nil {
			return Expr{}, err
		}
		switch fields[1] {
		case "+", "-", "*", "/":
		default:
			return Expr{}, fmt.Errorf("unsupported operator %q", fields[1])
		}
		rhs, err := ParseOperand(fields[2])
		if err != nil {
			return Expr{}, err
		}
		return Expr{LHS: lhs, Op: fields[1], RHS: rhs}, nil
	}
	return Expr{}, fmt.Errorf("malformed expression %q", strings.TrimSpace(s))
}

// CompareOp is one of the six comparison operators.
type CompareOp string

const (
	OpEq CompareOp = "=="
	OpNe CompareOp = "!="
	OpLt CompareOp = "<"
	OpGt CompareOp = ">"
	OpLe CompareOp = "<="
	OpGe CompareOp = ">="
)

// ParseCompareOp validates a comparison operator token.
func ParseCompareOp(s string) (CompareOp, error) {
	switch CompareOp(s) {
	case OpEq, OpNe, OpLt, OpGt, OpLe, OpGe:
		return CompareOp(s), nil
	}
	return "", fmt.Errorf("unsupported comparison %q", s)
}

// Condition is a binary comparison between two operands.
type Condition struct {
	LHS Operand   `json:"lhs"`
	Op  CompareOp `json:"op"`
	RHS Operand   `json:"rhs"`
}

func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.LHS, c.Op, c.RHS)
}

// ParseCondition parses "<operand> <op> <operand>".
func ParseCondition(s string) (Condition, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return Condition{}, fmt.Errorf("malformed condition %q", strings.TrimSpace(s))
	}
	lhs, err := ParseOperand(fields[0])
	if err != nil {
		return Condition{}, err
	}
	op, err := ParseCompareOp(fields[1])
	if err != nil {
		return Condition{}, err
	}
	rhs, err := ParseOperand(fields[2])
	if err != nil {
		return Condition{}, err
	}
	return Condition{LHS: lhs, Op: op, RHS: rhs}, nil
}
