// Package vars implements the script variable store: 676 integer slots
// named "aa" through "zz", plus the operand, expression and comparison
// forms the script language uses against them.
package vars

import "fmt"

// NumSlots is the size of the variable namespace: two lowercase letters.
const NumSlots = 26 * 26

// UnknownVariableError is returned when a name falls outside the
// "aa".."zz" namespace.
type UnknownVariableError struct {
	Name string
}

func (e *UnknownVariableError) Error() string {
	return fmt.Sprintf("unknown variable %q: names are two lowercase letters (aa..zz)", e.Name)
}

// ErrDivideByZero is returned by Eval when an expression divides by zero.
var ErrDivideByZero = fmt.Errorf("division by zero")

// Store holds the per-engine variable slots. All slots start at zero.
// Values wrap on int64 overflow.
type Store struct {
	slots [NumSlots]int64
}

func NewStore() *Store {
	return &Store{}
}

// slotIndex maps "aa".."zz" onto 0..675.
func slotIndex(name string) (int, error) {
	if len(name) != 2 {
		return 0, &UnknownVariableError{Name: name}
	}
	a, b := name[0], name[1]
	if a < 'a' || a > 'z' || b < 'a' || b > 'z' {
		return 0, &UnknownVariableError{Name: name}
	}
	return int(a-'a')*26 + int(b-'a'), nil
}

// ValidName reports whether name is inside the variable namespace.
func ValidName(name string) bool {
	_, err := slotIndex(name)
	return err == nil
}

func (s *Store) Get(name string) (int64, error) {
	i, err := slotIndex(name)
	if err != nil {
		return 0, err
	}
	return s.slots[i], nil
}

func (s *Store) Set(name string, value int64) error {
	i, err := slotIndex(name)
	if err != nil {
		return err
	}
	s.slots[i] = value
	return nil
}

// Resolve returns the value of an operand: the literal itself, or the
// current value of the referenced variable.
func (s *Store) Resolve(op Operand) (int64, error) {
	if op.Var == "" {
		return op.Lit, nil
	}
	return s.Get(op.Var)
}

// Eval evaluates an expression against the store.
func (s *Store) Eval(e Expr) (int64, error) {
	lhs, err := s.Resolve(e.LHS)
	if err != nil {
		return 0, err
	}
	if e.Op == "" {
		return lhs, nil
	}
	rhs, err := s.Resolve(e.RHS)
	if err != nil {
		return 0, err
	}
	switch e.Op {
	case "+":
		return lhs + rhs, nil
	case "-":
		return lhs - rhs, nil
	case "*":
		return lhs * rhs, nil
	case "/":
		if rhs == 0 {
			return 0, ErrDivideByZero
		}
		return lhs / rhs, nil
	}
	return 0, fmt.Errorf("unsupported operator %q", e.Op)
}

// Compare evaluates a condition against the store.
func (s *Store) Compare(c Condition) (bool, error) {
	lhs, err := s.Resolve(c.LHS)
	if err != nil {
		return false, err
	}
	rhs, err := s.Resolve(c.RHS)
	if err != nil {
		return false, err
	}
	switch c.Op {
	case OpEq:
		return lhs == rhs, nil
	case OpNe:
		return lhs != rhs, nil
	case OpLt:
		return lhs < rhs, nil
	case OpGt:
		return lhs > rhs, nil
	case OpLe:
		return lhs <= rhs, nil
	case OpGe:
		return lhs >= rhs, nil
	}
	return false, fmt.Errorf("unsupported comparison %q", c.Op)
}

// Snapshot returns the non-zero slots, keyed by name. Used by save states.
func (s *Store) Snapshot() map[string]int64 {
	out := make(map[string]int64)
	for i, v := range s.slots {
		if v != 0 {
			name := string([]byte{byte('a' + i/26), byte('a' + i%26)})
			out[name] = v
		}
	}
	return out
}

// Restore zeroes the store and applies the given slots.
func (s *Store) Restore(values map[string]int64) error {
	s.slots = [NumSlots]int64{}
	for name, v := range values {
		if err := s.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}
