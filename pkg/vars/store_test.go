package vars

import (
	"errors"
	"testing"
)

func TestStoreGetSet(t *testing.T) {
	s := NewStore()

	v, err := s.Get("aa")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != 0 {
		t.Errorf("Expected fresh slot to be 0, got %d", v)
	}

	if err := s.Set("qx", 42); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, err = s.Get("qx")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != 42 {
		t.Errorf("Expected 42, got %d", v)
	}

	// Distinct names use distinct slots.
	if err := s.Set("xq", 7); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, _ = s.Get("qx")
	if v != 42 {
		t.Errorf("Slot qx changed to %d after writing xq", v)
	}
}

func TestStoreUnknownVariable(t *testing.T) {
	s := NewStore()

	for _, name := range []string{"", "a", "abc", "A1", "aA", "1a", "$aa"} {
		if _, err := s.Get(name); err == nil {
			t.Errorf("Expected error for name %q", name)
		} else {
			var unknownErr *UnknownVariableError
			if !errors.As(err, &unknownErr) {
				t.Errorf("Expected UnknownVariableError for %q, got %T", name, err)
			}
		}
		if err := s.Set(name, 1); err == nil {
			t.Errorf("Expected Set error for name %q", name)
		}
	}
}

func TestValidName(t *testing.T) {
	if !ValidName("aa") || !ValidName("zz") || !ValidName("mq") {
		t.Error("Expected two-lowercase-letter names to be valid")
	}
	if ValidName("a1") || ValidName("aaa") || ValidName("") {
		t.Error("Expected malformed names to be invalid")
	}
}

func TestStoreEval(t *testing.T) {
	s := NewStore()
	if err := s.Set("aa", 10); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if err := s.Set("bb", 3); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	tests := []struct {
		name     string
		expr     string
		expected int64
	}{
		{"literal", "5", 5},
		{"negative literal", "-5", -5},
		{"variable", "$aa", 10},
		{"addition", "$aa + $bb", 13},
		{"subtraction", "$aa - 4", 6},
		{"multiplication", "$aa * $bb", 30},
		{"division truncates", "$aa / $bb", 3},
		{"literal both sides", "6 / 2", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := ParseExpr(tt.expr)
			if err != nil {
				t.Fatalf("ParseExpr(%q) failed: %v", tt.expr, err)
			}
			v, err := s.Eval(e)
			if err != nil {
				t.Fatalf("Eval(%q) failed: %v", tt.expr, err)
			}
			if v != tt.expected {
				t.Errorf("Eval(%q) = %d, expected %d", tt.expr, v, tt.expected)
			}
		})
	}
}

func TestStoreEvalDivideByZero(t *testing.T) {
	s := NewStore()
	e, err := ParseExpr("$aa / $bb")
	if err != nil {
		t.Fatalf("ParseExpr failed: %v", err)
	}
	if _, err := s.Eval(e); !errors.Is(err, ErrDivideByZero) {
		t.Errorf("Expected ErrDivideByZero, got %v", err)
	}
}

func TestStoreCompare(t *testing.T) {
	s := NewStore()
	if err := s.Set("aa", 10); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	tests := []struct {
		cond     string
		expected bool
	}{
		{"$aa == 10", true},
		{"$aa == 9", false},
		{"$aa != 9", true},
		{"$aa != 10", false},
		{"$aa < 11", true},
		{"$aa < 10", false},
		{"$aa > 9", true},
		{"$aa > 10", false},
		{"$aa <= 10", true},
		{"$aa <= 9", false},
		{"$aa >= 10", true},
		{"$aa >= 11", false},
		{"$zz == 0", true}, // unset slots read as zero
	}

	for _, tt := range tests {
		t.Run(tt.cond, func(t *testing.T) {
			c, err := ParseCondition(tt.cond)
			if err != nil {
				t.Fatalf("ParseCondition(%q) failed: %v", tt.cond, err)
			}
			got, err := s.Compare(c)
			if err != nil {
				t.Fatalf("Compare(%q) failed: %v", tt.cond, err)
			}
			if got != tt.expected {
				t.Errorf("Compare(%q) = %v, expected %v", tt.cond, got, tt.expected)
			}
		})
	}
}

func TestStoreSnapshotRestore(t *testing.T) {
	s := NewStore()
	_ = s.Set("aa", 1)
	_ = s.Set("mq", -7)
	_ = s.Set("zz", 99)

	snap := s.Snapshot()
	if len(snap) != 3 {
		t.Fatalf("Expected 3 non-zero slots in snapshot, got %d", len(snap))
	}
	if snap["mq"] != -7 {
		t.Errorf("Expected mq = -7 in snapshot, got %d", snap["mq"])
	}

	restored := NewStore()
	_ = restored.Set("bb", 123) // must be cleared by Restore
	if err := restored.Restore(snap); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	for name, want := range snap {
		v, _ := restored.Get(name)
		if v != want {
			t.Errorf("Restored %s = %d, expected %d", name, v, want)
		}
	}
	if v, _ := restored.Get("bb"); v != 0 {
		t.Errorf("Expected Restore to zero unlisted slots, bb = %d", v)
	}
}

func TestStoreRestoreRejectsBadNames(t *testing.T) {
	s := NewStore()
	if err := s.Restore(map[string]int64{"nope": 1}); err == nil {
		t.Error("Expected error restoring an out-of-namespace name")
	}
}
