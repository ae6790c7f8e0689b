package script

import (
	"errors"
	"testing"
)

// lexOne is a helper for single-line lexer tests.
func lexOne(t *testing.T, line string) Token {
	t.Helper()
	tokens, err := Lex(line)
	if err != nil {
		t.Fatalf("Lex(%q) failed: %v", line, err)
	}
	if len(tokens) != 1 {
		t.Fatalf("Lex(%q) produced %d tokens, expected 1", line, len(tokens))
	}
	return tokens[0]
}

func TestLexDirectiveForms(t *testing.T) {
	tok := lexOne(t, ".forcequit")
	if tok.Kind != TokenDirective || tok.Name != "forcequit" {
		t.Errorf("Unexpected token %+v", tok)
	}
	if len(tok.Args) != 0 || tok.Tail != "" {
		t.Errorf("Expected bare directive, got %+v", tok)
	}

	tok = lexOne(t, ".load(takumi, 2)")
	if tok.Name != "load" || len(tok.Args) != 2 {
		t.Fatalf("Unexpected token %+v", tok)
	}
	if tok.Args[0].Kind != ValueIdent || tok.Args[0].Str != "takumi" {
		t.Errorf("Expected identifier arg, got %+v", tok.Args[0])
	}
	if tok.Args[1].Kind != ValueInt || tok.Args[1].Int != 2 {
		t.Errorf("Expected integer arg, got %+v", tok.Args[1])
	}

	tok = lexOne(t, ".scenein(school, rooftop, fadezoomin, 1.5)")
	if tok.Args[3].Kind != ValueFloat || tok.Args[3].Float != 1.5 {
		t.Errorf("Expected float arg, got %+v", tok.Args[3])
	}

	tok = lexOne(t, ".text(char = 1, name = yuki)")
	if len(tok.Kwargs) != 2 {
		t.Fatalf("Expected 2 kwargs, got %+v", tok.Kwargs)
	}
	if tok.Kwargs[0].Key != "char" || tok.Kwargs[0].Value.Int != 1 {
		t.Errorf("Unexpected kwarg %+v", tok.Kwargs[0])
	}
	if tok.Kwargs[1].Key != "name" || tok.Kwargs[1].Value.Str != "yuki" {
		t.Errorf("Unexpected kwarg %+v", tok.Kwargs[1])
	}
}

func TestLexDirectiveTails(t *testing.T) {
	tok := lexOne(t, ".branch 2:")
	if tok.Name != "branch" || tok.Tail != "2" {
		t.Errorf("Unexpected token %+v", tok)
	}

	// The trailing colon is optional.
	tok = lexOne(t, ".branch yes")
	if tok.Tail != "yes" {
		t.Errorf("Expected tail %q, got %q", "yes", tok.Tail)
	}

	tok = lexOne(t, ".if $aa == 5:")
	if tok.Name != "if" || tok.Tail != "$aa == 5" {
		t.Errorf("Unexpected token %+v", tok)
	}
}

func TestLexCommentsAndBlanks(t *testing.T) {
	tokens, err := Lex("# full line comment\n\n  .show  # trailing comment\n   \t ")
	if err != nil {
		t.Fatalf("Lex failed: %v", err)
	}
	if len(tokens) != 4 {
		t.Fatalf("Expected 4 tokens, got %d", len(tokens))
	}
	if tokens[0].Kind != TokenBlank || tokens[1].Kind != TokenBlank || tokens[3].Kind != TokenBlank {
		t.Error("Expected comment-only and empty lines to lex as blanks")
	}
	if tokens[2].Kind != TokenDirective || tokens[2].Name != "show" {
		t.Errorf("Unexpected token %+v", tokens[2])
	}
	if tokens[2].Line != 3 {
		t.Errorf("Expected line 3, got %d", tokens[2].Line)
	}
}

func TestLexTextLine(t *testing.T) {
	tok := lexOne(t, "   It was raining again.   ")
	if tok.Kind != TokenText || tok.Text != "It was raining again." {
		t.Errorf("Unexpected token %+v", tok)
	}
}

func TestLexAssignments(t *testing.T) {
	tests := []struct {
		input string
		name  string
		op    string
		expr  string
	}{
		{"$aa = 5", "aa", "=", "5"},
		{"$aa = $ab + 1", "aa", "=", "$ab + 1"},
		{"$fl += 1", "fl", "+=", "1"},
		{"$fl -= $aa", "fl", "-=", "$aa"},
		{"$fl *= 2", "fl", "*=", "2"},
		{"$fl /= 2", "fl", "/=", "2"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tok := lexOne(t, tt.input)
			if tok.Kind != TokenAssign {
				t.Fatalf("Expected assignment token, got %+v", tok)
			}
			if tok.VarName != tt.name || tok.AssignOp != tt.op || tok.ExprText != tt.expr {
				t.Errorf("Lex(%q) = {%s %s %s}, expected {%s %s %s}",
					tt.input, tok.VarName, tok.AssignOp, tok.ExprText, tt.name, tt.op, tt.expr)
			}
		})
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unbalanced open paren", ".load(takumi"},
		{"nested parens", ".load((takumi))"},
		{"no directive name", ". load"},
		{"empty argument", ".load(a, , b)"},
		{"positional after keyword", ".text(char = 1, 5)"},
		{"keyword without key", ".text(= 1)"},
		{"keyword without value", ".text(char = )"},
		{"assignment without value", "$aa = "},
		{"assignment without name", "$ = 5"},
		{"assignment without equals", "$aa 5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Lex(tt.input)
			if err == nil {
				t.Fatalf("Lex(%q) expected error", tt.input)
			}
			var syntaxErr *SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Expected SyntaxError, got %T", err)
			}
			if syntaxErr.Line != 1 {
				t.Errorf("Expected error on line 1, got %d", syntaxErr.Line)
			}
		})
	}
}
