package script

import (
	"strconv"
	"strings"
)

// Lex splits raw script text into tokens, one per logical line. Comments
// run from '#' to end of line and may start anywhere. Leading and trailing
// whitespace is insignificant.
func Lex(source string) ([]Token, error) {
	lines := strings.Split(source, "\n")
	tokens := make([]Token, 0, len(lines))

	for i, raw := range lines {
		line := i + 1
		text := raw
		if j := strings.IndexByte(text, '#'); j >= 0 {
			text = text[:j]
		}
		text = strings.TrimSpace(text)

		switch {
		case text == "":
			tokens = append(tokens, Token{Kind: TokenBlank, Line: line})
		case strings.HasPrefix(text, "."):
			tok, err := lexDirective(text, line)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		case strings.HasPrefix(text, "$"):
			tok, err := lexAssignment(text, line)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
		default:
			tokens = append(tokens, Token{Kind: TokenText, Line: line, Text: text})
		}
	}
	return tokens, nil
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' || c == '_'
}

// lexDirective parses ".name", ".name(args)" and ".name tail:".
func lexDirective(text string, line int) (Token, error) {
	rest := text[1:]
	end := 0
	for end < len(rest) && isIdentByte(rest[end]) {
		end++
	}
	if end == 0 {
		return Token{}, &SyntaxError{Line: line, Text: text, Msg: "directive has no name"}
	}
	tok := Token{Kind: TokenDirective, Line: line, Name: rest[:end]}
	rest = strings.TrimSpace(rest[end:])

	if rest == "" {
		return tok, nil
	}

	if strings.HasPrefix(rest, "(") {
		if !strings.HasSuffix(rest, ")") {
			return Token{}, &SyntaxError{Line: line, Text: text, Msg: "unbalanced parentheses"}
		}
		inner := rest[1 : len(rest)-1]
		if strings.ContainsAny(inner, "()") {
			return Token{}, &SyntaxError{Line: line, Text: text, Msg: "unbalanced parentheses"}
		}
		args, kwargs, err := lexArgList(inner, text, line)
		if err != nil {
			return Token{}, err
		}
		tok.Args = args
		tok.Kwargs = kwargs
		return tok, nil
	}

	// Bare tail form: a label or condition, with an optional trailing colon.
	tok.Tail = strings.TrimSpace(strings.TrimSuffix(rest, ":"))
	if tok.Tail == "" {
		return Token{}, &SyntaxError{Line: line, Text: text, Msg: "directive has an empty label"}
	}
	return tok, nil
}

// lexArgList splits a parenthesized argument list on commas. Pieces with
// an '=' become keyword arguments, the rest positional.
func lexArgList(inner, text string, line int) ([]Value, []KeyValue, error) {
	inner = strings.TrimSpace(inner)
	if inner == "" {
		return nil, nil, nil
	}

	var args []Value
	var kwargs []KeyValue
	for _, piece := range strings.Split(inner, ",") {
		piece = strings.TrimSpace(piece)
		if piece == "" {
			return nil, nil, &SyntaxError{Line: line, Text: text, Msg: "empty argument"}
		}
		if k, v, ok := strings.Cut(piece, "="); ok {
			key := strings.TrimSpace(k)
			if key == "" {
				return nil, nil, &SyntaxError{Line: line, Text: text, Msg: "keyword argument has no key"}
			}
			val := strings.TrimSpace(v)
			if val == "" {
				return nil, nil, &SyntaxError{Line: line, Text: text, Msg: "keyword argument has no value"}
			}
			kwargs = append(kwargs, KeyValue{Key: key, Value: lexValue(val)})
			continue
		}
		if len(kwargs) > 0 {
			return nil, nil, &SyntaxError{Line: line, Text: text, Msg: "positional argument after keyword argument"}
		}
		args = append(args, lexValue(piece))
	}
	return args, kwargs, nil
}

// lexValue types a single argument value: signed integer, decimal number,
// or identifier.
func lexValue(s string) Value {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Value{Kind: ValueInt, Int: n}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Value{Kind: ValueFloat, Float: f}
	}
	return Value{Kind: ValueIdent, Str: s}
}

// lexAssignment parses "$xy = <expr>" and the compound forms
// "$xy += / -= / *= / /= <value>".
func lexAssignment(text string, line int) (Token, error) {
	eq := strings.IndexByte(text, '=')
	if eq < 0 {
		return Token{}, &SyntaxError{Line: line, Text: text, Msg: "assignment has no '='"}
	}

	op := "="
	nameEnd := eq
	if eq > 1 {
		switch text[eq-1] {
		case '+', '-', '*', '/':
			op = text[eq-1:eq] + "="
			nameEnd = eq - 1
		}
	}

	name := strings.TrimSpace(text[1:nameEnd])
	if name == "" {
		return Token{}, &SyntaxError{Line: line, Text: text, Msg: "assignment has no variable name"}
	}
	expr := strings.TrimSpace(text[eq+1:])
	if expr == "" {
		return Token{}, &SyntaxError{Line: line, Text: text, Msg: "assignment has no value"}
	}

	return Token{
		Kind:     TokenAssign,
		Line:     line,
		VarName:  name,
		AssignOp: op,
		ExprText: expr,
	}, nil
}
