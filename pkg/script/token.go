// Package script turns visual-novel script text into an executable
// instruction sequence. The lexer produces one token per logical line,
// the command table validates directive arguments, and the parser builds
// a flat instruction list with precomputed skip targets for every block.
package script

import "strconv"

// TokenKind classifies a logical script line.
type TokenKind int

const (
	TokenBlank TokenKind = iota
	TokenDirective
	TokenText
	TokenAssign
)

// ValueKind classifies a directive argument value.
type ValueKind int

const (
	ValueIdent ValueKind = iota
	ValueInt
	ValueFloat
)

// Value is a typed directive argument: an identifier, a signed integer,
// or a decimal number.
type Value struct {
	Kind  ValueKind `json:"kind"`
	Str   string    `json:"str,omitempty"`
	Int   int64     `json:"int,omitempty"`
	Float float64   `json:"float,omitempty"`
}

func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.FormatInt(v.Int, 10)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	}
	return v.Str
}

// KeyValue is a "key = value" pair from a directive argument list.
// Pairs keep their source order.
type KeyValue struct {
	Key   string `json:"key"`
	Value Value  `json:"value"`
}

// Token is one comment-stripped, whitespace-trimmed logical line.
// Indentation carries no meaning.
type Token struct {
	Kind TokenKind
	Line int // 1-based source line

	// Directive fields
	Name   string     // directive name, without the '.' sigil
	Args   []Value    // positional arguments
	Kwargs []KeyValue // keyword arguments, source order
	Tail   string     // bare tail for ".branch 2:" / ".if $aa == 5:" headers, colon stripped

	// Text line content
	Text string

	// Assignment fields
	VarName  string // two-letter variable name, without the '$' sigil
	AssignOp string // "=", "+=", "-=", "*=" or "/="
	ExprText string // raw right-hand side
}
