package script

import "fmt"

// ParamType constrains a directive argument.
type ParamType int

const (
	ParamAny ParamType = iota
	ParamIdent
	ParamInt
	ParamFloat // accepts ints too
	ParamAnchor
	ParamTransition
)

// TailKind describes what a bare-tail directive header carries.
type TailKind int

const (
	TailNone TailKind = iota
	TailLabel     // ".branch 2:"
	TailCondition // ".if $aa == $ab:"
)

// Command is the schema for one directive: positional arity and types,
// allowed keyword arguments, and its role in block structure.
type Command struct {
	Name     string
	MinArgs  int
	MaxArgs  int // -1 for variadic
	Types    []ParamType // types for the positional prefix; last repeats if variadic
	Keywords map[string]ParamType
	Tail     TailKind
	Block    bool // opens a block; the same bare directive closes it
}

// Anchors are the nine screen anchor positions a widget or zoom target
// can attach to.
var Anchors = []string{
	"topleft", "midtop", "topright",
	"midleft", "center", "midright",
	"bottomleft", "midbottom", "bottomright",
}

// Transitions are the recognized scene transition effect kinds.
var Transitions = []string{"fade", "zoomin", "zoomout", "fadezoomin", "fadezoomout"}

// commands is the dispatch table for every directive the language knows.
var commands = map[string]*Command{
	"forcequit": {Name: "forcequit"},
	"load": {Name: "load", MinArgs: 1, MaxArgs: 2, Types: []ParamType{ParamAny, ParamInt}},
	"text": {Name: "text", Block: true, Keywords: map[string]ParamType{
		"char": ParamInt,
		"sub":  ParamInt,
		"pos":  ParamInt,
		"name": ParamIdent,
		"skip": ParamInt,
	}},
	"wait":  {Name: "wait", MinArgs: 1, MaxArgs: 1, Types: []ParamType{ParamInt}},
	"shake": {Name: "shake", MinArgs: 0, MaxArgs: 2, Types: []ParamType{ParamInt, ParamInt}},
	"choice": {Name: "choice", Block: true},
	"branch": {Name: "branch", Tail: TailLabel, Block: true},
	"if":     {Name: "if", Tail: TailCondition, Block: true},
	"setanchor": {Name: "setanchor", MinArgs: 1, MaxArgs: 1, Types: []ParamType{ParamAnchor}},
	"scenein": {Name: "scenein", MinArgs: 2, MaxArgs: 6,
		Types: []ParamType{ParamIdent, ParamIdent, ParamTransition, ParamFloat, ParamFloat, ParamFloat}},
	"sceneout": {Name: "sceneout", MinArgs: 0, MaxArgs: 4,
		Types: []ParamType{ParamTransition, ParamFloat, ParamFloat, ParamFloat}},
	"music":   {Name: "music", MinArgs: 0, MaxArgs: 1, Types: []ParamType{ParamIdent}},
	"sound":   {Name: "sound", MinArgs: 0, MaxArgs: 1, Types: []ParamType{ParamIdent}},
	"setfade": {Name: "setfade", MinArgs: 1, MaxArgs: 1, Types: []ParamType{ParamInt}},
	"hide":    {Name: "hide"},
	"show":    {Name: "show"},
	"swap":    {Name: "swap", MinArgs: 1, MaxArgs: 1, Types: []ParamType{ParamIdent}},
	"widget":  {Name: "widget", MinArgs: 2, MaxArgs: 2, Types: []ParamType{ParamIdent, ParamAnchor}},
}

// LookupCommand returns the schema for a directive name.
func LookupCommand(name string) (*Command, bool) {
	c, ok := commands[name]
	return c, ok
}

func checkValue(v Value, t ParamType) error {
	switch t {
	case ParamAny:
		return nil
	case ParamIdent:
		if v.Kind != ValueIdent {
			return fmt.Errorf("expected identifier, got %q", v)
		}
	case ParamInt:
		if v.Kind != ValueInt {
			return fmt.Errorf("expected integer, got %q", v)
		}
	case ParamFloat:
		if v.Kind != ValueInt && v.Kind != ValueFloat {
			return fmt.Errorf("expected number, got %q", v)
		}
	case ParamAnchor:
		for _, a := range Anchors {
			if v.Kind == ValueIdent && v.Str == a {
				return nil
			}
		}
		return fmt.Errorf("unrecognized anchor %q", v)
	case ParamTransition:
		for _, t := range Transitions {
			if v.Kind == ValueIdent && v.Str == t {
				return nil
			}
		}
		return fmt.Errorf("unrecognized transition %q", v)
	}
	return nil
}

// Validate checks a directive token against its schema. It does not
// decide block structure; that is the parser's job.
func (c *Command) Validate(tok Token) error {
	if len(tok.Args) < c.MinArgs {
		return &SyntaxError{Line: tok.Line, Text: "." + tok.Name,
			Msg: fmt.Sprintf("directive .%s needs at least %d argument(s)", c.Name, c.MinArgs)}
	}
	if c.MaxArgs >= 0 && len(tok.Args) > c.MaxArgs {
		return &SyntaxError{Line: tok.Line, Text: "." + tok.Name,
			Msg: fmt.Sprintf("directive .%s takes at most %d argument(s)", c.Name, c.MaxArgs)}
	}
	for i, v := range tok.Args {
		t := ParamAny
		if i < len(c.Types) {
			t = c.Types[i]
		} else if len(c.Types) > 0 && c.MaxArgs < 0 {
			t = c.Types[len(c.Types)-1]
		}
		if err := checkValue(v, t); err != nil {
			return &SyntaxError{Line: tok.Line, Text: "." + tok.Name,
				Msg: fmt.Sprintf("argument %d of .%s: %v", i+1, c.Name, err)}
		}
	}
	for _, kv := range tok.Kwargs {
		t, ok := c.Keywords[kv.Key]
		if !ok {
			return &SyntaxError{Line: tok.Line, Text: "." + tok.Name,
				Msg: fmt.Sprintf("directive .%s has no keyword %q", c.Name, kv.Key)}
		}
		if err := checkValue(kv.Value, t); err != nil {
			return &SyntaxError{Line: tok.Line, Text: "." + tok.Name,
				Msg: fmt.Sprintf("keyword %q of .%s: %v", kv.Key, c.Name, err)}
		}
	}
	if c.Tail == TailNone && tok.Tail != "" {
		return &SyntaxError{Line: tok.Line, Text: "." + tok.Name,
			Msg: fmt.Sprintf("directive .%s takes no label", c.Name)}
	}
	return nil
}
