package script

import (
	"fmt"
	"strings"

	"github.com/vnovel/novella/pkg/vars"
)

// Parse lexes and parses a script into a program. The name becomes the
// program's script identifier.
func Parse(name, source string) (*Program, error) {
	tokens, err := Lex(source)
	if err != nil {
		return nil, err
	}
	p := &parser{name: name}
	return p.run(tokens)
}

type openBlock struct {
	name  string
	line  int
	instr int // index of the block's header instruction
}

type parser struct {
	name string
	out  []Instruction

	// if/branch block stack
	stack []openBlock

	// text collection mode
	text *Text

	// choice collection mode
	choice *Choice

	// branch group under construction
	group      *BranchGroup
	groupIdx   int
	groupJumps []int
	inBranch   bool
	afterClose bool // a branch body just closed; the group is extendable
}

func (p *parser) run(tokens []Token) (*Program, error) {
	for _, tok := range tokens {
		if tok.Kind == TokenBlank {
			continue
		}

		// A branch group ends at the first token that does not open
		// another branch.
		if p.afterClose && !(tok.Kind == TokenDirective && tok.Name == "branch" && tok.Tail != "") {
			p.finishGroup()
		}

		if p.text != nil {
			if err := p.collectText(tok); err != nil {
				return nil, err
			}
			continue
		}
		if p.choice != nil {
			if err := p.collectChoice(tok); err != nil {
				return nil, err
			}
			continue
		}

		var err error
		switch tok.Kind {
		case TokenText:
			err = &SyntaxError{Line: tok.Line, Text: tok.Text, Msg: "text outside a .text block"}
		case TokenAssign:
			err = p.parseAssign(tok)
		case TokenDirective:
			err = p.parseDirective(tok)
		}
		if err != nil {
			return nil, err
		}
	}

	if p.text != nil {
		return nil, &UnterminatedBlockError{Directive: "text", Line: p.text.Line}
	}
	if p.choice != nil {
		return nil, &UnterminatedBlockError{Directive: "choice", Line: p.choice.Line}
	}
	if len(p.stack) > 0 {
		top := p.stack[len(p.stack)-1]
		return nil, &UnterminatedBlockError{Directive: top.name, Line: top.line}
	}
	if p.afterClose {
		p.finishGroup()
	}

	p.linkChoices()
	return &Program{Name: p.name, Instructions: p.out}, nil
}

func (p *parser) parseDirective(tok Token) error {
	cmd, ok := LookupCommand(tok.Name)
	if !ok {
		return &SyntaxError{Line: tok.Line, Text: "." + tok.Name, Msg: "unknown directive"}
	}
	if err := cmd.Validate(tok); err != nil {
		return err
	}

	switch tok.Name {
	case "text":
		p.text = &Text{Params: textParams(tok), Line: tok.Line}
		return nil
	case "choice":
		p.choice = &Choice{Line: tok.Line}
		return nil
	case "branch":
		if tok.Tail != "" {
			return p.openBranch(tok)
		}
		return p.closeBranch(tok)
	case "if":
		if tok.Tail != "" {
			return p.openIf(tok)
		}
		return p.closeIf(tok)
	}

	p.out = append(p.out, &Effect{Name: tok.Name, Args: tok.Args, Line: tok.Line})
	return nil
}

// collectText accumulates dialogue lines until the bare .text closer.
// Text blocks cannot nest, so they bypass the block stack.
func (p *parser) collectText(tok Token) error {
	switch tok.Kind {
	case TokenText:
		p.text.Lines = append(p.text.Lines, tok.Text)
		return nil
	case TokenDirective:
		if tok.Name == "text" && len(tok.Args) == 0 && len(tok.Kwargs) == 0 && tok.Tail == "" {
			p.out = append(p.out, p.text)
			p.text = nil
			return nil
		}
	}
	return &SyntaxError{Line: tok.Line, Text: rawOf(tok), Msg: "only dialogue lines may appear inside a .text block"}
}

// collectChoice accumulates "label: display" options until the bare
// .choice closer. Labels must be unique within the block.
func (p *parser) collectChoice(tok Token) error {
	switch tok.Kind {
	case TokenText:
		label, display, ok := strings.Cut(tok.Text, ":")
		label = strings.TrimSpace(label)
		if !ok || label == "" || strings.ContainsAny(label, " \t") {
			return &SyntaxError{Line: tok.Line, Text: tok.Text, Msg: "malformed choice option, want \"label: text\""}
		}
		if p.choice.HasOption(label) {
			return &SyntaxError{Line: tok.Line, Text: tok.Text, Msg: fmt.Sprintf("duplicate choice label %q", label)}
		}
		p.choice.Options = append(p.choice.Options, Option{Label: label, Text: strings.TrimSpace(display)})
		return nil
	case TokenDirective:
		if tok.Name == "choice" && len(tok.Args) == 0 && len(tok.Kwargs) == 0 && tok.Tail == "" {
			if len(p.choice.Options) == 0 {
				return &SyntaxError{Line: tok.Line, Text: ".choice", Msg: "choice block has no options"}
			}
			p.out = append(p.out, p.choice)
			p.choice = nil
			return nil
		}
	}
	return &SyntaxError{Line: tok.Line, Text: rawOf(tok), Msg: "only options may appear inside a .choice block"}
}

func (p *parser) openBranch(tok Token) error {
	if p.inBranch {
		return &SyntaxError{Line: tok.Line, Text: ".branch " + tok.Tail, Msg: "branch blocks do not nest"}
	}
	label := tok.Tail
	if strings.ContainsAny(label, " \t") {
		return &SyntaxError{Line: tok.Line, Text: ".branch " + tok.Tail, Msg: "branch label must be a single token"}
	}

	if p.group == nil {
		p.group = &BranchGroup{Line: tok.Line}
		p.groupIdx = len(p.out)
		p.out = append(p.out, p.group)
	}
	if _, dup := p.group.FindBranch(label); dup {
		return &SyntaxError{Line: tok.Line, Text: ".branch " + tok.Tail, Msg: fmt.Sprintf("duplicate branch label %q", label)}
	}
	p.group.Branches = append(p.group.Branches, Branch{Label: label, Start: len(p.out), Line: tok.Line})
	p.stack = append(p.stack, openBlock{name: "branch", line: tok.Line, instr: p.groupIdx})
	p.inBranch = true
	p.afterClose = false
	return nil
}

func (p *parser) closeBranch(tok Token) error {
	if n := len(p.stack); n == 0 || p.stack[n-1].name != "branch" {
		return &SyntaxError{Line: tok.Line, Text: ".branch", Msg: "no open branch block to close"}
	}
	p.stack = p.stack[:len(p.stack)-1]

	// The closer becomes a jump past the whole group, patched once the
	// group's extent is known.
	jumpIdx := len(p.out)
	p.out = append(p.out, &Jump{Target: -1, Line: tok.Line})
	p.groupJumps = append(p.groupJumps, jumpIdx)

	br := &p.group.Branches[len(p.group.Branches)-1]
	br.End = jumpIdx

	p.inBranch = false
	p.afterClose = true
	return nil
}

func (p *parser) finishGroup() {
	p.group.End = len(p.out)
	for _, j := range p.groupJumps {
		p.out[j].(*Jump).Target = p.group.End
	}
	p.group = nil
	p.groupJumps = nil
	p.afterClose = false
}

func (p *parser) openIf(tok Token) error {
	cond, err := vars.ParseCondition(tok.Tail)
	if err != nil {
		return &SyntaxError{Line: tok.Line, Text: ".if " + tok.Tail, Msg: err.Error()}
	}
	p.stack = append(p.stack, openBlock{name: "if", line: tok.Line, instr: len(p.out)})
	p.out = append(p.out, &If{Cond: cond, Skip: -1, Line: tok.Line})
	return nil
}

func (p *parser) closeIf(tok Token) error {
	if n := len(p.stack); n == 0 || p.stack[n-1].name != "if" {
		return &SyntaxError{Line: tok.Line, Text: ".if", Msg: "no open if block to close"}
	}
	top := p.stack[len(p.stack)-1]
	p.stack = p.stack[:len(p.stack)-1]
	p.out[top.instr].(*If).Skip = len(p.out)
	return nil
}

func (p *parser) parseAssign(tok Token) error {
	if !vars.ValidName(tok.VarName) {
		return &SyntaxError{Line: tok.Line, Text: "$" + tok.VarName,
			Msg: "variable names are two lowercase letters (aa..zz)"}
	}

	var expr vars.Expr
	if tok.AssignOp == "=" {
		e, err := vars.ParseExpr(tok.ExprText)
		if err != nil {
			return &SyntaxError{Line: tok.Line, Text: tok.ExprText, Msg: err.Error()}
		}
		expr = e
	} else {
		// Compound form: $xy += v desugars to $xy = $xy + v.
		rhs, err := vars.ParseOperand(tok.ExprText)
		if err != nil {
			return &SyntaxError{Line: tok.Line, Text: tok.ExprText, Msg: err.Error()}
		}
		expr = vars.Expr{
			LHS: vars.Operand{Var: tok.VarName},
			Op:  tok.AssignOp[:1],
			RHS: rhs,
		}
	}

	p.out = append(p.out, &Assign{Var: tok.VarName, Expr: expr, Line: tok.Line})
	return nil
}

// linkChoices records, for every choice, the branch group that resolves
// its selection: the instruction immediately after it.
func (p *parser) linkChoices() {
	for i, in := range p.out {
		ch, ok := in.(*Choice)
		if !ok {
			continue
		}
		ch.Group = -1
		if i+1 < len(p.out) {
			if _, ok := p.out[i+1].(*BranchGroup); ok {
				ch.Group = i + 1
			}
		}
	}
}

func textParams(tok Token) TextParams {
	var tp TextParams
	for _, kv := range tok.Kwargs {
		switch kv.Key {
		case "char":
			v := int(kv.Value.Int)
			tp.Char = &v
		case "sub":
			v := int(kv.Value.Int)
			tp.Sub = &v
		case "pos":
			v := int(kv.Value.Int)
			tp.Pos = &v
		case "name":
			v := kv.Value.String()
			tp.Name = &v
		case "skip":
			tp.Skip = kv.Value.Int != 0
		}
	}
	return tp
}

func rawOf(tok Token) string {
	switch tok.Kind {
	case TokenDirective:
		return "." + tok.Name
	case TokenAssign:
		return "$" + tok.VarName
	}
	return tok.Text
}
