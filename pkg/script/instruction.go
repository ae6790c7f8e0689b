package script

import "github.com/vnovel/novella/pkg/vars"

// Instruction is one executable unit in a parsed program. Block bodies
// occupy slots of the same flat sequence; block headers carry precomputed
// skip targets so control flow never re-scans.
type Instruction interface {
	// SourceLine is the 1-based line the instruction came from.
	SourceLine() int
}

// Program is a parsed script: a flat instruction sequence addressable by
// program counter.
type Program struct {
	Name         string // script identifier, e.g. the scene file stem
	Instructions []Instruction
}

// Effect is an opaque, non-branching directive forwarded to the stage
// collaborator: music, sound, scene transitions, widgets and the rest.
type Effect struct {
	Name string
	Args []Value
	Line int
}

// TextParams are the optional speaker parameters of a text block. Nil
// fields were omitted in the script and inherit the current speaker
// context at execution time.
type TextParams struct {
	Char *int
	Sub  *int
	Pos  *int
	Name *string
	Skip bool // suppress the dialogue line (pose change only)
}

// Text is a dialogue unit: speaker parameters plus one or more lines,
// shown together and advanced by a single advance event.
type Text struct {
	Params TextParams
	Lines  []string
	Line   int
}

// Option is one selectable entry of a choice block.
type Option struct {
	Label string
	Text  string
}

// Choice presents its options together and suspends execution until the
// host reports a selection. Group is the index of the branch group that
// resolves the selection, or -1 if none follows.
type Choice struct {
	Options []Option
	Group   int
	Line    int
}

// Branch is one labeled body inside a branch group. Body instructions
// occupy [Start, End); the instruction at End is the Jump back out.
type Branch struct {
	Label string
	Start int
	End   int
	Line  int
}

// BranchGroup heads a contiguous run of branches. Exactly one branch
// executes per traversal; reached linearly with no resolved choice, the
// whole group is skipped to End.
type BranchGroup struct {
	Branches []Branch
	End      int // index just past the last branch body's jump
	Line     int
}

// Jump is an unconditional transfer, emitted at each branch body close.
type Jump struct {
	Target int
	Line   int
}

// If guards its body with a condition. On false, control moves to Skip,
// the index just past the block's closer.
type If struct {
	Cond vars.Condition
	Skip int
	Line int
}

// Assign mutates one variable. Compound forms ($xy += 2) are desugared
// at parse time.
type Assign struct {
	Var  string
	Expr vars.Expr
	Line int
}

func (e *Effect) SourceLine() int      { return e.Line }
func (t *Text) SourceLine() int        { return t.Line }
func (c *Choice) SourceLine() int      { return c.Line }
func (g *BranchGroup) SourceLine() int { return g.Line }
func (j *Jump) SourceLine() int        { return j.Line }
func (i *If) SourceLine() int          { return i.Line }
func (a *Assign) SourceLine() int      { return a.Line }

// Arg returns the i-th positional argument, or a zero Value.
func (e *Effect) Arg(i int) Value {
	if i < 0 || i >= len(e.Args) {
		return Value{}
	}
	return e.Args[i]
}

// FindBranch returns the branch with the given label.
func (g *BranchGroup) FindBranch(label string) (Branch, bool) {
	for _, b := range g.Branches {
		if b.Label == label {
			return b, true
		}
	}
	return Branch{}, false
}

// HasOption reports whether label is among the offered options.
func (c *Choice) HasOption(label string) bool {
	for _, o := range c.Options {
		if o.Label == label {
			return true
		}
	}
	return false
}
