package script

import (
	"fmt"
	"strconv"
	"strings"
)

// Serialize writes the program back out as directive text. Directive
// names and argument values survive a parse/serialize round trip;
// keyword argument order is normalized and indentation is cosmetic.
func (p *Program) Serialize() string {
	var sb strings.Builder
	writeRange(&sb, p.Instructions, 0, len(p.Instructions), 0)
	return sb.String()
}

func writeRange(sb *strings.Builder, ins []Instruction, start, end, depth int) {
	indent := strings.Repeat("    ", depth)
	for i := start; i < end; i++ {
		switch in := ins[i].(type) {
		case *Effect:
			sb.WriteString(indent + formatEffect(in) + "\n")
		case *Assign:
			fmt.Fprintf(sb, "%s$%s = %s\n", indent, in.Var, in.Expr)
		case *Text:
			sb.WriteString(indent + formatTextOpen(in) + "\n")
			for _, line := range in.Lines {
				sb.WriteString(indent + "    " + line + "\n")
			}
			sb.WriteString(indent + ".text\n")
		case *Choice:
			sb.WriteString(indent + ".choice\n")
			for _, o := range in.Options {
				fmt.Fprintf(sb, "%s    %s: %s\n", indent, o.Label, o.Text)
			}
			sb.WriteString(indent + ".choice\n")
		case *BranchGroup:
			for _, b := range in.Branches {
				fmt.Fprintf(sb, "%s.branch %s:\n", indent, b.Label)
				writeRange(sb, ins, b.Start, b.End, depth+1)
				sb.WriteString(indent + ".branch\n")
			}
			i = in.End - 1
		case *If:
			fmt.Fprintf(sb, "%s.if %s:\n", indent, in.Cond)
			writeRange(sb, ins, i+1, in.Skip, depth+1)
			sb.WriteString(indent + ".if\n")
			i = in.Skip - 1
		case *Jump:
			// Branch body closers are produced by the BranchGroup case.
		}
	}
}

func formatEffect(e *Effect) string {
	if len(e.Args) == 0 {
		switch e.Name {
		case "forcequit", "hide", "show":
			return "." + e.Name
		}
		return "." + e.Name + "()"
	}
	parts := make([]string, len(e.Args))
	for i, a := range e.Args {
		parts[i] = a.String()
	}
	return fmt.Sprintf(".%s(%s)", e.Name, strings.Join(parts, ", "))
}

func formatTextOpen(t *Text) string {
	var parts []string
	if t.Params.Char != nil {
		parts = append(parts, "char = "+strconv.Itoa(*t.Params.Char))
	}
	if t.Params.Sub != nil {
		parts = append(parts, "sub = "+strconv.Itoa(*t.Params.Sub))
	}
	if t.Params.Pos != nil {
		parts = append(parts, "pos = "+strconv.Itoa(*t.Params.Pos))
	}
	if t.Params.Name != nil {
		parts = append(parts, "name = "+*t.Params.Name)
	}
	if t.Params.Skip {
		parts = append(parts, "skip = 1")
	}
	if len(parts) == 0 {
		return ".text()"
	}
	return fmt.Sprintf(".text(%s)", strings.Join(parts, ", "))
}
