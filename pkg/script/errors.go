package script

import "fmt"

// SyntaxError reports a malformed line. Parse errors are fatal to loading
// the script; there is no recovery mid-parse.
type SyntaxError struct {
	Line int    // 1-based source line
	Text string // offending text, comment-stripped
	Msg  string
}

func (e *SyntaxError) Error() string {
	if e.Text == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}
	return fmt.Sprintf("line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// UnterminatedBlockError reports a block opener left open at end of input.
type UnterminatedBlockError struct {
	Directive string // opening directive name
	Line      int    // line the block was opened on
}

func (e *UnterminatedBlockError) Error() string {
	return fmt.Sprintf("line %d: unterminated .%s block", e.Line, e.Directive)
}
