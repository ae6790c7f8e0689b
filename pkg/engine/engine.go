// Package engine interprets a parsed script as a resumable sequence of
// effects. The engine is single-threaded and cooperative: it owns no
// timers or goroutines, suspends at points that need external input, and
// is driven by three host events (advance, select, tick). Hosts must
// serialize calls on one engine instance.
package engine

import (
	"fmt"
	"log/slog"

	"github.com/vnovel/novella/pkg/save"
	"github.com/vnovel/novella/pkg/script"
	"github.com/vnovel/novella/pkg/vars"
)

// Status is the engine's execution state. Any status other than
// StatusRunning and StatusHalted is a suspension awaiting one specific
// host event.
type Status int

const (
	StatusRunning Status = iota
	StatusText           // waiting for Advance
	StatusChoice         // waiting for Select
	StatusWait           // waiting for Tick
	StatusHalted
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusText:
		return "suspended on text"
	case StatusChoice:
		return "suspended on choice"
	case StatusWait:
		return "suspended on wait"
	case StatusHalted:
		return "halted"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Speaker is the inherited text-block context: the last-set character
// bank, sub-image, screen position and display name. Omitted text
// parameters keep these values; only an explicit character clear resets
// them.
type Speaker struct {
	Char int
	Sub  int
	Pos  int
	Name string
}

// Engine walks a program by program counter, dispatching effects to the
// stage and suspending on text, choices and waits.
type Engine struct {
	prog    *script.Program
	stage   Stage
	store   *vars.Store
	logger  *slog.Logger
	pc      int
	status  Status
	speaker Speaker

	remaining int            // frames left in a wait suspension
	choice    *script.Choice // the suspended choice

	// last-dispatched presentation state, carried into snapshots
	music  string
	widget string
}

// New creates an engine over a parsed program. A nil stage discards
// effects; a nil logger uses slog's default.
func New(prog *script.Program, stage Stage, logger *slog.Logger) *Engine {
	if stage == nil {
		stage = NopStage{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		prog:   prog,
		stage:  stage,
		store:  vars.NewStore(),
		logger: logger,
	}
}

// Status returns the engine's current execution state.
func (e *Engine) Status() Status { return e.status }

// PC returns the current program counter.
func (e *Engine) PC() int { return e.pc }

// Vars exposes the engine-owned variable store.
func (e *Engine) Vars() *vars.Store { return e.store }

// Speaker returns the current speaker context.
func (e *Engine) Speaker() Speaker { return e.speaker }

// Remaining returns the frames left in a wait suspension.
func (e *Engine) Remaining() int { return e.remaining }

// Options returns the options of the suspended choice, or nil.
func (e *Engine) Options() []script.Option {
	if e.choice == nil {
		return nil
	}
	return e.choice.Options
}

// Run executes instructions until the engine suspends, halts cleanly at
// end of program, or fails. Call it once to start; the event methods
// continue execution internally.
func (e *Engine) Run() error {
	if e.status == StatusHalted {
		return &EngineHaltedError{}
	}
	if e.status != StatusRunning {
		return &UnexpectedEventError{Event: "run", Status: e.status}
	}
	return e.run()
}

// Advance resumes a text suspension.
func (e *Engine) Advance() error {
	if e.status == StatusHalted {
		return &EngineHaltedError{}
	}
	if e.status != StatusText {
		return &UnexpectedEventError{Event: "advance", Status: e.status}
	}
	e.status = StatusRunning
	e.pc++
	return e.run()
}

// Select resumes a choice suspension with the chosen label. Execution
// jumps to the matching branch of the group following the choice.
func (e *Engine) Select(label string) error {
	if e.status == StatusHalted {
		return &EngineHaltedError{}
	}
	if e.status != StatusChoice {
		return &UnexpectedEventError{Event: "select", Status: e.status}
	}
	ch := e.choice
	if !ch.HasOption(label) {
		return &InvalidChoiceError{Label: label, Line: ch.Line}
	}
	if ch.Group < 0 {
		return &InvalidChoiceError{Label: label, Line: ch.Line}
	}
	group := e.prog.Instructions[ch.Group].(*script.BranchGroup)
	br, ok := group.FindBranch(label)
	if !ok {
		return &InvalidChoiceError{Label: label, Line: group.Line}
	}
	e.choice = nil
	e.status = StatusRunning
	e.pc = br.Start
	return e.run()
}

// Tick resumes a wait suspension by the given number of elapsed frames.
// The suspension ends when the countdown reaches zero.
func (e *Engine) Tick(frames int) error {
	if e.status == StatusHalted {
		return &EngineHaltedError{}
	}
	if e.status != StatusWait {
		return &UnexpectedEventError{Event: "tick", Status: e.status}
	}
	e.remaining -= frames
	if e.remaining > 0 {
		return nil
	}
	e.remaining = 0
	e.status = StatusRunning
	e.pc++
	return e.run()
}

// run is the interpreter loop. It leaves the engine either suspended,
// halted, or failed (failed engines are halted too).
func (e *Engine) run() error {
	for e.status == StatusRunning {
		if e.pc >= len(e.prog.Instructions) {
			e.logger.Debug("script finished", "script", e.prog.Name, "pc", e.pc)
			e.status = StatusHalted
			return nil
		}
		if err := e.step(e.prog.Instructions[e.pc]); err != nil {
			e.status = StatusHalted
			return err
		}
	}
	return nil
}

func (e *Engine) step(in script.Instruction) error {
	switch in := in.(type) {
	case *script.Effect:
		return e.stepEffect(in)

	case *script.Text:
		e.applySpeaker(in.Params)
		if in.Params.Skip {
			// Pose change only; nothing to read, nothing to wait for.
			e.pc++
			return nil
		}
		if err := e.stage.ShowText(e.speaker, in.Lines); err != nil {
			return &RuntimeError{Line: in.Line, Err: err}
		}
		e.status = StatusText
		return nil

	case *script.Choice:
		if err := e.stage.ShowChoices(in.Options); err != nil {
			return &RuntimeError{Line: in.Line, Err: err}
		}
		e.choice = in
		e.status = StatusChoice
		return nil

	case *script.BranchGroup:
		// Reached linearly, with no resolved choice: skip the group.
		e.pc = in.End
		return nil

	case *script.Jump:
		e.pc = in.Target
		return nil

	case *script.If:
		ok, err := e.store.Compare(in.Cond)
		if err != nil {
			return &RuntimeError{Line: in.Line, Err: err}
		}
		if ok {
			e.pc++
		} else {
			e.pc = in.Skip
		}
		return nil

	case *script.Assign:
		v, err := e.store.Eval(in.Expr)
		if err != nil {
			return &RuntimeError{Line: in.Line, Err: err}
		}
		if err := e.store.Set(in.Var, v); err != nil {
			return &RuntimeError{Line: in.Line, Err: err}
		}
		e.pc++
		return nil
	}
	return &RuntimeError{Line: in.SourceLine(), Err: fmt.Errorf("unexpected instruction %T", in)}
}

// stepEffect dispatches one effect directive to the stage. wait and
// forcequit are control effects handled by the engine itself.
func (e *Engine) stepEffect(in *script.Effect) error {
	var err error
	switch in.Name {
	case "wait":
		n := int(in.Arg(0).Int)
		if n <= 0 {
			e.pc++
			return nil
		}
		e.remaining = n
		e.status = StatusWait
		return nil

	case "forcequit":
		if err := e.stage.QuitToTitle(); err != nil {
			return &RuntimeError{Line: in.Line, Err: err}
		}
		e.logger.Debug("script force-quit", "script", e.prog.Name, "line", in.Line)
		e.status = StatusHalted
		return nil

	case "music":
		e.music = in.Arg(0).String()
		err = e.stage.PlayMusic(e.music)

	case "sound":
		err = e.stage.PlaySound(in.Arg(0).String())

	case "load":
		if len(in.Args) >= 2 {
			err = e.stage.LoadCharacterBank(in.Arg(0).String(), int(in.Arg(1).Int))
		} else {
			// Single integer form clears on-screen characters and with
			// them the inherited speaker context.
			err = e.stage.LoadCharacterBank("", int(in.Arg(0).Int))
			e.speaker = Speaker{}
		}

	case "hide":
		err = e.stage.SetTextboxVisible(false)

	case "show":
		err = e.stage.SetTextboxVisible(true)

	case "setanchor":
		err = e.stage.SetZoomAnchor(in.Arg(0).String())

	case "scenein":
		err = e.stage.SceneTransition(in.Arg(0).String(), in.Arg(1).String(), in.Arg(2).String(), floatArgs(in.Args, 3)...)

	case "sceneout":
		err = e.stage.SceneTransition("", "", in.Arg(0).String(), floatArgs(in.Args, 1)...)

	case "setfade":
		err = e.stage.SetFadeRate(int(in.Arg(0).Int))

	case "shake":
		if len(in.Args) == 2 {
			err = e.stage.Shake(int(in.Arg(0).Int), int(in.Arg(1).Int))
		} else {
			err = e.stage.Shake(0, 0)
		}

	case "widget":
		e.widget = in.Arg(0).String()
		err = e.stage.CreateWidget(e.widget, in.Arg(1).String())

	case "swap":
		// The current program ends here; the host starts the named
		// script, keeping this engine's variables via ResetProgram.
		if err := e.stage.RunScript(in.Arg(0).String()); err != nil {
			return &RuntimeError{Line: in.Line, Err: err}
		}
		e.logger.Debug("script swap", "script", e.prog.Name, "target", in.Arg(0).String())
		e.status = StatusHalted
		return nil

	default:
		err = fmt.Errorf("no effect handler for directive .%s", in.Name)
	}
	if err != nil {
		return &RuntimeError{Line: in.Line, Err: err}
	}
	e.pc++
	return nil
}

// applySpeaker overlays provided text parameters onto the inherited
// speaker context. Absent parameters keep their prior values.
func (e *Engine) applySpeaker(p script.TextParams) {
	if p.Char != nil {
		e.speaker.Char = *p.Char
	}
	if p.Sub != nil {
		e.speaker.Sub = *p.Sub
	}
	if p.Pos != nil {
		e.speaker.Pos = *p.Pos
	}
	if p.Name != nil {
		e.speaker.Name = *p.Name
	}
}

func floatArgs(args []script.Value, from int) []float64 {
	if from >= len(args) {
		return nil
	}
	out := make([]float64, 0, len(args)-from)
	for _, a := range args[from:] {
		if a.Kind == script.ValueInt {
			out = append(out, float64(a.Int))
		} else {
			out = append(out, a.Float)
		}
	}
	return out
}

// ResetProgram points the engine at a new program, keeping the variable
// store and speaker context. This is how a .swap continues into the next
// scene, so it is valid even on a halted engine.
func (e *Engine) ResetProgram(prog *script.Program) {
	e.prog = prog
	e.pc = 0
	e.status = StatusRunning
	e.choice = nil
	e.remaining = 0
}

// Snapshot captures the session at the current point. Meaningful at
// suspension points; restoring replays the suspended instruction.
func (e *Engine) Snapshot() *save.State {
	st := save.New(e.prog.Name)
	st.PC = e.pc
	st.Vars = e.store.Snapshot()
	st.Char = e.speaker.Char
	st.Sub = e.speaker.Sub
	st.Pos = e.speaker.Pos
	st.SpeakerName = e.speaker.Name
	st.Music = e.music
	st.Widget = e.widget
	return st
}

// Restore rewinds a fresh engine to a snapshot. The program must be the
// one named by the snapshot. The engine is left running; call Run to
// replay from the restored instruction.
func (e *Engine) Restore(st *save.State) error {
	if e.status == StatusHalted {
		return &EngineHaltedError{}
	}
	if st.Script != e.prog.Name {
		return fmt.Errorf("snapshot is for script %q, engine runs %q", st.Script, e.prog.Name)
	}
	if st.PC < 0 || st.PC > len(e.prog.Instructions) {
		return fmt.Errorf("snapshot pc %d out of range", st.PC)
	}
	if err := e.store.Restore(st.Vars); err != nil {
		return err
	}
	e.pc = st.PC
	e.speaker = Speaker{Char: st.Char, Sub: st.Sub, Pos: st.Pos, Name: st.SpeakerName}
	e.music = st.Music
	e.widget = st.Widget
	e.status = StatusRunning
	e.choice = nil
	e.remaining = 0
	return nil
}
