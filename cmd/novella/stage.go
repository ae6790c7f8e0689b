package main

import (
	"fmt"

	"github.com/vnovel/novella/pkg/backlog"
	"github.com/vnovel/novella/pkg/engine"
	"github.com/vnovel/novella/pkg/script"
)

// dialogue is one pending text unit waiting for the player to advance.
type dialogue struct {
	speaker string
	lines   []string
}

// TermStage implements engine.Stage for the terminal player. Visual and
// audio effects become state the UI renders as captions; dialogue goes
// into the backlog.
type TermStage struct {
	backlog *backlog.Backlog

	scene          string // "group/name" of the current background
	lastTransition string
	music          string
	sound          string
	widget         string
	widgetAnchor   string
	zoomAnchor     string
	fadeRate       int
	shakeX, shakeY int
	textboxHidden  bool

	pending *dialogue
	swapTo  string
	quit    bool
}

var _ engine.Stage = (*TermStage)(nil)

func NewTermStage() *TermStage {
	return &TermStage{
		backlog: backlog.New(0),
	}
}

func (s *TermStage) PlayMusic(track string) error {
	s.music = track
	return nil
}

func (s *TermStage) PlaySound(name string) error {
	s.sound = name
	return nil
}

func (s *TermStage) SetTextboxVisible(visible bool) error {
	s.textboxHidden = !visible
	return nil
}

func (s *TermStage) LoadCharacterBank(name string, variant int) error {
	// Sprite banks have nothing to show in a terminal.
	return nil
}

func (s *TermStage) ShowText(sp engine.Speaker, lines []string) error {
	s.pending = &dialogue{speaker: sp.Name, lines: lines}
	s.backlog.Add(sp.Name, lines)
	return nil
}

func (s *TermStage) ShowChoices(options []script.Option) error {
	return nil // the UI renders options straight from the engine
}

func (s *TermStage) CreateWidget(label, anchor string) error {
	s.widget = label
	s.widgetAnchor = anchor
	return nil
}

func (s *TermStage) SetZoomAnchor(anchor string) error {
	s.zoomAnchor = anchor
	return nil
}

func (s *TermStage) SceneTransition(group, name, effect string, params ...float64) error {
	if group == "" && name == "" {
		s.scene = ""
	} else {
		s.scene = fmt.Sprintf("%s/%s", group, name)
	}
	s.lastTransition = effect
	return nil
}

func (s *TermStage) SetFadeRate(rate int) error {
	s.fadeRate = rate
	return nil
}

func (s *TermStage) Shake(x, y int) error {
	s.shakeX, s.shakeY = x, y
	return nil
}

func (s *TermStage) RunScript(name string) error {
	s.swapTo = name
	return nil
}

func (s *TermStage) QuitToTitle() error {
	s.quit = true
	return nil
}

// takePending returns and clears the dialogue waiting to be shown.
func (s *TermStage) takePending() *dialogue {
	d := s.pending
	s.pending = nil
	return d
}

// takeSwap returns and clears a requested scene swap.
func (s *TermStage) takeSwap() string {
	t := s.swapTo
	s.swapTo = ""
	return t
}

// takeQuit reports and clears a force-quit request.
func (s *TermStage) takeQuit() bool {
	q := s.quit
	s.quit = false
	return q
}
