package engine

import "github.com/vnovel/novella/pkg/script"

// Stage is the presentation collaborator. The engine forwards every
// effect to it in strict script order and never calls it concurrently.
// Implementations own their own resources; the engine holds none.
type Stage interface {
	// PlayMusic starts a looping track; an empty id stops music.
	PlayMusic(track string) error

	// PlaySound plays a one-shot effect; an empty name stops it.
	PlaySound(name string) error

	// SetTextboxVisible shows or hides the textbox and UI chrome.
	SetTextboxVisible(visible bool) error

	// LoadCharacterBank loads the sprite bank for a character into the
	// given variant slot. An empty name clears on-screen characters
	// instead: variant is the character index to remove, -1 for all.
	LoadCharacterBank(name string, variant int) error

	// ShowText presents a dialogue unit attributed to the speaker.
	ShowText(sp Speaker, lines []string) error

	// ShowChoices presents the options of a suspended choice.
	ShowChoices(options []script.Option) error

	// CreateWidget places a labeled indicator widget at an anchor.
	CreateWidget(label, anchor string) error

	// SetZoomAnchor sets the anchor for zoom transitions.
	SetZoomAnchor(anchor string) error

	// SceneTransition switches the background. Group and name identify
	// the incoming image and are empty for transitions out. Effect is
	// one of script.Transitions or empty for an instant cut; params are
	// the optional zoom scale, target scale and rate.
	SceneTransition(group, name, effect string, params ...float64) error

	// SetFadeRate sets the alpha step used by fade transitions.
	SetFadeRate(rate int) error

	// Shake starts screen shake with the given magnitudes; (0, 0) stops.
	Shake(x, y int) error

	// RunScript hands control to another script (the .swap directive).
	RunScript(name string) error

	// QuitToTitle is called when the script force-quits.
	QuitToTitle() error
}

// NopStage discards every effect. Useful for validation runs and tests.
type NopStage struct{}

var _ Stage = NopStage{}

func (NopStage) PlayMusic(string) error                          { return nil }
func (NopStage) PlaySound(string) error                          { return nil }
func (NopStage) SetTextboxVisible(bool) error                    { return nil }
func (NopStage) LoadCharacterBank(string, int) error             { return nil }
func (NopStage) ShowText(Speaker, []string) error                { return nil }
func (NopStage) ShowChoices([]script.Option) error               { return nil }
func (NopStage) CreateWidget(string, string) error               { return nil }
func (NopStage) SetZoomAnchor(string) error                      { return nil }
func (NopStage) SceneTransition(string, string, string, ...float64) error { return nil }
func (NopStage) SetFadeRate(int) error                           { return nil }
func (NopStage) Shake(int, int) error                            { return nil }
func (NopStage) RunScript(string) error                          { return nil }
func (NopStage) QuitToTitle() error                              { return nil }
