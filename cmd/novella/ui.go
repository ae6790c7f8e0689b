package main

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vnovel/novella/internal/config"
	"github.com/vnovel/novella/internal/logger"
	"github.com/vnovel/novella/internal/storage"
	"github.com/vnovel/novella/pkg/engine"
	"github.com/vnovel/novella/pkg/save"
	"github.com/vnovel/novella/pkg/script"
)

// frameInterval drives wait countdowns at roughly the original engine's
// frame rate.
const frameInterval = time.Second / 30

// startEntry is one row of the start modal: either a fresh script, or a
// save slot to continue from.
type startEntry struct {
	label  string
	script string
	state  *save.State // nil for a new game
}

// PlayerUI is the BubbleTea model that runs the player.
// https://github.com/charmbracelet/bubbletea
type PlayerUI struct {
	config       *config.Config
	store        storage.Storage
	logger       *slog.Logger
	stage        *TermStage
	eng          *engine.Engine
	savesEnabled bool

	sceneViewport viewport.Model
	metaViewport  viewport.Model
	ready         bool
	width         int
	height        int
	err           error
	notice        string // transient line in the meta panel (saved, copied)

	// Start modal state
	showStartModal bool
	entries        []startEntry
	selectedEntry  int
	loadingEntries bool

	// Choice selection state
	selectedOption int

	// Quit confirmation state
	showQuitModal bool
}

type startEntriesLoadedMsg struct {
	entries []startEntry
	err     error
}

type scriptLoadedMsg struct {
	prog  *script.Program
	state *save.State // restore target, nil for a new game
	err   error
}

type swapLoadedMsg struct {
	prog *script.Program
	err  error
}

type stateSavedMsg struct {
	err error
}

type frameTickMsg struct{}

var (
	scenePanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	narrationStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")) // green

	captionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")). // teal
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)

	modalItemStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	modalSelectedItemStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("0")).
				Background(lipgloss.Color("205")).
				Bold(true)

	separatorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey
)

// speakerCaser renders speaker names as display titles.
var speakerCaser = cases.Title(language.English)

func NewPlayerUI(cfg *config.Config, store storage.Storage, logger *slog.Logger, savesEnabled bool) PlayerUI {
	sceneVp := viewport.New(50, 20)
	sceneVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return PlayerUI{
		config:         cfg,
		store:          store,
		logger:         logger,
		stage:          NewTermStage(),
		savesEnabled:   savesEnabled,
		sceneViewport:  sceneVp,
		metaViewport:   metaVp,
		showStartModal: true,
		loadingEntries: true,
	}
}

func (m PlayerUI) Init() tea.Cmd {
	return m.loadStartEntries()
}

func (m PlayerUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showStartModal {
		return m.updateStartModal(msg)
	}

	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		vpCmd tea.Cmd
		mvCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
		m.metaViewport, mvCmd = m.metaViewport.Update(msg)
		return m, tea.Batch(vpCmd, mvCmd)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true
		m.writeSceneContent()
		m.writeMetadata()

	case tea.KeyMsg:
		return m.updateKey(msg)

	case frameTickMsg:
		if m.eng != nil && m.eng.Status() == engine.StatusWait {
			err := m.eng.Tick(1)
			return m.afterEngine(err)
		}

	case swapLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.writeSceneContent()
			return m, nil
		}
		m.eng.ResetProgram(msg.prog)
		m.stage.scene = ""
		err := m.eng.Run()
		return m.afterEngine(err)

	case stateSavedMsg:
		if msg.err != nil {
			m.notice = "save failed: " + msg.err.Error()
		} else {
			m.notice = "progress saved"
		}
		m.writeMetadata()
	}

	m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
	m.metaViewport, mvCmd = m.metaViewport.Update(msg)
	return m, tea.Batch(vpCmd, mvCmd)
}

func (m PlayerUI) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.showQuitModal = true
		return m, nil

	case tea.KeyUp:
		if m.eng != nil && m.eng.Status() == engine.StatusChoice {
			if m.selectedOption > 0 {
				m.selectedOption--
			}
			m.writeSceneContent()
			return m, nil
		}

	case tea.KeyDown:
		if m.eng != nil && m.eng.Status() == engine.StatusChoice {
			if m.selectedOption < len(m.eng.Options())-1 {
				m.selectedOption++
			}
			m.writeSceneContent()
			return m, nil
		}

	case tea.KeyEnter, tea.KeySpace:
		if m.eng == nil {
			return m, nil
		}
		switch m.eng.Status() {
		case engine.StatusText:
			err := m.eng.Advance()
			return m.afterEngine(err)
		case engine.StatusChoice:
			opts := m.eng.Options()
			if len(opts) == 0 {
				return m, nil
			}
			err := m.eng.Select(opts[m.selectedOption].Label)
			m.selectedOption = 0
			return m.afterEngine(err)
		case engine.StatusHalted:
			// Back to the title.
			m.showStartModal = true
			m.loadingEntries = true
			m.selectedEntry = 0
			m.eng = nil
			m.err = nil
			return m, m.loadStartEntries()
		}
		return m, nil

	case tea.KeyCtrlS:
		if m.eng == nil || !m.savesEnabled {
			m.notice = "saves are disabled"
			m.writeMetadata()
			return m, nil
		}
		return m, m.saveState(m.eng.Snapshot())

	case tea.KeyCtrlY:
		if err := clipboard.WriteAll(m.stage.backlog.String()); err != nil {
			m.notice = "copy failed: " + err.Error()
		} else {
			m.notice = "backlog copied"
		}
		m.writeMetadata()
		return m, nil
	}

	var vpCmd tea.Cmd
	m.sceneViewport, vpCmd = m.sceneViewport.Update(msg)
	return m, vpCmd
}

// afterEngine refreshes the UI after any engine event and schedules the
// next frame tick if the engine is counting down a wait.
func (m PlayerUI) afterEngine(err error) (tea.Model, tea.Cmd) {
	if err != nil {
		m.err = err
		m.logger.Error("engine error", "error", err)
	}

	if m.stage.takeQuit() {
		m.showStartModal = true
		m.loadingEntries = true
		m.selectedEntry = 0
		m.eng = nil
		return m, m.loadStartEntries()
	}

	if target := m.stage.takeSwap(); target != "" {
		return m, m.loadSwap(target)
	}

	m.writeSceneContent()
	m.writeMetadata()

	if m.eng != nil && m.eng.Status() == engine.StatusWait {
		return m, frameTick()
	}
	return m, nil
}

func (m *PlayerUI) resize() {
	sceneWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - sceneWidth - 6

	m.sceneViewport.Width = sceneWidth - 2
	m.sceneViewport.Height = m.height - 4
	m.metaViewport.Width = metaWidth - 2
	m.metaViewport.Height = m.height - 4
}

// writeSceneContent rebuilds the scene panel from the backlog and the
// engine's suspension state.
func (m *PlayerUI) writeSceneContent() {
	sceneWidth := m.sceneViewport.Width - 6
	if sceneWidth < 10 {
		sceneWidth = 10
	}

	var content strings.Builder
	content.WriteString(titleStyle.Render(strings.ToUpper(m.config.Caption)) + "\n\n")
	if scene := m.stage.scene; scene != "" {
		content.WriteString(captionStyle.Render("["+scene+"]") + "\n")
	}
	if m.stage.music != "" {
		content.WriteString(captionStyle.Render("♪ "+m.stage.music) + "\n")
	}
	content.WriteString(separatorStyle.Render(strings.Repeat("─", sceneWidth)) + "\n\n")

	for _, e := range m.stage.backlog.Entries() {
		if e.Speaker != "" {
			content.WriteString(speakerStyle.Render(speakerCaser.String(e.Speaker)) + "\n")
		}
		content.WriteString(narrationStyle.Render(wordwrap.String(e.Text, sceneWidth)) + "\n\n")
	}

	if m.eng != nil {
		switch m.eng.Status() {
		case engine.StatusChoice:
			for i, opt := range m.eng.Options() {
				if i == m.selectedOption {
					content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", opt.Text)))
				} else {
					content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", opt.Text)))
				}
				content.WriteString("\n")
			}
			content.WriteString("\n")
		case engine.StatusWait:
			content.WriteString(promptStyle.Render(fmt.Sprintf("… %d", m.eng.Remaining())) + "\n")
		case engine.StatusHalted:
			content.WriteString(separatorStyle.Render(strings.Repeat("─", sceneWidth)) + "\n")
			content.WriteString(promptStyle.Render("The scene has ended. Press Enter to return to the title.") + "\n")
		}
	}

	if m.err != nil {
		content.WriteString(errorStyle.Render("Error: "+m.err.Error()) + "\n")
	}

	m.sceneViewport.SetContent(content.String())
	m.sceneViewport.GotoBottom()
}

func (m *PlayerUI) writeMetadata() {
	var content strings.Builder
	content.WriteString(titleStyle.Render("SESSION") + "\n\n")

	if m.eng != nil {
		content.WriteString("Status:\n")
		content.WriteString(m.eng.Status().String() + "\n\n")

		snapshot := m.eng.Vars().Snapshot()
		if len(snapshot) > 0 {
			content.WriteString("Variables:\n")
			for _, name := range sortedKeys(snapshot) {
				content.WriteString(fmt.Sprintf("• $%s = %d\n", name, snapshot[name]))
			}
			content.WriteString("\n")
		}
	}

	if m.stage.widget != "" {
		content.WriteString("Widget:\n")
		content.WriteString(fmt.Sprintf("%s (%s)\n\n", m.stage.widget, m.stage.widgetAnchor))
	}

	if m.notice != "" {
		content.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}

	content.WriteString("Keys:\n")
	content.WriteString("• Enter: Advance\n")
	content.WriteString("• ↑/↓: Choose\n")
	if m.savesEnabled {
		content.WriteString("• Ctrl+S: Save\n")
	}
	content.WriteString("• Ctrl+Y: Copy log\n")
	content.WriteString("• Ctrl+C: Quit\n")

	m.metaViewport.SetContent(content.String())
}

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (m PlayerUI) loadStartEntries() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		scripts, err := m.store.ListScripts(ctx)
		if err != nil {
			return startEntriesLoadedMsg{err: err}
		}

		var entries []startEntry
		if m.savesEnabled {
			states, err := m.store.ListStates(ctx)
			if err != nil {
				return startEntriesLoadedMsg{err: err}
			}
			for _, st := range states {
				label := fmt.Sprintf("Continue: %s (%s)", st.Script, st.UpdatedAt.Format("Jan 2 15:04"))
				entries = append(entries, startEntry{label: label, script: st.Script, state: st})
			}
		}
		for _, name := range scripts {
			entries = append(entries, startEntry{label: "New: " + name, script: name})
		}
		return startEntriesLoadedMsg{entries: entries}
	}
}

func (m PlayerUI) loadScript(entry startEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		prog, err := m.store.GetScript(ctx, entry.script)
		if err != nil {
			return scriptLoadedMsg{err: err}
		}
		return scriptLoadedMsg{prog: prog, state: entry.state}
	}
}

func (m PlayerUI) loadSwap(name string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		prog, err := m.store.GetScript(ctx, name)
		if err != nil {
			return swapLoadedMsg{err: err}
		}
		return swapLoadedMsg{prog: prog}
	}
}

func (m PlayerUI) saveState(st *save.State) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return stateSavedMsg{err: m.store.SaveState(ctx, st)}
	}
}

func (m PlayerUI) updateStartModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.ready = true

	case startEntriesLoadedMsg:
		m.loadingEntries = false
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.entries = msg.entries
		}

	case scriptLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		st := NewTermStage()
		eng := engine.New(msg.prog, st, logger.WithScript(m.logger, msg.prog.Name))
		if msg.state != nil {
			if err := eng.Restore(msg.state); err != nil {
				m.err = err
				return m, nil
			}
		}
		m.stage = st
		m.eng = eng
		m.err = nil
		m.notice = ""
		m.selectedOption = 0
		m.showStartModal = false
		err := eng.Run()
		return m.afterEngine(err)

	case tea.KeyMsg:
		if m.loadingEntries {
			if msg.Type == tea.KeyCtrlC || msg.Type == tea.KeyEsc {
				return m, tea.Quit
			}
			return m, nil
		}

		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyUp:
			if m.selectedEntry > 0 {
				m.selectedEntry--
			}
		case tea.KeyDown:
			if m.selectedEntry < len(m.entries)-1 {
				m.selectedEntry++
			}
		case tea.KeyEnter:
			if len(m.entries) > 0 {
				return m, m.loadScript(m.entries[m.selectedEntry])
			}
		}
	}

	return m, nil
}

func (m PlayerUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N", "esc":
				m.showQuitModal = false
				return m, nil
			}
		}
	}

	return m, nil
}

func (m PlayerUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("Quit?"))
	content.WriteString("\n\n")
	content.WriteString("Unsaved progress will be lost.")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to keep playing"))

	modal := modalStyle.Width(50).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m PlayerUI) renderStartModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder

	if m.loadingEntries {
		content.WriteString(modalTitleStyle.Render("Loading..."))
		content.WriteString("\n\n")
		content.WriteString(noticeStyle.Render("Reading scenes and save slots..."))
	} else if m.err != nil {
		content.WriteString(modalTitleStyle.Render("Error"))
		content.WriteString("\n\n")
		content.WriteString(errorStyle.Render(m.err.Error()))
		content.WriteString("\n\n")
		content.WriteString("Press Ctrl+C to exit")
	} else if len(m.entries) == 0 {
		content.WriteString(modalTitleStyle.Render("No Scenes"))
		content.WriteString("\n\n")
		content.WriteString(fmt.Sprintf("No .nes scripts found under %s/scenes", m.config.DataDir))
	} else {
		content.WriteString(modalTitleStyle.Render(m.config.Caption))
		content.WriteString("\n\n")

		for i, entry := range m.entries {
			if i == m.selectedEntry {
				content.WriteString(modalSelectedItemStyle.Render(fmt.Sprintf("▶ %s", entry.label)))
			} else {
				content.WriteString(modalItemStyle.Render(fmt.Sprintf("  %s", entry.label)))
			}
			content.WriteString("\n")
		}

		content.WriteString("\n")
		content.WriteString(promptStyle.Render("Use ↑/↓ to navigate, Enter to select, Ctrl+C to exit"))
	}

	modal := modalStyle.Width(60).Render(content.String())
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m PlayerUI) View() string {
	if m.showStartModal {
		return m.renderStartModal()
	}

	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	sceneWidth := int(float64(m.width)*0.75) - 4
	metaWidth := m.width - sceneWidth - 6

	scenePanel := scenePanelStyle.Width(sceneWidth).Height(m.height - 3).Render(
		m.sceneViewport.View(),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, scenePanel, metaPanel)
}

// frameTick emits one engine frame.
func frameTick() tea.Cmd {
	return tea.Tick(frameInterval, func(time.Time) tea.Msg {
		return frameTickMsg{}
	})
}
