package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/apple-arcade/internal/config"
	"github.com/vovakirdan/apple-arcade/internal/core"
	"github.com/vovakirdan/apple-arcade/internal/games/apples"
)

// ApplesSelection holds the user's choice from the apple game menu.
type ApplesSelection struct {
	GameID     string // apples.IDTimed or apples.IDZen
	Difficulty string // Empty keeps the configured time limit
}

// applesDifficulties are offered in the difficulty list, in order.
var applesDifficulties = []config.DifficultyPreset{
	config.DifficultyEasy,
	config.DifficultyNormal,
	config.DifficultyHard,
}

// ApplesModeModel lets users pick timed or zen play and a difficulty.
type ApplesModeModel struct {
	cursor       int
	diffCursor   int
	inDifficulty bool
	width        int
	height       int
	keyMapper    *KeyMapper
	selection    ApplesSelection
	choosing     bool
	quitting     bool
	back         bool
}

// NewApplesModeModel creates a new apple game mode selection model.
func NewApplesModeModel(width, height int) ApplesModeModel {
	return ApplesModeModel{
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m ApplesModeModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m ApplesModeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m ApplesModeModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	if m.inDifficulty {
		return m.handleDifficultyKey(action)
	}
	return m.handleModeKey(action)
}

func (m ApplesModeModel) handleModeKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < 2 { // Timed, Zen, Difficulty
			m.cursor++
		}
	case MenuActionSelect:
		switch m.cursor {
		case 0:
			return m.choose(ApplesSelection{GameID: apples.IDTimed})
		case 1:
			return m.choose(ApplesSelection{GameID: apples.IDZen})
		case 2:
			m.inDifficulty = true
			m.diffCursor = 1 // normal
		}
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

func (m ApplesModeModel) handleDifficultyKey(action MenuAction) (tea.Model, tea.Cmd) {
	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.diffCursor > 0 {
			m.diffCursor--
		}
	case MenuActionDown:
		if m.diffCursor < len(applesDifficulties)-1 {
			m.diffCursor++
		}
	case MenuActionSelect:
		return m.choose(ApplesSelection{
			GameID:     apples.IDTimed,
			Difficulty: string(applesDifficulties[m.diffCursor]),
		})
	case MenuActionBack:
		m.inDifficulty = false
	}

	return m, nil
}

func (m ApplesModeModel) choose(sel ApplesSelection) (tea.Model, tea.Cmd) {
	m.choosing = false
	m.selection = sel
	return m, tea.Quit
}

// View renders the mode/difficulty selection.
func (m ApplesModeModel) View() string {
	if m.quitting {
		return ""
	}

	if m.inDifficulty {
		return m.viewDifficulty()
	}
	return m.viewMode()
}

func (m ApplesModeModel) viewMode() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("A P P L E   G A M E", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Drag over apples that add up to 10", m.width))
	b.WriteString("\n\n")

	modes := []string{
		"Timed",
		"Zen (no timer, no score)",
		"Select Difficulty...",
	}

	for i, mode := range modes {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		b.WriteString(centerText(fmt.Sprintf("%s%s", cursor, mode), m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

func (m ApplesModeModel) viewDifficulty() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("SELECT DIFFICULTY", m.width))
	b.WriteString("\n\n")

	for i, preset := range applesDifficulties {
		cursor := "  "
		if i == m.diffCursor {
			cursor = "> "
		}

		limit, _ := config.TimeLimitForPreset(preset)
		line := fmt.Sprintf("%s%-7s %s", cursor, strings.ToUpper(string(preset)), apples.FormatClock(limit))
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m ApplesModeModel) Selected() *ApplesSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m ApplesModeModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m ApplesModeModel) WantsBack() bool {
	return m.back
}

// RunApplesModeSelector runs the apple game mode selection and returns the selection.
func RunApplesModeSelector(cfg core.RuntimeConfig) (*ApplesSelection, core.RuntimeConfig, error) {
	model := NewApplesModeModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(ApplesModeModel)
	if !ok {
		return nil, cfg, nil
	}

	cfg.ScreenW, cfg.ScreenH = m.width, m.height

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
