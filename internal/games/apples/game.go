package apples

import (
	"github.com/vovakirdan/apple-arcade/internal/config"
	"github.com/vovakirdan/apple-arcade/internal/core"
	"github.com/vovakirdan/apple-arcade/internal/registry"
)

// Game ids registered with the arcade.
const (
	IDTimed = "apples"
	IDZen   = "apples_zen"
)

// hintSeconds is how long a requested hint stays on screen.
const hintSeconds = 2

// Package-level variables for config
var (
	configPath       string
	difficultyPreset string
)

// SetConfigPath sets a custom YAML config used by games created afterwards.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset used by games created afterwards.
func SetDifficultyPreset(preset string) {
	difficultyPreset = preset
}

// LoadConfig resolves the configuration from the configured path and preset.
func LoadConfig() (config.ApplesConfig, error) {
	return loadConfig(difficultyPreset)
}

func loadConfig(preset string) (config.ApplesConfig, error) {
	cfg, err := config.LoadApples(configPath)
	if err != nil {
		return cfg, err
	}
	config.ApplyApplesPreset(&cfg, config.DifficultyPreset(preset))
	return cfg, nil
}

// Game adapts a Session to the arcade's fixed-tick game loop: it turns
// keyboard actions and pointer events into session operations and feeds
// the countdown from simulation frames.
type Game struct {
	variant   Variant
	cfg       config.ApplesConfig
	session   *Session
	countdown Countdown
	layout    layout

	screenW  int
	screenH  int
	tickRate int

	preset string // overrides the package preset when set

	cursor    Coord
	hint      core.Rect
	hintTicks int
	paused    bool
	tooSmall  bool
}

// New creates a timed apple game.
func New() *Game {
	return &Game{variant: VariantTimed}
}

// NewZen creates an apple game without score or timer.
func NewZen() *Game {
	return &Game{variant: VariantZen}
}

func init() {
	registry.Register(IDTimed, func() registry.Game {
		return New()
	})
	registry.RegisterVariant(IDZen, IDTimed, func() registry.Game {
		return NewZen()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.variant == VariantZen {
		return IDZen
	}
	return IDTimed
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantZen {
		return "Apple Game (Zen)"
	}
	return "Apple Game"
}

// SetDifficulty picks a preset for this game only. It takes effect on the
// next Reset.
func (g *Game) SetDifficulty(preset string) {
	g.preset = preset
}

// Reset deals a new round. A broken config file falls back to the defaults;
// the CLI reports config errors before a game is created.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	appCfg, err := loadConfig(preset)
	if err != nil {
		appCfg = config.DefaultApplesConfig()
	}

	g.cfg = appCfg
	g.tickRate = cfg.TickRate
	g.session = NewSession(appCfg, g.variant, cfg.Seed)
	g.session.Restart()
	g.countdown = NewCountdown(cfg.TickRate)
	g.cursor = Coord{}
	g.hintTicks = 0
	g.paused = false
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize adapts the layout to a new terminal size without touching the round.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.layout = newLayout(g.cfg.Grid.Width, g.cfg.Grid.Height, width, height)
	g.tooSmall = !g.layout.fits
}

// Session exposes the underlying session, mainly for tests and tooling.
func (g *Game) Session() *Session {
	return g.session
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.tooSmall {
		g.countdown.Disarm()
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.session.Finished() {
		g.paused = !g.paused
		if g.paused {
			// A release while paused is never seen.
			g.session.CancelSelection()
		}
	}

	if in.Has(core.ActionRestart) {
		g.session.Restart()
		g.paused = false
		g.hintTicks = 0
	}

	if g.paused {
		g.countdown.Disarm()
		return core.StepResult{State: g.State()}
	}

	g.handleKeys(in)
	g.handlePointer(in.Pointer)

	if g.session.TimerRunning() {
		g.countdown.Arm()
		if g.countdown.Advance() {
			g.session.Tick()
		}
	} else {
		g.countdown.Disarm()
	}

	if g.hintTicks > 0 {
		g.hintTicks--
	}

	return core.StepResult{State: g.State()}
}

// handleKeys drives the keyboard cursor. Select anchors a drag at the
// cursor; moving the cursor stretches it; Select again commits.
func (g *Game) handleKeys(in core.InputFrame) {
	grid := g.session.Grid()

	moved := false
	switch {
	case in.Has(core.ActionUp):
		g.cursor.Row--
		moved = true
	case in.Has(core.ActionDown):
		g.cursor.Row++
		moved = true
	case in.Has(core.ActionLeft):
		g.cursor.Col--
		moved = true
	case in.Has(core.ActionRight):
		g.cursor.Col++
		moved = true
	}
	g.cursor.Row = core.Clamp(g.cursor.Row, 0, grid.Height()-1)
	g.cursor.Col = core.Clamp(g.cursor.Col, 0, grid.Width()-1)

	if moved {
		g.session.ExtendSelection(g.cursor.Row, g.cursor.Col)
	}

	if in.Has(core.ActionSelect) {
		if g.session.Selection().Active() {
			g.session.CommitSelection()
		} else {
			g.session.BeginSelection(g.cursor.Row, g.cursor.Col)
		}
	}

	if in.Has(core.ActionCancel) {
		g.session.CancelSelection()
	}

	if in.Has(core.ActionHint) {
		if rect, ok := g.session.Hint(); ok {
			g.hint = rect
			g.hintTicks = hintSeconds * max(g.tickRate, 1)
		}
	}
}

// handlePointer replays mouse events in arrival order. Presses and motion
// outside the board are dropped; a release anywhere ends the drag.
func (g *Game) handlePointer(events []core.PointerEvent) {
	for _, ev := range events {
		row, col, onBoard := g.layout.cellAt(ev.X, ev.Y)

		switch ev.Kind {
		case core.PointerDown:
			if onBoard && g.session.BeginSelection(row, col) {
				g.cursor = Coord{Row: row, Col: col}
			}
		case core.PointerMove:
			if onBoard && g.session.ExtendSelection(row, col) {
				g.cursor = Coord{Row: row, Col: col}
			}
		case core.PointerUp:
			if g.session.Selection().Active() {
				g.session.CommitSelection()
			}
		}
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.session == nil {
		return core.GameState{}
	}
	return core.GameState{
		Score:    g.session.Score(),
		GameOver: g.session.Finished(),
		Paused:   g.paused || g.tooSmall,
		Outcome:  g.session.Outcome(),
		Elapsed:  g.session.Elapsed(),
	}
}
