package apples

import (
	"math/rand"

	"github.com/vovakirdan/apple-arcade/internal/config"
	"github.com/vovakirdan/apple-arcade/internal/core"
)

// State is the round's position in the session lifecycle.
type State string

const (
	StateIdle      State = "idle"
	StatePlaying   State = "playing"
	StateCompleted State = "completed"
	StateTimedOut  State = "timed_out"
)

// Variant selects the rule set of a session.
type Variant string

const (
	// VariantTimed keeps score and runs a countdown.
	VariantTimed Variant = "timed"
	// VariantZen is the bare mechanic: no score, no timer, no end.
	VariantZen Variant = "zen"
)

// ParseVariant maps a name to a Variant, defaulting to timed.
func ParseVariant(name string) Variant {
	if Variant(name) == VariantZen {
		return VariantZen
	}
	return VariantTimed
}

// CommitResult describes what a finished drag did.
type CommitResult struct {
	Sum     int  // Sum of the selected values
	Matched bool // Whether the sum hit the target
	Picked  int  // Tiles removed from the board
	Awarded int  // Points added to the score
}

// Session owns the grid, the drag in progress, the score and the round
// timer for one play-through. It has a single writer: every method must be
// called from the same goroutine, or under the caller's lock.
type Session struct {
	cfg     config.ApplesConfig
	variant Variant
	rng     *rand.Rand

	grid      Grid
	selection Selection
	state     State
	score     int
	remaining int // seconds left on the clock
	movesLeft bool
}

// NewSession creates an idle session. Call Restart to deal the first grid.
func NewSession(cfg config.ApplesConfig, variant Variant, seed int64) *Session {
	return &Session{
		cfg:     cfg,
		variant: variant,
		rng:     rand.New(rand.NewSource(seed)),
		grid:    NewGrid(cfg.Grid.Width, cfg.Grid.Height),
		state:   StateIdle,
	}
}

// Restart begins a fresh round from any state: a new random grid, score 0,
// the clock back at the time limit.
func (s *Session) Restart() {
	s.NewGrid()
	s.selection.End()
	s.score = 0
	s.remaining = s.cfg.Rules.TimeLimit
	s.state = StatePlaying
}

// NewGrid fills every cell with an independent uniform tile value.
func (s *Session) NewGrid() {
	s.grid.Fill(s.rng, s.cfg.Grid.MinValue, s.cfg.Grid.MaxValue)
	s.refreshMoves()
}

// BeginSelection anchors a drag at (row, col). Ignored unless playing.
func (s *Session) BeginSelection(row, col int) bool {
	if s.state != StatePlaying || !s.grid.InBounds(row, col) {
		return false
	}
	s.selection.Begin(Coord{Row: row, Col: col})
	return true
}

// ExtendSelection moves the free corner of the active drag to (row, col).
// Ignored unless a drag is active and the round is playing.
func (s *Session) ExtendSelection(row, col int) bool {
	if s.state != StatePlaying || !s.selection.Active() || !s.grid.InBounds(row, col) {
		return false
	}
	s.selection.Extend(Coord{Row: row, Col: col})
	return true
}

// CommitSelection ends the active drag. When the selected values add up to
// the target the tiles are picked and scored. The drag is always dropped,
// whether or not anything matched.
func (s *Session) CommitSelection() CommitResult {
	if s.state != StatePlaying || !s.selection.Active() {
		s.selection.End()
		return CommitResult{}
	}

	rect := s.selection.Rect()
	s.selection.End()

	res := CommitResult{Sum: s.grid.Sum(rect)}
	if res.Sum != s.cfg.Rules.TargetSum {
		return res
	}

	res.Matched = true
	res.Picked = s.grid.Clear(rect)
	s.refreshMoves()

	if s.variant != VariantTimed {
		return res
	}

	res.Awarded = res.Picked
	if s.cfg.Rules.ScorePolicy == config.ScoreSelected {
		res.Awarded = rect.W * rect.H
	}
	// Score never passes the tile count, whatever the policy
	if s.score+res.Awarded > s.TotalTiles() {
		res.Awarded = s.TotalTiles() - s.score
	}
	s.score += res.Awarded

	if s.score >= s.TotalTiles() {
		s.state = StateCompleted
	}
	return res
}

// CancelSelection drops the active drag without evaluating it.
func (s *Session) CancelSelection() {
	s.selection.End()
}

// Tick takes one second off the clock. It reports whether the tick was
// accepted, which is only while the round is playing with its timer running.
func (s *Session) Tick() bool {
	if !s.TimerRunning() {
		return false
	}
	s.remaining--
	if s.remaining <= 0 {
		s.remaining = 0
		s.selection.End()
		s.state = StateTimedOut
	}
	return true
}

// TimerRunning reports whether the countdown should be receiving ticks.
func (s *Session) TimerRunning() bool {
	return s.variant == VariantTimed && s.state == StatePlaying
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	return s.state
}

// Variant returns the session's rule set.
func (s *Session) Variant() Variant {
	return s.variant
}

// Score returns the points earned this round.
func (s *Session) Score() int {
	return s.score
}

// TimeRemaining returns the seconds left on the clock.
func (s *Session) TimeRemaining() int {
	return s.remaining
}

// Elapsed returns the whole seconds played this round.
func (s *Session) Elapsed() int {
	if s.variant != VariantTimed || s.state == StateIdle {
		return 0
	}
	return s.cfg.Rules.TimeLimit - s.remaining
}

// TotalTiles returns the number of tiles dealt at the start of a round.
func (s *Session) TotalTiles() int {
	return s.grid.Width() * s.grid.Height()
}

// Finished reports whether the round reached a terminal state.
func (s *Session) Finished() bool {
	return s.state == StateCompleted || s.state == StateTimedOut
}

// Outcome maps the terminal state to a platform outcome.
func (s *Session) Outcome() core.Outcome {
	switch s.state {
	case StateCompleted:
		return core.OutcomeCompleted
	case StateTimedOut:
		return core.OutcomeTimedOut
	default:
		return core.OutcomeNone
	}
}

// Grid exposes the board for read-only use by renderers.
func (s *Session) Grid() Grid {
	return s.grid
}

// Selection returns the drag in progress.
func (s *Session) Selection() Selection {
	return s.selection
}

// MovesLeft reports whether any rectangle on the board still sums to the
// target.
func (s *Session) MovesLeft() bool {
	return s.movesLeft
}

// Hint returns a rectangle that would clear if selected.
func (s *Session) Hint() (core.Rect, bool) {
	if s.state != StatePlaying {
		return core.Rect{}, false
	}
	return FindMove(s.grid, s.cfg.Rules.TargetSum)
}

// Config returns the rules the session was created with.
func (s *Session) Config() config.ApplesConfig {
	return s.cfg
}

func (s *Session) refreshMoves() {
	_, s.movesLeft = FindMove(s.grid, s.cfg.Rules.TargetSum)
}
