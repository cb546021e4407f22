package apples

// Snapshot is an immutable copy of everything a presentation layer needs to
// draw a session. Nothing in it aliases session memory.
type Snapshot struct {
	Variant       Variant `json:"variant"`
	State         State   `json:"state"`
	Grid          [][]int `json:"grid"`
	Selected      []Coord `json:"selected"`
	Selecting     bool    `json:"selecting"`
	Score         int     `json:"score"`
	TotalTiles    int     `json:"total_tiles"`
	TilesLeft     int     `json:"tiles_left"`
	TargetSum     int     `json:"target_sum"`
	TimeLimit     int     `json:"time_limit"`
	TimeRemaining int     `json:"time_remaining"`
	Clock         string  `json:"clock"`
	Urgency       Urgency `json:"urgency"`
	MovesLeft     bool    `json:"moves_left"`
	Started       bool    `json:"started"`
	Completed     bool    `json:"completed"`
	TimedOut      bool    `json:"timed_out"`
}

// Snapshot captures the current session state.
func (s *Session) Snapshot() Snapshot {
	snap := Snapshot{
		Variant:    s.variant,
		State:      s.state,
		Grid:       s.grid.Rows(),
		Selected:   []Coord{},
		Selecting:  s.selection.Active(),
		Score:      s.score,
		TotalTiles: s.TotalTiles(),
		TilesLeft:  s.grid.Remaining(),
		TargetSum:  s.cfg.Rules.TargetSum,
		MovesLeft:  s.movesLeft,
		Started:    s.state == StatePlaying,
		Completed:  s.state == StateCompleted,
		TimedOut:   s.state == StateTimedOut,
	}
	if s.selection.Active() {
		snap.Selected = s.selection.Cells()
	}

	if s.variant == VariantTimed {
		snap.TimeLimit = s.cfg.Rules.TimeLimit
		snap.TimeRemaining = s.remaining
		snap.Clock = FormatClock(s.remaining)
		snap.Urgency = UrgencyFor(s.remaining, s.cfg.Timer.WarningAt, s.cfg.Timer.DangerAt)
	}
	return snap
}
