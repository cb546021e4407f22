package tui

import (
	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/apple-arcade/internal/core"
	"github.com/vovakirdan/apple-arcade/internal/storage"
)

// roundRecorder persists each round exactly once: when it ends, or when the
// player walks away from it.
type roundRecorder struct {
	store   *storage.Store
	gameID  string
	player  string
	roundID string
	saved   bool
	last    core.GameState
}

func newRoundRecorder(store *storage.Store, gameID, player string) roundRecorder {
	return roundRecorder{
		store:   store,
		gameID:  gameID,
		player:  player,
		roundID: uuid.NewString(),
	}
}

// observe is called after every simulation step.
func (r *roundRecorder) observe(st core.GameState) {
	prev := r.last
	r.last = st

	// A finished round that is playing again was restarted.
	if r.saved && !st.GameOver {
		r.saved = false
		r.roundID = uuid.NewString()
		return
	}

	// Restarted mid-round: the abandoned round still counts.
	if !st.GameOver && st.Elapsed < prev.Elapsed {
		r.record(prev, core.OutcomeAbandoned)
		r.roundID = uuid.NewString()
		return
	}

	if st.GameOver && !r.saved {
		r.record(st, st.Outcome)
		r.saved = true
	}
}

// abandon records the current round if it was played but never finished.
func (r *roundRecorder) abandon() {
	if r.saved || r.last.GameOver {
		return
	}
	r.record(r.last, core.OutcomeAbandoned)
	r.saved = true
}

func (r *roundRecorder) record(st core.GameState, outcome core.Outcome) {
	// Untimed rounds and rounds nobody played leave no history.
	if r.store == nil || st.Elapsed == 0 || outcome == core.OutcomeNone {
		return
	}

	if st.Score > 0 && outcome != core.OutcomeAbandoned {
		if _, err := r.store.SaveScore(r.gameID, r.player, st.Score); err != nil {
			log.Warn("could not save score", "game", r.gameID, "error", err)
		}
	}

	_, err := r.store.SaveRound(storage.RoundResult{
		RoundID:      r.roundID,
		GameID:       r.gameID,
		Player:       r.player,
		Score:        st.Score,
		Outcome:      string(outcome),
		DurationSecs: st.Elapsed,
	})
	if err != nil {
		log.Warn("could not save round", "game", r.gameID, "error", err)
	}
}
