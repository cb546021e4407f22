package tui

import (
	"path/filepath"
	"testing"

	"github.com/vovakirdan/apple-arcade/internal/core"
	"github.com/vovakirdan/apple-arcade/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()

	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRoundRecorderSavesOnceOnGameOver(t *testing.T) {
	store := openTestStore(t)
	rec := newRoundRecorder(store, "apples", "alice")

	rec.observe(core.GameState{Score: 10, Elapsed: 60})
	over := core.GameState{Score: 42, GameOver: true, Outcome: core.OutcomeTimedOut, Elapsed: 120}
	rec.observe(over)
	rec.observe(over)
	rec.observe(over)

	scores, _ := store.TopScores("apples", 10)
	if len(scores) != 1 || scores[0].Score != 42 || scores[0].Player != "alice" {
		t.Errorf("scores = %+v, expected one entry of 42 for alice", scores)
	}

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 1 || rounds[0].Outcome != "timed_out" || rounds[0].DurationSecs != 120 {
		t.Errorf("rounds = %+v, expected one timed out round", rounds)
	}
}

func TestRoundRecorderNewRoundAfterRestart(t *testing.T) {
	store := openTestStore(t)
	rec := newRoundRecorder(store, "apples", "alice")

	rec.observe(core.GameState{Score: 5, GameOver: true, Outcome: core.OutcomeTimedOut, Elapsed: 120})
	first := rec.roundID

	rec.observe(core.GameState{Elapsed: 0})
	if rec.roundID == first {
		t.Error("restart should start a new round id")
	}

	rec.observe(core.GameState{Score: 170, GameOver: true, Outcome: core.OutcomeCompleted, Elapsed: 80})

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 2 {
		t.Fatalf("expected 2 rounds, got %d", len(rounds))
	}
	if rounds[0].Outcome != "completed" || rounds[0].RoundID == rounds[1].RoundID {
		t.Errorf("unexpected rounds: %+v", rounds)
	}
}

func TestRoundRecorderAbandon(t *testing.T) {
	store := openTestStore(t)
	rec := newRoundRecorder(store, "apples", "bob")

	rec.observe(core.GameState{Score: 8, Elapsed: 30})
	rec.abandon()
	rec.abandon()

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 1 || rounds[0].Outcome != "abandoned" || rounds[0].Score != 8 {
		t.Errorf("rounds = %+v, expected one abandoned round", rounds)
	}
	if scores, _ := store.TopScores("apples", 10); len(scores) != 0 {
		t.Errorf("abandoned rounds should not enter the high scores: %+v", scores)
	}
}

func TestRoundRecorderRestartMidRound(t *testing.T) {
	store := openTestStore(t)
	rec := newRoundRecorder(store, "apples", "bob")

	rec.observe(core.GameState{Score: 4, Elapsed: 45})
	rec.observe(core.GameState{Score: 0, Elapsed: 0})

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 1 || rounds[0].Outcome != "abandoned" || rounds[0].DurationSecs != 45 {
		t.Errorf("rounds = %+v, expected the restarted round recorded as abandoned", rounds)
	}
}

func TestRoundRecorderSkipsUnplayedRounds(t *testing.T) {
	store := openTestStore(t)
	rec := newRoundRecorder(store, "apples_zen", "carol")

	// Zen rounds never have a clock.
	rec.observe(core.GameState{})
	rec.abandon()

	if rounds, _ := store.RecentRounds("apples_zen", 10); len(rounds) != 0 {
		t.Errorf("rounds = %+v, expected none", rounds)
	}
}

func TestRoundRecorderWithoutStore(t *testing.T) {
	rec := newRoundRecorder(nil, "apples", "dave")

	// Must not panic.
	rec.observe(core.GameState{Score: 1, GameOver: true, Outcome: core.OutcomeTimedOut, Elapsed: 1})
	rec.abandon()
}
