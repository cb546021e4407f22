package storage

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	for _, s := range []int{100, 50, 170} {
		if _, err := store.SaveScore("apples", "alice", s); err != nil {
			t.Fatalf("SaveScore() failed: %v", err)
		}
	}
	if _, err := store.SaveScore("apples_zen", "bob", 0); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}

	scores, err := store.TopScores("apples", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores, got %d", len(scores))
	}

	// Should be sorted descending
	if scores[0].Score != 170 || scores[1].Score != 100 || scores[2].Score != 50 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
	if scores[0].Player != "alice" {
		t.Errorf("Player = %q, expected alice", scores[0].Player)
	}

	zen, err := store.TopScores("apples_zen", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(zen) != 1 {
		t.Errorf("Expected 1 zen score, got %d", len(zen))
	}
}

func TestStoreAnonymousPlayer(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("apples", "", 10)

	scores, _ := store.TopScores("apples", 1)
	if len(scores) != 1 || scores[0].Player != AnonymousPlayer {
		t.Errorf("scores = %v, expected one anonymous entry", scores)
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)

	for i := range 5 {
		store.SaveScore("test", "p", (i+1)*10)
	}

	scores, err := store.TopScores("test", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}

	if len(scores) != 3 {
		t.Fatalf("Expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 50 || scores[1].Score != 40 || scores[2].Score != 30 {
		t.Errorf("Scores not in expected order: %v", scores)
	}
}

func TestStoreHighScore(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("apples")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("Expected high score of 0 for empty game, got %d", high)
	}

	store.SaveScore("apples", "a", 100)
	store.SaveScore("apples", "b", 150)
	store.SaveScore("apples", "c", 120)

	high, err = store.HighScore("apples")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 150 {
		t.Errorf("Expected high score of 150, got %d", high)
	}
}

func TestStoreClearScores(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("apples", "a", 100)
	store.SaveRound(RoundResult{RoundID: "r1", GameID: "apples", Score: 100, Outcome: "timed_out"})
	store.SaveScore("apples_zen", "a", 0)

	if err := store.ClearScores("apples"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}

	if scores, _ := store.TopScores("apples", 10); len(scores) != 0 {
		t.Errorf("Expected 0 scores after clear, got %d", len(scores))
	}
	if rounds, _ := store.RecentRounds("apples", 10); len(rounds) != 0 {
		t.Errorf("Expected 0 rounds after clear, got %d", len(rounds))
	}
	if zen, _ := store.TopScores("apples_zen", 10); len(zen) != 1 {
		t.Error("Other games should not be affected by clearing")
	}
}

func TestStoreAllScores(t *testing.T) {
	store := openTestStore(t)

	for i := range 20 {
		store.SaveScore("test", "p", i*5)
	}

	scores, err := store.AllScores("test")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}

	if len(scores) != 20 {
		t.Errorf("Expected 20 scores, got %d", len(scores))
	}
}

func TestStoreRounds(t *testing.T) {
	store := openTestStore(t)

	rounds := []RoundResult{
		{RoundID: "r1", GameID: "apples", Player: "alice", Score: 170, Outcome: "completed", DurationSecs: 95},
		{RoundID: "r2", GameID: "apples", Player: "alice", Score: 80, Outcome: "timed_out", DurationSecs: 120},
		{RoundID: "r3", GameID: "apples", Player: "bob", Score: 12, Outcome: "abandoned", DurationSecs: 30},
	}
	for _, r := range rounds {
		if _, err := store.SaveRound(r); err != nil {
			t.Fatalf("SaveRound() failed: %v", err)
		}
	}

	recent, err := store.RecentRounds("apples", 2)
	if err != nil {
		t.Fatalf("RecentRounds() failed: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("Expected 2 rounds, got %d", len(recent))
	}
	if recent[0].RoundID != "r3" {
		t.Errorf("Most recent round = %q, expected r3", recent[0].RoundID)
	}

	alice, err := store.PlayerRounds("alice", 10)
	if err != nil {
		t.Fatalf("PlayerRounds() failed: %v", err)
	}
	if len(alice) != 2 {
		t.Errorf("Expected 2 rounds for alice, got %d", len(alice))
	}
	if alice[1].DurationSecs != 95 || alice[1].Outcome != "completed" {
		t.Errorf("Unexpected round: %+v", alice[1])
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	store.SaveScore("apples", "a", 100)
	store.SaveScore("apples", "b", 50)
	store.SaveRound(RoundResult{RoundID: "r1", GameID: "apples", Score: 100, Outcome: "timed_out"})
	store.SaveRound(RoundResult{RoundID: "r2", GameID: "apples", Score: 50, Outcome: "timed_out"})
	store.SaveRound(RoundResult{RoundID: "r3", GameID: "apples", Score: 3, Outcome: "abandoned"})

	stats, err := store.GetGameStats("apples")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}

	if stats.GamesCount != 2 || stats.HighScore != 100 || stats.AvgScore != 75 {
		t.Errorf("Unexpected stats: %+v", stats)
	}
	if stats.Outcomes["timed_out"] != 2 || stats.Outcomes["abandoned"] != 1 {
		t.Errorf("Unexpected outcomes: %v", stats.Outcomes)
	}
	if stats.LastPlayed.IsZero() {
		t.Error("LastPlayed should be set")
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if all["apples"] == nil || all["apples"].GamesCount != 2 {
		t.Errorf("Unexpected all-games stats: %v", all)
	}
}

func TestStoreMigratesOldScoresTable(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "old.db")

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		t.Fatal(err)
	}
	_, err = db.Exec(`
		CREATE TABLE scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			game_id TEXT NOT NULL,
			score INTEGER NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		INSERT INTO scores (game_id, score) VALUES ('apples', 42);
	`)
	db.Close()
	if err != nil {
		t.Fatal(err)
	}

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() on an old database failed: %v", err)
	}
	defer store.Close()

	scores, err := store.TopScores("apples", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 || scores[0].Player != AnonymousPlayer || scores[0].Score != 42 {
		t.Errorf("scores = %+v, expected the old row with an anonymous player", scores)
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}
