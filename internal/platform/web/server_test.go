package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/vovakirdan/apple-arcade/internal/config"
	"github.com/vovakirdan/apple-arcade/internal/games/apples"
	"github.com/vovakirdan/apple-arcade/internal/storage"
)

// pairConfig deals a single row of two fives, so one drag clears the board.
func pairConfig(timeLimit int) config.ApplesConfig {
	cfg := config.DefaultApplesConfig()
	cfg.Grid = config.ApplesGrid{Width: 2, Height: 1, MinValue: 5, MaxValue: 5}
	cfg.Rules.TimeLimit = timeLimit
	return cfg
}

func newTestServer(t *testing.T, cfg Config) *Server {
	t.Helper()
	s := NewServer(cfg)
	t.Cleanup(s.Close)
	return s
}

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func do(t *testing.T, s *Server, method, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func createRoom(t *testing.T, s *Server, body string, header ...string) createRes {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/sessions", body, header...)
	if rec.Code != http.StatusCreated {
		t.Fatalf("POST /sessions = %d: %s", rec.Code, rec.Body.String())
	}
	return decode[createRes](t, rec)
}

// waitForTick polls a room until its clock drops below limit.
func waitForTick(t *testing.T, s *Server, id string, limit int) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap := decode[apples.Snapshot](t, do(t, s, http.MethodGet, "/sessions/"+id, ""))
		if snap.TimeRemaining < limit {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s clock never ticked", id)
}

// waitForTimeout polls a room until its clock runs out.
func waitForTimeout(t *testing.T, s *Server, id string) apples.Snapshot {
	t.Helper()

	var snap apples.Snapshot
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snap = decode[apples.Snapshot](t, do(t, s, http.MethodGet, "/sessions/"+id, ""))
		if snap.TimedOut {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("room %s never timed out: state = %s, remaining = %d", id, snap.State, snap.TimeRemaining)
	return snap
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})

	rec := do(t, s, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestCreateSession(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})

	res := createRoom(t, s, `{"variant":"timed"}`)
	if res.ID == "" {
		t.Fatal("expected a room id")
	}
	snap := res.Snapshot
	if snap.State != apples.StatePlaying || !snap.Started {
		t.Errorf("state = %s, expected playing", snap.State)
	}
	if snap.Score != 0 || snap.TimeRemaining != 60 || snap.TotalTiles != 2 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Grid) != 1 || len(snap.Grid[0]) != 2 {
		t.Errorf("grid = %v, expected 1x2", snap.Grid)
	}

	rec := do(t, s, http.MethodGet, "/sessions/"+res.ID, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /sessions/{id} = %d", rec.Code)
	}
	if got := decode[apples.Snapshot](t, rec); got.State != apples.StatePlaying {
		t.Errorf("state = %s", got.State)
	}
}

func TestCreateSessionDefaultsToTimed(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})

	res := createRoom(t, s, "")
	if res.Snapshot.Variant != apples.VariantTimed {
		t.Errorf("variant = %s, expected timed", res.Snapshot.Variant)
	}
}

func TestCreateSessionRejectsBadInput(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{"variant":`},
		{"unknown variant", `{"variant":"blitz"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/sessions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, expected 400", rec.Code)
			}
		})
	}
}

func TestDragClearsPair(t *testing.T) {
	store := openTestStore(t)
	s := newTestServer(t, Config{Game: pairConfig(60), Store: store, TickInterval: 10 * time.Millisecond})

	res := createRoom(t, s, `{"variant":"timed"}`, playerHeader, "alice")
	base := "/sessions/" + res.ID

	rec := do(t, s, http.MethodPost, base+"/pointer-down", `{"row":0,"col":0}`)
	if snap := decode[apples.Snapshot](t, rec); !snap.Selecting || len(snap.Selected) != 1 {
		t.Fatalf("after pointer-down: %+v", snap)
	}

	rec = do(t, s, http.MethodPost, base+"/pointer-enter", `{"row":0,"col":1}`)
	if snap := decode[apples.Snapshot](t, rec); len(snap.Selected) != 2 {
		t.Fatalf("after pointer-enter: selected = %v", snap.Selected)
	}

	// The round needs a duration to be recorded.
	waitForTick(t, s, res.ID, 60)

	rec = do(t, s, http.MethodPost, base+"/pointer-up", "")
	snap := decode[apples.Snapshot](t, rec)
	if snap.State != apples.StateCompleted || !snap.Completed {
		t.Fatalf("state = %s, expected completed", snap.State)
	}
	if snap.Score != 2 || snap.TilesLeft != 0 {
		t.Errorf("score = %d, tiles left = %d", snap.Score, snap.TilesLeft)
	}
	if snap.Grid[0][0] != 0 || snap.Grid[0][1] != 0 {
		t.Errorf("grid = %v, expected cleared", snap.Grid)
	}

	// The clock stops with the round.
	remaining := snap.TimeRemaining
	time.Sleep(50 * time.Millisecond)
	if got := decode[apples.Snapshot](t, do(t, s, http.MethodGet, base, "")); got.TimeRemaining != remaining {
		t.Errorf("clock kept running: %d -> %d", remaining, got.TimeRemaining)
	}

	rec = do(t, s, http.MethodGet, "/scores/apples", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET /scores/apples = %d", rec.Code)
	}
	rows := decode[[]scoreRow](t, rec)
	if len(rows) != 1 || rows[0].Player != "alice" || rows[0].Score != 2 || rows[0].Rank != 1 {
		t.Errorf("scores = %+v", rows)
	}

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 1 || rounds[0].Outcome != "completed" {
		t.Errorf("rounds = %+v, expected one completed round", rounds)
	}
}

func TestClockTimesOut(t *testing.T) {
	store := openTestStore(t)
	s := newTestServer(t, Config{Game: pairConfig(3), Store: store, TickInterval: 5 * time.Millisecond})

	res := createRoom(t, s, `{"variant":"timed"}`)
	base := "/sessions/" + res.ID

	snap := waitForTimeout(t, s, res.ID)
	if snap.State != apples.StateTimedOut || snap.TimeRemaining != 0 {
		t.Fatalf("state = %s, remaining = %d, expected timed out", snap.State, snap.TimeRemaining)
	}

	// Input after the clock ran out is ignored.
	snap = decode[apples.Snapshot](t, do(t, s, http.MethodPost, base+"/pointer-down", `{"row":0,"col":0}`))
	if snap.Selecting {
		t.Error("selection should be rejected after time out")
	}

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 1 || rounds[0].Outcome != "timed_out" || rounds[0].DurationSecs != 3 {
		t.Errorf("rounds = %+v, expected one timed out round", rounds)
	}
	if scores, _ := store.TopScores("apples", 10); len(scores) != 0 {
		t.Errorf("zero-score rounds should not be saved: %+v", scores)
	}
}

func TestRestart(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})

	res := createRoom(t, s, `{"variant":"timed"}`)
	base := "/sessions/" + res.ID

	do(t, s, http.MethodPost, base+"/pointer-down", `{"row":0,"col":0}`)
	do(t, s, http.MethodPost, base+"/pointer-enter", `{"row":0,"col":1}`)
	do(t, s, http.MethodPost, base+"/pointer-up", "")

	rec := do(t, s, http.MethodPost, base+"/restart", "")
	snap := decode[apples.Snapshot](t, rec)
	if snap.State != apples.StatePlaying || snap.Score != 0 || snap.TimeRemaining != 60 {
		t.Errorf("after restart: %+v", snap)
	}
	if snap.Grid[0][0] != 5 || snap.Grid[0][1] != 5 {
		t.Errorf("grid = %v, expected a fresh deal", snap.Grid)
	}
}

func TestRestartRearmsClock(t *testing.T) {
	store := openTestStore(t)
	s := newTestServer(t, Config{Game: pairConfig(2), Store: store, TickInterval: 5 * time.Millisecond})

	res := createRoom(t, s, `{"variant":"timed"}`)
	base := "/sessions/" + res.ID
	waitForTimeout(t, s, res.ID)

	snap := decode[apples.Snapshot](t, do(t, s, http.MethodPost, base+"/restart", ""))
	if snap.State != apples.StatePlaying || snap.TimeRemaining != 2 {
		t.Fatalf("after restart: state = %s, remaining = %d", snap.State, snap.TimeRemaining)
	}

	waitForTick(t, s, res.ID, 2)
	snap = waitForTimeout(t, s, res.ID)
	if snap.State != apples.StateTimedOut || snap.TimeRemaining != 0 {
		t.Errorf("second round: state = %s, remaining = %d", snap.State, snap.TimeRemaining)
	}

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 2 {
		t.Fatalf("rounds = %+v, expected two timed out rounds", rounds)
	}
	for _, rd := range rounds {
		if rd.Outcome != "timed_out" {
			t.Errorf("outcome = %q, expected timed_out", rd.Outcome)
		}
	}
}

func TestZenSession(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60), TickInterval: 5 * time.Millisecond})

	res := createRoom(t, s, `{"variant":"zen"}`)
	if res.Snapshot.Variant != apples.VariantZen || res.Snapshot.TimeRemaining != 0 {
		t.Errorf("unexpected zen snapshot: %+v", res.Snapshot)
	}
	base := "/sessions/" + res.ID

	do(t, s, http.MethodPost, base+"/pointer-down", `{"row":0,"col":0}`)
	do(t, s, http.MethodPost, base+"/pointer-enter", `{"row":0,"col":1}`)
	snap := decode[apples.Snapshot](t, do(t, s, http.MethodPost, base+"/pointer-up", ""))

	if snap.State != apples.StatePlaying || snap.Score != 0 {
		t.Errorf("zen should keep playing without score: %+v", snap)
	}
	if snap.TilesLeft != 0 {
		t.Errorf("tiles left = %d, expected 0", snap.TilesLeft)
	}
}

func TestUnknownRoom(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})

	paths := []struct {
		method, path, body string
	}{
		{http.MethodGet, "/sessions/nope", ""},
		{http.MethodPost, "/sessions/nope/pointer-down", `{"row":0,"col":0}`},
		{http.MethodPost, "/sessions/nope/pointer-enter", `{"row":0,"col":0}`},
		{http.MethodPost, "/sessions/nope/pointer-up", ""},
		{http.MethodPost, "/sessions/nope/restart", ""},
		{http.MethodDelete, "/sessions/nope", ""},
	}

	for _, p := range paths {
		rec := do(t, s, p.method, p.path, p.body)
		if rec.Code != http.StatusNotFound {
			t.Errorf("%s %s = %d, expected 404", p.method, p.path, rec.Code)
		}
	}
}

func TestPointerBadJSON(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})
	res := createRoom(t, s, "")

	rec := do(t, s, http.MethodPost, "/sessions/"+res.ID+"/pointer-down", `{"row":`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, expected 400", rec.Code)
	}
}

func TestOversizedBodyRejected(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})
	res := createRoom(t, s, "")

	big := `{"row":0,"col":0,"pad":"` + strings.Repeat("x", 2*maxBodyBytes) + `"}`
	rec := do(t, s, http.MethodPost, "/sessions/"+res.ID+"/pointer-down", big)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("pointer-down status = %d, expected 413", rec.Code)
	}
	snap := decode[apples.Snapshot](t, do(t, s, http.MethodGet, "/sessions/"+res.ID, ""))
	if snap.Selecting {
		t.Error("oversized request should not start a selection")
	}

	big = `{"variant":"timed","pad":"` + strings.Repeat("x", 2*maxBodyBytes) + `"}`
	if rec := do(t, s, http.MethodPost, "/sessions", big); rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("create status = %d, expected 413", rec.Code)
	}
}

func TestOutOfBoundsPointerIgnored(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})
	res := createRoom(t, s, "")

	snap := decode[apples.Snapshot](t, do(t, s, http.MethodPost, "/sessions/"+res.ID+"/pointer-down", `{"row":4,"col":9}`))
	if snap.Selecting {
		t.Error("out of bounds pointer should not start a selection")
	}
}

func TestDeleteSession(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})
	res := createRoom(t, s, "")

	rec := do(t, s, http.MethodDelete, "/sessions/"+res.ID, "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE = %d, expected 204", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/sessions/"+res.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete = %d, expected 404", rec.Code)
	}
	if n := s.rooms.count(); n != 0 {
		t.Errorf("rooms = %d, expected 0", n)
	}
}

func TestDeleteRecordsAbandonedRound(t *testing.T) {
	store := openTestStore(t)
	s := newTestServer(t, Config{Game: pairConfig(60), Store: store, TickInterval: 5 * time.Millisecond})
	res := createRoom(t, s, "", playerHeader, "bob")
	waitForTick(t, s, res.ID, 60)

	do(t, s, http.MethodDelete, "/sessions/"+res.ID, "")

	rounds, _ := store.RecentRounds("apples", 10)
	if len(rounds) != 1 || rounds[0].Outcome != "abandoned" || rounds[0].Player != "bob" {
		t.Errorf("rounds = %+v, expected one abandoned round for bob", rounds)
	}
}

func TestSweepExpiresIdleRooms(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60), RoomTTL: time.Minute})

	stale := createRoom(t, s, "")
	s.sweep(time.Now().Add(2 * time.Minute))

	if rec := do(t, s, http.MethodGet, "/sessions/"+stale.ID, ""); rec.Code != http.StatusNotFound {
		t.Errorf("expired room still served: %d", rec.Code)
	}

	fresh := createRoom(t, s, "")
	s.sweep(time.Now())
	if rec := do(t, s, http.MethodGet, "/sessions/"+fresh.ID, ""); rec.Code != http.StatusOK {
		t.Errorf("fresh room expired: %d", rec.Code)
	}
}

func TestScores(t *testing.T) {
	store := openTestStore(t)
	s := newTestServer(t, Config{Game: pairConfig(60), Store: store})

	for _, sc := range []int{12, 40, 7} {
		if _, err := store.SaveScore("apples", "carol", sc); err != nil {
			t.Fatalf("SaveScore: %v", err)
		}
	}

	rows := decode[[]scoreRow](t, do(t, s, http.MethodGet, "/scores/apples?limit=2", ""))
	if len(rows) != 2 || rows[0].Score != 40 || rows[1].Score != 12 {
		t.Errorf("scores = %+v", rows)
	}

	if rec := do(t, s, http.MethodGet, "/scores/apples?limit=zero", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit = %d, expected 400", rec.Code)
	}

	rows = decode[[]scoreRow](t, do(t, s, http.MethodGet, "/scores/apples_zen", ""))
	if len(rows) != 0 {
		t.Errorf("zen scores = %+v, expected none", rows)
	}
}

func TestScoresWithoutStore(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60)})

	if rec := do(t, s, http.MethodGet, "/scores/apples", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, expected 503", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, Config{Game: pairConfig(60), Origins: []string{"http://localhost:5173"}})

	req := httptest.NewRequest(http.MethodOptions, "/sessions", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestPlayerName(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"", storage.AnonymousPlayer},
		{"  dana ", "dana"},
		{strings.Repeat("x", 40), strings.Repeat("x", maxPlayerName)},
		{"x" + strings.Repeat("а", 35), "x" + strings.Repeat("а", maxPlayerName-1)},
		{"zoë", "zoë"},
		{"bad\xffname", "badname"},
		{"\xff\xfe", storage.AnonymousPlayer},
	}

	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		req.Header.Set(playerHeader, tt.header)
		got := playerName(req)
		if got != tt.want {
			t.Errorf("playerName(%q) = %q, want %q", tt.header, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("playerName(%q) = %q is not valid UTF-8", tt.header, got)
		}
	}
}
