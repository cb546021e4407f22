package web

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/apple-arcade/internal/config"
	"github.com/vovakirdan/apple-arcade/internal/core"
	"github.com/vovakirdan/apple-arcade/internal/games/apples"
	"github.com/vovakirdan/apple-arcade/internal/storage"
)

// ErrRoomNotFound is returned for unknown or expired room ids.
var ErrRoomNotFound = errors.New("web: room not found")

// room is one live session served over HTTP. All access to the session goes
// through mu; the clock goroutine takes the same lock for every tick.
type room struct {
	mu       sync.Mutex
	id       string
	gameID   string
	player   string
	session  *apples.Session
	lastSeen time.Time

	roundID  string
	recorded bool

	interval time.Duration
	stop     chan struct{}
	done     chan struct{}

	store  *storage.Store
	logger *log.Logger
}

func newRoom(cfg config.ApplesConfig, variant apples.Variant, player string, interval time.Duration, store *storage.Store, logger *log.Logger) *room {
	gameID := apples.IDTimed
	if variant == apples.VariantZen {
		gameID = apples.IDZen
	}

	r := &room{
		id:       uuid.NewString(),
		gameID:   gameID,
		player:   player,
		session:  apples.NewSession(cfg, variant, time.Now().UnixNano()),
		lastSeen: time.Now(),
		interval: interval,
		store:    store,
		logger:   logger,
	}

	r.mu.Lock()
	r.startRoundLocked()
	r.mu.Unlock()
	return r
}

// startRoundLocked deals a new round and arms the clock for it.
func (r *room) startRoundLocked() {
	r.stopClockLocked()
	r.session.Restart()
	r.roundID = uuid.NewString()
	r.recorded = false
	if r.session.TimerRunning() {
		r.startClockLocked()
	}
}

func (r *room) startClockLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	r.stop, r.done = stop, done

	go func() {
		defer close(done)
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if !r.tick(stop) {
					return
				}
			}
		}
	}()
}

// stopClockLocked stops the clock goroutine. It does not wait for it: the
// goroutine may be blocked on mu, which the caller holds.
func (r *room) stopClockLocked() {
	if r.stop == nil {
		return
	}
	close(r.stop)
	r.stop = nil
}

// tick advances the clock by one second and reports whether it should keep
// running. stop identifies the clock the tick came from; ticks from a clock
// stopped by a restart are dropped.
func (r *room) tick(stop chan struct{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stop != stop {
		return false
	}
	r.session.Tick()
	if r.session.TimerRunning() {
		return true
	}

	r.stop = nil
	r.recordLocked(r.session.Outcome())
	return false
}

// pointerDown, pointerEnter and pointerUp forward drag events to the session.
func (r *room) pointerDown(row, col int) apples.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen = time.Now()
	r.session.BeginSelection(row, col)
	return r.session.Snapshot()
}

func (r *room) pointerEnter(row, col int) apples.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen = time.Now()
	r.session.ExtendSelection(row, col)
	return r.session.Snapshot()
}

func (r *room) pointerUp() apples.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen = time.Now()
	r.session.CommitSelection()
	if r.session.Finished() {
		r.stopClockLocked()
		r.recordLocked(r.session.Outcome())
	}
	return r.session.Snapshot()
}

// restart abandons the round in progress, if any, and deals a new one.
func (r *room) restart() apples.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen = time.Now()
	r.recordLocked(core.OutcomeAbandoned)
	r.startRoundLocked()
	return r.session.Snapshot()
}

func (r *room) snapshot() apples.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.lastSeen = time.Now()
	return r.session.Snapshot()
}

// close stops the clock and records an unfinished round as abandoned.
func (r *room) close() {
	r.mu.Lock()
	r.stopClockLocked()
	r.recordLocked(core.OutcomeAbandoned)
	done := r.done
	r.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (r *room) idleSince() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.lastSeen
}

// recordLocked persists the current round once.
func (r *room) recordLocked(outcome core.Outcome) {
	if r.recorded {
		return
	}
	elapsed := r.session.Elapsed()
	if elapsed == 0 || outcome == core.OutcomeNone {
		return
	}
	r.recorded = true

	score := r.session.Score()
	r.logger.Info("round ended", "room", r.id, "player", r.player, "score", score, "outcome", outcome)

	if r.store == nil {
		return
	}
	if score > 0 && outcome != core.OutcomeAbandoned {
		if _, err := r.store.SaveScore(r.gameID, r.player, score); err != nil {
			r.logger.Warn("could not save score", "room", r.id, "error", err)
		}
	}
	_, err := r.store.SaveRound(storage.RoundResult{
		RoundID:      r.roundID,
		GameID:       r.gameID,
		Player:       r.player,
		Score:        score,
		Outcome:      string(outcome),
		DurationSecs: elapsed,
	})
	if err != nil {
		r.logger.Warn("could not save round", "room", r.id, "error", err)
	}
}

// roomTable holds the live rooms.
type roomTable struct {
	mu    sync.RWMutex
	rooms map[string]*room
}

func newRoomTable() *roomTable {
	return &roomTable{rooms: make(map[string]*room)}
}

func (t *roomTable) add(r *room) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rooms[r.id] = r
}

func (t *roomTable) get(id string) (*room, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	r, ok := t.rooms[id]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return r, nil
}

// remove takes a room out of the table and closes it.
func (t *roomTable) remove(id string) error {
	t.mu.Lock()
	r, ok := t.rooms[id]
	delete(t.rooms, id)
	t.mu.Unlock()

	if !ok {
		return ErrRoomNotFound
	}
	r.close()
	return nil
}

// expire closes every room idle since before cutoff and returns their ids.
func (t *roomTable) expire(cutoff time.Time) []string {
	t.mu.Lock()
	var stale []*room
	for id, r := range t.rooms {
		if r.idleSince().Before(cutoff) {
			stale = append(stale, r)
			delete(t.rooms, id)
		}
	}
	t.mu.Unlock()

	ids := make([]string, 0, len(stale))
	for _, r := range stale {
		r.close()
		ids = append(ids, r.id)
	}
	return ids
}

// closeAll empties the table.
func (t *roomTable) closeAll() {
	t.mu.Lock()
	rooms := t.rooms
	t.rooms = make(map[string]*room)
	t.mu.Unlock()

	for _, r := range rooms {
		r.close()
	}
}

func (t *roomTable) count() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.rooms)
}
