package web

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/apple-arcade/internal/games/apples"
	"github.com/vovakirdan/apple-arcade/internal/storage"
)

// playerHeader names the player a new room's scores are saved under.
const playerHeader = "X-Player"

const (
	defaultScoreLimit = 10
	maxScoreLimit     = 100
	maxPlayerName     = 32
	maxBodyBytes      = 1 << 10
)

type createReq struct {
	Variant string `json:"variant"` // "timed" | "zen"
}

type createRes struct {
	ID       string          `json:"id"`
	Snapshot apples.Snapshot `json:"snapshot"`
}

type pointerReq struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type scoreRow struct {
	Rank      int       `json:"rank"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "rooms": s.rooms.count()})
}

// handleCreate opens a room and deals its first round. An empty body starts
// a timed round.
func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createReq
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	if req.Variant != "" && req.Variant != string(apples.VariantTimed) && req.Variant != string(apples.VariantZen) {
		writeError(w, http.StatusBadRequest, "unknown_variant")
		return
	}

	player := playerName(r)
	rm := newRoom(s.config.Game, apples.ParseVariant(req.Variant), player, s.config.TickInterval, s.config.Store, s.logger)
	s.rooms.add(rm)
	s.logger.Info("room created", "room", rm.id, "variant", apples.ParseVariant(req.Variant), "player", player)

	writeJSON(w, http.StatusCreated, createRes{ID: rm.id, Snapshot: rm.snapshot()})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm.snapshot())
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.rooms.remove(id); err != nil {
		writeError(w, http.StatusNotFound, "room_not_found")
		return
	}
	s.logger.Info("room closed", "room", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handlePointerDown(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	p, ok := decodePointer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm.pointerDown(p.Row, p.Col))
}

func (s *Server) handlePointerEnter(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	p, ok := decodePointer(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm.pointerEnter(p.Row, p.Col))
}

func (s *Server) handlePointerUp(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm.pointerUp())
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	rm, ok := s.lookup(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rm.restart())
}

// handleScores lists the top scores of a game; ?limit= caps the list.
func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	if s.config.Store == nil {
		writeError(w, http.StatusServiceUnavailable, "scores_unavailable")
		return
	}

	limit := defaultScoreLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "bad_limit")
			return
		}
		limit = min(n, maxScoreLimit)
	}

	gameID := chi.URLParam(r, "game")
	entries, err := s.config.Store.TopScores(gameID, limit)
	if err != nil {
		s.logger.Error("could not load scores", "game", gameID, "error", err)
		writeError(w, http.StatusInternalServerError, "db_error")
		return
	}

	writeJSON(w, http.StatusOK, scoreRows(entries))
}

func scoreRows(entries []storage.ScoreEntry) []scoreRow {
	rows := make([]scoreRow, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, scoreRow{
			Rank:      i + 1,
			Player:    e.Player,
			Score:     e.Score,
			CreatedAt: e.CreatedAt,
		})
	}
	return rows
}

// lookup resolves the {id} path parameter, writing a 404 when the room is
// unknown.
func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (*room, bool) {
	rm, err := s.rooms.get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "room_not_found")
		return nil, false
	}
	return rm, true
}

func decodePointer(w http.ResponseWriter, r *http.Request) (pointerReq, bool) {
	var p pointerReq
	ok := decodeBody(w, r, &p)
	return p, ok
}

// decodeBody reads a JSON body of at most maxBodyBytes into v, writing the
// error response on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "body_too_large")
		return false
	}
	writeError(w, http.StatusBadRequest, "bad_json")
	return false
}

// playerName reads the player from the request, falling back to the
// anonymous player. Names are cut to maxPlayerName runes.
func playerName(r *http.Request) string {
	name := strings.TrimSpace(strings.ToValidUTF8(r.Header.Get(playerHeader), ""))
	if utf8.RuneCountInString(name) > maxPlayerName {
		name = strings.TrimSpace(string([]rune(name)[:maxPlayerName]))
	}
	if name == "" {
		return storage.AnonymousPlayer
	}
	return name
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	//nolint:errcheck // The client may already be gone
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}
