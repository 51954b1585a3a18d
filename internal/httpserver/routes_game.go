// internal/httpserver/routes_game.go
//
// Session endpoints for the Orapa Mine backend.
// Responsibilities:
//   - Create/list/join sessions; the creator directs, later joiners explore.
//   - Drive the lifecycle: start setup, place/remove pieces, begin play.
//   - Fire waves and judge board guesses, persisting shots and results.
//   - Leaderboard over completed sessions.
//
// All routes run with optional auth: signed-in users play under their
// account, guests under the anonymous cookie. The live session itself is in
// the memory store; SQLite keeps the durable record (owner row, shot log,
// final layout, stats).

package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/orapamine/go-server/internal/board"
	"github.com/orapamine/go-server/internal/game"
	"github.com/orapamine/go-server/internal/geometry"
	"github.com/orapamine/go-server/internal/mixer"
	"github.com/orapamine/go-server/internal/store"
	"github.com/orapamine/go-server/internal/wave"
)

// mountGameRoutes registers the /games and /leaderboard endpoints.
func (s *Server) mountGameRoutes() {
	s.r.Route("/games", func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		r.Post("/", s.handleCreateGame)
		r.Get("/", s.handleListGames)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleState)
			r.Get("/state", s.handleState)
			r.Get("/labels", s.handleLabels)
			r.Post("/join", s.handleJoin)
			r.Post("/start", s.handleStart)
			r.Post("/pieces", s.handlePlacePiece)
			r.Delete("/pieces", s.handleRemovePiece)
			r.Post("/begin", s.handleBegin)
			r.Post("/shoot", s.handleShoot)
			r.Post("/guess", s.handleGuess)
			r.Post("/cancel", s.handleCancel)
		})
	})
	s.r.With(s.withOptionalAuth()).Get("/leaderboard", s.handleLeaderboard)
}

// identity resolves the acting player: account ID for signed-in users, the
// anonymous cookie otherwise. The display name falls back from the request
// body to the username to "guest".
func (s *Server) identity(w http.ResponseWriter, r *http.Request, name string) (id, display string) {
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		if name == "" {
			name = me.Username
		}
		return me.ID, name
	}
	if name == "" {
		name = "guest"
	}
	return s.ensureAnonID(w, r), name
}

// session loads the live session or writes a JSON 404.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *game.Game {
	g, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"not_found"}`, http.StatusNotFound)
		return nil
	}
	return g
}

// engineError maps engine/board/tracer errors onto HTTP statuses.
func engineError(w http.ResponseWriter, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, game.ErrWrongPhase), errors.Is(err, game.ErrSessionFull):
		status = http.StatusConflict
	case errors.Is(err, game.ErrNotDirector), errors.Is(err, game.ErrNotYourTurn),
		errors.Is(err, game.ErrUnknownActor):
		status = http.StatusForbidden
	case errors.Is(err, board.ErrOverlap):
		status = http.StatusConflict
	}
	b, _ := json.Marshal(map[string]string{"error": err.Error()})
	http.Error(w, string(b), status)
}

// ------------------------------ lifecycle ----------------------------------

type createGameReq struct {
	Name       string `json:"name"`
	Difficulty int    `json:"difficulty"`
}

type sessionRes struct {
	PlayerID string    `json:"player_id"`
	Game     game.View `json:"game"`
}

// handleCreateGame opens a new session with the caller as director and
// records the owner row for history/stats.
func (s *Server) handleCreateGame(w http.ResponseWriter, r *http.Request) {
	var req createGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	pid, name := s.identity(w, r, req.Name)
	g, err := game.New(s.rules, pid, name, req.Difficulty)
	if err != nil {
		engineError(w, err)
		return
	}
	if err := s.store.Save(r.Context(), g); err != nil {
		log.Error().Err(err).Msg("save session")
		http.Error(w, `{"error":"save_failed"}`, http.StatusInternalServerError)
		return
	}

	// Owner row: user_id for accounts, anonymous_id for guests.
	now := time.Now().UTC().Format(time.RFC3339)
	ownerCol := "anonymous_id"
	if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
		ownerCol = "user_id"
	}
	if _, err := s.db.Exec(`INSERT INTO games (id, `+ownerCol+`, status, difficulty, shots, created_at)
	                        VALUES (?,?,?,?,0,?)`, g.ID, pid, string(g.Status), g.Difficulty, now); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert game row")
	}

	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(sessionRes{PlayerID: pid, Game: g.StateFor(pid)})
}

// handleListGames returns joinable (waiting) sessions, newest first.
func (s *Server) handleListGames(w http.ResponseWriter, r *http.Request) {
	gs, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, `{"error":"list_failed"}`, http.StatusInternalServerError)
		return
	}
	pid, _ := s.identity(w, r, "")
	out := []game.View{}
	for _, g := range gs {
		if v := g.StateFor(pid); v.Status == game.StatusWaiting {
			out = append(out, v)
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

type joinReq struct {
	Name string `json:"name"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	var req joinReq
	_ = json.NewDecoder(r.Body).Decode(&req)
	pid, name := s.identity(w, r, req.Name)
	if err := g.Join(pid, name); err != nil {
		engineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(sessionRes{PlayerID: pid, Game: g.StateFor(pid)})
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	pid, _ := s.identity(w, r, "")
	if err := g.Start(pid); err != nil {
		engineError(w, err)
		return
	}
	s.persistStatus(g)
	_ = json.NewEncoder(w).Encode(g.StateFor(pid))
}

// ------------------------------- setup -------------------------------------

type pieceReq struct {
	Kind     geometry.PieceKind `json:"kind"`
	Color    mixer.PieceColor   `json:"color"`
	X        int                `json:"x"`
	Y        int                `json:"y"`
	Rotation geometry.Rotation  `json:"rotation"`
}

func (p pieceReq) placed() board.PlacedPiece {
	return board.PlacedPiece{Kind: p.Kind, Color: p.Color, X: p.X, Y: p.Y, Rotation: p.Rotation}
}

func (s *Server) handlePlacePiece(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	var req pieceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	pid, _ := s.identity(w, r, "")
	if err := g.PlacePiece(pid, req.placed()); err != nil {
		engineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(g.StateFor(pid))
}

func (s *Server) handleRemovePiece(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	var req pieceReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	pid, _ := s.identity(w, r, "")
	if err := g.RemovePiece(pid, req.Kind, req.Color); err != nil {
		engineError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(g.StateFor(pid))
}

// handleBegin locks the board, opens play, and writes the hidden layout to
// the durable record (it only becomes visible through the API at the end).
func (s *Server) handleBegin(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	pid, _ := s.identity(w, r, "")
	if err := g.Begin(pid); err != nil {
		engineError(w, err)
		return
	}
	s.persistStatus(g)
	for _, p := range g.StateFor(pid).Pieces {
		if _, err := s.db.Exec(`INSERT INTO placed_pieces (game_id, kind, color, x, y, rotation)
		                        VALUES (?,?,?,?,?,?)`,
			g.ID, string(p.Kind), string(p.Color), p.X, p.Y, int(p.Rotation)); err != nil {
			log.Warn().Err(err).Str("gameId", g.ID).Msg("insert placed piece")
		}
	}
	_ = json.NewEncoder(w).Encode(g.StateFor(pid))
}

// -------------------------------- play -------------------------------------

type shootReq struct {
	Entry string `json:"entry"`
}

func (s *Server) handleShoot(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	var req shootReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	pid, _ := s.identity(w, r, "")
	res, err := g.Shoot(pid, req.Entry)
	if err != nil {
		engineError(w, err)
		return
	}
	if res.Outcome == wave.OutcomeReflectionLimit {
		// A trapped wave is a legal board but worth noticing in the logs.
		log.Warn().Str("gameId", g.ID).Str("entry", req.Entry).Msg("wave hit reflection cap")
	}

	path, _ := json.Marshal(res.Path)
	if _, err := s.db.Exec(`INSERT INTO wave_shots (game_id, seq, player_id, entry, exit, color, outcome, reflections, path, created_at)
	                        VALUES (?,?,?,?,?,?,?,?,?,?)`,
		g.ID, len(g.StateFor(pid).Shots), pid, res.Entry, res.Exit, string(res.Color),
		string(res.Outcome), res.Reflections, string(path),
		time.Now().UTC().Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("insert wave shot")
	}
	if _, err := s.db.Exec(`UPDATE games SET shots = shots + 1 WHERE id=?`, g.ID); err != nil {
		log.Warn().Err(err).Msg("update shot count")
	}

	_ = json.NewEncoder(w).Encode(res)
}

type guessReq struct {
	Pieces []pieceReq `json:"pieces"`
}

type guessRes struct {
	Correct bool      `json:"correct"`
	Game    game.View `json:"game"`
}

// handleGuess judges a full-board reconstruction. A win completes the
// session; stats are updated for signed-in winners (best effort).
func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	var req guessReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"bad_json"}`, http.StatusBadRequest)
		return
	}
	pid, _ := s.identity(w, r, "")
	guess := make([]board.PlacedPiece, len(req.Pieces))
	for i, p := range req.Pieces {
		guess[i] = p.placed()
	}
	won, err := g.GuessBoard(pid, guess)
	if err != nil {
		engineError(w, err)
		return
	}
	if won {
		now := time.Now().UTC().Format(time.RFC3339)
		tx, _ := s.db.Begin()
		defer func() { _ = tx.Rollback() }()
		if _, err := tx.Exec(`UPDATE games SET status=?, winner_id=?, finished_at=? WHERE id=?`,
			string(game.StatusCompleted), pid, now, g.ID); err != nil {
			log.Warn().Err(err).Msg("finish game")
		}
		if me, _ := r.Context().Value(ctxUserKey{}).(*authUser); me != nil {
			if err := s.bumpStats(tx, me.ID, true); err != nil {
				log.Warn().Err(err).Str("user", me.ID).Msg("bump stats")
			}
		}
		_ = tx.Commit()
	}
	_ = json.NewEncoder(w).Encode(guessRes{Correct: won, Game: g.StateFor(pid)})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	pid, _ := s.identity(w, r, "")
	if err := g.Cancel(pid); err != nil {
		engineError(w, err)
		return
	}
	s.persistStatus(g)
	if _, err := s.db.Exec(`UPDATE games SET finished_at=? WHERE id=?`,
		time.Now().UTC().Format(time.RFC3339), g.ID); err != nil {
		log.Warn().Err(err).Msg("record cancel time")
	}
	_ = json.NewEncoder(w).Encode(g.StateFor(pid))
}

// ------------------------------- queries -----------------------------------

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	pid, _ := s.identity(w, r, "")
	_ = json.NewEncoder(w).Encode(g.StateFor(pid))
}

// handleLabels lists the border entry labels for the session's board.
func (s *Server) handleLabels(w http.ResponseWriter, r *http.Request) {
	g := s.session(w, r)
	if g == nil {
		return
	}
	pid, _ := s.identity(w, r, "")
	v := g.StateFor(pid)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"labels": wave.Labels(v.BoardWidth, v.BoardHeight),
	})
}

// handleLeaderboard ranks users by wins, then fewest total shots across
// their completed sessions.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	rows, err := s.db.Query(`
		SELECT u.username, u.wins, u.games_played,
		       COALESCE((SELECT SUM(g.shots) FROM games g
		                 WHERE g.winner_id = u.id AND g.status = 'completed'), 0) AS shots
		FROM users u
		WHERE u.games_played > 0
		ORDER BY u.wins DESC, shots ASC, u.username ASC
		LIMIT 20`)
	if err != nil {
		http.Error(w, `{"error":"db_error"}`, http.StatusInternalServerError)
		return
	}
	defer rows.Close()

	type lbRow struct {
		Username    string `json:"username"`
		Wins        int    `json:"wins"`
		GamesPlayed int    `json:"gamesPlayed"`
		Shots       int    `json:"shots"`
	}
	out := []lbRow{}
	for rows.Next() {
		var row lbRow
		if err := rows.Scan(&row.Username, &row.Wins, &row.GamesPlayed, &row.Shots); err == nil {
			out = append(out, row)
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

// persistStatus mirrors the live status into the durable games row.
func (s *Server) persistStatus(g *game.Game) {
	v := g.StateFor("")
	if _, err := s.db.Exec(`UPDATE games SET status=? WHERE id=?`, string(v.Status), g.ID); err != nil {
		log.Warn().Err(err).Str("gameId", g.ID).Msg("persist status")
	}
}
