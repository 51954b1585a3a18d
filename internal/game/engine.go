// internal/game/engine.go
//
// Session engine for a single deduction game.
// Responsibilities:
//   - Create sessions and admit players (first player directs, the rest
//     explore, capped by the rules).
//   - Drive the lifecycle: waiting → setup (director hides pieces) →
//     in_progress (explorers fire waves in turn order) → completed or
//     cancelled.
//   - Fire waves through the tracer, keep the shot log, judge board
//     guesses, and rotate turns.
//   - Produce per-player views that never leak the hidden board early.
//
// Notes:
//   - Difficulty is the number of pieces the director must hide.
//   - A wrong board guess costs the explorer their turn.

package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/orapamine/go-server/internal/board"
	"github.com/orapamine/go-server/internal/geometry"
	"github.com/orapamine/go-server/internal/mixer"
	"github.com/orapamine/go-server/internal/wave"
)

var (
	ErrWrongPhase   = errors.New("operation not allowed in this phase")
	ErrNotDirector  = errors.New("only the director may do this")
	ErrNotYourTurn  = errors.New("not your turn")
	ErrUnknownActor = errors.New("player is not in this session")
	ErrSessionFull  = errors.New("session is full")
)

// New creates a session in the waiting phase with the creator as director.
func New(rules Rules, directorID, directorName string, difficulty int) (*Game, error) {
	if difficulty < rules.MinPieces || difficulty > rules.MaxPieces {
		return nil, fmt.Errorf("difficulty %d outside [%d,%d]", difficulty, rules.MinPieces, rules.MaxPieces)
	}
	b, err := board.New(rules.BoardWidth, rules.BoardHeight)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &Game{
		ID:         randomID(),
		Rules:      rules,
		Status:     StatusWaiting,
		Difficulty: difficulty,
		Players: []Player{{
			ID: directorID, Name: directorName, Role: RoleDirector, JoinedAt: now,
		}},
		Board:     b,
		CreatedAt: now,
	}, nil
}

// Join admits a player as an explorer. Joining twice is a no-op.
func (g *Game) Join(playerID, name string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Status != StatusWaiting {
		return fmt.Errorf("%w: joining requires %s", ErrWrongPhase, StatusWaiting)
	}
	if g.player(playerID) != nil {
		return nil
	}
	if len(g.Players) >= g.Rules.MaxPlayers {
		return ErrSessionFull
	}
	g.Players = append(g.Players, Player{
		ID: playerID, Name: name, Role: RoleExplorer, JoinedAt: time.Now().UTC(),
	})
	return nil
}

// Start moves the session into setup so the director can hide pieces.
// Requires at least one explorer.
func (g *Game) Start(actorID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireDirector(actorID); err != nil {
		return err
	}
	if g.Status != StatusWaiting {
		return fmt.Errorf("%w: starting requires %s", ErrWrongPhase, StatusWaiting)
	}
	if len(g.Players) < 2 {
		return errors.New("need at least one explorer to start")
	}
	g.Status = StatusSetup
	return nil
}

// PlacePiece adds a piece to the hidden board during setup.
func (g *Game) PlacePiece(actorID string, p board.PlacedPiece) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireDirector(actorID); err != nil {
		return err
	}
	if g.Status != StatusSetup {
		return fmt.Errorf("%w: placing requires %s", ErrWrongPhase, StatusSetup)
	}
	if len(g.Board.Pieces()) >= g.Difficulty {
		return fmt.Errorf("all %d pieces already placed", g.Difficulty)
	}
	nb, err := g.Board.Place(p)
	if err != nil {
		return err
	}
	g.Board = nb
	return nil
}

// RemovePiece takes a piece off the hidden board during setup. Removing an
// absent piece is a no-op.
func (g *Game) RemovePiece(actorID string, kind geometry.PieceKind, color mixer.PieceColor) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireDirector(actorID); err != nil {
		return err
	}
	if g.Status != StatusSetup {
		return fmt.Errorf("%w: removing requires %s", ErrWrongPhase, StatusSetup)
	}
	g.Board = g.Board.Remove(kind, color)
	return nil
}

// Begin locks the board and opens play. Requires exactly Difficulty pieces.
func (g *Game) Begin(actorID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireDirector(actorID); err != nil {
		return err
	}
	if g.Status != StatusSetup {
		return fmt.Errorf("%w: beginning requires %s", ErrWrongPhase, StatusSetup)
	}
	if n := len(g.Board.Pieces()); n != g.Difficulty {
		return fmt.Errorf("board has %d of %d pieces", n, g.Difficulty)
	}
	g.Status = StatusInProgress
	g.StartedAt = time.Now().UTC()
	return nil
}

// Shoot fires a wave from the given border label for the explorer whose
// turn it is, records the shot and passes the turn.
func (g *Game) Shoot(actorID, label string) (wave.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Status != StatusInProgress {
		return wave.Result{}, fmt.Errorf("%w: shooting requires %s", ErrWrongPhase, StatusInProgress)
	}
	if err := g.requireTurn(actorID); err != nil {
		return wave.Result{}, err
	}
	res, err := wave.Trace(g.Board, label, wave.Options{
		MaxReflections: g.Rules.MaxReflections,
		Rule:           g.Rules.MixRule,
	})
	if err != nil {
		return wave.Result{}, err
	}
	g.Shots = append(g.Shots, Shot{
		Seq:      len(g.Shots) + 1,
		PlayerID: actorID,
		Result:   res,
		At:       time.Now().UTC(),
	})
	g.advanceTurn()
	return res, nil
}

// GuessBoard compares an explorer's full reconstruction against the hidden
// board. An exact match (same kind/color/anchor/rotation for every piece)
// completes the session with the guesser as winner; a miss passes the turn.
func (g *Game) GuessBoard(actorID string, guess []board.PlacedPiece) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.Status != StatusInProgress {
		return false, fmt.Errorf("%w: guessing requires %s", ErrWrongPhase, StatusInProgress)
	}
	if err := g.requireTurn(actorID); err != nil {
		return false, err
	}
	if samePlacement(g.Board.Pieces(), guess) {
		g.Status = StatusCompleted
		g.Winner = actorID
		g.FinishedAt = time.Now().UTC()
		return true, nil
	}
	g.advanceTurn()
	return false, nil
}

// Cancel abandons the session. Only the director may cancel, and only
// before completion.
func (g *Game) Cancel(actorID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err := g.requireDirector(actorID); err != nil {
		return err
	}
	if g.Status == StatusCompleted || g.Status == StatusCancelled {
		return fmt.Errorf("%w: session already %s", ErrWrongPhase, g.Status)
	}
	g.Status = StatusCancelled
	g.FinishedAt = time.Now().UTC()
	return nil
}

// ----- views -----

// View is the session state as shown to one player. The hidden pieces only
// appear for the director, or for everyone once the session is over.
type View struct {
	ID          string              `json:"id"`
	Status      Status              `json:"status"`
	Difficulty  int                 `json:"difficulty"`
	BoardWidth  int                 `json:"board_width"`
	BoardHeight int                 `json:"board_height"`
	Players     []Player            `json:"players"`
	CurrentTurn string              `json:"current_turn,omitempty"`
	Shots       []Shot              `json:"shots"`
	PlacedCount int                 `json:"placed_count"`
	Pieces      []board.PlacedPiece `json:"pieces,omitempty"`
	Winner      string              `json:"winner,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
}

// StateFor renders the session for the given player.
func (g *Game) StateFor(playerID string) View {
	g.mu.Lock()
	defer g.mu.Unlock()

	v := View{
		ID:          g.ID,
		Status:      g.Status,
		Difficulty:  g.Difficulty,
		BoardWidth:  g.Board.Width(),
		BoardHeight: g.Board.Height(),
		Players:     append([]Player(nil), g.Players...),
		Shots:       append([]Shot(nil), g.Shots...),
		PlacedCount: len(g.Board.Pieces()),
		Winner:      g.Winner,
		CreatedAt:   g.CreatedAt,
	}
	if g.Status == StatusInProgress {
		if cur := g.currentExplorer(); cur != nil {
			v.CurrentTurn = cur.ID
		}
	}
	p := g.player(playerID)
	over := g.Status == StatusCompleted || g.Status == StatusCancelled
	if over || (p != nil && p.Role == RoleDirector) {
		v.Pieces = g.Board.Pieces()
	}
	return v
}

// ----- internals -----

func (g *Game) player(id string) *Player {
	for i := range g.Players {
		if g.Players[i].ID == id {
			return &g.Players[i]
		}
	}
	return nil
}

func (g *Game) requireDirector(id string) error {
	p := g.player(id)
	if p == nil {
		return ErrUnknownActor
	}
	if p.Role != RoleDirector {
		return ErrNotDirector
	}
	return nil
}

func (g *Game) explorers() []*Player {
	var out []*Player
	for i := range g.Players {
		if g.Players[i].Role == RoleExplorer {
			out = append(out, &g.Players[i])
		}
	}
	return out
}

func (g *Game) currentExplorer() *Player {
	ex := g.explorers()
	if len(ex) == 0 {
		return nil
	}
	return ex[g.turn%len(ex)]
}

func (g *Game) requireTurn(id string) error {
	p := g.player(id)
	if p == nil {
		return ErrUnknownActor
	}
	if p.Role != RoleExplorer {
		return fmt.Errorf("%w: the director does not shoot", ErrNotYourTurn)
	}
	if cur := g.currentExplorer(); cur == nil || cur.ID != id {
		return ErrNotYourTurn
	}
	return nil
}

func (g *Game) advanceTurn() {
	if n := len(g.explorers()); n > 0 {
		g.turn = (g.turn + 1) % n
	}
}

// samePlacement compares two piece sets ignoring order.
func samePlacement(want, got []board.PlacedPiece) bool {
	if len(want) != len(got) {
		return false
	}
	seen := make(map[board.PlacedPiece]int, len(want))
	for _, p := range want {
		seen[p]++
	}
	for _, p := range got {
		if seen[p] == 0 {
			return false
		}
		seen[p]--
	}
	return true
}

// randomID returns a compact 16-hex-char session identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
