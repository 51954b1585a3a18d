// internal/game/types.go
//
// Core type definitions for the deduction game session engine.
// Defines:
//   - Status: session lifecycle (waiting/setup/in_progress/completed/cancelled).
//   - Role: director (hides the pieces) vs explorer (fires waves).
//   - Player, Shot, Game: state for a single session.

package game

import (
	"sync"
	"time"

	"github.com/orapamine/go-server/internal/board"
	"github.com/orapamine/go-server/internal/mixer"
	"github.com/orapamine/go-server/internal/wave"
)

// Status is the session lifecycle state.
type Status string

const (
	// StatusWaiting: created, players may join.
	StatusWaiting Status = "waiting"
	// StatusSetup: the director is placing pieces.
	StatusSetup Status = "setup"
	// StatusInProgress: explorers are firing waves and guessing.
	StatusInProgress Status = "in_progress"
	// StatusCompleted: an explorer reproduced the hidden board.
	StatusCompleted Status = "completed"
	// StatusCancelled: abandoned before completion.
	StatusCancelled Status = "cancelled"
)

// Role is a player's part in the session.
type Role string

const (
	RoleDirector Role = "director"
	RoleExplorer Role = "explorer"
)

// Player is one participant in a session.
type Player struct {
	ID       string    `json:"id"`
	Name     string    `json:"name"`
	Role     Role      `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Shot is one fired wave and its traced result.
type Shot struct {
	Seq      int         `json:"seq"`
	PlayerID string      `json:"player_id"`
	Result   wave.Result `json:"result"`
	At       time.Time   `json:"at"`
}

// Rules are the fixed parameters a session is created with. They mirror the
// server configuration so the engine has no config dependency.
type Rules struct {
	BoardWidth     int
	BoardHeight    int
	MaxReflections int
	MixRule        mixer.Rule
	MaxPlayers     int
	MinPieces      int
	MaxPieces      int
}

// Game holds the state of a single session. All exported methods are safe
// for concurrent use.
type Game struct {
	mu sync.Mutex

	ID         string
	Rules      Rules
	Status     Status
	Difficulty int // number of pieces the director hides
	Players    []Player
	Board      *board.Board
	Shots      []Shot
	Winner     string // player ID, set on completion
	CreatedAt  time.Time
	StartedAt  time.Time // zero until setup completes
	FinishedAt time.Time // zero until completed/cancelled

	turn int // index into the explorer order
}
