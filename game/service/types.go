package service

import (
	"time"

	"github.com/wricardo/logjam/game/engine"
)

// MaxBulkMoves caps the number of moves accepted by one BulkMove call
const MaxBulkMoves = 100

// SessionInfo provides information about a game session
type SessionInfo struct {
	ID             string              `json:"id"`
	ConfigName     string              `json:"config_name"`
	CreatedAt      time.Time           `json:"created_at"`
	LastAccessedAt time.Time           `json:"last_accessed_at"`
	GameState      *engine.GameState   `json:"game_state"`
	GameConfig     *engine.LevelConfig `json:"game_config"`
}

// MoveResult contains the result of a move operation. Success means the
// player actually changed cells; a push that only moved a log reports
// Success false with a non-nil Log.
type MoveResult struct {
	Success       bool              `json:"success"`
	Allowed       bool              `json:"allowed"`
	Outcome       engine.Outcome    `json:"outcome"`
	From          engine.Position   `json:"from"`
	To            engine.Position   `json:"to"`
	Log           *engine.LogMove   `json:"log,omitempty"`
	Message       string            `json:"message"`
	GameState     *engine.GameState `json:"game_state"`
	Events        []GameEvent       `json:"events,omitempty"`
	PossibleMoves []string          `json:"possible_moves"`
}

// BulkMoveResult contains the result of multiple moves
type BulkMoveResult struct {
	RequestedMoves int  `json:"requested_moves"`
	MovesExecuted  int  `json:"moves_executed"`
	PlayerSteps    int  `json:"player_steps"`
	LogsMoved      int  `json:"logs_moved"`
	Truncated      bool `json:"truncated,omitempty"`
	Limit          int  `json:"limit,omitempty"`

	// Set when the sequence stopped early on a move that changed nothing
	StoppedOnMove  int            `json:"stopped_on_move,omitempty"`
	StopReasonCode engine.Outcome `json:"stop_reason_code,omitempty"`
	StoppedReason  string         `json:"stopped_reason,omitempty"`

	StartPos engine.Position `json:"start_pos"`
	EndPos   engine.Position `json:"end_pos"`

	Steps         []StepInfo        `json:"steps"`
	Events        []GameEvent       `json:"events"`
	GameState     *engine.GameState `json:"game_state"`
	PossibleMoves []string          `json:"possible_moves"`
}

// StepInfo is a compact record for each executed move in the bulk call
type StepInfo struct {
	Idx       int             `json:"idx"`
	Dir       string          `json:"dir"`
	From      engine.Position `json:"from"`
	To        engine.Position `json:"to"`
	Outcome   engine.Outcome  `json:"outcome"`
	Committed bool            `json:"committed"`
	Log       *engine.LogMove `json:"log,omitempty"`
}

// GameEvent represents an event that occurred during gameplay
type GameEvent struct {
	Type      string          `json:"type"` // "move", "push", "blocked", "busy", "reset"
	Message   string          `json:"message"`
	Timestamp time.Time       `json:"timestamp"`
	Position  engine.Position `json:"position"`
}

// HistoryOptions configures move history retrieval
type HistoryOptions struct {
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
	Order string `json:"order"` // "asc" or "desc"
}

// HistoryResponse contains paginated move history
type HistoryResponse struct {
	Moves       []engine.MoveHistoryEntry `json:"moves"`
	TotalMoves  int                       `json:"total_moves"`
	Page        int                       `json:"page"`
	PageSize    int                       `json:"page_size"`
	TotalPages  int                       `json:"total_pages"`
	HasNext     bool                      `json:"has_next"`
	HasPrevious bool                      `json:"has_previous"`
}

// CellInfo describes one board cell and whatever stands on it
type CellInfo struct {
	Position engine.Position `json:"position"`
	InBounds bool            `json:"in_bounds"`
	Markers  []string        `json:"markers"`
	Safe     bool            `json:"safe"`
	Player   bool            `json:"player"`
	Log      *engine.LogView `json:"log,omitempty"`
}

// ConfigInfo provides information about a level file
type ConfigInfo struct {
	Filename    string `json:"filename"`
	ConfigID    string `json:"config_id"` // The identifier to use for session creation
	Name        string `json:"name"`      // Display name
	Description string `json:"description"`
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Logs        int    `json:"logs"`
}
