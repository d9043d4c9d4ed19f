package engine

import (
	"fmt"
	"time"
)

// Engine provides the main interface for game operations
type Engine interface {
	// Game state
	GetState() *GameState
	Reset() *GameState
	GetPlayerPosition() Position

	// Movement operations
	Move(dir Direction) MoveOutcome
	CanMove(dir Direction) bool
	GetPossibleMoves() []string

	// Animation
	Tick(dt float64)
	Animating() bool

	// Configuration
	GetConfig() *LevelConfig

	// History
	GetMoveHistory() []MoveHistoryEntry
	GetLastMove() *MoveHistoryEntry

	// Terrain
	DescribeCell(p Position) (Cell, bool)
}

// MoveOutcome is the result of Move. Verdict is the resolver's answer;
// Committed is false when an allowed move was refused because the player was
// still animating.
type MoveOutcome struct {
	Verdict
	From      Position `json:"from"`
	To        Position `json:"to"`
	Committed bool     `json:"committed"`
}

// GameEngine implements the Engine interface
type GameEngine struct {
	config   *LevelConfig
	board    *Board
	registry *Registry
	history  []MoveHistoryEntry
}

// NewEngine creates a new game engine from a level configuration
func NewEngine(config *LevelConfig) (*GameEngine, error) {
	if err := ValidateLevelConfig(config); err != nil {
		return nil, err
	}

	e := &GameEngine{config: config}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEngineFromBoard builds an engine around a pre-built board. A round log
// is created on every Stump cell.
func NewEngineFromBoard(board *Board, start Position, colors Colors, timing Timing) (*GameEngine, error) {
	reg, err := populate(board, start, colors, timing)
	if err != nil {
		return nil, err
	}
	return &GameEngine{board: board, registry: reg}, nil
}

func (e *GameEngine) load() error {
	cells, err := ParseLayers(e.config.Layers, e.config.Legend)
	if err != nil {
		return err
	}
	board, err := NewBoard(cells)
	if err != nil {
		return err
	}
	reg, err := populate(board, e.config.Start, e.config.ColorsOrDefault(), e.config.TimingOrDefault())
	if err != nil {
		return err
	}
	e.board = board
	e.registry = reg
	return nil
}

func populate(board *Board, start Position, colors Colors, timing Timing) (*Registry, error) {
	if !board.InBounds(start) {
		return nil, fmt.Errorf("player start (%d,%d): %w", start.X, start.Y, ErrOutOfBounds)
	}
	reg := NewRegistry(start, colors.Player, timing)
	for _, p := range board.Stumps() {
		if err := reg.AddLog(p, colors.Log); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Board returns the terrain
func (e *GameEngine) Board() *Board {
	return e.board
}

// Registry returns the movable entities
func (e *GameEngine) Registry() *Registry {
	return e.registry
}

// GetState returns a snapshot of the current game state
func (e *GameEngine) GetState() *GameState {
	player := e.registry.Player()
	pp := e.registry.PlayerPosition()

	state := &GameState{
		Width:  e.board.Width(),
		Height: e.board.Height(),
		Rows:   RenderRows(e.board, e.registry),
		Player: PlayerView{
			Position: pp,
			Draw:     player.DrawPosition(pp),
			Phase:    player.Anim.Phase,
			Color:    player.Color,
		},
		Logs:        e.LogViews(),
		TotalMoves:  len(e.history),
		LastMove:    e.GetLastMove(),
		MoveHistory: e.history,
	}
	if e.config != nil {
		state.LevelName = e.config.Name
	}
	return state
}

// LogViews returns the logs with their draw positions, row-major
func (e *GameEngine) LogViews() []LogView {
	positions := e.registry.LogPositions()
	views := make([]LogView, 0, len(positions))
	for _, p := range positions {
		log := e.registry.LogAt(p)
		views = append(views, LogView{
			Position:    p,
			Draw:        log.DrawPosition(p),
			Orientation: log.Orientation,
			Phase:       log.Anim.Phase,
			Color:       log.Color,
		})
	}
	return views
}

// Reset rebuilds the board and entities from the level. Move history is kept.
func (e *GameEngine) Reset() *GameState {
	if e.config != nil {
		if err := e.load(); err != nil {
			// validated by NewEngine
			panic(err)
		}
	}
	return e.GetState()
}

// GetPlayerPosition returns the current player position
func (e *GameEngine) GetPlayerPosition() Position {
	return e.registry.PlayerPosition()
}

// Move attempts to move the player one cell along dir
func (e *GameEngine) Move(dir Direction) MoveOutcome {
	from := e.registry.PlayerPosition()
	out := e.move(from, dir)
	out.From = from
	out.To = e.registry.PlayerPosition()

	e.history = append(e.history, MoveHistoryEntry{
		Action:       dir.String(),
		FromPosition: from,
		ToPosition:   out.To,
		Outcome:      out.Outcome,
		Log:          out.Log,
		Timestamp:    time.Now().Unix(),
		Success:      out.Committed,
		MoveNumber:   len(e.history) + 1,
	})
	return out
}

func (e *GameEngine) move(from Position, dir Direction) MoveOutcome {
	if !dir.Valid() {
		return MoveOutcome{Verdict: block(OutcomeOutOfBounds)}
	}
	target := from.Add(dir)
	if !e.board.InBounds(target) {
		return MoveOutcome{Verdict: block(OutcomeOutOfBounds)}
	}
	if !IsSafe(e.board.CellAt(target)) {
		return MoveOutcome{Verdict: block(OutcomeRock)}
	}

	verdict := Resolve(e.board, e.registry, from, dir)
	out := MoveOutcome{Verdict: verdict}
	if verdict.Allowed {
		out.Committed = e.registry.SetPlayerPosition(target)
	}
	return out
}

// CanMove reports whether a move along dir would currently be allowed,
// without side effects. Pushes that move a log report false because the
// player does not advance.
func (e *GameEngine) CanMove(dir Direction) bool {
	from := e.registry.PlayerPosition()
	target := from.Add(dir)
	if !dir.Valid() || !e.board.InBounds(target) || !IsSafe(e.board.CellAt(target)) {
		return false
	}
	if e.registry.Player().Anim.Phase == Animating {
		return false
	}

	log := e.registry.LogAt(target)
	cell := e.board.CellAt(target)
	if log == nil {
		return !cell.Has(Water)
	}
	if cell.Has(Water) {
		return dir.Horizontal() == (log.Orientation == Horizontal)
	}

	next := target.Add(dir)
	if b := e.board; b.InBounds(next) {
		c := b.CellAt(next)
		if c.Has(Stump) || c.Has(Rock) {
			return false
		}
	}
	if log.Orientation == Round || log.Orientation != axisOf(dir) {
		return false
	}
	return !e.board.InBounds(next) || e.board.CellAt(next).Has(Water)
}

// GetPossibleMoves returns all directions the player can walk right now
func (e *GameEngine) GetPossibleMoves() []string {
	var possible []string
	for _, dir := range []Direction{Up, Down, Left, Right} {
		if e.CanMove(dir) {
			possible = append(possible, dir.String())
		}
	}
	return possible
}

// Tick advances every entity's animation by dt milliseconds
func (e *GameEngine) Tick(dt float64) {
	e.registry.Tick(dt)
}

// Animating reports whether any entity still has a move to show
func (e *GameEngine) Animating() bool {
	return e.registry.Animating()
}

// GetConfig returns the level configuration, nil for board-built engines
func (e *GameEngine) GetConfig() *LevelConfig {
	return e.config
}

// GetMoveHistory returns the complete move history
func (e *GameEngine) GetMoveHistory() []MoveHistoryEntry {
	return e.history
}

// GetLastMove returns the last move made, or nil if no moves
func (e *GameEngine) GetLastMove() *MoveHistoryEntry {
	if len(e.history) == 0 {
		return nil
	}
	return &e.history[len(e.history)-1]
}

// DescribeCell returns the terrain at p and whether p is on the board
func (e *GameEngine) DescribeCell(p Position) (Cell, bool) {
	if !e.board.InBounds(p) {
		return 0, false
	}
	return e.board.CellAt(p), true
}

// BulkMove executes moves in sequence and returns the outcome of each
func (e *GameEngine) BulkMove(dirs []Direction) []MoveOutcome {
	results := make([]MoveOutcome, 0, len(dirs))
	for _, dir := range dirs {
		results = append(results, e.Move(dir))
	}
	return results
}
