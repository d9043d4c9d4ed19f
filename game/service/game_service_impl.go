package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/wricardo/logjam/game/engine"
	"github.com/wricardo/logjam/game/view"
)

// gameServiceImpl implements the GameService interface. Every engine access
// goes through mu, so the frame loop and request handlers never overlap.
type gameServiceImpl struct {
	sessions SessionManager
	configs  ConfigManager
	mu       sync.RWMutex
}

// NewGameService creates a new game service instance
func NewGameService(sessions SessionManager, configs ConfigManager) GameService {
	return &gameServiceImpl{
		sessions: sessions,
		configs:  configs,
	}
}

// CreateSession creates a new game session
func (s *gameServiceImpl) CreateSession(ctx context.Context, configName string) (*SessionInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var config *engine.LevelConfig
	var err error
	configID := configName
	if configName != "" {
		config, err = s.configs.LoadConfig(configName)
		if err != nil {
			if errors.Is(err, ErrConfigNotFound) {
				available, listErr := s.configs.ListConfigs()
				if listErr == nil && len(available) > 0 {
					var ids []string
					for _, cfg := range available {
						ids = append(ids, cfg.ConfigID)
					}
					return nil, fmt.Errorf("%w: '%s'. Available configs: %v", ErrConfigNotFound, configName, ids)
				}
				return nil, fmt.Errorf("%w: '%s'. Use /api/configs to list available levels", ErrConfigNotFound, configName)
			}
			return nil, fmt.Errorf("failed to load config %s: %w", configName, err)
		}
	} else {
		configID, config = s.configs.GetDefault()
	}

	session, err := s.sessions.Create("", configID, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	log.WithFields(log.Fields{"session": session.ID, "config": configID}).Info("session created")
	return sessionInfo(session), nil
}

func sessionInfo(session *Session) *SessionInfo {
	return &SessionInfo{
		ID:             session.ID,
		ConfigName:     session.ConfigID,
		CreatedAt:      session.CreatedAt,
		LastAccessedAt: session.LastAccessedAt,
		GameState:      session.Engine.GetState(),
		GameConfig:     session.Config,
	}
}

// lookup fetches a session and touches its access time
func (s *gameServiceImpl) lookup(sessionID string) (*Session, error) {
	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	s.sessions.UpdateLastAccessed(sessionID)
	return sess, nil
}

// GetSession retrieves session information
func (s *gameServiceImpl) GetSession(ctx context.Context, sessionID string) (*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sessionInfo(sess), nil
}

// ListSessions returns all active sessions
func (s *gameServiceImpl) ListSessions(ctx context.Context) ([]*SessionInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions.List()
	result := make([]*SessionInfo, 0, len(sessions))
	for _, sess := range sessions {
		result = append(result, sessionInfo(sess))
	}
	return result, nil
}

// DeleteSession removes a session
func (s *gameServiceImpl) DeleteSession(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.sessions.Delete(sessionID); err != nil {
		return fmt.Errorf("session %q: %w", sessionID, err)
	}
	return nil
}

// Move executes a single move for a session
func (s *gameServiceImpl) Move(ctx context.Context, sessionID, direction string, reset bool) (*MoveResult, error) {
	dir, err := engine.ParseDirection(direction)
	if err != nil {
		return nil, fmt.Errorf("%w: %q (use up, down, left or right)", err, direction)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	events := []GameEvent{}
	if reset {
		sess.Engine.Reset()
		events = append(events, resetEvent())
	}

	out := sess.Engine.Move(dir)
	events = append(events, moveEvent(dir, out))

	log.WithFields(log.Fields{
		"session":   sess.ID,
		"direction": dir.String(),
		"outcome":   out.Outcome,
		"committed": out.Committed,
	}).Debug("move resolved")

	return &MoveResult{
		Success:       out.Committed,
		Allowed:       out.Allowed,
		Outcome:       out.Outcome,
		From:          out.From,
		To:            out.To,
		Log:           out.Log,
		Message:       describeOutcome(dir, out),
		GameState:     sess.Engine.GetState(),
		Events:        events,
		PossibleMoves: sess.Engine.GetPossibleMoves(),
	}, nil
}

// BulkMove executes multiple moves in sequence. It stops at the first move
// that neither moved the player nor a log.
func (s *gameServiceImpl) BulkMove(ctx context.Context, sessionID string, moves []string, reset bool) (*BulkMoveResult, error) {
	dirs := make([]engine.Direction, 0, len(moves))
	for i, m := range moves {
		dir, err := engine.ParseDirection(m)
		if err != nil {
			return nil, fmt.Errorf("move %d: %w: %q", i+1, err, m)
		}
		dirs = append(dirs, dir)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	result := &BulkMoveResult{
		RequestedMoves: len(moves),
		Steps:          []StepInfo{},
		Events:         []GameEvent{},
	}

	if reset {
		sess.Engine.Reset()
		result.Events = append(result.Events, resetEvent())
	}
	result.StartPos = sess.Engine.GetPlayerPosition()

	if len(dirs) > MaxBulkMoves {
		result.Truncated = true
		result.Limit = MaxBulkMoves
		dirs = dirs[:MaxBulkMoves]
	}

	for i, dir := range dirs {
		out := sess.Engine.Move(dir)
		result.MovesExecuted++
		result.Steps = append(result.Steps, StepInfo{
			Idx:       i + 1,
			Dir:       dir.String(),
			From:      out.From,
			To:        out.To,
			Outcome:   out.Outcome,
			Committed: out.Committed,
			Log:       out.Log,
		})
		result.Events = append(result.Events, moveEvent(dir, out))

		if out.Committed {
			result.PlayerSteps++
		}
		if out.Log != nil {
			result.LogsMoved++
		}
		if !out.Committed && out.Log == nil {
			result.StoppedOnMove = i + 1
			result.StopReasonCode = out.Outcome
			result.StoppedReason = fmt.Sprintf("move %d (%s): %s", i+1, dir, describeOutcome(dir, out))
			break
		}
	}

	result.EndPos = sess.Engine.GetPlayerPosition()
	result.GameState = sess.Engine.GetState()
	result.PossibleMoves = sess.Engine.GetPossibleMoves()

	log.WithFields(log.Fields{
		"session":  sess.ID,
		"executed": result.MovesExecuted,
		"steps":    result.PlayerSteps,
		"logs":     result.LogsMoved,
	}).Debug("bulk move resolved")

	return result, nil
}

// Reset resets a game session to its initial layout
func (s *gameServiceImpl) Reset(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.Reset(), nil
}

// GetGameState retrieves the current game state
func (s *gameServiceImpl) GetGameState(ctx context.Context, sessionID string) (*engine.GameState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.Engine.GetState(), nil
}

// GetMoveHistory returns paginated move history
func (s *gameServiceImpl) GetMoveHistory(ctx context.Context, sessionID string, opts HistoryOptions) (*HistoryResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	history := sess.Engine.GetMoveHistory()
	total := len(history)

	if opts.Page < 1 {
		opts.Page = 1
	}
	if opts.Limit <= 0 {
		opts.Limit = 20
	}
	if opts.Limit > 100 {
		opts.Limit = 100
	}
	if opts.Order == "" {
		opts.Order = "desc"
	}

	totalPages := (total + opts.Limit - 1) / opts.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	start := (opts.Page - 1) * opts.Limit
	end := start + opts.Limit
	if end > total {
		end = total
	}

	moves := []engine.MoveHistoryEntry{}
	if opts.Order == "desc" {
		for i := total - 1 - start; i >= 0 && i >= total-end; i-- {
			moves = append(moves, history[i])
		}
	} else if start < total {
		moves = append(moves, history[start:end]...)
	}

	return &HistoryResponse{
		Moves:       moves,
		TotalMoves:  total,
		Page:        opts.Page,
		PageSize:    opts.Limit,
		TotalPages:  totalPages,
		HasNext:     opts.Page < totalPages,
		HasPrevious: opts.Page > 1,
	}, nil
}

// DescribeCell reports the terrain and occupants of one cell
func (s *gameServiceImpl) DescribeCell(ctx context.Context, sessionID string, pos engine.Position) (*CellInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.lookup(sessionID)
	if err != nil {
		return nil, err
	}

	info := &CellInfo{Position: pos, Markers: []string{}}
	if cell, ok := sess.Engine.DescribeCell(pos); ok {
		info.InBounds = true
		info.Safe = engine.IsSafe(cell)
		for _, m := range cell.Markers() {
			info.Markers = append(info.Markers, m.String())
		}
	}
	info.Player = sess.Engine.GetPlayerPosition() == pos
	for _, lv := range sess.Engine.LogViews() {
		if lv.Position == pos {
			lv := lv
			info.Log = &lv
		}
	}
	return info, nil
}

// GetFrame returns the drawable snapshot of a session
func (s *gameServiceImpl) GetFrame(ctx context.Context, sessionID string) (*view.Frame, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, fmt.Errorf("session %q: %w", sessionID, err)
	}
	frame := view.Snapshot(sess.Engine)
	frame.SessionID = sess.ID
	return frame, nil
}

// Advance ticks every session's animations by dt milliseconds and returns the
// IDs of sessions that had something in flight, including those that just
// settled.
func (s *gameServiceImpl) Advance(ctx context.Context, dt float64) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	var changed []string
	for _, sess := range s.sessions.List() {
		if !sess.Engine.Animating() {
			continue
		}
		sess.Engine.Tick(dt)
		changed = append(changed, sess.ID)
	}
	return changed
}

// ListConfigs returns available levels
func (s *gameServiceImpl) ListConfigs(ctx context.Context) ([]*ConfigInfo, error) {
	return s.configs.ListConfigs()
}

// LoadConfig loads a specific level
func (s *gameServiceImpl) LoadConfig(ctx context.Context, configName string) (*engine.LevelConfig, error) {
	return s.configs.LoadConfig(configName)
}

// SaveConfig saves a level to disk
func (s *gameServiceImpl) SaveConfig(ctx context.Context, configName string, config *engine.LevelConfig) error {
	return s.configs.SaveConfig(configName, config)
}

func resetEvent() GameEvent {
	return GameEvent{
		Type:      "reset",
		Message:   "Level reset to its initial layout",
		Timestamp: time.Now(),
	}
}

func moveEvent(dir engine.Direction, out engine.MoveOutcome) GameEvent {
	ev := GameEvent{
		Message:   describeOutcome(dir, out),
		Timestamp: time.Now(),
		Position:  out.To,
	}
	switch {
	case out.Log != nil:
		ev.Type = "push"
		ev.Position = out.Log.To
	case out.Committed:
		ev.Type = "move"
	case out.Allowed:
		ev.Type = "busy"
	default:
		ev.Type = "blocked"
	}
	return ev
}

// describeOutcome renders a one-line human description of a move
func describeOutcome(dir engine.Direction, out engine.MoveOutcome) string {
	switch out.Outcome {
	case engine.OutcomeWalk:
		if !out.Committed {
			return "Still moving, input ignored"
		}
		return fmt.Sprintf("Walked %s to (%d,%d)", dir, out.To.X, out.To.Y)
	case engine.OutcomeBoardLog, engine.OutcomeSlideIntoWater:
		if !out.Committed {
			return "Still moving, input ignored"
		}
		return fmt.Sprintf("Stepped %s onto the log at (%d,%d)", dir, out.To.X, out.To.Y)
	case engine.OutcomeOutOfBounds:
		return "Blocked by the edge of the board"
	case engine.OutcomeRock:
		return "Blocked by a rock"
	case engine.OutcomeWater:
		return "Cannot wade into open water"
	case engine.OutcomeFloatingCrosswise:
		return "The floating log lies across your path"
	case engine.OutcomeObstacleAhead:
		return "The log is wedged against a stump or rock"
	case engine.OutcomeRoundBlocked, engine.OutcomeLogAhead:
		return "Another log is in the way"
	case engine.OutcomeKnockRound, engine.OutcomeSlide, engine.OutcomeRoll, engine.OutcomeRollIntoWater:
		if out.Log == nil {
			return string(out.Outcome)
		}
		return fmt.Sprintf("Pushed the log %s from (%d,%d) to (%d,%d), now %s",
			dir, out.Log.From.X, out.Log.From.Y, out.Log.To.X, out.Log.To.Y, out.Log.Orientation)
	}
	return string(out.Outcome)
}
