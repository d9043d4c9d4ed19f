package engine

import (
	"fmt"
	"sort"
)

// Registry owns the movable entities: one player and the logs, keyed by
// position. It is the only authority on what occupies a cell among movable
// entities. Keys outside the board are allowed for logs that rolled off an
// edge.
type Registry struct {
	player    *Entity
	playerPos Position
	logs      map[Position]*Entity
	timing    Timing
}

// NewRegistry creates a registry with the player placed at pos
func NewRegistry(pos Position, playerColor string, timing Timing) *Registry {
	return &Registry{
		player:    newPlayer(pos, playerColor, timing),
		playerPos: pos,
		logs:      make(map[Position]*Entity),
		timing:    timing,
	}
}

// AddLog registers a round log at pos. Used only while a board is loaded.
func (r *Registry) AddLog(pos Position, color string) error {
	if _, exists := r.logs[pos]; exists {
		return fmt.Errorf("add log at (%d,%d): %w", pos.X, pos.Y, ErrLogCollision)
	}
	r.logs[pos] = newLog(pos, color)
	return nil
}

// LogAt returns the log at pos, or nil
func (r *Registry) LogAt(pos Position) *Entity {
	return r.logs[pos]
}

// RelocateLog moves the log keyed at from to to and marks its animation
// pending. It does nothing when no log is at from. The destination must be
// free; a collision is a resolver bug and panics.
func (r *Registry) RelocateLog(from, to Position) {
	log, ok := r.logs[from]
	if !ok {
		return
	}
	if from == to {
		return
	}
	if _, taken := r.logs[to]; taken {
		panic(fmt.Errorf("relocate (%d,%d) -> (%d,%d): %w", from.X, from.Y, to.X, to.Y, ErrLogCollision))
	}
	log.restart(from)
	delete(r.logs, from)
	r.logs[to] = log
}

// SetPlayerPosition commits a new player position. It is refused while the
// player's previous move is still animating.
func (r *Registry) SetPlayerPosition(to Position) bool {
	if r.player.Anim.Phase == Animating {
		return false
	}
	r.player.restart(r.playerPos)
	r.playerPos = to
	return true
}

// Player returns the player entity
func (r *Registry) Player() *Entity {
	return r.player
}

// PlayerPosition returns the player's logical position
func (r *Registry) PlayerPosition() Position {
	return r.playerPos
}

// LogCount returns the number of registered logs
func (r *Registry) LogCount() int {
	return len(r.logs)
}

// LogPositions returns every log key in row-major order
func (r *Registry) LogPositions() []Position {
	out := make([]Position, 0, len(r.logs))
	for p := range r.logs {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Y != out[j].Y {
			return out[i].Y < out[j].Y
		}
		return out[i].X < out[j].X
	})
	return out
}

// Tick advances every entity's animation by dt milliseconds
func (r *Registry) Tick(dt float64) {
	r.player.Tick(r.playerPos, dt, r.timing)
	for pos, log := range r.logs {
		log.Tick(pos, dt, r.timing)
	}
}

// Animating reports whether any entity is pending or animating
func (r *Registry) Animating() bool {
	if r.player.Anim.Phase != Idle {
		return true
	}
	for _, log := range r.logs {
		if log.Anim.Phase != Idle {
			return true
		}
	}
	return false
}
