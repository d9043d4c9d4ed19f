package config

import (
	"fmt"

	"github.com/wricardo/logjam/game/engine"
)

// LevelStats summarizes a level for the levels analyze command
type LevelStats struct {
	Name      string `json:"name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Water     int    `json:"water"`
	Land      int    `json:"land"`
	Stumps    int    `json:"stumps"`
	Rocks     int    `json:"rocks"`
	Logs      int    `json:"logs"`
	Floating  int    `json:"floating_logs"`
	Reachable int    `json:"reachable_land"`

	// Logs the player can never stand next to without pushing another log first
	Stranded []engine.Position `json:"stranded_logs,omitempty"`
	Warnings []string          `json:"warnings,omitempty"`
}

// Analyze builds a board from config and reports marker counts, how much land
// is walkable from the start, and which logs the player cannot reach.
func Analyze(config *engine.LevelConfig) (*LevelStats, error) {
	if err := engine.ValidateLevelConfig(config); err != nil {
		return nil, err
	}
	eng, err := engine.NewEngine(config)
	if err != nil {
		return nil, err
	}
	board := eng.Board()
	reg := eng.Registry()

	stats := &LevelStats{
		Name:   config.Name,
		Width:  board.Width(),
		Height: board.Height(),
		Water:  board.CountMarker(engine.Water),
		Land:   board.CountMarker(engine.Land),
		Stumps: board.CountMarker(engine.Stump),
		Rocks:  board.CountMarker(engine.Rock),
		Logs:   reg.LogCount(),
	}

	reachable := walkable(board, reg, config.Start)
	stats.Reachable = len(reachable)

	for _, p := range reg.LogPositions() {
		cell := board.CellAt(p)
		if cell.Has(engine.Water) {
			stats.Floating++
		}
		if cell.Has(engine.Rock) {
			stats.Warnings = append(stats.Warnings, fmt.Sprintf("log at (%d,%d) sits on a rock", p.X, p.Y))
		}

		adjacent := false
		for _, d := range []engine.Direction{engine.Up, engine.Down, engine.Left, engine.Right} {
			if reachable[p.Add(d)] {
				adjacent = true
				break
			}
		}
		if !adjacent {
			stats.Stranded = append(stats.Stranded, p)
		}
	}

	if stats.Reachable <= 1 {
		stats.Warnings = append(stats.Warnings, "the player cannot take a single step from the start")
	}
	if stats.Logs == 0 {
		stats.Warnings = append(stats.Warnings, "level has no stumps, so there are no logs to push")
	}
	return stats, nil
}

// walkable floods from start over land that holds no rock and no log
func walkable(board *engine.Board, reg *engine.Registry, start engine.Position) map[engine.Position]bool {
	seen := map[engine.Position]bool{start: true}
	queue := []engine.Position{start}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		for _, d := range []engine.Direction{engine.Up, engine.Down, engine.Left, engine.Right} {
			n := p.Add(d)
			if seen[n] || !board.InBounds(n) {
				continue
			}
			c := board.CellAt(n)
			if !c.Has(engine.Land) || c.Has(engine.Water) || !engine.IsSafe(c) || reg.LogAt(n) != nil {
				continue
			}
			seen[n] = true
			queue = append(queue, n)
		}
	}
	return seen
}
