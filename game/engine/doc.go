// Package engine provides the core game logic for Logjam.
//
// The engine package implements the game mechanics including:
//   - The terrain grid, where each cell is a set of markers (water, land,
//     stump, rock)
//   - The registry of movable entities: one player and the logs
//   - Push and collision resolution for every player move
//   - Per-entity animation that turns cell moves into timed interpolation
//   - Level configuration loading and validation
//
// Core Types:
//
// Board holds the read-only terrain. Registry owns the player and the logs,
// keyed by position. Resolve decides one player move against both and
// relocates at most one log. GameEngine ties them to a LevelConfig and keeps
// a move history.
//
// Usage:
//
//	config, err := engine.LoadLevelConfig("configs/riverbank.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewEngine(config)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Push or walk, then advance animations once per frame
//	outcome := gameEngine.Move(engine.Right)
//	gameEngine.Tick(16.7)
//	state := gameEngine.GetState()
//
// Game Rules:
//
// The player walks on land and may not wade into water. Logs start round on
// every stump. Pushing a round log knocks it one cell and lays it along the
// push axis. Pushing a laid log along its axis slides it one cell and stands
// it up again; pushing it across its axis rolls it over land until it hits an
// obstacle or drops into the water. A floating log can be boarded from
// either end.
package engine
