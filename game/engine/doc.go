// Package engine provides the core game logic for Quoridor on an edge grid.
//
// The engine package implements the game mechanics including:
//   - A height × width board whose cells share edges held in one arena
//   - Two-unit wall placement on those edges
//   - A reachability check that keeps every team connected to its goal line
//   - Pawn movement with forward jumps and diagonal fallbacks
//   - A round-robin turn engine for 2 to 4 teams of 1 to 4 players
//
// Core Types:
//
// Board owns the edges; cells are addressed by 0-based (row, col) or by
// 1-based row-major cell number. Game is the turn engine and implements the
// Engine interface; GameConfig defines the board size, the teams and the
// texts shown to players, loaded from JSON files.
//
// Usage:
//
//	config, err := engine.LoadGameConfig("configs/classic.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	game, err := engine.NewGame(config, engine.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Drive the game through an Input and a Renderer
//	winner, err := engine.Play(game, input, renderer)
//
// Game Rules:
//
// Each team starts on the middle of one side of the board and wins by
// reaching the opposite side: team 0 the top row, team 1 the bottom row,
// team 2 the rightmost column and team 3 the leftmost column. On a turn a
// player either moves the team's pawn or places a wall two cells long.
// A wall is refused when it would leave any team without a path.
package engine
