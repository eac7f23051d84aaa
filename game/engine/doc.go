// Package engine provides the core game logic for the faction merge game.
//
// The board is a 7x7 grid of tiles. Every tile carries a power-of-two value
// and belongs to one of two factions, benign or hostile. Sliding the board
// moves all tiles toward one edge; two adjacent tiles merge into one of
// double the value only when both their value and their faction match.
//
// The engine package implements:
//   - Line collapse and four-direction slides
//   - Random spawning with an injectable, seedable random source
//   - Win and loss detection
//   - Theme configuration loading and validation
//
// Core Types:
//
// GameState holds the grid, score and terminal flags of a single game.
// MoveOutcome describes what one move did. GameEngine binds a state to a
// theme and a random source so that hosting layers only deal in direction
// strings.
//
// Usage:
//
//	config, err := engine.LoadConfigByName("configs", "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameEngine, err := engine.NewSeededEngine(config, 42)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	outcome, err := gameEngine.Move("left")
//	state := gameEngine.GetState()
//
// Game Rules:
//
// After every move that changes the grid, one new tile spawns in a random
// empty cell: value 2 or 4 with equal odds, benign or hostile with equal
// odds. A move that changes nothing spawns nothing and costs nothing. The
// game is won as soon as a benign 128 appears. It is lost when the grid is
// full and no two neighbouring tiles share both value and faction.
// Hostile tiles never win the game, whatever their value.
package engine
