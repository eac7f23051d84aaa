// Package service provides the business logic layer for the faction merge game.
//
// The service package implements:
//   - Multi-session game management
//   - Theme loading through a ConfigManager
//   - Move processing with per-move events
//   - Bulk moves with stop reasons
//   - Hints from the greedy strategy
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager loads and lists themes.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Each session owns its own engine and random source. All
// mutating calls are serialized by the service, and every returned GameState
// is a copy, so transports can encode it while other moves run.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	// Create a new session with a fresh seed
//	sessionInfo, err := gameService.CreateSession(ctx, "classic", 0)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Execute moves
//	result, err := gameService.Move(ctx, sessionInfo.ID, "left", false)
//
// Events:
//
// Every move yields a small event list: move, merge and spawn for a move
// that changed the grid, no_change otherwise, followed by victory or
// game_over when the move ended the game. Events carry a UUID so clients
// can de-duplicate them across WebSocket and REST deliveries.
package service
