// Package service provides the business logic layer for Logjam.
//
// The service package implements:
//   - Multi-session game management
//   - Level loading through a ConfigManager
//   - Move processing with push outcomes and events
//   - Move history paging
//   - The frame loop that advances animations and publishes frames
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager handles session creation, retrieval, and lifecycle.
// ConfigManager manages level loading and validation.
// FrameSink receives frames from RunFrameLoop.
//
// Architecture:
//
// The service layer sits between the transport layer (HTTP/WebSocket/MCP) and
// the game engine. Engines are single-threaded, so the service serializes
// every call that touches one, including the once-per-frame Advance.
//
// Usage:
//
//	sessionMgr := session.NewManager()
//	configMgr, _ := config.NewManager("configs")
//	gameService := service.NewGameService(sessionMgr, configMgr)
//
//	info, err := gameService.CreateSession(ctx, "riverbank")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.Move(ctx, info.ID, "right", false)
//
//	go service.RunFrameLoop(ctx, gameService, service.FrameInterval(60), hub)
package service
