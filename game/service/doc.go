// Package service provides the business logic layer for Quoridor games.
//
// The service package implements:
//   - Multi-session game management
//   - Turn operations with retryable rejections reported as results
//   - Move history with pagination
//   - Prometheus counters fed by engine events
//
// Core Interfaces:
//
// GameService is the main service interface providing high-level game operations.
// SessionManager stores sessions and ConfigManager loads rule presets; both
// are implemented by the session and config packages.
//
// Architecture:
//
// The service sits between the front ends (the console player in
// transport/console, the CLI in main) and the engine. Each session owns its
// own engine.Game and a mutex; every engine call for a session runs under
// that mutex, so different sessions progress in parallel.
//
// Usage:
//
//	sessions := session.NewManager(logger)
//	presets, _ := config.NewManager("configs", logger)
//	metrics := service.NewMetrics(prometheus.DefaultRegisterer)
//	gameService := service.NewGameService(sessions, presets, logger, metrics)
//
//	info, err := gameService.CreateSession(ctx, "classic")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	result, err := gameService.ChooseAction(ctx, info.ID, engine.ActionMove)
//	result, err = gameService.MovePawn(ctx, info.ID, result.LegalMoves[0])
package service
