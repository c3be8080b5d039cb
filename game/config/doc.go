// Package config manages the Quoridor rule presets stored as JSON files.
//
// A preset is an engine.GameConfig: board size, teams with their players,
// an optional wall allowance and the texts shown during play. Presets are
// addressed by file name without the .json suffix ("classic", "small",
// "three_teams", "four_teams").
//
// Manager loads presets lazily and caches them. The default preset is the
// one chosen with SetDefault, otherwise classic, otherwise the first valid
// file, and finally the built-in 9x9 two-team board. Watch keeps the cache
// in step with the directory through fsnotify.
//
// Usage:
//
//	manager, err := config.NewManager("configs", logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	gameConfig, err := manager.LoadConfig("three_teams")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	go manager.Watch(ctx, nil)
//
// Every preset passes engine.ValidateGameConfig before it is cached or
// saved; failures wrap ErrInvalidConfig.
package config
