// Package session keeps running Quoridor games in memory.
//
// Manager is a thread-safe registry of service.Session values keyed by a
// case-insensitive ID. Each session owns its own engine.Game; the manager
// never touches the game itself, so callers serialise engine access.
//
// Session Identifiers:
//
// Callers may pick an ID or leave it empty, in which case the manager cuts
// an 8-character prefix from a random uuid and retries until it is unused.
//
// Usage:
//
//	manager := session.NewManager(logger)
//
//	sess, err := manager.Create("", config, engine.WithLogger(logger))
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions live until they are deleted or CleanupExpiredSessions drops the
// ones that have not been accessed within a given age.
package session
