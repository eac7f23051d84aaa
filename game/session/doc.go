// Package session keeps the live faction merge games of a server process.
//
// A Manager maps short ids to service.Session values, each owning its own
// seeded engine. Ids are four hex characters drawn from crypto/rand and are
// matched without regard to case, so "A1B2" and "a1b2" name the same game.
//
// Create takes an optional id and a seed. A zero seed draws a fresh one,
// which the session keeps so a game can be replayed exactly:
//
//	manager := session.NewManager()
//	sess, err := manager.Create("", config, 0)
//	if err != nil {
//		return err
//	}
//	log.Printf("session %s seed %d", sess.ID, sess.Engine.GetState().Seed)
//
// Nothing is written to disk. Sessions end when deleted, when the process
// exits, or when CleanupExpiredSessions finds them idle for longer than the
// given age. All Manager methods may be called from any goroutine; the
// engine inside a session is not locked here, callers serialise moves
// (game/service does so with its own mutex).
package session
