// Package session provides session management for Logjam.
//
// The session package implements:
//   - Thread-safe in-memory session storage and retrieval
//   - Short random session ID generation
//   - Expiry of sessions that have not been touched for a while
//
// Core Types:
//
// Manager is the session manager. Each service.Session owns its own
// engine.GameEngine built from a level, so sessions never share boards.
//
// Session Identifiers:
//
// Sessions use 4-character hex IDs unless the caller supplies one. Lookups
// are case-insensitive.
//
// Usage:
//
//	manager := session.NewManager()
//
//	sess, err := manager.Create("", "riverbank", level)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	sess, err = manager.Get(sess.ID)
//
// Sessions are not persisted; restarting the process starts from scratch.
package session
