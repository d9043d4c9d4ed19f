// Package desktop is the ebiten window for Logjam.
//
// It draws a scene.Source: either an engine running in-process or a session
// on a game server mirrored over its websocket. Arrow keys or WASD move, R
// resets and Escape quits. Boards larger than the window scroll with a camera
// that eases toward the player.
//
// Usage:
//
//	source, _ := scene.NewLocal(level)
//	desktop.Run(ctx, source, desktop.DefaultOptions())
package desktop
