// Package view turns engine state into something a renderer can draw.
//
// Snapshot produces a Frame: the terrain, the palette, and every entity at
// its interpolated draw position with its orientation and animation phase.
// Frames are plain JSON-friendly values; the desktop window draws them
// directly and the websocket hub pushes them to browser clients.
//
// Camera eases the viewport toward the player with tanema/gween tweens so
// boards larger than the window scroll smoothly instead of jumping.
package view
