// Package scene holds the window-independent half of the desktop client:
// where frames come from (an in-process engine or a server session over its
// websocket) and how board coordinates map to pixels and colors.
package scene
