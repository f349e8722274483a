// Package mozaik implements the core of a small picture puzzle: a source
// image is cut into a grid of tiles and the tiles are dragged freely around
// a canvas.
//
// The package is frontend-agnostic. A [Board] owns the tile collection, the
// hit testing and the drag state machine; a [Renderer] composites the board
// into an RGBA frame on the CPU. The frontends under cmd/ feed pointer and
// resize events into the board and draw its tiles with their own toolkits,
// using the renderer only for screenshots.
//
// Board state is observable through [Board.Revision] and an optional
// on-change callback, so an event-driven frontend can redraw exactly when
// something changed while an immediate-mode frontend may simply re-read the
// tiles every frame.
package mozaik
