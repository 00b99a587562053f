// Package render draws annotations over a copy of a radiograph.
//
// Each Annotation contributes, in order:
//
//  1. a translucent fill of its outline polygon, drawn on a separate
//     transparent layer that is composited over the image once all fills
//     are in place,
//  2. a solid outline of the polygon in the same color,
//  3. a label plate: a black rectangle with a colored border and white
//     text, at the rectangle chosen by the layout engine.
//
// Fills replace one another on the overlay rather than stacking, so
// overlapping regions keep the configured opacity. The source image is
// never modified; Render always returns a new image.
//
// Label text uses the fixed 7x13 bitmap face from golang.org/x/image, so
// MeasureLabel is exact and independent of installed fonts.
package render
