// Package geometry holds the plain data types shared by the annotation pipeline:
// detection boxes, outline polygons, label rectangles and colors.
//
// # Coordinate System
//
// All coordinates are integer pixels in global image space:
//   - Origin (0, 0) at the top-left corner
//   - X increases rightward, Y increases downward
//   - Box corners (X1, Y1) and (X2, Y2) are the top-left and bottom-right
//
// Types in this package carry no state beyond their fields and are safe to
// copy and share between goroutines.
package geometry
