// Package imaging is the decode/encode boundary of the annotation pipeline.
//
// It turns files and byte buffers into image.Image values and encodes the
// annotated result for transport. Everything between those two points works
// on in-memory images and never touches disk.
//
// # Supported Formats
//
// Decoding accepts JPEG, PNG, GIF, BMP, TIFF and WebP. JPEG orientation tags
// are honoured, so a radiograph exported sideways by a capture station is
// rotated upright before any detection coordinates are applied. Encoding
// produces JPEG or PNG.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y increasing downward. Regions are half-open:
// (x1,y1) inclusive, (x2,y2) exclusive.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. The free functions are
// stateless and may be called concurrently.
//
// # Performance Considerations
//
// Full-mouth radiographs are large. Cached images remain in memory until
// Evict or Clear is called, so long-running servers should evict images once
// they have been annotated.
package imaging
