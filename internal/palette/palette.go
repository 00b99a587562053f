// Package palette assigns each tooth position a stable display color.
//
// The color depends only on the tooth position, never on disease or
// confidence, so the same tooth carries the same color in every image and
// every run. Positions repeat every ten: tooth p and tooth p+10 share a color.
package palette

import "github.com/ironsheep/dental-xray-mcp/internal/geometry"

// Size is the palette period.
const Size = 10

// colors is indexed by tooth position mod Size.
var colors = [Size]geometry.RGB{
	geometry.MustParseHex("#00FF00"), // green
	geometry.MustParseHex("#FFFF00"), // yellow
	geometry.MustParseHex("#00FFFF"), // cyan
	geometry.MustParseHex("#800080"), // purple
	geometry.MustParseHex("#0000FF"), // blue
	geometry.MustParseHex("#FFA500"), // orange
	geometry.MustParseHex("#FF00FF"), // magenta
	geometry.MustParseHex("#FF0000"), // red
	geometry.MustParseHex("#008080"), // teal
	geometry.MustParseHex("#FFC0CB"), // pink
}

// Assign returns the palette color for a tooth position. Negative positions
// wrap like positive ones.
func Assign(tooth int) geometry.RGB {
	return colors[((tooth%Size)+Size)%Size]
}

// Colors returns a copy of the full palette in index order.
func Colors() []geometry.RGB {
	out := make([]geometry.RGB, Size)
	copy(out, colors[:])
	return out
}
