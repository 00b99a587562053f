package contour

import (
	"image"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
)

// Tier identifies which strategy produced an outline.
type Tier int

const (
	TierMask      Tier = iota // Detector-supplied mask
	TierSegmented             // Foreground segmentation of the padded crop
	TierSynthetic             // Box-derived tooth shape
)

var tierNames = [...]string{"mask", "segmented", "synthetic"}

func (t Tier) String() string {
	if t >= 0 && int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "unknown"
}

// MarshalText serializes the tier by name.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Outline is an estimated tooth outline in global image coordinates.
type Outline struct {
	Points geometry.Polygon `json:"points"`
	Tier   Tier             `json:"tier"`
}

// Options tunes the segmentation strategy.
type Options struct {
	// Padding is added around the box before cropping, and the prior
	// rectangle is the crop inset by the same amount.
	Padding int `json:"padding"`

	// Iterations is the number of refit-and-relabel rounds.
	Iterations int `json:"iterations"`

	// Epsilon scales the simplification tolerance by the contour perimeter.
	Epsilon float64 `json:"epsilon"`

	// CloseRadius is the structuring radius of the morphological closing.
	CloseRadius float64 `json:"close_radius"`

	// BlurRadius is the Gaussian radius used to smooth the mask edge.
	BlurRadius float64 `json:"blur_radius"`
}

// DefaultOptions returns the standard segmentation settings.
func DefaultOptions() Options {
	return Options{
		Padding:     5,
		Iterations:  5,
		Epsilon:     0.002,
		CloseRadius: 2,
		BlurRadius:  4,
	}
}

// Estimate returns the outline for box using DefaultOptions.
func Estimate(img image.Image, box geometry.Box, mask []geometry.PointF) Outline {
	return DefaultOptions().Estimate(img, box, mask)
}

// Estimate tries the mask, then segmentation of img, then the synthetic
// shape. img may be nil, in which case segmentation is skipped.
func (o Options) Estimate(img image.Image, box geometry.Box, mask []geometry.PointF) Outline {
	if pts, ok := FromMask(mask); ok {
		return Outline{Points: pts, Tier: TierMask}
	}
	if pts, ok := o.Segment(img, box); ok {
		return Outline{Points: pts, Tier: TierSegmented}
	}
	return Outline{Points: Synthetic(box), Tier: TierSynthetic}
}

// FromMask converts a detector mask to a pixel polygon. Masks with fewer than
// three points are rejected.
func FromMask(mask []geometry.PointF) (geometry.Polygon, bool) {
	if len(mask) < 3 {
		return nil, false
	}
	out := make(geometry.Polygon, len(mask))
	for i, p := range mask {
		out[i] = p.Round()
	}
	return out, true
}

// Synthetic builds the eight-point tooth shape for box: a crown over the top
// 60% with bevelled upper corners, then a root narrowed to the middle half.
func Synthetic(box geometry.Box) geometry.Polygon {
	x1, y1, x2 := box.X1, box.Y1, box.X2
	w, h := box.Width(), box.Height()
	crown := int(float64(h) * 0.6)

	return geometry.Polygon{
		{X: x1 + w/4, Y: y1},
		{X: x1 + 3*w/4, Y: y1},
		{X: x2, Y: y1 + crown/3},
		{X: x2, Y: y1 + crown},
		{X: x1 + 3*w/4, Y: y1 + h},
		{X: x1 + w/4, Y: y1 + h},
		{X: x1, Y: y1 + crown},
		{X: x1, Y: y1 + crown/3},
	}
}
