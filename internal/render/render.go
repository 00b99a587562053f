package render

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
	"github.com/ironsheep/dental-xray-mcp/internal/layout"
)

// Options controls annotation appearance.
type Options struct {
	FillAlpha    uint8 `json:"fill_alpha"`    // Opacity of region fills (128 = 50%)
	OutlineWidth int   `json:"outline_width"` // Polygon outline thickness in pixels
	LabelPadding int   `json:"label_padding"` // Space between label text and plate edge
	BorderWidth  int   `json:"border_width"`  // Colored border around the label plate
}

// DefaultOptions returns the standard annotation style.
func DefaultOptions() Options {
	return Options{
		FillAlpha:    128,
		OutlineWidth: 2,
		LabelPadding: 4,
		BorderWidth:  2,
	}
}

// Annotation is one diseased region to draw.
type Annotation struct {
	Outline geometry.Polygon
	Color   geometry.RGB
	Text    string
	Label   layout.LabelBox
}

// Renderer draws annotations. It holds no per-image state and is safe for
// concurrent use.
type Renderer struct {
	opts Options
	face font.Face
}

// New creates a renderer with the given options.
func New(opts Options) *Renderer {
	return &Renderer{opts: opts, face: basicfont.Face7x13}
}

// MeasureLabel returns the size of the label plate for text, padding
// included.
func (r *Renderer) MeasureLabel(text string) (width, height int) {
	pad := 2 * r.opts.LabelPadding
	return font.MeasureString(r.face, text).Ceil() + pad,
		r.face.Metrics().Height.Ceil() + pad
}

// Render returns a copy of src with every annotation drawn on it.
func (r *Renderer) Render(src image.Image, anns []Annotation) *image.NRGBA {
	dst := imaging.Clone(src)
	if len(anns) == 0 {
		return dst
	}

	bounds := dst.Bounds()
	overlay := image.NewRGBA(bounds)
	for _, a := range anns {
		r.fillPolygon(overlay, a.Outline, a.Color.WithAlpha(r.opts.FillAlpha))
	}
	draw.Draw(dst, bounds, overlay, bounds.Min, draw.Over)

	for _, a := range anns {
		strokePolygon(dst, a.Outline, a.Color.Opaque(), r.opts.OutlineWidth)
	}
	for _, a := range anns {
		r.drawLabel(dst, a)
	}
	return dst
}

// fillRegion is the part of canvas the polygon can cover. Vertices are
// pixel corners, so the far edge is exclusive.
func fillRegion(p geometry.Polygon, canvas image.Rectangle) image.Rectangle {
	pb := p.Bounds()
	return image.Rect(pb.X1, pb.Y1, pb.X2+1, pb.Y2+1).Intersect(canvas)
}

// fillPolygon rasterizes p over its own bounds and paints c through the
// coverage onto overlay, replacing whatever the overlay held there.
func (r *Renderer) fillPolygon(overlay *image.RGBA, p geometry.Polygon, c color.NRGBA) {
	if len(p) < 3 {
		return
	}
	b := fillRegion(p, overlay.Bounds())
	if b.Empty() {
		return
	}

	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.MoveTo(float32(p[0].X-b.Min.X), float32(p[0].Y-b.Min.Y))
	for _, pt := range p[1:] {
		z.LineTo(float32(pt.X-b.Min.X), float32(pt.Y-b.Min.Y))
	}
	z.ClosePath()

	mask := image.NewAlpha(b)
	z.Draw(mask, b, image.Opaque, image.Point{})

	// Premultiplied lerp toward c by coverage.
	sr, sg, sb, sa := c.RGBA()
	src := [4]uint32{sr >> 8, sg >> 8, sb >> 8, sa >> 8}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			m := uint32(mask.Pix[mask.PixOffset(x, y)])
			if m == 0 {
				continue
			}
			px := overlay.Pix[overlay.PixOffset(x, y):]
			for k := 0; k < 4; k++ {
				px[k] = uint8((uint32(px[k])*(255-m) + src[k]*m) / 255)
			}
		}
	}
}

// strokePolygon draws the closed outline of p with a square brush.
func strokePolygon(dst *image.NRGBA, p geometry.Polygon, c color.NRGBA, width int) {
	if len(p) < 2 || width <= 0 {
		return
	}
	for i := range p {
		drawLine(dst, p[i], p[(i+1)%len(p)], c, width)
	}
}

// drawLine walks a Bresenham line from a to b, stamping a width x width
// square at each step.
func drawLine(dst *image.NRGBA, a, b geometry.Point, c color.NRGBA, width int) {
	dx, dy := abs(b.X-a.X), -abs(b.Y-a.Y)
	sx, sy := 1, 1
	if a.X > b.X {
		sx = -1
	}
	if a.Y > b.Y {
		sy = -1
	}
	lo := -(width / 2)
	hi := lo + width

	x, y, e := a.X, a.Y, dx+dy
	for {
		fillRect(dst, image.Rect(x+lo, y+lo, x+hi, y+hi), c)
		if x == b.X && y == b.Y {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x += sx
		}
		if e2 <= dx {
			e += dx
			y += sy
		}
	}
}

func (r *Renderer) drawLabel(dst *image.NRGBA, a Annotation) {
	plate := a.Label.ImageRect()
	fillRect(dst, plate, color.NRGBA{A: 255})

	border := a.Color.Opaque()
	bw := r.opts.BorderWidth
	fillRect(dst, image.Rect(plate.Min.X, plate.Min.Y, plate.Max.X, plate.Min.Y+bw), border)
	fillRect(dst, image.Rect(plate.Min.X, plate.Max.Y-bw, plate.Max.X, plate.Max.Y), border)
	fillRect(dst, image.Rect(plate.Min.X, plate.Min.Y, plate.Min.X+bw, plate.Max.Y), border)
	fillRect(dst, image.Rect(plate.Max.X-bw, plate.Min.Y, plate.Max.X, plate.Max.Y), border)

	pad := r.opts.LabelPadding
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(plate.Min.X+pad, plate.Min.Y+pad+r.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(a.Text)
}

// fillRect paints rect clipped to dst.
func fillRect(dst *image.NRGBA, rect image.Rectangle, c color.NRGBA) {
	draw.Draw(dst, rect.Intersect(dst.Bounds()), image.NewUniform(c), image.Point{}, draw.Src)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
