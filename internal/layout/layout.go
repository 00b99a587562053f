// Package layout places on-image text labels so they do not overlap.
//
// An Engine holds the labels accepted so far in one rendering pass. Each
// call to Place tries a fixed sequence of candidate positions around the
// detection box and accepts the first one, clamped to the canvas, that does
// not overlap any earlier label. When every candidate collides, the last one
// is accepted anyway and flagged BestEffort.
//
// Placement depends on every earlier placement, so an Engine must be driven
// sequentially in the order labels should win space. It is not safe for
// concurrent use.
package layout

import "github.com/ironsheep/dental-xray-mcp/internal/geometry"

// MaxAttempts is the default number of candidates tried per label.
const MaxAttempts = 10

// Offsets between a label and its detection box, in pixels.
const (
	aboveGap = 8  // Gap between a label above the box and the box top
	belowGap = 5  // Gap below the box bottom
	sideGap  = 5  // Gap beside the box for centered placements
	jitterX  = 10 // Horizontal step of the zig-zag search
	jitterY  = 20 // Vertical step of the zig-zag search
)

// LabelBox is an accepted label rectangle.
type LabelBox struct {
	geometry.Rect

	// Attempts is the 1-based index of the accepted candidate.
	Attempts int `json:"attempts"`

	// BestEffort is set when no candidate avoided earlier labels and the
	// final one was accepted overlapping.
	BestEffort bool `json:"best_effort"`
}

// Engine places labels on a width x height canvas.
type Engine struct {
	width, height int
	maxAttempts   int
	placed        []LabelBox
}

// NewEngine creates an engine for one rendering pass. maxAttempts <= 0 uses
// MaxAttempts.
func NewEngine(width, height, maxAttempts int) *Engine {
	if maxAttempts <= 0 {
		maxAttempts = MaxAttempts
	}
	return &Engine{width: width, height: height, maxAttempts: maxAttempts}
}

// Place finds a position for a w x h label attached to anchor and records it.
func (e *Engine) Place(anchor geometry.Box, w, h int) LabelBox {
	var lb LabelBox
	for i, r := range e.Candidates(anchor, w, h) {
		lb = LabelBox{Rect: r, Attempts: i + 1}
		if !e.collides(r) {
			e.placed = append(e.placed, lb)
			return lb
		}
	}
	lb.BestEffort = true
	e.placed = append(e.placed, lb)
	return lb
}

func (e *Engine) collides(r geometry.Rect) bool {
	for _, p := range e.placed {
		if r.Overlaps(p.Rect) {
			return true
		}
	}
	return false
}

// Placed returns a copy of the labels accepted so far, in placement order.
func (e *Engine) Placed() []LabelBox {
	return append([]LabelBox(nil), e.placed...)
}

// Candidates returns the clamped positions Place would try, in order:
//
//	0  above the box, left edges aligned
//	1  below the box, left edges aligned
//	2  above the box, right edges aligned
//	3  right of the box, vertically centered
//	4  left of the box, vertically centered
//	5+ zig-zag steps from the previous candidate: each moves jitterY toward
//	   the side with more vertical room and alternately jitterX right/left
//
// The sequence depends only on its arguments and the canvas size.
func (e *Engine) Candidates(anchor geometry.Box, w, h int) []geometry.Rect {
	cy := (anchor.Y1 + anchor.Y2) / 2
	fixed := []geometry.Rect{
		{X: anchor.X1, Y: anchor.Y1 - h - aboveGap, W: w, H: h},
		{X: anchor.X1, Y: anchor.Y2 + belowGap, W: w, H: h},
		{X: anchor.X2 - w, Y: anchor.Y1 - h - aboveGap, W: w, H: h},
		{X: anchor.X2 + sideGap, Y: cy - h/2, W: w, H: h},
		{X: anchor.X1 - w - sideGap, Y: cy - h/2, W: w, H: h},
	}

	out := make([]geometry.Rect, 0, e.maxAttempts)
	for i := 0; i < e.maxAttempts && i < len(fixed); i++ {
		out = append(out, fixed[i].ClampTo(e.width, e.height))
	}

	dir := 0
	for k := 0; len(out) < e.maxAttempts; k++ {
		last := out[len(out)-1]
		if dir == 0 {
			dir = 1
			if last.Y > e.height-(last.Y+last.H) {
				dir = -1
			}
		}
		dx := jitterX
		if k%2 == 1 {
			dx = -jitterX
		}
		next := geometry.Rect{X: last.X + dx, Y: last.Y + dir*jitterY, W: w, H: h}
		out = append(out, next.ClampTo(e.width, e.height))
	}
	return out
}
