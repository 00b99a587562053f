package contour

import (
	"image"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
)

// mooreRing lists the 8 neighbours clockwise (y grows downward), starting
// from the west.
var mooreRing = [8]geometry.Point{
	{X: -1, Y: 0}, {X: -1, Y: -1}, {X: 0, Y: -1}, {X: 1, Y: -1},
	{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}, {X: -1, Y: 1},
}

// largestContour traces the outer boundary of every 8-connected foreground
// component of mask and returns the one enclosing the largest area.
func largestContour(mask *image.Gray) (geometry.Polygon, bool) {
	b := mask.Bounds()
	w, h := b.Dx(), b.Dy()
	isFG := func(x, y int) bool {
		return mask.GrayAt(b.Min.X+x, b.Min.Y+y).Y >= maskLevel
	}

	labels := make([]int, w*h)
	var best geometry.Polygon
	bestArea := 0.0
	id := 0

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if labels[y*w+x] != 0 || !isFG(x, y) {
				continue
			}
			id++
			// Raster order makes (x, y) the top-left pixel of its component,
			// so its west neighbour is background.
			fillComponent(isFG, labels, w, h, x, y, id)
			c := traceBoundary(labels, w, h, geometry.Point{X: x, Y: y}, id)
			if a := c.Area(); a > bestArea {
				best, bestArea = c, a
			}
		}
	}

	if len(best) < 3 {
		return nil, false
	}
	return best, true
}

// fillComponent labels the 8-connected component containing (startX, startY)
// with id. It uses an explicit stack to avoid deep recursion on large masks.
func fillComponent(isFG func(x, y int) bool, labels []int, width, height, startX, startY, id int) {
	stack := []geometry.Point{{X: startX, Y: startY}}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if p.X < 0 || p.X >= width || p.Y < 0 || p.Y >= height {
			continue
		}
		if labels[p.Y*width+p.X] != 0 || !isFG(p.X, p.Y) {
			continue
		}
		labels[p.Y*width+p.X] = id

		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				stack = append(stack, geometry.Point{X: p.X + dx, Y: p.Y + dy})
			}
		}
	}
}

// traceBoundary walks the outer boundary of component id clockwise with
// Moore-neighbour tracing, starting at its top-left pixel. The walk stops
// when it returns to start about to repeat its first step.
func traceBoundary(labels []int, w, h int, start geometry.Point, id int) geometry.Polygon {
	inside := func(p geometry.Point) bool {
		return p.X >= 0 && p.Y >= 0 && p.X < w && p.Y < h && labels[p.Y*w+p.X] == id
	}

	contour := geometry.Polygon{start}
	cur, back := start, 0
	limit := 4*w*h + 8

	for steps := 0; steps < limit; steps++ {
		next, nextBack, ok := mooreStep(inside, cur, back)
		if !ok {
			break // isolated pixel
		}
		if cur == start && len(contour) > 1 && next == contour[1] {
			break
		}
		contour = append(contour, next)
		cur, back = next, nextBack
	}

	if len(contour) > 1 && contour[len(contour)-1] == start {
		contour = contour[:len(contour)-1]
	}
	return contour
}

// mooreStep scans clockwise around cur from the backtrack direction and
// returns the first foreground neighbour together with the direction from it
// back to the last background cell checked.
func mooreStep(inside func(geometry.Point) bool, cur geometry.Point, back int) (geometry.Point, int, bool) {
	prev := offset(cur, mooreRing[back])
	for i := 1; i < len(mooreRing); i++ {
		cand := offset(cur, mooreRing[(back+i)%len(mooreRing)])
		if inside(cand) {
			return cand, ringIndex(prev.X-cand.X, prev.Y-cand.Y), true
		}
		prev = cand
	}
	return cur, back, false
}

func offset(p, d geometry.Point) geometry.Point {
	return geometry.Point{X: p.X + d.X, Y: p.Y + d.Y}
}

func ringIndex(dx, dy int) int {
	for i, d := range mooreRing {
		if d.X == dx && d.Y == dy {
			return i
		}
	}
	return 0
}
