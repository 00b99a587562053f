package contour

import (
	"math"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
)

// simplifyClosed applies Douglas-Peucker to a closed contour. The ring is
// split at the vertex farthest from the first one and each half simplified
// as an open chain.
func simplifyClosed(pts geometry.Polygon, epsilon float64) geometry.Polygon {
	if len(pts) < 3 {
		return append(geometry.Polygon(nil), pts...)
	}

	far, farDist := 0, -1.0
	for i, p := range pts {
		if d := dist(p, pts[0]); d > farDist {
			far, farDist = i, d
		}
	}
	if far == 0 {
		return geometry.Polygon{pts[0]}
	}

	first := simplifyOpen(pts[:far+1], epsilon)
	ring := append(append(geometry.Polygon(nil), pts[far:]...), pts[0])
	second := simplifyOpen(ring, epsilon)

	// Drop the shared endpoints so each vertex appears once.
	out := append(first[:len(first)-1], second[:len(second)-1]...)
	return out
}

// simplifyOpen keeps both endpoints and every vertex farther than epsilon
// from the chord of its enclosing span.
func simplifyOpen(pts geometry.Polygon, epsilon float64) geometry.Polygon {
	n := len(pts)
	if n < 3 {
		return append(geometry.Polygon(nil), pts...)
	}

	keep := make([]bool, n)
	keep[0], keep[n-1] = true, true
	stack := [][2]int{{0, n - 1}}

	for len(stack) > 0 {
		span := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		a, b := span[0], span[1]
		if b-a < 2 {
			continue
		}

		idx, maxDist := -1, -1.0
		for i := a + 1; i < b; i++ {
			if d := segmentDistance(pts[i], pts[a], pts[b]); d > maxDist {
				idx, maxDist = i, d
			}
		}
		if maxDist > epsilon {
			keep[idx] = true
			stack = append(stack, [2]int{a, idx}, [2]int{idx, b})
		}
	}

	out := make(geometry.Polygon, 0, n)
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

// segmentDistance is the perpendicular distance from p to the line through
// a and b, or the point distance when a == b.
func segmentDistance(p, a, b geometry.Point) float64 {
	if a == b {
		return dist(p, a)
	}
	dx, dy := float64(b.X-a.X), float64(b.Y-a.Y)
	cross := dx*float64(p.Y-a.Y) - dy*float64(p.X-a.X)
	return math.Abs(cross) / math.Hypot(dx, dy)
}

func dist(p, q geometry.Point) float64 {
	return math.Hypot(float64(p.X-q.X), float64(p.Y-q.Y))
}
