package contour

import (
	"image"
	"math"
	"slices"
	"sort"

	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/effect"
	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
)

const (
	mixtureComponents = 3    // Gaussians per colour model
	kmeansRounds      = 4    // Lloyd iterations when fitting a model
	pottsWeight       = 1.0  // Smoothness in nats per unit-length neighbour pair
	icmSweeps         = 4    // Smoothing sweeps after each data labelling
	minVariance       = 1e-4 // Floor for per-channel variance
	maskLevel         = 128  // Re-threshold level after blurring
)

// lab is a pixel in CIE-Lab with L in [0, 1].
type lab [3]float64

func (p lab) dist2(q lab) float64 {
	d0, d1, d2 := p[0]-q[0], p[1]-q[1], p[2]-q[2]
	return d0*d0 + d1*d1 + d2*d2
}

// neighbours is the 8-neighbourhood with the Euclidean length of each step.
var neighbours = [8]struct {
	dx, dy int
	length float64
}{
	{-1, -1, math.Sqrt2}, {0, -1, 1}, {1, -1, math.Sqrt2},
	{-1, 0, 1}, {1, 0, 1},
	{-1, 1, math.Sqrt2}, {0, 1, 1}, {1, 1, math.Sqrt2},
}

// Segment runs the foreground segmentation strategy on the padded crop
// around box. It fails when img is nil, the box is degenerate, the crop
// leaves no room for the prior rectangle, or no contour with at least three
// points survives post-processing.
func (o Options) Segment(img image.Image, box geometry.Box) (geometry.Polygon, bool) {
	if img == nil || !box.Valid() {
		return nil, false
	}

	pad := max(o.Padding, 0)
	region := box.Expand(pad, img.Bounds())
	w, h := region.Dx(), region.Dy()
	if w <= 2*pad || h <= 2*pad {
		return nil, false
	}

	crop := imaging.Crop(img, region)
	prior := image.Rect(pad, pad, w-pad, h-pad)

	fg, ok := o.foreground(crop, prior)
	if !ok {
		return nil, false
	}

	contour, ok := largestContour(o.smoothMask(fg, w, h))
	if !ok {
		return nil, false
	}

	simplified := simplifyClosed(contour, o.Epsilon*contour.Perimeter())
	if len(simplified) < 3 {
		return nil, false
	}
	return simplified.Translate(region.Min.X, region.Min.Y), true
}

// foreground labels each crop pixel. Pixels outside prior are fixed
// background; pixels inside start as foreground. Each round refits both
// colour models, labels the prior by the data term alone, then smooths the
// labelling with a few ICM sweeps. Rounds stop early once the labels settle.
func (o Options) foreground(crop *image.NRGBA, prior image.Rectangle) ([]bool, bool) {
	b := crop.Bounds()
	w, h := b.Dx(), b.Dy()
	pix := labPixels(crop)

	fg := make([]bool, w*h)
	for y := prior.Min.Y; y < prior.Max.Y; y++ {
		for x := prior.Min.X; x < prior.Max.X; x++ {
			fg[y*w+x] = true
		}
	}

	beta := contrastBeta(pix, w, h)

	for it := 0; it < max(o.Iterations, 1); it++ {
		fgModel, ok := fitMixture(samples(pix, fg, true))
		if !ok {
			return nil, false
		}
		bgModel, ok := fitMixture(samples(pix, fg, false))
		if !ok {
			return nil, false
		}

		next := dataLabels(pix, fg, w, prior, fgModel, bgModel)
		for sweep := 0; sweep < icmSweeps; sweep++ {
			if !relabel(pix, next, w, h, prior, fgModel, bgModel, beta) {
				break
			}
		}

		settled := slices.Equal(next, fg)
		fg = next
		if settled {
			break
		}
	}

	if !slices.Contains(fg, true) {
		return nil, false
	}
	return fg, true
}

// dataLabels assigns each prior pixel to the cheaper model, ignoring
// neighbours. Ties keep the label from cur.
func dataLabels(pix []lab, cur []bool, w int, prior image.Rectangle, fgModel, bgModel mixture) []bool {
	out := make([]bool, len(cur))
	for y := prior.Min.Y; y < prior.Max.Y; y++ {
		for x := prior.Min.X; x < prior.Max.X; x++ {
			i := y*w + x
			costFG, costBG := fgModel.cost(pix[i]), bgModel.cost(pix[i])
			switch {
			case costFG < costBG:
				out[i] = true
			case costBG < costFG:
				out[i] = false
			default:
				out[i] = cur[i]
			}
		}
	}
	return out
}

// labPixels converts the crop to Lab in row-major order.
func labPixels(img *image.NRGBA) []lab {
	b := img.Bounds()
	out := make([]lab, 0, b.Dx()*b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c, ok := colorful.MakeColor(img.NRGBAAt(x, y))
			if !ok {
				out = append(out, lab{})
				continue
			}
			l, a, bb := c.Lab()
			out = append(out, lab{l, a, bb})
		}
	}
	return out
}

// contrastBeta returns 1 / (2 * mean squared neighbour difference), or 0 for
// a flat image.
func contrastBeta(pix []lab, w, h int) float64 {
	var sum float64
	var n int
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			// Each unordered pair once: E, S, SE, SW
			if x+1 < w {
				sum += pix[i].dist2(pix[i+1])
				n++
			}
			if y+1 < h {
				sum += pix[i].dist2(pix[i+w])
				n++
				if x+1 < w {
					sum += pix[i].dist2(pix[i+w+1])
					n++
				}
				if x > 0 {
					sum += pix[i].dist2(pix[i+w-1])
					n++
				}
			}
		}
	}
	if n == 0 || sum == 0 {
		return 0
	}
	return 1 / (2 * sum / float64(n))
}

func samples(pix []lab, fg []bool, want bool) []lab {
	out := make([]lab, 0, len(pix))
	for i, v := range fg {
		if v == want {
			out = append(out, pix[i])
		}
	}
	return out
}

// relabel runs one iterated-conditional-modes sweep over prior and reports
// whether any label changed. Ties keep the current label.
func relabel(pix []lab, fg []bool, w, h int, prior image.Rectangle, fgModel, bgModel mixture, beta float64) bool {
	changed := false
	for y := prior.Min.Y; y < prior.Max.Y; y++ {
		for x := prior.Min.X; x < prior.Max.X; x++ {
			i := y*w + x
			costFG := fgModel.cost(pix[i])
			costBG := bgModel.cost(pix[i])

			for _, n := range neighbours {
				nx, ny := x+n.dx, y+n.dy
				if nx < 0 || ny < 0 || nx >= w || ny >= h {
					continue
				}
				j := ny*w + nx
				penalty := pottsWeight * math.Exp(-beta*pix[i].dist2(pix[j])) / n.length
				if fg[j] {
					costBG += penalty
				} else {
					costFG += penalty
				}
			}

			label := fg[i]
			if costFG < costBG {
				label = true
			} else if costBG < costFG {
				label = false
			}
			if label != fg[i] {
				fg[i] = label
				changed = true
			}
		}
	}
	return changed
}

// gaussian is one diagonal-covariance mixture component. logNorm folds the
// weight and normalization into a single constant.
type gaussian struct {
	mean     lab
	variance lab
	logNorm  float64
}

type mixture []gaussian

// cost is the negative log-likelihood of p under the best component.
func (m mixture) cost(p lab) float64 {
	best := math.Inf(1)
	for _, g := range m {
		c := g.logNorm
		for k := range p {
			d := p[k] - g.mean[k]
			c += d * d / (2 * g.variance[k])
		}
		best = math.Min(best, c)
	}
	return best
}

// fitMixture clusters pts with k-means, seeding centroids at lightness
// quantiles, and fits one Gaussian per non-empty cluster.
func fitMixture(pts []lab) (mixture, bool) {
	if len(pts) == 0 {
		return nil, false
	}
	k := min(mixtureComponents, len(pts))

	sorted := make([]lab, len(pts))
	copy(sorted, pts)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i][0] < sorted[j][0] })

	centroids := make([]lab, k)
	for c := range centroids {
		centroids[c] = sorted[(2*c+1)*len(sorted)/(2*k)]
	}

	assign := make([]int, len(pts))
	for round := 0; round < kmeansRounds; round++ {
		for i, p := range pts {
			assign[i] = nearest(centroids, p)
		}
		sums := make([]lab, k)
		counts := make([]int, k)
		for i, p := range pts {
			c := assign[i]
			for ch := range p {
				sums[c][ch] += p[ch]
			}
			counts[c]++
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for ch := range sums[c] {
				centroids[c][ch] = sums[c][ch] / float64(counts[c])
			}
		}
	}
	for i, p := range pts {
		assign[i] = nearest(centroids, p)
	}

	m := make(mixture, 0, k)
	for c := 0; c < k; c++ {
		var mean, sq lab
		n := 0
		for i, p := range pts {
			if assign[i] != c {
				continue
			}
			for ch := range p {
				mean[ch] += p[ch]
				sq[ch] += p[ch] * p[ch]
			}
			n++
		}
		if n == 0 {
			continue
		}

		g := gaussian{logNorm: -math.Log(float64(n) / float64(len(pts)))}
		for ch := range mean {
			mean[ch] /= float64(n)
			g.variance[ch] = math.Max(sq[ch]/float64(n)-mean[ch]*mean[ch], 0) + minVariance
			g.logNorm += 0.5 * math.Log(2*math.Pi*g.variance[ch])
		}
		g.mean = mean
		m = append(m, g)
	}
	return m, len(m) > 0
}

func nearest(centroids []lab, p lab) int {
	best, bestDist := 0, math.Inf(1)
	for c, ctr := range centroids {
		if d := p.dist2(ctr); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best
}

// smoothMask closes small holes in the foreground, blurs the edge and
// re-thresholds it.
func (o Options) smoothMask(fg []bool, w, h int) *image.Gray {
	mask := image.NewGray(image.Rect(0, 0, w, h))
	for i, v := range fg {
		if v {
			mask.Pix[i] = 255
		}
	}

	var m image.Image = mask
	if o.CloseRadius > 0 {
		m = effect.Erode(effect.Dilate(m, o.CloseRadius), o.CloseRadius)
	}
	if o.BlurRadius > 0 {
		m = blur.Gaussian(m, o.BlurRadius)
	}
	return segment.Threshold(m, maskLevel)
}
