package layout

import (
	"math/rand"
	"testing"

	"github.com/ironsheep/dental-xray-mcp/internal/geometry"
)

func TestCandidates_Order(t *testing.T) {
	e := NewEngine(1000, 1000, 0)
	got := e.Candidates(geometry.Box{X1: 100, Y1: 100, X2: 200, Y2: 300}, 80, 20)

	want := []geometry.Rect{
		{X: 100, Y: 72, W: 80, H: 20},  // above, left-aligned
		{X: 100, Y: 305, W: 80, H: 20}, // below
		{X: 120, Y: 72, W: 80, H: 20},  // above, right-aligned
		{X: 205, Y: 190, W: 80, H: 20}, // right, centered
		{X: 15, Y: 190, W: 80, H: 20},  // left, centered
		{X: 25, Y: 210, W: 80, H: 20},  // zig-zag downward (more room below)
		{X: 15, Y: 230, W: 80, H: 20},
		{X: 25, Y: 250, W: 80, H: 20},
		{X: 15, Y: 270, W: 80, H: 20},
		{X: 25, Y: 290, W: 80, H: 20},
	}

	if len(got) != MaxAttempts {
		t.Fatalf("len: got %d, want %d", len(got), MaxAttempts)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestCandidates_ZigZagUpward(t *testing.T) {
	e := NewEngine(400, 400, 7)
	got := e.Candidates(geometry.Box{X1: 100, Y1: 300, X2: 150, Y2: 390}, 40, 10)

	// Candidate 4 sits at y=340 with 50px below and 340px above.
	if got[5].Y != got[4].Y-jitterY || got[6].Y != got[5].Y-jitterY {
		t.Errorf("expected upward steps, got y=%d,%d,%d", got[4].Y, got[5].Y, got[6].Y)
	}
	if len(got) != 7 {
		t.Errorf("len: got %d, want 7", len(got))
	}
}

func TestCandidates_Clamped(t *testing.T) {
	e := NewEngine(200, 100, 0)
	for i, r := range e.Candidates(geometry.Box{X1: 0, Y1: 0, X2: 200, Y2: 100}, 60, 15) {
		if r.X < 0 || r.Y < 0 || r.X+r.W > 200 || r.Y+r.H > 100 {
			t.Errorf("candidate %d out of canvas: %+v", i, r)
		}
	}
}

func TestPlace_FirstFreeCandidate(t *testing.T) {
	e := NewEngine(1000, 1000, 0)
	box := geometry.Box{X1: 100, Y1: 100, X2: 200, Y2: 300}

	first := e.Place(box, 80, 20)
	if first.Attempts != 1 || first.BestEffort {
		t.Errorf("first label: got %+v", first)
	}

	second := e.Place(box, 80, 20)
	if second.Attempts != 2 || second.Rect.Y != 305 {
		t.Errorf("second label should go below the box: got %+v", second)
	}
	if second.Overlaps(first.Rect) {
		t.Error("second label overlaps the first")
	}

	if n := len(e.Placed()); n != 2 {
		t.Errorf("Placed: got %d, want 2", n)
	}
}

// Two detections with identical boxes must get distinct, disjoint labels.
func TestPlace_IdenticalBoxes(t *testing.T) {
	e := NewEngine(640, 480, 0)
	box := geometry.Box{X1: 200, Y1: 150, X2: 260, Y2: 270}

	a := e.Place(box, 120, 21)
	b := e.Place(box, 120, 21)

	if a.Rect == b.Rect {
		t.Fatalf("labels share a rectangle: %+v", a.Rect)
	}
	if a.Overlaps(b.Rect) {
		t.Errorf("labels overlap: %+v and %+v", a.Rect, b.Rect)
	}
}

func TestPlace_BestEffort(t *testing.T) {
	// A canvas the size of one label leaves nowhere else to go.
	e := NewEngine(50, 20, 0)
	box := geometry.Box{X1: 0, Y1: 0, X2: 50, Y2: 20}

	first := e.Place(box, 50, 20)
	second := e.Place(box, 50, 20)

	if first.BestEffort {
		t.Error("first label should fit")
	}
	if !second.BestEffort || second.Attempts != MaxAttempts {
		t.Errorf("second label: got %+v, want best effort after %d attempts", second, MaxAttempts)
	}
}

func TestPlace_Deterministic(t *testing.T) {
	boxes := []geometry.Box{
		{X1: 10, Y1: 40, X2: 80, Y2: 160},
		{X1: 70, Y1: 40, X2: 140, Y2: 160},
		{X1: 130, Y1: 40, X2: 200, Y2: 160},
		{X1: 130, Y1: 40, X2: 200, Y2: 160},
	}

	run := func() []LabelBox {
		e := NewEngine(300, 220, 0)
		for _, b := range boxes {
			e.Place(b, 110, 21)
		}
		return e.Placed()
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("label %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

// Dense synthetic scenes: labels must be pairwise disjoint unless the engine
// flagged a best-effort placement, and most scenes must be fully disjoint.
func TestPlace_DenseScenes(t *testing.T) {
	const (
		scenes = 100
		labels = 6
		width  = 800
		height = 600
	)
	rng := rand.New(rand.NewSource(42))
	clean := 0

	for s := 0; s < scenes; s++ {
		e := NewEngine(width, height, 0)
		anyBestEffort := false

		for i := 0; i < labels; i++ {
			x := rng.Intn(width - 80)
			y := rng.Intn(height - 140)
			box := geometry.Box{X1: x, Y1: y, X2: x + 50 + rng.Intn(30), Y2: y + 90 + rng.Intn(50)}
			if e.Place(box, 100+rng.Intn(40), 21).BestEffort {
				anyBestEffort = true
			}
		}

		placed := e.Placed()
		overlap := false
		for i := range placed {
			for j := i + 1; j < len(placed); j++ {
				if placed[i].Overlaps(placed[j].Rect) {
					overlap = true
				}
			}
		}

		if overlap && !anyBestEffort {
			t.Errorf("scene %d: overlapping labels without a best-effort flag", s)
		}
		if !overlap {
			clean++
		}
	}

	if clean*10 < scenes*9 {
		t.Errorf("only %d/%d scenes were overlap-free", clean, scenes)
	}
}
