package engine

import (
	"math"

	"github.com/piwi3910/nestpack/internal/model"
)

// mrScoreFunc rates a candidate placement at the top-left corner of a
// free rectangle. Both components are minimized; the second breaks ties.
type mrScoreFunc func(bin *maxRectsBin, w, h float64, free model.Rect) (float64, float64)

// maxRectsBin packs a single bin with the maximal-rectangles algorithm:
// the free space is kept as a list of maximal (mutually overlapping) free
// rectangles, and every placement re-splits all intersecting entries.
type maxRectsBin struct {
	binBase
	score     mrScoreFunc
	freeRects []model.Rect
}

func newMaxRects(s model.PackSettings) *maxRectsBin {
	m := &maxRectsBin{
		binBase: binBase{width: s.BinWidth, height: s.BinHeight, rotation: s.Rotation},
		score:   mrScoreFor(s.Heuristic),
	}
	m.freeRects = []model.Rect{{X: 0, Y: 0, Width: s.BinWidth, Height: s.BinHeight}}
	return m
}

// mrScoreFor resolves a heuristic name; unrecognized names fall back to
// best_shortside.
func mrScoreFor(name string) mrScoreFunc {
	switch name {
	case "best_longside":
		return func(_ *maxRectsBin, w, h float64, free model.Rect) (float64, float64) {
			return math.Max(free.Width-w, free.Height-h), math.Min(free.Width-w, free.Height-h)
		}
	case "best_area":
		return func(_ *maxRectsBin, w, h float64, free model.Rect) (float64, float64) {
			return free.Area() - w*h, math.Min(free.Width-w, free.Height-h)
		}
	case "bottom_left":
		return func(_ *maxRectsBin, _, h float64, free model.Rect) (float64, float64) {
			return free.Y + h, free.X
		}
	case "contact_point":
		return func(bin *maxRectsBin, w, h float64, free model.Rect) (float64, float64) {
			return -bin.contactScore(free.X, free.Y, w, h), 0
		}
	default: // best_shortside
		return func(_ *maxRectsBin, w, h float64, free model.Rect) (float64, float64) {
			return math.Min(free.Width-w, free.Height-h), math.Max(free.Width-w, free.Height-h)
		}
	}
}

// FreeRects returns the maximal free rectangles in their internal order.
func (m *maxRectsBin) FreeRects() []model.Rect {
	return m.freeRects
}

func (m *maxRectsBin) Insert(it *model.Item) bool {
	x, y, rotated, ok := m.findPosition(it.Width, it.Height)
	if !ok {
		return false
	}
	m.place(it, x, y, rotated)
	m.consumeFreeSpace(it.Footprint())
	return true
}

// Score returns the area of the first free rectangle, in list order, that
// the item fits in any allowed orientation.
func (m *maxRectsBin) Score(it *model.Item) (float64, bool) {
	for _, free := range m.freeRects {
		if free.FitsSize(it.Width, it.Height) || (m.rotation && free.FitsSize(it.Height, it.Width)) {
			return free.Area(), true
		}
	}
	return 0, false
}

// findPosition evaluates every free rectangle in both allowed
// orientations and keeps the best-scoring placement.
func (m *maxRectsBin) findPosition(w, h float64) (x, y float64, rotated, ok bool) {
	best1 := math.Inf(1)
	best2 := math.Inf(1)

	for _, free := range m.freeRects {
		if free.FitsSize(w, h) {
			s1, s2 := m.score(m, w, h, free)
			if s1 < best1 || (s1 == best1 && s2 < best2) {
				x, y, rotated, ok = free.X, free.Y, false, true
				best1, best2 = s1, s2
			}
		}
		if m.rotation && free.FitsSize(h, w) {
			s1, s2 := m.score(m, h, w, free)
			if s1 < best1 || (s1 == best1 && s2 < best2) {
				x, y, rotated, ok = free.X, free.Y, true, true
				best1, best2 = s1, s2
			}
		}
	}
	return x, y, rotated, ok
}

// consumeFreeSpace splits every free rectangle that intersects the used
// area into up to four maximal remainders, then drops entries contained
// in another.
func (m *maxRectsBin) consumeFreeSpace(used model.Rect) {
	next := make([]model.Rect, 0, len(m.freeRects)+4)
	for _, free := range m.freeRects {
		if !free.Overlaps(used) {
			next = append(next, free)
			continue
		}
		if used.X > free.X {
			next = append(next, model.Rect{X: free.X, Y: free.Y, Width: used.X - free.X, Height: free.Height})
		}
		if used.X+used.Width < free.X+free.Width {
			next = append(next, model.Rect{X: used.X + used.Width, Y: free.Y, Width: free.X + free.Width - used.X - used.Width, Height: free.Height})
		}
		if used.Y > free.Y {
			next = append(next, model.Rect{X: free.X, Y: free.Y, Width: free.Width, Height: used.Y - free.Y})
		}
		if used.Y+used.Height < free.Y+free.Height {
			next = append(next, model.Rect{X: free.X, Y: used.Y + used.Height, Width: free.Width, Height: free.Y + free.Height - used.Y - used.Height})
		}
	}
	m.freeRects = pruneContained(next)
}

// pruneContained removes rectangles fully contained in another entry.
func pruneContained(rects []model.Rect) []model.Rect {
	kept := make([]model.Rect, 0, len(rects))
	for i, r := range rects {
		contained := false
		for j, other := range rects {
			if i == j {
				continue
			}
			if other.Contains(r) && !(r == other && i < j) {
				contained = true
				break
			}
		}
		if !contained {
			kept = append(kept, r)
		}
	}
	return kept
}

// contactScore measures how much of the candidate's perimeter touches bin
// edges or already-placed items. Used by the contact_point heuristic.
func (m *maxRectsBin) contactScore(x, y, w, h float64) float64 {
	var score float64
	if x == 0 || x+w == m.width {
		score += h
	}
	if y == 0 || y+h == m.height {
		score += w
	}
	for _, it := range m.placed {
		f := it.Footprint()
		if f.X == x+w || f.X+f.Width == x {
			score += overlapLength(f.Y, f.Y+f.Height, y, y+h)
		}
		if f.Y == y+h || f.Y+f.Height == y {
			score += overlapLength(f.X, f.X+f.Width, x, x+w)
		}
	}
	return score
}

// overlapLength returns the length of the overlap of two intervals, or 0
// when they are disjoint.
func overlapLength(a1, a2, b1, b2 float64) float64 {
	if a2 < b1 || b2 < a1 {
		return 0
	}
	return math.Min(a2, b2) - math.Max(a1, b1)
}
