package engine

import (
	"math"
	"slices"

	"github.com/piwi3910/nestpack/internal/model"
)

// rectScoreFunc rates how well a w x h footprint fits a free rectangle.
// Lower is better.
type rectScoreFunc func(w, h float64, free model.Rect) float64

// guillotineBin packs a single bin with the guillotine algorithm: each
// placement consumes one free rectangle and splits the L-shaped remainder
// into two disjoint free rectangles along a single cut line.
type guillotineBin struct {
	binBase
	score     rectScoreFunc
	splitRule string
	merge     bool
	freeRects []model.Rect
}

func newGuillotine(s model.PackSettings) *guillotineBin {
	g := &guillotineBin{
		binBase:   binBase{width: s.BinWidth, height: s.BinHeight, rotation: s.Rotation},
		score:     rectScoreFor(s.Heuristic),
		splitRule: s.SplitRule,
		merge:     s.RectMerge,
	}
	g.freeRects = []model.Rect{{X: 0, Y: 0, Width: s.BinWidth, Height: s.BinHeight}}
	return g
}

// rectScoreFor resolves a heuristic name; unrecognized names fall back to
// best_area.
func rectScoreFor(name string) rectScoreFunc {
	switch name {
	case "best_shortside":
		return scoreBestShortSide
	case "best_longside":
		return scoreBestLongSide
	case "worst_area":
		return func(w, h float64, r model.Rect) float64 { return -scoreBestArea(w, h, r) }
	case "worst_shortside":
		return func(w, h float64, r model.Rect) float64 { return -scoreBestShortSide(w, h, r) }
	case "worst_longside":
		return func(w, h float64, r model.Rect) float64 { return -scoreBestLongSide(w, h, r) }
	default:
		return scoreBestArea
	}
}

func scoreBestArea(w, h float64, free model.Rect) float64 {
	return free.Area() - w*h
}

func scoreBestShortSide(w, h float64, free model.Rect) float64 {
	return math.Min(free.Width-w, free.Height-h)
}

func scoreBestLongSide(w, h float64, free model.Rect) float64 {
	return math.Max(free.Width-w, free.Height-h)
}

// FreeRects returns the current free rectangles in their internal order.
// The order is significant: feasibility scans take the first fit.
func (g *guillotineBin) FreeRects() []model.Rect {
	return g.freeRects
}

func (g *guillotineBin) Insert(it *model.Item) bool {
	bestIdx := -1
	bestScore := math.Inf(1)
	bestRotated := false

	for i, free := range g.freeRects {
		if free.FitsSize(it.Width, it.Height) {
			if s := g.score(it.Width, it.Height, free); s < bestScore {
				bestIdx, bestScore, bestRotated = i, s, false
			}
		}
		if g.rotation && free.FitsSize(it.Height, it.Width) {
			if s := g.score(it.Height, it.Width, free); s < bestScore {
				bestIdx, bestScore, bestRotated = i, s, true
			}
		}
	}
	if bestIdx < 0 {
		return false
	}

	free := g.freeRects[bestIdx]
	g.place(it, free.X, free.Y, bestRotated)
	g.freeRects = slices.Delete(g.freeRects, bestIdx, bestIdx+1)
	g.splitFreeRect(free, it.PlacedWidth(), it.PlacedHeight())
	if g.merge {
		g.mergeFreeRects()
	}
	return true
}

// Score returns the area of the first free rectangle, in list order, that
// the item fits in any allowed orientation.
func (g *guillotineBin) Score(it *model.Item) (float64, bool) {
	for _, free := range g.freeRects {
		if free.FitsSize(it.Width, it.Height) || (g.rotation && free.FitsSize(it.Height, it.Width)) {
			return free.Area(), true
		}
	}
	return 0, false
}

// splitFreeRect cuts the L-shaped remainder left after placing a w x h
// footprint at the free rectangle's top-left corner. The split rule
// decides whether the cut runs horizontally or vertically.
func (g *guillotineBin) splitFreeRect(free model.Rect, w, h float64) {
	leftoverW := free.Width - w
	leftoverH := free.Height - h

	var horizontal bool
	switch g.splitRule {
	case "shorter_leftover_axis":
		horizontal = leftoverW <= leftoverH
	case "longer_leftover_axis":
		horizontal = leftoverW > leftoverH
	case "maximize_area":
		horizontal = w*leftoverH <= leftoverW*h
	case "shorter_axis":
		horizontal = free.Width <= free.Height
	case "longer_axis":
		horizontal = free.Width > free.Height
	default: // minimize_area
		horizontal = w*leftoverH > leftoverW*h
	}

	below := model.Rect{X: free.X, Y: free.Y + h, Height: leftoverH}
	right := model.Rect{X: free.X + w, Y: free.Y, Width: leftoverW}
	if horizontal {
		below.Width = free.Width
		right.Height = h
	} else {
		below.Width = w
		right.Height = free.Height
	}

	if below.Width > 0 && below.Height > 0 {
		g.freeRects = append(g.freeRects, below)
	}
	if right.Width > 0 && right.Height > 0 {
		g.freeRects = append(g.freeRects, right)
	}
}

// mergeFreeRects joins pairs of free rectangles that share a full edge
// back into one. Three-way merges need another placement to trigger a
// second pass.
func (g *guillotineBin) mergeFreeRects() {
	for i := 0; i < len(g.freeRects); i++ {
		for j := i + 1; j < len(g.freeRects); j++ {
			a, b := g.freeRects[i], g.freeRects[j]
			switch {
			case a.Width == b.Width && a.X == b.X && a.Y+a.Height == b.Y:
				g.freeRects[i].Height += b.Height
			case a.Width == b.Width && a.X == b.X && b.Y+b.Height == a.Y:
				g.freeRects[i].Y = b.Y
				g.freeRects[i].Height += b.Height
			case a.Height == b.Height && a.Y == b.Y && a.X+a.Width == b.X:
				g.freeRects[i].Width += b.Width
			case a.Height == b.Height && a.Y == b.Y && b.X+b.Width == a.X:
				g.freeRects[i].X = b.X
				g.freeRects[i].Width += b.Width
			default:
				continue
			}
			g.freeRects = slices.Delete(g.freeRects, j, j+1)
			j--
		}
	}
}
