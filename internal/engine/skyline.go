package engine

import (
	"math"
	"slices"

	"github.com/piwi3910/nestpack/internal/model"
)

// SkylineSegment is one horizontal interval of the skyline: everything
// above Y (towards the bin's top edge) on [X, X+Width) is occupied,
// everything below is free.
type SkylineSegment struct {
	X     float64
	Y     float64
	Width float64
}

// skylineBin packs a single bin with the skyline algorithm: free space is
// tracked as an ordered list of segments covering the bin width, and each
// item rests on the highest segment beneath its footprint.
type skylineBin struct {
	binBase
	heuristic string // bottom_left or best_fit
	segments  []SkylineSegment
}

func newSkyline(s model.PackSettings) *skylineBin {
	b := &skylineBin{
		binBase:   binBase{width: s.BinWidth, height: s.BinHeight, rotation: s.Rotation},
		heuristic: s.Heuristic,
	}
	b.segments = []SkylineSegment{{X: 0, Y: 0, Width: s.BinWidth}}
	return b
}

// Segments returns the skyline segments in left-to-right order.
func (b *skylineBin) Segments() []SkylineSegment {
	return b.segments
}

// FitsSegment reports whether a w x h footprint fits when left-aligned at
// segment i, and the y at which it would rest. Read-only.
func (b *skylineBin) FitsSegment(w, h float64, i int) (float64, bool) {
	x := b.segments[i].X
	if x+w > b.width {
		return 0, false
	}
	y := b.segments[i].Y
	remaining := w
	for j := i; remaining > 0 && j < len(b.segments); j++ {
		y = math.Max(y, b.segments[j].Y)
		if y+h > b.height {
			return 0, false
		}
		remaining -= b.segments[j].Width
	}
	return y, true
}

func (b *skylineBin) Insert(it *model.Item) bool {
	bestIdx := -1
	bestY := 0.0
	bestRotated := false
	best1 := math.Inf(1)
	best2 := math.Inf(1)

	try := func(w, h float64, rotated bool) {
		for i := range b.segments {
			y, ok := b.FitsSegment(w, h, i)
			if !ok {
				continue
			}
			var s1, s2 float64
			if b.heuristic == "best_fit" {
				s1, s2 = b.wastedArea(i, w, y), y+h
			} else { // bottom_left
				s1, s2 = y+h, b.segments[i].Width
			}
			if s1 < best1 || (s1 == best1 && s2 < best2) {
				bestIdx, bestY, bestRotated = i, y, rotated
				best1, best2 = s1, s2
			}
		}
	}

	try(it.Width, it.Height, false)
	if b.rotation {
		try(it.Height, it.Width, true)
	}
	if bestIdx < 0 {
		return false
	}

	x := b.segments[bestIdx].X
	b.place(it, x, bestY, bestRotated)
	b.raiseSkyline(bestIdx, x, bestY+it.PlacedHeight(), it.PlacedWidth())
	return true
}

// Score returns the lowest feasible resting y across all segments and
// allowed orientations. Read-only.
func (b *skylineBin) Score(it *model.Item) (float64, bool) {
	best := math.Inf(1)
	found := false
	for i := range b.segments {
		if y, ok := b.FitsSegment(it.Width, it.Height, i); ok && y < best {
			best, found = y, true
		}
		if b.rotation {
			if y, ok := b.FitsSegment(it.Height, it.Width, i); ok && y < best {
				best, found = y, true
			}
		}
	}
	return best, found
}

// wastedArea sums the gaps trapped between the item's underside and the
// segments it spans when resting at y. Used by the best_fit heuristic.
func (b *skylineBin) wastedArea(i int, w, y float64) float64 {
	var waste float64
	left := b.segments[i].X
	right := left + w
	for ; i < len(b.segments) && b.segments[i].X < right; i++ {
		seg := b.segments[i]
		span := math.Min(right, seg.X+seg.Width) - seg.X
		waste += span * (y - seg.Y)
	}
	return waste
}

// raiseSkyline replaces the spanned part of the skyline with one new
// segment at the item's top edge, shrinking or removing the segments it
// covers and merging equal-height neighbors.
func (b *skylineBin) raiseSkyline(i int, x, top, w float64) {
	b.segments = slices.Insert(b.segments, i, SkylineSegment{X: x, Y: top, Width: w})

	for j := i + 1; j < len(b.segments); j++ {
		prev := b.segments[j-1]
		if b.segments[j].X >= prev.X+prev.Width {
			break
		}
		shrink := prev.X + prev.Width - b.segments[j].X
		b.segments[j].X += shrink
		b.segments[j].Width -= shrink
		if b.segments[j].Width > 0 {
			break
		}
		b.segments = slices.Delete(b.segments, j, j+1)
		j--
	}

	for j := 0; j < len(b.segments)-1; j++ {
		if b.segments[j].Y == b.segments[j+1].Y {
			b.segments[j].Width += b.segments[j+1].Width
			b.segments = slices.Delete(b.segments, j+1, j+2)
			j--
		}
	}
}
