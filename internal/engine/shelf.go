package engine

import (
	"math"

	"github.com/piwi3910/nestpack/internal/model"
)

// Shelf is one horizontal strip of a shelf bin. Items are placed left to
// right; X is the next free position and Height is fixed by the first
// item placed on the strip.
type Shelf struct {
	Y        float64
	Height   float64
	X        float64
	binWidth float64
}

// FreeWidth returns the horizontal space left on the shelf.
func (s *Shelf) FreeWidth() float64 {
	return s.binWidth - s.X
}

// Area returns the free area remaining on the shelf. Best-fit scoring
// compares this across bins.
func (s *Shelf) Area() float64 {
	return s.FreeWidth() * s.Height
}

// fits reports whether a w x h footprint fits on the shelf.
func (s *Shelf) fits(w, h float64) bool {
	return w <= s.FreeWidth() && h <= s.Height
}

// shelfBin packs a single bin with the shelf algorithm. When the wastemap
// is enabled, the leftover strip of a shelf is handed to an embedded
// guillotine packer once a new shelf opens below it, so later small items
// can still recover that space.
type shelfBin struct {
	binBase
	heuristic   string
	useWasteMap bool
	shelves     []*Shelf
	wasteMap    *guillotineBin
}

func newShelf(s model.PackSettings) *shelfBin {
	b := &shelfBin{
		binBase:     binBase{width: s.BinWidth, height: s.BinHeight, rotation: s.Rotation},
		heuristic:   s.Heuristic,
		useWasteMap: s.WasteMap,
	}
	if b.useWasteMap {
		b.wasteMap = newGuillotine(model.PackSettings{
			BinWidth:  s.BinWidth,
			BinHeight: s.BinHeight,
			Heuristic: "best_area",
			SplitRule: "minimize_area",
			Rotation:  s.Rotation,
		})
		// The wastemap starts empty; it only ever holds closed-shelf
		// leftovers, never the whole bin.
		b.wasteMap.freeRects = nil
	}
	return b
}

// Shelves returns the shelves in top-to-bottom creation order.
func (b *shelfBin) Shelves() []*Shelf {
	return b.shelves
}

// AvailableHeight returns the vertical space left below the last shelf.
func (b *shelfBin) AvailableHeight() float64 {
	return b.height - b.nextShelfY()
}

func (b *shelfBin) nextShelfY() float64 {
	if len(b.shelves) == 0 {
		return 0
	}
	last := b.shelves[len(b.shelves)-1]
	return last.Y + last.Height
}

func (b *shelfBin) Insert(it *model.Item) bool {
	if shelf, rotated := b.selectShelf(it); shelf != nil {
		b.place(it, shelf.X, shelf.Y, rotated)
		shelf.X += it.PlacedWidth()
		return true
	}
	if b.useWasteMap && b.wasteMap.Insert(it) {
		b.placed = append(b.placed, it)
		return true
	}
	return b.openShelf(it)
}

// Score returns the free area of the first shelf, in creation order, that
// the item fits in any allowed orientation, or the area of the new-shelf
// option (bin width times remaining height) when that is feasible and
// smaller. Read-only.
func (b *shelfBin) Score(it *model.Item) (float64, bool) {
	best := math.Inf(1)
	found := false
	for _, shelf := range b.shelves {
		if shelf.fits(it.Width, it.Height) || (b.rotation && shelf.fits(it.Height, it.Width)) {
			best, found = shelf.Area(), true
			break
		}
	}
	avail := b.AvailableHeight()
	if b.newShelfFits(it.Width, it.Height, avail) || (b.rotation && b.newShelfFits(it.Height, it.Width, avail)) {
		if area := b.width * avail; area < best {
			best = area
		}
		found = true
	}
	return best, found
}

func (b *shelfBin) newShelfFits(w, h, avail float64) bool {
	return w <= b.width && h <= avail
}

// selectShelf picks a shelf under the configured heuristic and the
// orientation to place the item in. Upright placement wins when both
// orientations fit a shelf.
func (b *shelfBin) selectShelf(it *model.Item) (*Shelf, bool) {
	candidates := b.shelves
	if b.heuristic == "next_fit" && len(b.shelves) > 0 {
		candidates = b.shelves[len(b.shelves)-1:]
	}

	var best *Shelf
	bestRotated := false
	bestScore := math.Inf(1)

	for _, shelf := range candidates {
		upright := shelf.fits(it.Width, it.Height)
		rotated := b.rotation && shelf.fits(it.Height, it.Width)
		if !upright && !rotated {
			continue
		}
		w, h := it.Width, it.Height
		if !upright {
			w, h = h, w
		}

		var score float64
		switch b.heuristic {
		case "best_width":
			score = shelf.FreeWidth() - w
		case "best_height":
			score = shelf.Height - h
		case "best_area":
			score = shelf.Area()
		default: // first_fit, next_fit
			return shelf, !upright
		}
		if score < bestScore {
			best, bestRotated, bestScore = shelf, !upright, score
		}
	}
	return best, bestRotated
}

// openShelf starts a new shelf below the last one and places the item at
// its left edge. When rotation is allowed, the orientation with the
// smaller height wins so the shelf stays as flat as possible. The
// previous shelf's leftover strip moves into the wastemap.
func (b *shelfBin) openShelf(it *model.Item) bool {
	y := b.nextShelfY()
	avail := b.height - y

	w, h := it.Width, it.Height
	rotated := false
	if b.rotation && it.Height > it.Width && b.newShelfFits(it.Height, it.Width, avail) {
		w, h, rotated = it.Height, it.Width, true
	} else if !b.newShelfFits(w, h, avail) {
		if !b.rotation || !b.newShelfFits(it.Height, it.Width, avail) {
			return false
		}
		w, h, rotated = it.Height, it.Width, true
	}

	if b.useWasteMap && len(b.shelves) > 0 {
		b.closeShelf(b.shelves[len(b.shelves)-1])
	}

	shelf := &Shelf{Y: y, Height: h, X: w, binWidth: b.width}
	b.shelves = append(b.shelves, shelf)
	b.place(it, 0, y, rotated)
	return true
}

// closeShelf hands the shelf's remaining strip to the wastemap and marks
// the shelf full.
func (b *shelfBin) closeShelf(shelf *Shelf) {
	if shelf.FreeWidth() <= 0 {
		return
	}
	b.wasteMap.freeRects = append(b.wasteMap.freeRects, model.Rect{
		X:      shelf.X,
		Y:      shelf.Y,
		Width:  shelf.FreeWidth(),
		Height: shelf.Height,
	})
	shelf.X = shelf.binWidth
}
