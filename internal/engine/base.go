package engine

import "github.com/piwi3910/nestpack/internal/model"

// binBase carries the state shared by every backend variant: the fixed
// bin geometry, the rotation flag, and the placed items.
type binBase struct {
	width    float64
	height   float64
	rotation bool
	placed   []*model.Item
}

func (b *binBase) Items() []*model.Item {
	return b.placed
}

func (b *binBase) BinWidth() float64 {
	return b.width
}

func (b *binBase) BinHeight() float64 {
	return b.height
}

// place records the item's final position and orientation and takes
// ownership of it. Placement fields are set exactly once.
func (b *binBase) place(it *model.Item, x, y float64, rotated bool) {
	it.X = x
	it.Y = y
	it.Rotated = rotated
	b.placed = append(b.placed, it)
}

// UsedArea returns the total area occupied by placed items.
func (b *binBase) UsedArea() float64 {
	var area float64
	for _, it := range b.placed {
		area += it.Area()
	}
	return area
}
