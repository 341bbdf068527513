package model

// Rect is an axis-aligned rectangle measured from the bin's top-left
// corner, Y growing downward. It doubles as the free-space descriptor
// exposed by the guillotine and maximal-rectangle backends.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// FitsSize reports whether a w x h rectangle fits inside r without rotation.
func (r Rect) FitsSize(w, h float64) bool {
	return w <= r.Width && h <= r.Height
}

// Contains reports whether other lies fully inside r.
func (r Rect) Contains(other Rect) bool {
	return other.X >= r.X && other.Y >= r.Y &&
		other.X+other.Width <= r.X+r.Width &&
		other.Y+other.Height <= r.Y+r.Height
}

// Overlaps reports whether r and other share interior area. Rectangles
// that only touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.X+other.Width && other.X < r.X+r.Width &&
		r.Y < other.Y+other.Height && other.Y < r.Y+r.Height
}
