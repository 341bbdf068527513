// Package model holds the shared data types for the nestpack packing
// pipeline: items, bins, settings, and the result layout consumed by the
// exporters.
package model

import "github.com/google/uuid"

// Item represents a rectangular piece to be packed into a bin.
//
// Width and Height are the requested dimensions in mm. X, Y, and Rotated
// are filled in exactly once by the placement backend that accepts the
// item; afterwards the item is never moved or reconsidered. Coordinates
// are measured from the bin's top-left corner, Y growing downward.
type Item struct {
	ID      string  `json:"id"`
	Label   string  `json:"label"`
	Width   float64 `json:"width"`  // mm
	Height  float64 `json:"height"` // mm
	X       float64 `json:"x"`      // Position from left edge (mm)
	Y       float64 `json:"y"`      // Position from top edge (mm)
	Rotated bool    `json:"rotated"`
}

func NewItem(label string, w, h float64) *Item {
	return &Item{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
	}
}

// Area returns the requested area of the item.
func (it *Item) Area() float64 {
	return it.Width * it.Height
}

// PlacedWidth returns the horizontal footprint after rotation.
func (it *Item) PlacedWidth() float64 {
	if it.Rotated {
		return it.Height
	}
	return it.Width
}

// PlacedHeight returns the vertical footprint after rotation.
func (it *Item) PlacedHeight() float64 {
	if it.Rotated {
		return it.Width
	}
	return it.Height
}

// Footprint returns the rectangle the placed item occupies in its bin.
func (it *Item) Footprint() Rect {
	return Rect{X: it.X, Y: it.Y, Width: it.PlacedWidth(), Height: it.PlacedHeight()}
}
