// Package engine implements greedy 2D bin packing: a bin manager that
// drives item placement across one or more fixed-size bins, and the four
// interchangeable placement backends (shelf, guillotine, maximal
// rectangles, skyline) that manage free space inside a single bin.
package engine

import (
	"errors"

	"github.com/piwi3910/nestpack/internal/model"
)

var (
	// ErrUnknownAlgorithm is returned when the configured algorithm name
	// is not one of the four recognized variants.
	ErrUnknownAlgorithm = errors.New("unknown packing algorithm")
	// ErrUnknownPolicy is returned when the bin-selection policy name is
	// not recognized.
	ErrUnknownPolicy = errors.New("unknown bin policy")
	// ErrItemTooLarge is returned when an item cannot fit the bin's fixed
	// dimensions in any allowed orientation.
	ErrItemTooLarge = errors.New("item too large for bin")
)

// Backend is the contract every placement algorithm implements for a
// single bin. A backend owns the bin's free-space bookkeeping; the
// manager never duplicates its geometric logic and only aggregates
// backend answers into cross-bin decisions.
type Backend interface {
	// Insert attempts to place the item inside the bin under the
	// backend's configured heuristic. On success the item's X, Y, and
	// Rotated fields are set and the bin's free space is updated.
	Insert(it *model.Item) bool

	// Score is a read-only feasibility query used by the best-fit
	// policy. It returns a backend-specific metric for the tightest
	// candidate placement considered (resulting top-y for skyline, free
	// area otherwise) and false when the item cannot currently fit.
	// Lower is better; metrics are only compared between bins of the
	// same backend variant.
	Score(it *model.Item) (float64, bool)

	// Items returns the placed items in placement order.
	Items() []*model.Item

	// BinWidth and BinHeight return the bin's fixed dimensions.
	BinWidth() float64
	BinHeight() float64
}

// fitsUpright reports whether a w x h footprint fits a bin of the given
// fixed dimensions.
func fitsUpright(w, h, binW, binH float64) bool {
	return w <= binW && h <= binH
}
