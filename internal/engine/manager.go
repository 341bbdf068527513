package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/nestpack/internal/model"
)

// Manager orchestrates a packing run: it owns the immutable settings, the
// ordered pending-item queue, and the ordered list of open bins. Bins are
// append-only; once an item is placed it is never moved.
//
// A Manager is single-threaded. Given the same settings and the same
// AddItems call sequence, a run is fully deterministic.
type Manager struct {
	settings model.PackSettings
	items    []*model.Item
	bins     []Backend
}

// NewManager validates the settings and creates a manager with one
// initial empty bin.
func NewManager(settings model.PackSettings) (*Manager, error) {
	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid pack settings: %w", err)
	}
	m := &Manager{settings: settings}
	bin, err := m.newBin()
	if err != nil {
		return nil, err
	}
	m.bins = append(m.bins, bin)
	return m, nil
}

// newBin produces a new, empty bin of the configured algorithm variant,
// pre-wired with the bin dimensions and the variant-specific flags.
func (m *Manager) newBin() (Backend, error) {
	switch m.settings.Algorithm {
	case model.AlgorithmShelf:
		return newShelf(m.settings), nil
	case model.AlgorithmGuillotine:
		return newGuillotine(m.settings), nil
	case model.AlgorithmMaxRects:
		return newMaxRects(m.settings), nil
	case model.AlgorithmSkyline:
		return newSkyline(m.settings), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, m.settings.Algorithm)
}

// AddItems appends a batch of items to the pending queue in call order.
// When sorting is enabled the whole queue is re-sorted by descending
// area; the sort is stable, so equal-area items keep their submission
// order. Zero-area items are accepted and sort last.
func (m *Manager) AddItems(items ...*model.Item) {
	m.items = append(m.items, items...)
	if m.settings.Sorting {
		sort.SliceStable(m.items, func(i, j int) bool {
			return m.items[i].Area() > m.items[j].Area()
		})
	}
}

// Execute packs every queued item, in queue order, using the configured
// bin-selection policy. There is no backtracking: each item is placed
// exactly once. The queue itself is kept as a record of the batch.
//
// The first fatal error (an item oversized for the bin dimensions) aborts
// the run and is returned; items placed before it stay placed.
func (m *Manager) Execute() error {
	for _, it := range m.items {
		var err error
		switch m.settings.Policy {
		case model.PolicyFirstFit:
			err = m.placeFirstFit(it)
		case model.PolicyBestFit:
			err = m.placeBestFit(it)
		default:
			err = fmt.Errorf("%w: %q", ErrUnknownPolicy, m.settings.Policy)
		}
		if err != nil {
			return fmt.Errorf("item %q (%gx%g): %w", it.Label, it.Width, it.Height, err)
		}
	}
	return nil
}

// fitsBinDims reports whether the item can fit the bin's fixed dimensions
// at all: both the width and the height must each be within the
// corresponding bin dimension in at least one allowed orientation.
func (m *Manager) fitsBinDims(it *model.Item) bool {
	if fitsUpright(it.Width, it.Height, m.settings.BinWidth, m.settings.BinHeight) {
		return true
	}
	if m.settings.Rotation && fitsUpright(it.Height, it.Width, m.settings.BinWidth, m.settings.BinHeight) {
		return true
	}
	return false
}

// placeFirstFit inserts the item into the first open bin that accepts it,
// in bin-creation order, opening exactly one new bin when every open bin
// refuses.
func (m *Manager) placeFirstFit(it *model.Item) error {
	if !m.fitsBinDims(it) {
		return ErrItemTooLarge
	}
	for _, bin := range m.bins {
		if bin.Insert(it) {
			return nil
		}
	}
	return m.placeInNewBin(it)
}

// placeBestFit scores every open bin with the backend's feasibility query
// and inserts the item into the bin with the lowest metric. Ties keep the
// first-seen bin. When no open bin is feasible, a new bin is opened.
func (m *Manager) placeBestFit(it *model.Item) error {
	if !m.fitsBinDims(it) {
		return ErrItemTooLarge
	}

	best := -1
	bestScore := math.Inf(1)
	for i, bin := range m.bins {
		if score, ok := bin.Score(it); ok && score < bestScore {
			bestScore = score
			best = i
		}
	}

	// Score is a lighter query than the full insertion heuristic, so a
	// refused insert on the scored bin falls through to a fresh bin
	// rather than dropping the item.
	if best >= 0 && m.bins[best].Insert(it) {
		return nil
	}
	return m.placeInNewBin(it)
}

// placeInNewBin opens one new bin via the factory and inserts the item.
// The insert cannot refuse a fresh bin once the oversize guard passed.
func (m *Manager) placeInNewBin(it *model.Item) error {
	bin, err := m.newBin()
	if err != nil {
		return err
	}
	m.bins = append(m.bins, bin)
	if !bin.Insert(it) {
		return fmt.Errorf("empty bin refused item: %w", ErrItemTooLarge)
	}
	return nil
}

// Bins returns the open bins in creation order.
func (m *Manager) Bins() []Backend {
	return m.bins
}

// Items returns the pending-item queue in its current order.
func (m *Manager) Items() []*model.Item {
	return m.items
}

// Result builds the export-facing layout of the finished packing.
func (m *Manager) Result() model.PackResult {
	result := model.PackResult{Bins: make([]model.BinLayout, 0, len(m.bins))}
	for i, bin := range m.bins {
		result.Bins = append(result.Bins, model.BinLayout{
			Index:  i + 1,
			Width:  bin.BinWidth(),
			Height: bin.BinHeight(),
			Items:  bin.Items(),
		})
	}
	return result
}
