package model

import "fmt"

// Algorithm selects the placement backend that manages a bin's free space.
type Algorithm string

const (
	AlgorithmShelf      Algorithm = "shelf"
	AlgorithmGuillotine Algorithm = "guillotine"
	AlgorithmMaxRects   Algorithm = "maximal_rectangle"
	AlgorithmSkyline    Algorithm = "skyline"
)

// Algorithms lists every recognized placement algorithm.
var Algorithms = []Algorithm{
	AlgorithmShelf,
	AlgorithmGuillotine,
	AlgorithmMaxRects,
	AlgorithmSkyline,
}

// Policy selects how the bin manager picks a target bin for each item.
type Policy string

const (
	// PolicyFirstFit places each item into the first open bin that
	// accepts it, in bin-creation order. Fast, no scoring.
	PolicyFirstFit Policy = "first_fit"
	// PolicyBestFit scores every open bin with the backend's feasibility
	// query and places the item into the tightest feasible one.
	PolicyBestFit Policy = "best_fit"
)

// Heuristics maps each algorithm to its recognized placement heuristics.
// The first entry is the default used when the configured name is empty
// or not recognized by the backend.
var Heuristics = map[Algorithm][]string{
	AlgorithmShelf:      {"first_fit", "next_fit", "best_width", "best_height", "best_area"},
	AlgorithmGuillotine: {"best_area", "best_shortside", "best_longside", "worst_area", "worst_shortside", "worst_longside"},
	AlgorithmMaxRects:   {"best_shortside", "best_longside", "best_area", "bottom_left", "contact_point"},
	AlgorithmSkyline:    {"bottom_left", "best_fit"},
}

// SplitRules lists the guillotine free-rectangle split rules. The first
// entry is the default.
var SplitRules = []string{
	"minimize_area", "maximize_area",
	"shorter_leftover_axis", "longer_leftover_axis",
	"shorter_axis", "longer_axis",
}

// PackSettings holds the full packing configuration. A settings value is
// constructed once, validated, and never mutated afterwards; every bin
// created during a run reads from the same value.
type PackSettings struct {
	BinWidth  float64   `json:"bin_width" toml:"bin_width"`   // mm
	BinHeight float64   `json:"bin_height" toml:"bin_height"` // mm
	Algorithm Algorithm `json:"algorithm" toml:"algorithm"`
	Policy    Policy    `json:"policy" toml:"policy"`
	Heuristic string    `json:"heuristic" toml:"heuristic"`
	SplitRule string    `json:"split_rule" toml:"split_rule"` // guillotine only
	Sorting   bool      `json:"sorting" toml:"sorting"`       // sort queue by descending area
	Rotation  bool      `json:"rotation" toml:"rotation"`     // allow 90 degree rotation
	RectMerge bool      `json:"rect_merge" toml:"rect_merge"` // guillotine only
	WasteMap  bool      `json:"waste_map" toml:"waste_map"`   // shelf only
}

// DefaultSettings returns the settings used when nothing is configured:
// a standard 2440x1220 mm sheet packed with the guillotine backend under
// the best-fit policy.
func DefaultSettings() PackSettings {
	return PackSettings{
		BinWidth:  2440,
		BinHeight: 1220,
		Algorithm: AlgorithmGuillotine,
		Policy:    PolicyBestFit,
		Heuristic: "best_area",
		SplitRule: "minimize_area",
		Sorting:   true,
		Rotation:  true,
		RectMerge: true,
		WasteMap:  true,
	}
}

// Validate checks the settings for configuration errors. Unknown
// algorithm or policy names are fatal; heuristic and split-rule names are
// resolved by the backends, which fall back to their defaults.
func (s PackSettings) Validate() error {
	if s.BinWidth <= 0 || s.BinHeight <= 0 {
		return fmt.Errorf("bin dimensions must be positive, got %gx%g", s.BinWidth, s.BinHeight)
	}
	switch s.Algorithm {
	case AlgorithmShelf, AlgorithmGuillotine, AlgorithmMaxRects, AlgorithmSkyline:
	default:
		return fmt.Errorf("unknown algorithm %q", s.Algorithm)
	}
	switch s.Policy {
	case PolicyFirstFit, PolicyBestFit:
	default:
		return fmt.Errorf("unknown bin policy %q", s.Policy)
	}
	return nil
}
