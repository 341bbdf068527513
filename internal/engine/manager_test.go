package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestpack/internal/model"
)

// testSettings returns a small unsorted configuration that keeps test
// traces easy to follow.
func testSettings(w, h float64, algo model.Algorithm, policy model.Policy) model.PackSettings {
	return model.PackSettings{
		BinWidth:  w,
		BinHeight: h,
		Algorithm: algo,
		Policy:    policy,
		Heuristic: "",
		SplitRule: "minimize_area",
		Sorting:   false,
		Rotation:  true,
		RectMerge: true,
		WasteMap:  true,
	}
}

// assertValidLayout checks the no-overlap and containment properties for
// every bin of the manager.
func assertValidLayout(t *testing.T, m *Manager) {
	t.Helper()
	for bi, bin := range m.Bins() {
		items := bin.Items()
		for i, it := range items {
			f := it.Footprint()
			assert.GreaterOrEqual(t, f.X, 0.0, "bin %d item %d outside left edge", bi, i)
			assert.GreaterOrEqual(t, f.Y, 0.0, "bin %d item %d outside top edge", bi, i)
			assert.LessOrEqual(t, f.X+f.Width, bin.BinWidth(), "bin %d item %d outside right edge", bi, i)
			assert.LessOrEqual(t, f.Y+f.Height, bin.BinHeight(), "bin %d item %d outside bottom edge", bi, i)
			for j := i + 1; j < len(items); j++ {
				assert.False(t, f.Overlaps(items[j].Footprint()),
					"bin %d items %d and %d overlap", bi, i, j)
			}
		}
	}
}

// placedCount sums placed items across all bins.
func placedCount(m *Manager) int {
	n := 0
	for _, bin := range m.Bins() {
		n += len(bin.Items())
	}
	return n
}

func TestNewManager_InvalidAlgorithm(t *testing.T) {
	s := testSettings(10, 10, "octree", model.PolicyBestFit)
	_, err := NewManager(s)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "octree")
}

func TestNewManager_InvalidPolicy(t *testing.T) {
	s := testSettings(10, 10, model.AlgorithmGuillotine, "worst_fit")
	_, err := NewManager(s)
	require.Error(t, err)
}

func TestNewManager_InvalidDimensions(t *testing.T) {
	s := testSettings(0, 10, model.AlgorithmGuillotine, model.PolicyBestFit)
	_, err := NewManager(s)
	require.Error(t, err)
}

func TestNewManager_StartsWithOneEmptyBin(t *testing.T) {
	m, err := NewManager(testSettings(10, 10, model.AlgorithmSkyline, model.PolicyFirstFit))
	require.NoError(t, err)
	require.Len(t, m.Bins(), 1)
	assert.Empty(t, m.Bins()[0].Items())
}

func TestAddItems_SortsByDescendingArea(t *testing.T) {
	s := testSettings(10, 10, model.AlgorithmGuillotine, model.PolicyBestFit)
	s.Sorting = true
	m, err := NewManager(s)
	require.NoError(t, err)

	small := model.NewItem("small", 1, 1)
	large := model.NewItem("large", 5, 5)
	medium := model.NewItem("medium", 3, 3)
	m.AddItems(small, large)
	m.AddItems(medium)

	queue := m.Items()
	require.Len(t, queue, 3)
	assert.Equal(t, "large", queue[0].Label)
	assert.Equal(t, "medium", queue[1].Label)
	assert.Equal(t, "small", queue[2].Label)
}

func TestAddItems_SortIsStable(t *testing.T) {
	s := testSettings(10, 10, model.AlgorithmGuillotine, model.PolicyBestFit)
	s.Sorting = true
	m, err := NewManager(s)
	require.NoError(t, err)

	// Equal areas in different shapes must keep submission order.
	a := model.NewItem("a", 4, 2)
	b := model.NewItem("b", 2, 4)
	c := model.NewItem("c", 8, 1)
	m.AddItems(a, b, c)

	queue := m.Items()
	assert.Equal(t, []string{"a", "b", "c"}, []string{queue[0].Label, queue[1].Label, queue[2].Label})
}

func TestAddItems_ZeroAreaSortsLast(t *testing.T) {
	s := testSettings(10, 10, model.AlgorithmGuillotine, model.PolicyBestFit)
	s.Sorting = true
	m, err := NewManager(s)
	require.NoError(t, err)

	zero := model.NewItem("zero", 0, 5)
	solid := model.NewItem("solid", 1, 1)
	m.AddItems(zero, solid)

	assert.Equal(t, "solid", m.Items()[0].Label)
	assert.Equal(t, "zero", m.Items()[1].Label)
}

func TestAddItems_NoSortingKeepsCallOrder(t *testing.T) {
	m, err := NewManager(testSettings(10, 10, model.AlgorithmGuillotine, model.PolicyBestFit))
	require.NoError(t, err)

	m.AddItems(model.NewItem("first", 1, 1), model.NewItem("second", 9, 9))
	assert.Equal(t, "first", m.Items()[0].Label)
	assert.Equal(t, "second", m.Items()[1].Label)
}

func TestExecute_GuillotineBestFit_FourQuartersFillOneBin(t *testing.T) {
	// Four 4x2 items exactly tile an 8x4 bin.
	m, err := NewManager(testSettings(8, 4, model.AlgorithmGuillotine, model.PolicyBestFit))
	require.NoError(t, err)

	m.AddItems(
		model.NewItem("q1", 4, 2),
		model.NewItem("q2", 4, 2),
		model.NewItem("q3", 4, 2),
		model.NewItem("q4", 4, 2),
	)
	require.NoError(t, m.Execute())

	require.Len(t, m.Bins(), 1)
	require.Len(t, m.Bins()[0].Items(), 4)
	assertValidLayout(t, m)

	var used float64
	for _, it := range m.Bins()[0].Items() {
		used += it.Area()
	}
	assert.Equal(t, 32.0, used, "items should fill the whole bin")
}

func TestExecute_OversizeItemFails(t *testing.T) {
	s := testSettings(4, 4, model.AlgorithmShelf, model.PolicyBestFit)
	s.Rotation = false
	m, err := NewManager(s)
	require.NoError(t, err)

	m.AddItems(model.NewItem("too-wide", 5, 1))
	err = m.Execute()
	require.ErrorIs(t, err, ErrItemTooLarge)
}

func TestExecute_OversizeGuardChecksBothDimensions(t *testing.T) {
	// 1x5 fits a 6x2 bin only when rotated. The guard must require both
	// dimensions to fit, not either one.
	s := testSettings(6, 2, model.AlgorithmGuillotine, model.PolicyBestFit)
	s.Rotation = false
	m, err := NewManager(s)
	require.NoError(t, err)
	m.AddItems(model.NewItem("tall", 1, 5))
	require.ErrorIs(t, m.Execute(), ErrItemTooLarge)

	s.Rotation = true
	m, err = NewManager(s)
	require.NoError(t, err)
	m.AddItems(model.NewItem("tall", 1, 5))
	require.NoError(t, m.Execute())
	require.Len(t, m.Bins()[0].Items(), 1)
	assert.True(t, m.Bins()[0].Items()[0].Rotated)
	assertValidLayout(t, m)
}

func TestExecute_OversizeLeavesEarlierPlacementsIntact(t *testing.T) {
	s := testSettings(4, 4, model.AlgorithmGuillotine, model.PolicyBestFit)
	s.Rotation = false
	m, err := NewManager(s)
	require.NoError(t, err)

	m.AddItems(model.NewItem("ok", 2, 2), model.NewItem("huge", 9, 9))
	require.ErrorIs(t, m.Execute(), ErrItemTooLarge)
	assert.Equal(t, 1, placedCount(m), "item placed before the failure stays placed")
}

func TestExecute_FirstFit_OpensSecondBin(t *testing.T) {
	m, err := NewManager(testSettings(4, 4, model.AlgorithmGuillotine, model.PolicyFirstFit))
	require.NoError(t, err)

	m.AddItems(model.NewItem("a", 3, 3), model.NewItem("b", 3, 3))
	require.NoError(t, m.Execute())

	require.Len(t, m.Bins(), 2)
	assert.Len(t, m.Bins()[0].Items(), 1)
	assert.Len(t, m.Bins()[1].Items(), 1)
	assertValidLayout(t, m)
}

func TestExecute_FirstFit_PrefersEarlierBins(t *testing.T) {
	// After b forces a second bin open, c still goes into bin 1 because
	// bin 1 can accept it.
	s := testSettings(4, 4, model.AlgorithmGuillotine, model.PolicyFirstFit)
	s.Rotation = false
	m, err := NewManager(s)
	require.NoError(t, err)

	m.AddItems(
		model.NewItem("a", 4, 2),
		model.NewItem("b", 3, 3),
		model.NewItem("c", 4, 2),
	)
	require.NoError(t, m.Execute())

	require.Len(t, m.Bins(), 2)
	assert.Len(t, m.Bins()[0].Items(), 2, "bin 1 should take both 4x2 items")
	assert.Len(t, m.Bins()[1].Items(), 1)
	assertValidLayout(t, m)
}

func TestExecute_BestFitSkyline_PicksLowestPlacement(t *testing.T) {
	s := testSettings(10, 10, model.AlgorithmSkyline, model.PolicyBestFit)
	s.Rotation = false
	m, err := NewManager(s)
	require.NoError(t, err)

	m.AddItems(
		model.NewItem("base1", 10, 8), // bin 1, skyline at 8
		model.NewItem("base2", 10, 4), // too tall for bin 1 leftover, opens bin 2
		model.NewItem("strip1", 10, 2),
		model.NewItem("strip2", 10, 2),
		model.NewItem("strip3", 10, 2),
	)
	require.NoError(t, m.Execute())

	require.Len(t, m.Bins(), 2)
	// strip1 and strip2 rest lower in bin 2 (y=4, then y=6); strip3 ties
	// at y=8 in both bins and stays with the first-seen bin 1.
	assert.Len(t, m.Bins()[0].Items(), 2)
	assert.Len(t, m.Bins()[1].Items(), 3)
	assertValidLayout(t, m)

	strip3 := m.Bins()[0].Items()[1]
	assert.Equal(t, "strip3", strip3.Label)
	assert.Equal(t, 8.0, strip3.Y)
}

func TestExecute_BestFitGuillotine_InsertsIntoBestScoringBin(t *testing.T) {
	// Bin 2 holds the smallest free rectangle that fits the last item,
	// and the item must land there even though bin 3 was scanned last.
	s := testSettings(10, 10, model.AlgorithmGuillotine, model.PolicyBestFit)
	s.Rotation = false
	m, err := NewManager(s)
	require.NoError(t, err)

	m.AddItems(
		model.NewItem("a", 10, 4), // bin 1, leaves 10x6
		model.NewItem("b", 10, 7), // bin 2, leaves 10x3
		model.NewItem("c", 10, 8), // bin 3, leaves 10x2
		model.NewItem("d", 10, 3), // fits bins 1 and 2; bin 2 is tighter
	)
	require.NoError(t, m.Execute())

	require.Len(t, m.Bins(), 3)
	require.Len(t, m.Bins()[1].Items(), 2)
	d := m.Bins()[1].Items()[1]
	assert.Equal(t, "d", d.Label)
	assert.Equal(t, 7.0, d.Y)
	assertValidLayout(t, m)
}

func TestExecute_BestFitShelf_ScoresNewShelfOption(t *testing.T) {
	// Bin 1's open shelf space is tighter than bin 2's nearly empty one.
	s := testSettings(10, 10, model.AlgorithmShelf, model.PolicyBestFit)
	s.Rotation = false
	s.WasteMap = false
	m, err := NewManager(s)
	require.NoError(t, err)

	m.AddItems(
		model.NewItem("a", 10, 8), // bin 1, shelf of height 8
		model.NewItem("b", 10, 4), // needs a new bin
		model.NewItem("c", 10, 2), // new-shelf option: bin 1 offers 10x2, bin 2 offers 10x6
	)
	require.NoError(t, m.Execute())

	require.Len(t, m.Bins(), 2)
	require.Len(t, m.Bins()[0].Items(), 2)
	assert.Equal(t, "c", m.Bins()[0].Items()[1].Label)
	assertValidLayout(t, m)
}

func TestExecute_ConservationAcrossAlgorithmsAndPolicies(t *testing.T) {
	algorithms := []model.Algorithm{
		model.AlgorithmShelf,
		model.AlgorithmGuillotine,
		model.AlgorithmMaxRects,
		model.AlgorithmSkyline,
	}
	policies := []model.Policy{model.PolicyFirstFit, model.PolicyBestFit}

	for _, algo := range algorithms {
		for _, policy := range policies {
			t.Run(string(algo)+"/"+string(policy), func(t *testing.T) {
				s := testSettings(6, 6, algo, policy)
				s.Sorting = true
				m, err := NewManager(s)
				require.NoError(t, err)

				items := []*model.Item{
					model.NewItem("a", 4, 3),
					model.NewItem("b", 2, 2),
					model.NewItem("c", 5, 1),
					model.NewItem("d", 1, 1),
					model.NewItem("e", 3, 3),
					model.NewItem("f", 2, 5),
				}
				m.AddItems(items...)
				require.NoError(t, m.Execute())

				// Every submitted item ends up placed in exactly one bin.
				seen := map[string]int{}
				for _, bin := range m.Bins() {
					for _, it := range bin.Items() {
						seen[it.ID]++
					}
				}
				require.Len(t, seen, len(items))
				for _, it := range items {
					assert.Equal(t, 1, seen[it.ID], "item %s placed exactly once", it.Label)
				}
				assertValidLayout(t, m)
			})
		}
	}
}

func TestResult_ReflectsPlacedItems(t *testing.T) {
	m, err := NewManager(testSettings(8, 4, model.AlgorithmMaxRects, model.PolicyBestFit))
	require.NoError(t, err)

	m.AddItems(model.NewItem("a", 4, 2), model.NewItem("b", 4, 2))
	require.NoError(t, m.Execute())

	result := m.Result()
	require.Len(t, result.Bins, 1)
	assert.Equal(t, 1, result.Bins[0].Index)
	assert.Equal(t, 8.0, result.Bins[0].Width)
	assert.Equal(t, 2, result.ItemCount())
	assert.InDelta(t, 50.0, result.TotalEfficiency(), 1e-9)
}
