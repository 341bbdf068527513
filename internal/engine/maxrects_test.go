package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/nestpack/internal/model"
)

func TestMaxRects_KeepsOverlappingMaximalRects(t *testing.T) {
	s := testSettings(10, 10, model.AlgorithmMaxRects, model.PolicyFirstFit)
	s.Rotation = false
	m := newMaxRects(s)

	require.True(t, m.Insert(model.NewItem("a", 4, 4)))

	// Unlike guillotine, both remainders stay maximal and overlap.
	assert.ElementsMatch(t, []model.Rect{
		{X: 4, Y: 0, Width: 6, Height: 10},
		{X: 0, Y: 4, Width: 10, Height: 6},
	}, m.FreeRects())
}

func TestPruneContained(t *testing.T) {
	rects := []model.Rect{
		{X: 0, Y: 0, Width: 4, Height: 4},
		{X: 1, Y: 1, Width: 2, Height: 2},
		{X: 0, Y: 0, Width: 4, Height: 4}, // duplicate, only the first survives
	}
	kept := pruneContained(rects)
	require.Len(t, kept, 1)
	assert.Equal(t, model.Rect{X: 0, Y: 0, Width: 4, Height: 4}, kept[0])
}

func TestMaxRects_BottomLeftFillsRowsFirst(t *testing.T) {
	s := testSettings(6, 6, model.AlgorithmMaxRects, model.PolicyFirstFit)
	s.Rotation = false
	s.Heuristic = "bottom_left"
	m := newMaxRects(s)

	a := model.NewItem("a", 3, 2)
	b := model.NewItem("b", 3, 2)
	c := model.NewItem("c", 3, 2)
	require.True(t, m.Insert(a))
	require.True(t, m.Insert(b))
	require.True(t, m.Insert(c))

	assert.Equal(t, [2]float64{0, 0}, [2]float64{a.X, a.Y})
	assert.Equal(t, [2]float64{3, 0}, [2]float64{b.X, b.Y})
	assert.Equal(t, [2]float64{0, 2}, [2]float64{c.X, c.Y})
}

func TestMaxRects_ContactPointPrefersTouchingEdges(t *testing.T) {
	s := testSettings(10, 10, model.AlgorithmMaxRects, model.PolicyFirstFit)
	s.Rotation = false
	s.Heuristic = "contact_point"
	m := newMaxRects(s)

	require.True(t, m.Insert(model.NewItem("a", 4, 4)))
	b := model.NewItem("b", 6, 4)
	require.True(t, m.Insert(b))

	// At (4,0) the item touches the top edge, the right edge, and the
	// first item; the alternative at (0,4) touches less perimeter.
	assert.Equal(t, 4.0, b.X)
	assert.Equal(t, 0.0, b.Y)
}

func TestMaxRects_InsertFailsWhenNothingFits(t *testing.T) {
	s := testSettings(5, 5, model.AlgorithmMaxRects, model.PolicyFirstFit)
	s.Rotation = false
	m := newMaxRects(s)

	require.True(t, m.Insert(model.NewItem("a", 4, 4)))
	assert.False(t, m.Insert(model.NewItem("b", 2, 2)))
	assert.True(t, m.Insert(model.NewItem("c", 1, 5)))
}

func TestOverlapLength(t *testing.T) {
	assert.Equal(t, 2.0, overlapLength(0, 4, 2, 6))
	assert.Equal(t, 0.0, overlapLength(0, 2, 3, 5))
	assert.Equal(t, 0.0, overlapLength(0, 2, 2, 5), "touching intervals share no length")
}
