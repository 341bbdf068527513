package export

import (
	"fmt"

	"github.com/yofu/dxf"
	dxfcolor "github.com/yofu/dxf/color"
	dxfdrawing "github.com/yofu/dxf/drawing"
	"github.com/yofu/dxf/table"

	"github.com/piwi3910/nestpack/internal/model"
)

// binSpacing is the horizontal gap between bins in the DXF drawing (mm).
const binSpacing = 100.0

// ExportDXF writes the packed layout as a DXF drawing. Bins are laid out
// side by side along the X axis; bin outlines go on the BINS layer and
// item rectangles on the ITEMS layer. The DXF Y axis grows upward, so the
// layout is mirrored vertically relative to the internal top-left origin.
func ExportDXF(path string, result model.PackResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}

	drawing := dxf.NewDrawing()

	if _, err := drawing.AddLayer("BINS", dxf.DefaultColor, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add BINS layer: %w", err)
	}

	offsetX := 0.0
	for _, bin := range result.Bins {
		drawRect(drawing, offsetX, 0, bin.Width, bin.Height)
		offsetX += bin.Width + binSpacing
	}

	if _, err := drawing.AddLayer("ITEMS", dxfcolor.Green, table.LT_CONTINUOUS, true); err != nil {
		return fmt.Errorf("failed to add ITEMS layer: %w", err)
	}

	offsetX = 0.0
	for _, bin := range result.Bins {
		for _, it := range bin.Items {
			// Flip Y so the layout matches the drawing orientation.
			x := offsetX + it.X
			y := bin.Height - it.Y - it.PlacedHeight()
			drawRect(drawing, x, y, it.PlacedWidth(), it.PlacedHeight())
		}
		offsetX += bin.Width + binSpacing
	}

	if err := drawing.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// drawRect draws an axis-aligned rectangle as four LINE entities on the
// current layer.
func drawRect(drawing *dxfdrawing.Drawing, x, y, w, h float64) {
	drawing.Line(x, y, 0, x+w, y, 0)
	drawing.Line(x+w, y, 0, x+w, y+h, 0)
	drawing.Line(x+w, y+h, 0, x, y+h, 0)
	drawing.Line(x, y+h, 0, x, y, 0)
}
