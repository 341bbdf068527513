// Package export writes finished packings to PDF, DXF, and XLSX files,
// plus QR-coded item labels.
package export

import (
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/nestpack/internal/model"
)

// itemColor represents an RGB fill color for a placed item.
type itemColor struct {
	R, G, B int
}

var itemColors = []itemColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF renders each bin on its own page with a scaled layout
// diagram, followed by a summary page with overall statistics.
func ExportPDF(path string, result model.PackResult) error {
	if len(result.Bins) == 0 {
		return fmt.Errorf("no bins to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	for _, bin := range result.Bins {
		pdf.AddPage()
		renderBinPage(pdf, bin)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, result)

	return pdf.OutputFileAndClose(path)
}

// renderBinPage draws a single bin layout on the current page.
func renderBinPage(pdf *fpdf.Fpdf, bin model.BinLayout) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Bin %d (%.0f x %.0f mm)", bin.Index, bin.Width, bin.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Items: %d | Used area: %.0f mm² | Total area: %.0f mm² | Efficiency: %.1f%%",
		len(bin.Items), bin.UsedArea(), bin.TotalArea(), bin.Efficiency())
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom

	scale := math.Min(drawWidth/bin.Width, drawHeight/bin.Height)
	canvasW := bin.Width * scale
	canvasH := bin.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Bin background
	pdf.SetFillColor(235, 235, 235)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, it := range bin.Items {
		col := itemColors[i%len(itemColors)]
		iw := it.PlacedWidth() * scale
		ih := it.PlacedHeight() * scale
		ix := offsetX + it.X*scale
		iy := offsetY + it.Y*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.3)
		pdf.Rect(ix, iy, iw, ih, "FD")

		// Label and dimensions, only when the rectangle is large enough
		if iw > 15 && ih > 8 {
			pdf.SetFont("Helvetica", "", labelFontSize(iw, ih))
			pdf.SetTextColor(0, 0, 0)

			label := it.Label
			dims := fmt.Sprintf("%.0fx%.0f", it.Width, it.Height)
			if it.Rotated {
				dims += " (R)"
			}

			labelW := pdf.GetStringWidth(label)
			dimsW := pdf.GetStringWidth(dims)

			if labelW < iw-2 {
				pdf.SetXY(ix+(iw-labelW)/2, iy+ih/2-4)
				pdf.CellFormat(labelW, 4, label, "", 0, "C", false, 0, "")
			}
			if ih > 14 && dimsW < iw-2 {
				pdf.SetXY(ix+(iw-dimsW)/2, iy+ih/2)
				pdf.CellFormat(dimsW, 4, dims, "", 0, "C", false, 0, "")
			}
		}
	}
}

// renderSummaryPage draws the run totals.
func renderSummaryPage(pdf *fpdf.Fpdf, result model.PackResult) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Packing Summary", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	y := marginTop + headerHeight + 8

	lines := []string{
		fmt.Sprintf("Bins used: %d", len(result.Bins)),
		fmt.Sprintf("Items placed: %d", result.ItemCount()),
		fmt.Sprintf("Overall efficiency: %.1f%%", result.TotalEfficiency()),
	}
	for _, line := range lines {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(pageWidth-marginLeft-marginRight, 6, line, "", 0, "L", false, 0, "")
		y += 8
	}

	// Per-bin table
	y += 4
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(20, 6, "Bin", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Items", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Used (mm²)", "1", 0, "C", false, 0, "")
	pdf.CellFormat(40, 6, "Efficiency", "1", 0, "C", false, 0, "")
	y += 6

	pdf.SetFont("Helvetica", "", 10)
	for _, bin := range result.Bins {
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(20, 6, fmt.Sprintf("%d", bin.Index), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", len(bin.Items)), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.0f", bin.UsedArea()), "1", 0, "C", false, 0, "")
		pdf.CellFormat(40, 6, fmt.Sprintf("%.1f%%", bin.Efficiency()), "1", 0, "C", false, 0, "")
		y += 6
	}
}

// labelFontSize picks a font size that fits the scaled rectangle.
func labelFontSize(w, h float64) float64 {
	size := math.Min(w/8, h/3)
	if size > 9 {
		return 9
	}
	if size < 4 {
		return 4
	}
	return size
}
