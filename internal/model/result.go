package model

// BinLayout is the export-facing view of one packed bin.
type BinLayout struct {
	Index  int     `json:"index"` // 1-based bin number
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Items  []*Item `json:"items"`
}

// UsedArea returns the total area occupied by placed items.
func (b BinLayout) UsedArea() float64 {
	var area float64
	for _, it := range b.Items {
		area += it.Area()
	}
	return area
}

// TotalArea returns the fixed area of the bin.
func (b BinLayout) TotalArea() float64 {
	return b.Width * b.Height
}

// Efficiency returns used area as a percentage of the bin area.
func (b BinLayout) Efficiency() float64 {
	total := b.TotalArea()
	if total == 0 {
		return 0
	}
	return b.UsedArea() / total * 100
}

// PackResult holds the finished packing: every open bin with its placed
// items in placement order.
type PackResult struct {
	Bins []BinLayout `json:"bins"`
}

// ItemCount returns the number of items placed across all bins.
func (r PackResult) ItemCount() int {
	n := 0
	for _, b := range r.Bins {
		n += len(b.Items)
	}
	return n
}

// TotalEfficiency returns used area as a percentage of the combined area
// of all open bins.
func (r PackResult) TotalEfficiency() float64 {
	var used, total float64
	for _, b := range r.Bins {
		used += b.UsedArea()
		total += b.TotalArea()
	}
	if total == 0 {
		return 0
	}
	return used / total * 100
}
