package floorplan

// CalculateLayout places rooms on the grid in row-major order. A room that
// appears more than once keeps its first position.
func CalculateLayout(rooms []string, g Grid) FloorLayout {
	perRow := g.PerRow
	if perRow < 1 {
		perRow = 1
	}
	layout := make(FloorLayout, len(rooms))
	for i, id := range rooms {
		if _, dup := layout[id]; dup {
			continue
		}
		col := i % perRow
		row := i / perRow
		layout[id] = Point{
			X: g.StartX + float64(col)*(g.Width+g.GapX),
			Y: g.StartY + float64(row)*(g.Height+g.GapY),
		}
	}
	return layout
}
