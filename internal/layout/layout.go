// Package layout chooses the uniform grid for a collage and places its cells.
package layout

import "math"

// Grid is the number of columns and rows of a collage.
type Grid struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

// Rect is an axis-aligned rectangle in canvas pixels.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.W && y >= r.Y && y <= r.Y+r.H
}

// Center returns the midpoint of r.
func (r Rect) Center() (float64, float64) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Layout is the grid geometry of one rendered collage.
type Layout struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	CellWidth  float64 `json:"cell_width"`
	CellHeight float64 `json:"cell_height"`
	Margin     float64 `json:"margin"`
	Gap        float64 `json:"gap"`
}

// Solve picks the grid whose cell aspect ratio is closest, in log space, to
// the average photo aspect ratio. count must be at least 1.
// Ties keep the candidate with fewer columns.
func Solve(count int, avgAspect, availW, availH float64) Grid {
	best := Grid{Cols: 1, Rows: count}
	minDiff := math.Inf(1)

	for cols := 1; cols <= count; cols++ {
		rows := (count + cols - 1) / cols
		cellW := availW / float64(cols)
		cellH := availH / float64(rows)

		diff := math.Abs(math.Log((cellW / cellH) / avgAspect))
		if diff < minDiff {
			minDiff = diff
			best = Grid{Cols: cols, Rows: rows}
		}
	}
	return best
}

// Compute builds the full layout for count photos on a square canvas with the
// given frame size, which is used both as outer margin and inner gap.
func Compute(count int, avgAspect float64, canvasSize, frameSize int) Layout {
	margin := float64(frameSize)
	gap := float64(frameSize)
	avail := float64(canvasSize) - 2*margin

	g := Solve(count, avgAspect, avail, avail)

	return Layout{
		Cols:       g.Cols,
		Rows:       g.Rows,
		CellWidth:  (avail - float64(g.Cols-1)*gap) / float64(g.Cols),
		CellHeight: (avail - float64(g.Rows-1)*gap) / float64(g.Rows),
		Margin:     margin,
		Gap:        gap,
	}
}

// Cell returns the rectangle of the i-th cell in row-major order.
func (l Layout) Cell(i int) Rect {
	if l.Cols <= 0 {
		return Rect{}
	}
	col := i % l.Cols
	row := i / l.Cols
	return Rect{
		X: l.Margin + float64(col)*(l.CellWidth+l.Gap),
		Y: l.Margin + float64(row)*(l.CellHeight+l.Gap),
		W: l.CellWidth,
		H: l.CellHeight,
	}
}

// HitTest returns the index of the first of count cells containing (x, y),
// scanning in index order, or -1 when no cell is hit.
func (l Layout) HitTest(x, y float64, count int) int {
	if l.Cols <= 0 {
		return -1
	}
	for i := range count {
		if l.Cell(i).Contains(x, y) {
			return i
		}
	}
	return -1
}
