package layout

import (
	"math"
	"testing"
)

func TestSolve(t *testing.T) {
	tests := []struct {
		name      string
		count     int
		avgAspect float64
		w, h      float64
		expected  Grid
	}{
		{name: "four squares", count: 4, avgAspect: 1.0, w: 100, h: 100, expected: Grid{Cols: 2, Rows: 2}},
		{name: "single photo", count: 1, avgAspect: 1.5, w: 100, h: 100, expected: Grid{Cols: 1, Rows: 1}},
		{name: "two landscapes stack", count: 2, avgAspect: 2.0, w: 100, h: 100, expected: Grid{Cols: 1, Rows: 2}},
		{name: "two portraits side by side", count: 2, avgAspect: 0.5, w: 100, h: 100, expected: Grid{Cols: 2, Rows: 1}},
		{name: "six wide photos", count: 6, avgAspect: 1.5, w: 1000, h: 1000, expected: Grid{Cols: 2, Rows: 3}},
		{name: "nine squares", count: 9, avgAspect: 1.0, w: 900, h: 900, expected: Grid{Cols: 3, Rows: 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Solve(tt.count, tt.avgAspect, tt.w, tt.h)
			if got != tt.expected {
				t.Errorf("Solve(%d, %v, %v, %v) = %+v, want %+v", tt.count, tt.avgAspect, tt.w, tt.h, got, tt.expected)
			}
		})
	}
}

func TestSolve_CoversCount(t *testing.T) {
	for count := 1; count <= 30; count++ {
		for _, ar := range []float64{0.1, 0.5, 0.75, 1, 1.33, 2, 10} {
			g := Solve(count, ar, 1160, 1160)
			if g.Cols < 1 || g.Rows < 1 {
				t.Fatalf("Solve(%d, %v) returned non-positive grid %+v", count, ar, g)
			}
			if g.Cols*g.Rows < count {
				t.Errorf("Solve(%d, %v) = %+v does not fit all photos", count, ar, g)
			}
		}
	}
}

func TestSolve_TieKeepsFewerColumns(t *testing.T) {
	// With two photos of aspect 1 on a square, 1x2 and 2x1 score the same.
	got := Solve(2, 1.0, 100, 100)
	if got.Cols != 1 {
		t.Errorf("expected first candidate (1 column) to win the tie, got %+v", got)
	}
}

func TestCompute(t *testing.T) {
	l := Compute(4, 1.0, 1200, 20)

	if l.Cols != 2 || l.Rows != 2 {
		t.Fatalf("expected 2x2 grid, got %dx%d", l.Cols, l.Rows)
	}
	if l.Margin != 20 || l.Gap != 20 {
		t.Errorf("expected margin and gap 20, got %v and %v", l.Margin, l.Gap)
	}
	// (1200 - 40 - 20) / 2 = 570
	if math.Abs(l.CellWidth-570) > 1e-9 || math.Abs(l.CellHeight-570) > 1e-9 {
		t.Errorf("expected 570x570 cells, got %vx%v", l.CellWidth, l.CellHeight)
	}
}

func TestCell(t *testing.T) {
	l := Compute(4, 1.0, 1200, 20)

	tests := []struct {
		index int
		x, y  float64
	}{
		{0, 20, 20},
		{1, 610, 20},
		{2, 20, 610},
		{3, 610, 610},
	}
	for _, tt := range tests {
		r := l.Cell(tt.index)
		if r.X != tt.x || r.Y != tt.y {
			t.Errorf("Cell(%d) origin = (%v, %v), want (%v, %v)", tt.index, r.X, r.Y, tt.x, tt.y)
		}
	}
}

func TestHitTest(t *testing.T) {
	l := Compute(4, 1.0, 1200, 20)

	tests := []struct {
		name     string
		x, y     float64
		count    int
		expected int
	}{
		{"first cell", 100, 100, 4, 0},
		{"last cell", 1000, 1000, 4, 3},
		{"gap between cells", 600, 100, 4, -1},
		{"outer margin", 5, 5, 4, -1},
		{"edge is inclusive", 20, 20, 4, 0},
		{"cell beyond count", 1000, 1000, 3, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.HitTest(tt.x, tt.y, tt.count); got != tt.expected {
				t.Errorf("HitTest(%v, %v) = %d, want %d", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestHitTest_SharedEdgeFirstMatchWins(t *testing.T) {
	// Without a gap neighbouring cells share an edge; the lower index wins.
	l := Compute(2, 0.5, 100, 0)
	if l.Cols != 2 {
		t.Fatalf("expected 2 columns, got %d", l.Cols)
	}
	if got := l.HitTest(50, 50, 2); got != 0 {
		t.Errorf("expected shared edge to resolve to cell 0, got %d", got)
	}
}

func TestHitTest_ZeroLayout(t *testing.T) {
	var l Layout
	if got := l.HitTest(10, 10, 3); got != -1 {
		t.Errorf("expected -1 for an unrendered layout, got %d", got)
	}
}
