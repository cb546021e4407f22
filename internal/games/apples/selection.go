package apples

import "github.com/vovakirdan/apple-arcade/internal/core"

// Selection is a drag in progress: the cell where it started and the cell
// the pointer is over now.
type Selection struct {
	anchor  Coord
	current Coord
	active  bool
}

// Begin starts a new drag at c.
func (s *Selection) Begin(c Coord) {
	s.anchor = c
	s.current = c
	s.active = true
}

// Extend moves the dragging end to c.
func (s *Selection) Extend(c Coord) {
	s.current = c
}

// End discards the drag.
func (s *Selection) End() {
	*s = Selection{}
}

// Active reports whether a drag is in progress.
func (s Selection) Active() bool {
	return s.active
}

// Current returns the cell the drag is currently over.
func (s Selection) Current() Coord { return s.current }

// Rect returns the inclusive bounding box between anchor and current
// (X = column, Y = row). It is empty when no drag is active.
func (s Selection) Rect() core.Rect {
	if !s.active {
		return core.Rect{}
	}
	return core.Span(s.anchor.Col, s.anchor.Row, s.current.Col, s.current.Row)
}

// Cells lists every selected coordinate in row-major order.
func (s Selection) Cells() []Coord {
	r := s.Rect()
	cells := make([]Coord, 0, r.W*r.H)
	for row := r.Y; row < r.Bottom(); row++ {
		for col := r.X; col < r.Right(); col++ {
			cells = append(cells, Coord{Row: row, Col: col})
		}
	}
	return cells
}

// Contains reports whether (row, col) is inside the selection.
func (s Selection) Contains(row, col int) bool {
	return s.active && s.Rect().Contains(col, row)
}
