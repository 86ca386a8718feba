package board

// Position addresses one cell of a 3x3 grid.
type Position struct {
	Row, Col int
}

// Center is the middle cell of the grid.
var Center = Position{Row: 1, Col: 1}

// IsCenter reports whether p is the middle cell.
func (p Position) IsCenter() bool {
	return p == Center
}

// Valid reports whether p lies inside the 3x3 grid.
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < 3 && p.Col >= 0 && p.Col < 3
}

// ScanOrder lists the 9 positions row-major.
var ScanOrder = [9]Position{
	{0, 0}, {0, 1}, {0, 2},
	{1, 0}, {1, 1}, {1, 2},
	{2, 0}, {2, 1}, {2, 2},
}

// OuterPositions is ScanOrder without the center. The slice index is the
// goal (overview) or detail (detail view) index the position is bound to.
var OuterPositions = func() [Size]Position {
	var out [Size]Position
	i := 0
	for _, p := range ScanOrder {
		if p.IsCenter() {
			continue
		}
		out[i] = p
		i++
	}
	return out
}()

// OuterIndex maps an outer position to its index. The center and positions
// outside the grid report false.
func OuterIndex(p Position) (int, bool) {
	for i, op := range OuterPositions {
		if op == p {
			return i, true
		}
	}
	return -1, false
}

// OuterPosition is the inverse of OuterIndex.
func OuterPosition(i int) (Position, bool) {
	if i < 0 || i >= Size {
		return Position{}, false
	}
	return OuterPositions[i], true
}
