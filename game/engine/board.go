package engine

import "fmt"

// Board is the static terrain. Its shape and contents never change after
// construction.
type Board struct {
	cells  [][]Cell
	width  int
	height int
}

// NewBoard wraps a rectangular, row-major cell matrix
func NewBoard(cells [][]Cell) (*Board, error) {
	if len(cells) == 0 || len(cells[0]) == 0 {
		return nil, fmt.Errorf("board must have at least one row and column")
	}
	width := len(cells[0])
	for y, row := range cells {
		if len(row) != width {
			return nil, fmt.Errorf("board row %d has %d cells, expected %d", y, len(row), width)
		}
	}

	grid := make([][]Cell, len(cells))
	for y, row := range cells {
		grid[y] = append([]Cell(nil), row...)
	}

	return &Board{cells: grid, width: width, height: len(grid)}, nil
}

// Width returns the number of columns
func (b *Board) Width() int { return b.width }

// Height returns the number of rows
func (b *Board) Height() int { return b.height }

// InBounds reports whether 0 <= x < width and 0 <= y < height
func (b *Board) InBounds(p Position) bool {
	return p.X >= 0 && p.X < b.width && p.Y >= 0 && p.Y < b.height
}

// CellAt returns the markers at p. Callers must check InBounds first; an
// out-of-range position panics.
func (b *Board) CellAt(p Position) Cell {
	if !b.InBounds(p) {
		panic(fmt.Errorf("cell (%d,%d) on %dx%d board: %w", p.X, p.Y, b.width, b.height, ErrOutOfBounds))
	}
	return b.cells[p.Y][p.X]
}

// Stumps returns every position carrying a Stump marker in row-major order
func (b *Board) Stumps() []Position {
	var out []Position
	for y, row := range b.cells {
		for x, c := range row {
			if c.Has(Stump) {
				out = append(out, Position{X: x, Y: y})
			}
		}
	}
	return out
}

// CountMarker counts the cells carrying m
func (b *Board) CountMarker(m TileMarker) int {
	count := 0
	for _, row := range b.cells {
		for _, c := range row {
			if c.Has(m) {
				count++
			}
		}
	}
	return count
}
