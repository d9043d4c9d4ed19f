package engine

import "strings"

// ManhattanDistance calculates the Manhattan distance between two positions
func ManhattanDistance(from, to Position) int {
	return abs(from.X-to.X) + abs(from.Y-to.Y)
}

func manhattan(from, to Vec) float64 {
	dx := from.X - to.X
	if dx < 0 {
		dx = -dx
	}
	dy := from.Y - to.Y
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// TileChar is the layout character used when printing a cell
func TileChar(c Cell) byte {
	switch {
	case c.Has(Rock):
		return '%'
	case c.Has(Stump):
		return '@'
	case c.Has(Land):
		return '#'
	case c.Has(Water):
		return '~'
	}
	return '.'
}

// LogChar is the character used when printing a log
func LogChar(o Orientation) byte {
	switch o {
	case Horizontal:
		return '-'
	case Vertical:
		return '|'
	}
	return 'o'
}

// RenderRows prints the terrain one string per row. When reg is non-nil
// logs and the player ('P') are drawn over it.
func RenderRows(b *Board, reg *Registry) []string {
	rows := make([]string, b.Height())
	for y := 0; y < b.Height(); y++ {
		var sb strings.Builder
		for x := 0; x < b.Width(); x++ {
			p := Position{X: x, Y: y}
			ch := TileChar(b.CellAt(p))
			if reg != nil {
				if log := reg.LogAt(p); log != nil {
					ch = LogChar(log.Orientation)
				}
				if reg.PlayerPosition() == p {
					ch = 'P'
				}
			}
			sb.WriteByte(ch)
		}
		rows[y] = sb.String()
	}
	return rows
}

// abs returns the absolute value of x
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
