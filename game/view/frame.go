package view

import (
	"time"

	"github.com/wricardo/logjam/game/engine"
)

// Palette maps terrain markers to display colors
type Palette struct {
	Water string `json:"water"`
	Land  string `json:"land"`
	Stump string `json:"stump"`
	Rock  string `json:"rock"`
}

// DefaultPalette returns the stock board colors
func DefaultPalette() Palette {
	return Palette{
		Water: "#5e7bff",
		Land:  "#67bf70",
		Stump: "#6d5635",
		Rock:  "gray",
	}
}

// Sprite is one movable entity at its interpolated draw position
type Sprite struct {
	Kind        string             `json:"kind"`
	Cell        engine.Position    `json:"cell"`
	X           float64            `json:"x"`
	Y           float64            `json:"y"`
	Orientation engine.Orientation `json:"orientation"`
	Phase       engine.Phase       `json:"phase"`
	Color       string             `json:"color"`
}

// Frame is everything a renderer needs to draw one frame
type Frame struct {
	SessionID string   `json:"session_id,omitempty"`
	Level     string   `json:"level,omitempty"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Terrain   []string `json:"terrain"`
	Cells     [][]int  `json:"cells"`
	Palette   Palette  `json:"palette"`
	Player    Sprite   `json:"player"`
	Logs      []Sprite `json:"logs"`
	Animating bool     `json:"animating"`
	Timestamp int64    `json:"timestamp"`
}

// Snapshot captures the drawable state of an engine. Terrain holds one
// layout character per cell; Cells holds the raw marker bitmasks.
func Snapshot(eng *engine.GameEngine) *Frame {
	board := eng.Board()
	reg := eng.Registry()

	cells := make([][]int, board.Height())
	for y := range cells {
		cells[y] = make([]int, board.Width())
		for x := range cells[y] {
			cells[y][x] = int(board.CellAt(engine.Position{X: x, Y: y}))
		}
	}

	pp := reg.PlayerPosition()
	player := reg.Player()
	draw := player.DrawPosition(pp)

	frame := &Frame{
		Width:   board.Width(),
		Height:  board.Height(),
		Terrain: engine.RenderRows(board, nil),
		Cells:   cells,
		Palette: DefaultPalette(),
		Player: Sprite{
			Kind:  "player",
			Cell:  pp,
			X:     draw.X,
			Y:     draw.Y,
			Phase: player.Anim.Phase,
			Color: player.Color,
		},
		Animating: eng.Animating(),
		Timestamp: time.Now().UnixMilli(),
	}
	if config := eng.GetConfig(); config != nil {
		frame.Level = config.Name
	}

	for _, lv := range eng.LogViews() {
		frame.Logs = append(frame.Logs, Sprite{
			Kind:        "log",
			Cell:        lv.Position,
			X:           lv.Draw.X,
			Y:           lv.Draw.Y,
			Orientation: lv.Orientation,
			Phase:       lv.Phase,
			Color:       lv.Color,
		})
	}
	return frame
}
