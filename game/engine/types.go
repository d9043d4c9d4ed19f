package engine

import (
	"errors"
	"fmt"
	"strings"
)

// TileMarker is a single terrain primitive. A cell may carry several.
type TileMarker uint8

const (
	Water TileMarker = 1 << iota
	Land
	Stump
	Rock
)

// Animation timing defaults, in milliseconds.
const (
	PlayerMoveDuration = 60.0
	LogCellDuration    = 60.0

	MaxBoardSize = 200
)

var (
	ErrOutOfBounds      = errors.New("position out of bounds")
	ErrLogCollision     = errors.New("log already registered at destination")
	ErrInvalidDirection = errors.New("invalid direction")
)

var markerNames = []struct {
	marker TileMarker
	name   string
}{
	{Water, "water"},
	{Land, "land"},
	{Stump, "stump"},
	{Rock, "rock"},
}

// String returns the lowercase name of the marker
func (m TileMarker) String() string {
	for _, mn := range markerNames {
		if mn.marker == m {
			return mn.name
		}
	}
	return "unknown"
}

// ParseMarker maps a marker name ("water", "land", "stump", "rock") to its value
func ParseMarker(name string) (TileMarker, bool) {
	for _, mn := range markerNames {
		if mn.name == strings.ToLower(name) {
			return mn.marker, true
		}
	}
	return 0, false
}

// Cell is the set of terrain markers present at one board position
type Cell uint8

// NewCell builds a cell from the given markers
func NewCell(markers ...TileMarker) Cell {
	var c Cell
	for _, m := range markers {
		c = c.With(m)
	}
	return c
}

// Has reports whether the cell carries the marker
func (c Cell) Has(m TileMarker) bool {
	return c&Cell(m) != 0
}

// With returns a copy of the cell with the marker added
func (c Cell) With(m TileMarker) Cell {
	return c | Cell(m)
}

// Markers lists the markers present, in declaration order
func (c Cell) Markers() []TileMarker {
	var out []TileMarker
	for _, mn := range markerNames {
		if c.Has(mn.marker) {
			out = append(out, mn.marker)
		}
	}
	return out
}

// String joins the marker names with '+', e.g. "land+stump"
func (c Cell) String() string {
	names := make([]string, 0, 4)
	for _, m := range c.Markers() {
		names = append(names, m.String())
	}
	if len(names) == 0 {
		return "empty"
	}
	return strings.Join(names, "+")
}

// IsSafe reports whether a player may stand on the cell (no rock)
func IsSafe(c Cell) bool {
	return !c.Has(Rock)
}

// Position represents x,y coordinates
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p translated by d
func (p Position) Add(d Direction) Position {
	return Position{X: p.X + d.DX, Y: p.Y + d.DY}
}

// Direction is a unit vector along one axis
type Direction struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

var (
	Up    = Direction{0, -1}
	Down  = Direction{0, 1}
	Left  = Direction{-1, 0}
	Right = Direction{1, 0}
)

// Horizontal reports whether the direction runs along the x axis
func (d Direction) Horizontal() bool {
	return d.DY == 0
}

// Valid reports whether d is an orthogonal unit vector
func (d Direction) Valid() bool {
	return abs(d.DX)+abs(d.DY) == 1
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	}
	return "invalid"
}

// ParseDirection maps "up", "down", "left" and "right" to unit vectors
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up":
		return Up, nil
	case "down":
		return Down, nil
	case "left":
		return Left, nil
	case "right":
		return Right, nil
	}
	return Direction{}, ErrInvalidDirection
}

// Orientation is the shape of a log
type Orientation int

const (
	Round Orientation = iota
	Horizontal
	Vertical
)

func (o Orientation) String() string {
	switch o {
	case Horizontal:
		return "horizontal"
	case Vertical:
		return "vertical"
	}
	return "round"
}

// MarshalText lets orientations appear by name in JSON
func (o Orientation) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// UnmarshalText parses an orientation name
func (o *Orientation) UnmarshalText(text []byte) error {
	switch string(text) {
	case "round":
		*o = Round
	case "horizontal":
		*o = Horizontal
	case "vertical":
		*o = Vertical
	default:
		return fmt.Errorf("unknown orientation %q", text)
	}
	return nil
}

// axisOf returns the orientation a round log takes when pushed along d
func axisOf(d Direction) Orientation {
	if d.Horizontal() {
		return Horizontal
	}
	return Vertical
}

// Phase is the animation phase of an entity
type Phase int

const (
	Idle Phase = iota
	Pending
	Animating
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Animating:
		return "animating"
	}
	return "idle"
}

// MarshalText lets phases appear by name in JSON
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText parses a phase name
func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*p = Idle
	case "pending":
		*p = Pending
	case "animating":
		*p = Animating
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// Vec is a fractional board coordinate used for drawing
type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// VecOf converts a grid position to a Vec
func VecOf(p Position) Vec {
	return Vec{X: float64(p.X), Y: float64(p.Y)}
}

// MoveHistoryEntry represents a single move in the game history
type MoveHistoryEntry struct {
	Action       string   `json:"action"`
	FromPosition Position `json:"from_position"`
	ToPosition   Position `json:"to_position"`
	Outcome      Outcome  `json:"outcome"`
	Log          *LogMove `json:"log,omitempty"`
	Timestamp    int64    `json:"timestamp"`
	Success      bool     `json:"success"`
	MoveNumber   int      `json:"move_number"`
}

// LogView is a log as seen by renderers
type LogView struct {
	Position    Position    `json:"position"`
	Draw        Vec         `json:"draw"`
	Orientation Orientation `json:"orientation"`
	Phase       Phase       `json:"phase"`
	Color       string      `json:"color"`
}

// PlayerView is the player as seen by renderers
type PlayerView struct {
	Position Position `json:"position"`
	Draw     Vec      `json:"draw"`
	Phase    Phase    `json:"phase"`
	Color    string   `json:"color"`
}

// GameState is a JSON-friendly snapshot of a running game
type GameState struct {
	LevelName   string             `json:"level_name"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
	Rows        []string           `json:"rows"`
	Player      PlayerView         `json:"player"`
	Logs        []LogView          `json:"logs"`
	TotalMoves  int                `json:"total_moves"`
	LastMove    *MoveHistoryEntry  `json:"last_move,omitempty"`
	MoveHistory []MoveHistoryEntry `json:"-"`
}
