package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Colors are display-only entity colors
type Colors struct {
	Player string `json:"player,omitempty"`
	Log    string `json:"log,omitempty"`
}

// DefaultColors returns the stock palette
func DefaultColors() Colors {
	return Colors{Player: "white", Log: "#db8062"}
}

// LevelConfig represents a level loaded from JSON. The board is built by
// stacking Layers: every character of every layer adds the markers its
// Legend entry names to the cell underneath.
type LevelConfig struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Layers      [][]string        `json:"layers"`
	Legend      map[string]string `json:"legend"`
	Start       Position          `json:"start"`
	Colors      *Colors           `json:"colors,omitempty"`
	Timing      *Timing           `json:"timing,omitempty"`
}

// DefaultLegend is the character mapping used by the stock levels. '.' adds
// nothing and lets an upper layer leave terrain untouched.
func DefaultLegend() map[string]string {
	return map[string]string{
		" ": "water",
		"#": "land",
		"@": "stump",
		"%": "rock",
		".": "",
	}
}

// ColorsOrDefault fills unset colors from DefaultColors
func (c *LevelConfig) ColorsOrDefault() Colors {
	colors := DefaultColors()
	if c.Colors != nil {
		if c.Colors.Player != "" {
			colors.Player = c.Colors.Player
		}
		if c.Colors.Log != "" {
			colors.Log = c.Colors.Log
		}
	}
	return colors
}

// TimingOrDefault fills unset durations from DefaultTiming
func (c *LevelConfig) TimingOrDefault() Timing {
	timing := DefaultTiming()
	if c.Timing != nil {
		if c.Timing.PlayerDuration > 0 {
			timing.PlayerDuration = c.Timing.PlayerDuration
		}
		if c.Timing.LogCellDuration > 0 {
			timing.LogCellDuration = c.Timing.LogCellDuration
		}
	}
	return timing
}

// Size returns the board width and height described by the first layer
func (c *LevelConfig) Size() (int, int) {
	if len(c.Layers) == 0 || len(c.Layers[0]) == 0 {
		return 0, 0
	}
	return len(c.Layers[0][0]), len(c.Layers[0])
}

// ParseLayers composes the layered textual layout into a cell matrix
func ParseLayers(layers [][]string, legend map[string]string) ([][]Cell, error) {
	if len(layers) == 0 || len(layers[0]) == 0 {
		return nil, fmt.Errorf("layout must have at least one non-empty layer")
	}
	height := len(layers[0])
	width := len(layers[0][0])

	markers := make(map[byte]Cell, len(legend))
	for ch, name := range legend {
		if len(ch) != 1 {
			return nil, fmt.Errorf("legend key %q must be a single character", ch)
		}
		if name == "" {
			markers[ch[0]] = 0
			continue
		}
		m, ok := ParseMarker(name)
		if !ok {
			return nil, fmt.Errorf("legend['%s'] names unknown marker %q", ch, name)
		}
		markers[ch[0]] = NewCell(m)
	}

	cells := make([][]Cell, height)
	for y := range cells {
		cells[y] = make([]Cell, width)
	}

	for l, layer := range layers {
		if len(layer) != height {
			return nil, fmt.Errorf("layer %d has %d rows, expected %d", l+1, len(layer), height)
		}
		for y, row := range layer {
			if len(row) != width {
				return nil, fmt.Errorf("layer %d row %d has %d characters, expected %d", l+1, y+1, len(row), width)
			}
			for x := 0; x < len(row); x++ {
				c, ok := markers[row[x]]
				if !ok {
					return nil, fmt.Errorf("layer %d: invalid character '%c' at row %d, col %d", l+1, row[x], y+1, x+1)
				}
				cells[y][x] |= c
			}
		}
	}
	return cells, nil
}

// ValidateLevelConfig validates a level configuration for correctness
func ValidateLevelConfig(config *LevelConfig) error {
	if config == nil {
		return fmt.Errorf("config validation: config is nil")
	}
	if config.Name == "" {
		return fmt.Errorf("config validation: name is required")
	}
	if config.Description == "" {
		return fmt.Errorf("config validation: description is required")
	}

	width, height := config.Size()
	if width < 1 || height < 1 || width > MaxBoardSize || height > MaxBoardSize {
		return fmt.Errorf("config validation: board must be between 1x1 and %dx%d, got %dx%d", MaxBoardSize, MaxBoardSize, width, height)
	}

	cells, err := ParseLayers(config.Layers, config.Legend)
	if err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	for y, row := range cells {
		for x, c := range row {
			if !c.Has(Water) && !c.Has(Land) {
				return fmt.Errorf("config validation: cell (%d,%d) is neither water nor land", x, y)
			}
		}
	}

	start := config.Start
	if start.X < 0 || start.X >= width || start.Y < 0 || start.Y >= height {
		return fmt.Errorf("config validation: start (%d,%d) is outside the %dx%d board", start.X, start.Y, width, height)
	}
	startCell := cells[start.Y][start.X]
	if !IsSafe(startCell) || startCell.Has(Stump) || !startCell.Has(Land) {
		return fmt.Errorf("config validation: start (%d,%d) must be plain land, got %s", start.X, start.Y, startCell)
	}

	if t := config.Timing; t != nil && (t.PlayerDuration < 0 || t.LogCellDuration < 0) {
		return fmt.Errorf("config validation: timing values must not be negative")
	}

	return nil
}

// LoadLevelConfig loads a level configuration from a JSON file
func LoadLevelConfig(filename string) (*LevelConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	var config LevelConfig
	if err := json.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse level file '%s': %w", filepath.Base(filename), err)
	}
	if config.Legend == nil {
		config.Legend = DefaultLegend()
	}

	if err := ValidateLevelConfig(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// DefaultLevelConfig returns the built-in riverbank level
func DefaultLevelConfig() *LevelConfig {
	return &LevelConfig{
		Name:        "Riverbank",
		Description: "A scatter of islands, stumps and rocks in open water",
		Layers: [][]string{
			{
				"#####" + strings.Repeat(" ", 55),
				" ##### ###" + strings.Repeat(" ", 50),
				"       ###" + strings.Repeat(" ", 50),
				" ###### ##" + strings.Repeat(" ", 50),
				" #####" + strings.Repeat(" ", 54),
				" ###" + strings.Repeat(" ", 56),
				" ### #" + strings.Repeat(" ", 54),
				" ### ###" + strings.Repeat(" ", 52),
				"     ####" + strings.Repeat(" ", 51),
				"     ####" + strings.Repeat(" ", 51),
				"     ###" + strings.Repeat(" ", 52),
				"        ###" + strings.Repeat(" ", 49),
				"        ###" + strings.Repeat(" ", 49),
				"        ###" + strings.Repeat(" ", 49),
				strings.Repeat(" ", 60),
				strings.Repeat(" ", 60),
				strings.Repeat(" ", 60),
				strings.Repeat(" ", 60),
			},
			{
				strings.Repeat(".", 60),
				".....@" + strings.Repeat(".", 54),
				"........@" + strings.Repeat(".", 51),
				".........%" + strings.Repeat(".", 50),
				"...@" + strings.Repeat(".", 56),
				strings.Repeat(".", 60),
				strings.Repeat(".", 60),
				".%%%" + strings.Repeat(".", 56),
				"......@" + strings.Repeat(".", 53),
				strings.Repeat(".", 60),
				".....%%%" + strings.Repeat(".", 52),
				strings.Repeat(".", 60),
				strings.Repeat(".", 60),
				strings.Repeat(".", 60),
				strings.Repeat(".", 60),
				strings.Repeat(".", 60),
				strings.Repeat(".", 60),
				strings.Repeat(".", 60),
			},
		},
		Legend: DefaultLegend(),
		Start:  Position{X: 0, Y: 0},
	}
}
