package engine

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestEngine builds an engine from compact rows:
// '~' water, '#' land, '@' land+stump, '%' land+rock, 'w' water+stump.
func newTestEngine(t *testing.T, start Position, rows ...string) *GameEngine {
	t.Helper()
	cells := make([][]Cell, len(rows))
	for y, row := range rows {
		cells[y] = make([]Cell, len(row))
		for x := 0; x < len(row); x++ {
			switch row[x] {
			case '~':
				cells[y][x] = NewCell(Water)
			case '#':
				cells[y][x] = NewCell(Land)
			case '@':
				cells[y][x] = NewCell(Land, Stump)
			case '%':
				cells[y][x] = NewCell(Land, Rock)
			case 'w':
				cells[y][x] = NewCell(Water, Stump)
			default:
				t.Fatalf("unknown test tile %q", row[x])
			}
		}
	}
	board, err := NewBoard(cells)
	require.NoError(t, err)
	eng, err := NewEngineFromBoard(board, start, DefaultColors(), DefaultTiming())
	require.NoError(t, err)
	return eng
}

func placeLog(t *testing.T, eng *GameEngine, p Position, o Orientation) *Entity {
	t.Helper()
	require.NoError(t, eng.Registry().AddLog(p, "brown"))
	log := eng.Registry().LogAt(p)
	log.Orientation = o
	return log
}

func TestIsSafe_AllMarkerCombinations(t *testing.T) {
	for mask := 0; mask < 16; mask++ {
		c := Cell(mask)
		assert.Equal(t, !c.Has(Rock), IsSafe(c), "cell %s", c)
	}
}

func TestResolve_NoLog(t *testing.T) {
	t.Run("water blocks", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "#~")
		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Equal(t, OutcomeWater, out.Outcome)
		assert.Equal(t, Position{0, 0}, eng.GetPlayerPosition())
	})

	t.Run("land allows", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "##")
		out := eng.Move(Right)
		assert.True(t, out.Allowed)
		assert.True(t, out.Committed)
		assert.Equal(t, OutcomeWalk, out.Outcome)
		assert.Equal(t, Position{1, 0}, eng.GetPlayerPosition())
	})

	t.Run("rock and edge are checked before resolving", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "#%")
		assert.Equal(t, OutcomeRock, eng.Move(Right).Outcome)
		assert.Equal(t, OutcomeOutOfBounds, eng.Move(Left).Outcome)
		assert.Equal(t, Position{0, 0}, eng.GetPlayerPosition())
	})
}

func TestResolve_FloatingLog(t *testing.T) {
	tests := []struct {
		name        string
		orientation Orientation
		dir         Direction
		allowed     bool
	}{
		{"horizontal log approached horizontally", Horizontal, Right, true},
		{"horizontal log approached vertically", Horizontal, Down, false},
		{"vertical log approached vertically", Vertical, Down, true},
		{"vertical log approached horizontally", Vertical, Right, false},
		{"round log approached vertically", Round, Down, true},
		{"round log approached horizontally", Round, Right, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			var eng *GameEngine
			var at Position
			if test.dir.Horizontal() {
				eng = newTestEngine(t, Position{0, 0}, "#w")
				at = Position{1, 0}
			} else {
				eng = newTestEngine(t, Position{0, 0}, "#", "w")
				at = Position{0, 1}
			}
			log := eng.Registry().LogAt(at)
			require.NotNil(t, log)
			log.Orientation = test.orientation

			out := eng.Move(test.dir)
			assert.Equal(t, test.allowed, out.Allowed)
			assert.Nil(t, out.Log, "floating logs never move")
			assert.Same(t, log, eng.Registry().LogAt(at))
			assert.Equal(t, test.orientation, log.Orientation)
		})
	}
}

func TestResolve_UniversalBlockers(t *testing.T) {
	for _, ahead := range []string{"@", "%"} {
		for _, o := range []Orientation{Round, Horizontal, Vertical} {
			t.Run(fmt.Sprintf("%s log blocked by %s", o, ahead), func(t *testing.T) {
				eng := newTestEngine(t, Position{0, 0}, "##"+ahead)
				log := placeLog(t, eng, Position{1, 0}, o)

				out := eng.Move(Right)
				assert.False(t, out.Allowed)
				assert.Equal(t, OutcomeObstacleAhead, out.Outcome)
				assert.Nil(t, out.Log)
				assert.Same(t, log, eng.Registry().LogAt(Position{1, 0}))
				assert.Equal(t, o, log.Orientation)
			})
		}
	}
}

func TestResolve_RoundLog(t *testing.T) {
	t.Run("horizontal push lays it horizontal", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "###")
		log := placeLog(t, eng, Position{1, 0}, Round)

		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Equal(t, OutcomeKnockRound, out.Outcome)
		assert.Equal(t, &LogMove{From: Position{1, 0}, To: Position{2, 0}, Orientation: Horizontal}, out.Log)
		assert.Nil(t, eng.Registry().LogAt(Position{1, 0}))
		assert.Same(t, log, eng.Registry().LogAt(Position{2, 0}))
		assert.Equal(t, Horizontal, log.Orientation)
		assert.Equal(t, Position{0, 0}, eng.GetPlayerPosition())
	})

	t.Run("vertical push lays it vertical", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 2}, "#", "#", "#")
		log := placeLog(t, eng, Position{0, 1}, Round)

		out := eng.Move(Up)
		assert.False(t, out.Allowed)
		assert.Same(t, log, eng.Registry().LogAt(Position{0, 0}))
		assert.Equal(t, Vertical, log.Orientation)
	})

	t.Run("log ahead leaves both in place", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "###")
		first := placeLog(t, eng, Position{1, 0}, Round)
		second := placeLog(t, eng, Position{2, 0}, Horizontal)

		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Equal(t, OutcomeRoundBlocked, out.Outcome)
		assert.Same(t, first, eng.Registry().LogAt(Position{1, 0}))
		assert.Same(t, second, eng.Registry().LogAt(Position{2, 0}))
		assert.Equal(t, Round, first.Orientation)
	})

	t.Run("knocked off the edge", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "##")
		log := placeLog(t, eng, Position{1, 0}, Round)

		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Same(t, log, eng.Registry().LogAt(Position{2, 0}))
	})
}

func TestResolve_AlignedPush(t *testing.T) {
	t.Run("slides one cell and stands up", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "####")
		log := placeLog(t, eng, Position{1, 0}, Horizontal)

		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Equal(t, OutcomeSlide, out.Outcome)
		assert.Same(t, log, eng.Registry().LogAt(Position{2, 0}))
		assert.Equal(t, Round, log.Orientation)
		assert.Equal(t, Position{0, 0}, eng.GetPlayerPosition())
	})

	t.Run("vertical log pushed vertically", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "#", "#", "#")
		log := placeLog(t, eng, Position{0, 1}, Vertical)

		out := eng.Move(Down)
		assert.Equal(t, OutcomeSlide, out.Outcome)
		assert.Same(t, log, eng.Registry().LogAt(Position{0, 2}))
		assert.Equal(t, Round, log.Orientation)
	})

	t.Run("log immediately ahead blocks", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "####")
		first := placeLog(t, eng, Position{1, 0}, Horizontal)
		second := placeLog(t, eng, Position{2, 0}, Vertical)

		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Equal(t, OutcomeLogAhead, out.Outcome)
		assert.Nil(t, out.Log)
		assert.Same(t, first, eng.Registry().LogAt(Position{1, 0}))
		assert.Same(t, second, eng.Registry().LogAt(Position{2, 0}))
		assert.Equal(t, Horizontal, first.Orientation)
		assert.Equal(t, Vertical, second.Orientation)
	})

	// The log is not moved into the water: it stays registered at the target
	// and the player ends up on the same cell.
	for name, rows := range map[string]string{"water ahead": "##~", "edge ahead": "##"} {
		t.Run(name+" lets the player walk onto the log", func(t *testing.T) {
			eng := newTestEngine(t, Position{0, 0}, rows)
			log := placeLog(t, eng, Position{1, 0}, Horizontal)

			out := eng.Move(Right)
			assert.True(t, out.Allowed)
			assert.True(t, out.Committed)
			assert.Equal(t, OutcomeSlideIntoWater, out.Outcome)
			assert.Nil(t, out.Log)
			assert.Same(t, log, eng.Registry().LogAt(Position{1, 0}))
			assert.Equal(t, Position{1, 0}, eng.GetPlayerPosition())
		})
	}
}

func TestResolve_Roll(t *testing.T) {
	t.Run("halts before a rock", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "#####%")
		log := placeLog(t, eng, Position{1, 0}, Vertical)

		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Equal(t, OutcomeRoll, out.Outcome)
		// three clear cells (2, 3, 4), then the rock
		assert.Same(t, log, eng.Registry().LogAt(Position{4, 0}))
		assert.Equal(t, 3, ManhattanDistance(Position{1, 0}, Position{4, 0}))
		assert.Equal(t, Vertical, log.Orientation)
		assert.Equal(t, Position{0, 0}, eng.GetPlayerPosition())
	})

	t.Run("halts before a stump", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "####@")
		log := placeLog(t, eng, Position{1, 0}, Vertical)

		eng.Move(Right)
		assert.Same(t, log, eng.Registry().LogAt(Position{3, 0}))
	})

	t.Run("halts before another log", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "######")
		log := placeLog(t, eng, Position{1, 0}, Vertical)
		other := placeLog(t, eng, Position{5, 0}, Round)

		eng.Move(Right)
		assert.Same(t, log, eng.Registry().LogAt(Position{4, 0}))
		assert.Same(t, other, eng.Registry().LogAt(Position{5, 0}))
	})

	t.Run("drops into water past the land", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "####~#")
		log := placeLog(t, eng, Position{1, 0}, Vertical)

		out := eng.Move(Right)
		assert.Equal(t, OutcomeRollIntoWater, out.Outcome)
		assert.Same(t, log, eng.Registry().LogAt(Position{4, 0}))
	})

	t.Run("rolls off the board edge", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "#####")
		log := placeLog(t, eng, Position{1, 0}, Vertical)

		out := eng.Move(Right)
		assert.Equal(t, OutcomeRollIntoWater, out.Outcome)
		assert.Equal(t, Position{5, 0}, out.Log.To)
		assert.False(t, eng.Board().InBounds(Position{5, 0}))
		assert.Same(t, log, eng.Registry().LogAt(Position{5, 0}))
	})

	t.Run("rolls straight into water", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "##~#")
		log := placeLog(t, eng, Position{1, 0}, Vertical)

		out := eng.Move(Right)
		assert.Equal(t, OutcomeRollIntoWater, out.Outcome)
		assert.Same(t, log, eng.Registry().LogAt(Position{2, 0}))
	})

	t.Run("rolls straight off the edge", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 1}, "#", "#")
		log := placeLog(t, eng, Position{0, 0}, Horizontal)

		out := eng.Move(Up)
		assert.False(t, out.Allowed)
		assert.Same(t, log, eng.Registry().LogAt(Position{0, -1}))
	})

	t.Run("log directly ahead blocks the roll", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "####")
		log := placeLog(t, eng, Position{1, 0}, Vertical)
		other := placeLog(t, eng, Position{2, 0}, Vertical)

		out := eng.Move(Right)
		assert.False(t, out.Allowed)
		assert.Equal(t, OutcomeLogAhead, out.Outcome)
		assert.Same(t, log, eng.Registry().LogAt(Position{1, 0}))
		assert.Same(t, other, eng.Registry().LogAt(Position{2, 0}))
	})

	t.Run("a second log rolled off the same edge stops on land", func(t *testing.T) {
		eng := newTestEngine(t, Position{0, 0}, "###", "###")
		first := placeLog(t, eng, Position{1, 0}, Vertical)
		eng.Move(Right)
		require.Same(t, first, eng.Registry().LogAt(Position{3, 0}))

		second := placeLog(t, eng, Position{1, 0}, Vertical)
		out := eng.Move(Right)
		assert.Equal(t, OutcomeRoll, out.Outcome)
		assert.Same(t, second, eng.Registry().LogAt(Position{2, 0}))
		assert.Same(t, first, eng.Registry().LogAt(Position{3, 0}))
	})
}

func TestScenario_PushRightThreeTimes(t *testing.T) {
	// land, land, stump with a round log, land, water
	eng := newTestEngine(t, Position{0, 0}, "##@#~")
	log := eng.Registry().LogAt(Position{2, 0})
	require.NotNil(t, log)
	require.Equal(t, Round, log.Orientation)

	// 1: walk onto cell 1
	out := eng.Move(Right)
	assert.True(t, out.Committed)
	assert.Equal(t, Position{1, 0}, eng.GetPlayerPosition())

	// 2: knock the round log from the stump to cell 3; the player stays
	out = eng.Move(Right)
	assert.False(t, out.Allowed)
	assert.Equal(t, OutcomeKnockRound, out.Outcome)
	assert.Equal(t, Position{1, 0}, eng.GetPlayerPosition())
	assert.Same(t, log, eng.Registry().LogAt(Position{3, 0}))
	assert.Equal(t, Horizontal, log.Orientation)

	// 3: the empty stump is safe to stand on
	out = eng.Move(Right)
	assert.True(t, out.Committed)
	assert.Equal(t, OutcomeWalk, out.Outcome)
	assert.Equal(t, Position{2, 0}, eng.GetPlayerPosition())
	assert.Same(t, log, eng.Registry().LogAt(Position{3, 0}))
	assert.Equal(t, Horizontal, log.Orientation)

	// 4: aligned push toward water; the log stays and the player joins it
	out = eng.Move(Right)
	assert.True(t, out.Committed)
	assert.Equal(t, OutcomeSlideIntoWater, out.Outcome)
	assert.Equal(t, Position{3, 0}, eng.GetPlayerPosition())
	assert.Same(t, log, eng.Registry().LogAt(Position{3, 0}))
}

func TestResolve_PushWhilePlayerAnimating(t *testing.T) {
	eng := newTestEngine(t, Position{0, 0}, "####")
	eng.Move(Right)
	eng.Tick(10)
	require.Equal(t, Animating, eng.Registry().Player().Anim.Phase)

	before := eng.Registry().Player().Anim
	out := eng.Move(Right)
	assert.True(t, out.Allowed)
	assert.False(t, out.Committed)
	assert.Equal(t, Position{1, 0}, eng.GetPlayerPosition())
	assert.Equal(t, before, eng.Registry().Player().Anim)
	assert.False(t, eng.GetLastMove().Success)
}

func TestResolve_OnlyTouchesOneLog(t *testing.T) {
	eng := newTestEngine(t, Position{0, 1}, "####", "####", "####")
	placeLog(t, eng, Position{1, 1}, Vertical)
	placeLog(t, eng, Position{2, 0}, Round)
	placeLog(t, eng, Position{2, 2}, Horizontal)

	before := eng.Registry().LogPositions()
	out := eng.Move(Right)
	after := eng.Registry().LogPositions()

	require.NotNil(t, out.Log)
	moved := 0
	for _, p := range before {
		if eng.Registry().LogAt(p) == nil {
			moved++
		}
	}
	assert.Equal(t, 1, moved)
	assert.Len(t, after, len(before))
}
