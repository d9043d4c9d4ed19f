package engine

// Outcome names the rule that decided a move
type Outcome string

const (
	OutcomeWalk              Outcome = "walk"
	OutcomeOutOfBounds       Outcome = "blocked_boundary"
	OutcomeRock              Outcome = "blocked_rock"
	OutcomeWater             Outcome = "blocked_water"
	OutcomeBoardLog          Outcome = "board_log"
	OutcomeFloatingCrosswise Outcome = "blocked_floating_log"
	OutcomeObstacleAhead     Outcome = "blocked_obstacle"
	OutcomeKnockRound        Outcome = "knock_round_log"
	OutcomeRoundBlocked      Outcome = "blocked_round_log"
	OutcomeSlideIntoWater    Outcome = "slide_into_water"
	OutcomeLogAhead          Outcome = "blocked_log_ahead"
	OutcomeSlide             Outcome = "slide"
	OutcomeRollIntoWater     Outcome = "roll_into_water"
	OutcomeRoll              Outcome = "roll"
)

// LogMove describes the log relocation a move caused
type LogMove struct {
	From        Position    `json:"from"`
	To          Position    `json:"to"`
	Orientation Orientation `json:"orientation"`
}

// Verdict is the resolver's answer for one requested player move
type Verdict struct {
	Allowed bool     `json:"allowed"`
	Outcome Outcome  `json:"outcome"`
	Log     *LogMove `json:"log,omitempty"`
}

func allow(o Outcome) Verdict { return Verdict{Allowed: true, Outcome: o} }
func block(o Outcome) Verdict { return Verdict{Outcome: o} }

// Resolve decides a player move from `from` one step along dir and applies
// any resulting log relocation to reg. The caller has already checked that
// the target is in bounds and safe, and commits the player position only
// when the verdict is allowed.
//
// Rules are evaluated in order:
//  1. no log at the target: blocked by water, otherwise allowed
//  2. log floating on water: allowed only when approached along its axis
//  3. log on land, with next being the cell past the target:
//     a. a stump or rock at next blocks everything
//     b. a round log is knocked one cell and takes the push axis
//     c. an aligned log slides one cell and becomes round, unless next is
//     water or off the board, in which case the player walks on
//     d. a crosswise log rolls until it leaves the land or meets an obstacle
func Resolve(b *Board, reg *Registry, from Position, dir Direction) Verdict {
	target := from.Add(dir)
	targetCell := b.CellAt(target)

	log := reg.LogAt(target)
	if log == nil {
		if targetCell.Has(Water) {
			return block(OutcomeWater)
		}
		return allow(OutcomeWalk)
	}

	if targetCell.Has(Water) {
		if dir.Horizontal() == (log.Orientation == Horizontal) {
			return allow(OutcomeBoardLog)
		}
		return block(OutcomeFloatingCrosswise)
	}

	next := target.Add(dir)
	if b.InBounds(next) {
		c := b.CellAt(next)
		if c.Has(Stump) || c.Has(Rock) {
			return block(OutcomeObstacleAhead)
		}
	}

	if log.Orientation == Round {
		if reg.LogAt(next) != nil {
			return block(OutcomeRoundBlocked)
		}
		log.Orientation = axisOf(dir)
		return relocate(reg, target, next, log, OutcomeKnockRound)
	}

	openWater := !b.InBounds(next) || b.CellAt(next).Has(Water)

	if log.Orientation == axisOf(dir) {
		if openWater {
			// The log stays registered at target while the player moves onto
			// it; the two end up sharing a cell.
			return allow(OutcomeSlideIntoWater)
		}
		if reg.LogAt(next) != nil {
			return block(OutcomeLogAhead)
		}
		log.Orientation = Round
		return relocate(reg, target, next, log, OutcomeSlide)
	}

	// a log, floating or off the board, never shares a key with another
	if reg.LogAt(next) != nil {
		return block(OutcomeLogAhead)
	}
	if openWater {
		return relocate(reg, target, next, log, OutcomeRollIntoWater)
	}

	current := next
	outcome := OutcomeRoll
	for {
		scan := current.Add(dir)
		if !b.InBounds(scan) {
			if reg.LogAt(scan) == nil {
				current = scan
				outcome = OutcomeRollIntoWater
			}
			break
		}
		c := b.CellAt(scan)
		if !c.Has(Land) {
			if reg.LogAt(scan) == nil {
				current = scan
				outcome = OutcomeRollIntoWater
			}
			break
		}
		if c.Has(Rock) || c.Has(Stump) || reg.LogAt(scan) != nil {
			break
		}
		current = scan
	}
	return relocate(reg, target, current, log, outcome)
}

func relocate(reg *Registry, from, to Position, log *Entity, o Outcome) Verdict {
	reg.RelocateLog(from, to)
	return Verdict{
		Outcome: o,
		Log:     &LogMove{From: from, To: to, Orientation: log.Orientation},
	}
}
