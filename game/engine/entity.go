package engine

// EntityKind tags the Entity variant
type EntityKind int

const (
	PlayerEntity EntityKind = iota
	LogEntity
)

func (k EntityKind) String() string {
	if k == LogEntity {
		return "log"
	}
	return "player"
}

// AnimationState is the per-entity interpolation state. Times are in
// milliseconds.
type AnimationState struct {
	Phase    Phase   `json:"phase"`
	Elapsed  float64 `json:"elapsed"`
	Duration float64 `json:"duration"`
	Origin   Vec     `json:"origin"`
}

// Entity is either the player or a log. Orientation is only meaningful for
// logs.
type Entity struct {
	Kind        EntityKind     `json:"kind"`
	Color       string         `json:"color"`
	Orientation Orientation    `json:"orientation"`
	Anim        AnimationState `json:"animation"`
}

// Timing holds the animation durations used by an engine
type Timing struct {
	PlayerDuration  float64 `json:"player_ms"`
	LogCellDuration float64 `json:"log_cell_ms"`
}

// DefaultTiming returns the stock durations
func DefaultTiming() Timing {
	return Timing{PlayerDuration: PlayerMoveDuration, LogCellDuration: LogCellDuration}
}

func newPlayer(pos Position, color string, timing Timing) *Entity {
	return &Entity{
		Kind:  PlayerEntity,
		Color: color,
		Anim:  AnimationState{Duration: timing.PlayerDuration, Origin: VecOf(pos)},
	}
}

func newLog(pos Position, color string) *Entity {
	return &Entity{
		Kind:        LogEntity,
		Color:       color,
		Orientation: Round,
		Anim:        AnimationState{Origin: VecOf(pos)},
	}
}

// Tick advances the animation by dt milliseconds. logical is the entity's
// current registry position.
func (e *Entity) Tick(logical Position, dt float64, timing Timing) {
	a := &e.Anim
	if e.Kind == LogEntity {
		// a push can move a log several cells; keep velocity constant
		a.Duration = timing.LogCellDuration * manhattan(a.Origin, VecOf(logical))
	} else {
		a.Duration = timing.PlayerDuration
	}

	switch a.Phase {
	case Idle:
	case Pending:
		a.Phase = Animating
		a.Elapsed = dt
	case Animating:
		a.Elapsed += dt
		if a.Elapsed > a.Duration {
			a.Phase = Idle
			a.Origin = VecOf(logical)
		}
	}
}

// DrawPosition returns the interpolated position for rendering
func (e *Entity) DrawPosition(logical Position) Vec {
	a := e.Anim
	to := VecOf(logical)
	switch a.Phase {
	case Idle:
		return to
	case Pending:
		return a.Origin
	}
	if a.Duration == 0 {
		return to
	}
	return Vec{
		X: (to.X*a.Elapsed + a.Origin.X*(a.Duration-a.Elapsed)) / a.Duration,
		Y: (to.Y*a.Elapsed + a.Origin.Y*(a.Duration-a.Elapsed)) / a.Duration,
	}
}

// restart marks a committed move away from from. The new animation starts
// where the entity is currently drawn, which is from unless a previous
// animation is still in flight.
func (e *Entity) restart(from Position) {
	e.Anim.Origin = e.DrawPosition(from)
	e.Anim.Phase = Pending
}
