package component

// Wander drives periodic random heading changes for AI entities.
type Wander struct {
	TimeUntilChange float64 // seconds until the next re-roll
	IntervalMin     float64
	IntervalMax     float64
	SpeedMin        float64
	SpeedMax        float64
}
