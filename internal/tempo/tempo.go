// Package tempo adjusts the playback tempo from recent answer accuracy.
package tempo

const (
	// Interval is how many answers pass between adjustment checks.
	Interval = 5

	// RaiseThreshold and LowerThreshold are accuracy bounds over the last
	// Interval answers. Accuracy between the two leaves the tempo alone.
	RaiseThreshold = 0.8
	LowerThreshold = 0.4

	DefaultStep = 5
	DefaultMin  = 60
	DefaultMax  = 160
)

// Adapter steps the tempo up or down inside [Min, Max].
type Adapter struct {
	Step int
	Min  int
	Max  int
}

// NewAdapter returns an adapter with the default step and bounds.
func NewAdapter() *Adapter {
	return &Adapter{Step: DefaultStep, Min: DefaultMin, Max: DefaultMax}
}

// Next returns the tempo after the given answer count. Adjustment only
// happens on every Interval-th answer, using the accuracy of the recent
// outcomes (newest last). Any other call returns the tempo unchanged.
func (a *Adapter) Next(current, answered int, recent []bool) int {
	if answered == 0 || answered%Interval != 0 {
		return current
	}
	if len(recent) < Interval {
		return current
	}

	last := recent[len(recent)-Interval:]
	correct := 0
	for _, ok := range last {
		if ok {
			correct++
		}
	}
	accuracy := float64(correct) / float64(Interval)

	switch {
	case accuracy >= RaiseThreshold:
		return a.clamp(current + a.Step)
	case accuracy <= LowerThreshold:
		return a.clamp(current - a.Step)
	default:
		return current
	}
}

func (a *Adapter) clamp(tempo int) int {
	if tempo < a.Min {
		return a.Min
	}
	if tempo > a.Max {
		return a.Max
	}
	return tempo
}
