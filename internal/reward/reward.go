// Package reward computes XP amounts from evaluation outcomes.
package reward

import "math"

const (
	// DefaultBase is the base XP for a correct answer before modifiers.
	DefaultBase = 10

	highTempoBonus    = 1.3
	firstAttemptBonus = 1.2
	hintPenalty       = 0.5
	participationRate = 0.3

	highTempoThreshold = 100
	streakBonusMin     = 10
)

// Input describes one evaluated answer.
type Input struct {
	Correct       bool
	Tempo         int
	PlayCount     int
	UsedHint      bool
	Level         int
	PerfectStreak int
}

// Calculator derives an XP amount from an evaluation. The zero value uses
// DefaultBase.
type Calculator struct {
	Base int
}

// NewCalculator returns a calculator with the default base reward.
func NewCalculator() *Calculator {
	return &Calculator{Base: DefaultBase}
}

// Compute returns the XP for one answer. Multiplicative bonuses round up
// after each step; the hint penalty rounds down. An incorrect answer earns
// flat participation credit with no modifiers.
func (c *Calculator) Compute(in Input) int {
	base := c.Base
	if base == 0 {
		base = DefaultBase
	}

	if !in.Correct {
		return int(math.Floor(float64(base) * participationRate))
	}

	amount := base
	if in.Tempo > highTempoThreshold {
		amount = int(math.Ceil(float64(amount) * highTempoBonus))
	}
	if in.PlayCount <= 1 {
		amount = int(math.Ceil(float64(amount) * firstAttemptBonus))
	}
	if in.UsedHint {
		amount = int(math.Floor(float64(amount) * hintPenalty))
	}

	amount += 2 * in.Level
	if in.PerfectStreak >= streakBonusMin {
		amount += int(math.Floor(0.5 * float64(in.PerfectStreak)))
	}
	return amount
}
