package coach

import (
	"fmt"
	"math"
	"time"
)

// Projection model constants.
const (
	// epleyDivisor parameterises the Epley 1RM estimation formula.
	epleyDivisor = 30.0
	// assumedStartFraction of the target e1RM is used when a goal has no
	// recorded starting point.
	assumedStartFraction = 0.85
	// fallbackWeightFraction of the target weight guarantees a prescription
	// once a target exists, even without any projection data.
	fallbackWeightFraction = 0.70
	daysPerWeek            = 7
)

// rep-count → fraction-of-e1RM intensity table for the prescribed schemes.
//
//nolint:gochecknoglobals // immutable lookup table.
var repIntensityTable = map[int]float64{
	5:  0.85,
	6:  0.82,
	8:  0.75,
	10: 0.70,
}

// EstimateE1RM computes the Epley estimated one-rep max for a performed set.
// It returns 0 for non-positive reps.
func EstimateE1RM(weight float64, reps int) float64 {
	if reps <= 0 {
		return 0
	}
	return weight * (1 + float64(reps)/epleyDivisor)
}

// targetE1RM is the estimated 1RM the goal's weight/rep scheme corresponds
// to. For single-rep targets it equals the target weight exactly.
func targetE1RM(goal Goal) float64 {
	return EstimateE1RM(goal.TargetWeight, goal.TargetReps)
}

// weeksRemaining until the deadline, never less than one.
func weeksRemaining(deadline, now time.Time) int {
	days := int(math.Floor(deadline.Sub(now).Hours() / 24))
	weeks := days / daysPerWeek
	if weeks < 1 {
		return 1
	}
	return weeks
}

// projectedE1RM is the e1RM the lifter should reach by the end of the coming
// week to stay on a linear path to the goal. It never exceeds the target.
func projectedE1RM(goal Goal, now time.Time) float64 {
	target := targetE1RM(goal)

	base := assumedStartFraction * target
	switch {
	case goal.CurrentE1RM != nil:
		base = *goal.CurrentE1RM
	case goal.StartingE1RM != nil:
		base = *goal.StartingE1RM
	}

	projected := base + (target-base)/float64(weeksRemaining(goal.Deadline, now))
	return math.Min(target, projected)
}

// repIntensity is the fraction of e1RM to prescribe for a rep count. Rep
// counts outside the table fall back to the inverse Epley ratio.
func repIntensity(reps int) float64 {
	if reps <= 0 {
		return 0
	}
	if intensity, ok := repIntensityTable[reps]; ok {
		return intensity
	}
	return 1 / (1 + float64(reps)/epleyDivisor)
}

// roundToIncrement rounds a weight to the nearest plate increment.
func roundToIncrement(weight, increment float64) float64 {
	return math.Round(weight/increment) * increment
}

// prescribedWeight computes the working weight for the goal's lift at a rep
// count, rounded to the unit's plate increment. It returns nil when no
// sensible weight can be assigned, e.g. for malformed goals.
func prescribedWeight(goal Goal, reps int, now time.Time) *float64 {
	e1rm := projectedE1RM(goal, now)
	if e1rm <= 0 {
		e1rm = fallbackWeightFraction * goal.TargetWeight
	}

	intensity := repIntensity(reps)
	if e1rm <= 0 || intensity <= 0 {
		return nil
	}

	rounded := roundToIncrement(e1rm*intensity, goal.WeightUnit.roundingIncrement())
	if rounded <= 0 {
		return nil
	}
	return &rounded
}

// intensityNote renders a human-readable description of the prescribed
// intensity, e.g. "~85% projected 1RM".
func intensityNote(reps int) string {
	percent := int(math.Round(repIntensity(reps) * 100))
	return fmt.Sprintf("~%d%% projected 1RM", percent)
}
