package behavior

import (
	"math"
	"sync"
)

// A Factor is one normalized state observation that contributes to a
// context-sensitive priority: damage ratio, vulnerability, cargo value at
// stake, route risk. Value must lie in [0, 1]; it is clamped defensively.
type Factor struct {
	Value  float64
	Weight float64
}

// Clamp01 clamps v into [0, 1].
func Clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}

// WeightedScore combines factors into one normalized urgency score in
// [0, 1]. With no factors, or only zero weights, the score is 0.
func WeightedScore(factors ...Factor) float64 {
	sum := 0.0
	totalWeight := 0.0

	for _, f := range factors {
		sum += Clamp01(f.Value) * f.Weight
		totalWeight += f.Weight
	}

	if totalWeight == 0 {
		return 0
	}

	return Clamp01(sum / totalWeight)
}

// A Band maps a normalized score into the bounded integer priority sub-range
// of one behavior class, so that qualitatively different behaviors share one
// numeric urgency axis.
type Band struct {
	Min int
	Max int
}

// The conventional bands of the three common behavior classes.
var (
	FleeBand   = Band{Min: 300, Max: 1000}
	CombatBand = Band{Min: 200, Max: 600}
	TradeBand  = Band{Min: 100, Max: 300}
)

// Priority maps a score into the band, clamping on both ends.
func (b Band) Priority(score float64) int {
	span := float64(b.Max - b.Min)

	return b.Min + int(math.Round(Clamp01(score)*span))
}

// BestScore evaluates scorers in parallel and returns the index and score of
// the best one. Scorers must be pure reads of actor state; only the single
// winning result is meant to be applied back on the single-threaded
// scheduling path. With no scorers the index is -1.
func BestScore(scorers []func() float64) (int, float64) {
	if len(scorers) == 0 {
		return -1, 0
	}

	scores := make([]float64, len(scorers))

	var wg sync.WaitGroup
	for i, scorer := range scorers {
		wg.Add(1)

		go func(i int, scorer func() float64) {
			defer wg.Done()
			scores[i] = scorer()
		}(i, scorer)
	}

	wg.Wait()

	best := 0
	for i, score := range scores {
		if score > scores[best] {
			best = i
		}
	}

	return best, scores[best]
}
