// Package sentiment reduces headline sentiment scores to a single scalar in
// [-1, 1] and defines the contract with the external headline scorer.
package sentiment

import (
	"gonum.org/v1/gonum/stat"
)

// Aggregate reduces a set of per-headline scores (each in [-1, 1]) to their
// arithmetic mean. An empty input returns 0.0: no information is neutral,
// not negative.
func Aggregate(scores []float64) float64 {
	if len(scores) == 0 {
		return 0.0
	}
	return stat.Mean(scores, nil)
}

// ScoreFromStars maps a 5-class star rating (the output vocabulary of the
// upstream classifier) onto the symmetric [-1, 1] scale:
// 1 star -> -1.0, 3 stars -> 0.0, 5 stars -> +1.0.
func ScoreFromStars(stars int) float64 {
	if stars < 1 {
		stars = 1
	}
	if stars > 5 {
		stars = 5
	}
	return float64(stars-3) / 2.0
}
