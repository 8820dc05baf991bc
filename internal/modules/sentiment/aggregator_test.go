package sentiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAggregate(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   float64
	}{
		{"empty is neutral", nil, 0.0},
		{"empty slice is neutral", []float64{}, 0.0},
		{"single value", []float64{1.0}, 1.0},
		{"opposites cancel", []float64{0.5, -0.5}, 0.0},
		{"mean of several", []float64{0.5, 1.0, 0.0}, 0.5},
		{"all negative", []float64{-1.0, -0.5}, -0.75},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Aggregate(tt.scores), 1e-9)
		})
	}
}

func TestScoreFromStars(t *testing.T) {
	// (stars-3)/2 maps the 5-class scale symmetrically onto [-1, 1]
	assert.Equal(t, -1.0, ScoreFromStars(1))
	assert.Equal(t, -0.5, ScoreFromStars(2))
	assert.Equal(t, 0.0, ScoreFromStars(3))
	assert.Equal(t, 0.5, ScoreFromStars(4))
	assert.Equal(t, 1.0, ScoreFromStars(5))

	// Out-of-range inputs clamp to the scale
	assert.Equal(t, -1.0, ScoreFromStars(0))
	assert.Equal(t, 1.0, ScoreFromStars(9))
}
