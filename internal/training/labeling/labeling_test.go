package labeling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScore_Precedence(t *testing.T) {
	tests := []struct {
		name    string
		outcome Outcome
		want    float64
	}{
		{"hired outranks everything", Outcome{Hired: true, Interviewed: true, Applied: true, Saved: true, Viewed: true}, 1.0},
		{"interviewed outranks applied", Outcome{Interviewed: true, Applied: true, Viewed: true}, 0.8},
		{"applied", Outcome{Applied: true, Viewed: true}, 0.6},
		{"saved", Outcome{Saved: true, Viewed: true}, 0.4},
		{"viewed only", Outcome{Viewed: true}, 0.2},
		{"no interaction", Outcome{}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.outcome))
		})
	}
}

func TestScore_AlwaysOnFixedGrid(t *testing.T) {
	valid := map[float64]bool{0.0: true, 0.2: true, 0.4: true, 0.6: true, 0.8: true, 1.0: true}

	// Exhaustive over all 32 flag combinations.
	for mask := 0; mask < 32; mask++ {
		o := Outcome{
			Applied:     mask&1 != 0,
			Interviewed: mask&2 != 0,
			Hired:       mask&4 != 0,
			Saved:       mask&8 != 0,
			Viewed:      mask&16 != 0,
		}
		assert.True(t, valid[Score(o)], "score %v for %+v not on grid", Score(o), o)
	}
}

func TestLabel_FillsScore(t *testing.T) {
	labeled := Label(Outcome{Applied: true})
	assert.Equal(t, 0.6, labeled.Score)
	assert.True(t, labeled.Applied)
}

func TestNegative_AllFlagsFalseScoreZero(t *testing.T) {
	n := Negative()
	assert.False(t, n.Applied)
	assert.False(t, n.Interviewed)
	assert.False(t, n.Hired)
	assert.False(t, n.Saved)
	assert.False(t, n.Viewed)
	assert.Equal(t, 0.0, n.Score)
}
