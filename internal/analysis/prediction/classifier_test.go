package prediction

import (
	"regexp"
	"strconv"
	"testing"

	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/Alias1177/matchforecast/internal/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var scorelinePattern = regexp.MustCompile(`^(\d+) - (\d+)$`)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		home, away float64
		label      model.Label
		confidence model.Confidence
	}{
		{"equal scores", 1.2, 1.2, model.LabelDraw, model.ConfidenceBPlus},
		{"both zero", 0, 0, model.LabelDraw, model.ConfidenceBPlus},
		{"home gap exactly threshold", 2.0, 1.5, model.LabelDraw, model.ConfidenceBPlus},
		{"away gap exactly threshold", 0.25, 0.75, model.LabelDraw, model.ConfidenceBPlus},
		{"home decisive", 1.75, 1.0, model.LabelHomeWin, model.ConfidenceA},
		{"away decisive", 0.1, 0.9, model.LabelAwayWin, model.ConfidenceA},
		{"small home edge", 1.4, 1.0, model.LabelDraw, model.ConfidenceBPlus},
		{"negative scores", -1.0, 0.0, model.LabelAwayWin, model.ConfidenceA},
	}

	c := NewClassifier(utils.NewRand(1), DefaultOptions())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.home, tt.away)
			assert.Equal(t, tt.label, got.Label)
			assert.Equal(t, tt.confidence, got.Confidence)
		})
	}
}

func TestClassifyEqualScoresAlwaysDraw(t *testing.T) {
	c := NewClassifier(utils.NewRand(2), DefaultOptions())
	for _, s := range []float64{-3, -0.5, 0, 0.33, 1, 1.999, 42} {
		got := c.Classify(s, s)
		assert.Equal(t, model.LabelDraw, got.Label)
		assert.Equal(t, model.ConfidenceBPlus, got.Confidence)
	}
}

func TestCustomThreshold(t *testing.T) {
	c := NewClassifier(utils.NewRand(1), Options{Threshold: 1.0})

	assert.Equal(t, model.LabelDraw, c.Classify(1.75, 1.0).Label)
	assert.Equal(t, model.LabelHomeWin, c.Classify(2.5, 1.0).Label)
}

func TestScorelineRanges(t *testing.T) {
	c := NewClassifier(utils.NewRand(9), DefaultOptions())

	seenHome := map[int]bool{}
	for i := 0; i < 5000; i++ {
		m := scorelinePattern.FindStringSubmatch(c.Classify(1, 1).Scoreline)
		require.NotNil(t, m)

		home, _ := strconv.Atoi(m[1])
		away, _ := strconv.Atoi(m[2])
		assert.GreaterOrEqual(t, home, DefaultHomeMin)
		assert.LessOrEqual(t, home, DefaultHomeMax)
		assert.GreaterOrEqual(t, away, DefaultAwayMin)
		assert.LessOrEqual(t, away, DefaultAwayMax)
		seenHome[home] = true
	}

	// both ends of the inclusive range show up
	assert.True(t, seenHome[DefaultHomeMin])
	assert.True(t, seenHome[DefaultHomeMax])
}

func TestScorelineDoesNotAffectLabel(t *testing.T) {
	a := NewClassifier(utils.NewRand(1), DefaultOptions())
	b := NewClassifier(utils.NewRand(99), DefaultOptions())

	for _, pair := range [][2]float64{{2, 1}, {1, 2}, {1, 1.2}} {
		ra, rb := a.Classify(pair[0], pair[1]), b.Classify(pair[0], pair[1])
		assert.Equal(t, ra.Label, rb.Label)
		assert.Equal(t, ra.Confidence, rb.Confidence)
	}
}

func TestConfidenceOrder(t *testing.T) {
	assert.Greater(t, model.ConfidenceA.Rank(), model.ConfidenceBPlus.Rank())
	assert.Zero(t, model.Confidence("C").Rank())
}
