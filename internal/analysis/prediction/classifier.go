package prediction

import (
	"fmt"

	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/Alias1177/matchforecast/internal/utils"
)

// Default classifier constants
const (
	DefaultThreshold = 0.5
	DefaultHomeMin   = 70
	DefaultHomeMax   = 100
	DefaultAwayMin   = 60
	DefaultAwayMax   = 95
)

// Options holds the decision threshold and the display scoreline ranges
type Options struct {
	Threshold float64
	HomeMin   int
	HomeMax   int
	AwayMin   int
	AwayMax   int
}

// DefaultOptions returns the stock classifier settings
func DefaultOptions() Options {
	return Options{
		Threshold: DefaultThreshold,
		HomeMin:   DefaultHomeMin,
		HomeMax:   DefaultHomeMax,
		AwayMin:   DefaultAwayMin,
		AwayMax:   DefaultAwayMax,
	}
}

// Classifier turns a pair of forecast scores into a label and confidence tier
type Classifier struct {
	opts Options
	rnd  *utils.Rand
}

// NewClassifier creates a classifier. A non-positive threshold means the default.
func NewClassifier(rnd *utils.Rand, opts Options) *Classifier {
	if opts.Threshold <= 0 {
		opts.Threshold = DefaultThreshold
	}
	if opts.HomeMin == 0 && opts.HomeMax == 0 {
		opts.HomeMin, opts.HomeMax = DefaultHomeMin, DefaultHomeMax
	}
	if opts.AwayMin == 0 && opts.AwayMax == 0 {
		opts.AwayMin, opts.AwayMax = DefaultAwayMin, DefaultAwayMax
	}
	return &Classifier{opts: opts, rnd: rnd}
}

// Classify compares the two scores. The first matching rule wins and the
// threshold is strict, so a gap of exactly the threshold is a draw.
func (c *Classifier) Classify(home, away float64) model.PredictionResult {
	label, confidence := Decide(home, away, c.opts.Threshold)
	return model.PredictionResult{
		Label:      label,
		Confidence: confidence,
		Scoreline:  c.Scoreline(),
	}
}

// Decide applies the label rules without touching the scoreline
func Decide(home, away, threshold float64) (model.Label, model.Confidence) {
	switch {
	case home-away > threshold:
		return model.LabelHomeWin, model.ConfidenceA
	case away-home > threshold:
		return model.LabelAwayWin, model.ConfidenceA
	default:
		return model.LabelDraw, model.ConfidenceBPlus
	}
}

// Scoreline renders a random presentation score. It carries no forecast meaning.
func (c *Classifier) Scoreline() string {
	return fmt.Sprintf("%d - %d",
		c.rnd.Between(c.opts.HomeMin, c.opts.HomeMax),
		c.rnd.Between(c.opts.AwayMin, c.opts.AwayMax),
	)
}
