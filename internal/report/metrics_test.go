package report

import (
	"strings"
	"testing"

	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(date string, conf model.Confidence, result string, roi float64) model.LogEntry {
	return model.LogEntry{
		Date:           date,
		Match:          "Seattle Storm - Dallas Wings",
		Prediction:     model.LabelHomeWin,
		Confidence:     conf,
		Result:         result,
		ROI:            roi,
		HomeFormSource: model.FormObserved,
		AwayFormSource: model.FormObserved,
	}
}

func TestSummarize(t *testing.T) {
	synthetic := entry("2025-07-03", model.ConfidenceBPlus, model.ResultPending, 0)
	synthetic.AwayFormSource = model.FormSynthesized

	entries := []model.LogEntry{
		entry("2025-06-29", model.ConfidenceA, model.ResultWon, 1.0),
		entry("2025-06-30", model.ConfidenceA, model.ResultLost, -1.0),
		entry("2025-07-01", model.ConfidenceA, model.ResultLost, -1.0),
		entry("2025-07-02", model.ConfidenceBPlus, model.ResultWon, 0.5),
		entry("2025-07-02", model.ConfidenceBPlus, model.ResultVoid, 0),
		synthetic,
	}

	s := Summarize(entries)

	assert.Equal(t, 6, s.Total)
	assert.Equal(t, 1, s.Pending)
	assert.Equal(t, 4, s.Settled)
	assert.Equal(t, 2, s.Wins)
	assert.InDelta(t, 50.0, s.HitRate, 1e-9)
	assert.InDelta(t, -0.5, s.TotalROI, 1e-9)
	assert.InDelta(t, -0.125, s.AverageROI, 1e-9)
	assert.InDelta(t, 2.0, s.MaxDrawdown, 1e-9)
	assert.Equal(t, 1, s.SyntheticForms)

	require.Contains(t, s.ByConfidence, model.ConfidenceA)
	a := s.ByConfidence[model.ConfidenceA]
	assert.Equal(t, 3, a.Settled)
	assert.Equal(t, 1, a.Wins)
	assert.InDelta(t, 100.0/3, a.HitRate, 1e-9)
	assert.InDelta(t, -1.0, a.ROI, 1e-9)

	assert.InDelta(t, 0.0, s.MonthlyROI["2025-06"], 1e-9)
	assert.InDelta(t, -0.5, s.MonthlyROI["2025-07"], 1e-9)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	assert.Zero(t, s.Total)
	assert.Zero(t, s.HitRate)
	assert.Zero(t, s.AverageROI)
	assert.Empty(t, s.ByConfidence)
}

func TestSummarizeAllPending(t *testing.T) {
	s := Summarize([]model.LogEntry{
		entry("2025-07-04", model.ConfidenceA, model.ResultPending, 0),
		entry("2025-07-04", model.ConfidenceBPlus, model.ResultPending, 0),
	})
	assert.Equal(t, 2, s.Pending)
	assert.Zero(t, s.Settled)
	assert.Zero(t, s.MaxDrawdown)
}

func TestFormatLogs(t *testing.T) {
	out := FormatLogs([]model.LogEntry{
		entry("2025-07-04", model.ConfidenceA, model.ResultPending, 0),
	})
	assert.Equal(t, "2025-07-04 | Seattle Storm - Dallas Wings | HOME_WIN | A | PENDING | ROI: 0.00\n", out)
	assert.Empty(t, FormatLogs(nil))
}

func TestFormatSummaryOrdersTiers(t *testing.T) {
	out := FormatSummary(Summarize([]model.LogEntry{
		entry("2025-07-01", model.ConfidenceBPlus, model.ResultWon, 0.5),
		entry("2025-07-02", model.ConfidenceA, model.ResultLost, -1.0),
	}))

	assert.Contains(t, out, "Hit rate: 50.00% (1/2)")
	assert.Less(t, strings.Index(out, "- A:"), strings.Index(out, "- B+:"))
}
