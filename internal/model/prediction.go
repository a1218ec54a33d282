package model

import "time"

// Label is the predicted match outcome
type Label string

const (
	LabelHomeWin Label = "HOME_WIN"
	LabelAwayWin Label = "AWAY_WIN"
	LabelDraw    Label = "DRAW"
)

// Confidence is a coarse tier describing how decisive the forecast gap was
type Confidence string

const (
	ConfidenceA     Confidence = "A"
	ConfidenceBPlus Confidence = "B+"
)

// Rank orders confidence tiers, higher is stronger. Unknown tiers rank 0.
func (c Confidence) Rank() int {
	switch c {
	case ConfidenceA:
		return 2
	case ConfidenceBPlus:
		return 1
	}
	return 0
}

// PredictionResult is the classifier output for one match
type PredictionResult struct {
	Label      Label      `json:"label"`
	Confidence Confidence `json:"confidence"`
	Scoreline  string     `json:"scoreline"` // display only
}

// TeamForecast groups the form and forecast computed for one side
type TeamForecast struct {
	Team     string   `json:"team"`
	Form     Form     `json:"form"`
	Forecast Forecast `json:"forecast"`
}

// Analysis is the full result of analyzing one fixture
type Analysis struct {
	Match  string           `json:"match"`
	League string           `json:"league,omitempty"`
	Home   TeamForecast     `json:"home"`
	Away   TeamForecast     `json:"away"`
	Result PredictionResult `json:"result"`
}

// LogEntry builds the ledger row for this analysis. Result starts as PENDING with zero ROI.
func (a *Analysis) LogEntry(date time.Time) LogEntry {
	return LogEntry{
		Date:           date.Format(DateLayout),
		Match:          a.Match,
		Prediction:     a.Result.Label,
		Confidence:     a.Result.Confidence,
		Result:         ResultPending,
		ROI:            0.0,
		HomeFormSource: a.Home.Form.Source,
		AwayFormSource: a.Away.Form.Source,
	}
}
