package model

import "time"

// DateLayout is the date format stored in the ledger
const DateLayout = "2006-01-02"

// Ledger result values. Anything other than PENDING is written by reconciliation.
const (
	ResultPending = "PENDING"
	ResultWon     = "WON"
	ResultLost    = "LOST"
	ResultVoid    = "VOID"
)

// LogEntry is one persisted prediction awaiting reconciliation
type LogEntry struct {
	ID             int64      `json:"id"`
	RunID          string     `json:"run_id"`
	Date           string     `json:"date"`
	Match          string     `json:"match"`
	Prediction     Label      `json:"prediction"`
	Confidence     Confidence `json:"confidence"`
	Result         string     `json:"result"`
	ROI            float64    `json:"roi"`
	HomeFormSource FormSource `json:"home_form"`
	AwayFormSource FormSource `json:"away_form"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Settled reports whether reconciliation has recorded a win or a loss
func (e LogEntry) Settled() bool {
	return e.Result == ResultWon || e.Result == ResultLost
}

// Row returns the tabular form used by external sync sinks
func (e LogEntry) Row() []interface{} {
	return []interface{}{e.Date, e.Match, string(e.Prediction), string(e.Confidence), e.Result, e.ROI}
}
