// Package report summarizes ledger entries once reconciliation has filled in
// their results and ROI.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Alias1177/matchforecast/internal/model"
)

// TierStats holds the settled record of one confidence tier
type TierStats struct {
	Settled int     `json:"settled"`
	Wins    int     `json:"wins"`
	HitRate float64 `json:"hit_rate"` // percent
	ROI     float64 `json:"roi"`
}

// Summary aggregates a set of ledger entries
type Summary struct {
	Total          int                             `json:"total"`
	Pending        int                             `json:"pending"`
	Settled        int                             `json:"settled"`
	Wins           int                             `json:"wins"`
	HitRate        float64                         `json:"hit_rate"` // percent of settled entries won
	TotalROI       float64                         `json:"total_roi"`
	AverageROI     float64                         `json:"average_roi"` // per settled entry
	MaxDrawdown    float64                         `json:"max_drawdown"`
	SyntheticForms int                             `json:"synthetic_forms"` // entries with at least one synthesized form
	ByConfidence   map[model.Confidence]*TierStats `json:"by_confidence"`
	MonthlyROI     map[string]float64              `json:"monthly_roi"`
}

// Summarize computes hit rate, ROI and drawdown. Entries are taken in the
// order given, which should be chronological for the drawdown to be meaningful.
func Summarize(entries []model.LogEntry) *Summary {
	s := &Summary{
		Total:        len(entries),
		ByConfidence: make(map[model.Confidence]*TierStats),
		MonthlyROI:   make(map[string]float64),
	}

	var equity, peak float64
	for _, e := range entries {
		if e.HomeFormSource == model.FormSynthesized || e.AwayFormSource == model.FormSynthesized {
			s.SyntheticForms++
		}
		if e.Result == model.ResultPending {
			s.Pending++
		}

		s.TotalROI += e.ROI
		if len(e.Date) >= 7 {
			s.MonthlyROI[e.Date[:7]] += e.ROI
		}

		equity += e.ROI
		if equity > peak {
			peak = equity
		}
		if dd := peak - equity; dd > s.MaxDrawdown {
			s.MaxDrawdown = dd
		}

		if !e.Settled() {
			continue
		}

		tier := s.ByConfidence[e.Confidence]
		if tier == nil {
			tier = &TierStats{}
			s.ByConfidence[e.Confidence] = tier
		}

		s.Settled++
		tier.Settled++
		tier.ROI += e.ROI
		if e.Result == model.ResultWon {
			s.Wins++
			tier.Wins++
		}
	}

	if s.Settled > 0 {
		s.HitRate = float64(s.Wins) / float64(s.Settled) * 100
		s.AverageROI = s.TotalROI / float64(s.Settled)
	}
	for _, tier := range s.ByConfidence {
		tier.HitRate = float64(tier.Wins) / float64(tier.Settled) * 100
	}

	return s
}

// FormatLogs renders ledger entries one per line
func FormatLogs(entries []model.LogEntry) string {
	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "%s | %s | %s | %s | %s | ROI: %.2f\n",
			e.Date, e.Match, e.Prediction, e.Confidence, e.Result, e.ROI)
	}
	return b.String()
}

// FormatSummary renders a summary for console output
func FormatSummary(s *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Entries: %d (pending %d, settled %d)\n", s.Total, s.Pending, s.Settled)
	fmt.Fprintf(&b, "Hit rate: %.2f%% (%d/%d)\n", s.HitRate, s.Wins, s.Settled)
	fmt.Fprintf(&b, "ROI: total %.2f, average %.2f, max drawdown %.2f\n", s.TotalROI, s.AverageROI, s.MaxDrawdown)
	fmt.Fprintf(&b, "Entries with synthetic form: %d\n", s.SyntheticForms)

	tiers := make([]model.Confidence, 0, len(s.ByConfidence))
	for c := range s.ByConfidence {
		tiers = append(tiers, c)
	}
	sort.Slice(tiers, func(i, j int) bool { return tiers[i].Rank() > tiers[j].Rank() })
	for _, c := range tiers {
		t := s.ByConfidence[c]
		fmt.Fprintf(&b, "- %s: %.2f%% over %d, ROI %.2f\n", c, t.HitRate, t.Settled, t.ROI)
	}
	return b.String()
}
