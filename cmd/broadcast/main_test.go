package main

import (
	"strings"
	"testing"

	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestBuildMessage(t *testing.T) {
	msg := buildMessage([]model.LogEntry{
		{Date: "2025-07-04", Match: "Seattle Storm - Dallas Wings", Prediction: model.LabelHomeWin, Confidence: model.ConfidenceA, Result: model.ResultPending},
		{Date: "2025-07-03", Match: "Minnesota Twins - Oakland Athletics", Prediction: model.LabelDraw, Confidence: model.ConfidenceBPlus, Result: model.ResultWon, ROI: 0.8},
	})

	assert.True(t, strings.HasPrefix(msg, "*Prediction summary*"))
	assert.Contains(t, msg, "Entries: 2 (pending 1, settled 1)")
	assert.Contains(t, msg, "2025-07-04 | Seattle Storm - Dallas Wings | HOME_WIN | A | PENDING | ROI: 0.00")
	assert.Less(t, strings.Index(msg, "2025-07-04 |"), strings.Index(msg, "2025-07-03 |"), "listing stays newest first")
}
