package bot

import (
	"context"
	"errors"
	"testing"

	"github.com/Alias1177/matchforecast/internal/analyze"
	"github.com/Alias1177/matchforecast/internal/model"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	msgs []tgbotapi.MessageConfig
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if msg, ok := c.(tgbotapi.MessageConfig); ok {
		f.msgs = append(f.msgs, msg)
	}
	return tgbotapi.Message{}, nil
}

type fakeAnalyzer struct {
	got model.Fixture
	err error
}

func (f *fakeAnalyzer) AnalyzeFixture(_ context.Context, fixture model.Fixture) (*model.Analysis, error) {
	f.got = fixture
	if f.err != nil {
		return nil, f.err
	}
	home, away, err := analyze.ParseIdentifier(fixture.Identifier)
	if err != nil {
		return nil, err
	}
	return &model.Analysis{
		Match:  fixture.Identifier,
		Home:   model.TeamForecast{Team: home, Forecast: model.Forecast{Value: 1.6}, Form: model.Form{Source: model.FormObserved}},
		Away:   model.TeamForecast{Team: away, Forecast: model.Forecast{Value: 0.4}, Form: model.Form{Source: model.FormSynthesized}},
		Result: model.PredictionResult{Label: model.LabelHomeWin, Confidence: model.ConfidenceA, Scoreline: "91 - 77"},
	}, nil
}

type fakeLedger struct {
	entries []model.LogEntry
	err     error
}

func (f *fakeLedger) RecentLogs(context.Context, int) ([]model.LogEntry, error) {
	return f.entries, f.err
}

var leagues = map[string]string{"WNBA": "basketball_wnba", "MLB": "baseball_mlb"}

func command(text string) *tgbotapi.Message {
	end := len(text)
	for i, r := range text {
		if r == ' ' {
			end = i
			break
		}
	}
	return &tgbotapi.Message{
		Text:     text,
		Chat:     &tgbotapi.Chat{ID: 99},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: end}},
	}
}

func reply(t *testing.T, b *Bot, s *fakeSender, text string) string {
	t.Helper()
	b.HandleMessage(context.Background(), command(text))
	require.NotEmpty(t, s.msgs)
	last := s.msgs[len(s.msgs)-1]
	assert.Equal(t, int64(99), last.ChatID)
	return last.Text
}

func TestParseFixture(t *testing.T) {
	tests := []struct {
		args string
		want model.Fixture
	}{
		{args: "Seattle Storm - Dallas Wings wnba", want: model.Fixture{Identifier: "Seattle Storm - Dallas Wings", League: "WNBA"}},
		{args: " Minnesota Twins - Oakland Athletics MLB ", want: model.Fixture{Identifier: "Minnesota Twins - Oakland Athletics", League: "MLB"}},
		{args: "Seattle Storm - Dallas Wings", want: model.Fixture{Identifier: "Seattle Storm - Dallas Wings"}},
		{args: "", want: model.Fixture{}},
	}

	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFixture(tt.args, leagues))
		})
	}
}

func TestPredictCommand(t *testing.T) {
	s, a := &fakeSender{}, &fakeAnalyzer{}
	b := New(s, a, &fakeLedger{}, leagues)

	text := reply(t, b, s, "/predict Seattle Storm - Dallas Wings WNBA")
	assert.Equal(t, "WNBA", a.got.League)
	assert.Contains(t, text, "Prediction: HOME_WIN | Confidence: A | Score: 91 - 77")
	assert.Contains(t, text, "Dallas Wings: forecast 0.40 (no recent results)")

	text = reply(t, b, s, "/predict Seattle Storm vs Dallas Wings")
	assert.Contains(t, text, "Usage:")

	b = New(s, &fakeAnalyzer{err: errors.New("boom")}, &fakeLedger{}, leagues)
	text = reply(t, b, s, "/predict Seattle Storm - Dallas Wings")
	assert.Contains(t, text, "Prediction failed")
}

func TestLedgerCommands(t *testing.T) {
	s := &fakeSender{}
	b := New(s, &fakeAnalyzer{}, &fakeLedger{}, leagues)
	assert.Equal(t, "No predictions recorded yet.", reply(t, b, s, "/logs"))

	ledger := &fakeLedger{entries: []model.LogEntry{
		{Date: "2025-07-04", Match: "Seattle Storm - Dallas Wings", Prediction: model.LabelDraw, Confidence: model.ConfidenceBPlus, Result: model.ResultWon, ROI: 1.2},
	}}
	b = New(s, &fakeAnalyzer{}, ledger, leagues)
	assert.Contains(t, reply(t, b, s, "/logs"), "Seattle Storm - Dallas Wings | DRAW | B+ | WON | ROI: 1.20")
	assert.Contains(t, reply(t, b, s, "/summary"), "Hit rate: 100.00% (1/1)")

	b = New(s, &fakeAnalyzer{}, &fakeLedger{err: errors.New("closed")}, leagues)
	assert.Contains(t, reply(t, b, s, "/summary"), "Ledger unavailable")
}

func TestHelpAndUnknown(t *testing.T) {
	s := &fakeSender{}
	b := New(s, &fakeAnalyzer{}, &fakeLedger{}, leagues)
	assert.Equal(t, helpText, reply(t, b, s, "/start"))
	assert.Contains(t, reply(t, b, s, "/subscribe"), "Unknown command")
}

func TestRunStopsWhenChannelCloses(t *testing.T) {
	s := &fakeSender{}
	b := New(s, &fakeAnalyzer{}, &fakeLedger{}, leagues)

	updates := make(chan tgbotapi.Update, 1)
	updates <- tgbotapi.Update{Message: command("/help")}
	close(updates)

	b.Run(context.Background(), updates)
	assert.Len(t, s.msgs, 1)
}
