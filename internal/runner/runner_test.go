package runner

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Alias1177/matchforecast/internal/analyze"
	"github.com/Alias1177/matchforecast/internal/export"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScanner struct {
	fixtures []model.Fixture
	err      error
	calls    int
	mu       sync.Mutex
}

func (f *fakeScanner) Scan(_ context.Context, _ time.Time) ([]model.Fixture, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.fixtures, f.err
}

func (f *fakeScanner) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeAnalyzer struct{}

func (fakeAnalyzer) AnalyzeFixture(_ context.Context, fixture model.Fixture) (*model.Analysis, error) {
	home, away, err := analyze.ParseIdentifier(fixture.Identifier)
	if err != nil {
		return nil, err
	}
	return &model.Analysis{
		Match:  fixture.Identifier,
		League: fixture.League,
		Home:   model.TeamForecast{Team: home, Form: model.Form{Source: model.FormObserved}},
		Away:   model.TeamForecast{Team: away, Form: model.Form{Source: model.FormSynthesized}},
		Result: model.PredictionResult{Label: model.LabelDraw, Confidence: model.ConfidenceBPlus, Scoreline: "80 - 75"},
	}, nil
}

type fakeLedger struct {
	mu      sync.Mutex
	entries []model.LogEntry
	failOn  string
}

func (f *fakeLedger) InsertLog(_ context.Context, entry *model.LogEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if entry.Match == f.failOn {
		return errors.New("connection reset")
	}
	entry.ID = int64(len(f.entries) + 1)
	f.entries = append(f.entries, *entry)
	return nil
}

type failingSink struct{ sent int }

func (s *failingSink) Name() string { return "failing" }

func (s *failingSink) Send(context.Context, model.LogEntry) error {
	s.sent++
	return errors.New("sink unavailable")
}

var runDate = time.Date(2025, 7, 4, 12, 0, 0, 0, time.UTC)

func TestRunDailyRecordsPending(t *testing.T) {
	ledger := &fakeLedger{}
	r := New(&fakeScanner{fixtures: []model.Fixture{
		{Identifier: "Seattle Storm - Dallas Wings", League: "WNBA"},
		{Identifier: "Minnesota Twins - Oakland Athletics", League: "MLB"},
	}}, fakeAnalyzer{}, ledger, Options{})

	res, err := r.RunDaily(context.Background(), runDate)
	require.NoError(t, err)

	_, err = uuid.Parse(res.RunID)
	assert.NoError(t, err)
	assert.Equal(t, "2025-07-04", res.Date)
	assert.Len(t, res.Analyses, 2)
	assert.Empty(t, res.Skipped)

	require.Len(t, ledger.entries, 2)
	for i, want := range []string{"Seattle Storm - Dallas Wings", "Minnesota Twins - Oakland Athletics"} {
		e := ledger.entries[i]
		assert.Equal(t, want, e.Match, "ledger keeps discovery order")
		assert.Equal(t, model.ResultPending, e.Result)
		assert.Zero(t, e.ROI)
		assert.Equal(t, res.RunID, e.RunID)
		assert.Equal(t, "2025-07-04", e.Date)
		assert.Equal(t, model.FormSynthesized, e.AwayFormSource)
	}
}

func TestRunDailySyncFailureKeepsLedger(t *testing.T) {
	ledger := &fakeLedger{}
	sink := &failingSink{}
	r := New(&fakeScanner{fixtures: []model.Fixture{
		{Identifier: "Seattle Storm - Dallas Wings"},
	}}, fakeAnalyzer{}, ledger, Options{Sinks: []export.Sink{sink}})

	res, err := r.RunDaily(context.Background(), runDate)
	require.NoError(t, err)

	assert.Equal(t, 1, res.SyncFailures)
	assert.Equal(t, 1, sink.sent)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, model.ResultPending, res.Entries[0].Result)
	assert.Len(t, ledger.entries, 1)
}

func TestRunDailySkips(t *testing.T) {
	ledger := &fakeLedger{failOn: "Minnesota Twins - Oakland Athletics"}
	sink := &failingSink{}
	r := New(&fakeScanner{fixtures: []model.Fixture{
		{Identifier: "Seattle Storm vs Dallas Wings"},
		{Identifier: "Minnesota Twins - Oakland Athletics"},
		{Identifier: "Seattle Storm - Dallas Wings"},
	}}, fakeAnalyzer{}, ledger, Options{Concurrency: 1, Sinks: []export.Sink{sink}})

	res, err := r.RunDaily(context.Background(), runDate)
	require.NoError(t, err)

	assert.Equal(t, []string{"Seattle Storm vs Dallas Wings", "Minnesota Twins - Oakland Athletics"}, res.Skipped)
	assert.Len(t, res.Analyses, 2)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, "Seattle Storm - Dallas Wings", res.Entries[0].Match)
	assert.Equal(t, 1, sink.sent, "entries that failed to persist are not synced")
}

func TestRunDailyScanError(t *testing.T) {
	r := New(&fakeScanner{err: errors.New("feed down")}, fakeAnalyzer{}, &fakeLedger{}, Options{})

	_, err := r.RunDaily(context.Background(), runDate)
	assert.ErrorContains(t, err, "feed down")
}

func TestRunDailyManyFixtures(t *testing.T) {
	var fixtures []model.Fixture
	for i := 0; i < 25; i++ {
		fixtures = append(fixtures, model.Fixture{Identifier: fmt.Sprintf("Home %d - Away %d", i, i)})
	}
	ledger := &fakeLedger{}
	r := New(&fakeScanner{fixtures: fixtures}, fakeAnalyzer{}, ledger, Options{Concurrency: 3})

	res, err := r.RunDaily(context.Background(), runDate)
	require.NoError(t, err)
	require.Len(t, ledger.entries, 25)
	for i, e := range res.Entries {
		assert.Equal(t, fixtures[i].Identifier, e.Match)
	}
}

func TestScheduleStopsOnCancel(t *testing.T) {
	scanner := &fakeScanner{}
	r := New(scanner, fakeAnalyzer{}, &fakeLedger{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- r.Schedule(ctx, 10*time.Millisecond, func() time.Time { return runDate })
	}()

	assert.Eventually(t, func() bool { return scanner.Calls() >= 2 }, time.Second, 5*time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("schedule did not stop")
	}
}

func TestScheduleContinuesAfterFailure(t *testing.T) {
	scanner := &fakeScanner{err: errors.New("feed down")}
	r := New(scanner, fakeAnalyzer{}, &fakeLedger{}, Options{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	go func() { _ = r.Schedule(ctx, 5*time.Millisecond, nil) }()

	assert.Eventually(t, func() bool { return scanner.Calls() >= 3 }, time.Second, 5*time.Millisecond)
}
