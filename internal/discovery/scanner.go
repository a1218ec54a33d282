// Package discovery finds the fixtures to analyze for a given day.
package discovery

import (
	"context"
	"fmt"
	"time"

	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Scanner lists the fixtures scheduled on a date
type Scanner interface {
	Scan(ctx context.Context, date time.Time) ([]model.Fixture, error)
}

// DefaultFixtures is the sample slate used when no feed is configured
var DefaultFixtures = []model.Fixture{
	{Identifier: "Seattle Storm - Dallas Wings", League: "WNBA"},
	{Identifier: "Minnesota Twins - Oakland Athletics", League: "MLB"},
}

// StaticScanner returns the same fixtures for every date
type StaticScanner struct {
	Fixtures []model.Fixture
}

// Scan implements Scanner
func (s StaticScanner) Scan(_ context.Context, _ time.Time) ([]model.Fixture, error) {
	fixtures := s.Fixtures
	if fixtures == nil {
		fixtures = DefaultFixtures
	}
	out := make([]model.Fixture, len(fixtures))
	copy(out, fixtures)
	return out, nil
}

// EventsFetcher is the upcoming events feed
type EventsFetcher interface {
	GetEvents(ctx context.Context, sport string) ([]model.Event, error)
}

// FeedScanner lists events from the odds feed for each configured league
type FeedScanner struct {
	feed    EventsFetcher
	leagues map[string]string // league name -> sport key
	loc     *time.Location
	logger  zerolog.Logger
}

// NewFeedScanner creates a scanner over leagues. Dates are compared in loc (UTC when nil).
func NewFeedScanner(feed EventsFetcher, leagues map[string]string, loc *time.Location) *FeedScanner {
	if loc == nil {
		loc = time.UTC
	}
	return &FeedScanner{
		feed:    feed,
		leagues: leagues,
		loc:     loc,
		logger:  log.With().Str("component", "feed_scanner").Logger(),
	}
}

// Scan implements Scanner. A league whose feed fails is skipped; Scan only
// fails when every league failed.
func (s *FeedScanner) Scan(ctx context.Context, date time.Time) ([]model.Fixture, error) {
	day := date.In(s.loc).Format(model.DateLayout)

	var fixtures []model.Fixture
	var lastErr error
	failed := 0
	for league, sport := range s.leagues {
		events, err := s.feed.GetEvents(ctx, sport)
		if err != nil {
			failed++
			lastErr = err
			s.logger.Warn().Err(err).Str("league", league).Msg("Events feed failed, skipping league")
			continue
		}

		for _, ev := range events {
			if ev.CommenceTime.In(s.loc).Format(model.DateLayout) != day {
				continue
			}
			fixtures = append(fixtures, model.Fixture{
				Identifier:   ev.HomeTeam + " - " + ev.AwayTeam,
				League:       league,
				CommenceTime: ev.CommenceTime,
			})
		}
	}

	if len(s.leagues) > 0 && failed == len(s.leagues) {
		return nil, fmt.Errorf("scanning %s: all leagues failed: %w", day, lastErr)
	}

	s.logger.Info().Str("date", day).Int("fixtures", len(fixtures)).Msg("Fixtures discovered")
	return fixtures, nil
}
