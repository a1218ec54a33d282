// Package form resolves a team's recent results into a form sequence.
package form

import (
	"context"
	"strconv"
	"strings"

	"github.com/Alias1177/matchforecast/internal/metrics"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/Alias1177/matchforecast/internal/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// MaxLength is the number of most recent results kept
	MaxLength = 10
	// MinObserved is the fewest real results accepted before falling back
	MinObserved = 5
	// DefaultDaysFrom is how far back the results feed is queried
	DefaultDaysFrom = 30
	// DefaultSport is used when a league has no sport key configured
	DefaultSport = "basketball_wnba"
)

// Reasons recorded on synthesized forms
const (
	ReasonFeedError    = "feed error"
	ReasonInsufficient = "insufficient results"
)

// ScoresFetcher is the results feed the provider reads from
type ScoresFetcher interface {
	GetScores(ctx context.Context, sport string, daysFrom int) ([]model.Game, error)
}

// Options configures a Provider
type Options struct {
	DaysFrom     int
	DefaultSport string
	LeagueSports map[string]string // league name -> feed sport key
}

// Provider turns results feed records into team forms. It never fails:
// when real data is unavailable it returns a synthesized form.
type Provider struct {
	feed         ScoresFetcher
	rnd          *utils.Rand
	daysFrom     int
	defaultSport string
	leagueSports map[string]string
	logger       zerolog.Logger
}

// NewProvider creates a Provider reading from feed
func NewProvider(feed ScoresFetcher, rnd *utils.Rand, opts Options) *Provider {
	if opts.DaysFrom <= 0 {
		opts.DaysFrom = DefaultDaysFrom
	}
	if opts.DefaultSport == "" {
		opts.DefaultSport = DefaultSport
	}

	sports := make(map[string]string, len(opts.LeagueSports))
	for league, sport := range opts.LeagueSports {
		sports[strings.ToUpper(strings.TrimSpace(league))] = sport
	}

	return &Provider{
		feed:         feed,
		rnd:          rnd,
		daysFrom:     opts.DaysFrom,
		defaultSport: opts.DefaultSport,
		leagueSports: sports,
		logger:       log.With().Str("component", "form_provider").Logger(),
	}
}

// GetForm returns the form of team in the default sport
func (p *Provider) GetForm(ctx context.Context, team string) model.Form {
	return p.GetLeagueForm(ctx, "", team)
}

// GetLeagueForm returns the form of team using the sport key mapped to league
func (p *Provider) GetLeagueForm(ctx context.Context, league, team string) model.Form {
	sport := p.SportFor(league)

	games, err := p.feed.GetScores(ctx, sport, p.daysFrom)
	if err != nil {
		p.logger.Warn().Err(err).Str("team", team).Str("sport", sport).Msg("Results feed unavailable, synthesizing form")
		return p.synthesize(team, ReasonFeedError)
	}

	outcomes := Outcomes(games, team)
	if len(outcomes) < MinObserved {
		p.logger.Info().Str("team", team).Int("found", len(outcomes)).Msg("Too few completed games, synthesizing form")
		return p.synthesize(team, ReasonInsufficient)
	}

	if len(outcomes) > MaxLength {
		outcomes = outcomes[len(outcomes)-MaxLength:]
	}

	metrics.FormsFetched.WithLabelValues(string(model.FormObserved)).Inc()
	return model.Form{Team: team, Outcomes: outcomes, Source: model.FormObserved}
}

// SportFor resolves the feed sport key for a league
func (p *Provider) SportFor(league string) string {
	if sport, ok := p.leagueSports[strings.ToUpper(strings.TrimSpace(league))]; ok && sport != "" {
		return sport
	}
	return p.defaultSport
}

func (p *Provider) synthesize(team, reason string) model.Form {
	outcomes := make([]model.Outcome, MaxLength)
	for i := range outcomes {
		outcomes[i] = model.Outcome(p.rnd.Intn(3))
	}

	metrics.FormsFetched.WithLabelValues(string(model.FormSynthesized)).Inc()
	return model.Form{Team: team, Outcomes: outcomes, Source: model.FormSynthesized, Reason: reason}
}

// Outcomes encodes team's completed games in feed order. Games without
// both scores, or with scores that are not numbers, are skipped.
func Outcomes(games []model.Game, team string) []model.Outcome {
	var outcomes []model.Outcome
	for _, g := range games {
		if !g.Completed || (g.HomeTeam != team && g.AwayTeam != team) {
			continue
		}

		home, away, ok := sideScores(g)
		if !ok {
			continue
		}

		own, opp := home, away
		if g.AwayTeam == team {
			own, opp = away, home
		}

		switch {
		case own > opp:
			outcomes = append(outcomes, model.Win)
		case own == opp:
			outcomes = append(outcomes, model.Draw)
		default:
			outcomes = append(outcomes, model.Loss)
		}
	}
	return outcomes
}

// sideScores matches the score entries to the home and away teams by name,
// falling back to feed order when names are missing.
func sideScores(g model.Game) (home, away int, ok bool) {
	if len(g.Scores) < 2 {
		return 0, 0, false
	}

	homeRaw, awayRaw := "", ""
	for _, s := range g.Scores {
		switch s.Name {
		case g.HomeTeam:
			homeRaw = s.Score
		case g.AwayTeam:
			awayRaw = s.Score
		}
	}
	if homeRaw == "" && awayRaw == "" {
		homeRaw, awayRaw = g.Scores[0].Score, g.Scores[1].Score
	}

	home, errHome := strconv.Atoi(strings.TrimSpace(homeRaw))
	away, errAway := strconv.Atoi(strings.TrimSpace(awayRaw))
	if errHome != nil || errAway != nil {
		return 0, 0, false
	}
	return home, away, true
}
