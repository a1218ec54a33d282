package analyze

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Alias1177/matchforecast/internal/metrics"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Separator splits a match identifier into home and away team names
const Separator = " - "

// ErrMalformedIdentifier is returned for identifiers that are not "Home - Away"
var ErrMalformedIdentifier = errors.New("malformed match identifier")

// FormSource resolves a team's recent form. Implementations never fail.
type FormSource interface {
	GetLeagueForm(ctx context.Context, league, team string) model.Form
}

// Forecaster projects a strength score from a form series
type Forecaster interface {
	Forecast(series []float64) model.Forecast
}

// Classifier labels a pair of forecast scores
type Classifier interface {
	Classify(home, away float64) model.PredictionResult
}

// Analyzer composes form lookup, forecasting and classification for one match.
// It holds no per-match state and can be shared between goroutines.
type Analyzer struct {
	forms      FormSource
	forecaster Forecaster
	classifier Classifier
	logger     zerolog.Logger
}

// NewAnalyzer creates a match analyzer
func NewAnalyzer(forms FormSource, forecaster Forecaster, classifier Classifier) *Analyzer {
	return &Analyzer{
		forms:      forms,
		forecaster: forecaster,
		classifier: classifier,
		logger:     log.With().Str("component", "match_analyzer").Logger(),
	}
}

// ParseIdentifier splits "Home - Away" into trimmed team names
func ParseIdentifier(identifier string) (home, away string, err error) {
	parts := strings.SplitN(identifier, Separator, 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedIdentifier, identifier)
	}

	home, away = strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
	if home == "" || away == "" {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedIdentifier, identifier)
	}
	return home, away, nil
}

// Analyze predicts a match given only its identifier
func (a *Analyzer) Analyze(ctx context.Context, identifier string) (*model.Analysis, error) {
	return a.AnalyzeFixture(ctx, model.Fixture{Identifier: identifier})
}

// AnalyzeFixture predicts a discovered fixture, using its league to pick the results feed
func (a *Analyzer) AnalyzeFixture(ctx context.Context, fixture model.Fixture) (*model.Analysis, error) {
	home, away, err := ParseIdentifier(fixture.Identifier)
	if err != nil {
		return nil, err
	}

	homeForm := a.forms.GetLeagueForm(ctx, fixture.League, home)
	awayForm := a.forms.GetLeagueForm(ctx, fixture.League, away)

	homeForecast := a.forecaster.Forecast(homeForm.Series())
	awayForecast := a.forecaster.Forecast(awayForm.Series())

	result := a.classifier.Classify(homeForecast.Value, awayForecast.Value)
	metrics.Predictions.WithLabelValues(string(result.Label), string(result.Confidence)).Inc()

	a.logger.Debug().
		Str("match", fixture.Identifier).
		Str("home_form", string(homeForm.Source)).
		Str("away_form", string(awayForm.Source)).
		Float64("home_score", homeForecast.Value).
		Float64("away_score", awayForecast.Value).
		Str("label", string(result.Label)).
		Str("confidence", string(result.Confidence)).
		Msg("Match analyzed")

	return &model.Analysis{
		Match:  fixture.Identifier,
		League: fixture.League,
		Home:   model.TeamForecast{Team: home, Form: homeForm, Forecast: homeForecast},
		Away:   model.TeamForecast{Team: away, Form: awayForm, Forecast: awayForecast},
		Result: result,
	}, nil
}
