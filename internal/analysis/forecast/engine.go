package forecast

import (
	"math"

	"github.com/Alias1177/matchforecast/internal/metrics"
	"github.com/Alias1177/matchforecast/internal/model"
	"github.com/Alias1177/matchforecast/internal/utils"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Engine produces a forecast for every series it is given. When the model
// cannot be fitted it substitutes a uniform random estimate in [0, 1).
type Engine struct {
	rnd    *utils.Rand
	logger zerolog.Logger
}

// NewEngine creates a forecasting engine using rnd for fallback estimates
func NewEngine(rnd *utils.Rand) *Engine {
	return &Engine{
		rnd:    rnd,
		logger: log.With().Str("component", "forecast_engine").Logger(),
	}
}

// Forecast fits a fresh model to series and projects one step ahead
func (e *Engine) Forecast(series []float64) model.Forecast {
	fit, err := Fit(series)
	if err == nil {
		value := fit.Forecast()
		if !math.IsNaN(value) && !math.IsInf(value, 0) {
			return model.Forecast{Value: value}
		}
		err = ErrFitFailed
	}

	e.logger.Debug().Err(err).Int("length", len(series)).Msg("Model fit failed, using random estimate")
	metrics.ForecastFallbacks.Inc()
	return model.Forecast{
		Value:    e.rnd.Float64(),
		Fallback: true,
		Reason:   err.Error(),
	}
}
