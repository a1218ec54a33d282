// Package forecast fits a short-horizon ARIMA(2,1,1) model to a form series
// and projects it one step ahead.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/optimize"
	"gonum.org/v1/gonum/stat"
)

// Model order
const (
	ArOrder   = 2
	DiffOrder = 1
	MaOrder   = 1
)

// MinObservations is the shortest series that can be fitted
const MinObservations = 5

// ridge keeps the optimum away from the unit circle where the transform saturates
const ridge = 0.01

var (
	ErrInsufficientData = errors.New("series too short to fit")
	ErrDegenerateSeries = errors.New("differenced series has no variance")
	ErrFitFailed        = errors.New("model fit failed")
)

// ARIMA is a fitted ARIMA(2,1,1) model without constant term
type ARIMA struct {
	Phi   [ArOrder]float64
	Theta float64
	SSE   float64 // conditional sum of squared residuals

	last      float64   // last observed level
	diffs     []float64 // differenced series
	residuals []float64
}

// Fit estimates the model by conditional sum of squares. AR parameters are
// searched through their partial autocorrelations and the MA parameter through
// tanh, which keeps the fit stationary and invertible.
func Fit(series []float64) (*ARIMA, error) {
	if len(series) < MinObservations {
		return nil, fmt.Errorf("%w: %d observations, need %d", ErrInsufficientData, len(series), MinObservations)
	}
	if floats.HasNaN(series) {
		return nil, fmt.Errorf("%w: series contains NaN", ErrFitFailed)
	}

	diffs := difference(series)
	if stat.Variance(diffs, nil) == 0 {
		return nil, ErrDegenerateSeries
	}

	problem := optimize.Problem{
		Func: func(x []float64) float64 {
			phi, theta := unpack(x)
			sse, _ := conditionalResiduals(diffs, phi, theta)
			return sse + ridge*floats.Dot(x, x)
		},
	}

	result, err := optimize.Minimize(problem, make([]float64, ArOrder+MaOrder), nil, &optimize.NelderMead{SimplexSize: 0.5})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFitFailed, err)
	}
	if floats.HasNaN(result.X) || math.IsInf(result.F, 0) || math.IsNaN(result.F) {
		return nil, fmt.Errorf("%w: optimizer returned non-finite parameters", ErrFitFailed)
	}

	phi, theta := unpack(result.X)
	sse, residuals := conditionalResiduals(diffs, phi, theta)

	return &ARIMA{
		Phi:       phi,
		Theta:     theta,
		SSE:       sse,
		last:      series[len(series)-1],
		diffs:     diffs,
		residuals: residuals,
	}, nil
}

// Forecast projects the level one step past the end of the series
func (m *ARIMA) Forecast() float64 {
	n := len(m.diffs)
	next := m.Phi[0]*m.diffs[n-1] + m.Phi[1]*m.diffs[n-2] + m.Theta*m.residuals[n-1]
	return m.last + next
}

// unpack maps unconstrained optimizer coordinates to model parameters
func unpack(x []float64) ([ArOrder]float64, float64) {
	r1, r2 := math.Tanh(x[0]), math.Tanh(x[1])
	// Durbin-Levinson step from partial autocorrelations
	phi := [ArOrder]float64{r1 * (1 - r2), r2}
	return phi, math.Tanh(x[2])
}

func conditionalResiduals(d []float64, phi [ArOrder]float64, theta float64) (float64, []float64) {
	residuals := make([]float64, len(d))
	var sse float64
	for t := ArOrder; t < len(d); t++ {
		residuals[t] = d[t] - phi[0]*d[t-1] - phi[1]*d[t-2] - theta*residuals[t-1]
		sse += residuals[t] * residuals[t]
	}
	return sse, residuals
}

func difference(series []float64) []float64 {
	d := make([]float64, len(series)-DiffOrder)
	for i := range d {
		d[i] = series[i+1] - series[i]
	}
	return d
}
