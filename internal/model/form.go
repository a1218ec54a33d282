package model

// Outcome is a single match result from one team's point of view
type Outcome int

const (
	Loss Outcome = 0
	Draw Outcome = 1
	Win  Outcome = 2
)

// Valid reports whether o is one of Loss, Draw or Win
func (o Outcome) Valid() bool {
	return o >= Loss && o <= Win
}

// FormSource tells whether a form sequence came from the results feed or was synthesized
type FormSource string

const (
	FormObserved    FormSource = "OBSERVED"
	FormSynthesized FormSource = "SYNTHESIZED"
)

// Form is a team's recent results, oldest first
type Form struct {
	Team     string     `json:"team"`
	Outcomes []Outcome  `json:"outcomes"`
	Source   FormSource `json:"source"`
	Reason   string     `json:"reason,omitempty"` // why the form was synthesized
}

// Synthetic reports whether the form is a fallback rather than real data
func (f Form) Synthetic() bool {
	return f.Source == FormSynthesized
}

// Series converts the outcomes to a float series for model fitting
func (f Form) Series() []float64 {
	series := make([]float64, len(f.Outcomes))
	for i, o := range f.Outcomes {
		series[i] = float64(o)
	}
	return series
}

// Forecast is one team's projected strength for the next match
type Forecast struct {
	Value    float64 `json:"value"`
	Fallback bool    `json:"fallback"`         // true when the model could not be fitted
	Reason   string  `json:"reason,omitempty"` // fit failure that triggered the fallback
}
