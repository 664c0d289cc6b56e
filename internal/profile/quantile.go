package profile

import (
	"fmt"

	"github.com/loanfillettaz/loadflow-visualization/internal/model"
)

// quantileProbs are the cumulative probabilities the seven breakpoints sit at.
var quantileProbs = [7]float64{0.05, 0.10, 0.25, 0.50, 0.75, 0.90, 0.95}

// Breakpoints holds the seven empirical quantiles of the population load for
// one hour of day, in kW. Values must be non-decreasing from Q5 to Q95.
type Breakpoints struct {
	Q5, Q10, Q25, Q50, Q75, Q90, Q95 float64
}

func (b Breakpoints) values() [7]float64 {
	return [7]float64{b.Q5, b.Q10, b.Q25, b.Q50, b.Q75, b.Q90, b.Q95}
}

// QuantileTable maps every hour label "00:00".."23:00" to its breakpoints.
// It models a population load shape, independent of individual peak values.
type QuantileTable struct {
	hours map[string]Breakpoints
}

// NewQuantileTable builds a table and verifies that all 24 hour labels are
// present; stochastic synthesis cannot run on a partial day.
func NewQuantileTable(rows map[string]Breakpoints) (*QuantileTable, error) {
	for h := 0; h < model.HoursPerDay; h++ {
		label := model.HourLabel(h)
		if _, ok := rows[label]; !ok {
			return nil, fmt.Errorf("quantile table is missing hour %q: %w", label, model.ErrConfiguration)
		}
	}
	return &QuantileTable{hours: rows}, nil
}

// At returns the breakpoints for an hour label.
func (t *QuantileTable) At(hour string) Breakpoints {
	return t.hours[hour]
}

// Sample maps u in [0,1] through the empirical CDF for the given hour using
// piecewise-linear interpolation between the breakpoints. Results are clamped
// to [Q5, Q95] (u outside the tabulated range saturates at the end points)
// and never negative.
func (t *QuantileTable) Sample(hour string, u float64) float64 {
	v := interpolate(u, t.hours[hour].values())
	if v < 0 {
		return 0
	}
	return v
}

// interpolate performs linear interpolation of u over (quantileProbs, vals),
// saturating outside the breakpoint range.
func interpolate(u float64, vals [7]float64) float64 {
	if u <= quantileProbs[0] {
		return vals[0]
	}
	if u >= quantileProbs[len(quantileProbs)-1] {
		return vals[len(vals)-1]
	}
	for i := 1; i < len(quantileProbs); i++ {
		if u <= quantileProbs[i] {
			span := quantileProbs[i] - quantileProbs[i-1]
			frac := (u - quantileProbs[i-1]) / span
			return vals[i-1] + frac*(vals[i]-vals[i-1])
		}
	}
	return vals[len(vals)-1]
}
